package term

import (
	"bufio"
	"io"
)

type Key int

const (
	KeyUnknown Key = iota
	KeyRune
	KeyEsc
	KeyLeft
	KeyRight
	KeyUp
	KeyDown
	// KeyInterrupt is Ctrl-C, which raw mode delivers as a byte instead of
	// a signal.
	KeyInterrupt
)

type KeyEvent struct {
	Key  Key
	Rune rune
}

const (
	esc    = 0x1b
	etx    = 0x03
	csi    = '['
	ss3    = 'O'
	maxSeq = 16
)

// KeyReader decodes key presses from a raw terminal byte stream.
type KeyReader struct {
	r *bufio.Reader
}

func NewKeyReader(r io.Reader) *KeyReader {
	return &KeyReader{r: bufio.NewReader(r)}
}

// ReadKey blocks until one key press is available.
func (k *KeyReader) ReadKey() (KeyEvent, error) {
	b, err := k.r.ReadByte()
	if err != nil {
		return KeyEvent{}, err
	}

	switch b {
	case etx:
		return KeyEvent{Key: KeyInterrupt}, nil
	case esc:
		return k.escape()
	}

	if b < 0x80 {
		return KeyEvent{Key: KeyRune, Rune: rune(b)}, nil
	}

	// multi-byte UTF-8 input carries no meaning here
	if err := k.r.UnreadByte(); err != nil {
		return KeyEvent{}, err
	}

	r, _, err := k.r.ReadRune()
	if err != nil {
		return KeyEvent{}, err
	}

	return KeyEvent{Key: KeyRune, Rune: r}, nil
}

// escape tells a lone ESC from the start of a cursor key sequence. A
// terminal writes a whole sequence at once, so a sequence is only assumed
// when more bytes are already buffered.
func (k *KeyReader) escape() (KeyEvent, error) {
	if k.r.Buffered() == 0 {
		return KeyEvent{Key: KeyEsc}, nil
	}

	next, err := k.r.Peek(1)
	if err != nil || (next[0] != csi && next[0] != ss3) {
		return KeyEvent{Key: KeyEsc}, nil
	}

	_, _ = k.r.ReadByte()

	// parameters and intermediates run up to a final byte in 0x40-0x7e
	for i := 0; i < maxSeq && k.r.Buffered() > 0; i++ {
		b, err := k.r.ReadByte()
		if err != nil {
			return KeyEvent{}, err
		}

		if b < 0x40 || b > 0x7e {
			continue
		}

		switch b {
		case 'A':
			return KeyEvent{Key: KeyUp}, nil
		case 'B':
			return KeyEvent{Key: KeyDown}, nil
		case 'C':
			return KeyEvent{Key: KeyRight}, nil
		case 'D':
			return KeyEvent{Key: KeyLeft}, nil
		}

		return KeyEvent{Key: KeyUnknown}, nil
	}

	return KeyEvent{Key: KeyUnknown}, nil
}
