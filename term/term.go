package term

import (
	"bytes"
	"io"
	"os"

	xterm "golang.org/x/term"
)

func IsTerminal() bool {
	return xterm.IsTerminal(int(os.Stdin.Fd()))
}

// SetRawMode puts stdin into raw mode and returns a function restoring the
// previous mode.
func SetRawMode() (func(), error) {
	fd := int(os.Stdin.Fd())

	old, err := xterm.MakeRaw(fd)
	if err != nil {
		return func() {}, err
	}

	return func() {
		_ = xterm.Restore(fd, old)
	}, nil
}

// CRLFWriter turns "\n" into "\r\n". Raw mode disables output post
// processing, so plain newlines would not return the cursor.
type CRLFWriter struct {
	w io.Writer
}

func NewCRLFWriter(w io.Writer) *CRLFWriter {
	return &CRLFWriter{w: w}
}

func (c *CRLFWriter) Write(p []byte) (int, error) {
	if _, err := c.w.Write(bytes.ReplaceAll(p, []byte("\n"), []byte("\r\n"))); err != nil {
		return 0, err
	}

	return len(p), nil
}
