package memory

import (
	"fmt"
	"os"
)

// Image is a firmware memory dump mapped at a fixed physical base, e.g. the
// 64 KiB F-segment captured with dd from /dev/mem.
type Image struct {
	AS  *AddressSpace
	Buf []byte
}

func NewImage(base uint64, buf []byte) *Image {
	return &Image{
		AS:  NewAddressSpace("image", base, uint64(len(buf))),
		Buf: buf,
	}
}

// LoadImage reads a whole image file and maps it at base.
func LoadImage(path string, base uint64) (*Image, error) {
	buf, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("load image %s: %w", path, err)
	}

	img := NewImage(base, buf)
	img.AS.Name = path

	return img, nil
}

func (i *Image) Read(addr uint64, n int) ([]byte, error) {
	if err := checkRange(i.AS, addr, n); err != nil {
		return nil, err
	}

	off := addr - i.AS.Start
	out := make([]byte, n)
	copy(out, i.Buf[off:off+uint64(n)])

	return out, nil
}

// Write stores b at addr. It is only meant for assembling images; the
// reader interface never calls it.
func (i *Image) Write(addr uint64, b []byte) error {
	if err := checkRange(i.AS, addr, len(b)); err != nil {
		return err
	}

	copy(i.Buf[addr-i.AS.Start:], b)

	return nil
}
