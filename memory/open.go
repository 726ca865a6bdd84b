package memory

import (
	"io"

	"github.com/go-logr/logr"
)

// Config selects the physical memory source.
type Config struct {
	// DevMem is the character device used when Image is empty.
	DevMem string

	// Image is an optional firmware dump used instead of DevMem.
	Image     string
	ImageBase uint64
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// Open returns the reader described by c together with a closer for it.
func Open(log logr.Logger, c Config) (Reader, io.Closer, error) {
	if c.Image != "" {
		img, err := LoadImage(c.Image, c.ImageBase)
		if err != nil {
			return nil, nil, err
		}

		log.V(1).Info("Using firmware image", "path", c.Image,
			"base", c.ImageBase, "size", len(img.Buf))

		return img, nopCloser{}, nil
	}

	path := c.DevMem
	if path == "" {
		path = DefaultDevMem
	}

	d, err := OpenDevMem(log, path)
	if err != nil {
		return nil, nil, err
	}

	return d, d, nil
}
