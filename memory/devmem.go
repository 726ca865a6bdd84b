package memory

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/go-logr/logr"
	"golang.org/x/sys/unix"
)

const DefaultDevMem = "/dev/mem"

// DevMem reads physical memory through a /dev/mem style character device.
// Reads are confined to the legacy BIOS window.
type DevMem struct {
	log  logr.Logger
	file *os.File
	as   *AddressSpace
}

func OpenDevMem(log logr.Logger, path string) (*DevMem, error) {
	f, err := os.OpenFile(path, os.O_RDONLY|unix.O_SYNC, 0)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}

	log.V(1).Info("Opened physical memory device", "path", path)

	return &DevMem{
		log:  log,
		file: f,
		as:   Legacy(),
	}, nil
}

func (d *DevMem) Read(addr uint64, n int) ([]byte, error) {
	if err := checkRange(d.as, addr, n); err != nil {
		return nil, err
	}

	buf := make([]byte, n)
	fd := int(d.file.Fd())

	for off := 0; off < n; {
		m, err := unix.Pread(fd, buf[off:], int64(addr)+int64(off))
		if errors.Is(err, unix.EINTR) {
			continue
		}

		if err != nil {
			return nil, fmt.Errorf("pread %d bytes at %#x: %w", n-off, addr+uint64(off), err)
		}

		if m == 0 {
			return nil, fmt.Errorf("pread at %#x: %w", addr+uint64(off), io.ErrUnexpectedEOF)
		}

		off += m
	}

	d.log.V(2).Info("Read physical memory", "addr", fmt.Sprintf("%#x", addr), "len", n)

	return buf, nil
}

func (d *DevMem) Close() error {
	return d.file.Close()
}
