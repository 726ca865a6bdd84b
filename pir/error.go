package pir

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound means no valid table exists in the scan window. Pure APIC
	// platforms routinely omit the table.
	ErrNotFound = errors.New("no valid $PIR table in 0xF0000-0xFFFFF")

	// ErrOutOfRange is returned for a slot index at or past the slot count.
	ErrOutOfRange = errors.New("slot index out of range")

	ErrBadSignature = errors.New("bad signature")
	ErrBadVersion   = errors.New("unsupported version")
	ErrBadSize      = errors.New("bad table size")
	ErrBadChecksum  = errors.New("bad checksum")
)

// ReadError reports a failed physical memory read.
type ReadError struct {
	Addr uint64
	Len  int
	Err  error
}

func (e *ReadError) Error() string {
	return fmt.Sprintf("cannot read %d bytes at %#x: %v", e.Len, e.Addr, e.Err)
}

func (e *ReadError) Unwrap() error {
	return e.Err
}
