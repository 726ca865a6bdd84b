package memory

import (
	"errors"
	"fmt"
)

const (
	// LegacyBase is the start of the BIOS F-segment.
	LegacyBase = 0xF0000

	// LegacySize spans the F-segment plus the largest extent a 16-bit
	// sized table found at its last paragraph can reach.
	LegacySize = 0x20000
)

var (
	ErrOutOfWindow   = errors.New("address range outside of readable window")
	errInvalidLength = errors.New("invalid read length")
)

// Reader reads bytes from absolute physical addresses. Implementations never
// write to the underlying memory.
type Reader interface {
	Read(addr uint64, n int) ([]byte, error)
}

// Legacy returns the address space a $PIR scan is allowed to touch.
func Legacy() *AddressSpace {
	return NewAddressSpace("legacy-bios", LegacyBase, LegacySize)
}

func checkRange(as *AddressSpace, addr uint64, n int) error {
	if n <= 0 {
		return fmt.Errorf("%d bytes at %#x: %w", n, addr, errInvalidLength)
	}

	if !as.Contains(addr, n) {
		return fmt.Errorf("%d bytes at %#x (%s %#x-%#x): %w",
			n, addr, as.Name, as.Start, as.End(), ErrOutOfWindow)
	}

	return nil
}
