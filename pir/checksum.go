package pir

import (
	"bytes"
	"fmt"
)

// Checksum returns the 8-bit sum of b. A valid table sums to 0.
func Checksum(b []byte) uint8 {
	sum := uint8(0)
	for _, x := range b {
		sum += x
	}

	return sum
}

// ValidateHeader runs the checks that need only the header: signature,
// version and size.
func ValidateHeader(h *Header) error {
	if !bytes.Equal(h.Signature[:], Signature[:]) {
		return fmt.Errorf("%q: %w", h.Signature[:], ErrBadSignature)
	}

	if h.Version != Version10 {
		return fmt.Errorf("0x%04x: %w", h.Version, ErrBadVersion)
	}

	if h.TableSize <= HeaderSize || h.TableSize%SlotSize != 0 {
		return fmt.Errorf("%d bytes: %w", h.TableSize, ErrBadSize)
	}

	return nil
}

// Validate checks h and the whole table it describes.
func Validate(h *Header, table []byte) error {
	if err := ValidateHeader(h); err != nil {
		return err
	}

	if len(table) != int(h.TableSize) {
		return fmt.Errorf("have %d of %d bytes: %w", len(table), h.TableSize, ErrBadSize)
	}

	if sum := Checksum(table); sum != 0 {
		return fmt.Errorf("sum 0x%02x: %w", sum, ErrBadChecksum)
	}

	return nil
}
