package pir

import (
	"fmt"

	"github.com/bobuhiro11/pirqdump/memory"
)

// SlotCount is (TableSize-32)/16, or 0 for tables no larger than a header.
func SlotCount(h *Header) int {
	if h.TableSize <= HeaderSize {
		return 0
	}

	return (int(h.TableSize) - HeaderSize) / SlotSize
}

func SlotAddr(addr uint64, index int) uint64 {
	return addr + HeaderSize + uint64(index)*SlotSize
}

// DecodeSlot reads slot index of the table at addr straight from memory.
// Nothing is cached; the table checksum already covered the slot bytes.
func DecodeSlot(r memory.Reader, addr uint64, h *Header, index int) (Slot, error) {
	if n := SlotCount(h); index < 0 || index >= n {
		return Slot{}, fmt.Errorf("slot %d of %d: %w", index, n, ErrOutOfRange)
	}

	b, err := read(r, SlotAddr(addr, index), SlotSize)
	if err != nil {
		return Slot{}, err
	}

	return ParseSlot(b)
}

func (t *Table) SlotCount() int {
	return SlotCount(&t.Header)
}

func (t *Table) SlotAddr(index int) uint64 {
	return SlotAddr(t.Addr, index)
}

func (t *Table) Slot(r memory.Reader, index int) (Slot, error) {
	return DecodeSlot(r, t.Addr, &t.Header, index)
}
