package memory

// AddressSpace is a named range of physical addresses.
type AddressSpace struct {
	Name  string
	Start uint64
	Size  uint64
}

func NewAddressSpace(name string, start, size uint64) *AddressSpace {
	return &AddressSpace{
		Name:  name,
		Start: start,
		Size:  size,
	}
}

// End returns the first address past the range.
func (a *AddressSpace) End() uint64 {
	return a.Start + a.Size
}

// Contains reports whether [addr, addr+n) lies inside the range.
func (a *AddressSpace) Contains(addr uint64, n int) bool {
	if n < 0 || addr < a.Start {
		return false
	}

	end := addr + uint64(n)
	if end < addr {
		return false
	}

	return end <= a.End()
}

func (a *AddressSpace) Overlaps(b *AddressSpace) bool {
	return a.Start < b.End() && b.Start < a.End()
}
