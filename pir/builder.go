package pir

import (
	"bytes"
)

// Builder assembles a well formed table, fixing up TableSize and Checksum.
// Used to synthesize firmware images.
type Builder struct {
	Header Header
	Slots  []Slot
}

func NewBuilder(routerBus uint8, routerDevFunc DevFunc, router RouterID) *Builder {
	b := &Builder{}
	b.Header.Signature = Signature
	b.Header.Version = Version10
	b.Header.RouterBus = routerBus
	b.Header.RouterDevFunc = routerDevFunc
	b.Header.CompatibleRouter = router

	return b
}

func (b *Builder) AddSlot(s Slot) {
	b.Slots = append(b.Slots, s)
}

// Bytes serializes the table. The checksum byte is chosen so that the sum of
// every byte is zero.
func (b *Builder) Bytes() ([]byte, error) {
	b.Header.TableSize = uint16(HeaderSize + SlotSize*len(b.Slots))
	b.Header.Checksum = 0

	buf := new(bytes.Buffer)

	hdr, err := b.Header.Bytes()
	if err != nil {
		return []byte{}, err
	}

	buf.Write(hdr)

	for i := range b.Slots {
		s, err := b.Slots[i].Bytes()
		if err != nil {
			return []byte{}, err
		}

		buf.Write(s)
	}

	table := buf.Bytes()

	b.Header.Checksum = Checksum(table) ^ uint8(0xff)
	b.Header.Checksum++
	table[HeaderSize-1] = b.Header.Checksum

	return table, nil
}

// Swizzled returns n slot records on bus for consecutive devices starting at
// firstDev, with the usual INTx rotation: pin p of device d uses link
// base+(d+p)%4. Every pin may use any IRQ in irqs.
func Swizzled(bus, firstDev uint8, n int, base uint8, irqs IRQBitmap) []Slot {
	slots := make([]Slot, n)

	for i := range slots {
		dev := firstDev + uint8(i)

		slots[i].Bus = bus
		slots[i].Device = NewDeviceNumber(dev)
		slots[i].SlotNumber = uint8(i)

		for p := range slots[i].Links {
			slots[i].Links[p] = Link{
				Value: base + (dev+uint8(p))%4,
				IRQs:  irqs,
			}
		}
	}

	return slots
}
