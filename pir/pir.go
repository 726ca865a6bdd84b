// Package pir finds and decodes the PCI IRQ Routing ($PIR) table that legacy
// BIOSes publish in the F-segment.
//
// Layouts follow version 1.0 of Microsoft's PCI IRQ routing table format.
package pir

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"strconv"
	"strings"
)

const (
	HeaderSize = 32
	SlotSize   = 16

	// Version10 is the only accepted version, major 1 minor 0.
	Version10 = 0x0100

	// The table sits on a paragraph boundary in [ScanStart, ScanEnd].
	ScanStart = 0xF0000
	ScanEnd   = 0xFFFF0
	ScanStep  = 16
)

//nolint:gochecknoglobals
var Signature = [4]byte{'$', 'P', 'I', 'R'}

// DevFunc packs a PCI device number in bits [7:3] and a function number in
// bits [2:0].
type DevFunc uint8

func NewDevFunc(dev, fn uint8) DevFunc {
	return DevFunc((dev&0x1f)<<3 | fn&0x7)
}

func (d DevFunc) Device() uint8 {
	return uint8(d) >> 3
}

func (d DevFunc) Function() uint8 {
	return uint8(d) & 0x7
}

// DeviceNumber holds a device number in bits [7:3]; the low bits are
// reserved and ignored.
type DeviceNumber uint8

func NewDeviceNumber(dev uint8) DeviceNumber {
	return DeviceNumber((dev & 0x1f) << 3)
}

func (d DeviceNumber) Device() uint8 {
	return uint8(d) >> 3
}

// RouterID is a vendor ID in the low 16 bits and a device ID in the high 16
// bits.
type RouterID uint32

func NewRouterID(vendor, device uint16) RouterID {
	return RouterID(uint32(device)<<16 | uint32(vendor))
}

func (r RouterID) Vendor() uint16 {
	return uint16(r & 0xffff)
}

func (r RouterID) Device() uint16 {
	return uint16(r >> 16)
}

// IRQBitmap has bit i set when ISA IRQ i (0-15) is usable.
type IRQBitmap uint16

func (m IRQBitmap) Has(irq int) bool {
	if irq < 0 || irq > 15 {
		return false
	}

	return m&(1<<uint(irq)) != 0
}

func (m IRQBitmap) IRQs() []int {
	irqs := []int{}

	for i := 0; i < 16; i++ {
		if m.Has(i) {
			irqs = append(irqs, i)
		}
	}

	return irqs
}

// String renders the raw value followed by the IRQ list, e.g. "0x0c20 (5,10,11)".
func (m IRQBitmap) String() string {
	irqs := m.IRQs()
	s := make([]string, len(irqs))

	for i, irq := range irqs {
		s[i] = strconv.Itoa(irq)
	}

	return fmt.Sprintf("0x%04x (%s)", uint16(m), strings.Join(s, ","))
}

// Header is the fixed 32 byte table header.
type Header struct {
	Signature        [4]byte
	Version          uint16
	TableSize        uint16
	RouterBus        uint8
	RouterDevFunc    DevFunc
	PCIExclusiveIRQs IRQBitmap
	CompatibleRouter RouterID
	MiniportData     uint32
	Reserved         [11]uint8
	Checksum         uint8
}

func (h *Header) MajorVersion() uint8 {
	return uint8(h.Version >> 8)
}

func (h *Header) MinorVersion() uint8 {
	return uint8(h.Version & 0xff)
}

func (h *Header) Bytes() ([]byte, error) {
	buf := new(bytes.Buffer)

	if err := binary.Write(buf, binary.LittleEndian, h); err != nil {
		return []byte{}, err
	}

	return buf.Bytes(), nil
}

func ParseHeader(b []byte) (Header, error) {
	var h Header

	if len(b) < HeaderSize {
		return h, fmt.Errorf("header needs %d bytes, got %d: %w", HeaderSize, len(b), ErrBadSize)
	}

	if err := binary.Read(bytes.NewReader(b[:HeaderSize]), binary.LittleEndian, &h); err != nil {
		return h, err
	}

	return h, nil
}

// Pin is one of the four PCI interrupt pins of a slot.
type Pin int

const (
	INTA Pin = iota
	INTB
	INTC
	INTD
)

func (p Pin) String() string {
	if p < INTA || p > INTD {
		return fmt.Sprintf("Pin(%d)", int(p))
	}

	return fmt.Sprintf("INT%c#", 'A'+rune(p))
}

// Link routes one interrupt pin: Value is the router specific link and IRQs
// the ISA interrupts the pin may be steered to.
type Link struct {
	Value uint8
	IRQs  IRQBitmap
}

// Slot is one 16 byte routing record.
type Slot struct {
	Bus        uint8
	Device     DeviceNumber
	Links      [4]Link
	SlotNumber uint8
	Reserved   uint8
}

// Embedded reports whether the record describes an onboard device.
func (s *Slot) Embedded() bool {
	return s.SlotNumber == 0
}

func (s *Slot) Bytes() ([]byte, error) {
	buf := new(bytes.Buffer)

	if err := binary.Write(buf, binary.LittleEndian, s); err != nil {
		return []byte{}, err
	}

	return buf.Bytes(), nil
}

func ParseSlot(b []byte) (Slot, error) {
	var s Slot

	if len(b) < SlotSize {
		return s, fmt.Errorf("slot needs %d bytes, got %d: %w", SlotSize, len(b), ErrBadSize)
	}

	if err := binary.Read(bytes.NewReader(b[:SlotSize]), binary.LittleEndian, &s); err != nil {
		return s, err
	}

	return s, nil
}
