// Package present renders decoded routing table structures as text.
package present

import (
	"fmt"
	"io"
	"strings"

	"github.com/bobuhiro11/pirqdump/pir"
	"github.com/fatih/color"
)

const clearScreen = "\x1b[2J\x1b[H"

type Options struct {
	Color bool

	// Clear erases the screen before every page.
	Clear bool
}

// SlotPage is one slot record together with its position in the table.
type SlotPage struct {
	Index     int
	Count     int
	TableAddr uint64
	SlotAddr  uint64
	Slot      pir.Slot
}

type Printer struct {
	w    io.Writer
	opts Options
	err  error

	title *color.Color
	label *color.Color
	warn  *color.Color
	ok    *color.Color
}

func New(w io.Writer, opts Options) *Printer {
	p := &Printer{
		w:     w,
		opts:  opts,
		title: color.New(color.FgCyan, color.Bold),
		label: color.New(color.FgWhite),
		warn:  color.New(color.FgRed, color.Bold),
		ok:    color.New(color.FgGreen),
	}

	for _, c := range []*color.Color{p.title, p.label, p.warn, p.ok} {
		if opts.Color {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}

	return p
}

// Err returns the first write error.
func (p *Printer) Err() error {
	return p.err
}

func (p *Printer) printf(c *color.Color, format string, a ...interface{}) {
	if p.err != nil {
		return
	}

	if c == nil {
		_, p.err = fmt.Fprintf(p.w, format, a...)

		return
	}

	_, p.err = c.Fprintf(p.w, format, a...)
}

func (p *Printer) field(name, format string, a ...interface{}) {
	p.printf(p.label, "%-42s", name)
	p.printf(nil, "= "+format+"\n", a...)
}

func (p *Printer) page(title string) {
	if p.opts.Clear {
		p.printf(nil, clearScreen)
	}

	p.printf(p.title, "%s\n\n", title)
}

func (p *Printer) Menu() {
	p.page("PIRQ Routing Table")
	p.printf(nil, "1. Get PIRQ Routing Table Header.\n")
	p.printf(nil, "2. Dump Slot IRQ Routing.\n\n")
	p.printf(nil, "Press [ESC] to Quit.\n")
	p.printf(nil, "-> ")
}

func (p *Printer) Header(addr uint64, h *pir.Header) {
	p.page("PIRQ Routing Table Header")

	p.field("Signature", "%s", string(h.Signature[:]))
	p.field("Minor Version", "0x%02x", h.MinorVersion())
	p.field("Major Version", "0x%02x", h.MajorVersion())
	p.field("Table Size", "%d Byte", h.TableSize)
	p.field("PCI Interrupt Router's Bus", "0x%02x", h.RouterBus)
	p.field("PCI Interrupt Router's Device Number", "0x%02x", h.RouterDevFunc.Device())
	p.field("PCI Interrupt Router's Function Number", "0x%02x", h.RouterDevFunc.Function())
	p.field("PCI Exclusive IRQs", "%s", h.PCIExclusiveIRQs)
	p.field("Compatible PCI Interrupt Router Vendor ID", "0x%04x", h.CompatibleRouter.Vendor())
	p.field("Compatible PCI Interrupt Router Device ID", "0x%04x", h.CompatibleRouter.Device())
	p.field("Miniport Data", "0x%08x", h.MiniportData)
	p.field("Reserved", "%s", hexBytes(h.Reserved[:]))
	p.field("Checksum", "0x%02x", h.Checksum)
	p.printf(nil, "\n")
	p.field("Table Address", "0x%05x", addr)
	p.field("Slot Entries", "%d", pir.SlotCount(h))
}

func (p *Printer) Slot(sp SlotPage) {
	s := &sp.Slot

	p.page(fmt.Sprintf("Slot %d IRQ Routing", sp.Index+1))

	p.field("PCI Bus Number", "0x%02x", s.Bus)
	p.field("PCI Device Number", "0x%02x", s.Device.Device())

	for i, l := range s.Links {
		pin := pir.Pin(i)
		p.field("Link Value for "+pin.String(), "0x%02x", l.Value)
		p.field("IRQ Bitmap for "+pin.String(), "%s", l.IRQs)
	}

	if s.Embedded() {
		p.field("Slot Number", "0x%02x (embedded)", s.SlotNumber)
	} else {
		p.field("Slot Number", "0x%02x", s.SlotNumber)
	}

	p.field("Reserved", "0x%02x", s.Reserved)

	p.printf(nil, "\n(%d / %d)  TableAddr=0x%05x  SlotAddr=0x%05x\n",
		sp.Index+1, sp.Count, sp.TableAddr, sp.SlotAddr)
}

// BrowseHelp is printed below a slot page in the interactive viewer.
func (p *Printer) BrowseHelp() {
	p.printf(nil, "\nPress [Right][Left] to change slot page...\n")
	p.printf(nil, "Press [ESC] to go back...\n")
}

func (p *Printer) Separator() {
	p.printf(nil, "\n")
}

func (p *Printer) AnyKey() {
	p.printf(nil, "\nPress any key to continue..")
}

func (p *Printer) NoSlots() {
	p.printf(p.warn, "\nNo slot entry found.\n")
}

// SlotReadFailed is shown in place of a slot page whose bytes could not be
// read; browsing continues.
func (p *Printer) SlotReadFailed(index int, err error) {
	p.printf(p.warn, "\nCannot read slot %d: %v\n", index+1, err)
}

func (p *Printer) NotFound() {
	p.printf(p.warn, "ERROR: Cannot find valid $PIR table in 0x%05X~0x%05X\n",
		pir.ScanStart, pir.ScanEnd+pir.ScanStep-1)
	p.printf(nil, "Tip: pure UEFI/APIC platforms may not provide a legacy $PIR table.\n")
}

// Probe lists every signature hit and why it was accepted or rejected.
func (p *Printer) Probe(cs []pir.Candidate) {
	p.page("$PIR candidates")

	if len(cs) == 0 {
		p.printf(p.warn, "no \"$PIR\" signature on any paragraph in 0x%05X~0x%05X\n",
			pir.ScanStart, pir.ScanEnd+pir.ScanStep-1)

		return
	}

	for _, c := range cs {
		p.printf(nil, "0x%05x  v%d.%d  %5d bytes  ",
			c.Addr, c.Header.MajorVersion(), c.Header.MinorVersion(), c.Header.TableSize)

		if c.Err != nil {
			p.printf(p.warn, "rejected: %v\n", c.Err)

			continue
		}

		p.printf(p.ok, "ok, %d slots\n", pir.SlotCount(&c.Header))
	}
}

func hexBytes(b []byte) string {
	s := make([]string, len(b))
	for i, x := range b {
		s[i] = fmt.Sprintf("%02x", x)
	}

	return strings.Join(s, " ")
}
