package flag

import (
	"errors"
	"fmt"
	"os"

	"github.com/alecthomas/kong"
	"github.com/bobuhiro11/pirqdump/memory"
	"github.com/bobuhiro11/pirqdump/pir"
	"github.com/bobuhiro11/pirqdump/term"
	"github.com/bobuhiro11/pirqdump/viewer"
)

var (
	errNotTerminal = errors.New("stdin is not a terminal, use the header or slots command")
	errBadOffset   = errors.New("table offset must be paragraph aligned and inside the image")
	errBadSlots    = errors.New("slot count out of range")
)

const imageSize = 0x10000

type CLI struct {
	Globals

	Browse BrowseCMD `cmd:"" default:"1" help:"Browse the routing table interactively."`
	Header HeaderCMD `cmd:"" help:"Print the routing table header."`
	Slots  SlotsCMD  `cmd:"" help:"Print every slot entry."`
	Probe  ProbeCMD  `cmd:"" help:"List every table signature in the BIOS window and its verdict."`
	Synth  SynthCMD  `cmd:"" help:"Write an F-segment image holding a generated routing table."`
}

type (
	BrowseCMD struct{}
	HeaderCMD struct{}
	SlotsCMD  struct{}
	ProbeCMD  struct{}
)

type SynthCMD struct {
	Output  string `short:"o" required:"" help:"Image file to write." type:"path"`
	Slots   int    `default:"4" help:"Number of slot entries."`
	Offset  string `default:"0xdf60" help:"Table offset inside the image, paragraph aligned."`
	Router  string `default:"8086:7000" help:"Compatible interrupt router as vendor:device (hex)."`
	DevFunc string `default:"7.0" help:"Interrupt router location on bus 0 as device.function."`
}

func Parse() error {
	c := CLI{}

	programName := "pirqdump"
	programDesc := "pirqdump finds, validates and browses the legacy PCI IRQ routing table"

	ctx := kong.Parse(&c,
		kong.Name(programName),
		kong.Description(programDesc),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact: true,
			Summary: true,
		}))

	return ctx.Run(&c.Globals)
}

func (b *BrowseCMD) Run(g *Globals) error {
	if !term.IsTerminal() {
		return errNotTerminal
	}

	log := g.Logger(os.Stderr)

	mem, closer, err := g.open(log)
	if err != nil {
		return err
	}
	defer closer.Close()

	table, err := viewer.Discover(log, mem, g.Printer(g.stdout(), false))
	if err != nil {
		return err
	}

	restoreMode, err := term.SetRawMode()
	if err != nil {
		return err
	}

	defer restoreMode()

	out := term.NewCRLFWriter(g.stdout())
	s := viewer.New(g.Logger(term.NewCRLFWriter(os.Stderr)), mem, table,
		term.NewKeyReader(os.Stdin), g.Printer(out, true))

	if err := s.Run(); err != nil {
		return err
	}

	_, err = fmt.Fprintln(out)

	return err
}

func (h *HeaderCMD) Run(g *Globals) error {
	log := g.Logger(os.Stderr)

	mem, closer, err := g.open(log)
	if err != nil {
		return err
	}
	defer closer.Close()

	p := g.Printer(g.stdout(), false)

	table, err := viewer.Discover(log, mem, p)
	if err != nil {
		return err
	}

	return viewer.DumpHeader(p, table)
}

func (s *SlotsCMD) Run(g *Globals) error {
	log := g.Logger(os.Stderr)

	mem, closer, err := g.open(log)
	if err != nil {
		return err
	}
	defer closer.Close()

	p := g.Printer(g.stdout(), false)

	table, err := viewer.Discover(log, mem, p)
	if err != nil {
		return err
	}

	return viewer.DumpSlots(log, mem, p, table)
}

func (pr *ProbeCMD) Run(g *Globals) error {
	log := g.Logger(os.Stderr)

	mem, closer, err := g.open(log)
	if err != nil {
		return err
	}
	defer closer.Close()

	p := g.Printer(g.stdout(), false)
	p.Probe(pir.Scan(log, mem))

	return p.Err()
}

func (s *SynthCMD) Run(g *Globals) error {
	log := g.Logger(os.Stderr)

	offset, err := ParseSize(s.Offset, "")
	if err != nil {
		return err
	}

	if offset < 0 || offset%pir.ScanStep != 0 || offset >= imageSize {
		return fmt.Errorf("%#x: %w", offset, errBadOffset)
	}

	if s.Slots < 1 || s.Slots > (0xffff-pir.HeaderSize)/pir.SlotSize {
		return fmt.Errorf("%d: %w", s.Slots, errBadSlots)
	}

	router, err := ParseRouter(s.Router)
	if err != nil {
		return err
	}

	df, err := ParseDevFunc(s.DevFunc)
	if err != nil {
		return err
	}

	b := pir.NewBuilder(0, df, router)
	for _, slot := range pir.Swizzled(0, 1, s.Slots, 0x60, 0xdef8) {
		b.AddSlot(slot)
	}

	table, err := b.Bytes()
	if err != nil {
		return err
	}

	size := imageSize
	if offset+len(table) > size {
		size = offset + len(table)
	}

	img := memory.NewImage(memory.LegacyBase, make([]byte, size))
	for i := range img.Buf {
		img.Buf[i] = 0xff
	}

	if err := img.Write(memory.LegacyBase+uint64(offset), table); err != nil {
		return err
	}

	if err := os.WriteFile(s.Output, img.Buf, 0o644); err != nil {
		return err
	}

	log.Info("Wrote image", "path", s.Output, "table", fmt.Sprintf("%#05x", memory.LegacyBase+offset),
		"slots", s.Slots, "size", size)

	return nil
}
