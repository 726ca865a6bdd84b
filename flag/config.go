package flag

import (
	"io"
	"os"

	"github.com/bobuhiro11/pirqdump/logging"
	"github.com/bobuhiro11/pirqdump/memory"
	"github.com/bobuhiro11/pirqdump/present"
	"github.com/fatih/color"
	"github.com/go-logr/logr"
)

// Globals are the flags shared by every command.
type Globals struct {
	Mem       string `default:"/dev/mem" help:"Physical memory device." type:"path"`
	Image     string `help:"Firmware image to scan instead of physical memory." type:"path"`
	ImageBase string `default:"0xF0000" help:"Physical address the image is mapped at, as number[kKmM]."`
	NoColor   bool   `help:"Disable colour output."`
	Verbose   int    `short:"v" type:"counter" help:"Increase log verbosity, repeatable."`

	// Stdout receives command output, os.Stdout when nil.
	Stdout io.Writer `kong:"-"`
}

func (g *Globals) stdout() io.Writer {
	if g.Stdout == nil {
		return os.Stdout
	}

	return g.Stdout
}

// Config converts the memory source flags.
func (g *Globals) Config() (memory.Config, error) {
	c := memory.Config{DevMem: g.Mem, Image: g.Image}

	if g.Image != "" {
		base, err := ParseSize(g.ImageBase, "")
		if err != nil {
			return c, err
		}

		c.ImageBase = uint64(base)
	}

	return c, nil
}

func (g *Globals) Logger(w io.Writer) logr.Logger {
	return logging.New(w, g.Verbose)
}

func (g *Globals) Printer(w io.Writer, clear bool) *present.Printer {
	return present.New(w, present.Options{
		Color: !g.NoColor && !color.NoColor,
		Clear: clear,
	})
}

func (g *Globals) open(log logr.Logger) (memory.Reader, io.Closer, error) {
	c, err := g.Config()
	if err != nil {
		return nil, nil, err
	}

	return memory.Open(log, c)
}
