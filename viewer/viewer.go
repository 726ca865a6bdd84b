// Package viewer runs the interactive $PIR browser and the one-shot dumps.
package viewer

import (
	"errors"
	"fmt"
	"io"

	"github.com/bobuhiro11/pirqdump/memory"
	"github.com/bobuhiro11/pirqdump/navigator"
	"github.com/bobuhiro11/pirqdump/pir"
	"github.com/bobuhiro11/pirqdump/present"
	"github.com/bobuhiro11/pirqdump/term"
	"github.com/go-logr/logr"
)

type Session struct {
	log   logr.Logger
	mem   memory.Reader
	table *pir.Table
	keys  *term.KeyReader
	out   *present.Printer
	nav   *navigator.Navigator
}

func New(log logr.Logger, mem memory.Reader, table *pir.Table,
	keys *term.KeyReader, out *present.Printer,
) *Session {
	return &Session{
		log:   log,
		mem:   mem,
		table: table,
		keys:  keys,
		out:   out,
		nav:   navigator.New(table.SlotCount()),
	}
}

func eventFor(k term.KeyEvent) navigator.Event {
	switch k.Key {
	case term.KeyEsc:
		return navigator.Cancel
	case term.KeyRight, term.KeyDown:
		return navigator.Next
	case term.KeyLeft, term.KeyUp:
		return navigator.Previous
	case term.KeyRune:
		switch k.Rune {
		case '1':
			return navigator.SelectHeader
		case '2':
			return navigator.SelectBrowse
		case 'l', 'n':
			return navigator.Next
		case 'h', 'p':
			return navigator.Previous
		case 'q':
			return navigator.Cancel
		}
	case term.KeyUnknown, term.KeyInterrupt:
	}

	return navigator.Other
}

// Run blocks on key input until the user quits or the input ends.
func (s *Session) Run() error {
	if err := s.render(s.nav.Current()); err != nil {
		return err
	}

	for s.nav.State() != navigator.Terminated {
		k, err := s.keys.ReadKey()
		if errors.Is(err, io.EOF) {
			return nil
		}

		if err != nil {
			return fmt.Errorf("read key: %w", err)
		}

		if k.Key == term.KeyInterrupt {
			s.log.V(1).Info("Interrupted", "state", s.nav.State())

			return nil
		}

		v, changed := s.nav.Step(eventFor(k))
		if !changed {
			continue
		}

		if err := s.render(v); err != nil {
			return err
		}

		if v.Kind != navigator.ViewNoSlots {
			continue
		}

		// the notice stays up until the next key, then the menu returns
		if _, err := s.keys.ReadKey(); err != nil && !errors.Is(err, io.EOF) {
			return fmt.Errorf("read key: %w", err)
		}

		if err := s.render(s.nav.Current()); err != nil {
			return err
		}
	}

	return nil
}

func (s *Session) render(v navigator.View) error {
	switch v.Kind {
	case navigator.ViewMenu:
		s.out.Menu()
	case navigator.ViewHeader:
		s.out.Header(s.table.Addr, &s.table.Header)
		s.out.AnyKey()
	case navigator.ViewNoSlots:
		s.out.NoSlots()
		s.out.AnyKey()
	case navigator.ViewSlot:
		if err := s.slot(v.Index); err != nil {
			return err
		}

		s.out.BrowseHelp()
	case navigator.ViewNone:
	}

	return s.out.Err()
}

// slot decodes and prints one page. A failed read is reported on screen and
// browsing goes on; an out of range index means the navigator is broken.
func (s *Session) slot(index int) error {
	slot, err := s.table.Slot(s.mem, index)

	switch {
	case err == nil:
		s.out.Slot(present.SlotPage{
			Index:     index,
			Count:     s.table.SlotCount(),
			TableAddr: s.table.Addr,
			SlotAddr:  s.table.SlotAddr(index),
			Slot:      slot,
		})
	case pir.IsReadError(err):
		s.log.Error(err, "Cannot read slot", "index", index)
		s.out.SlotReadFailed(index, err)
	default:
		return err
	}

	return nil
}
