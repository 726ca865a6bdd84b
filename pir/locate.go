package pir

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/bobuhiro11/pirqdump/memory"
	"github.com/go-logr/logr"
)

// Table is a validated table: where it lives and a copy of its header.
type Table struct {
	Addr   uint64
	Header Header
}

// Candidate is a paragraph whose first bytes carry the signature. Err is nil
// when the candidate passed every check.
type Candidate struct {
	Addr   uint64
	Header Header
	Err    error
}

func read(r memory.Reader, addr uint64, n int) ([]byte, error) {
	b, err := r.Read(addr, n)
	if err != nil {
		return nil, &ReadError{Addr: addr, Len: n, Err: err}
	}

	if len(b) != n {
		return nil, &ReadError{Addr: addr, Len: n, Err: fmt.Errorf("short read of %d bytes", len(b))}
	}

	return b, nil
}

// inspect returns false when addr does not start with the signature or the
// signature itself cannot be read.
func inspect(log logr.Logger, r memory.Reader, addr uint64) (Candidate, bool) {
	c := Candidate{Addr: addr}

	sig, err := read(r, addr, len(Signature))
	if err != nil {
		log.V(2).Info("Skipping unreadable paragraph", "addr", hex(addr), "err", err)

		return c, false
	}

	if !bytes.Equal(sig, Signature[:]) {
		return c, false
	}

	b, err := read(r, addr, HeaderSize)
	if err != nil {
		c.Err = err

		return c, true
	}

	if c.Header, err = ParseHeader(b); err != nil {
		c.Err = err

		return c, true
	}

	if err := ValidateHeader(&c.Header); err != nil {
		c.Err = err

		return c, true
	}

	table, err := read(r, addr, int(c.Header.TableSize))
	if err != nil {
		c.Err = err

		return c, true
	}

	c.Err = Validate(&c.Header, table)

	return c, true
}

func walk(log logr.Logger, r memory.Reader, fn func(Candidate) bool) {
	for addr := uint64(ScanStart); addr <= ScanEnd; addr += ScanStep {
		c, ok := inspect(log, r, addr)
		if !ok {
			continue
		}

		if !fn(c) {
			return
		}
	}
}

// Scan reports every signature hit in the window along with its verdict.
func Scan(log logr.Logger, r memory.Reader) []Candidate {
	cs := []Candidate{}

	walk(log, r, func(c Candidate) bool {
		cs = append(cs, c)

		return true
	})

	return cs
}

// Locate returns the lowest addressed table passing every check.
func Locate(log logr.Logger, r memory.Reader) (*Table, error) {
	var t *Table

	walk(log, r, func(c Candidate) bool {
		if c.Err != nil {
			log.V(1).Info("Rejected $PIR candidate", "addr", hex(c.Addr), "reason", c.Err.Error())

			return true
		}

		t = &Table{Addr: c.Addr, Header: c.Header}

		return false
	})

	if t == nil {
		return nil, ErrNotFound
	}

	log.Info("Found $PIR table", "addr", hex(t.Addr), "size", t.Header.TableSize,
		"slots", SlotCount(&t.Header))

	return t, nil
}

// IsReadError reports whether err came from the memory backend.
func IsReadError(err error) bool {
	var re *ReadError

	return errors.As(err, &re)
}

func hex(addr uint64) string {
	return fmt.Sprintf("%#05x", addr)
}
