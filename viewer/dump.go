package viewer

import (
	"errors"

	"github.com/bobuhiro11/pirqdump/memory"
	"github.com/bobuhiro11/pirqdump/pir"
	"github.com/bobuhiro11/pirqdump/present"
	"github.com/go-logr/logr"
)

// Discover locates the table and prints the not-found notice when there is
// none.
func Discover(log logr.Logger, mem memory.Reader, out *present.Printer) (*pir.Table, error) {
	t, err := pir.Locate(log, mem)
	if errors.Is(err, pir.ErrNotFound) {
		out.NotFound()
	}

	return t, err
}

func DumpHeader(out *present.Printer, t *pir.Table) error {
	out.Header(t.Addr, &t.Header)

	return out.Err()
}

// DumpSlots prints every slot. Unreadable slots are reported inline and the
// first read error is returned once all slots were tried.
func DumpSlots(log logr.Logger, mem memory.Reader, out *present.Printer, t *pir.Table) error {
	var first error

	if t.SlotCount() == 0 {
		out.NoSlots()

		return out.Err()
	}

	for i := 0; i < t.SlotCount(); i++ {
		slot, err := t.Slot(mem, i)
		if err != nil {
			log.Error(err, "Cannot read slot", "index", i)
			out.SlotReadFailed(i, err)

			if first == nil {
				first = err
			}

			continue
		}

		out.Slot(present.SlotPage{
			Index:     i,
			Count:     t.SlotCount(),
			TableAddr: t.Addr,
			SlotAddr:  t.SlotAddr(i),
			Slot:      slot,
		})
		out.Separator()
	}

	if err := out.Err(); err != nil {
		return err
	}

	return first
}
