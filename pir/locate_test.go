package pir_test

import (
	"errors"
	"testing"

	"github.com/bobuhiro11/pirqdump/memory"
	"github.com/bobuhiro11/pirqdump/pir"
	"github.com/go-logr/logr"
)

var errInjected = errors.New("injected fault")

// faultyReader fails every read that touches [from, to).
type faultyReader struct {
	memory.Reader
	from, to uint64
}

func (f *faultyReader) Read(addr uint64, n int) ([]byte, error) {
	if addr < f.to && addr+uint64(n) > f.from {
		return nil, errInjected
	}

	return f.Reader.Read(addr, n)
}

func newWindow() *memory.Image {
	return memory.NewImage(memory.LegacyBase, make([]byte, memory.LegacySize))
}

func place(t *testing.T, img *memory.Image, addr uint64, table []byte) {
	t.Helper()

	if err := img.Write(addr, table); err != nil {
		t.Fatal(err)
	}
}

// oneSlotTable is a 48 byte table whose only slot is device 3.
func oneSlotTable(t *testing.T) []byte {
	t.Helper()

	b := pir.NewBuilder(0, pir.NewDevFunc(5, 2), pir.NewRouterID(0x8086, 0x122e))
	b.AddSlot(pir.Slot{
		Device:     0x18,
		Links:      [4]pir.Link{{Value: 0x60, IRQs: 0x0c20}},
		SlotNumber: 1,
	})

	table, err := b.Bytes()
	if err != nil {
		t.Fatal(err)
	}

	return table
}

func TestLocateOneSlot(t *testing.T) {
	t.Parallel()

	img := newWindow()
	place(t, img, 0xFDF60, oneSlotTable(t))

	table, err := pir.Locate(logr.Discard(), img)
	if err != nil {
		t.Fatal(err)
	}

	if table.Addr != 0xFDF60 {
		t.Fatalf("expected: 0xfdf60, actual: %#x", table.Addr)
	}

	if table.Header.TableSize != 48 || table.SlotCount() != 1 {
		t.Fatalf("expected: 48 bytes / 1 slot, actual: %d / %d",
			table.Header.TableSize, table.SlotCount())
	}

	if table.Header.RouterDevFunc.Device() != 5 || table.Header.RouterDevFunc.Function() != 2 {
		t.Fatalf("unexpected router %#x", uint8(table.Header.RouterDevFunc))
	}

	slot, err := table.Slot(img, 0)
	if err != nil {
		t.Fatal(err)
	}

	if slot.Device.Device() != 3 {
		t.Fatalf("expected: 3, actual: %d", slot.Device.Device())
	}

	if _, err := table.Slot(img, 1); !errors.Is(err, pir.ErrOutOfRange) {
		t.Fatalf("expected ErrOutOfRange, actual: %v", err)
	}

	if _, err := table.Slot(img, -1); !errors.Is(err, pir.ErrOutOfRange) {
		t.Fatalf("expected ErrOutOfRange, actual: %v", err)
	}
}

func TestLocateAcceptedTableSumsToZero(t *testing.T) {
	t.Parallel()

	img := newWindow()
	place(t, img, 0xF4000, oneSlotTable(t))

	table, err := pir.Locate(logr.Discard(), img)
	if err != nil {
		t.Fatal(err)
	}

	b, err := img.Read(table.Addr, int(table.Header.TableSize))
	if err != nil {
		t.Fatal(err)
	}

	if sum := pir.Checksum(b); sum != 0 {
		t.Fatalf("expected: 0, actual: %#x", sum)
	}
}

func TestLocateEmptyWindow(t *testing.T) {
	t.Parallel()

	if _, err := pir.Locate(logr.Discard(), newWindow()); !errors.Is(err, pir.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, actual: %v", err)
	}
}

func TestLocateFirstMatchWins(t *testing.T) {
	t.Parallel()

	img := newWindow()
	place(t, img, 0xF8000, oneSlotTable(t))
	place(t, img, 0xF1000, oneSlotTable(t))

	table, err := pir.Locate(logr.Discard(), img)
	if err != nil {
		t.Fatal(err)
	}

	if table.Addr != 0xF1000 {
		t.Fatalf("expected: 0xf1000, actual: %#x", table.Addr)
	}
}

func TestLocateRejectsVersion(t *testing.T) {
	t.Parallel()

	b := pir.NewBuilder(0, 0, 0)
	b.Header.Version = 0x0200
	b.AddSlot(pir.Slot{Device: 0x18})

	table, err := b.Bytes()
	if err != nil {
		t.Fatal(err)
	}

	img := newWindow()
	place(t, img, 0xF0000, table)

	if _, err := pir.Locate(logr.Discard(), img); !errors.Is(err, pir.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, actual: %v", err)
	}

	cs := pir.Scan(logr.Discard(), img)
	if len(cs) != 1 || !errors.Is(cs[0].Err, pir.ErrBadVersion) {
		t.Fatalf("expected one candidate rejected for version, actual: %+v", cs)
	}
}

func TestLocateRejectsChecksumAndContinues(t *testing.T) {
	t.Parallel()

	bad := oneSlotTable(t)
	bad[31] ^= 0x5a

	img := newWindow()
	place(t, img, 0xF0100, bad)
	place(t, img, 0xF0200, oneSlotTable(t))

	table, err := pir.Locate(logr.Discard(), img)
	if err != nil {
		t.Fatal(err)
	}

	if table.Addr != 0xF0200 {
		t.Fatalf("expected: 0xf0200, actual: %#x", table.Addr)
	}

	cs := pir.Scan(logr.Discard(), img)
	if len(cs) != 2 {
		t.Fatalf("expected 2 candidates, actual: %d", len(cs))
	}

	if !errors.Is(cs[0].Err, pir.ErrBadChecksum) || cs[1].Err != nil {
		t.Fatalf("unexpected verdicts: %v, %v", cs[0].Err, cs[1].Err)
	}
}

func TestLocateRejectsSize(t *testing.T) {
	t.Parallel()

	h := pir.Header{Signature: pir.Signature, Version: pir.Version10, TableSize: 40}

	b, err := h.Bytes()
	if err != nil {
		t.Fatal(err)
	}

	table := append(b, make([]byte, 8)...)
	table[31] = -pir.Checksum(table)

	img := newWindow()
	place(t, img, 0xF0000, table)

	cs := pir.Scan(logr.Discard(), img)
	if len(cs) != 1 || !errors.Is(cs[0].Err, pir.ErrBadSize) {
		t.Fatalf("expected one candidate rejected for size, actual: %+v", cs)
	}
}

func TestLocateIgnoresUnalignedSignature(t *testing.T) {
	t.Parallel()

	img := newWindow()
	place(t, img, 0xF0008, oneSlotTable(t))

	if _, err := pir.Locate(logr.Discard(), img); !errors.Is(err, pir.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, actual: %v", err)
	}
}

func TestLocateLastParagraph(t *testing.T) {
	t.Parallel()

	img := newWindow()
	place(t, img, pir.ScanEnd, oneSlotTable(t))

	table, err := pir.Locate(logr.Discard(), img)
	if err != nil {
		t.Fatal(err)
	}

	if table.Addr != pir.ScanEnd {
		t.Fatalf("expected: %#x, actual: %#x", pir.ScanEnd, table.Addr)
	}
}

func TestLocateSkipsUnreadableCandidate(t *testing.T) {
	t.Parallel()

	img := newWindow()
	place(t, img, 0xF2000, oneSlotTable(t))
	place(t, img, 0xF3000, oneSlotTable(t))

	// the first table's slot bytes cannot be read
	r := &faultyReader{Reader: img, from: 0xF2020, to: 0xF2030}

	table, err := pir.Locate(logr.Discard(), r)
	if err != nil {
		t.Fatal(err)
	}

	if table.Addr != 0xF3000 {
		t.Fatalf("expected: 0xf3000, actual: %#x", table.Addr)
	}

	cs := pir.Scan(logr.Discard(), r)
	if len(cs) != 2 || !pir.IsReadError(cs[0].Err) || !errors.Is(cs[0].Err, errInjected) {
		t.Fatalf("expected a read error on the first candidate, actual: %+v", cs)
	}
}

func TestDecodeSlotReadError(t *testing.T) {
	t.Parallel()

	img := newWindow()
	place(t, img, 0xF0000, oneSlotTable(t))

	table, err := pir.Locate(logr.Discard(), img)
	if err != nil {
		t.Fatal(err)
	}

	r := &faultyReader{Reader: img, from: table.SlotAddr(0), to: table.SlotAddr(1)}

	_, err = table.Slot(r, 0)

	var re *pir.ReadError
	if !errors.As(err, &re) {
		t.Fatalf("expected *ReadError, actual: %v", err)
	}

	if re.Addr != 0xF0020 || re.Len != pir.SlotSize {
		t.Fatalf("unexpected read error %+v", re)
	}

	if !errors.Is(err, errInjected) {
		t.Fatal("read error must wrap the backend error")
	}
}
