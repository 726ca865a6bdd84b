package memory_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/bobuhiro11/pirqdump/memory"
	"github.com/go-logr/logr"
	"github.com/google/go-cmp/cmp"
)

func TestAddressSpaceContains(t *testing.T) {
	t.Parallel()

	as := memory.NewAddressSpace("test", 0x1000, 0x100)

	for _, tc := range []struct {
		addr     uint64
		n        int
		expected bool
	}{
		{0x1000, 1, true},
		{0x1000, 0x100, true},
		{0x10f0, 0x10, true},
		{0x10f0, 0x11, false},
		{0x0fff, 1, false},
		{0x1100, 1, false},
		{^uint64(0), 2, false},
	} {
		if actual := as.Contains(tc.addr, tc.n); actual != tc.expected {
			t.Errorf("Contains(%#x, %d): expected: %v, actual: %v",
				tc.addr, tc.n, tc.expected, actual)
		}
	}
}

func TestAddressSpaceOverlaps(t *testing.T) {
	t.Parallel()

	a := memory.NewAddressSpace("a", 0x1000, 0x100)
	b := memory.NewAddressSpace("b", 0x10ff, 0x10)
	c := memory.NewAddressSpace("c", 0x1100, 0x10)

	if !a.Overlaps(b) || !b.Overlaps(a) {
		t.Fatal("a and b must overlap")
	}

	if a.Overlaps(c) {
		t.Fatal("a and c must not overlap")
	}
}

func TestImageRead(t *testing.T) {
	t.Parallel()

	img := memory.NewImage(0xF0000, make([]byte, 0x100))

	if err := img.Write(0xF0010, []byte("$PIR")); err != nil {
		t.Fatal(err)
	}

	actual, err := img.Read(0xF0010, 4)
	if err != nil {
		t.Fatal(err)
	}

	if diff := cmp.Diff([]byte("$PIR"), actual); diff != "" {
		t.Fatalf("unexpected bytes (-want +got):\n%s", diff)
	}

	// the returned slice must be a copy
	actual[0] = 'X'

	again, err := img.Read(0xF0010, 1)
	if err != nil {
		t.Fatal(err)
	}

	if again[0] != '$' {
		t.Fatal("Read returned a slice aliasing the image")
	}
}

func TestImageReadOutOfWindow(t *testing.T) {
	t.Parallel()

	img := memory.NewImage(0xF0000, make([]byte, 0x100))

	for _, tc := range []struct {
		addr uint64
		n    int
	}{
		{0xEFFFF, 1},
		{0xF00FF, 2},
		{0xF0100, 1},
	} {
		if _, err := img.Read(tc.addr, tc.n); !errors.Is(err, memory.ErrOutOfWindow) {
			t.Errorf("Read(%#x, %d): expected ErrOutOfWindow, actual: %v", tc.addr, tc.n, err)
		}
	}

	if _, err := img.Read(0xF0000, 0); err == nil {
		t.Error("zero length read must fail")
	}
}

func TestOpenImage(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "fseg.bin")
	if err := os.WriteFile(path, []byte{1, 2, 3, 4}, 0o600); err != nil {
		t.Fatal(err)
	}

	r, closer, err := memory.Open(logr.Discard(), memory.Config{Image: path, ImageBase: 0x1000})
	if err != nil {
		t.Fatal(err)
	}
	defer closer.Close()

	actual, err := r.Read(0x1002, 2)
	if err != nil {
		t.Fatal(err)
	}

	if diff := cmp.Diff([]byte{3, 4}, actual); diff != "" {
		t.Fatalf("unexpected bytes (-want +got):\n%s", diff)
	}
}

func TestDevMemOnRegularFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "mem")

	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}

	if _, err := f.WriteAt([]byte("$PIR"), 0xF0020); err != nil {
		t.Fatal(err)
	}

	f.Close()

	d, err := memory.OpenDevMem(logr.Discard(), path)
	if err != nil {
		t.Fatal(err)
	}
	defer d.Close()

	actual, err := d.Read(0xF0020, 4)
	if err != nil {
		t.Fatal(err)
	}

	if string(actual) != "$PIR" {
		t.Fatalf("expected: $PIR, actual: %q", actual)
	}

	if _, err := d.Read(0x1000, 4); !errors.Is(err, memory.ErrOutOfWindow) {
		t.Fatalf("expected ErrOutOfWindow, actual: %v", err)
	}

	// past the end of the backing file
	if _, err := d.Read(0xF0030, 4); err == nil {
		t.Fatal("read past EOF must fail")
	}
}
