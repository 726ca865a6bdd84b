package flag

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/bobuhiro11/pirqdump/pir"
)

// ParseSize parses a size string as number[gGmMkK]. The multiplier is optional,
// and if not set, the unit passed in is used. The number can be any base and
// size, so both "0xF0000" and "960k" name the start of the F-segment.
func ParseSize(s, unit string) (int, error) {
	sz := strings.TrimRight(s, "gGmMkK")
	if len(sz) == 0 {
		return -1, fmt.Errorf("%q:can't parse as num[gGmMkK]:%w", s, strconv.ErrSyntax)
	}

	amt, err := strconv.ParseUint(sz, 0, 0)
	if err != nil {
		return -1, err
	}

	if len(s) > len(sz) {
		unit = s[len(sz):]
	}

	switch unit {
	case "G", "g":
		return int(amt) << 30, nil
	case "M", "m":
		return int(amt) << 20, nil
	case "K", "k":
		return int(amt) << 10, nil
	case "":
		return int(amt), nil
	}

	return -1, fmt.Errorf("can not parse %q as num[gGmMkK]:%w", s, strconv.ErrSyntax)
}

// ParseRouter parses "vendor:device" in hex, e.g. "8086:7000".
func ParseRouter(s string) (pir.RouterID, error) {
	v, d, ok := strings.Cut(s, ":")
	if !ok {
		return 0, fmt.Errorf("%q: want vendor:device:%w", s, strconv.ErrSyntax)
	}

	vendor, err := strconv.ParseUint(v, 16, 16)
	if err != nil {
		return 0, fmt.Errorf("vendor %q: %w", v, err)
	}

	device, err := strconv.ParseUint(d, 16, 16)
	if err != nil {
		return 0, fmt.Errorf("device %q: %w", d, err)
	}

	return pir.NewRouterID(uint16(vendor), uint16(device)), nil
}

// ParseDevFunc parses "device.function", e.g. "7.0".
func ParseDevFunc(s string) (pir.DevFunc, error) {
	d, f, ok := strings.Cut(s, ".")
	if !ok {
		return 0, fmt.Errorf("%q: want device.function:%w", s, strconv.ErrSyntax)
	}

	dev, err := strconv.ParseUint(d, 0, 8)
	if err != nil || dev > 0x1f {
		return 0, fmt.Errorf("device %q out of 0-31:%w", d, strconv.ErrRange)
	}

	fn, err := strconv.ParseUint(f, 0, 8)
	if err != nil || fn > 0x7 {
		return 0, fmt.Errorf("function %q out of 0-7:%w", f, strconv.ErrRange)
	}

	return pir.NewDevFunc(uint8(dev), uint8(fn)), nil
}
