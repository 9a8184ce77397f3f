// Package address holds the 16-bit address helpers shared by the assembler
// and the interpreter.
package address

import (
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// Address is a location in the 6502's 64 KiB address space.
type Address = uint16

// Hardware vectors. Each vector is a little-endian address stored in two
// consecutive bytes at the top of memory.
const (
	NMILo   Address = 0xFFFA
	NMIHi   Address = 0xFFFB
	ResetLo Address = 0xFFFC
	ResetHi Address = 0xFFFD
	IRQLo   Address = 0xFFFE
	IRQHi   Address = 0xFFFF
)

// Lo returns the low 8 bits of a.
func Lo(a Address) byte {
	return byte(a)
}

// Hi returns the high 8 bits of a.
func Hi(a Address) byte {
	return byte(a >> 8)
}

// FromLoHi composes an address from its little-endian byte pair.
func FromLoHi(lo, hi byte) Address {
	return Address(hi)<<8 | Address(lo)
}

// FromHiLo is FromLoHi with the arguments in big-endian order.
func FromHiLo(hi, lo byte) Address {
	return FromLoHi(lo, hi)
}

// SamePage reports whether a and b share a high byte.
func SamePage(a, b Address) bool {
	return a>>8 == b>>8
}

// OnDifferentPages is the negation of SamePage. Indexed reads and taken
// branches that cross a page pay an extra cycle.
func OnDifferentPages(a, b Address) bool {
	return !SamePage(a, b)
}

// Parse reads an address written as $C000 or 0xC000 (hex) or #49152
// (decimal). Numbers without a prefix are read in radix.
func Parse(s string, radix int) (Address, error) {
	digits := strings.TrimSpace(s)
	switch {
	case strings.HasPrefix(digits, "$"):
		digits, radix = digits[1:], 16
	case strings.HasPrefix(digits, "0x"), strings.HasPrefix(digits, "0X"):
		digits, radix = digits[2:], 16
	case strings.HasPrefix(digits, "#"):
		digits, radix = digits[1:], 10
	}
	v, err := strconv.ParseUint(digits, radix, 16)
	if err != nil {
		return 0, errors.Errorf("invalid address %q", s)
	}
	return Address(v), nil
}
