// Package rom lays assembled blocks out in a full 64 KiB memory image and
// fills in the hardware vectors.
package rom

import (
	"io"

	"github.com/pkg/errors"

	"mos6502asm/pkg/address"
	"mos6502asm/pkg/asm"
)

// Size is the size of the 6502 address space.
const Size = 0x10000

// Image is a flat copy of the address space.
type Image struct {
	mem [Size]byte
}

func New() *Image {
	return &Image{}
}

// Vectors names the labels that the hardware vectors should point at. Empty
// names leave the vector untouched.
type Vectors struct {
	Reset string
	NMI   string
	IRQ   string
}

// Load copies code into the image starting at base.
func (m *Image) Load(base address.Address, code []byte) error {
	if int(base)+len(code) > Size {
		return errors.Errorf("%d bytes at $%04X run past the end of memory", len(code), base)
	}
	copy(m.mem[base:], code)
	return nil
}

// SetVector stores target little-endian at lo and lo+1.
func (m *Image) SetVector(lo, target address.Address) {
	m.mem[lo] = address.Lo(target)
	m.mem[lo+1] = address.Hi(target)
}

// Vector reads the little-endian address stored at lo.
func (m *Image) Vector(lo address.Address) address.Address {
	return address.FromLoHi(m.mem[lo], m.mem[lo+1])
}

// WireVectors points the reset, NMI and IRQ vectors at labels of an
// assembled block.
func (m *Image) WireVectors(block *asm.AssembledBlock, v Vectors) error {
	for _, vec := range []struct {
		lo    address.Address
		label string
		name  string
	}{
		{address.ResetLo, v.Reset, "reset"},
		{address.NMILo, v.NMI, "nmi"},
		{address.IRQLo, v.IRQ, "irq"},
	} {
		if vec.label == "" {
			continue
		}
		target, ok := block.AddressOf(vec.label)
		if !ok {
			return errors.WithMessagef(&asm.UndeclaredLabelError{Label: vec.label}, "%s vector", vec.name)
		}
		m.SetVector(vec.lo, target)
	}
	return nil
}

// Bytes exposes the image contents. The slice aliases the image.
func (m *Image) Bytes() []byte {
	return m.mem[:]
}

// WriteTo writes the full 64 KiB image.
func (m *Image) WriteTo(w io.Writer) (int64, error) {
	n, err := w.Write(m.mem[:])
	return int64(n), errors.Wrap(err, "writing image")
}

// Read loads an image written by WriteTo.
func Read(r io.Reader) (*Image, error) {
	m := New()
	if _, err := io.ReadFull(r, m.mem[:]); err != nil {
		return nil, errors.Wrap(err, "reading image")
	}
	return m, nil
}
