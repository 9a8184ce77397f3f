package rom

import (
	"github.com/pkg/errors"

	"mos6502asm/pkg/address"
	"mos6502asm/pkg/asm"
)

// Linked is the result of placing one block in an image.
type Linked struct {
	Image  *Image
	Block  *asm.AssembledBlock
	Code   []byte
	Base   address.Address
	Labels []asm.Symbol
}

// Link assembles b at base into size bytes, loads the code into a fresh
// image and wires the vectors. A size of zero uses the block's extent.
func Link(b *asm.Block, base address.Address, size int, v Vectors) (*Linked, error) {
	if size == 0 {
		size = b.Extent()
	}
	code, block, err := b.Assemble(base, size, nil)
	if err != nil {
		return nil, errors.WithMessagef(err, "assembling at $%04X", base)
	}
	img := New()
	if err := img.Load(base, code); err != nil {
		return nil, err
	}
	if err := img.WireVectors(block, v); err != nil {
		return nil, err
	}
	return &Linked{
		Image:  img,
		Block:  block,
		Code:   code,
		Base:   base,
		Labels: block.Labels(),
	}, nil
}
