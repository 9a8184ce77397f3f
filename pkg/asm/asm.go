// Package asm builds relocatable 6502 code blocks.
//
// A Block records statements (raw bytes, literal addresses and label
// references) at block-relative offsets starting from zero. Assemble then
// relocates every label to a base address and patches all statements into a
// fixed-size buffer. Labels may be referenced before they are declared.
package asm

import (
	"mos6502asm/pkg/address"
)

type statementKind uint8

const (
	literalByte statementKind = iota
	literalAddressLE
	literalOffsetLE
	labelOffsetLE
	labelOffsetLo
	labelOffsetHi
	labelRelativeOffset
)

// statement is one unit of emitted data at a block-relative offset.
type statement struct {
	kind   statementKind
	offset address.Address
	value  uint16 // literal byte, address or offset
	label  string
}

func (s statement) width() uint16 {
	switch s.kind {
	case literalAddressLE, literalOffsetLE, labelOffsetLE:
		return 2
	default:
		return 1
	}
}

// Block accumulates a program and its label table. The zero value is not
// usable; call NewBlock.
type Block struct {
	cursor  address.Address
	program []statement
	labels  map[string]address.Address
}

func NewBlock() *Block {
	return &Block{
		labels: make(map[string]address.Address),
	}
}

// Offset is the block-relative offset the next statement will be written at.
func (b *Block) Offset() address.Address {
	return b.cursor
}

// Extent is one past the highest byte any statement writes, i.e. the
// smallest buffer size that Assemble accepts for this block.
func (b *Block) Extent() int {
	extent := 0
	for _, s := range b.program {
		if end := int(s.offset) + int(s.width()); end > extent {
			extent = end
		}
	}
	return extent
}

// SetOffset moves the cursor. Statements already emitted keep their offsets,
// so later statements may overlap earlier ones; the last write wins.
func (b *Block) SetOffset(offset address.Address) {
	b.cursor = offset
}

func (b *Block) push(s statement) {
	s.offset = b.cursor
	b.program = append(b.program, s)
	b.cursor += s.width()
}

// LiteralByte emits a single raw byte.
func (b *Block) LiteralByte(v byte) {
	b.push(statement{kind: literalByte, value: uint16(v)})
}

// LiteralAddressLE emits an absolute address that is not relocated.
func (b *Block) LiteralAddressLE(a address.Address) {
	b.push(statement{kind: literalAddressLE, value: a})
}

// LiteralOffsetLE emits a block-relative offset that is relocated by the
// base address at assembly time.
func (b *Block) LiteralOffsetLE(offset address.Address) {
	b.push(statement{kind: literalOffsetLE, value: offset})
}

// LabelOffsetLE emits the relocated address of label, low byte first.
func (b *Block) LabelOffsetLE(label string) {
	b.push(statement{kind: labelOffsetLE, label: label})
}

// LabelOffsetLo emits the low byte of the relocated address of label.
func (b *Block) LabelOffsetLo(label string) {
	b.push(statement{kind: labelOffsetLo, label: label})
}

// LabelOffsetHi emits the high byte of the relocated address of label.
func (b *Block) LabelOffsetHi(label string) {
	b.push(statement{kind: labelOffsetHi, label: label})
}

// LabelRelativeOffset emits the signed displacement from the byte after this
// one to label, as used by the branch instructions.
func (b *Block) LabelRelativeOffset(label string) {
	b.push(statement{kind: labelRelativeOffset, label: label})
}

// Label binds name to the current cursor. A name can only be declared once
// per block.
func (b *Block) Label(name string) error {
	if _, exists := b.labels[name]; exists {
		return &DuplicateLabelError{Label: name}
	}
	b.labels[name] = b.cursor
	return nil
}

// MustLabel is Label for statically written programs; it panics on a
// duplicate declaration.
func (b *Block) MustLabel(name string) {
	if err := b.Label(name); err != nil {
		panic(err)
	}
}

// Assemble relocates the block to base and patches it into a zeroed buffer of
// size bytes. buf is reused when it has enough capacity. On failure the
// returned buffer is nil and the first offending statement is reported.
func (b *Block) Assemble(base address.Address, size int, buf []byte) ([]byte, *AssembledBlock, error) {
	if size < 0 {
		return nil, nil, &OffsetOutOfBoundsError{Size: size}
	}

	labels := make(map[string]address.Address, len(b.labels))
	for name, offset := range b.labels {
		labels[name] = offset + base
	}

	if cap(buf) >= size {
		buf = buf[:size]
		clear(buf)
	} else {
		buf = make([]byte, size)
	}

	for _, s := range b.program {
		at := int(s.offset)
		if last := at + int(s.width()) - 1; last >= size {
			return nil, nil, &OffsetOutOfBoundsError{Offset: s.offset, Width: s.width(), Size: size}
		}

		switch s.kind {
		case literalByte:
			buf[at] = byte(s.value)
		case literalAddressLE:
			buf[at] = address.Lo(s.value)
			buf[at+1] = address.Hi(s.value)
		case literalOffsetLE:
			target := s.value + base
			buf[at] = address.Lo(target)
			buf[at+1] = address.Hi(target)
		case labelOffsetLE, labelOffsetLo, labelOffsetHi:
			offset, ok := b.labels[s.label]
			if !ok {
				return nil, nil, &UndeclaredLabelError{Label: s.label}
			}
			target := offset + base
			switch s.kind {
			case labelOffsetLE:
				buf[at] = address.Lo(target)
				buf[at+1] = address.Hi(target)
			case labelOffsetLo:
				buf[at] = address.Lo(target)
			default:
				buf[at] = address.Hi(target)
			}
		case labelRelativeOffset:
			offset, ok := b.labels[s.label]
			if !ok {
				return nil, nil, &UndeclaredLabelError{Label: s.label}
			}
			// Unrelocated on both sides, so the displacement does not depend
			// on base.
			delta := int16(offset - s.offset - 1)
			if delta < -128 || delta > 127 {
				return nil, nil, &BranchTargetOutOfRangeError{Label: s.label, Displacement: int(delta)}
			}
			buf[at] = byte(int8(delta))
		}
	}

	return buf, &AssembledBlock{labels: labels}, nil
}
