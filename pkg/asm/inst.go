package asm

import (
	"fmt"

	"mos6502asm/pkg/address"
	"mos6502asm/pkg/isa"
)

// Operand is what follows an opcode byte. The set of operand types is
// closed; each carries the operand kind it satisfies.
type Operand interface {
	Kind() isa.OperandKind
	check() error
	emit(b *Block)
}

type (
	// None is the operand of implied and accumulator instructions.
	None struct{}
	// Byte is a raw 8-bit operand.
	Byte uint8
	// Int is a byte operand accepting the union of the signed and unsigned
	// byte ranges.
	Int int
	// Addr is an absolute address that is not relocated.
	Addr address.Address
	// Offset is a block-relative address that is relocated at assembly.
	Offset address.Address
	// Ref is the full address of a label.
	Ref string
	// Lo is the low byte of a label's address.
	Lo string
	// Hi is the high byte of a label's address.
	Hi string
	// Rel is the branch displacement to a label.
	Rel string
)

func (None) Kind() isa.OperandKind   { return isa.OperandNone }
func (Byte) Kind() isa.OperandKind   { return isa.OperandByte }
func (Int) Kind() isa.OperandKind    { return isa.OperandByte }
func (Addr) Kind() isa.OperandKind   { return isa.OperandAddress }
func (Offset) Kind() isa.OperandKind { return isa.OperandAddress }
func (Ref) Kind() isa.OperandKind    { return isa.OperandAddress }
func (Lo) Kind() isa.OperandKind     { return isa.OperandByte }
func (Hi) Kind() isa.OperandKind     { return isa.OperandByte }
func (Rel) Kind() isa.OperandKind    { return isa.OperandByte }

func (None) check() error   { return nil }
func (Byte) check() error   { return nil }
func (Addr) check() error   { return nil }
func (Offset) check() error { return nil }
func (Ref) check() error    { return nil }
func (Lo) check() error     { return nil }
func (Hi) check() error     { return nil }
func (Rel) check() error    { return nil }

func (i Int) check() error {
	if i < -128 || i > 255 {
		return &ByteRangeError{Value: int(i)}
	}
	return nil
}

func (None) emit(*Block)       {}
func (v Byte) emit(b *Block)   { b.LiteralByte(byte(v)) }
func (v Int) emit(b *Block)    { b.LiteralByte(byte(int8(v))) }
func (v Addr) emit(b *Block)   { b.LiteralAddressLE(address.Address(v)) }
func (v Offset) emit(b *Block) { b.LiteralOffsetLE(address.Address(v)) }
func (v Ref) emit(b *Block)    { b.LabelOffsetLE(string(v)) }
func (v Lo) emit(b *Block)     { b.LabelOffsetLo(string(v)) }
func (v Hi) emit(b *Block)     { b.LabelOffsetHi(string(v)) }
func (v Rel) emit(b *Block)    { b.LabelRelativeOffset(string(v)) }

// Inst emits one instruction: the opcode for m in mode followed by the
// operand. Nothing is emitted when the pairing is invalid.
func (b *Block) Inst(m isa.Mnemonic, mode isa.Mode, arg Operand) error {
	op, err := isa.Opcode(m, mode)
	if err != nil {
		return err
	}
	if arg == nil {
		arg = None{}
	}
	if want := mode.Operand(); arg.Kind() != want {
		return &OperandMismatchError{
			Instruction: fmt.Sprintf("%s %s", m, mode),
			Want:        want.String(),
			Got:         arg.Kind().String(),
		}
	}
	if err := arg.check(); err != nil {
		return err
	}
	b.LiteralByte(op)
	arg.emit(b)
	return nil
}

// MustInst is Inst for statically written programs.
func (b *Block) MustInst(m isa.Mnemonic, mode isa.Mode, arg Operand) {
	if err := b.Inst(m, mode, arg); err != nil {
		panic(err)
	}
}

// InfiniteLoop emits a JMP to itself.
func (b *Block) InfiniteLoop() {
	here := b.cursor
	b.MustInst(isa.JMP, isa.Absolute, Offset(here))
}
