package isa

// OperandKind is the shape of the operand an addressing mode expects after
// the opcode byte.
type OperandKind uint8

const (
	OperandNone OperandKind = iota
	OperandByte
	OperandAddress
)

var operandKindNames = [...]string{
	OperandNone:    "none",
	OperandByte:    "byte",
	OperandAddress: "address",
}

func (k OperandKind) String() string {
	if int(k) < len(operandKindNames) {
		return operandKindNames[k]
	}
	return "invalid"
}

// Width is the number of bytes the operand occupies.
func (k OperandKind) Width() uint16 {
	switch k {
	case OperandByte:
		return 1
	case OperandAddress:
		return 2
	default:
		return 0
	}
}

// Mode is a 6502 addressing mode.
type Mode uint8

const (
	Implied Mode = iota
	Accumulator
	Immediate
	ZeroPage
	ZeroPageX
	ZeroPageY
	Absolute
	AbsoluteX
	AbsoluteY
	Indirect
	IndexedIndirect // (zp,X)
	IndirectIndexed // (zp),Y
	Relative
)

var modeNames = [...]string{
	Implied:         "implied",
	Accumulator:     "accumulator",
	Immediate:       "immediate",
	ZeroPage:        "zeropage",
	ZeroPageX:       "zeropage,x",
	ZeroPageY:       "zeropage,y",
	Absolute:        "absolute",
	AbsoluteX:       "absolute,x",
	AbsoluteY:       "absolute,y",
	Indirect:        "indirect",
	IndexedIndirect: "(indirect,x)",
	IndirectIndexed: "(indirect),y",
	Relative:        "relative",
}

func (m Mode) String() string {
	if int(m) < len(modeNames) {
		return modeNames[m]
	}
	return "invalid"
}

// Operand returns the operand kind the mode takes.
func (m Mode) Operand() OperandKind {
	switch m {
	case Implied, Accumulator:
		return OperandNone
	case Absolute, AbsoluteX, AbsoluteY, Indirect:
		return OperandAddress
	default:
		return OperandByte
	}
}
