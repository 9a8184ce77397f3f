package isa

import (
	"fmt"
	"strings"

	"mos6502asm/pkg/address"
)

// Line is one disassembled instruction or stray data byte.
type Line struct {
	Addr  address.Address
	Bytes []byte
	Text  string
}

func (l Line) String() string {
	hex := make([]string, len(l.Bytes))
	for i, b := range l.Bytes {
		hex[i] = fmt.Sprintf("%02X", b)
	}
	return fmt.Sprintf("%04X  %-8s  %s", l.Addr, strings.Join(hex, " "), l.Text)
}

// Render formats an instruction whose operand bytes are operand, as placed at
// addr. Relative branches are shown with their absolute target.
func Render(inst Instruction, addr address.Address, operand []byte) string {
	var v address.Address
	switch len(operand) {
	case 1:
		v = address.Address(operand[0])
	case 2:
		v = address.FromLoHi(operand[0], operand[1])
	}
	m := inst.Mnemonic
	switch inst.Mode {
	case Implied:
		return m.String()
	case Accumulator:
		return fmt.Sprintf("%s A", m)
	case Immediate:
		return fmt.Sprintf("%s #$%02X", m, v)
	case ZeroPage:
		return fmt.Sprintf("%s $%02X", m, v)
	case ZeroPageX:
		return fmt.Sprintf("%s $%02X,X", m, v)
	case ZeroPageY:
		return fmt.Sprintf("%s $%02X,Y", m, v)
	case Absolute:
		return fmt.Sprintf("%s $%04X", m, v)
	case AbsoluteX:
		return fmt.Sprintf("%s $%04X,X", m, v)
	case AbsoluteY:
		return fmt.Sprintf("%s $%04X,Y", m, v)
	case Indirect:
		return fmt.Sprintf("%s ($%04X)", m, v)
	case IndexedIndirect:
		return fmt.Sprintf("%s ($%02X,X)", m, v)
	case IndirectIndexed:
		return fmt.Sprintf("%s ($%02X),Y", m, v)
	case Relative:
		target := addr + 2 + address.Address(int8(v))
		return fmt.Sprintf("%s $%04X", m, target)
	}
	return inst.String()
}

// Disassemble decodes code as if loaded at base. Unknown opcodes and
// instructions cut off by the end of code become .byte lines.
func Disassemble(code []byte, base address.Address) []Line {
	var lines []Line
	for i := 0; i < len(code); {
		addr := base + address.Address(i)
		inst, ok := Decode(code[i])
		n := int(inst.Length())
		if !ok || i+n > len(code) {
			lines = append(lines, Line{
				Addr:  addr,
				Bytes: code[i : i+1],
				Text:  fmt.Sprintf(".byte $%02X", code[i]),
			})
			i++
			continue
		}
		lines = append(lines, Line{
			Addr:  addr,
			Bytes: code[i : i+n],
			Text:  Render(inst, addr, code[i+1:i+n]),
		})
		i += n
	}
	return lines
}
