package cpu

import (
	"mos6502asm/pkg/address"
	"mos6502asm/pkg/isa"
)

// effectiveAddress resolves the operand of the instruction at pc. crossed is
// true when indexing moved the address onto another page.
func (c *CPU) effectiveAddress(mode isa.Mode, pc address.Address) (addr address.Address, crossed bool) {
	arg := c.ReadByte(pc + 1)
	switch mode {
	case isa.Immediate:
		return pc + 1, false
	case isa.ZeroPage:
		return address.Address(arg), false
	case isa.ZeroPageX:
		return address.Address(arg + c.X), false
	case isa.ZeroPageY:
		return address.Address(arg + c.Y), false
	case isa.Absolute:
		return c.Read16(pc + 1), false
	case isa.AbsoluteX:
		base := c.Read16(pc + 1)
		addr = base + address.Address(c.X)
		return addr, address.OnDifferentPages(base, addr)
	case isa.AbsoluteY:
		base := c.Read16(pc + 1)
		addr = base + address.Address(c.Y)
		return addr, address.OnDifferentPages(base, addr)
	case isa.Indirect:
		// The pointer's high byte is fetched without carrying into the
		// next page, as on the NMOS part.
		ptr := c.Read16(pc + 1)
		hiAddr := ptr&0xFF00 | (ptr+1)&0x00FF
		return address.FromLoHi(c.ReadByte(ptr), c.ReadByte(hiAddr)), false
	case isa.IndexedIndirect:
		zp := arg + c.X
		return address.FromLoHi(c.ReadByte(address.Address(zp)), c.ReadByte(address.Address(zp+1))), false
	case isa.IndirectIndexed:
		base := address.FromLoHi(c.ReadByte(address.Address(arg)), c.ReadByte(address.Address(arg+1)))
		addr = base + address.Address(c.Y)
		return addr, address.OnDifferentPages(base, addr)
	}
	return 0, false
}

var baseCycles = map[isa.Mode]uint64{
	isa.Implied:         2,
	isa.Accumulator:     2,
	isa.Immediate:       2,
	isa.ZeroPage:        3,
	isa.ZeroPageX:       4,
	isa.ZeroPageY:       4,
	isa.Absolute:        4,
	isa.AbsoluteX:       4,
	isa.AbsoluteY:       4,
	isa.Indirect:        5,
	isa.IndexedIndirect: 6,
	isa.IndirectIndexed: 5,
	isa.Relative:        2,
}

var fixedCycles = map[isa.Mnemonic]uint64{
	isa.BRK: 7,
	isa.JSR: 6,
	isa.RTS: 6,
	isa.RTI: 6,
	isa.PHA: 3,
	isa.PHP: 3,
	isa.PLA: 4,
	isa.PLP: 4,
}

func isReadModifyWrite(m isa.Mnemonic) bool {
	switch m {
	case isa.ASL, isa.LSR, isa.ROL, isa.ROR, isa.INC, isa.DEC:
		return true
	}
	return false
}

func isStore(m isa.Mnemonic) bool {
	return m == isa.STA || m == isa.STX || m == isa.STY
}

// cycles is the cost of an instruction before branch penalties.
func cycles(in isa.Instruction, crossed bool) uint64 {
	if n, ok := fixedCycles[in.Mnemonic]; ok {
		return n
	}
	if in.Mnemonic == isa.JMP {
		if in.Mode == isa.Indirect {
			return 5
		}
		return 3
	}
	n := baseCycles[in.Mode]
	switch {
	case isReadModifyWrite(in.Mnemonic) && in.Mode != isa.Accumulator:
		n += 2
		if in.Mode == isa.AbsoluteX {
			n++
		}
	case isStore(in.Mnemonic):
		if in.Mode == isa.AbsoluteX || in.Mode == isa.AbsoluteY || in.Mode == isa.IndirectIndexed {
			n++
		}
	case crossed:
		n++
	}
	return n
}

func (c *CPU) branch(taken bool, pc address.Address) {
	if !taken {
		return
	}
	target := c.PC + address.Address(int8(c.ReadByte(pc+1)))
	c.Cycles++
	if address.OnDifferentPages(c.PC, target) {
		c.Cycles++
	}
	c.PC = target
}

func (c *CPU) compare(reg, v byte) {
	c.setFlag(FlagC, reg >= v)
	c.setZN(reg - v)
}

func (c *CPU) adc(v byte) {
	var carry uint16
	if c.flag(FlagC) {
		carry = 1
	}
	sum := uint16(c.A) + uint16(v) + carry
	result := byte(sum)
	c.setFlag(FlagC, sum > 0xFF)
	c.setFlag(FlagV, (c.A^result)&(v^result)&0x80 != 0)
	c.A = result
	c.setZN(result)
}

// shift applies a shift or rotate to v and returns the result.
func (c *CPU) shift(m isa.Mnemonic, v byte) byte {
	var out byte
	switch m {
	case isa.ASL:
		c.setFlag(FlagC, v&0x80 != 0)
		out = v << 1
	case isa.LSR:
		c.setFlag(FlagC, v&0x01 != 0)
		out = v >> 1
	case isa.ROL:
		out = v << 1
		if c.flag(FlagC) {
			out |= 0x01
		}
		c.setFlag(FlagC, v&0x80 != 0)
	case isa.ROR:
		out = v >> 1
		if c.flag(FlagC) {
			out |= 0x80
		}
		c.setFlag(FlagC, v&0x01 != 0)
	}
	c.setZN(out)
	return out
}

func (c *CPU) execute(in isa.Instruction, pc address.Address) {
	var addr address.Address
	var crossed bool
	if op := in.Mode.Operand(); op != isa.OperandNone && in.Mode != isa.Relative {
		addr, crossed = c.effectiveAddress(in.Mode, pc)
	}
	c.Cycles += cycles(in, crossed)

	switch in.Mnemonic {
	case isa.LDA:
		c.A = c.ReadByte(addr)
		c.setZN(c.A)
	case isa.LDX:
		c.X = c.ReadByte(addr)
		c.setZN(c.X)
	case isa.LDY:
		c.Y = c.ReadByte(addr)
		c.setZN(c.Y)
	case isa.STA:
		c.WriteByte(addr, c.A)
	case isa.STX:
		c.WriteByte(addr, c.X)
	case isa.STY:
		c.WriteByte(addr, c.Y)

	case isa.TAX:
		c.X = c.A
		c.setZN(c.X)
	case isa.TAY:
		c.Y = c.A
		c.setZN(c.Y)
	case isa.TXA:
		c.A = c.X
		c.setZN(c.A)
	case isa.TYA:
		c.A = c.Y
		c.setZN(c.A)
	case isa.TSX:
		c.X = c.SP
		c.setZN(c.X)
	case isa.TXS:
		c.SP = c.X

	case isa.PHA:
		c.push(c.A)
	case isa.PHP:
		c.push(c.P | FlagB | FlagU)
	case isa.PLA:
		c.A = c.pull()
		c.setZN(c.A)
	case isa.PLP:
		c.P = c.pull()&^FlagB | FlagU

	case isa.INC:
		v := c.ReadByte(addr) + 1
		c.WriteByte(addr, v)
		c.setZN(v)
	case isa.DEC:
		v := c.ReadByte(addr) - 1
		c.WriteByte(addr, v)
		c.setZN(v)
	case isa.INX:
		c.X++
		c.setZN(c.X)
	case isa.INY:
		c.Y++
		c.setZN(c.Y)
	case isa.DEX:
		c.X--
		c.setZN(c.X)
	case isa.DEY:
		c.Y--
		c.setZN(c.Y)

	case isa.ADC:
		c.adc(c.ReadByte(addr))
	case isa.SBC:
		c.adc(^c.ReadByte(addr))
	case isa.AND:
		c.A &= c.ReadByte(addr)
		c.setZN(c.A)
	case isa.ORA:
		c.A |= c.ReadByte(addr)
		c.setZN(c.A)
	case isa.EOR:
		c.A ^= c.ReadByte(addr)
		c.setZN(c.A)
	case isa.CMP:
		c.compare(c.A, c.ReadByte(addr))
	case isa.CPX:
		c.compare(c.X, c.ReadByte(addr))
	case isa.CPY:
		c.compare(c.Y, c.ReadByte(addr))
	case isa.BIT:
		v := c.ReadByte(addr)
		c.setFlag(FlagZ, c.A&v == 0)
		c.setFlag(FlagN, v&0x80 != 0)
		c.setFlag(FlagV, v&0x40 != 0)

	case isa.ASL, isa.LSR, isa.ROL, isa.ROR:
		if in.Mode == isa.Accumulator {
			c.A = c.shift(in.Mnemonic, c.A)
		} else {
			c.WriteByte(addr, c.shift(in.Mnemonic, c.ReadByte(addr)))
		}

	case isa.BCC:
		c.branch(!c.flag(FlagC), pc)
	case isa.BCS:
		c.branch(c.flag(FlagC), pc)
	case isa.BNE:
		c.branch(!c.flag(FlagZ), pc)
	case isa.BEQ:
		c.branch(c.flag(FlagZ), pc)
	case isa.BPL:
		c.branch(!c.flag(FlagN), pc)
	case isa.BMI:
		c.branch(c.flag(FlagN), pc)
	case isa.BVC:
		c.branch(!c.flag(FlagV), pc)
	case isa.BVS:
		c.branch(c.flag(FlagV), pc)

	case isa.JMP:
		c.PC = addr
	case isa.JSR:
		c.push16(c.PC - 1)
		c.PC = addr
	case isa.RTS:
		c.PC = c.pull16() + 1
	case isa.RTI:
		c.P = c.pull()&^FlagB | FlagU
		c.PC = c.pull16()

	case isa.CLC:
		c.setFlag(FlagC, false)
	case isa.SEC:
		c.setFlag(FlagC, true)
	case isa.CLI:
		c.setFlag(FlagI, false)
	case isa.SEI:
		c.setFlag(FlagI, true)
	case isa.CLD:
		c.setFlag(FlagD, false)
	case isa.SED:
		c.setFlag(FlagD, true)
	case isa.CLV:
		c.setFlag(FlagV, false)

	case isa.BRK:
		// Stops the interpreter instead of vectoring through IRQ.
		c.Halted = true
	case isa.NOP:
	}
}
