package cpu

import (
	"fmt"

	"mos6502asm/pkg/address"
)

// Registers is a copy of the programmer-visible state.
type Registers struct {
	A, X, Y byte
	SP      byte
	P       byte
	PC      address.Address
	Cycles  uint64
}

func (c *CPU) Registers() Registers {
	return Registers{A: c.A, X: c.X, Y: c.Y, SP: c.SP, P: c.P, PC: c.PC, Cycles: c.Cycles}
}

// Flags renders P in NVUBDIZC order, upper case for set bits.
func (r Registers) Flags() string {
	const names = "czidbuvn"
	out := make([]byte, 8)
	for i := 0; i < 8; i++ {
		ch := names[i]
		if r.P&(1<<i) != 0 {
			ch -= 'a' - 'A'
		}
		out[7-i] = ch
	}
	return string(out)
}

func (r Registers) String() string {
	return fmt.Sprintf("PC=$%04X A=$%02X X=$%02X Y=$%02X SP=$%02X P=%s cycles=%d",
		r.PC, r.A, r.X, r.Y, r.SP, r.Flags(), r.Cycles)
}
