package cpu

import (
	"encoding/json"

	"github.com/pkg/errors"

	"mos6502asm/pkg/address"
)

// state is the JSON form of a CPU snapshot. Memory is base64 encoded by
// encoding/json.
type state struct {
	A          byte            `json:"a"`
	X          byte            `json:"x"`
	Y          byte            `json:"y"`
	SP         byte            `json:"sp"`
	P          byte            `json:"p"`
	PC         address.Address `json:"pc"`
	Cycles     uint64          `json:"cycles"`
	Halted     bool            `json:"halted"`
	Trapped    bool            `json:"trapped"`
	IRQPending bool            `json:"irq_pending"`
	NMIPending bool            `json:"nmi_pending"`
	Memory     []byte          `json:"memory"`
}

// Snapshot serialises registers, pending interrupts and memory.
func (c *CPU) Snapshot() ([]byte, error) {
	s := state{
		A:          c.A,
		X:          c.X,
		Y:          c.Y,
		SP:         c.SP,
		P:          c.P,
		PC:         c.PC,
		Cycles:     c.Cycles,
		Halted:     c.Halted,
		Trapped:    c.Trapped,
		IRQPending: c.irqPending,
		NMIPending: c.nmiPending,
		Memory:     c.Memory[:],
	}
	data, err := json.MarshalIndent(s, "", "  ")
	return data, errors.Wrap(err, "encoding snapshot")
}

// Restore replaces the CPU state with a snapshot taken by Snapshot. Output
// is left as is.
func (c *CPU) Restore(data []byte) error {
	var s state
	if err := json.Unmarshal(data, &s); err != nil {
		return errors.Wrap(err, "decoding snapshot")
	}
	if len(s.Memory) != len(c.Memory) {
		return errors.Errorf("snapshot holds %d bytes of memory, want %d", len(s.Memory), len(c.Memory))
	}
	c.A, c.X, c.Y = s.A, s.X, s.Y
	c.SP, c.P, c.PC = s.SP, s.P, s.PC
	c.Cycles = s.Cycles
	c.Halted, c.Trapped = s.Halted, s.Trapped
	c.irqPending, c.nmiPending = s.IRQPending, s.NMIPending
	copy(c.Memory[:], s.Memory)
	return nil
}
