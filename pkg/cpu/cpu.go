// Package cpu interprets 6502 machine code. It exists to run assembled
// blocks and check that what the assembler emits behaves as intended on the
// target; decimal mode and undocumented opcodes are not modelled.
package cpu

import (
	"fmt"
	"io"
	"os"

	"github.com/pkg/errors"

	"mos6502asm/pkg/address"
	"mos6502asm/pkg/isa"
	"mos6502asm/pkg/rom"
)

// ConsoleAddr is a write-only port: every byte stored there is copied to
// Output.
const ConsoleAddr address.Address = 0xF001

// Status register bits.
const (
	FlagC byte = 1 << iota
	FlagZ
	FlagI
	FlagD
	FlagB
	FlagU
	FlagV
	FlagN
)

const stackPage address.Address = 0x0100

// ErrStepLimit is returned by Run when the program is still going after the
// allowed number of steps.
var ErrStepLimit = errors.New("step limit reached")

// UnknownOpcodeError reports an opcode outside the documented set.
type UnknownOpcodeError struct {
	Opcode byte
	PC     address.Address
}

func (e *UnknownOpcodeError) Error() string {
	return fmt.Sprintf("unknown opcode $%02X at $%04X", e.Opcode, e.PC)
}

type CPU struct {
	A, X, Y byte
	SP      byte
	P       byte
	PC      address.Address

	Memory [rom.Size]byte

	Cycles uint64

	// Halted is set by BRK or an unknown opcode.
	Halted bool
	// Trapped is set by Run when an instruction jumps or branches to itself.
	// The next Step clears it.
	Trapped bool

	irqPending bool
	nmiPending bool

	// Output is where console writes go. If nil, os.Stdout is used.
	Output io.Writer
}

func New() *CPU {
	return &CPU{
		SP: 0xFD,
		P:  FlagI | FlagU,
	}
}

// Load copies a memory image into the CPU.
func (c *CPU) Load(img *rom.Image) {
	copy(c.Memory[:], img.Bytes())
}

// Reset starts execution at the reset vector.
func (c *CPU) Reset() {
	c.SP = 0xFD
	c.P = FlagI | FlagU
	c.PC = c.Read16(address.ResetLo)
	c.Halted = false
	c.Trapped = false
	c.irqPending = false
	c.nmiPending = false
	c.Cycles += 7
}

// TriggerIRQ raises the maskable interrupt line. It is taken before the next
// instruction once the I flag is clear.
func (c *CPU) TriggerIRQ() {
	c.irqPending = true
}

// TriggerNMI raises the non-maskable interrupt.
func (c *CPU) TriggerNMI() {
	c.nmiPending = true
}

func (c *CPU) outputSink() io.Writer {
	if c.Output != nil {
		return c.Output
	}
	return os.Stdout
}

func (c *CPU) ReadByte(addr address.Address) byte {
	return c.Memory[addr]
}

func (c *CPU) WriteByte(addr address.Address, val byte) {
	if addr == ConsoleAddr {
		_, _ = c.outputSink().Write([]byte{val})
	}
	c.Memory[addr] = val
}

// Read16 reads a little-endian address from addr and addr+1.
func (c *CPU) Read16(addr address.Address) address.Address {
	return address.FromLoHi(c.Memory[addr], c.Memory[addr+1])
}

func (c *CPU) flag(f byte) bool {
	return c.P&f != 0
}

func (c *CPU) setFlag(f byte, on bool) {
	if on {
		c.P |= f
	} else {
		c.P &^= f
	}
}

func (c *CPU) setZN(v byte) {
	c.setFlag(FlagZ, v == 0)
	c.setFlag(FlagN, v&0x80 != 0)
}

func (c *CPU) push(v byte) {
	c.WriteByte(stackPage|address.Address(c.SP), v)
	c.SP--
}

func (c *CPU) pull() byte {
	c.SP++
	return c.ReadByte(stackPage | address.Address(c.SP))
}

func (c *CPU) push16(v address.Address) {
	c.push(address.Hi(v))
	c.push(address.Lo(v))
}

func (c *CPU) pull16() address.Address {
	lo := c.pull()
	hi := c.pull()
	return address.FromLoHi(lo, hi)
}

func (c *CPU) interrupt(vector address.Address) {
	c.push16(c.PC)
	c.push((c.P | FlagU) &^ FlagB)
	c.setFlag(FlagI, true)
	c.PC = c.Read16(vector)
	c.Cycles += 7
}

// Step executes one instruction, or enters a pending interrupt.
func (c *CPU) Step() error {
	if c.Halted {
		return nil
	}
	c.Trapped = false

	if c.nmiPending {
		c.nmiPending = false
		c.interrupt(address.NMILo)
		return nil
	}
	if c.irqPending && !c.flag(FlagI) {
		c.irqPending = false
		c.interrupt(address.IRQLo)
		return nil
	}

	pc := c.PC
	op := c.ReadByte(pc)
	in, ok := isa.Decode(op)
	if !ok {
		c.Halted = true
		return &UnknownOpcodeError{Opcode: op, PC: pc}
	}
	c.PC = pc + in.Length()
	c.execute(in, pc)
	return nil
}

func (c *CPU) interruptReady() bool {
	return c.nmiPending || (c.irqPending && !c.flag(FlagI))
}

// Run steps until the CPU halts, traps on a jump to itself, or maxSteps
// instructions have run. maxSteps <= 0 means no limit.
func (c *CPU) Run(maxSteps int) error {
	for steps := 0; maxSteps <= 0 || steps < maxSteps; steps++ {
		pc := c.PC
		if err := c.Step(); err != nil {
			return err
		}
		if c.Halted {
			return nil
		}
		if c.PC == pc && !c.interruptReady() {
			c.Trapped = true
			return nil
		}
	}
	return errors.Wrapf(ErrStepLimit, "after %d steps at $%04X", maxSteps, c.PC)
}
