// Package programs holds sample 6502 programs written against asm.Block.
package programs

import (
	"sort"

	"mos6502asm/pkg/address"
	"mos6502asm/pkg/asm"
	"mos6502asm/pkg/cpu"
	"mos6502asm/pkg/isa"
	"mos6502asm/pkg/rom"
)

// Zero page locations used by the samples.
const (
	ptrLo   = 0xFB
	ptrHi   = 0xFC
	counter = 0x20
)

// Program is a named sample and the vectors it expects.
type Program struct {
	Name        string
	Description string
	Vectors     rom.Vectors
	Build       func() *asm.Block
}

var registry = map[string]Program{
	"countdown": {
		Name:        "countdown",
		Description: "prints the digits 9 down to 1 on the console",
		Vectors:     rom.Vectors{Reset: "start"},
		Build:       Countdown,
	},
	"hello": {
		Name:        "hello",
		Description: "prints a zero-terminated string through a zero page pointer",
		Vectors:     rom.Vectors{Reset: "start"},
		Build:       Hello,
	},
	"dispatch": {
		Name:        "dispatch",
		Description: "jumps through split lo/hi and word jump tables",
		Vectors:     rom.Vectors{Reset: "start"},
		Build:       Dispatch,
	},
	"ticker": {
		Name:        "ticker",
		Description: "idles and counts interrupts in zero page $20",
		Vectors:     rom.Vectors{Reset: "start", IRQ: "irq", NMI: "irq"},
		Build:       Ticker,
	},
}

// Names lists the registered programs in sorted order.
func Names() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Lookup finds a program by name.
func Lookup(name string) (Program, bool) {
	p, ok := registry[name]
	return p, ok
}

// Link builds p and places it at base with its vectors wired.
func (p Program) Link(base address.Address) (*rom.Linked, error) {
	return rom.Link(p.Build(), base, 0, p.Vectors)
}

func putChar(b *asm.Block) {
	b.MustInst(isa.STA, isa.Absolute, asm.Addr(cpu.ConsoleAddr))
}

// Countdown prints "987654321".
func Countdown() *asm.Block {
	b := asm.NewBlock()
	b.MustLabel("start")
	b.MustInst(isa.LDX, isa.Immediate, asm.Byte(9))
	b.MustLabel("loop")
	b.MustInst(isa.TXA, isa.Implied, nil)
	b.MustInst(isa.CLC, isa.Implied, nil)
	b.MustInst(isa.ADC, isa.Immediate, asm.Int('0'))
	putChar(b)
	b.MustInst(isa.DEX, isa.Implied, nil)
	b.MustInst(isa.BNE, isa.Relative, asm.Rel("loop"))
	b.MustInst(isa.BRK, isa.Implied, nil)
	return b
}

// HelloMessage is the string printed by Hello.
const HelloMessage = "Hello, world!\n"

// Hello prints HelloMessage. The string follows the code and is addressed
// through the low and high bytes of its label.
func Hello() *asm.Block {
	b := asm.NewBlock()
	b.MustLabel("start")
	b.MustInst(isa.LDA, isa.Immediate, asm.Lo("message"))
	b.MustInst(isa.STA, isa.ZeroPage, asm.Byte(ptrLo))
	b.MustInst(isa.LDA, isa.Immediate, asm.Hi("message"))
	b.MustInst(isa.STA, isa.ZeroPage, asm.Byte(ptrHi))
	b.MustInst(isa.LDY, isa.Immediate, asm.Byte(0))
	b.MustLabel("next")
	b.MustInst(isa.LDA, isa.IndirectIndexed, asm.Byte(ptrLo))
	b.MustInst(isa.BEQ, isa.Relative, asm.Rel("done"))
	putChar(b)
	b.MustInst(isa.INY, isa.Implied, nil)
	b.MustInst(isa.BNE, isa.Relative, asm.Rel("next"))
	b.MustLabel("done")
	b.MustInst(isa.BRK, isa.Implied, nil)
	b.MustLabel("message")
	for _, ch := range []byte(HelloMessage) {
		b.LiteralByte(ch)
	}
	b.LiteralByte(0)
	return b
}

var dispatchTargets = []string{"say_a", "say_b", "say_c"}

// Dispatch calls every entry of a split lo/hi jump table through an indirect
// JMP, then calls the first entry again through a table of full addresses.
// It prints "ABCA".
func Dispatch() *asm.Block {
	b := asm.NewBlock()
	b.MustLabel("start")
	b.MustInst(isa.LDX, isa.Immediate, asm.Byte(0))
	b.MustLabel("each")
	b.MustInst(isa.JSR, isa.Absolute, asm.Ref("call"))
	b.MustInst(isa.INX, isa.Implied, nil)
	b.MustInst(isa.CPX, isa.Immediate, asm.Byte(byte(len(dispatchTargets))))
	b.MustInst(isa.BNE, isa.Relative, asm.Rel("each"))
	b.MustInst(isa.JSR, isa.Absolute, asm.Ref("call_word"))
	b.MustInst(isa.BRK, isa.Implied, nil)

	// call jumps to lo_table[X]/hi_table[X].
	b.MustLabel("call")
	b.MustInst(isa.LDA, isa.AbsoluteX, asm.Ref("lo_table"))
	b.MustInst(isa.STA, isa.ZeroPage, asm.Byte(ptrLo))
	b.MustInst(isa.LDA, isa.AbsoluteX, asm.Ref("hi_table"))
	b.MustInst(isa.STA, isa.ZeroPage, asm.Byte(ptrHi))
	b.MustInst(isa.JMP, isa.Indirect, asm.Addr(ptrLo))

	// call_word jumps through the first word of word_table.
	b.MustLabel("call_word")
	b.MustInst(isa.JMP, isa.Indirect, asm.Ref("word_table"))

	for i, name := range dispatchTargets {
		b.MustLabel(name)
		b.MustInst(isa.LDA, isa.Immediate, asm.Int('A'+i))
		putChar(b)
		b.MustInst(isa.RTS, isa.Implied, nil)
	}

	b.MustLabel("lo_table")
	for _, name := range dispatchTargets {
		b.LabelOffsetLo(name)
	}
	b.MustLabel("hi_table")
	for _, name := range dispatchTargets {
		b.LabelOffsetHi(name)
	}
	b.MustLabel("word_table")
	for _, name := range dispatchTargets {
		b.LabelOffsetLE(name)
	}
	return b
}

// Ticker enables interrupts and spins; each IRQ or NMI increments $20.
func Ticker() *asm.Block {
	b := asm.NewBlock()
	b.MustLabel("start")
	b.MustInst(isa.LDA, isa.Immediate, asm.Byte(0))
	b.MustInst(isa.STA, isa.ZeroPage, asm.Byte(counter))
	b.MustInst(isa.CLI, isa.Implied, nil)
	b.MustLabel("idle")
	b.InfiniteLoop()

	b.MustLabel("irq")
	b.MustInst(isa.PHA, isa.Implied, nil)
	b.MustInst(isa.INC, isa.ZeroPage, asm.Byte(counter))
	b.MustInst(isa.PLA, isa.Implied, nil)
	b.MustInst(isa.RTI, isa.Implied, nil)
	return b
}
