package main

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"mos6502asm/pkg/address"
	"mos6502asm/pkg/cpu"
	"mos6502asm/pkg/isa"
	"mos6502asm/pkg/rom"
)

const helpText = `commands:
  step [n]          execute n instructions (default 1)
  run [n]           run until BRK, a self jump or n steps (default 100000)
  regs              show registers
  mem addr [len]    hex dump memory (default 64 bytes)
  dis [addr] [n]    disassemble n instructions from addr (default PC, 8)
  labels            list program labels
  irq | nmi         raise an interrupt
  reset             reload the program and take the reset vector
  save file         write a snapshot
  load file         restore a snapshot
  quit
addresses are hex ($C000, C000) or label names; #n is decimal
`

var commands = []string{"step", "run", "regs", "mem", "dis", "labels", "irq", "nmi", "reset", "save", "load", "help", "quit"}

type monitor struct {
	out    io.Writer
	cpu    *cpu.CPU
	linked *rom.Linked
}

func newMonitor(linked *rom.Linked, out io.Writer) *monitor {
	m := &monitor{out: out, linked: linked, cpu: cpu.New()}
	m.cpu.Output = out
	m.reset()
	return m
}

func (m *monitor) reset() {
	m.cpu.Cycles = 0
	m.cpu.Load(m.linked.Image)
	m.cpu.Reset()
}

// exec runs one command line. It reports whether the session should end.
func (m *monitor) exec(line string) (bool, error) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return false, nil
	}
	args := fields[1:]
	switch strings.ToLower(fields[0]) {
	case "help", "?":
		fmt.Fprint(m.out, helpText)
	case "quit", "exit", "q":
		return true, nil
	case "step", "s":
		n, err := intArg(args, 0, 1)
		if err != nil {
			return false, err
		}
		for i := 0; i < n && !m.cpu.Halted; i++ {
			if err := m.cpu.Step(); err != nil {
				return false, err
			}
		}
		m.where()
	case "run", "r":
		n, err := intArg(args, 0, 100000)
		if err != nil {
			return false, err
		}
		err = m.cpu.Run(n)
		fmt.Fprintln(m.out)
		m.where()
		return false, err
	case "regs":
		fmt.Fprintln(m.out, m.cpu.Registers())
	case "mem", "m":
		if len(args) == 0 {
			return false, errors.New("usage: mem addr [len]")
		}
		addr, err := m.addrArg(args[0])
		if err != nil {
			return false, err
		}
		n, err := intArg(args, 1, 64)
		if err != nil {
			return false, err
		}
		m.dump(addr, n)
	case "dis", "d":
		addr := m.cpu.PC
		if len(args) > 0 {
			var err error
			if addr, err = m.addrArg(args[0]); err != nil {
				return false, err
			}
		}
		n, err := intArg(args, 1, 8)
		if err != nil {
			return false, err
		}
		for _, l := range m.disassemble(addr, n) {
			fmt.Fprintln(m.out, l)
		}
	case "labels":
		for _, sym := range m.linked.Labels {
			fmt.Fprintf(m.out, "$%04X  %s\n", sym.Address, sym.Name)
		}
	case "irq":
		m.cpu.TriggerIRQ()
	case "nmi":
		m.cpu.TriggerNMI()
	case "reset":
		m.reset()
		m.where()
	case "save":
		if len(args) != 1 {
			return false, errors.New("usage: save file")
		}
		data, err := m.cpu.Snapshot()
		if err != nil {
			return false, err
		}
		return false, errors.Wrap(os.WriteFile(args[0], data, 0o644), "save")
	case "load":
		if len(args) != 1 {
			return false, errors.New("usage: load file")
		}
		data, err := os.ReadFile(args[0])
		if err != nil {
			return false, errors.Wrap(err, "load")
		}
		if err := m.cpu.Restore(data); err != nil {
			return false, err
		}
		m.where()
	default:
		return false, errors.Errorf("unknown command %q, try help", fields[0])
	}
	return false, nil
}

// where prints the registers and the next instruction.
func (m *monitor) where() {
	fmt.Fprintln(m.out, m.cpu.Registers())
	if lines := m.disassemble(m.cpu.PC, 1); len(lines) > 0 {
		fmt.Fprintf(m.out, "%s%s\n", m.labelAt(m.cpu.PC), lines[0])
	}
	if m.cpu.Halted {
		fmt.Fprintln(m.out, "halted")
	}
}

func (m *monitor) labelAt(addr address.Address) string {
	for _, sym := range m.linked.Labels {
		if sym.Address == addr {
			return sym.Name + ": "
		}
	}
	return ""
}

func (m *monitor) disassemble(addr address.Address, n int) []isa.Line {
	end := int(addr) + 3*n
	if end > rom.Size {
		end = rom.Size
	}
	lines := isa.Disassemble(m.cpu.Memory[addr:end], addr)
	if len(lines) > n {
		lines = lines[:n]
	}
	return lines
}

func (m *monitor) dump(addr address.Address, n int) {
	for row := 0; row < n; row += 16 {
		start := addr + address.Address(row)
		fmt.Fprintf(m.out, "%04X ", start)
		for i := 0; i < 16 && row+i < n; i++ {
			fmt.Fprintf(m.out, " %02X", m.cpu.ReadByte(start+address.Address(i)))
		}
		fmt.Fprintln(m.out)
	}
}

// addrArg accepts a label name or a numeric address.
func (m *monitor) addrArg(s string) (address.Address, error) {
	if addr, ok := m.linked.Block.AddressOf(s); ok {
		return addr, nil
	}
	return address.Parse(s, 16)
}

func intArg(args []string, i, def int) (int, error) {
	if len(args) <= i {
		return def, nil
	}
	n, err := strconv.Atoi(args[i])
	if err != nil || n < 0 {
		return 0, errors.Errorf("invalid count %q", args[i])
	}
	return n, nil
}

func complete(line string) []string {
	var out []string
	for _, c := range commands {
		if strings.HasPrefix(c, strings.ToLower(line)) {
			out = append(out, c)
		}
	}
	return out
}
