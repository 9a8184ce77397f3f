package main

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/pkg/errors"

	"mos6502asm/pkg/address"
	"mos6502asm/pkg/cpu"
	"mos6502asm/pkg/isa"
	"mos6502asm/pkg/programs"
	"mos6502asm/pkg/rom"
)

const (
	stepsPerFrame = 2000
	consoleLines  = 6
)

type action int

const (
	actStep action = iota
	actToggleRun
	actIRQ
	actNMI
	actReset
	actPageUp
	actPageDown
	actFollowPC
)

// viewer is the state behind the window.
type viewer struct {
	vm      *cpu.CPU
	linked  *rom.Linked
	console bytes.Buffer
	page    byte
	follow  bool
	running bool
	status  string
}

// linkProgram places the named sample at base, written as $hex, 0xhex or
// decimal.
func linkProgram(name, base string) (*rom.Linked, error) {
	p, ok := programs.Lookup(name)
	if !ok {
		return nil, errors.Errorf("unknown program %q", name)
	}
	addr, err := address.Parse(base, 10)
	if err != nil {
		return nil, err
	}
	linked, err := p.Link(addr)
	return linked, errors.WithMessage(err, "link failed")
}

func newViewer(linked *rom.Linked) *viewer {
	v := &viewer{linked: linked, vm: cpu.New(), follow: true}
	v.vm.Output = &v.console
	v.reset()
	return v
}

func (v *viewer) reset() {
	v.console.Reset()
	v.vm.Cycles = 0
	v.vm.Load(v.linked.Image)
	v.vm.Reset()
	v.running = false
	v.status = "reset"
}

func (v *viewer) apply(a action) {
	switch a {
	case actStep:
		v.running = false
		v.record(v.vm.Step())
	case actToggleRun:
		v.running = !v.running
	case actIRQ:
		v.vm.TriggerIRQ()
		v.status = "IRQ raised"
	case actNMI:
		v.vm.TriggerNMI()
		v.status = "NMI raised"
	case actReset:
		v.reset()
	case actPageUp:
		v.follow = false
		v.page--
	case actPageDown:
		v.follow = false
		v.page++
	case actFollowPC:
		v.follow = true
	}
}

// tick advances a running machine by one frame's worth of instructions.
func (v *viewer) tick() {
	if v.running && !v.vm.Halted {
		err := v.vm.Run(stepsPerFrame)
		if errors.Is(err, cpu.ErrStepLimit) {
			err = nil
		}
		v.record(err)
	}
	if v.follow {
		v.page = address.Hi(v.vm.PC)
	}
}

func (v *viewer) record(err error) {
	switch {
	case err != nil:
		v.running = false
		v.status = err.Error()
	case v.vm.Halted:
		v.running = false
		v.status = "halted"
	case v.vm.Trapped:
		v.status = "idle"
	case v.running:
		v.status = "running"
	default:
		v.status = "stepped"
	}
}

// dump renders the current memory page as 16 rows of 16 bytes.
func (v *viewer) dump() []string {
	rows := make([]string, 0, 16)
	start := address.FromHiLo(v.page, 0)
	for row := 0; row < 16; row++ {
		addr := start + address.Address(row*16)
		var sb strings.Builder
		fmt.Fprintf(&sb, "%04X", addr)
		for i := 0; i < 16; i++ {
			a := addr + address.Address(i)
			if a == v.vm.PC {
				fmt.Fprintf(&sb, ">%02X", v.vm.ReadByte(a))
			} else {
				fmt.Fprintf(&sb, " %02X", v.vm.ReadByte(a))
			}
		}
		rows = append(rows, sb.String())
	}
	return rows
}

// next disassembles the instruction at PC.
func (v *viewer) next() string {
	pc := v.vm.PC
	end := int(pc) + 3
	if end > rom.Size {
		end = rom.Size
	}
	lines := isa.Disassemble(v.vm.Memory[pc:end], pc)
	if len(lines) == 0 {
		return ""
	}
	for _, sym := range v.linked.Labels {
		if sym.Address == pc {
			return sym.Name + ": " + lines[0].String()
		}
	}
	return lines[0].String()
}

// tail returns the last consoleLines lines of console output.
func (v *viewer) tail() string {
	lines := strings.Split(v.console.String(), "\n")
	if len(lines) > consoleLines {
		lines = lines[len(lines)-consoleLines:]
	}
	return strings.Join(lines, "\n")
}
