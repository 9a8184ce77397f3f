package main

import (
	"bytes"
	"testing"

	"mos6502asm/pkg/address"
	"mos6502asm/pkg/asm"
	"mos6502asm/pkg/cpu"
	"mos6502asm/pkg/isa"
	"mos6502asm/pkg/programs"
	"mos6502asm/pkg/rom"
)

// emitLib is a small routine library placed more than once in one image.
func emitLib() *asm.Block {
	b := asm.NewBlock()
	b.MustLabel("emit_twice")
	b.MustInst(isa.JSR, isa.Absolute, asm.Ref("emit"))
	b.MustLabel("emit")
	b.MustInst(isa.STA, isa.Absolute, asm.Addr(cpu.ConsoleAddr))
	b.MustInst(isa.RTS, isa.Implied, nil)
	return b
}

func TestLinkSharedBlockAtTwoBases(t *testing.T) {
	lib := emitLib()
	size := lib.Extent()

	img := rom.New()
	entry := map[address.Address]*asm.AssembledBlock{}
	for _, base := range []address.Address{0x9000, 0xA0F0} {
		code, block, err := lib.Assemble(base, size, nil)
		if err != nil {
			t.Fatalf("Assemble lib at $%04X failed: %v", base, err)
		}
		if err := img.Load(base, code); err != nil {
			t.Fatalf("Load lib failed: %v", err)
		}
		entry[base] = block
	}
	emitA, _ := entry[0x9000].AddressOf("emit")
	twiceB, _ := entry[0xA0F0].AddressOf("emit_twice")

	prog := asm.NewBlock()
	prog.MustLabel("start")
	prog.MustInst(isa.LDA, isa.Immediate, asm.Int('x'))
	prog.MustInst(isa.JSR, isa.Absolute, asm.Addr(emitA))
	prog.MustInst(isa.LDA, isa.Immediate, asm.Int('y'))
	prog.MustInst(isa.JSR, isa.Absolute, asm.Addr(twiceB))
	prog.MustInst(isa.BRK, isa.Implied, nil)

	code, block, err := prog.Assemble(0x8000, prog.Extent(), nil)
	if err != nil {
		t.Fatalf("Assemble main failed: %v", err)
	}
	if err := img.Load(0x8000, code); err != nil {
		t.Fatalf("Load main failed: %v", err)
	}
	if err := img.WireVectors(block, rom.Vectors{Reset: "start"}); err != nil {
		t.Fatalf("WireVectors failed: %v", err)
	}

	var out bytes.Buffer
	vm := cpu.New()
	vm.Output = &out
	vm.Load(img)
	vm.Reset()
	if err := vm.Run(1000); err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if got := out.String(); got != "xyy" {
		t.Errorf("output = %q; want %q", got, "xyy")
	}
}

func TestSamplesRoundTripThroughImage(t *testing.T) {
	want := map[string]string{
		"countdown": "987654321",
		"hello":     programs.HelloMessage,
		"dispatch":  "ABCA",
	}
	for name, output := range want {
		p, _ := programs.Lookup(name)
		linked, err := p.Link(0x1000)
		if err != nil {
			t.Fatalf("%s: Link failed: %v", name, err)
		}
		var file bytes.Buffer
		if _, err := linked.Image.WriteTo(&file); err != nil {
			t.Fatalf("%s: WriteTo failed: %v", name, err)
		}
		img, err := rom.Read(&file)
		if err != nil {
			t.Fatalf("%s: Read failed: %v", name, err)
		}

		var out bytes.Buffer
		vm := cpu.New()
		vm.Output = &out
		vm.Load(img)
		vm.Reset()
		if err := vm.Run(100000); err != nil {
			t.Fatalf("%s: Run failed: %v", name, err)
		}
		if out.String() != output {
			t.Errorf("%s printed %q; want %q", name, out.String(), output)
		}
	}
}
