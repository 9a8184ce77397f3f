package rom

import (
	"bytes"
	"errors"
	"testing"

	"mos6502asm/pkg/address"
	"mos6502asm/pkg/asm"
	"mos6502asm/pkg/isa"
)

func TestLoad(t *testing.T) {
	m := New()
	if err := m.Load(0xC000, []byte{1, 2, 3}); err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if got := m.Bytes()[0xC000:0xC003]; !bytes.Equal(got, []byte{1, 2, 3}) {
		t.Errorf("image bytes = % X", got)
	}
	if err := m.Load(0xFFFF, []byte{1}); err != nil {
		t.Errorf("Load of last byte failed: %v", err)
	}
	if err := m.Load(0xFFFF, []byte{1, 2}); err == nil {
		t.Errorf("expected Load past end of memory to fail")
	}
}

func TestWireVectors(t *testing.T) {
	b := asm.NewBlock()
	b.MustLabel("main")
	b.InfiniteLoop()
	b.MustLabel("irq")
	b.MustInst(isa.RTI, isa.Implied, nil)

	code, block, err := b.Assemble(0xE000, 4, nil)
	if err != nil {
		t.Fatalf("Assemble failed: %v", err)
	}
	m := New()
	if err := m.Load(0xE000, code); err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if err := m.WireVectors(block, Vectors{Reset: "main", IRQ: "irq", NMI: "irq"}); err != nil {
		t.Fatalf("WireVectors failed: %v", err)
	}
	if got := m.Vector(address.ResetLo); got != 0xE000 {
		t.Errorf("reset vector = 0x%04X; want 0xE000", got)
	}
	if got := m.Vector(address.IRQLo); got != 0xE003 {
		t.Errorf("irq vector = 0x%04X; want 0xE003", got)
	}
	if got := m.Vector(address.NMILo); got != 0xE003 {
		t.Errorf("nmi vector = 0x%04X; want 0xE003", got)
	}
	if m.Bytes()[address.ResetHi] != 0xE0 {
		t.Errorf("reset high byte = 0x%02X", m.Bytes()[address.ResetHi])
	}

	err = m.WireVectors(block, Vectors{Reset: "nowhere"})
	if !errors.Is(err, asm.ErrUndeclaredLabel) {
		t.Errorf("expected undeclared label error, got %v", err)
	}
}

func TestWriteRead(t *testing.T) {
	m := New()
	m.SetVector(address.ResetLo, 0x1234)
	var buf bytes.Buffer
	n, err := m.WriteTo(&buf)
	if err != nil || n != Size {
		t.Fatalf("WriteTo = %d, %v", n, err)
	}
	back, err := Read(&buf)
	if err != nil {
		t.Fatalf("Read failed: %v", err)
	}
	if back.Vector(address.ResetLo) != 0x1234 {
		t.Errorf("vector lost in round trip")
	}
	if _, err := Read(bytes.NewReader(make([]byte, 10))); err == nil {
		t.Errorf("expected short image to fail")
	}
}

func TestLink(t *testing.T) {
	b := asm.NewBlock()
	b.MustLabel("start")
	b.MustInst(isa.JMP, isa.Absolute, asm.Ref("start"))

	linked, err := Link(b, 0x9000, 0, Vectors{Reset: "start"})
	if err != nil {
		t.Fatalf("Link failed: %v", err)
	}
	if !bytes.Equal(linked.Code, []byte{0x4C, 0x00, 0x90}) {
		t.Errorf("code = % X", linked.Code)
	}
	if linked.Image.Vector(address.ResetLo) != 0x9000 {
		t.Errorf("reset vector not wired")
	}
	if len(linked.Labels) != 1 || linked.Labels[0].Address != 0x9000 {
		t.Errorf("labels = %v", linked.Labels)
	}

	if _, err := Link(b, 0x9000, 2, Vectors{}); !errors.Is(err, asm.ErrOffsetOutOfBounds) {
		t.Errorf("expected out of bounds, got %v", err)
	}
	if _, err := Link(b, 0xFFFF, 0, Vectors{}); err == nil {
		t.Errorf("expected load past end of memory to fail")
	}
}
