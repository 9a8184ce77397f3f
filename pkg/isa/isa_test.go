package isa

import (
	"errors"
	"reflect"
	"testing"
)

func TestOpcode(t *testing.T) {
	tests := []struct {
		m    Mnemonic
		mode Mode
		want byte
	}{
		{LDA, Immediate, 0xA9},
		{LDA, IndirectIndexed, 0xB1},
		{STA, Absolute, 0x8D},
		{JMP, Absolute, 0x4C},
		{JMP, Indirect, 0x6C},
		{JSR, Absolute, 0x20},
		{BNE, Relative, 0xD0},
		{ASL, Accumulator, 0x0A},
		{LDX, ZeroPageY, 0xB6},
		{BRK, Implied, 0x00},
		{NOP, Implied, 0xEA},
	}
	for _, tc := range tests {
		got, err := Opcode(tc.m, tc.mode)
		if err != nil {
			t.Errorf("Opcode(%s, %s) failed: %v", tc.m, tc.mode, err)
			continue
		}
		if got != tc.want {
			t.Errorf("Opcode(%s, %s) = 0x%02X; want 0x%02X", tc.m, tc.mode, got, tc.want)
		}
	}
}

func TestOpcodeUnsupported(t *testing.T) {
	_, err := Opcode(STA, Immediate)
	var modeErr *UnsupportedModeError
	if !errors.As(err, &modeErr) {
		t.Fatalf("expected UnsupportedModeError, got %v", err)
	}
	if modeErr.Mnemonic != STA || modeErr.Mode != Immediate {
		t.Errorf("unexpected error fields: %+v", modeErr)
	}
	if err.Error() != "STA does not support immediate addressing" {
		t.Errorf("unexpected message %q", err.Error())
	}
}

func TestDecodeRoundTrip(t *testing.T) {
	count := 0
	for m := Mnemonic(0); m < mnemonicCount; m++ {
		for _, mode := range Modes(m) {
			op, err := Opcode(m, mode)
			if err != nil {
				t.Fatalf("Opcode(%s, %s): %v", m, mode, err)
			}
			in, ok := Decode(op)
			if !ok {
				t.Fatalf("Decode(0x%02X) not found", op)
			}
			want := Instruction{Mnemonic: m, Mode: mode, Opcode: op}
			if !reflect.DeepEqual(in, want) {
				t.Errorf("Decode(0x%02X) = %+v; want %+v", op, in, want)
			}
			count++
		}
	}
	// The documented 6502 instruction set has 151 opcodes.
	if count != 151 {
		t.Errorf("opcode table has %d entries; want 151", count)
	}
	if _, ok := Decode(0x02); ok {
		t.Errorf("Decode(0x02) should not be a documented opcode")
	}
}

func TestLengthAndOperands(t *testing.T) {
	tests := []struct {
		mode    Mode
		operand OperandKind
		length  uint16
	}{
		{Implied, OperandNone, 1},
		{Accumulator, OperandNone, 1},
		{Immediate, OperandByte, 2},
		{ZeroPageX, OperandByte, 2},
		{Relative, OperandByte, 2},
		{IndexedIndirect, OperandByte, 2},
		{Absolute, OperandAddress, 3},
		{AbsoluteY, OperandAddress, 3},
		{Indirect, OperandAddress, 3},
	}
	for _, tc := range tests {
		if got := tc.mode.Operand(); got != tc.operand {
			t.Errorf("%s.Operand() = %s; want %s", tc.mode, got, tc.operand)
		}
		in := Instruction{Mode: tc.mode}
		if got := in.Length(); got != tc.length {
			t.Errorf("Length for %s = %d; want %d", tc.mode, got, tc.length)
		}
	}
}

func TestParseMnemonic(t *testing.T) {
	if m, ok := ParseMnemonic(" lda "); !ok || m != LDA {
		t.Errorf("ParseMnemonic(lda) = %v, %v", m, ok)
	}
	if _, ok := ParseMnemonic("XYZ"); ok {
		t.Errorf("ParseMnemonic(XYZ) should fail")
	}
	if TYA.String() != "TYA" {
		t.Errorf("TYA.String() = %q", TYA.String())
	}
}
