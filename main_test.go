package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"mos6502asm/pkg/address"
	"mos6502asm/pkg/programs"
	"mos6502asm/pkg/rom"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := newRootCmd(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestAddressFlag(t *testing.T) {
	tests := []struct {
		in      string
		want    address.Address
		wantErr bool
	}{
		{"$C000", 0xC000, false},
		{"0x8000", 0x8000, false},
		{"0XFFFF", 0xFFFF, false},
		{"512", 0x0200, false},
		{" $10 ", 0x0010, false},
		{"65536", 0, true},
		{"$10000", 0, true},
		{"$", 0, true},
		{"zz", 0, true},
		{"-1", 0, true},
	}
	for _, tt := range tests {
		var got addressValue
		err := got.Set(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("Set(%q) error = %v; wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if address.Address(got) != tt.want {
			t.Errorf("Set(%q) = %s; want $%04X", tt.in, &got, tt.want)
		}
	}
}

func TestBuildWritesCodeAndImage(t *testing.T) {
	dir := t.TempDir()
	out := filepath.Join(dir, "hello.bin")
	img := filepath.Join(dir, "hello.rom")

	stdout, err := execute(t, "build", "-p", "hello", "--base", "$C000", "-o", out, "--rom", img)
	if err != nil {
		t.Fatalf("build failed: %v\n%s", err, stdout)
	}
	if !strings.Contains(stdout, "at $C000 -> "+out) {
		t.Errorf("unexpected build output: %q", stdout)
	}

	p, _ := programs.Lookup("hello")
	linked, err := p.Link(0xC000)
	if err != nil {
		t.Fatalf("Link failed: %v", err)
	}
	code, err := os.ReadFile(out)
	if err != nil {
		t.Fatalf("ReadFile failed: %v", err)
	}
	if !bytes.Equal(code, linked.Code) {
		t.Errorf("written code differs from Link output")
	}

	f, err := os.Open(img)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	defer f.Close()
	image, err := rom.Read(f)
	if err != nil {
		t.Fatalf("Read failed: %v", err)
	}
	if got := image.Vector(address.ResetLo); got != 0xC000 {
		t.Errorf("reset vector = $%04X; want $C000", got)
	}

	stdout, err = execute(t, "run", "--rom", img)
	if err != nil {
		t.Fatalf("run --rom failed: %v", err)
	}
	if !strings.HasPrefix(stdout, programs.HelloMessage) {
		t.Errorf("run --rom printed %q", stdout)
	}
}

func TestBuildSizeTooSmall(t *testing.T) {
	out := filepath.Join(t.TempDir(), "x.bin")
	_, err := execute(t, "build", "-p", "countdown", "--size", "4", "-o", out)
	if err == nil || !strings.Contains(err.Error(), "program countdown") {
		t.Fatalf("expected a wrapped assembly error, got %v", err)
	}
	if _, statErr := os.Stat(out); !os.IsNotExist(statErr) {
		t.Errorf("nothing should be written on failure")
	}
}

func TestRun(t *testing.T) {
	stdout, err := execute(t, "run", "-p", "countdown", "-b", "0x0300")
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}
	if !strings.HasPrefix(stdout, "987654321\nrun complete:") {
		t.Errorf("unexpected output %q", stdout)
	}
	if !strings.Contains(stdout, "halted=true") {
		t.Errorf("countdown should halt: %q", stdout)
	}
}

func TestRunStepLimit(t *testing.T) {
	_, err := execute(t, "run", "-p", "countdown", "--max-steps", "3")
	if err == nil || !strings.Contains(err.Error(), "step limit") {
		t.Fatalf("expected step limit error, got %v", err)
	}
}

func TestLabels(t *testing.T) {
	stdout, err := execute(t, "labels", "-p", "ticker", "--base", "$E000")
	if err != nil {
		t.Fatalf("labels failed: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(stdout), "\n")
	want := []string{"$E005  idle", "$E008  irq", "$E000  start"}
	if len(lines) != len(want) {
		t.Fatalf("got %q", lines)
	}
	for i := range want {
		if lines[i] != want[i] {
			t.Errorf("line %d = %q; want %q", i, lines[i], want[i])
		}
	}
}

func TestList(t *testing.T) {
	stdout, err := execute(t, "list", "-p", "ticker", "--base", "$E000")
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	for _, want := range []string{
		"start:\n  E000  A9 00     LDA #$00",
		"idle:\n  E005  4C 05 E0  JMP $E005",
		"irq:\n  E008  48        PHA",
		"RTI",
	} {
		if !strings.Contains(stdout, want) {
			t.Errorf("listing missing %q:\n%s", want, stdout)
		}
	}
}

func TestUnknownProgram(t *testing.T) {
	_, err := execute(t, "labels", "-p", "nope")
	if err == nil || !strings.Contains(err.Error(), `unknown program "nope"`) {
		t.Fatalf("got %v", err)
	}
}

func TestPrograms(t *testing.T) {
	stdout, err := execute(t, "programs")
	if err != nil {
		t.Fatalf("programs failed: %v", err)
	}
	for _, name := range programs.Names() {
		if !strings.Contains(stdout, name) {
			t.Errorf("missing %s in %q", name, stdout)
		}
	}
}
