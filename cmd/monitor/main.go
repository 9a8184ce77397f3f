// Command monitor is an interactive machine monitor for the sample programs.
package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/peterh/liner"
	"github.com/pkg/errors"

	"mos6502asm/pkg/address"
	"mos6502asm/pkg/programs"
)

const historyFile = ".mos6502_monitor_history"

// lineReader is the part of *liner.State the session loop uses.
type lineReader interface {
	Prompt(prompt string) (string, error)
	AppendHistory(item string)
}

// session reads and executes commands until quit, end of input or Ctrl+C.
func (m *monitor) session(in lineReader) error {
	for {
		line, err := in.Prompt("> ")
		if errors.Is(err, io.EOF) || errors.Is(err, liner.ErrPromptAborted) {
			fmt.Fprintln(m.out)
			return nil
		}
		if err != nil {
			return err
		}
		if strings.TrimSpace(line) != "" {
			in.AppendHistory(line)
		}
		quit, err := m.exec(line)
		if err != nil {
			fmt.Fprintln(m.out, "error:", err)
		}
		if quit {
			return nil
		}
	}
}

func main() {
	name := flag.String("program", "countdown", "sample program to load")
	baseFlag := flag.String("base", "8000", "load address: hex, $hex, 0xhex or #decimal")
	flag.Parse()

	p, ok := programs.Lookup(*name)
	if !ok {
		log.Fatalf("unknown program %q (have %s)", *name, strings.Join(programs.Names(), ", "))
	}
	base, err := address.Parse(*baseFlag, 16)
	if err != nil {
		log.Fatal(err)
	}
	linked, err := p.Link(base)
	if err != nil {
		log.Fatalf("link failed: %v", err)
	}

	m := newMonitor(linked, os.Stdout)
	fmt.Printf("%s loaded at $%04X (%d bytes). Type help for commands.\n", p.Name, base, len(linked.Code))
	m.where()

	ln := liner.NewLiner()
	defer ln.Close()
	ln.SetCtrlCAborts(true)
	ln.SetCompleter(complete)

	home, _ := os.UserHomeDir()
	histPath := filepath.Join(home, historyFile)
	if f, err := os.Open(histPath); err == nil {
		_, _ = ln.ReadHistory(f)
		_ = f.Close()
	}

	if err := m.session(ln); err != nil {
		log.Printf("read failed: %v", err)
	}

	if f, err := os.Create(histPath); err == nil {
		_, _ = ln.WriteHistory(f)
		_ = f.Close()
	}
}
