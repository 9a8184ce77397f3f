package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/k0kubun/pp/v3"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"mos6502asm/pkg/address"
	"mos6502asm/pkg/cpu"
	"mos6502asm/pkg/isa"
	"mos6502asm/pkg/programs"
	"mos6502asm/pkg/rom"
)

func main() {
	if err := newRootCmd(os.Stdout).Execute(); err != nil {
		os.Exit(1)
	}
}

// addressValue is a flag holding a 16-bit address written as $C000, 0xC000
// or 49152. Unprefixed numbers are decimal.
type addressValue address.Address

var _ pflag.Value = (*addressValue)(nil)

func (a *addressValue) String() string { return fmt.Sprintf("$%04X", uint16(*a)) }
func (a *addressValue) Type() string   { return "address" }

func (a *addressValue) Set(s string) error {
	v, err := address.Parse(s, 10)
	if err != nil {
		return err
	}
	*a = addressValue(v)
	return nil
}

type options struct {
	out      io.Writer
	program  string
	base     addressValue
	size     int
	output   string
	romPath  string
	maxSteps int
	debug    bool
}

func (o *options) lookup() (programs.Program, error) {
	p, ok := programs.Lookup(o.program)
	if !ok {
		return programs.Program{}, errors.Errorf("unknown program %q (have %s)", o.program, strings.Join(programs.Names(), ", "))
	}
	return p, nil
}

func (o *options) link() (*rom.Linked, error) {
	p, err := o.lookup()
	if err != nil {
		return nil, err
	}
	linked, err := rom.Link(p.Build(), address.Address(o.base), o.size, p.Vectors)
	if err != nil {
		return nil, errors.WithMessagef(err, "program %s", p.Name)
	}
	if o.debug {
		pp.Fprintln(o.out, linked.Labels)
	}
	return linked, nil
}

func newRootCmd(out io.Writer) *cobra.Command {
	o := &options{out: out, base: 0x8000}

	root := &cobra.Command{
		Use:   "mos6502asm",
		Short: "Assemble and run relocatable 6502 sample programs",
		Long: `mos6502asm assembles the bundled 6502 sample programs at any base address.
The result can be written out as raw code or as a full 64K image with its
vectors set, listed, or run on the built-in interpreter.`,
		SilenceUsage: true,
	}
	root.SetOut(out)
	pf := root.PersistentFlags()
	pf.StringVarP(&o.program, "program", "p", "countdown", "sample program to build")
	pf.VarP(&o.base, "base", "b", "load address ($hex, 0xhex or decimal)")
	pf.IntVar(&o.size, "size", 0, "output size in bytes (0 means the program's extent)")
	pf.BoolVar(&o.debug, "debug", false, "dump label tables and CPU state")

	root.AddCommand(
		newBuildCmd(o),
		newRunCmd(o),
		newLabelsCmd(o),
		newListCmd(o),
		newProgramsCmd(o),
	)
	return root
}

func newBuildCmd(o *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "build",
		Short: "Assemble a program and write its code",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			linked, err := o.link()
			if err != nil {
				return err
			}
			output := o.output
			if output == "" {
				output = o.program + ".bin"
			}
			if err := os.WriteFile(output, linked.Code, 0o644); err != nil {
				return errors.Wrapf(err, "failed to write binary file %q", output)
			}
			fmt.Fprintf(o.out, "assembled %d bytes at $%04X -> %s\n", len(linked.Code), linked.Base, output)

			if o.romPath != "" {
				f, err := os.Create(o.romPath)
				if err != nil {
					return errors.Wrap(err, "failed to create image")
				}
				defer f.Close()
				if _, err := linked.Image.WriteTo(f); err != nil {
					return errors.Wrapf(err, "failed to write image %q", o.romPath)
				}
				fmt.Fprintf(o.out, "wrote %d byte image -> %s\n", rom.Size, o.romPath)
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&o.output, "out", "o", "", "output binary path (default: <program>.bin)")
	cmd.Flags().StringVar(&o.romPath, "rom", "", "also write a full 64K image with vectors set")
	return cmd
}

func newRunCmd(o *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run a program, or a saved image, on the interpreter",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			img, err := o.image()
			if err != nil {
				return err
			}
			vm := cpu.New()
			vm.Output = o.out
			vm.Load(img)
			vm.Reset()
			runErr := vm.Run(o.maxSteps)
			fmt.Fprintf(o.out,
				"\nrun complete: PC=$%04X A=$%02X X=$%02X Y=$%02X SP=$%02X P=$%02X cycles=%d halted=%t trapped=%t\n",
				vm.PC, vm.A, vm.X, vm.Y, vm.SP, vm.P, vm.Cycles, vm.Halted, vm.Trapped,
			)
			if o.debug {
				pp.Fprintln(o.out, vm.Registers())
			}
			return runErr
		},
	}
	cmd.Flags().StringVar(&o.romPath, "rom", "", "run this 64K image instead of building --program")
	cmd.Flags().IntVar(&o.maxSteps, "max-steps", 1000000, "instruction limit (0 for none)")
	return cmd
}

func (o *options) image() (*rom.Image, error) {
	if o.romPath == "" {
		linked, err := o.link()
		if err != nil {
			return nil, err
		}
		return linked.Image, nil
	}
	f, err := os.Open(o.romPath)
	if err != nil {
		return nil, errors.Wrap(err, "failed to open image")
	}
	defer f.Close()
	return rom.Read(f)
}

func newLabelsCmd(o *options) *cobra.Command {
	return &cobra.Command{
		Use:   "labels",
		Short: "Print a program's relocated label table",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			linked, err := o.link()
			if err != nil {
				return err
			}
			for _, sym := range linked.Labels {
				fmt.Fprintf(o.out, "$%04X  %s\n", sym.Address, sym.Name)
			}
			return nil
		},
	}
}

func newListCmd(o *options) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "Disassemble a program at its base address",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			linked, err := o.link()
			if err != nil {
				return err
			}
			names := make(map[address.Address][]string)
			for _, sym := range linked.Labels {
				names[sym.Address] = append(names[sym.Address], sym.Name)
			}
			for _, line := range isa.Disassemble(linked.Code, linked.Base) {
				for _, name := range names[line.Addr] {
					fmt.Fprintf(o.out, "%s:\n", name)
				}
				fmt.Fprintf(o.out, "  %s\n", line)
			}
			return nil
		},
	}
}

func newProgramsCmd(o *options) *cobra.Command {
	return &cobra.Command{
		Use:   "programs",
		Short: "List the bundled sample programs",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			for _, name := range programs.Names() {
				p, _ := programs.Lookup(name)
				fmt.Fprintf(o.out, "%-10s %s\n", p.Name, p.Description)
			}
		},
	}
}
