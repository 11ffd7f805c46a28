// Command y86sim loads one of the hand-built benchmark programs into a
// chosen microarchitecture, runs it (headless) or drives it through the
// interactive inspector, and reports the cycle count and the final
// values of %rax, %rbx, %rcx and %rdx.
package main

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"

	"y86sim/arch"
	"y86sim/asm"
	"y86sim/config"
	"y86sim/object"
	"y86sim/tui"
)

// ncopySrcAddr and ncopyDstAddr are where the "ncopy" program's source
// and destination buffers live; ncopySrc is loaded into memory at
// ncopySrcAddr before the simulator runs.
const (
	ncopySrcAddr = 0x200
	ncopyDstAddr = 0x300
)

var ncopySrc = []int64{5, -2, 7, -9, 4}

var programs = map[string]func() []asm.Line{
	"iopq":    asm.IopqProgram,
	"callret": asm.CallRetProgram,
	"sum":     asm.SumProgram,
	"bubble":  asm.BubbleProgram,
	"ncopy":   func() []asm.Line { return asm.NCopyProgram(ncopySrc, ncopyDstAddr, ncopySrcAddr) },
}

func main() {
	app := &cli.App{
		Name:  "y86sim",
		Usage: "run a Y86-64 benchmark program against a microarchitecture",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "config", Usage: "path to a YAML config file"},
			&cli.StringFlag{Name: "arch", Usage: "architecture name (overrides config)"},
			&cli.StringFlag{Name: "program", Value: "sum", Usage: "benchmark to run: " + programNames()},
			&cli.BoolFlag{Name: "tty", Usage: "enable per-cycle tracing (overrides config)"},
			&cli.BoolFlag{Name: "inspect", Usage: "drive the architecture through the interactive inspector"},
		},
		Action: run,
	}
	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, "y86sim:", err)
		os.Exit(1)
	}
}

func programNames() string {
	s := ""
	for name := range programs {
		if s != "" {
			s += ", "
		}
		s += name
	}
	return s
}

func run(c *cli.Context) error {
	cfg := config.Default()
	if path := c.String("config"); path != "" {
		loaded, err := config.Load(path)
		if err != nil {
			return err
		}
		cfg = loaded
	}
	if c.IsSet("arch") {
		cfg.Architecture = c.String("arch")
	}
	if c.IsSet("tty") {
		cfg.TTYOut = c.Bool("tty")
	}

	build, ok := programs[c.String("program")]
	if !ok {
		return fmt.Errorf("unknown program %q (known: %s)", c.String("program"), programNames())
	}

	obj, src, err := asm.Assemble(build(), 0)
	if err != nil {
		return fmt.Errorf("assembling program: %w", err)
	}
	if c.String("program") == "ncopy" {
		for i, v := range ncopySrc {
			if err := obj.Memory.WriteQuad(ncopySrcAddr+uint64(i)*8, uint64(v)); err != nil {
				return fmt.Errorf("loading ncopy source data: %w", err)
			}
		}
	}

	log := logrus.WithField("architecture", cfg.Architecture)
	log.Info("loaded program")
	fmt.Print(object.FormatYo(src))

	sim := arch.Create(cfg.Architecture, &obj.Memory.Bytes, cfg.TTYOut)

	if c.Bool("inspect") {
		return tui.Run(sim, obj.Memory, src)
	}

	for !sim.IsTerminate() && sim.CycleCount() < cfg.MaxCycles {
		sim.Step()
	}

	regs := sim.Registers()
	fmt.Printf("halted after %d cycles (cost %d/cycle)\n", sim.CycleCount(), sim.CycleCost())
	fmt.Printf("%%rax=%#x %%rbx=%#x %%rcx=%#x %%rdx=%#x\n", regs[0], regs[3], regs[1], regs[2])
	return nil
}
