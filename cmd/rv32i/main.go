// Command rv32i is the RV32I+M emulator's CLI: `run` loads a hex or
// assembly program and executes it, `asm` assembles a source file to
// hex, and `disasm` renders a hex program's mnemonics.
//
// Grounded on oisee-z80-optimizer/cmd/z80opt/main.go's
// root-command-with-subcommands Cobra shape (one *cobra.Command per
// verb, flags bound with Flags().*Var, RunE returning the error for
// rootCmd.Execute to report), adapted from z80opt's single-binary
// superoptimizer verbs to the emulator's run/asm/disasm verbs.
package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/bassosimone/rv32i-emu/internal/config"
	"github.com/bassosimone/rv32i-emu/pkg/asm"
	"github.com/bassosimone/rv32i-emu/pkg/cpu"
	"github.com/bassosimone/rv32i-emu/pkg/loader"
)

func main() {
	log.SetFlags(0)
	err := newRootCmd().Execute()
	if err == nil {
		return
	}

	var execErr *cpu.ExecutionError
	if errors.As(err, &execErr) && execErr.Kind == cpu.KindUserTerminate {
		os.Exit(int(byte(execErr.ExitCode)))
	}

	log.Print(err)
	os.Exit(1)
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "rv32i",
		Short:         "RV32I+M instruction-level emulator",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(newRunCmd(), newAsmCmd(), newDisasmCmd())
	return root
}

// runFlags holds the run subcommand's flags, grounded on spec.md §6.1.
// Per SPEC_FULL.md §6.1, `--hex`/`-x` replaces spec.md's `-h` (which
// would collide with Cobra's built-in `--help`).
type runFlags struct {
	hex        bool
	configPath string
	tty        bool
	trace      bool
	stepDelay  time.Duration
	maxSteps   uint64
	m, a, f, d, q, c, e bool
}

func newRunCmd() *cobra.Command {
	rf := &runFlags{}
	cmd := &cobra.Command{
		Use:   "run <file>",
		Short: "Load and execute a program",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMain(cmd, args[0], rf)
		},
	}
	flags := cmd.Flags()
	flags.BoolVarP(&rf.hex, "hex", "x", false, "treat <file> as hex, not assembly")
	flags.StringVar(&rf.configPath, "config", "", "TOML configuration file")
	flags.BoolVar(&rf.tty, "tty", false, "mirror ecall console output to a TCP console")
	flags.BoolVar(&rf.trace, "trace", false, "record and print an execution trace")
	flags.DurationVar(&rf.stepDelay, "step-delay", 0, "pause between instructions")
	flags.Uint64Var(&rf.maxSteps, "max-steps", 0, "abort after this many instructions (0 = unbounded)")
	flags.BoolVarP(&rf.m, "m", "m", false, "enable the M (multiply/divide) extension")
	flags.BoolVarP(&rf.a, "a", "a", false, "enable the A extension (reserved)")
	flags.BoolVarP(&rf.f, "f", "f", false, "enable the F extension (reserved)")
	flags.BoolVarP(&rf.d, "d", "d", false, "enable the D extension (reserved)")
	flags.BoolVarP(&rf.q, "q", "q", false, "enable the Q extension (reserved)")
	flags.BoolVarP(&rf.c, "c", "c", false, "enable the C extension (reserved)")
	flags.BoolVarP(&rf.e, "e", "e", false, "enable the E (reduced register) extension (reserved)")
	return cmd
}

func runMain(cmd *cobra.Command, file string, rf *runFlags) error {
	cfg, err := config.Load(rf.configPath)
	if err != nil {
		return err
	}

	imem, err := loadProgram(file, rf.hex)
	if err != nil {
		return err
	}

	ext := cpu.Extensions{
		M: cfg.Extensions.M || rf.m,
		A: cfg.Extensions.A || rf.a,
		F: cfg.Extensions.F || rf.f,
		D: cfg.Extensions.D || rf.d,
		Q: cfg.Extensions.Q || rf.q,
		C: cfg.Extensions.C || rf.c,
		E: cfg.Extensions.E || rf.e,
	}
	machine := cpu.New(ext)
	machine.IMem = imem
	machine.AdvancePCOnEcall = cfg.Execution.AdvancePCOnEcall

	flags := cmd.Flags()
	if flags.Changed("max-steps") {
		machine.MaxSteps = rf.maxSteps
	} else {
		machine.MaxSteps = cfg.Execution.MaxSteps
	}
	if flags.Changed("step-delay") {
		machine.StepDelay = rf.stepDelay
	} else {
		machine.StepDelay = time.Duration(cfg.Execution.StepDelayMillis) * time.Millisecond
	}

	tty := rf.tty || cfg.Console.TTY
	if tty {
		nc, err := cpu.NewNetConsole(nil)
		if err != nil {
			return fmt.Errorf("rv32i run: %w", err)
		}
		defer nc.Close()
		machine.Console = nc
	}

	if rf.trace || cfg.Trace.Enabled {
		trace := cpu.NewExecutionTrace()
		trace.Start()
		machine.Trace = trace
		defer func() { fmt.Print(trace.String()) }()
	}

	if err := machine.Run(context.Background()); err != nil {
		var execErr *cpu.ExecutionError
		if errors.As(err, &execErr) {
			return fmt.Errorf("rv32i run: %w", execErr)
		}
		return fmt.Errorf("rv32i run: %w", err)
	}
	return nil
}

func loadProgram(path string, hex bool) ([]byte, error) {
	fp, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer fp.Close()

	if hex {
		return loader.LoadHex(fp)
	}

	var imem []byte
	for ioe := range asm.StartAssembler(fp) {
		if ioe.Error != nil {
			return nil, fmt.Errorf("rv32i: line %d: %w", ioe.Lineno, ioe.Error)
		}
		var word [4]byte
		word[0] = byte(ioe.Instruction)
		word[1] = byte(ioe.Instruction >> 8)
		word[2] = byte(ioe.Instruction >> 16)
		word[3] = byte(ioe.Instruction >> 24)
		imem = append(imem, word[:]...)
	}
	return imem, nil
}

func newAsmCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "asm <file>",
		Short: "Assemble a source file to hex",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			fp, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer fp.Close()
			for ioe := range asm.StartAssembler(fp) {
				if ioe.Error != nil {
					return fmt.Errorf("rv32i asm: line %d: %w", ioe.Lineno, ioe.Error)
				}
				fmt.Printf("0x%08x\t# 0b%032b - line: %d\n", ioe.Instruction, ioe.Instruction, ioe.Lineno)
			}
			return nil
		},
	}
	return cmd
}

func newDisasmCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "disasm <file>",
		Short: "Disassemble a hex program",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			fp, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer fp.Close()
			imem, err := loader.LoadHex(fp)
			if err != nil {
				return err
			}
			var lines []string
			for addr := 0; addr+4 <= len(imem); addr += 4 {
				word := uint32(imem[addr]) | uint32(imem[addr+1])<<8 |
					uint32(imem[addr+2])<<16 | uint32(imem[addr+3])<<24
				lines = append(lines, fmt.Sprintf("%08x:\t%s", addr, cpu.Disassemble(word)))
			}
			fmt.Println(strings.Join(lines, "\n"))
			return nil
		},
	}
	return cmd
}
