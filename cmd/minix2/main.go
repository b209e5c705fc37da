package main

import (
	"fmt"
	"os"

	"github.com/oisee/minix2vm/pkg/minix"
	"github.com/oisee/minix2vm/pkg/vm"
	"github.com/oisee/minix2vm/pkg/x86"
	"github.com/spf13/cobra"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "minix2",
		Short: "Minix 2 / 8086 executable loader, disassembler and interpreter",
	}

	var trace bool
	runCmd := &cobra.Command{
		Use:   "run <binary> [args...]",
		Short: "Load and execute a Minix 2 executable",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBinary(args[0], args[1:], trace)
		},
	}
	runCmd.Flags().BoolVarP(&trace, "trace", "m", false, "Print a per-instruction execution trace")

	disasmCmd := &cobra.Command{
		Use:   "disasm <binary>",
		Short: "Disassemble the text segment of a Minix 2 executable",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return disasmBinary(args[0])
		},
	}

	rootCmd.AddCommand(runCmd, disasmCmd)
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func loadProgram(path string) (minix.Program, error) {
	f, err := os.Open(path)
	if err != nil {
		return minix.Program{}, err
	}
	defer f.Close()
	return minix.LoadFrom(f)
}

func runBinary(path string, args []string, trace bool) error {
	prog, err := loadProgram(path)
	if err != nil {
		return fmt.Errorf("minix2: %w", err)
	}

	m := vm.New(prog.TextSegment, prog.DataSegment, os.Stdout)
	m.Trace = trace
	m.StageArgv(append([]string{path}, args...))

	if err := m.Run(); err != nil {
		return fmt.Errorf("minix2: %w", err)
	}
	return nil
}

func disasmBinary(path string) error {
	prog, err := loadProgram(path)
	if err != nil {
		return fmt.Errorf("minix2: %w", err)
	}
	return x86.Print(os.Stdout, prog.TextSegment)
}
