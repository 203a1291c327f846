package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/irtools/passpipe/ir"
	"github.com/irtools/passpipe/manager"
)

var runCmd = &cobra.Command{
	Use:   "run [flags] <file.ir>",
	Short: "Run a pass pipeline over an IR module",
	Long:  `Parse an IR module from a file, run the given pass pipeline over it and print the transformed module to stdout`,
	Args:  cobra.ExactArgs(1),
	RunE:  runPipeline,
}

func init() {
	runCmd.Flags().StringP("pipeline", "p", "", "pipeline description, e.g. 'any(canonicalize,cse)'")
	runCmd.Flags().Bool("verify", true, "verify the module after each pass")
	runCmd.Flags().Bool("print-ir-after-all", false, "log the module after each pass")
	runCmd.Flags().StringP("output", "o", "", "write the transformed module to a file instead of stdout")
}

func runPipeline(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return fail(cmd, err)
	}
	if err := cfg.applyFlags(cmd); err != nil {
		return fail(cmd, err)
	}

	mod, err := loadModule(args[0])
	if err != nil {
		return fail(cmd, err)
	}

	ctx := ir.NewContext()
	defer ctx.Close()

	pm, err := manager.Parse(cfg.Pipeline, ctx)
	if err != nil {
		return fail(cmd, err)
	}
	defer pm.Destroy()

	pm.EnableVerifier(cfg.VerifyEach)
	if cfg.PrintIRAfter {
		if err := installLogger(); err != nil {
			return fail(cmd, err)
		}
		pm.EnableIRPrinting()
	}

	if err := pm.Run(mod); err != nil {
		return fail(cmd, err)
	}

	return writeModule(cmd, mod)
}

func loadModule(path string) (*ir.Module, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %q: %w", path, err)
	}
	mod, err := ir.Parse(string(data))
	if err != nil {
		return nil, fmt.Errorf("failed to parse %q: %w", path, err)
	}
	return mod, nil
}

func writeModule(cmd *cobra.Command, mod *ir.Module) error {
	out, err := cmd.Flags().GetString("output")
	if err != nil {
		return err
	}
	text := mod.String() + "\n"
	if out == "" {
		fmt.Fprint(cmd.OutOrStdout(), text)
		return nil
	}
	if err := os.WriteFile(out, []byte(text), 0o644); err != nil {
		return fail(cmd, fmt.Errorf("failed to write %q: %w", out, err))
	}
	return nil
}
