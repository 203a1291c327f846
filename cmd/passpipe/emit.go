package main

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/irtools/passpipe/ir"
	"github.com/irtools/passpipe/manager"
)

var emitCmd = &cobra.Command{
	Use:   "emit [flags] <file.ir>",
	Short: "Run a pipeline and emit native source from the lowered module",
	Long:  `Run the given pass pipeline over an IR module, then emit a C++ translation unit and a ctypes wrapper for the result`,
	Args:  cobra.ExactArgs(1),
	RunE:  emitModule,
}

func init() {
	emitCmd.Flags().StringP("pipeline", "p", "", "pipeline description to run before emission")
	emitCmd.Flags().Bool("verify", true, "verify the module after each pass")
	emitCmd.Flags().Bool("print-ir-after-all", false, "log the module after each pass")
	emitCmd.Flags().StringP("output", "o", "", "path for the emitted C++ source (required)")
	emitCmd.Flags().StringP("wrapper", "w", "", "path for the emitted Python wrapper (defaults next to --output)")
	_ = emitCmd.MarkFlagRequired("output")
}

func emitModule(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return fail(cmd, err)
	}
	if err := cfg.applyFlags(cmd); err != nil {
		return fail(cmd, err)
	}

	primary, err := cmd.Flags().GetString("output")
	if err != nil {
		return err
	}
	secondary, err := cmd.Flags().GetString("wrapper")
	if err != nil {
		return err
	}
	if secondary == "" {
		secondary = strings.TrimSuffix(primary, ".cc") + ".py"
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

	if err := pm.Emit(mod, primary, secondary); err != nil {
		return fail(cmd, err)
	}
	return nil
}
