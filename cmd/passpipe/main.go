// Command passpipe drives pass pipelines over textual IR modules from the
// command line. It parses a pipeline description, runs it against a module
// read from a file, and prints or emits the result.
package main

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/irtools/passpipe/emit"
	"github.com/irtools/passpipe/engine"
)

var rootCmd = &cobra.Command{
	Use:   "passpipe",
	Short: "Pass pipeline driver for textual IR modules",
	Long:  `passpipe parses pass pipeline descriptions, runs them over IR modules and emits native source from lowered modules`,
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		if err := setupColor(cmd); err != nil {
			return err
		}
		return setupLogging(cmd)
	},
}

func main() {
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(printCmd)
	rootCmd.AddCommand(emitCmd)

	rootCmd.PersistentFlags().String("config", "", "path to a passpipe.toml config file")
	rootCmd.PersistentFlags().String("color", "auto", "colorize output (auto|on|off)")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "log pass execution")

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

var errColor = color.New(color.FgRed, color.Bold)

// fail prints err to stderr and returns it silenced, so cobra does not
// print it a second time.
func fail(cmd *cobra.Command, err error) error {
	cmd.SilenceUsage = true
	cmd.SilenceErrors = true
	errColor.Fprint(os.Stderr, "error: ")
	fmt.Fprintln(os.Stderr, err)
	return err
}

func setupColor(cmd *cobra.Command) error {
	mode, err := cmd.Flags().GetString("color")
	if err != nil {
		return err
	}
	switch mode {
	case "on":
		color.NoColor = false
	case "off":
		color.NoColor = true
	case "auto":
		// fatih/color already detects terminals.
	default:
		return fmt.Errorf("invalid --color value %q (want auto, on or off)", mode)
	}
	return nil
}

var loggerInstalled bool

func setupLogging(cmd *cobra.Command) error {
	verbose, err := cmd.Flags().GetBool("verbose")
	if err != nil {
		return err
	}
	if !verbose {
		return nil
	}
	return installLogger()
}

// installLogger points the engine and emit packages at a development
// console logger. Idempotent.
func installLogger() error {
	if loggerInstalled {
		return nil
	}
	cfg := zap.NewDevelopmentConfig()
	cfg.DisableStacktrace = true
	logger, err := cfg.Build()
	if err != nil {
		return fmt.Errorf("failed to build logger: %w", err)
	}
	engine.SetLogger(logger)
	emit.SetLogger(logger)
	loggerInstalled = true
	return nil
}
