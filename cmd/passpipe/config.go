package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
	"github.com/spf13/cobra"
)

// config mirrors the passpipe.toml file. Every field has a flag
// counterpart; flags set on the command line win over file values.
type config struct {
	Pipeline     string `toml:"pipeline"`
	VerifyEach   bool   `toml:"verify_each"`
	PrintIRAfter bool   `toml:"print_ir_after_all"`
}

func defaultConfig() config {
	return config{VerifyEach: true}
}

// loadConfig reads the file named by --config, or passpipe.toml in the
// working directory when present. A missing default file is not an error.
func loadConfig(cmd *cobra.Command) (config, error) {
	cfg := defaultConfig()

	path, err := cmd.Flags().GetString("config")
	if err != nil {
		return cfg, err
	}
	explicit := path != ""
	if !explicit {
		path = "passpipe.toml"
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if !explicit && errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("failed to read config %q: %w", path, err)
	}
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("failed to parse config %q: %w", path, err)
	}
	return cfg, nil
}

// applyFlags overlays command-line flags onto cfg. Only flags the user
// actually set override file values.
func (c *config) applyFlags(cmd *cobra.Command) error {
	if cmd.Flags().Changed("pipeline") {
		p, err := cmd.Flags().GetString("pipeline")
		if err != nil {
			return err
		}
		c.Pipeline = p
	}
	if cmd.Flags().Changed("verify") {
		v, err := cmd.Flags().GetBool("verify")
		if err != nil {
			return err
		}
		c.VerifyEach = v
	}
	if cmd.Flags().Changed("print-ir-after-all") {
		v, err := cmd.Flags().GetBool("print-ir-after-all")
		if err != nil {
			return err
		}
		c.PrintIRAfter = v
	}
	return nil
}
