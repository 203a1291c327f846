package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/irtools/passpipe/ir"
	"github.com/irtools/passpipe/manager"
)

var printCmd = &cobra.Command{
	Use:   "print <pipeline>",
	Short: "Parse a pipeline description and print its canonical form",
	Long:  `Validate a pass pipeline description against the registered passes and print it back in canonical form`,
	Args:  cobra.ExactArgs(1),
	RunE:  printPipeline,
}

func printPipeline(cmd *cobra.Command, args []string) error {
	ctx := ir.NewContext()
	defer ctx.Close()

	pm, err := manager.Parse(args[0], ctx)
	if err != nil {
		return fail(cmd, err)
	}
	defer pm.Destroy()

	fmt.Fprintln(cmd.OutOrStdout(), pm.String())
	return nil
}
