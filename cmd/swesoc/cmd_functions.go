package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/BBenyamini/swesoc"
)

func newFunctionsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "functions",
		Short: "List the registered scaling functions",
		Long: `List every scaling function a run configuration can bind to a
driver channel. Parameters not overridden in the configuration keep their
published defaults.`,
		Run: func(cmd *cobra.Command, args []string) {
			for _, name := range swesoc.FunctionNames() {
				fmt.Println(name)
			}
		},
	}
}
