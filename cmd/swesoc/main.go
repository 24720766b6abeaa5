// Command swesoc runs soil organic carbon simulations from YAML run
// configurations: single runs with persistence and export, one-parameter
// calibration sweeps, and inspection of the scaling-function registry.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var version = "0.1.0-dev"

func main() {
	rootCmd := &cobra.Command{
		Use:   "swesoc",
		Short: "Soil organic carbon decomposition simulator",
		Long: `swesoc integrates linear compartmental carbon models under
environmental scaling: driver series feed pluggable temperature, moisture,
and edaphic response functions, their product modulates the decomposition
kinetics, and the engine records the resulting SOC trajectory.`,
		SilenceUsage: true,
	}

	rootCmd.AddCommand(
		newRunCmd(),
		newSweepCmd(),
		newFunctionsCmd(),
		newVersionCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
