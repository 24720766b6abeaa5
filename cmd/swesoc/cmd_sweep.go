package main

import (
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/BBenyamini/swesoc"
	"github.com/BBenyamini/swesoc/internal/config"
	"github.com/BBenyamini/swesoc/internal/driver"
	"github.com/BBenyamini/swesoc/internal/logging"
)

func newSweepCmd() *cobra.Command {
	var (
		configPath string
		target     string
		row, col   int
		channel    string
		param      string
		from, to   float64
		count      int
		workers    int
	)

	cmd := &cobra.Command{
		Use:   "sweep",
		Short: "Evaluate one free parameter across a range",
		Long: `Sweep varies a single free parameter - a kinetic matrix entry, an
initial pool content, an input flux, or a scaling-function parameter -
across a linear range, evaluating every value against the fixed driver
data in parallel. Halted and diverged evaluations are reported as
rejections, the way a calibration driver scores them.`,
		Example: `  swesoc sweep -c run.yaml --target kinetics --row 0 --col 0 --from 0.2 --to 1.2 --count 21
  swesoc sweep -c run.yaml --target scaling --channel temperature --param q10 --from 1.5 --to 3 --count 16`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadFromFile(configPath)
			if err != nil {
				return err
			}
			if err := cfg.Validate(); err != nil {
				return err
			}
			if count < 2 {
				return fmt.Errorf("--count must be at least 2, got %d", count)
			}

			log := logging.New(cfg.Logging.Level, os.Stderr)

			ref := swesoc.ParamRef{Row: row, Col: col, Channel: channel, Name: param}
			switch target {
			case "kinetics":
				ref.Target = swesoc.TargetKinetics
			case "initial":
				ref.Target = swesoc.TargetInitial
			case "input":
				ref.Target = swesoc.TargetInput
			case "scaling":
				ref.Target = swesoc.TargetScaling
			default:
				return fmt.Errorf("--target must be kinetics, initial, input, or scaling; got %q", target)
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			bindings := cfg.Bindings()
			drivers := map[string][]float64{}
			if len(bindings) > 0 {
				channels := make(map[string]string, len(bindings))
				for _, b := range bindings {
					channels[b.Channel] = cfg.Column(b.Channel)
				}
				drivers, err = driver.Load(cfg.Drivers.File, channels, cfg.Run.Steps)
				if err != nil {
					return err
				}
			}

			adapter, err := swesoc.NewAdapter(cfg.CompartmentModel(), bindings, drivers,
				[]swesoc.ParamRef{ref}, cfg.SimConfig())
			if err != nil {
				return err
			}

			thetas := make([][]float64, count)
			for i := range thetas {
				thetas[i] = []float64{from + (to-from)*float64(i)/float64(count-1)}
			}

			log.Info("sweep starting",
				"target", target, "from", from, "to", to, "count", count, "workers", workers)
			outcomes := adapter.EvaluateBatch(ctx, thetas, workers)

			completed := 0
			fmt.Printf("%-14s  %-12s  %s\n", "value", "final SOC", "state")
			for i, out := range outcomes {
				v := thetas[i][0]
				switch {
				case out.Err == nil:
					completed++
					fmt.Printf("%-14.6g  %-12.4f  completed\n", v, out.Trajectory.FinalTotal())
				default:
					var gap *swesoc.GapError
					var div *swesoc.DivergenceError
					switch {
					case errors.As(out.Err, &gap):
						fmt.Printf("%-14.6g  %-12s  halted at step %d\n", v, "-", gap.Step)
					case errors.As(out.Err, &div):
						fmt.Printf("%-14.6g  %-12s  diverged at step %d (pool %d)\n", v, "-", div.Step, div.Pool)
					default:
						return out.Err
					}
				}
			}
			log.Info("sweep finished", "completed", completed, "rejected", count-completed)
			return nil
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "swesoc.yaml", "run configuration file")
	cmd.Flags().StringVar(&target, "target", "kinetics", "parameter kind: kinetics, initial, input, scaling")
	cmd.Flags().IntVar(&row, "row", 0, "pool/row index (kinetics, initial, input)")
	cmd.Flags().IntVar(&col, "col", 0, "column index (kinetics)")
	cmd.Flags().StringVar(&channel, "channel", "", "driver channel (scaling)")
	cmd.Flags().StringVar(&param, "param", "", "scaling-function parameter name (scaling)")
	cmd.Flags().Float64Var(&from, "from", 0, "range start")
	cmd.Flags().Float64Var(&to, "to", 1, "range end")
	cmd.Flags().IntVar(&count, "count", 11, "number of values across the range")
	cmd.Flags().IntVar(&workers, "workers", 0, "parallel evaluations (0 = one per CPU)")
	return cmd
}
