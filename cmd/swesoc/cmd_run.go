package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/BBenyamini/swesoc"
	"github.com/BBenyamini/swesoc/internal/config"
	"github.com/BBenyamini/swesoc/internal/driver"
	"github.com/BBenyamini/swesoc/internal/export"
	"github.com/BBenyamini/swesoc/internal/logging"
	"github.com/BBenyamini/swesoc/internal/runstore"
)

func newRunCmd() *cobra.Command {
	var (
		configPath string
		label      string
		exportPath string
	)

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run one simulation from a YAML configuration",
		Long: `Run loads the configuration, materializes the driver series,
composes the environmental multiplier ξ(t), integrates the compartment
model over the declared horizon, and records the trajectory.

A halted run (ξ gap) or a diverged run (unstable parameterization) is
still persisted - its state says so - but the command exits non-zero.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadFromFile(configPath)
			if err != nil {
				return err
			}
			if label != "" {
				cfg.Output.Label = label
			}
			if exportPath != "" {
				cfg.Output.Export = exportPath
			}
			if err := cfg.Validate(); err != nil {
				return err
			}

			log := logging.New(cfg.Logging.Level, os.Stderr)

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
				log.Debug("driver series loaded",
					"file", cfg.Drivers.File, "channels", len(channels), "steps", cfg.Run.Steps)
			}

			factors, err := swesoc.BuildFactors(bindings, drivers, cfg.Run.Steps)
			if err != nil {
				return err
			}
			xi, err := swesoc.ComposeXi(cfg.Run.Steps, factors...)
			if err != nil {
				return err
			}

			traj, runErr := swesoc.Simulate(ctx, cfg.CompartmentModel(), xi, cfg.SimConfig())
			if traj == nil {
				// Setup failure or cancellation: nothing to record.
				return runErr
			}

			switch {
			case runErr == nil:
				log.Info("run completed",
					"label", cfg.Output.Label,
					"steps", traj.Steps,
					"final_total", traj.FinalTotal(),
					"respired", traj.Respired[traj.Steps-1])
			default:
				var gap *swesoc.GapError
				var div *swesoc.DivergenceError
				switch {
				case errors.As(runErr, &gap):
					log.Error("run halted on a scaling gap",
						"label", cfg.Output.Label, "step", gap.Step, "completed", traj.Steps)
				case errors.As(runErr, &div):
					log.Error("run diverged",
						"label", cfg.Output.Label, "step", div.Step, "pool", div.Pool,
						"content", div.Content)
				default:
					return runErr
				}
			}

			if cfg.Output.Store != "" {
				id, err := persistRun(ctx, cfg, traj)
				if err != nil {
					return err
				}
				log.Info("run persisted", "store", cfg.Output.Store, "id", id)
			}
			if cfg.Output.Export != "" && traj.Steps > 0 {
				if err := export.WriteFile(cfg.Output.Export, cfg.Output.Format, traj); err != nil {
					return err
				}
				log.Info("trajectory exported", "path", cfg.Output.Export)
			}

			if runErr != nil {
				return fmt.Errorf("run %s: %w", cfg.Output.Label, runErr)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "swesoc.yaml", "run configuration file")
	cmd.Flags().StringVar(&label, "label", "", "override the run label")
	cmd.Flags().StringVar(&exportPath, "export", "", "override the export path")
	return cmd
}

// persistRun saves the trajectory with the configuration snapshot that
// produced it.
func persistRun(ctx context.Context, cfg *config.RunConfig, traj *swesoc.SOCTrajectory) (string, error) {
	store, err := runstore.Open(cfg.Output.Store)
	if err != nil {
		return "", err
	}
	defer store.Close()

	snapshot, err := yaml.Marshal(cfg)
	if err != nil {
		return "", fmt.Errorf("snapshotting configuration: %w", err)
	}
	return store.SaveRun(ctx, cfg.Output.Label, string(snapshot), traj)
}
