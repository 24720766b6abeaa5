package swesoc

import (
	"context"
	"fmt"
	"math"
)

// RunawayLimit is the magnitude guard on pool contents. A linear system
// whose true solution approached 1e30 would have left any physical carbon
// scale long before; contents beyond it are treated as divergence even
// while still finite, so runaway parameter vectors fail in a handful of
// steps instead of marching to ±Inf.
const RunawayLimit = 1e30

// SimConfig fixes the discretization of one run.
type SimConfig struct {
	StepSize float64 // Δt in the model's time unit (years for annual models)
	Steps    int     // number of steps to take (the simulation horizon)
}

// DefaultSimConfig returns a century of annual steps.
func DefaultSimConfig() SimConfig {
	return SimConfig{StepSize: 1, Steps: 100}
}

// Simulate integrates dC/dt = I − ξ·A·C forward and returns the SOC
// trajectory. The scheme is explicit forward Euler, in components
//
//	Cᵢ(t+h) = Cᵢ(t) + h·( Iᵢ(t) + ξ(t)·Σ_{j≠i} Aᵢⱼ·Cⱼ(t) − ξ(t)·Aᵢᵢ·Cᵢ(t) )
//
// with h the step size and I sampled at the step index. Local truncation
// error is O(h²) per step, O(h) over a fixed horizon: halving the step
// roughly halves the error against the exact solution. Euler matches the
// coarse annual stepping of the historical models and leaves unstable
// parameterizations visible - h·ξ·k > 2 oscillates with growing amplitude
// until the runaway guard trips - rather than masking them with an
// unconditionally stable per-step solve. Calibrated parameters are only
// comparable between runs that used the same step size.
//
// One invocation owns only its transient content vector; the model and the
// ξ-series are read-only, so concurrent invocations never interfere. Steps
// inside a run are strictly sequential.
//
// Outcomes:
//   - Completed: trajectory spans the full horizon, error is nil.
//   - Halted: ξ had no value at some step k; the trajectory keeps exactly
//     the k completed rows and the error is a *GapError. A defaulted
//     multiplier would corrupt the mass balance, so gaps never pass.
//   - Diverged: a pool went non-finite or beyond RunawayLimit; the
//     trajectory keeps the rows before the offending step and the error is
//     a *DivergenceError - a verdict on the parameter vector, never
//     retried internally.
//   - Cancelled: ctx expired between steps; no partial trajectory is valid
//     for scoring, so the trajectory is nil and the error wraps ctx.Err().
//   - *ConfigurationError: inputs were malformed; nothing was integrated.
//
// With NonNegative set on the model, pools are clamped at zero after each
// step (only model families that document that constraint should set it).
// The clamp injects mass, so the respiration series closes the balance
// exactly only for unclamped runs; divergence is checked before the clamp
// so a negative blow-up is not masked.
func Simulate(ctx context.Context, model CompartmentModel, xi []Value, cfg SimConfig) (*SOCTrajectory, error) {
	if err := model.Validate(); err != nil {
		return nil, err
	}
	if !(cfg.StepSize > 0) {
		return nil, &ConfigurationError{
			Field: "step_size",
			Msg:   fmt.Sprintf("must be positive, got %g", cfg.StepSize),
		}
	}
	if cfg.Steps < 0 {
		return nil, &ConfigurationError{
			Field: "steps",
			Msg:   fmt.Sprintf("must be non-negative, got %d", cfg.Steps),
		}
	}
	if len(xi) != cfg.Steps {
		return nil, &ConfigurationError{
			Field: "xi",
			Msg:   fmt.Sprintf("ξ-series has %d entries, horizon is %d steps", len(xi), cfg.Steps),
		}
	}
	if model.InputSeries != nil && len(model.InputSeries) != cfg.Steps {
		return nil, &ConfigurationError{
			Field: "input_series",
			Msg:   fmt.Sprintf("%d steps of flux, horizon is %d steps", len(model.InputSeries), cfg.Steps),
		}
	}

	n := model.Pools
	h := cfg.StepSize
	c := append([]float64(nil), model.Initial...)
	next := make([]float64, n)
	respired := 0.0

	traj := &SOCTrajectory{
		Pools:    make([][]float64, 0, cfg.Steps),
		Total:    make([]float64, 0, cfg.Steps),
		Respired: make([]float64, 0, cfg.Steps),
		StepSize: h,
		State:    RunRunning,
	}

	for k := 0; k < cfg.Steps; k++ {
		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("run cancelled at step %d: %w", k, ctx.Err())
		default:
		}

		x, ok := xi[k].Float()
		if !ok {
			traj.State = RunHalted
			return traj, &GapError{Step: k}
		}

		in := model.Input
		if model.InputSeries != nil {
			in = model.InputSeries[k]
		}

		// Euler update; the unrouted part of each decay flux is respiration.
		respRate := 0.0
		for i := 0; i < n; i++ {
			out := x * model.Kinetics[i][i] * c[i]
			recv := 0.0
			for j := 0; j < n; j++ {
				if j != i {
					recv += x * model.Kinetics[i][j] * c[j]
				}
			}
			next[i] = c[i] + h*(in[i]+recv-out)
			respRate += out - recv
		}

		for i, v := range next {
			if math.IsNaN(v) || math.IsInf(v, 0) || math.Abs(v) > RunawayLimit {
				traj.State = RunDiverged
				return traj, &DivergenceError{Step: k, Pool: i, Content: v}
			}
		}
		if model.NonNegative {
			for i, v := range next {
				if v < 0 {
					next[i] = 0
				}
			}
		}

		copy(c, next)
		respired += h * respRate

		row := make([]float64, n)
		copy(row, c)
		total := 0.0
		for _, v := range row {
			total += v
		}
		traj.Pools = append(traj.Pools, row)
		traj.Total = append(traj.Total, total)
		traj.Respired = append(traj.Respired, respired)
		traj.Steps++
	}

	traj.State = RunCompleted
	return traj, nil
}
