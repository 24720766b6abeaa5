package swesoc

import (
	"context"
	"fmt"
	"runtime"
	"sync"
)

// ParamTarget names the kind of free parameter a calibration vector slot
// drives.
type ParamTarget string

const (
	TargetKinetics ParamTarget = "kinetics" // Kinetics[Row][Col]
	TargetInitial  ParamTarget = "initial"  // Initial[Row]
	TargetInput    ParamTarget = "input"    // Input[Row]
	TargetScaling  ParamTarget = "scaling"  // parameter Name of the function bound to Channel
)

// ParamRef maps one slot of the flat calibration vector onto a free
// parameter: a kinetic matrix entry, an initial pool content, an input
// flux, or a named scaling-function parameter.
type ParamRef struct {
	Target  ParamTarget
	Row     int    // pool/row index (kinetics, initial, input)
	Col     int    // column index (kinetics)
	Channel string // driver channel whose bound function owns the parameter (scaling)
	Name    string // parameter name within that function (scaling)
}

// Adapter is the calibration boundary: a fixed template - model, channel
// bindings, driver series, discretization - plus an ordered list of free
// parameters. An external optimizer feeds it flat vectors; it rebuilds the
// parameterized system, runs it once, and hands back the trajectory or the
// terminal error so the optimizer can assign a rejection penalty.
//
// Every evaluation deep-copies the template and never writes shared state,
// so an Adapter is safe for concurrent Evaluate calls with different
// vectors - calibration sweeps are embarrassingly parallel at vector
// granularity.
type Adapter struct {
	model    CompartmentModel
	bindings []Binding
	drivers  map[string][]float64
	refs     []ParamRef
	cfg      SimConfig
}

// NewAdapter validates the template eagerly: the model, the discretization,
// every binding (buildable function, driver channel present, series
// spanning the horizon), and every parameter reference. A scaling ref whose
// Name the bound function does not declare surfaces on Evaluate instead,
// still before any integration step.
func NewAdapter(model CompartmentModel, bindings []Binding, drivers map[string][]float64, refs []ParamRef, cfg SimConfig) (*Adapter, error) {
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
	if _, err := BuildFactors(bindings, drivers, cfg.Steps); err != nil {
		return nil, err
	}
	for s, ref := range refs {
		switch ref.Target {
		case TargetKinetics:
			if ref.Row < 0 || ref.Row >= model.Pools || ref.Col < 0 || ref.Col >= model.Pools {
				return nil, &ConfigurationError{
					Field: "refs",
					Msg:   fmt.Sprintf("slot %d: kinetics [%d][%d] outside %d×%d", s, ref.Row, ref.Col, model.Pools, model.Pools),
				}
			}
		case TargetInitial, TargetInput:
			if ref.Row < 0 || ref.Row >= model.Pools {
				return nil, &ConfigurationError{
					Field: "refs",
					Msg:   fmt.Sprintf("slot %d: pool %d outside 0..%d", s, ref.Row, model.Pools-1),
				}
			}
		case TargetScaling:
			bound := false
			for _, b := range bindings {
				if b.Channel == ref.Channel {
					bound = true
					break
				}
			}
			if !bound {
				return nil, &ConfigurationError{
					Field: "refs",
					Msg:   fmt.Sprintf("slot %d: no binding for channel %q", s, ref.Channel),
				}
			}
		default:
			return nil, &ConfigurationError{
				Field: "refs",
				Msg:   fmt.Sprintf("slot %d: unknown target %q", s, ref.Target),
			}
		}
	}
	return &Adapter{
		model:    model.Clone(),
		bindings: cloneBindings(bindings),
		drivers:  drivers,
		refs:     append([]ParamRef(nil), refs...),
		cfg:      cfg,
	}, nil
}

// Evaluate runs the system under one parameter vector. The vector must
// have one value per ParamRef, in ref order. The template is copied, the
// vector applied, the ξ-series recomposed, and the engine run once.
//
// A Completed run returns the trajectory and a nil error. Halted and
// Diverged runs return the partial trajectory together with the *GapError
// or *DivergenceError, so the caller can tell a data gap from an
// infeasible vector. Setup failures return only a *ConfigurationError.
func (a *Adapter) Evaluate(ctx context.Context, theta []float64) (*SOCTrajectory, error) {
	if len(theta) != len(a.refs) {
		return nil, &ConfigurationError{
			Field: "theta",
			Msg:   fmt.Sprintf("%d values for %d parameter slots", len(theta), len(a.refs)),
		}
	}

	model := a.model.Clone()
	bindings := cloneBindings(a.bindings)
	for s, ref := range a.refs {
		v := theta[s]
		switch ref.Target {
		case TargetKinetics:
			model.Kinetics[ref.Row][ref.Col] = v
		case TargetInitial:
			model.Initial[ref.Row] = v
		case TargetInput:
			model.Input[ref.Row] = v
		case TargetScaling:
			for i := range bindings {
				if bindings[i].Channel == ref.Channel {
					bindings[i].Params[ref.Name] = v
				}
			}
		}
	}

	factors, err := BuildFactors(bindings, a.drivers, a.cfg.Steps)
	if err != nil {
		return nil, err
	}
	xi, err := ComposeXi(a.cfg.Steps, factors...)
	if err != nil {
		return nil, err
	}
	return Simulate(ctx, model, xi, a.cfg)
}

// Refs returns the adapter's parameter mapping, in slot order.
func (a *Adapter) Refs() []ParamRef {
	return append([]ParamRef(nil), a.refs...)
}

// Outcome pairs one parameter vector with its result: a trajectory
// (partial for Halted and Diverged runs, nil for setup failures and
// cancellation) and the terminal error, nil on Completed.
type Outcome struct {
	Trajectory *SOCTrajectory
	Err        error
}

// EvaluateBatch dispatches one Evaluate per vector across a bounded worker
// pool and returns the outcomes in input order. Vectors are independent, so
// there is no ordering dependency between evaluations; workers ≤ 0 means
// one per CPU. Cancelling ctx abandons the remaining evaluations - each
// in-flight run stops at its next step boundary with a cancellation error
// in its outcome.
func (a *Adapter) EvaluateBatch(ctx context.Context, thetas [][]float64, workers int) []Outcome {
	outcomes := make([]Outcome, len(thetas))
	if len(thetas) == 0 {
		return outcomes
	}
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	if workers > len(thetas) {
		workers = len(thetas)
	}

	jobs := make(chan int)
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range jobs {
				traj, err := a.Evaluate(ctx, thetas[idx])
				outcomes[idx] = Outcome{Trajectory: traj, Err: err}
			}
		}()
	}
	for idx := range thetas {
		jobs <- idx
	}
	close(jobs)
	wg.Wait()
	return outcomes
}

func cloneBindings(bindings []Binding) []Binding {
	out := make([]Binding, len(bindings))
	for i, b := range bindings {
		params := make(map[string]float64, len(b.Params))
		for k, v := range b.Params {
			params[k] = v
		}
		out[i] = Binding{Channel: b.Channel, Function: b.Function, Params: params}
	}
	return out
}
