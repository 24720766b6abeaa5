package swesoc

import "fmt"

// massTolerance absorbs float rounding in the column conservation check, so
// a model that routes exactly its whole decay flux (no respiration) still
// validates.
const massTolerance = 1e-12

// CompartmentModel declares a linear compartmental carbon system: how many
// pools, what they start with, what flows in, and the kinetics matrix that
// couples them. The governing system is
//
//	dC/dt = I(t) − ξ(t) · A · C(t)
//
// where A is Kinetics with the sign convention below, ξ the composed
// environmental multiplier and I the input flux.
//
// Kinetics[j][j] is pool j's first-order decay rate constant (> 0, 1/time):
// the total rate at which carbon leaves pool j when ξ = 1. Kinetics[i][j]
// for i ≠ j (≥ 0, 1/time) is the rate at which carbon decomposed in pool j
// is routed into pool i - typically a humification fraction times the decay
// rate. Whatever part of the decay flux is not routed to another pool is
// respired to the atmosphere; conservation therefore requires, column by
// column, that the off-diagonal sum never exceeds the diagonal.
//
// The model is a template: callers supply it, the engine never mutates it.
type CompartmentModel struct {
	Pools       int         // number of pools, n ≥ 1
	Initial     []float64   // initial carbon mass per pool (len n, ≥ 0)
	Input       []float64   // constant input flux per pool (len n, ≥ 0, mass/time)
	InputSeries [][]float64 // optional time-varying flux [step][pool]; overrides Input
	Kinetics    [][]float64 // n×n rate matrix, sign convention above
	NonNegative bool        // clamp pools at zero after each step (only for model families that document it)
}

// Validate checks dimensions, signs, and the column conservation invariant.
// It runs eagerly, before any integration step: a malformed model never
// enters the loop. The positivity checks are written so NaN fails them.
func (m CompartmentModel) Validate() error {
	if m.Pools < 1 {
		return &ConfigurationError{
			Field: "pools",
			Msg:   fmt.Sprintf("need at least 1 pool, got %d", m.Pools),
		}
	}
	if len(m.Initial) != m.Pools {
		return &ConfigurationError{
			Field: "initial",
			Msg:   fmt.Sprintf("len %d, want %d", len(m.Initial), m.Pools),
		}
	}
	for i, c := range m.Initial {
		if !(c >= 0) {
			return &ConfigurationError{
				Field: "initial",
				Msg:   fmt.Sprintf("pool %d content %g must be non-negative", i, c),
			}
		}
	}
	if len(m.Input) != m.Pools {
		return &ConfigurationError{
			Field: "input",
			Msg:   fmt.Sprintf("len %d, want %d", len(m.Input), m.Pools),
		}
	}
	for i, in := range m.Input {
		if !(in >= 0) {
			return &ConfigurationError{
				Field: "input",
				Msg:   fmt.Sprintf("pool %d flux %g must be non-negative", i, in),
			}
		}
	}
	for k, row := range m.InputSeries {
		if len(row) != m.Pools {
			return &ConfigurationError{
				Field: "input_series",
				Msg:   fmt.Sprintf("step %d has %d fluxes, want %d", k, len(row), m.Pools),
			}
		}
		for i, in := range row {
			if !(in >= 0) {
				return &ConfigurationError{
					Field: "input_series",
					Msg:   fmt.Sprintf("step %d pool %d flux %g must be non-negative", k, i, in),
				}
			}
		}
	}
	if len(m.Kinetics) != m.Pools {
		return &ConfigurationError{
			Field: "kinetics",
			Msg:   fmt.Sprintf("%d rows, want %d×%d", len(m.Kinetics), m.Pools, m.Pools),
		}
	}
	for i, row := range m.Kinetics {
		if len(row) != m.Pools {
			return &ConfigurationError{
				Field: "kinetics",
				Msg:   fmt.Sprintf("row %d has %d entries, want %d", i, len(row), m.Pools),
			}
		}
		for j, a := range row {
			if i == j {
				if !(a > 0) {
					return &ConfigurationError{
						Field: "kinetics",
						Msg:   fmt.Sprintf("decay rate [%d][%d] = %g must be positive", i, j, a),
					}
				}
			} else if !(a >= 0) {
				return &ConfigurationError{
					Field: "kinetics",
					Msg:   fmt.Sprintf("transfer [%d][%d] = %g must be non-negative", i, j, a),
				}
			}
		}
	}
	// Column conservation: transfers out of pool j must fit inside its
	// decay flux; the remainder is respiration, never creation.
	for j := 0; j < m.Pools; j++ {
		offSum := 0.0
		for i := 0; i < m.Pools; i++ {
			if i != j {
				offSum += m.Kinetics[i][j]
			}
		}
		if offSum > m.Kinetics[j][j]+massTolerance {
			return &ConfigurationError{
				Field: "kinetics",
				Msg: fmt.Sprintf("column %d routes %g but only decays %g - net carbon creation",
					j, offSum, m.Kinetics[j][j]),
			}
		}
	}
	return nil
}

// Clone returns a deep copy. The calibration adapter rebuilds models from a
// shared template under concurrent evaluation, so the copy must not alias
// any of the template's slices.
func (m CompartmentModel) Clone() CompartmentModel {
	out := m
	out.Initial = append([]float64(nil), m.Initial...)
	out.Input = append([]float64(nil), m.Input...)
	if m.InputSeries != nil {
		out.InputSeries = make([][]float64, len(m.InputSeries))
		for k, row := range m.InputSeries {
			out.InputSeries[k] = append([]float64(nil), row...)
		}
	}
	out.Kinetics = make([][]float64, len(m.Kinetics))
	for i, row := range m.Kinetics {
		out.Kinetics[i] = append([]float64(nil), row...)
	}
	return out
}

// TwoPoolICBM builds the classic two-pool ICBM structure: a young pool
// decaying at ky feeding a fraction h (the humification coefficient) of its
// decay flux into an old pool decaying at ko, with fresh input entering the
// young pool only.
//
//	dY/dt = i − ξ·ky·Y
//	dO/dt = ξ·h·ky·Y − ξ·ko·O
//
// The published arable defaults are ky = 0.8/yr, ko = 0.006/yr, h = 0.13.
func TwoPoolICBM(ky, ko, h, young, old, input float64) CompartmentModel {
	return CompartmentModel{
		Pools:   2,
		Initial: []float64{young, old},
		Input:   []float64{input, 0},
		Kinetics: [][]float64{
			{ky, 0},
			{h * ky, ko},
		},
	}
}
