package swesoc

// Function is the contract shared by every environmental scaling function:
// a pure, stateless mapping from one driver observation (soil temperature,
// water content, clay fraction, ...) to a unitless multiplier applied to
// decomposition kinetics. Implementations are interchangeable - swapping
// one for another never changes caller code - and each documents its valid
// input domain, its out-of-domain behavior, and the source model it
// reproduces.
type Function interface {
	// Name identifies the implementation in configuration and logs.
	Name() string

	// Eval maps one driver observation to a multiplier. Inputs outside
	// the documented domain yield the no-value marker, never an error,
	// so batch evaluation can continue past a single bad index.
	Eval(driver float64) Value
}

// EvalSeries maps a whole driver series through f, preserving index
// alignment between input and output. An empty series yields an empty
// series - no special case, so composed factors stay index-aligned
// whatever the horizon.
func EvalSeries(f Function, series []float64) []Value {
	out := make([]Value, len(series))
	for i, x := range series {
		out[i] = f.Eval(x)
	}
	return out
}

// capUnit caps a response at the 1.0 ceiling used by the regime-combined
// functions. The ceiling is a deliberate cap from the source models, not a
// derived bound.
func capUnit(x float64) float64 {
	if x > 1 {
		return 1
	}
	return x
}

// floorZero clips negative responses to the biological zero.
func floorZero(x float64) float64 {
	if x < 0 {
		return 0
	}
	return x
}
