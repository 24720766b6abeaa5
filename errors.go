package swesoc

import "fmt"

// The error taxonomy separates three very different failure classes:
//
//   - ConfigurationError: the inputs are malformed. Detected eagerly,
//     before any integration step - a bad model never enters the loop.
//   - GapError: the composed ξ-series is undefined at the step about to be
//     taken. The run halts with a partial trajectory; substituting a
//     default multiplier would silently corrupt the mass balance.
//   - DivergenceError: integration produced non-finite or runaway pool
//     contents. A statement about the parameter vector, not an internal
//     fault - calibration drivers treat it as a rejection signal.
//
// Out-of-domain scaling inputs are not errors at all: they surface as the
// no-value marker on Value, carried through composition as data.

// ConfigurationError reports malformed model, series, or run configuration.
type ConfigurationError struct {
	Field string // which input is malformed
	Msg   string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("configuration: %s: %s", e.Field, e.Msg)
}

// GapError reports a ξ gap that halted integration.
type GapError struct {
	Step int // step index whose ξ was undefined
}

func (e *GapError) Error() string {
	return fmt.Sprintf("scaling gap: ξ undefined at step %d, run halted", e.Step)
}

// DivergenceError reports non-finite or runaway pool content, with the step
// and pool where it was first detected. The offending step is not recorded
// in the trajectory.
type DivergenceError struct {
	Step    int     // step index at which divergence was detected
	Pool    int     // pool index holding the offending value
	Content float64 // the value itself (NaN, ±Inf, or beyond RunawayLimit)
}

func (e *DivergenceError) Error() string {
	return fmt.Sprintf("diverged: pool %d reached %g at step %d (unstable parameterization)",
		e.Pool, e.Content, e.Step)
}
