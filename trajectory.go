package swesoc

// RunState is the lifecycle of one simulation:
//
//	Uninitialized → Running → {Completed, Halted, Diverged}
//
// Completed is the only successful terminal state. Halted means the
// ξ-series had a gap at the step about to be taken; Diverged means the
// integration produced non-finite or runaway content. Both partial outcomes
// keep the trajectory rows completed before the failure.
type RunState string

const (
	RunUninitialized RunState = "uninitialized"
	RunRunning       RunState = "running"
	RunCompleted     RunState = "completed"
	RunHalted        RunState = "halted"
	RunDiverged      RunState = "diverged"
)

// IsTerminal reports whether the run has finished, successfully or not.
func (s RunState) IsTerminal() bool {
	switch s {
	case RunCompleted, RunHalted, RunDiverged:
		return true
	}
	return false
}

// IsSuccessful reports whether the run reached its declared horizon.
func (s RunState) IsSuccessful() bool {
	return s == RunCompleted
}

// SOCTrajectory is the simulated soil organic carbon series: one row per
// completed step. Row k holds the pool contents after advancing through
// step k; the initial condition is not a row (the caller already has it).
// The trajectory is created by Simulate, owned by the caller, and read-only
// after creation.
type SOCTrajectory struct {
	Pools    [][]float64 // per-step pool contents, each row len = model pools
	Total    []float64   // per-step total SOC, Σ over pools - the quantity compared against observations
	Respired []float64   // cumulative carbon respired to the atmosphere through each step
	StepSize float64     // Δt the rows are spaced by
	Steps    int         // completed steps (== len(Pools))
	State    RunState    // terminal state of the run that produced this
}

// FinalTotal returns the total SOC after the last completed step, or the
// NaN-free zero value for an empty trajectory.
func (tr *SOCTrajectory) FinalTotal() float64 {
	if tr.Steps == 0 {
		return 0
	}
	return tr.Total[tr.Steps-1]
}

// FinalPools returns the pool contents after the last completed step, or
// nil for an empty trajectory.
func (tr *SOCTrajectory) FinalPools() []float64 {
	if tr.Steps == 0 {
		return nil
	}
	return tr.Pools[tr.Steps-1]
}
