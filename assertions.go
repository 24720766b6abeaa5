package swesoc

import (
	"errors"
	"testing"
)

// AssertionConfig contains tolerances for trajectory properties.
type AssertionConfig struct {
	// Mass-closure tolerance, relative to the initial stock
	ClosureTolerance float64

	// Rows shown by PrintTrajectory before truncating
	MaxLogRows int
}

// DefaultAssertionConfig returns conservative tolerances.
func DefaultAssertionConfig() AssertionConfig {
	return AssertionConfig{
		ClosureTolerance: 1e-9, // float roundoff only
		MaxLogRows:       10,
	}
}

// AssertAllDefined verifies a composed ξ-series has no gaps, so a run over
// it can reach its declared horizon.
func AssertAllDefined(t *testing.T, xi []Value) {
	t.Helper()

	gaps := 0
	first := -1
	for i, v := range xi {
		if !v.IsDefined() {
			gaps++
			if first < 0 {
				first = i
			}
		}
	}
	if gaps > 0 {
		t.Errorf("ξ-series has %d gaps (first at step %d) - the engine will halt there", gaps, first)
		return
	}
	t.Logf("✓ ξ defined at all %d steps", len(xi))
}

// AssertMassClosure verifies the accounting identity of an unclamped run:
//
//	final total = initial total + Σ_k h·Σ_i Iᵢ(k) − respired
//
// Every unit of carbon that left the pools must show up in the cumulative
// respiration series; anything else is creation or destruction in the
// integrator. Runs with NonNegative set inject mass at the clamp and fail
// this on purpose.
func AssertMassClosure(t *testing.T, model CompartmentModel, traj *SOCTrajectory, cfg AssertionConfig) {
	t.Helper()

	if traj.Steps == 0 {
		t.Logf("✓ Mass closure: empty trajectory, nothing to check")
		return
	}

	initial := 0.0
	for _, c := range model.Initial {
		initial += c
	}
	inputs := 0.0
	for k := 0; k < traj.Steps; k++ {
		in := model.Input
		if model.InputSeries != nil {
			in = model.InputSeries[k]
		}
		for _, flux := range in {
			inputs += traj.StepSize * flux
		}
	}

	expected := initial + inputs - traj.Respired[traj.Steps-1]
	got := traj.FinalTotal()
	scale := initial
	if scale < 1 {
		scale = 1
	}
	diff := got - expected
	if diff < 0 {
		diff = -diff
	}

	if diff > cfg.ClosureTolerance*scale {
		t.Errorf("Mass not closed: final=%.12g, expected=%.12g (Δ=%.3g over tolerance %.3g)\n"+
			"Lost or created carbon means the integrator is wrong, not the parameters.",
			got, expected, diff, cfg.ClosureTolerance*scale)
		return
	}
	t.Logf("✓ Mass closure: initial %.6g + inputs %.6g − respired %.6g = final %.6g (Δ=%.3g)",
		initial, inputs, traj.Respired[traj.Steps-1], got, diff)
}

// AssertStrictDecline verifies total SOC falls at every step - the expected
// shape for a decaying system with no inputs.
func AssertStrictDecline(t *testing.T, traj *SOCTrajectory) {
	t.Helper()

	prev := traj.Total[0]
	for k := 1; k < traj.Steps; k++ {
		if traj.Total[k] >= prev {
			t.Errorf("Total SOC not strictly decreasing: step %d has %.9g ≥ %.9g", k, traj.Total[k], prev)
			return
		}
		prev = traj.Total[k]
	}
	t.Logf("✓ Strict decline over %d steps: %.6g → %.6g", traj.Steps, traj.Total[0], traj.FinalTotal())
}

// AssertCompleted verifies a run reached its horizon.
func AssertCompleted(t *testing.T, traj *SOCTrajectory, err error, wantSteps int) {
	t.Helper()

	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if traj.State != RunCompleted {
		t.Errorf("State = %s, want %s", traj.State, RunCompleted)
	}
	if traj.Steps != wantSteps {
		t.Errorf("Completed %d steps, want %d", traj.Steps, wantSteps)
	}
}

// AssertHaltedAt verifies a run halted on a ξ gap at exactly the given
// step, with exactly that many completed rows - never a defaulted
// multiplier, never a full trajectory.
func AssertHaltedAt(t *testing.T, traj *SOCTrajectory, err error, step int) {
	t.Helper()

	var gap *GapError
	if !errors.As(err, &gap) {
		t.Fatalf("Expected a gap error, got %v", err)
	}
	if gap.Step != step {
		t.Errorf("Halted at step %d, want %d", gap.Step, step)
	}
	if traj.State != RunHalted {
		t.Errorf("State = %s, want %s", traj.State, RunHalted)
	}
	if traj.Steps != step {
		t.Errorf("Trajectory has %d completed steps, want exactly %d", traj.Steps, step)
	}
	t.Logf("✓ Halted at step %d with %d completed steps", gap.Step, traj.Steps)
}

// AssertTrajectoriesEqual verifies two trajectories are bit-for-bit
// identical - the determinism guarantee: same model, same ξ, same
// discretization, same bits.
func AssertTrajectoriesEqual(t *testing.T, a, b *SOCTrajectory) {
	t.Helper()

	if a.Steps != b.Steps || a.State != b.State || a.StepSize != b.StepSize {
		t.Errorf("Shape differs: %d/%s/h=%g vs %d/%s/h=%g",
			a.Steps, a.State, a.StepSize, b.Steps, b.State, b.StepSize)
		return
	}
	for k := 0; k < a.Steps; k++ {
		if a.Total[k] != b.Total[k] || a.Respired[k] != b.Respired[k] {
			t.Errorf("Step %d differs: total %.17g vs %.17g", k, a.Total[k], b.Total[k])
			return
		}
		for i := range a.Pools[k] {
			if a.Pools[k][i] != b.Pools[k][i] {
				t.Errorf("Step %d pool %d differs: %.17g vs %.17g", k, i, a.Pools[k][i], b.Pools[k][i])
				return
			}
		}
	}
	t.Logf("✓ Trajectories bit-for-bit identical over %d steps", a.Steps)
}

// PrintTrajectory outputs a run summary to the test log.
func PrintTrajectory(t *testing.T, traj *SOCTrajectory, cfg AssertionConfig) {
	t.Helper()

	t.Logf("\n=== SOC Trajectory ===")
	t.Logf("State: %s, steps: %d, Δt: %g", traj.State, traj.Steps, traj.StepSize)
	if traj.Steps == 0 {
		return
	}

	t.Logf("\n  step  total SOC     respired")
	t.Logf("  ----  ------------  ------------")
	shown := traj.Steps
	if shown > cfg.MaxLogRows {
		shown = cfg.MaxLogRows
	}
	for k := 0; k < shown; k++ {
		t.Logf("  %-4d  %12.4f  %12.4f", k, traj.Total[k], traj.Respired[k])
	}
	if shown < traj.Steps {
		t.Logf("  ...   (%d more)", traj.Steps-shown)
		k := traj.Steps - 1
		t.Logf("  %-4d  %12.4f  %12.4f", k, traj.Total[k], traj.Respired[k])
	}

	t.Logf("\nFinal pools:")
	for i, c := range traj.FinalPools() {
		t.Logf("  pool %d: %.4f", i, c)
	}
}
