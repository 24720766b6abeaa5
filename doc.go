// Package swesoc simulates soil organic carbon (SOC) stocks with linear
// compartmental decomposition models under environmental scaling.
//
// # Overview
//
// swesoc is the numerical core shared by the SOC model family: a
// model-agnostic engine for systems of the form
//
//	dC/dt = I(t) − ξ(t) · A · C(t)
//
// where C is the per-pool carbon content vector, I the input flux, A the
// kinetic/transfer matrix, and ξ the composite environmental multiplier  - 
// the product of independent temperature, moisture, and edaphic responses.
// The same engine runs a two-pool ICBM structure, a RothC-style cascade, or
// any other linear pool topology; the model is data, not code.
//
// # Components
//
// The package, leaves first:
//
//   - scaling functions - pure driver→multiplier formulas (temperature.go,
//     moisture.go, edaphic.go), interchangeable behind Function
//   - ComposeXi          - elementwise product of factor series into ξ(t)
//   - CompartmentModel   - pools, initial stocks, inputs, kinetics matrix
//   - Simulate           - forward Euler integration with run states
//   - Adapter            - calibration boundary: flat parameter vector in,
//     trajectory or terminal error out, parallel batch dispatch
//
// # Environmental Scaling
//
// Each scaling function documents its validity domain and returns the
// explicit no-value marker outside it - never NaN, never a silent default:
//
//	arrhenius   ξ(T) = A·exp(−Ea/(R·T_K)), T_K = T + 273.16
//	rothc       ξ(T) = 47.91/(1 + exp(106.06/(T + 18.27))), T > −18.3 °C
//	century     ξ(T) = q^0.2·exp((0.2/2.63)(1 − q^2.63)), q = (Tmax−T)/(Tmax−Topt)
//	two-regime  quadratic rise then linear decline around Topt, capped at 1
//	q10         ξ(T) = Q10^((T−Tref)/10)
//
// plus moisture (power-law, quadratic optimum) and edaphic (clay, constant
// management) families. Composition propagates gaps: one undefined factor
// makes ξ undefined at that step, and the engine halts there rather than
// guessing.
//
// # Quick Start
//
// A century of a two-pool ICBM run under a temperature series:
//
//	model := swesoc.TwoPoolICBM(0.8, 0.006, 0.13, 4.0, 50.0, 0.3)
//
//	temp := loadSoilTemperature() // one value per step, °C
//	factors, err := swesoc.BuildFactors([]swesoc.Binding{
//	    {Channel: "temperature", Function: "two-regime", Params: nil},
//	}, map[string][]float64{"temperature": temp}, len(temp))
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	xi, err := swesoc.ComposeXi(len(temp), factors...)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	traj, err := swesoc.Simulate(ctx, model, xi, swesoc.SimConfig{
//	    StepSize: 1, // annual
//	    Steps:    len(temp),
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Printf("final SOC: %.2f\n", traj.FinalTotal())
//
// # Run States
//
// A run moves Uninitialized → Running → {Completed, Halted, Diverged}.
// Halted (ξ gap, *GapError with the step) and Diverged (non-finite or
// runaway content, *DivergenceError with step and pool) return the partial
// trajectory: completed rows only, nothing invented past the failure.
// Divergence is a verdict on the parameter vector - calibration drivers
// treat it as a rejection, the engine never retries.
//
// # Calibration
//
// An Adapter binds the fixed template once and evaluates flat parameter
// vectors against it, concurrently if desired:
//
//	adapter, err := swesoc.NewAdapter(model, bindings, drivers,
//	    []swesoc.ParamRef{
//	        {Target: swesoc.TargetKinetics, Row: 0, Col: 0}, // ky
//	        {Target: swesoc.TargetScaling, Channel: "temperature", Name: "tref"},
//	    }, cfg)
//
//	outcomes := adapter.EvaluateBatch(ctx, thetas, runtime.NumCPU())
//	for i, out := range outcomes {
//	    if out.Err != nil {
//	        reject(thetas[i], out.Err) // gap or divergence
//	        continue
//	    }
//	    score(thetas[i], out.Trajectory)
//	}
//
// # Testing
//
// The package exports its property assertions for reuse in model tests:
//
//	func TestMyParameterization(t *testing.T) {
//	    traj, err := swesoc.Simulate(ctx, model, xi, cfg)
//	    swesoc.AssertCompleted(t, traj, err, cfg.Steps)
//	    swesoc.AssertMassClosure(t, model, traj, swesoc.DefaultAssertionConfig())
//	}
//
// # Numerical Scheme
//
// Simulate discretizes with explicit forward Euler: O(h²) local truncation
// error, O(h) global. The choice is deliberate - it reproduces the coarse
// annual stepping the historical models were calibrated with, and it lets
// unstable parameterizations surface as divergence instead of being hidden
// by an unconditionally stable solver. Calibrated parameters are tied to
// the step size that produced them.
package swesoc
