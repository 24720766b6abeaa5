package swesoc

// ClayModifier is the CENTURY-style texture effect on decomposition,
//
//	ξ(clay) = 1 − Slope · clay
//
// with clay the clay mass fraction in [0, 1]. Finer soils protect organic
// matter through aggregation and sorption, slowing turnover of the
// stabilized pools. Clay fractions outside [0, 1] are not a fraction and
// evaluate to no value. The driver series is typically constant over a run
// (soil texture does not change on simulation timescales), which the
// composer handles like any other factor.
type ClayModifier struct {
	Slope float64 // reduction per unit clay fraction (0 ≤ Slope ≤ 1)
}

// DefaultClayModifier returns the published CENTURY slope (0.75).
func DefaultClayModifier() ClayModifier {
	return ClayModifier{Slope: 0.75}
}

// Validate rejects slopes that could drive the modifier negative at
// clay = 1 or amplify decomposition in fine soil.
func (f ClayModifier) Validate() error {
	if f.Slope < 0 || f.Slope > 1 {
		return &ConfigurationError{
			Field: "clay-linear",
			Msg:   "Slope must lie in [0, 1]",
		}
	}
	return nil
}

// Name implements Function.
func (f ClayModifier) Name() string { return "clay-linear" }

// Eval implements Function.
func (f ClayModifier) Eval(clay float64) Value {
	if clay < 0 || clay > 1 {
		return NoValue()
	}
	return Defined(floorZero(1 - f.Slope*clay))
}

// ConstantScaling is a fixed multiplier, independent of the driver value.
// ICBM-family models carry cultivation intensity this way: a management
// factor that scales all decomposition uniformly (1 for the reference
// management, above it for intensive cultivation). The driver series is
// ignored except for its length, which keeps the factor index-aligned with
// the others.
type ConstantScaling struct {
	Factor float64 // the multiplier applied at every step (≥ 0)
}

// DefaultConstantScaling returns the identity multiplier.
func DefaultConstantScaling() ConstantScaling {
	return ConstantScaling{Factor: 1}
}

// Validate rejects negative multipliers.
func (f ConstantScaling) Validate() error {
	if f.Factor < 0 {
		return &ConfigurationError{
			Field: "constant",
			Msg:   "Factor must be non-negative",
		}
	}
	return nil
}

// Name implements Function.
func (f ConstantScaling) Name() string { return "constant" }

// Eval implements Function.
func (f ConstantScaling) Eval(float64) Value {
	if f.Factor < 0 {
		return NoValue()
	}
	return Defined(f.Factor)
}
