package swesoc

import "math"

// PowerMoisture is the power-law moisture response,
//
//	ξ(w) = w^b
//
// on relative water content w = θ/θ_fc in [0, 1] (actual over field
// capacity). b = 1 is the linear CENTURY-style reduction below field
// capacity; b < 1 flattens the response in moist soil. Inputs outside
// [0, 1] are not a water content and evaluate to no value - rescale
// upstream rather than feeding raw volumetric readings here.
type PowerMoisture struct {
	Exponent float64 // shape exponent b (> 0)
}

// DefaultPowerMoisture returns the linear response (b = 1).
func DefaultPowerMoisture() PowerMoisture {
	return PowerMoisture{Exponent: 1}
}

// Validate rejects non-positive exponents.
func (f PowerMoisture) Validate() error {
	if f.Exponent <= 0 {
		return &ConfigurationError{
			Field: "moisture-power",
			Msg:   "Exponent must be positive",
		}
	}
	return nil
}

// Name implements Function.
func (f PowerMoisture) Name() string { return "moisture-power" }

// Eval implements Function.
func (f PowerMoisture) Eval(relWater float64) Value {
	if relWater < 0 || relWater > 1 {
		return NoValue()
	}
	if f.Exponent <= 0 {
		return NoValue()
	}
	return Defined(math.Pow(relWater, f.Exponent))
}

// OptimumMoisture is the quadratic optimum response on volumetric water
// content θ (m³/m³),
//
//	ξ(θ) = 4 · (θ − θ_w)(θ_s − θ) / (θ_s − θ_w)²
//
// which is 0 at the wilting point θ_w and at saturation θ_s, and peaks at
// exactly 1 midway between them (too dry limits diffusion of substrate, too
// wet limits oxygen). Between 0 and θ_w, and between θ_s and 1, the soil is
// biologically inert and the response is a defined 0. Volumetric contents
// outside [0, 1] are not physical and evaluate to no value.
type OptimumMoisture struct {
	Wilt float64 // wilting point θ_w (m³/m³)
	Sat  float64 // saturation θ_s (m³/m³); must exceed Wilt
}

// DefaultOptimumMoisture returns a typical mineral topsoil shape
// (θ_w = 0.12, θ_s = 0.45).
func DefaultOptimumMoisture() OptimumMoisture {
	return OptimumMoisture{Wilt: 0.12, Sat: 0.45}
}

// Validate rejects shapes without a wet-dry interval.
func (f OptimumMoisture) Validate() error {
	if f.Sat <= f.Wilt {
		return &ConfigurationError{
			Field: "moisture-optimum",
			Msg:   "Sat must exceed Wilt",
		}
	}
	if f.Wilt < 0 || f.Sat > 1 {
		return &ConfigurationError{
			Field: "moisture-optimum",
			Msg:   "Wilt and Sat must lie in [0, 1]",
		}
	}
	return nil
}

// Name implements Function.
func (f OptimumMoisture) Name() string { return "moisture-optimum" }

// Eval implements Function.
func (f OptimumMoisture) Eval(theta float64) Value {
	if theta < 0 || theta > 1 {
		return NoValue()
	}
	if f.Sat <= f.Wilt {
		return NoValue()
	}
	span := f.Sat - f.Wilt
	return Defined(floorZero(4 * (theta - f.Wilt) * (f.Sat - theta) / (span * span)))
}
