package swesoc

import "math"

// KelvinOffset converts soil temperature from °C to the absolute scale used
// by the Arrhenius formulation. The offset is 273.16 - the triple point  - 
// not the 273.15 of the usual Celsius definition. The historical parameter
// sets were fitted with 273.16, and activation energies are only comparable
// across studies if the same offset is kept exactly.
const KelvinOffset = 273.16

// GasConstant is the molar gas constant R in J/(mol·K), at the precision
// carried by the source parameter tables.
const GasConstant = 8.3144621

// ArrheniusTemperature is the classic Arrhenius rate response,
//
//	ξ(T) = A · exp(−Ea / (R · T_K)),  T_K = T + 273.16
//
// with soil temperature T in °C, apparent activation energy Ea in J/mol and
// pre-exponential amplitude A. A absorbs the normalization, so calibrations
// vary A and Ea jointly. Defined wherever T_K > 0; colder inputs have no
// physical meaning and evaluate to no value.
type ArrheniusTemperature struct {
	A  float64 // pre-exponential amplitude (unitless)
	Ea float64 // apparent activation energy (J/mol)
}

// DefaultArrheniusTemperature returns the reference parameterization
// (A = 1000, Ea = 75 kJ/mol) used throughout the calibration literature as
// a starting point. The amplitude is rarely kept - calibration rescales it.
func DefaultArrheniusTemperature() ArrheniusTemperature {
	return ArrheniusTemperature{A: 1000, Ea: 75000}
}

// Name implements Function.
func (f ArrheniusTemperature) Name() string { return "arrhenius" }

// Eval implements Function.
func (f ArrheniusTemperature) Eval(tempC float64) Value {
	tk := tempC + KelvinOffset
	if tk <= 0 {
		return NoValue()
	}
	return Defined(f.A * math.Exp(-f.Ea/(GasConstant*tk)))
}

// RothCTemperature is the Jenkinson RothC-26.3 temperature rate modifier,
//
//	ξ(T) = 47.91 / (1 + exp(106.06 / (T + 18.27)))
//
// with T in °C. The response is ≈1 near 9.3 °C by construction and needs no
// further normalization. The formula has a pole at T = −18.27 °C; the
// historical domain check rejects T ≤ −18.3 °C (no value). −18 °C is still
// inside the domain and evaluates to a small positive multiplier.
type RothCTemperature struct{}

// rothCLowerBound is the historical domain limit, just below the pole.
const rothCLowerBound = -18.3

// Name implements Function.
func (RothCTemperature) Name() string { return "rothc" }

// Eval implements Function.
func (RothCTemperature) Eval(tempC float64) Value {
	if tempC <= rothCLowerBound {
		return NoValue()
	}
	return Defined(47.91 / (1 + math.Exp(106.06/(tempC+18.27))))
}

// CenturyTemperature is the CENTURY grassland-model temperature response,
//
//	q = (Tmax − T) / (Tmax − Topt)
//	ξ(T) = q^0.2 · exp((0.2/2.63) · (1 − q^2.63))
//
// with two shape parameters: the temperature Tmax at which activity ceases
// and the optimum Topt (Tmax > Topt, both °C). The response is exactly 1 at
// T = Topt. It is only valid for T < Tmax; at or above Tmax the fractional
// powers are undefined and Eval returns no value rather than a silently
// computed NaN.
type CenturyTemperature struct {
	Tmax float64 // temperature at which decomposition ceases (°C)
	Topt float64 // optimum temperature for decomposition (°C)
}

// DefaultCenturyTemperature returns the published grassland shape
// (Tmax = 45 °C, Topt = 35 °C).
func DefaultCenturyTemperature() CenturyTemperature {
	return CenturyTemperature{Tmax: 45, Topt: 35}
}

// Validate rejects shape parameters the formula cannot support.
func (f CenturyTemperature) Validate() error {
	if f.Tmax <= f.Topt {
		return &ConfigurationError{
			Field: "century",
			Msg:   "Tmax must exceed Topt",
		}
	}
	return nil
}

// Name implements Function.
func (f CenturyTemperature) Name() string { return "century" }

// Eval implements Function.
func (f CenturyTemperature) Eval(tempC float64) Value {
	if f.Tmax <= f.Topt || tempC >= f.Tmax {
		return NoValue()
	}
	q := (f.Tmax - tempC) / (f.Tmax - f.Topt)
	return Defined(math.Pow(q, 0.2) * math.Exp((0.2/2.63)*(1-math.Pow(q, 2.63))))
}

// TwoRegimeTemperature is the ICBM-style two-regime soil temperature
// response used by the Swedish regional parameterizations. Temperatures are
// transformed relative to the biological minimum Tmin, u = T − Tmin, and the
// optimum transform u_opt = Topt − Tmin selects the regime:
//
//	u ≤ u_opt:  ξ = (u / u_ref)²            (quadratic rise)
//	u > u_opt:  ξ = 1 − Decline·(u − u_opt) (linear decline)
//
// where u_ref = Tref − Tmin normalizes the quadratic to 1 at the reference
// temperature. Each regime is capped at 1.0 on its own, before the regimes
// are joined into the full response - the cap is a deliberate ceiling from
// the source model, and with Tref < Topt the quadratic genuinely exceeds it
// between the two temperatures. At or below Tmin the response is 0: a
// defined biological zero, not a gap. Negative declines are clipped to 0,
// so the multiplier is finite and non-negative for every finite T.
type TwoRegimeTemperature struct {
	Tmin    float64 // biological minimum temperature (°C); response is 0 at or below
	Tref    float64 // reference temperature (°C) where the quadratic regime is 1
	Topt    float64 // optimum temperature (°C); regime threshold
	Decline float64 // fractional decline per °C above the optimum
}

// DefaultTwoRegimeTemperature returns the Nordic arable parameterization:
// Tmin = −3.78 °C, Tref = 5.4 °C (the long-term topsoil mean at the
// reference site), Topt = 30 °C, and a 4 %/°C decline above the optimum.
func DefaultTwoRegimeTemperature() TwoRegimeTemperature {
	return TwoRegimeTemperature{Tmin: -3.78, Tref: 5.4, Topt: 30, Decline: 0.04}
}

// Validate rejects orderings the two regimes cannot support.
func (f TwoRegimeTemperature) Validate() error {
	if f.Tref <= f.Tmin || f.Topt <= f.Tmin {
		return &ConfigurationError{
			Field: "two-regime",
			Msg:   "Tref and Topt must exceed Tmin",
		}
	}
	if f.Decline < 0 {
		return &ConfigurationError{
			Field: "two-regime",
			Msg:   "Decline must be non-negative",
		}
	}
	return nil
}

// Name implements Function.
func (f TwoRegimeTemperature) Name() string { return "two-regime" }

// Eval implements Function.
func (f TwoRegimeTemperature) Eval(tempC float64) Value {
	u := tempC - f.Tmin
	if u <= 0 {
		return Defined(0)
	}
	uRef := f.Tref - f.Tmin
	uOpt := f.Topt - f.Tmin
	if uRef <= 0 || uOpt <= 0 {
		return NoValue()
	}
	if u <= uOpt {
		q := u / uRef
		return Defined(capUnit(q * q))
	}
	return Defined(floorZero(capUnit(1 - f.Decline*(u-uOpt))))
}

// Q10Temperature is the exponential Q10 rate response,
//
//	ξ(T) = Q10^((T − Tref) / 10)
//
// the simplest temperature family: the rate multiplies by Q10 for every
// 10 °C above the reference temperature. Defined for all finite T, which
// makes it a convenient calibration baseline.
type Q10Temperature struct {
	Q10  float64 // rate ratio per 10 °C (> 0)
	Tref float64 // reference temperature (°C) where the multiplier is 1
}

// DefaultQ10Temperature returns the conventional soil default,
// Q10 = 2 at a 10 °C reference.
func DefaultQ10Temperature() Q10Temperature {
	return Q10Temperature{Q10: 2, Tref: 10}
}

// Validate rejects non-positive rate ratios.
func (f Q10Temperature) Validate() error {
	if f.Q10 <= 0 {
		return &ConfigurationError{
			Field: "q10",
			Msg:   "Q10 must be positive",
		}
	}
	return nil
}

// Name implements Function.
func (f Q10Temperature) Name() string { return "q10" }

// Eval implements Function.
func (f Q10Temperature) Eval(tempC float64) Value {
	if f.Q10 <= 0 {
		return NoValue()
	}
	return Defined(math.Pow(f.Q10, (tempC-f.Tref)/10))
}
