package swesoc

import (
	"fmt"
	"sort"
)

// The registry maps configuration names to scaling-function constructors so
// a run file can bind, say, "two-regime" to the temperature channel without
// the composer or the engine knowing which formula is behind the name.

// builderFunc constructs a scaling function from named parameters. Missing
// parameters keep their published defaults; unknown parameter names are
// configuration errors, since a silently ignored typo would calibrate the
// wrong model.
type builderFunc func(params map[string]float64) (Function, error)

var builders = map[string]builderFunc{
	"arrhenius": func(p map[string]float64) (Function, error) {
		f := DefaultArrheniusTemperature()
		if err := applyParams("arrhenius", p, map[string]*float64{
			"a":  &f.A,
			"ea": &f.Ea,
		}); err != nil {
			return nil, err
		}
		return f, nil
	},
	"rothc": func(p map[string]float64) (Function, error) {
		if err := applyParams("rothc", p, nil); err != nil {
			return nil, err
		}
		return RothCTemperature{}, nil
	},
	"century": func(p map[string]float64) (Function, error) {
		f := DefaultCenturyTemperature()
		if err := applyParams("century", p, map[string]*float64{
			"tmax": &f.Tmax,
			"topt": &f.Topt,
		}); err != nil {
			return nil, err
		}
		if err := f.Validate(); err != nil {
			return nil, err
		}
		return f, nil
	},
	"two-regime": func(p map[string]float64) (Function, error) {
		f := DefaultTwoRegimeTemperature()
		if err := applyParams("two-regime", p, map[string]*float64{
			"tmin":    &f.Tmin,
			"tref":    &f.Tref,
			"topt":    &f.Topt,
			"decline": &f.Decline,
		}); err != nil {
			return nil, err
		}
		if err := f.Validate(); err != nil {
			return nil, err
		}
		return f, nil
	},
	"q10": func(p map[string]float64) (Function, error) {
		f := DefaultQ10Temperature()
		if err := applyParams("q10", p, map[string]*float64{
			"q10":  &f.Q10,
			"tref": &f.Tref,
		}); err != nil {
			return nil, err
		}
		if err := f.Validate(); err != nil {
			return nil, err
		}
		return f, nil
	},
	"moisture-power": func(p map[string]float64) (Function, error) {
		f := DefaultPowerMoisture()
		if err := applyParams("moisture-power", p, map[string]*float64{
			"exponent": &f.Exponent,
		}); err != nil {
			return nil, err
		}
		if err := f.Validate(); err != nil {
			return nil, err
		}
		return f, nil
	},
	"moisture-optimum": func(p map[string]float64) (Function, error) {
		f := DefaultOptimumMoisture()
		if err := applyParams("moisture-optimum", p, map[string]*float64{
			"wilt": &f.Wilt,
			"sat":  &f.Sat,
		}); err != nil {
			return nil, err
		}
		if err := f.Validate(); err != nil {
			return nil, err
		}
		return f, nil
	},
	"clay-linear": func(p map[string]float64) (Function, error) {
		f := DefaultClayModifier()
		if err := applyParams("clay-linear", p, map[string]*float64{
			"slope": &f.Slope,
		}); err != nil {
			return nil, err
		}
		if err := f.Validate(); err != nil {
			return nil, err
		}
		return f, nil
	},
	"constant": func(p map[string]float64) (Function, error) {
		f := DefaultConstantScaling()
		if err := applyParams("constant", p, map[string]*float64{
			"factor": &f.Factor,
		}); err != nil {
			return nil, err
		}
		if err := f.Validate(); err != nil {
			return nil, err
		}
		return f, nil
	},
}

// applyParams writes named parameters into their struct fields and rejects
// names the function does not declare.
func applyParams(name string, params map[string]float64, fields map[string]*float64) error {
	for key, val := range params {
		dst, ok := fields[key]
		if !ok {
			return &ConfigurationError{
				Field: name,
				Msg:   fmt.Sprintf("unknown parameter %q", key),
			}
		}
		*dst = val
	}
	return nil
}

// Build constructs the scaling function registered under name, starting
// from its published defaults and overriding the given parameters.
func Build(name string, params map[string]float64) (Function, error) {
	builder, ok := builders[name]
	if !ok {
		return nil, &ConfigurationError{
			Field: "scaling",
			Msg:   fmt.Sprintf("unknown scaling function %q", name),
		}
	}
	return builder(params)
}

// FunctionNames lists every registered scaling function, sorted.
func FunctionNames() []string {
	names := make([]string, 0, len(builders))
	for name := range builders {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Binding attaches a named scaling function, with parameter overrides, to
// an environmental driver channel. The channel name selects the driver
// series the function consumes.
type Binding struct {
	Channel  string             // driver channel ("temperature", "moisture", ...)
	Function string             // registered function name
	Params   map[string]float64 // parameter overrides, defaults elsewhere
}

// BuildFactors evaluates each binding's function over its channel series
// and returns the per-factor multiplier series, in binding order, ready for
// ComposeXi. Every bound channel must be present in drivers and span the
// full horizon.
func BuildFactors(bindings []Binding, drivers map[string][]float64, steps int) ([][]Value, error) {
	factors := make([][]Value, 0, len(bindings))
	for _, b := range bindings {
		fn, err := Build(b.Function, b.Params)
		if err != nil {
			return nil, err
		}
		series, ok := drivers[b.Channel]
		if !ok {
			return nil, &ConfigurationError{
				Field: "scaling",
				Msg:   fmt.Sprintf("channel %q bound to %q has no driver series", b.Channel, b.Function),
			}
		}
		if len(series) != steps {
			return nil, &ConfigurationError{
				Field: "drivers",
				Msg: fmt.Sprintf("channel %q has %d observations, horizon is %d steps",
					b.Channel, len(series), steps),
			}
		}
		factors = append(factors, EvalSeries(fn, series))
	}
	return factors, nil
}
