package swesoc

import "strconv"

// Value is an optional unitless scaling multiplier.
//
// The historical soil-carbon formulations return an NA-like marker when a
// scaling function is evaluated outside its validity domain (the RothC
// temperature response below −18.3 °C, the CENTURY response at or above
// Tmax). Value carries that marker explicitly: either a defined multiplier
// or nothing. "No value" is distinct from zero - zero means decomposition
// stops, no value means the formula says nothing at this input.
type Value struct {
	x       float64
	defined bool
}

// Defined wraps a concrete multiplier.
func Defined(x float64) Value {
	return Value{x: x, defined: true}
}

// NoValue returns the out-of-domain marker.
func NoValue() Value {
	return Value{}
}

// IsDefined reports whether the Value carries a multiplier.
func (v Value) IsDefined() bool {
	return v.defined
}

// Float returns the multiplier and whether it is defined.
// An undefined Value returns (0, false); the zero must not be used.
func (v Value) Float() (float64, bool) {
	return v.x, v.defined
}

// String renders the multiplier for logs and error messages.
func (v Value) String() string {
	if !v.defined {
		return "no value"
	}
	return strconv.FormatFloat(v.x, 'g', -1, 64)
}
