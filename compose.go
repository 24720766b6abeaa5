package swesoc

import "fmt"

// ComposeXi combines per-factor multiplier series into the single ξ-series
// the engine consumes: the elementwise product across all factors at each
// step. Wherever any factor is no value, the composed ξ is no value - the
// gap propagates as data and is never coerced to 0 or 1. Multiplication is
// commutative and associative, so factor order never changes the result.
//
// Zero factors is a valid degenerate configuration: ξ ≡ 1 for the whole
// horizon (unmodified kinetics). A factor series whose length differs from
// the horizon is a configuration error, caught before any multiplication.
func ComposeXi(steps int, factors ...[]Value) ([]Value, error) {
	if steps < 0 {
		return nil, &ConfigurationError{
			Field: "steps",
			Msg:   fmt.Sprintf("horizon must be non-negative, got %d", steps),
		}
	}
	for i, factor := range factors {
		if len(factor) != steps {
			return nil, &ConfigurationError{
				Field: "factors",
				Msg: fmt.Sprintf("factor %d has %d entries, horizon is %d steps",
					i, len(factor), steps),
			}
		}
	}

	xi := make([]Value, steps)
	for k := range xi {
		product := 1.0
		defined := true
		for _, factor := range factors {
			x, ok := factor[k].Float()
			if !ok {
				defined = false
				break
			}
			product *= x
		}
		if defined {
			xi[k] = Defined(product)
		} else {
			xi[k] = NoValue()
		}
	}
	return xi, nil
}
