package swesoc

import (
	"errors"
	"math"
	"strings"
	"testing"
)

func validTwoPool() CompartmentModel {
	return TwoPoolICBM(0.8, 0.006, 0.13, 4.11, 43.5, 0.34)
}

// TestModelValidate_Accepts checks the reference structures pass.
func TestModelValidate_Accepts(t *testing.T) {
	if err := validTwoPool().Validate(); err != nil {
		t.Fatalf("ICBM template rejected: %v", err)
	}

	single := CompartmentModel{
		Pools:    1,
		Initial:  []float64{100},
		Input:    []float64{0},
		Kinetics: [][]float64{{0.1}},
	}
	if err := single.Validate(); err != nil {
		t.Fatalf("single-pool model rejected: %v", err)
	}
}

// TestModelValidate_Rejects walks every malformed-model class and checks the
// error names the offending field.
func TestModelValidate_Rejects(t *testing.T) {
	base := validTwoPool()

	cases := []struct {
		name   string
		mutate func(m *CompartmentModel)
		field  string
	}{
		{"zero pools", func(m *CompartmentModel) { m.Pools = 0 }, "pools"},
		{"initial length", func(m *CompartmentModel) { m.Initial = []float64{1} }, "initial"},
		{"negative initial", func(m *CompartmentModel) { m.Initial[0] = -1 }, "initial"},
		{"NaN initial", func(m *CompartmentModel) { m.Initial[1] = math.NaN() }, "initial"},
		{"input length", func(m *CompartmentModel) { m.Input = nil }, "input"},
		{"negative input", func(m *CompartmentModel) { m.Input[0] = -0.1 }, "input"},
		{"ragged input series", func(m *CompartmentModel) {
			m.InputSeries = [][]float64{{0.3, 0}, {0.3}}
		}, "input_series"},
		{"negative series flux", func(m *CompartmentModel) {
			m.InputSeries = [][]float64{{0.3, -0.1}}
		}, "input_series"},
		{"kinetics rows", func(m *CompartmentModel) { m.Kinetics = m.Kinetics[:1] }, "kinetics"},
		{"kinetics ragged", func(m *CompartmentModel) { m.Kinetics[1] = []float64{0.006} }, "kinetics"},
		{"zero diagonal", func(m *CompartmentModel) { m.Kinetics[1][1] = 0 }, "kinetics"},
		{"NaN diagonal", func(m *CompartmentModel) { m.Kinetics[0][0] = math.NaN() }, "kinetics"},
		{"negative transfer", func(m *CompartmentModel) { m.Kinetics[1][0] = -0.05 }, "kinetics"},
		{"column creates carbon", func(m *CompartmentModel) { m.Kinetics[1][0] = 0.9 }, "kinetics"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			m := base.Clone()
			tc.mutate(&m)

			var confErr *ConfigurationError
			err := m.Validate()
			if !errors.As(err, &confErr) {
				t.Fatalf("got %v, want a configuration error", err)
			}
			if confErr.Field != tc.field {
				t.Errorf("error names field %q, want %q (%v)", confErr.Field, tc.field, confErr)
			}
		})
	}
}

// TestModelValidate_Conservation: the whole decay flux routed onward is
// allowed (no respiration), one part in 10^9 beyond it is not.
func TestModelValidate_Conservation(t *testing.T) {
	m := validTwoPool()

	m.Kinetics[1][0] = m.Kinetics[0][0]
	if err := m.Validate(); err != nil {
		t.Errorf("full routing rejected: %v", err)
	}

	m.Kinetics[1][0] = m.Kinetics[0][0] * (1 + 1e-9)
	err := m.Validate()
	if err == nil {
		t.Fatal("over-routing accepted")
	}
	if !strings.Contains(err.Error(), "creation") {
		t.Errorf("error does not name the violation: %v", err)
	}
	t.Logf("✓ conservation: %v", err)
}

// TestTwoPoolICBM verifies the generated structure.
func TestTwoPoolICBM(t *testing.T) {
	m := TwoPoolICBM(0.8, 0.006, 0.13, 4.11, 43.5, 0.34)

	if m.Pools != 2 {
		t.Fatalf("pools = %d, want 2", m.Pools)
	}
	if m.Kinetics[0][0] != 0.8 || m.Kinetics[1][1] != 0.006 {
		t.Errorf("decay diagonal = %g, %g", m.Kinetics[0][0], m.Kinetics[1][1])
	}
	if m.Kinetics[0][1] != 0 {
		t.Errorf("old pool must not feed the young pool, got %g", m.Kinetics[0][1])
	}
	if want := 0.13 * 0.8; m.Kinetics[1][0] != want {
		t.Errorf("humified transfer = %g, want h·ky = %g", m.Kinetics[1][0], want)
	}
	if m.Input[0] != 0.34 || m.Input[1] != 0 {
		t.Errorf("input = %v, want fresh carbon into the young pool only", m.Input)
	}
	if err := m.Validate(); err != nil {
		t.Errorf("generated model invalid: %v", err)
	}
}

// TestModelClone verifies the deep copy shares nothing with the original.
func TestModelClone(t *testing.T) {
	m := validTwoPool()
	m.InputSeries = [][]float64{{0.3, 0}, {0.4, 0}}

	c := m.Clone()
	c.Initial[0] = 999
	c.Input[1] = 999
	c.Kinetics[0][0] = 999
	c.InputSeries[1][0] = 999

	if m.Initial[0] == 999 || m.Input[1] == 999 || m.Kinetics[0][0] == 999 || m.InputSeries[1][0] == 999 {
		t.Error("Clone aliases the original's slices")
	}
}
