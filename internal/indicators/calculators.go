package indicators

import (
	"fmt"

	"fundamentals-analyzer/internal/normalize"
	"fundamentals-analyzer/internal/ratios"
	"fundamentals-analyzer/internal/types"
)

// binding adapts a ratio calculator to raw company inputs. Inputs arrive in
// the order the rule table lists them.
type binding struct {
	inputs int
	params []string
	eval   func(raw []any, params map[string]float64) (float64, error)
}

// Rates inside the engine are percent units ("12,5%" is 12.5). WACC and FCFF
// work on fractions, so their rate inputs are scaled on the way in and the
// WACC result is scaled back to percent.
var bindings = map[string]binding{
	ratios.NameFreeFloat: {
		inputs: 3,
		eval: func(raw []any, _ map[string]float64) (float64, error) {
			v, err := values(raw)
			if err != nil {
				return 0, err
			}
			return ratios.FreeFloat(v[0], v[1], v[2])
		},
	},
	ratios.NameCAGR: {
		inputs: 2,
		params: []string{"years"},
		eval: func(raw []any, params map[string]float64) (float64, error) {
			v, err := values(raw)
			if err != nil {
				return 0, err
			}
			g, err := ratios.CAGR(v[0], v[1], params["years"])
			if err != nil {
				return 0, err
			}
			return g * 100, nil
		},
	},
	ratios.NameBeta: {
		inputs: 2,
		eval: func(raw []any, _ map[string]float64) (float64, error) {
			asset, err := normalize.Series(raw[0])
			if err != nil {
				return 0, err
			}
			market, err := normalize.Series(raw[1])
			if err != nil {
				return 0, err
			}
			return ratios.Beta(asset, market)
		},
	},
	ratios.NameWACC: {
		inputs: 5,
		eval: func(raw []any, _ map[string]float64) (float64, error) {
			v, err := values(raw)
			if err != nil {
				return 0, err
			}
			w, err := ratios.WACC(v[0], v[1], v[2]/100, v[3]/100, v[4]/100)
			if err != nil {
				return 0, err
			}
			return w * 100, nil
		},
	},
	ratios.NameFCFF: {
		inputs: 5,
		eval: func(raw []any, _ map[string]float64) (float64, error) {
			v, err := values(raw)
			if err != nil {
				return 0, err
			}
			return ratios.FCFF(v[0], v[1]/100, v[2], v[3], v[4])
		},
	},
	ratios.NameRatio: {
		inputs: 2,
		eval: func(raw []any, _ map[string]float64) (float64, error) {
			v, err := values(raw)
			if err != nil {
				return 0, err
			}
			return ratios.Ratio(v[0], v[1])
		},
	},
	ratios.NameRatioPct: {
		inputs: 2,
		eval: func(raw []any, _ map[string]float64) (float64, error) {
			v, err := values(raw)
			if err != nil {
				return 0, err
			}
			return ratios.RatioPct(v[0], v[1])
		},
	},
	ratios.NameUpside: {
		inputs: 2,
		eval: func(raw []any, _ map[string]float64) (float64, error) {
			v, err := values(raw)
			if err != nil {
				return 0, err
			}
			return ratios.Upside(v[0], v[1])
		},
	},
}

func values(raw []any) ([]float64, error) {
	out := make([]float64, len(raw))
	for i, r := range raw {
		f, err := normalize.Value(r)
		if err != nil {
			return nil, err
		}
		out[i] = f
	}
	return out, nil
}

// checkBinding verifies that a definition names a known calculator with the
// right number of inputs and every required parameter.
func checkBinding(def *Definition) error {
	if def.Calculator == "" {
		if len(def.Inputs) > 1 {
			return &types.ContractViolationError{
				Indicator: def.ID,
				Field:     "inputs",
				Reason:    fmt.Sprintf("pass-through indicator takes at most one input, got %d", len(def.Inputs)),
			}
		}
		return nil
	}

	b, ok := bindings[def.Calculator]
	if !ok {
		return &types.ContractViolationError{
			Indicator: def.ID,
			Field:     "calculator",
			Reason:    fmt.Sprintf("unknown calculator %q", def.Calculator),
		}
	}
	if len(def.Inputs) != b.inputs {
		return &types.ContractViolationError{
			Indicator: def.ID,
			Field:     "inputs",
			Reason:    fmt.Sprintf("%s takes %d inputs, got %d", def.Calculator, b.inputs, len(def.Inputs)),
		}
	}
	for _, p := range b.params {
		if _, ok := def.Params[p]; !ok {
			return &types.ContractViolationError{
				Indicator: def.ID,
				Field:     "params",
				Reason:    fmt.Sprintf("%s requires parameter %q", def.Calculator, p),
			}
		}
	}
	return nil
}
