package indicators

import (
	"errors"
	"fmt"

	"fundamentals-analyzer/internal/normalize"
	"fundamentals-analyzer/internal/types"
)

// Engine evaluates (company, indicator) pairs against a registry. It holds no
// mutable state and is safe for concurrent use.
type Engine struct {
	registry *Registry
}

// NewEngine creates an engine over a loaded registry
func NewEngine(registry *Registry) *Engine {
	return &Engine{registry: registry}
}

// Registry returns the engine's registry
func (e *Engine) Registry() *Registry {
	return e.registry
}

// Evaluate computes, classifies and describes one indicator for one company.
// Normalization, validation and classification-gap failures come back as an
// error Result with a nil error. A contract violation is returned as an error
// and no Result.
func (e *Engine) Evaluate(company *types.CompanyData, id string) (types.Result, error) {
	def, ok := e.registry.definition(id)
	if !ok {
		return types.Result{}, &types.ContractViolationError{Indicator: id, Reason: "indicator is not registered"}
	}

	if company == nil {
		return types.ErrorResult("", id, types.NewValidationError(def.ID, "no company data")), nil
	}
	value, err := compute(def, company)
	if err != nil {
		return types.ErrorResult(company.Symbol, id, err), nil
	}
	return e.describe(def, company.Symbol, value)
}

// EvaluateValue classifies an already normalized value
func (e *Engine) EvaluateValue(company, id string, value float64) (types.Result, error) {
	def, ok := e.registry.definition(id)
	if !ok {
		return types.Result{}, &types.ContractViolationError{Indicator: id, Reason: "indicator is not registered"}
	}
	return e.describe(def, company, value)
}

func (e *Engine) describe(def *Definition, company string, value float64) (types.Result, error) {
	rule, err := Classify(def.ID, value, def.Ranges)
	if err != nil {
		return types.ErrorResult(company, def.ID, err), nil
	}

	res, err := BuildResult(def, rule, company, value)
	if err != nil {
		return types.Result{}, err
	}
	return res, nil
}

// compute derives the value to classify. A panic inside a calculator is
// recovered and reported as an error for this pair only.
func compute(def *Definition, company *types.CompanyData) (value float64, err error) {
	defer func() {
		if r := recover(); r != nil {
			value = 0
			err = fmt.Errorf("calculator %s panicked: %v", def.Calculator, r)
		}
	}()

	if def.Calculator == "" {
		return normalize.Value(company.Raw(def.Field()))
	}

	b := bindings[def.Calculator]
	raw := make([]any, len(def.Inputs))
	for i, label := range def.Inputs {
		raw[i] = company.Raw(label)
	}
	return b.eval(raw, def.Params)
}

// IsRuntimeFailure reports whether err is one of the failures that the
// evaluation boundary turns into an error Result
func IsRuntimeFailure(err error) bool {
	return errors.Is(err, types.ErrNormalization) ||
		errors.Is(err, types.ErrValidation) ||
		errors.Is(err, types.ErrClassificationGap)
}
