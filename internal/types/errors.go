package types

import (
	"errors"
	"fmt"
)

// Sentinels for errors.Is checks across package boundaries.
var (
	ErrNormalization     = errors.New("normalization failure")
	ErrValidation        = errors.New("validation failure")
	ErrClassificationGap = errors.New("classification gap")
	ErrContractViolation = errors.New("contract violation")
)

// NormalizationError reports a raw value that is neither numeric nor a
// recognized missing-data placeholder.
type NormalizationError struct {
	Raw string
}

func (e *NormalizationError) Error() string {
	return fmt.Sprintf("cannot normalize %q to a number", e.Raw)
}

func (e *NormalizationError) Unwrap() error { return ErrNormalization }

// ValidationError reports a violated precondition of a ratio calculator or
// of the DCF engine.
type ValidationError struct {
	Calculator string
	Reason     string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Calculator, e.Reason)
}

func (e *ValidationError) Unwrap() error { return ErrValidation }

// NewValidationError builds a ValidationError with a formatted reason.
func NewValidationError(calculator, format string, args ...any) *ValidationError {
	return &ValidationError{Calculator: calculator, Reason: fmt.Sprintf(format, args...)}
}

// ClassificationGapError reports a value that no range rule of an indicator
// accepts. Well-formed tables never produce it.
type ClassificationGapError struct {
	Indicator string
	Value     float64
}

func (e *ClassificationGapError) Error() string {
	return fmt.Sprintf("no range of %s accepts value %g", e.Indicator, e.Value)
}

func (e *ClassificationGapError) Unwrap() error { return ErrClassificationGap }

// ContractViolationError is an authoring defect in the static rule tables.
// It is never converted into a Result.
type ContractViolationError struct {
	Indicator string
	Field     string
	Reason    string
}

func (e *ContractViolationError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("indicator %q: %s", e.Indicator, e.Reason)
	}
	return fmt.Sprintf("indicator %q field %s: %s", e.Indicator, e.Field, e.Reason)
}

func (e *ContractViolationError) Unwrap() error { return ErrContractViolation }
