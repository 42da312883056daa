package indicators

import (
	"math"

	"fundamentals-analyzer/internal/types"
)

// Classify returns the first rule, in table order, whose interval contains
// value. NaN never matches and yields a gap error like any other uncovered value.
func Classify(indicator string, value float64, rules []RangeRule) (*RangeRule, error) {
	if !math.IsNaN(value) {
		for i := range rules {
			if rules[i].Contains(value) {
				return &rules[i], nil
			}
		}
	}
	return nil, &types.ClassificationGapError{Indicator: indicator, Value: value}
}
