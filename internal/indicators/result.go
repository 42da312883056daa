package indicators

import (
	"strconv"
	"strings"

	"fundamentals-analyzer/internal/types"
)

// BuildResult merges the matched rule's narrative with the definition's static
// fields. "{value}" and "{company}" in narrative text are interpolated. A blank
// narrative field is an authoring defect and comes back as a
// *types.ContractViolationError, never as a Result.
func BuildResult(def *Definition, rule *RangeRule, company string, value float64) (types.Result, error) {
	required := []struct {
		field, text string
	}{
		{"label", rule.Label},
		{"range", rule.Range},
		{"description", rule.Description},
		{"risks", rule.Risks},
		{"recommendation", rule.Recommendation},
		{"cross_reference", def.CrossReference},
		{"definition", def.Definition},
		{"formula", def.Formula},
		{"category", def.Category},
	}
	for _, r := range required {
		if strings.TrimSpace(r.text) == "" {
			return types.Result{}, &types.ContractViolationError{
				Indicator: def.ID,
				Field:     r.field,
				Reason:    "narrative text is blank",
			}
		}
	}

	replacer := strings.NewReplacer(
		"{value}", strconv.FormatFloat(value, 'f', 2, 64),
		"{company}", company,
	)

	return types.Result{
		Company:        company,
		Indicator:      def.ID,
		Value:          value,
		Status:         types.StatusOK,
		Classification: rule.Label,
		Range:          rule.Range,
		Description:    replacer.Replace(rule.Description),
		Definition:     def.Definition,
		Category:       def.Category,
		Formula:        def.Formula,
		Risks:          replacer.Replace(rule.Risks),
		CrossReference: replacer.Replace(def.CrossReference),
		Recommendation: replacer.Replace(rule.Recommendation),
	}, nil
}
