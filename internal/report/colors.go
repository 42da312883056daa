package report

import "fundamentals-analyzer/internal/types"

// Presentation colors for classification labels. Labels belong to each
// indicator's rule table, so unknown labels fall back to ColorNone.
const (
	ColorGreen  = "green"
	ColorYellow = "yellow"
	ColorRed    = "red"
	ColorGray   = "gray"
	ColorNone   = "none"
)

var labelColors = map[string]string{
	"Excellent": ColorGreen,
	"Good":      ColorGreen,
	"Positive":  ColorGreen,
	"Net cash":  ColorGreen,
	"Blue chip": ColorGreen,
	"Large cap": ColorGreen,
	"Light":     ColorGreen,

	"Moderate":       ColorYellow,
	"Neutral":        ColorYellow,
	"Low":            ColorYellow,
	"High":           ColorYellow,
	"Limited":        ColorYellow,
	"Mid cap":        ColorYellow,
	"Defensive":      ColorYellow,
	"Not applicable": ColorYellow,

	"Critical":   ColorRed,
	"Excessive":  ColorRed,
	"Negative":   ColorRed,
	"Very high":  ColorRed,
	"Overvalued": ColorRed,
	"Heavy":      ColorRed,
	"Aggressive": ColorRed,
	"Small cap":  ColorRed,

	types.ErrorClassification: ColorGray,
}

// ColorFor maps a classification label to its presentation color
func ColorFor(label string) string {
	if c, ok := labelColors[label]; ok {
		return c
	}
	return ColorNone
}
