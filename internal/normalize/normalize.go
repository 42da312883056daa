// Package normalize turns raw fundamentals values into float64.
//
// Raw values arrive in Brazilian regional format: '.' groups thousands and
// ',' separates decimals ("1.234,56"). A trailing '%' is stripped without
// dividing by 100, so "15,5%" becomes 15.5 everywhere in the engine.
// Missing-data placeholders normalize to 0.
package normalize

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"fundamentals-analyzer/internal/types"
)

// placeholders are the tokens the data sources use for missing data
var placeholders = map[string]struct{}{
	"":    {},
	"-":   {},
	"--":  {},
	"---": {},
	"–":   {},
	"—":   {},
	"%":   {},
	"-%":  {},
	"--%": {},
	"–%":  {},
	"—%":  {},
}

var currencyPrefixes = []string{"US$", "R$", "$", "€", "£"}

// IsPlaceholder reports whether s is a recognized missing-data token
func IsPlaceholder(s string) bool {
	_, ok := placeholders[strings.TrimSpace(s)]
	return ok
}

// Value converts one raw value of unknown shape into a float64.
func Value(raw any) (float64, error) {
	switch v := raw.(type) {
	case nil:
		return 0, nil
	case float64:
		return v, nil
	case float32:
		return float64(v), nil
	case int:
		return float64(v), nil
	case int8:
		return float64(v), nil
	case int16:
		return float64(v), nil
	case int32:
		return float64(v), nil
	case int64:
		return float64(v), nil
	case uint:
		return float64(v), nil
	case uint8:
		return float64(v), nil
	case uint16:
		return float64(v), nil
	case uint32:
		return float64(v), nil
	case uint64:
		return float64(v), nil
	case json.Number:
		f, err := v.Float64()
		if err != nil {
			return 0, &types.NormalizationError{Raw: v.String()}
		}
		return f, nil
	case string:
		return String(v)
	case *string:
		if v == nil {
			return 0, nil
		}
		return String(*v)
	default:
		return 0, &types.NormalizationError{Raw: fmt.Sprintf("%v", raw)}
	}
}

// String parses a regionally formatted numeric string
func String(s string) (float64, error) {
	trimmed := strings.TrimSpace(s)
	if IsPlaceholder(trimmed) {
		return 0, nil
	}

	canonical, ok := canonicalize(trimmed)
	if !ok {
		return 0, &types.NormalizationError{Raw: s}
	}

	d, err := decimal.NewFromString(canonical)
	if err != nil {
		return 0, &types.NormalizationError{Raw: s}
	}
	f, _ := d.Float64()
	return f, nil
}

// canonicalize rewrites "R$ -1.234,56%" as "-1234.56". The second result is
// false when the remaining text cannot be a number.
func canonicalize(s string) (string, bool) {
	negative := false
	if strings.HasPrefix(s, "-") {
		negative = true
		s = strings.TrimSpace(s[1:])
	}

	for _, prefix := range currencyPrefixes {
		if strings.HasPrefix(s, prefix) {
			s = strings.TrimSpace(strings.TrimPrefix(s, prefix))
			break
		}
	}
	if !negative && strings.HasPrefix(s, "-") {
		// currency before sign: "R$ -10,00"
		negative = true
		s = strings.TrimSpace(s[1:])
	}

	s = strings.TrimSpace(strings.TrimSuffix(s, "%"))
	s = strings.ReplaceAll(s, " ", "")
	s = strings.ReplaceAll(s, " ", "")
	s = strings.ReplaceAll(s, ".", "")
	if strings.Count(s, ",") > 1 {
		return "", false
	}
	s = strings.Replace(s, ",", ".", 1)

	if s == "" || s == "." {
		return "", false
	}
	for _, r := range s {
		if (r < '0' || r > '9') && r != '.' {
			return "", false
		}
	}

	if negative {
		s = "-" + s
	}
	return s, true
}

// Series normalizes a list-valued raw input element by element. A single
// string is split on ';'.
func Series(raw any) ([]float64, error) {
	var items []any
	switch v := raw.(type) {
	case nil:
		return nil, nil
	case []float64:
		out := make([]float64, len(v))
		copy(out, v)
		return out, nil
	case []string:
		items = make([]any, len(v))
		for i, s := range v {
			items[i] = s
		}
	case []any:
		items = v
	case string:
		if strings.TrimSpace(v) == "" {
			return nil, nil
		}
		parts := strings.Split(v, ";")
		items = make([]any, len(parts))
		for i, p := range parts {
			items[i] = p
		}
	default:
		f, err := Value(raw)
		if err != nil {
			return nil, err
		}
		return []float64{f}, nil
	}

	out := make([]float64, 0, len(items))
	for _, item := range items {
		f, err := Value(item)
		if err != nil {
			return nil, err
		}
		out = append(out, f)
	}
	return out, nil
}
