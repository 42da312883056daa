package datasource

import (
	"fmt"
	"io"
	"strings"
	"unicode"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"fundamentals-analyzer/internal/types"
)

// labelAliases maps the page's labels (after accent folding) onto the field
// labels the rule tables use.
var labelAliases = map[string]string{
	"Valor de mercado": types.FieldMarketCap,
	"Vol $ med (2m)":   "Liq. Media Diaria",
	"Cres. Rec (5a)":   "Cresc. Rec. 5a",
	"Cres. Lucro (5a)": "Cresc. Lucro 5a",
	"Liquidez Corr":    "Liquidez Corrente",
	"EV / EBITDA":      "EV/EBITDA",
	"EV / EBIT":        "EV/EBIT",
	"P/Ativ Circ Liq":  "P/Ativ Circ. Liq",
	"Div Br/ Patrim":   "Div. Bruta/PL",
	"Receita Liquida":  types.FieldRevenue,
	"Lucro Liquido":    types.FieldNetIncome,
	"EBIT":             types.FieldEBIT,
}

const nameLabel = "Empresa"

// CanonicalLabel folds accents, drops the help-icon marker and applies the
// alias table. "Patrim. Líq" becomes "Patrim. Liq".
func CanonicalLabel(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(t, s)
	if err != nil {
		folded = s
	}
	folded = strings.Join(strings.Fields(strings.Trim(folded, "? \t\n")), " ")
	if alias, ok := labelAliases[folded]; ok {
		return alias
	}
	return folded
}

// ParseFundamentalsHTML extracts the label/value pairs of a fundamentals
// page. Every td.label cell is paired with the td.data cell that follows it.
// Values are kept verbatim; the first occurrence of a label wins.
func ParseFundamentalsHTML(r io.Reader) (*types.CompanyData, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML: %w", err)
	}

	data := &types.CompanyData{Fields: make(map[string]any)}
	doc.Find("td.label").Each(func(_ int, cell *goquery.Selection) {
		label := CanonicalLabel(cellText(cell))
		if label == "" {
			return
		}
		valueCell := cell.NextFiltered("td.data")
		if valueCell.Length() == 0 {
			return
		}
		value := cellText(valueCell)

		if label == nameLabel {
			data.Name = value
			return
		}
		if _, seen := data.Fields[label]; seen {
			return
		}
		data.Fields[label] = value
	})

	if len(data.Fields) == 0 {
		return nil, fmt.Errorf("no indicator table found")
	}
	return data, nil
}

func cellText(s *goquery.Selection) string {
	if txt := s.Find("span.txt"); txt.Length() > 0 {
		return strings.TrimSpace(txt.First().Text())
	}
	return strings.TrimSpace(s.Text())
}
