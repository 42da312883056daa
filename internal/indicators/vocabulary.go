package indicators

// Vocabulary is the closed set of indicator identifiers, in report order.
// The registry refuses a rule table that defines an id outside this list and
// refuses to build when an id in this list has no definition.
var Vocabulary = []string{
	// Valuation
	"P/L",
	"P/VP",
	"PSR",
	"P/Ativos",
	"P/Cap. Giro",
	"P/EBIT",
	"P/Ativ Circ. Liq",
	"EV/EBITDA",
	"EV/EBIT",
	"Div. Yield",
	"LPA",
	"VPA",

	// Rentabilidade
	"ROE",
	"ROA",
	"ROIC",
	"Giro Ativos",

	// Margens
	"Marg. Bruta",
	"Marg. EBITDA",
	"Marg. EBIT",
	"Marg. Liquida",

	// Endividamento
	"Div. liquida/EBITDA",
	"Div. liquida/EBIT",
	"Div. liquida/PL",
	"Div. Bruta/PL",
	"PL/Ativos",
	"Passivos/Ativos",
	"Cobertura de Juros",

	// Liquidez
	"Liquidez Corrente",
	"Liquidez Seca",
	"Liquidez Imediata",
	"Liq. Media Diaria",

	// Crescimento
	"Cresc. Rec. 5a",
	"Cresc. Lucro 5a",
	"CAGR Receitas 5a",
	"CAGR Lucros 5a",

	// Mercado
	"Valor de Mercado",
	"Free Float",
	"Beta",
	"Payout",
	"Tag Along",

	// Fluxo de Caixa
	"FCFF",
	"WACC",
	"FCF Yield",
	"Capex/Receita",
	"Margem de Seguranca",
}

var vocabularyIndex = func() map[string]int {
	idx := make(map[string]int, len(Vocabulary))
	for i, id := range Vocabulary {
		idx[id] = i
	}
	return idx
}()

// Known reports whether id belongs to the vocabulary
func Known(id string) bool {
	_, ok := vocabularyIndex[id]
	return ok
}
