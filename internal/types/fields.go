package types

// Raw field labels shared by the data sources, the rule tables and the
// valuation stage. Direct pass-through indicators use their own identifier
// as the field label and are not listed here.
const (
	FieldPrice             = "Cotacao"
	FieldMarketCap         = "Valor de Mercado"
	FieldGrossDebt         = "Div. Bruta"
	FieldNetDebt           = "Div. Liquida"
	FieldShares            = "Nro. Acoes"
	FieldFCF               = "FCF 12m"
	FieldCostOfEquity      = "Custo Capital Proprio"
	FieldCostOfDebt        = "Custo da Divida"
	FieldTaxRate           = "Aliquota IR"
	FieldIntrinsicPrice    = "Valor Intrinseco"
	FieldEBIT              = "EBIT 12m"
	FieldDA                = "D&A 12m"
	FieldWorkingCapitalVar = "Var. Capital de Giro"
	FieldCapex             = "Capex 12m"
	FieldRevenue           = "Receita Liquida 12m"
	FieldRevenue5y         = "Receita Liquida 5a atras"
	FieldNetIncome         = "Lucro Liquido 12m"
	FieldNetIncome5y       = "Lucro Liquido 5a atras"
	FieldSharesOutstanding = "Acoes em Circulacao"
	FieldRestrictedShares  = "Acoes Restritas"
	FieldEquity            = "Patrim. Liq"
	FieldAssets            = "Ativo"
	FieldFinancialExpenses = "Despesas Financeiras"

	SeriesAssetReturns  = "Retornos Ativo"
	SeriesMarketReturns = "Retornos Mercado"
)
