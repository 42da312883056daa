package valuation

// SensitivityCell is one (discount rate, terminal growth) combination
type SensitivityCell struct {
	DiscountRate       float64 `json:"discount_rate"`
	TerminalGrowthRate float64 `json:"terminal_growth_rate"`
	IntrinsicPrice     float64 `json:"intrinsic_price"`
	Err                error   `json:"-"`
}

// SensitivityGrid rows follow discountRates, columns follow terminalGrowthRates
type SensitivityGrid struct {
	DiscountRates       []float64           `json:"discount_rates"`
	TerminalGrowthRates []float64           `json:"terminal_growth_rates"`
	Cells               [][]SensitivityCell `json:"cells"`
}

// Sensitivity recomputes the DCF over a grid of discount and terminal growth
// rates. An invalid combination keeps its error in the cell; the rest of the
// grid is still computed.
func Sensitivity(base DCFInput, discountRates, terminalGrowthRates []float64) *SensitivityGrid {
	grid := &SensitivityGrid{
		DiscountRates:       discountRates,
		TerminalGrowthRates: terminalGrowthRates,
		Cells:               make([][]SensitivityCell, len(discountRates)),
	}

	for i, r := range discountRates {
		row := make([]SensitivityCell, len(terminalGrowthRates))
		for j, g := range terminalGrowthRates {
			in := base
			in.DiscountRate = r
			in.TerminalGrowthRate = g

			cell := SensitivityCell{DiscountRate: r, TerminalGrowthRate: g}
			res, err := CalculateDCF(in)
			if err != nil {
				cell.Err = err
			} else {
				cell.IntrinsicPrice = res.IntrinsicPrice
			}
			row[j] = cell
		}
		grid.Cells[i] = row
	}

	return grid
}

// Around returns n steps of size step on each side of center
func Around(center, step float64, n int) []float64 {
	out := make([]float64, 0, 2*n+1)
	for i := -n; i <= n; i++ {
		out = append(out, center+float64(i)*step)
	}
	return out
}
