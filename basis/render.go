package basis

import (
	"fmt"

	"github.com/shopspring/decimal"
)

type _PrintHelper struct {
	PrintAllDecimals bool
}

func (h _PrintHelper) CurrStr(val decimal.Decimal) string {
	if h.PrintAllDecimals {
		return val.String()
	}
	return val.StringFixed(2)
}

func (h _PrintHelper) DollarStr(val decimal.Decimal) string {
	return "$" + h.CurrStr(val)
}

func (h _PrintHelper) PlusMinusDollar(val decimal.Decimal, showPlus bool) string {
	if val.IsNegative() {
		return fmt.Sprintf("-$%s", h.CurrStr(val.Neg()))
	}
	plus := ""
	if showPlus {
		plus = "+"
	}
	return fmt.Sprintf("%s$%s", plus, h.CurrStr(val))
}

type RenderTable struct {
	Header []string
	Rows   [][]string
	Footer []string
	Notes  []string
	Errors []error
}

// RenderDisposalTableModel builds the per-security disposal table: one
// row per matched lot.
func RenderDisposalTableModel(
	disposals []*Disposal, gains *CumulativeGains, renderFullDollarValues bool) *RenderTable {

	table := &RenderTable{}
	table.Header = []string{"Security", "Quantity", "Acquired", "Cost Basis",
		"Disposed", "Proceeds", "Gain (Loss)",
	}

	ph := _PrintHelper{PrintAllDecimals: renderFullDollarValues}

	sawShortCover := false
	for _, d := range disposals {
		gainSuffix := ""
		if d.BuyDate.After(d.SellDate) {
			gainSuffix = " *"
			sawShortCover = true
		}
		row := []string{
			d.Security,
			d.Quantity.String(),
			d.BuyDate.String(),
			ph.DollarStr(d.CostBasis),
			d.SellDate.String(),
			ph.DollarStr(d.Proceeds),
			ph.PlusMinusDollar(d.Gain(), false) + gainSuffix,
		}
		table.Rows = append(table.Rows, row)
	}

	totalBasis := decimal.Zero
	totalProceeds := decimal.Zero
	for _, d := range disposals {
		totalBasis = totalBasis.Add(d.CostBasis)
		totalProceeds = totalProceeds.Add(d.Proceeds)
	}
	table.Footer = []string{"", "", "Total",
		ph.DollarStr(totalBasis), "", ph.DollarStr(totalProceeds),
		ph.PlusMinusDollar(gains.GainsTotal, false),
	}

	if sawShortCover {
		table.Notes = append(table.Notes,
			" * = Purchase covering a short position; acquisition follows the disposal")
	}

	return table
}

/*
Generates a RenderTable that will render out to this:
| Year             | Realized Gains |
+------------------+----------------+
| 2000             | xxxx.xx        |
| 2001             | xxxx.xx        |
| Since inception  | xxxx.xx        |
*/
func RenderAggregateGains(
	gains *CumulativeGains, renderFullDollarValues bool) *RenderTable {

	table := &RenderTable{}
	table.Header = []string{"Year", "Realized Gains"}

	ph := _PrintHelper{PrintAllDecimals: renderFullDollarValues}

	for _, year := range gains.GainsYearTotalsKeysSorted() {
		yearlyTotal := gains.GainsYearTotals[year]
		table.Rows = append(
			table.Rows,
			[]string{fmt.Sprintf("%d", year), ph.PlusMinusDollar(yearlyTotal, false)})
	}
	table.Rows = append(
		table.Rows,
		[]string{"Since inception", ph.PlusMinusDollar(gains.GainsTotal, false)})

	return table
}
