package basis

import (
	"sort"

	"github.com/shopspring/decimal"

	"taxlot/util"
)

type CumulativeGains struct {
	GainsTotal      decimal.Decimal
	GainsYearTotals map[int]decimal.Decimal
}

func (g *CumulativeGains) GainsYearTotalsKeysSorted() []int {
	years := util.MapKeys(g.GainsYearTotals)
	sort.Ints(years)
	return years
}

func CalcSecurityCumulativeGains(disposals []*Disposal) *CumulativeGains {
	gainsTotal := decimal.Zero
	gainsYearTotals := map[int]decimal.Decimal{}

	for _, d := range disposals {
		gainsTotal = gainsTotal.Add(d.Gain())
		year := d.CloseDate().Year()
		yearTotalSoFar, ok := gainsYearTotals[year]
		if !ok {
			yearTotalSoFar = decimal.Zero
		}
		gainsYearTotals[year] = yearTotalSoFar.Add(d.Gain())
	}

	return &CumulativeGains{gainsTotal, gainsYearTotals}
}

func CalcCumulativeGains(secGains map[string]*CumulativeGains) *CumulativeGains {
	gainsTotal := decimal.Zero
	gainsYearTotals := map[int]decimal.Decimal{}

	for _, gains := range secGains {
		gainsTotal = gainsTotal.Add(gains.GainsTotal)
		for year, yearGains := range gains.GainsYearTotals {
			yearTotalSoFar, ok := gainsYearTotals[year]
			if !ok {
				yearTotalSoFar = decimal.Zero
			}
			gainsYearTotals[year] = yearTotalSoFar.Add(yearGains)
		}
	}

	return &CumulativeGains{gainsTotal, gainsYearTotals}
}

// SplitDisposalsBySecurity groups disposal records per security for
// rendering.
func SplitDisposalsBySecurity(disposals []*Disposal) map[string][]*Disposal {
	bySec := make(map[string][]*Disposal)
	for _, d := range disposals {
		bySec[d.Security] = append(bySec[d.Security], d)
	}
	return bySec
}
