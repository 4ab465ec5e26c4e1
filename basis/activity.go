package basis

import (
	"sort"

	"github.com/shopspring/decimal"

	"taxlot/date"
	"taxlot/ledger"
	"taxlot/log"
	"taxlot/util"
)

// DailyActivity folds one account's activity in one security on one
// calendar date: all purchases summed into one aggregate and all sales
// summed into another. Using the summed cost over the summed quantity is
// the same-day averaged-price rule; it is not configurable.
// Immutable once built.
type DailyActivity struct {
	Account  string
	Security string
	Date     date.Date

	PurchaseQuantity decimal.Decimal
	PurchaseCost     decimal.Decimal
	SaleQuantity     decimal.Decimal
	SaleProceeds     decimal.Decimal
}

func (a *DailyActivity) HasPurchase() bool {
	return a.PurchaseQuantity.IsPositive()
}

func (a *DailyActivity) HasSale() bool {
	return a.SaleQuantity.IsPositive()
}

type dailyActivityKey struct {
	account string
	date    date.Date
}

// classifyEntry determines the direction and cash value of a single
// security entry by inspecting the other legs of its transaction.
// A purchase moves quantity in (> 0) against a negative cash leg; a sale
// moves quantity out (< 0) against a positive cash leg. Anything else is
// unsupported.
func classifyEntry(l *ledger.Ledger, e *ledger.Entry) (cash decimal.Decimal, err *UnsupportedDataError) {
	if e.Amount.IsZero() {
		return decimal.Zero, &UnsupportedDataError{Entry: e, Reason: "zero-quantity entry"}
	}

	cashTotal := decimal.Zero
	nCashLegs := 0
	nSameSecurityLegs := 0
	for _, leg := range l.TxEntries(e.TxId) {
		if leg == e {
			continue
		}
		if leg.IsCash() {
			if ledger.Currency(leg.Commodity.Symbol) != l.LocalCurrency {
				return decimal.Zero, &UnsupportedDataError{
					Entry: e, Reason: "cash leg in foreign currency " + leg.Commodity.Symbol}
			}
			cashTotal = cashTotal.Add(leg.Amount)
			nCashLegs++
		} else if leg.Commodity.Symbol != e.Commodity.Symbol {
			return decimal.Zero, &UnsupportedDataError{
				Entry: e, Reason: "offset by another security (" + leg.Commodity.Symbol + ")"}
		} else {
			nSameSecurityLegs++
		}
	}

	if nCashLegs == 0 {
		return decimal.Zero, &UnsupportedDataError{Entry: e, Reason: "no cash leg"}
	}
	if nSameSecurityLegs > 0 {
		// The cash leg cannot be attributed to one of the security legs
		// without guessing a per-leg price.
		return decimal.Zero, &UnsupportedDataError{
			Entry: e, Reason: "multiple legs of the same security in one transaction"}
	}
	if e.Amount.IsPositive() == cashTotal.IsPositive() {
		return decimal.Zero, &UnsupportedDataError{
			Entry: e, Reason: "quantity and cash legs have inconsistent signs"}
	}
	return cashTotal, nil
}

// isInternalTransfer reports whether e belongs to a transaction that
// only moves this security between the given accounts, with no cash leg.
// Such transfers do not change the combined position and produce no
// activity. (Linked accounts are treated as one combined chronological
// history.)
func isInternalTransfer(l *ledger.Ledger, e *ledger.Entry, accounts *util.Set[string]) bool {
	qtyTotal := decimal.Zero
	sawOtherAccount := false
	for _, leg := range l.TxEntries(e.TxId) {
		if leg.IsCash() {
			return false
		}
		if leg.Commodity.Symbol != e.Commodity.Symbol {
			return false
		}
		if !accounts.Has(leg.Account) {
			return false
		}
		if leg.Account != e.Account {
			sawOtherAccount = true
		}
		qtyTotal = qtyTotal.Add(leg.Amount)
	}
	return sawOtherAccount && qtyTotal.IsZero()
}

// CollectDailyActivity scans the entries of one security (all in linked
// accounts, ascending by date, already cut off at the caller's date) and
// folds them into per-account per-date aggregates. Entries that cannot
// be classified are returned in skipped; the caller decides whether to
// treat them as fatal. Internal transfers between the linked accounts
// produce no activity.
func CollectDailyActivity(
	l *ledger.Ledger,
	accounts *util.Set[string],
	entries []*ledger.Entry,
) (activities []*DailyActivity, skipped []*UnsupportedDataError) {

	byKey := make(map[dailyActivityKey]*DailyActivity)

	for _, e := range entries {
		if isInternalTransfer(l, e, accounts) {
			log.Tracef("activity", "skipping internal transfer of %s on %s",
				e.Commodity.Symbol, e.Date)
			continue
		}
		cash, uerr := classifyEntry(l, e)
		if uerr != nil {
			skipped = append(skipped, uerr)
			continue
		}

		key := dailyActivityKey{e.Account, e.Date}
		act, ok := byKey[key]
		if !ok {
			act = &DailyActivity{
				Account: e.Account, Security: e.Commodity.Symbol, Date: e.Date,
				PurchaseQuantity: decimal.Zero, PurchaseCost: decimal.Zero,
				SaleQuantity: decimal.Zero, SaleProceeds: decimal.Zero,
			}
			byKey[key] = act
		}

		if e.Amount.IsPositive() {
			act.PurchaseQuantity = act.PurchaseQuantity.Add(e.Amount)
			act.PurchaseCost = act.PurchaseCost.Add(cash.Neg())
		} else {
			act.SaleQuantity = act.SaleQuantity.Add(e.Amount.Neg())
			act.SaleProceeds = act.SaleProceeds.Add(cash)
		}
	}

	activities = make([]*DailyActivity, 0, len(byKey))
	for _, act := range byKey {
		if act.HasPurchase() && act.HasSale() {
			log.Verbosef("Note: %s has both purchase and sale activity in %s on %s\n",
				act.Security, act.Account, act.Date)
		}
		activities = append(activities, act)
	}
	sort.Slice(activities, func(i, j int) bool {
		if !activities[i].Date.Equal(activities[j].Date) {
			return activities[i].Date.Before(activities[j].Date)
		}
		return activities[i].Account < activities[j].Account
	})
	return activities, skipped
}
