package basis

import (
	"fmt"

	"github.com/shopspring/decimal"

	"taxlot/date"
	"taxlot/ledger"
	"taxlot/log"
	"taxlot/status"
	"taxlot/util"
)

// Disposal is one reportable record: a matched acquisition/disposal pair
// (StockPurchaseAndSale). A single sale covered by several lots emits
// several Disposals.
type Disposal struct {
	Security  string
	Quantity  decimal.Decimal
	BuyDate   date.Date
	CostBasis decimal.Decimal
	SellDate  date.Date
	Proceeds  decimal.Decimal
}

func (d *Disposal) Gain() decimal.Decimal {
	return d.Proceeds.Sub(d.CostBasis)
}

// CloseDate is the date the gain was realized: the later of the two
// sides (the sale for a long disposal, the covering buy for a short).
func (d *Disposal) CloseDate() date.Date {
	if d.BuyDate.After(d.SellDate) {
		return d.BuyDate
	}
	return d.SellDate
}

// ScanResult pairs the disposal records of a reporting window with the
// full diagnostic tree, one subtree per disposal attempted. Failed
// disposals appear only in the tree.
type ScanResult struct {
	Disposals []*Disposal
	Diags     *status.Status
}

type legClass int

const (
	legsSupported legClass = iota
	legsExchange
	legsTransfer
	legsUnsupported
)

// classifyDisposalLegs inspects the non-security legs of e's transaction.
// Exactly one cash leg in the ledger's local currency is supported.
// Another security on the far side is a security-for-security exchange
// (informational, no lots). Foreign cash, multiple cash commodities, or
// more than two distinct commodities require manual handling.
func classifyDisposalLegs(
	l *ledger.Ledger, e *ledger.Entry) (cash decimal.Decimal, class legClass, reason string) {

	commodities := util.NewSet[ledger.Commodity]()
	commodities.Add(e.Commodity)

	cashTotal := decimal.Zero
	cashCurrencies := util.NewSet[string]()
	sawOtherSecurity := false
	sawSameSecurity := false
	for _, leg := range l.TxEntries(e.TxId) {
		commodities.Add(leg.Commodity)
		if leg == e {
			continue
		}
		if leg.IsCash() {
			cashCurrencies.Add(leg.Commodity.Symbol)
			cashTotal = cashTotal.Add(leg.Amount)
		} else if leg.Commodity.Symbol != e.Commodity.Symbol {
			sawOtherSecurity = true
		} else {
			sawSameSecurity = true
		}
	}

	if commodities.Len() > 2 {
		return decimal.Zero, legsUnsupported,
			fmt.Sprintf("%d distinct commodities involved", commodities.Len())
	}
	if sawOtherSecurity {
		return decimal.Zero, legsExchange, ""
	}
	if cashCurrencies.Len() == 0 {
		// Same security moving between accounts with no money changing
		// hands is a transfer, not a disposal.
		return decimal.Zero, legsTransfer, ""
	}
	if cashCurrencies.Len() > 1 {
		return decimal.Zero, legsUnsupported, "multiple cash commodities involved"
	}
	if !cashCurrencies.Has(string(l.LocalCurrency)) {
		return decimal.Zero, legsUnsupported, "proceeds in a foreign currency"
	}
	if sawSameSecurity {
		// Summing each entry's cash total would count the one cash leg
		// once per security leg.
		return decimal.Zero, legsUnsupported,
			"multiple legs of the same security in one transaction"
	}
	return cashTotal, legsSupported, ""
}

// disposalGroup is one day's same-direction activity for a security in
// one account: the unit a disposal report is produced for, mirroring the
// aggregation the matcher itself performs.
type disposalGroup struct {
	account  string
	security string
	date     date.Date
	kind     ActivityKind
	entries  []*ledger.Entry
}

func (grp *disposalGroup) quantity() decimal.Decimal {
	total := decimal.Zero
	for _, e := range grp.entries {
		total = total.Add(e.Amount.Abs())
	}
	return total
}

func (grp *disposalGroup) describe() string {
	verb := util.Tern(grp.kind == SaleKind, "Sale", "Purchase")
	return fmt.Sprintf("%s of %s %s in %s on %s",
		verb, grp.quantity(), grp.security, grp.account, grp.date)
}

func groupDisposalCandidates(entries []*ledger.Entry) []*disposalGroup {
	type groupKey struct {
		account  string
		security string
		date     date.Date
		kind     ActivityKind
	}
	byKey := make(map[groupKey]*disposalGroup)
	groups := make([]*disposalGroup, 0, len(entries))
	for _, e := range entries {
		if e.Amount.IsZero() {
			continue
		}
		kind := util.Tern(e.Amount.IsNegative(), SaleKind, PurchaseKind)
		key := groupKey{e.Account, e.Commodity.Symbol, e.Date, kind}
		grp, ok := byKey[key]
		if !ok {
			grp = &disposalGroup{
				account: e.Account, security: e.Commodity.Symbol,
				date: e.Date, kind: kind,
			}
			byKey[key] = grp
			groups = append(groups, grp)
		}
		grp.entries = append(grp.entries, e)
	}
	return groups
}

// ScanDisposals finds every disposal of security quantity within the
// window across the linked accounts — sales, and purchases that close a
// short position — matches each against prior activity under FIFO, and
// allocates proceeds across the matched lots. All diagnostics are
// accumulated in the returned tree; one disposal's failure never stops
// the others.
func ScanDisposals(
	l *ledger.Ledger, accounts *util.Set[string], window date.Range) *ScanResult {

	res := &ScanResult{
		Diags: status.New(fmt.Sprintf("Disposal scan %s", window)),
	}

	for _, grp := range groupDisposalCandidates(l.EntriesInRange(accounts, window)) {
		scanGroup(l, accounts, grp, res)
	}
	return res
}

func scanGroup(
	l *ledger.Ledger, accounts *util.Set[string], grp *disposalGroup, res *ScanResult) {

	// Leg classification first: exchanges and unsupported transactions
	// never get as far as graph construction. A purchase group stays
	// silent unless it turns out to be a short cover; the sale that
	// opened the short already carries the diagnostics.
	cashTotal := decimal.Zero
	for _, e := range grp.entries {
		cash, class, reason := classifyDisposalLegs(l, e)
		switch class {
		case legsTransfer:
			// Not a disposal at all; no diagnostic subtree.
			log.Tracef("scan", "%s: transfer, not a disposal", grp.describe())
			return
		case legsExchange:
			if grp.kind == SaleKind {
				sub := res.Diags.AddChild(status.New(grp.describe()))
				sub.Infof("security-for-security exchange; not a taxable disposal here")
			}
			return
		case legsUnsupported:
			if grp.kind == SaleKind {
				sub := res.Diags.AddChild(status.New(grp.describe()))
				sub.Errorf("unsupported transaction requires manual handling: %s", reason)
			}
			return
		}
		cashTotal = cashTotal.Add(cash)
	}

	if grp.kind == SaleKind && !cashTotal.IsPositive() {
		sub := res.Diags.AddChild(status.New(grp.describe()))
		sub.Errorf("sale proceeds are not positive (%s)", cashTotal)
		return
	}
	if grp.kind == PurchaseKind && !cashTotal.IsNegative() {
		return
	}

	secEntries := l.SecurityEntries(accounts, grp.security, grp.date)
	activities, skippedEntries := CollectDailyActivity(l, accounts, secEntries)

	graph := BuildActivityGraph(grp.security, activities, decimal.Zero)
	lots, err := LotsForNode(graph, ActivityKey{Date: grp.date, Kind: grp.kind})

	if err == nil && lots == nil && grp.kind == PurchaseKind {
		// An ordinary purchase extending a long position; nothing to
		// report and no diagnostic subtree.
		return
	}

	sub := res.Diags.AddChild(status.New(grp.describe()))
	for _, skipped := range skippedEntries {
		sub.Warnf("skipped in activity history: %v", skipped)
	}

	if err != nil {
		switch err.(type) {
		case *AmbiguousMatchError:
			sub.Errorf("unsupported: %v", err)
		default:
			sub.Errorf("defect: %v", err)
		}
		return
	}
	if lots == nil {
		sub.Infof("no pre-existing position; opens a new short position")
		return
	}

	emitDisposals(grp, cashTotal, lots, res, sub)
}

// emitDisposals converts matched lots into Disposal records, allocating
// the day's cash total across lots in proportion to quantity. Rounding
// goes to cents; when the disposal is fully matched, the final lot
// absorbs the rounding remainder so the allocations conserve the total.
func emitDisposals(
	grp *disposalGroup, cashTotal decimal.Decimal, lots []CostBasisLot,
	res *ScanResult, sub *status.Status) {

	totalQuantity := grp.quantity()
	matchedQuantity := decimal.Zero
	for _, lot := range lots {
		matchedQuantity = matchedQuantity.Add(lot.Quantity)
	}
	fullyMatched := matchedQuantity.Equal(totalQuantity)

	cashAbs := cashTotal.Abs()
	allocated := decimal.Zero
	for i, lot := range lots {
		share := cashAbs.Mul(lot.Quantity).Div(totalQuantity).Round(2)
		if fullyMatched && i == len(lots)-1 {
			share = cashAbs.Sub(allocated)
		}
		allocated = allocated.Add(share)

		var d *Disposal
		if grp.kind == SaleKind {
			d = &Disposal{
				Security: grp.security, Quantity: lot.Quantity,
				BuyDate: lot.AcquisitionDate, CostBasis: lot.CostBasis,
				SellDate: grp.date, Proceeds: share,
			}
		} else {
			// Covering buy: basis comes from this purchase, proceeds
			// from the short sale that opened the position.
			d = &Disposal{
				Security: grp.security, Quantity: lot.Quantity,
				BuyDate: grp.date, CostBasis: share,
				SellDate: lot.AcquisitionDate, Proceeds: lot.CostBasis,
			}
		}
		res.Disposals = append(res.Disposals, d)
	}

	sub.Infof("matched %s of %s across %d lot(s)", matchedQuantity, totalQuantity, len(lots))
	if !fullyMatched {
		excess := totalQuantity.Sub(matchedQuantity)
		if grp.kind == SaleKind {
			sub.Infof("%s unmatched; opens a new short position", excess)
		} else {
			sub.Infof("%s unmatched; opens a new long position", excess)
		}
	}
}
