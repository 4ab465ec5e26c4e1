package ledger

import (
	"sort"

	"github.com/shopspring/decimal"

	"taxlot/date"
	"taxlot/util"
)

type Currency string

const (
	USD Currency = "USD"
	CAD Currency = "CAD"

	DEFAULT_CURRENCY Currency = ""
)

type CommodityKind int

const (
	CashKind CommodityKind = iota
	SecurityKind
)

func (k CommodityKind) String() string {
	switch k {
	case CashKind:
		return "cash"
	case SecurityKind:
		return "security"
	}
	return "unknown"
}

// A Commodity is anything a ledger entry can move: a currency or a
// security symbol.
type Commodity struct {
	Symbol string
	Kind   CommodityKind
}

func Cash(currency Currency) Commodity {
	return Commodity{Symbol: string(currency), Kind: CashKind}
}

func Security(symbol string) Commodity {
	return Commodity{Symbol: symbol, Kind: SecurityKind}
}

// Entry is one leg of a transaction: a signed quantity of a security, or
// a signed cash amount. Entries are read-only once loaded; entries
// sharing a TxId are assumed to net to zero in value (not enforced here).
type Entry struct {
	Account   string
	Commodity Commodity
	Amount    decimal.Decimal
	Date      date.Date
	TxId      string
	Memo      string
}

func (e *Entry) IsSecurity() bool {
	return e.Commodity.Kind == SecurityKind
}

func (e *Entry) IsCash() bool {
	return e.Commodity.Kind == CashKind
}

type entrySorter struct {
	Entries []*Entry
}

func (s *entrySorter) Len() int {
	return len(s.Entries)
}

func (s *entrySorter) Swap(i, j int) {
	s.Entries[i], s.Entries[j] = s.Entries[j], s.Entries[i]
}

func (s *entrySorter) Less(i, j int) bool {
	return s.Entries[i].Date.Before(s.Entries[j].Date)
}

// SortEntries stably sorts entries ascending by date, preserving the
// load order of same-day entries.
func SortEntries(entries []*Entry) []*Entry {
	sorter := entrySorter{entries}
	sort.Stable(&sorter)
	return sorter.Entries
}

// Ledger is an immutable in-memory snapshot of all accounts' entries,
// as supplied by the external datastore.
type Ledger struct {
	LocalCurrency Currency

	entries []*Entry
	byTx    map[string][]*Entry
}

func NewLedger(localCurrency Currency) *Ledger {
	return &Ledger{
		LocalCurrency: localCurrency,
		byTx:          make(map[string][]*Entry),
	}
}

func (l *Ledger) AddEntries(entries []*Entry) {
	for _, e := range entries {
		l.entries = append(l.entries, e)
		l.byTx[e.TxId] = append(l.byTx[e.TxId], e)
	}
	l.entries = SortEntries(l.entries)
}

func (l *Ledger) Entries() []*Entry {
	return l.entries
}

// TxEntries returns every leg of the transaction txId, across all
// accounts and commodities.
func (l *Ledger) TxEntries(txId string) []*Entry {
	return l.byTx[txId]
}

// SecurityEntries returns the entries for security in any of accounts,
// up to and including cutoff, ascending by date.
func (l *Ledger) SecurityEntries(
	accounts *util.Set[string], security string, cutoff date.Date) []*Entry {

	matched := make([]*Entry, 0, 8)
	for _, e := range l.entries {
		if !e.IsSecurity() || e.Commodity.Symbol != security {
			continue
		}
		if !accounts.Has(e.Account) || e.Date.After(cutoff) {
			continue
		}
		matched = append(matched, e)
	}
	return matched
}

// EntriesInRange returns security entries for any of accounts whose date
// falls within r, ascending by date.
func (l *Ledger) EntriesInRange(accounts *util.Set[string], r date.Range) []*Entry {
	matched := make([]*Entry, 0, 8)
	for _, e := range l.entries {
		if !e.IsSecurity() || !accounts.Has(e.Account) {
			continue
		}
		if r.Contains(e.Date) {
			matched = append(matched, e)
		}
	}
	return matched
}

// Securities returns the distinct security symbols appearing in entries.
func Securities(entries []*Entry) []string {
	seen := util.NewSet[string]()
	secs := make([]string, 0, 4)
	for _, e := range entries {
		if e.IsSecurity() && !seen.Has(e.Commodity.Symbol) {
			seen.Add(e.Commodity.Symbol)
			secs = append(secs, e.Commodity.Symbol)
		}
	}
	return secs
}
