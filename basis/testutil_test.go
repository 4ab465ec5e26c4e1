package basis

import (
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"taxlot/date"
	"taxlot/ledger"
	"taxlot/util"
)

func TestMain(m *testing.M) {
	util.AssertsPanic = true
	os.Exit(m.Run())
}

func mkDateYD(year uint32, day int) date.Date {
	tm := date.New(year, time.January, 1)
	return tm.AddDays(day)
}

func mkDate(day int) date.Date {
	return mkDateYD(2017, day)
}

func dec(val int64) decimal.Decimal {
	return decimal.NewFromInt(val)
}

func decStr(val string) decimal.Decimal {
	return decimal.RequireFromString(val)
}

// Use this instead of require.New if any type needing comparison has
// either a custom String method or Equal method (Decimal for example)
type customRequire struct {
	t       *testing.T
	options cmp.Options // This is a []Option
}

func newCustomRequire(t *testing.T) *customRequire {
	return &customRequire{t, []cmp.Option{
		cmp.Comparer(func(a, b decimal.Decimal) bool { return a.Equal(b) }),
		cmp.Comparer(func(a, b date.Date) bool { return a.Equal(b) }),
	}}
}

func (rq *customRequire) Equal(expected, actual interface{}) {
	diff := cmp.Diff(expected, actual, rq.options)
	require.True(rq.t, diff == "", diff)
}

// ledgerBuilder assembles well-formed two-leg transactions for tests.
type ledgerBuilder struct {
	ldgr    *ledger.Ledger
	pending []*ledger.Entry
	nextTx  int
}

func newLedgerBuilder() *ledgerBuilder {
	return &ledgerBuilder{ldgr: ledger.NewLedger(ledger.USD)}
}

func (b *ledgerBuilder) txId() string {
	b.nextTx++
	return fmt.Sprintf("t%d", b.nextTx)
}

func (b *ledgerBuilder) add(entries ...*ledger.Entry) {
	b.pending = append(b.pending, entries...)
}

// buy adds a purchase of qty sec against cost local cash.
func (b *ledgerBuilder) buy(acct string, sec string, d date.Date, qty int64, cost int64) {
	id := b.txId()
	b.add(
		&ledger.Entry{Account: acct, Commodity: ledger.Security(sec),
			Amount: dec(qty), Date: d, TxId: id},
		&ledger.Entry{Account: acct, Commodity: ledger.Cash(ledger.USD),
			Amount: dec(-cost), Date: d, TxId: id},
	)
}

// sell adds a sale of qty sec for proceeds local cash.
func (b *ledgerBuilder) sell(acct string, sec string, d date.Date, qty int64, proceeds int64) {
	id := b.txId()
	b.add(
		&ledger.Entry{Account: acct, Commodity: ledger.Security(sec),
			Amount: dec(-qty), Date: d, TxId: id},
		&ledger.Entry{Account: acct, Commodity: ledger.Cash(ledger.USD),
			Amount: dec(proceeds), Date: d, TxId: id},
	)
}

// exchange adds a disposal of qtyOut secOut for qtyIn secIn with no cash.
func (b *ledgerBuilder) exchange(
	acct string, secOut string, qtyOut int64, secIn string, qtyIn int64, d date.Date) {
	id := b.txId()
	b.add(
		&ledger.Entry{Account: acct, Commodity: ledger.Security(secOut),
			Amount: dec(-qtyOut), Date: d, TxId: id},
		&ledger.Entry{Account: acct, Commodity: ledger.Security(secIn),
			Amount: dec(qtyIn), Date: d, TxId: id},
	)
}

// transfer moves qty of sec between accounts with no cash leg.
func (b *ledgerBuilder) transfer(from string, to string, sec string, d date.Date, qty int64) {
	id := b.txId()
	b.add(
		&ledger.Entry{Account: from, Commodity: ledger.Security(sec),
			Amount: dec(-qty), Date: d, TxId: id},
		&ledger.Entry{Account: to, Commodity: ledger.Security(sec),
			Amount: dec(qty), Date: d, TxId: id},
	)
}

func (b *ledgerBuilder) done() *ledger.Ledger {
	b.ldgr.AddEntries(b.pending)
	b.pending = nil
	return b.ldgr
}

func accountSet(accounts ...string) *util.Set[string] {
	return util.NewSet(accounts...)
}

// buildGraphFor aggregates and builds the graph of sec for the accounts,
// up to cutoff.
func buildGraphFor(
	t *testing.T, l *ledger.Ledger, accounts *util.Set[string],
	sec string, cutoff date.Date) *ActivityGraph {

	entries := l.SecurityEntries(accounts, sec, cutoff)
	activities, skipped := CollectDailyActivity(l, accounts, entries)
	require.Empty(t, skipped)
	return BuildActivityGraph(sec, activities, decimal.Zero)
}
