package basis

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestGraphBalancesAndLinks(t *testing.T) {
	rq := require.New(t)
	crq := newCustomRequire(t)

	b := newLedgerBuilder()
	b.buy("b", "FOO", mkDate(1), 100, 1000)
	b.buy("b", "FOO", mkDate(31), 100, 1200)
	b.sell("b", "FOO", mkDate(59), 150, 2000)
	l := b.done()

	g := buildGraphFor(t, l, accountSet("b"), "FOO", mkDate(59))
	nodes := g.Nodes()
	rq.Len(nodes, 3)

	p1, p2, s := nodes[0], nodes[1], nodes[2]
	rq.Equal(PurchaseKind, p1.Kind)
	rq.Equal(PurchaseKind, p2.Kind)
	rq.Equal(SaleKind, s.Kind)

	crq.Equal(dec(0), p1.BalanceBefore)
	crq.Equal(dec(100), p1.NewBalance)
	crq.Equal(dec(100), p2.BalanceBefore)
	crq.Equal(dec(200), p2.NewBalance)
	crq.Equal(dec(200), s.BalanceBefore)
	crq.Equal(dec(50), s.NewBalance)

	// Single chain of prev/next links
	rq.Empty(p1.Prevs)
	rq.Equal([]*ActivityNode{p2}, p1.Nexts)
	rq.Equal([]*ActivityNode{p1}, p2.Prevs)
	rq.Equal([]*ActivityNode{s}, p2.Nexts)
	rq.Equal([]*ActivityNode{p2}, s.Prevs)
	rq.Empty(s.Nexts)

	rq.Equal([]*ActivityNode{s}, g.NodesAt(ActivityKey{Date: mkDate(59), Kind: SaleKind}))
	rq.Empty(g.NodesAt(ActivityKey{Date: mkDate(2), Kind: SaleKind}))
}

func TestGraphSameDayPurchaseOrdersBeforeSale(t *testing.T) {
	rq := require.New(t)
	crq := newCustomRequire(t)

	b := newLedgerBuilder()
	b.buy("b", "FOO", mkDate(1), 10, 100)
	b.sell("b", "FOO", mkDate(1), 4, 50)
	l := b.done()

	g := buildGraphFor(t, l, accountSet("b"), "FOO", mkDate(1))
	nodes := g.Nodes()
	rq.Len(nodes, 2)
	rq.Equal(PurchaseKind, nodes[0].Kind)
	rq.Equal(SaleKind, nodes[1].Kind)
	crq.Equal(dec(10), nodes[1].BalanceBefore)
	crq.Equal(dec(6), nodes[1].NewBalance)

	rq.True(nodes[0].Key().Less(nodes[1].Key()))
	rq.False(nodes[1].Key().Less(nodes[0].Key()))
}

func TestGraphBranchesOnSameDayAcrossAccounts(t *testing.T) {
	rq := require.New(t)

	b := newLedgerBuilder()
	b.buy("b1", "FOO", mkDate(1), 10, 100)
	b.buy("b2", "FOO", mkDate(1), 20, 210)
	b.sell("b1", "FOO", mkDate(10), 5, 70)
	l := b.done()

	g := buildGraphFor(t, l, accountSet("b1", "b2"), "FOO", mkDate(10))
	nodes := g.Nodes()
	rq.Len(nodes, 3)

	key := ActivityKey{Date: mkDate(1), Kind: PurchaseKind}
	rq.Len(g.NodesAt(key), 2)

	sale := nodes[2]
	rq.Equal(SaleKind, sale.Kind)
	rq.Len(sale.Prevs, 2)
}

func TestMatchAmountProportionalCost(t *testing.T) {
	rq := require.New(t)
	crq := newCustomRequire(t)

	n := &ActivityNode{Kind: PurchaseKind, Date: mkDate(1),
		Quantity: dec(80), Cost: dec(640)}

	cost := n.matchAmount(dec(50))
	crq.Equal(dec(400), cost)
	crq.Equal(dec(30), n.Quantity)
	crq.Equal(dec(240), n.Cost)

	// Full consumption takes the exact remainder
	cost = n.matchAmount(dec(30))
	crq.Equal(dec(240), cost)
	rq.True(n.Quantity.IsZero())
	rq.True(n.Cost.IsZero())
}

func TestMatchAmountTruncatesToCents(t *testing.T) {
	crq := newCustomRequire(t)

	// 1000 * 1 / 3 = 333.333... -> truncated, not rounded
	n := &ActivityNode{Kind: PurchaseKind, Date: mkDate(1),
		Quantity: dec(3), Cost: dec(1000)}
	cost := n.matchAmount(dec(1))
	crq.Equal(decStr("333.33"), cost)
	crq.Equal(decStr("666.67"), n.Cost)
}
