package basis

import (
	"github.com/shopspring/decimal"

	"taxlot/date"
	"taxlot/util"
)

type ActivityKind int

const (
	// Purchases order before sales on the same date.
	PurchaseKind ActivityKind = iota + 1
	SaleKind
)

func (k ActivityKind) String() string {
	switch k {
	case PurchaseKind:
		return "purchase"
	case SaleKind:
		return "sale"
	}
	return "unknown"
}

// ActivityKey is the total order used to walk a security's activity:
// ascending date, purchases before sales within a date.
type ActivityKey struct {
	Date date.Date
	Kind ActivityKind
}

func (k ActivityKey) Less(other ActivityKey) bool {
	if !k.Date.Equal(other.Date) {
		return k.Date.Before(other.Date)
	}
	return k.Kind < other.Kind
}

// ActivityNode is one day's aggregate purchase or sale activity for one
// account. Quantity and Cost hold the remaining unmatched amounts and
// are the only fields the matcher mutates; Cost is acquisition cost for
// a purchase node and sale proceeds for a sale node.
type ActivityNode struct {
	Kind    ActivityKind
	Account string
	Date    date.Date

	Quantity decimal.Decimal
	Cost     decimal.Decimal

	// Net position immediately after, and immediately before, this
	// node's activity across all linked accounts. Fixed at construction.
	NewBalance    decimal.Decimal
	BalanceBefore decimal.Decimal

	Prevs []*ActivityNode
	Nexts []*ActivityNode
}

func (n *ActivityNode) Key() ActivityKey {
	return ActivityKey{Date: n.Date, Kind: n.Kind}
}

func (n *ActivityNode) signedQuantity() decimal.Decimal {
	if n.Kind == SaleKind {
		return n.Quantity.Neg()
	}
	return n.Quantity
}

// taxable reports whether this node disposes of a pre-existing position:
// a sale out of a long position, or a purchase covering a short. A
// purchase while long or a sale while short merely extends the position.
func (n *ActivityNode) taxable() bool {
	switch n.Kind {
	case SaleKind:
		return n.BalanceBefore.IsPositive()
	case PurchaseKind:
		return n.BalanceBefore.IsNegative()
	}
	return false
}

// matchAmount consumes quantity from this node's remaining position,
// reducing Cost in proportion. The consumed cost is truncated to cents,
// except that consuming the full remaining quantity takes the exact
// remaining cost, so a fully consumed node nets out to zero.
func (n *ActivityNode) matchAmount(quantity decimal.Decimal) decimal.Decimal {
	util.Assertf(quantity.IsPositive() && !quantity.GreaterThan(n.Quantity),
		"matchAmount(%s) on node %s/%s with remaining %s",
		quantity, n.Date, n.Kind, n.Quantity)

	var cost decimal.Decimal
	if quantity.Equal(n.Quantity) {
		cost = n.Cost
	} else {
		cost = n.Cost.Mul(quantity).Div(n.Quantity).Truncate(2)
	}
	n.Quantity = n.Quantity.Sub(quantity)
	n.Cost = n.Cost.Sub(cost)
	return cost
}

// ActivityGraph holds every activity node for one security across a set
// of linked accounts, from start of history to a cutoff date, in
// ascending ActivityKey order. More than one node exists for a single
// key only when distinct accounts were active on the same date; the
// matcher refuses to guess an order across such a branch.
type ActivityGraph struct {
	Security string

	nodes []*ActivityNode
	byKey map[ActivityKey][]*ActivityNode
}

func (g *ActivityGraph) Nodes() []*ActivityNode {
	return g.nodes
}

func (g *ActivityGraph) NodesAt(key ActivityKey) []*ActivityNode {
	return g.byKey[key]
}

// BuildActivityGraph materializes the graph from the date-ordered
// activity aggregates of one security. One purchase node and/or one sale
// node is created per (account, date); the running balance is threaded
// through every node in key order. Each node links back to the nodes
// immediately preceding it: normally a single chain, forking only where
// two accounts share an ActivityKey.
func BuildActivityGraph(
	security string, activities []*DailyActivity, openingBalance decimal.Decimal,
) *ActivityGraph {

	g := &ActivityGraph{
		Security: security,
		byKey:    make(map[ActivityKey][]*ActivityNode),
	}

	balance := openingBalance
	var frontier []*ActivityNode

	link := func(group []*ActivityNode) {
		for _, n := range group {
			n.Prevs = frontier
			for _, p := range frontier {
				p.Nexts = append(p.Nexts, n)
			}
		}
		frontier = group
	}

	for i := 0; i < len(activities); {
		day := activities[i].Date
		j := i
		for j < len(activities) && activities[j].Date.Equal(day) {
			j++
		}
		sameDay := activities[i:j]

		for _, kind := range []ActivityKind{PurchaseKind, SaleKind} {
			var group []*ActivityNode
			for _, act := range sameDay {
				var quantity, cost decimal.Decimal
				if kind == PurchaseKind {
					if !act.HasPurchase() {
						continue
					}
					quantity, cost = act.PurchaseQuantity, act.PurchaseCost
				} else {
					if !act.HasSale() {
						continue
					}
					quantity, cost = act.SaleQuantity, act.SaleProceeds
				}

				node := &ActivityNode{
					Kind: kind, Account: act.Account, Date: day,
					Quantity: quantity, Cost: cost,
					BalanceBefore: balance,
				}
				balance = balance.Add(node.signedQuantity())
				node.NewBalance = balance

				group = append(group, node)
				g.nodes = append(g.nodes, node)
				g.byKey[node.Key()] = append(g.byKey[node.Key()], node)
			}
			if len(group) > 0 {
				link(group)
			}
		}
		i = j
	}
	return g
}
