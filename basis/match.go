package basis

import (
	"github.com/shopspring/decimal"

	"taxlot/date"
	"taxlot/log"
)

// CostBasisLot is one matched slice of a disposal: quantity consumed
// from a single prior position, the date that position was opened, and
// the cost (or, for a covered short, the proceeds) carried by the slice.
type CostBasisLot struct {
	Quantity        decimal.Decimal
	AcquisitionDate date.Date
	CostBasis       decimal.Decimal
}

// MatchResult maps each taxable node of a graph to the lots it consumed.
// Nodes whose backward walk failed carry an error instead; one node's
// failure does not stop the others from being resolved.
type MatchResult struct {
	Lots     map[*ActivityNode][]CostBasisLot
	NodeErrs map[*ActivityNode]error
}

// MatchGraph resolves every node of the graph in ascending ActivityKey
// order. Processing in that order is what makes the backward walk FIFO:
// an earlier disposal permanently consumes the oldest remaining
// quantity, so by the time a later disposal looks backward, the oldest
// remaining lots are exactly the ones FIFO owes it. Parallelizing this
// loop would break that guarantee.
func MatchGraph(g *ActivityGraph) *MatchResult {
	res := &MatchResult{
		Lots:     make(map[*ActivityNode][]CostBasisLot),
		NodeErrs: make(map[*ActivityNode]error),
	}
	for _, node := range g.Nodes() {
		if !node.taxable() {
			continue
		}
		lots, err := resolveNode(g, node)
		if err != nil {
			res.NodeErrs[node] = err
			continue
		}
		res.Lots[node] = lots
	}
	return res
}

// LotsForNode resolves the whole graph and returns the lots matched to
// the node at key. A nil lot list with nil error means the node exists
// but is not a taxable event. The graph must be freshly built; matching
// mutates remaining quantities.
func LotsForNode(g *ActivityGraph, key ActivityKey) ([]CostBasisLot, error) {
	nodes := g.NodesAt(key)
	if len(nodes) > 1 {
		return nil, &AmbiguousMatchError{Security: g.Security, Key: key}
	}
	if len(nodes) == 0 {
		return nil, &InternalInconsistencyError{
			Security: g.Security, Key: key, Detail: "no activity node for key"}
	}
	node := nodes[0]

	res := MatchGraph(g)
	if err, ok := res.NodeErrs[node]; ok {
		return nil, err
	}
	return res.Lots[node], nil
}

// resolveNode allocates a taxable node's quantity against its
// predecessors of the opposite kind.
//
// Only the portion covered by the pre-existing opposite position is
// matched; a larger disposal (a sale overshooting the held quantity)
// leaves the excess unmatched, which then tracks a freshly opened
// position dated at this node.
func resolveNode(g *ActivityGraph, node *ActivityNode) ([]CostBasisLot, error) {
	if others := g.NodesAt(node.Key()); len(others) > 1 {
		return nil, &AmbiguousMatchError{Security: g.Security, Key: node.Key()}
	}

	toMatch := decimal.Min(node.Quantity, node.BalanceBefore.Abs())
	log.Tracef("match", "%s %s on %s: matching %s of %s against prior position %s",
		g.Security, node.Kind, node.Date, toMatch, node.Quantity, node.BalanceBefore)

	// Walk backward to the start of history, gathering opposite-kind
	// nodes that still hold unmatched quantity. The walk follows single
	// prev edges; a fork means two accounts share an ActivityKey and the
	// order across the branch cannot be determined.
	var preds []*ActivityNode
	available := decimal.Zero
	cur := node
	for len(cur.Prevs) > 0 {
		if len(cur.Prevs) > 1 {
			return nil, &AmbiguousMatchError{Security: g.Security, Key: cur.Prevs[0].Key()}
		}
		cur = cur.Prevs[0]
		if cur.Kind != node.Kind && cur.Quantity.IsPositive() {
			preds = append(preds, cur)
			available = available.Add(cur.Quantity)
		}
	}
	if available.LessThan(toMatch) {
		// The running balance said a covering position exists, so
		// exhausting history here is a defect in the graph or matcher.
		return nil, &InternalInconsistencyError{
			Security: g.Security, Key: node.Key(),
			Detail: "history exhausted with " + toMatch.Sub(available).String() +
				" still unmatched"}
	}

	// preds is newest-to-oldest; consume from the oldest end.
	lots := make([]CostBasisLot, 0, 2)
	still := toMatch
	for i := len(preds) - 1; i >= 0 && still.IsPositive(); i-- {
		p := preds[i]
		matched := decimal.Min(still, p.Quantity)
		cost := p.matchAmount(matched)
		lots = append(lots, CostBasisLot{
			Quantity: matched, AcquisitionDate: p.Date, CostBasis: cost})
		still = still.Sub(matched)
	}

	// The disposal's own matched share is spent too; any excess remains
	// as the new position's quantity and proportional cost.
	node.matchAmount(toMatch)
	return lots, nil
}
