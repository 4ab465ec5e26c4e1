package basis

import (
	"fmt"

	"taxlot/ledger"
)

// UnsupportedDataError marks a ledger entry the aggregator cannot
// classify as a plain purchase or sale. Recoverable: callers may skip
// the entry or abort the security's computation.
type UnsupportedDataError struct {
	Entry  *ledger.Entry
	Reason string
}

func (e *UnsupportedDataError) Error() string {
	return fmt.Sprintf("unsupported entry for %s in %s on %s: %s",
		e.Entry.Commodity.Symbol, e.Entry.Account, e.Entry.Date, e.Reason)
}

// AmbiguousMatchError marks a disposal whose backward walk crossed a
// point with more than one same-key activity (independent accounts
// trading on the same date). Recoverable per disposal.
type AmbiguousMatchError struct {
	Security string
	Key      ActivityKey
}

func (e *AmbiguousMatchError) Error() string {
	return fmt.Sprintf(
		"ambiguous activity history for %s at %s: multiple accounts have same-day %s activity",
		e.Security, e.Key.Date, e.Key.Kind)
}

// InternalInconsistencyError means the backward walk exhausted history
// while quantity remained to match. The running balance must return to
// zero at the start of history, so this indicates a defect, not a
// normal runtime condition.
type InternalInconsistencyError struct {
	Security string
	Key      ActivityKey
	Detail   string
}

func (e *InternalInconsistencyError) Error() string {
	return fmt.Sprintf("internal inconsistency matching %s at %s/%s: %s",
		e.Security, e.Key.Date, e.Key.Kind, e.Detail)
}
