package ledger

import "fmt"

// InsufficientPointsError reports a redeem attempt that exceeds the current
// session balance. It is a recoverable validation outcome, not an I/O
// failure: the session state is left untouched.
type InsufficientPointsError struct {
	Cost      int32
	Balance   int32
	Shortfall int32
}

func (e *InsufficientPointsError) Error() string {
	return fmt.Sprintf("insufficient points: need %d more (cost %d, balance %d)", e.Shortfall, e.Cost, e.Balance)
}

// InvalidAmountError reports a non-positive point amount passed to AddPoints
// or a negative cost passed to Redeem.
type InvalidAmountError struct {
	Amount int32
}

func (e *InvalidAmountError) Error() string {
	return fmt.Sprintf("invalid point amount: %d", e.Amount)
}
