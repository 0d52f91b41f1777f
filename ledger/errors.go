package ledger

import "errors"

var (
	// ErrInvalidAmount is returned when a textual amount cannot be reduced
	// to a usable number. Callers must not coerce this to zero: a blank
	// cell and a garbage cell are different things, and silently zeroing
	// the latter corrupts the running balances.
	ErrInvalidAmount = errors.New("invalid amount")

	// ErrOutOfOrder is returned when a ledger is not strictly ascending by
	// date or contains duplicate dates. Every formula downstream assumes
	// strict date order, so this is fatal for the call.
	ErrOutOfOrder = errors.New("ledger rows out of order")

	// ErrUnknownField is returned when an edit payload names a field that
	// is not part of the editable raw-input set.
	ErrUnknownField = errors.New("unknown field")
)
