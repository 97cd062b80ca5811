package entitlements

import "errors"

// Rejection reasons. These are expected outcomes the UI renders inline,
// not faults; handlers should compare with errors.Is or map them through
// ReasonCode.
var (
	ErrUnknownItem         = errors.New("unknown item")
	ErrNotOwned            = errors.New("item not owned")
	ErrAlreadyOwned        = errors.New("item already owned")
	ErrInsufficientBalance = errors.New("insufficient balance")
	ErrClosed              = errors.New("store closed")
)

// ReasonCode maps a rejection to its wire code for API responses.
func ReasonCode(err error) string {
	switch {
	case errors.Is(err, ErrUnknownItem):
		return "unknown_item"
	case errors.Is(err, ErrNotOwned):
		return "not_owned"
	case errors.Is(err, ErrAlreadyOwned):
		return "already_owned"
	case errors.Is(err, ErrInsufficientBalance):
		return "insufficient_balance"
	case errors.Is(err, ErrClosed):
		return "store_closed"
	default:
		return "internal_error"
	}
}
