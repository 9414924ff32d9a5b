package request

import "errors"

// Service errors. NotPending is the expected outcome when two actions race
// on the same request; it means someone already acted.
var (
	ErrRequestNotFound = errors.New("payment request not found")
	ErrPayerNotFound   = errors.New("payer not found")
	ErrInvalidAmount   = errors.New("amount must be greater than zero")
	ErrSelfRequest     = errors.New("cannot request payment from yourself")
	ErrForbidden       = errors.New("only the named payer may act on this request")
	ErrNotPending      = errors.New("request is no longer pending")
)
