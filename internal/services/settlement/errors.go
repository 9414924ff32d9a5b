package settlement

import "errors"

// Service errors. AlreadyRedeemed and its siblings are expected outcomes of
// races and expiry, not system failures; callers report them, never retry.
var (
	ErrTokenNotFound   = errors.New("token not found")
	ErrTokenExpired    = errors.New("token has expired")
	ErrAlreadyRedeemed = errors.New("token already redeemed")
	ErrTokenCancelled  = errors.New("token cancelled")
	ErrSelfRedemption  = errors.New("cannot redeem your own token")
	ErrAmountRequired  = errors.New("amount required for open token")
	ErrAmountMismatch  = errors.New("amount does not match token amount")
	ErrInvalidAmount   = errors.New("amount must be greater than zero")
	ErrNotOwner        = errors.New("only the token owner may cancel it")
)
