package domain

import "errors"

// Every precondition failure in the custody core maps to exactly one of these
// sentinels. Callers wrap them with context via fmt.Errorf("...: %w", err) and
// the HTTP layer resolves them back with errors.Is.
var (
	// ErrInvalidRequest covers an unauthorized signer and uid reuse: both mean
	// "this signed blob does not authorize anything right now".
	ErrInvalidRequest = errors.New("invalid request")

	// ErrRequestExpired is returned when the current time falls outside
	// [validityStartTimestamp, validityEndTimestamp). Too early and too late
	// are deliberately indistinguishable.
	ErrRequestExpired = errors.New("request expired")

	ErrArrayLengthMismatch = errors.New("array length mismatch")
	ErrZeroQuantity        = errors.New("minting zero tokens")
	ErrNoTokensToStake     = errors.New("no tokens to stake")
	ErrMinimumStakePeriod  = errors.New("minimum stake period not met")
	ErrTokenNotAllowed     = errors.New("token not allowed")
	ErrInsufficientBalance = errors.New("insufficient balance")
	ErrNotAuthorised       = errors.New("not authorised")
	ErrInvalidStakeIndex   = errors.New("invalid stake index")
	ErrTokenNotFound       = errors.New("token not found")

	// ErrETHNotAccepted rejects any native currency sent to the vault; the
	// vault custodies registered token contracts only.
	ErrETHNotAccepted = errors.New("eth not accepted")
)
