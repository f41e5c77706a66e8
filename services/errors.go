package services

import "errors"

// Domain errors. Handlers map these to HTTP statuses; wrapped causes stay
// reachable through errors.Is/As.
var (
	// ErrInvalidAmount means a negative amount was supplied.
	ErrInvalidAmount = errors.New("invalid amount")

	// ErrAccountNotFound means no account matched the branch/number pair.
	ErrAccountNotFound = errors.New("account not found")

	// ErrInsufficientFunds means the balance cannot cover amount plus fee.
	ErrInsufficientFunds = errors.New("insufficient funds")

	// ErrInvalidLimit means a non-positive result limit was requested.
	ErrInvalidLimit = errors.New("limit must be greater than zero")

	// ErrTransferFailed means one leg of a transfer failed. A debit that
	// succeeded before a failed credit is not rolled back.
	ErrTransferFailed = errors.New("transfer failed")

	// ErrPromotionFailed means the prime-branch bulk update produced no
	// result.
	ErrPromotionFailed = errors.New("client promotion failed")
)
