package models

import "errors"

// Domain errors returned by ledger and balance operations. All are recoverable;
// callers branch on them with errors.Is to decide what to surface.
var (
	// ErrNotFound indicates the requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidAmount indicates a non-positive contribution or withdrawal amount.
	ErrInvalidAmount = errors.New("amount must be positive")

	// ErrCurrencyMismatch indicates the account's currency does not match the
	// budget's. Cross-currency contributions are rejected, never auto-converted.
	ErrCurrencyMismatch = errors.New("currency mismatch")

	// ErrInsufficientFunds indicates the source account balance is too low.
	ErrInsufficientFunds = errors.New("insufficient account balance")

	// ErrInsufficientBlocked indicates a withdrawal exceeds the budget's
	// blocked balance.
	ErrInsufficientBlocked = errors.New("insufficient blocked balance")

	// ErrInvalidBudgetState indicates the operation is not allowed in the
	// budget's current status.
	ErrInvalidBudgetState = errors.New("invalid budget state")

	// ErrInvalidCurrencyCode indicates a malformed currency code. Unlike a
	// missing rate, this is a genuine input error.
	ErrInvalidCurrencyCode = errors.New("invalid currency code")

	// ErrInvalidInput indicates a malformed request field that is not an
	// amount or currency code.
	ErrInvalidInput = errors.New("invalid input")
)
