package rights

import "errors"

var (
	// ErrInvalidUser is returned when a record names the zero address as
	// its beneficiary.
	ErrInvalidUser = errors.New("user cannot be the zero address")

	// ErrInvalidAmount is returned when a record delegates zero units.
	ErrInvalidAmount = errors.New("amount must be greater than zero")

	// ErrInvalidExpiry is returned when a record's expiry is not strictly
	// in the future.
	ErrInvalidExpiry = errors.New("expiry must be after the current time")

	// ErrInsufficientBalance is returned when a record would delegate more
	// units than the owner's available balance.
	ErrInsufficientBalance = errors.New("insufficient available balance for delegation")

	// ErrInsufficientAvailableBalance is returned when a transfer asks for
	// more units than the holder's balance net of frozen quantity.
	ErrInsufficientAvailableBalance = errors.New("transfer amount exceeds available balance")

	// ErrRecordLimitExceeded is returned when an (owner, asset) pair already
	// holds the maximum number of unexpired records.
	ErrRecordLimitExceeded = errors.New("owner cannot have more records for this asset")

	// ErrRecordNotFound is returned when an operation targets a record id
	// that does not exist or has already been reclaimed.
	ErrRecordNotFound = errors.New("record not found")

	// ErrUnauthorized is returned when the caller is neither the owner nor
	// an operator approved for the owner.
	ErrUnauthorized = errors.New("only owner or approved")
)
