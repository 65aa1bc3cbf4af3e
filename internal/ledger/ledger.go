// Package ledger implements the base multi-token balance ledger: raw
// balances per (holder, asset) pair, issuance, unconditional transfers and
// operator approvals. It knows nothing about usage-rights delegation; the
// rights subsystem layers frozen-balance accounting on top of it.
package ledger

import (
	"context"
	"errors"

	"github.com/ethereum/go-ethereum/common"
)

var (
	// ErrInsufficientBalance is returned when a transfer or delegation asks
	// for more units than the holder's raw balance.
	ErrInsufficientBalance = errors.New("insufficient balance for transfer")

	// ErrInvalidReceiver is returned when units would be credited to the
	// zero address.
	ErrInvalidReceiver = errors.New("receiver cannot be the zero address")

	// ErrLengthMismatch is returned by batch issuance when the asset id and
	// amount slices differ in length.
	ErrLengthMismatch = errors.New("asset ids and amounts length mismatch")
)

// Ledger is the balance bookkeeping contract the rights subsystem builds on.
// Implementations must guarantee that TransferRaw fails with
// ErrInsufficientBalance rather than driving a balance negative.
type Ledger interface {
	// BalanceOf returns the raw balance of holder for assetID, ignoring any
	// frozen quantity.
	BalanceOf(ctx context.Context, holder common.Address, assetID uint64) (uint64, error)

	// Mint credits amount units of assetID to the given holder. The data
	// payload is accepted for wire compatibility and ignored.
	Mint(ctx context.Context, to common.Address, assetID, amount uint64, data []byte) error

	// MintBatch credits several assets in one call. assetIDs and amounts
	// must be parallel slices.
	MintBatch(ctx context.Context, to common.Address, assetIDs, amounts []uint64, data []byte) error

	// TransferRaw moves units unconditionally against the raw balance. It
	// performs no frozen-balance accounting; callers gate it.
	TransferRaw(ctx context.Context, from, to common.Address, assetID, amount uint64) error

	// SetApprovalForAll grants or revokes operator's right to act on behalf
	// of holder across all assets.
	SetApprovalForAll(ctx context.Context, holder, operator common.Address, approved bool) error

	// IsApprovedForAll reports whether operator is approved for holder.
	IsApprovedForAll(ctx context.Context, holder, operator common.Address) (bool, error)

	// IsApprovedOrOwner reports whether caller is the holder itself or an
	// operator approved for the holder.
	IsApprovedOrOwner(ctx context.Context, caller, holder common.Address) (bool, error)
}
