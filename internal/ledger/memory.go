package ledger

import (
	"context"
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/rentium/rentium-api/internal/logger"
	"go.uber.org/zap"
)

// balanceKey identifies one (holder, asset) balance cell.
type balanceKey struct {
	holder  common.Address
	assetID uint64
}

// approvalKey identifies one holder -> operator approval grant.
type approvalKey struct {
	holder   common.Address
	operator common.Address
}

// MemoryLedger is the in-memory Ledger implementation. The execution model
// is single-threaded per request, so no locking is done here; callers that
// need durability layer a write-through journal on top.
type MemoryLedger struct {
	balances  map[balanceKey]uint64
	approvals map[approvalKey]bool
	logger    *zap.Logger
}

// NewMemoryLedger creates an empty in-memory ledger.
func NewMemoryLedger() *MemoryLedger {
	return &MemoryLedger{
		balances:  make(map[balanceKey]uint64),
		approvals: make(map[approvalKey]bool),
		logger:    logger.Log,
	}
}

// BalanceOf returns the raw balance of holder for assetID.
func (l *MemoryLedger) BalanceOf(_ context.Context, holder common.Address, assetID uint64) (uint64, error) {
	return l.balances[balanceKey{holder: holder, assetID: assetID}], nil
}

// Mint credits amount units of assetID to the given holder.
func (l *MemoryLedger) Mint(_ context.Context, to common.Address, assetID, amount uint64, _ []byte) error {
	if to == (common.Address{}) {
		return fmt.Errorf("mint: %w", ErrInvalidReceiver)
	}

	key := balanceKey{holder: to, assetID: assetID}
	l.balances[key] += amount

	l.logger.Debug("Minted units",
		zap.String("to", to.Hex()),
		zap.Uint64("asset_id", assetID),
		zap.Uint64("amount", amount),
		zap.Uint64("balance", l.balances[key]))

	return nil
}

// MintBatch credits several assets to one holder in a single call.
func (l *MemoryLedger) MintBatch(ctx context.Context, to common.Address, assetIDs, amounts []uint64, data []byte) error {
	if len(assetIDs) != len(amounts) {
		return fmt.Errorf("mint batch: %w", ErrLengthMismatch)
	}

	for i := range assetIDs {
		if err := l.Mint(ctx, to, assetIDs[i], amounts[i], data); err != nil {
			return err
		}
	}

	return nil
}

// TransferRaw moves units against the raw balance, with no frozen-balance
// accounting. It fails before touching any state, so a rejected transfer
// leaves both balances unchanged.
func (l *MemoryLedger) TransferRaw(_ context.Context, from, to common.Address, assetID, amount uint64) error {
	if to == (common.Address{}) {
		return fmt.Errorf("transfer: %w", ErrInvalidReceiver)
	}

	fromKey := balanceKey{holder: from, assetID: assetID}
	if l.balances[fromKey] < amount {
		return fmt.Errorf("transfer %d of asset %d from %s: %w", amount, assetID, from.Hex(), ErrInsufficientBalance)
	}

	l.balances[fromKey] -= amount
	l.balances[balanceKey{holder: to, assetID: assetID}] += amount

	return nil
}

// SetApprovalForAll grants or revokes operator's right to act for holder.
func (l *MemoryLedger) SetApprovalForAll(_ context.Context, holder, operator common.Address, approved bool) error {
	key := approvalKey{holder: holder, operator: operator}
	if approved {
		l.approvals[key] = true
	} else {
		delete(l.approvals, key)
	}

	return nil
}

// IsApprovedForAll reports whether operator is approved for holder.
func (l *MemoryLedger) IsApprovedForAll(_ context.Context, holder, operator common.Address) (bool, error) {
	return l.approvals[approvalKey{holder: holder, operator: operator}], nil
}

// IsApprovedOrOwner reports whether caller is holder or approved for holder.
func (l *MemoryLedger) IsApprovedOrOwner(ctx context.Context, caller, holder common.Address) (bool, error) {
	if caller == holder {
		return true, nil
	}
	return l.IsApprovedForAll(ctx, holder, caller)
}

// SetBalance overwrites one balance cell. It exists for state restoration
// from the persistence journal and must not be used by request paths.
func (l *MemoryLedger) SetBalance(holder common.Address, assetID, amount uint64) {
	key := balanceKey{holder: holder, assetID: assetID}
	if amount == 0 {
		delete(l.balances, key)
		return
	}
	l.balances[key] = amount
}
