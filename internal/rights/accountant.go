package rights

import (
	"context"
	"fmt"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/rentium/rentium-api/internal/ledger"
)

// Accountant derives frozen and available balances for (owner, asset)
// pairs. It owns no state of its own: frozen quantity is a pure derivation
// over the record store, triggering lazy expiry as a side effect of being
// queried, and available balance subtracts it from the base ledger's raw
// balance.
type Accountant struct {
	ledger ledger.Ledger
	store  *Store
}

// NewAccountant creates an accountant over the given ledger and store.
func NewAccountant(l ledger.Ledger, s *Store) *Accountant {
	return &Accountant{
		ledger: l,
		store:  s,
	}
}

// FrozenBalanceOf returns the total quantity currently delegated and not
// yet expired for the pair. Stale records are reclaimed before summing.
func (a *Accountant) FrozenBalanceOf(owner common.Address, assetID uint64, now time.Time) uint64 {
	return a.store.FrozenAmount(owner, assetID, now)
}

// AvailableBalanceOf returns the raw balance minus the frozen quantity;
// the figure transfers and new-record creation must check against. The
// store invariant keeps frozen at or below raw, so a negative result here
// indicates a bug in the capacity check and is reported as an error rather
// than clamped silently.
func (a *Accountant) AvailableBalanceOf(ctx context.Context, owner common.Address, assetID uint64, now time.Time) (uint64, error) {
	raw, err := a.ledger.BalanceOf(ctx, owner, assetID)
	if err != nil {
		return 0, fmt.Errorf("failed to read balance: %w", err)
	}

	frozen := a.FrozenBalanceOf(owner, assetID, now)
	if frozen > raw {
		return 0, fmt.Errorf("frozen quantity %d exceeds raw balance %d for owner %s asset %d", frozen, raw, owner.Hex(), assetID)
	}

	return raw - frozen, nil
}
