package services

import (
	"context"

	"github.com/ethereum/go-ethereum/common"
	"github.com/rentium/rentium-api/internal/rights"
)

// Journal persists committed state changes for durability. The in-memory
// state stays authoritative; journal calls happen only after a mutation has
// fully committed, and a journal failure never fails the operation — it is
// logged and the request succeeds. Implementations must tolerate replayed
// writes (upsert semantics).
type Journal interface {
	RecordCreated(ctx context.Context, rec rights.Record) error
	RecordDeleted(ctx context.Context, recordID uint64) error
	BalanceChanged(ctx context.Context, holder common.Address, assetID, balance uint64) error
	ApprovalChanged(ctx context.Context, holder, operator common.Address, approved bool) error
}
