// Package services composes the base ledger, the record store and the
// frozen-balance accountant into the authorization-gated operations the API
// exposes.
package services

import (
	"context"
	"fmt"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/rentium/rentium-api/internal/ledger"
	"github.com/rentium/rentium-api/internal/logger"
	"github.com/rentium/rentium-api/internal/rights"
	"go.uber.org/zap"
)

// RightsService handles business logic for the usage-rights ledger: record
// creation and deletion, frozen/available balance queries, and the
// available-balance-gated transfer. Every operation runs to completion
// before the next begins; the host serializes requests, so the service does
// no locking of its own.
//
// Precondition checks run in a fixed, documented order: authorization,
// user, amount, expiry, record cap, balance. Tests pin this order.
type RightsService struct {
	ledger     ledger.Ledger
	store      *rights.Store
	accountant *rights.Accountant
	journal    Journal
	logger     *zap.Logger
	now        func() time.Time
}

// NewRightsService creates a new rights service. journal may be nil when no
// persistence is configured.
func NewRightsService(l ledger.Ledger, store *rights.Store, journal Journal) *RightsService {
	return &RightsService{
		ledger:     l,
		store:      store,
		accountant: rights.NewAccountant(l, store),
		journal:    journal,
		logger:     logger.Log,
		now:        time.Now,
	}
}

// SetTimeSource replaces the clock the service reads. Tests use it to drive
// expiry deterministically.
func (s *RightsService) SetTimeSource(now func() time.Time) {
	s.now = now
}

// CreateUserRecordParams carries the fields of a record-creation request.
type CreateUserRecordParams struct {
	Owner   common.Address
	User    common.Address
	AssetID uint64
	Amount  uint64
	Expiry  time.Time
}

// CreateUserRecord grants user a time-bound right to use amount units of
// the owner's asset. The caller must be the owner or approved for the
// owner. The delegated amount is capped by the owner's available balance
// (raw balance minus already-frozen quantity) and the pair's record cap,
// both evaluated after lazily reclaiming expired records. Returns the fresh
// record id.
func (s *RightsService) CreateUserRecord(ctx context.Context, caller common.Address, params CreateUserRecordParams) (uint64, error) {
	if err := s.authorize(ctx, caller, params.Owner); err != nil {
		return 0, err
	}

	now := s.now()
	available, err := s.accountant.AvailableBalanceOf(ctx, params.Owner, params.AssetID, now)
	if err != nil {
		return 0, fmt.Errorf("failed to compute available balance: %w", err)
	}

	rec, err := s.store.Create(rights.CreateRecordParams{
		Owner:   params.Owner,
		User:    params.User,
		AssetID: params.AssetID,
		Amount:  params.Amount,
		Expiry:  params.Expiry,
	}, now, available)
	if err != nil {
		return 0, err
	}

	s.journalRecordCreated(ctx, *rec)

	s.logger.Info("User record created",
		zap.Uint64("record_id", rec.ID),
		zap.String("owner", rec.Owner.Hex()),
		zap.String("user", rec.User.Hex()),
		zap.Uint64("asset_id", rec.AssetID),
		zap.Uint64("amount", rec.Amount),
		zap.Time("expiry", rec.Expiry))

	return rec.ID, nil
}

// DeleteUserRecord removes the record with the given id, immediately
// freeing its frozen quantity. The caller must be the record's owner or
// approved for the owner. Deleting a record that has expired but not yet
// been swept succeeds; it is a no-op on frozen accounting.
func (s *RightsService) DeleteUserRecord(ctx context.Context, caller common.Address, recordID uint64) error {
	rec, err := s.store.Get(recordID)
	if err != nil {
		return err
	}

	if err := s.authorize(ctx, caller, rec.Owner); err != nil {
		return err
	}

	if _, err := s.store.Delete(recordID); err != nil {
		return err
	}

	s.journalRecordDeleted(ctx, recordID)

	s.logger.Info("User record deleted",
		zap.Uint64("record_id", recordID),
		zap.String("owner", rec.Owner.Hex()),
		zap.Uint64("asset_id", rec.AssetID))

	return nil
}

// GetRecord returns the record with the given id. Expired records are
// reported as not found even before the next sweep touches their pair, so
// observers never see stale delegation state; the lookup triggers the sweep
// as its side effect.
func (s *RightsService) GetRecord(ctx context.Context, recordID uint64) (rights.Record, error) {
	rec, err := s.store.Get(recordID)
	if err != nil {
		return rights.Record{}, err
	}

	now := s.now()
	if rec.Expired(now) {
		s.store.ExpireStale(rec.Owner, rec.AssetID, now)
		return rights.Record{}, fmt.Errorf("record %d: %w", recordID, rights.ErrRecordNotFound)
	}

	return *rec, nil
}

// RecordsFor returns the unexpired records of an (owner, asset) pair in
// creation order.
func (s *RightsService) RecordsFor(ctx context.Context, owner common.Address, assetID uint64) []rights.Record {
	return s.store.RecordsFor(owner, assetID, s.now())
}

// FrozenBalanceOf returns the quantity of the owner's asset currently
// delegated and not yet expired.
func (s *RightsService) FrozenBalanceOf(ctx context.Context, owner common.Address, assetID uint64) uint64 {
	return s.accountant.FrozenBalanceOf(owner, assetID, s.now())
}

// AvailableBalanceOf returns the owner's raw balance minus the frozen
// quantity: the portion ordinary transfers may spend.
func (s *RightsService) AvailableBalanceOf(ctx context.Context, owner common.Address, assetID uint64) (uint64, error) {
	return s.accountant.AvailableBalanceOf(ctx, owner, assetID, s.now())
}

// UsableBalanceOf returns the quantity of assetID delegated to user across
// all owners, counting only unexpired records.
func (s *RightsService) UsableBalanceOf(ctx context.Context, user common.Address, assetID uint64) uint64 {
	return s.store.UsableAmount(user, assetID, s.now())
}

// BalanceOf returns the raw balance, including frozen quantity.
func (s *RightsService) BalanceOf(ctx context.Context, holder common.Address, assetID uint64) (uint64, error) {
	return s.ledger.BalanceOf(ctx, holder, assetID)
}

// Transfer moves units between holders, gated by the sender's available
// balance so that frozen units stay untouchable even though they still
// count toward the raw balance. The caller must be the sender or approved
// for the sender.
func (s *RightsService) Transfer(ctx context.Context, caller, from, to common.Address, assetID, amount uint64) error {
	if err := s.authorize(ctx, caller, from); err != nil {
		return err
	}

	available, err := s.accountant.AvailableBalanceOf(ctx, from, assetID, s.now())
	if err != nil {
		return fmt.Errorf("failed to compute available balance: %w", err)
	}
	if amount > available {
		return fmt.Errorf("transferring %d with %d available: %w", amount, available, rights.ErrInsufficientAvailableBalance)
	}

	if err := s.ledger.TransferRaw(ctx, from, to, assetID, amount); err != nil {
		return err
	}

	s.journalBalances(ctx, assetID, from, to)

	s.logger.Info("Transfer completed",
		zap.String("from", from.Hex()),
		zap.String("to", to.Hex()),
		zap.Uint64("asset_id", assetID),
		zap.Uint64("amount", amount))

	return nil
}

// Mint credits freshly issued units to a holder. Issuance is bootstrap
// bookkeeping outside the delegation core; it is not authorization-gated.
func (s *RightsService) Mint(ctx context.Context, to common.Address, assetID, amount uint64, data []byte) error {
	if err := s.ledger.Mint(ctx, to, assetID, amount, data); err != nil {
		return err
	}

	s.journalBalances(ctx, assetID, to)
	return nil
}

// MintBatch credits several assets to one holder in a single call.
func (s *RightsService) MintBatch(ctx context.Context, to common.Address, assetIDs, amounts []uint64, data []byte) error {
	if err := s.ledger.MintBatch(ctx, to, assetIDs, amounts, data); err != nil {
		return err
	}

	for _, assetID := range assetIDs {
		s.journalBalances(ctx, assetID, to)
	}
	return nil
}

// SetApprovalForAll lets the caller grant or revoke an operator's right to
// manage records and transfers on its behalf.
func (s *RightsService) SetApprovalForAll(ctx context.Context, caller, operator common.Address, approved bool) error {
	if err := s.ledger.SetApprovalForAll(ctx, caller, operator, approved); err != nil {
		return err
	}

	if s.journal != nil {
		if err := s.journal.ApprovalChanged(ctx, caller, operator, approved); err != nil {
			s.logger.Error("Failed to journal approval change",
				zap.String("holder", caller.Hex()),
				zap.String("operator", operator.Hex()),
				zap.Error(err))
		}
	}

	return nil
}

// authorize fails with ErrUnauthorized unless caller is holder or an
// operator the base ledger recognizes as approved for holder.
func (s *RightsService) authorize(ctx context.Context, caller, holder common.Address) error {
	ok, err := s.ledger.IsApprovedOrOwner(ctx, caller, holder)
	if err != nil {
		return fmt.Errorf("failed to check authorization: %w", err)
	}
	if !ok {
		return fmt.Errorf("caller %s is not owner %s: %w", caller.Hex(), holder.Hex(), rights.ErrUnauthorized)
	}
	return nil
}

func (s *RightsService) journalRecordCreated(ctx context.Context, rec rights.Record) {
	if s.journal == nil {
		return
	}
	if err := s.journal.RecordCreated(ctx, rec); err != nil {
		s.logger.Error("Failed to journal record creation",
			zap.Uint64("record_id", rec.ID),
			zap.Error(err))
	}
}

func (s *RightsService) journalRecordDeleted(ctx context.Context, recordID uint64) {
	if s.journal == nil {
		return
	}
	if err := s.journal.RecordDeleted(ctx, recordID); err != nil {
		s.logger.Error("Failed to journal record deletion",
			zap.Uint64("record_id", recordID),
			zap.Error(err))
	}
}

func (s *RightsService) journalBalances(ctx context.Context, assetID uint64, holders ...common.Address) {
	if s.journal == nil {
		return
	}
	for _, holder := range holders {
		balance, err := s.ledger.BalanceOf(ctx, holder, assetID)
		if err != nil {
			s.logger.Error("Failed to read balance for journal",
				zap.String("holder", holder.Hex()),
				zap.Uint64("asset_id", assetID),
				zap.Error(err))
			continue
		}
		if err := s.journal.BalanceChanged(ctx, holder, assetID, balance); err != nil {
			s.logger.Error("Failed to journal balance change",
				zap.String("holder", holder.Hex()),
				zap.Uint64("asset_id", assetID),
				zap.Error(err))
		}
	}
}
