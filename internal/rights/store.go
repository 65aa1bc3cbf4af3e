package rights

import (
	"fmt"
	"time"

	"github.com/ethereum/go-ethereum/common"
)

// pairKey indexes records by the (owner, asset) pair whose capacity and
// frozen quantity they count against.
type pairKey struct {
	owner   common.Address
	assetID uint64
}

// userKey indexes records by the (user, asset) pair they delegate to.
type userKey struct {
	user    common.Address
	assetID uint64
}

// Store owns the set of active delegation records. Ids come from a single
// incrementing counter and are never reused; deletion removes the mapping
// entry but never rewinds the counter. The per-pair index is bounded by
// maxRecords, enforced after lazily dropping expired ids.
type Store struct {
	maxRecords int
	nextID     uint64
	records    map[uint64]*Record
	byPair     map[pairKey][]uint64
	byUser     map[userKey][]uint64
}

// NewStore creates an empty record store. maxRecords caps how many unexpired
// records any single (owner, asset) pair may hold; values below one fall
// back to a cap of one.
func NewStore(maxRecords int) *Store {
	if maxRecords < 1 {
		maxRecords = 1
	}
	return &Store{
		maxRecords: maxRecords,
		records:    make(map[uint64]*Record),
		byPair:     make(map[pairKey][]uint64),
		byUser:     make(map[userKey][]uint64),
	}
}

// MaxRecords returns the per-pair record cap this store was built with.
func (s *Store) MaxRecords() int {
	return s.maxRecords
}

// CreateRecordParams carries the caller-supplied fields of a new record.
type CreateRecordParams struct {
	Owner   common.Address
	User    common.Address
	AssetID uint64
	Amount  uint64
	Expiry  time.Time
}

// Create validates params, expires stale records for the pair, enforces the
// record cap and the available-balance ceiling, then allocates a fresh id
// and inserts the record. available is the owner's balance net of frozen
// quantity, computed by the accountant; the store itself holds no balances.
// Checks run in a fixed order: user, amount, expiry, record cap, balance.
// Nothing is committed on any failure path.
func (s *Store) Create(params CreateRecordParams, now time.Time, available uint64) (*Record, error) {
	if params.User == (common.Address{}) {
		return nil, ErrInvalidUser
	}
	if params.Amount == 0 {
		return nil, ErrInvalidAmount
	}
	if !params.Expiry.After(now) {
		return nil, ErrInvalidExpiry
	}

	pair := pairKey{owner: params.Owner, assetID: params.AssetID}
	s.expirePair(pair, now)

	if len(s.byPair[pair]) >= s.maxRecords {
		return nil, fmt.Errorf("pair already holds %d records: %w", s.maxRecords, ErrRecordLimitExceeded)
	}
	if params.Amount > available {
		return nil, fmt.Errorf("delegating %d with %d available: %w", params.Amount, available, ErrInsufficientBalance)
	}

	s.nextID++
	rec := &Record{
		ID:      s.nextID,
		Owner:   params.Owner,
		User:    params.User,
		AssetID: params.AssetID,
		Amount:  params.Amount,
		Expiry:  params.Expiry,
	}
	s.insert(rec)

	return rec, nil
}

// Get returns the record with the given id, whether or not it has expired.
// Observers that must not see expired records apply the expiry filter
// themselves; the delete path needs the raw lookup.
func (s *Store) Get(id uint64) (*Record, error) {
	rec, ok := s.records[id]
	if !ok {
		return nil, fmt.Errorf("record %d: %w", id, ErrRecordNotFound)
	}
	return rec, nil
}

// Delete removes the record with the given id from the store and both
// indexes, returning the removed record. Deleting an already-expired but
// not yet swept record is still a valid, successful operation.
func (s *Store) Delete(id uint64) (*Record, error) {
	rec, ok := s.records[id]
	if !ok {
		return nil, fmt.Errorf("record %d: %w", id, ErrRecordNotFound)
	}
	s.remove(rec)
	return rec, nil
}

// ExpireStale removes every expired record attributed to the (owner, asset)
// pair. It is idempotent; its only observable effect is shrinking frozen
// accounting and record-count pressure.
func (s *Store) ExpireStale(owner common.Address, assetID uint64, now time.Time) {
	s.expirePair(pairKey{owner: owner, assetID: assetID}, now)
}

// FrozenAmount returns the summed amount of the pair's unexpired records,
// expiring stale ones first. Zero when no records exist.
func (s *Store) FrozenAmount(owner common.Address, assetID uint64, now time.Time) uint64 {
	pair := pairKey{owner: owner, assetID: assetID}
	s.expirePair(pair, now)

	var total uint64
	for _, id := range s.byPair[pair] {
		total += s.records[id].Amount
	}
	return total
}

// UsableAmount returns the summed amount delegated to user for assetID
// across all owners, counting only unexpired records.
func (s *Store) UsableAmount(user common.Address, assetID uint64, now time.Time) uint64 {
	var total uint64
	for _, id := range s.byUser[userKey{user: user, assetID: assetID}] {
		if rec := s.records[id]; !rec.Expired(now) {
			total += rec.Amount
		}
	}
	return total
}

// RecordsFor returns the pair's unexpired records in creation order,
// expiring stale ones first.
func (s *Store) RecordsFor(owner common.Address, assetID uint64, now time.Time) []Record {
	pair := pairKey{owner: owner, assetID: assetID}
	s.expirePair(pair, now)

	ids := s.byPair[pair]
	out := make([]Record, 0, len(ids))
	for _, id := range ids {
		out = append(out, *s.records[id])
	}
	return out
}

// Restore reinserts a previously persisted record, advancing the id counter
// past it so future allocations never collide. It exists for journal replay
// at startup and performs no validation.
func (s *Store) Restore(rec Record) {
	r := rec
	s.insert(&r)
	if rec.ID > s.nextID {
		s.nextID = rec.ID
	}
}

func (s *Store) insert(rec *Record) {
	s.records[rec.ID] = rec

	pair := pairKey{owner: rec.Owner, assetID: rec.AssetID}
	s.byPair[pair] = append(s.byPair[pair], rec.ID)

	user := userKey{user: rec.User, assetID: rec.AssetID}
	s.byUser[user] = append(s.byUser[user], rec.ID)
}

func (s *Store) remove(rec *Record) {
	delete(s.records, rec.ID)

	pair := pairKey{owner: rec.Owner, assetID: rec.AssetID}
	s.byPair[pair] = dropID(s.byPair[pair], rec.ID)
	if len(s.byPair[pair]) == 0 {
		delete(s.byPair, pair)
	}

	user := userKey{user: rec.User, assetID: rec.AssetID}
	s.byUser[user] = dropID(s.byUser[user], rec.ID)
	if len(s.byUser[user]) == 0 {
		delete(s.byUser, user)
	}
}

func (s *Store) expirePair(pair pairKey, now time.Time) {
	ids := s.byPair[pair]
	for _, id := range append([]uint64(nil), ids...) {
		if rec := s.records[id]; rec.Expired(now) {
			s.remove(rec)
		}
	}
}

// dropID removes the first occurrence of id, preserving order.
func dropID(ids []uint64, id uint64) []uint64 {
	for i, v := range ids {
		if v == id {
			return append(ids[:i], ids[i+1:]...)
		}
	}
	return ids
}
