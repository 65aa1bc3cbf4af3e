// Package rights implements the usage-rights delegation core: delegation
// records, the bounded per-pair record store with lazy expiry, and the
// frozen-balance accounting derived from it.
package rights

import (
	"time"

	"github.com/ethereum/go-ethereum/common"
)

// Record is one time-bound grant of usage rights: the owner delegates a
// bounded quantity of one asset to a user until a fixed expiry, without
// transferring ownership. Records are immutable once created; they are
// removed either by explicit deletion or by lazy expiry.
type Record struct {
	ID      uint64
	Owner   common.Address
	User    common.Address
	AssetID uint64
	Amount  uint64
	Expiry  time.Time
}

// Expired reports whether the record's grant has lapsed at the given time.
// A record expires the moment the clock reaches its expiry.
func (r Record) Expired(now time.Time) bool {
	return !r.Expiry.After(now)
}
