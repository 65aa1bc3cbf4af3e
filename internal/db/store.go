// Package db provides the optional postgres write-through journal. The
// in-memory ledger and record store stay authoritative; this store persists
// committed mutations and replays them into fresh state at startup, so a
// restarted node resumes with the balances, approvals and records it had.
package db

import (
	"context"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pkg/errors"
	"github.com/rentium/rentium-api/internal/ledger"
	"github.com/rentium/rentium-api/internal/logger"
	"github.com/rentium/rentium-api/internal/rights"
	"go.uber.org/zap"
)

const schema = `
CREATE TABLE IF NOT EXISTS balances (
	holder     TEXT   NOT NULL,
	asset_id   BIGINT NOT NULL,
	balance    BIGINT NOT NULL,
	PRIMARY KEY (holder, asset_id)
);

CREATE TABLE IF NOT EXISTS approvals (
	holder     TEXT NOT NULL,
	operator   TEXT NOT NULL,
	PRIMARY KEY (holder, operator)
);

CREATE TABLE IF NOT EXISTS user_records (
	record_id  BIGINT PRIMARY KEY,
	owner      TEXT        NOT NULL,
	user_addr  TEXT        NOT NULL,
	asset_id   BIGINT      NOT NULL,
	amount     BIGINT      NOT NULL,
	expiry     TIMESTAMPTZ NOT NULL
);

CREATE TABLE IF NOT EXISTS ledger_events (
	id         UUID        PRIMARY KEY,
	event_type TEXT        NOT NULL,
	payload    JSONB       NOT NULL,
	created_at TIMESTAMPTZ NOT NULL
);
`

// Store journals ledger state to postgres. It implements services.Journal.
type Store struct {
	pool   *pgxpool.Pool
	logger *zap.Logger
}

// Connect opens a connection pool against the given database URL.
func Connect(ctx context.Context, databaseURL string) (*Store, error) {
	poolConfig, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, errors.Wrap(err, "failed to parse database connection string")
	}

	poolConfig.MaxConns = 10
	poolConfig.MaxConnLifetime = time.Hour
	poolConfig.MaxConnIdleTime = 30 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create connection pool")
	}

	return &Store{
		pool:   pool,
		logger: logger.Log,
	}, nil
}

// EnsureSchema creates the journal tables when they do not exist yet.
func (s *Store) EnsureSchema(ctx context.Context) error {
	if _, err := s.pool.Exec(ctx, schema); err != nil {
		return errors.Wrap(err, "failed to ensure schema")
	}
	return nil
}

// Close releases the connection pool.
func (s *Store) Close() {
	s.pool.Close()
}

// RecordCreated persists a freshly created delegation record.
func (s *Store) RecordCreated(ctx context.Context, rec rights.Record) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO user_records (record_id, owner, user_addr, asset_id, amount, expiry)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 ON CONFLICT (record_id) DO NOTHING`,
		int64(rec.ID), rec.Owner.Hex(), rec.User.Hex(), int64(rec.AssetID), int64(rec.Amount), rec.Expiry)
	if err != nil {
		return errors.Wrapf(err, "failed to persist record %d", rec.ID)
	}

	return s.appendEvent(ctx, "record_created", map[string]interface{}{
		"record_id": rec.ID,
		"owner":     rec.Owner.Hex(),
		"user":      rec.User.Hex(),
		"asset_id":  rec.AssetID,
		"amount":    rec.Amount,
		"expiry":    rec.Expiry.UTC(),
	})
}

// RecordDeleted removes a record from the journal after deletion or expiry.
func (s *Store) RecordDeleted(ctx context.Context, recordID uint64) error {
	_, err := s.pool.Exec(ctx,
		`DELETE FROM user_records WHERE record_id = $1`, int64(recordID))
	if err != nil {
		return errors.Wrapf(err, "failed to delete record %d", recordID)
	}

	return s.appendEvent(ctx, "record_deleted", map[string]interface{}{
		"record_id": recordID,
	})
}

// BalanceChanged upserts the holder's new raw balance for one asset.
func (s *Store) BalanceChanged(ctx context.Context, holder common.Address, assetID, balance uint64) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO balances (holder, asset_id, balance)
		 VALUES ($1, $2, $3)
		 ON CONFLICT (holder, asset_id) DO UPDATE SET balance = EXCLUDED.balance`,
		holder.Hex(), int64(assetID), int64(balance))
	if err != nil {
		return errors.Wrapf(err, "failed to persist balance of %s for asset %d", holder.Hex(), assetID)
	}
	return nil
}

// ApprovalChanged records or clears an operator approval.
func (s *Store) ApprovalChanged(ctx context.Context, holder, operator common.Address, approved bool) error {
	var err error
	if approved {
		_, err = s.pool.Exec(ctx,
			`INSERT INTO approvals (holder, operator) VALUES ($1, $2) ON CONFLICT DO NOTHING`,
			holder.Hex(), operator.Hex())
	} else {
		_, err = s.pool.Exec(ctx,
			`DELETE FROM approvals WHERE holder = $1 AND operator = $2`,
			holder.Hex(), operator.Hex())
	}
	if err != nil {
		return errors.Wrap(err, "failed to persist approval change")
	}
	return nil
}

// LoadState replays the journal into a fresh ledger and record store.
func (s *Store) LoadState(ctx context.Context, l *ledger.MemoryLedger, store *rights.Store) error {
	rows, err := s.pool.Query(ctx, `SELECT holder, asset_id, balance FROM balances`)
	if err != nil {
		return errors.Wrap(err, "failed to load balances")
	}
	defer rows.Close()

	for rows.Next() {
		var holder string
		var assetID, balance int64
		if err := rows.Scan(&holder, &assetID, &balance); err != nil {
			return errors.Wrap(err, "failed to scan balance row")
		}
		l.SetBalance(common.HexToAddress(holder), uint64(assetID), uint64(balance))
	}
	if err := rows.Err(); err != nil {
		return errors.Wrap(err, "failed to iterate balance rows")
	}

	approvalRows, err := s.pool.Query(ctx, `SELECT holder, operator FROM approvals`)
	if err != nil {
		return errors.Wrap(err, "failed to load approvals")
	}
	defer approvalRows.Close()

	for approvalRows.Next() {
		var holder, operator string
		if err := approvalRows.Scan(&holder, &operator); err != nil {
			return errors.Wrap(err, "failed to scan approval row")
		}
		if err := l.SetApprovalForAll(ctx, common.HexToAddress(holder), common.HexToAddress(operator), true); err != nil {
			return errors.Wrap(err, "failed to restore approval")
		}
	}
	if err := approvalRows.Err(); err != nil {
		return errors.Wrap(err, "failed to iterate approval rows")
	}

	recordRows, err := s.pool.Query(ctx,
		`SELECT record_id, owner, user_addr, asset_id, amount, expiry FROM user_records ORDER BY record_id`)
	if err != nil {
		return errors.Wrap(err, "failed to load records")
	}
	defer recordRows.Close()

	now := time.Now()
	restored, stale := 0, 0
	for recordRows.Next() {
		var recordID, assetID, amount int64
		var owner, user string
		var expiry time.Time
		if err := recordRows.Scan(&recordID, &owner, &user, &assetID, &amount, &expiry); err != nil {
			return errors.Wrap(err, "failed to scan record row")
		}

		rec := rights.Record{
			ID:      uint64(recordID),
			Owner:   common.HexToAddress(owner),
			User:    common.HexToAddress(user),
			AssetID: uint64(assetID),
			Amount:  uint64(amount),
			Expiry:  expiry,
		}
		// Expired records are restored as-is so the id counter still
		// advances past them; the next lazy sweep reclaims them.
		store.Restore(rec)
		if rec.Expired(now) {
			stale++
		} else {
			restored++
		}
	}
	if err := recordRows.Err(); err != nil {
		return errors.Wrap(err, "failed to iterate record rows")
	}

	s.logger.Info("Ledger state restored from journal",
		zap.Int("records_restored", restored),
		zap.Int("records_pending_expiry", stale))

	return nil
}

func (s *Store) appendEvent(ctx context.Context, eventType string, payload map[string]interface{}) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO ledger_events (id, event_type, payload, created_at) VALUES ($1, $2, $3, $4)`,
		uuid.New().String(), eventType, payload, time.Now().UTC())
	if err != nil {
		return errors.Wrapf(err, "failed to append %s event", eventType)
	}
	return nil
}
