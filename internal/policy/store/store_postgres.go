package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/lib/pq"

	"discountgate/pkg/platform/sentinel"
)

// Postgres implements Store on database/sql with the lib/pq driver.
//
// Schema:
//
//	CREATE TABLE discount_policies (
//	    store_id            TEXT PRIMARY KEY,
//	    max_eligible_amount BIGINT NOT NULL,
//	    restricted_codes    TEXT[] NOT NULL DEFAULT '{}',
//	    custom_rule         TEXT NOT NULL DEFAULT '',
//	    updated_at          TIMESTAMPTZ NOT NULL DEFAULT now()
//	);
type Postgres struct {
	db    *sql.DB
	clock func() time.Time
}

// PostgresOption configures a Postgres store.
type PostgresOption func(*Postgres)

// WithClock sets the time source for testability.
func WithClock(clock func() time.Time) PostgresOption {
	return func(s *Postgres) {
		if clock != nil {
			s.clock = clock
		}
	}
}

// NewPostgres constructs a Postgres-backed policy store.
func NewPostgres(db *sql.DB, opts ...PostgresOption) *Postgres {
	s := &Postgres{db: db, clock: time.Now}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

func (s *Postgres) Get(ctx context.Context, storeID string) (*Record, error) {
	query := `
		SELECT store_id, max_eligible_amount, restricted_codes, custom_rule, updated_at
		FROM discount_policies
		WHERE store_id = $1
	`
	var rec Record
	var codes pq.StringArray
	err := s.db.QueryRowContext(ctx, query, storeID).Scan(
		&rec.StoreID,
		&rec.MaxEligibleAmount,
		&codes,
		&rec.CustomRule,
		&rec.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, sentinel.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get policy: %w", err)
	}
	rec.RestrictedCodes = []string(codes)
	return &rec, nil
}

func (s *Postgres) Put(ctx context.Context, rec *Record) error {
	query := `
		INSERT INTO discount_policies (store_id, max_eligible_amount, restricted_codes, custom_rule, updated_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (store_id) DO UPDATE SET
			max_eligible_amount = EXCLUDED.max_eligible_amount,
			restricted_codes = EXCLUDED.restricted_codes,
			custom_rule = EXCLUDED.custom_rule,
			updated_at = EXCLUDED.updated_at
	`
	updatedAt := rec.UpdatedAt
	if updatedAt.IsZero() {
		updatedAt = s.clock()
	}
	_, err := s.db.ExecContext(ctx, query,
		rec.StoreID,
		rec.MaxEligibleAmount,
		pq.Array(rec.RestrictedCodes),
		rec.CustomRule,
		updatedAt,
	)
	if err != nil {
		return fmt.Errorf("put policy: %w", err)
	}
	return nil
}
