//go:build integration

package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"discountgate/pkg/platform/sentinel"
	"discountgate/pkg/testutil/containers"
)

const policiesSchema = `
CREATE TABLE IF NOT EXISTS discount_policies (
    store_id            TEXT PRIMARY KEY,
    max_eligible_amount BIGINT NOT NULL,
    restricted_codes    TEXT[] NOT NULL DEFAULT '{}',
    custom_rule         TEXT NOT NULL DEFAULT '',
    updated_at          TIMESTAMPTZ NOT NULL DEFAULT now()
)`

func TestPostgresStoreIntegration(t *testing.T) {
	pc := containers.NewPostgresContainer(t)
	ctx := context.Background()

	_, err := pc.DB.ExecContext(ctx, policiesSchema)
	require.NoError(t, err)

	s := NewPostgres(pc.DB)

	t.Run("round trips a policy with codes array", func(t *testing.T) {
		rec := &Record{
			StoreID:           "shop-1",
			MaxEligibleAmount: 100000,
			RestrictedCodes:   []string{"WELCOME50", "WELCOME15"},
			CustomRule:        "total_minor <= 150000",
		}
		require.NoError(t, s.Put(ctx, rec))

		found, err := s.Get(ctx, "shop-1")
		require.NoError(t, err)
		assert.Equal(t, int64(100000), found.MaxEligibleAmount)
		assert.Equal(t, []string{"WELCOME50", "WELCOME15"}, found.RestrictedCodes)
		assert.Equal(t, "total_minor <= 150000", found.CustomRule)
		assert.False(t, found.UpdatedAt.IsZero())
	})

	t.Run("upsert replaces existing record", func(t *testing.T) {
		require.NoError(t, s.Put(ctx, &Record{
			StoreID:           "shop-1",
			MaxEligibleAmount: 50000,
			RestrictedCodes:   []string{"VIP25"},
		}))

		found, err := s.Get(ctx, "shop-1")
		require.NoError(t, err)
		assert.Equal(t, int64(50000), found.MaxEligibleAmount)
		assert.Equal(t, []string{"VIP25"}, found.RestrictedCodes)
	})

	t.Run("unknown store maps to ErrNotFound", func(t *testing.T) {
		_, err := s.Get(ctx, "missing")
		assert.ErrorIs(t, err, sentinel.ErrNotFound)
	})
}
