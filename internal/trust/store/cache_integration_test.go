//go:build integration

package store_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vouch/internal/trust/models"
	"vouch/internal/trust/store"
	id "vouch/pkg/domain"
	"vouch/pkg/testutil/containers"
)

func TestRatingCache(t *testing.T) {
	rc := containers.NewRedisContainer(t)
	cache := store.NewRatingCache(rc.Client, time.Minute)
	ctx := context.Background()

	t.Run("miss returns nil without error", func(t *testing.T) {
		require.NoError(t, rc.FlushAll(ctx))

		rating, err := cache.GetUserRating(ctx, id.NewUserID())
		require.NoError(t, err)
		assert.Nil(t, rating)
	})

	t.Run("user rating roundtrip preserves scores exactly", func(t *testing.T) {
		require.NoError(t, rc.FlushAll(ctx))

		userID := id.NewUserID()
		now := time.Date(2026, 2, 1, 12, 0, 0, 0, time.UTC)
		rating := &models.TrustRating{
			UserID:            userID,
			OverallScore:      decimal.RequireFromString("88.00"),
			ProfileScore:      decimal.RequireFromString("50.00"),
			VerificationScore: decimal.RequireFromString("100.00"),
			ReviewScore:       decimal.RequireFromString("100.00"),
			TransactionScore:  decimal.RequireFromString("90.00"),
			TotalReviews:      5,
			PositiveReviews:   5,
			LastCalculated:    now,
			CreatedAt:         now,
			UpdatedAt:         now,
		}
		require.NoError(t, cache.SetUserRating(ctx, rating))

		cached, err := cache.GetUserRating(ctx, userID)
		require.NoError(t, err)
		require.NotNil(t, cached)
		assert.Equal(t, userID, cached.UserID)
		assert.True(t, cached.OverallScore.Equal(rating.OverallScore))
		assert.Equal(t, 5, cached.TotalReviews)
		assert.True(t, cached.LastCalculated.Equal(now))
	})

	t.Run("business rating roundtrip", func(t *testing.T) {
		require.NoError(t, rc.FlushAll(ctx))

		businessID := id.NewBusinessID()
		now := time.Date(2026, 2, 1, 12, 0, 0, 0, time.UTC)
		rating := &models.BusinessTrustRating{
			BusinessID:             businessID,
			OverallScore:           decimal.RequireFromString("43.75"),
			ProfileScore:           decimal.RequireFromString("75.00"),
			VerificationScore:      decimal.RequireFromString("100.00"),
			VerifiedWithThirdParty: true,
			LastCalculated:         now,
			CreatedAt:              now,
			UpdatedAt:              now,
		}
		require.NoError(t, cache.SetBusinessRating(ctx, rating))

		cached, err := cache.GetBusinessRating(ctx, businessID)
		require.NoError(t, err)
		require.NotNil(t, cached)
		assert.True(t, cached.OverallScore.Equal(rating.OverallScore))
		assert.True(t, cached.VerifiedWithThirdParty)
	})

	t.Run("entries expire after the TTL", func(t *testing.T) {
		require.NoError(t, rc.FlushAll(ctx))

		shortCache := store.NewRatingCache(rc.Client, 100*time.Millisecond)
		userID := id.NewUserID()
		now := time.Now().UTC()
		require.NoError(t, shortCache.SetUserRating(ctx, &models.TrustRating{
			UserID:         userID,
			LastCalculated: now,
			CreatedAt:      now,
			UpdatedAt:      now,
		}))

		time.Sleep(200 * time.Millisecond)

		cached, err := shortCache.GetUserRating(ctx, userID)
		require.NoError(t, err)
		assert.Nil(t, cached)
	})
}
