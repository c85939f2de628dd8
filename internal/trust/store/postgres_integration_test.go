//go:build integration

package store_test

import (
	"context"
	"sync"
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

func TestPostgresRatingStore(t *testing.T) {
	pg := containers.NewPostgresContainer(t, store.Schema)
	s := store.NewPostgres(pg.DB)
	ctx := context.Background()

	truncate := func(t *testing.T) {
		t.Helper()
		require.NoError(t, pg.TruncateTables(ctx, "trust_ratings", "business_trust_ratings"))
	}

	t.Run("find returns nil for an unknown user", func(t *testing.T) {
		truncate(t)

		rating, err := s.FindUserRating(ctx, id.NewUserID())
		require.NoError(t, err)
		assert.Nil(t, rating)
	})

	t.Run("upsert creates then updates in place", func(t *testing.T) {
		truncate(t)

		userID := id.NewUserID()
		first := time.Date(2026, 2, 1, 12, 0, 0, 0, time.UTC)

		created, err := s.UpsertUserRating(ctx, &models.TrustRating{
			UserID:            userID,
			OverallScore:      decimal.RequireFromString("40.00"),
			ProfileScore:      decimal.RequireFromString("50.00"),
			VerificationScore: decimal.RequireFromString("25.00"),
			ReviewScore:       decimal.RequireFromString("75.00"),
			TransactionScore:  decimal.RequireFromString("50.00"),
			TotalReviews:      4,
			PositiveReviews:   3,
			LastCalculated:    first,
			UpdatedAt:         first,
		})
		require.NoError(t, err)
		assert.Equal(t, first, created.CreatedAt.UTC())

		second := first.Add(time.Hour)
		updated, err := s.UpsertUserRating(ctx, &models.TrustRating{
			UserID:            userID,
			OverallScore:      decimal.RequireFromString("88.00"),
			ProfileScore:      decimal.RequireFromString("50.00"),
			VerificationScore: decimal.RequireFromString("100.00"),
			ReviewScore:       decimal.RequireFromString("100.00"),
			TransactionScore:  decimal.RequireFromString("90.00"),
			TotalReviews:      5,
			PositiveReviews:   5,
			LastCalculated:    second,
			UpdatedAt:         second,
		})
		require.NoError(t, err)

		assert.Equal(t, userID, updated.UserID)
		assert.True(t, updated.OverallScore.Equal(decimal.RequireFromString("88.00")),
			"got %s", updated.OverallScore)
		assert.Equal(t, 5, updated.TotalReviews)
		assert.Equal(t, first, updated.CreatedAt.UTC(), "created_at must survive updates")
		assert.Equal(t, second, updated.UpdatedAt.UTC())

		found, err := s.FindUserRating(ctx, userID)
		require.NoError(t, err)
		require.NotNil(t, found)
		assert.True(t, found.OverallScore.Equal(updated.OverallScore))
	})

	t.Run("concurrent upserts leave one intact snapshot", func(t *testing.T) {
		truncate(t)

		userID := id.NewUserID()
		now := time.Now().UTC().Truncate(time.Microsecond)

		var wg sync.WaitGroup
		for i := 0; i < 10; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				_, err := s.UpsertUserRating(ctx, &models.TrustRating{
					UserID:            userID,
					OverallScore:      decimal.RequireFromString("88.00"),
					ProfileScore:      decimal.RequireFromString("50.00"),
					VerificationScore: decimal.RequireFromString("100.00"),
					ReviewScore:       decimal.RequireFromString("100.00"),
					TransactionScore:  decimal.RequireFromString("90.00"),
					TotalReviews:      5,
					PositiveReviews:   5,
					LastCalculated:    now,
					UpdatedAt:         now,
				})
				assert.NoError(t, err)
			}()
		}
		wg.Wait()

		found, err := s.FindUserRating(ctx, userID)
		require.NoError(t, err)
		require.NotNil(t, found)
		assert.True(t, found.OverallScore.Equal(decimal.RequireFromString("88.00")))
		assert.Equal(t, 5, found.TotalReviews)
	})

	t.Run("business rating roundtrip", func(t *testing.T) {
		truncate(t)

		businessID := id.NewBusinessID()
		now := time.Date(2026, 2, 1, 12, 0, 0, 0, time.UTC)

		stored, err := s.UpsertBusinessRating(ctx, &models.BusinessTrustRating{
			BusinessID:             businessID,
			OverallScore:           decimal.RequireFromString("43.75"),
			ProfileScore:           decimal.RequireFromString("75.00"),
			VerificationScore:      decimal.RequireFromString("100.00"),
			ReviewScore:            decimal.Zero,
			TransactionScore:       decimal.Zero,
			VerifiedWithThirdParty: true,
			LastCalculated:         now,
			UpdatedAt:              now,
		})
		require.NoError(t, err)
		assert.True(t, stored.VerifiedWithThirdParty)

		found, err := s.FindBusinessRating(ctx, businessID)
		require.NoError(t, err)
		require.NotNil(t, found)
		assert.True(t, found.OverallScore.Equal(decimal.RequireFromString("43.75")))
		assert.True(t, found.ReviewScore.Equal(decimal.Zero))
	})
}
