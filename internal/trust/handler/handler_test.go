package handler

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vouch/internal/trust/models"
	id "vouch/pkg/domain"
	dErrors "vouch/pkg/domain-errors"
)

type stubService struct {
	getUserFn    func(ctx context.Context, userID id.UserID) (*models.TrustRating, error)
	recalcUserFn func(ctx context.Context, userID id.UserID) (*models.TrustRating, error)
	getBizFn     func(ctx context.Context, businessID id.BusinessID) (*models.BusinessTrustRating, error)
	recalcBizFn  func(ctx context.Context, businessID id.BusinessID) (*models.BusinessTrustRating, error)
}

func (s stubService) GetOrCalculateTrustRating(ctx context.Context, userID id.UserID) (*models.TrustRating, error) {
	return s.getUserFn(ctx, userID)
}

func (s stubService) RecalculateTrustRating(ctx context.Context, userID id.UserID) (*models.TrustRating, error) {
	return s.recalcUserFn(ctx, userID)
}

func (s stubService) GetOrCalculateBusinessTrustRating(ctx context.Context, businessID id.BusinessID) (*models.BusinessTrustRating, error) {
	return s.getBizFn(ctx, businessID)
}

func (s stubService) RecalculateBusinessTrustRating(ctx context.Context, businessID id.BusinessID) (*models.BusinessTrustRating, error) {
	return s.recalcBizFn(ctx, businessID)
}

func newTestRouter(svc Service) chi.Router {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	r := chi.NewRouter()
	New(svc, logger).Register(r)
	return r
}

func sampleRating(userID id.UserID) *models.TrustRating {
	now := time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)
	return &models.TrustRating{
		UserID:            userID,
		OverallScore:      decimal.RequireFromString("88.00"),
		ProfileScore:      decimal.RequireFromString("50.00"),
		VerificationScore: decimal.RequireFromString("100.00"),
		ReviewScore:       decimal.RequireFromString("100.00"),
		TransactionScore:  decimal.RequireFromString("90.00"),
		TotalReviews:      1,
		PositiveReviews:   1,
		LastCalculated:    now,
		CreatedAt:         now,
		UpdatedAt:         now,
	}
}

func TestHandleGetUserRating(t *testing.T) {
	userID := id.NewUserID()

	t.Run("returns the rating with fixed-point score strings", func(t *testing.T) {
		router := newTestRouter(stubService{
			getUserFn: func(_ context.Context, got id.UserID) (*models.TrustRating, error) {
				assert.Equal(t, userID, got)
				return sampleRating(userID), nil
			},
		})

		req := httptest.NewRequest(http.MethodGet, "/trust/users/"+userID.String(), nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		require.Equal(t, http.StatusOK, w.Code)
		var resp map[string]any
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, userID.String(), resp["user_id"])
		assert.Equal(t, "88.00", resp["overall_score"])
		assert.Equal(t, "50.00", resp["profile_score"])
		assert.Equal(t, float64(1), resp["total_reviews"])
	})

	t.Run("malformed user id is a 400 before the service is called", func(t *testing.T) {
		router := newTestRouter(stubService{
			getUserFn: func(context.Context, id.UserID) (*models.TrustRating, error) {
				t.Fatal("service must not be called")
				return nil, nil
			},
		})

		req := httptest.NewRequest(http.MethodGet, "/trust/users/not-a-uuid", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		var resp map[string]any
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, string(dErrors.CodeInvalidInput), resp["error"])
	})

	t.Run("unknown user maps to 404", func(t *testing.T) {
		router := newTestRouter(stubService{
			getUserFn: func(context.Context, id.UserID) (*models.TrustRating, error) {
				return nil, dErrors.New(dErrors.CodeNotFound, "user not found")
			},
		})

		req := httptest.NewRequest(http.MethodGet, "/trust/users/"+userID.String(), nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("signal source outage maps to 503", func(t *testing.T) {
		router := newTestRouter(stubService{
			getUserFn: func(context.Context, id.UserID) (*models.TrustRating, error) {
				return nil, dErrors.New(dErrors.CodeUnavailable, "signal read failed")
			},
		})

		req := httptest.NewRequest(http.MethodGet, "/trust/users/"+userID.String(), nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	})
}

func TestHandleRecalculateUserRating(t *testing.T) {
	userID := id.NewUserID()

	t.Run("forces a fresh calculation", func(t *testing.T) {
		called := false
		router := newTestRouter(stubService{
			recalcUserFn: func(_ context.Context, got id.UserID) (*models.TrustRating, error) {
				called = true
				assert.Equal(t, userID, got)
				return sampleRating(userID), nil
			},
		})

		req := httptest.NewRequest(http.MethodPost, "/trust/users/"+userID.String()+"/recalculate", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.True(t, called)
		require.Equal(t, http.StatusOK, w.Code)
		var resp map[string]any
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, "88.00", resp["overall_score"])
	})

	t.Run("invariant violations surface as opaque 500s", func(t *testing.T) {
		router := newTestRouter(stubService{
			recalcUserFn: func(context.Context, id.UserID) (*models.TrustRating, error) {
				return nil, dErrors.New(dErrors.CodeInvariantViolation, "average rating 7.2 outside [0.5, 5.0]")
			},
		})

		req := httptest.NewRequest(http.MethodPost, "/trust/users/"+userID.String()+"/recalculate", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusInternalServerError, w.Code)
		var resp map[string]any
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, string(dErrors.CodeInternal), resp["error"])
		assert.NotContains(t, w.Body.String(), "7.2", "violation details must not leak")
	})
}

func TestHandleBusinessRatingEndpoints(t *testing.T) {
	businessID := id.NewBusinessID()
	now := time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)
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

	t.Run("get returns the business rating", func(t *testing.T) {
		router := newTestRouter(stubService{
			getBizFn: func(_ context.Context, got id.BusinessID) (*models.BusinessTrustRating, error) {
				assert.Equal(t, businessID, got)
				return rating, nil
			},
		})

		req := httptest.NewRequest(http.MethodGet, "/trust/businesses/"+businessID.String(), nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		require.Equal(t, http.StatusOK, w.Code)
		var resp map[string]any
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, businessID.String(), resp["business_id"])
		assert.Equal(t, "43.75", resp["overall_score"])
		assert.Equal(t, "0.00", resp["review_score"])
		assert.Equal(t, true, resp["verified_with_third_party"])
	})

	t.Run("recalculate returns the fresh rating", func(t *testing.T) {
		router := newTestRouter(stubService{
			recalcBizFn: func(context.Context, id.BusinessID) (*models.BusinessTrustRating, error) {
				return rating, nil
			},
		})

		req := httptest.NewRequest(http.MethodPost, "/trust/businesses/"+businessID.String()+"/recalculate", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		require.Equal(t, http.StatusOK, w.Code)
		var resp map[string]any
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, "43.75", resp["overall_score"])
	})

	t.Run("malformed business id is a 400", func(t *testing.T) {
		router := newTestRouter(stubService{
			getBizFn: func(context.Context, id.BusinessID) (*models.BusinessTrustRating, error) {
				t.Fatal("service must not be called")
				return nil, nil
			},
		})

		req := httptest.NewRequest(http.MethodGet, "/trust/businesses/nope", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}
