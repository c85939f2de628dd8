package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"vouch/internal/trust/models"
	id "vouch/pkg/domain"
	"vouch/pkg/platform/httputil"
	"vouch/pkg/requestcontext"
)

// Service defines the interface for trust-rating operations.
type Service interface {
	GetOrCalculateTrustRating(ctx context.Context, userID id.UserID) (*models.TrustRating, error)
	RecalculateTrustRating(ctx context.Context, userID id.UserID) (*models.TrustRating, error)
	GetOrCalculateBusinessTrustRating(ctx context.Context, businessID id.BusinessID) (*models.BusinessTrustRating, error)
	RecalculateBusinessTrustRating(ctx context.Context, businessID id.BusinessID) (*models.BusinessTrustRating, error)
}

// Handler wires trust endpoints to the trust service.
type Handler struct {
	service Service
	logger  *slog.Logger
}

// New constructs a trust handler with its dependencies.
func New(service Service, logger *slog.Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Register mounts trust endpoints on the router.
func (h *Handler) Register(r chi.Router) {
	r.Get("/trust/users/{userID}", h.HandleGetUserRating)
	r.Post("/trust/users/{userID}/recalculate", h.HandleRecalculateUserRating)
	r.Get("/trust/businesses/{businessID}", h.HandleGetBusinessRating)
	r.Post("/trust/businesses/{businessID}/recalculate", h.HandleRecalculateBusinessRating)
}

// HandleGetUserRating handles GET /trust/users/{userID} requests. A missing
// rating row is not an error: the first read calculates and persists one.
func (h *Handler) HandleGetUserRating(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	userID, err := id.ParseUserID(chi.URLParam(r, "userID"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	rating, err := h.service.GetOrCalculateTrustRating(ctx, userID)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to get trust rating",
			"request_id", requestID,
			"user_id", userID.String(),
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, FromTrustRating(rating))
}

// HandleRecalculateUserRating handles POST /trust/users/{userID}/recalculate
// requests.
func (h *Handler) HandleRecalculateUserRating(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)
	start := time.Now()

	userID, err := id.ParseUserID(chi.URLParam(r, "userID"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	rating, err := h.service.RecalculateTrustRating(ctx, userID)
	if err != nil {
		h.logger.ErrorContext(ctx, "trust recalculation failed",
			"request_id", requestID,
			"user_id", userID.String(),
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}

	h.logger.InfoContext(ctx, "trust rating recalculated",
		"request_id", requestID,
		"user_id", userID.String(),
		"overall_score", rating.OverallScore.StringFixed(2),
		"caller", requestcontext.Caller(ctx),
		"duration_ms", time.Since(start).Milliseconds(),
	)

	httputil.WriteJSON(w, http.StatusOK, FromTrustRating(rating))
}

// HandleGetBusinessRating handles GET /trust/businesses/{businessID} requests.
func (h *Handler) HandleGetBusinessRating(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	businessID, err := id.ParseBusinessID(chi.URLParam(r, "businessID"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	rating, err := h.service.GetOrCalculateBusinessTrustRating(ctx, businessID)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to get business trust rating",
			"request_id", requestID,
			"business_id", businessID.String(),
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, FromBusinessTrustRating(rating))
}

// HandleRecalculateBusinessRating handles
// POST /trust/businesses/{businessID}/recalculate requests.
func (h *Handler) HandleRecalculateBusinessRating(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)
	start := time.Now()

	businessID, err := id.ParseBusinessID(chi.URLParam(r, "businessID"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	rating, err := h.service.RecalculateBusinessTrustRating(ctx, businessID)
	if err != nil {
		h.logger.ErrorContext(ctx, "business trust recalculation failed",
			"request_id", requestID,
			"business_id", businessID.String(),
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}

	h.logger.InfoContext(ctx, "business trust rating recalculated",
		"request_id", requestID,
		"business_id", businessID.String(),
		"overall_score", rating.OverallScore.StringFixed(2),
		"caller", requestcontext.Caller(ctx),
		"duration_ms", time.Since(start).Milliseconds(),
	)

	httputil.WriteJSON(w, http.StatusOK, FromBusinessTrustRating(rating))
}
