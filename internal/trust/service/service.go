// Package service implements the recalculation coordinator: the only entry
// points collaborators use to read or refresh a trust rating.
//
// Every recalculation is a full recompute. The coordinator reads all signal
// sources fresh into one immutable SignalSet, scores it, and persists the
// complete result in a single atomic upsert. No step ever applies a delta to
// the previous rating, which makes concurrent triggers for the same subject
// commutative: both writers produce full, equally valid snapshots and the
// row ends up as one of them, never a mix.
package service

import (
	"context"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"golang.org/x/sync/errgroup"

	"vouch/internal/trust/metrics"
	"vouch/internal/trust/models"
	"vouch/internal/trust/scorer"
	"vouch/internal/trust/signals"
	id "vouch/pkg/domain"
	dErrors "vouch/pkg/domain-errors"
	"vouch/pkg/requestcontext"
)

var tracer = otel.Tracer("vouch/internal/trust/service")

// RatingStore persists computed ratings. Find returns nil without error when
// no rating exists yet. Upsert must be atomic per subject row.
type RatingStore interface {
	FindUserRating(ctx context.Context, userID id.UserID) (*models.TrustRating, error)
	UpsertUserRating(ctx context.Context, rating *models.TrustRating) (*models.TrustRating, error)
	FindBusinessRating(ctx context.Context, businessID id.BusinessID) (*models.BusinessTrustRating, error)
	UpsertBusinessRating(ctx context.Context, rating *models.BusinessTrustRating) (*models.BusinessTrustRating, error)
}

// Cache is the optional read cache in front of the store. All methods are
// best-effort; errors are logged and ignored.
type Cache interface {
	GetUserRating(ctx context.Context, userID id.UserID) (*models.TrustRating, error)
	SetUserRating(ctx context.Context, rating *models.TrustRating) error
	GetBusinessRating(ctx context.Context, businessID id.BusinessID) (*models.BusinessTrustRating, error)
	SetBusinessRating(ctx context.Context, rating *models.BusinessTrustRating) error
}

// Service coordinates trust rating reads and recalculations.
type Service struct {
	users      signals.UserSource
	businesses signals.BusinessSource
	ratings    RatingStore
	cache      Cache
	strategy   scorer.Strategy
	logger     *slog.Logger
	metrics    *metrics.Metrics
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) { s.logger = logger }
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) { s.metrics = m }
}

func WithCache(cache Cache) Option {
	return func(s *Service) { s.cache = cache }
}

func WithStrategy(strategy scorer.Strategy) Option {
	return func(s *Service) { s.strategy = strategy }
}

func New(users signals.UserSource, businesses signals.BusinessSource, ratings RatingStore, opts ...Option) (*Service, error) {
	if users == nil {
		return nil, dErrors.New(dErrors.CodeInternal, "user signal source is required")
	}
	if businesses == nil {
		return nil, dErrors.New(dErrors.CodeInternal, "business signal source is required")
	}
	if ratings == nil {
		return nil, dErrors.New(dErrors.CodeInternal, "rating store is required")
	}

	svc := &Service{
		users:      users,
		businesses: businesses,
		ratings:    ratings,
		strategy:   scorer.UnweightedMean{},
		logger:     slog.Default(),
	}
	for _, opt := range opts {
		opt(svc)
	}
	return svc, nil
}

// GetOrCalculateTrustRating returns the stored rating for a user, computing
// and persisting it on first access.
func (s *Service) GetOrCalculateTrustRating(ctx context.Context, userID id.UserID) (*models.TrustRating, error) {
	if userID.IsNil() {
		return nil, dErrors.New(dErrors.CodeBadRequest, "user_id is required")
	}

	if s.cache != nil {
		cached, err := s.cache.GetUserRating(ctx, userID)
		if err != nil {
			s.logger.WarnContext(ctx, "rating cache read failed", "user_id", userID.String(), "error", err)
		}
		if cached != nil {
			s.incrementCacheHits()
			return cached, nil
		}
		s.incrementCacheMisses()
	}

	rating, err := s.ratings.FindUserRating(ctx, userID)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load trust rating")
	}
	if rating != nil {
		s.cacheUserRating(ctx, rating)
		return rating, nil
	}

	return s.RecalculateTrustRating(ctx, userID)
}

// RecalculateTrustRating performs a full fresh recompute for a user and
// persists the result. Called after every signal-mutating event: review
// create/update/delete, document approval or rejection, subscription
// activation or cancellation, profile field change.
func (s *Service) RecalculateTrustRating(ctx context.Context, userID id.UserID) (rating *models.TrustRating, err error) {
	if userID.IsNil() {
		return nil, dErrors.New(dErrors.CodeBadRequest, "user_id is required")
	}

	ctx, span := tracer.Start(ctx, "trust.recalculate_user")
	defer span.End()
	span.SetAttributes(attribute.String("trust.user_id", userID.String()))

	start := time.Now()
	defer func() { s.observeRecalculation(models.SubjectUser, err, time.Since(start)) }()
	defer func() {
		if err != nil {
			span.RecordError(err)
		}
	}()

	exists, err := s.users.UserExists(ctx, userID)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeUnavailable, "failed to check user existence")
	}
	if !exists {
		return nil, dErrors.New(dErrors.CodeNotFound, "user not found")
	}

	set, err := s.fetchUserSignals(ctx, userID)
	if err != nil {
		// The previous rating row stays untouched; the caller decides whether
		// to retry. A read failure must never surface as a zero score.
		return nil, dErrors.Wrap(err, dErrors.CodeUnavailable, "signal read failed")
	}

	components, err := scorer.ScoreComponents(models.SubjectUser, set)
	if err != nil {
		return nil, err
	}
	overall := s.strategy.Aggregate(models.SubjectUser, set, components)

	now := requestcontext.Now(ctx)
	stored, err := s.ratings.UpsertUserRating(ctx, &models.TrustRating{
		UserID:            userID,
		OverallScore:      overall,
		ProfileScore:      components.Profile,
		VerificationScore: components.Verification,
		ReviewScore:       components.Review,
		TransactionScore:  components.Transaction,
		TotalReviews:      set.Reviews.Total,
		PositiveReviews:   set.Reviews.Positive,
		LastCalculated:    now,
		UpdatedAt:         now,
	})
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to persist trust rating")
	}

	s.cacheUserRating(ctx, stored)
	s.logger.InfoContext(ctx, "trust rating recalculated",
		"user_id", userID.String(),
		"overall_score", stored.OverallScore.StringFixed(2),
		"strategy", s.strategy.Name(),
	)
	return stored, nil
}

// GetOrCalculateBusinessTrustRating returns the stored rating for a
// business, computing and persisting it on first access.
func (s *Service) GetOrCalculateBusinessTrustRating(ctx context.Context, businessID id.BusinessID) (*models.BusinessTrustRating, error) {
	if businessID.IsNil() {
		return nil, dErrors.New(dErrors.CodeBadRequest, "business_id is required")
	}

	if s.cache != nil {
		cached, err := s.cache.GetBusinessRating(ctx, businessID)
		if err != nil {
			s.logger.WarnContext(ctx, "rating cache read failed", "business_id", businessID.String(), "error", err)
		}
		if cached != nil {
			s.incrementCacheHits()
			return cached, nil
		}
		s.incrementCacheMisses()
	}

	rating, err := s.ratings.FindBusinessRating(ctx, businessID)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load business trust rating")
	}
	if rating != nil {
		s.cacheBusinessRating(ctx, rating)
		return rating, nil
	}

	return s.RecalculateBusinessTrustRating(ctx, businessID)
}

// RecalculateBusinessTrustRating performs a full fresh recompute for a
// business. Review and transaction components stay zero until business-level
// sources exist; they still hold their place in the 4-way average.
func (s *Service) RecalculateBusinessTrustRating(ctx context.Context, businessID id.BusinessID) (rating *models.BusinessTrustRating, err error) {
	if businessID.IsNil() {
		return nil, dErrors.New(dErrors.CodeBadRequest, "business_id is required")
	}

	ctx, span := tracer.Start(ctx, "trust.recalculate_business")
	defer span.End()
	span.SetAttributes(attribute.String("trust.business_id", businessID.String()))

	start := time.Now()
	defer func() { s.observeRecalculation(models.SubjectBusiness, err, time.Since(start)) }()
	defer func() {
		if err != nil {
			span.RecordError(err)
		}
	}()

	exists, err := s.businesses.BusinessExists(ctx, businessID)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeUnavailable, "failed to check business existence")
	}
	if !exists {
		return nil, dErrors.New(dErrors.CodeNotFound, "business not found")
	}

	set, err := s.fetchBusinessSignals(ctx, businessID)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeUnavailable, "signal read failed")
	}

	components, err := scorer.ScoreComponents(models.SubjectBusiness, set)
	if err != nil {
		return nil, err
	}
	overall := s.strategy.Aggregate(models.SubjectBusiness, set, components)

	now := requestcontext.Now(ctx)
	stored, err := s.ratings.UpsertBusinessRating(ctx, &models.BusinessTrustRating{
		BusinessID:             businessID,
		OverallScore:           overall,
		ProfileScore:           components.Profile,
		VerificationScore:      components.Verification,
		ReviewScore:            components.Review,
		TransactionScore:       components.Transaction,
		VerifiedWithThirdParty: set.VerifiedWithThirdParty,
		LastCalculated:         now,
		UpdatedAt:              now,
	})
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to persist business trust rating")
	}

	s.cacheBusinessRating(ctx, stored)
	s.logger.InfoContext(ctx, "business trust rating recalculated",
		"business_id", businessID.String(),
		"overall_score", stored.OverallScore.StringFixed(2),
		"strategy", s.strategy.Name(),
	)
	return stored, nil
}

// fetchUserSignals reads all five signal sources fresh, in parallel, with
// shared cancellation: one failed read aborts the whole snapshot.
func (s *Service) fetchUserSignals(ctx context.Context, userID id.UserID) (models.SignalSet, error) {
	g, ctx := errgroup.WithContext(ctx)
	var set models.SignalSet

	g.Go(func() error {
		profile, err := s.users.ProfileSignals(ctx, userID)
		set.Profile = profile
		return err
	})
	g.Go(func() error {
		docs, err := s.users.DocumentSignals(ctx, userID)
		set.Documents = docs
		return err
	})
	g.Go(func() error {
		reviews, err := s.users.ReviewSignals(ctx, userID)
		set.Reviews = reviews
		return err
	})
	g.Go(func() error {
		transactions, err := s.users.TransactionSignals(ctx, userID)
		set.Transactions = transactions
		return err
	})
	g.Go(func() error {
		active, err := s.users.SubscriptionActive(ctx, userID)
		set.ActiveSubscription = active
		return err
	})

	if err := g.Wait(); err != nil {
		return models.SignalSet{}, err
	}
	return set, nil
}

func (s *Service) fetchBusinessSignals(ctx context.Context, businessID id.BusinessID) (models.SignalSet, error) {
	g, ctx := errgroup.WithContext(ctx)
	var set models.SignalSet

	g.Go(func() error {
		profile, err := s.businesses.BusinessProfileSignals(ctx, businessID)
		set.Profile = profile
		return err
	})
	g.Go(func() error {
		docs, err := s.businesses.BusinessDocumentSignals(ctx, businessID)
		set.Documents = docs
		return err
	})
	g.Go(func() error {
		verified, err := s.businesses.BusinessVerifiedWithThirdParty(ctx, businessID)
		set.VerifiedWithThirdParty = verified
		return err
	})

	if err := g.Wait(); err != nil {
		return models.SignalSet{}, err
	}
	return set, nil
}

func (s *Service) cacheUserRating(ctx context.Context, rating *models.TrustRating) {
	if s.cache == nil {
		return
	}
	if err := s.cache.SetUserRating(ctx, rating); err != nil {
		s.logger.WarnContext(ctx, "rating cache write failed", "user_id", rating.UserID.String(), "error", err)
	}
}

func (s *Service) cacheBusinessRating(ctx context.Context, rating *models.BusinessTrustRating) {
	if s.cache == nil {
		return
	}
	if err := s.cache.SetBusinessRating(ctx, rating); err != nil {
		s.logger.WarnContext(ctx, "rating cache write failed", "business_id", rating.BusinessID.String(), "error", err)
	}
}

func (s *Service) observeRecalculation(kind models.SubjectKind, err error, elapsed time.Duration) {
	if s.metrics == nil {
		return
	}
	outcome := "success"
	if err != nil {
		outcome = string(dErrors.CodeOf(err))
	}
	s.metrics.ObserveRecalculation(string(kind), outcome, elapsed)
}

func (s *Service) incrementCacheHits() {
	if s.metrics != nil {
		s.metrics.IncrementCacheHits()
	}
}

func (s *Service) incrementCacheMisses() {
	if s.metrics != nil {
		s.metrics.IncrementCacheMisses()
	}
}
