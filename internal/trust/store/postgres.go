package store

import (
	"context"
	"database/sql"
	"fmt"

	"vouch/internal/trust/models"
	id "vouch/pkg/domain"
)

// Postgres persists trust ratings in PostgreSQL. Upserts run as a single
// INSERT ... ON CONFLICT DO UPDATE statement, which is the atomic
// read-modify-write boundary the coordinator relies on: concurrent writers
// each replace the full row, so a lost-update can only ever mean one full
// snapshot superseding another, never a row with fields from two writers.
type Postgres struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *Postgres {
	return &Postgres{db: db}
}

const userRatingColumns = `
	user_id, overall_score, profile_score, verification_score, review_score,
	transaction_score, total_reviews, positive_reviews, last_calculated,
	created_at, updated_at`

func (s *Postgres) FindUserRating(ctx context.Context, userID id.UserID) (*models.TrustRating, error) {
	query := `SELECT` + userRatingColumns + `
		FROM trust_ratings
		WHERE user_id = $1`
	rating, err := scanUserRating(s.db.QueryRowContext(ctx, query, userID.String()))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find trust rating: %w", err)
	}
	return rating, nil
}

func (s *Postgres) UpsertUserRating(ctx context.Context, rating *models.TrustRating) (*models.TrustRating, error) {
	query := `
		INSERT INTO trust_ratings (` + userRatingColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $10)
		ON CONFLICT (user_id) DO UPDATE SET
			overall_score = EXCLUDED.overall_score,
			profile_score = EXCLUDED.profile_score,
			verification_score = EXCLUDED.verification_score,
			review_score = EXCLUDED.review_score,
			transaction_score = EXCLUDED.transaction_score,
			total_reviews = EXCLUDED.total_reviews,
			positive_reviews = EXCLUDED.positive_reviews,
			last_calculated = EXCLUDED.last_calculated,
			updated_at = EXCLUDED.updated_at
		RETURNING` + userRatingColumns
	stored, err := scanUserRating(s.db.QueryRowContext(ctx, query,
		rating.UserID.String(),
		rating.OverallScore,
		rating.ProfileScore,
		rating.VerificationScore,
		rating.ReviewScore,
		rating.TransactionScore,
		rating.TotalReviews,
		rating.PositiveReviews,
		rating.LastCalculated,
		rating.UpdatedAt,
	))
	if err != nil {
		return nil, fmt.Errorf("upsert trust rating: %w", err)
	}
	return stored, nil
}

const businessRatingColumns = `
	business_id, overall_score, profile_score, verification_score,
	review_score, transaction_score, verified_with_third_party,
	last_calculated, created_at, updated_at`

func (s *Postgres) FindBusinessRating(ctx context.Context, businessID id.BusinessID) (*models.BusinessTrustRating, error) {
	query := `SELECT` + businessRatingColumns + `
		FROM business_trust_ratings
		WHERE business_id = $1`
	rating, err := scanBusinessRating(s.db.QueryRowContext(ctx, query, businessID.String()))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find business trust rating: %w", err)
	}
	return rating, nil
}

func (s *Postgres) UpsertBusinessRating(ctx context.Context, rating *models.BusinessTrustRating) (*models.BusinessTrustRating, error) {
	query := `
		INSERT INTO business_trust_ratings (` + businessRatingColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $9)
		ON CONFLICT (business_id) DO UPDATE SET
			overall_score = EXCLUDED.overall_score,
			profile_score = EXCLUDED.profile_score,
			verification_score = EXCLUDED.verification_score,
			review_score = EXCLUDED.review_score,
			transaction_score = EXCLUDED.transaction_score,
			verified_with_third_party = EXCLUDED.verified_with_third_party,
			last_calculated = EXCLUDED.last_calculated,
			updated_at = EXCLUDED.updated_at
		RETURNING` + businessRatingColumns
	stored, err := scanBusinessRating(s.db.QueryRowContext(ctx, query,
		rating.BusinessID.String(),
		rating.OverallScore,
		rating.ProfileScore,
		rating.VerificationScore,
		rating.ReviewScore,
		rating.TransactionScore,
		rating.VerifiedWithThirdParty,
		rating.LastCalculated,
		rating.UpdatedAt,
	))
	if err != nil {
		return nil, fmt.Errorf("upsert business trust rating: %w", err)
	}
	return stored, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanUserRating(row rowScanner) (*models.TrustRating, error) {
	var rating models.TrustRating
	var rawUserID string
	err := row.Scan(
		&rawUserID,
		&rating.OverallScore,
		&rating.ProfileScore,
		&rating.VerificationScore,
		&rating.ReviewScore,
		&rating.TransactionScore,
		&rating.TotalReviews,
		&rating.PositiveReviews,
		&rating.LastCalculated,
		&rating.CreatedAt,
		&rating.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	userID, err := id.ParseUserID(rawUserID)
	if err != nil {
		return nil, fmt.Errorf("stored user id: %w", err)
	}
	rating.UserID = userID
	return &rating, nil
}

func scanBusinessRating(row rowScanner) (*models.BusinessTrustRating, error) {
	var rating models.BusinessTrustRating
	var rawBusinessID string
	err := row.Scan(
		&rawBusinessID,
		&rating.OverallScore,
		&rating.ProfileScore,
		&rating.VerificationScore,
		&rating.ReviewScore,
		&rating.TransactionScore,
		&rating.VerifiedWithThirdParty,
		&rating.LastCalculated,
		&rating.CreatedAt,
		&rating.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	businessID, err := id.ParseBusinessID(rawBusinessID)
	if err != nil {
		return nil, fmt.Errorf("stored business id: %w", err)
	}
	rating.BusinessID = businessID
	return &rating, nil
}
