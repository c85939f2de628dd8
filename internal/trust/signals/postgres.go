package signals

import (
	"context"
	"database/sql"
	"fmt"

	"vouch/internal/trust/models"
	id "vouch/pkg/domain"
)

// subscriberRole is the user role that marks an active paid subscription.
const subscriberRole = "SUBSCRIBER"

// positiveRatingThreshold must stay in sync with scorer.positiveThreshold.
const positiveRatingThreshold = "3.5"

// Postgres reads signals from the collaborator-owned tables. Every query is
// read-only; this package owns no schema.
type Postgres struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *Postgres {
	return &Postgres{db: db}
}

func (s *Postgres) UserExists(ctx context.Context, userID id.UserID) (bool, error) {
	var exists bool
	err := s.db.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM users WHERE id = $1)`, userID.String(),
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("user exists: %w", err)
	}
	return exists, nil
}

func (s *Postgres) ProfileSignals(ctx context.Context, userID id.UserID) (models.ProfileSignals, error) {
	query := `
		SELECT
			COALESCE(profile_photo_url, '') <> '',
			COALESCE(bio, '') <> '',
			COALESCE(contact_number, '') <> '',
			COALESCE(location, '') <> ''
		FROM users
		WHERE id = $1
	`
	var p models.ProfileSignals
	err := s.db.QueryRowContext(ctx, query, userID.String()).
		Scan(&p.HasPhoto, &p.HasBio, &p.HasContactNumber, &p.HasLocation)
	if err == sql.ErrNoRows {
		return models.ProfileSignals{}, nil
	}
	if err != nil {
		return models.ProfileSignals{}, fmt.Errorf("profile signals: %w", err)
	}
	return p, nil
}

func (s *Postgres) DocumentSignals(ctx context.Context, userID id.UserID) ([]models.DocumentSignal, error) {
	query := `
		SELECT document_type, status
		FROM verification_documents
		WHERE user_id = $1
	`
	rows, err := s.db.QueryContext(ctx, query, userID.String())
	if err != nil {
		return nil, fmt.Errorf("document signals: %w", err)
	}
	defer rows.Close()

	return scanDocuments(rows)
}

func (s *Postgres) ReviewSignals(ctx context.Context, userID id.UserID) (models.ReviewSignals, error) {
	query := `
		SELECT
			COUNT(*),
			COUNT(*) FILTER (WHERE rating >= ` + positiveRatingThreshold + `),
			AVG(rating)
		FROM reviews
		WHERE reviewee_id = $1
	`
	var r models.ReviewSignals
	err := s.db.QueryRowContext(ctx, query, userID.String()).
		Scan(&r.Total, &r.Positive, &r.AverageRating)
	if err != nil {
		return models.ReviewSignals{}, fmt.Errorf("review signals: %w", err)
	}
	return r, nil
}

func (s *Postgres) TransactionSignals(ctx context.Context, userID id.UserID) (models.TransactionSignals, error) {
	// Roles are counted independently in one pass; a row contributes to the
	// seller figures or the buyer figures, never both for the same subject.
	query := `
		SELECT
			COUNT(*) FILTER (WHERE seller_id = $1),
			COUNT(*) FILTER (WHERE seller_id = $1 AND status = 'COMPLETED'),
			COUNT(*) FILTER (WHERE buyer_id = $1),
			COUNT(*) FILTER (WHERE buyer_id = $1 AND status = 'COMPLETED')
		FROM transactions
		WHERE seller_id = $1 OR buyer_id = $1
	`
	var t models.TransactionSignals
	err := s.db.QueryRowContext(ctx, query, userID.String()).
		Scan(&t.SellerTotal, &t.SellerCompleted, &t.BuyerTotal, &t.BuyerCompleted)
	if err != nil {
		return models.TransactionSignals{}, fmt.Errorf("transaction signals: %w", err)
	}
	return t, nil
}

func (s *Postgres) SubscriptionActive(ctx context.Context, userID id.UserID) (bool, error) {
	var active bool
	err := s.db.QueryRowContext(ctx,
		`SELECT role = $2 FROM users WHERE id = $1`, userID.String(), subscriberRole,
	).Scan(&active)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("subscription signal: %w", err)
	}
	return active, nil
}

func (s *Postgres) BusinessExists(ctx context.Context, businessID id.BusinessID) (bool, error) {
	var exists bool
	err := s.db.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM businesses WHERE id = $1)`, businessID.String(),
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("business exists: %w", err)
	}
	return exists, nil
}

func (s *Postgres) BusinessProfileSignals(ctx context.Context, businessID id.BusinessID) (models.ProfileSignals, error) {
	query := `
		SELECT
			COALESCE(logo_url, '') <> '',
			COALESCE(description, '') <> '',
			COALESCE(contact_number, '') <> '',
			COALESCE(address, '') <> ''
		FROM businesses
		WHERE id = $1
	`
	var p models.ProfileSignals
	err := s.db.QueryRowContext(ctx, query, businessID.String()).
		Scan(&p.HasPhoto, &p.HasBio, &p.HasContactNumber, &p.HasLocation)
	if err == sql.ErrNoRows {
		return models.ProfileSignals{}, nil
	}
	if err != nil {
		return models.ProfileSignals{}, fmt.Errorf("business profile signals: %w", err)
	}
	return p, nil
}

func (s *Postgres) BusinessDocumentSignals(ctx context.Context, businessID id.BusinessID) ([]models.DocumentSignal, error) {
	query := `
		SELECT document_type, status
		FROM verification_documents
		WHERE business_id = $1
	`
	rows, err := s.db.QueryContext(ctx, query, businessID.String())
	if err != nil {
		return nil, fmt.Errorf("business document signals: %w", err)
	}
	defer rows.Close()

	return scanDocuments(rows)
}

func (s *Postgres) BusinessVerifiedWithThirdParty(ctx context.Context, businessID id.BusinessID) (bool, error) {
	var verified bool
	err := s.db.QueryRowContext(ctx,
		`SELECT verified_with_third_party FROM businesses WHERE id = $1`, businessID.String(),
	).Scan(&verified)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("business verification flag: %w", err)
	}
	return verified, nil
}

func scanDocuments(rows *sql.Rows) ([]models.DocumentSignal, error) {
	var docs []models.DocumentSignal
	for rows.Next() {
		var doc models.DocumentSignal
		if err := rows.Scan(&doc.Type, &doc.Status); err != nil {
			return nil, fmt.Errorf("scan document signal: %w", err)
		}
		docs = append(docs, doc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate document signals: %w", err)
	}
	return docs, nil
}
