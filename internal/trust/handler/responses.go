package handler

import (
	"time"

	"vouch/internal/trust/models"
)

// TrustRatingResponse is the HTTP shape of a user trust rating. Scores are
// rendered as fixed two-decimal strings so clients never see float noise.
type TrustRatingResponse struct {
	UserID            string    `json:"user_id"`
	OverallScore      string    `json:"overall_score"`
	ProfileScore      string    `json:"profile_score"`
	VerificationScore string    `json:"verification_score"`
	ReviewScore       string    `json:"review_score"`
	TransactionScore  string    `json:"transaction_score"`
	TotalReviews      int       `json:"total_reviews"`
	PositiveReviews   int       `json:"positive_reviews"`
	LastCalculated    time.Time `json:"last_calculated"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

// BusinessTrustRatingResponse is the HTTP shape of a business trust rating.
type BusinessTrustRatingResponse struct {
	BusinessID             string    `json:"business_id"`
	OverallScore           string    `json:"overall_score"`
	ProfileScore           string    `json:"profile_score"`
	VerificationScore      string    `json:"verification_score"`
	ReviewScore            string    `json:"review_score"`
	TransactionScore       string    `json:"transaction_score"`
	VerifiedWithThirdParty bool      `json:"verified_with_third_party"`
	LastCalculated         time.Time `json:"last_calculated"`
	CreatedAt              time.Time `json:"created_at"`
	UpdatedAt              time.Time `json:"updated_at"`
}

// FromTrustRating converts a domain TrustRating to an HTTP response.
func FromTrustRating(rating *models.TrustRating) *TrustRatingResponse {
	return &TrustRatingResponse{
		UserID:            rating.UserID.String(),
		OverallScore:      rating.OverallScore.StringFixed(2),
		ProfileScore:      rating.ProfileScore.StringFixed(2),
		VerificationScore: rating.VerificationScore.StringFixed(2),
		ReviewScore:       rating.ReviewScore.StringFixed(2),
		TransactionScore:  rating.TransactionScore.StringFixed(2),
		TotalReviews:      rating.TotalReviews,
		PositiveReviews:   rating.PositiveReviews,
		LastCalculated:    rating.LastCalculated,
		CreatedAt:         rating.CreatedAt,
		UpdatedAt:         rating.UpdatedAt,
	}
}

// FromBusinessTrustRating converts a domain BusinessTrustRating to an HTTP
// response.
func FromBusinessTrustRating(rating *models.BusinessTrustRating) *BusinessTrustRatingResponse {
	return &BusinessTrustRatingResponse{
		BusinessID:             rating.BusinessID.String(),
		OverallScore:           rating.OverallScore.StringFixed(2),
		ProfileScore:           rating.ProfileScore.StringFixed(2),
		VerificationScore:      rating.VerificationScore.StringFixed(2),
		ReviewScore:            rating.ReviewScore.StringFixed(2),
		TransactionScore:       rating.TransactionScore.StringFixed(2),
		VerifiedWithThirdParty: rating.VerifiedWithThirdParty,
		LastCalculated:         rating.LastCalculated,
		CreatedAt:              rating.CreatedAt,
		UpdatedAt:              rating.UpdatedAt,
	}
}
