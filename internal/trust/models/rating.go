// Package models holds the trust-rating aggregates and the signal snapshot
// they are derived from.
package models

import (
	"time"

	"github.com/shopspring/decimal"

	id "vouch/pkg/domain"
)

// TrustRating is the derived trust projection for a user.
//
// Invariants:
//   - Every score is a fixed-point value in [0, 100] with 2 decimal places
//   - OverallScore is always a deterministic function of the component
//     scores plus subscription state at LastCalculated; it is never
//     hand-edited
//   - The record is created lazily on first calculation, updated in place on
//     every later trigger, and never deleted while the user exists
//
// The rating carries no independent write API: its whole lifecycle is driven
// by recalculation events.
type TrustRating struct {
	UserID id.UserID `json:"user_id"`

	OverallScore      decimal.Decimal `json:"overall_score"`
	ProfileScore      decimal.Decimal `json:"profile_score"`
	VerificationScore decimal.Decimal `json:"verification_score"`
	ReviewScore       decimal.Decimal `json:"review_score"`
	TransactionScore  decimal.Decimal `json:"transaction_score"`

	TotalReviews    int `json:"total_reviews"`
	PositiveReviews int `json:"positive_reviews"`

	LastCalculated time.Time `json:"last_calculated"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// BusinessTrustRating is the business analogue of TrustRating. Review and
// transaction scores stay zero-valued until business-level review and
// transaction sources exist; they still participate in aggregation with a
// fixed divisor of 4.
type BusinessTrustRating struct {
	BusinessID id.BusinessID `json:"business_id"`

	OverallScore      decimal.Decimal `json:"overall_score"`
	ProfileScore      decimal.Decimal `json:"profile_score"`
	VerificationScore decimal.Decimal `json:"verification_score"`
	ReviewScore       decimal.Decimal `json:"review_score"`
	TransactionScore  decimal.Decimal `json:"transaction_score"`

	VerifiedWithThirdParty bool `json:"verified_with_third_party"`

	LastCalculated time.Time `json:"last_calculated"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}
