// Package scorer derives the five component scores from a signal snapshot
// and combines them into one overall trust score.
//
// Every scorer is a pure function over the SignalSet: no storage access, no
// clock, no hidden state. Absence of data is always a valid zero-score
// input; only contract violations (a rating outside its scale) produce an
// error.
package scorer

import (
	"github.com/shopspring/decimal"

	"vouch/internal/trust/models"
	dErrors "vouch/pkg/domain-errors"
)

// profileItemCount is the fixed denominator for profile completeness: four
// profile fields plus presence of four document types.
const profileItemCount = 8

var (
	hundred = decimal.NewFromInt(100)

	// positiveThreshold marks a review as positive: rating >= 3.5.
	positiveThreshold = decimal.RequireFromString("3.5")

	// minRating and maxRating bound the review scale. Anything outside is a
	// contract violation upstream validation should have caught.
	minRating = decimal.RequireFromString("0.5")
	maxRating = decimal.RequireFromString("5.0")

	// Review score blend: 70% positive ratio, 30% scaled average. The blend
	// keeps a single harsh rating from dominating while still rewarding
	// consistently high averages.
	positiveWeight = decimal.RequireFromString("0.7")
	averageWeight  = decimal.RequireFromString("0.3")

	// starScale maps the 0–5 star average onto 0–100.
	starScale = decimal.NewFromInt(20)
)

// Components holds the five 0–100 sub-scores feeding the overall score, each
// already rounded to 2 decimal places.
type Components struct {
	Profile      decimal.Decimal
	Verification decimal.Decimal
	Review       decimal.Decimal
	Transaction  decimal.Decimal
	Subscription decimal.Decimal
}

// round applies the project-wide rounding rule: 2 decimal places, half-up.
// decimal.Round rounds half away from zero, which for non-negative scores is
// exactly half-up (33.335 -> 33.34), never banker's rounding.
func round(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}

// percent returns part/total*100 rounded, and zero when total is zero.
func percent(part, total int) decimal.Decimal {
	if total == 0 {
		return decimal.Zero
	}
	return round(decimal.NewFromInt(int64(part)).
		Div(decimal.NewFromInt(int64(total))).
		Mul(hundred))
}

// ScoreProfile measures profile completeness: four profile fields plus the
// presence (not approval) of the four document types counted for the subject
// kind, out of a fixed total of 8.
func ScoreProfile(profile models.ProfileSignals, docs []models.DocumentSignal, counted []models.DocumentType) decimal.Decimal {
	uploaded := make(map[models.DocumentType]bool, len(docs))
	for _, doc := range docs {
		uploaded[doc.Type] = true
	}

	completed := profile.CompletedCount()
	for _, docType := range counted {
		if uploaded[docType] {
			completed++
		}
	}

	return percent(completed, profileItemCount)
}

// ScoreVerification measures the approval ratio of uploaded documents. A
// document type that was never uploaded is excluded from the denominator; it
// neither helps nor hurts. Zero uploads score zero.
func ScoreVerification(docs []models.DocumentSignal) decimal.Decimal {
	if len(docs) == 0 {
		return decimal.Zero
	}

	approved := 0
	for _, doc := range docs {
		if doc.Status == models.DocumentApproved {
			approved++
		}
	}

	return percent(approved, len(docs))
}

// ScoreReview blends the positive-review ratio with the scaled average
// rating. Zero reviews score zero. An average rating outside [0.5, 5.0] or
// missing despite existing reviews is rejected as a contract violation, not
// clamped.
func ScoreReview(reviews models.ReviewSignals) (decimal.Decimal, error) {
	if reviews.Total == 0 {
		return decimal.Zero, nil
	}

	if reviews.Total < 0 || reviews.Positive < 0 || reviews.Positive > reviews.Total {
		return decimal.Zero, dErrors.Newf(dErrors.CodeInvariantViolation,
			"inconsistent review counts: %d positive of %d total", reviews.Positive, reviews.Total)
	}
	if !reviews.AverageRating.Valid {
		return decimal.Zero, dErrors.New(dErrors.CodeInvariantViolation,
			"average rating missing for subject with reviews")
	}

	avg := reviews.AverageRating.Decimal
	if avg.LessThan(minRating) || avg.GreaterThan(maxRating) {
		return decimal.Zero, dErrors.Newf(dErrors.CodeInvariantViolation,
			"average rating %s outside [%s, %s]", avg, minRating, maxRating)
	}

	positivePct := decimal.NewFromInt(int64(reviews.Positive)).
		Div(decimal.NewFromInt(int64(reviews.Total))).
		Mul(hundred)
	ratingPct := avg.Mul(starScale)

	return round(positiveWeight.Mul(positivePct).Add(averageWeight.Mul(ratingPct))), nil
}

// ScoreTransactions measures the completion ratio across both roles. Seller
// and buyer counts are summed independently; zero transactions score zero.
func ScoreTransactions(tx models.TransactionSignals) (decimal.Decimal, error) {
	total := tx.Total()
	completed := tx.Completed()

	if total < 0 || completed < 0 || completed > total {
		return decimal.Zero, dErrors.Newf(dErrors.CodeInvariantViolation,
			"inconsistent transaction counts: %d completed of %d total", completed, total)
	}

	return percent(completed, total), nil
}

// ScoreSubscription is binary: an active paid subscription scores 100,
// anything else 0. No smoothing.
func ScoreSubscription(active bool) decimal.Decimal {
	if active {
		return hundred
	}
	return decimal.Zero
}

// ScoreComponents runs all five scorers over one signal snapshot. The
// subject kind selects which document types count toward profile
// completeness; everything else is identical between users and businesses.
func ScoreComponents(kind models.SubjectKind, set models.SignalSet) (Components, error) {
	review, err := ScoreReview(set.Reviews)
	if err != nil {
		return Components{}, err
	}
	transaction, err := ScoreTransactions(set.Transactions)
	if err != nil {
		return Components{}, err
	}

	counted := models.UserDocumentTypes
	if kind == models.SubjectBusiness {
		counted = models.BusinessDocumentTypes
	}

	return Components{
		Profile:      ScoreProfile(set.Profile, set.Documents, counted),
		Verification: ScoreVerification(set.Documents),
		Review:       review,
		Transaction:  transaction,
		Subscription: ScoreSubscription(set.ActiveSubscription),
	}, nil
}
