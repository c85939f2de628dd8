package scorer

import (
	"math"

	"github.com/shopspring/decimal"

	"vouch/internal/trust/models"
	dErrors "vouch/pkg/domain-errors"
)

// Strategy combines component scores into one overall score. The weighting
// and smoothing policy is injectable so the two formulas that exist in the
// platform can be swapped without touching the coordinator.
//
// All five components are mandatory inputs: a component with no underlying
// data arrives as zero and stays in the calculation, so the divisor never
// shrinks.
type Strategy interface {
	Name() string
	Aggregate(kind models.SubjectKind, set models.SignalSet, c Components) decimal.Decimal
}

// ForName resolves a configured strategy name.
func ForName(name string) (Strategy, error) {
	switch name {
	case "", "mean":
		return UnweightedMean{}, nil
	case "bayesian":
		return DefaultBayesianSmoothed(), nil
	default:
		return nil, dErrors.Newf(dErrors.CodeInvalidInput, "unknown aggregation strategy %q", name)
	}
}

// UnweightedMean is the production formula: the arithmetic mean of all five
// components for users, and of the four non-subscription components for
// businesses, rounded to 2 decimal places half-up.
type UnweightedMean struct{}

func (UnweightedMean) Name() string { return "mean" }

func (UnweightedMean) Aggregate(kind models.SubjectKind, _ models.SignalSet, c Components) decimal.Decimal {
	sum := c.Profile.Add(c.Verification).Add(c.Review).Add(c.Transaction)
	divisor := decimal.NewFromInt(4)
	if kind == models.SubjectUser {
		sum = sum.Add(c.Subscription)
		divisor = decimal.NewFromInt(5)
	}
	return round(sum.Div(divisor))
}

// BayesianSmoothed is the alternative weighted formula: component weights
// instead of a plain mean, a global-average prior pulled into the review
// component while the sample is sparse, and a logarithmic boost for
// transaction volume. Kept behind the Strategy interface and disabled by
// default.
type BayesianSmoothed struct {
	// UserWeights and BusinessWeights must each sum to 1.
	UserWeights     Weights
	BusinessWeights Weights

	// ReviewPrior is the assumed global-average review score; PriorWeight is
	// how many reviews of evidence the prior counts for.
	ReviewPrior decimal.Decimal
	PriorWeight decimal.Decimal

	// VolumeFactor scales ln(1+transactions); MaxVolumeBoost caps the bonus.
	VolumeFactor   decimal.Decimal
	MaxVolumeBoost decimal.Decimal
}

// Weights assigns one weight per component.
type Weights struct {
	Profile      decimal.Decimal
	Verification decimal.Decimal
	Review       decimal.Decimal
	Transaction  decimal.Decimal
	Subscription decimal.Decimal
}

// DefaultBayesianSmoothed returns the tuning used when the bayesian strategy
// is selected without overrides.
func DefaultBayesianSmoothed() BayesianSmoothed {
	return BayesianSmoothed{
		UserWeights: Weights{
			Profile:      decimal.RequireFromString("0.15"),
			Verification: decimal.RequireFromString("0.30"),
			Review:       decimal.RequireFromString("0.30"),
			Transaction:  decimal.RequireFromString("0.20"),
			Subscription: decimal.RequireFromString("0.05"),
		},
		BusinessWeights: Weights{
			Profile:      decimal.RequireFromString("0.20"),
			Verification: decimal.RequireFromString("0.40"),
			Review:       decimal.RequireFromString("0.25"),
			Transaction:  decimal.RequireFromString("0.15"),
		},
		ReviewPrior:    decimal.NewFromInt(60),
		PriorWeight:    decimal.NewFromInt(10),
		VolumeFactor:   decimal.RequireFromString("1.5"),
		MaxVolumeBoost: decimal.NewFromInt(5),
	}
}

func (BayesianSmoothed) Name() string { return "bayesian" }

func (b BayesianSmoothed) Aggregate(kind models.SubjectKind, set models.SignalSet, c Components) decimal.Decimal {
	weights := b.UserWeights
	if kind == models.SubjectBusiness {
		weights = b.BusinessWeights
	}

	review := b.smoothedReview(set.Reviews, c.Review)

	score := weights.Profile.Mul(c.Profile).
		Add(weights.Verification.Mul(c.Verification)).
		Add(weights.Review.Mul(review)).
		Add(weights.Transaction.Mul(c.Transaction)).
		Add(weights.Subscription.Mul(c.Subscription))

	score = score.Add(b.volumeBoost(set.Transactions))

	if score.GreaterThan(hundred) {
		score = hundred
	}
	if score.IsNegative() {
		score = decimal.Zero
	}
	return round(score)
}

// smoothedReview pulls a sparse review sample toward the global prior:
// (prior*priorWeight + n*score) / (priorWeight + n). With zero reviews the
// result is exactly the prior; with many it converges on the raw score.
func (b BayesianSmoothed) smoothedReview(reviews models.ReviewSignals, raw decimal.Decimal) decimal.Decimal {
	n := decimal.NewFromInt(int64(reviews.Total))
	return b.ReviewPrior.Mul(b.PriorWeight).
		Add(n.Mul(raw)).
		Div(b.PriorWeight.Add(n))
}

// volumeBoost rewards transaction volume logarithmically, capped so raw
// throughput can never substitute for quality.
func (b BayesianSmoothed) volumeBoost(tx models.TransactionSignals) decimal.Decimal {
	total := tx.Total()
	if total <= 0 {
		return decimal.Zero
	}
	boost := b.VolumeFactor.Mul(decimal.NewFromFloat(math.Log1p(float64(total))))
	if boost.GreaterThan(b.MaxVolumeBoost) {
		return b.MaxVolumeBoost
	}
	return boost
}
