package scorer

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vouch/internal/trust/models"
)

func TestForName(t *testing.T) {
	s, err := ForName("")
	require.NoError(t, err)
	assert.Equal(t, "mean", s.Name())

	s, err = ForName("bayesian")
	require.NoError(t, err)
	assert.Equal(t, "bayesian", s.Name())

	_, err = ForName("median")
	require.Error(t, err)
}

func TestUnweightedMean(t *testing.T) {
	t.Run("user average divides by five", func(t *testing.T) {
		c := Components{
			Profile:      dec(t, "50.00"),
			Verification: dec(t, "100.00"),
			Review:       dec(t, "100.00"),
			Transaction:  dec(t, "90.00"),
			Subscription: dec(t, "100.00"),
		}
		got := UnweightedMean{}.Aggregate(models.SubjectUser, models.SignalSet{}, c)
		assertScore(t, "88.00", got)
	})

	t.Run("zero components never shrink the divisor", func(t *testing.T) {
		c := Components{Verification: dec(t, "100.00")}
		got := UnweightedMean{}.Aggregate(models.SubjectUser, models.SignalSet{}, c)
		assertScore(t, "20.00", got)
	})

	t.Run("business average divides by four without subscription", func(t *testing.T) {
		c := Components{
			Profile:      dec(t, "75.00"),
			Verification: dec(t, "100.00"),
			Subscription: dec(t, "100.00"), // must be ignored for businesses
		}
		got := UnweightedMean{}.Aggregate(models.SubjectBusiness, models.SignalSet{}, c)
		assertScore(t, "43.75", got)
	})

	t.Run("result is rounded half up", func(t *testing.T) {
		// 33.34+33.34+33.33+33.33+33.33 = 166.67; /5 = 33.334 -> 33.33
		c := Components{
			Profile:      dec(t, "33.34"),
			Verification: dec(t, "33.34"),
			Review:       dec(t, "33.33"),
			Transaction:  dec(t, "33.33"),
			Subscription: dec(t, "33.33"),
		}
		got := UnweightedMean{}.Aggregate(models.SubjectUser, models.SignalSet{}, c)
		assertScore(t, "33.33", got)
	})
}

func TestBayesianSmoothed(t *testing.T) {
	strategy := DefaultBayesianSmoothed()

	t.Run("zero reviews resolve to the prior", func(t *testing.T) {
		got := strategy.smoothedReview(models.ReviewSignals{}, decimal.Zero)
		assert.True(t, strategy.ReviewPrior.Equal(got), "expected prior %s, got %s", strategy.ReviewPrior, got)
	})

	t.Run("large samples converge on the raw score", func(t *testing.T) {
		raw := dec(t, "90")
		got := strategy.smoothedReview(models.ReviewSignals{Total: 10000}, raw)
		diff := raw.Sub(got).Abs()
		assert.True(t, diff.LessThan(dec(t, "0.1")), "expected near %s, got %s", raw, got)
	})

	t.Run("volume boost is capped", func(t *testing.T) {
		boost := strategy.volumeBoost(models.TransactionSignals{SellerTotal: 100000})
		assert.True(t, boost.Equal(strategy.MaxVolumeBoost))
	})

	t.Run("no transactions means no boost", func(t *testing.T) {
		assert.True(t, strategy.volumeBoost(models.TransactionSignals{}).IsZero())
	})

	t.Run("overall stays within bounds", func(t *testing.T) {
		c := Components{
			Profile:      dec(t, "100"),
			Verification: dec(t, "100"),
			Review:       dec(t, "100"),
			Transaction:  dec(t, "100"),
			Subscription: dec(t, "100"),
		}
		set := models.SignalSet{
			Reviews:      models.ReviewSignals{Total: 500},
			Transactions: models.TransactionSignals{SellerTotal: 500, SellerCompleted: 500},
		}
		got := strategy.Aggregate(models.SubjectUser, set, c)
		assert.True(t, got.LessThanOrEqual(dec(t, "100")), "got %s", got)
	})

	t.Run("sparse reviews are pulled toward the prior", func(t *testing.T) {
		// A single perfect review should score below a long run of perfect
		// reviews under smoothing.
		c := Components{Review: dec(t, "100")}
		sparse := strategy.Aggregate(models.SubjectUser,
			models.SignalSet{Reviews: models.ReviewSignals{Total: 1}}, c)
		dense := strategy.Aggregate(models.SubjectUser,
			models.SignalSet{Reviews: models.ReviewSignals{Total: 1000}}, c)
		assert.True(t, sparse.LessThan(dense), "sparse %s should be below dense %s", sparse, dense)
	})
}
