// Package signals provides read-only access to the data that trust scores
// are derived from. The engine never writes through these interfaces; the
// underlying tables belong to the profile, verification, review, transaction,
// and subscription services.
package signals

import (
	"context"

	"vouch/internal/trust/models"
	id "vouch/pkg/domain"
)

// UserSource answers the five narrow signal queries for a user, plus an
// existence probe so an unknown subject fails fast instead of scoring zero.
//
// A query returning an error means the source was unreachable, which aborts
// the whole recalculation; absence of data is reported as zero values, never
// as an error.
type UserSource interface {
	UserExists(ctx context.Context, userID id.UserID) (bool, error)
	ProfileSignals(ctx context.Context, userID id.UserID) (models.ProfileSignals, error)
	DocumentSignals(ctx context.Context, userID id.UserID) ([]models.DocumentSignal, error)
	ReviewSignals(ctx context.Context, userID id.UserID) (models.ReviewSignals, error)
	TransactionSignals(ctx context.Context, userID id.UserID) (models.TransactionSignals, error)
	SubscriptionActive(ctx context.Context, userID id.UserID) (bool, error)
}

// BusinessSource is the business analogue of UserSource. There is no
// business-level review or transaction source yet, so those signals are not
// part of the interface; the coordinator fills them with zero values.
type BusinessSource interface {
	BusinessExists(ctx context.Context, businessID id.BusinessID) (bool, error)
	BusinessProfileSignals(ctx context.Context, businessID id.BusinessID) (models.ProfileSignals, error)
	BusinessDocumentSignals(ctx context.Context, businessID id.BusinessID) ([]models.DocumentSignal, error)
	BusinessVerifiedWithThirdParty(ctx context.Context, businessID id.BusinessID) (bool, error)
}
