package models

import (
	"github.com/shopspring/decimal"
)

// SubjectKind distinguishes the two scorable entity types.
type SubjectKind string

const (
	SubjectUser     SubjectKind = "user"
	SubjectBusiness SubjectKind = "business"
)

// DocumentType enumerates the verification document types a subject can
// upload. Profile completeness counts presence of these; verification counts
// their approval.
type DocumentType string

const (
	DocumentIDDocument     DocumentType = "ID_DOCUMENT"
	DocumentDriversLicense DocumentType = "DRIVERS_LICENSE"
	DocumentProofOfAddress DocumentType = "PROOF_OF_ADDRESS"
	DocumentProfilePhoto   DocumentType = "PROFILE_PHOTO"

	// Business document types.
	DocumentBusinessRegistration DocumentType = "BUSINESS_REGISTRATION"
	DocumentTaxClearance         DocumentType = "TAX_CLEARANCE"
)

// UserDocumentTypes are the four types counted toward a user's profile
// completeness.
var UserDocumentTypes = []DocumentType{
	DocumentIDDocument,
	DocumentDriversLicense,
	DocumentProofOfAddress,
	DocumentProfilePhoto,
}

// BusinessDocumentTypes are the four types counted toward a business's
// profile completeness.
var BusinessDocumentTypes = []DocumentType{
	DocumentBusinessRegistration,
	DocumentTaxClearance,
	DocumentProofOfAddress,
	DocumentProfilePhoto,
}

// DocumentStatus is the review state of an uploaded document.
type DocumentStatus string

const (
	DocumentPending  DocumentStatus = "PENDING"
	DocumentApproved DocumentStatus = "APPROVED"
	DocumentRejected DocumentStatus = "REJECTED"
)

// TransactionStatus mirrors the transaction service's lifecycle states.
type TransactionStatus string

const (
	TransactionPending   TransactionStatus = "PENDING"
	TransactionCompleted TransactionStatus = "COMPLETED"
	TransactionCancelled TransactionStatus = "CANCELLED"
	TransactionDisputed  TransactionStatus = "DISPUTED"
)

// ProfileSignals are the completion flags of a subject's profile. Missing
// data reads as false, never as an error.
type ProfileSignals struct {
	HasPhoto         bool
	HasBio           bool
	HasContactNumber bool
	HasLocation      bool
}

// CompletedCount returns how many of the four profile fields are filled.
func (p ProfileSignals) CompletedCount() int {
	count := 0
	for _, set := range []bool{p.HasPhoto, p.HasBio, p.HasContactNumber, p.HasLocation} {
		if set {
			count++
		}
	}
	return count
}

// DocumentSignal is one uploaded verification document and its review state.
type DocumentSignal struct {
	Type   DocumentType
	Status DocumentStatus
}

// ReviewSignals are the aggregate review figures for a subject. A review is
// positive iff its rating is at least 3.5 on the 0.5–5.0 scale.
// AverageRating is unset when Total is zero.
type ReviewSignals struct {
	Total         int
	Positive      int
	AverageRating decimal.NullDecimal
}

// TransactionSignals count a subject's transactions per role. Roles are
// counted independently; a single transaction never appears in both the
// seller and buyer figures for the same subject.
type TransactionSignals struct {
	SellerTotal     int
	SellerCompleted int
	BuyerTotal      int
	BuyerCompleted  int
}

// Total is the number of transactions in any status across both roles.
func (t TransactionSignals) Total() int { return t.SellerTotal + t.BuyerTotal }

// Completed is the number of COMPLETED transactions across both roles.
func (t TransactionSignals) Completed() int { return t.SellerCompleted + t.BuyerCompleted }

// SignalSet is an immutable snapshot of every signal feeding one
// recalculation. It is fetched once per run and passed through the scorers,
// which keeps the full-recompute property mechanically enforceable: no scorer
// can reach back into storage mid-calculation.
type SignalSet struct {
	Profile            ProfileSignals
	Documents          []DocumentSignal
	Reviews            ReviewSignals
	Transactions       TransactionSignals
	ActiveSubscription bool

	// VerifiedWithThirdParty is only meaningful for business subjects.
	VerifiedWithThirdParty bool
}
