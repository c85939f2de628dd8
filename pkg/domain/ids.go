// Package domain holds typed identifiers shared by every service package.
//
// IDs are distinct types over uuid.UUID so a BusinessID can never be passed
// where a UserID is expected; the compiler enforces subject separation.
package domain

import (
	"github.com/google/uuid"

	dErrors "vouch/pkg/domain-errors"
)

type (
	// UserID identifies a marketplace user.
	UserID uuid.UUID

	// BusinessID identifies a registered business.
	BusinessID uuid.UUID
)

func parseUUID(s string) (uuid.UUID, error) {
	if s == "" {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, "id is required")
	}
	parsed, err := uuid.Parse(s)
	if err != nil {
		return uuid.Nil, dErrors.Wrap(err, dErrors.CodeInvalidInput, "id must be a valid UUID")
	}
	if parsed == uuid.Nil {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, "id must not be the nil UUID")
	}
	return parsed, nil
}

// ParseUserID validates and returns a UserID. Empty, malformed, and nil
// UUIDs are rejected at this trust boundary.
func ParseUserID(s string) (UserID, error) {
	parsed, err := parseUUID(s)
	if err != nil {
		return UserID{}, err
	}
	return UserID(parsed), nil
}

// ParseBusinessID validates and returns a BusinessID.
func ParseBusinessID(s string) (BusinessID, error) {
	parsed, err := parseUUID(s)
	if err != nil {
		return BusinessID{}, err
	}
	return BusinessID(parsed), nil
}

func (id UserID) String() string { return uuid.UUID(id).String() }

func (id UserID) IsNil() bool { return uuid.UUID(id) == uuid.Nil }

// MarshalText renders the ID as its canonical UUID string so JSON payloads
// carry "xxxxxxxx-..." instead of a byte array.
func (id UserID) MarshalText() ([]byte, error) {
	return []byte(id.String()), nil
}

func (id *UserID) UnmarshalText(text []byte) error {
	parsed, err := ParseUserID(string(text))
	if err != nil {
		return err
	}
	*id = parsed
	return nil
}

func (id BusinessID) String() string { return uuid.UUID(id).String() }

func (id BusinessID) IsNil() bool { return uuid.UUID(id) == uuid.Nil }

func (id BusinessID) MarshalText() ([]byte, error) {
	return []byte(id.String()), nil
}

func (id *BusinessID) UnmarshalText(text []byte) error {
	parsed, err := ParseBusinessID(string(text))
	if err != nil {
		return err
	}
	*id = parsed
	return nil
}

// NewUserID generates a fresh random UserID. Mostly for tests and fixtures;
// production user IDs originate in the account service.
func NewUserID() UserID { return UserID(uuid.New()) }

// NewBusinessID generates a fresh random BusinessID.
func NewBusinessID() BusinessID { return BusinessID(uuid.New()) }
