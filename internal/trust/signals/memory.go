package signals

import (
	"context"
	"sync"

	"vouch/internal/trust/models"
	id "vouch/pkg/domain"
)

// UserFixture is the full signal state for one user in the in-memory source.
type UserFixture struct {
	Profile            models.ProfileSignals
	Documents          []models.DocumentSignal
	Reviews            models.ReviewSignals
	Transactions       models.TransactionSignals
	ActiveSubscription bool
}

// BusinessFixture is the full signal state for one business.
type BusinessFixture struct {
	Profile                models.ProfileSignals
	Documents              []models.DocumentSignal
	VerifiedWithThirdParty bool
}

// Memory is an in-memory signal source for development and tests. Beyond
// fixture data it can simulate an unreachable source per query, which the
// coordinator tests use to verify abort semantics.
type Memory struct {
	mu         sync.RWMutex
	users      map[id.UserID]*UserFixture
	businesses map[id.BusinessID]*BusinessFixture

	// FailWith, when set, is returned by every signal query (not the
	// existence probes). Guarded by mu.
	failWith error
}

func NewMemory() *Memory {
	return &Memory{
		users:      make(map[id.UserID]*UserFixture),
		businesses: make(map[id.BusinessID]*BusinessFixture),
	}
}

// PutUser installs or replaces a user's signal state.
func (m *Memory) PutUser(userID id.UserID, fixture UserFixture) {
	m.mu.Lock()
	defer m.mu.Unlock()
	copied := fixture
	copied.Documents = append([]models.DocumentSignal(nil), fixture.Documents...)
	m.users[userID] = &copied
}

// PutBusiness installs or replaces a business's signal state.
func (m *Memory) PutBusiness(businessID id.BusinessID, fixture BusinessFixture) {
	m.mu.Lock()
	defer m.mu.Unlock()
	copied := fixture
	copied.Documents = append([]models.DocumentSignal(nil), fixture.Documents...)
	m.businesses[businessID] = &copied
}

// FailReadsWith makes every subsequent signal query return err. Pass nil to
// restore normal behavior.
func (m *Memory) FailReadsWith(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failWith = err
}

func (m *Memory) UserExists(_ context.Context, userID id.UserID) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.users[userID]
	return ok, nil
}

func (m *Memory) user(userID id.UserID) (*UserFixture, error) {
	if m.failWith != nil {
		return nil, m.failWith
	}
	return m.users[userID], nil
}

func (m *Memory) ProfileSignals(_ context.Context, userID id.UserID) (models.ProfileSignals, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	fixture, err := m.user(userID)
	if err != nil || fixture == nil {
		return models.ProfileSignals{}, err
	}
	return fixture.Profile, nil
}

func (m *Memory) DocumentSignals(_ context.Context, userID id.UserID) ([]models.DocumentSignal, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	fixture, err := m.user(userID)
	if err != nil || fixture == nil {
		return nil, err
	}
	return append([]models.DocumentSignal(nil), fixture.Documents...), nil
}

func (m *Memory) ReviewSignals(_ context.Context, userID id.UserID) (models.ReviewSignals, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	fixture, err := m.user(userID)
	if err != nil || fixture == nil {
		return models.ReviewSignals{}, err
	}
	return fixture.Reviews, nil
}

func (m *Memory) TransactionSignals(_ context.Context, userID id.UserID) (models.TransactionSignals, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	fixture, err := m.user(userID)
	if err != nil || fixture == nil {
		return models.TransactionSignals{}, err
	}
	return fixture.Transactions, nil
}

func (m *Memory) SubscriptionActive(_ context.Context, userID id.UserID) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	fixture, err := m.user(userID)
	if err != nil || fixture == nil {
		return false, err
	}
	return fixture.ActiveSubscription, nil
}

func (m *Memory) BusinessExists(_ context.Context, businessID id.BusinessID) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.businesses[businessID]
	return ok, nil
}

func (m *Memory) business(businessID id.BusinessID) (*BusinessFixture, error) {
	if m.failWith != nil {
		return nil, m.failWith
	}
	return m.businesses[businessID], nil
}

func (m *Memory) BusinessProfileSignals(_ context.Context, businessID id.BusinessID) (models.ProfileSignals, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	fixture, err := m.business(businessID)
	if err != nil || fixture == nil {
		return models.ProfileSignals{}, err
	}
	return fixture.Profile, nil
}

func (m *Memory) BusinessDocumentSignals(_ context.Context, businessID id.BusinessID) ([]models.DocumentSignal, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	fixture, err := m.business(businessID)
	if err != nil || fixture == nil {
		return nil, err
	}
	return append([]models.DocumentSignal(nil), fixture.Documents...), nil
}

func (m *Memory) BusinessVerifiedWithThirdParty(_ context.Context, businessID id.BusinessID) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	fixture, err := m.business(businessID)
	if err != nil || fixture == nil {
		return false, err
	}
	return fixture.VerifiedWithThirdParty, nil
}
