// Package store persists the computed trust ratings. Implementations are
// interchangeable behind the service-side interface: an in-memory store for
// development and tests, PostgreSQL for production, and a Redis read cache
// layered in front by the service.
package store

import (
	"context"
	"sync"

	"vouch/internal/trust/models"
	id "vouch/pkg/domain"
)

// Memory keeps ratings in maps guarded by a RWMutex. The mutex is the
// equivalent of the database transaction boundary: an upsert is a single
// atomic read-modify-write, so two concurrent writers can never interleave
// partial field updates.
type Memory struct {
	mu         sync.RWMutex
	users      map[id.UserID]models.TrustRating
	businesses map[id.BusinessID]models.BusinessTrustRating
}

func NewMemory() *Memory {
	return &Memory{
		users:      make(map[id.UserID]models.TrustRating),
		businesses: make(map[id.BusinessID]models.BusinessTrustRating),
	}
}

func (s *Memory) FindUserRating(_ context.Context, userID id.UserID) (*models.TrustRating, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rating, ok := s.users[userID]
	if !ok {
		return nil, nil
	}
	return &rating, nil
}

func (s *Memory) UpsertUserRating(_ context.Context, rating *models.TrustRating) (*models.TrustRating, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored := *rating
	if existing, ok := s.users[rating.UserID]; ok {
		stored.CreatedAt = existing.CreatedAt
	} else {
		stored.CreatedAt = rating.UpdatedAt
	}
	s.users[rating.UserID] = stored
	return &stored, nil
}

func (s *Memory) FindBusinessRating(_ context.Context, businessID id.BusinessID) (*models.BusinessTrustRating, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rating, ok := s.businesses[businessID]
	if !ok {
		return nil, nil
	}
	return &rating, nil
}

func (s *Memory) UpsertBusinessRating(_ context.Context, rating *models.BusinessTrustRating) (*models.BusinessTrustRating, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored := *rating
	if existing, ok := s.businesses[rating.BusinessID]; ok {
		stored.CreatedAt = existing.CreatedAt
	} else {
		stored.CreatedAt = rating.UpdatedAt
	}
	s.businesses[rating.BusinessID] = stored
	return &stored, nil
}
