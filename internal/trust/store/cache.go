package store

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"vouch/internal/trust/models"
	id "vouch/pkg/domain"
)

// RatingCache is a Redis read cache in front of the rating store. It is
// strictly best-effort: a miss or a Redis failure falls through to the
// store, and every successful recalculation repopulates the entry.
type RatingCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRatingCache(client *redis.Client, ttl time.Duration) *RatingCache {
	return &RatingCache{client: client, ttl: ttl}
}

func userKey(userID id.UserID) string { return "trust:user:" + userID.String() }

func businessKey(businessID id.BusinessID) string { return "trust:business:" + businessID.String() }

// GetUserRating returns the cached rating, or nil on a miss.
func (c *RatingCache) GetUserRating(ctx context.Context, userID id.UserID) (*models.TrustRating, error) {
	payload, err := c.client.Get(ctx, userKey(userID)).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("cache get: %w", err)
	}

	var rating models.TrustRating
	if err := json.Unmarshal(payload, &rating); err != nil {
		return nil, fmt.Errorf("cache decode: %w", err)
	}
	return &rating, nil
}

// SetUserRating stores the rating with the configured TTL.
func (c *RatingCache) SetUserRating(ctx context.Context, rating *models.TrustRating) error {
	payload, err := json.Marshal(rating)
	if err != nil {
		return fmt.Errorf("cache encode: %w", err)
	}
	if err := c.client.Set(ctx, userKey(rating.UserID), payload, c.ttl).Err(); err != nil {
		return fmt.Errorf("cache set: %w", err)
	}
	return nil
}

// GetBusinessRating returns the cached business rating, or nil on a miss.
func (c *RatingCache) GetBusinessRating(ctx context.Context, businessID id.BusinessID) (*models.BusinessTrustRating, error) {
	payload, err := c.client.Get(ctx, businessKey(businessID)).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("cache get: %w", err)
	}

	var rating models.BusinessTrustRating
	if err := json.Unmarshal(payload, &rating); err != nil {
		return nil, fmt.Errorf("cache decode: %w", err)
	}
	return &rating, nil
}

// SetBusinessRating stores the business rating with the configured TTL.
func (c *RatingCache) SetBusinessRating(ctx context.Context, rating *models.BusinessTrustRating) error {
	payload, err := json.Marshal(rating)
	if err != nil {
		return fmt.Errorf("cache encode: %w", err)
	}
	if err := c.client.Set(ctx, businessKey(rating.BusinessID), payload, c.ttl).Err(); err != nil {
		return fmt.Errorf("cache set: %w", err)
	}
	return nil
}
