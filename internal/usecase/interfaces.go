package usecase

import (
	"context"
	"time"

	"foodstore/internal/domain/entity"
)

// Cache is an optional read-through cache. Implementations must treat a
// miss as (false, nil).
type Cache interface {
	Get(ctx context.Context, key string, dest interface{}) (bool, error)
	Set(ctx context.Context, key string, value interface{}) error
	Delete(ctx context.Context, keys ...string) error
}

// IdentityProvider registers credentials with the hosted auth service and
// returns the provider's user id. DeleteUser undoes a registration whose
// profile could not be stored.
type IdentityProvider interface {
	CreateUser(ctx context.Context, email, password, displayName string) (string, error)
	DeleteUser(ctx context.Context, uid string) error
}

type TokenIssuer interface {
	Issue(uid, username string) (token string, expiresAt time.Time, err error)
}

type ReviewPublisher interface {
	Publish(event entity.ReviewEvent)
}

func productCacheKey(id string) string {
	return "product:" + id
}

const categoriesCacheKey = "categories"

type noopCache struct{}

func (noopCache) Get(context.Context, string, interface{}) (bool, error) { return false, nil }
func (noopCache) Set(context.Context, string, interface{}) error         { return nil }
func (noopCache) Delete(context.Context, ...string) error                { return nil }

type noopPublisher struct{}

func (noopPublisher) Publish(entity.ReviewEvent) {}
