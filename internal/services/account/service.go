// Package account resolves user handles and display names for the
// settlement and request services. Lookups are cached; the cache is
// read-through only and never holds token or request state.
package account

import (
	"context"
	"errors"
	"log"
	"time"

	"pagcore/internal/models"
	"pagcore/internal/repositories"
	"pagcore/internal/repositories/cache"
)

// ErrUserNotFound is returned when a handle or id resolves to no account.
var ErrUserNotFound = errors.New("user not found")

const lookupTTL = 10 * time.Minute

// Service looks up accounts by handle and id.
type Service interface {
	Resolve(ctx context.Context, handle string) (uint, error)
	DisplayName(ctx context.Context, userID uint) (fullName, username string, err error)
	Profile(ctx context.Context, userID uint) (*models.User, error)
}

type service struct {
	users repositories.UserRepository
	cache *cache.CacheService
}

// NewService creates a new account lookup service instance.
func NewService(users repositories.UserRepository, cacheSvc *cache.CacheService) Service {
	if users == nil {
		panic("user repository is required")
	}
	return &service{users: users, cache: cacheSvc}
}

func (s *service) Resolve(ctx context.Context, handle string) (uint, error) {
	if s.cache != nil {
		var cached uint
		if err := s.cache.Get(ctx, cache.UserByHandleKey(handle), &cached); err == nil {
			return cached, nil
		}
	}

	user, err := s.users.GetByUsername(ctx, handle)
	if errors.Is(err, repositories.ErrNotFound) {
		return 0, ErrUserNotFound
	}
	if err != nil {
		return 0, err
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, cache.UserByHandleKey(handle), user.ID, lookupTTL); err != nil {
			log.Printf("failed to cache handle lookup: %v", err)
		}
	}
	return user.ID, nil
}

func (s *service) DisplayName(ctx context.Context, userID uint) (string, string, error) {
	type nameEntry struct {
		FullName string `json:"full_name"`
		Username string `json:"username"`
	}

	if s.cache != nil {
		var cached nameEntry
		if err := s.cache.Get(ctx, cache.UserNameKey(userID), &cached); err == nil {
			return cached.FullName, cached.Username, nil
		}
	}

	user, err := s.users.GetByID(ctx, userID)
	if errors.Is(err, repositories.ErrNotFound) {
		return "", "", ErrUserNotFound
	}
	if err != nil {
		return "", "", err
	}

	if s.cache != nil {
		entry := nameEntry{FullName: user.FullName, Username: user.Username}
		if err := s.cache.Set(ctx, cache.UserNameKey(userID), entry, lookupTTL); err != nil {
			log.Printf("failed to cache display name: %v", err)
		}
	}
	return user.FullName, user.Username, nil
}

// Profile returns the full account record. Reads go straight to the store;
// the payload carries fields the name cache does not hold.
func (s *service) Profile(ctx context.Context, userID uint) (*models.User, error) {
	user, err := s.users.GetByID(ctx, userID)
	if errors.Is(err, repositories.ErrNotFound) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	return user, nil
}
