package auth

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/go-redis/redis/v8"
)

// TokenStore holds the revocation deny-list and the outstanding
// refresh tokens.
type TokenStore interface {
	Revoke(ctx context.Context, tokenID string, ttl time.Duration) error
	IsRevoked(ctx context.Context, tokenID string) (bool, error)
	SaveRefresh(ctx context.Context, refreshID, email string, ttl time.Duration) error
	TakeRefresh(ctx context.Context, refreshID string) (string, error)
}

const (
	revokedKeyPrefix = "auth:revoked:"
	refreshKeyPrefix = "auth:refresh:"
)

// RedisStore keeps token state in Redis, with TTLs doing the expiry.
type RedisStore struct {
	client *redis.Client
}

func NewRedisStore(addr, password string) *RedisStore {
	return &RedisStore{
		client: redis.NewClient(&redis.Options{ //nolint:exhaustruct
			Addr:     addr,
			Password: password,
		}),
	}
}

func (s *RedisStore) Revoke(ctx context.Context, tokenID string, ttl time.Duration) error {
	if err := s.client.Set(ctx, revokedKeyPrefix+tokenID, "1", ttl).Err(); err != nil {
		return fmt.Errorf("set revocation key: %w", err)
	}

	return nil
}

func (s *RedisStore) IsRevoked(ctx context.Context, tokenID string) (bool, error) {
	n, err := s.client.Exists(ctx, revokedKeyPrefix+tokenID).Result()
	if err != nil {
		return false, fmt.Errorf("check revocation key: %w", err)
	}

	return n > 0, nil
}

func (s *RedisStore) SaveRefresh(ctx context.Context, refreshID, email string, ttl time.Duration) error {
	if err := s.client.Set(ctx, refreshKeyPrefix+refreshID, email, ttl).Err(); err != nil {
		return fmt.Errorf("set refresh key: %w", err)
	}

	return nil
}

func (s *RedisStore) TakeRefresh(ctx context.Context, refreshID string) (string, error) {
	key := refreshKeyPrefix + refreshID

	email, err := s.client.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return "", ErrRefreshNotFound
	}

	if err != nil {
		return "", fmt.Errorf("get refresh key: %w", err)
	}

	if err := s.client.Del(ctx, key).Err(); err != nil {
		return "", fmt.Errorf("delete refresh key: %w", err)
	}

	return email, nil
}

type memoryEntry struct {
	value     string
	expiresAt time.Time
}

// MemoryStore is the in-process TokenStore used when no Redis address
// is configured, and in tests.
type MemoryStore struct {
	mu      sync.Mutex
	revoked map[string]memoryEntry
	refresh map[string]memoryEntry
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		revoked: make(map[string]memoryEntry),
		refresh: make(map[string]memoryEntry),
	}
}

func (s *MemoryStore) Revoke(_ context.Context, tokenID string, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.revoked[tokenID] = memoryEntry{value: "1", expiresAt: time.Now().Add(ttl)}

	return nil
}

func (s *MemoryStore) IsRevoked(_ context.Context, tokenID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.revoked[tokenID]
	if !ok {
		return false, nil
	}

	if time.Now().After(entry.expiresAt) {
		delete(s.revoked, tokenID)

		return false, nil
	}

	return true, nil
}

func (s *MemoryStore) SaveRefresh(_ context.Context, refreshID, email string, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.refresh[refreshID] = memoryEntry{value: email, expiresAt: time.Now().Add(ttl)}

	return nil
}

func (s *MemoryStore) TakeRefresh(_ context.Context, refreshID string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.refresh[refreshID]
	if !ok || time.Now().After(entry.expiresAt) {
		delete(s.refresh, refreshID)

		return "", ErrRefreshNotFound
	}

	delete(s.refresh, refreshID)

	return entry.value, nil
}
