package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/contactly/contactly/internal/model"
)

// sessionKeyPrefix is the Redis key prefix for resolved sessions.
const sessionKeyPrefix = "session:"

// CachedUser is the subset of a user stored against a token digest.
// Password hashes never leave the database.
type CachedUser struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func sessionKey(tokenHash string) string {
	return sessionKeyPrefix + tokenHash
}

func encodeSession(user *model.User) ([]byte, error) {
	return json.Marshal(CachedUser{
		ID:        user.ID,
		Username:  user.Username,
		Name:      user.Name,
		CreatedAt: user.CreatedAt,
		UpdatedAt: user.UpdatedAt,
	})
}

func decodeSession(tokenHash string, data []byte) (*model.User, error) {
	var cached CachedUser
	if err := json.Unmarshal(data, &cached); err != nil {
		return nil, err
	}
	if cached.ID == "" {
		return nil, errors.New("cached session has no user id")
	}

	digest := tokenHash
	return &model.User{
		ID:        cached.ID,
		Username:  cached.Username,
		Name:      cached.Name,
		TokenHash: &digest,
		CreatedAt: cached.CreatedAt,
		UpdatedAt: cached.UpdatedAt,
	}, nil
}

// GetSession returns the user cached for a token digest.
// Returns nil, nil on a cache miss.
func (c *Cache) GetSession(ctx context.Context, tokenHash string) (*model.User, error) {
	data, err := c.client.Get(ctx, sessionKey(tokenHash)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get session: %w", err)
	}

	user, err := decodeSession(tokenHash, data)
	if err != nil {
		// Corrupted cache entry - treat as miss
		c.client.Del(ctx, sessionKey(tokenHash))
		return nil, nil //nolint:nilerr
	}

	return user, nil
}

// SetSession caches the user resolved for a token digest.
func (c *Cache) SetSession(ctx context.Context, tokenHash string, user *model.User) error {
	data, err := encodeSession(user)
	if err != nil {
		return fmt.Errorf("marshal session: %w", err)
	}

	if err := c.client.Set(ctx, sessionKey(tokenHash), data, c.sessionTTL).Err(); err != nil {
		return fmt.Errorf("failed to cache session: %w", err)
	}
	return nil
}

// DeleteSession evicts a cached session.
// Called on logout, re-login and profile changes.
func (c *Cache) DeleteSession(ctx context.Context, tokenHash string) error {
	if err := c.client.Del(ctx, sessionKey(tokenHash)).Err(); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}
