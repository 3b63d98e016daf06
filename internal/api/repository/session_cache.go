package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// ErrSessionNotFound is returned when a token has no cached session entry.
var ErrSessionNotFound = errors.New("session not found")

// Session is the identity a refresh token resolves to.
type Session struct {
	UserID   string `redis:"user_id"`
	Username string `redis:"username"`
	Role     string `redis:"role"`
}

// SessionCache keeps refresh-token-to-identity mappings in Redis so token
// resolution does not hit Postgres on every request. Entries expire with the
// refresh token TTL and are removed on revoke. A cache miss is not an error
// for callers, they fall back to the database.
type SessionCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewSessionCache(redisAddr, password string, ttl time.Duration) (*SessionCache, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:         redisAddr,
		Password:     password,
		DB:           0,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	})

	// Verify connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &SessionCache{client: rdb, ttl: ttl}, nil
}

func sessionKey(token string) string {
	return fmt.Sprintf("session:%s", token)
}

// Save stores the session under the token. No-op when the cache is absent
// (nil receiver), which keeps it optional in tests and degraded deployments.
func (c *SessionCache) Save(ctx context.Context, token string, s Session) error {
	if c == nil || c.client == nil {
		return nil
	}
	key := sessionKey(token)

	fields := map[string]interface{}{
		"user_id":  s.UserID,
		"username": s.Username,
		"role":     s.Role,
	}
	if err := c.client.HSet(ctx, key, fields).Err(); err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	return c.client.Expire(ctx, key, c.ttl).Err()
}

func (c *SessionCache) Get(ctx context.Context, token string) (*Session, error) {
	if c == nil || c.client == nil {
		return nil, ErrSessionNotFound
	}
	vals, err := c.client.HGetAll(ctx, sessionKey(token)).Result()
	if err != nil {
		return nil, fmt.Errorf("get session: %w", err)
	}
	if len(vals) == 0 {
		return nil, ErrSessionNotFound
	}
	return &Session{
		UserID:   vals["user_id"],
		Username: vals["username"],
		Role:     vals["role"],
	}, nil
}

// Delete drops the session entry, used on revoke.
func (c *SessionCache) Delete(ctx context.Context, token string) error {
	if c == nil || c.client == nil {
		return nil
	}
	return c.client.Del(ctx, sessionKey(token)).Err()
}

// Close releases the underlying Redis connection.
func (c *SessionCache) Close() error {
	if c == nil || c.client == nil {
		return nil
	}
	return c.client.Close()
}
