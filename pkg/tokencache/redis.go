// Package tokencache shares Selling Partner API access tokens between
// processes through Redis, so that workers using one refresh token do not
// each exchange it separately.
package tokencache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/donaldgifford/spapi/pkg/spapi"
)

const defaultPrefix = "spapi"

// Redis implements spapi.TokenStore. Entries expire with the token.
type Redis struct {
	client  redis.UniversalClient
	prefix  string
	key     string
	nowFunc func() time.Time
}

// Option configures the Redis store.
type Option func(*Redis)

// WithPrefix overrides the key prefix.
func WithPrefix(p string) Option {
	return func(r *Redis) {
		r.prefix = p
	}
}

// WithNowFunc overrides the time function for testing.
func WithNowFunc(f func() time.Time) Option {
	return func(r *Redis) {
		r.nowFunc = f
	}
}

// NewRedis creates a store for the access token of creds. The key is derived
// from the client id and a hash of the refresh token; no secret is written
// into the key.
func NewRedis(client redis.UniversalClient, creds spapi.Credentials, opts ...Option) *Redis {
	r := &Redis{
		client:  client,
		prefix:  defaultPrefix,
		nowFunc: time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	r.key = Key(r.prefix, creds)
	return r
}

// Key returns the Redis key used for creds under prefix.
func Key(prefix string, creds spapi.Credentials) string {
	sum := sha256.Sum256([]byte(creds.ClientID + "\x00" + creds.RefreshToken))
	return fmt.Sprintf("%s:token:%s", prefix, hex.EncodeToString(sum[:16]))
}

// Load returns the stored token, or nil if none is stored.
func (r *Redis) Load(ctx context.Context) (*spapi.AccessToken, error) {
	data, err := r.client.Get(ctx, r.key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting token: %w", err)
	}

	var tok spapi.AccessToken
	if err := json.Unmarshal(data, &tok); err != nil {
		return nil, fmt.Errorf("decoding token: %w", err)
	}
	return &tok, nil
}

// Save stores tok until it expires. Tokens that are already stale are not
// stored.
func (r *Redis) Save(ctx context.Context, tok *spapi.AccessToken) error {
	ttl := tok.ExpiresAt().Add(-spapi.SafetyMargin).Sub(r.nowFunc())
	if ttl <= 0 {
		return nil
	}

	data, err := json.Marshal(tok)
	if err != nil {
		return fmt.Errorf("encoding token: %w", err)
	}

	if err := r.client.Set(ctx, r.key, data, ttl).Err(); err != nil {
		return fmt.Errorf("saving token: %w", err)
	}
	return nil
}

// Clear removes the stored token.
func (r *Redis) Clear(ctx context.Context) error {
	if err := r.client.Del(ctx, r.key).Err(); err != nil {
		return fmt.Errorf("deleting token: %w", err)
	}
	return nil
}
