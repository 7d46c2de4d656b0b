package onboarding

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisCodeStore shares outstanding codes between API instances. Entries
// carry a TTL matching the code's expiry.
type RedisCodeStore struct {
	client *redis.Client
	prefix string
	now    func() time.Time
}

// NewRedisCodeStore creates a code store on client
func NewRedisCodeStore(client *redis.Client) *RedisCodeStore {
	return &RedisCodeStore{client: client, prefix: "kontrib:otp:", now: time.Now}
}

func (r *RedisCodeStore) Put(ctx context.Context, key string, code Code) error {
	payload, ttl, err := r.encode(code)
	if err != nil {
		return err
	}
	if ttl <= 0 {
		return errors.New("code is already expired")
	}
	if err := r.client.Set(ctx, r.prefix+key, payload, ttl).Err(); err != nil {
		return fmt.Errorf("failed to store code: %w", err)
	}
	return nil
}

func (r *RedisCodeStore) Take(ctx context.Context, key string) (*Code, error) {
	raw, err := r.client.GetDel(ctx, r.prefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to take code: %w", err)
	}

	var code Code
	if err := json.Unmarshal(raw, &code); err != nil {
		return nil, fmt.Errorf("failed to decode code: %w", err)
	}
	return &code, nil
}

func (r *RedisCodeStore) Restore(ctx context.Context, key string, code Code) error {
	payload, ttl, err := r.encode(code)
	if err != nil {
		return err
	}
	if ttl <= 0 {
		// already expired; nothing to restore
		return nil
	}
	if err := r.client.SetNX(ctx, r.prefix+key, payload, ttl).Err(); err != nil {
		return fmt.Errorf("failed to restore code: %w", err)
	}
	return nil
}

func (r *RedisCodeStore) encode(code Code) ([]byte, time.Duration, error) {
	payload, err := json.Marshal(code)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to encode code: %w", err)
	}
	return payload, code.ExpiresAt.Sub(r.now()), nil
}
