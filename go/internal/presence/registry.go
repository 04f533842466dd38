// Package presence tracks which game each signed-in viewer is watching, in
// Redis with a TTL so stale entries expire on their own.
package presence

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const viewingKeyPrefix = "viewing:%s"

// Registry records viewer presence in Redis.
type Registry struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRegistry creates a presence registry. ttl bounds how long a viewer stays
// marked after the gateway stops refreshing them.
func NewRegistry(client *redis.Client, ttl time.Duration) *Registry {
	return &Registry{client: client, ttl: ttl}
}

// SetViewing marks a viewer as watching a game. Overwrites any previous game
// and refreshes the TTL.
func (r *Registry) SetViewing(ctx context.Context, userID, gameID string) error {
	key := fmt.Sprintf(viewingKeyPrefix, userID)
	if err := r.client.Set(ctx, key, gameID, r.ttl).Err(); err != nil {
		return fmt.Errorf("set viewing key for user %s: %w", userID, err)
	}
	return nil
}

// ClearViewing removes a viewer's presence entry. Clearing an absent entry is
// not an error.
func (r *Registry) ClearViewing(ctx context.Context, userID string) error {
	key := fmt.Sprintf(viewingKeyPrefix, userID)
	if err := r.client.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("clear viewing key for user %s: %w", userID, err)
	}
	return nil
}

// Viewers scans for every viewer currently watching the given game.
func (r *Registry) Viewers(ctx context.Context, gameID string) ([]string, error) {
	var viewers []string
	iter := r.client.Scan(ctx, 0, fmt.Sprintf(viewingKeyPrefix, "*"), 100).Iterator()
	for iter.Next(ctx) {
		key := iter.Val()
		val, err := r.client.Get(ctx, key).Result()
		if errors.Is(err, redis.Nil) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("get viewing key %s: %w", key, err)
		}
		if val == gameID {
			viewers = append(viewers, key[len("viewing:"):])
		}
	}
	if err := iter.Err(); err != nil {
		return nil, fmt.Errorf("scan viewing keys: %w", err)
	}
	return viewers, nil
}
