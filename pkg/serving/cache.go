package serving

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/glycora-ai/platform/pkg/common/models"
	"github.com/redis/go-redis/v9"
)

// ResultCache keeps each user's latest prediction in Redis so dashboards
// avoid a history query on every refresh. Cache misses and Redis failures
// degrade to the database; they never fail a request.
type ResultCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewResultCache(client *redis.Client, ttl time.Duration) *ResultCache {
	if ttl <= 0 {
		ttl = 15 * time.Minute
	}
	return &ResultCache{client: client, ttl: ttl}
}

func latestKey(userID string) string {
	return fmt.Sprintf("prediction:latest:%s", userID)
}

func (c *ResultCache) StoreLatest(ctx context.Context, userID string, entry models.HistoryEntry) error {
	data, err := json.Marshal(entry)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, latestKey(userID), data, c.ttl).Err()
}

func (c *ResultCache) Latest(ctx context.Context, userID string) (models.HistoryEntry, bool, error) {
	data, err := c.client.Get(ctx, latestKey(userID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return models.HistoryEntry{}, false, nil
	}
	if err != nil {
		return models.HistoryEntry{}, false, err
	}
	var entry models.HistoryEntry
	if err := json.Unmarshal(data, &entry); err != nil {
		return models.HistoryEntry{}, false, err
	}
	return entry, true, nil
}
