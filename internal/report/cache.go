package report

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"

	"prism/pkg/platform/sentinel"
)

// CacheTTL bounds how long a computed report outlives its run. Reports are
// keyed by run ID, so a new run naturally invalidates by changing the key.
var CacheTTL = 24 * time.Hour

// Cache stores computed report payloads in Redis, keyed by run and report
// name. It is read-side only; a cache miss means recompute, never an error
// surfaced to the caller beyond ErrNotFound.
type Cache struct {
	client *goredis.Client
}

// NewCache wraps a redis client. A nil client is allowed and turns every Get
// into a miss and every Set into a no-op, so callers need no nil checks when
// Redis is not configured.
func NewCache(client *goredis.Client) *Cache {
	return &Cache{client: client}
}

func cacheKey(runID uuid.UUID, name string) string {
	return fmt.Sprintf("prism:report:%s:%s", runID, name)
}

// Get unmarshals a cached report into out. Returns sentinel.ErrNotFound on
// miss.
func (c *Cache) Get(ctx context.Context, runID uuid.UUID, name string, out any) error {
	if c.client == nil {
		return sentinel.ErrNotFound
	}
	raw, err := c.client.Get(ctx, cacheKey(runID, name)).Bytes()
	if errors.Is(err, goredis.Nil) {
		return sentinel.ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("report cache get: %w", err)
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("report cache decode: %w", err)
	}
	return nil
}

// Set stores a computed report under the run's key.
func (c *Cache) Set(ctx context.Context, runID uuid.UUID, name string, report any) error {
	if c.client == nil {
		return nil
	}
	raw, err := json.Marshal(report)
	if err != nil {
		return fmt.Errorf("report cache encode: %w", err)
	}
	if err := c.client.Set(ctx, cacheKey(runID, name), raw, CacheTTL).Err(); err != nil {
		return fmt.Errorf("report cache set: %w", err)
	}
	return nil
}
