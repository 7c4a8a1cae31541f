package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/calbyte/sessiongraph/internal/llm"
)

const (
	narrativeCachePrefix = "narrative:"
	narrativeCacheTTL    = 24 * time.Hour
)

// NarrativeCache stores model session analyses so a re-run of the same
// import does not pay for the same completions twice. A nil cache is
// valid and behaves as a permanent miss.
type NarrativeCache struct {
	client *Client
}

// NewNarrativeCache creates a narrative cache
func NewNarrativeCache(client *Client) *NarrativeCache {
	return &NarrativeCache{client: client}
}

// Get retrieves a cached analysis for a session
func (c *NarrativeCache) Get(ctx context.Context, sessionID string) (*llm.Response, error) {
	if c == nil || c.client == nil {
		return nil, nil
	}
	key := fmt.Sprintf("%s%s", narrativeCachePrefix, sessionID)

	data, err := c.client.rdb.Get(ctx, key).Bytes()
	if err != nil {
		return nil, nil // Cache miss
	}

	var resp llm.Response
	if err := json.Unmarshal(data, &resp); err != nil {
		// Entry written by an older build; drop it and treat as a miss.
		if derr := c.Invalidate(ctx, sessionID); derr != nil {
			return nil, fmt.Errorf("failed to drop stale cached analysis: %w", derr)
		}
		return nil, nil
	}

	return &resp, nil
}

// Set caches an analysis for a session
func (c *NarrativeCache) Set(ctx context.Context, sessionID string, resp *llm.Response) error {
	if c == nil || c.client == nil || resp == nil {
		return nil
	}
	key := fmt.Sprintf("%s%s", narrativeCachePrefix, sessionID)

	data, err := json.Marshal(resp)
	if err != nil {
		return fmt.Errorf("failed to marshal analysis: %w", err)
	}

	return c.client.rdb.Set(ctx, key, data, narrativeCacheTTL).Err()
}

// Invalidate removes a cached analysis for a session
func (c *NarrativeCache) Invalidate(ctx context.Context, sessionID string) error {
	if c == nil || c.client == nil {
		return nil
	}
	key := fmt.Sprintf("%s%s", narrativeCachePrefix, sessionID)
	return c.client.rdb.Del(ctx, key).Err()
}
