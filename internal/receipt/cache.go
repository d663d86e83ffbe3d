package receipt

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/semzi/sledge/internal/models"
)

const (
	summaryKeyPrefix = "receipt:summary:"
	summaryTTL       = 24 * time.Hour
)

// SummaryCache keeps the pending-receipt snapshot written at submit time.
// Written once per registration, read by the receipt view until the
// payment row is completed; after that the database is authoritative.
type SummaryCache struct {
	client *redis.Client
}

// NewSummaryCache creates a summary cache.
func NewSummaryCache(client *redis.Client) *SummaryCache {
	return &SummaryCache{client: client}
}

// Put stores the summary for a registration.
func (c *SummaryCache) Put(ctx context.Context, registrationID int64, s models.ReceiptSummary) error {
	raw, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("marshal summary: %w", err)
	}
	key := fmt.Sprintf("%s%d", summaryKeyPrefix, registrationID)
	if err := c.client.Set(ctx, key, raw, summaryTTL).Err(); err != nil {
		return fmt.Errorf("store summary: %w", err)
	}
	return nil
}

// Get returns the cached summary, or nil when none exists.
func (c *SummaryCache) Get(ctx context.Context, registrationID int64) (*models.ReceiptSummary, error) {
	key := fmt.Sprintf("%s%d", summaryKeyPrefix, registrationID)
	raw, err := c.client.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load summary: %w", err)
	}
	var s models.ReceiptSummary
	if err := json.Unmarshal(raw, &s); err != nil {
		return nil, fmt.Errorf("decode summary: %w", err)
	}
	return &s, nil
}
