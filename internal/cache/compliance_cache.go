package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"dispatchqa/internal/model"
)

// ComplianceCache stores the per-call compliance summary shown on score
// cards outside the edit surface. Invalidated whenever answers are saved.
type ComplianceCache interface {
	Set(ctx context.Context, callID string, summary model.ComplianceSummary) error
	Get(ctx context.Context, callID string) (*model.ComplianceSummary, error)
	Delete(ctx context.Context, callID string) error
}

type complianceCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewComplianceCache(client *redis.Client) ComplianceCache {
	return &complianceCache{
		client: client,
		ttl:    30 * time.Minute,
	}
}

func (c *complianceCache) key(callID string) string {
	return fmt.Sprintf("call:%s:compliance", callID)
}

func (c *complianceCache) Set(ctx context.Context, callID string, summary model.ComplianceSummary) error {
	data, err := json.Marshal(summary)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, c.key(callID), data, c.ttl).Err()
}

func (c *complianceCache) Get(ctx context.Context, callID string) (*model.ComplianceSummary, error) {
	data, err := c.client.Get(ctx, c.key(callID)).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var summary model.ComplianceSummary
	if err := json.Unmarshal([]byte(data), &summary); err != nil {
		return nil, err
	}
	return &summary, nil
}

func (c *complianceCache) Delete(ctx context.Context, callID string) error {
	return c.client.Del(ctx, c.key(callID)).Err()
}
