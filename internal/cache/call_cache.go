package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	"dispatchqa/internal/model"
)

// CallCache keeps the recent-call listing hot so the dashboard table does
// not hit Mongo on every poll.
type CallCache interface {
	SetRecent(ctx context.Context, calls []*model.Call) error
	GetRecent(ctx context.Context) ([]*model.Call, error)
	Invalidate(ctx context.Context) error
}

type callCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewCallCache(client *redis.Client) CallCache {
	return &callCache{
		client: client,
		ttl:    2 * time.Minute,
	}
}

const recentCallsKey = "calls:recent"

func (c *callCache) SetRecent(ctx context.Context, calls []*model.Call) error {
	data, err := json.Marshal(calls)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, recentCallsKey, data, c.ttl).Err()
}

func (c *callCache) GetRecent(ctx context.Context) ([]*model.Call, error) {
	data, err := c.client.Get(ctx, recentCallsKey).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var calls []*model.Call
	if err := json.Unmarshal([]byte(data), &calls); err != nil {
		return nil, err
	}
	return calls, nil
}

func (c *callCache) Invalidate(ctx context.Context) error {
	return c.client.Del(ctx, recentCallsKey).Err()
}
