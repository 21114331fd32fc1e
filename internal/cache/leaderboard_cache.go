package cache

import (
	"context"

	"github.com/redis/go-redis/v9"
)

// LeaderboardCache handles Redis ZSET operations for the dispatcher
// leaderboard, scored by average grade.
type LeaderboardCache interface {
	UpdateScore(ctx context.Context, dispatcher string, avgScore float64) error
	GetTop(ctx context.Context, limit int) ([]LeaderboardEntry, error)
	GetRank(ctx context.Context, dispatcher string) (int64, error)
	Clear(ctx context.Context) error
}

// LeaderboardEntry is a single leaderboard row as stored in Redis
type LeaderboardEntry struct {
	Dispatcher string  `json:"dispatcher"`
	AvgScore   float64 `json:"avgScore"`
	Rank       int     `json:"rank"`
}

type leaderboardCache struct {
	client *redis.Client
}

func NewLeaderboardCache(client *redis.Client) LeaderboardCache {
	return &leaderboardCache{
		client: client,
	}
}

const leaderboardKey = "dispatchers:lb"

func (c *leaderboardCache) UpdateScore(ctx context.Context, dispatcher string, avgScore float64) error {
	return c.client.ZAdd(ctx, leaderboardKey, redis.Z{
		Score:  avgScore,
		Member: dispatcher,
	}).Err()
}

func (c *leaderboardCache) GetTop(ctx context.Context, limit int) ([]LeaderboardEntry, error) {
	results, err := c.client.ZRevRangeWithScores(ctx, leaderboardKey, 0, int64(limit-1)).Result()
	if err != nil {
		return nil, err
	}

	entries := make([]LeaderboardEntry, 0, len(results))
	for i, z := range results {
		name, _ := z.Member.(string)
		entries = append(entries, LeaderboardEntry{
			Dispatcher: name,
			AvgScore:   z.Score,
			Rank:       i + 1,
		})
	}
	return entries, nil
}

func (c *leaderboardCache) GetRank(ctx context.Context, dispatcher string) (int64, error) {
	rank, err := c.client.ZRevRank(ctx, leaderboardKey, dispatcher).Result()
	if err == redis.Nil {
		return -1, nil
	}
	if err != nil {
		return -1, err
	}
	return rank + 1, nil
}

func (c *leaderboardCache) Clear(ctx context.Context) error {
	return c.client.Del(ctx, leaderboardKey).Err()
}
