package services

import (
	"context"
	"time"

	"nestory-backend/models"

	"github.com/redis/go-redis/v9"
)

const (
	leaderboardKeyAll   = "nestory:leaderboard:all"
	leaderboardKeyChild = "nestory:leaderboard:child"
	leaderboardTTL      = 10 * time.Minute
)

// LeaderboardCache keeps progress ids in Redis sorted sets scored by
// totalPoints, so the leaderboard read path avoids a full-table sort. Entries
// expire so the DB stays the source of truth.
type LeaderboardCache struct {
	rdb *redis.Client
}

func NewLeaderboardCache(addr, password string) *LeaderboardCache {
	return &LeaderboardCache{
		rdb: redis.NewClient(&redis.Options{
			Addr:     addr,
			Password: password,
		}),
	}
}

// Ping verifies the Redis connection on boot.
func (c *LeaderboardCache) Ping(ctx context.Context) error {
	return c.rdb.Ping(ctx).Err()
}

// Update scores one progress record in the relevant sorted sets.
func (c *LeaderboardCache) Update(prog *models.UserProgress) error {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	member := redis.Z{Score: float64(prog.TotalPoints), Member: prog.ID}

	pipe := c.rdb.Pipeline()
	pipe.ZAdd(ctx, leaderboardKeyAll, member)
	pipe.Expire(ctx, leaderboardKeyAll, leaderboardTTL)
	if prog.ChildID != "" {
		pipe.ZAdd(ctx, leaderboardKeyChild, member)
		pipe.Expire(ctx, leaderboardKeyChild, leaderboardTTL)
	}
	_, err := pipe.Exec(ctx)
	return err
}

// Top returns up to limit progress ids, highest score first.
func (c *LeaderboardCache) Top(limit int, childSpecific bool) ([]string, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	key := leaderboardKeyAll
	if childSpecific {
		key = leaderboardKeyChild
	}
	return c.rdb.ZRevRange(ctx, key, 0, int64(limit-1)).Result()
}
