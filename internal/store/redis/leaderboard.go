// Package redis provides an optional leaderboard of finished sessions.
// When no Redis address is configured every method is a no-op, so the
// game runs fully offline.
package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	goredis "github.com/go-redis/redis/v8"

	"chartarcade/internal/game"
)

const (
	rankKey   = "arcade:leaderboard"   // sorted set: player -> score
	detailKey = "arcade:leaderboard:%s" // per-player stats blob
)

// Entry is one leaderboard row.
type Entry struct {
	Player     string  `json:"player"`
	Score      float64 `json:"score"`
	BestStreak int     `json:"best_streak"`
	Wins       int     `json:"wins"`
	Losses     int     `json:"losses"`
	WinRate    float64 `json:"win_rate"`
}

// Leaderboard ranks players by win rate, best streak as tiebreak.
type Leaderboard struct {
	rdb *goredis.Client
}

// New connects to Redis, or returns a disabled leaderboard when addr is
// empty.
func New(addr, password string) *Leaderboard {
	if addr == "" {
		return &Leaderboard{}
	}
	return &Leaderboard{
		rdb: goredis.NewClient(&goredis.Options{
			Addr:         addr,
			Password:     password,
			DialTimeout:  2 * time.Second,
			ReadTimeout:  2 * time.Second,
			WriteTimeout: 2 * time.Second,
		}),
	}
}

// Enabled reports whether a Redis backend is configured.
func (l *Leaderboard) Enabled() bool { return l.rdb != nil }

// Ping verifies connectivity. Always nil when disabled.
func (l *Leaderboard) Ping(ctx context.Context) error {
	if l.rdb == nil {
		return nil
	}
	return l.rdb.Ping(ctx).Err()
}

// Record publishes a player's current aggregate. Score is win rate with
// best streak as a fractional tiebreak so equal rates rank by streak.
func (l *Leaderboard) Record(ctx context.Context, player string, stats game.SessionStats) error {
	if l.rdb == nil {
		return nil
	}

	score := stats.WinRate() + float64(stats.BestStreak)/1e6
	if err := l.rdb.ZAdd(ctx, rankKey, &goredis.Z{Score: score, Member: player}).Err(); err != nil {
		return fmt.Errorf("redis leaderboard zadd: %w", err)
	}

	blob, err := json.Marshal(stats)
	if err != nil {
		return fmt.Errorf("redis leaderboard marshal: %w", err)
	}
	if err := l.rdb.Set(ctx, fmt.Sprintf(detailKey, player), blob, 0).Err(); err != nil {
		return fmt.Errorf("redis leaderboard set: %w", err)
	}
	return nil
}

// Top returns the n best players, highest score first.
func (l *Leaderboard) Top(ctx context.Context, n int) ([]Entry, error) {
	if l.rdb == nil {
		return nil, nil
	}

	zs, err := l.rdb.ZRevRangeWithScores(ctx, rankKey, 0, int64(n-1)).Result()
	if err != nil {
		return nil, fmt.Errorf("redis leaderboard range: %w", err)
	}

	entries := make([]Entry, 0, len(zs))
	for _, z := range zs {
		player, _ := z.Member.(string)
		e := Entry{Player: player, Score: z.Score}

		blob, err := l.rdb.Get(ctx, fmt.Sprintf(detailKey, player)).Result()
		if err == nil {
			var stats game.SessionStats
			if json.Unmarshal([]byte(blob), &stats) == nil {
				e.BestStreak = stats.BestStreak
				e.Wins = stats.Wins
				e.Losses = stats.Losses
				e.WinRate = stats.WinRate()
			}
		}
		entries = append(entries, e)
	}
	return entries, nil
}

// Close releases the Redis connection.
func (l *Leaderboard) Close() error {
	if l.rdb == nil {
		return nil
	}
	return l.rdb.Close()
}
