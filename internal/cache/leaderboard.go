// internal/cache/leaderboard.go
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/KoubaPetr/kabo/internal/game"
)

const (
	playerStatsKey = "player:stats:"
	leaderboardKey = "leaderboard:wins"
)

// PlayerStats is the career record kept per display name. In this
// game the winner is the player with the LOWEST cumulative score, so
// the leaderboard ranks by wins, not points.
type PlayerStats struct {
	Name string `json:"name"`

	MatchesPlayed int `json:"matches_played"`
	Wins          int `json:"wins"`
	RoundsPlayed  int `json:"rounds_played"`

	// BestMatchScore is the lowest cumulative score the player ever
	// finished a match with.
	BestMatchScore int  `json:"best_match_score"`
	HasPlayed      bool `json:"has_played"`

	LastPlayedAt int64 `json:"last_played_at"`
	CreatedAt    int64 `json:"created_at"`
}

// LeaderboardEntry is one row of the wins ranking.
type LeaderboardEntry struct {
	Rank    int     `json:"rank"`
	Name    string  `json:"name"`
	Wins    int     `json:"wins"`
	Matches int     `json:"matches"`
	WinRate float64 `json:"win_rate"`
}

// Leaderboard keeps career stats and the wins ranking in Redis.
type Leaderboard struct {
	redis *redis.Client
}

func NewLeaderboard(client *redis.Client) *Leaderboard {
	return &Leaderboard{redis: client}
}

// GetPlayerStats fetches one player's career record, or nil if the
// player has never finished a match.
func (lb *Leaderboard) GetPlayerStats(ctx context.Context, name string) (*PlayerStats, error) {
	data, err := lb.redis.Get(ctx, playerStatsKey+name).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, err
	}
	var stats PlayerStats
	if err := json.Unmarshal(data, &stats); err != nil {
		return nil, err
	}
	return &stats, nil
}

func (lb *Leaderboard) savePlayerStats(ctx context.Context, stats *PlayerStats) error {
	data, err := json.Marshal(stats)
	if err != nil {
		return err
	}
	if err := lb.redis.Set(ctx, playerStatsKey+stats.Name, data, 0).Err(); err != nil {
		return err
	}
	return lb.redis.ZAdd(ctx, leaderboardKey, redis.Z{
		Score:  float64(stats.Wins),
		Member: stats.Name,
	}).Err()
}

func (lb *Leaderboard) getOrCreateStats(ctx context.Context, name string) (*PlayerStats, error) {
	stats, err := lb.GetPlayerStats(ctx, name)
	if err != nil {
		return nil, err
	}
	if stats == nil {
		stats = &PlayerStats{Name: name, CreatedAt: time.Now().Unix()}
	}
	return stats, nil
}

// RecordMatchResult folds one finished match into every participant's
// career record and reranks them.
func (lb *Leaderboard) RecordMatchResult(ctx context.Context, result *game.MatchResult) error {
	now := time.Now().Unix()
	for _, p := range result.Standings {
		stats, err := lb.getOrCreateStats(ctx, p.Name)
		if err != nil {
			return fmt.Errorf("stats for %s: %w", p.Name, err)
		}
		stats.MatchesPlayed++
		stats.RoundsPlayed += result.RoundsPlayed
		stats.LastPlayedAt = now
		if p == result.Winner {
			stats.Wins++
		}
		if !stats.HasPlayed || p.GameScore < stats.BestMatchScore {
			stats.BestMatchScore = p.GameScore
			stats.HasPlayed = true
		}
		if err := lb.savePlayerStats(ctx, stats); err != nil {
			return fmt.Errorf("save stats for %s: %w", p.Name, err)
		}
	}
	return nil
}

// GetLeaderboard returns up to limit rows ranked by wins.
func (lb *Leaderboard) GetLeaderboard(ctx context.Context, limit int) ([]*LeaderboardEntry, error) {
	results, err := lb.redis.ZRevRangeWithScores(ctx, leaderboardKey, 0, int64(limit-1)).Result()
	if err != nil {
		return nil, err
	}

	entries := make([]*LeaderboardEntry, 0, len(results))
	for i, result := range results {
		name, ok := result.Member.(string)
		if !ok {
			continue
		}
		stats, err := lb.GetPlayerStats(ctx, name)
		if err != nil || stats == nil {
			continue
		}
		winRate := 0.0
		if stats.MatchesPlayed > 0 {
			winRate = float64(stats.Wins) / float64(stats.MatchesPlayed) * 100
		}
		entries = append(entries, &LeaderboardEntry{
			Rank:    i + 1,
			Name:    name,
			Wins:    stats.Wins,
			Matches: stats.MatchesPlayed,
			WinRate: winRate,
		})
	}
	return entries, nil
}

// GetPlayerRank returns a player's 1-based rank by wins, or -1 when
// the player has never been ranked.
func (lb *Leaderboard) GetPlayerRank(ctx context.Context, name string) (int64, error) {
	rank, err := lb.redis.ZRevRank(ctx, leaderboardKey, name).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return -1, nil
		}
		return -1, err
	}
	return rank + 1, nil
}
