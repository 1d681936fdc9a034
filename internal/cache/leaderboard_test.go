// internal/cache/leaderboard_test.go
package cache

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KoubaPetr/kabo/internal/game"
)

func newTestLeaderboard(t *testing.T) (*Leaderboard, *miniredis.Miniredis) {
	t.Helper()
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("failed to start miniredis: %v", err)
	}
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	return NewLeaderboard(client), mr
}

func matchResult(roundsPlayed int, scores map[string]int, winner string) *game.MatchResult {
	res := &game.MatchResult{RoundsPlayed: roundsPlayed}
	for name, score := range scores {
		p := game.NewPlayer(len(res.Standings), name, nil)
		p.GameScore = score
		res.Standings = append(res.Standings, p)
		if name == winner {
			res.Winner = p
		}
	}
	return res
}

func TestRecordMatchResultNewPlayers(t *testing.T) {
	t.Parallel()

	lb, mr := newTestLeaderboard(t)
	defer mr.Close()
	ctx := context.Background()

	res := matchResult(6, map[string]int{"ALICE": 42, "BOB": 104}, "ALICE")
	require.NoError(t, lb.RecordMatchResult(ctx, res))

	stats, err := lb.GetPlayerStats(ctx, "ALICE")
	require.NoError(t, err)
	require.NotNil(t, stats)
	assert.Equal(t, 1, stats.MatchesPlayed)
	assert.Equal(t, 1, stats.Wins)
	assert.Equal(t, 6, stats.RoundsPlayed)
	assert.Equal(t, 42, stats.BestMatchScore)

	stats, err = lb.GetPlayerStats(ctx, "BOB")
	require.NoError(t, err)
	require.NotNil(t, stats)
	assert.Equal(t, 0, stats.Wins)
	assert.Equal(t, 104, stats.BestMatchScore)
}

func TestUnknownPlayerHasNoStats(t *testing.T) {
	t.Parallel()

	lb, mr := newTestLeaderboard(t)
	defer mr.Close()

	stats, err := lb.GetPlayerStats(context.Background(), "NOBODY")
	require.NoError(t, err)
	assert.Nil(t, stats)
}

func TestBestMatchScoreKeepsTheLowest(t *testing.T) {
	t.Parallel()

	lb, mr := newTestLeaderboard(t)
	defer mr.Close()
	ctx := context.Background()

	require.NoError(t, lb.RecordMatchResult(ctx, matchResult(4, map[string]int{"ALICE": 30, "BOB": 110}, "ALICE")))
	require.NoError(t, lb.RecordMatchResult(ctx, matchResult(5, map[string]int{"ALICE": 70, "BOB": 101}, "ALICE")))

	stats, err := lb.GetPlayerStats(ctx, "ALICE")
	require.NoError(t, err)
	assert.Equal(t, 30, stats.BestMatchScore, "a worse later match does not overwrite the best score")
	assert.Equal(t, 2, stats.MatchesPlayed)
	assert.Equal(t, 9, stats.RoundsPlayed)
}

func TestLeaderboardRanksByWins(t *testing.T) {
	t.Parallel()

	lb, mr := newTestLeaderboard(t)
	defer mr.Close()
	ctx := context.Background()

	require.NoError(t, lb.RecordMatchResult(ctx, matchResult(3, map[string]int{"ALICE": 20, "BOB": 105}, "ALICE")))
	require.NoError(t, lb.RecordMatchResult(ctx, matchResult(3, map[string]int{"ALICE": 40, "BOB": 102}, "ALICE")))
	require.NoError(t, lb.RecordMatchResult(ctx, matchResult(3, map[string]int{"ALICE": 103, "BOB": 55}, "BOB")))

	entries, err := lb.GetLeaderboard(ctx, 10)
	require.NoError(t, err)
	require.Len(t, entries, 2)

	assert.Equal(t, "ALICE", entries[0].Name)
	assert.Equal(t, 2, entries[0].Wins)
	assert.Equal(t, 1, entries[0].Rank)
	assert.InDelta(t, 66.6, entries[0].WinRate, 0.1)

	assert.Equal(t, "BOB", entries[1].Name)
	assert.Equal(t, 1, entries[1].Wins)

	rank, err := lb.GetPlayerRank(ctx, "BOB")
	require.NoError(t, err)
	assert.Equal(t, int64(2), rank)

	rank, err = lb.GetPlayerRank(ctx, "NOBODY")
	require.NoError(t, err)
	assert.Equal(t, int64(-1), rank)
}
