// internal/game/match_test.go
package game

import (
	"math/rand"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func silentLogger() *logrus.Logger {
	l := logrus.New()
	l.SetLevel(logrus.PanicLevel)
	return l
}

func newMatchPlayers(n int) []*Player {
	names := []string{"ALICE", "BOB", "CAROL", "DAVE"}
	players := make([]*Player, n)
	for i := 0; i < n; i++ {
		players[i] = NewPlayer(i, names[i], &scriptedDecider{})
	}
	return players
}

func TestNewMatchValidatesRosterSize(t *testing.T) {
	_, err := NewMatch(newMatchPlayers(1), nil, silentLogger())
	assert.Error(t, err)

	_, err = NewMatch(append(newMatchPlayers(4), NewPlayer(4, "EVE", &scriptedDecider{})), nil, silentLogger())
	assert.Error(t, err)

	_, err = NewMatch(newMatchPlayers(2), nil, silentLogger())
	assert.NoError(t, err)
}

func TestExactTargetSnapsToRecoveryOnce(t *testing.T) {
	m, err := NewMatch(newMatchPlayers(2), nil, silentLogger())
	require.NoError(t, err)

	m.Players[0].GameScore = TargetPointValue
	assert.False(t, m.applyTerminationRule())
	assert.Equal(t, RecoveryPointValue, m.Players[0].GameScore)
	assert.True(t, m.Players[0].MatchedTarget)

	// The second exact hit ends the match without another rescue.
	m.Players[0].GameScore = TargetPointValue
	assert.True(t, m.applyTerminationRule())
	assert.Equal(t, TargetPointValue, m.Players[0].GameScore)
}

func TestOvershootEndsMatchImmediately(t *testing.T) {
	m, err := NewMatch(newMatchPlayers(2), nil, silentLogger())
	require.NoError(t, err)

	m.Players[1].GameScore = TargetPointValue + 1
	assert.True(t, m.applyTerminationRule())
}

func TestResultRanksByScoreThenFinalRound(t *testing.T) {
	m, err := NewMatch(newMatchPlayers(3), nil, silentLogger())
	require.NoError(t, err)

	m.Players[0].GameScore, m.Players[0].LastRoundScore = 80, 12
	m.Players[1].GameScore, m.Players[1].LastRoundScore = 80, 4
	m.Players[2].GameScore, m.Players[2].LastRoundScore = 101, 30

	res := m.result()
	assert.Equal(t, m.Players[1], res.Winner, "tie breaks on the final round score")
	assert.Equal(t, []*Player{m.Players[1], m.Players[0], m.Players[2]}, res.Standings)
}

func TestRotationShiftsOpeningSeat(t *testing.T) {
	m, err := NewMatch(newMatchPlayers(3), nil, silentLogger())
	require.NoError(t, err)

	assert.Equal(t, m.Players[0], m.rotatedPlayers()[0])
	m.RoundsPlayed = 1
	assert.Equal(t, m.Players[1], m.rotatedPlayers()[0])
	m.RoundsPlayed = 4
	assert.Equal(t, m.Players[1], m.rotatedPlayers()[0])
}

func TestMatchPlaysToCompletion(t *testing.T) {
	players := newMatchPlayers(2)
	m, err := NewMatch(players, rand.New(rand.NewSource(7)), silentLogger())
	require.NoError(t, err)

	res, err := m.Play()
	require.NoError(t, err)
	require.NotNil(t, res)
	assert.Greater(t, res.RoundsPlayed, 0)
	assert.Len(t, res.Standings, 2)

	// The loser crossed or hit the target; the winner never did, or got
	// there with a lower cumulative score.
	assert.LessOrEqual(t, res.Winner.GameScore, res.Standings[1].GameScore)
}
