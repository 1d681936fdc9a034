// internal/game/match.go
package game

import (
	"fmt"
	"math/rand"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/KoubaPetr/kabo/internal/models"
)

// Match runs rounds back to back over a fixed roster until the
// 100-point termination rule fires. Players persist across rounds; the
// card factory is owned here and reset per match so card ids stay
// small and stable.
type Match struct {
	ID      uuid.UUID
	Players []*Player

	RoundsPlayed int

	factory *models.CardFactory
	rng     *rand.Rand
	log     *logrus.Entry
}

// MatchResult is what the match loop hands back to its caller.
type MatchResult struct {
	Winner       *Player
	Standings    []*Player // sorted best (lowest score) first
	RoundsPlayed int
}

// NewMatch validates the roster size and wires a fresh match. A nil
// rng seeds one from the clock.
func NewMatch(players []*Player, rng *rand.Rand, log *logrus.Logger) (*Match, error) {
	if len(players) < MinPlayers || len(players) > MaxPlayers {
		return nil, fmt.Errorf("match needs %d-%d players, got %d", MinPlayers, MaxPlayers, len(players))
	}
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	id, _ := uuid.NewRandom()
	m := &Match{
		ID:      id,
		Players: players,
		factory: models.NewCardFactory(),
		rng:     rng,
		log:     log.WithField("match", id),
	}
	for _, p := range players {
		p.ResetForMatch()
	}
	return m, nil
}

// Play runs rounds until the termination rule ends the match. A
// participant failure aborts the whole match; the engine never retries
// a lost seat.
func (m *Match) Play() (*MatchResult, error) {
	for {
		m.factory.Reset()
		r := NewRound(m.RoundsPlayed, m.rotatedPlayers(), m.factory.NewCardSet(), m.rng, m.log)
		if err := r.Run(); err != nil {
			return nil, fmt.Errorf("round %d: %w", r.ID, err)
		}
		m.RoundsPlayed++

		if m.applyTerminationRule() {
			return m.result(), nil
		}
	}
}

// rotatedPlayers shifts the seating so a different player opens each
// round.
func (m *Match) rotatedPlayers() []*Player {
	n := len(m.Players)
	shift := m.RoundsPlayed % n
	rotated := make([]*Player, 0, n)
	rotated = append(rotated, m.Players[shift:]...)
	rotated = append(rotated, m.Players[:shift]...)
	return rotated
}

// applyTerminationRule implements the target threshold: hitting exactly
// TargetPointValue snaps the score to RecoveryPointValue once per
// match; a second exact hit or any score beyond the target ends the
// match.
func (m *Match) applyTerminationRule() bool {
	done := false
	for _, p := range m.Players {
		switch {
		case p.GameScore == TargetPointValue:
			if p.MatchedTarget {
				done = true
			} else {
				p.MatchedTarget = true
				p.GameScore = RecoveryPointValue
				m.log.WithField("player", p.Name).Info("score snapped back to recovery value")
			}
		case p.GameScore > TargetPointValue:
			done = true
		}
	}
	return done
}

// result ranks players by cumulative score, breaking ties by the score
// of the final round.
func (m *Match) result() *MatchResult {
	standings := make([]*Player, len(m.Players))
	copy(standings, m.Players)
	sort.SliceStable(standings, func(i, j int) bool {
		if standings[i].GameScore != standings[j].GameScore {
			return standings[i].GameScore < standings[j].GameScore
		}
		return standings[i].LastRoundScore < standings[j].LastRoundScore
	})
	res := &MatchResult{
		Winner:       standings[0],
		Standings:    standings,
		RoundsPlayed: m.RoundsPlayed,
	}
	m.log.WithFields(logrus.Fields{
		"winner": res.Winner.Name,
		"rounds": res.RoundsPlayed,
	}).Info("match finished")
	return res
}
