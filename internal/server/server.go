// internal/server/server.go

// Package server admits remote participants and runs matches over
// their connections. All game logic stays inside internal/game; this
// package only bridges connections to seats.
package server

import (
	"context"
	"fmt"
	"net"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/KoubaPetr/kabo/internal/bot"
	"github.com/KoubaPetr/kabo/internal/game"
	"github.com/KoubaPetr/kabo/internal/protocol"
	"github.com/KoubaPetr/kabo/internal/transport"
)

// ResultRecorder persists a finished match somewhere: career stats in
// Postgres, the Redis leaderboard. Recording is best effort and never
// blocks the next match on a slow backend.
type ResultRecorder interface {
	RecordMatchResult(ctx context.Context, result *game.MatchResult) error
}

const recordTimeout = 5 * time.Second

// Server fills a roster from incoming connections, pads it with bots,
// and plays one match to completion.
type Server struct {
	humanSeats int
	botSeats   int

	roster    *Roster
	log       *logrus.Logger
	recorders []ResultRecorder
}

// New validates the seat split against the table limits. Bots fill the
// tail seats, so a single connected human plays against bots.
func New(humanSeats, botSeats int, log *logrus.Logger, recorders ...ResultRecorder) (*Server, error) {
	total := humanSeats + botSeats
	if total < game.MinPlayers || total > game.MaxPlayers {
		return nil, fmt.Errorf("table seats %d-%d players, got %d humans and %d bots",
			game.MinPlayers, game.MaxPlayers, humanSeats, botSeats)
	}
	if humanSeats < 1 {
		return nil, fmt.Errorf("at least one human seat is required, got %d", humanSeats)
	}
	return &Server{
		humanSeats: humanSeats,
		botSeats:   botSeats,
		roster:     NewRoster(humanSeats),
		log:        log,
		recorders:  recorders,
	}, nil
}

// Admit runs the join handshake on a connection from any transport.
// The websocket handler calls this too.
func (s *Server) Admit(conn transport.Conn) (*Seat, error) {
	seat, err := s.roster.Admit(conn)
	if err != nil {
		s.log.WithError(err).Warn("admission failed")
		return nil, err
	}
	s.log.WithFields(logrus.Fields{
		"player": seat.Name,
		"seated": len(s.roster.Seats()),
		"wanted": s.humanSeats,
	}).Info("participant joined")
	return seat, nil
}

// ListenAndServe accepts TCP participants until the roster fills, then
// plays the match and returns. Ctx cancellation aborts the wait.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", addr, err)
	}
	s.log.WithField("addr", ln.Addr().String()).Info("waiting for participants")

	go func() {
		for {
			conn, err := ln.Accept()
			if err != nil {
				return
			}
			go s.Admit(transport.NewTCPConn(conn))
		}
	}()

	select {
	case <-ctx.Done():
		ln.Close()
		return ctx.Err()
	case <-s.roster.Full():
	}
	ln.Close()

	return s.RunMatch(ctx)
}

// RunMatch plays one match over the admitted roster. Remote failures
// abort the match; bots never fail.
func (s *Server) RunMatch(ctx context.Context) error {
	seats := s.roster.Seats()

	remotes := make([]*transport.RemotePlayer, 0, len(seats))
	players := make([]*game.Player, 0, len(seats)+s.botSeats)
	names := make([]string, 0, len(seats)+s.botSeats)
	for _, seat := range seats {
		remote := transport.NewRemotePlayer(seat.Name, seat.Conn, s.log)
		remotes = append(remotes, remote)
		players = append(players, game.NewPlayer(seat.PlayerID, seat.Name, remote))
		names = append(names, seat.Name)
	}
	for i := 0; i < s.botSeats; i++ {
		name := fmt.Sprintf("BOT_%d", i+1)
		players = append(players, game.NewPlayer(len(players), name, bot.NewGreedy(nil)))
		names = append(names, name)
	}
	defer func() {
		for _, r := range remotes {
			r.Close()
		}
	}()

	for _, r := range remotes {
		if err := r.Notify(&protocol.Message{
			Type:        protocol.TypeGameStart,
			PlayerNames: names,
			Name:        r.Name,
		}); err != nil {
			return fmt.Errorf("starting match: %w", err)
		}
	}

	m, err := game.NewMatch(players, nil, s.log)
	if err != nil {
		return err
	}
	s.log.WithField("players", names).Info("match starting")

	result, err := m.Play()
	if err != nil {
		return err
	}

	scores := make(map[string]int, len(result.Standings))
	for _, p := range result.Standings {
		scores[p.Name] = p.GameScore
	}
	for _, r := range remotes {
		if err := r.Notify(&protocol.Message{
			Type:       protocol.TypeGameEnd,
			Winner:     result.Winner.Name,
			GameScores: scores,
		}); err != nil {
			s.log.WithError(err).Warn("game_end not delivered")
		}
	}

	s.record(ctx, result)
	return nil
}

func (s *Server) record(ctx context.Context, result *game.MatchResult) {
	for _, rec := range s.recorders {
		recCtx, cancel := context.WithTimeout(ctx, recordTimeout)
		if err := rec.RecordMatchResult(recCtx, result); err != nil {
			s.log.WithError(err).Warn("match result not recorded")
		}
		cancel()
	}
}
