// internal/server/roster.go
package server

import (
	"fmt"
	"strings"
	"sync"

	"github.com/KoubaPetr/kabo/internal/protocol"
	"github.com/KoubaPetr/kabo/internal/transport"
)

// Seat is one admitted participant, waiting for the match to start.
type Seat struct {
	PlayerID int
	Name     string
	Conn     transport.Conn
}

// Roster collects participants through the join handshake until every
// seat is taken. Admission runs on the transport's goroutines, so the
// seat list is the one place in the program that needs a lock; once
// the match starts, the engine owns every connection sequentially.
type Roster struct {
	mu    sync.Mutex
	cap   int
	seats []*Seat
	full  chan struct{}
}

func NewRoster(capacity int) *Roster {
	return &Roster{
		cap:  capacity,
		full: make(chan struct{}),
	}
}

// Full is closed once every seat is taken.
func (r *Roster) Full() <-chan struct{} {
	return r.full
}

// Seats returns the admitted participants in join order.
func (r *Roster) Seats() []*Seat {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]*Seat(nil), r.seats...)
}

// Admit runs the join handshake on conn. A join with a free, unique
// display name gets a join_ack carrying the assigned player id; any
// other outcome gets a join_reject and a closed connection.
func (r *Roster) Admit(conn transport.Conn) (*Seat, error) {
	msg, err := conn.ReadMessage()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("join handshake: %w", err)
	}
	if msg.Type != protocol.TypeJoin {
		return nil, r.reject(conn, fmt.Sprintf("expected a join message, got %q", msg.Type))
	}
	name := strings.ToUpper(strings.TrimSpace(msg.Name))
	if name == "" {
		return nil, r.reject(conn, "a display name is required")
	}

	r.mu.Lock()
	if len(r.seats) >= r.cap {
		r.mu.Unlock()
		return nil, r.reject(conn, "the roster is full")
	}
	for _, s := range r.seats {
		if s.Name == name {
			r.mu.Unlock()
			return nil, r.reject(conn, fmt.Sprintf("the name %q is already taken", name))
		}
	}
	seat := &Seat{PlayerID: len(r.seats), Name: name, Conn: conn}
	r.seats = append(r.seats, seat)
	filled := len(r.seats) == r.cap
	r.mu.Unlock()

	err = conn.WriteMessage(&protocol.Message{
		Type:     protocol.TypeJoinAck,
		PlayerID: protocol.Int(seat.PlayerID),
		Reason:   fmt.Sprintf("Welcome %s! Waiting for the other players.", name),
	})
	if filled {
		close(r.full)
	}
	if err != nil {
		// The seat stays assigned; the dead connection surfaces when
		// the match asks its first question.
		return seat, fmt.Errorf("join_ack to %s: %w", name, err)
	}
	return seat, nil
}

func (r *Roster) reject(conn transport.Conn, reason string) error {
	_ = conn.WriteMessage(&protocol.Message{
		Type:   protocol.TypeJoinReject,
		Reason: reason,
	})
	conn.Close()
	return fmt.Errorf("join rejected: %s", reason)
}
