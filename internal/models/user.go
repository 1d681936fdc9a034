// internal/models/user.go
package models

import "github.com/google/uuid"

// User is a registered account. Display names at the table map to
// usernames here; career stats accumulate across matches.
type User struct {
	ID       uuid.UUID `json:"id"`
	Email    string    `json:"email"`
	Password string    `json:"password,omitempty"`
	Username string    `json:"username"`

	IsEphemeral bool `json:"is_ephemeral"`
	IsAdmin     bool `json:"is_admin"`

	MatchesPlayed int `json:"matches_played"`
	MatchesWon    int `json:"matches_won"`
	// TotalPoints is cumulative across matches; lower per-match totals
	// are better, so this is a tiebreaker stat, not a ranking.
	TotalPoints int `json:"total_points"`
}
