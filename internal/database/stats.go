// internal/database/stats.go
package database

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/KoubaPetr/kabo/internal/game"
)

// RecordMatchResult folds a finished match into the career stats of
// every registered participant. Unregistered names (bots, ad-hoc
// guests) are skipped silently: stats exist only for accounts.
func RecordMatchResult(ctx context.Context, result *game.MatchResult) error {
	q := `
	UPDATE users
	SET matches_played = matches_played + 1,
	    matches_won = matches_won + $1,
	    total_points = total_points + $2
	WHERE username = $3
	`
	return pgx.BeginTxFunc(ctx, DB, pgx.TxOptions{}, func(tx pgx.Tx) error {
		for _, p := range result.Standings {
			won := 0
			if p == result.Winner {
				won = 1
			}
			if _, err := tx.Exec(ctx, q, won, p.GameScore, p.Name); err != nil {
				return fmt.Errorf("update stats for %s: %w", p.Name, err)
			}
		}
		return nil
	})
}

// StatsRecorder adapts the package-level function to the server's
// recorder interface.
type StatsRecorder struct{}

func (StatsRecorder) RecordMatchResult(ctx context.Context, result *game.MatchResult) error {
	return RecordMatchResult(ctx, result)
}
