// internal/handlers/leaderboard.go
package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/KoubaPetr/kabo/internal/cache"
)

const defaultLeaderboardLimit = 10

// LeaderboardHandler serves the wins ranking and, with ?player=NAME,
// a single player's career stats.
func LeaderboardHandler(lb *cache.Leaderboard) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")

		if name := r.URL.Query().Get("player"); name != "" {
			stats, err := lb.GetPlayerStats(r.Context(), name)
			if err != nil {
				http.Error(w, "leaderboard unavailable", http.StatusInternalServerError)
				return
			}
			if stats == nil {
				http.Error(w, "player has no recorded matches", http.StatusNotFound)
				return
			}
			json.NewEncoder(w).Encode(stats)
			return
		}

		limit := defaultLeaderboardLimit
		if s := r.URL.Query().Get("limit"); s != "" {
			if v, err := strconv.Atoi(s); err == nil && v > 0 {
				limit = v
			}
		}
		entries, err := lb.GetLeaderboard(r.Context(), limit)
		if err != nil {
			http.Error(w, "leaderboard unavailable", http.StatusInternalServerError)
			return
		}
		json.NewEncoder(w).Encode(entries)
	}
}
