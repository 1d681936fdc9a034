// cmd/server/main.go
package main

import (
	"context"
	"log"
	"net/http"
	"sync"

	_ "github.com/joho/godotenv/autoload"
	"github.com/sirupsen/logrus"

	"github.com/KoubaPetr/kabo/internal/auth"
	"github.com/KoubaPetr/kabo/internal/cache"
	"github.com/KoubaPetr/kabo/internal/config"
	"github.com/KoubaPetr/kabo/internal/database"
	"github.com/KoubaPetr/kabo/internal/handlers"
	"github.com/KoubaPetr/kabo/internal/middleware"
	"github.com/KoubaPetr/kabo/internal/server"
)

// tableHolder tracks the table currently accepting players. A new one
// replaces it after every match.
type tableHolder struct {
	mu  sync.Mutex
	srv *server.Server
}

func (h *tableHolder) set(srv *server.Server) {
	h.mu.Lock()
	h.srv = srv
	h.mu.Unlock()
}

func (h *tableHolder) get() *server.Server {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.srv
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	logger := logrus.New()
	if level, err := logrus.ParseLevel(cfg.LogLevel); err == nil {
		logger.SetLevel(level)
	}

	auth.Init()

	var recorders []server.ResultRecorder
	if cfg.StatsEnabled {
		database.ConnectDB()
		recorders = append(recorders, database.StatsRecorder{})
	}
	var lb *cache.Leaderboard
	if cfg.LeaderboardEnabled {
		if err := cache.ConnectRedis(); err != nil {
			log.Fatalf("redis: %v", err)
		}
		lb = cache.NewLeaderboard(cache.Rdb)
		recorders = append(recorders, lb)
	}

	holder := &tableHolder{}

	mux := http.NewServeMux()
	mux.HandleFunc("/user/create", handlers.CreateUserHandler)
	mux.HandleFunc("/user/login", handlers.LoginHandler)
	mux.HandleFunc("/user/me", handlers.MeHandler)
	if lb != nil {
		mux.Handle("/leaderboard", middleware.LogMiddleware(logger)(
			handlers.LeaderboardHandler(lb),
		))
	}
	mux.Handle("/game/ws", middleware.LogMiddleware(logger)(http.HandlerFunc(
		handlers.GameWSHandler(logger, holder.get),
	)))

	go func() {
		logger.Infof("HTTP API on %s", cfg.HTTPAddr)
		if err := http.ListenAndServe(cfg.HTTPAddr, mux); err != nil {
			log.Fatalf("http server exited: %v", err)
		}
	}()

	// One table at a time: fill the roster, play the match, open the
	// next table.
	for {
		srv, err := server.New(cfg.HumanSeats, cfg.BotSeats, logger, recorders...)
		if err != nil {
			log.Fatalf("server: %v", err)
		}
		holder.set(srv)

		if err := srv.ListenAndServe(context.Background(), cfg.TCPAddr); err != nil {
			logger.WithError(err).Error("match aborted")
		}
		holder.set(nil)
	}
}
