package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"

	"github.com/joho/godotenv"

	"fitness-battle-server/api"
	"fitness-battle-server/catalog"
	"fitness-battle-server/config"
	"fitness-battle-server/effect"
	"fitness-battle-server/loghandler"
	"fitness-battle-server/session"
	"fitness-battle-server/storage"
	"fitness-battle-server/ws"
)

func main() {
	if err := godotenv.Load(); err != nil {
		slog.Info("no .env file found; using environment variables")
	}

	slog.SetDefault(slog.New(loghandler.NewCompactHandler(os.Stdout, slog.LevelInfo)))

	cfg := config.Load()

	if cfg.AuthJWKSURL == "" {
		slog.Warn("AUTH_JWKS_URL is not set; trusting X-User-ID headers (development mode)", "tag", "auth")
	} else {
		slog.Info("auth configured", "tag", "auth", "jwks", cfg.AuthJWKSURL)
	}

	cat := catalog.Builtin()
	if cfg.CatalogPath != "" {
		loaded, err := catalog.Load(cfg.CatalogPath)
		if err != nil {
			slog.Error("loading card catalog", "tag", "main", "path", cfg.CatalogPath, "err", err)
			os.Exit(1)
		}
		cat = loaded
	}
	slog.Info("catalog ready", "tag", "main",
		"exercise", len(cat.Exercise), "utility", len(cat.Utility), "warmup", len(cat.Warmup))

	registry := effect.NewRegistry()
	effect.RegisterAll(registry)

	ctx := context.Background()
	store, err := storage.NewStore(ctx, cfg.DatabaseURL)
	if err != nil {
		slog.Error("connecting to Postgres", "tag", "storage", "err", err)
		os.Exit(1)
	}
	if store == nil {
		slog.Warn("DATABASE_URL is not set; profiles and history are in-memory only", "tag", "storage")
	}
	defer store.Close()

	// A nil *Store must stay a nil interface so the manager falls back to
	// its in-memory profiles.
	var battleStore storage.BattleStore
	if store != nil {
		battleStore = store
	}

	mgr := session.NewManager(cfg, cat, battleStore, registry)

	hub := ws.NewHub(cfg, mgr)
	go hub.Run(ctx)

	handler := api.NewHandler(cfg, mgr, battleStore)

	mux := http.NewServeMux()
	mux.HandleFunc("/api/battle/start", handler.StartBattle)
	mux.HandleFunc("/api/battle/play", handler.PlayCard)
	mux.HandleFunc("/api/battle/state", handler.BattleState)
	mux.HandleFunc("/api/battle/abandon", handler.Abandon)
	mux.HandleFunc("/api/feedback", handler.Feedback)
	mux.HandleFunc("/api/profile", handler.Profile)
	mux.HandleFunc("/api/history", handler.History)
	mux.HandleFunc("/ws", hub.ServeWS)

	addr := fmt.Sprintf(":%d", cfg.HTTPPort)
	slog.Info("fitness battle server listening", "tag", "main", "addr", addr)
	if err := http.ListenAndServe(addr, mux); err != nil {
		slog.Error("server stopped", "tag", "main", "err", err)
		os.Exit(1)
	}
}
