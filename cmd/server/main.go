package main

import (
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/joho/godotenv"

	"psi-arena/internal/api"
	"psi-arena/internal/config"
	"psi-arena/internal/game"
	"psi-arena/internal/logging"
)

func main() {
	// .env is optional; environment variables always win.
	_ = godotenv.Load()

	cfg := config.Load()

	if err := logging.Init(cfg.Server.LogFile); err != nil {
		panic(err)
	}
	defer logging.Sync()

	world := game.WorldSpec{
		Width:        cfg.World.Width,
		Height:       cfg.World.Height,
		Margin:       cfg.World.Margin,
		SpawnX:       cfg.World.SpawnX,
		SpawnY:       cfg.World.SpawnY,
		DummyCount:   cfg.World.DummyCount,
		ShardMax:     cfg.World.ShardMax,
		ShardInitial: cfg.World.ShardInitial,
	}

	hub := api.NewHub()
	engine := game.NewEngine(game.EngineConfig{
		World:      world,
		Dispatcher: hub,
		MaxPlayers: cfg.Limits.MaxPlayers,
	})
	engine.OnSuspicion = api.RecordSuspicion
	hub.AttachEngine(engine)
	go engine.Run()

	api.StartDebugServer(cfg.Observability)

	router := api.NewRouter(api.RouterConfig{
		Engine: engine,
		Hub:    hub,
		RateLimitConfig: &api.RateLimitConfig{
			RequestsPerSecond: cfg.Limits.HTTPRequestsPerSec,
			Burst:             cfg.Limits.HTTPBurst,
		},
		MaxConnsPerIP: cfg.Limits.MaxConnsPerIP,
	})

	addr := ":" + strconv.Itoa(cfg.Server.Port)
	srv := &http.Server{Addr: addr, Handler: router}

	go func() {
		logging.L.Infow("arena server listening", "addr", addr,
			"world", cfg.World.Width, "dummies", cfg.World.DummyCount, "shards", cfg.World.ShardInitial)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logging.L.Fatalf("listen: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logging.L.Info("shutting down")
	srv.Close()
	engine.Stop()
}
