package config

import "testing"

func TestDefaults(t *testing.T) {
	cfg := Load()

	if cfg.Server.Port != 8080 {
		t.Errorf("port: got %d", cfg.Server.Port)
	}
	if cfg.World.Width != 2000 || cfg.World.Height != 2000 {
		t.Errorf("world size: got %f x %f", cfg.World.Width, cfg.World.Height)
	}
	if cfg.World.ShardInitial > cfg.World.ShardMax {
		t.Error("initial shard count exceeds pool capacity")
	}
	if cfg.Limits.MaxPlayers != 100 || cfg.Limits.MaxConnsPerIP != 5 {
		t.Errorf("limits: %+v", cfg.Limits)
	}
	if !cfg.Observability.Enabled || cfg.Observability.ListenAddr != "127.0.0.1:6060" {
		t.Errorf("observability: %+v", cfg.Observability)
	}
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("LOG_FILE", "/tmp/test.log")
	t.Setenv("WORLD_WIDTH", "3000")
	t.Setenv("MAX_PLAYERS", "8")
	t.Setenv("DISABLE_DEBUG_SERVER", "true")

	cfg := Load()
	if cfg.Server.Port != 9090 {
		t.Errorf("port override: got %d", cfg.Server.Port)
	}
	if cfg.Server.LogFile != "/tmp/test.log" {
		t.Errorf("log file override: got %q", cfg.Server.LogFile)
	}
	if cfg.World.Width != 3000 || cfg.World.Height != 2000 {
		t.Errorf("world override: got %f x %f", cfg.World.Width, cfg.World.Height)
	}
	if cfg.Limits.MaxPlayers != 8 {
		t.Errorf("max players override: got %d", cfg.Limits.MaxPlayers)
	}
	if cfg.Observability.Enabled {
		t.Error("debug server not disabled")
	}
}

func TestInvalidEnvFallsBack(t *testing.T) {
	t.Setenv("PORT", "not-a-port")
	t.Setenv("WORLD_WIDTH", "-100")
	t.Setenv("SHARD_INITIAL", "999")

	cfg := Load()
	if cfg.Server.Port != 8080 {
		t.Errorf("bad port should fall back to default, got %d", cfg.Server.Port)
	}
	if cfg.World.Width != 2000 {
		t.Errorf("negative width should fall back to default, got %f", cfg.World.Width)
	}
	if cfg.World.ShardInitial != 20 {
		t.Errorf("oversized shard count should fall back to default, got %d", cfg.World.ShardInitial)
	}
}
