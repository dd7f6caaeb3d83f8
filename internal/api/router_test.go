package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"psi-arena/internal/game"
)

// stubEngine satisfies EngineInterface without a running actor loop.
type stubEngine struct {
	roster game.Roster
	stats  game.Stats
}

func (s *stubEngine) Snapshot() (game.Roster, game.Stats) {
	return s.roster, s.stats
}

func testRouter(t *testing.T, engine EngineInterface, rlCfg *RateLimitConfig) http.Handler {
	t.Helper()
	return NewRouter(RouterConfig{
		Engine:          engine,
		RateLimitConfig: rlCfg,
		DisableLogging:  true,
	})
}

func TestHealthz(t *testing.T) {
	r := testRouter(t, &stubEngine{}, nil)

	req := httptest.NewRequest("GET", "/healthz", nil)
	req.RemoteAddr = "10.0.0.1:40000"
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status: got %d", rec.Code)
	}
	if rec.Body.String() != "ok" {
		t.Errorf("body: got %q", rec.Body.String())
	}
}

func TestGetState(t *testing.T) {
	engine := &stubEngine{
		roster: game.Roster{
			Players: []game.PlayerState{{ID: "c1", Name: "Vex", X: 100, Y: 200, Level: 3, HP: 90, MaxHP: 100}},
			Dummies: []game.DummyState{{ID: "dummy-0", X: 500, Y: 500, HP: 30, MaxHP: 30}},
			Shards:  []game.ShardState{{ID: 0, X: 50, Y: 60}},
		},
	}
	r := testRouter(t, engine, nil)

	req := httptest.NewRequest("GET", "/api/state", nil)
	req.RemoteAddr = "10.0.0.1:40000"
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status: got %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("content type: got %q", ct)
	}
	var roster game.Roster
	if err := json.NewDecoder(rec.Body).Decode(&roster); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(roster.Players) != 1 || roster.Players[0].ID != "c1" || roster.Players[0].HP != 90 {
		t.Errorf("players round-trip wrong: %+v", roster.Players)
	}
	if len(roster.Dummies) != 1 || len(roster.Shards) != 1 {
		t.Errorf("roster counts wrong: %d dummies, %d shards", len(roster.Dummies), len(roster.Shards))
	}
}

func TestGetStats(t *testing.T) {
	engine := &stubEngine{
		stats: game.Stats{UptimeSeconds: 42, Players: 3, ActionsProcessed: 1000, Suspicions: 5},
	}
	r := testRouter(t, engine, nil)

	req := httptest.NewRequest("GET", "/api/stats", nil)
	req.RemoteAddr = "10.0.0.1:40000"
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status: got %d", rec.Code)
	}
	var stats game.Stats
	if err := json.NewDecoder(rec.Body).Decode(&stats); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if stats.Players != 3 || stats.Suspicions != 5 {
		t.Errorf("stats round-trip wrong: %+v", stats)
	}
}

func TestRateLimitMiddleware(t *testing.T) {
	r := testRouter(t, &stubEngine{}, &RateLimitConfig{
		RequestsPerSecond: 1,
		Burst:             2,
		CleanupInterval:   time.Minute,
	})

	get := func(addr string) *httptest.ResponseRecorder {
		req := httptest.NewRequest("GET", "/healthz", nil)
		req.RemoteAddr = addr
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)
		return rec
	}

	for i := 0; i < 2; i++ {
		if rec := get("10.0.0.1:40000"); rec.Code != http.StatusOK {
			t.Fatalf("request %d within burst: got %d", i, rec.Code)
		}
	}
	rec := get("10.0.0.1:40000")
	if rec.Code != http.StatusTooManyRequests {
		t.Fatalf("over-burst request: got %d, want 429", rec.Code)
	}
	if rec.Header().Get("Retry-After") == "" {
		t.Error("429 without Retry-After")
	}

	// Other IPs keep their own bucket.
	if rec := get("10.0.0.2:40000"); rec.Code != http.StatusOK {
		t.Errorf("separate IP limited: got %d", rec.Code)
	}
}

func TestConnCounter(t *testing.T) {
	c := NewConnCounter(2)

	if !c.Acquire("10.0.0.1") || !c.Acquire("10.0.0.1") {
		t.Fatal("acquires within cap refused")
	}
	if c.Acquire("10.0.0.1") {
		t.Fatal("acquire past cap allowed")
	}
	if !c.Acquire("10.0.0.2") {
		t.Fatal("separate IP blocked by another IP's cap")
	}

	c.Release("10.0.0.1")
	if !c.Acquire("10.0.0.1") {
		t.Error("slot not freed by release")
	}
}

func TestClientIP(t *testing.T) {
	tests := []struct {
		name       string
		remoteAddr string
		xff        string
		want       string
	}{
		{"plain", "192.168.1.5:50000", "", "192.168.1.5"},
		{"forwarded", "10.0.0.1:50000", "203.0.113.7", "203.0.113.7"},
		{"forwarded chain", "10.0.0.1:50000", "203.0.113.7, 10.0.0.1", "203.0.113.7"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/", nil)
			req.RemoteAddr = tt.remoteAddr
			if tt.xff != "" {
				req.Header.Set("X-Forwarded-For", tt.xff)
			}
			if got := clientIP(req); got != tt.want {
				t.Errorf("clientIP: got %q, want %q", got, tt.want)
			}
		})
	}
}
