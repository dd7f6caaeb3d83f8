package game

// Shard respawn delay: drawn per collection, not fixed, so farming a single
// spawn point is unreliable.
const (
	ShardRespawnMinMs      = 4000
	ShardRespawnVarianceMs = 4000
)

// Shard is a collectible. Position is fixed once spawned; a collected shard
// reappears in place after its randomized delay.
type Shard struct {
	ID   int
	X, Y float64

	Collected      bool
	CollectedAtMs  int64 // 0 while available
	RespawnDelayMs int64 // 0 while available
}

// NewShard creates an available shard at (x, y).
func NewShard(id int, x, y float64) *Shard {
	return &Shard{ID: id, X: x, Y: y}
}

// Collect marks the shard collected and records its randomized respawn
// delay. Returns false if it was already collected.
func (s *Shard) Collect(nowMs, respawnDelayMs int64) bool {
	if s.Collected {
		return false
	}
	s.Collected = true
	s.CollectedAtMs = nowMs
	s.RespawnDelayMs = respawnDelayMs
	return true
}

// DueForRespawn reports whether the randomized delay has elapsed.
func (s *Shard) DueForRespawn(nowMs int64) bool {
	return s.Collected && nowMs-s.CollectedAtMs >= s.RespawnDelayMs
}

// Respawn flips the shard back to available at its original position.
func (s *Shard) Respawn() {
	s.Collected = false
	s.CollectedAtMs = 0
	s.RespawnDelayMs = 0
}
