package game

import "math/rand"

// Respawn delays. Player respawn is fixed so clients can render an exact
// countdown from the death broadcast; shard delays are randomized per
// collection (see shard.go).
const (
	PlayerRespawnDelayMs = 3000
	DummyRespawnDelayMs  = 5000

	// Sweep cadences. Players get a tighter sweep so respawn feedback feels
	// snappy; shards and dummies can wait a full second.
	PlayerSweepIntervalMs = 500
	EntitySweepIntervalMs = 1000
)

// RollShardRespawnDelay draws the randomized delay recorded at collection
// time, uniform over [min, min+variance).
func RollShardRespawnDelay(rng *rand.Rand) int64 {
	return ShardRespawnMinMs + rng.Int63n(ShardRespawnVarianceMs)
}

// SweepShards flips every due shard back to available and returns the spawn
// announcements.
func SweepShards(store *EntityStore, nowMs int64) []ShardSpawnedMsg {
	var spawned []ShardSpawnedMsg
	for _, s := range store.Shards() {
		if !s.DueForRespawn(nowMs) {
			continue
		}
		s.Respawn()
		spawned = append(spawned, ShardSpawnedMsg{ShardID: s.ID, X: s.X, Y: s.Y})
	}
	return spawned
}

// SweepDummies revives every dummy whose delay has elapsed, snapping it back
// to its anchor.
func SweepDummies(store *EntityStore, nowMs int64) []RespawnMsg {
	var revived []RespawnMsg
	for _, d := range store.Dummies() {
		if d.Alive() || nowMs-d.DiedAtMs < DummyRespawnDelayMs {
			continue
		}
		d.Respawn()
		revived = append(revived, RespawnMsg{Kind: targetKindDummy, ID: d.ID, X: d.X, Y: d.Y, HP: d.HP})
	}
	return revived
}

// SweepPlayers revives every dead player whose delay has elapsed at the
// canonical spawn point.
func SweepPlayers(store *EntityStore, world WorldSpec, nowMs int64) []RespawnMsg {
	var revived []RespawnMsg
	for _, p := range store.Players() {
		if !p.IsDead || nowMs-p.DiedAtMs < PlayerRespawnDelayMs {
			continue
		}
		p.Respawn(world.SpawnX, world.SpawnY)
		revived = append(revived, RespawnMsg{Kind: targetKindPlayer, ID: p.ID, X: p.X, Y: p.Y, HP: p.HP})
	}
	return revived
}
