package game

import "math/rand"

// EntityStore owns every entity in the arena. It is deliberately lock-free:
// the engine goroutine is the only writer and the only reader, so access is
// serialized by construction. Handing a pointer from here to another
// goroutine is a bug.
type EntityStore struct {
	players map[string]*Player
	dummies map[string]*Dummy
	shards  map[int]*Shard
}

// dummyAnchors are the fixed dummy positions as fractions of the world size.
var dummyAnchors = [][2]float64{
	{0.25, 0.25},
	{0.75, 0.25},
	{0.25, 0.75},
	{0.75, 0.75},
	{0.50, 0.15},
	{0.50, 0.85},
}

// NewEntityStore builds the startup population: the fixed dummy set and the
// initial shard layout. Shard positions are a jittered grid so the field
// looks organic but stays reproducible for a given rng seed.
func NewEntityStore(world WorldSpec, rng *rand.Rand) *EntityStore {
	s := &EntityStore{
		players: make(map[string]*Player),
		dummies: make(map[string]*Dummy),
		shards:  make(map[int]*Shard),
	}

	for i, a := range dummyAnchors {
		if i >= world.DummyCount {
			break
		}
		d := NewDummy(i, a[0]*world.Width, a[1]*world.Height)
		s.dummies[d.ID] = d
	}

	cols := 5
	cellW := (world.Width - 2*world.Margin) / float64(cols)
	rows := (world.ShardInitial + cols - 1) / cols
	if rows < 1 {
		rows = 1
	}
	cellH := (world.Height - 2*world.Margin) / float64(rows)
	for i := 0; i < world.ShardInitial && i < world.ShardMax; i++ {
		col := float64(i % cols)
		row := float64(i / cols)
		x := world.Margin + col*cellW + rng.Float64()*cellW
		y := world.Margin + row*cellH + rng.Float64()*cellH
		x, y = ClampToWorld(x, y, world.Width, world.Height, world.Margin)
		s.shards[i] = NewShard(i, x, y)
	}

	return s
}

// AddPlayer registers a player under its connection id.
func (s *EntityStore) AddPlayer(p *Player) {
	s.players[p.ID] = p
}

// RemovePlayer drops a player; safe to call for unknown ids.
func (s *EntityStore) RemovePlayer(id string) {
	delete(s.players, id)
}

// Player returns the player for a connection id, or nil.
func (s *EntityStore) Player(id string) *Player {
	return s.players[id]
}

// PlayerCount returns the number of connected players.
func (s *EntityStore) PlayerCount() int {
	return len(s.players)
}

// Players exposes the player map for engine-side scans.
func (s *EntityStore) Players() map[string]*Player {
	return s.players
}

// Dummies exposes the dummy map for engine-side scans.
func (s *EntityStore) Dummies() map[string]*Dummy {
	return s.dummies
}

// Shard returns the shard with the given id, or nil.
func (s *EntityStore) Shard(id int) *Shard {
	return s.shards[id]
}

// Shards exposes the shard map for engine-side scans.
func (s *EntityStore) Shards() map[int]*Shard {
	return s.shards
}
