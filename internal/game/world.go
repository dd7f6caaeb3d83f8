package game

// WorldSpec describes the arena geometry and startup population. It mirrors
// the operator-facing config struct so this package stays import-free of the
// config layer.
type WorldSpec struct {
	Width  float64
	Height float64
	Margin float64
	SpawnX float64
	SpawnY float64

	DummyCount   int
	ShardMax     int
	ShardInitial int
}

// DefaultWorldSpec is the arena used by tests.
func DefaultWorldSpec() WorldSpec {
	return WorldSpec{
		Width:        2000,
		Height:       2000,
		Margin:       20,
		SpawnX:       1000,
		SpawnY:       1000,
		DummyCount:   6,
		ShardMax:     40,
		ShardInitial: 20,
	}
}
