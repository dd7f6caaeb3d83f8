package game

import "fmt"

const (
	DummyMaxHP = 30

	// DummyHalfSize is half the rendered sprite size; melee scans pad their
	// radius by this so grazing the sprite edge still counts as a hit.
	DummyHalfSize = 24.0
)

// Dummy is a stationary AI target. The set is fixed at startup; dummies are
// never destroyed, only toggled dead and respawned in place. Deadness is
// HP <= 0; there is no separate flag.
type Dummy struct {
	ID       string
	Name     string
	X, Y     float64
	InitialX float64
	InitialY float64

	HP    int
	MaxHP int

	DiedAtMs int64 // 0 while alive
}

// NewDummy creates a dummy anchored at (x, y).
func NewDummy(index int, x, y float64) *Dummy {
	return &Dummy{
		ID:       fmt.Sprintf("dummy-%d", index),
		Name:     fmt.Sprintf("Training Dummy %d", index+1),
		X:        x,
		Y:        y,
		InitialX: x,
		InitialY: y,
		HP:       DummyMaxHP,
		MaxHP:    DummyMaxHP,
	}
}

// Alive reports whether the dummy can be targeted.
func (d *Dummy) Alive() bool {
	return d.HP > 0
}

// ApplyDamage reduces HP, never below zero, and returns true exactly once
// when the hit killed the dummy.
func (d *Dummy) ApplyDamage(amount int, nowMs int64) bool {
	if !d.Alive() || amount <= 0 {
		return false
	}
	d.HP -= amount
	if d.HP <= 0 {
		d.HP = 0
		d.DiedAtMs = nowMs
		return true
	}
	return false
}

// Respawn restores the dummy at its anchor position. Knockback may have
// displaced it while alive; respawn always snaps back to InitialX/Y exactly.
func (d *Dummy) Respawn() {
	d.X = d.InitialX
	d.Y = d.InitialY
	d.HP = d.MaxHP
	d.DiedAtMs = 0
}
