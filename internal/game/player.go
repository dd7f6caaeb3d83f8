package game

import (
	"strings"
	"unicode/utf8"
)

const (
	PlayerMaxHP = 100
	LevelMin    = 1
	LevelMax    = 30

	MaxNameLen  = 16
	DefaultName = "Drifter"

	// Experience awards
	XPPerKill  = 25
	XPPerShard = 10
)

// Player is the server-authoritative state for one connected session.
// Only the engine goroutine mutates it.
type Player struct {
	ID    string // opaque connection identifier
	Name  string
	X, Y  float64
	Level int
	XP    int

	HP    int
	MaxHP int

	IsDead     bool
	DiedAtMs   int64 // 0 while alive
	LastMoveMs int64 // last accepted move, for plausibility checks
}

// NewPlayer creates a player at the canonical spawn with full HP.
func NewPlayer(id, name string, level int, spawnX, spawnY float64) *Player {
	return &Player{
		ID:    id,
		Name:  SanitizeName(name),
		X:     spawnX,
		Y:     spawnY,
		Level: clampLevel(level),
		HP:    PlayerMaxHP,
		MaxHP: PlayerMaxHP,
	}
}

// SanitizeName trims, bounds, and defaults a client-submitted display name.
func SanitizeName(name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return DefaultName
	}
	if utf8.RuneCountInString(name) > MaxNameLen {
		runes := []rune(name)
		name = string(runes[:MaxNameLen])
	}
	return name
}

func clampLevel(level int) int {
	if level < LevelMin {
		return LevelMin
	}
	if level > LevelMax {
		return LevelMax
	}
	return level
}

// ApplyDamage reduces HP, never below zero, and returns true exactly once
// when the hit is the one that killed the player.
func (p *Player) ApplyDamage(amount int, nowMs int64) bool {
	if p.IsDead || amount <= 0 {
		return false
	}
	p.HP -= amount
	if p.HP <= 0 {
		p.HP = 0
		p.IsDead = true
		p.DiedAtMs = nowMs
		return true
	}
	return false
}

// Heal raises HP, capped at MaxHP. Dead players cannot be healed.
func (p *Player) Heal(amount int) int {
	if p.IsDead || amount <= 0 {
		return 0
	}
	before := p.HP
	p.HP += amount
	if p.HP > p.MaxHP {
		p.HP = p.MaxHP
	}
	return p.HP - before
}

// Respawn resets the player to full HP at the canonical spawn point.
func (p *Player) Respawn(spawnX, spawnY float64) {
	p.X = spawnX
	p.Y = spawnY
	p.HP = p.MaxHP
	p.IsDead = false
	p.DiedAtMs = 0
}

// GrantXP adds experience and returns true if the player leveled up.
// The curve is linear: level N requires N*100 XP to clear.
func (p *Player) GrantXP(amount int) bool {
	if amount <= 0 || p.Level >= LevelMax {
		return false
	}
	p.XP += amount
	leveled := false
	for p.Level < LevelMax && p.XP >= p.Level*100 {
		p.XP -= p.Level * 100
		p.Level++
		leveled = true
	}
	return leveled
}
