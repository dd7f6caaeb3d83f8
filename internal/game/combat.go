package game

import "math/rand"

// Server-authoritative combat constants. Clients submit their own ideas of
// range and damage for effect prediction; none of it reaches resolution.
const (
	MeleeRadius = 150.0
	MeleeDamage = 10

	// Distance-scaled knockback: closer targets fly farther, scaled by a
	// uniform multiplier drawn per hit.
	KnockbackMinDist = 40.0
	KnockbackMaxDist = 120.0
	KnockbackMultMin = 0.8
	KnockbackMultMax = 1.2

	BeamMaxLength = 900.0
	BeamHitRadius = 40.0
	BeamDamage    = 15
	BeamKnockback = 60.0 // fixed, not distance-scaled

	BlinkMaxDistance = 250.0
	BlinkTolerance   = 1.2 // claimed travel may exceed max by this before clamping
	BlinkRadius      = 120.0
	BlinkDamage      = 15

	ChannelRadius         = 130.0
	ChannelTickDamage     = 2
	ChannelMaxHealPerTick = 6

	CollectDistance = 60.0
)

const (
	targetKindPlayer = "player"
	targetKindDummy  = "dummy"
)

// Combat resolves attacks against the entity store. It is owned by the
// engine goroutine; resolution mutates HP and positions in place and
// returns the hit list for broadcasting.
type Combat struct {
	store *EntityStore
	world WorldSpec
	rng   *rand.Rand
}

// NewCombat wires the resolver to its store. rng is injected so tests can
// pin the knockback multiplier draw.
func NewCombat(store *EntityStore, world WorldSpec, rng *rand.Rand) *Combat {
	return &Combat{store: store, world: world, rng: rng}
}

// knock pushes a target at (tx, ty) away from the attacker and returns the
// clamped endpoint.
func (c *Combat) knock(ax, ay, tx, ty, magnitude float64) (float64, float64) {
	return KnockbackEndpoint(c.rng, ax, ay, tx, ty, magnitude, c.world.Width, c.world.Height, c.world.Margin)
}

// areaHit runs a circular scan centered on the attacker's server position,
// applying damage and per-hit knockback. knockback false disables the push
// entirely (channel ticks). Used by melee and blink-damage as-is.
func (c *Combat) areaHit(attacker *Player, radius float64, damage int, knockback bool, nowMs int64) []Hit {
	var hits []Hit

	for _, p := range c.store.Players() {
		if p.ID == attacker.ID || p.IsDead {
			continue
		}
		dist := Distance(attacker.X, attacker.Y, p.X, p.Y)
		if dist > radius {
			continue
		}
		died := p.ApplyDamage(damage, nowMs)
		kx, ky := p.X, p.Y
		if knockback {
			mag := KnockbackMagnitude(c.rng, radius, dist, KnockbackMinDist, KnockbackMaxDist, KnockbackMultMin, KnockbackMultMax)
			kx, ky = c.knock(attacker.X, attacker.Y, p.X, p.Y, mag)
			p.X, p.Y = kx, ky
		}
		hit := Hit{TargetID: p.ID, TargetKind: targetKindPlayer, Damage: damage, HP: p.HP, KnockX: kx, KnockY: ky}
		if died {
			hit.Dead = true
			hit.RespawnMs = PlayerRespawnDelayMs
		}
		hits = append(hits, hit)
	}

	for _, d := range c.store.Dummies() {
		if !d.Alive() {
			continue
		}
		dist := Distance(attacker.X, attacker.Y, d.X, d.Y)
		// Dummies get sprite-half padding so edge grazes register.
		if dist > radius+DummyHalfSize {
			continue
		}
		died := d.ApplyDamage(damage, nowMs)
		kx, ky := d.X, d.Y
		if knockback {
			mag := KnockbackMagnitude(c.rng, radius, dist, KnockbackMinDist, KnockbackMaxDist, KnockbackMultMin, KnockbackMultMax)
			kx, ky = c.knock(attacker.X, attacker.Y, d.X, d.Y, mag)
			d.X, d.Y = kx, ky
		}
		hit := Hit{TargetID: d.ID, TargetKind: targetKindDummy, Damage: damage, HP: d.HP, KnockX: kx, KnockY: ky}
		if died {
			hit.Dead = true
			hit.RespawnMs = DummyRespawnDelayMs
		}
		hits = append(hits, hit)
	}

	return hits
}

// ResolveMelee applies the fixed-radius swing centered on the attacker's
// server position.
func (c *Combat) ResolveMelee(attacker *Player, nowMs int64) []Hit {
	return c.areaHit(attacker, MeleeRadius, MeleeDamage, true, nowMs)
}

// ResolveBlinkDamage applies the post-teleport burst around the attacker's
// current (already blinked) server position.
func (c *Combat) ResolveBlinkDamage(attacker *Player, nowMs int64) []Hit {
	return c.areaHit(attacker, BlinkRadius, BlinkDamage, true, nowMs)
}

// ResolveBeam tests the beam segment against every alive target. The origin
// is always the attacker's server position; only the direction and length
// survive from the request, and the length is clamped.
func (c *Combat) ResolveBeam(attacker *Player, dirX, dirY, length float64, nowMs int64) []Hit {
	if length > BeamMaxLength {
		length = BeamMaxLength
	}
	if length <= 0 {
		return nil
	}
	x1, y1 := attacker.X, attacker.Y
	x2 := x1 + dirX*length
	y2 := y1 + dirY*length

	var hits []Hit

	for _, p := range c.store.Players() {
		if p.ID == attacker.ID || p.IsDead {
			continue
		}
		if !SegmentCircleIntersect(x1, y1, x2, y2, p.X, p.Y, BeamHitRadius) {
			continue
		}
		died := p.ApplyDamage(BeamDamage, nowMs)
		// Beam knockback is a fixed shove away from the beam origin.
		kx, ky := c.knock(x1, y1, p.X, p.Y, BeamKnockback)
		p.X, p.Y = kx, ky
		hit := Hit{TargetID: p.ID, TargetKind: targetKindPlayer, Damage: BeamDamage, HP: p.HP, KnockX: kx, KnockY: ky}
		if died {
			hit.Dead = true
			hit.RespawnMs = PlayerRespawnDelayMs
		}
		hits = append(hits, hit)
	}

	for _, d := range c.store.Dummies() {
		if !d.Alive() {
			continue
		}
		if !SegmentCircleIntersect(x1, y1, x2, y2, d.X, d.Y, BeamHitRadius+DummyHalfSize) {
			continue
		}
		died := d.ApplyDamage(BeamDamage, nowMs)
		kx, ky := c.knock(x1, y1, d.X, d.Y, BeamKnockback)
		d.X, d.Y = kx, ky
		hit := Hit{TargetID: d.ID, TargetKind: targetKindDummy, Damage: BeamDamage, HP: d.HP, KnockX: kx, KnockY: ky}
		if died {
			hit.Dead = true
			hit.RespawnMs = DummyRespawnDelayMs
		}
		hits = append(hits, hit)
	}

	return hits
}

// ResolveChannelTick applies one tick of the channel: small damage in a
// fixed radius, no knockback, and lifesteal back to the caster capped per
// tick rather than per target.
func (c *Combat) ResolveChannelTick(attacker *Player, nowMs int64) ([]Hit, int) {
	hits := c.areaHit(attacker, ChannelRadius, ChannelTickDamage, false, nowMs)

	total := 0
	for _, h := range hits {
		total += h.Damage
	}
	if total > ChannelMaxHealPerTick {
		total = ChannelMaxHealPerTick
	}
	healed := attacker.Heal(total)
	return hits, healed
}
