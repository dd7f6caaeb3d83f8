package game

import (
	"math"
	"math/rand"
)

// Distance returns the euclidean distance between two points.
func Distance(x1, y1, x2, y2 float64) float64 {
	dx := x2 - x1
	dy := y2 - y1
	return math.Sqrt(dx*dx + dy*dy)
}

// Clamp restricts v to [min, max].
func Clamp(v, min, max float64) float64 {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}

// ClampToWorld snaps a point into the playable area. Every position the
// server accepts as truth goes through here, whatever its source.
func ClampToWorld(x, y, worldW, worldH, margin float64) (float64, float64) {
	return Clamp(x, margin, worldW-margin), Clamp(y, margin, worldH-margin)
}

// SegmentCircleIntersect reports whether the segment (x1,y1)-(x2,y2)
// intersects the circle at (cx,cy) with radius r. Solves the quadratic for
// the segment parameter t; a hit requires a root in [0,1].
func SegmentCircleIntersect(x1, y1, x2, y2, cx, cy, r float64) bool {
	dx := x2 - x1
	dy := y2 - y1
	fx := x1 - cx
	fy := y1 - cy

	a := dx*dx + dy*dy
	b := 2 * (fx*dx + fy*dy)
	c := fx*fx + fy*fy - r*r

	discriminant := b*b - 4*a*c
	if discriminant < 0 || a == 0 {
		return false
	}
	discriminant = math.Sqrt(discriminant)
	t1 := (-b - discriminant) / (2 * a)
	t2 := (-b + discriminant) / (2 * a)
	return (t1 >= 0 && t1 <= 1) || (t2 >= 0 && t2 <= 1)
}

// KnockbackMagnitude computes the distance a hit target is pushed.
// Closer targets are pushed farther: ratio 0 at point blank maps to maxDist,
// ratio 1 at the effect edge maps to minDist. The result is then scaled by a
// uniform draw from [multMin, multMax] so repeated hits do not feel identical.
func KnockbackMagnitude(rng *rand.Rand, effectRadius, targetDistance, minDist, maxDist, multMin, multMax float64) float64 {
	ratio := 1.0
	if effectRadius > 0 {
		ratio = math.Min(1, targetDistance/effectRadius)
	}
	base := maxDist - ratio*(maxDist-minDist)
	return base * (multMin + rng.Float64()*(multMax-multMin))
}

// KnockbackEndpoint returns the clamped position a target lands at when
// pushed away from the attacker by magnitude. When attacker and target
// coincide the direction is undefined, so a random one is substituted.
func KnockbackEndpoint(rng *rand.Rand, attackerX, attackerY, targetX, targetY, magnitude, worldW, worldH, margin float64) (float64, float64) {
	dx := targetX - attackerX
	dy := targetY - attackerY
	dist := math.Sqrt(dx*dx + dy*dy)

	if dist < 0.001 {
		angle := rng.Float64() * 2 * math.Pi
		dx = math.Cos(angle)
		dy = math.Sin(angle)
	} else {
		dx /= dist
		dy /= dist
	}

	return ClampToWorld(targetX+dx*magnitude, targetY+dy*magnitude, worldW, worldH, margin)
}
