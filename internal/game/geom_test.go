package game

import (
	"math"
	"math/rand"
	"testing"
)

func TestDistance(t *testing.T) {
	if d := Distance(0, 0, 3, 4); d != 5 {
		t.Errorf("expected 5, got %f", d)
	}
	if d := Distance(10, 10, 10, 10); d != 0 {
		t.Errorf("expected 0, got %f", d)
	}
}

func TestClampToWorld(t *testing.T) {
	tests := []struct {
		name         string
		x, y         float64
		wantX, wantY float64
	}{
		{"inside untouched", 500, 500, 500, 500},
		{"negative snaps to margin", -50, 300, 20, 300},
		{"overflow snaps to far edge", 5000, 5000, 1980, 1980},
		{"exactly on margin", 20, 20, 20, 20},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			x, y := ClampToWorld(tt.x, tt.y, 2000, 2000, 20)
			if x != tt.wantX || y != tt.wantY {
				t.Errorf("got (%f, %f), want (%f, %f)", x, y, tt.wantX, tt.wantY)
			}
		})
	}
}

func TestSegmentCircleIntersect(t *testing.T) {
	tests := []struct {
		name                      string
		x1, y1, x2, y2, cx, cy, r float64
		want                      bool
	}{
		{"through center", 0, 0, 100, 0, 50, 0, 10, true},
		{"far off the line", 0, 0, 100, 0, 50, 50, 10, false},
		{"grazing edge", 0, 0, 100, 0, 50, 10, 10, true},
		{"circle beyond segment end", 0, 0, 100, 0, 150, 0, 10, false},
		{"circle behind segment start", 0, 0, 100, 0, -50, 0, 10, false},
		{"segment starts inside circle", 45, 0, 100, 0, 50, 0, 10, true},
		{"zero-length segment", 50, 50, 50, 50, 50, 50, 10, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SegmentCircleIntersect(tt.x1, tt.y1, tt.x2, tt.y2, tt.cx, tt.cy, tt.r)
			if got != tt.want {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}

// TestKnockbackMonotonic pins the multiplier to 1 so the distance-scaling
// can be checked in isolation: a closer target must never be pushed less.
func TestKnockbackMonotonic(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	prev := math.Inf(1)
	for dist := 0.0; dist <= 200; dist += 25 {
		mag := KnockbackMagnitude(rng, 150, dist, 40, 120, 1, 1)
		if mag > prev {
			t.Errorf("magnitude increased with distance: %f at dist %f, was %f", mag, dist, prev)
		}
		prev = mag
	}

	// Endpoints of the interpolation with the multiplier held at 1.
	if mag := KnockbackMagnitude(rng, 150, 0, 40, 120, 1, 1); mag != 120 {
		t.Errorf("point-blank magnitude: got %f, want 120", mag)
	}
	if mag := KnockbackMagnitude(rng, 150, 150, 40, 120, 1, 1); mag != 40 {
		t.Errorf("edge magnitude: got %f, want 40", mag)
	}
	// Beyond the effect radius the ratio caps at 1.
	if mag := KnockbackMagnitude(rng, 150, 400, 40, 120, 1, 1); mag != 40 {
		t.Errorf("beyond-radius magnitude: got %f, want 40", mag)
	}
}

func TestKnockbackMultiplierRange(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	for i := 0; i < 100; i++ {
		mag := KnockbackMagnitude(rng, 150, 75, 40, 120, 0.8, 1.2)
		base := 120 - 0.5*(120-40)
		if mag < base*0.8 || mag > base*1.2 {
			t.Fatalf("magnitude %f outside [%f, %f]", mag, base*0.8, base*1.2)
		}
	}
}

func TestKnockbackEndpointInBounds(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	const w, h, margin = 2000.0, 2000.0, 20.0

	tests := []struct {
		name           string
		ax, ay, tx, ty float64
		magnitude      float64
	}{
		{"ordinary push", 500, 500, 550, 500, 100},
		{"push into wall", 1900, 1000, 1970, 1000, 500},
		{"huge magnitude", 1000, 1000, 1100, 1100, 1e6},
		{"coincident source and target", 800, 800, 800, 800, 120},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			x, y := KnockbackEndpoint(rng, tt.ax, tt.ay, tt.tx, tt.ty, tt.magnitude, w, h, margin)
			if x < margin || x > w-margin || y < margin || y > h-margin {
				t.Errorf("endpoint (%f, %f) outside bounds", x, y)
			}
		})
	}
}

// Coincident entities must still be pushed somewhere, in a random
// direction, rather than staying pinned on the attacker.
func TestKnockbackEndpointDegenerate(t *testing.T) {
	rng := rand.New(rand.NewSource(11))
	moved := false
	for i := 0; i < 10; i++ {
		x, y := KnockbackEndpoint(rng, 800, 800, 800, 800, 120, 2000, 2000, 20)
		if x != 800 || y != 800 {
			moved = true
		}
		d := Distance(800, 800, x, y)
		if math.Abs(d-120) > 1e-9 {
			t.Errorf("degenerate push distance: got %f, want 120", d)
		}
	}
	if !moved {
		t.Error("degenerate knockback never moved the target")
	}
}
