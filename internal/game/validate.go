package game

import (
	"math"
	"unicode/utf8"
)

// Movement plausibility tuning. The two-tier threshold is deliberate:
// anything past 1x the plausible distance is logged, but only past 3x is the
// move actually held back, otherwise players on lossy connections would
// rubber-band on every jitter spike.
const (
	BaseMoveSpeed    = 240.0 // px/s a legitimate client can cover
	MoveTolerance    = 1.6   // slack on top of base speed
	MoveRejectFactor = 3.0
	MinMoveElapsedMs = 16
	ClaimTolerance   = 1.10 // client combat claims above server constant * this get flagged
	MaxChatLen       = 200
)

// MoveVerdict classifies a claimed position against the last accepted one.
type MoveVerdict uint8

const (
	MoveOK         MoveVerdict = iota
	MoveSuspicious             // beyond plausible, within the jitter band: accept and log
	MoveRejected               // beyond 3x plausible: hold position at last valid value
)

// IsFinite rejects NaN and infinities, the classic malformed-JSON-number
// smuggling vector.
func IsFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// BoundedString reports whether s fits in maxLen characters.
func BoundedString(s string, maxLen int) bool {
	return utf8.RuneCountInString(s) <= maxLen
}

// BoundedInt converts a wire number to an int in [min, max]. Fractional or
// non-finite values fail.
func BoundedInt(v float64, min, max int) (int, bool) {
	if !IsFinite(v) || v != math.Trunc(v) {
		return 0, false
	}
	n := int(v)
	if n < min || n > max {
		return 0, false
	}
	return n, true
}

// CheckMovement grades a claimed move. elapsed is floored at 16ms so a
// burst of frames cannot divide by a near-zero window.
func CheckMovement(lastX, lastY float64, lastMoveMs int64, x, y float64, nowMs int64) MoveVerdict {
	elapsedMs := nowMs - lastMoveMs
	if elapsedMs < MinMoveElapsedMs {
		elapsedMs = MinMoveElapsedMs
	}
	moved := Distance(lastX, lastY, x, y)
	maxAllowed := BaseMoveSpeed * MoveTolerance * (float64(elapsedMs) / 1000.0)

	switch {
	case moved <= maxAllowed:
		return MoveOK
	case moved <= MoveRejectFactor*maxAllowed:
		return MoveSuspicious
	default:
		return MoveRejected
	}
}

// ClaimDiverges reports whether a client-submitted combat number exceeds the
// server constant by more than the flag tolerance. The claim never feeds
// resolution either way; this exists purely for observability.
func ClaimDiverges(claimed, serverValue float64) bool {
	return IsFinite(claimed) && claimed > serverValue*ClaimTolerance
}
