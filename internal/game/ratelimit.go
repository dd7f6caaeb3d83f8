package game

import "time"

// Minimum intervals between actions of the same kind from one connection.
// Zero means the action is not throttled here (it is still validated).
const (
	MoveIntervalMs        = 50
	MeleeIntervalMs       = 500
	BeamIntervalMs        = 200
	BlinkDamageIntervalMs = 150
	ChannelIntervalMs     = 150
	ChatIntervalMs        = 1000
)

type limiterKey struct {
	connID string
	action ActionKind
}

// ActionLimiter is a per-connection, per-action cooldown gate. It fails
// closed: a too-soon action is rejected with no side effect, so bursts
// cannot shorten the next window.
//
// The limiter is only touched from the engine goroutine and needs no lock.
type ActionLimiter struct {
	last map[limiterKey]int64
	now  func() time.Time
}

// NewActionLimiter creates a limiter using the given clock. Pass time.Now
// in production; tests substitute a fake.
func NewActionLimiter(now func() time.Time) *ActionLimiter {
	return &ActionLimiter{
		last: make(map[limiterKey]int64),
		now:  now,
	}
}

// Allow records and permits the action unless one of the same kind ran less
// than minIntervalMs ago on this connection.
func (l *ActionLimiter) Allow(connID string, action ActionKind, minIntervalMs int64) bool {
	if minIntervalMs <= 0 {
		return true
	}
	key := limiterKey{connID, action}
	nowMs := l.now().UnixMilli()
	if last, ok := l.last[key]; ok && nowMs-last < minIntervalMs {
		return false
	}
	l.last[key] = nowMs
	return true
}

// Purge drops every entry for a connection. Called on disconnect; the
// linear scan is fine at realistic session counts.
func (l *ActionLimiter) Purge(connID string) {
	for key := range l.last {
		if key.connID == connID {
			delete(l.last, key)
		}
	}
}

// Len reports the number of live entries, for tests and stats.
func (l *ActionLimiter) Len() int {
	return len(l.last)
}
