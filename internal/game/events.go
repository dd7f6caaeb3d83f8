package game

import "encoding/json"

// ActionKind identifies an inbound action. The transport maps wire names to
// kinds once, at decode time; everything past that point dispatches on the
// enum, not on strings.
type ActionKind uint8

const (
	ActionUnknown ActionKind = iota
	ActionJoin
	ActionMove
	ActionMelee
	ActionBeam
	ActionBeamAim
	ActionBlink
	ActionBlinkDamage
	ActionChannelStart
	ActionChannelTick
	ActionCollect
	ActionChat
)

var actionNames = map[string]ActionKind{
	"join":                ActionJoin,
	"move":                ActionMove,
	"melee-attack":        ActionMelee,
	"beam-attack":         ActionBeam,
	"beam-aim":            ActionBeamAim,
	"blink":               ActionBlink,
	"blink-damage":        ActionBlinkDamage,
	"channel-start":       ActionChannelStart,
	"channel-tick-damage": ActionChannelTick,
	"collect-pickup":      ActionCollect,
	"chat":                ActionChat,
}

// ParseActionKind maps a wire name to its kind; unknown names map to
// ActionUnknown and are dropped by the engine.
func ParseActionKind(name string) ActionKind {
	return actionNames[name]
}

// String returns the wire name for an action kind.
func (k ActionKind) String() string {
	for name, kind := range actionNames {
		if kind == k {
			return name
		}
	}
	return "unknown"
}

// Action is one inbound request: a connection id, a kind, and the raw
// payload. The engine validates the payload; the transport never does.
type Action struct {
	ConnID  string
	Kind    ActionKind
	Payload json.RawMessage
}

// Envelope wraps every message on the wire with a type tag.
type Envelope struct {
	T    string      `json:"t"`
	Data interface{} `json:"d,omitempty"`
}

// InEnvelope decodes inbound frames without double-unmarshaling the payload.
type InEnvelope struct {
	T string          `json:"t"`
	D json.RawMessage `json:"d,omitempty"`
}

// Outbound event names.
const (
	EvtWelcome      = "welcome"
	EvtPlayerJoined = "player-joined"
	EvtPlayerLeft   = "player-left"
	EvtPlayerMoved  = "player-moved"
	EvtMeleeSwing   = "melee-swing"
	EvtBeamFired    = "beam-fired"
	EvtBeamAim      = "beam-aim"
	EvtBlink        = "blink"
	EvtChannelStart = "channel-start"
	EvtDamage       = "damage"
	EvtRespawn      = "respawn"
	EvtShardTaken   = "shard-collected"
	EvtShardSpawned = "shard-spawned"
	EvtChat         = "chat"
	EvtLevelUp      = "level-up"
)

// Inbound payloads. All numeric combat claims in these are used only for
// plausibility logging; resolution reads server constants.

// JoinPayload carries the client's requested profile.
type JoinPayload struct {
	Name  string `json:"name"`
	Level int    `json:"level"`
}

// MovePayload is the client's claimed position.
type MovePayload struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// MeleePayload carries client-claimed melee stats, never trusted.
type MeleePayload struct {
	Range float64 `json:"range"`
	Power float64 `json:"power"`
}

// BeamPayload is the claimed beam segment plus a claimed damage figure.
type BeamPayload struct {
	X1     float64 `json:"x1"`
	Y1     float64 `json:"y1"`
	X2     float64 `json:"x2"`
	Y2     float64 `json:"y2"`
	Damage float64 `json:"damage"`
}

// BeamAimPayload is a broadcast-only aiming sync.
type BeamAimPayload struct {
	X   float64 `json:"x"`
	Y   float64 `json:"y"`
	Dir float64 `json:"dir"`
}

// BlinkPayload is the claimed teleport; start is overridden by the server
// position and the travel distance is clamped.
type BlinkPayload struct {
	StartX float64 `json:"sx"`
	StartY float64 `json:"sy"`
	EndX   float64 `json:"ex"`
	EndY   float64 `json:"ey"`
}

// BlinkDamagePayload carries claimed area stats, never trusted.
type BlinkDamagePayload struct {
	Radius float64 `json:"radius"`
	Damage float64 `json:"damage"`
}

// ChannelStartPayload is a broadcast-only channel-opening sync.
type ChannelStartPayload struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Radius float64 `json:"radius"`
}

// ChannelTickPayload carries claimed tick stats, never trusted.
type ChannelTickPayload struct {
	Radius float64 `json:"radius"`
	Damage float64 `json:"damage"`
}

// CollectPayload names the shard the client walked over.
type CollectPayload struct {
	PickupID float64 `json:"pickupId"`
}

// ChatPayload is a chat line, trimmed and bounded before relay.
type ChatPayload struct {
	Message string `json:"message"`
}

// Outbound state and event payloads.

// PlayerState is the roster/broadcast view of a player.
type PlayerState struct {
	ID    string  `json:"id"`
	Name  string  `json:"n"`
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
	Level int     `json:"lvl"`
	XP    int     `json:"xp"`
	HP    int     `json:"hp"`
	MaxHP int     `json:"mhp"`
	Dead  bool    `json:"dead,omitempty"`
}

// DummyState is the roster/broadcast view of a dummy.
type DummyState struct {
	ID    string  `json:"id"`
	Name  string  `json:"n"`
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
	HP    int     `json:"hp"`
	MaxHP int     `json:"mhp"`
}

// ShardState is the roster/broadcast view of a shard.
type ShardState struct {
	ID        int     `json:"id"`
	X         float64 `json:"x"`
	Y         float64 `json:"y"`
	Collected bool    `json:"c,omitempty"`
}

// Roster is the full world snapshot sent on welcome.
type Roster struct {
	Players []PlayerState `json:"players"`
	Dummies []DummyState  `json:"dummies"`
	Shards  []ShardState  `json:"shards"`
}

// WelcomeMsg assigns the connection its id and ships the roster.
type WelcomeMsg struct {
	ID     string `json:"id"`
	Roster Roster `json:"roster"`
}

// MoveMsg echoes an accepted move to other sessions.
type MoveMsg struct {
	ID string  `json:"id"`
	X  float64 `json:"x"`
	Y  float64 `json:"y"`
}

// BeamFiredMsg echoes the authoritative beam segment to other sessions.
type BeamFiredMsg struct {
	ID string  `json:"id"`
	X1 float64 `json:"x1"`
	Y1 float64 `json:"y1"`
	X2 float64 `json:"x2"`
	Y2 float64 `json:"y2"`
}

// BlinkMsg echoes the authoritative teleport to other sessions.
type BlinkMsg struct {
	ID     string  `json:"id"`
	StartX float64 `json:"sx"`
	StartY float64 `json:"sy"`
	EndX   float64 `json:"ex"`
	EndY   float64 `json:"ey"`
}

// Hit is one target struck by an attack, with its post-resolution state.
type Hit struct {
	TargetID   string  `json:"tid"`
	TargetKind string  `json:"tk"` // "player" or "dummy"
	Damage     int     `json:"dmg"`
	HP         int     `json:"hp"`
	Dead       bool    `json:"dead,omitempty"`
	RespawnMs  int64   `json:"respawnMs,omitempty"` // set when Dead, for client countdowns
	KnockX     float64 `json:"kx"`
	KnockY     float64 `json:"ky"`
}

// DamageMsg is the authoritative outcome of one attack, sent to everyone
// including the attacker.
type DamageMsg struct {
	AttackerID string `json:"aid"`
	Attack     string `json:"kind"` // melee, beam, blink, channel
	Hits       []Hit  `json:"hits"`
	Heal       int    `json:"heal,omitempty"` // channel lifesteal applied to the caster
	AttackerHP int    `json:"ahp"`
}

// RespawnMsg announces an entity returning to the world.
type RespawnMsg struct {
	Kind string  `json:"kind"` // "player" or "dummy"
	ID   string  `json:"id"`
	X    float64 `json:"x"`
	Y    float64 `json:"y"`
	HP   int     `json:"hp"`
}

// ShardTakenMsg announces a collected shard.
type ShardTakenMsg struct {
	ShardID  int    `json:"sid"`
	PlayerID string `json:"pid"`
	XP       int    `json:"xp"`
}

// ShardSpawnedMsg announces a shard returning to the field.
type ShardSpawnedMsg struct {
	ShardID int     `json:"sid"`
	X       float64 `json:"x"`
	Y       float64 `json:"y"`
}

// ChatMsg relays a chat line.
type ChatMsg struct {
	ID      string `json:"id"`
	Name    string `json:"n"`
	Message string `json:"msg"`
}

// LevelUpMsg announces a player reaching a new level.
type LevelUpMsg struct {
	ID    string `json:"id"`
	Level int    `json:"lvl"`
}

// SyncMsg wraps a broadcast-only visual echo (beam aim, blink, channel
// start, melee swing) with the originating connection id.
type SyncMsg struct {
	ID   string          `json:"id"`
	Data json.RawMessage `json:"d,omitempty"`
}
