package game

import (
	"encoding/json"
	"math/rand"
	"strings"
	"sync/atomic"
	"time"

	"psi-arena/internal/logging"
)

// actionQueueSize bounds the inbound queue. A full queue drops actions,
// which is the correct failure mode: the engine never blocks the transport.
const actionQueueSize = 1024

// Dispatcher delivers outbound events. The websocket hub implements it; the
// engine never touches a connection directly.
type Dispatcher interface {
	SendTo(connID string, msg Envelope)
	Broadcast(msg Envelope)
	BroadcastExcept(connID string, msg Envelope)
}

// Stats is the operator-facing engine counters snapshot.
type Stats struct {
	UptimeSeconds    int64  `json:"uptimeSeconds"`
	Players          int    `json:"players"`
	ActionsProcessed uint64 `json:"actionsProcessed"`
	ActionsDropped   uint64 `json:"actionsDropped"`
	Suspicions       uint64 `json:"suspicions"`
}

type connectReq struct {
	connID string
	name   string
	level  int
	reply  chan bool
}

type snapshotReq struct {
	roster chan Roster
	stats  chan Stats
}

// Engine is the single-writer combat and lifecycle actor. One goroutine
// owns the store, the limiter, and the combat resolver; every inbound
// action and every respawn sweep is serialized through its run loop, so no
// entity is ever written concurrently.
type Engine struct {
	world      WorldSpec
	store      *EntityStore
	combat     *Combat
	limiter    *ActionLimiter
	dispatcher Dispatcher
	rng        *rand.Rand
	now        func() time.Time

	maxPlayers int

	actions     chan Action
	connects    chan connectReq
	disconnects chan string
	snapshots   chan snapshotReq
	stopChan    chan struct{}

	// OnSuspicion, if set, observes every plausibility flag with a bounded
	// reason label ("malformed", "speed", "divergence", "teleport").
	OnSuspicion func(reason string)

	startedAt        time.Time
	actionsProcessed uint64
	actionsDropped   atomic.Uint64 // only counter touched outside the loop
	suspicions       uint64
}

// EngineConfig carries the engine dependencies.
type EngineConfig struct {
	World      WorldSpec
	Dispatcher Dispatcher
	MaxPlayers int
	Seed       int64            // 0 means seed from the wall clock
	Now        func() time.Time // nil means time.Now
}

// NewEngine builds the engine and its startup population. Run must be
// called before any Connect/Submit.
func NewEngine(cfg EngineConfig) *Engine {
	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	now := cfg.Now
	if now == nil {
		now = time.Now
	}
	maxPlayers := cfg.MaxPlayers
	if maxPlayers <= 0 {
		maxPlayers = 100
	}

	rng := rand.New(rand.NewSource(seed))
	store := NewEntityStore(cfg.World, rng)

	return &Engine{
		world:       cfg.World,
		store:       store,
		combat:      NewCombat(store, cfg.World, rng),
		limiter:     NewActionLimiter(now),
		dispatcher:  cfg.Dispatcher,
		rng:         rng,
		now:         now,
		maxPlayers:  maxPlayers,
		actions:     make(chan Action, actionQueueSize),
		connects:    make(chan connectReq, 16),
		disconnects: make(chan string, 16),
		snapshots:   make(chan snapshotReq),
		stopChan:    make(chan struct{}),
	}
}

// Run drives the actor loop until Stop. It owns all mutation; callers only
// ever send messages in.
func (e *Engine) Run() {
	e.startedAt = e.now()

	playerSweep := time.NewTicker(PlayerSweepIntervalMs * time.Millisecond)
	entitySweep := time.NewTicker(EntitySweepIntervalMs * time.Millisecond)
	defer playerSweep.Stop()
	defer entitySweep.Stop()

	for {
		select {
		case req := <-e.connects:
			req.reply <- e.handleConnect(req)
		case connID := <-e.disconnects:
			e.handleDisconnect(connID)
		case a := <-e.actions:
			e.actionsProcessed++
			e.handleAction(a)
		case <-playerSweep.C:
			e.sweepPlayers()
		case <-entitySweep.C:
			e.sweepEntities()
		case req := <-e.snapshots:
			req.roster <- e.buildRoster()
			req.stats <- e.buildStats()
		case <-e.stopChan:
			return
		}
	}
}

// Stop terminates the run loop.
func (e *Engine) Stop() {
	close(e.stopChan)
}

// Connect registers a new session, creating its player at the canonical
// spawn. Returns false when the arena is full. Blocks until the engine
// loop has processed the registration, so a true return means the welcome
// event has already been dispatched.
func (e *Engine) Connect(connID, name string, level int) bool {
	reply := make(chan bool, 1)
	select {
	case e.connects <- connectReq{connID: connID, name: name, level: level, reply: reply}:
		return <-reply
	case <-e.stopChan:
		return false
	}
}

// Disconnect removes the session's player and purges its limiter entries.
func (e *Engine) Disconnect(connID string) {
	select {
	case e.disconnects <- connID:
	case <-e.stopChan:
	}
}

// Submit queues an inbound action. Never blocks; a saturated queue drops
// the action, which a well-behaved client never notices.
func (e *Engine) Submit(a Action) {
	select {
	case e.actions <- a:
	default:
		e.actionsDropped.Add(1)
	}
}

// Snapshot returns a read-only roster copy plus counters, serialized
// through the actor loop so the single-writer rule holds.
func (e *Engine) Snapshot() (Roster, Stats) {
	req := snapshotReq{roster: make(chan Roster, 1), stats: make(chan Stats, 1)}
	select {
	case e.snapshots <- req:
		return <-req.roster, <-req.stats
	case <-e.stopChan:
		return Roster{}, Stats{}
	}
}

func (e *Engine) nowMs() int64 {
	return e.now().UnixMilli()
}

func (e *Engine) suspect(connID, reason, detail string) {
	e.suspicions++
	logging.L.Warnw("suspicious action", "conn", connID, "reason", reason, "detail", detail)
	if e.OnSuspicion != nil {
		e.OnSuspicion(reason)
	}
}

func (e *Engine) handleConnect(req connectReq) bool {
	if e.store.PlayerCount() >= e.maxPlayers {
		return false
	}
	p := NewPlayer(req.connID, req.name, req.level, e.world.SpawnX, e.world.SpawnY)
	e.store.AddPlayer(p)

	e.dispatcher.SendTo(p.ID, Envelope{T: EvtWelcome, Data: WelcomeMsg{ID: p.ID, Roster: e.buildRoster()}})
	e.dispatcher.BroadcastExcept(p.ID, Envelope{T: EvtPlayerJoined, Data: playerState(p)})
	logging.L.Infow("player connected", "conn", p.ID, "name", p.Name)
	return true
}

func (e *Engine) handleDisconnect(connID string) {
	if e.store.Player(connID) == nil {
		return
	}
	e.store.RemovePlayer(connID)
	e.limiter.Purge(connID)
	e.dispatcher.Broadcast(Envelope{T: EvtPlayerLeft, Data: map[string]string{"id": connID}})
	logging.L.Infow("player disconnected", "conn", connID)
}

// handleAction is the single dispatch point. Most failure paths drop the
// action silently: malformed and rate-limited traffic gets no reply, and
// acting-while-dead is expected steady-state noise, not an error.
func (e *Engine) handleAction(a Action) {
	p := e.store.Player(a.ConnID)
	if p == nil {
		return
	}

	switch a.Kind {
	case ActionJoin:
		e.handleJoin(p, a.Payload)
	case ActionMove:
		e.handleMove(p, a.Payload)
	case ActionMelee:
		e.handleMelee(p, a.Payload)
	case ActionBeam:
		e.handleBeam(p, a.Payload)
	case ActionBeamAim:
		e.handleBeamAim(p, a.Payload)
	case ActionBlink:
		e.handleBlink(p, a.Payload)
	case ActionBlinkDamage:
		e.handleBlinkDamage(p, a.Payload)
	case ActionChannelStart:
		e.handleChannelStart(p, a.Payload)
	case ActionChannelTick:
		e.handleChannelTick(p, a.Payload)
	case ActionCollect:
		e.handleCollect(p, a.Payload)
	case ActionChat:
		e.handleChat(p, a.Payload)
	}
}

func (e *Engine) handleJoin(p *Player, raw json.RawMessage) {
	var msg JoinPayload
	if err := json.Unmarshal(raw, &msg); err != nil {
		e.suspect(p.ID, "malformed", "join payload")
		return
	}
	p.Name = SanitizeName(msg.Name)
	p.Level = clampLevel(msg.Level)
	e.dispatcher.BroadcastExcept(p.ID, Envelope{T: EvtPlayerJoined, Data: playerState(p)})
}

func (e *Engine) handleMove(p *Player, raw json.RawMessage) {
	if !e.limiter.Allow(p.ID, ActionMove, MoveIntervalMs) {
		return
	}
	if p.IsDead {
		return
	}
	var msg MovePayload
	if err := json.Unmarshal(raw, &msg); err != nil || !IsFinite(msg.X) || !IsFinite(msg.Y) {
		e.suspect(p.ID, "malformed", "move payload")
		return
	}

	nowMs := e.nowMs()
	x, y := ClampToWorld(msg.X, msg.Y, e.world.Width, e.world.Height, e.world.Margin)

	switch CheckMovement(p.X, p.Y, p.LastMoveMs, x, y, nowMs) {
	case MoveRejected:
		// Hold the last valid position; no correction is sent, the next
		// accepted move overwrites whatever the client believes.
		e.suspect(p.ID, "speed", "move rejected beyond 3x plausible")
		return
	case MoveSuspicious:
		e.suspect(p.ID, "speed", "move beyond plausible, within jitter band")
	}

	p.X, p.Y = x, y
	p.LastMoveMs = nowMs
	e.dispatcher.BroadcastExcept(p.ID, Envelope{T: EvtPlayerMoved, Data: MoveMsg{ID: p.ID, X: p.X, Y: p.Y}})
}

func (e *Engine) handleMelee(p *Player, raw json.RawMessage) {
	if !e.limiter.Allow(p.ID, ActionMelee, MeleeIntervalMs) {
		return
	}
	if p.IsDead {
		return
	}
	if len(raw) > 0 {
		var claim MeleePayload
		if json.Unmarshal(raw, &claim) == nil {
			if ClaimDiverges(claim.Range, MeleeRadius) || ClaimDiverges(claim.Power, MeleeDamage) {
				e.suspect(p.ID, "divergence", "melee claim exceeds server constants")
			}
		}
	}

	e.dispatcher.BroadcastExcept(p.ID, Envelope{T: EvtMeleeSwing, Data: SyncMsg{ID: p.ID}})
	hits := e.combat.ResolveMelee(p, e.nowMs())
	e.finishAttack(p, "melee", hits, 0)
}

func (e *Engine) handleBeam(p *Player, raw json.RawMessage) {
	if !e.limiter.Allow(p.ID, ActionBeam, BeamIntervalMs) {
		return
	}
	if p.IsDead {
		return
	}
	var msg BeamPayload
	if err := json.Unmarshal(raw, &msg); err != nil ||
		!IsFinite(msg.X1) || !IsFinite(msg.Y1) || !IsFinite(msg.X2) || !IsFinite(msg.Y2) {
		e.suspect(p.ID, "malformed", "beam payload")
		return
	}
	if msg.Damage != 0 && ClaimDiverges(msg.Damage, BeamDamage) {
		e.suspect(p.ID, "divergence", "beam damage claim exceeds server constant")
	}

	// Only direction and length survive from the claimed segment; the
	// origin is the attacker's server position.
	dx := msg.X2 - msg.X1
	dy := msg.Y2 - msg.Y1
	length := Distance(msg.X1, msg.Y1, msg.X2, msg.Y2)
	if length < 0.001 {
		return
	}
	dx /= length
	dy /= length
	if length > BeamMaxLength {
		length = BeamMaxLength
	}

	endX := p.X + dx*length
	endY := p.Y + dy*length
	e.dispatcher.BroadcastExcept(p.ID, Envelope{T: EvtBeamFired, Data: BeamFiredMsg{ID: p.ID, X1: p.X, Y1: p.Y, X2: endX, Y2: endY}})

	hits := e.combat.ResolveBeam(p, dx, dy, length, e.nowMs())
	e.finishAttack(p, "beam", hits, 0)
}

func (e *Engine) handleBeamAim(p *Player, raw json.RawMessage) {
	if p.IsDead {
		return
	}
	var msg BeamAimPayload
	if err := json.Unmarshal(raw, &msg); err != nil || !IsFinite(msg.X) || !IsFinite(msg.Y) || !IsFinite(msg.Dir) {
		return
	}
	e.dispatcher.BroadcastExcept(p.ID, Envelope{T: EvtBeamAim, Data: SyncMsg{ID: p.ID, Data: raw}})
}

func (e *Engine) handleBlink(p *Player, raw json.RawMessage) {
	if p.IsDead {
		return
	}
	var msg BlinkPayload
	if err := json.Unmarshal(raw, &msg); err != nil || !IsFinite(msg.EndX) || !IsFinite(msg.EndY) {
		e.suspect(p.ID, "malformed", "blink payload")
		return
	}

	// Start is always the server position. The claimed travel distance gets
	// jitter tolerance, then is hard-clamped.
	startX, startY := p.X, p.Y
	travel := Distance(startX, startY, msg.EndX, msg.EndY)
	endX, endY := msg.EndX, msg.EndY
	maxTravel := BlinkMaxDistance * BlinkTolerance
	if travel > maxTravel {
		e.suspect(p.ID, "teleport", "blink distance beyond tolerance")
		scale := maxTravel / travel
		endX = startX + (endX-startX)*scale
		endY = startY + (endY-startY)*scale
	}
	endX, endY = ClampToWorld(endX, endY, e.world.Width, e.world.Height, e.world.Margin)

	p.X, p.Y = endX, endY
	p.LastMoveMs = e.nowMs()
	e.dispatcher.BroadcastExcept(p.ID, Envelope{T: EvtBlink, Data: BlinkMsg{ID: p.ID, StartX: startX, StartY: startY, EndX: endX, EndY: endY}})
}

func (e *Engine) handleBlinkDamage(p *Player, raw json.RawMessage) {
	if !e.limiter.Allow(p.ID, ActionBlinkDamage, BlinkDamageIntervalMs) {
		return
	}
	if p.IsDead {
		return
	}
	if len(raw) > 0 {
		var claim BlinkDamagePayload
		if json.Unmarshal(raw, &claim) == nil {
			if ClaimDiverges(claim.Radius, BlinkRadius) || ClaimDiverges(claim.Damage, BlinkDamage) {
				e.suspect(p.ID, "divergence", "blink claim exceeds server constants")
			}
		}
	}
	hits := e.combat.ResolveBlinkDamage(p, e.nowMs())
	e.finishAttack(p, "blink", hits, 0)
}

func (e *Engine) handleChannelStart(p *Player, raw json.RawMessage) {
	if p.IsDead {
		return
	}
	var msg ChannelStartPayload
	if err := json.Unmarshal(raw, &msg); err != nil || !IsFinite(msg.X) || !IsFinite(msg.Y) {
		return
	}
	e.dispatcher.BroadcastExcept(p.ID, Envelope{T: EvtChannelStart, Data: SyncMsg{ID: p.ID, Data: raw}})
}

func (e *Engine) handleChannelTick(p *Player, raw json.RawMessage) {
	if !e.limiter.Allow(p.ID, ActionChannelTick, ChannelIntervalMs) {
		return
	}
	if p.IsDead {
		return
	}
	if len(raw) > 0 {
		var claim ChannelTickPayload
		if json.Unmarshal(raw, &claim) == nil {
			if ClaimDiverges(claim.Radius, ChannelRadius) || ClaimDiverges(claim.Damage, ChannelTickDamage) {
				e.suspect(p.ID, "divergence", "channel claim exceeds server constants")
			}
		}
	}
	hits, heal := e.combat.ResolveChannelTick(p, e.nowMs())
	e.finishAttack(p, "channel", hits, heal)
}

func (e *Engine) handleCollect(p *Player, raw json.RawMessage) {
	if p.IsDead {
		return
	}
	var msg CollectPayload
	if err := json.Unmarshal(raw, &msg); err != nil {
		e.suspect(p.ID, "malformed", "collect payload")
		return
	}
	id, ok := BoundedInt(msg.PickupID, 0, e.world.ShardMax-1)
	if !ok {
		e.suspect(p.ID, "malformed", "collect pickup id out of range")
		return
	}
	shard := e.store.Shard(id)
	if shard == nil || shard.Collected {
		return
	}
	if Distance(p.X, p.Y, shard.X, shard.Y) > CollectDistance {
		return
	}

	shard.Collect(e.nowMs(), RollShardRespawnDelay(e.rng))
	leveled := p.GrantXP(XPPerShard)
	e.dispatcher.Broadcast(Envelope{T: EvtShardTaken, Data: ShardTakenMsg{ShardID: shard.ID, PlayerID: p.ID, XP: XPPerShard}})
	if leveled {
		e.dispatcher.Broadcast(Envelope{T: EvtLevelUp, Data: LevelUpMsg{ID: p.ID, Level: p.Level}})
	}
}

func (e *Engine) handleChat(p *Player, raw json.RawMessage) {
	if !e.limiter.Allow(p.ID, ActionChat, ChatIntervalMs) {
		return
	}
	var msg ChatPayload
	if err := json.Unmarshal(raw, &msg); err != nil {
		return
	}
	text := strings.TrimSpace(msg.Message)
	if text == "" || !BoundedString(text, MaxChatLen) {
		return
	}
	e.dispatcher.Broadcast(Envelope{T: EvtChat, Data: ChatMsg{ID: p.ID, Name: p.Name, Message: text}})
}

// finishAttack broadcasts the authoritative outcome and settles kill XP.
// Attacks that touched nothing stay silent.
func (e *Engine) finishAttack(attacker *Player, kind string, hits []Hit, heal int) {
	if len(hits) == 0 {
		return
	}
	e.dispatcher.Broadcast(Envelope{T: EvtDamage, Data: DamageMsg{
		AttackerID: attacker.ID,
		Attack:     kind,
		Hits:       hits,
		Heal:       heal,
		AttackerHP: attacker.HP,
	}})

	leveled := false
	for _, h := range hits {
		if h.Dead && h.TargetKind == targetKindPlayer {
			if attacker.GrantXP(XPPerKill) {
				leveled = true
			}
		}
	}
	if leveled {
		e.dispatcher.Broadcast(Envelope{T: EvtLevelUp, Data: LevelUpMsg{ID: attacker.ID, Level: attacker.Level}})
	}
}

func (e *Engine) sweepPlayers() {
	for _, msg := range SweepPlayers(e.store, e.world, e.nowMs()) {
		e.dispatcher.Broadcast(Envelope{T: EvtRespawn, Data: msg})
	}
}

func (e *Engine) sweepEntities() {
	nowMs := e.nowMs()
	for _, msg := range SweepDummies(e.store, nowMs) {
		e.dispatcher.Broadcast(Envelope{T: EvtRespawn, Data: msg})
	}
	for _, msg := range SweepShards(e.store, nowMs) {
		e.dispatcher.Broadcast(Envelope{T: EvtShardSpawned, Data: msg})
	}
}

func playerState(p *Player) PlayerState {
	return PlayerState{
		ID: p.ID, Name: p.Name, X: p.X, Y: p.Y,
		Level: p.Level, XP: p.XP, HP: p.HP, MaxHP: p.MaxHP, Dead: p.IsDead,
	}
}

func (e *Engine) buildRoster() Roster {
	r := Roster{
		Players: make([]PlayerState, 0, e.store.PlayerCount()),
		Dummies: make([]DummyState, 0, len(e.store.Dummies())),
		Shards:  make([]ShardState, 0, len(e.store.Shards())),
	}
	for _, p := range e.store.Players() {
		r.Players = append(r.Players, playerState(p))
	}
	for _, d := range e.store.Dummies() {
		r.Dummies = append(r.Dummies, DummyState{ID: d.ID, Name: d.Name, X: d.X, Y: d.Y, HP: d.HP, MaxHP: d.MaxHP})
	}
	for _, s := range e.store.Shards() {
		r.Shards = append(r.Shards, ShardState{ID: s.ID, X: s.X, Y: s.Y, Collected: s.Collected})
	}
	return r
}

func (e *Engine) buildStats() Stats {
	return Stats{
		UptimeSeconds:    int64(e.now().Sub(e.startedAt).Seconds()),
		Players:          e.store.PlayerCount(),
		ActionsProcessed: e.actionsProcessed,
		ActionsDropped:   e.actionsDropped.Load(),
		Suspicions:       e.suspicions,
	}
}
