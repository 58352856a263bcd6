package table

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"belote-lite/apps/server/internal/codec"
	"belote-lite/apps/server/internal/ledger"
	"belote-lite/apps/server/internal/notify"
	"belote-lite/belote"
	"belote-lite/belote/npc"
	"belote-lite/card"
	"belote-lite/wire"

	"github.com/google/uuid"
)

// SendFunc delivers one envelope to a connection. The transport picks the
// frame encoding.
type SendFunc func(connID string, env wire.ServerEnvelope)

// Table represents a single belote table with an actor model
type Table struct {
	ID     string
	Config Config

	mu       sync.RWMutex
	session  *belote.Session
	conns    map[string]time.Time // human connID -> joined at
	closed   bool
	stopOnce sync.Once

	// Event channel for actor pattern
	events chan Event
	done   chan struct{}

	// Server sequence for event ordering
	serverSeq uint64

	// Trick pacing: actions arriving before pauseUntil wait in deferred.
	pauseUntil time.Time
	deferred   []Event

	emptySince time.Time

	send   SendFunc
	ledger ledger.Service
	sink   notify.Sink

	// Current round bookkeeping for the ledger.
	roundID     string
	roundDeal   uint32
	roundDealer belote.Seat

	npcManager   *npc.Manager
	npcScheduled map[belote.Seat]bool

	roundEndHooks []RoundEndHook
}

// Config contains table settings
type Config struct {
	WinningThreshold      int
	AllowDealerPassRound2 bool
	NoObservers           bool
	TrickPause            time.Duration
	Seed                  int64
	InitialDealer         belote.Seat
	DeckOverride          []card.Card
}

// Event types for the actor message queue
type EventType int

const (
	EventJoin EventType = iota
	EventLeave
	EventDeal
	EventBid
	EventPlay
	EventDeclare
	EventSnapshot
	EventAddBot
	EventRemoveBot
	EventNPC
	EventClose
)

// Event represents a message to the table actor. Value carries the raw bid,
// card code or persona id.
type Event struct {
	Type      EventType
	ConnID    string
	Seat      belote.Seat
	Value     string
	Timestamp time.Time
	Response  chan error
}

// RoundEndInfo is emitted when a round settles or is halted during bidding.
type RoundEndInfo struct {
	TableID string
	Record  ledger.RoundRecord
}

type RoundEndHook func(info RoundEndInfo)

var (
	ErrTableClosed = errors.New("table closed")
	ErrNotSeated   = errors.New("connection is not seated")

	errDeferred = errors.New("deferred")
)

const sinkTimeout = 3 * time.Second

// New creates a new table
func New(
	id string,
	cfg Config,
	sendFn SendFunc,
	ledgerService ledger.Service,
	sink notify.Sink,
	registry *npc.PersonaRegistry,
) (*Table, error) {
	session, err := belote.NewSession(belote.Config{
		WinningThreshold:      cfg.WinningThreshold,
		InitialDealer:         cfg.InitialDealer,
		AllowDealerPassRound2: cfg.AllowDealerPassRound2,
		NoObservers:           cfg.NoObservers,
		Seed:                  cfg.Seed,
		DeckOverride:          cfg.DeckOverride,
	})
	if err != nil {
		return nil, fmt.Errorf("table %s: %w", id, err)
	}
	if sendFn == nil {
		sendFn = func(string, wire.ServerEnvelope) {}
	}
	if sink == nil {
		sink = notify.Noop()
	}

	t := &Table{
		ID:           id,
		Config:       cfg,
		session:      session,
		conns:        make(map[string]time.Time),
		events:       make(chan Event, 256),
		done:         make(chan struct{}),
		emptySince:   time.Now(),
		send:         sendFn,
		ledger:       ledgerService,
		sink:         sink,
		roundDealer:  belote.NoSeat,
		npcScheduled: make(map[belote.Seat]bool),
	}
	if registry != nil {
		t.npcManager = npc.NewManager(registry, cfg.Seed)
	}

	// Start actor goroutine
	go t.run()

	log.Printf("[Table %s] Created (threshold=%d, pause=%s)", id, session.Snapshot().Threshold, cfg.TrickPause)
	return t, nil
}

// run is the main actor loop
func (t *Table) run() {
	ticker := time.NewTicker(100 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case event := <-t.events:
			err := t.handleEvent(event)
			if errors.Is(err, errDeferred) {
				continue
			}
			if event.Response != nil {
				event.Response <- err
			}
		case <-ticker.C:
			t.tick()
		case <-t.done:
			log.Printf("[Table %s] Actor stopped", t.ID)
			return
		}
	}
}

// handleEvent processes a single event
func (t *Table) handleEvent(e Event) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.closed && e.Type != EventClose {
		return ErrTableClosed
	}
	if deferrable(e.Type) && (len(t.deferred) > 0 || time.Now().Before(t.pauseUntil)) {
		t.deferred = append(t.deferred, e)
		return errDeferred
	}
	return t.dispatchLocked(e)
}

func (t *Table) dispatchLocked(e Event) error {
	switch e.Type {
	case EventJoin:
		return t.handleJoin(e.ConnID)
	case EventLeave:
		return t.handleLeave(e.ConnID)
	case EventDeal:
		return t.handleDeal(e.ConnID)
	case EventBid:
		return t.handleBid(e.ConnID, e.Value)
	case EventPlay:
		return t.handlePlay(e.ConnID, e.Value)
	case EventDeclare:
		return t.handleDeclare(e.ConnID)
	case EventSnapshot:
		t.sendSnapshot(e.ConnID)
		return nil
	case EventAddBot:
		return t.handleAddBot(e.Value)
	case EventRemoveBot:
		return t.handleRemoveBot(e.Seat)
	case EventNPC:
		return t.handleNPCTurn(e.Seat)
	case EventClose:
		t.stopLocked()
		return nil
	default:
		return fmt.Errorf("unknown event type: %d", e.Type)
	}
}

// deferrable events touch round state and so wait out a trick pause.
func deferrable(et EventType) bool {
	switch et {
	case EventDeal, EventBid, EventPlay, EventDeclare, EventNPC:
		return true
	}
	return false
}

func (t *Table) handleJoin(connID string) error {
	if connID == "" {
		return fmt.Errorf("empty connection id")
	}
	if _, exists := t.conns[connID]; exists {
		t.sendSnapshot(connID)
		return nil
	}
	t.conns[connID] = time.Now()
	out, err := t.session.Join(connID)
	if err != nil {
		delete(t.conns, connID)
		t.replyErrorLocked(connID, err)
		return err
	}
	t.updateEmptySinceLocked(time.Now())
	seat, _ := t.session.SeatOf(connID)
	log.Printf("[Table %s] Conn %s joined as %s", t.ID, connID, seat)
	t.emitLocked(out)
	return nil
}

func (t *Table) handleLeave(connID string) error {
	if _, ok := t.conns[connID]; !ok {
		return belote.ErrUnknownConn
	}
	delete(t.conns, connID)
	t.updateEmptySinceLocked(time.Now())
	out, err := t.session.Leave(connID)
	if err != nil {
		return err
	}
	log.Printf("[Table %s] Conn %s left", t.ID, connID)
	t.emitLocked(out)
	return nil
}

func (t *Table) seatOf(connID string) (belote.Seat, error) {
	seat, ok := t.session.SeatOf(connID)
	if !ok || !seat.Valid() {
		return belote.NoSeat, ErrNotSeated
	}
	return seat, nil
}

func (t *Table) handleDeal(connID string) error {
	seat, err := t.seatOf(connID)
	if err != nil {
		return t.rejectLocked(connID, err)
	}
	out, err := t.session.RequestDeal(seat)
	if err != nil {
		return t.rejectLocked(connID, err)
	}
	t.emitLocked(out)
	return nil
}

func (t *Table) handleBid(connID, raw string) error {
	seat, err := t.seatOf(connID)
	if err != nil {
		return t.rejectLocked(connID, err)
	}
	bid, err := belote.ParseBid(raw)
	if err != nil {
		return t.rejectLocked(connID, err)
	}
	out, err := t.session.Bid(seat, bid)
	if err != nil {
		return t.rejectLocked(connID, err)
	}
	t.emitLocked(out)
	return nil
}

func (t *Table) handlePlay(connID, raw string) error {
	seat, err := t.seatOf(connID)
	if err != nil {
		return t.rejectLocked(connID, err)
	}
	c, err := card.Parse(raw)
	if err != nil {
		return t.rejectLocked(connID, err)
	}
	out, err := t.session.PlayCard(seat, c)
	if err != nil {
		return t.rejectLocked(connID, err)
	}
	t.emitLocked(out)
	return nil
}

func (t *Table) handleDeclare(connID string) error {
	seat, err := t.seatOf(connID)
	if err != nil {
		return t.rejectLocked(connID, err)
	}
	out, err := t.session.DeclareSequence(seat)
	if err != nil {
		return t.rejectLocked(connID, err)
	}
	t.emitLocked(out)
	return nil
}

// rejectLocked answers a refused action. Rejections with a notice go to the
// acting seat, out-of-turn actions are dropped, anything else becomes an
// error envelope for the connection.
func (t *Table) rejectLocked(connID string, err error) error {
	if out, ok := belote.RejectionEvent(err); ok {
		t.routeLocked(out)
		return err
	}
	if errors.Is(err, belote.ErrOutOfTurn) {
		log.Printf("[Table %s] Dropped out-of-turn action from %s: %v", t.ID, connID, err)
		return err
	}
	t.replyErrorLocked(connID, err)
	return err
}

func (t *Table) replyErrorLocked(connID string, err error) {
	t.send(connID, codec.EncodeError(t.ID, t.nextSeq(), codec.ErrorCode(err), err.Error()))
}

func (t *Table) tick() {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.closed {
		return
	}
	now := time.Now()
	for len(t.deferred) > 0 && !now.Before(t.pauseUntil) {
		e := t.deferred[0]
		t.deferred = t.deferred[1:]
		err := t.dispatchLocked(e)
		if e.Response != nil {
			e.Response <- err
		}
	}
}

// SubmitEvent sends an event to the actor
func (t *Table) SubmitEvent(e Event) error {
	e.Timestamp = time.Now()
	if e.Response == nil {
		e.Response = make(chan error, 1)
	}

	t.mu.RLock()
	closed := t.closed
	t.mu.RUnlock()
	if closed {
		return ErrTableClosed
	}

	select {
	case t.events <- e:
	case <-t.done:
		return ErrTableClosed
	}

	select {
	case err := <-e.Response:
		return err
	case <-t.done:
		return ErrTableClosed
	}
}

// Stop shuts down the table actor
func (t *Table) Stop() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.stopLocked()
}

func (t *Table) stopLocked() {
	t.closed = true
	for _, e := range t.deferred {
		if e.Response != nil {
			e.Response <- ErrTableClosed
		}
	}
	t.deferred = nil
	t.stopOnce.Do(func() {
		close(t.done)
	})
}

func (t *Table) updateEmptySinceLocked(now time.Time) {
	if len(t.conns) == 0 {
		if t.emptySince.IsZero() {
			t.emptySince = now
		}
		return
	}
	t.emptySince = time.Time{}
}

func (t *Table) IsIdleFor(ttl time.Duration) bool {
	t.mu.RLock()
	defer t.mu.RUnlock()

	if t.closed {
		return true
	}
	if len(t.conns) > 0 {
		return false
	}
	if t.emptySince.IsZero() {
		return false
	}
	return time.Since(t.emptySince) >= ttl
}

func (t *Table) IsClosed() bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.closed
}

// Snapshot returns the public view of the table (thread-safe)
func (t *Table) Snapshot() belote.Snapshot {
	return t.session.Snapshot()
}

// Info is the lobby listing for a table.
type Info struct {
	ID          string         `json:"id"`
	Phase       string         `json:"phase"`
	Deal        uint32         `json:"deal"`
	Connected   int            `json:"connected"`
	Seated      int            `json:"seated"`
	Bots        int            `json:"bots"`
	MatchTotals map[string]int `json:"match_totals"`
	MatchOver   bool           `json:"match_over"`
}

func (t *Table) Info() Info {
	snap := t.session.Snapshot()
	bots := 0
	if t.npcManager != nil {
		for _, s := range belote.Seats {
			if t.npcManager.IsNPC(s) {
				bots++
			}
		}
	}
	return Info{
		ID:        t.ID,
		Phase:     snap.Phase.String(),
		Deal:      snap.Deal,
		Connected: snap.Connected,
		Seated:    t.session.Seated(),
		Bots:      bots,
		MatchTotals: map[string]int{
			belote.TeamNS.String(): snap.MatchTotals[belote.TeamNS],
			belote.TeamEW.String(): snap.MatchTotals[belote.TeamEW],
		},
		MatchOver: snap.MatchOver,
	}
}

// AddRoundEndHook registers a callback run after each recorded round.
func (t *Table) AddRoundEndHook(hook RoundEndHook) {
	if hook == nil {
		return
	}
	t.mu.Lock()
	t.roundEndHooks = append(t.roundEndHooks, hook)
	t.mu.Unlock()
}

// --- Outbound routing ---

func (t *Table) nextSeq() uint64 {
	t.serverSeq++
	return t.serverSeq
}

// emitLocked delivers engine events in order, updates round bookkeeping and
// then gives NPCs a chance to act.
func (t *Table) emitLocked(outs []belote.Outbound) {
	now := time.Now()
	for _, out := range outs {
		switch ev := out.Event.(type) {
		case belote.TableCleared:
			t.roundID = uuid.NewString()
			t.roundDeal = ev.Deal
			t.roundDealer = ev.Dealer
		case belote.TrickSettled:
			if t.Config.TrickPause > 0 {
				t.pauseUntil = now.Add(t.Config.TrickPause)
			}
		case belote.BidHalted:
			t.recordRoundLocked(ledger.RoundRecord{
				Outcome:     ledger.OutcomeHalted,
				HaltReason:  ev.Reason.String(),
				MatchTotals: t.session.Totals(),
			})
		case belote.RoundSettled:
			t.recordRoundLocked(ledger.RoundRecord{
				Outcome:     ledger.OutcomeSettled,
				Trump:       ev.Trump.Name(),
				Taker:       ev.Taker.String(),
				RoundScores: ev.RoundScores,
				MatchTotals: ev.MatchTotals,
				TricksWon:   ev.TricksWon,
				Capot:       ev.Capot,
				MatchOver:   ev.MatchOver,
			})
		}
		t.routeLocked(out)
		t.publishLocked(out.Event)
	}
	t.scheduleNPCLocked()
}

func (t *Table) routeLocked(out belote.Outbound) {
	env := codec.EncodeOutbound(t.ID, t.nextSeq(), out)
	switch out.Audience {
	case belote.AudienceAll:
		for connID := range t.conns {
			t.send(connID, env)
		}
	case belote.AudienceSeat:
		if connID := t.session.ConnAt(out.Seat); t.isHuman(connID) {
			t.send(connID, env)
		}
	case belote.AudienceConn:
		if t.isHuman(out.ConnID) {
			t.send(out.ConnID, env)
		}
	}
}

func (t *Table) isHuman(connID string) bool {
	_, ok := t.conns[connID]
	return ok
}

func (t *Table) sendSnapshot(connID string) {
	viewer := belote.Observer
	if seat, ok := t.session.SeatOf(connID); ok {
		viewer = seat
	}
	t.send(connID, codec.EncodeSnapshot(t.ID, t.nextSeq(), t.session.SnapshotFor(viewer)))
}

func (t *Table) publishLocked(ev belote.Event) {
	switch ev.(type) {
	case belote.TrickSettled, belote.BidHalted, belote.RoundSettled:
	default:
		return
	}
	kind := string(ev.Kind())
	payload := wire.Payload(ev)
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), sinkTimeout)
		defer cancel()
		if err := t.sink.Publish(ctx, t.ID, kind, payload); err != nil {
			log.Printf("[Table %s] publish %s failed: %v", t.ID, kind, err)
		}
	}()
}

func (t *Table) recordRoundLocked(rec ledger.RoundRecord) {
	rec.TableID = t.ID
	rec.RoundID = t.roundID
	if rec.RoundID == "" {
		rec.RoundID = uuid.NewString()
	}
	rec.Deal = t.roundDeal
	rec.Dealer = t.roundDealer.String()
	rec.PlayedAt = time.Now().UTC()
	t.roundID = ""

	log.Printf("[Table %s] Round %d %s (scores=%v totals=%v)", t.ID, rec.Deal, rec.Outcome, rec.RoundScores, rec.MatchTotals)

	hooks := append([]RoundEndHook(nil), t.roundEndHooks...)
	go func() {
		if t.ledger != nil {
			ctx, cancel := context.WithTimeout(context.Background(), sinkTimeout)
			defer cancel()
			if err := t.ledger.RecordRound(ctx, rec); err != nil {
				log.Printf("[Table %s] ledger record failed: %v", t.ID, err)
			}
		}
		for _, hook := range hooks {
			hook(RoundEndInfo{TableID: t.ID, Record: rec})
		}
	}()
}
