package table

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"belote-lite/apps/server/internal/ledger"
	"belote-lite/belote"
	"belote-lite/belote/npc"
	"belote-lite/wire"
)

type recorder struct {
	mu  sync.Mutex
	got map[string][]wire.ServerEnvelope
}

func newRecorder() *recorder {
	return &recorder{got: make(map[string][]wire.ServerEnvelope)}
}

func (r *recorder) send(connID string, env wire.ServerEnvelope) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.got[connID] = append(r.got[connID], env)
}

func (r *recorder) ofType(connID, typ string) []wire.ServerEnvelope {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []wire.ServerEnvelope
	for _, env := range r.got[connID] {
		if env.Type == typ {
			out = append(out, env)
		}
	}
	return out
}

type sinkRecorder struct {
	mu    sync.Mutex
	kinds map[string]int
}

func (s *sinkRecorder) Publish(_ context.Context, _ string, kind string, _ map[string]any) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.kinds[kind]++
	return nil
}

func (s *sinkRecorder) Close() error { return nil }

func (s *sinkRecorder) count(kind string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.kinds[kind]
}

func waitFor(t *testing.T, timeout time.Duration, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatalf("condition not met within %s", timeout)
}

type testTable struct {
	*Table
	rec    *recorder
	sink   *sinkRecorder
	ledger *ledger.MemoryService
}

func newTestTable(t *testing.T, cfg Config, registry *npc.PersonaRegistry) testTable {
	t.Helper()
	if cfg.Seed == 0 {
		cfg.Seed = 42
	}
	rec := newRecorder()
	sink := &sinkRecorder{kinds: make(map[string]int)}
	led := ledger.NewMemoryService(50)
	tbl, err := New("t1", cfg, rec.send, led, sink, registry)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	t.Cleanup(tbl.Stop)
	return testTable{Table: tbl, rec: rec, sink: sink, ledger: led}
}

func joinAll(t *testing.T, tbl testTable) {
	t.Helper()
	for i := 0; i < belote.SeatCount; i++ {
		if err := tbl.SubmitEvent(Event{Type: EventJoin, ConnID: fmt.Sprintf("conn-%d", i)}); err != nil {
			t.Fatalf("join conn-%d: %v", i, err)
		}
	}
}

func TestTableRoutesPrivateHands(t *testing.T) {
	tbl := newTestTable(t, Config{}, nil)
	joinAll(t, tbl)

	if err := tbl.SubmitEvent(Event{Type: EventDeal, ConnID: "conn-0"}); err != nil {
		t.Fatalf("deal: %v", err)
	}
	for i, seat := range belote.Seats {
		connID := fmt.Sprintf("conn-%d", i)
		hands := tbl.rec.ofType(connID, string(belote.KindHandUpdated))
		if len(hands) != 1 {
			t.Fatalf("%s got %d hand updates, want 1", connID, len(hands))
		}
		if hands[0].Payload["seat"] != seat.String() {
			t.Fatalf("%s received %v's hand", connID, hands[0].Payload["seat"])
		}
		if len(tbl.rec.ofType(connID, string(belote.KindTableCleared))) != 1 {
			t.Fatalf("%s missing table_cleared", connID)
		}
		if len(tbl.rec.ofType(connID, string(belote.KindUpCardShown))) != 1 {
			t.Fatalf("%s missing up_card_shown", connID)
		}
	}
}

func TestTableRejections(t *testing.T) {
	tbl := newTestTable(t, Config{}, nil)
	joinAll(t, tbl)
	if err := tbl.SubmitEvent(Event{Type: EventDeal, ConnID: "conn-0"}); err != nil {
		t.Fatalf("deal: %v", err)
	}

	// East bids first; North is out of turn and gets no notice.
	err := tbl.SubmitEvent(Event{Type: EventBid, ConnID: "conn-0", Value: "take"})
	if !errors.Is(err, belote.ErrOutOfTurn) {
		t.Fatalf("expected out of turn, got %v", err)
	}
	if n := len(tbl.rec.ofType("conn-0", string(belote.KindBidRejected))); n != 0 {
		t.Fatalf("out-of-turn bid should be silent, got %d notices", n)
	}

	if err := tbl.SubmitEvent(Event{Type: EventPlay, ConnID: "conn-1", Value: "Js"}); err == nil {
		t.Fatalf("play during bidding should be rejected")
	}
	notices := tbl.rec.ofType("conn-1", string(belote.KindPlayRejected))
	if len(notices) != 1 || notices[0].Payload["kind"] != "premature_play" {
		t.Fatalf("expected premature_play notice, got %+v", notices)
	}
	if n := len(tbl.rec.ofType("conn-2", string(belote.KindPlayRejected))); n != 0 {
		t.Fatalf("notice leaked to another seat")
	}

	if err := tbl.SubmitEvent(Event{Type: EventBid, ConnID: "conn-1", Value: "bogus"}); err == nil {
		t.Fatalf("unparseable bid should fail")
	}
	if len(tbl.rec.ofType("conn-1", "error")) != 1 {
		t.Fatalf("expected an error envelope for the bad bid")
	}
	if tbl.Snapshot().Phase != belote.PhaseBidding {
		t.Fatalf("rejections must not move the round")
	}
}

func TestTableDealNeedsFourSeats(t *testing.T) {
	tbl := newTestTable(t, Config{}, nil)
	if err := tbl.SubmitEvent(Event{Type: EventJoin, ConnID: "solo"}); err != nil {
		t.Fatalf("join: %v", err)
	}
	err := tbl.SubmitEvent(Event{Type: EventDeal, ConnID: "solo"})
	if !errors.Is(err, belote.ErrNotEnoughPlayers) {
		t.Fatalf("expected ErrNotEnoughPlayers, got %v", err)
	}
	errs := tbl.rec.ofType("solo", "error")
	if len(errs) != 1 || errs[0].Payload["code"] != "not_enough_players" {
		t.Fatalf("error envelope = %+v", errs)
	}
}

func TestTrickPauseDefersActions(t *testing.T) {
	tbl := newTestTable(t, Config{TrickPause: time.Hour}, nil)
	joinAll(t, tbl)

	tbl.mu.Lock()
	tbl.pauseUntil = time.Now().Add(time.Hour)
	tbl.mu.Unlock()

	done := make(chan error, 1)
	go func() { done <- tbl.SubmitEvent(Event{Type: EventDeal, ConnID: "conn-0"}) }()

	select {
	case err := <-done:
		t.Fatalf("deal should wait for the pause, returned %v", err)
	case <-time.After(300 * time.Millisecond):
	}
	if tbl.Snapshot().Phase != belote.PhaseWaiting {
		t.Fatalf("engine re-entered during the pause")
	}

	// Snapshots are not round actions and are served immediately.
	if err := tbl.SubmitEvent(Event{Type: EventSnapshot, ConnID: "conn-2"}); err != nil {
		t.Fatalf("snapshot: %v", err)
	}
	if len(tbl.rec.ofType("conn-2", "table_snapshot")) != 1 {
		t.Fatalf("expected a snapshot during the pause")
	}

	tbl.mu.Lock()
	tbl.pauseUntil = time.Time{}
	tbl.mu.Unlock()

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("deferred deal: %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("deferred deal never ran")
	}
	if tbl.Snapshot().Phase != belote.PhaseBidding {
		t.Fatalf("deal did not apply after the pause")
	}
}

func TestTableRecordsSettledRound(t *testing.T) {
	tbl := newTestTable(t, Config{}, nil)
	joinAll(t, tbl)
	if err := tbl.SubmitEvent(Event{Type: EventDeal, ConnID: "conn-0"}); err != nil {
		t.Fatalf("deal: %v", err)
	}

	for i := 0; i < 100 && tbl.Snapshot().Phase != belote.PhaseWaiting; i++ {
		snap := tbl.Snapshot()
		switch snap.Phase {
		case belote.PhaseBidding:
			connID := tbl.session.ConnAt(snap.Bidder)
			value := "take"
			if snap.BidRound == 2 {
				value = "pass"
				for _, s := range []string{"spades", "clubs", "diamonds", "hearts"} {
					if s != snap.UpCard.Suit().Name() {
						value = s
						break
					}
				}
			}
			if err := tbl.SubmitEvent(Event{Type: EventBid, ConnID: connID, Value: value}); err != nil {
				t.Fatalf("bid %s by %s: %v", value, snap.Bidder, err)
			}
		case belote.PhasePlaying:
			legal := tbl.session.LegalCards(snap.Turn)
			if len(legal) == 0 {
				t.Fatalf("no legal card for %s", snap.Turn)
			}
			connID := tbl.session.ConnAt(snap.Turn)
			if err := tbl.SubmitEvent(Event{Type: EventPlay, ConnID: connID, Value: legal[0].Code()}); err != nil {
				t.Fatalf("play %s by %s: %v", legal[0], snap.Turn, err)
			}
		}
	}
	if tbl.Snapshot().Phase != belote.PhaseWaiting {
		t.Fatalf("round did not finish")
	}

	var rounds []ledger.RoundRecord
	waitFor(t, 2*time.Second, func() bool {
		rounds, _ = tbl.ledger.ListRounds(context.Background(), "t1", 0)
		return len(rounds) == 1
	})
	rec := rounds[0]
	if rec.Outcome != ledger.OutcomeSettled || rec.Deal != 1 || rec.Dealer != "North" {
		t.Fatalf("record = %+v", rec)
	}
	if rec.RoundID == "" || rec.Trump == "" {
		t.Fatalf("record missing ids: %+v", rec)
	}
	if rec.TricksWon[0]+rec.TricksWon[1] != belote.TricksPerRound {
		t.Fatalf("tricks won = %v", rec.TricksWon)
	}
	waitFor(t, 2*time.Second, func() bool {
		return tbl.sink.count("trick_settled") == belote.TricksPerRound && tbl.sink.count("round_settled") == 1
	})
	if got := len(tbl.rec.ofType("conn-3", string(belote.KindRoundSettled))); got != 1 {
		t.Fatalf("conn-3 saw %d round_settled", got)
	}
}

func TestNPCsActUntilHumanTurn(t *testing.T) {
	tbl := newTestTable(t, Config{}, npc.NewRegistry())
	if err := tbl.SubmitEvent(Event{Type: EventJoin, ConnID: "human"}); err != nil {
		t.Fatalf("join: %v", err)
	}
	for i := 0; i < 3; i++ {
		if err := tbl.SubmitEvent(Event{Type: EventAddBot}); err != nil {
			t.Fatalf("add bot: %v", err)
		}
	}
	for _, seat := range []belote.Seat{belote.East, belote.South, belote.West} {
		inst := tbl.NPCManager().GetInstance(seat)
		if inst == nil {
			t.Fatalf("no NPC at %s", seat)
		}
		inst.ThinkDelay = 0
	}
	if info := tbl.Info(); info.Bots != 3 || info.Seated != 4 {
		t.Fatalf("info = %+v", info)
	}

	if err := tbl.SubmitEvent(Event{Type: EventDeal, ConnID: "human"}); err != nil {
		t.Fatalf("deal: %v", err)
	}
	waitFor(t, 5*time.Second, func() bool {
		return tbl.Snapshot().Phase != belote.PhaseWaiting && tbl.session.Turn() == belote.North
	})
	if len(tbl.rec.ofType("human", string(belote.KindHandUpdated))) == 0 {
		t.Fatalf("human never saw a hand")
	}
}

func TestTableIdleTracking(t *testing.T) {
	tbl := newTestTable(t, Config{}, nil)
	if !tbl.IsIdleFor(0) {
		t.Fatalf("fresh table should be idle")
	}
	if err := tbl.SubmitEvent(Event{Type: EventJoin, ConnID: "a"}); err != nil {
		t.Fatalf("join: %v", err)
	}
	if tbl.IsIdleFor(0) {
		t.Fatalf("occupied table is not idle")
	}
	if err := tbl.SubmitEvent(Event{Type: EventLeave, ConnID: "a"}); err != nil {
		t.Fatalf("leave: %v", err)
	}
	if !tbl.IsIdleFor(0) {
		t.Fatalf("empty table should be idle again")
	}

	tbl.Stop()
	if err := tbl.SubmitEvent(Event{Type: EventJoin, ConnID: "b"}); !errors.Is(err, ErrTableClosed) {
		t.Fatalf("expected ErrTableClosed, got %v", err)
	}
}
