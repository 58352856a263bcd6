package replay

import (
	"errors"
	"fmt"

	"belote-lite/belote"
	"belote-lite/card"
	"belote-lite/wire"
)

const (
	defaultTableID = "replay_local"
	tapeVersion    = 1
)

// seatConns are joined in seat order so conn i sits at Seats[i].
var seatConns = [belote.SeatCount]string{"replay-north", "replay-east", "replay-south", "replay-west"}

// GenerateReplayTape runs the spec against a fresh session and records every
// event in emission order. The first rejected action aborts with a ReplayError.
func GenerateReplayTape(spec RoundSpec) (*ReplayTape, error) {
	ns, err := normalizeSpec(spec)
	if err != nil {
		return nil, err
	}

	session, err := belote.NewSession(ns.cfg)
	if err != nil {
		return nil, &ReplayError{StepIndex: -1, Reason: "engine_init_failed", Message: err.Error()}
	}

	builder := newTapeBuilder(ns.tableID)
	for _, conn := range seatConns {
		out, err := session.Join(conn)
		if err != nil {
			return nil, &ReplayError{StepIndex: -1, Reason: "seat_init_failed", Message: err.Error()}
		}
		if err := builder.add(-1, out); err != nil {
			return nil, err
		}
	}

	for i, action := range ns.actions {
		step := int32(i)
		out, err := apply(session, action)
		if err != nil {
			return nil, replayErrorFor(session, step, action, err)
		}
		if err := builder.add(step, out); err != nil {
			return nil, err
		}
	}

	snap := session.Snapshot()
	builder.tape.MatchTotals = snap.MatchTotals
	builder.tape.MatchOver = snap.MatchOver
	return builder.tape, nil
}

func apply(s *belote.Session, a normalizedAction) ([]belote.Outbound, error) {
	switch a.kind {
	case actionDeal:
		return s.RequestDeal(a.seat)
	case actionBid:
		return s.Bid(a.seat, a.bid)
	case actionDeclare:
		return s.DeclareSequence(a.seat)
	case actionPlay:
		return s.PlayCard(a.seat, a.card)
	}
	return nil, fmt.Errorf("unknown action %d", a.kind)
}

func replayErrorFor(s *belote.Session, step int32, a normalizedAction, err error) *ReplayError {
	snap := s.Snapshot()
	expected := &ExpectedState{
		Turn:   s.Turn().String(),
		Phase:  snap.Phase.String(),
		Dealer: snap.Dealer.String(),
	}
	if snap.Phase == belote.PhasePlaying {
		expected.LegalCards = card.Codes(s.LegalCards(s.Turn()))
	}

	reason := "action_apply_failed"
	if r, ok := belote.AsRejection(err); ok {
		reason = r.Kind.String()
	} else if errors.Is(err, belote.ErrNotEnoughPlayers) {
		reason = "not_enough_players"
	} else if errors.Is(err, belote.ErrNoDeclaration) {
		reason = "no_declaration"
	}
	return &ReplayError{
		StepIndex: step,
		Reason:    reason,
		Message:   fmt.Sprintf("%s by %s: %v", describe(a), a.seat, err),
		Expected:  expected,
	}
}

func describe(a normalizedAction) string {
	switch a.kind {
	case actionDeal:
		return "deal"
	case actionBid:
		return "bid " + a.bid.String()
	case actionDeclare:
		return "declare"
	case actionPlay:
		return "play " + a.card.Code()
	}
	return "unknown"
}

type tapeBuilder struct {
	tape *ReplayTape
	seq  uint64
}

func newTapeBuilder(tableID string) *tapeBuilder {
	return &tapeBuilder{tape: &ReplayTape{TapeVersion: tapeVersion, TableID: tableID}}
}

func (b *tapeBuilder) add(step int32, out []belote.Outbound) error {
	for _, o := range out {
		b.seq++
		env := wire.ServerEnvelope{
			TableID: b.tape.TableID,
			Seq:     b.seq,
			Type:    string(o.Event.Kind()),
			Payload: wire.Payload(o.Event),
		}
		encoded, err := env.Base64()
		if err != nil {
			return &ReplayError{StepIndex: step, Reason: "encode_failed", Message: err.Error()}
		}
		ev := ReplayEvent{
			Type:        env.Type,
			Seq:         b.seq,
			Step:        step,
			Audience:    audienceName(o.Audience),
			Value:       env.Payload,
			EnvelopeB64: encoded,
		}
		if o.Audience == belote.AudienceSeat {
			ev.Seat = o.Seat.String()
		}
		b.tape.Events = append(b.tape.Events, ev)
	}
	return nil
}

func audienceName(a belote.Audience) string {
	switch a {
	case belote.AudienceSeat:
		return "seat"
	case belote.AudienceConn:
		return "conn"
	}
	return "all"
}
