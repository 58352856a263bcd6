package npc

import (
	"belote-lite/belote"
	"belote-lite/card"
)

// GameView is a read-only projection of the round visible to the NPC.
type GameView struct {
	Seat     belote.Seat
	Phase    belote.Phase
	Hand     []card.Card
	Dealer   belote.Seat
	BidRound int
	UpCard   card.Card

	HasTrump bool
	Trump    card.Suit

	Trick       []belote.PlayedCard
	TrickWinner belote.Seat
	LegalCards  []card.Card
}

// PartnerWinning reports whether the partner currently holds the trick.
func (v GameView) PartnerWinning() bool {
	return v.TrickWinner.Valid() && v.TrickWinner == v.Seat.Partner()
}

type DecisionKind byte

const (
	DecideBid DecisionKind = iota + 1
	DecidePlay
)

// Decision is what a BrainDecider returns.
type Decision struct {
	Kind DecisionKind
	Bid  belote.Bid
	Card card.Card
}

// BrainDecider is the core interface all NPC types implement.
type BrainDecider interface {
	// Decide is called when it's the NPC's turn to bid or play.
	Decide(view GameView) Decision
	// Name returns a human-readable identifier for debugging.
	Name() string
}

// ViewFor builds the NPC view of seat from the session.
func ViewFor(s *belote.Session, seat belote.Seat) GameView {
	snap := s.SnapshotFor(seat)
	return GameView{
		Seat:        seat,
		Phase:       snap.Phase,
		Hand:        snap.Seats[seat].Cards,
		Dealer:      snap.Dealer,
		BidRound:    snap.BidRound,
		UpCard:      snap.UpCard,
		HasTrump:    snap.HasTrump,
		Trump:       snap.Trump,
		Trick:       snap.Trick,
		TrickWinner: snap.TrickWinner,
		LegalCards:  s.LegalCards(seat),
	}
}
