package belote

import "belote-lite/card"

type SeatSnapshot struct {
	Seat      Seat
	Connected bool
	CardCount int
	Cards     []card.Card // only filled for the viewer's own seat
	Belote    bool
}

// Snapshot is a read-only copy of the table for display.
type Snapshot struct {
	Phase       Phase
	Deal        uint32
	Dealer      Seat
	MatchTotals [TeamCount]int
	MatchOver   bool
	Threshold   int
	Connected   int

	BidRound int
	Bidder   Seat
	UpCard   card.Card

	HasTrump bool
	Trump    card.Suit
	Taker    Seat

	Turn        Seat
	Trick       []PlayedCard
	TrickWinner Seat
	LastTrick   []PlayedCard
	TrickCount  int
	TricksWon   [TeamCount]int
	RoundScores [TeamCount]int

	Seats [SeatCount]SeatSnapshot
}

func (s *Session) Snapshot() Snapshot { return s.SnapshotFor(Observer) }

// SnapshotFor includes viewer's own cards; observers see counts only.
func (s *Session) SnapshotFor(viewer Seat) Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap := Snapshot{
		Phase:       s.phase,
		Deal:        s.deals,
		Dealer:      s.dealer,
		MatchTotals: s.totals,
		MatchOver:   s.matchOver,
		Threshold:   s.cfg.threshold(),
		Connected:   s.seating.Connected(),
		Bidder:      NoSeat,
		Taker:       NoSeat,
		Turn:        NoSeat,
		TrickWinner: NoSeat,
		LastTrick:   append([]PlayedCard(nil), s.lastTrick...),
	}
	for _, st := range Seats {
		snap.Seats[st] = SeatSnapshot{Seat: st, Connected: s.seating.ConnAt(st) != ""}
	}

	r := s.round
	if r == nil {
		return snap
	}
	if s.phase == PhaseBidding {
		snap.BidRound = r.bid.round
		snap.Bidder = r.bidder()
		snap.UpCard = r.upCard
	}
	snap.HasTrump = r.hasTrump
	snap.Trump = r.trump
	snap.Taker = r.taker
	snap.Turn = r.turn
	snap.Trick = append([]PlayedCard(nil), r.trick...)
	if w, ok := WinningCard(r.trick, r.trump); ok {
		snap.TrickWinner = w.Seat
	}
	snap.TrickCount = r.trickCount
	snap.TricksWon = r.tricksWon
	snap.RoundScores = r.scores
	for _, st := range Seats {
		ss := &snap.Seats[st]
		ss.CardCount = r.hands[st].Len()
		ss.Belote = r.belote[st]
		if st == viewer {
			ss.Cards = r.hands[st].Cards()
		}
	}
	return snap
}

// Hand returns a copy of seat's cards, nil outside a round.
func (s *Session) Hand(seat Seat) []card.Card {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.round == nil || !seat.Valid() {
		return nil
	}
	return s.round.hands[seat].Cards()
}

// Stock returns the undealt stock and the up-card still on the table.
func (s *Session) Stock() (stock []card.Card, upCard card.Card) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.round == nil {
		return nil, card.CardInvalid
	}
	return s.round.stock.Clone(), s.round.upCard
}

func (s *Session) Phase() Phase {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.phase
}

func (s *Session) Dealer() Seat {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.dealer
}

func (s *Session) Totals() [TeamCount]int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.totals
}

// Turn is the seat expected to act next: the bidder while bidding, the
// player on turn while playing.
func (s *Session) Turn() Seat {
	s.mu.Lock()
	defer s.mu.Unlock()
	switch {
	case s.round == nil:
		return NoSeat
	case s.phase == PhaseBidding:
		return s.round.bidder()
	}
	return s.round.turn
}
