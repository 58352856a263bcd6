package belote

import "belote-lite/card"

// PlayCard plays c from seat's hand into the current trick.
func (s *Session) PlayCard(seat Seat, c card.Card) ([]Outbound, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch s.phase {
	case PhaseBidding:
		return nil, reject(PrematurePlay, seat, "trump not chosen yet")
	case PhaseWaiting:
		return nil, reject(OutOfTurn, seat, "no round in progress")
	}
	r := s.round
	if seat != r.turn {
		return nil, reject(OutOfTurn, seat, "waiting for %s to play", r.turn)
	}
	if !c.Valid() {
		return nil, reject(IllegalPlay, seat, "invalid card")
	}
	if v := checkPlay(&r.hands[seat], r.trick, r.trump, seat, c); v != ViolationNone {
		return nil, reject(IllegalPlay, seat, "%s", v)
	}

	r.hands[seat].remove(c)
	r.trick = append(r.trick, PlayedCard{Seat: seat, Card: c})
	winner, _ := WinningCard(r.trick, r.trump)

	out := []Outbound{
		toAll(CardAccepted{
			Seat:        seat,
			Card:        c,
			Winner:      winner.Seat,
			WinningCard: winner.Card,
			TrumpLed:    r.trick[0].Card.Suit() == r.trump,
		}),
		toSeat(seat, s.handUpdatedLocked(seat)),
	}
	out = append(out, s.checkBeloteLocked(seat, c)...)

	if len(r.trick) < SeatCount {
		r.turn = seat.Next()
		return append(out, toAll(TurnChanged{Seat: r.turn})), nil
	}
	return append(out, s.settleTrickLocked()...), nil
}

// checkBeloteLocked handles trump King/Queen plays. The first of the pair
// announces belote when the partner card is still in hand; the second one
// scores it.
func (s *Session) checkBeloteLocked(seat Seat, c card.Card) []Outbound {
	r := s.round
	if c.Suit() != r.trump || (c.Rank() != card.RankK && c.Rank() != card.RankQ) {
		return nil
	}
	if r.belote[seat] {
		r.scores[seat.Team()] += BelotePoints
		return []Outbound{toAll(RebeloteScored{Seat: seat, Team: seat.Team(), Points: BelotePoints})}
	}
	pair := card.RankQ
	if c.Rank() == card.RankQ {
		pair = card.RankK
	}
	if r.hands[seat].Has(card.New(r.trump, pair)) {
		r.belote[seat] = true
		return []Outbound{toAll(BeloteAnnounced{Seat: seat})}
	}
	return nil
}

// DeclareSequence scores the sequences offered to seat after the auction.
// Each offer can be accepted once, at any point while the round is played.
func (s *Session) DeclareSequence(seat Seat) ([]Outbound, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.phase != PhasePlaying || !seat.Valid() {
		return nil, ErrNoDeclaration
	}
	r := s.round
	seqs := r.offers[seat]
	if len(seqs) == 0 || r.declared[seat] {
		return nil, ErrNoDeclaration
	}
	r.declared[seat] = true
	pts := SequencePoints(seqs)
	r.scores[seat.Team()] += pts
	return []Outbound{toAll(SequenceDeclared{
		Seat:        seat,
		Team:        seat.Team(),
		Sequences:   seqs,
		Points:      pts,
		RoundScores: r.scores,
	})}, nil
}
