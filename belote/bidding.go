package belote

import "belote-lite/card"

// bidState addresses the current bidder as an offset from the dealer (1..4).
type bidState struct {
	round  int
	offset int
}

func (r *roundState) bidder() Seat { return r.dealer.Offset(r.bid.offset) }

// Bid applies a bidding decision from seat. Only the addressed bidder may
// act; anything else is an OutOfTurn rejection and leaves state untouched.
func (s *Session) Bid(seat Seat, bid Bid) ([]Outbound, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.phase != PhaseBidding || s.round == nil {
		return nil, reject(OutOfTurn, seat, "no bidding in progress")
	}
	r := s.round
	if seat != r.bidder() {
		return nil, reject(OutOfTurn, seat, "waiting for %s to bid", r.bidder())
	}

	upSuit := r.upCard.Suit()
	switch r.bid.round {
	case 1:
		switch bid.Kind {
		case BidTake:
			return s.takeTrumpLocked(seat, upSuit)
		case BidPass:
			return s.passLocked(), nil
		}
		return nil, reject(InvalidBidTarget, seat, "round 1: take %s or pass", upSuit.Name())

	case 2:
		switch bid.Kind {
		case BidName:
			if !bid.Suit.Valid() {
				return nil, reject(InvalidBidTarget, seat, "unknown suit")
			}
			if bid.Suit == upSuit {
				return nil, reject(InvalidBidTarget, seat, "cannot name %s in round 2", upSuit.Name())
			}
			return s.takeTrumpLocked(seat, bid.Suit)
		case BidPass:
			if seat == r.dealer && !s.cfg.AllowDealerPassRound2 {
				return nil, reject(InvalidBidTarget, seat, "dealer must call in round 2")
			}
			return s.passLocked(), nil
		}
		return nil, reject(InvalidBidTarget, seat, "round 2: name a suit other than %s or pass", upSuit.Name())
	}
	return nil, ErrInvalidState("bidding round out of range")
}

// passLocked advances the auction. Four passes in round 1 either halt (Jack
// up-card) or open round 2; four passes in round 2 halt.
func (s *Session) passLocked() []Outbound {
	r := s.round
	r.bid.offset++
	if r.bid.offset <= SeatCount {
		return []Outbound{toAll(s.upCardShownLocked())}
	}

	if r.bid.round == 1 && r.upCard.Rank() != card.RankJ {
		r.bid = bidState{round: 2, offset: 1}
		return []Outbound{toAll(s.upCardShownLocked())}
	}

	reason := HaltNoTrump
	if r.bid.round == 1 {
		reason = HaltJackPassed
	}
	up := r.upCard
	s.abortRoundLocked()
	return []Outbound{toAll(BidHalted{Reason: reason, NextDealer: s.dealer, UpCard: up})}
}

// takeTrumpLocked fixes trump, completes every hand from the stock and opens
// play with the seat after the dealer.
func (s *Session) takeTrumpLocked(seat Seat, trump card.Suit) ([]Outbound, error) {
	r := s.round
	r.trump = trump
	r.hasTrump = true
	r.taker = seat
	if err := r.distributeStock(seat); err != nil {
		return nil, err
	}
	s.phase = PhasePlaying
	r.turn = r.dealer.Next()

	out := []Outbound{toAll(TrumpConfirmed{Suit: trump, By: seat, Team: seat.Team()})}
	for _, st := range Seats {
		out = append(out, toSeat(st, s.handUpdatedLocked(st)))
	}
	for _, st := range Seats {
		seqs := DetectSequences(r.hands[st].cards)
		if len(seqs) == 0 {
			continue
		}
		r.offers[st] = seqs
		out = append(out, toSeat(st, DeclarationOffered{
			Seat:      st,
			Sequences: seqs,
			Points:    SequencePoints(seqs),
		}))
	}
	out = append(out, toAll(TurnChanged{Seat: r.turn}))
	return out, nil
}

func (s *Session) upCardShownLocked() UpCardShown {
	r := s.round
	return UpCardShown{
		Round:  r.bid.round,
		Bidder: r.bidder(),
		Dealer: r.dealer,
		UpCard: r.upCard,
	}
}
