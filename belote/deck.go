package belote

import "belote-lite/card"

// roundState lives from a deal to its settlement or abort.
type roundState struct {
	deal   uint32
	dealer Seat

	stock  card.CardList
	hands  [SeatCount]Hand
	upCard card.Card

	bid bidState

	trump    card.Suit
	hasTrump bool
	taker    Seat

	turn       Seat
	trick      []PlayedCard
	trickCount int
	tricksWon  [TeamCount]int
	scores     [TeamCount]int

	belote   [SeatCount]bool
	offers   [SeatCount][]Sequence
	declared [SeatCount]bool
}

func (s *Session) newShuffledDeck() card.CardList {
	var deck card.CardList
	if len(s.cfg.DeckOverride) > 0 {
		deck.Init(s.cfg.DeckOverride)
		return deck
	}
	deck.Init(BeloteCards)
	deck.Shuffle(s.rng)
	return deck
}

// dealInitial turns the front card up, then gives five cards to each seat
// starting after the dealer. The rest stays as stock.
func dealInitial(deck card.CardList, dealer Seat) (*roundState, error) {
	r := &roundState{
		dealer: dealer,
		taker:  NoSeat,
		turn:   NoSeat,
		bid:    bidState{round: 1, offset: 1},
	}
	up, ok := deck.PopCards(1)
	if !ok {
		return nil, ErrInvalidState("deck underflow")
	}
	r.upCard = up[0]

	for i := 1; i <= SeatCount; i++ {
		seat := dealer.Offset(i)
		cards, ok := deck.PopCards(InitialHandSize)
		if !ok {
			return nil, ErrInvalidState("deck underflow")
		}
		r.hands[seat].reset()
		r.hands[seat].add(cards...)
		r.hands[seat].sortByRank()
	}
	r.stock = deck
	return r, nil
}

// distributeStock completes every hand to eight cards: the taker gets two
// stock cards plus the up-card, the others three stock cards each.
func (r *roundState) distributeStock(taker Seat) error {
	for i := 1; i <= SeatCount; i++ {
		seat := r.dealer.Offset(i)
		n := 3
		if seat == taker {
			n = 2
		}
		cards, ok := r.stock.PopCards(n)
		if !ok {
			return ErrInvalidState("stock underflow")
		}
		r.hands[seat].add(cards...)
		if seat == taker {
			r.hands[seat].add(r.upCard)
			r.upCard = card.CardInvalid
		}
		r.hands[seat].sortTrumpFirst(r.trump)
	}
	return nil
}
