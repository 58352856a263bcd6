package belote

import (
	"fmt"
	"testing"

	"belote-lite/card"
)

func cards(codes ...string) []card.Card {
	out := make([]card.Card, 0, len(codes))
	for _, c := range codes {
		out = append(out, card.MustParse(c))
	}
	return out
}

// stackDeck lays out a deck in deal order: up-card, five cards for each seat
// starting after the dealer, then the stock in distribution order.
func stackDeck(up string, initial [SeatCount][]string, stock []string) []card.Card {
	deck := cards(up)
	for _, h := range initial {
		deck = append(deck, cards(h...)...)
	}
	return append(deck, cards(stock...)...)
}

// deckWithFront moves front to the top of an otherwise ordered deck.
func deckWithFront(front card.Card) []card.Card {
	deck := []card.Card{front}
	for _, c := range BeloteCards {
		if c != front {
			deck = append(deck, c)
		}
	}
	return deck
}

func newFullTable(t *testing.T, cfg Config) *Session {
	t.Helper()
	s, err := NewSession(cfg)
	if err != nil {
		t.Fatalf("NewSession: %v", err)
	}
	for i := 0; i < SeatCount; i++ {
		if _, err := s.Join(fmt.Sprintf("conn-%d", i)); err != nil {
			t.Fatalf("Join: %v", err)
		}
	}
	return s
}

func mustDeal(t *testing.T, s *Session) []Outbound {
	t.Helper()
	out, err := s.RequestDeal(s.Dealer())
	if err != nil {
		t.Fatalf("RequestDeal: %v", err)
	}
	return out
}

func findEvent[T Event](out []Outbound) (T, bool) {
	for _, o := range out {
		if e, ok := o.Event.(T); ok {
			return e, true
		}
	}
	var zero T
	return zero, false
}

func countEvents[T Event](out []Outbound) int {
	n := 0
	for _, o := range out {
		if _, ok := o.Event.(T); ok {
			n++
		}
	}
	return n
}

// autoplay drives one round: the first bidder takes, then every seat plays
// its first legal card. It returns every event emitted after the deal.
func autoplay(t *testing.T, s *Session) []Outbound {
	t.Helper()
	var all []Outbound
	for guard := 0; guard < 200; guard++ {
		switch s.Phase() {
		case PhaseWaiting:
			return all
		case PhaseBidding:
			out, err := s.Bid(s.Turn(), Take())
			if err != nil {
				t.Fatalf("Bid: %v", err)
			}
			all = append(all, out...)
		case PhasePlaying:
			seat := s.Turn()
			legal := s.LegalCards(seat)
			if len(legal) == 0 {
				t.Fatalf("%s has no legal card", seat)
			}
			out, err := s.PlayCard(seat, legal[0])
			if err != nil {
				t.Fatalf("PlayCard(%s, %s): %v", seat, legal[0], err)
			}
			all = append(all, out...)
		}
	}
	t.Fatalf("round did not finish")
	return nil
}

// assertPartition checks that stock, hands, up-card and played cards cover
// the 32 cards exactly once.
func assertPartition(t *testing.T, s *Session, played []card.Card) {
	t.Helper()
	seen := make(map[card.Card]int)
	stock, up := s.Stock()
	for _, c := range stock {
		seen[c]++
	}
	if up != card.CardInvalid {
		seen[up]++
	}
	for _, st := range Seats {
		for _, c := range s.Hand(st) {
			seen[c]++
		}
	}
	for _, c := range s.Snapshot().Trick {
		seen[c.Card]++
	}
	for _, c := range played {
		seen[c]++
	}
	if len(seen) != len(BeloteCards) {
		t.Fatalf("partition covers %d distinct cards, want %d", len(seen), len(BeloteCards))
	}
	for c, n := range seen {
		if n != 1 {
			t.Fatalf("card %s appears %d times", c, n)
		}
	}
}

// declareOffered declares for every seat that received an offer in out and
// returns the declared points.
func declareOffered(t *testing.T, s *Session, out []Outbound) int {
	t.Helper()
	total := 0
	for _, o := range out {
		offer, ok := o.Event.(DeclarationOffered)
		if !ok {
			continue
		}
		res, err := s.DeclareSequence(offer.Seat)
		if err != nil {
			t.Fatalf("DeclareSequence(%s): %v", offer.Seat, err)
		}
		sd, _ := findEvent[SequenceDeclared](res)
		total += sd.Points
	}
	return total
}

func lastEvent[T Event](out []Outbound) (T, bool) {
	for i := len(out) - 1; i >= 0; i-- {
		if e, ok := out[i].Event.(T); ok {
			return e, true
		}
	}
	var zero T
	return zero, false
}
