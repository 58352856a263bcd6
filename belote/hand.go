package belote

import (
	"sort"

	"belote-lite/card"
)

// Hand holds the cards of one seat. Order is presentation only.
type Hand struct {
	cards card.CardList
}

func (h *Hand) Cards() []card.Card { return h.cards.Clone() }
func (h *Hand) Len() int           { return h.cards.Count() }
func (h *Hand) Has(c card.Card) bool {
	return h.cards.Contains(c)
}

func (h *Hand) HasSuit(s card.Suit) bool {
	for _, c := range h.cards {
		if c.Suit() == s {
			return true
		}
	}
	return false
}

// HasTrumpAbove reports whether the hand holds a trump stronger than strength.
func (h *Hand) HasTrumpAbove(trump card.Suit, strength int) bool {
	for _, c := range h.cards {
		if c.Suit() == trump && TrumpStrength(c.Rank()) > strength {
			return true
		}
	}
	return false
}

func (h *Hand) add(cards ...card.Card) { h.cards.Add(cards...) }

func (h *Hand) remove(c card.Card) bool { return h.cards.Remove(c) }

func (h *Hand) reset() { h.cards = make(card.CardList, 0, FullHandSize) }

// sortByRank orders by natural rank, highest first.
func (h *Hand) sortByRank() {
	sort.SliceStable(h.cards, func(i, j int) bool {
		return h.cards[i].Rank() > h.cards[j].Rank()
	})
}

// sortTrumpFirst groups trumps first, then the other suits, highest rank first inside a suit.
func (h *Hand) sortTrumpFirst(trump card.Suit) {
	sort.SliceStable(h.cards, func(i, j int) bool {
		a, b := h.cards[i], h.cards[j]
		if (a.Suit() == trump) != (b.Suit() == trump) {
			return a.Suit() == trump
		}
		if a.Suit() != b.Suit() {
			return a.Suit() < b.Suit()
		}
		return a.Rank() > b.Rank()
	})
}
