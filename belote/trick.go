package belote

import "belote-lite/card"

// PlayedCard is a card in the current trick with the seat that played it.
type PlayedCard struct {
	Seat Seat
	Card card.Card
}

// WinningCard walks the trick in play order. A later card takes over when it
// is trump and beats the best (non-trump best, or stronger trump), or when it
// follows the lead suit, the best is not trump and it ranks higher.
func WinningCard(played []PlayedCard, trump card.Suit) (PlayedCard, bool) {
	if len(played) == 0 {
		return PlayedCard{Seat: NoSeat}, false
	}
	lead := played[0].Card.Suit()
	best := played[0]
	for _, pc := range played[1:] {
		c, b := pc.Card, best.Card
		if c.Suit() == trump {
			if b.Suit() != trump || TrumpStrength(c.Rank()) > TrumpStrength(b.Rank()) {
				best = pc
			}
		} else if c.Suit() == lead && b.Suit() != trump {
			if NormalStrength(c.Rank()) > NormalStrength(b.Rank()) {
				best = pc
			}
		}
	}
	return best, true
}

// bestTrump returns the strongest trump strength already in the trick.
func bestTrump(played []PlayedCard, trump card.Suit) (int, bool) {
	top, found := 0, false
	for _, pc := range played {
		if pc.Card.Suit() != trump {
			continue
		}
		if s := TrumpStrength(pc.Card.Rank()); !found || s > top {
			top, found = s, true
		}
	}
	return top, found
}

func trickPoints(played []PlayedCard, trump card.Suit) int {
	total := 0
	for _, pc := range played {
		total += CardPoints(pc.Card, trump)
	}
	return total
}

func trickCards(played []PlayedCard) []card.Card {
	out := make([]card.Card, 0, len(played))
	for _, pc := range played {
		out = append(out, pc.Card)
	}
	return out
}
