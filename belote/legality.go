package belote

import "belote-lite/card"

// Violation names the rule a refused card would break.
type Violation byte

const (
	ViolationNone Violation = iota
	ViolationNotHeld
	ViolationMustFollowSuit
	ViolationMustTrump
	ViolationMustOvertrump
)

var violationText = map[Violation]string{
	ViolationNone:           "ok",
	ViolationNotHeld:        "card not in hand",
	ViolationMustFollowSuit: "must follow lead suit",
	ViolationMustTrump:      "must play a trump",
	ViolationMustOvertrump:  "must overtrump",
}

func (v Violation) String() string { return violationText[v] }

// checkPlay validates c for seat against the trick so far.
//
// 1. holding the lead suit forces it;
// 2. void in the lead suit: must trump unless partner is winning, and a
//    trump must beat the best trump when the hand can and partner is not winning;
// 3. trump led and trump played: must beat the best trump when possible,
//    partner winning or not.
func checkPlay(hand *Hand, trick []PlayedCard, trump card.Suit, seat Seat, c card.Card) Violation {
	if !hand.Has(c) {
		return ViolationNotHeld
	}
	if len(trick) == 0 {
		return ViolationNone
	}

	lead := trick[0].Card.Suit()
	hasLead := hand.HasSuit(lead)
	if hasLead && c.Suit() != lead {
		return ViolationMustFollowSuit
	}

	winner, _ := WinningCard(trick, trump)
	partnerWinning := winner.Seat != seat && winner.Seat.Team() == seat.Team()
	strength := TrumpStrength(c.Rank())

	if !hasLead {
		if !partnerWinning && hand.HasSuit(trump) && c.Suit() != trump {
			return ViolationMustTrump
		}
		if c.Suit() == trump {
			if top, ok := bestTrump(trick, trump); ok {
				if !partnerWinning && hand.HasTrumpAbove(trump, top) && strength <= top {
					return ViolationMustOvertrump
				}
			}
		}
	}

	if c.Suit() == trump && lead == trump {
		if top, ok := bestTrump(trick, trump); ok {
			if hand.HasTrumpAbove(trump, top) && strength <= top {
				return ViolationMustOvertrump
			}
		}
	}
	return ViolationNone
}

func legalCards(hand *Hand, trick []PlayedCard, trump card.Suit, seat Seat) []card.Card {
	var out []card.Card
	for _, c := range hand.cards {
		if checkPlay(hand, trick, trump, seat, c) == ViolationNone {
			out = append(out, c)
		}
	}
	return out
}
