package npc

import (
	"math/rand"

	"belote-lite/belote"
	"belote-lite/card"
)

// RuleBrain makes decisions based on a PersonalityProfile with tunable parameters.
type RuleBrain struct {
	Persona *NPCPersona
	rng     *rand.Rand
}

// NewRuleBrain creates a RuleBrain from a persona definition.
func NewRuleBrain(persona *NPCPersona, seed int64) *RuleBrain {
	return &RuleBrain{
		Persona: persona,
		rng:     rand.New(rand.NewSource(seed)),
	}
}

func (b *RuleBrain) Name() string { return b.Persona.Name }

// Decide implements BrainDecider.
func (b *RuleBrain) Decide(view GameView) Decision {
	if view.Phase == belote.PhaseBidding {
		return Decision{Kind: DecideBid, Bid: b.decideBid(view)}
	}
	return Decision{Kind: DecidePlay, Card: b.decidePlay(view)}
}

// decideBid takes when the hand's trump value in the candidate suit clears
// a threshold lowered by boldness. The dealer in round 2 always names its
// best suit.
func (b *RuleBrain) decideBid(view GameView) belote.Bid {
	p := b.Persona.Brain
	boldness := clamp01(p.Boldness + (b.rng.Float64()-0.5)*p.Randomness*0.4)
	threshold := 40 - boldness*20

	up := view.UpCard.Suit()
	if view.BidRound == 1 {
		// the up-card joins the taker's hand
		value := trumpValue(append(append([]card.Card(nil), view.Hand...), view.UpCard), up)
		if value >= threshold {
			return belote.Take()
		}
		return belote.Pass()
	}

	best, bestValue := card.Suit(0), -1.0
	for _, s := range card.AllSuits {
		if s == up {
			continue
		}
		if v := trumpValue(view.Hand, s); v > bestValue {
			best, bestValue = s, v
		}
	}
	if bestValue >= threshold || view.Seat == view.Dealer {
		return belote.NameSuit(best)
	}
	return belote.Pass()
}

// trumpValue scores a hand as if suit were trump.
func trumpValue(hand []card.Card, suit card.Suit) float64 {
	v := 0.0
	for _, c := range hand {
		if c.Suit() == suit {
			v += float64(belote.CardPoints(c, suit)) + 4
		} else if c.Rank() == card.RankA {
			v += 5
		}
	}
	return v
}

// decidePlay gives points to a winning partner, wins as cheaply as possible
// otherwise, and throws the least valuable card when it cannot win.
func (b *RuleBrain) decidePlay(view GameView) card.Card {
	legal := view.LegalCards
	if len(legal) == 0 {
		return card.CardInvalid
	}
	if len(view.Trick) == 0 {
		return b.lead(view)
	}
	if view.PartnerWinning() {
		return pick(legal, func(a, c card.Card) bool {
			return belote.CardPoints(a, view.Trump) > belote.CardPoints(c, view.Trump)
		})
	}

	var winners []card.Card
	for _, c := range legal {
		trick := append(append([]belote.PlayedCard(nil), view.Trick...), belote.PlayedCard{Seat: view.Seat, Card: c})
		if w, _ := belote.WinningCard(trick, view.Trump); w.Seat == view.Seat {
			winners = append(winners, c)
		}
	}
	if len(winners) > 0 {
		return pick(winners, func(a, c card.Card) bool { return b.cost(a, view.Trump) < b.cost(c, view.Trump) })
	}
	return pick(legal, func(a, c card.Card) bool { return b.cost(a, view.Trump) < b.cost(c, view.Trump) })
}

// lead plays the strongest non-trump ace when there is one, else a random legal card.
func (b *RuleBrain) lead(view GameView) card.Card {
	for _, c := range view.LegalCards {
		if c.Rank() == card.RankA && c.Suit() != view.Trump {
			return c
		}
	}
	return view.LegalCards[b.rng.Intn(len(view.LegalCards))]
}

func (b *RuleBrain) cost(c card.Card, trump card.Suit) float64 {
	v := float64(belote.CardPoints(c, trump))
	if c.Suit() == trump {
		v += 10 * b.Persona.Brain.Thrift
	}
	return v
}

func pick(cards []card.Card, better func(a, c card.Card) bool) card.Card {
	best := cards[0]
	for _, c := range cards[1:] {
		if better(c, best) {
			best = c
		}
	}
	return best
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
