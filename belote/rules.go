package belote

import "belote-lite/card"

// Strength tables indexed by card.Rank; higher wins.
// Trump order (high→low): J 9 A 10 K Q 8 7.
// Normal order (high→low): A 10 K Q J 9 8 7.
var (
	trumpStrength = [card.RankCount + 1]int{
		card.Rank7: 1, card.Rank8: 2, card.RankQ: 3, card.RankK: 4,
		card.RankT: 5, card.RankA: 6, card.Rank9: 7, card.RankJ: 8,
	}
	normalStrength = [card.RankCount + 1]int{
		card.Rank7: 1, card.Rank8: 2, card.Rank9: 3, card.RankJ: 4,
		card.RankQ: 5, card.RankK: 6, card.RankT: 7, card.RankA: 8,
	}

	trumpPoints = [card.RankCount + 1]int{
		card.RankJ: 20, card.Rank9: 14, card.RankA: 11, card.RankT: 10,
		card.RankK: 4, card.RankQ: 3,
	}
	normalPoints = [card.RankCount + 1]int{
		card.RankA: 11, card.RankT: 10, card.RankK: 4, card.RankQ: 3, card.RankJ: 2,
	}
)

func TrumpStrength(r card.Rank) int  { return trumpStrength[r] }
func NormalStrength(r card.Rank) int { return normalStrength[r] }

// CardPoints uses the trump table for trump cards, the normal table otherwise.
func CardPoints(c card.Card, trump card.Suit) int {
	if c.Suit() == trump {
		return trumpPoints[c.Rank()]
	}
	return normalPoints[c.Rank()]
}

