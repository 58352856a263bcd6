package belote

import (
	"sort"

	"belote-lite/card"
)

type SequenceKind byte

const (
	Tierce  SequenceKind = 3
	Fifty   SequenceKind = 4
	Hundred SequenceKind = 5
)

func (k SequenceKind) String() string {
	switch k {
	case Tierce:
		return "Tierce"
	case Fifty:
		return "Fifty"
	case Hundred:
		return "Hundred"
	}
	return "None"
}

// Sequence is the longest run of consecutive ranks held in one suit.
type Sequence struct {
	Suit   card.Suit
	Length int
	Kind   SequenceKind
	Points int
}

// DetectSequences scans each suit for its longest run under the natural
// order 7..A. Runs of 3, 4 and 5+ score 20, 50 and 100.
func DetectSequences(cards []card.Card) []Sequence {
	var out []Sequence
	for _, s := range card.AllSuits {
		idx := make([]int, 0, card.RankCount)
		for _, c := range cards {
			if c.Suit() == s {
				idx = append(idx, c.Rank().Index())
			}
		}
		if len(idx) < 3 {
			continue
		}
		sort.Ints(idx)

		run, best := 1, 1
		for i := 1; i < len(idx); i++ {
			if idx[i] == idx[i-1]+1 {
				run++
				if run > best {
					best = run
				}
			} else {
				run = 1
			}
		}

		seq := Sequence{Suit: s, Length: best}
		switch {
		case best == 3:
			seq.Kind, seq.Points = Tierce, 20
		case best == 4:
			seq.Kind, seq.Points = Fifty, 50
		case best >= 5:
			seq.Kind, seq.Points = Hundred, 100
		default:
			continue
		}
		out = append(out, seq)
	}
	return out
}

func SequencePoints(seqs []Sequence) int {
	total := 0
	for _, s := range seqs {
		total += s.Points
	}
	return total
}
