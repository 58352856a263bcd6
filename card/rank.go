package card

import (
	"fmt"
	"strings"
)

// Rank 点数，按自然顺序 7..A 编码为 1..8
type Rank byte

const (
	Rank7 Rank = iota + 1
	Rank8
	Rank9
	RankT
	RankJ
	RankQ
	RankK
	RankA
)

const RankCount = 8

var AllRanks = [RankCount]Rank{Rank7, Rank8, Rank9, RankT, RankJ, RankQ, RankK, RankA}

func (r Rank) Valid() bool { return r >= Rank7 && r <= RankA }

// Index is the position in the natural order 7,8,9,10,J,Q,K,A (0..7).
func (r Rank) Index() int { return int(r) - 1 }

func (r Rank) String() string {
	switch r {
	case Rank7:
		return "7"
	case Rank8:
		return "8"
	case Rank9:
		return "9"
	case RankT:
		return "T"
	case RankJ:
		return "J"
	case RankQ:
		return "Q"
	case RankK:
		return "K"
	case RankA:
		return "A"
	}
	return "?"
}

func ParseRank(raw string) (Rank, error) {
	switch strings.ToUpper(strings.TrimSpace(raw)) {
	case "7":
		return Rank7, nil
	case "8":
		return Rank8, nil
	case "9":
		return Rank9, nil
	case "T", "10":
		return RankT, nil
	case "J":
		return RankJ, nil
	case "Q":
		return RankQ, nil
	case "K":
		return RankK, nil
	case "A":
		return RankA, nil
	}
	return 0, fmt.Errorf("invalid rank: %q", raw)
}
