package card

import (
	"fmt"
	"strings"
)

// Suit 花色
type Suit byte

const (
	Spade   Suit = iota // ♠️
	Club                // ♣️
	Diamond             // ♦️
	Heart               // ♥️
)

const SuitCount = 4

var AllSuits = [SuitCount]Suit{Spade, Club, Diamond, Heart}

var suitNames = [SuitCount]string{"spades", "clubs", "diamonds", "hearts"}

func (s Suit) String() string {
	switch s {
	case Diamond:
		return "♦️"
	case Club:
		return "♣️"
	case Heart:
		return "♥️"
	case Spade:
		return "♠️"
	}
	return "?"
}

// Name is the wire form ("spades", "clubs", "diamonds", "hearts").
func (s Suit) Name() string {
	if !s.Valid() {
		return "invalid"
	}
	return suitNames[s]
}

func (s Suit) Valid() bool { return s < SuitCount }

func (s Suit) code() byte {
	return suitNames[s][0]
}

// ParseSuit accepts the wire name or its single-letter code.
func ParseSuit(raw string) (Suit, error) {
	v := strings.ToLower(strings.TrimSpace(raw))
	for _, s := range AllSuits {
		if v == suitNames[s] || (len(v) == 1 && v[0] == s.code()) {
			return s, nil
		}
	}
	return 0, fmt.Errorf("invalid suit: %q", raw)
}
