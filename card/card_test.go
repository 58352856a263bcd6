package card

import (
	"math/rand"
	"testing"
)

func TestParse(t *testing.T) {
	tests := []struct {
		in   string
		want Card
	}{
		{"Js", CardSpadeJ},
		{"Th", CardHeartT},
		{"10h", CardHeartT},
		{"7c", CardClub7},
		{"ad", CardDiamondA},
		{"QS", CardSpadeQ},
	}
	for _, tt := range tests {
		got, err := Parse(tt.in)
		if err != nil {
			t.Fatalf("Parse(%q) err: %v", tt.in, err)
		}
		if got != tt.want {
			t.Fatalf("Parse(%q) = %v, want %v", tt.in, got, tt.want)
		}
		if back, _ := Parse(got.Code()); back != got {
			t.Fatalf("code %q does not parse back to %v", got.Code(), got)
		}
	}

	for _, bad := range []string{"", "J", "2s", "Jx", "11h"} {
		if _, err := Parse(bad); err == nil {
			t.Fatalf("expected error for %q", bad)
		}
	}
}

func TestCardEncoding(t *testing.T) {
	seen := make(map[Card]bool)
	for _, s := range AllSuits {
		for _, r := range AllRanks {
			c := New(s, r)
			if !c.Valid() {
				t.Fatalf("card %v/%v not valid", s, r)
			}
			if c.Suit() != s || c.Rank() != r {
				t.Fatalf("round trip mismatch for %v: suit=%v rank=%v", c, c.Suit(), c.Rank())
			}
			if seen[c] {
				t.Fatalf("duplicate encoding %v", c)
			}
			seen[c] = true
		}
	}
	if CardInvalid.Valid() {
		t.Fatalf("CardInvalid must not be valid")
	}
	if CardHeartA != New(Heart, RankA) || CardSpade7 != New(Spade, Rank7) {
		t.Fatalf("enum constants out of sync with New")
	}
}

func TestParseSuit(t *testing.T) {
	for _, s := range AllSuits {
		got, err := ParseSuit(s.Name())
		if err != nil || got != s {
			t.Fatalf("ParseSuit(%q) = %v, %v", s.Name(), got, err)
		}
	}
	if _, err := ParseSuit("stars"); err == nil {
		t.Fatalf("expected error for unknown suit")
	}
}

func TestCardList(t *testing.T) {
	var ds CardList
	ds.Init([]Card{CardSpade7, CardSpade8, CardSpade9, CardSpadeT})

	front, ok := ds.PopCards(2)
	if !ok || front[0] != CardSpade7 || front[1] != CardSpade8 {
		t.Fatalf("unexpected PopCards result: %v ok=%v", front, ok)
	}
	if _, ok := ds.PopCards(3); ok {
		t.Fatalf("expected underflow")
	}
	if !ds.Remove(CardSpadeT) || ds.Contains(CardSpadeT) || ds.Count() != 1 {
		t.Fatalf("remove failed: %v", ds)
	}
	if ds.Remove(CardHeartA) {
		t.Fatalf("removed a card that was not present")
	}

	ds.Init([]Card{CardSpade7, CardSpade8, CardSpade9, CardSpadeT, CardSpadeJ})
	ds.Shuffle(rand.New(rand.NewSource(7)))
	if ds.Count() != 5 {
		t.Fatalf("shuffle changed length")
	}
	for _, c := range []Card{CardSpade7, CardSpade8, CardSpade9, CardSpadeT, CardSpadeJ} {
		if !ds.Contains(c) {
			t.Fatalf("shuffle lost %v", c)
		}
	}
}
