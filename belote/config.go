package belote

import (
	"fmt"

	"belote-lite/card"
)

type Config struct {
	// Match ends once a team total reaches this (0 => DefaultWinningThreshold).
	WinningThreshold int

	// Dealer of the first deal.
	InitialDealer Seat

	// When false (default) the dealer may not pass in bidding round 2.
	AllowDealerPassRound2 bool

	// Refuse a fifth connection instead of seating it as an observer.
	NoObservers bool

	// RNG seed (0 => time-based)
	Seed int64

	// Optional fixed deck used for every deal, front card first.
	DeckOverride []card.Card
}

func (c Config) validate() error {
	if c.WinningThreshold < 0 {
		return fmt.Errorf("WinningThreshold must be >= 0")
	}
	if !c.InitialDealer.Valid() {
		return fmt.Errorf("invalid initial dealer %d", c.InitialDealer)
	}
	if len(c.DeckOverride) == 0 {
		return nil
	}
	if len(c.DeckOverride) != len(BeloteCards) {
		return fmt.Errorf("deck override must hold %d cards, got %d", len(BeloteCards), len(c.DeckOverride))
	}
	seen := make(map[card.Card]struct{}, len(c.DeckOverride))
	for _, cc := range c.DeckOverride {
		if !cc.Valid() {
			return fmt.Errorf("deck override contains invalid card 0x%02x", byte(cc))
		}
		if _, dup := seen[cc]; dup {
			return fmt.Errorf("deck override contains duplicate card %s", cc.Code())
		}
		seen[cc] = struct{}{}
	}
	return nil
}

func (c Config) threshold() int {
	if c.WinningThreshold == 0 {
		return DefaultWinningThreshold
	}
	return c.WinningThreshold
}
