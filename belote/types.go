package belote

import (
	"fmt"
	"strings"

	"belote-lite/card"
)

// Seat is one of the four fixed positions, clockwise from North.
type Seat byte

const (
	North Seat = iota
	East
	South
	West

	Observer Seat = 0xFE
	NoSeat   Seat = 0xFF
)

const SeatCount = 4

var Seats = [SeatCount]Seat{North, East, South, West}

func (s Seat) Valid() bool { return s < SeatCount }

func (s Seat) String() string {
	switch s {
	case North:
		return "North"
	case East:
		return "East"
	case South:
		return "South"
	case West:
		return "West"
	case Observer:
		return "Observer"
	}
	return "None"
}

func (s Seat) Next() Seat { return s.Offset(1) }

func (s Seat) Offset(n int) Seat {
	return Seat((int(s) + n%SeatCount + SeatCount) % SeatCount)
}

func (s Seat) Partner() Seat { return s.Offset(2) }

func (s Seat) Team() Team {
	if s == North || s == South {
		return TeamNS
	}
	return TeamEW
}

func ParseSeat(raw string) (Seat, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "north", "n":
		return North, nil
	case "east", "e":
		return East, nil
	case "south", "s":
		return South, nil
	case "west", "w":
		return West, nil
	case "observer":
		return Observer, nil
	}
	return NoSeat, fmt.Errorf("invalid seat: %q", raw)
}

// Team pairs partners sitting opposite each other.
type Team byte

const (
	TeamNS Team = iota
	TeamEW
)

const TeamCount = 2

func (t Team) String() string {
	if t == TeamNS {
		return "NS"
	}
	return "EW"
}

func (t Team) Other() Team { return 1 - t }

// Phase 游戏阶段
type Phase byte

const (
	PhaseWaiting Phase = 0 // no round in progress; the dealer may deal
	PhaseBidding Phase = 1
	PhasePlaying Phase = 2
)

var PhaseDictionary = map[Phase]string{
	PhaseWaiting: "waiting",
	PhaseBidding: "bidding",
	PhasePlaying: "playing",
}

func (p Phase) String() string {
	if name, ok := PhaseDictionary[p]; ok {
		return name
	}
	return "unknown"
}

// BidKind 叫牌类型
type BidKind byte

const (
	BidPass BidKind = iota + 1
	BidTake         // round 1: accept the up-card suit
	BidName         // round 2: name another suit
)

// Bid is a closed bidding decision. Suit is only meaningful for BidName.
type Bid struct {
	Kind BidKind
	Suit card.Suit
}

func Pass() Bid                 { return Bid{Kind: BidPass} }
func Take() Bid                 { return Bid{Kind: BidTake} }
func NameSuit(s card.Suit) Bid { return Bid{Kind: BidName, Suit: s} }

func (b Bid) String() string {
	switch b.Kind {
	case BidPass:
		return "pass"
	case BidTake:
		return "take"
	case BidName:
		return b.Suit.Name()
	}
	return "invalid"
}

// ParseBid accepts "take", "pass" or a suit name.
func ParseBid(raw string) (Bid, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "take":
		return Take(), nil
	case "pass":
		return Pass(), nil
	}
	s, err := card.ParseSuit(raw)
	if err != nil {
		return Bid{}, fmt.Errorf("invalid bid: %q", raw)
	}
	return NameSuit(s), nil
}

const (
	DefaultWinningThreshold = 1001

	InitialHandSize = 5
	FullHandSize    = 8
	TricksPerRound  = 8
	StockSize       = 32 - 1 - SeatCount*InitialHandSize

	TrickPointPool  = 152
	LastTrickPoints = 10
	CapotPoints     = 250
	BelotePoints    = 20
)

var BeloteCards = []card.Card{
	card.CardSpade7, card.CardSpade8, card.CardSpade9, card.CardSpadeT,
	card.CardSpadeJ, card.CardSpadeQ, card.CardSpadeK, card.CardSpadeA,
	card.CardClub7, card.CardClub8, card.CardClub9, card.CardClubT,
	card.CardClubJ, card.CardClubQ, card.CardClubK, card.CardClubA,
	card.CardDiamond7, card.CardDiamond8, card.CardDiamond9, card.CardDiamondT,
	card.CardDiamondJ, card.CardDiamondQ, card.CardDiamondK, card.CardDiamondA,
	card.CardHeart7, card.CardHeart8, card.CardHeart9, card.CardHeartT,
	card.CardHeartJ, card.CardHeartQ, card.CardHeartK, card.CardHeartA,
}
