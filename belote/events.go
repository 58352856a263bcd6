package belote

import "belote-lite/card"

type EventKind string

const (
	KindSeatAssigned       EventKind = "seat_assigned"
	KindPlayerCountChanged EventKind = "player_count_changed"
	KindTableCleared       EventKind = "table_cleared"
	KindHandUpdated        EventKind = "hand_updated"
	KindUpCardShown        EventKind = "up_card_shown"
	KindTrumpConfirmed     EventKind = "trump_confirmed"
	KindBidRejected        EventKind = "bid_rejected"
	KindBidHalted          EventKind = "bid_halted"
	KindDeclarationOffered EventKind = "declaration_offered"
	KindSequenceDeclared   EventKind = "sequence_declared"
	KindTurnChanged        EventKind = "turn_changed"
	KindBeloteAnnounced    EventKind = "belote_announced"
	KindRebeloteScored     EventKind = "rebelote_scored"
	KindCardAccepted       EventKind = "card_accepted"
	KindPlayRejected       EventKind = "play_rejected"
	KindTrickSettled       EventKind = "trick_settled"
	KindLastTrickBonus     EventKind = "last_trick_bonus"
	KindRoundSettled       EventKind = "round_settled"
)

// Event is a state change emitted by the session.
type Event interface {
	Kind() EventKind
}

type SeatAssigned struct {
	ConnID    string
	Seat      Seat
	Dealer    Seat
	Connected int
	TableFull bool // seated as observer because all four seats are taken
}

type PlayerCountChanged struct {
	Connected int
}

type TableCleared struct {
	Deal     uint32
	Dealer   Seat
	NewMatch bool
}

type HandUpdated struct {
	Seat     Seat
	Cards    []card.Card
	HasTrump bool
	Trump    card.Suit
}

type UpCardShown struct {
	Round  int
	Bidder Seat
	Dealer Seat
	UpCard card.Card
}

type TrumpConfirmed struct {
	Suit card.Suit
	By   Seat
	Team Team
}

type BidRejected struct {
	Seat   Seat
	Reason string
}

type HaltReason byte

const (
	HaltJackPassed HaltReason = iota + 1
	HaltNoTrump
)

func (r HaltReason) String() string {
	switch r {
	case HaltJackPassed:
		return "Jack passed 4 times. New deal required."
	case HaltNoTrump:
		return "No trump chosen. New deal."
	}
	return "halted"
}

type BidHalted struct {
	Reason     HaltReason
	NextDealer Seat
	UpCard     card.Card
}

type DeclarationOffered struct {
	Seat      Seat
	Sequences []Sequence
	Points    int
}

type SequenceDeclared struct {
	Seat        Seat
	Team        Team
	Sequences   []Sequence
	Points      int
	RoundScores [TeamCount]int
}

type TurnChanged struct {
	Seat Seat
}

type BeloteAnnounced struct {
	Seat Seat
}

type RebeloteScored struct {
	Seat   Seat
	Team   Team
	Points int
}

type CardAccepted struct {
	Seat        Seat
	Card        card.Card
	Winner      Seat
	WinningCard card.Card
	TrumpLed    bool
}

type PlayRejected struct {
	Seat      Seat
	Rejection RejectionKind
	Reason    string
}

type TrickSettled struct {
	Winner      Seat
	Team        Team
	Points      int
	Cards       []PlayedCard
	TrickNumber int
	RoundScores [TeamCount]int
}

type LastTrickBonus struct {
	Seat   Seat
	Team   Team
	Points int
}

type RoundSettled struct {
	Deal        uint32
	Trump       card.Suit
	Taker       Seat
	RoundScores [TeamCount]int
	MatchTotals [TeamCount]int
	TricksWon   [TeamCount]int
	NextDealer  Seat
	MatchOver   bool
	Capot       bool
	CapotTeam   Team
}

func (SeatAssigned) Kind() EventKind       { return KindSeatAssigned }
func (PlayerCountChanged) Kind() EventKind { return KindPlayerCountChanged }
func (TableCleared) Kind() EventKind       { return KindTableCleared }
func (HandUpdated) Kind() EventKind        { return KindHandUpdated }
func (UpCardShown) Kind() EventKind        { return KindUpCardShown }
func (TrumpConfirmed) Kind() EventKind     { return KindTrumpConfirmed }
func (BidRejected) Kind() EventKind        { return KindBidRejected }
func (BidHalted) Kind() EventKind          { return KindBidHalted }
func (DeclarationOffered) Kind() EventKind { return KindDeclarationOffered }
func (SequenceDeclared) Kind() EventKind   { return KindSequenceDeclared }
func (TurnChanged) Kind() EventKind        { return KindTurnChanged }
func (BeloteAnnounced) Kind() EventKind    { return KindBeloteAnnounced }
func (RebeloteScored) Kind() EventKind     { return KindRebeloteScored }
func (CardAccepted) Kind() EventKind       { return KindCardAccepted }
func (PlayRejected) Kind() EventKind       { return KindPlayRejected }
func (TrickSettled) Kind() EventKind       { return KindTrickSettled }
func (LastTrickBonus) Kind() EventKind     { return KindLastTrickBonus }
func (RoundSettled) Kind() EventKind       { return KindRoundSettled }

// Audience says who an Outbound is for; delivery is up to the transport.
type Audience byte

const (
	AudienceAll Audience = iota
	AudienceSeat
	AudienceConn
)

type Outbound struct {
	Audience Audience
	Seat     Seat
	ConnID   string
	Event    Event
}

func toAll(e Event) Outbound { return Outbound{Audience: AudienceAll, Seat: NoSeat, Event: e} }

func toSeat(s Seat, e Event) Outbound { return Outbound{Audience: AudienceSeat, Seat: s, Event: e} }

func toConn(connID string, e Event) Outbound {
	return Outbound{Audience: AudienceConn, Seat: NoSeat, ConnID: connID, Event: e}
}

// RejectionEvent turns a rejection into the notice for the acting seat.
// Out-of-turn actions are dropped silently, so ok is false for them.
func RejectionEvent(err error) (out Outbound, ok bool) {
	r, isRejection := AsRejection(err)
	if !isRejection || !r.Seat.Valid() {
		return Outbound{}, false
	}
	switch r.Kind {
	case InvalidBidTarget:
		return toSeat(r.Seat, BidRejected{Seat: r.Seat, Reason: r.Reason}), true
	case IllegalPlay, PrematurePlay:
		return toSeat(r.Seat, PlayRejected{Seat: r.Seat, Rejection: r.Kind, Reason: r.Reason}), true
	}
	return Outbound{}, false
}
