package belote

import (
	"math/rand"
	"sync"
	"time"

	"belote-lite/card"
)

// Session is one table's game. Every action runs to completion under the
// session lock and returns the events it produced.
type Session struct {
	cfg Config
	rng *rand.Rand

	mu sync.Mutex

	seating *Seating

	phase     Phase
	deals     uint32
	dealer    Seat
	totals    [TeamCount]int
	matchOver bool

	round     *roundState
	lastTrick []PlayedCard
}

func NewSession(cfg Config) (*Session, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &Session{
		cfg:     cfg,
		rng:     rand.New(rand.NewSource(seed)),
		seating: NewSeating(cfg.NoObservers),
		phase:   PhaseWaiting,
		dealer:  cfg.InitialDealer,
	}, nil
}

// Join seats connID (or makes it an observer) and reports the assignment.
func (s *Session) Join(connID string) ([]Outbound, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	seat, err := s.seating.Claim(connID)
	if err != nil {
		return nil, err
	}
	connected := s.seating.Connected()
	out := []Outbound{
		toConn(connID, SeatAssigned{
			ConnID:    connID,
			Seat:      seat,
			Dealer:    s.dealer,
			Connected: connected,
			TableFull: seat == Observer,
		}),
		toAll(PlayerCountChanged{Connected: connected}),
	}
	// A seat freed mid-round keeps its cards for whoever sits down next.
	if seat.Valid() && s.round != nil {
		out = append(out, toSeat(seat, s.handUpdatedLocked(seat)))
	}
	return out, nil
}

func (s *Session) Leave(connID string) ([]Outbound, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.seating.Release(connID); !ok {
		return nil, ErrUnknownConn
	}
	return []Outbound{toAll(PlayerCountChanged{Connected: s.seating.Connected()})}, nil
}

// SeatOf resolves a connection to its seat (Observer for non-seated viewers).
func (s *Session) SeatOf(connID string) (Seat, bool) {
	return s.seating.SeatOf(connID)
}

func (s *Session) ConnAt(seat Seat) string {
	return s.seating.ConnAt(seat)
}

func (s *Session) Seated() int { return s.seating.Seated() }

// RequestDeal starts a new round. Only the dealer may deal and only when no
// round is running. A match that already crossed the threshold restarts at 0.
func (s *Session) RequestDeal(seat Seat) ([]Outbound, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if seat != s.dealer {
		return nil, reject(OutOfTurn, seat, "only the dealer (%s) may deal", s.dealer)
	}
	if s.phase != PhaseWaiting {
		return nil, reject(OutOfTurn, seat, "round already in progress")
	}
	if !s.seating.Full() {
		return nil, ErrNotEnoughPlayers
	}

	newMatch := false
	if s.crossedThresholdLocked() {
		s.totals = [TeamCount]int{}
		s.matchOver = false
		newMatch = true
	}

	r, err := dealInitial(s.newShuffledDeck(), s.dealer)
	if err != nil {
		return nil, err
	}
	s.deals++
	r.deal = s.deals
	s.round = r
	s.lastTrick = nil
	s.phase = PhaseBidding

	out := []Outbound{toAll(TableCleared{Deal: r.deal, Dealer: s.dealer, NewMatch: newMatch})}
	for _, st := range Seats {
		out = append(out, toSeat(st, s.handUpdatedLocked(st)))
	}
	out = append(out, toAll(s.upCardShownLocked()))
	return out, nil
}

// LegalCards lists the cards seat may play right now; empty when it is not
// that seat's turn.
func (s *Session) LegalCards(seat Seat) []card.Card {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.phase != PhasePlaying || s.round == nil || seat != s.round.turn {
		return nil
	}
	r := s.round
	return legalCards(&r.hands[seat], r.trick, r.trump, seat)
}

func (s *Session) crossedThresholdLocked() bool {
	for _, t := range s.totals {
		if t >= s.cfg.threshold() {
			return true
		}
	}
	return false
}

func (s *Session) handUpdatedLocked(seat Seat) HandUpdated {
	r := s.round
	return HandUpdated{
		Seat:     seat,
		Cards:    r.hands[seat].Cards(),
		HasTrump: r.hasTrump,
		Trump:    r.trump,
	}
}

// abortRoundLocked drops the round without scoring and passes the deal on.
func (s *Session) abortRoundLocked() {
	s.round = nil
	s.phase = PhaseWaiting
	s.dealer = s.dealer.Next()
}
