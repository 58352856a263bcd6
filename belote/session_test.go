package belote

import (
	"errors"
	"fmt"
	"sync"
	"testing"

	"belote-lite/card"
)

func TestJackPassHalt(t *testing.T) {
	s := newFullTable(t, Config{
		InitialDealer: South,
		DeckOverride:  deckWithFront(card.CardSpadeJ),
	})
	out := mustDeal(t, s)
	up, ok := findEvent[UpCardShown](out)
	if !ok || up.Bidder != West || up.Round != 1 || up.UpCard != card.CardSpadeJ {
		t.Fatalf("unexpected up-card event: %+v", up)
	}

	var last []Outbound
	for _, seat := range []Seat{West, North, East, South} {
		var err error
		last, err = s.Bid(seat, Pass())
		if err != nil {
			t.Fatalf("%s pass: %v", seat, err)
		}
	}
	halt, ok := findEvent[BidHalted](last)
	if !ok {
		t.Fatalf("expected BidHalted, got %+v", last)
	}
	if halt.Reason != HaltJackPassed || halt.NextDealer != West {
		t.Fatalf("halt = %+v, want jack-passed with next dealer West", halt)
	}
	if _, ok := findEvent[UpCardShown](last); ok {
		t.Fatalf("round 2 must not open after a jack pass")
	}
	if s.Phase() != PhaseWaiting || s.Dealer() != West {
		t.Fatalf("phase=%s dealer=%s", s.Phase(), s.Dealer())
	}
}

func TestRoundTwoAndNoTrumpHalt(t *testing.T) {
	s := newFullTable(t, Config{
		InitialDealer:         North,
		AllowDealerPassRound2: true,
		DeckOverride:          deckWithFront(card.CardHeart7),
	})
	mustDeal(t, s)
	var out []Outbound
	for _, seat := range []Seat{East, South, West, North} {
		out, _ = s.Bid(seat, Pass())
	}
	up, ok := findEvent[UpCardShown](out)
	if !ok || up.Round != 2 || up.Bidder != East {
		t.Fatalf("expected round 2 opened at East, got %+v", up)
	}

	if _, err := s.Bid(East, Take()); !isRejection(err, InvalidBidTarget) {
		t.Fatalf("take in round 2: %v", err)
	}
	if _, err := s.Bid(East, NameSuit(card.Heart)); !isRejection(err, InvalidBidTarget) {
		t.Fatalf("naming up-card suit: %v", err)
	}
	for _, seat := range []Seat{East, South, West, North} {
		out, _ = s.Bid(seat, Pass())
	}
	halt, ok := findEvent[BidHalted](out)
	if !ok || halt.Reason != HaltNoTrump || halt.NextDealer != East {
		t.Fatalf("halt = %+v", halt)
	}
}

func TestDealerMustCallRoundTwo(t *testing.T) {
	s := newFullTable(t, Config{InitialDealer: North, DeckOverride: deckWithFront(card.CardHeart7)})
	mustDeal(t, s)
	for i := 0; i < 2*SeatCount-1; i++ {
		if _, err := s.Bid(s.Turn(), Pass()); err != nil {
			t.Fatalf("pass %d: %v", i, err)
		}
	}
	if s.Turn() != North {
		t.Fatalf("expected dealer North to bid, got %s", s.Turn())
	}
	_, err := s.Bid(North, Pass())
	if !isRejection(err, InvalidBidTarget) {
		t.Fatalf("dealer pass in round 2: %v", err)
	}
	ev, ok := RejectionEvent(err)
	if !ok || ev.Seat != North {
		t.Fatalf("rejection should be reported to North: %+v", ev)
	}
	out, err := s.Bid(North, NameSuit(card.Spade))
	if err != nil {
		t.Fatalf("dealer names spades: %v", err)
	}
	tc, _ := findEvent[TrumpConfirmed](out)
	if tc.Suit != card.Spade || tc.By != North || tc.Team != TeamNS {
		t.Fatalf("trump = %+v", tc)
	}
}

func TestTakerHoldsUpCard(t *testing.T) {
	s := newFullTable(t, Config{InitialDealer: West, DeckOverride: deckWithFront(card.CardHeartT)})
	mustDeal(t, s)
	assertPartition(t, s, nil)

	out, err := s.Bid(North, Take())
	if err != nil {
		t.Fatalf("North take: %v", err)
	}
	assertPartition(t, s, nil)

	hand := s.Hand(North)
	if len(hand) != FullHandSize {
		t.Fatalf("North holds %d cards", len(hand))
	}
	found := false
	for _, c := range hand {
		if c == card.CardHeartT {
			found = true
		}
	}
	if !found {
		t.Fatalf("North's hand %v lacks the up-card", hand)
	}
	if hand[0].Suit() != card.Heart {
		t.Fatalf("hand not sorted trump first: %v", hand)
	}
	for _, st := range Seats {
		if n := len(s.Hand(st)); n != FullHandSize {
			t.Fatalf("%s holds %d cards", st, n)
		}
	}
	if stock, up := s.Stock(); len(stock) != 0 || up != card.CardInvalid {
		t.Fatalf("stock %v up %v should be consumed", stock, up)
	}
	if tc, _ := findEvent[TurnChanged](out); tc.Seat != North {
		t.Fatalf("first lead should be North, got %s", tc.Seat)
	}
	if n := countEvents[HandUpdated](out); n != SeatCount {
		t.Fatalf("expected %d hand updates, got %d", SeatCount, n)
	}
}

// allTrumpDeck gives the first seat after dealer all eight hearts; hearts is
// turned up so that seat can take in round 1.
func allTrumpDeck() []card.Card {
	return stackDeck("Ah",
		[SeatCount][]string{
			{"Jh", "9h", "Th", "Kh", "Qh"},
			{"7c", "8c", "9c", "Tc", "Jc"},
			{"7s", "8s", "9s", "Ts", "Js"},
			{"7d", "8d", "9d", "Td", "Jd"},
		},
		[]string{"8h", "7h", "Qc", "Kc", "Ac", "Qs", "Ks", "As", "Qd", "Kd", "Ad"},
	)
}

func TestCapotScoresFlat(t *testing.T) {
	s := newFullTable(t, Config{InitialDealer: West, DeckOverride: allTrumpDeck()})
	mustDeal(t, s)
	if _, err := s.Bid(North, Take()); err != nil {
		t.Fatalf("take: %v", err)
	}
	out := autoplay(t, s)

	if n := countEvents[TrickSettled](out); n != TricksPerRound {
		t.Fatalf("settled %d tricks", n)
	}
	rs, ok := findEvent[RoundSettled](out)
	if !ok {
		t.Fatalf("no RoundSettled")
	}
	if !rs.Capot || rs.CapotTeam != TeamNS {
		t.Fatalf("expected NS capot: %+v", rs)
	}
	if rs.RoundScores != [TeamCount]int{CapotPoints, 0} {
		t.Fatalf("round scores %v, want 250/0", rs.RoundScores)
	}
	if rs.MatchTotals != [TeamCount]int{CapotPoints, 0} || rs.NextDealer != North {
		t.Fatalf("settlement %+v", rs)
	}
	if _, ok := findEvent[RebeloteScored](out); !ok {
		t.Fatalf("belote should still be announced even though capot discards it")
	}
}

func TestBeloteRebelote(t *testing.T) {
	s := newFullTable(t, Config{InitialDealer: North, DeckOverride: allTrumpDeck()})
	mustDeal(t, s)
	if _, err := s.Bid(East, Take()); err != nil {
		t.Fatalf("take: %v", err)
	}

	out, err := s.PlayCard(East, card.CardHeartK)
	if err != nil {
		t.Fatalf("East plays Kh: %v", err)
	}
	if _, ok := findEvent[BeloteAnnounced](out); !ok {
		t.Fatalf("expected belote flag")
	}
	if _, ok := findEvent[RebeloteScored](out); ok {
		t.Fatalf("no points on the first card")
	}
	if snap := s.Snapshot(); snap.RoundScores != [TeamCount]int{} || !snap.Seats[East].Belote {
		t.Fatalf("belote must not score yet: %+v", snap.RoundScores)
	}
	for _, seat := range []Seat{South, West, North} {
		if _, err := s.PlayCard(seat, s.LegalCards(seat)[0]); err != nil {
			t.Fatalf("%s: %v", seat, err)
		}
	}
	before := s.Snapshot().RoundScores[TeamEW]

	out, err = s.PlayCard(East, card.CardHeartQ)
	if err != nil {
		t.Fatalf("East plays Qh: %v", err)
	}
	rb, ok := findEvent[RebeloteScored](out)
	if !ok || rb.Team != TeamEW || rb.Points != BelotePoints {
		t.Fatalf("rebelote = %+v", rb)
	}
	if got := s.Snapshot().RoundScores[TeamEW]; got != before+BelotePoints {
		t.Fatalf("EW round score %d, want %d", got, before+BelotePoints)
	}
}

func TestRoundPointSum(t *testing.T) {
	for seed := int64(1); seed <= 20; seed++ {
		s := newFullTable(t, Config{Seed: seed})
		mustDeal(t, s)
		out := autoplay(t, s)
		rs, ok := findEvent[RoundSettled](out)
		if !ok {
			t.Fatalf("seed %d: no settlement", seed)
		}
		sum := rs.RoundScores[TeamNS] + rs.RoundScores[TeamEW]
		if rs.Capot {
			if sum != CapotPoints {
				t.Fatalf("seed %d: capot sum %d", seed, sum)
			}
			continue
		}
		want := TrickPointPool + LastTrickPoints + BelotePoints*countEvents[RebeloteScored](out)
		if sum != want {
			t.Fatalf("seed %d: round sum %d, want %d", seed, sum, want)
		}
		ts, _ := lastEvent[TrickSettled](out)
		if ts.TrickNumber != TricksPerRound || ts.RoundScores != rs.RoundScores {
			t.Fatalf("seed %d: last trick scores %v, settled %v", seed, ts.RoundScores, rs.RoundScores)
		}
	}
}

func TestRoundPointSumWithDeclarations(t *testing.T) {
	declaredRounds := 0
	for seed := int64(1); seed <= 200; seed++ {
		s := newFullTable(t, Config{Seed: seed})
		mustDeal(t, s)
		out, err := s.Bid(s.Turn(), Take())
		if err != nil {
			t.Fatalf("seed %d: take: %v", seed, err)
		}
		declared := declareOffered(t, s, out)
		if declared > 0 {
			declaredRounds++
		}
		out = append(out, autoplay(t, s)...)
		rs, ok := findEvent[RoundSettled](out)
		if !ok {
			t.Fatalf("seed %d: no settlement", seed)
		}
		sum := rs.RoundScores[TeamNS] + rs.RoundScores[TeamEW]
		if rs.Capot {
			if sum != CapotPoints {
				t.Fatalf("seed %d: capot sum %d", seed, sum)
			}
			continue
		}
		want := TrickPointPool + LastTrickPoints + declared + BelotePoints*countEvents[RebeloteScored](out)
		if sum != want {
			t.Fatalf("seed %d: round sum %d, want %d (declared %d)", seed, sum, want, declared)
		}
	}
	if declaredRounds == 0 {
		t.Fatalf("no seed produced a declaration")
	}
}

func TestCapotDiscardsDeclarations(t *testing.T) {
	s := newFullTable(t, Config{InitialDealer: West, DeckOverride: allTrumpDeck()})
	mustDeal(t, s)
	out, err := s.Bid(North, Take())
	if err != nil {
		t.Fatalf("take: %v", err)
	}
	if declared := declareOffered(t, s, out); declared < 100 {
		t.Fatalf("declared %d, want at least North's hundred", declared)
	}
	if snap := s.Snapshot(); snap.RoundScores[TeamNS] < 100 {
		t.Fatalf("declaration not counted before play: %v", snap.RoundScores)
	}

	rs, ok := findEvent[RoundSettled](autoplay(t, s))
	if !ok {
		t.Fatalf("no RoundSettled")
	}
	if !rs.Capot || rs.RoundScores != [TeamCount]int{CapotPoints, 0} {
		t.Fatalf("capot with declarations settled as %+v", rs)
	}
	if rs.MatchTotals != [TeamCount]int{CapotPoints, 0} {
		t.Fatalf("match totals %v", rs.MatchTotals)
	}
}

func TestDeclareSequence(t *testing.T) {
	s := newFullTable(t, Config{InitialDealer: West, DeckOverride: allTrumpDeck()})
	mustDeal(t, s)
	if _, err := s.DeclareSequence(North); !errors.Is(err, ErrNoDeclaration) {
		t.Fatalf("declare during bidding: %v", err)
	}
	out, _ := s.Bid(North, Take())
	offer, ok := findEvent[DeclarationOffered](out)
	if !ok || offer.Seat != North || offer.Points != 100 {
		t.Fatalf("offer = %+v", offer)
	}

	out, err := s.DeclareSequence(North)
	if err != nil {
		t.Fatalf("declare: %v", err)
	}
	sd, _ := findEvent[SequenceDeclared](out)
	if sd.Points != 100 || sd.RoundScores[TeamNS] != 100 {
		t.Fatalf("declared = %+v", sd)
	}
	if _, err := s.DeclareSequence(North); !errors.Is(err, ErrNoDeclaration) {
		t.Fatalf("second declaration: %v", err)
	}
}

func TestRejectionsLeaveStateUntouched(t *testing.T) {
	s := newFullTable(t, Config{InitialDealer: North, Seed: 7})

	if _, err := s.RequestDeal(East); !errors.Is(err, ErrOutOfTurn) {
		t.Fatalf("non-dealer deal: %v", err)
	}
	mustDeal(t, s)
	if _, err := s.RequestDeal(North); !errors.Is(err, ErrOutOfTurn) {
		t.Fatalf("deal during round: %v", err)
	}

	before := s.Snapshot()
	if _, err := s.Bid(South, Take()); !errors.Is(err, ErrOutOfTurn) {
		t.Fatalf("out-of-turn bid: %v", err)
	}
	if _, err := s.Bid(East, NameSuit(card.Club)); !isRejection(err, InvalidBidTarget) {
		t.Fatalf("naming a suit in round 1: %v", err)
	}
	_, err := s.PlayCard(East, s.Hand(East)[0])
	if !isRejection(err, PrematurePlay) {
		t.Fatalf("play during bidding: %v", err)
	}
	if ev, ok := RejectionEvent(err); !ok || ev.Seat != East {
		t.Fatalf("premature play should be reported to East")
	}
	after := s.Snapshot()
	if after.Bidder != before.Bidder || after.BidRound != before.BidRound || after.Phase != before.Phase {
		t.Fatalf("state changed: %+v -> %+v", before, after)
	}

	if _, err := s.Bid(East, Take()); err != nil {
		t.Fatalf("take: %v", err)
	}
	if _, err := s.PlayCard(South, s.Hand(South)[0]); !errors.Is(err, ErrOutOfTurn) {
		t.Fatalf("out-of-turn play: %v", err)
	}
	if _, ok := RejectionEvent(reject(OutOfTurn, South, "x")); ok {
		t.Fatalf("out-of-turn must not produce a notice")
	}
}

func TestNotEnoughPlayers(t *testing.T) {
	s, _ := NewSession(Config{})
	s.Join("a")
	if _, err := s.RequestDeal(North); !errors.Is(err, ErrNotEnoughPlayers) {
		t.Fatalf("err = %v", err)
	}
}

func TestReplayDeterminism(t *testing.T) {
	run := func() [TeamCount]int {
		s := newFullTable(t, Config{Seed: 1234})
		for i := 0; i < 3; i++ {
			mustDeal(t, s)
			autoplay(t, s)
		}
		return s.Totals()
	}
	a, b := run(), run()
	if a != b {
		t.Fatalf("totals differ: %v vs %v", a, b)
	}
}

func TestMatchOverAndReset(t *testing.T) {
	s := newFullTable(t, Config{InitialDealer: West, WinningThreshold: 200, DeckOverride: allTrumpDeck()})
	mustDeal(t, s)
	s.Bid(North, Take())
	rs, _ := findEvent[RoundSettled](autoplay(t, s))
	if !rs.MatchOver {
		t.Fatalf("250 should end a 200-point match")
	}

	out := mustDeal(t, s)
	tc, _ := findEvent[TableCleared](out)
	if !tc.NewMatch || s.Totals() != [TeamCount]int{} {
		t.Fatalf("new deal after match over should reset totals: %+v %v", tc, s.Totals())
	}
}

func TestJoinObserverAndRejoin(t *testing.T) {
	s := newFullTable(t, Config{Seed: 3})
	out, err := s.Join("watcher")
	if err != nil {
		t.Fatalf("observer join: %v", err)
	}
	sa, _ := findEvent[SeatAssigned](out)
	if sa.Seat != Observer || !sa.TableFull || sa.Connected != 5 {
		t.Fatalf("seat assigned = %+v", sa)
	}

	mustDeal(t, s)
	if _, err := s.Leave("conn-2"); err != nil {
		t.Fatalf("leave: %v", err)
	}
	out, _ = s.Join("late")
	if sa, _ := findEvent[SeatAssigned](out); sa.Seat != South {
		t.Fatalf("late joiner should take South, got %s", sa.Seat)
	}
	hu, ok := findEvent[HandUpdated](out)
	if !ok || hu.Seat != South || len(hu.Cards) != InitialHandSize {
		t.Fatalf("late joiner should receive South's hand: %+v", hu)
	}

	strict, _ := NewSession(Config{NoObservers: true})
	for i := 0; i < SeatCount; i++ {
		strict.Join(fmt.Sprintf("c%d", i))
	}
	if _, err := strict.Join("extra"); !isRejection(err, SeatUnavailable) {
		t.Fatalf("fifth join: %v", err)
	}
}

func TestConcurrentSeatClaims(t *testing.T) {
	st := NewSeating(false)
	var wg sync.WaitGroup
	results := make([]Seat, 32)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], _ = st.Claim(fmt.Sprintf("c%d", i))
		}(i)
	}
	wg.Wait()

	taken := make(map[Seat]int)
	for _, s := range results {
		taken[s]++
	}
	for _, s := range Seats {
		if taken[s] != 1 {
			t.Fatalf("seat %s claimed %d times", s, taken[s])
		}
	}
	if taken[Observer] != len(results)-SeatCount {
		t.Fatalf("observers = %d", taken[Observer])
	}
}

func isRejection(err error, kind RejectionKind) bool {
	r, ok := AsRejection(err)
	return ok && r.Kind == kind
}
