package wire

import (
	"belote-lite/belote"
	"belote-lite/card"
)

// Card is the (rank, suit) pair plus its compact code.
func Card(c card.Card) map[string]any {
	if !c.Valid() {
		return nil
	}
	return map[string]any{
		"rank": c.Rank().String(),
		"suit": c.Suit().Name(),
		"code": c.Code(),
	}
}

func Cards(cs []card.Card) []any {
	out := make([]any, 0, len(cs))
	for _, c := range cs {
		out = append(out, Card(c))
	}
	return out
}

func played(pcs []belote.PlayedCard) []any {
	out := make([]any, 0, len(pcs))
	for _, pc := range pcs {
		out = append(out, map[string]any{"seat": pc.Seat.String(), "card": Card(pc.Card)})
	}
	return out
}

func teams(v [belote.TeamCount]int) map[string]any {
	return map[string]any{
		belote.TeamNS.String(): v[belote.TeamNS],
		belote.TeamEW.String(): v[belote.TeamEW],
	}
}

func sequences(seqs []belote.Sequence) []any {
	out := make([]any, 0, len(seqs))
	for _, s := range seqs {
		out = append(out, map[string]any{
			"suit":   s.Suit.Name(),
			"length": s.Length,
			"name":   s.Kind.String(),
			"points": s.Points,
		})
	}
	return out
}

func suitOrNil(ok bool, s card.Suit) any {
	if !ok {
		return nil
	}
	return s.Name()
}

// Payload flattens an engine event into a structpb-compatible map.
func Payload(e belote.Event) map[string]any {
	switch ev := e.(type) {
	case belote.SeatAssigned:
		return map[string]any{
			"conn_id":    ev.ConnID,
			"seat":       ev.Seat.String(),
			"dealer":     ev.Dealer.String(),
			"connected":  ev.Connected,
			"table_full": ev.TableFull,
		}
	case belote.PlayerCountChanged:
		return map[string]any{"connected": ev.Connected}
	case belote.TableCleared:
		return map[string]any{"deal": ev.Deal, "dealer": ev.Dealer.String(), "new_match": ev.NewMatch}
	case belote.HandUpdated:
		return map[string]any{
			"seat":  ev.Seat.String(),
			"cards": Cards(ev.Cards),
			"trump": suitOrNil(ev.HasTrump, ev.Trump),
		}
	case belote.UpCardShown:
		return map[string]any{
			"round":   ev.Round,
			"bidder":  ev.Bidder.String(),
			"dealer":  ev.Dealer.String(),
			"up_card": Card(ev.UpCard),
		}
	case belote.TrumpConfirmed:
		return map[string]any{"suit": ev.Suit.Name(), "by": ev.By.String(), "team": ev.Team.String()}
	case belote.BidRejected:
		return map[string]any{"seat": ev.Seat.String(), "reason": ev.Reason}
	case belote.BidHalted:
		return map[string]any{
			"reason":      ev.Reason.String(),
			"next_dealer": ev.NextDealer.String(),
			"up_card":     Card(ev.UpCard),
		}
	case belote.DeclarationOffered:
		return map[string]any{"seat": ev.Seat.String(), "sequences": sequences(ev.Sequences), "points": ev.Points}
	case belote.SequenceDeclared:
		return map[string]any{
			"seat":         ev.Seat.String(),
			"team":         ev.Team.String(),
			"sequences":    sequences(ev.Sequences),
			"points":       ev.Points,
			"round_scores": teams(ev.RoundScores),
		}
	case belote.TurnChanged:
		return map[string]any{"seat": ev.Seat.String()}
	case belote.BeloteAnnounced:
		return map[string]any{"seat": ev.Seat.String()}
	case belote.RebeloteScored:
		return map[string]any{"seat": ev.Seat.String(), "team": ev.Team.String(), "points": ev.Points}
	case belote.CardAccepted:
		return map[string]any{
			"seat":         ev.Seat.String(),
			"card":         Card(ev.Card),
			"winner":       ev.Winner.String(),
			"winning_card": Card(ev.WinningCard),
			"trump_led":    ev.TrumpLed,
		}
	case belote.PlayRejected:
		return map[string]any{"seat": ev.Seat.String(), "kind": ev.Rejection.String(), "reason": ev.Reason}
	case belote.TrickSettled:
		return map[string]any{
			"winner":       ev.Winner.String(),
			"team":         ev.Team.String(),
			"points":       ev.Points,
			"cards":        played(ev.Cards),
			"trick_number": ev.TrickNumber,
			"round_scores": teams(ev.RoundScores),
		}
	case belote.LastTrickBonus:
		return map[string]any{"seat": ev.Seat.String(), "team": ev.Team.String(), "points": ev.Points}
	case belote.RoundSettled:
		out := map[string]any{
			"deal":         ev.Deal,
			"trump":        ev.Trump.Name(),
			"taker":        ev.Taker.String(),
			"round_scores": teams(ev.RoundScores),
			"match_totals": teams(ev.MatchTotals),
			"tricks_won":   teams(ev.TricksWon),
			"next_dealer":  ev.NextDealer.String(),
			"match_over":   ev.MatchOver,
			"capot":        ev.Capot,
		}
		if ev.Capot {
			out["capot_team"] = ev.CapotTeam.String()
		}
		return out
	}
	return map[string]any{}
}

// SnapshotPayload renders a table snapshot the same way events are rendered.
func SnapshotPayload(snap belote.Snapshot) map[string]any {
	seats := make([]any, 0, belote.SeatCount)
	for _, ss := range snap.Seats {
		entry := map[string]any{
			"seat":       ss.Seat.String(),
			"connected":  ss.Connected,
			"card_count": ss.CardCount,
			"belote":     ss.Belote,
		}
		if ss.Cards != nil {
			entry["cards"] = Cards(ss.Cards)
		}
		seats = append(seats, entry)
	}
	return map[string]any{
		"phase":        snap.Phase.String(),
		"deal":         snap.Deal,
		"dealer":       snap.Dealer.String(),
		"match_totals": teams(snap.MatchTotals),
		"match_over":   snap.MatchOver,
		"threshold":    snap.Threshold,
		"connected":    snap.Connected,
		"bid_round":    snap.BidRound,
		"bidder":       snap.Bidder.String(),
		"up_card":      Card(snap.UpCard),
		"trump":        suitOrNil(snap.HasTrump, snap.Trump),
		"taker":        snap.Taker.String(),
		"turn":         snap.Turn.String(),
		"trick":        played(snap.Trick),
		"trick_winner": snap.TrickWinner.String(),
		"last_trick":   played(snap.LastTrick),
		"trick_count":  snap.TrickCount,
		"tricks_won":   teams(snap.TricksWon),
		"round_scores": teams(snap.RoundScores),
		"seats":        seats,
	}
}
