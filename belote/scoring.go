package belote

// settleTrickLocked scores a complete trick. The winner leads next; after
// the eighth trick the round is settled.
func (s *Session) settleTrickLocked() []Outbound {
	r := s.round
	winner, _ := WinningCard(r.trick, r.trump)
	team := winner.Seat.Team()
	pts := trickPoints(r.trick, r.trump)

	r.scores[team] += pts
	r.tricksWon[team]++
	r.trickCount++
	last := r.trickCount == TricksPerRound
	if last {
		// 末墩 +10, included in the last TrickSettled
		r.scores[team] += LastTrickPoints
	}

	played := append([]PlayedCard(nil), r.trick...)
	s.lastTrick = played
	r.trick = nil

	out := []Outbound{toAll(TrickSettled{
		Winner:      winner.Seat,
		Team:        team,
		Points:      pts,
		Cards:       played,
		TrickNumber: r.trickCount,
		RoundScores: r.scores,
	})}

	if !last {
		r.turn = winner.Seat
		return append(out, toAll(TurnChanged{Seat: r.turn}))
	}

	out = append(out, toAll(LastTrickBonus{Seat: winner.Seat, Team: team, Points: LastTrickPoints}))
	return append(out, s.settleRoundLocked())
}

// settleRoundLocked folds the round into the match totals. Capot replaces
// everything the round accumulated with 250/0.
func (s *Session) settleRoundLocked() Outbound {
	r := s.round
	settled := RoundSettled{
		Deal:      r.deal,
		Trump:     r.trump,
		Taker:     r.taker,
		TricksWon: r.tricksWon,
	}
	for _, t := range []Team{TeamNS, TeamEW} {
		if r.tricksWon[t] == TricksPerRound {
			r.scores[t] = CapotPoints
			r.scores[t.Other()] = 0
			settled.Capot = true
			settled.CapotTeam = t
		}
	}
	for t := range s.totals {
		s.totals[t] += r.scores[t]
	}
	s.dealer = s.dealer.Next()
	s.matchOver = s.crossedThresholdLocked()
	s.phase = PhaseWaiting
	s.round = nil

	settled.RoundScores = r.scores
	settled.MatchTotals = s.totals
	settled.NextDealer = s.dealer
	settled.MatchOver = s.matchOver
	return toAll(settled)
}
