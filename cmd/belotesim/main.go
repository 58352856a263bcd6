package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"os"

	"belote-lite/belote"
	"belote-lite/belote/npc"

	"github.com/pterm/pterm"
)

func main() {
	seed := flag.Int64("seed", 1, "session RNG seed")
	maxDeals := flag.Int("deals", 200, "stop after this many deals even if the match is not over")
	threshold := flag.Int("threshold", belote.DefaultWinningThreshold, "match winning threshold")
	personas := flag.String("personas", "", "optional persona JSON file")
	verbose := flag.Bool("v", false, "print every trick")
	flag.Parse()

	if !*verbose {
		log.SetOutput(io.Discard)
	}

	registry := npc.NewRegistry()
	if *personas != "" {
		if err := registry.LoadFromFile(*personas); err != nil {
			pterm.Error.Printfln("load personas: %v", err)
			os.Exit(1)
		}
	}

	res, err := simulate(*seed, *threshold, *maxDeals, registry, *verbose)
	if err != nil {
		pterm.Error.Printfln("simulation failed: %v", err)
		os.Exit(1)
	}
	render(res)
}

type dealRow struct {
	deal    uint32
	dealer  belote.Seat
	outcome string
	scores  [belote.TeamCount]int
	totals  [belote.TeamCount]int
}

type result struct {
	rows      []dealRow
	players   [belote.SeatCount]string
	totals    [belote.TeamCount]int
	matchOver bool
}

func simulate(seed int64, threshold, maxDeals int, registry *npc.PersonaRegistry, verbose bool) (*result, error) {
	s, err := belote.NewSession(belote.Config{Seed: seed, WinningThreshold: threshold})
	if err != nil {
		return nil, err
	}
	m := npc.NewManager(registry, seed)
	res := &result{}
	for range belote.Seats {
		inst, _, err := m.SpawnRandom(s)
		if err != nil {
			return nil, err
		}
		res.players[inst.Seat] = inst.Persona.Name
	}

	for d := 0; d < maxDeals; d++ {
		dealer := s.Dealer()
		out, err := s.RequestDeal(dealer)
		if err != nil {
			return nil, fmt.Errorf("deal %d: %w", d+1, err)
		}
		deal := uint32(0)
		if tc, ok := first[belote.TableCleared](out); ok {
			deal = tc.Deal
		}

		row := dealRow{deal: deal, dealer: dealer}
		for s.Phase() != belote.PhaseWaiting {
			seat := s.Turn()
			decision, ok := m.OnTurn(s, seat)
			if !ok {
				return nil, fmt.Errorf("no NPC at %s", seat)
			}
			out, err := npc.Apply(s, seat, decision)
			if err != nil {
				return nil, fmt.Errorf("deal %d %s: %w", deal, seat, err)
			}
			if s.Phase() == belote.PhasePlaying {
				for _, st := range belote.Seats {
					if _, err := s.DeclareSequence(st); err == nil && verbose {
						pterm.Info.Printfln("%s declares sequences", st)
					}
				}
			}
			for _, o := range out {
				switch ev := o.Event.(type) {
				case belote.TrickSettled:
					if verbose {
						pterm.Printfln("  trick %d -> %s (%d pts)", ev.TrickNumber, ev.Winner, ev.Points)
					}
				case belote.BidHalted:
					row.outcome = ev.Reason.String()
				case belote.RoundSettled:
					row.scores = ev.RoundScores
					row.outcome = fmt.Sprintf("%s took %s", ev.Taker, ev.Trump.Name())
					if ev.Capot {
						row.outcome += fmt.Sprintf(", capot %s", ev.CapotTeam)
					}
					res.matchOver = ev.MatchOver
				}
			}
		}
		row.totals = s.Totals()
		res.rows = append(res.rows, row)
		if res.matchOver {
			break
		}
	}
	res.totals = s.Totals()
	return res, nil
}

func first[T belote.Event](out []belote.Outbound) (T, bool) {
	for _, o := range out {
		if e, ok := o.Event.(T); ok {
			return e, true
		}
	}
	var zero T
	return zero, false
}

func render(res *result) {
	pterm.DefaultSection.Println("Players")
	for _, st := range belote.Seats {
		pterm.Printfln("%-6s %-10s team %s", st, pterm.LightCyan(res.players[st]), st.Team())
	}

	pterm.DefaultSection.Println("Deals")
	data := pterm.TableData{{"Deal", "Dealer", "Outcome", "NS", "EW", "Total NS", "Total EW"}}
	for _, r := range res.rows {
		data = append(data, []string{
			fmt.Sprint(r.deal), r.dealer.String(), r.outcome,
			fmt.Sprint(r.scores[belote.TeamNS]), fmt.Sprint(r.scores[belote.TeamEW]),
			fmt.Sprint(r.totals[belote.TeamNS]), fmt.Sprint(r.totals[belote.TeamEW]),
		})
	}
	if err := pterm.DefaultTable.WithHasHeader().WithData(data).Render(); err != nil {
		pterm.Error.Println(err)
	}

	if !res.matchOver {
		pterm.Warning.Printfln("No team reached the threshold: NS %d, EW %d", res.totals[belote.TeamNS], res.totals[belote.TeamEW])
		return
	}
	winner := belote.TeamNS
	if res.totals[belote.TeamEW] > res.totals[belote.TeamNS] {
		winner = belote.TeamEW
	}
	pterm.Success.Printfln("Team %s wins %d to %d", winner, res.totals[winner], res.totals[winner.Other()])
}
