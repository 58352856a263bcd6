package replay

import (
	"fmt"
	"strings"

	"belote-lite/belote"
	"belote-lite/card"
)

type actionType byte

const (
	actionDeal actionType = iota + 1
	actionBid
	actionDeclare
	actionPlay
)

type normalizedAction struct {
	kind actionType
	seat belote.Seat
	bid  belote.Bid
	card card.Card
}

type normalizedSpec struct {
	tableID string
	cfg     belote.Config
	actions []normalizedAction
}

func normalizeSpec(spec RoundSpec) (normalizedSpec, error) {
	var out normalizedSpec
	out.tableID = spec.TableID
	if out.tableID == "" {
		out.tableID = defaultTableID
	}

	if spec.Threshold < 0 {
		return out, &ReplayError{StepIndex: -1, Reason: "invalid_threshold", Message: "threshold must be >= 0"}
	}
	dealer := belote.North
	if spec.Dealer != "" {
		d, err := belote.ParseSeat(spec.Dealer)
		if err != nil || !d.Valid() {
			return out, &ReplayError{StepIndex: -1, Reason: "invalid_dealer", Message: fmt.Sprintf("invalid dealer %q", spec.Dealer)}
		}
		dealer = d
	}
	out.cfg = belote.Config{
		WinningThreshold:      spec.Threshold,
		InitialDealer:         dealer,
		AllowDealerPassRound2: spec.AllowDealerPassRound2,
		Seed:                  seedFromSpec(spec.RNG),
	}

	if len(spec.Deck) > 0 {
		deck, err := card.ParseList(spec.Deck)
		if err != nil {
			return out, &ReplayError{StepIndex: -1, Reason: "invalid_deck", Message: err.Error()}
		}
		out.cfg.DeckOverride = deck
	}

	if len(spec.Actions) == 0 {
		return out, &ReplayError{StepIndex: -1, Reason: "invalid_actions", Message: "at least one action is required"}
	}
	out.actions = make([]normalizedAction, 0, len(spec.Actions))
	for i, a := range spec.Actions {
		na, err := normalizeAction(a)
		if err != nil {
			return out, &ReplayError{StepIndex: int32(i), Reason: "invalid_action", Message: err.Error()}
		}
		out.actions = append(out.actions, na)
	}
	return out, nil
}

func normalizeAction(a ActionSpec) (normalizedAction, error) {
	var out normalizedAction
	seat, err := belote.ParseSeat(a.Seat)
	if err != nil || !seat.Valid() {
		return out, fmt.Errorf("invalid seat %q", a.Seat)
	}
	out.seat = seat

	switch strings.ToLower(strings.TrimSpace(a.Type)) {
	case "deal":
		out.kind = actionDeal
	case "declare":
		out.kind = actionDeclare
	case "bid":
		out.kind = actionBid
		if out.bid, err = belote.ParseBid(a.Value); err != nil {
			return out, err
		}
	case "play":
		out.kind = actionPlay
		if out.card, err = card.Parse(a.Value); err != nil {
			return out, err
		}
	default:
		return out, fmt.Errorf("unsupported action type %q", a.Type)
	}
	return out, nil
}

// seedFromSpec falls back to a fixed seed so a spec without RNG still replays
// the same way every time.
func seedFromSpec(rng *RNGSpec) int64 {
	if rng == nil || rng.Seed == 0 {
		return 1
	}
	return rng.Seed
}
