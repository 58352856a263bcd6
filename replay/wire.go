package replay

// WireReplayTape is the camelCase shape handed to the browser player.
type WireReplayTape struct {
	TapeVersion int               `json:"tapeVersion"`
	TableID     string            `json:"tableId"`
	MatchTotals [2]int            `json:"matchTotals"`
	MatchOver   bool              `json:"matchOver"`
	Events      []WireReplayEvent `json:"events"`
}

type WireReplayEvent struct {
	Type        string `json:"type"`
	Seq         uint64 `json:"seq"`
	Audience    string `json:"audience"`
	Seat        string `json:"seat,omitempty"`
	EnvelopeB64 string `json:"envelopeB64"`
}

func ToWireReplayTape(tape *ReplayTape) *WireReplayTape {
	if tape == nil {
		return nil
	}
	out := &WireReplayTape{
		TapeVersion: tape.TapeVersion,
		TableID:     tape.TableID,
		MatchTotals: tape.MatchTotals,
		MatchOver:   tape.MatchOver,
		Events:      make([]WireReplayEvent, 0, len(tape.Events)),
	}
	for _, e := range tape.Events {
		out.Events = append(out.Events, WireReplayEvent{
			Type:        e.Type,
			Seq:         e.Seq,
			Audience:    e.Audience,
			Seat:        e.Seat,
			EnvelopeB64: e.EnvelopeB64,
		})
	}
	return out
}
