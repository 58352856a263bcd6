package replay

// RoundSpec describes a table and the actions to apply to it, in order.
type RoundSpec struct {
	TableID               string       `json:"table_id,omitempty"`
	Dealer                string       `json:"dealer"`
	Threshold             int          `json:"threshold,omitempty"`
	AllowDealerPassRound2 bool         `json:"allow_dealer_pass_round2,omitempty"`
	Deck                  []string     `json:"deck,omitempty"`
	Actions               []ActionSpec `json:"actions"`
	RNG                   *RNGSpec     `json:"rng,omitempty"`
}

// ActionSpec is one inbound action. Value holds the bid ("take", "pass", a
// suit name) or the card code; it is empty for deal and declare.
type ActionSpec struct {
	Type  string `json:"type"`
	Seat  string `json:"seat"`
	Value string `json:"value,omitempty"`
}

type RNGSpec struct {
	Seed int64 `json:"seed"`
}

type ReplayTape struct {
	TapeVersion int           `json:"tape_version"`
	TableID     string        `json:"table_id"`
	Events      []ReplayEvent `json:"events"`
	MatchTotals [2]int        `json:"match_totals"`
	MatchOver   bool          `json:"match_over"`
}

type ReplayEvent struct {
	Type        string         `json:"type"`
	Seq         uint64         `json:"seq"`
	Step        int32          `json:"step"`
	Audience    string         `json:"audience"`
	Seat        string         `json:"seat,omitempty"`
	Value       map[string]any `json:"value,omitempty"`
	EnvelopeB64 string         `json:"envelope_b64,omitempty"`
}
