package replay

import "testing"

func TestForViewerHidesOtherSeats(t *testing.T) {
	tape, err := GenerateReplayTape(capotSpec())
	if err != nil {
		t.Fatalf("GenerateReplayTape: %v", err)
	}

	north, err := ForViewer(tape, "north")
	if err != nil {
		t.Fatalf("ForViewer: %v", err)
	}
	ownHands := 0
	for _, e := range north.Events {
		switch e.Audience {
		case "all":
		case "seat":
			if e.Seat != "North" {
				t.Fatalf("North sees %s addressed to %s", e.Type, e.Seat)
			}
			if e.Type == "hand_updated" {
				ownHands++
			}
		default:
			t.Fatalf("North sees a %s-scoped %s", e.Audience, e.Type)
		}
	}
	if ownHands == 0 {
		t.Fatalf("North should still see its own hand")
	}
	if len(north.Events) >= len(tape.Events) {
		t.Fatalf("filtered tape has %d of %d events", len(north.Events), len(tape.Events))
	}
	if north.MatchTotals != tape.MatchTotals {
		t.Fatalf("match totals changed: %v", north.MatchTotals)
	}

	obs, err := ForViewer(tape, "observer")
	if err != nil {
		t.Fatalf("ForViewer observer: %v", err)
	}
	for _, e := range obs.Events {
		if e.Audience != "all" {
			t.Fatalf("observer sees private %s", e.Type)
		}
	}

	full, _ := ForViewer(tape, "")
	if full != tape {
		t.Fatalf("empty viewer should keep the full tape")
	}
	if _, err := ForViewer(tape, "dealer"); err == nil {
		t.Fatalf("unknown viewer should fail")
	}
}
