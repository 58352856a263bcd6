package replay

import (
	"strings"

	"belote-lite/belote"
)

// ForViewer returns the tape as seen from one seat: public events plus
// events addressed to that seat. An empty viewer keeps every event;
// "observer" keeps public events only.
func ForViewer(tape *ReplayTape, viewer string) (*ReplayTape, error) {
	if tape == nil || strings.TrimSpace(viewer) == "" {
		return tape, nil
	}
	seat, err := belote.ParseSeat(viewer)
	if err != nil {
		return nil, &ReplayError{StepIndex: -1, Reason: "invalid_viewer", Message: err.Error()}
	}

	out := *tape
	out.Events = make([]ReplayEvent, 0, len(tape.Events))
	for _, e := range tape.Events {
		switch e.Audience {
		case "all":
		case "seat":
			if seat == belote.Observer || e.Seat != seat.String() {
				continue
			}
		default:
			// connection-scoped notices carry no seat
			continue
		}
		out.Events = append(out.Events, e)
	}
	return &out, nil
}
