package belote

import (
	"errors"
	"fmt"
)

var (
	ErrOutOfTurn        = errors.New("action out of turn")
	ErrNotEnoughPlayers = errors.New("four seated players are required to deal")
	ErrNoDeclaration    = errors.New("no sequence declaration pending")
	ErrUnknownConn      = errors.New("connection not at table")
)

// RejectionKind classifies why an action was refused.
type RejectionKind byte

const (
	OutOfTurn RejectionKind = iota + 1
	IllegalPlay
	PrematurePlay
	InvalidBidTarget
	SeatUnavailable
)

var rejectionNames = map[RejectionKind]string{
	OutOfTurn:        "out_of_turn",
	IllegalPlay:      "illegal_play",
	PrematurePlay:    "premature_play",
	InvalidBidTarget: "invalid_bid_target",
	SeatUnavailable:  "seat_unavailable",
}

func (k RejectionKind) String() string {
	if name, ok := rejectionNames[k]; ok {
		return name
	}
	return "unknown"
}

// Rejection is returned for every refused action. State is never mutated
// when a Rejection is returned.
type Rejection struct {
	Kind   RejectionKind
	Seat   Seat
	Reason string
}

func (r *Rejection) Error() string {
	return fmt.Sprintf("%s: %s", r.Kind, r.Reason)
}

// Is lets errors.Is(err, ErrOutOfTurn) match out-of-turn rejections.
func (r *Rejection) Is(target error) bool {
	return target == ErrOutOfTurn && r.Kind == OutOfTurn
}

func reject(kind RejectionKind, seat Seat, format string, args ...any) *Rejection {
	return &Rejection{Kind: kind, Seat: seat, Reason: fmt.Sprintf(format, args...)}
}

// AsRejection unwraps err into a *Rejection when it is one.
func AsRejection(err error) (*Rejection, bool) {
	var r *Rejection
	if errors.As(err, &r) {
		return r, true
	}
	return nil, false
}

type InvalidStateError string

func (e InvalidStateError) Error() string { return "invalid state: " + string(e) }

func ErrInvalidState(msg string) error { return InvalidStateError(msg) }
