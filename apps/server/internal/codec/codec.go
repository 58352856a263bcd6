package codec

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"belote-lite/belote"
	"belote-lite/wire"

	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/known/structpb"
)

const (
	TypeSnapshot = "table_snapshot"
	TypeError    = "error"
)

// Error codes carried in "error" envelopes.
const (
	CodeBadRequest      = "bad_request"
	CodeOutOfTurn       = "out_of_turn"
	CodeNotEnough       = "not_enough_players"
	CodeNoDeclaration   = "no_declaration"
	CodeSeatUnavailable = "seat_unavailable"
	CodeInternal        = "internal"
)

// ActionType is what a client asks the table to do.
type ActionType string

const (
	ActionDeal     ActionType = "deal"
	ActionBid      ActionType = "bid"
	ActionPlay     ActionType = "play"
	ActionDeclare  ActionType = "declare"
	ActionSnapshot ActionType = "snapshot"
	ActionAddBot   ActionType = "add_bot"
	ActionPing     ActionType = "ping"
)

var ErrUnknownAction = errors.New("unknown action")

// ClientAction is a decoded client frame. Value holds the bid ("take",
// "pass", a suit), the card code, or a persona id depending on Type.
type ClientAction struct {
	Type  ActionType
	Value string
}

// EncodeOutbound wraps one engine event in an envelope.
func EncodeOutbound(tableID string, seq uint64, out belote.Outbound) wire.ServerEnvelope {
	return wire.ServerEnvelope{
		TableID: tableID,
		Seq:     seq,
		TsMs:    time.Now().UnixMilli(),
		Type:    string(out.Event.Kind()),
		Payload: wire.Payload(out.Event),
	}
}

func EncodeSnapshot(tableID string, seq uint64, snap belote.Snapshot) wire.ServerEnvelope {
	return wire.ServerEnvelope{
		TableID: tableID,
		Seq:     seq,
		TsMs:    time.Now().UnixMilli(),
		Type:    TypeSnapshot,
		Payload: wire.SnapshotPayload(snap),
	}
}

func EncodeError(tableID string, seq uint64, code, message string) wire.ServerEnvelope {
	return wire.ServerEnvelope{
		TableID: tableID,
		Seq:     seq,
		TsMs:    time.Now().UnixMilli(),
		Type:    TypeError,
		Payload: map[string]any{"code": code, "message": message},
	}
}

// ErrorCode maps an engine error to its wire code.
func ErrorCode(err error) string {
	if r, ok := belote.AsRejection(err); ok {
		return r.Kind.String()
	}
	switch {
	case errors.Is(err, belote.ErrOutOfTurn):
		return CodeOutOfTurn
	case errors.Is(err, belote.ErrNotEnoughPlayers):
		return CodeNotEnough
	case errors.Is(err, belote.ErrNoDeclaration):
		return CodeNoDeclaration
	case errors.Is(err, ErrUnknownAction):
		return CodeBadRequest
	}
	return CodeInternal
}

// DecodeAction parses a client frame: protojson for text frames, binary
// google.protobuf.Struct otherwise.
func DecodeAction(data []byte, text bool) (ClientAction, error) {
	var st structpb.Struct
	var err error
	if text {
		err = protojson.Unmarshal(data, &st)
	} else {
		err = proto.Unmarshal(data, &st)
	}
	if err != nil {
		return ClientAction{}, fmt.Errorf("decode action: %w", err)
	}

	m := st.AsMap()
	rawType, _ := m["type"].(string)
	action := ClientAction{Type: ActionType(strings.ToLower(strings.TrimSpace(rawType)))}
	if v, ok := m["value"].(string); ok {
		action.Value = strings.TrimSpace(v)
	}

	switch action.Type {
	case ActionDeal, ActionDeclare, ActionSnapshot, ActionPing, ActionAddBot:
	case ActionBid, ActionPlay:
		if action.Value == "" {
			return ClientAction{}, fmt.Errorf("%s requires a value", action.Type)
		}
	default:
		return ClientAction{}, fmt.Errorf("%w: %q", ErrUnknownAction, rawType)
	}
	return action, nil
}

// EncodeAction is the client-side counterpart of DecodeAction.
func EncodeAction(a ClientAction, text bool) ([]byte, error) {
	st, err := structpb.NewStruct(map[string]any{"type": string(a.Type), "value": a.Value})
	if err != nil {
		return nil, err
	}
	if text {
		return protojson.Marshal(st)
	}
	return proto.MarshalOptions{Deterministic: true}.Marshal(st)
}
