package wire

import (
	"encoding/base64"
	"fmt"

	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/known/structpb"
)

// ServerEnvelope wraps one outbound message. It travels as a
// google.protobuf.Struct so clients can decode it without generated code.
type ServerEnvelope struct {
	TableID string
	Seq     uint64
	TsMs    int64
	Type    string
	Payload map[string]any
}

func (e ServerEnvelope) toStruct() (*structpb.Struct, error) {
	return structpb.NewStruct(map[string]any{
		"table_id": e.TableID,
		"seq":      e.Seq,
		"ts_ms":    e.TsMs,
		"type":     e.Type,
		"payload":  e.Payload,
	})
}

// Marshal encodes the envelope as binary protobuf.
func (e ServerEnvelope) Marshal() ([]byte, error) {
	st, err := e.toStruct()
	if err != nil {
		return nil, fmt.Errorf("build envelope %s: %w", e.Type, err)
	}
	// map order must be stable so replay tapes are byte-identical
	return proto.MarshalOptions{Deterministic: true}.Marshal(st)
}

// MarshalJSON encodes the envelope as protojson, for text frames and logs.
func (e ServerEnvelope) MarshalJSON() ([]byte, error) {
	st, err := e.toStruct()
	if err != nil {
		return nil, fmt.Errorf("build envelope %s: %w", e.Type, err)
	}
	return protojson.Marshal(st)
}

func (e ServerEnvelope) Base64() (string, error) {
	b, err := e.Marshal()
	if err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(b), nil
}

// UnmarshalEnvelope decodes a binary envelope produced by Marshal.
func UnmarshalEnvelope(data []byte) (ServerEnvelope, error) {
	var st structpb.Struct
	if err := proto.Unmarshal(data, &st); err != nil {
		return ServerEnvelope{}, fmt.Errorf("decode envelope: %w", err)
	}
	return fromStruct(&st), nil
}

func fromStruct(st *structpb.Struct) ServerEnvelope {
	m := st.AsMap()
	env := ServerEnvelope{}
	env.TableID, _ = m["table_id"].(string)
	env.Type, _ = m["type"].(string)
	if v, ok := m["seq"].(float64); ok {
		env.Seq = uint64(v)
	}
	if v, ok := m["ts_ms"].(float64); ok {
		env.TsMs = int64(v)
	}
	env.Payload, _ = m["payload"].(map[string]any)
	return env
}
