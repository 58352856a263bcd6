// Package notify fans table milestones (settled tricks, rounds, halts)
// out to external consumers. Delivery is best effort; the table never
// waits on a sink.
package notify

import (
	"context"
	"errors"
	"strings"
)

type Sink interface {
	Publish(ctx context.Context, tableID, kind string, payload map[string]any) error
	Close() error
}

// Message is the JSON body sent to every sink.
type Message struct {
	TableID string         `json:"table_id"`
	Kind    string         `json:"kind"`
	TsMs    int64          `json:"ts_ms"`
	Payload map[string]any `json:"payload"`
}

type noopSink struct{}

func Noop() Sink { return noopSink{} }

func (noopSink) Publish(context.Context, string, string, map[string]any) error { return nil }
func (noopSink) Close() error                                                 { return nil }

// Multi publishes to every sink and joins their errors.
type Multi []Sink

func (m Multi) Publish(ctx context.Context, tableID, kind string, payload map[string]any) error {
	var errs []error
	for _, s := range m {
		if err := s.Publish(ctx, tableID, kind, payload); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (m Multi) Close() error {
	var errs []error
	for _, s := range m {
		if err := s.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Combine drops nil sinks and collapses to Noop when nothing is left.
func Combine(sinks ...Sink) Sink {
	out := make(Multi, 0, len(sinks))
	for _, s := range sinks {
		if s != nil {
			out = append(out, s)
		}
	}
	switch len(out) {
	case 0:
		return Noop()
	case 1:
		return out[0]
	}
	return out
}

// Subject builds "<prefix>.table.<id>.<kind>".
func Subject(prefix, tableID, kind string) string {
	prefix = strings.Trim(strings.TrimSpace(prefix), ".")
	if prefix == "" {
		prefix = "belote"
	}
	return prefix + ".table." + tableID + "." + kind
}
