package notify

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"github.com/nats-io/nats.go"
)

type NATSOptions struct {
	URL           string
	Subject       string
	MaxReconnects int
	ReconnectWait time.Duration
}

type NATSSink struct {
	conn    *nats.Conn
	subject string
}

func NewNATSSink(opts NATSOptions) (*NATSSink, error) {
	natsOpts := []nats.Option{
		nats.Name("belote-lite"),
		nats.MaxReconnects(opts.MaxReconnects),
		nats.ReconnectWait(opts.ReconnectWait),
		nats.DisconnectErrHandler(func(nc *nats.Conn, err error) {
			if err != nil {
				log.Printf("[Notify] nats disconnected: %v", err)
			}
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			log.Printf("[Notify] nats reconnected: %s", nc.ConnectedUrl())
		}),
	}

	conn, err := nats.Connect(opts.URL, natsOpts...)
	if err != nil {
		return nil, err
	}
	return &NATSSink{conn: conn, subject: opts.Subject}, nil
}

func (s *NATSSink) Publish(_ context.Context, tableID, kind string, payload map[string]any) error {
	data, err := json.Marshal(Message{
		TableID: tableID,
		Kind:    kind,
		TsMs:    time.Now().UnixMilli(),
		Payload: payload,
	})
	if err != nil {
		return err
	}
	return s.conn.Publish(Subject(s.subject, tableID, kind), data)
}

func (s *NATSSink) Close() error {
	if s.conn == nil {
		return nil
	}
	// 先 flush 再关闭
	err := s.conn.FlushTimeout(time.Second)
	s.conn.Close()
	return err
}
