package notify

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
)

const recentRoundsCap = 50

type RedisOptions struct {
	Addr      string
	Password  string
	DB        int
	PoolSize  int
	KeyPrefix string
	TTL       time.Duration
}

// RedisSink keeps a live scoreboard per table: a hash with the latest
// match totals and a capped list of recent round summaries.
type RedisSink struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

func NewRedisSink(ctx context.Context, opts RedisOptions) (*RedisSink, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     opts.Addr,
		Password: opts.Password,
		DB:       opts.DB,
		PoolSize: opts.PoolSize,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, err
	}
	prefix := opts.KeyPrefix
	if prefix == "" {
		prefix = "belote"
	}
	return &RedisSink{client: client, prefix: prefix, ttl: opts.TTL}, nil
}

func (s *RedisSink) scoreKey(tableID string) string  { return s.prefix + ":table:" + tableID + ":score" }
func (s *RedisSink) roundsKey(tableID string) string { return s.prefix + ":table:" + tableID + ":rounds" }

func (s *RedisSink) Publish(ctx context.Context, tableID, kind string, payload map[string]any) error {
	// 只记录局级别的事件
	if kind != "round_settled" && kind != "bid_halted" {
		return nil
	}
	data, err := json.Marshal(Message{TableID: tableID, Kind: kind, TsMs: time.Now().UnixMilli(), Payload: payload})
	if err != nil {
		return err
	}

	pipe := s.client.TxPipeline()
	fields := map[string]any{"last_kind": kind, "updated_ms": time.Now().UnixMilli()}
	if totals, ok := payload["match_totals"].(map[string]any); ok {
		for team, v := range totals {
			fields["total_"+team] = v
		}
	}
	if over, ok := payload["match_over"].(bool); ok {
		fields["match_over"] = over
	}
	pipe.HSet(ctx, s.scoreKey(tableID), fields)
	pipe.LPush(ctx, s.roundsKey(tableID), data)
	pipe.LTrim(ctx, s.roundsKey(tableID), 0, recentRoundsCap-1)
	if s.ttl > 0 {
		pipe.Expire(ctx, s.scoreKey(tableID), s.ttl)
		pipe.Expire(ctx, s.roundsKey(tableID), s.ttl)
	}
	_, err = pipe.Exec(ctx)
	return err
}

func (s *RedisSink) Close() error { return s.client.Close() }
