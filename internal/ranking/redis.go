package ranking

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisRemote keeps one sorted set per stage (score = time in ms, member = entry id)
// and one hash per entry with its details.
//
// Ties on time are ordered by member, not by submission time.
type RedisRemote struct {
	client *redis.Client
	prefix string
}

// OpenRedis parses the URL and pings the server.
func OpenRedis(ctx context.Context, url string) (*RedisRemote, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse redis URL: %w", err)
	}
	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return &RedisRemote{client: client, prefix: "puzzle:ranking"}, nil
}

func (r *RedisRemote) stageKey(stage int) string { return fmt.Sprintf("%s:stage:%d", r.prefix, stage) }
func (r *RedisRemote) entryKey(id string) string  { return r.prefix + ":entry:" + id }

func (r *RedisRemote) Insert(ctx context.Context, e Entry) error {
	_, err := r.client.TxPipelined(ctx, func(p redis.Pipeliner) error {
		p.HSet(ctx, r.entryKey(e.ID),
			"stage", e.Stage,
			"nickname", e.Nickname,
			"time", e.TimeMs,
			"created", e.CreatedAt.UTC().Format(time.RFC3339Nano),
		)
		p.ZAdd(ctx, r.stageKey(e.Stage), redis.Z{Score: float64(e.TimeMs), Member: e.ID})
		return nil
	})
	return err
}

func (r *RedisRemote) Top(ctx context.Context, stage, limit int) ([]Entry, error) {
	ids, err := r.client.ZRange(ctx, r.stageKey(stage), 0, int64(limit)-1).Result()
	if err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return []Entry{}, nil
	}

	cmds := make([]*redis.MapStringStringCmd, len(ids))
	if _, err := r.client.Pipelined(ctx, func(p redis.Pipeliner) error {
		for i, id := range ids {
			cmds[i] = p.HGetAll(ctx, r.entryKey(id))
		}
		return nil
	}); err != nil {
		return nil, err
	}

	out := make([]Entry, 0, len(ids))
	for i, id := range ids {
		h := cmds[i].Val()
		e := Entry{ID: id, Stage: stage, Nickname: h["nickname"]}
		e.TimeMs, _ = strconv.ParseInt(h["time"], 10, 64)
		e.CreatedAt, _ = time.Parse(time.RFC3339Nano, h["created"])
		out = append(out, e)
	}
	return out, nil
}

func (r *RedisRemote) Count(ctx context.Context, stage int) (int, error) {
	n, err := r.client.ZCard(ctx, r.stageKey(stage)).Result()
	return int(n), err
}

func (r *RedisRemote) Close() error { return r.client.Close() }
