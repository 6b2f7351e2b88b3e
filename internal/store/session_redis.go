package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/dukerupert/coursehub/internal/model"
	"github.com/redis/go-redis/v9"
)

const redisSessionPrefix = "coursehub:session:"

// RedisSessionPersister stores one key per session, expiring together with
// the session itself.
type RedisSessionPersister struct {
	client  *redis.Client
	nowFunc func() time.Time
}

// NewRedisSessionPersister connects using a redis:// or rediss:// URL.
func NewRedisSessionPersister(ctx context.Context, redisURL string) (*RedisSessionPersister, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	client := redis.NewClient(opt)
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return &RedisSessionPersister{client: client, nowFunc: time.Now}, nil
}

func (p *RedisSessionPersister) Close() error {
	return p.client.Close()
}

func (p *RedisSessionPersister) Load(ctx context.Context) (map[string]model.Session, error) {
	out := make(map[string]model.Session)
	iter := p.client.Scan(ctx, 0, redisSessionPrefix+"*", 100).Iterator()
	for iter.Next(ctx) {
		b, err := p.client.Get(ctx, iter.Val()).Bytes()
		if errors.Is(err, redis.Nil) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("get session: %w", err)
		}
		var sess model.Session
		if err := json.Unmarshal(b, &sess); err != nil {
			return nil, fmt.Errorf("decode session: %w", err)
		}
		out[sess.Token] = sess
	}
	if err := iter.Err(); err != nil {
		return nil, fmt.Errorf("scan sessions: %w", err)
	}
	return out, nil
}

func (p *RedisSessionPersister) Save(ctx context.Context, sess model.Session) error {
	ttl := sess.ExpiresAt.Sub(p.nowFunc())
	if ttl <= 0 {
		return p.Delete(ctx, sess.Token)
	}
	b, err := json.Marshal(sess)
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}
	if err := p.client.Set(ctx, redisSessionPrefix+sess.Token, b, ttl).Err(); err != nil {
		return fmt.Errorf("set session: %w", err)
	}
	return nil
}

func (p *RedisSessionPersister) Delete(ctx context.Context, tokens ...string) error {
	if len(tokens) == 0 {
		return nil
	}
	keys := make([]string, len(tokens))
	for i, t := range tokens {
		keys[i] = redisSessionPrefix + t
	}
	if err := p.client.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("delete sessions: %w", err)
	}
	return nil
}
