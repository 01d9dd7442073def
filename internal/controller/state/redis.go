package state

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	redisKeyPrefix   = "fsm:"
	maxUpdateRetries = 5
)

// RedisStore хранит сессии в Redis: JSON под ключом fsm:<chat>:<user> с TTL
type RedisStore struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewRedisStore(rdb *redis.Client, ttl time.Duration) *RedisStore {
	return &RedisStore{rdb: rdb, ttl: ttl}
}

func redisKey(key Key) string {
	return redisKeyPrefix + key.String()
}

func (s *RedisStore) Get(ctx context.Context, key Key) (*Session, error) {
	raw, err := s.rdb.Get(ctx, redisKey(key)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("get session %s: %w", key, err)
	}
	return decodeSession(raw)
}

func (s *RedisStore) Set(ctx context.Context, key Key, sess *Session) error {
	raw, err := json.Marshal(sess)
	if err != nil {
		return fmt.Errorf("marshal session: %w", err)
	}
	if err := s.rdb.Set(ctx, redisKey(key), raw, s.ttl).Err(); err != nil {
		return fmt.Errorf("set session %s: %w", key, err)
	}
	return nil
}

// Update сливает partial с данными сессии под WATCH, повторяя при конфликте
func (s *RedisStore) Update(ctx context.Context, key Key, partial Data) error {
	k := redisKey(key)

	txf := func(tx *redis.Tx) error {
		sess := &Session{State: StateIdle, Data: Data{}}
		raw, err := tx.Get(ctx, k).Bytes()
		switch {
		case err == nil:
			if sess, err = decodeSession(raw); err != nil {
				return err
			}
		case !errors.Is(err, redis.Nil):
			return err
		}

		sess.Data = sess.Data.Merge(partial)
		out, err := json.Marshal(sess)
		if err != nil {
			return fmt.Errorf("marshal session: %w", err)
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, k, out, s.ttl)
			return nil
		})
		return err
	}

	for i := 0; i < maxUpdateRetries; i++ {
		err := s.rdb.Watch(ctx, txf, k)
		if errors.Is(err, redis.TxFailedErr) {
			continue
		}
		if err != nil {
			return fmt.Errorf("update session %s: %w", key, err)
		}
		return nil
	}
	return fmt.Errorf("update session %s: too many concurrent updates", key)
}

func (s *RedisStore) Clear(ctx context.Context, key Key) error {
	if err := s.rdb.Del(ctx, redisKey(key)).Err(); err != nil {
		return fmt.Errorf("clear session %s: %w", key, err)
	}
	return nil
}

func decodeSession(raw []byte) (*Session, error) {
	var sess Session
	if err := json.Unmarshal(raw, &sess); err != nil {
		return nil, fmt.Errorf("decode session: %w", err)
	}
	if sess.Data == nil {
		sess.Data = Data{}
	}
	return &sess, nil
}
