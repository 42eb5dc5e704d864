package session

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const defaultSessionTTL = 24 * time.Hour

// RedisStore persists sessions in Redis so engagement state survives process
// restarts and is shared across instances.
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisStore creates a Redis-backed store. ttl bounds how long an idle
// session is retained; zero or negative falls back to 24h.
func NewRedisStore(client *redis.Client, ttl time.Duration) *RedisStore {
	if client == nil {
		panic("session: redis client cannot be nil")
	}
	if ttl <= 0 {
		ttl = defaultSessionTTL
	}
	return &RedisStore{client: client, ttl: ttl}
}

func (s *RedisStore) Load(ctx context.Context, id string) (Session, bool, error) {
	data, err := s.client.Get(ctx, sessionKey(id)).Bytes()
	if err == redis.Nil {
		return Session{}, false, nil
	}
	if err != nil {
		return Session{}, false, fmt.Errorf("%w: load %s: %v", ErrStore, id, err)
	}

	var sess Session
	if err := json.Unmarshal(data, &sess); err != nil {
		return Session{}, false, fmt.Errorf("%w: decode %s: %v", ErrStore, id, err)
	}
	return sess, true, nil
}

func (s *RedisStore) Init(ctx context.Context, id string) (Session, error) {
	now := time.Now().UTC()
	sess := Session{
		TurnCount:   0,
		CreatedAt:   now,
		LastUpdated: now,
	}
	if err := s.write(ctx, id, sess); err != nil {
		return Session{}, err
	}
	return sess, nil
}

func (s *RedisStore) Save(ctx context.Context, id string, sess Session) error {
	sess.LastUpdated = time.Now().UTC()
	return s.write(ctx, id, sess)
}

func (s *RedisStore) write(ctx context.Context, id string, sess Session) error {
	data, err := json.Marshal(sess)
	if err != nil {
		return fmt.Errorf("%w: encode %s: %v", ErrStore, id, err)
	}
	if err := s.client.Set(ctx, sessionKey(id), data, s.ttl).Err(); err != nil {
		return fmt.Errorf("%w: save %s: %v", ErrStore, id, err)
	}
	return nil
}

func sessionKey(id string) string {
	return fmt.Sprintf("session:%s", id)
}
