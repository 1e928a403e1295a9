package session

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

const redisKeyPrefix = "sentinal:session:"

// RedisStore persists sessions as JSON records in Redis. Update atomicity
// is provided by per-key in-process locks; the store assumes a single
// engine instance owns any given session ID at a time. Records carry a TTL
// as a backstop so forgotten sessions cannot outlive the sweeper forever.
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// NewRedisStore wraps a Redis client. ttl bounds record lifetime; it should
// comfortably exceed the sweeper's expiry window.
func NewRedisStore(client *redis.Client, ttl time.Duration) *RedisStore {
	return &RedisStore{
		client: client,
		ttl:    ttl,
		locks:  make(map[string]*sync.Mutex),
	}
}

func (r *RedisStore) keyLock(id string) *sync.Mutex {
	r.mu.Lock()
	defer r.mu.Unlock()
	l, ok := r.locks[id]
	if !ok {
		l = &sync.Mutex{}
		r.locks[id] = l
	}
	return l
}

func (r *RedisStore) releaseLock(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.locks, id)
}

// Update loads or creates the session, applies fn and writes the result
// back with the store TTL.
func (r *RedisStore) Update(ctx context.Context, id string, fn func(*Session) error) (*Session, error) {
	lock := r.keyLock(id)
	lock.Lock()
	defer lock.Unlock()

	s, err := r.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if s == nil {
		s = New(id)
	}
	if err := fn(s); err != nil {
		return nil, err
	}
	if err := r.save(ctx, s); err != nil {
		return nil, err
	}
	return s.Clone(), nil
}

// Get returns the stored session, or nil when absent.
func (r *RedisStore) Get(ctx context.Context, id string) (*Session, error) {
	return r.load(ctx, id)
}

// Delete removes the record and its in-process lock.
func (r *RedisStore) Delete(ctx context.Context, id string) error {
	if err := r.client.Del(ctx, redisKeyPrefix+id).Err(); err != nil {
		return fmt.Errorf("delete session %s: %w", id, err)
	}
	r.releaseLock(id)
	return nil
}

// IDs scans for every stored session ID.
func (r *RedisStore) IDs(ctx context.Context) ([]string, error) {
	var ids []string
	iter := r.client.Scan(ctx, 0, redisKeyPrefix+"*", 0).Iterator()
	for iter.Next(ctx) {
		ids = append(ids, iter.Val()[len(redisKeyPrefix):])
	}
	if err := iter.Err(); err != nil {
		return nil, fmt.Errorf("scan sessions: %w", err)
	}
	return ids, nil
}

// Close releases the Redis client.
func (r *RedisStore) Close() {
	_ = r.client.Close()
}

func (r *RedisStore) load(ctx context.Context, id string) (*Session, error) {
	data, err := r.client.Get(ctx, redisKeyPrefix+id).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load session %s: %w", id, err)
	}
	var s Session
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("decode session %s: %w", id, err)
	}
	return &s, nil
}

func (r *RedisStore) save(ctx context.Context, s *Session) error {
	data, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("encode session %s: %w", s.ID, err)
	}
	if err := r.client.Set(ctx, redisKeyPrefix+s.ID, data, r.ttl).Err(); err != nil {
		return fmt.Errorf("save session %s: %w", s.ID, err)
	}
	return nil
}

var _ Store = (*RedisStore)(nil)
var _ Store = (*MemoryStore)(nil)
