package database

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/pageza/pantrychef/internal/observability"
	"github.com/pageza/pantrychef/internal/types"
)

const sessionKeyPrefix = "pantrychef:session:"

// releaseScript deletes the lock only if it still holds our token
var releaseScript = redis.NewScript(`
if redis.call("get", KEYS[1]) == ARGV[1] then
	return redis.call("del", KEYS[1])
end
return 0
`)

// renewScript extends the lock only if it still holds our token
var renewScript = redis.NewScript(`
if redis.call("get", KEYS[1]) == ARGV[1] then
	return redis.call("pexpire", KEYS[1], ARGV[2])
end
return 0
`)

// RedisSessionStore keeps sessions as JSON documents in Redis with a sliding TTL
type RedisSessionStore struct {
	client  *redis.Client
	ttl     time.Duration
	lockTTL time.Duration
}

// NewRedisSessionStore creates a new RedisSessionStore instance
func NewRedisSessionStore(client *redis.Client, ttl, lockTTL time.Duration) *RedisSessionStore {
	return &RedisSessionStore{client: client, ttl: ttl, lockTTL: lockTTL}
}

func sessionKey(id string) string {
	return sessionKeyPrefix + id
}

func lockKey(id string) string {
	return sessionKey(id) + ":lock"
}

// Get retrieves a session, returning an empty one when it does not exist
func (s *RedisSessionStore) Get(ctx context.Context, id string) (*types.Session, error) {
	data, err := s.client.Get(ctx, sessionKey(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return types.NewSession(id), nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get session: %w", err)
	}

	var session types.Session
	if err := json.Unmarshal(data, &session); err != nil {
		return nil, fmt.Errorf("failed to unmarshal session: %w", err)
	}
	return &session, nil
}

// Save stores a session and refreshes its TTL
func (s *RedisSessionStore) Save(ctx context.Context, session *types.Session) error {
	data, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("failed to marshal session: %w", err)
	}
	if err := s.client.Set(ctx, sessionKey(session.ID), data, s.ttl).Err(); err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}
	return nil
}

// Acquire takes the in-flight lock for a session with SET NX. While held, the
// lock is renewed every lockTTL/3 so a long generation call keeps it; if the
// process dies the lock expires after lockTTL.
func (s *RedisSessionStore) Acquire(ctx context.Context, id string) (func(), error) {
	token := uuid.NewString()
	ok, err := s.client.SetNX(ctx, lockKey(id), token, s.lockTTL).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to acquire session lock: %w", err)
	}
	if !ok {
		return nil, types.ErrSessionBusy
	}

	stop := make(chan struct{})
	done := make(chan struct{})
	go s.keepLock(id, token, stop, done)

	var once sync.Once
	release := func() {
		once.Do(func() {
			close(stop)
			<-done

			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := releaseScript.Run(ctx, s.client, []string{lockKey(id)}, token).Err(); err != nil && !errors.Is(err, redis.Nil) {
				observability.Logger().Error("failed to release session lock", "session_id", id, "error", err)
			}
		})
	}
	return release, nil
}

// keepLock extends the lock until stop is closed or the lock is lost
func (s *RedisSessionStore) keepLock(id, token string, stop <-chan struct{}, done chan<- struct{}) {
	defer close(done)

	log := observability.WithFields("session_id", id, "lock_ttl", s.lockTTL.String())
	interval := s.lockTTL / 3
	if interval < 10*time.Millisecond {
		interval = 10 * time.Millisecond
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			ctx, cancel := context.WithTimeout(context.Background(), interval)
			n, err := renewScript.Run(ctx, s.client, []string{lockKey(id)}, token, s.lockTTL.Milliseconds()).Int()
			cancel()
			if err != nil {
				log.Warn("failed to renew session lock", "error", err)
				continue
			}
			if n == 0 {
				log.Error("session lock lost while in flight")
				return
			}
		}
	}
}
