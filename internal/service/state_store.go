package service

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

const OAuthStateTTL = 10 * time.Minute

// StateStore guarda los nonces de estado OAuth y los consume una sola vez.
type StateStore interface {
	Save(ctx context.Context, state string, ttl time.Duration) error
	Consume(ctx context.Context, state string) (bool, error)
}

func newState() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}

type memoryStateStore struct {
	mu    sync.Mutex
	items map[string]time.Time
	now   func() time.Time
}

func NewMemoryStateStore() StateStore {
	return &memoryStateStore{
		items: make(map[string]time.Time),
		now:   func() time.Time { return time.Now().UTC() },
	}
}

func (s *memoryStateStore) Save(_ context.Context, state string, ttl time.Duration) error {
	if strings.TrimSpace(state) == "" {
		return errors.New("empty state")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.now()
	for k, exp := range s.items {
		if now.After(exp) {
			delete(s.items, k)
		}
	}
	s.items[state] = now.Add(ttl)
	return nil
}

func (s *memoryStateStore) Consume(_ context.Context, state string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	exp, ok := s.items[state]
	if !ok {
		return false, nil
	}
	delete(s.items, state)
	return !s.now().After(exp), nil
}

type redisStateClient interface {
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
	GetDel(ctx context.Context, key string) *redis.StringCmd
}

type redisStateStore struct {
	client redisStateClient
	prefix string
}

func NewRedisStateStore(client redisStateClient) StateStore {
	if client == nil {
		return nil
	}
	return &redisStateStore{
		client: client,
		prefix: "auth:oauth_state:",
	}
}

func (s *redisStateStore) Save(ctx context.Context, state string, ttl time.Duration) error {
	if strings.TrimSpace(state) == "" {
		return errors.New("empty state")
	}
	return s.client.Set(ctx, s.prefix+state, "1", ttl).Err()
}

func (s *redisStateStore) Consume(ctx context.Context, state string) (bool, error) {
	if strings.TrimSpace(state) == "" {
		return false, nil
	}
	err := s.client.GetDel(ctx, s.prefix+state).Err()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}
