package state

import (
	"context"
	"sync"
	"time"

	"github.com/patrickmn/go-cache"
)

// MemoryStore хранит сессии в памяти процесса с истечением по TTL
type MemoryStore struct {
	mu    sync.Mutex // сериализует Update (чтение-изменение-запись)
	cache *cache.Cache
}

// NewMemoryStore создаёт хранилище; просроченные сессии вычищаются раз в cleanup
func NewMemoryStore(ttl, cleanup time.Duration) *MemoryStore {
	return &MemoryStore{
		cache: cache.New(ttl, cleanup),
	}
}

func (s *MemoryStore) Get(_ context.Context, key Key) (*Session, error) {
	x, found := s.cache.Get(key.String())
	if !found {
		return nil, nil
	}
	stored := x.(*Session)
	return &Session{State: stored.State, Data: stored.Data.Clone()}, nil
}

func (s *MemoryStore) Set(_ context.Context, key Key, sess *Session) error {
	s.cache.Set(key.String(), &Session{State: sess.State, Data: sess.Data.Clone()}, cache.DefaultExpiration)
	return nil
}

func (s *MemoryStore) Update(ctx context.Context, key Key, partial Data) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, _ := s.Get(ctx, key)
	if sess == nil {
		sess = &Session{State: StateIdle, Data: Data{}}
	}
	sess.Data = sess.Data.Merge(partial)
	return s.Set(ctx, key, sess)
}

func (s *MemoryStore) Clear(_ context.Context, key Key) error {
	s.cache.Delete(key.String())
	return nil
}
