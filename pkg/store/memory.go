package store

import (
	"context"
	"errors"
	"slices"
	"sync"
	"time"

	"github.com/Checker-Finance/paymob-payout/pkg/secrets"
)

// MemoryStore keeps tokens in process. Entries are not shared between replicas.
type MemoryStore struct {
	cache    *secrets.Cache[[]byte]
	stop     chan struct{}
	stopOnce sync.Once
}

// NewMemoryStore creates a store whose expired entries are swept every cleanInterval.
// A zero interval disables the sweeper; expired entries are still dropped on read.
func NewMemoryStore(cleanInterval time.Duration) *MemoryStore {
	s := &MemoryStore{cache: secrets.NewCache[[]byte](time.Hour)}
	if cleanInterval > 0 {
		s.stop = make(chan struct{})
		go s.cache.StartCleaner(cleanInterval, s.stop)
	}
	return s
}

func (s *MemoryStore) Get(_ context.Context, key string) ([]byte, bool, error) {
	v, ok := s.cache.Get(key)
	if !ok {
		return nil, false, nil
	}
	return slices.Clone(v), true, nil
}

func (s *MemoryStore) Put(_ context.Context, key string, value []byte, ttl time.Duration) error {
	if ttl <= 0 {
		return errors.New("memory store: ttl must be positive")
	}
	s.cache.PutWithTTL(key, slices.Clone(value), ttl)
	return nil
}

func (s *MemoryStore) HealthCheck(context.Context) error { return nil }

// Close stops the sweeper. It is safe to call more than once.
func (s *MemoryStore) Close() error {
	if s.stop != nil {
		s.stopOnce.Do(func() { close(s.stop) })
	}
	return nil
}
