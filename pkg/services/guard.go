package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

var ErrSubmissionInFlight = errors.New("submission already in flight")

// SubmissionGuard keeps a visitor from having two submissions in flight.
// Entries expire after a TTL so a crashed request never locks a visitor out.
type SubmissionGuard interface {
	Acquire(ctx context.Context, key string) (bool, error)
	Release(ctx context.Context, key string) error
}

type pendingSubmission struct {
	ExpiresAt time.Time
}

// MemoryGuard is a process-local SubmissionGuard
type MemoryGuard struct {
	mu      sync.Mutex
	pending map[string]*pendingSubmission
	timeout time.Duration
	now     func() time.Time
}

func NewMemoryGuard(timeout time.Duration) *MemoryGuard {
	return &MemoryGuard{
		pending: make(map[string]*pendingSubmission),
		timeout: timeout,
		now:     time.Now,
	}
}

func (g *MemoryGuard) Acquire(_ context.Context, key string) (bool, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	now := g.now()
	if p, exists := g.pending[key]; exists && now.Before(p.ExpiresAt) {
		return false, nil
	}
	g.pending[key] = &pendingSubmission{ExpiresAt: now.Add(g.timeout)}

	// drop expired entries left by requests that never released
	for k, p := range g.pending {
		if !now.Before(p.ExpiresAt) {
			delete(g.pending, k)
		}
	}
	return true, nil
}

func (g *MemoryGuard) Release(_ context.Context, key string) error {
	g.mu.Lock()
	delete(g.pending, key)
	g.mu.Unlock()
	return nil
}

// RedisGuard shares the in-flight set across instances with SET NX
type RedisGuard struct {
	client  *redis.Client
	prefix  string
	timeout time.Duration
}

func NewRedisGuard(client *redis.Client, timeout time.Duration) *RedisGuard {
	return &RedisGuard{
		client:  client,
		prefix:  "cbs:landing:submission:",
		timeout: timeout,
	}
}

func (g *RedisGuard) Acquire(ctx context.Context, key string) (bool, error) {
	ok, err := g.client.SetNX(ctx, g.prefix+key, 1, g.timeout).Result()
	if err != nil {
		return false, fmt.Errorf("acquire submission guard: %w", err)
	}
	return ok, nil
}

func (g *RedisGuard) Release(ctx context.Context, key string) error {
	if err := g.client.Del(ctx, g.prefix+key).Err(); err != nil {
		return fmt.Errorf("release submission guard: %w", err)
	}
	return nil
}
