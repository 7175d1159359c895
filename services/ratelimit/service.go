package ratelimit

import (
	"context"
	"hash/fnv"
	"sync"
	"time"

	"go.uber.org/zap"
)

// shardCount spreads key contention across independent locks. Must be a
// power of two.
const shardCount = 32

// record is the per-key fixed-window counter state.
type record struct {
	count   int
	resetAt time.Time
}

type shard struct {
	mu      sync.Mutex
	records map[string]*record
}

// Result is the outcome of a single rate limit check.
type Result struct {
	Allowed    bool
	Remaining  int
	ResetAt    time.Time
	RetryAfter time.Duration
}

// Service is an in-process fixed-window rate limiter. Counters reset at
// discrete window boundaries, which admits up to twice the configured limit
// in an interval straddling a boundary; that is accepted over the cost of a
// sliding window. A check never returns an error.
type Service struct {
	shards [shardCount]*shard
	logger *zap.Logger
}

// NewService creates a new rate limiter instance. Each instance owns its own
// record store, so tests and multiple policies can run isolated limiters.
func NewService(logger *zap.Logger) *Service {
	s := &Service{logger: logger}
	for i := range s.shards {
		s.shards[i] = &shard{records: make(map[string]*record)}
	}
	return s
}

// Check admits or rejects one request for key under the given policy.
// The read-then-maybe-write on the key's record is atomic under the shard
// lock: concurrent requests sharing a key cannot both observe "below limit"
// and increment past maxRequests.
func (s *Service) Check(key string, maxRequests int, window time.Duration) Result {
	now := time.Now()
	sh := s.shardFor(key)

	sh.mu.Lock()
	defer sh.mu.Unlock()

	rec, ok := sh.records[key]
	if !ok || now.After(rec.resetAt) {
		rec = &record{count: 1, resetAt: now.Add(window)}
		sh.records[key] = rec
		return Result{
			Allowed:   true,
			Remaining: maxRequests - 1,
			ResetAt:   rec.resetAt,
		}
	}

	if rec.count >= maxRequests {
		return Result{
			Allowed:    false,
			Remaining:  0,
			ResetAt:    rec.resetAt,
			RetryAfter: rec.resetAt.Sub(now),
		}
	}

	rec.count++
	return Result{
		Allowed:   true,
		Remaining: maxRequests - rec.count,
		ResetAt:   rec.resetAt,
	}
}

// Remaining reports the quota left for key without consuming any of it.
func (s *Service) Remaining(key string, maxRequests int) int {
	now := time.Now()
	sh := s.shardFor(key)

	sh.mu.Lock()
	defer sh.mu.Unlock()

	rec, ok := sh.records[key]
	if !ok || now.After(rec.resetAt) {
		return maxRequests
	}
	if rec.count >= maxRequests {
		return 0
	}
	return maxRequests - rec.count
}

// ResetTime reports when the current window for key ends. The second return
// is false when no live record exists for the key.
func (s *Service) ResetTime(key string) (time.Time, bool) {
	now := time.Now()
	sh := s.shardFor(key)

	sh.mu.Lock()
	defer sh.mu.Unlock()

	rec, ok := sh.records[key]
	if !ok || now.After(rec.resetAt) {
		return time.Time{}, false
	}
	return rec.resetAt, true
}

// Sweep removes all records whose window has passed and returns the number
// removed. Removal happens under the same shard lock as Check, so it cannot
// corrupt an in-flight increment.
func (s *Service) Sweep() int {
	now := time.Now()
	removed := 0
	for _, sh := range s.shards {
		sh.mu.Lock()
		for key, rec := range sh.records {
			if now.After(rec.resetAt) {
				delete(sh.records, key)
				removed++
			}
		}
		sh.mu.Unlock()
	}
	return removed
}

// StartSweeper runs the periodic sweep until ctx is cancelled, bounding
// memory to the count of active keys.
func (s *Service) StartSweeper(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	s.logger.Info("started rate limit sweeper", zap.Duration("interval", interval))

	for {
		select {
		case <-ticker.C:
			if removed := s.Sweep(); removed > 0 {
				s.logger.Debug("swept expired rate limit records", zap.Int("removed", removed))
			}
		case <-ctx.Done():
			s.logger.Info("stopping rate limit sweeper")
			return
		}
	}
}

// ActiveKeys returns the number of live records across all shards.
func (s *Service) ActiveKeys() int {
	total := 0
	for _, sh := range s.shards {
		sh.mu.Lock()
		total += len(sh.records)
		sh.mu.Unlock()
	}
	return total
}

func (s *Service) shardFor(key string) *shard {
	h := fnv.New32a()
	_, _ = h.Write([]byte(key))
	return s.shards[h.Sum32()&(shardCount-1)]
}
