package middleware

import (
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/yigit/mentormatch/internal/pkg/apperrors"
	"golang.org/x/time/rate"
)

// idleTTL is how long an unused client entry survives cleanup.
const idleTTL = 10 * time.Minute

// LimiterStore maintains per-key rate limiters and performs periodic cleanup.
type LimiterStore struct {
	mu              sync.Mutex
	limit           rate.Limit
	burst           int
	clients         map[string]*clientEntry
	cleanupInterval time.Duration
	now             func() time.Time
	stopCh          chan struct{}
	stopOnce        sync.Once
}

type clientEntry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// NewLimiterStore creates a store that lets each key spend requests events per
// window, all of which may be spent at once.
func NewLimiterStore(requests int, window time.Duration, cleanupInterval time.Duration) *LimiterStore {
	if requests <= 0 {
		requests = 60
	}
	if window <= 0 {
		window = time.Minute
	}
	if cleanupInterval <= 0 {
		cleanupInterval = time.Minute
	}
	s := &LimiterStore{
		limit:           rate.Every(window / time.Duration(requests)),
		burst:           requests,
		clients:         map[string]*clientEntry{},
		cleanupInterval: cleanupInterval,
		now:             time.Now,
		stopCh:          make(chan struct{}),
	}
	go s.cleanupLoop()
	return s
}

func (s *LimiterStore) cleanupLoop() {
	ticker := time.NewTicker(s.cleanupInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			s.cleanup()
		case <-s.stopCh:
			return
		}
	}
}

func (s *LimiterStore) cleanup() {
	cutoff := s.now().Add(-idleTTL)
	s.mu.Lock()
	defer s.mu.Unlock()
	for k, v := range s.clients {
		if v.lastSeen.Before(cutoff) {
			delete(s.clients, k)
		}
	}
}

// Stop stops the cleanup goroutine. Safe to call more than once.
func (s *LimiterStore) Stop() {
	s.stopOnce.Do(func() { close(s.stopCh) })
}

func (s *LimiterStore) getLimiter(key string) *rate.Limiter {
	s.mu.Lock()
	defer s.mu.Unlock()
	if e, ok := s.clients[key]; ok {
		e.lastSeen = s.now()
		return e.limiter
	}
	limiter := rate.NewLimiter(s.limit, s.burst)
	s.clients[key] = &clientEntry{limiter: limiter, lastSeen: s.now()}
	return limiter
}

// Allow checks whether an event for the given key is permitted.
func (s *LimiterStore) Allow(key string) bool {
	return s.getLimiter(key).Allow()
}

// Len returns the number of tracked keys.
func (s *LimiterStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.clients)
}

// RateLimit returns a gin middleware keyed by client IP. A nil store disables
// limiting.
func RateLimit(store *LimiterStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		if store == nil {
			c.Next()
			return
		}
		if !store.Allow(c.ClientIP()) {
			AbortWithError(c, apperrors.ErrTooManyRequests)
			return
		}
		c.Next()
	}
}

// RateLimiters groups the limiters used by the routes
type RateLimiters struct {
	General *LimiterStore
	Auth    *LimiterStore
	Profile *LimiterStore
}

// Stop stops every non-nil limiter
func (r *RateLimiters) Stop() {
	if r == nil {
		return
	}
	for _, s := range []*LimiterStore{r.General, r.Auth, r.Profile} {
		if s != nil {
			s.Stop()
		}
	}
}
