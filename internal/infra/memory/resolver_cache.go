package memory

import (
	"context"
	"math/rand"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/quizlink/quizlink/internal/domain"
)

// QuizResolver resolves a playable quiz from the backing service.
type QuizResolver interface {
	ResolveByShareCode(ctx context.Context, code string) (domain.Quiz, []domain.Question, error)
}

// ResolverCache caches share-code resolutions with TTL to avoid repeated
// store hits during play. Only successful resolutions are cached.
type ResolverCache struct {
	loader QuizResolver
	ttl    time.Duration
	clock  func() time.Time
	sf     singleflight.Group
	rnd    *rand.Rand

	mu    sync.RWMutex
	cache map[string]cachedResolution
}

type cachedResolution struct {
	quiz      domain.Quiz
	questions []domain.Question
	expiresAt time.Time
}

func NewResolverCache(loader QuizResolver, ttl time.Duration) *ResolverCache {
	return &ResolverCache{
		loader: loader,
		ttl:    ttl,
		clock:  time.Now,
		rnd:    rand.New(rand.NewSource(time.Now().UnixNano())),
		cache:  make(map[string]cachedResolution),
	}
}

func (c *ResolverCache) ResolveByShareCode(ctx context.Context, code string) (domain.Quiz, []domain.Question, error) {
	key := strings.ToUpper(strings.TrimSpace(code))
	now := c.clock()

	c.mu.RLock()
	if entry, ok := c.cache[key]; ok && entry.expiresAt.After(now) {
		c.mu.RUnlock()
		return entry.quiz, entry.questions, nil
	}
	c.mu.RUnlock()

	type resolution struct {
		quiz      domain.Quiz
		questions []domain.Question
	}
	result, err, _ := c.sf.Do(key, func() (interface{}, error) {
		now := c.clock()
		c.mu.RLock()
		if entry, ok := c.cache[key]; ok && entry.expiresAt.After(now) {
			c.mu.RUnlock()
			return resolution{entry.quiz, entry.questions}, nil
		}
		c.mu.RUnlock()

		quiz, questions, err := c.loader.ResolveByShareCode(ctx, key)
		if err != nil {
			return nil, err
		}

		c.mu.Lock()
		c.cache[key] = cachedResolution{
			quiz:      quiz,
			questions: questions,
			expiresAt: now.Add(c.ttlWithJitter()),
		}
		c.mu.Unlock()
		return resolution{quiz, questions}, nil
	})
	if err != nil {
		return domain.Quiz{}, nil, err
	}
	res := result.(resolution)
	return res.quiz, res.questions, nil
}

func (c *ResolverCache) ttlWithJitter() time.Duration {
	if c.ttl <= 0 {
		return 0
	}
	// add up to 10% jitter to spread expirations
	jitterMax := int64(c.ttl) / 10
	return c.ttl + time.Duration(c.rnd.Int63n(jitterMax+1))
}
