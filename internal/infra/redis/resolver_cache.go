package redis

import (
	"context"
	"encoding/json"
	"math/rand"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"

	"github.com/quizlink/quizlink/internal/domain"
)

// QuizResolver resolves a playable quiz from the backing service.
type QuizResolver interface {
	ResolveByShareCode(ctx context.Context, code string) (domain.Quiz, []domain.Question, error)
}

// ResolverCache caches share-code resolutions in Redis as a JSON blob per
// code: SET quiz:code:{CODE} {quiz+questions}. Misses fall back to the
// loader behind a singleflight group.
type ResolverCache struct {
	client *redis.Client
	loader QuizResolver
	ttl    time.Duration
	sf     singleflight.Group
	rnd    *rand.Rand
}

type cachedResolution struct {
	Quiz      domain.Quiz       `json:"quiz"`
	Questions []domain.Question `json:"questions"`
}

func NewResolverCache(client *redis.Client, loader QuizResolver, ttl time.Duration) *ResolverCache {
	return &ResolverCache{
		client: client,
		loader: loader,
		ttl:    ttl,
		rnd:    rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

func (c *ResolverCache) ResolveByShareCode(ctx context.Context, code string) (domain.Quiz, []domain.Question, error) {
	key := c.key(code)

	if raw, err := c.client.Get(ctx, key).Result(); err == nil {
		var entry cachedResolution
		if err := json.Unmarshal([]byte(raw), &entry); err == nil {
			return entry.Quiz, entry.Questions, nil
		}
	}

	result, err, _ := c.sf.Do(key, func() (interface{}, error) {
		// Re-check cache in case another goroutine filled it.
		if raw, err := c.client.Get(ctx, key).Result(); err == nil {
			var entry cachedResolution
			if err := json.Unmarshal([]byte(raw), &entry); err == nil {
				return entry, nil
			}
		}

		quiz, questions, err := c.loader.ResolveByShareCode(ctx, code)
		if err != nil {
			return nil, err
		}

		entry := cachedResolution{Quiz: quiz, Questions: questions}
		if raw, err := json.Marshal(entry); err == nil {
			// best-effort cache fill
			_ = c.client.Set(ctx, key, raw, c.ttlWithJitter()).Err()
		}
		return entry, nil
	})
	if err != nil {
		return domain.Quiz{}, nil, err
	}
	entry := result.(cachedResolution)
	return entry.Quiz, entry.Questions, nil
}

func (c *ResolverCache) key(code string) string {
	return "quiz:code:" + strings.ToUpper(strings.TrimSpace(code))
}

func (c *ResolverCache) ttlWithJitter() time.Duration {
	if c.ttl <= 0 {
		return 0
	}
	jitterMax := int64(c.ttl) / 10
	return c.ttl + time.Duration(c.rnd.Int63n(jitterMax+1))
}
