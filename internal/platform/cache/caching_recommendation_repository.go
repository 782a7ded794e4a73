// Package cache provides caching implementations for repository interfaces.
package cache

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"news_backend/internal/feature/recommendation/domain/entity"
	"news_backend/internal/feature/recommendation/usecase"
)

// CachingRecommendationRepository decorates a RecommendationRepository with
// Redis caching. It implements the decorator pattern, transparently adding
// caching without modifying the underlying repository. Reads by date and the
// latest-report lookup are cached; writes invalidate the affected entries.
type CachingRecommendationRepository struct {
	inner     usecase.RecommendationRepository
	rdb       *redis.Client
	ttl       time.Duration
	namespace string
}

// NewCachingRecommendationRepository decorates a RecommendationRepository with
// Redis caching. If ttl is 0, it defaults to 1 hour. If namespace is empty,
// it uses "recommendations".
func NewCachingRecommendationRepository(rdb *redis.Client, ttl time.Duration, inner usecase.RecommendationRepository, namespace string) *CachingRecommendationRepository {
	if ttl <= 0 {
		ttl = time.Hour
	}
	if namespace == "" {
		namespace = "recommendations"
	}
	return &CachingRecommendationRepository{
		inner:     inner,
		rdb:       rdb,
		ttl:       ttl,
		namespace: namespace,
	}
}

var _ usecase.RecommendationRepository = (*CachingRecommendationRepository)(nil)

// SaveGraph persists the recommendation and invalidates related cache entries.
func (c *CachingRecommendationRepository) SaveGraph(ctx context.Context, rec *entity.DailyInvestmentRecommendation) error {
	if err := c.inner.SaveGraph(ctx, rec); err != nil {
		return err
	}
	if c.rdb == nil || rec == nil {
		return nil
	}
	// Best effort: don't fail the write if cache invalidation fails
	_ = c.rdb.Del(ctx, c.dateKey(rec.Date), c.latestKey()).Err()
	return nil
}

// FindByDate retrieves a recommendation, checking cache first then falling
// back to the database. Absence (nil, nil) is not cached.
func (c *CachingRecommendationRepository) FindByDate(ctx context.Context, date string) (*entity.DailyInvestmentRecommendation, error) {
	if c.rdb == nil {
		return c.inner.FindByDate(ctx, date)
	}

	key := c.dateKey(date)
	if rec, ok := c.lookup(ctx, key); ok {
		return rec, nil
	}

	rec, err := c.inner.FindByDate(ctx, date)
	if err != nil || rec == nil {
		return rec, err
	}
	c.store(ctx, key, rec)
	return rec, nil
}

// FindLatest retrieves the most recent recommendation, checking cache first.
func (c *CachingRecommendationRepository) FindLatest(ctx context.Context) (*entity.DailyInvestmentRecommendation, error) {
	if c.rdb == nil {
		return c.inner.FindLatest(ctx)
	}

	key := c.latestKey()
	if rec, ok := c.lookup(ctx, key); ok {
		return rec, nil
	}

	rec, err := c.inner.FindLatest(ctx)
	if err != nil {
		return nil, err
	}
	c.store(ctx, key, rec)
	return rec, nil
}

// FindAll always goes to the database; full listings are not cached.
func (c *CachingRecommendationRepository) FindAll(ctx context.Context) ([]entity.DailyInvestmentRecommendation, error) {
	return c.inner.FindAll(ctx)
}

func (c *CachingRecommendationRepository) lookup(ctx context.Context, key string) (*entity.DailyInvestmentRecommendation, bool) {
	b, err := c.rdb.Get(ctx, key).Bytes()
	if err != nil || len(b) == 0 {
		return nil, false
	}
	var rec entity.DailyInvestmentRecommendation
	if err := json.Unmarshal(b, &rec); err != nil {
		// Delete corrupted cache entry
		_ = c.rdb.Del(ctx, key).Err()
		return nil, false
	}
	return &rec, true
}

func (c *CachingRecommendationRepository) store(ctx context.Context, key string, rec *entity.DailyInvestmentRecommendation) {
	if b, err := json.Marshal(rec); err == nil {
		_ = c.rdb.Set(ctx, key, b, c.ttl).Err()
	}
}

func (c *CachingRecommendationRepository) dateKey(date string) string {
	return c.namespace + ":date:" + safe(date)
}

func (c *CachingRecommendationRepository) latestKey() string {
	return c.namespace + ":latest"
}

// safe escapes characters that are problematic for Redis keys.
func safe(s string) string {
	s = strings.ReplaceAll(s, " ", "_")
	s = strings.ReplaceAll(s, ":", "_")
	return s
}
