// Package analytics derives dashboard and report aggregates from the purchase
// ledgers and the catalog. Every operation is read only and degrades to an
// empty or zero result instead of erroring on empty data.
package analytics

import (
	"context"
	"time"
)

// Service coordinates aggregation query execution with the cache layer.
type Service struct {
	repo  Repository
	cache *Cache
	now   func() time.Time
}

// NewService wires a Repository with a Cache helper.
func NewService(repo Repository, cache *Cache) *Service {
	return &Service{repo: repo, cache: cache, now: time.Now}
}

// WithNow overrides the service clock for testing.
func (s *Service) WithNow(fn func() time.Time) {
	if fn != nil {
		s.now = fn
	}
}

// Bump invalidates all cached aggregates. Ledger writers call this after a
// successful append.
func (s *Service) Bump(ctx context.Context) error {
	return s.cache.Bump(ctx)
}

// cached runs loader through the versioned cache when one is configured.
func cached[T any](ctx context.Context, s *Service, keyBase string, loader func(context.Context) (T, error)) (T, error) {
	var zero T
	wrapped := func(ctx context.Context) (interface{}, error) {
		return loader(ctx)
	}
	if s.cache == nil {
		value, err := loader(ctx)
		if err != nil {
			return zero, err
		}
		return value, nil
	}
	key, err := s.cache.BuildKey(ctx, keyBase)
	if err != nil {
		return zero, err
	}
	var out T
	if err := s.cache.FetchJSON(ctx, key, &out, wrapped); err != nil {
		return zero, err
	}
	return out, nil
}

// monthWindowStart returns the first day of the month monthsBack-1 months
// before now, so a 12 month window includes the current month.
func (s *Service) monthWindowStart(monthsBack int) time.Time {
	if monthsBack <= 0 {
		monthsBack = defaultTrendMonths
	}
	now := s.now().UTC()
	firstOfMonth := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	return firstOfMonth.AddDate(0, -(monthsBack - 1), 0)
}

const defaultTrendMonths = 12
