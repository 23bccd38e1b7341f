package cache

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	gocache "github.com/patrickmn/go-cache"
	"github.com/storefront/backend/internal/domain/catalog"
	"go.uber.org/zap"
)

const allCategoriesKey = "categories:all"

// CachedCategoryRepository serves the category filter list from memory.
// Categories change rarely and are read on every catalog page.
type CachedCategoryRepository struct {
	next   catalog.CategoryRepository
	store  *gocache.Cache
	logger *zap.Logger

	hits   atomic.Int64
	misses atomic.Int64
}

// NewCachedCategoryRepository wraps next with a TTL cache
func NewCachedCategoryRepository(next catalog.CategoryRepository, ttl, cleanup time.Duration, logger *zap.Logger) *CachedCategoryRepository {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CachedCategoryRepository{
		next:   next,
		store:  gocache.New(ttl, cleanup),
		logger: logger.Named("category_cache"),
	}
}

// FindAllOrderedByName returns the cached list, loading it on a miss
func (r *CachedCategoryRepository) FindAllOrderedByName(ctx context.Context) ([]catalog.Category, error) {
	if v, ok := r.store.Get(allCategoriesKey); ok {
		r.hits.Add(1)
		return cloneCategories(v.([]catalog.Category)), nil
	}
	r.misses.Add(1)

	categories, err := r.next.FindAllOrderedByName(ctx)
	if err != nil {
		return nil, err
	}
	r.store.SetDefault(allCategoriesKey, cloneCategories(categories))
	r.logger.Debug("category list cached", zap.Int("count", len(categories)))
	return categories, nil
}

// FindByID is not cached
func (r *CachedCategoryRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.Category, error) {
	return r.next.FindByID(ctx, id)
}

// Save writes through and drops the cached list
func (r *CachedCategoryRepository) Save(ctx context.Context, category *catalog.Category) error {
	if err := r.next.Save(ctx, category); err != nil {
		return err
	}
	r.Invalidate()
	return nil
}

// Invalidate drops the cached list
func (r *CachedCategoryRepository) Invalidate() {
	r.store.Delete(allCategoriesKey)
}

// Stats returns cache hit and miss counts
func (r *CachedCategoryRepository) Stats() (hits, misses int64) {
	return r.hits.Load(), r.misses.Load()
}

func cloneCategories(in []catalog.Category) []catalog.Category {
	out := make([]catalog.Category, len(in))
	copy(out, in)
	return out
}

var _ catalog.CategoryRepository = (*CachedCategoryRepository)(nil)
