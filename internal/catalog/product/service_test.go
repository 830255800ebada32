// Copyright (c) 2026 Shoply. All rights reserved.
// Author: minh.phamquang.vn@gmail.com

package product_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phamquangminh/shoply/internal/catalog/product"
	"github.com/phamquangminh/shoply/internal/platform/apperr"
	"github.com/phamquangminh/shoply/pkg/pagination"
	"github.com/phamquangminh/shoply/pkg/pointer"
)

// memoryProductRepository is an in-memory [product.ProductRepository] that
// counts reads so the caching tests can observe fallback traffic.
type memoryProductRepository struct {
	products map[string]*product.Product
	reads    int
}

func newMemoryProductRepository() *memoryProductRepository {
	return &memoryProductRepository{products: make(map[string]*product.Product)}
}

func (r *memoryProductRepository) Create(_ context.Context, p *product.Product) error {
	for _, existing := range r.products {
		if existing.Slug == p.Slug {
			return apperr.Conflict("Product already exists")
		}
	}
	clone := *p
	r.products[p.ID] = &clone
	return nil
}

func (r *memoryProductRepository) GetByID(_ context.Context, id string) (*product.Product, error) {
	r.reads++
	p, ok := r.products[id]
	if !ok {
		return nil, apperr.NotFound("Product")
	}
	clone := *p
	return &clone, nil
}

func (r *memoryProductRepository) GetByIDs(_ context.Context, ids []string) ([]product.Product, error) {
	found := make([]product.Product, 0, len(ids))
	for _, id := range ids {
		if p, ok := r.products[id]; ok {
			found = append(found, *p)
		}
	}
	return found, nil
}

func (r *memoryProductRepository) List(_ context.Context, _ pagination.Params) ([]product.Product, int, error) {
	all := make([]product.Product, 0, len(r.products))
	for _, p := range r.products {
		all = append(all, *p)
	}
	return all, len(all), nil
}

func (r *memoryProductRepository) ListByOwner(_ context.Context, ownerID string, _ pagination.Params) ([]product.Product, int, error) {
	owned := make([]product.Product, 0)
	for _, p := range r.products {
		if p.OwnerID == ownerID {
			owned = append(owned, *p)
		}
	}
	return owned, len(owned), nil
}

func (r *memoryProductRepository) Update(_ context.Context, p *product.Product) error {
	if _, ok := r.products[p.ID]; !ok {
		return apperr.NotFound("Product")
	}
	clone := *p
	r.products[p.ID] = &clone
	return nil
}

func (r *memoryProductRepository) Delete(_ context.Context, id string) error {
	if _, ok := r.products[id]; !ok {
		return apperr.NotFound("Product")
	}
	delete(r.products, id)
	return nil
}

// memoryProductCache is an in-memory [product.ProductCache].
type memoryProductCache struct {
	entries map[string]product.Product
}

func newMemoryProductCache() *memoryProductCache {
	return &memoryProductCache{entries: make(map[string]product.Product)}
}

func (c *memoryProductCache) Get(_ context.Context, id string) (*product.Product, error) {
	p, ok := c.entries[id]
	if !ok {
		return nil, apperr.NotFound("Product")
	}
	return &p, nil
}

func (c *memoryProductCache) Set(_ context.Context, p *product.Product) error {
	c.entries[p.ID] = *p
	return nil
}

func (c *memoryProductCache) Invalidate(_ context.Context, id string) error {
	delete(c.entries, id)
	return nil
}

// # Tests

/*
TestService_Create verifies listing construction and slug derivation.
*/
func TestService_Create(t *testing.T) {
	repo := newMemoryProductRepository()
	service := product.NewService(repo, nil)
	ctx := context.Background()

	created, err := service.Create(ctx, "seller-1", product.CreateInput{
		Title:       "  Noise Cancelling Headphones!  ",
		Description: "Over-ear, 30h battery",
		Price:       249.99,
		Stock:       12,
	})
	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, "seller-1", created.OwnerID)
	assert.Equal(t, "Noise Cancelling Headphones!", created.Title)
	assert.Equal(t, "noise-cancelling-headphones", created.Slug)

	t.Run("identical_title_conflicts", func(t *testing.T) {
		_, err := service.Create(ctx, "seller-2", product.CreateInput{
			Title: "Noise Cancelling Headphones!", Price: 199, Stock: 3,
		})
		assert.True(t, apperr.IsCode(err, "CONFLICT"))
	})
}

/*
TestService_Get verifies read-through caching: the first read falls back to
the repository and repopulates the projection, later reads never touch it.
*/
func TestService_Get(t *testing.T) {
	repo := newMemoryProductRepository()
	cache := newMemoryProductCache()
	service := product.NewService(repo, cache)
	ctx := context.Background()

	created, err := service.Create(ctx, "seller-1", product.CreateInput{
		Title: "Mechanical Keyboard", Price: 99, Stock: 5,
	})
	require.NoError(t, err)

	first, err := service.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.ID, first.ID)
	assert.Equal(t, 1, repo.reads)

	second, err := service.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, first.Slug, second.Slug)
	assert.Equal(t, 1, repo.reads, "second read should be served from cache")

	t.Run("unknown_id_not_found", func(t *testing.T) {
		_, err := service.Get(ctx, "missing")
		assert.True(t, apperr.IsNotFound(err))
	})

	t.Run("nil_cache_reads_repository", func(t *testing.T) {
		uncached := product.NewService(repo, nil)
		before := repo.reads
		_, err := uncached.Get(ctx, created.ID)
		require.NoError(t, err)
		assert.Equal(t, before+1, repo.reads)
	})
}

/*
TestService_Update verifies ownership enforcement, slug regeneration, and
cache invalidation.
*/
func TestService_Update(t *testing.T) {
	repo := newMemoryProductRepository()
	cache := newMemoryProductCache()
	service := product.NewService(repo, cache)
	ctx := context.Background()

	created, err := service.Create(ctx, "seller-1", product.CreateInput{
		Title: "USB Microphone", Price: 79, Stock: 8,
	})
	require.NoError(t, err)

	// Warm the projection
	_, err = service.Get(ctx, created.ID)
	require.NoError(t, err)

	t.Run("non_owner_forbidden", func(t *testing.T) {
		_, err := service.Update(ctx, "seller-2", created.ID, product.UpdateInput{Price: pointer.To(59.0)})
		assert.True(t, apperr.IsCode(err, "FORBIDDEN"))
	})

	t.Run("nil_fields_left_untouched", func(t *testing.T) {
		updated, err := service.Update(ctx, "seller-1", created.ID, product.UpdateInput{Price: pointer.To(69.0)})
		require.NoError(t, err)
		assert.Equal(t, 69.0, updated.Price)
		assert.Equal(t, "USB Microphone", updated.Title)
		assert.Equal(t, "usb-microphone", updated.Slug)
		assert.Equal(t, 8, updated.Stock)
	})

	t.Run("title_change_regenerates_slug_and_invalidates", func(t *testing.T) {
		updated, err := service.Update(ctx, "seller-1", created.ID, product.UpdateInput{
			Title: pointer.To("USB Studio Microphone"),
		})
		require.NoError(t, err)
		assert.Equal(t, "usb-studio-microphone", updated.Slug)

		_, err = cache.Get(ctx, created.ID)
		assert.True(t, apperr.IsNotFound(err), "stale projection should be gone")
	})

	t.Run("unknown_id_not_found", func(t *testing.T) {
		_, err := service.Update(ctx, "seller-1", "missing", product.UpdateInput{Stock: pointer.To(1)})
		assert.True(t, apperr.IsNotFound(err))
	})
}

/*
TestService_Delete verifies ownership enforcement and cache invalidation.
*/
func TestService_Delete(t *testing.T) {
	repo := newMemoryProductRepository()
	cache := newMemoryProductCache()
	service := product.NewService(repo, cache)
	ctx := context.Background()

	created, err := service.Create(ctx, "seller-1", product.CreateInput{
		Title: "Webcam", Price: 49, Stock: 20,
	})
	require.NoError(t, err)
	_, err = service.Get(ctx, created.ID)
	require.NoError(t, err)

	assert.True(t, apperr.IsCode(service.Delete(ctx, "seller-2", created.ID), "FORBIDDEN"))

	require.NoError(t, service.Delete(ctx, "seller-1", created.ID))
	_, err = service.Get(ctx, created.ID)
	assert.True(t, apperr.IsNotFound(err))
	_, err = cache.Get(ctx, created.ID)
	assert.True(t, apperr.IsNotFound(err))
}

/*
TestService_ProductsByIDs verifies wishlist hydration drops dangling
references silently.
*/
func TestService_ProductsByIDs(t *testing.T) {
	repo := newMemoryProductRepository()
	service := product.NewService(repo, nil)
	ctx := context.Background()

	created, err := service.Create(ctx, "seller-1", product.CreateInput{
		Title: "Desk Lamp", Price: 25, Stock: 40, Image: "lamp.jpg",
	})
	require.NoError(t, err)

	resolved, err := service.ProductsByIDs(ctx, []string{created.ID, "deleted-long-ago"})
	require.NoError(t, err)
	require.Len(t, resolved, 1)
	assert.Equal(t, created.ID, resolved[0].ID)
	assert.Equal(t, "desk-lamp", resolved[0].Slug)
	assert.Equal(t, 25.0, resolved[0].Price)
	assert.Equal(t, "lamp.jpg", resolved[0].Image)
}
