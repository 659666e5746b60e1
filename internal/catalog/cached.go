package catalog

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/mkowalik/dailybite/internal/domain"
	"github.com/mkowalik/dailybite/internal/store"
)

// Cached wraps a catalog client with the local product cache: barcode lookups
// are read-through, search hits and created products are written through, and
// a transient remote failure falls back to whatever the cache holds.
type Cached struct {
	remote Client
	store  *store.ProductStore
	logger *slog.Logger
}

func NewCached(remote Client, productStore *store.ProductStore, logger *slog.Logger) *Cached {
	return &Cached{remote: remote, store: productStore, logger: logger}
}

func (c *Cached) Search(ctx context.Context, query string, allowExternal bool) ([]*domain.FoodProduct, error) {
	products, err := c.remote.Search(ctx, query, allowExternal)
	if err != nil {
		if !errors.Is(err, domain.ErrTransient) {
			return nil, err
		}
		c.logger.Warn("catalog search unreachable, serving local cache", "query", query, "error", err)
		cached, cacheErr := c.store.Search(ctx, query)
		if cacheErr != nil {
			return nil, fmt.Errorf("failed to search local cache: %w", cacheErr)
		}
		return cached, nil
	}

	for _, p := range products {
		if err := c.store.Put(ctx, p); err != nil {
			c.logger.Warn("failed to cache product", "product_id", p.ID, "error", err)
		}
	}
	return products, nil
}

func (c *Cached) GetByBarcode(ctx context.Context, code string) (*domain.FoodProduct, error) {
	cached, err := c.store.GetByBarcode(ctx, code)
	if err != nil {
		c.logger.Warn("failed to read product cache", "barcode", code, "error", err)
	}
	if cached != nil {
		return cached, nil
	}

	product, err := c.remote.GetByBarcode(ctx, code)
	if err != nil {
		return nil, err
	}
	if err := c.store.Put(ctx, product); err != nil {
		c.logger.Warn("failed to cache product", "product_id", product.ID, "error", err)
	}
	return product, nil
}

func (c *Cached) Create(ctx context.Context, dto domain.CreateProduct) (*domain.FoodProduct, error) {
	product, err := c.remote.Create(ctx, dto)
	if err != nil {
		return nil, err
	}
	if err := c.store.Put(ctx, product); err != nil {
		c.logger.Warn("failed to cache product", "product_id", product.ID, "error", err)
	}
	return product, nil
}
