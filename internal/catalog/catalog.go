// Package catalog looks up food products by text search, barcode, or
// creation. The remote catalog service owns the data; a local sqlite cache
// keeps scans and recent hits usable offline.
package catalog

import (
	"context"

	"github.com/mkowalik/dailybite/internal/domain"
)

// Client is the food catalog contract consumed by the composer and ledger.
type Client interface {
	// Search finds products by name. allowExternal lets the service include
	// results from external providers alongside the user's own products.
	Search(ctx context.Context, query string, allowExternal bool) ([]*domain.FoodProduct, error)

	// GetByBarcode resolves a scanned barcode to a product.
	GetByBarcode(ctx context.Context, code string) (*domain.FoodProduct, error)

	// Create registers a new product and returns it with its assigned id.
	Create(ctx context.Context, dto domain.CreateProduct) (*domain.FoodProduct, error)
}
