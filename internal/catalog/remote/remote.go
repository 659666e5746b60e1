// Package remote is the HTTP adapter for the food catalog service.
package remote

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"

	"github.com/mkowalik/dailybite/internal/apiclient"
	"github.com/mkowalik/dailybite/internal/domain"
	"github.com/mkowalik/dailybite/internal/session"
)

type Catalog struct {
	api *apiclient.Client
}

func New(baseURL string, httpClient *http.Client, sess *session.Session, logger *slog.Logger) *Catalog {
	return &Catalog{api: apiclient.New(baseURL, httpClient, sess, logger)}
}

func (c *Catalog) Search(ctx context.Context, query string, allowExternal bool) ([]*domain.FoodProduct, error) {
	if query == "" {
		return nil, fmt.Errorf("%w: empty search query", domain.ErrValidation)
	}

	params := url.Values{}
	params.Set("q", query)
	if allowExternal {
		params.Set("external", "true")
	}

	var products []*domain.FoodProduct
	if err := c.api.Do(ctx, http.MethodGet, "/foods/search?"+params.Encode(), nil, &products); err != nil {
		return nil, fmt.Errorf("failed to search foods: %w", err)
	}
	return products, nil
}

func (c *Catalog) GetByBarcode(ctx context.Context, code string) (*domain.FoodProduct, error) {
	if code == "" {
		return nil, fmt.Errorf("%w: empty barcode", domain.ErrValidation)
	}

	var product domain.FoodProduct
	if err := c.api.Do(ctx, http.MethodGet, "/foods/barcode/"+url.PathEscape(code), nil, &product); err != nil {
		return nil, fmt.Errorf("failed to look up barcode %s: %w", code, err)
	}
	return &product, nil
}

func (c *Catalog) Create(ctx context.Context, dto domain.CreateProduct) (*domain.FoodProduct, error) {
	if dto.Name == "" {
		return nil, fmt.Errorf("%w: product name required", domain.ErrValidation)
	}

	var product domain.FoodProduct
	if err := c.api.Do(ctx, http.MethodPost, "/foods", dto, &product); err != nil {
		return nil, fmt.Errorf("failed to create product: %w", err)
	}
	return &product, nil
}
