package store

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"strings"

	"github.com/mkowalik/dailybite/internal/domain"
)

// ProductStore is the local sqlite cache of catalog products. It keeps
// barcode scans and recent search hits available offline; the catalog service
// stays the source of truth.
type ProductStore struct {
	db     *sql.DB
	logger *slog.Logger
}

// NewProductStore wraps an open database. A nil logger falls back to
// slog.Default.
func NewProductStore(db *sql.DB, logger *slog.Logger) *ProductStore {
	if logger == nil {
		logger = slog.Default()
	}
	return &ProductStore{db: db, logger: logger}
}

// Put upserts a product and replaces its units.
func (s *ProductStore) Put(ctx context.Context, p *domain.FoodProduct) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO products (id, name, barcode, kcal_per_100g, protein_per_100g, fat_per_100g, carbs_per_100g, gi_per_100g, cached_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			barcode = excluded.barcode,
			kcal_per_100g = excluded.kcal_per_100g,
			protein_per_100g = excluded.protein_per_100g,
			fat_per_100g = excluded.fat_per_100g,
			carbs_per_100g = excluded.carbs_per_100g,
			gi_per_100g = excluded.gi_per_100g,
			cached_at = CURRENT_TIMESTAMP
	`, p.ID, p.Name, nullableString(p.Barcode),
		p.Nutrition.KcalPer100g, p.Nutrition.ProteinPer100g, p.Nutrition.FatPer100g, p.Nutrition.CarbsPer100g,
		p.GIPer100g)
	if err != nil {
		return fmt.Errorf("failed to upsert product: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM product_units WHERE product_id = ?`, p.ID); err != nil {
		return fmt.Errorf("failed to clear product units: %w", err)
	}
	for _, u := range p.Units {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO product_units (product_id, label, grams) VALUES (?, ?, ?)
		`, p.ID, u.Label, u.Grams); err != nil {
			return fmt.Errorf("failed to insert product unit: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit: %w", err)
	}
	return nil
}

// GetByID returns the cached product or nil when it is not cached.
func (s *ProductStore) GetByID(ctx context.Context, id string) (*domain.FoodProduct, error) {
	return s.getOne(ctx, `WHERE id = ?`, id)
}

// GetByBarcode returns the cached product with the given barcode, nil on miss.
func (s *ProductStore) GetByBarcode(ctx context.Context, code string) (*domain.FoodProduct, error) {
	if code == "" {
		return nil, nil
	}
	return s.getOne(ctx, `WHERE barcode = ?`, code)
}

// Search does a case-insensitive substring match on cached product names.
func (s *ProductStore) Search(ctx context.Context, query string) ([]*domain.FoodProduct, error) {
	pattern := "%" + strings.ToLower(query) + "%"

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, barcode, kcal_per_100g, protein_per_100g, fat_per_100g, carbs_per_100g, gi_per_100g
		FROM products
		WHERE LOWER(name) LIKE ?
		ORDER BY name ASC
	`, pattern)
	if err != nil {
		return nil, fmt.Errorf("failed to search products: %w", err)
	}
	defer func() {
		if err := rows.Close(); err != nil {
			s.logger.Error("failed to close rows", "error", err)
		}
	}()

	var products []*domain.FoodProduct
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		products = append(products, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating products: %w", err)
	}

	for _, p := range products {
		if err := s.loadUnits(ctx, p); err != nil {
			return nil, err
		}
	}
	return products, nil
}

// Delete removes a cached product. Missing ids are not an error; the cache is
// best effort.
func (s *ProductStore) Delete(ctx context.Context, id string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM products WHERE id = ?`, id); err != nil {
		return fmt.Errorf("failed to delete product: %w", err)
	}
	return nil
}

func (s *ProductStore) getOne(ctx context.Context, where string, arg any) (*domain.FoodProduct, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, name, barcode, kcal_per_100g, protein_per_100g, fat_per_100g, carbs_per_100g, gi_per_100g
		FROM products `+where, arg)

	p, err := scanProduct(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if err := s.loadUnits(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *ProductStore) loadUnits(ctx context.Context, p *domain.FoodProduct) error {
	rows, err := s.db.QueryContext(ctx, `
		SELECT label, grams FROM product_units WHERE product_id = ? ORDER BY label ASC
	`, p.ID)
	if err != nil {
		return fmt.Errorf("failed to load product units: %w", err)
	}
	defer func() {
		if err := rows.Close(); err != nil {
			s.logger.Error("failed to close rows", "error", err)
		}
	}()

	for rows.Next() {
		var u domain.Unit
		if err := rows.Scan(&u.Label, &u.Grams); err != nil {
			return fmt.Errorf("failed to scan product unit: %w", err)
		}
		p.Units = append(p.Units, u)
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("error iterating product units: %w", err)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanProduct(row rowScanner) (*domain.FoodProduct, error) {
	p := &domain.FoodProduct{}
	var barcode sql.NullString
	err := row.Scan(&p.ID, &p.Name, &barcode,
		&p.Nutrition.KcalPer100g, &p.Nutrition.ProteinPer100g, &p.Nutrition.FatPer100g, &p.Nutrition.CarbsPer100g,
		&p.GIPer100g)
	if err == sql.ErrNoRows {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan product: %w", err)
	}
	p.Barcode = barcode.String
	return p, nil
}

func nullableString(s string) any {
	if s == "" {
		return nil
	}
	return s
}
