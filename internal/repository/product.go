package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"storefront/breadcrumbs/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const schema = `
CREATE TABLE IF NOT EXISTS product_categories (
	sku        TEXT PRIMARY KEY,
	data       JSONB NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
)`

type ProductRepository interface {
	SaveProduct(ctx context.Context, product *domain.Product) error
	GetProduct(ctx context.Context, sku string) (*domain.Product, error)
	DeleteProduct(ctx context.Context, sku string) error // no-op when absent
}

type productRepository struct {
	db *pgxpool.Pool
}

func NewProductRepository(db *pgxpool.Pool) ProductRepository {
	return &productRepository{
		db: db,
	}
}

// Migrate creates the tables the repository needs.
func Migrate(ctx context.Context, db *pgxpool.Pool) error {
	if _, err := db.Exec(ctx, schema); err != nil {
		return fmt.Errorf("failed to migrate product_categories: %w", err)
	}
	return nil
}

func (r *productRepository) SaveProduct(ctx context.Context, product *domain.Product) error {
	query := `
	INSERT INTO product_categories (sku, data, updated_at)
	VALUES ($1, $2, now())
	ON CONFLICT (sku)
	DO UPDATE SET data = $2, updated_at = now()`
	_, err := r.db.Exec(ctx, query, product.SKU, product)
	if err != nil {
		return fmt.Errorf("failed to save product %s: %w", product.SKU, err)
	}

	return nil
}

func (r *productRepository) GetProduct(ctx context.Context, sku string) (*domain.Product, error) {
	var data []byte
	err := r.db.QueryRow(ctx, `SELECT data FROM product_categories WHERE sku = $1`, sku).Scan(&data)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("sku %s: %w", sku, domain.ErrProductNotFound)
		}
		return nil, fmt.Errorf("failed to load product %s: %w", sku, err)
	}

	var product domain.Product
	if err := json.Unmarshal(data, &product); err != nil {
		return nil, fmt.Errorf("failed to decode product %s: %w", sku, err)
	}

	return &product, nil
}

func (r *productRepository) DeleteProduct(ctx context.Context, sku string) error {
	if _, err := r.db.Exec(ctx, `DELETE FROM product_categories WHERE sku = $1`, sku); err != nil {
		return fmt.Errorf("failed to delete product %s: %w", sku, err)
	}
	return nil
}
