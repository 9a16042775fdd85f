package database

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

const productColumns = `id, name, price, quantity, image_path, created_at, updated_at`

func scanProduct(row interface{ Scan(dest ...any) error }) (Product, error) {
	var p Product
	err := row.Scan(&p.ID, &p.Name, &p.Price, &p.Quantity, &p.ImagePath, &p.CreatedAt, &p.UpdatedAt)
	return p, err
}

const listProducts = `SELECT ` + productColumns + ` FROM products ORDER BY name`

func (q *Queries) ListProducts(ctx context.Context) ([]Product, error) {
	rows, err := q.db.Query(ctx, listProducts)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, p)
	}
	return items, rows.Err()
}

const getProduct = `SELECT ` + productColumns + ` FROM products WHERE id = $1`

func (q *Queries) GetProduct(ctx context.Context, id uuid.UUID) (Product, error) {
	return scanProduct(q.db.QueryRow(ctx, getProduct, id))
}

// getProductForUpdate takes a row lock so concurrent order placements
// serialize their stock check-and-decrement on the same product.
const getProductForUpdate = `SELECT ` + productColumns + ` FROM products WHERE id = $1 FOR UPDATE`

func (q *Queries) GetProductForUpdate(ctx context.Context, id uuid.UUID) (Product, error) {
	return scanProduct(q.db.QueryRow(ctx, getProductForUpdate, id))
}

const createProduct = `
INSERT INTO products (name, price, quantity, image_path)
VALUES ($1, $2, $3, $4)
RETURNING ` + productColumns

type CreateProductParams struct {
	Name      string
	Price     pgtype.Numeric
	Quantity  int32
	ImagePath pgtype.Text
}

func (q *Queries) CreateProduct(ctx context.Context, arg CreateProductParams) (Product, error) {
	return scanProduct(q.db.QueryRow(ctx, createProduct, arg.Name, arg.Price, arg.Quantity, arg.ImagePath))
}

const updateProduct = `
UPDATE products
SET name = $1, price = $2, quantity = $3, updated_at = now()
WHERE id = $4
RETURNING ` + productColumns

type UpdateProductParams struct {
	Name     string
	Price    pgtype.Numeric
	Quantity int32
	ID       uuid.UUID
}

func (q *Queries) UpdateProduct(ctx context.Context, arg UpdateProductParams) (Product, error) {
	return scanProduct(q.db.QueryRow(ctx, updateProduct, arg.Name, arg.Price, arg.Quantity, arg.ID))
}

const updateProductImage = `
UPDATE products SET image_path = $1, updated_at = now() WHERE id = $2 RETURNING id`

type UpdateProductImageParams struct {
	ImagePath pgtype.Text
	ID        uuid.UUID
}

func (q *Queries) UpdateProductImage(ctx context.Context, arg UpdateProductImageParams) (uuid.UUID, error) {
	var id uuid.UUID
	err := q.db.QueryRow(ctx, updateProductImage, arg.ImagePath, arg.ID).Scan(&id)
	return id, err
}

const deleteProduct = `DELETE FROM products WHERE id = $1 RETURNING id`

func (q *Queries) DeleteProduct(ctx context.Context, id uuid.UUID) (uuid.UUID, error) {
	var deleted uuid.UUID
	err := q.db.QueryRow(ctx, deleteProduct, id).Scan(&deleted)
	return deleted, err
}

// adjustProductStock moves quantity by a signed delta. The quantity CHECK
// constraint backstops the service-level stock validation.
const adjustProductStock = `
UPDATE products
SET quantity = quantity + $1, updated_at = now()
WHERE id = $2
RETURNING ` + productColumns

type AdjustProductStockParams struct {
	Delta int32
	ID    uuid.UUID
}

func (q *Queries) AdjustProductStock(ctx context.Context, arg AdjustProductStockParams) (Product, error) {
	return scanProduct(q.db.QueryRow(ctx, adjustProductStock, arg.Delta, arg.ID))
}

const listLowStockProducts = `
SELECT ` + productColumns + ` FROM products WHERE quantity <= $1 ORDER BY quantity, name`

func (q *Queries) ListLowStockProducts(ctx context.Context, threshold int32) ([]Product, error) {
	rows, err := q.db.Query(ctx, listLowStockProducts, threshold)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, p)
	}
	return items, rows.Err()
}
