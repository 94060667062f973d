package db

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const productColumns = `id, name, description, price, tax_rate, unit, COALESCE(sku, ''), stock, is_active, created_by, created_at, updated_at`

func scanProduct(row interface{ Scan(...any) error }) (Product, error) {
	var i Product
	err := row.Scan(
		&i.ID,
		&i.Name,
		&i.Description,
		&i.Price,
		&i.TaxRate,
		&i.Unit,
		&i.Sku,
		&i.Stock,
		&i.IsActive,
		&i.CreatedBy,
		&i.CreatedAt,
		&i.UpdatedAt,
	)
	return i, err
}

const createProduct = `-- name: CreateProduct :one
INSERT INTO products (id, name, description, price, tax_rate, unit, sku, stock, created_by)
VALUES ($1, $2, $3, $4, $5, $6, NULLIF($7, ''), $8, $9)
RETURNING ` + productColumns

type CreateProductParams struct {
	ID          uuid.UUID
	Name        string
	Description string
	Price       decimal.Decimal
	TaxRate     decimal.Decimal
	Unit        string
	Sku         string
	Stock       int32
	CreatedBy   uuid.UUID
}

func (q *Queries) CreateProduct(ctx context.Context, arg CreateProductParams) (Product, error) {
	row := q.db.QueryRow(ctx, createProduct,
		arg.ID,
		arg.Name,
		arg.Description,
		arg.Price,
		arg.TaxRate,
		arg.Unit,
		arg.Sku,
		arg.Stock,
		arg.CreatedBy,
	)
	return scanProduct(row)
}

const getProduct = `-- name: GetProduct :one
SELECT ` + productColumns + ` FROM products WHERE id = $1`

func (q *Queries) GetProduct(ctx context.Context, id uuid.UUID) (Product, error) {
	return scanProduct(q.db.QueryRow(ctx, getProduct, id))
}

const getProductForUpdate = `-- name: GetProductForUpdate :one
SELECT ` + productColumns + ` FROM products WHERE id = $1 FOR UPDATE`

// GetProductForUpdate locks the product row until the surrounding transaction ends.
func (q *Queries) GetProductForUpdate(ctx context.Context, id uuid.UUID) (Product, error) {
	return scanProduct(q.db.QueryRow(ctx, getProductForUpdate, id))
}

const getActiveProduct = `-- name: GetActiveProduct :one
SELECT ` + productColumns + ` FROM products WHERE id = $1 AND is_active`

func (q *Queries) GetActiveProduct(ctx context.Context, id uuid.UUID) (Product, error) {
	return scanProduct(q.db.QueryRow(ctx, getActiveProduct, id))
}

const listActiveProducts = `-- name: ListActiveProducts :many
SELECT ` + productColumns + ` FROM products WHERE is_active ORDER BY created_at DESC, id`

func (q *Queries) ListActiveProducts(ctx context.Context) ([]Product, error) {
	rows, err := q.db.Query(ctx, listActiveProducts)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	items := []Product{}
	for rows.Next() {
		i, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const updateProduct = `-- name: UpdateProduct :one
UPDATE products
SET name = $3,
    description = $4,
    price = $5,
    tax_rate = $6,
    unit = $7,
    sku = NULLIF($8, ''),
    stock = $9,
    updated_at = now()
WHERE id = $1 AND created_by = $2 AND is_active
RETURNING ` + productColumns

type UpdateProductParams struct {
	ID          uuid.UUID
	CreatedBy   uuid.UUID
	Name        string
	Description string
	Price       decimal.Decimal
	TaxRate     decimal.Decimal
	Unit        string
	Sku         string
	Stock       int32
}

// UpdateProduct rewrites an active product owned by CreatedBy.
func (q *Queries) UpdateProduct(ctx context.Context, arg UpdateProductParams) (Product, error) {
	row := q.db.QueryRow(ctx, updateProduct,
		arg.ID,
		arg.CreatedBy,
		arg.Name,
		arg.Description,
		arg.Price,
		arg.TaxRate,
		arg.Unit,
		arg.Sku,
		arg.Stock,
	)
	return scanProduct(row)
}

const deactivateProduct = `-- name: DeactivateProduct :execrows
UPDATE products SET is_active = FALSE, updated_at = now()
WHERE id = $1 AND created_by = $2 AND is_active`

type DeactivateProductParams struct {
	ID        uuid.UUID
	CreatedBy uuid.UUID
}

func (q *Queries) DeactivateProduct(ctx context.Context, arg DeactivateProductParams) (int64, error) {
	result, err := q.db.Exec(ctx, deactivateProduct, arg.ID, arg.CreatedBy)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected(), nil
}

const decrementProductStock = `-- name: DecrementProductStock :one
UPDATE products SET stock = stock - $2, updated_at = now()
WHERE id = $1 AND stock >= $2
RETURNING ` + productColumns

type DecrementProductStockParams struct {
	ID       uuid.UUID
	Quantity int32
}

// DecrementProductStock removes Quantity units. It returns pgx.ErrNoRows when
// stock is insufficient, leaving the row untouched.
func (q *Queries) DecrementProductStock(ctx context.Context, arg DecrementProductStockParams) (Product, error) {
	return scanProduct(q.db.QueryRow(ctx, decrementProductStock, arg.ID, arg.Quantity))
}
