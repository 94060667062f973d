package db

import (
	"context"

	"github.com/google/uuid"
)

const customerColumns = `id, name, email, COALESCE(phone, ''), address, notes, created_by, created_at, updated_at`

func scanCustomer(row interface{ Scan(...any) error }) (Customer, error) {
	var i Customer
	err := row.Scan(
		&i.ID,
		&i.Name,
		&i.Email,
		&i.Phone,
		&i.Address,
		&i.Notes,
		&i.CreatedBy,
		&i.CreatedAt,
		&i.UpdatedAt,
	)
	return i, err
}

type CreateCustomerParams struct {
	ID        uuid.UUID
	Name      string
	Email     string
	Phone     string
	Address   string
	Notes     string
	CreatedBy uuid.UUID
}

const createCustomer = `-- name: CreateCustomer :one
INSERT INTO customers (id, name, email, phone, address, notes, created_by)
VALUES ($1, $2, $3, NULLIF($4, ''), $5, $6, $7)
RETURNING ` + customerColumns

func (q *Queries) CreateCustomer(ctx context.Context, arg CreateCustomerParams) (Customer, error) {
	row := q.db.QueryRow(ctx, createCustomer,
		arg.ID,
		arg.Name,
		arg.Email,
		arg.Phone,
		arg.Address,
		arg.Notes,
		arg.CreatedBy,
	)
	return scanCustomer(row)
}

const insertCustomerIfPhoneAbsent = `-- name: InsertCustomerIfPhoneAbsent :one
INSERT INTO customers (id, name, email, phone, address, notes, created_by)
VALUES ($1, $2, $3, NULLIF($4, ''), $5, $6, $7)
ON CONFLICT (phone) WHERE phone IS NOT NULL DO NOTHING
RETURNING ` + customerColumns

// InsertCustomerIfPhoneAbsent returns pgx.ErrNoRows when another customer
// already holds the phone number.
func (q *Queries) InsertCustomerIfPhoneAbsent(ctx context.Context, arg CreateCustomerParams) (Customer, error) {
	row := q.db.QueryRow(ctx, insertCustomerIfPhoneAbsent,
		arg.ID,
		arg.Name,
		arg.Email,
		arg.Phone,
		arg.Address,
		arg.Notes,
		arg.CreatedBy,
	)
	return scanCustomer(row)
}

const getCustomerByPhone = `-- name: GetCustomerByPhone :one
SELECT ` + customerColumns + ` FROM customers WHERE phone = $1`

func (q *Queries) GetCustomerByPhone(ctx context.Context, phone string) (Customer, error) {
	return scanCustomer(q.db.QueryRow(ctx, getCustomerByPhone, phone))
}

const getCustomer = `-- name: GetCustomer :one
SELECT ` + customerColumns + ` FROM customers WHERE id = $1`

func (q *Queries) GetCustomer(ctx context.Context, id uuid.UUID) (Customer, error) {
	return scanCustomer(q.db.QueryRow(ctx, getCustomer, id))
}

const getCustomerForOwner = `-- name: GetCustomerForOwner :one
SELECT ` + customerColumns + ` FROM customers WHERE id = $1 AND created_by = $2`

type GetCustomerForOwnerParams struct {
	ID        uuid.UUID
	CreatedBy uuid.UUID
}

func (q *Queries) GetCustomerForOwner(ctx context.Context, arg GetCustomerForOwnerParams) (Customer, error) {
	return scanCustomer(q.db.QueryRow(ctx, getCustomerForOwner, arg.ID, arg.CreatedBy))
}

const listCustomersByOwner = `-- name: ListCustomersByOwner :many
SELECT ` + customerColumns + ` FROM customers WHERE created_by = $1 ORDER BY created_at DESC, id`

func (q *Queries) ListCustomersByOwner(ctx context.Context, createdBy uuid.UUID) ([]Customer, error) {
	rows, err := q.db.Query(ctx, listCustomersByOwner, createdBy)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	items := []Customer{}
	for rows.Next() {
		i, err := scanCustomer(rows)
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

const updateCustomer = `-- name: UpdateCustomer :one
UPDATE customers
SET name = $3, email = $4, phone = NULLIF($5, ''), address = $6, notes = $7, updated_at = now()
WHERE id = $1 AND created_by = $2
RETURNING ` + customerColumns

type UpdateCustomerParams struct {
	ID        uuid.UUID
	CreatedBy uuid.UUID
	Name      string
	Email     string
	Phone     string
	Address   string
	Notes     string
}

func (q *Queries) UpdateCustomer(ctx context.Context, arg UpdateCustomerParams) (Customer, error) {
	row := q.db.QueryRow(ctx, updateCustomer,
		arg.ID,
		arg.CreatedBy,
		arg.Name,
		arg.Email,
		arg.Phone,
		arg.Address,
		arg.Notes,
	)
	return scanCustomer(row)
}

const deleteCustomer = `-- name: DeleteCustomer :execrows
DELETE FROM customers WHERE id = $1 AND created_by = $2`

type DeleteCustomerParams struct {
	ID        uuid.UUID
	CreatedBy uuid.UUID
}

func (q *Queries) DeleteCustomer(ctx context.Context, arg DeleteCustomerParams) (int64, error) {
	result, err := q.db.Exec(ctx, deleteCustomer, arg.ID, arg.CreatedBy)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected(), nil
}

const countInvoicesByCustomer = `-- name: CountInvoicesByCustomer :one
SELECT count(*) FROM invoices WHERE customer_id = $1`

func (q *Queries) CountInvoicesByCustomer(ctx context.Context, customerID uuid.UUID) (int64, error) {
	var count int64
	err := q.db.QueryRow(ctx, countInvoicesByCustomer, customerID).Scan(&count)
	return count, err
}
