package db

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const invoiceColumns = `i.id, i.invoice_number, i.customer_id, i.subtotal, i.total_tax, i.discount, i.total_amount,
       i.paid_amount, i.status, i.payment_method, i.due_date, i.paid_at, i.notes, i.created_by, i.created_at, i.updated_at`

func invoiceFields(i *Invoice) []any {
	return []any{
		&i.ID,
		&i.InvoiceNumber,
		&i.CustomerID,
		&i.Subtotal,
		&i.TotalTax,
		&i.Discount,
		&i.TotalAmount,
		&i.PaidAmount,
		&i.Status,
		&i.PaymentMethod,
		&i.DueDate,
		&i.PaidAt,
		&i.Notes,
		&i.CreatedBy,
		&i.CreatedAt,
		&i.UpdatedAt,
	}
}

func scanInvoice(row interface{ Scan(...any) error }) (Invoice, error) {
	var i Invoice
	err := row.Scan(invoiceFields(&i)...)
	return i, err
}

const createInvoice = `-- name: CreateInvoice :one
INSERT INTO invoices AS i (
    id, invoice_number, customer_id, subtotal, total_tax, discount, total_amount,
    paid_amount, status, payment_method, due_date, paid_at, notes, created_by
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
ON CONFLICT (invoice_number) DO NOTHING
RETURNING ` + invoiceColumns

type CreateInvoiceParams struct {
	ID            uuid.UUID
	InvoiceNumber string
	CustomerID    uuid.UUID
	Subtotal      decimal.Decimal
	TotalTax      decimal.Decimal
	Discount      decimal.Decimal
	TotalAmount   decimal.Decimal
	PaidAmount    decimal.Decimal
	Status        string
	PaymentMethod string
	DueDate       time.Time
	PaidAt        *time.Time
	Notes         string
	CreatedBy     uuid.UUID
}

// CreateInvoice returns pgx.ErrNoRows when InvoiceNumber is already taken.
func (q *Queries) CreateInvoice(ctx context.Context, arg CreateInvoiceParams) (Invoice, error) {
	row := q.db.QueryRow(ctx, createInvoice,
		arg.ID,
		arg.InvoiceNumber,
		arg.CustomerID,
		arg.Subtotal,
		arg.TotalTax,
		arg.Discount,
		arg.TotalAmount,
		arg.PaidAmount,
		arg.Status,
		arg.PaymentMethod,
		arg.DueDate,
		arg.PaidAt,
		arg.Notes,
		arg.CreatedBy,
	)
	return scanInvoice(row)
}

const getInvoice = `-- name: GetInvoice :one
SELECT ` + invoiceColumns + ` FROM invoices i WHERE i.id = $1`

func (q *Queries) GetInvoice(ctx context.Context, id uuid.UUID) (Invoice, error) {
	return scanInvoice(q.db.QueryRow(ctx, getInvoice, id))
}

const getInvoiceForUpdate = `-- name: GetInvoiceForUpdate :one
SELECT ` + invoiceColumns + ` FROM invoices i WHERE i.id = $1 FOR UPDATE`

// GetInvoiceForUpdate locks the invoice row until the surrounding transaction ends.
func (q *Queries) GetInvoiceForUpdate(ctx context.Context, id uuid.UUID) (Invoice, error) {
	return scanInvoice(q.db.QueryRow(ctx, getInvoiceForUpdate, id))
}

const applyInvoicePayment = `-- name: ApplyInvoicePayment :one
UPDATE invoices AS i
SET paid_amount = $2, status = $3, payment_method = $4, paid_at = $5, updated_at = now()
WHERE i.id = $1
RETURNING ` + invoiceColumns

type ApplyInvoicePaymentParams struct {
	ID            uuid.UUID
	PaidAmount    decimal.Decimal
	Status        string
	PaymentMethod string
	PaidAt        *time.Time
}

func (q *Queries) ApplyInvoicePayment(ctx context.Context, arg ApplyInvoicePaymentParams) (Invoice, error) {
	row := q.db.QueryRow(ctx, applyInvoicePayment,
		arg.ID,
		arg.PaidAmount,
		arg.Status,
		arg.PaymentMethod,
		arg.PaidAt,
	)
	return scanInvoice(row)
}

func scanInvoiceWithCustomer(row interface{ Scan(...any) error }) (InvoiceWithCustomer, error) {
	var i InvoiceWithCustomer
	dest := append(invoiceFields(&i.Invoice), &i.CustomerName, &i.CustomerPhone)
	err := row.Scan(dest...)
	return i, err
}

func (q *Queries) listInvoicesWithCustomer(ctx context.Context, query string, args ...any) ([]InvoiceWithCustomer, error) {
	rows, err := q.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	items := []InvoiceWithCustomer{}
	for rows.Next() {
		i, err := scanInvoiceWithCustomer(rows)
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

const listInvoicesByOwner = `-- name: ListInvoicesByOwner :many
SELECT ` + invoiceColumns + `, c.name, COALESCE(c.phone, '')
FROM invoices i
JOIN customers c ON c.id = i.customer_id
WHERE i.created_by = $1
ORDER BY i.created_at DESC, i.invoice_number DESC`

func (q *Queries) ListInvoicesByOwner(ctx context.Context, createdBy uuid.UUID) ([]InvoiceWithCustomer, error) {
	return q.listInvoicesWithCustomer(ctx, listInvoicesByOwner, createdBy)
}

const listInvoicesCreatedBetween = `-- name: ListInvoicesCreatedBetween :many
SELECT ` + invoiceColumns + `, c.name, COALESCE(c.phone, '')
FROM invoices i
JOIN customers c ON c.id = i.customer_id
WHERE i.created_at >= $1 AND i.created_at < $2 AND i.status = ANY($3::text[])
ORDER BY i.created_at DESC, i.invoice_number DESC`

type ListInvoicesCreatedBetweenParams struct {
	From     time.Time
	To       time.Time
	Statuses []string
}

// ListInvoicesCreatedBetween lists invoices created in [From, To) whose status is in Statuses.
func (q *Queries) ListInvoicesCreatedBetween(ctx context.Context, arg ListInvoicesCreatedBetweenParams) ([]InvoiceWithCustomer, error) {
	return q.listInvoicesWithCustomer(ctx, listInvoicesCreatedBetween, arg.From, arg.To, arg.Statuses)
}

const itemColumns = `id, invoice_id, position, product_id, name, price, tax_rate, quantity, tax_amount, total`

func scanInvoiceItem(row interface{ Scan(...any) error }) (InvoiceItem, error) {
	var i InvoiceItem
	err := row.Scan(
		&i.ID,
		&i.InvoiceID,
		&i.Position,
		&i.ProductID,
		&i.Name,
		&i.Price,
		&i.TaxRate,
		&i.Quantity,
		&i.TaxAmount,
		&i.Total,
	)
	return i, err
}

const createInvoiceItem = `-- name: CreateInvoiceItem :one
INSERT INTO invoice_items (id, invoice_id, position, product_id, name, price, tax_rate, quantity, tax_amount, total)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
RETURNING ` + itemColumns

type CreateInvoiceItemParams struct {
	ID        uuid.UUID
	InvoiceID uuid.UUID
	Position  int32
	ProductID uuid.UUID
	Name      string
	Price     decimal.Decimal
	TaxRate   decimal.Decimal
	Quantity  int32
	TaxAmount decimal.Decimal
	Total     decimal.Decimal
}

func (q *Queries) CreateInvoiceItem(ctx context.Context, arg CreateInvoiceItemParams) (InvoiceItem, error) {
	row := q.db.QueryRow(ctx, createInvoiceItem,
		arg.ID,
		arg.InvoiceID,
		arg.Position,
		arg.ProductID,
		arg.Name,
		arg.Price,
		arg.TaxRate,
		arg.Quantity,
		arg.TaxAmount,
		arg.Total,
	)
	return scanInvoiceItem(row)
}

func (q *Queries) listItems(ctx context.Context, query string, args ...any) ([]InvoiceItem, error) {
	rows, err := q.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	items := []InvoiceItem{}
	for rows.Next() {
		i, err := scanInvoiceItem(rows)
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

const listInvoiceItems = `-- name: ListInvoiceItems :many
SELECT ` + itemColumns + ` FROM invoice_items WHERE invoice_id = $1 ORDER BY position`

func (q *Queries) ListInvoiceItems(ctx context.Context, invoiceID uuid.UUID) ([]InvoiceItem, error) {
	return q.listItems(ctx, listInvoiceItems, invoiceID)
}

const listInvoiceItemsForInvoices = `-- name: ListInvoiceItemsForInvoices :many
SELECT ` + itemColumns + ` FROM invoice_items WHERE invoice_id = ANY($1::uuid[]) ORDER BY invoice_id, position`

func (q *Queries) ListInvoiceItemsForInvoices(ctx context.Context, invoiceIDs []uuid.UUID) ([]InvoiceItem, error) {
	return q.listItems(ctx, listInvoiceItemsForInvoices, invoiceIDs)
}
