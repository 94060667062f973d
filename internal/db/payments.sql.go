package db

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const paymentColumns = `p.id, p.invoice_id, p.amount, p.method, p.transaction_id, p.status, p.paid_at, p.created_by, p.created_at`

func paymentFields(p *Payment) []any {
	return []any{
		&p.ID,
		&p.InvoiceID,
		&p.Amount,
		&p.Method,
		&p.TransactionID,
		&p.Status,
		&p.PaidAt,
		&p.CreatedBy,
		&p.CreatedAt,
	}
}

const createPayment = `-- name: CreatePayment :one
INSERT INTO payments AS p (id, invoice_id, amount, method, transaction_id, status, paid_at, created_by)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
RETURNING ` + paymentColumns

type CreatePaymentParams struct {
	ID            uuid.UUID
	InvoiceID     uuid.UUID
	Amount        decimal.Decimal
	Method        string
	TransactionID string
	Status        string
	PaidAt        time.Time
	CreatedBy     uuid.UUID
}

func (q *Queries) CreatePayment(ctx context.Context, arg CreatePaymentParams) (Payment, error) {
	row := q.db.QueryRow(ctx, createPayment,
		arg.ID,
		arg.InvoiceID,
		arg.Amount,
		arg.Method,
		arg.TransactionID,
		arg.Status,
		arg.PaidAt,
		arg.CreatedBy,
	)
	var p Payment
	err := row.Scan(paymentFields(&p)...)
	return p, err
}

const listPaymentsByOwner = `-- name: ListPaymentsByOwner :many
SELECT ` + paymentColumns + `, i.invoice_number, i.total_amount, i.status
FROM payments p
JOIN invoices i ON i.id = p.invoice_id
WHERE p.created_by = $1
ORDER BY p.created_at DESC, p.id`

func (q *Queries) ListPaymentsByOwner(ctx context.Context, createdBy uuid.UUID) ([]PaymentWithInvoice, error) {
	rows, err := q.db.Query(ctx, listPaymentsByOwner, createdBy)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	items := []PaymentWithInvoice{}
	for rows.Next() {
		var i PaymentWithInvoice
		dest := append(paymentFields(&i.Payment), &i.InvoiceNumber, &i.InvoiceTotal, &i.InvoiceStatus)
		if err := rows.Scan(dest...); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const listPaymentsByInvoice = `-- name: ListPaymentsByInvoice :many
SELECT ` + paymentColumns + `
FROM payments p
WHERE p.invoice_id = $1 AND p.created_by = $2
ORDER BY p.created_at DESC, p.id`

type ListPaymentsByInvoiceParams struct {
	InvoiceID uuid.UUID
	CreatedBy uuid.UUID
}

func (q *Queries) ListPaymentsByInvoice(ctx context.Context, arg ListPaymentsByInvoiceParams) ([]Payment, error) {
	rows, err := q.db.Query(ctx, listPaymentsByInvoice, arg.InvoiceID, arg.CreatedBy)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	items := []Payment{}
	for rows.Next() {
		var p Payment
		if err := rows.Scan(paymentFields(&p)...); err != nil {
			return nil, err
		}
		items = append(items, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}
