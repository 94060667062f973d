package db

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const expenseColumns = `id, title, amount, category, payment_method, expense_date, notes, created_by, created_at, updated_at`

func scanExpense(row interface{ Scan(...any) error }) (Expense, error) {
	var i Expense
	err := row.Scan(
		&i.ID,
		&i.Title,
		&i.Amount,
		&i.Category,
		&i.PaymentMethod,
		&i.ExpenseDate,
		&i.Notes,
		&i.CreatedBy,
		&i.CreatedAt,
		&i.UpdatedAt,
	)
	return i, err
}

const createExpense = `-- name: CreateExpense :one
INSERT INTO expenses (id, title, amount, category, payment_method, expense_date, notes, created_by)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
RETURNING ` + expenseColumns

type CreateExpenseParams struct {
	ID            uuid.UUID
	Title         string
	Amount        decimal.Decimal
	Category      string
	PaymentMethod string
	ExpenseDate   time.Time
	Notes         string
	CreatedBy     uuid.UUID
}

func (q *Queries) CreateExpense(ctx context.Context, arg CreateExpenseParams) (Expense, error) {
	row := q.db.QueryRow(ctx, createExpense,
		arg.ID,
		arg.Title,
		arg.Amount,
		arg.Category,
		arg.PaymentMethod,
		arg.ExpenseDate,
		arg.Notes,
		arg.CreatedBy,
	)
	return scanExpense(row)
}

const getExpenseForOwner = `-- name: GetExpenseForOwner :one
SELECT ` + expenseColumns + ` FROM expenses WHERE id = $1 AND created_by = $2`

type GetExpenseForOwnerParams struct {
	ID        uuid.UUID
	CreatedBy uuid.UUID
}

func (q *Queries) GetExpenseForOwner(ctx context.Context, arg GetExpenseForOwnerParams) (Expense, error) {
	return scanExpense(q.db.QueryRow(ctx, getExpenseForOwner, arg.ID, arg.CreatedBy))
}

const listExpensesByOwner = `-- name: ListExpensesByOwner :many
SELECT ` + expenseColumns + ` FROM expenses WHERE created_by = $1 ORDER BY expense_date DESC, id`

func (q *Queries) ListExpensesByOwner(ctx context.Context, createdBy uuid.UUID) ([]Expense, error) {
	rows, err := q.db.Query(ctx, listExpensesByOwner, createdBy)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	items := []Expense{}
	for rows.Next() {
		i, err := scanExpense(rows)
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

const updateExpense = `-- name: UpdateExpense :one
UPDATE expenses
SET title = $3, amount = $4, category = $5, payment_method = $6, expense_date = $7, notes = $8, updated_at = now()
WHERE id = $1 AND created_by = $2
RETURNING ` + expenseColumns

type UpdateExpenseParams struct {
	ID            uuid.UUID
	CreatedBy     uuid.UUID
	Title         string
	Amount        decimal.Decimal
	Category      string
	PaymentMethod string
	ExpenseDate   time.Time
	Notes         string
}

func (q *Queries) UpdateExpense(ctx context.Context, arg UpdateExpenseParams) (Expense, error) {
	row := q.db.QueryRow(ctx, updateExpense,
		arg.ID,
		arg.CreatedBy,
		arg.Title,
		arg.Amount,
		arg.Category,
		arg.PaymentMethod,
		arg.ExpenseDate,
		arg.Notes,
	)
	return scanExpense(row)
}

const deleteExpense = `-- name: DeleteExpense :execrows
DELETE FROM expenses WHERE id = $1 AND created_by = $2`

type DeleteExpenseParams struct {
	ID        uuid.UUID
	CreatedBy uuid.UUID
}

func (q *Queries) DeleteExpense(ctx context.Context, arg DeleteExpenseParams) (int64, error) {
	result, err := q.db.Exec(ctx, deleteExpense, arg.ID, arg.CreatedBy)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected(), nil
}
