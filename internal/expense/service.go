// Package expense records business expenses.
package expense

import (
	"context"
	"fmt"
	"strings"
	"time"

	validator "github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/devaakutty/Shashi-backend/internal/common"
	"github.com/devaakutty/Shashi-backend/internal/db"
	"github.com/devaakutty/Shashi-backend/internal/pricing"
)

const (
	defaultCategory = "other"
	defaultMethod   = "cash"
)

// CreateRequest holds the fields of a new expense.
type CreateRequest struct {
	Title         string           `json:"title" validate:"required"`
	Amount        *decimal.Decimal `json:"amount" validate:"required"`
	Category      string           `json:"category" validate:"omitempty,oneof=office travel utilities marketing salary other"`
	PaymentMethod string           `json:"paymentMethod" validate:"omitempty,oneof=cash card bank_transfer upi"`
	ExpenseDate   *time.Time       `json:"expenseDate"`
	Notes         string           `json:"notes"`
}

// UpdateRequest changes only the fields that are present.
type UpdateRequest struct {
	Title         *string          `json:"title"`
	Amount        *decimal.Decimal `json:"amount"`
	Category      *string          `json:"category" validate:"omitempty,oneof=office travel utilities marketing salary other"`
	PaymentMethod *string          `json:"paymentMethod" validate:"omitempty,oneof=cash card bank_transfer upi"`
	ExpenseDate   *time.Time       `json:"expenseDate"`
	Notes         *string          `json:"notes"`
}

// View is the API representation of an expense.
type View struct {
	ID            string    `json:"id"`
	Title         string    `json:"title"`
	Amount        float64   `json:"amount"`
	Category      string    `json:"category"`
	PaymentMethod string    `json:"paymentMethod"`
	ExpenseDate   time.Time `json:"expenseDate"`
	Notes         string    `json:"notes,omitempty"`
	CreatedBy     string    `json:"createdBy"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

func newView(e db.Expense) View {
	return View{
		ID:            e.ID.String(),
		Title:         e.Title,
		Amount:        e.Amount.InexactFloat64(),
		Category:      e.Category,
		PaymentMethod: e.PaymentMethod,
		ExpenseDate:   e.ExpenseDate,
		Notes:         e.Notes,
		CreatedBy:     e.CreatedBy.String(),
		CreatedAt:     e.CreatedAt,
		UpdatedAt:     e.UpdatedAt,
	}
}

// Service implements expense CRUD scoped to the creating user.
type Service struct {
	Store    db.Store
	Validate *validator.Validate
	Now      func() time.Time
}

func (s *Service) Create(ctx context.Context, actor uuid.UUID, req CreateRequest) (View, error) {
	req.Title = strings.TrimSpace(req.Title)
	if err := common.ValidateStruct(s.Validate, req); err != nil {
		return View{}, err
	}
	amount := pricing.Round(*req.Amount)
	if err := checkAmount(amount); err != nil {
		return View{}, err
	}
	date := s.now()
	if req.ExpenseDate != nil && !req.ExpenseDate.IsZero() {
		date = *req.ExpenseDate
	}
	e, err := s.Store.CreateExpense(ctx, db.CreateExpenseParams{
		ID:            uuid.New(),
		Title:         req.Title,
		Amount:        amount,
		Category:      orDefault(req.Category, defaultCategory),
		PaymentMethod: orDefault(req.PaymentMethod, defaultMethod),
		ExpenseDate:   date,
		Notes:         req.Notes,
		CreatedBy:     actor,
	})
	if err != nil {
		return View{}, fmt.Errorf("create expense: %w", err)
	}
	return newView(e), nil
}

// List returns the actor's expenses, most recent expense date first.
func (s *Service) List(ctx context.Context, actor uuid.UUID) ([]View, error) {
	rows, err := s.Store.ListExpensesByOwner(ctx, actor)
	if err != nil {
		return nil, fmt.Errorf("list expenses: %w", err)
	}
	out := make([]View, 0, len(rows))
	for _, e := range rows {
		out = append(out, newView(e))
	}
	return out, nil
}

func (s *Service) Get(ctx context.Context, actor, id uuid.UUID) (View, error) {
	e, err := s.load(ctx, actor, id)
	if err != nil {
		return View{}, err
	}
	return newView(e), nil
}

func (s *Service) Update(ctx context.Context, actor, id uuid.UUID, req UpdateRequest) (View, error) {
	if err := common.ValidateStruct(s.Validate, req); err != nil {
		return View{}, err
	}
	current, err := s.load(ctx, actor, id)
	if err != nil {
		return View{}, err
	}
	params := db.UpdateExpenseParams{
		ID:            id,
		CreatedBy:     actor,
		Title:         current.Title,
		Amount:        current.Amount,
		Category:      current.Category,
		PaymentMethod: current.PaymentMethod,
		ExpenseDate:   current.ExpenseDate,
		Notes:         current.Notes,
	}
	if req.Title != nil {
		params.Title = strings.TrimSpace(*req.Title)
	}
	if req.Amount != nil {
		params.Amount = pricing.Round(*req.Amount)
	}
	if req.Category != nil && *req.Category != "" {
		params.Category = *req.Category
	}
	if req.PaymentMethod != nil && *req.PaymentMethod != "" {
		params.PaymentMethod = *req.PaymentMethod
	}
	if req.ExpenseDate != nil && !req.ExpenseDate.IsZero() {
		params.ExpenseDate = *req.ExpenseDate
	}
	if req.Notes != nil {
		params.Notes = *req.Notes
	}
	if params.Title == "" {
		return View{}, common.ValidationError("title is required")
	}
	if err := checkAmount(params.Amount); err != nil {
		return View{}, err
	}
	e, err := s.Store.UpdateExpense(ctx, params)
	if err != nil {
		if db.IsNotFound(err) {
			return View{}, common.NotFound("Expense not found")
		}
		return View{}, fmt.Errorf("update expense: %w", err)
	}
	return newView(e), nil
}

func (s *Service) Delete(ctx context.Context, actor, id uuid.UUID) error {
	n, err := s.Store.DeleteExpense(ctx, db.DeleteExpenseParams{ID: id, CreatedBy: actor})
	if err != nil {
		return fmt.Errorf("delete expense: %w", err)
	}
	if n == 0 {
		return common.NotFound("Expense not found")
	}
	return nil
}

func (s *Service) load(ctx context.Context, actor, id uuid.UUID) (db.Expense, error) {
	e, err := s.Store.GetExpenseForOwner(ctx, db.GetExpenseForOwnerParams{ID: id, CreatedBy: actor})
	if err != nil {
		if db.IsNotFound(err) {
			return db.Expense{}, common.NotFound("Expense not found")
		}
		return db.Expense{}, fmt.Errorf("load expense: %w", err)
	}
	return e, nil
}

func (s *Service) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

func checkAmount(amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return common.ValidationError("amount must be greater than 0")
	}
	if amount.GreaterThan(pricing.MaxAmount) {
		return common.ValidationError("amount must not exceed " + pricing.MaxAmount.StringFixed(pricing.MoneyPlaces))
	}
	return nil
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}
