// Package customer manages the customer directory.
package customer

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	validator "github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/devaakutty/Shashi-backend/internal/common"
	"github.com/devaakutty/Shashi-backend/internal/db"
)

// CodeHasInvoices rejects deleting a customer that invoices still reference.
const CodeHasInvoices = "CUSTOMER_HAS_INVOICES"

// CreateRequest holds the fields of a new customer.
type CreateRequest struct {
	Name    string `json:"name" validate:"required"`
	Email   string `json:"email" validate:"omitempty,email"`
	Phone   string `json:"phone"`
	Address string `json:"address"`
	Notes   string `json:"notes"`
}

// UpdateRequest changes only the fields that are present.
type UpdateRequest struct {
	Name    *string `json:"name" validate:"omitempty,min=1"`
	Email   *string `json:"email" validate:"omitempty,email"`
	Phone   *string `json:"phone"`
	Address *string `json:"address"`
	Notes   *string `json:"notes"`
}

// View is the API representation of a customer.
type View struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email,omitempty"`
	Phone     string    `json:"phone,omitempty"`
	Address   string    `json:"address,omitempty"`
	Notes     string    `json:"notes,omitempty"`
	CreatedBy string    `json:"createdBy"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func newView(c db.Customer) View {
	return View{
		ID:        c.ID.String(),
		Name:      c.Name,
		Email:     c.Email,
		Phone:     c.Phone,
		Address:   c.Address,
		Notes:     c.Notes,
		CreatedBy: c.CreatedBy.String(),
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}

// Service implements customer CRUD scoped to the creating user.
type Service struct {
	Store    db.Store
	Validate *validator.Validate
}

func (s *Service) Create(ctx context.Context, actor uuid.UUID, req CreateRequest) (View, error) {
	req.Name = strings.TrimSpace(req.Name)
	if err := common.ValidateStruct(s.Validate, req); err != nil {
		return View{}, err
	}
	c, err := s.Store.CreateCustomer(ctx, db.CreateCustomerParams{
		ID:        uuid.New(),
		Name:      req.Name,
		Email:     strings.TrimSpace(req.Email),
		Phone:     strings.TrimSpace(req.Phone),
		Address:   strings.TrimSpace(req.Address),
		Notes:     req.Notes,
		CreatedBy: actor,
	})
	if err != nil {
		return View{}, translate(err)
	}
	return newView(c), nil
}

func (s *Service) List(ctx context.Context, actor uuid.UUID) ([]View, error) {
	rows, err := s.Store.ListCustomersByOwner(ctx, actor)
	if err != nil {
		return nil, fmt.Errorf("list customers: %w", err)
	}
	out := make([]View, 0, len(rows))
	for _, c := range rows {
		out = append(out, newView(c))
	}
	return out, nil
}

func (s *Service) Get(ctx context.Context, actor, id uuid.UUID) (View, error) {
	c, err := s.load(ctx, actor, id)
	if err != nil {
		return View{}, err
	}
	return newView(c), nil
}

func (s *Service) Update(ctx context.Context, actor, id uuid.UUID, req UpdateRequest) (View, error) {
	if err := common.ValidateStruct(s.Validate, req); err != nil {
		return View{}, err
	}
	current, err := s.load(ctx, actor, id)
	if err != nil {
		return View{}, err
	}
	params := db.UpdateCustomerParams{
		ID:        id,
		CreatedBy: actor,
		Name:      merge(current.Name, req.Name),
		Email:     merge(current.Email, req.Email),
		Phone:     merge(current.Phone, req.Phone),
		Address:   merge(current.Address, req.Address),
		Notes:     merge(current.Notes, req.Notes),
	}
	if params.Name == "" {
		return View{}, common.ValidationError("name is required")
	}
	c, err := s.Store.UpdateCustomer(ctx, params)
	if err != nil {
		if db.IsNotFound(err) {
			return View{}, common.NotFound("Customer not found")
		}
		return View{}, translate(err)
	}
	return newView(c), nil
}

// Delete removes a customer that no invoice references.
func (s *Service) Delete(ctx context.Context, actor, id uuid.UUID) error {
	if _, err := s.load(ctx, actor, id); err != nil {
		return err
	}
	n, err := s.Store.CountInvoicesByCustomer(ctx, id)
	if err != nil {
		return fmt.Errorf("count customer invoices: %w", err)
	}
	if n > 0 {
		return common.NewAppError(CodeHasInvoices, "Cannot delete customer with existing invoices", http.StatusBadRequest, nil)
	}
	affected, err := s.Store.DeleteCustomer(ctx, db.DeleteCustomerParams{ID: id, CreatedBy: actor})
	if err != nil {
		return fmt.Errorf("delete customer: %w", err)
	}
	if affected == 0 {
		return common.NotFound("Customer not found")
	}
	return nil
}

func (s *Service) load(ctx context.Context, actor, id uuid.UUID) (db.Customer, error) {
	c, err := s.Store.GetCustomerForOwner(ctx, db.GetCustomerForOwnerParams{ID: id, CreatedBy: actor})
	if err != nil {
		if db.IsNotFound(err) {
			return db.Customer{}, common.NotFound("Customer not found")
		}
		return db.Customer{}, fmt.Errorf("load customer: %w", err)
	}
	return c, nil
}

func translate(err error) error {
	if db.IsUniqueViolation(err) {
		return common.Conflict("A customer with this phone number already exists")
	}
	return fmt.Errorf("save customer: %w", err)
}

func merge(current string, next *string) string {
	if next == nil {
		return current
	}
	return strings.TrimSpace(*next)
}
