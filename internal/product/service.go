// Package product manages the product catalogue and its public listing.
package product

import (
	"context"
	"fmt"
	"strings"
	"time"

	validator "github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/devaakutty/Shashi-backend/internal/cache"
	"github.com/devaakutty/Shashi-backend/internal/common"
	"github.com/devaakutty/Shashi-backend/internal/db"
	"github.com/devaakutty/Shashi-backend/internal/pricing"
)

// CreateRequest holds the fields of a new product.
type CreateRequest struct {
	Name        string           `json:"name" validate:"required"`
	Description string           `json:"description"`
	Price       *decimal.Decimal `json:"price" validate:"required"`
	TaxRate     *decimal.Decimal `json:"taxRate"`
	Unit        string           `json:"unit"`
	Sku         string           `json:"sku"`
	Stock       int32            `json:"stock" validate:"gte=0"`
}

// UpdateRequest changes only the fields that are present.
type UpdateRequest struct {
	Name        *string          `json:"name"`
	Description *string          `json:"description"`
	Price       *decimal.Decimal `json:"price"`
	TaxRate     *decimal.Decimal `json:"taxRate"`
	Unit        *string          `json:"unit"`
	Sku         *string          `json:"sku"`
	Stock       *int32           `json:"stock" validate:"omitempty,gte=0"`
}

// View is the API representation of a product.
type View struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	Price       float64   `json:"price"`
	TaxRate     float64   `json:"taxRate"`
	Unit        string    `json:"unit"`
	Sku         string    `json:"sku,omitempty"`
	Stock       int32     `json:"stock"`
	IsActive    bool      `json:"isActive"`
	CreatedBy   string    `json:"createdBy"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

func newView(p db.Product) View {
	return View{
		ID:          p.ID.String(),
		Name:        p.Name,
		Description: p.Description,
		Price:       p.Price.InexactFloat64(),
		TaxRate:     p.TaxRate.InexactFloat64(),
		Unit:        p.Unit,
		Sku:         p.Sku,
		Stock:       p.Stock,
		IsActive:    p.IsActive,
		CreatedBy:   p.CreatedBy.String(),
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}

// Service implements product CRUD. The active listing is cached.
type Service struct {
	Store    db.Store
	Cache    *cache.JSON
	Validate *validator.Validate
}

// ListActive returns every active product, newest first.
func (s *Service) ListActive(ctx context.Context) ([]View, error) {
	var cached []View
	gen, genErr := s.Cache.Generation(ctx, cache.KeyActiveProducts)
	if genErr != nil {
		zerolog.Ctx(ctx).Warn().Err(genErr).Msg("product cache read failed")
	} else if ok, err := s.Cache.Get(ctx, cache.KeyActiveProducts, &cached); err != nil {
		zerolog.Ctx(ctx).Warn().Err(err).Msg("product cache read failed")
	} else if ok {
		return cached, nil
	}
	rows, err := s.Store.ListActiveProducts(ctx)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	out := make([]View, 0, len(rows))
	for _, p := range rows {
		out = append(out, newView(p))
	}
	if genErr == nil {
		if _, err := s.Cache.SetAt(ctx, cache.KeyActiveProducts, gen, out); err != nil {
			zerolog.Ctx(ctx).Warn().Err(err).Msg("product cache write failed")
		}
	}
	return out, nil
}

// GetActive returns an active product.
func (s *Service) GetActive(ctx context.Context, id uuid.UUID) (View, error) {
	p, err := s.Store.GetActiveProduct(ctx, id)
	if err != nil {
		if db.IsNotFound(err) {
			return View{}, common.NotFound("Product not found")
		}
		return View{}, fmt.Errorf("load product: %w", err)
	}
	return newView(p), nil
}

func (s *Service) Create(ctx context.Context, actor uuid.UUID, req CreateRequest) (View, error) {
	req.Name = strings.TrimSpace(req.Name)
	if err := common.ValidateStruct(s.Validate, req); err != nil {
		return View{}, err
	}
	taxRate := decimal.Zero
	if req.TaxRate != nil {
		taxRate = *req.TaxRate
	}
	if err := checkAmounts(*req.Price, taxRate); err != nil {
		return View{}, err
	}
	p, err := s.Store.CreateProduct(ctx, db.CreateProductParams{
		ID:          uuid.New(),
		Name:        req.Name,
		Description: req.Description,
		Price:       pricing.Round(*req.Price),
		TaxRate:     pricing.Round(taxRate),
		Unit:        unitOrDefault(req.Unit),
		Sku:         strings.TrimSpace(req.Sku),
		Stock:       req.Stock,
		CreatedBy:   actor,
	})
	if err != nil {
		return View{}, translate(err)
	}
	s.invalidate(ctx)
	return newView(p), nil
}

// Update edits an active product owned by actor.
func (s *Service) Update(ctx context.Context, actor, id uuid.UUID, req UpdateRequest) (View, error) {
	if err := common.ValidateStruct(s.Validate, req); err != nil {
		return View{}, err
	}
	current, err := s.Store.GetActiveProduct(ctx, id)
	if err != nil || current.CreatedBy != actor {
		if err == nil || db.IsNotFound(err) {
			return View{}, common.NotFound("Product not found")
		}
		return View{}, fmt.Errorf("load product: %w", err)
	}

	params := db.UpdateProductParams{
		ID:          id,
		CreatedBy:   actor,
		Name:        current.Name,
		Description: current.Description,
		Price:       current.Price,
		TaxRate:     current.TaxRate,
		Unit:        current.Unit,
		Sku:         current.Sku,
		Stock:       current.Stock,
	}
	if req.Name != nil {
		params.Name = strings.TrimSpace(*req.Name)
	}
	if req.Description != nil {
		params.Description = *req.Description
	}
	if req.Price != nil {
		params.Price = pricing.Round(*req.Price)
	}
	if req.TaxRate != nil {
		params.TaxRate = pricing.Round(*req.TaxRate)
	}
	if req.Unit != nil {
		params.Unit = unitOrDefault(*req.Unit)
	}
	if req.Sku != nil {
		params.Sku = strings.TrimSpace(*req.Sku)
	}
	if req.Stock != nil {
		params.Stock = *req.Stock
	}
	if params.Name == "" {
		return View{}, common.ValidationError("name is required")
	}
	if err := checkAmounts(params.Price, params.TaxRate); err != nil {
		return View{}, err
	}

	p, err := s.Store.UpdateProduct(ctx, params)
	if err != nil {
		if db.IsNotFound(err) {
			return View{}, common.NotFound("Product not found")
		}
		return View{}, translate(err)
	}
	s.invalidate(ctx)
	return newView(p), nil
}

// Delete deactivates the product. Invoices keep their snapshot of it.
func (s *Service) Delete(ctx context.Context, actor, id uuid.UUID) error {
	n, err := s.Store.DeactivateProduct(ctx, db.DeactivateProductParams{ID: id, CreatedBy: actor})
	if err != nil {
		return fmt.Errorf("deactivate product: %w", err)
	}
	if n == 0 {
		return common.NotFound("Product not found")
	}
	s.invalidate(ctx)
	return nil
}

func (s *Service) invalidate(ctx context.Context) {
	if err := s.Cache.Delete(ctx, cache.KeyActiveProducts); err != nil {
		zerolog.Ctx(ctx).Warn().Err(err).Msg("product cache invalidation failed")
	}
}

func checkAmounts(price, taxRate decimal.Decimal) error {
	if price.IsNegative() {
		return common.ValidationError("price must not be negative")
	}
	if taxRate.IsNegative() {
		return common.ValidationError("taxRate must not be negative")
	}
	if price.GreaterThan(pricing.MaxAmount) {
		return common.ValidationError("price must not exceed " + pricing.MaxAmount.StringFixed(pricing.MoneyPlaces))
	}
	if taxRate.GreaterThan(pricing.MaxTaxRate) {
		return common.ValidationError("taxRate must not exceed " + pricing.MaxTaxRate.StringFixed(pricing.MoneyPlaces))
	}
	return nil
}

func unitOrDefault(unit string) string {
	unit = strings.TrimSpace(unit)
	if unit == "" {
		return "pcs"
	}
	return unit
}

func translate(err error) error {
	if db.IsUniqueViolation(err) {
		return common.Conflict("A product with this SKU already exists")
	}
	if db.IsCheckViolation(err) {
		return common.ValidationError("amounts and stock must not be negative")
	}
	return fmt.Errorf("save product: %w", err)
}
