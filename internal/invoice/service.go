// Package invoice assembles invoices from carts and serves invoice reads.
package invoice

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	validator "github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/devaakutty/Shashi-backend/internal/common"
	"github.com/devaakutty/Shashi-backend/internal/db"
	"github.com/devaakutty/Shashi-backend/internal/events"
	"github.com/devaakutty/Shashi-backend/internal/inventory"
	"github.com/devaakutty/Shashi-backend/internal/obs"
	"github.com/devaakutty/Shashi-backend/internal/pricing"
)

// DefaultDueAfter is used when Service.DueAfter is unset.
const DefaultDueAfter = 7 * 24 * time.Hour

// Service creates and reads invoices.
type Service struct {
	Store    db.Store
	Ledger   inventory.Ledger
	Events   *events.Bus
	DueAfter time.Duration
	Validate *validator.Validate
	Now      func() time.Time
}

type createResult struct {
	invoice  db.Invoice
	customer db.Customer
	items    []db.InvoiceItem
	low      []inventory.Reservation
}

// Create resolves the customer, decrements stock for every line, prices the
// cart and persists the invoice in one transaction. Any failing line aborts
// the whole invoice.
func (s *Service) Create(ctx context.Context, actor uuid.UUID, req CreateRequest) (View, error) {
	if s == nil || s.Store == nil {
		return View{}, errors.New("invoice service not configured")
	}
	ctx, span := otel.Tracer("invoice.Service").Start(ctx, "InvoiceService.Create")
	defer span.End()

	result := "error"
	var total float64
	defer func() {
		span.SetAttributes(attribute.String("invoice.create.result", result))
		obs.ObserveInvoice(result, total)
	}()

	req.Customer.Name = strings.TrimSpace(req.Customer.Name)
	req.Customer.Phone = strings.TrimSpace(req.Customer.Phone)
	productIDs, err := s.validate(req)
	if err != nil {
		result = common.ErrorCode(err)
		return View{}, err
	}
	span.SetAttributes(attribute.Int("invoice.lines", len(productIDs)))

	now := s.now()
	var out createResult
	err = s.Store.ExecTx(ctx, func(q db.Querier) error {
		var txErr error
		out, txErr = s.create(ctx, q, actor, req, productIDs, now)
		return txErr
	})
	if err != nil {
		if code := common.ErrorCode(err); code != "" {
			result = code
			return View{}, err
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return View{}, fmt.Errorf("create invoice: %w", err)
	}

	result = "success"
	total = out.invoice.TotalAmount.InexactFloat64()
	span.SetAttributes(attribute.String("invoice.number", out.invoice.InvoiceNumber))
	s.publishCreated(ctx, out)
	zerolog.Ctx(ctx).Info().
		Str("invoice_number", out.invoice.InvoiceNumber).
		Str("total_amount", out.invoice.TotalAmount.StringFixed(pricing.MoneyPlaces)).
		Str("status", out.invoice.Status).
		Msg("invoice created")
	return newView(out.invoice, customerView(out.customer), out.items), nil
}

func (s *Service) validate(req CreateRequest) ([]uuid.UUID, error) {
	if err := common.ValidateStruct(s.Validate, req); err != nil {
		return nil, err
	}
	if req.Discount.IsNegative() {
		return nil, common.ValidationError("discount must not be negative")
	}
	if req.Discount.GreaterThan(pricing.MaxAmount) {
		return nil, common.ValidationError("discount must not exceed " + pricing.MaxAmount.StringFixed(pricing.MoneyPlaces))
	}
	ids := make([]uuid.UUID, 0, len(req.Items))
	for _, item := range req.Items {
		id, err := common.ParseID(item.ProductID(), "product id")
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}

func (s *Service) create(ctx context.Context, q db.Querier, actor uuid.UUID, req CreateRequest, productIDs []uuid.UUID, now time.Time) (createResult, error) {
	var out createResult
	customer, err := upsertCustomer(ctx, q, actor, req.Customer)
	if err != nil {
		return out, err
	}
	out.customer = customer

	lines := make([]pricing.Line, 0, len(req.Items))
	for i, item := range req.Items {
		res, err := s.Ledger.Decrement(ctx, q, productIDs[i], item.Qty())
		if err != nil {
			return out, err
		}
		if res.LowStock {
			out.low = append(out.low, res)
		}
		lines = append(lines, pricing.Line{
			ProductID: res.Product.ID,
			Name:      res.Product.Name,
			Quantity:  res.Quantity,
			UnitPrice: res.Product.Price,
			TaxRate:   res.Product.TaxRate,
		})
	}

	summary := pricing.Compute(lines, req.Discount)
	if !summary.Storable() {
		return out, common.ValidationError("invoice amounts must not exceed " + pricing.MaxAmount.StringFixed(pricing.MoneyPlaces))
	}
	settle := resolveSettlement(req.PaymentIntent, req.Notes, summary.TotalAmount, now)

	params := db.CreateInvoiceParams{
		ID:            uuid.New(),
		CustomerID:    customer.ID,
		Subtotal:      summary.Subtotal,
		TotalTax:      summary.TotalTax,
		Discount:      summary.Discount,
		TotalAmount:   summary.TotalAmount,
		PaidAmount:    settle.PaidAmount,
		Status:        settle.Status,
		PaymentMethod: settle.Method,
		DueDate:       now.Add(s.dueAfter()),
		PaidAt:        settle.PaidAt,
		Notes:         req.Notes,
		CreatedBy:     actor,
	}
	invoice, err := insertNumbered(ctx, q, params, now)
	if err != nil {
		return out, err
	}
	out.invoice = invoice

	for i, line := range summary.Lines {
		item, err := q.CreateInvoiceItem(ctx, db.CreateInvoiceItemParams{
			ID:        uuid.New(),
			InvoiceID: invoice.ID,
			Position:  int32(i),
			ProductID: line.ProductID,
			Name:      line.Name,
			Price:     line.UnitPrice,
			TaxRate:   line.TaxRate,
			Quantity:  int32(line.Quantity),
			TaxAmount: line.TaxAmount,
			Total:     line.Total,
		})
		if err != nil {
			return out, fmt.Errorf("insert invoice item %d: %w", i, err)
		}
		out.items = append(out.items, item)
	}

	if settle.Record {
		if _, err := q.CreatePayment(ctx, db.CreatePaymentParams{
			ID:        uuid.New(),
			InvoiceID: invoice.ID,
			Amount:    settle.PaidAmount,
			Method:    settle.Method,
			Status:    db.PaymentStatusSuccess,
			PaidAt:    now,
			CreatedBy: actor,
		}); err != nil {
			return out, fmt.Errorf("record settlement payment: %w", err)
		}
	}
	return out, nil
}

// upsertCustomer returns the customer holding the phone number, creating it
// when absent. Concurrent creators converge on the same row.
func upsertCustomer(ctx context.Context, q db.Querier, actor uuid.UUID, in CustomerInput) (db.Customer, error) {
	created, err := q.InsertCustomerIfPhoneAbsent(ctx, db.CreateCustomerParams{
		ID:        uuid.New(),
		Name:      in.Name,
		Email:     strings.TrimSpace(in.Email),
		Phone:     in.Phone,
		Address:   strings.TrimSpace(in.Address),
		CreatedBy: actor,
	})
	if err == nil {
		return created, nil
	}
	if !db.IsNotFound(err) {
		return db.Customer{}, fmt.Errorf("insert customer: %w", err)
	}
	existing, err := q.GetCustomerByPhone(ctx, in.Phone)
	if err != nil {
		return db.Customer{}, fmt.Errorf("load customer by phone: %w", err)
	}
	return existing, nil
}

func insertNumbered(ctx context.Context, q db.Querier, params db.CreateInvoiceParams, now time.Time) (db.Invoice, error) {
	for attempt := 0; attempt < maxNumberAttempts; attempt++ {
		params.InvoiceNumber = invoiceNumber(now, attempt)
		invoice, err := q.CreateInvoice(ctx, params)
		if err == nil {
			return invoice, nil
		}
		if !db.IsNotFound(err) {
			return db.Invoice{}, fmt.Errorf("insert invoice: %w", err)
		}
	}
	return db.Invoice{}, common.Conflict("could not allocate an invoice number, retry the request")
}

func (s *Service) publishCreated(ctx context.Context, out createResult) {
	inv := out.invoice
	s.Events.Publish(ctx, events.TopicInvoiceCreated, inv.ID, map[string]any{
		"invoiceNumber": inv.InvoiceNumber,
		"customerId":    inv.CustomerID.String(),
		"totalAmount":   inv.TotalAmount.StringFixed(pricing.MoneyPlaces),
		"status":        inv.Status,
		"paymentMethod": inv.PaymentMethod,
		"invoiceDate":   inv.CreatedAt,
	})
	if inv.Status == db.InvoiceStatusPaid {
		s.Events.Publish(ctx, events.TopicInvoicePaid, inv.ID, map[string]any{
			"invoiceNumber": inv.InvoiceNumber,
			"paidAmount":    inv.PaidAmount.StringFixed(pricing.MoneyPlaces),
			"invoiceDate":   inv.CreatedAt,
		})
	}
	for _, res := range out.low {
		s.Events.Publish(ctx, events.TopicStockLow, res.Product.ID, map[string]any{
			"name":      res.Product.Name,
			"remaining": res.Remaining,
		})
	}
}

// Get returns one invoice with its full customer record and items.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (View, error) {
	inv, err := s.Store.GetInvoice(ctx, id)
	if err != nil {
		if db.IsNotFound(err) {
			return View{}, common.NotFound("Invoice not found")
		}
		return View{}, fmt.Errorf("load invoice: %w", err)
	}
	customer, err := s.Store.GetCustomer(ctx, inv.CustomerID)
	if err != nil {
		return View{}, fmt.Errorf("load invoice customer: %w", err)
	}
	items, err := s.Store.ListInvoiceItems(ctx, inv.ID)
	if err != nil {
		return View{}, fmt.Errorf("load invoice items: %w", err)
	}
	return newView(inv, customerView(customer), items), nil
}

// List returns the actor's invoices, newest first.
func (s *Service) List(ctx context.Context, actor uuid.UUID) ([]View, error) {
	rows, err := s.Store.ListInvoicesByOwner(ctx, actor)
	if err != nil {
		return nil, fmt.Errorf("list invoices: %w", err)
	}
	ids := make([]uuid.UUID, 0, len(rows))
	for _, row := range rows {
		ids = append(ids, row.ID)
	}
	items, err := s.Store.ListInvoiceItemsForInvoices(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("list invoice items: %w", err)
	}
	byInvoice := make(map[uuid.UUID][]db.InvoiceItem, len(rows))
	for _, it := range items {
		byInvoice[it.InvoiceID] = append(byInvoice[it.InvoiceID], it)
	}
	out := make([]View, 0, len(rows))
	for _, row := range rows {
		customer := CustomerView{ID: row.CustomerID.String(), Name: row.CustomerName, Phone: row.CustomerPhone}
		out = append(out, newView(row.Invoice, customer, byInvoice[row.ID]))
	}
	return out, nil
}

func (s *Service) dueAfter() time.Duration {
	if s.DueAfter > 0 {
		return s.DueAfter
	}
	return DefaultDueAfter
}

func (s *Service) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}
