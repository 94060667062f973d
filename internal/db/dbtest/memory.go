// Package dbtest provides an in-memory db.Store for service and handler tests.
package dbtest

import (
	"context"
	"slices"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/devaakutty/Shashi-backend/internal/db"
)

// Store mirrors the Postgres schema constraints that services rely on:
// unique phone, sku and invoice number, the stock guard, and the
// paid_amount <= total_amount check. ExecTx serialises transactions and
// restores a snapshot when fn fails.
type Store struct {
	txMu sync.Mutex
	mu   sync.Mutex
	data state

	// Now stamps created_at/updated_at. Defaults to time.Now.
	Now func() time.Time
	// FailOn makes the named method return the given error once.
	FailOn map[string]error
}

type state struct {
	products  map[uuid.UUID]db.Product
	customers map[uuid.UUID]db.Customer
	invoices  map[uuid.UUID]db.Invoice
	items     map[uuid.UUID]db.InvoiceItem
	payments  map[uuid.UUID]db.Payment
	expenses  map[uuid.UUID]db.Expense
	events    []db.DomainEvent
}

// New returns an empty store.
func New() *Store {
	return &Store{data: emptyState(), Now: time.Now}
}

func emptyState() state {
	return state{
		products:  map[uuid.UUID]db.Product{},
		customers: map[uuid.UUID]db.Customer{},
		invoices:  map[uuid.UUID]db.Invoice{},
		items:     map[uuid.UUID]db.InvoiceItem{},
		payments:  map[uuid.UUID]db.Payment{},
		expenses:  map[uuid.UUID]db.Expense{},
	}
}

func (s state) clone() state {
	out := emptyState()
	for k, v := range s.products {
		out.products[k] = v
	}
	for k, v := range s.customers {
		out.customers[k] = v
	}
	for k, v := range s.invoices {
		out.invoices[k] = v
	}
	for k, v := range s.items {
		out.items[k] = v
	}
	for k, v := range s.payments {
		out.payments[k] = v
	}
	for k, v := range s.expenses {
		out.expenses[k] = v
	}
	out.events = append([]db.DomainEvent(nil), s.events...)
	return out
}

// ExecTx implements db.Store.
func (s *Store) ExecTx(ctx context.Context, fn func(db.Querier) error) error {
	s.txMu.Lock()
	defer s.txMu.Unlock()

	s.mu.Lock()
	snapshot := s.data.clone()
	s.mu.Unlock()

	if err := fn(s); err != nil {
		s.mu.Lock()
		s.data = snapshot
		s.mu.Unlock()
		return err
	}
	return nil
}

func (s *Store) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

func (s *Store) fail(method string) error {
	if err, ok := s.FailOn[method]; ok {
		delete(s.FailOn, method)
		return err
	}
	return nil
}

func uniqueViolation(constraint string) error {
	return &pgconn.PgError{Code: "23505", ConstraintName: constraint, Message: "duplicate key value violates unique constraint"}
}

func checkViolation(constraint string) error {
	return &pgconn.PgError{Code: "23514", ConstraintName: constraint, Message: "new row violates check constraint"}
}

// Product returns the stored product, for assertions.
func (s *Store) Product(id uuid.UUID) (db.Product, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.data.products[id]
	return p, ok
}

// Invoice returns the stored invoice, for assertions.
func (s *Store) Invoice(id uuid.UUID) (db.Invoice, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i, ok := s.data.invoices[id]
	return i, ok
}

// Counts reports the number of stored invoices, payments and customers.
func (s *Store) Counts() (invoices, payments, customers int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.data.invoices), len(s.data.payments), len(s.data.customers)
}

// Events returns the persisted domain events.
func (s *Store) Events() []db.DomainEvent {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]db.DomainEvent(nil), s.data.events...)
}

// Products.

func (s *Store) CreateProduct(_ context.Context, arg db.CreateProductParams) (db.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.fail("CreateProduct"); err != nil {
		return db.Product{}, err
	}
	if arg.Sku != "" && s.skuTaken(arg.Sku, uuid.Nil) {
		return db.Product{}, uniqueViolation("products_sku_key")
	}
	if arg.Stock < 0 || arg.Price.IsNegative() || arg.TaxRate.IsNegative() {
		return db.Product{}, checkViolation("products_check")
	}
	unit := arg.Unit
	if unit == "" {
		unit = "pcs"
	}
	now := s.now()
	p := db.Product{
		ID:          arg.ID,
		Name:        arg.Name,
		Description: arg.Description,
		Price:       arg.Price.Round(2),
		TaxRate:     arg.TaxRate.Round(2),
		Unit:        unit,
		Sku:         arg.Sku,
		Stock:       arg.Stock,
		IsActive:    true,
		CreatedBy:   arg.CreatedBy,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	s.data.products[p.ID] = p
	return p, nil
}

func (s *Store) skuTaken(sku string, except uuid.UUID) bool {
	for _, p := range s.data.products {
		if p.Sku == sku && p.ID != except {
			return true
		}
	}
	return false
}

func (s *Store) GetProduct(_ context.Context, id uuid.UUID) (db.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.fail("GetProduct"); err != nil {
		return db.Product{}, err
	}
	p, ok := s.data.products[id]
	if !ok {
		return db.Product{}, pgx.ErrNoRows
	}
	return p, nil
}

func (s *Store) GetProductForUpdate(ctx context.Context, id uuid.UUID) (db.Product, error) {
	return s.GetProduct(ctx, id)
}

func (s *Store) GetActiveProduct(ctx context.Context, id uuid.UUID) (db.Product, error) {
	p, err := s.GetProduct(ctx, id)
	if err != nil {
		return db.Product{}, err
	}
	if !p.IsActive {
		return db.Product{}, pgx.ErrNoRows
	}
	return p, nil
}

func (s *Store) ListActiveProducts(_ context.Context) ([]db.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []db.Product{}
	for _, p := range s.data.products {
		if p.IsActive {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return newerFirst(out[i].CreatedAt, out[j].CreatedAt, out[i].ID, out[j].ID) })
	return out, nil
}

func (s *Store) UpdateProduct(_ context.Context, arg db.UpdateProductParams) (db.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.data.products[arg.ID]
	if !ok || p.CreatedBy != arg.CreatedBy || !p.IsActive {
		return db.Product{}, pgx.ErrNoRows
	}
	if arg.Sku != "" && s.skuTaken(arg.Sku, arg.ID) {
		return db.Product{}, uniqueViolation("products_sku_key")
	}
	if arg.Stock < 0 || arg.Price.IsNegative() || arg.TaxRate.IsNegative() {
		return db.Product{}, checkViolation("products_check")
	}
	p.Name = arg.Name
	p.Description = arg.Description
	p.Price = arg.Price.Round(2)
	p.TaxRate = arg.TaxRate.Round(2)
	p.Unit = arg.Unit
	p.Sku = arg.Sku
	p.Stock = arg.Stock
	p.UpdatedAt = s.now()
	s.data.products[p.ID] = p
	return p, nil
}

func (s *Store) DeactivateProduct(_ context.Context, arg db.DeactivateProductParams) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.data.products[arg.ID]
	if !ok || p.CreatedBy != arg.CreatedBy || !p.IsActive {
		return 0, nil
	}
	p.IsActive = false
	p.UpdatedAt = s.now()
	s.data.products[p.ID] = p
	return 1, nil
}

func (s *Store) DecrementProductStock(_ context.Context, arg db.DecrementProductStockParams) (db.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.fail("DecrementProductStock"); err != nil {
		return db.Product{}, err
	}
	p, ok := s.data.products[arg.ID]
	if !ok || p.Stock < arg.Quantity {
		return db.Product{}, pgx.ErrNoRows
	}
	p.Stock -= arg.Quantity
	p.UpdatedAt = s.now()
	s.data.products[p.ID] = p
	return p, nil
}

// Customers.

func (s *Store) phoneTaken(phone string, except uuid.UUID) bool {
	if phone == "" {
		return false
	}
	for _, c := range s.data.customers {
		if c.Phone == phone && c.ID != except {
			return true
		}
	}
	return false
}

func (s *Store) insertCustomer(arg db.CreateCustomerParams) db.Customer {
	now := s.now()
	c := db.Customer{
		ID:        arg.ID,
		Name:      arg.Name,
		Email:     arg.Email,
		Phone:     arg.Phone,
		Address:   arg.Address,
		Notes:     arg.Notes,
		CreatedBy: arg.CreatedBy,
		CreatedAt: now,
		UpdatedAt: now,
	}
	s.data.customers[c.ID] = c
	return c
}

func (s *Store) CreateCustomer(_ context.Context, arg db.CreateCustomerParams) (db.Customer, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.phoneTaken(arg.Phone, uuid.Nil) {
		return db.Customer{}, uniqueViolation("customers_phone_key")
	}
	return s.insertCustomer(arg), nil
}

func (s *Store) InsertCustomerIfPhoneAbsent(_ context.Context, arg db.CreateCustomerParams) (db.Customer, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.fail("InsertCustomerIfPhoneAbsent"); err != nil {
		return db.Customer{}, err
	}
	if s.phoneTaken(arg.Phone, uuid.Nil) {
		return db.Customer{}, pgx.ErrNoRows
	}
	return s.insertCustomer(arg), nil
}

func (s *Store) GetCustomerByPhone(_ context.Context, phone string) (db.Customer, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, c := range s.data.customers {
		if phone != "" && c.Phone == phone {
			return c, nil
		}
	}
	return db.Customer{}, pgx.ErrNoRows
}

func (s *Store) GetCustomer(_ context.Context, id uuid.UUID) (db.Customer, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.data.customers[id]
	if !ok {
		return db.Customer{}, pgx.ErrNoRows
	}
	return c, nil
}

func (s *Store) GetCustomerForOwner(ctx context.Context, arg db.GetCustomerForOwnerParams) (db.Customer, error) {
	c, err := s.GetCustomer(ctx, arg.ID)
	if err != nil {
		return db.Customer{}, err
	}
	if c.CreatedBy != arg.CreatedBy {
		return db.Customer{}, pgx.ErrNoRows
	}
	return c, nil
}

func (s *Store) ListCustomersByOwner(_ context.Context, createdBy uuid.UUID) ([]db.Customer, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []db.Customer{}
	for _, c := range s.data.customers {
		if c.CreatedBy == createdBy {
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return newerFirst(out[i].CreatedAt, out[j].CreatedAt, out[i].ID, out[j].ID) })
	return out, nil
}

func (s *Store) UpdateCustomer(_ context.Context, arg db.UpdateCustomerParams) (db.Customer, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.data.customers[arg.ID]
	if !ok || c.CreatedBy != arg.CreatedBy {
		return db.Customer{}, pgx.ErrNoRows
	}
	if s.phoneTaken(arg.Phone, arg.ID) {
		return db.Customer{}, uniqueViolation("customers_phone_key")
	}
	c.Name = arg.Name
	c.Email = arg.Email
	c.Phone = arg.Phone
	c.Address = arg.Address
	c.Notes = arg.Notes
	c.UpdatedAt = s.now()
	s.data.customers[c.ID] = c
	return c, nil
}

func (s *Store) DeleteCustomer(_ context.Context, arg db.DeleteCustomerParams) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.data.customers[arg.ID]
	if !ok || c.CreatedBy != arg.CreatedBy {
		return 0, nil
	}
	delete(s.data.customers, arg.ID)
	return 1, nil
}

func (s *Store) CountInvoicesByCustomer(_ context.Context, customerID uuid.UUID) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var n int64
	for _, inv := range s.data.invoices {
		if inv.CustomerID == customerID {
			n++
		}
	}
	return n, nil
}

// Invoices.

func (s *Store) CreateInvoice(_ context.Context, arg db.CreateInvoiceParams) (db.Invoice, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.fail("CreateInvoice"); err != nil {
		return db.Invoice{}, err
	}
	for _, inv := range s.data.invoices {
		if inv.InvoiceNumber == arg.InvoiceNumber {
			return db.Invoice{}, pgx.ErrNoRows
		}
	}
	if _, ok := s.data.customers[arg.CustomerID]; !ok {
		return db.Invoice{}, &pgconn.PgError{Code: "23503", ConstraintName: "invoices_customer_id_fkey"}
	}
	if arg.PaidAmount.GreaterThan(arg.TotalAmount) || arg.TotalAmount.IsNegative() {
		return db.Invoice{}, checkViolation("invoices_paid_within_total")
	}
	now := s.now()
	inv := db.Invoice{
		ID:            arg.ID,
		InvoiceNumber: arg.InvoiceNumber,
		CustomerID:    arg.CustomerID,
		Subtotal:      arg.Subtotal.Round(2),
		TotalTax:      arg.TotalTax.Round(2),
		Discount:      arg.Discount.Round(2),
		TotalAmount:   arg.TotalAmount.Round(2),
		PaidAmount:    arg.PaidAmount.Round(2),
		Status:        arg.Status,
		PaymentMethod: arg.PaymentMethod,
		DueDate:       arg.DueDate,
		PaidAt:        arg.PaidAt,
		Notes:         arg.Notes,
		CreatedBy:     arg.CreatedBy,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	s.data.invoices[inv.ID] = inv
	return inv, nil
}

func (s *Store) GetInvoice(_ context.Context, id uuid.UUID) (db.Invoice, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.fail("GetInvoice"); err != nil {
		return db.Invoice{}, err
	}
	inv, ok := s.data.invoices[id]
	if !ok {
		return db.Invoice{}, pgx.ErrNoRows
	}
	return inv, nil
}

func (s *Store) GetInvoiceForUpdate(ctx context.Context, id uuid.UUID) (db.Invoice, error) {
	return s.GetInvoice(ctx, id)
}

func (s *Store) ApplyInvoicePayment(_ context.Context, arg db.ApplyInvoicePaymentParams) (db.Invoice, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.fail("ApplyInvoicePayment"); err != nil {
		return db.Invoice{}, err
	}
	inv, ok := s.data.invoices[arg.ID]
	if !ok {
		return db.Invoice{}, pgx.ErrNoRows
	}
	if arg.PaidAmount.GreaterThan(inv.TotalAmount) || arg.PaidAmount.IsNegative() {
		return db.Invoice{}, checkViolation("invoices_paid_within_total")
	}
	inv.PaidAmount = arg.PaidAmount.Round(2)
	inv.Status = arg.Status
	inv.PaymentMethod = arg.PaymentMethod
	inv.PaidAt = arg.PaidAt
	inv.UpdatedAt = s.now()
	s.data.invoices[inv.ID] = inv
	return inv, nil
}

func (s *Store) withCustomer(inv db.Invoice) db.InvoiceWithCustomer {
	c := s.data.customers[inv.CustomerID]
	return db.InvoiceWithCustomer{Invoice: inv, CustomerName: c.Name, CustomerPhone: c.Phone}
}

func sortInvoices(out []db.InvoiceWithCustomer) {
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].InvoiceNumber > out[j].InvoiceNumber
	})
}

func (s *Store) ListInvoicesByOwner(_ context.Context, createdBy uuid.UUID) ([]db.InvoiceWithCustomer, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []db.InvoiceWithCustomer{}
	for _, inv := range s.data.invoices {
		if inv.CreatedBy == createdBy {
			out = append(out, s.withCustomer(inv))
		}
	}
	sortInvoices(out)
	return out, nil
}

func (s *Store) ListInvoicesCreatedBetween(_ context.Context, arg db.ListInvoicesCreatedBetweenParams) ([]db.InvoiceWithCustomer, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.fail("ListInvoicesCreatedBetween"); err != nil {
		return nil, err
	}
	out := []db.InvoiceWithCustomer{}
	for _, inv := range s.data.invoices {
		if inv.CreatedAt.Before(arg.From) || !inv.CreatedAt.Before(arg.To) {
			continue
		}
		if !slices.Contains(arg.Statuses, inv.Status) {
			continue
		}
		out = append(out, s.withCustomer(inv))
	}
	sortInvoices(out)
	return out, nil
}

func (s *Store) CreateInvoiceItem(_ context.Context, arg db.CreateInvoiceItemParams) (db.InvoiceItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.data.invoices[arg.InvoiceID]; !ok {
		return db.InvoiceItem{}, &pgconn.PgError{Code: "23503", ConstraintName: "invoice_items_invoice_id_fkey"}
	}
	for _, it := range s.data.items {
		if it.InvoiceID == arg.InvoiceID && it.Position == arg.Position {
			return db.InvoiceItem{}, uniqueViolation("invoice_items_invoice_id_position_key")
		}
	}
	it := db.InvoiceItem{
		ID:        arg.ID,
		InvoiceID: arg.InvoiceID,
		Position:  arg.Position,
		ProductID: arg.ProductID,
		Name:      arg.Name,
		Price:     arg.Price.Round(2),
		TaxRate:   arg.TaxRate.Round(2),
		Quantity:  arg.Quantity,
		TaxAmount: arg.TaxAmount.Round(2),
		Total:     arg.Total.Round(2),
	}
	s.data.items[it.ID] = it
	return it, nil
}

func (s *Store) ListInvoiceItems(ctx context.Context, invoiceID uuid.UUID) ([]db.InvoiceItem, error) {
	return s.ListInvoiceItemsForInvoices(ctx, []uuid.UUID{invoiceID})
}

func (s *Store) ListInvoiceItemsForInvoices(_ context.Context, invoiceIDs []uuid.UUID) ([]db.InvoiceItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []db.InvoiceItem{}
	for _, it := range s.data.items {
		if slices.Contains(invoiceIDs, it.InvoiceID) {
			out = append(out, it)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].InvoiceID != out[j].InvoiceID {
			return out[i].InvoiceID.String() < out[j].InvoiceID.String()
		}
		return out[i].Position < out[j].Position
	})
	return out, nil
}

// Payments.

func (s *Store) CreatePayment(_ context.Context, arg db.CreatePaymentParams) (db.Payment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.fail("CreatePayment"); err != nil {
		return db.Payment{}, err
	}
	if _, ok := s.data.invoices[arg.InvoiceID]; !ok {
		return db.Payment{}, &pgconn.PgError{Code: "23503", ConstraintName: "payments_invoice_id_fkey"}
	}
	if !arg.Amount.IsPositive() {
		return db.Payment{}, checkViolation("payments_amount_check")
	}
	p := db.Payment{
		ID:            arg.ID,
		InvoiceID:     arg.InvoiceID,
		Amount:        arg.Amount.Round(2),
		Method:        arg.Method,
		TransactionID: arg.TransactionID,
		Status:        arg.Status,
		PaidAt:        arg.PaidAt,
		CreatedBy:     arg.CreatedBy,
		CreatedAt:     s.now(),
	}
	s.data.payments[p.ID] = p
	return p, nil
}

func sortPayments[T any](out []T, get func(T) db.Payment) {
	sort.Slice(out, func(i, j int) bool {
		a, b := get(out[i]), get(out[j])
		return newerFirst(a.CreatedAt, b.CreatedAt, a.ID, b.ID)
	})
}

func (s *Store) ListPaymentsByOwner(_ context.Context, createdBy uuid.UUID) ([]db.PaymentWithInvoice, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []db.PaymentWithInvoice{}
	for _, p := range s.data.payments {
		if p.CreatedBy != createdBy {
			continue
		}
		inv := s.data.invoices[p.InvoiceID]
		out = append(out, db.PaymentWithInvoice{
			Payment:       p,
			InvoiceNumber: inv.InvoiceNumber,
			InvoiceTotal:  inv.TotalAmount,
			InvoiceStatus: inv.Status,
		})
	}
	sortPayments(out, func(p db.PaymentWithInvoice) db.Payment { return p.Payment })
	return out, nil
}

func (s *Store) ListPaymentsByInvoice(_ context.Context, arg db.ListPaymentsByInvoiceParams) ([]db.Payment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []db.Payment{}
	for _, p := range s.data.payments {
		if p.InvoiceID == arg.InvoiceID && p.CreatedBy == arg.CreatedBy {
			out = append(out, p)
		}
	}
	sortPayments(out, func(p db.Payment) db.Payment { return p })
	return out, nil
}

// Expenses.

func (s *Store) CreateExpense(_ context.Context, arg db.CreateExpenseParams) (db.Expense, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !arg.Amount.IsPositive() {
		return db.Expense{}, checkViolation("expenses_amount_check")
	}
	now := s.now()
	e := db.Expense{
		ID:            arg.ID,
		Title:         arg.Title,
		Amount:        arg.Amount.Round(2),
		Category:      arg.Category,
		PaymentMethod: arg.PaymentMethod,
		ExpenseDate:   arg.ExpenseDate,
		Notes:         arg.Notes,
		CreatedBy:     arg.CreatedBy,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	s.data.expenses[e.ID] = e
	return e, nil
}

func (s *Store) GetExpenseForOwner(_ context.Context, arg db.GetExpenseForOwnerParams) (db.Expense, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.data.expenses[arg.ID]
	if !ok || e.CreatedBy != arg.CreatedBy {
		return db.Expense{}, pgx.ErrNoRows
	}
	return e, nil
}

func (s *Store) ListExpensesByOwner(_ context.Context, createdBy uuid.UUID) ([]db.Expense, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []db.Expense{}
	for _, e := range s.data.expenses {
		if e.CreatedBy == createdBy {
			out = append(out, e)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return newerFirst(out[i].ExpenseDate, out[j].ExpenseDate, out[i].ID, out[j].ID)
	})
	return out, nil
}

func (s *Store) UpdateExpense(_ context.Context, arg db.UpdateExpenseParams) (db.Expense, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.data.expenses[arg.ID]
	if !ok || e.CreatedBy != arg.CreatedBy {
		return db.Expense{}, pgx.ErrNoRows
	}
	if !arg.Amount.IsPositive() {
		return db.Expense{}, checkViolation("expenses_amount_check")
	}
	e.Title = arg.Title
	e.Amount = arg.Amount.Round(2)
	e.Category = arg.Category
	e.PaymentMethod = arg.PaymentMethod
	e.ExpenseDate = arg.ExpenseDate
	e.Notes = arg.Notes
	e.UpdatedAt = s.now()
	s.data.expenses[e.ID] = e
	return e, nil
}

func (s *Store) DeleteExpense(_ context.Context, arg db.DeleteExpenseParams) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.data.expenses[arg.ID]
	if !ok || e.CreatedBy != arg.CreatedBy {
		return 0, nil
	}
	delete(s.data.expenses, arg.ID)
	return 1, nil
}

// Events.

func (s *Store) InsertDomainEvent(_ context.Context, arg db.InsertDomainEventParams) (db.DomainEvent, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.fail("InsertDomainEvent"); err != nil {
		return db.DomainEvent{}, err
	}
	evt := db.DomainEvent{
		ID:          arg.ID,
		Topic:       arg.Topic,
		AggregateID: arg.AggregateID,
		Payload:     append([]byte(nil), arg.Payload...),
		OccurredAt:  s.now(),
	}
	s.data.events = append(s.data.events, evt)
	return evt, nil
}

func newerFirst(a, b time.Time, idA, idB uuid.UUID) bool {
	if !a.Equal(b) {
		return a.After(b)
	}
	return idA.String() < idB.String()
}

var _ db.Store = (*Store)(nil)
