package db

import (
	"context"

	"github.com/google/uuid"
)

// Querier is the full set of billing statements.
type Querier interface {
	CreateProduct(ctx context.Context, arg CreateProductParams) (Product, error)
	GetProduct(ctx context.Context, id uuid.UUID) (Product, error)
	GetProductForUpdate(ctx context.Context, id uuid.UUID) (Product, error)
	GetActiveProduct(ctx context.Context, id uuid.UUID) (Product, error)
	ListActiveProducts(ctx context.Context) ([]Product, error)
	UpdateProduct(ctx context.Context, arg UpdateProductParams) (Product, error)
	DeactivateProduct(ctx context.Context, arg DeactivateProductParams) (int64, error)
	DecrementProductStock(ctx context.Context, arg DecrementProductStockParams) (Product, error)

	CreateCustomer(ctx context.Context, arg CreateCustomerParams) (Customer, error)
	InsertCustomerIfPhoneAbsent(ctx context.Context, arg CreateCustomerParams) (Customer, error)
	GetCustomerByPhone(ctx context.Context, phone string) (Customer, error)
	GetCustomer(ctx context.Context, id uuid.UUID) (Customer, error)
	GetCustomerForOwner(ctx context.Context, arg GetCustomerForOwnerParams) (Customer, error)
	ListCustomersByOwner(ctx context.Context, createdBy uuid.UUID) ([]Customer, error)
	UpdateCustomer(ctx context.Context, arg UpdateCustomerParams) (Customer, error)
	DeleteCustomer(ctx context.Context, arg DeleteCustomerParams) (int64, error)
	CountInvoicesByCustomer(ctx context.Context, customerID uuid.UUID) (int64, error)

	CreateInvoice(ctx context.Context, arg CreateInvoiceParams) (Invoice, error)
	GetInvoice(ctx context.Context, id uuid.UUID) (Invoice, error)
	GetInvoiceForUpdate(ctx context.Context, id uuid.UUID) (Invoice, error)
	ApplyInvoicePayment(ctx context.Context, arg ApplyInvoicePaymentParams) (Invoice, error)
	ListInvoicesByOwner(ctx context.Context, createdBy uuid.UUID) ([]InvoiceWithCustomer, error)
	ListInvoicesCreatedBetween(ctx context.Context, arg ListInvoicesCreatedBetweenParams) ([]InvoiceWithCustomer, error)
	CreateInvoiceItem(ctx context.Context, arg CreateInvoiceItemParams) (InvoiceItem, error)
	ListInvoiceItems(ctx context.Context, invoiceID uuid.UUID) ([]InvoiceItem, error)
	ListInvoiceItemsForInvoices(ctx context.Context, invoiceIDs []uuid.UUID) ([]InvoiceItem, error)

	CreatePayment(ctx context.Context, arg CreatePaymentParams) (Payment, error)
	ListPaymentsByOwner(ctx context.Context, createdBy uuid.UUID) ([]PaymentWithInvoice, error)
	ListPaymentsByInvoice(ctx context.Context, arg ListPaymentsByInvoiceParams) ([]Payment, error)

	CreateExpense(ctx context.Context, arg CreateExpenseParams) (Expense, error)
	GetExpenseForOwner(ctx context.Context, arg GetExpenseForOwnerParams) (Expense, error)
	ListExpensesByOwner(ctx context.Context, createdBy uuid.UUID) ([]Expense, error)
	UpdateExpense(ctx context.Context, arg UpdateExpenseParams) (Expense, error)
	DeleteExpense(ctx context.Context, arg DeleteExpenseParams) (int64, error)

	InsertDomainEvent(ctx context.Context, arg InsertDomainEventParams) (DomainEvent, error)
}

var _ Querier = (*Queries)(nil)
