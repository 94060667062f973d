package db

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type Product struct {
	ID          uuid.UUID
	Name        string
	Description string
	Price       decimal.Decimal
	TaxRate     decimal.Decimal
	Unit        string
	Sku         string
	Stock       int32
	IsActive    bool
	CreatedBy   uuid.UUID
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

type Customer struct {
	ID        uuid.UUID
	Name      string
	Email     string
	Phone     string
	Address   string
	Notes     string
	CreatedBy uuid.UUID
	CreatedAt time.Time
	UpdatedAt time.Time
}

type Invoice struct {
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
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

type InvoiceItem struct {
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

type Payment struct {
	ID            uuid.UUID
	InvoiceID     uuid.UUID
	Amount        decimal.Decimal
	Method        string
	TransactionID string
	Status        string
	PaidAt        time.Time
	CreatedBy     uuid.UUID
	CreatedAt     time.Time
}

type Expense struct {
	ID            uuid.UUID
	Title         string
	Amount        decimal.Decimal
	Category      string
	PaymentMethod string
	ExpenseDate   time.Time
	Notes         string
	CreatedBy     uuid.UUID
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

type DomainEvent struct {
	ID          uuid.UUID
	Topic       string
	AggregateID uuid.UUID
	Payload     []byte
	OccurredAt  time.Time
}

// InvoiceWithCustomer is an invoice row joined with its customer's name and phone.
type InvoiceWithCustomer struct {
	Invoice
	CustomerName  string
	CustomerPhone string
}

// PaymentWithInvoice is a payment row joined with the invoice summary it settles.
type PaymentWithInvoice struct {
	Payment
	InvoiceNumber string
	InvoiceTotal  decimal.Decimal
	InvoiceStatus string
}

// Invoice statuses.
const (
	InvoiceStatusDraft     = "draft"
	InvoiceStatusUnpaid    = "unpaid"
	InvoiceStatusPartial   = "partial"
	InvoiceStatusPaid      = "paid"
	InvoiceStatusSent      = "sent"
	InvoiceStatusOverdue   = "overdue"
	InvoiceStatusCancelled = "cancelled"
)

// PaymentStatusSuccess is the status of a recorded payment.
const PaymentStatusSuccess = "success"
