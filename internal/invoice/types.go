package invoice

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/devaakutty/Shashi-backend/internal/db"
)

// Payment methods accepted on invoices and payments.
const (
	MethodCash         = "cash"
	MethodCard         = "card"
	MethodRazorpay     = "razorpay"
	MethodBankTransfer = "bank_transfer"
	MethodUPI          = "upi"
)

// Methods lists every accepted payment method.
var Methods = []string{MethodCash, MethodCard, MethodRazorpay, MethodBankTransfer, MethodUPI}

// CustomerInput identifies the buyer. Phone is the natural key.
type CustomerInput struct {
	Name    string `json:"name" validate:"required"`
	Phone   string `json:"phone" validate:"required"`
	Email   string `json:"email" validate:"omitempty,email"`
	Address string `json:"address"`
}

// ItemInput is one cart line. Either product or _id carries the product id.
type ItemInput struct {
	Product  string `json:"product" validate:"required_without=ID"`
	ID       string `json:"_id" validate:"required_without=Product"`
	Quantity *int   `json:"quantity" validate:"omitempty,min=0"`
}

// ProductID returns whichever id field was supplied.
func (i ItemInput) ProductID() string {
	if i.Product != "" {
		return i.Product
	}
	return i.ID
}

// Qty returns the requested quantity, defaulting absent or zero to 1.
func (i ItemInput) Qty() int {
	if i.Quantity == nil || *i.Quantity == 0 {
		return 1
	}
	return *i.Quantity
}

// PaymentIntent states how the invoice is settled at checkout.
type PaymentIntent struct {
	Method  string `json:"method" validate:"required,oneof=cash card razorpay bank_transfer upi"`
	Settled bool   `json:"settled"`
}

// CreateRequest is the cart submitted for invoicing.
type CreateRequest struct {
	Customer      CustomerInput   `json:"customer"`
	Items         []ItemInput     `json:"items" validate:"required,min=1,dive"`
	Notes         string          `json:"notes"`
	Discount      decimal.Decimal `json:"discount"`
	PaymentIntent *PaymentIntent  `json:"paymentIntent" validate:"omitempty"`
}

// CustomerView is the customer embedded in an invoice response.
type CustomerView struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Phone   string `json:"phone"`
	Email   string `json:"email,omitempty"`
	Address string `json:"address,omitempty"`
}

// ItemView is a persisted line item.
type ItemView struct {
	Product   string  `json:"product"`
	Name      string  `json:"name"`
	Price     float64 `json:"price"`
	Quantity  int     `json:"quantity"`
	TaxRate   float64 `json:"taxRate"`
	TaxAmount float64 `json:"taxAmount"`
	Total     float64 `json:"total"`
}

// View is the API representation of an invoice.
type View struct {
	ID            string       `json:"id"`
	InvoiceNumber string       `json:"invoiceNumber"`
	Customer      CustomerView `json:"customer"`
	Items         []ItemView   `json:"items"`
	Subtotal      float64      `json:"subtotal"`
	TotalTax      float64      `json:"totalTax"`
	Discount      float64      `json:"discount"`
	TotalAmount   float64      `json:"totalAmount"`
	PaidAmount    float64      `json:"paidAmount"`
	Status        string       `json:"status"`
	PaymentMethod string       `json:"paymentMethod"`
	DueDate       time.Time    `json:"dueDate"`
	PaidAt        *time.Time   `json:"paidAt,omitempty"`
	Notes         string       `json:"notes,omitempty"`
	CreatedBy     string       `json:"createdBy"`
	CreatedAt     time.Time    `json:"createdAt"`
	UpdatedAt     time.Time    `json:"updatedAt"`
}

func newView(inv db.Invoice, customer CustomerView, items []db.InvoiceItem) View {
	views := make([]ItemView, 0, len(items))
	for _, it := range items {
		views = append(views, ItemView{
			Product:   it.ProductID.String(),
			Name:      it.Name,
			Price:     it.Price.InexactFloat64(),
			Quantity:  int(it.Quantity),
			TaxRate:   it.TaxRate.InexactFloat64(),
			TaxAmount: it.TaxAmount.InexactFloat64(),
			Total:     it.Total.InexactFloat64(),
		})
	}
	return View{
		ID:            inv.ID.String(),
		InvoiceNumber: inv.InvoiceNumber,
		Customer:      customer,
		Items:         views,
		Subtotal:      inv.Subtotal.InexactFloat64(),
		TotalTax:      inv.TotalTax.InexactFloat64(),
		Discount:      inv.Discount.InexactFloat64(),
		TotalAmount:   inv.TotalAmount.InexactFloat64(),
		PaidAmount:    inv.PaidAmount.InexactFloat64(),
		Status:        inv.Status,
		PaymentMethod: inv.PaymentMethod,
		DueDate:       inv.DueDate,
		PaidAt:        inv.PaidAt,
		Notes:         inv.Notes,
		CreatedBy:     inv.CreatedBy.String(),
		CreatedAt:     inv.CreatedAt,
		UpdatedAt:     inv.UpdatedAt,
	}
}

func customerView(c db.Customer) CustomerView {
	return CustomerView{ID: c.ID.String(), Name: c.Name, Phone: c.Phone, Email: c.Email, Address: c.Address}
}
