// Package payment reconciles payments against invoice balances.
package payment

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	validator "github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/devaakutty/Shashi-backend/internal/common"
	"github.com/devaakutty/Shashi-backend/internal/db"
	"github.com/devaakutty/Shashi-backend/internal/events"
	"github.com/devaakutty/Shashi-backend/internal/obs"
	"github.com/devaakutty/Shashi-backend/internal/pricing"
)

// RecordRequest is a payment submitted against an invoice.
type RecordRequest struct {
	InvoiceID     string          `json:"invoiceId" validate:"required"`
	Amount        decimal.Decimal `json:"amount"`
	Method        string          `json:"method" validate:"required,oneof=cash card razorpay bank_transfer upi"`
	TransactionID string          `json:"transactionId"`
}

// Receipt is the outcome of a recorded payment.
type Receipt struct {
	Payment         db.Payment
	InvoiceStatus   string
	PaidAmount      decimal.Decimal
	RemainingAmount decimal.Decimal
}

// Service records payments and lists them.
type Service struct {
	Store    db.Store
	Events   *events.Bus
	Validate *validator.Validate
	Now      func() time.Time
}

// Record applies a payment to its invoice. The invoice row is locked for the
// duration, so concurrent payments cannot push paidAmount past totalAmount.
func (s *Service) Record(ctx context.Context, actor uuid.UUID, req RecordRequest) (Receipt, error) {
	if s == nil || s.Store == nil {
		return Receipt{}, errors.New("payment service not configured")
	}
	ctx, span := otel.Tracer("payment.Service").Start(ctx, "PaymentService.Record")
	defer span.End()

	req.Method = strings.TrimSpace(req.Method)
	result := "error"
	var accepted float64
	defer func() {
		span.SetAttributes(
			attribute.String("payment.method", req.Method),
			attribute.String("payment.record.result", result),
		)
		obs.ObservePayment(req.Method, result, accepted)
	}()

	invoiceID, amount, err := s.validate(req)
	if err != nil {
		result = common.ErrorCode(err)
		return Receipt{}, err
	}
	span.SetAttributes(attribute.String("invoice.id", invoiceID.String()))

	now := s.now()
	var receipt Receipt
	var invoice db.Invoice
	err = s.Store.ExecTx(ctx, func(q db.Querier) error {
		var txErr error
		receipt, invoice, txErr = apply(ctx, q, actor, invoiceID, amount, req, now)
		return txErr
	})
	if err != nil {
		if code := common.ErrorCode(err); code != "" {
			result = code
			return Receipt{}, err
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return Receipt{}, fmt.Errorf("record payment: %w", err)
	}

	result = "success"
	accepted = amount.InexactFloat64()
	s.publish(ctx, receipt, invoice)
	zerolog.Ctx(ctx).Info().
		Str("invoice_number", invoice.InvoiceNumber).
		Str("amount", amount.StringFixed(pricing.MoneyPlaces)).
		Str("invoice_status", receipt.InvoiceStatus).
		Msg("payment recorded")
	return receipt, nil
}

func (s *Service) validate(req RecordRequest) (uuid.UUID, decimal.Decimal, error) {
	if err := common.ValidateStruct(s.Validate, req); err != nil {
		return uuid.Nil, decimal.Zero, err
	}
	invoiceID, err := common.ParseID(req.InvoiceID, "invoice id")
	if err != nil {
		return uuid.Nil, decimal.Zero, err
	}
	amount := pricing.Round(req.Amount)
	if !amount.IsPositive() {
		return uuid.Nil, decimal.Zero, common.ValidationError("amount must be greater than 0")
	}
	return invoiceID, amount, nil
}

func apply(ctx context.Context, q db.Querier, actor, invoiceID uuid.UUID, amount decimal.Decimal, req RecordRequest, now time.Time) (Receipt, db.Invoice, error) {
	invoice, err := q.GetInvoiceForUpdate(ctx, invoiceID)
	if err != nil {
		if db.IsNotFound(err) {
			return Receipt{}, db.Invoice{}, common.NotFound("Invoice not found")
		}
		return Receipt{}, db.Invoice{}, fmt.Errorf("lock invoice: %w", err)
	}

	remaining := invoice.TotalAmount.Sub(invoice.PaidAmount)
	if amount.GreaterThan(remaining) {
		return Receipt{}, db.Invoice{}, common.Overpayment(remaining.StringFixed(pricing.MoneyPlaces))
	}

	payment, err := q.CreatePayment(ctx, db.CreatePaymentParams{
		ID:            uuid.New(),
		InvoiceID:     invoice.ID,
		Amount:        amount,
		Method:        req.Method,
		TransactionID: strings.TrimSpace(req.TransactionID),
		Status:        db.PaymentStatusSuccess,
		PaidAt:        now,
		CreatedBy:     actor,
	})
	if err != nil {
		return Receipt{}, db.Invoice{}, fmt.Errorf("insert payment: %w", err)
	}

	paid := invoice.PaidAmount.Add(amount)
	status, paidAt := nextStatus(paid, invoice.TotalAmount, invoice.PaidAt, now)
	updated, err := q.ApplyInvoicePayment(ctx, db.ApplyInvoicePaymentParams{
		ID:            invoice.ID,
		PaidAmount:    paid,
		Status:        status,
		PaymentMethod: req.Method,
		PaidAt:        paidAt,
	})
	if err != nil {
		if db.IsCheckViolation(err) {
			return Receipt{}, db.Invoice{}, common.Overpayment(remaining.StringFixed(pricing.MoneyPlaces))
		}
		return Receipt{}, db.Invoice{}, fmt.Errorf("update invoice balance: %w", err)
	}

	return Receipt{
		Payment:         payment,
		InvoiceStatus:   updated.Status,
		PaidAmount:      updated.PaidAmount,
		RemainingAmount: pricing.Round(updated.TotalAmount.Sub(updated.PaidAmount)),
	}, updated, nil
}

// nextStatus derives the invoice status from its balance. paidAt is stamped
// once, when the balance is first cleared.
func nextStatus(paid, total decimal.Decimal, paidAt *time.Time, now time.Time) (string, *time.Time) {
	if pricing.Round(paid).Equal(pricing.Round(total)) {
		if paidAt == nil {
			stamp := now
			paidAt = &stamp
		}
		return db.InvoiceStatusPaid, paidAt
	}
	return db.InvoiceStatusPartial, paidAt
}

func (s *Service) publish(ctx context.Context, receipt Receipt, invoice db.Invoice) {
	s.Events.Publish(ctx, events.TopicPaymentRecorded, invoice.ID, map[string]any{
		"paymentId":     receipt.Payment.ID.String(),
		"invoiceNumber": invoice.InvoiceNumber,
		"amount":        receipt.Payment.Amount.StringFixed(pricing.MoneyPlaces),
		"method":        receipt.Payment.Method,
		"invoiceStatus": receipt.InvoiceStatus,
		"invoiceDate":   invoice.CreatedAt,
	})
	if receipt.InvoiceStatus == db.InvoiceStatusPaid {
		s.Events.Publish(ctx, events.TopicInvoicePaid, invoice.ID, map[string]any{
			"invoiceNumber": invoice.InvoiceNumber,
			"paidAmount":    receipt.PaidAmount.StringFixed(pricing.MoneyPlaces),
			"invoiceDate":   invoice.CreatedAt,
		})
	}
}

// List returns the actor's payments, newest first, with invoice summaries.
func (s *Service) List(ctx context.Context, actor uuid.UUID) ([]db.PaymentWithInvoice, error) {
	rows, err := s.Store.ListPaymentsByOwner(ctx, actor)
	if err != nil {
		return nil, fmt.Errorf("list payments: %w", err)
	}
	return rows, nil
}

// ListByInvoice returns the actor's payments against one invoice.
func (s *Service) ListByInvoice(ctx context.Context, actor, invoiceID uuid.UUID) ([]db.Payment, error) {
	rows, err := s.Store.ListPaymentsByInvoice(ctx, db.ListPaymentsByInvoiceParams{InvoiceID: invoiceID, CreatedBy: actor})
	if err != nil {
		return nil, fmt.Errorf("list invoice payments: %w", err)
	}
	return rows, nil
}

func (s *Service) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}
