// Package report builds the cached daily sales report.
package report

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/devaakutty/Shashi-backend/internal/cache"
	"github.com/devaakutty/Shashi-backend/internal/db"
)

// walkInName labels invoices whose customer has no name.
const walkInName = "Walk-in"

// reportedStatuses are the invoice statuses counted as sales.
var reportedStatuses = []string{db.InvoiceStatusPaid, db.InvoiceStatusSent}

// Product is one sold line in a report entry.
type Product struct {
	Name     string  `json:"name"`
	Quantity int     `json:"quantity"`
	Price    float64 `json:"price"`
	Total    float64 `json:"total"`
}

// Entry summarises one invoice.
type Entry struct {
	InvoiceNumber string    `json:"invoiceNumber"`
	CustomerName  string    `json:"customerName"`
	Products      []Product `json:"products"`
	Subtotal      float64   `json:"subtotal"`
	Tax           float64   `json:"tax"`
	Discount      float64   `json:"discount"`
	TotalAmount   float64   `json:"totalAmount"`
	PaymentMethod string    `json:"paymentMethod"`
	Date          time.Time `json:"date"`
}

// Querier is the data access the report needs.
type Querier interface {
	ListInvoicesCreatedBetween(ctx context.Context, arg db.ListInvoicesCreatedBetweenParams) ([]db.InvoiceWithCustomer, error)
	ListInvoiceItemsForInvoices(ctx context.Context, invoiceIDs []uuid.UUID) ([]db.InvoiceItem, error)
}

// Service serves daily reports from Redis when possible.
type Service struct {
	Q        Querier
	Cache    *cache.JSON
	Location *time.Location
	Now      func() time.Time
}

// Today returns the report for the current local day.
func (s *Service) Today(ctx context.Context) ([]Entry, error) {
	return s.Daily(ctx, s.now())
}

// Daily returns paid and sent invoices created on the local day containing
// day, newest first.
func (s *Service) Daily(ctx context.Context, day time.Time) ([]Entry, error) {
	if s == nil || s.Q == nil {
		return nil, errors.New("report service not configured")
	}
	start := startOfDay(day.In(s.location()))
	key := cache.KeyDailyReport(start)

	// The generation is read before the query so an invalidation racing the
	// fill makes SetAt drop the stale result.
	var cached []Entry
	gen, genErr := s.Cache.Generation(ctx, key)
	if genErr != nil {
		zerolog.Ctx(ctx).Warn().Err(genErr).Str("key", key).Msg("report cache read failed")
	} else if ok, err := s.Cache.Get(ctx, key, &cached); err != nil {
		zerolog.Ctx(ctx).Warn().Err(err).Str("key", key).Msg("report cache read failed")
	} else if ok {
		return cached, nil
	}

	rows, err := s.Q.ListInvoicesCreatedBetween(ctx, db.ListInvoicesCreatedBetweenParams{
		From:     start,
		To:       start.AddDate(0, 0, 1),
		Statuses: reportedStatuses,
	})
	if err != nil {
		return nil, fmt.Errorf("list daily invoices: %w", err)
	}
	ids := make([]uuid.UUID, 0, len(rows))
	for _, row := range rows {
		ids = append(ids, row.ID)
	}
	items, err := s.Q.ListInvoiceItemsForInvoices(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("list daily invoice items: %w", err)
	}
	byInvoice := make(map[uuid.UUID][]Product, len(rows))
	for _, it := range items {
		byInvoice[it.InvoiceID] = append(byInvoice[it.InvoiceID], Product{
			Name:     it.Name,
			Quantity: int(it.Quantity),
			Price:    it.Price.InexactFloat64(),
			Total:    it.Total.InexactFloat64(),
		})
	}

	out := make([]Entry, 0, len(rows))
	for _, row := range rows {
		name := row.CustomerName
		if name == "" {
			name = walkInName
		}
		products := byInvoice[row.ID]
		if products == nil {
			products = []Product{}
		}
		out = append(out, Entry{
			InvoiceNumber: row.InvoiceNumber,
			CustomerName:  name,
			Products:      products,
			Subtotal:      row.Subtotal.InexactFloat64(),
			Tax:           row.TotalTax.InexactFloat64(),
			Discount:      row.Discount.InexactFloat64(),
			TotalAmount:   row.TotalAmount.InexactFloat64(),
			PaymentMethod: row.PaymentMethod,
			Date:          row.CreatedAt,
		})
	}

	if genErr == nil {
		if _, err := s.Cache.SetAt(ctx, key, gen, out); err != nil {
			zerolog.Ctx(ctx).Warn().Err(err).Str("key", key).Msg("report cache write failed")
		}
	}
	return out, nil
}

func (s *Service) location() *time.Location {
	if s.Location != nil {
		return s.Location
	}
	return time.UTC
}

func (s *Service) now() time.Time {
	if s != nil && s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
