package main

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/devaakutty/Shashi-backend/internal/common"
	"github.com/devaakutty/Shashi-backend/internal/customer"
	"github.com/devaakutty/Shashi-backend/internal/db"
	"github.com/devaakutty/Shashi-backend/internal/product"
)

type seedProduct struct {
	Name  string
	Sku   string
	Price string
	Tax   string
	Unit  string
	Stock int32
}

var products = []seedProduct{
	{"Basmati Rice 5kg", "RICE-5KG", "545.00", "5", "bag", 40},
	{"Toor Dal 1kg", "DAL-1KG", "162.50", "5", "pack", 60},
	{"Sunflower Oil 1L", "OIL-1L", "139.00", "5", "bottle", 48},
	{"A4 Notebook", "NB-A4", "65.00", "12", "pcs", 120},
	{"Ball Pen Blue", "PEN-BLUE", "10.00", "18", "pcs", 500},
	{"USB-C Cable 1m", "USBC-1M", "299.00", "18", "pcs", 25},
	{"LED Bulb 9W", "LED-9W", "99.00", "12", "pcs", 80},
	{"Hand Wash 250ml", "HW-250", "85.00", "18", "bottle", 30},
}

var customers = []customer.CreateRequest{
	{Name: "Asha Menon", Phone: "9800000001", Email: "asha@example.com"},
	{Name: "Ravi Kumar", Phone: "9800000002"},
	{Name: "Priya Shah", Phone: "9800000003", Address: "12 MG Road"},
}

func newSeedCmd() *cobra.Command {
	var operatorFlag string
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Insert demo products and customers owned by an operator",
		RunE: func(cmd *cobra.Command, _ []string) error {
			operator, err := parseOperator(operatorFlag)
			if err != nil {
				return err
			}
			url, err := databaseURL()
			if err != nil {
				return err
			}
			ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
			defer cancel()
			pool, err := pgxpool.New(ctx, url)
			if err != nil {
				return fmt.Errorf("connect database: %w", err)
			}
			defer pool.Close()
			return seed(ctx, db.NewStore(pool), operator)
		},
	}
	cmd.Flags().StringVar(&operatorFlag, "operator", "", "operator id stamped as createdBy (defaults to a new id)")
	return cmd
}

func parseOperator(raw string) (uuid.UUID, error) {
	if raw == "" {
		return uuid.New(), nil
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, fmt.Errorf("invalid operator id: %w", err)
	}
	return id, nil
}

// seed is idempotent: rows that already exist are reported and skipped.
func seed(ctx context.Context, store db.Store, operator uuid.UUID) error {
	validate := common.NewValidator()
	productSvc := &product.Service{Store: store, Validate: validate}
	customerSvc := &customer.Service{Store: store, Validate: validate}

	for _, p := range products {
		price := decimal.RequireFromString(p.Price)
		tax := decimal.RequireFromString(p.Tax)
		_, err := productSvc.Create(ctx, operator, product.CreateRequest{
			Name:    p.Name,
			Price:   &price,
			TaxRate: &tax,
			Unit:    p.Unit,
			Sku:     p.Sku,
			Stock:   p.Stock,
		})
		if common.ErrorCode(err) == common.CodeConflict {
			logger.Info().Str("sku", p.Sku).Msg("product already seeded")
			continue
		}
		if err != nil {
			return fmt.Errorf("seed product %s: %w", p.Sku, err)
		}
	}

	for _, c := range customers {
		_, err := customerSvc.Create(ctx, operator, c)
		if common.ErrorCode(err) == common.CodeConflict {
			logger.Info().Str("phone", c.Phone).Msg("customer already seeded")
			continue
		}
		if err != nil {
			return fmt.Errorf("seed customer %s: %w", c.Phone, err)
		}
	}

	logger.Info().Str("operator", operator.String()).Int("products", len(products)).Int("customers", len(customers)).Msg("seeding completed")
	return nil
}
