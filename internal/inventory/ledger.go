// Package inventory guards product stock during invoicing.
package inventory

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/devaakutty/Shashi-backend/internal/common"
	"github.com/devaakutty/Shashi-backend/internal/db"
	"github.com/devaakutty/Shashi-backend/internal/obs"
)

// Ledger decrements stock for sold lines. It must be given a transactional
// querier so that a later failure restores earlier decrements.
type Ledger struct {
	// LowStockThreshold marks a product as low once its remaining stock is at
	// or below it. Zero disables the signal.
	LowStockThreshold int
}

// Reservation is the outcome of a successful decrement.
type Reservation struct {
	Product  db.Product
	Quantity int
	// Remaining is the stock left after the decrement.
	Remaining int
	LowStock  bool
}

// Decrement removes quantity units of the product. It returns NotFound for a
// missing or inactive product and InsufficientStock naming the product when
// fewer than quantity units remain.
func (l Ledger) Decrement(ctx context.Context, q db.Querier, productID uuid.UUID, quantity int) (Reservation, error) {
	if quantity <= 0 {
		return Reservation{}, common.ValidationError("quantity must be at least 1")
	}
	product, err := q.GetProductForUpdate(ctx, productID)
	if err != nil {
		if db.IsNotFound(err) {
			return Reservation{}, common.NotFound("Product not found: %s", productID)
		}
		return Reservation{}, fmt.Errorf("load product %s: %w", productID, err)
	}
	if !product.IsActive {
		return Reservation{}, common.NotFound("Product not found: %s", productID)
	}
	if int(product.Stock) < quantity {
		return Reservation{}, common.InsufficientStock(product.Name)
	}

	updated, err := q.DecrementProductStock(ctx, db.DecrementProductStockParams{
		ID:       productID,
		Quantity: int32(quantity),
	})
	if err != nil {
		if db.IsNotFound(err) {
			// the row lock makes this unreachable on Postgres unless stock changed outside a transaction
			return Reservation{}, common.InsufficientStock(product.Name)
		}
		return Reservation{}, fmt.Errorf("decrement stock for %s: %w", productID, err)
	}

	remaining := int(updated.Stock)
	low := l.LowStockThreshold > 0 && remaining <= l.LowStockThreshold
	obs.ObserveStock(quantity, low)
	return Reservation{
		Product:   updated,
		Quantity:  quantity,
		Remaining: remaining,
		LowStock:  low,
	}, nil
}
