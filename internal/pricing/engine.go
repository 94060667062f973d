// Package pricing turns priced cart lines into invoice totals.
package pricing

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// MoneyPlaces is the number of decimal places money is rounded to.
const MoneyPlaces = 2

var hundred = decimal.NewFromInt(100)

// Column limits of the NUMERIC(12,2) money and NUMERIC(5,2) rate columns.
var (
	MaxAmount  = decimal.RequireFromString("9999999999.99")
	MaxTaxRate = decimal.RequireFromString("999.99")
)

// Line is a product snapshot and the quantity being sold.
type Line struct {
	ProductID uuid.UUID
	Name      string
	Quantity  int
	UnitPrice decimal.Decimal
	// TaxRate is a percentage, e.g. 18 for 18%.
	TaxRate decimal.Decimal
}

// PricedLine is a Line with its computed amounts. TaxAmount and Total are
// rounded to MoneyPlaces; Subtotal is exact.
type PricedLine struct {
	Line
	Subtotal  decimal.Decimal
	TaxAmount decimal.Decimal
	Total     decimal.Decimal
}

// Summary aggregates computed invoice amounts.
type Summary struct {
	Lines      []PricedLine
	Subtotal   decimal.Decimal
	TotalTax   decimal.Decimal
	Discount   decimal.Decimal
	GrossTotal decimal.Decimal
	// TotalAmount is GrossTotal less Discount, never below zero.
	TotalAmount decimal.Decimal
}

// Storable reports whether every stored amount fits MaxAmount. GrossTotal
// bounds Subtotal and TotalTax since tax is never negative.
func (s Summary) Storable() bool {
	if s.GrossTotal.GreaterThan(MaxAmount) || s.Discount.GreaterThan(MaxAmount) {
		return false
	}
	for _, l := range s.Lines {
		if l.Total.GreaterThan(MaxAmount) {
			return false
		}
	}
	return true
}

// Round rounds money half away from zero to MoneyPlaces.
func Round(d decimal.Decimal) decimal.Decimal {
	return d.Round(MoneyPlaces)
}

// PriceLine computes one line's subtotal, tax and total. A non-positive
// quantity is treated as 1.
func PriceLine(l Line) PricedLine {
	if l.Quantity <= 0 {
		l.Quantity = 1
	}
	subtotal := l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Quantity)))
	tax := subtotal.Mul(l.TaxRate).Div(hundred)
	return PricedLine{
		Line:      l,
		Subtotal:  subtotal,
		TaxAmount: Round(tax),
		Total:     Round(subtotal.Add(tax)),
	}
}

// Compute prices every line and derives invoice totals. Subtotal and tax are
// summed unrounded per line and rounded once.
func Compute(lines []Line, discount decimal.Decimal) Summary {
	discount = Round(discount)
	priced := make([]PricedLine, 0, len(lines))
	subtotal := decimal.Zero
	tax := decimal.Zero
	for _, l := range lines {
		pl := PriceLine(l)
		priced = append(priced, pl)
		subtotal = subtotal.Add(pl.Subtotal)
		tax = tax.Add(pl.Subtotal.Mul(pl.TaxRate).Div(hundred))
	}

	gross := subtotal.Add(tax)
	total := gross.Sub(discount)
	if total.IsNegative() {
		total = decimal.Zero
	}
	return Summary{
		Lines:       priced,
		Subtotal:    Round(subtotal),
		TotalTax:    Round(tax),
		Discount:    Round(discount),
		GrossTotal:  Round(gross),
		TotalAmount: Round(total),
	}
}
