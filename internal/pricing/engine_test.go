package pricing

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func requireMoney(t *testing.T, want string, got decimal.Decimal) {
	t.Helper()
	require.Truef(t, d(want).Equal(got), "want %s got %s", want, got.String())
}

func TestComputeSingleTaxedLine(t *testing.T) {
	summary := Compute([]Line{{Name: "P1", Quantity: 2, UnitPrice: d("100"), TaxRate: d("10")}}, decimal.Zero)

	requireMoney(t, "200", summary.Subtotal)
	requireMoney(t, "20", summary.TotalTax)
	requireMoney(t, "220", summary.TotalAmount)
	require.Len(t, summary.Lines, 1)
	requireMoney(t, "20", summary.Lines[0].TaxAmount)
	requireMoney(t, "220", summary.Lines[0].Total)
}

func TestComputeRoundsLinesAndTotalsSeparately(t *testing.T) {
	lines := []Line{
		{Name: "Tea", Quantity: 1, UnitPrice: d("0.35"), TaxRate: d("5")},
		{Name: "Rusk", Quantity: 1, UnitPrice: d("0.35"), TaxRate: d("5")},
		{Name: "Salt", Quantity: 3, UnitPrice: d("19.99"), TaxRate: d("12.5")},
	}
	summary := Compute(lines, decimal.Zero)

	// Rounded line taxes sum to 7.54; the invoice tax is 7.53125 rounded once.
	requireMoney(t, "0.02", summary.Lines[0].TaxAmount)
	requireMoney(t, "0.37", summary.Lines[0].Total)
	requireMoney(t, "7.50", summary.Lines[2].TaxAmount)
	requireMoney(t, "67.47", summary.Lines[2].Total)
	requireMoney(t, "60.67", summary.Subtotal)
	requireMoney(t, "7.53", summary.TotalTax)
	requireMoney(t, "68.20", summary.TotalAmount)
}

func TestComputeLineTotalMatchesFormula(t *testing.T) {
	cases := []Line{
		{Quantity: 7, UnitPrice: d("13.37"), TaxRate: d("18")},
		{Quantity: 1, UnitPrice: d("0.05"), TaxRate: d("5")},
		{Quantity: 12, UnitPrice: d("249.99"), TaxRate: d("28")},
		{Quantity: 3, UnitPrice: d("10"), TaxRate: decimal.Zero},
	}
	for _, l := range cases {
		got := PriceLine(l)
		sub := l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Quantity)))
		want := sub.Add(sub.Mul(l.TaxRate).Div(d("100"))).Round(2)
		require.True(t, want.Equal(got.Total), "line %+v: want %s got %s", l, want, got.Total)
	}
}

func TestComputeDiscountClampsAtZero(t *testing.T) {
	summary := Compute([]Line{{Quantity: 1, UnitPrice: d("50"), TaxRate: d("10")}}, d("80"))

	requireMoney(t, "55", summary.GrossTotal)
	requireMoney(t, "80", summary.Discount)
	requireMoney(t, "0", summary.TotalAmount)
	require.False(t, summary.TotalAmount.IsNegative())
}

func TestComputeDiscountSubtracted(t *testing.T) {
	summary := Compute([]Line{{Quantity: 2, UnitPrice: d("100"), TaxRate: d("10")}}, d("20.555"))
	requireMoney(t, "20.56", summary.Discount)
	requireMoney(t, "199.44", summary.TotalAmount)
}

func TestPriceLineDefaultsQuantity(t *testing.T) {
	for _, qty := range []int{0, -3} {
		got := PriceLine(Line{Quantity: qty, UnitPrice: d("40"), TaxRate: d("5")})
		require.Equal(t, 1, got.Quantity)
		requireMoney(t, "42", got.Total)
	}
}

func TestComputeEmpty(t *testing.T) {
	summary := Compute(nil, decimal.Zero)
	require.Empty(t, summary.Lines)
	requireMoney(t, "0", summary.TotalAmount)
}

func TestSummaryStorable(t *testing.T) {
	ok := Compute([]Line{{Quantity: 1, UnitPrice: d("9000000000"), TaxRate: d("10")}}, decimal.Zero)
	require.True(t, ok.Storable())

	// 9e9 plus 18% tax no longer fits NUMERIC(12,2) even though the price does.
	taxed := Compute([]Line{{Quantity: 1, UnitPrice: d("9000000000"), TaxRate: d("18")}}, decimal.Zero)
	require.False(t, taxed.Storable())

	many := Compute([]Line{
		{Quantity: 3, UnitPrice: d("3000000000"), TaxRate: decimal.Zero},
		{Quantity: 1, UnitPrice: d("1000000000"), TaxRate: decimal.Zero},
	}, decimal.Zero)
	require.False(t, many.Storable())

	discounted := Compute([]Line{{Quantity: 1, UnitPrice: d("10"), TaxRate: decimal.Zero}}, d("10000000000"))
	require.False(t, discounted.Storable())
}
