package pricing

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/backend-crm/internal/common"
)

func TestComputeLine(t *testing.T) {
	line, err := ComputeLine(3, d("19.99"), d("5"))
	require.NoError(t, err)
	requireDec(t, "59.97", line.LineTotal)
	requireDec(t, "54.97", line.LineTotalWithDiscount)

	line, err = ComputeLine(0, d("10"), decimal.Zero)
	require.NoError(t, err)
	require.True(t, line.LineTotal.IsZero())
}

func TestComputeLineCapsDiscount(t *testing.T) {
	line, err := ComputeLine(2, d("10"), d("25"))
	require.NoError(t, err)
	requireDec(t, "20", line.LineTotal)
	require.True(t, line.LineTotalWithDiscount.IsZero())
}

func TestComputeLineRejectsNegatives(t *testing.T) {
	_, err := ComputeLine(-1, d("10"), decimal.Zero)
	require.ErrorIs(t, err, common.ErrInvalidInput)
	_, err = ComputeLine(1, d("-10"), decimal.Zero)
	require.ErrorIs(t, err, common.ErrInvalidInput)
	_, err = ComputeLine(1, d("10"), d("-1"))
	require.ErrorIs(t, err, common.ErrInvalidInput)
}

func TestComputeTotalsPercentageScenario(t *testing.T) {
	items := []Item{{ProductID: uuid.New(), Quantity: 2, UnitPrice: d("15")}}
	totals, err := ComputeTotals(items, DiscountSpec{Type: DiscountPercentage, Value: d("10")})
	require.NoError(t, err)
	requireDec(t, "30", totals.Subtotal)
	requireDec(t, "3", totals.DiscountAmount)
	requireDec(t, "27", totals.Total)
	require.Len(t, totals.ItemDetails, 1)
	require.Equal(t, items[0].ProductID, totals.ItemDetails[0].ProductID)
}

func TestComputeTotalsFixedDiscountCapped(t *testing.T) {
	items := []Item{
		{ProductID: uuid.New(), Quantity: 1, UnitPrice: d("40"), Discount: d("5")},
		{ProductID: uuid.New(), Quantity: 2, UnitPrice: d("7.50")},
	}
	totals, err := ComputeTotals(items, DiscountSpec{Type: DiscountFixed, Value: d("500")})
	require.NoError(t, err)
	requireDec(t, "50", totals.Subtotal)
	requireDec(t, "50", totals.DiscountAmount)
	require.True(t, totals.Total.IsZero())
}

func TestComputeTotalsErrors(t *testing.T) {
	_, err := ComputeTotals(nil, DiscountSpec{})
	require.ErrorIs(t, err, common.ErrInvalidInput)

	items := []Item{{ProductID: uuid.New(), Quantity: 1, UnitPrice: d("10")}}
	_, err = ComputeTotals(items, DiscountSpec{Type: DiscountPercentage, Value: d("100.01")})
	require.ErrorIs(t, err, common.ErrInvalidInput)
	_, err = ComputeTotals(items, DiscountSpec{Type: DiscountFixed, Value: d("-1")})
	require.ErrorIs(t, err, common.ErrInvalidInput)
	_, err = ComputeTotals(items, DiscountSpec{Type: "bogo", Value: d("1")})
	require.ErrorIs(t, err, common.ErrInvalidInput)

	bad := []Item{{ProductID: uuid.New(), Quantity: -2, UnitPrice: d("10")}}
	_, err = ComputeTotals(bad, DiscountSpec{})
	require.ErrorIs(t, err, common.ErrInvalidInput)
}

func TestComputeTotalsBounds(t *testing.T) {
	items := []Item{
		{ProductID: uuid.New(), Quantity: 3, UnitPrice: d("12.34"), Discount: d("1.11")},
		{ProductID: uuid.New(), Quantity: 1, UnitPrice: d("0.99")},
	}
	specs := []DiscountSpec{
		{Type: DiscountFixed, Value: decimal.Zero},
		{Type: DiscountFixed, Value: d("10")},
		{Type: DiscountFixed, Value: d("1000")},
		{Type: DiscountPercentage, Value: decimal.Zero},
		{Type: DiscountPercentage, Value: d("33.3")},
		{Type: DiscountPercentage, Value: d("100")},
	}
	for _, spec := range specs {
		totals, err := ComputeTotals(items, spec)
		require.NoError(t, err)
		require.False(t, totals.Total.IsNegative())
		require.True(t, totals.Total.LessThanOrEqual(totals.Subtotal))
		require.True(t, totals.DiscountAmount.LessThanOrEqual(totals.Subtotal))
		require.True(t, totals.Total.Equal(totals.Subtotal.Sub(totals.DiscountAmount)))
	}
}

func TestApplyTax(t *testing.T) {
	items := []Item{{ProductID: uuid.New(), Quantity: 1, UnitPrice: d("200")}}
	totals, err := ComputeTotals(items, DiscountSpec{Type: DiscountFixed, Value: d("20")})
	require.NoError(t, err)

	taxed := totals.ApplyTax(1100)
	requireDec(t, "19.8", taxed.TaxAmount)
	requireDec(t, "199.8", taxed.GrandTotal)
	requireDec(t, "180", taxed.Total)

	untaxed := totals.ApplyTax(0)
	require.True(t, untaxed.GrandTotal.Equal(untaxed.Total))
}

func TestDiscountConversionHelpers(t *testing.T) {
	fixed, err := PercentageToFixed(d("250"), d("12"))
	require.NoError(t, err)
	requireDec(t, "30", fixed)

	pct, err := FixedToPercentage(d("250"), d("30"))
	require.NoError(t, err)
	requireDec(t, "12", pct)

	pct, err = FixedToPercentage(decimal.Zero, d("30"))
	require.NoError(t, err)
	require.True(t, pct.IsZero())

	pct, err = FixedToPercentage(d("50"), d("80"))
	require.NoError(t, err)
	requireDec(t, "100", pct)

	_, err = PercentageToFixed(d("50"), d("101"))
	require.ErrorIs(t, err, common.ErrInvalidInput)
}

func TestDiscountTypeRoundTrip(t *testing.T) {
	tolerance := d("0.01")
	for _, subtotal := range []string{"100", "149.99", "1234.56"} {
		for _, raw := range []string{"0", "5", "12.5", "33.33", "99", "100"} {
			pct := d(raw)
			fixed, err := PercentageToFixed(d(subtotal), pct)
			require.NoError(t, err)
			back, err := FixedToPercentage(d(subtotal), fixed)
			require.NoError(t, err)
			requireNear(t, pct, back, tolerance)
		}
	}
}

func TestConvertDiscount(t *testing.T) {
	conv, err := ConvertDiscount(d("80"), d("25"), DiscountPercentage)
	require.NoError(t, err)
	requireDec(t, "20", conv.FixedAmount)
	requireDec(t, "25", conv.Percentage)
	requireDec(t, "20", conv.As(DiscountFixed))

	conv, err = ConvertDiscount(d("80"), d("20"), DiscountFixed)
	require.NoError(t, err)
	requireDec(t, "25", conv.As(DiscountPercentage))

	_, err = ConvertDiscount(d("80"), d("20"), "other")
	require.ErrorIs(t, err, common.ErrInvalidInput)
}

func TestParseDiscountType(t *testing.T) {
	typ, err := ParseDiscountType("")
	require.NoError(t, err)
	require.Equal(t, DiscountFixed, typ)

	typ, err = ParseDiscountType(" Percentage ")
	require.NoError(t, err)
	require.Equal(t, DiscountPercentage, typ)

	_, err = ParseDiscountType("bulk")
	require.ErrorIs(t, err, common.ErrInvalidInput)
}
