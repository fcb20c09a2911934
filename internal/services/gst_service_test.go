package services

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestCalculateLineGSTStandardRate(t *testing.T) {
	got := CalculateLineGST(dec("100.00"), DefaultGSTRate, false)

	require.True(t, got.NetAmount.Equal(dec("100.00")))
	require.True(t, got.GSTAmount.Equal(dec("9.00")))
	require.True(t, got.TotalAmount.Equal(dec("109.00")))
	require.False(t, got.BCRSExempt)
}

func TestCalculateLineGSTRoundsHalfUp(t *testing.T) {
	// 55.55 * 0.09 = 4.9995 -> 5.00
	got := CalculateLineGST(dec("55.55"), DefaultGSTRate, false)
	require.True(t, got.GSTAmount.Equal(dec("5.00")), "got %s", got.GSTAmount)
	require.True(t, got.TotalAmount.Equal(dec("60.55")))

	// 10.05 * 0.09 = 0.9045 -> 0.90
	got = CalculateLineGST(dec("10.05"), DefaultGSTRate, false)
	require.True(t, got.GSTAmount.Equal(dec("0.90")), "got %s", got.GSTAmount)
}

func TestCalculateLineGSTZeroRated(t *testing.T) {
	got := CalculateLineGST(dec("250.00"), decimal.Zero, false)
	require.True(t, got.GSTAmount.IsZero())
	require.True(t, got.TotalAmount.Equal(dec("250.00")))
}

func TestCalculateLineGSTBCRSDeposit(t *testing.T) {
	// Container deposits carry no GST even at the standard rate.
	got := CalculateLineGST(dec("0.10"), DefaultGSTRate, true)
	require.True(t, got.GSTAmount.IsZero())
	require.True(t, got.TotalAmount.Equal(dec("0.10")))
	require.True(t, got.BCRSExempt)
}

func TestCalculateTaxInclusiveGST(t *testing.T) {
	// 109.00 inclusive at 9%: net 100.00, GST 9.00
	got := CalculateTaxInclusiveGST(dec("109.00"), DefaultGSTRate)
	require.True(t, got.NetAmount.Equal(dec("100.00")), "net %s", got.NetAmount)
	require.True(t, got.GSTAmount.Equal(dec("9.00")), "gst %s", got.GSTAmount)
	require.True(t, got.TotalAmount.Equal(dec("109.00")))

	// GST + net always reconstructs the inclusive total exactly.
	got = CalculateTaxInclusiveGST(dec("99.99"), DefaultGSTRate)
	require.True(t, got.NetAmount.Add(got.GSTAmount).Equal(dec("99.99")))
}

func TestCalculateTaxInclusiveGSTZeroRate(t *testing.T) {
	got := CalculateTaxInclusiveGST(dec("42.00"), decimal.Zero)
	require.True(t, got.NetAmount.Equal(dec("42.00")))
	require.True(t, got.GSTAmount.IsZero())
}

func TestSumLineGST(t *testing.T) {
	lines := []LineGST{
		CalculateLineGST(dec("100.00"), DefaultGSTRate, false),
		CalculateLineGST(dec("55.55"), DefaultGSTRate, false),
		CalculateLineGST(dec("0.10"), DefaultGSTRate, true),
	}

	got := SumLineGST(lines)
	require.True(t, got.NetAmount.Equal(dec("155.65")), "net %s", got.NetAmount)
	require.True(t, got.GSTAmount.Equal(dec("14.00")), "gst %s", got.GSTAmount)
	require.True(t, got.TotalAmount.Equal(dec("169.65")), "total %s", got.TotalAmount)
}

func TestSumLineGSTEmpty(t *testing.T) {
	got := SumLineGST(nil)
	require.True(t, got.NetAmount.IsZero())
	require.True(t, got.GSTAmount.IsZero())
	require.True(t, got.TotalAmount.IsZero())
}
