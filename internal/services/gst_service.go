package services

import (
	"github.com/shopspring/decimal"
)

// Singapore GST rate (9% since 1 Jan 2024).
var DefaultGSTRate = decimal.RequireFromString("0.09")

// displayPlaces: monetary results are rounded to cents per IRAS rules.
// GST is computed and rounded per line, not on the document total.
const displayPlaces = 2

// LineGST is the result of a per-line GST computation.
type LineGST struct {
	NetAmount   decimal.Decimal `json:"net_amount"`
	GSTAmount   decimal.Decimal `json:"gst_amount"`
	TotalAmount decimal.Decimal `json:"total_amount"`
	BCRSExempt  bool            `json:"is_bcrs_exempt"`
}

// CalculateLineGST computes GST for a single GST-exclusive line amount.
// BCRS (beverage container return scheme) deposits are GST exempt.
func CalculateLineGST(amount, rate decimal.Decimal, isBCRSDeposit bool) LineGST {
	amount = amount.Round(displayPlaces)

	if isBCRSDeposit {
		return LineGST{
			NetAmount:   amount,
			GSTAmount:   decimal.Zero.Round(displayPlaces),
			TotalAmount: amount,
			BCRSExempt:  true,
		}
	}

	gst := decimal.Zero
	if rate.IsPositive() {
		gst = amount.Mul(rate).Round(displayPlaces)
	}

	return LineGST{
		NetAmount:   amount,
		GSTAmount:   gst,
		TotalAmount: amount.Add(gst),
	}
}

// CalculateTaxInclusiveGST back-calculates the GST portion of a
// GST-inclusive total: GST = total - total/(1+rate).
func CalculateTaxInclusiveGST(total, rate decimal.Decimal) LineGST {
	total = total.Round(displayPlaces)

	if !rate.IsPositive() {
		return LineGST{NetAmount: total, GSTAmount: decimal.Zero, TotalAmount: total}
	}

	net := total.Div(decimal.NewFromInt(1).Add(rate)).Round(displayPlaces)
	gst := total.Sub(net)

	return LineGST{
		NetAmount:   net,
		GSTAmount:   gst,
		TotalAmount: total,
	}
}

// SumLineGST folds per-line results into document totals.
func SumLineGST(lines []LineGST) LineGST {
	var out LineGST
	out.NetAmount = decimal.Zero
	out.GSTAmount = decimal.Zero
	out.TotalAmount = decimal.Zero
	for _, l := range lines {
		out.NetAmount = out.NetAmount.Add(l.NetAmount)
		out.GSTAmount = out.GSTAmount.Add(l.GSTAmount)
		out.TotalAmount = out.TotalAmount.Add(l.TotalAmount)
	}
	return out
}
