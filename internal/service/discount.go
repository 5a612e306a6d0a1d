package service

import (
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// CalculateDiscount applies percentage to total, capped at maxDiscount.
// Both results are rounded to cents and final = total - discount.
func CalculateDiscount(total, percentage, maxDiscount decimal.Decimal) (discount, final decimal.Decimal) {
	discount = decimal.Min(total.Mul(percentage).Div(hundred), maxDiscount).Round(2)
	final = total.Sub(discount).Round(2)
	return discount, final
}

// HoursRemaining is the whole number of hours until expiresAt, never negative.
func HoursRemaining(expiresAt, now time.Time) int64 {
	d := expiresAt.Sub(now)
	if d <= 0 {
		return 0
	}
	return int64(d / time.Hour)
}

// NormalizeCode trims and uppercases a submitted code.
func NormalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

func ParseAccountNumber(s string) (int64, error) {
	n, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil {
		return 0, ErrInvalidAccount
	}
	return n, nil
}

func money(d decimal.Decimal) string {
	return "$" + d.StringFixed(2)
}

const timestampLayout = "Jan 2, 2006 3:04 PM MST"

func formatTimestamp(t time.Time) string {
	return t.UTC().Format(timestampLayout)
}
