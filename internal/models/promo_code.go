package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type PromoStatus string

const (
	StatusActive  PromoStatus = "ACTIVE"
	StatusExpired PromoStatus = "EXPIRED"
	StatusUsed    PromoStatus = "USED"
)

// PromoCode is a row of account_promo_codes. ExpiresAt is authoritative;
// Status is a cached label refreshed lazily.
type PromoCode struct {
	Code               string
	AccountNumber      int64
	AccountName        string
	ExpiresAt          time.Time
	DiscountPercentage decimal.Decimal
	MaxDiscountAmount  decimal.Decimal
	MaxOrderAmount     decimal.Decimal
	Used               bool
	UsedAt             *time.Time
	Status             PromoStatus
}

// ExpiredAt reports whether the code is unusable at now.
func (p *PromoCode) ExpiredAt(now time.Time) bool {
	return !now.Before(p.ExpiresAt)
}

// StatusUpdate is a pending write to a promo code's status column.
type StatusUpdate struct {
	Code   string
	Status PromoStatus
}
