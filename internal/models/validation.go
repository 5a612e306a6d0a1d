package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type ValidationRequest struct {
	Code          string
	AccountNumber string
	OrderTotal    decimal.Decimal
}

// Outcome classifies a validation verdict for logs and metrics.
type Outcome string

const (
	OutcomeValid           Outcome = "valid"
	OutcomeNotFound        Outcome = "not_found"
	OutcomeAccountMismatch Outcome = "account_mismatch"
	OutcomeUsed            Outcome = "used"
	OutcomeExpired         Outcome = "expired"
	OutcomeOverLimit       Outcome = "over_limit"
)

type ValidationResult struct {
	Valid              bool
	Outcome            Outcome
	Code               string
	DiscountPercentage decimal.Decimal
	DiscountAmount     decimal.Decimal
	FinalTotal         decimal.Decimal
	HoursRemaining     int64
	ExpiresAt          time.Time
	Message            string
}
