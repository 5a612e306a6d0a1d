package models

import "time"

const EventPromoCodeMismatch = "PROMO_CODE_MISMATCH"

// SecurityEvent is an append-only audit entry.
type SecurityEvent struct {
	ID            string
	EventType     string
	Details       string
	AccountNumber int64
	Timestamp     time.Time
}
