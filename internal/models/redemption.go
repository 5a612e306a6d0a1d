package models

import "time"

type RedeemRequest struct {
	Code          string
	AccountNumber string
	OrderRef      string
}

type Redemption struct {
	ID            string
	Code          string
	AccountNumber int64
	OrderRef      string
	UsedAt        time.Time
}
