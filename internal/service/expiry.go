package service

import (
	"time"

	"github.com/Cheertaboi/promo-code-service/internal/models"
)

// DecideExpiry returns the status write needed to label p as expired at now,
// or nil when no write is due. Calling it again after the write is applied
// yields nil.
func DecideExpiry(p models.PromoCode, now time.Time) *models.StatusUpdate {
	if p.Used || p.Status == models.StatusExpired || !p.ExpiredAt(now) {
		return nil
	}
	return &models.StatusUpdate{Code: p.Code, Status: models.StatusExpired}
}
