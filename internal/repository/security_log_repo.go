package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Cheertaboi/promo-code-service/internal/models"
)

type SecurityLogRepo struct {
	db *sql.DB
}

func NewSecurityLogRepo(db *sql.DB) *SecurityLogRepo {
	return &SecurityLogRepo{db: db}
}

func (r *SecurityLogRepo) Record(ctx context.Context, ev models.SecurityEvent) error {
	query := `
		INSERT INTO security_logs (id, event_type, details, account_number, timestamp)
		VALUES ($1, $2, $3, $4, $5)
	`
	_, err := r.db.ExecContext(ctx, query, ev.ID, ev.EventType, ev.Details, ev.AccountNumber, ev.Timestamp)
	if err != nil {
		return fmt.Errorf("insert security log: %w", err)
	}
	return nil
}
