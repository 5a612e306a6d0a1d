package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Cheertaboi/promo-code-service/internal/models"
)

type PromoCodeRepo struct {
	db *sql.DB
}

func NewPromoCodeRepo(db *sql.DB) *PromoCodeRepo {
	return &PromoCodeRepo{db: db}
}

const promoColumns = `
	promo_code, account_number, account_name, expires_at,
	discount_percentage, max_discount_amount, max_order_amount,
	used, used_at, status`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanPromoCode(row rowScanner) (*models.PromoCode, error) {
	var (
		p      models.PromoCode
		usedAt sql.NullTime
		status string
	)
	err := row.Scan(
		&p.Code,
		&p.AccountNumber,
		&p.AccountName,
		&p.ExpiresAt,
		&p.DiscountPercentage,
		&p.MaxDiscountAmount,
		&p.MaxOrderAmount,
		&p.Used,
		&usedAt,
		&status,
	)
	if err != nil {
		return nil, err
	}
	if usedAt.Valid {
		t := usedAt.Time
		p.UsedAt = &t
	}
	p.Status = models.PromoStatus(status)
	return &p, nil
}

// GetByCode returns (nil, nil) when no row matches.
func (r *PromoCodeRepo) GetByCode(ctx context.Context, code string) (*models.PromoCode, error) {
	query := `SELECT` + promoColumns + `
		FROM account_promo_codes
		WHERE promo_code = $1`

	p, err := scanPromoCode(r.db.QueryRowContext(ctx, query, code))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("select promo code: %w", err)
	}
	return p, nil
}

// ApplyStatus writes a status label. Used codes keep their USED label.
func (r *PromoCodeRepo) ApplyStatus(ctx context.Context, u models.StatusUpdate) error {
	query := `
		UPDATE account_promo_codes
		SET status = $2
		WHERE promo_code = $1 AND used = FALSE AND status <> $2
	`
	if _, err := r.db.ExecContext(ctx, query, u.Code, string(u.Status)); err != nil {
		return fmt.Errorf("update promo status: %w", err)
	}
	return nil
}

// ListStaleActive returns unused codes still labelled ACTIVE whose expiry has passed.
func (r *PromoCodeRepo) ListStaleActive(ctx context.Context, now time.Time, limit int) ([]models.PromoCode, error) {
	query := `SELECT` + promoColumns + `
		FROM account_promo_codes
		WHERE status = $1 AND used = FALSE AND expires_at <= $2
		ORDER BY expires_at
		LIMIT $3`

	rows, err := r.db.QueryContext(ctx, query, string(models.StatusActive), now, limit)
	if err != nil {
		return nil, fmt.Errorf("list stale promo codes: %w", err)
	}
	defer rows.Close()

	var out []models.PromoCode
	for rows.Next() {
		p, err := scanPromoCode(rows)
		if err != nil {
			return nil, fmt.Errorf("scan promo code: %w", err)
		}
		out = append(out, *p)
	}
	return out, rows.Err()
}

func (r *PromoCodeRepo) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}
