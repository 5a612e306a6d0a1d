package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Cheertaboi/promo-code-service/internal/models"
)

type RedemptionRepo struct {
	db *sql.DB
}

func NewRedemptionRepo(db *sql.DB) *RedemptionRepo {
	return &RedemptionRepo{db: db}
}

// Commit claims the code for the redemption's account. The claim is a
// compare-and-set on used=false, so of any concurrent commits at most one
// reports true.
func (r *RedemptionRepo) Commit(ctx context.Context, red models.Redemption) (bool, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return false, fmt.Errorf("begin tx: %w", err)
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	claim := `
		UPDATE account_promo_codes
		SET used = TRUE,
		    used_at = $3,
		    status = $4
		WHERE promo_code = $1
		  AND account_number = $2
		  AND used = FALSE
		  AND expires_at > $3
	`
	res, err := tx.ExecContext(ctx, claim, red.Code, red.AccountNumber, red.UsedAt, string(models.StatusUsed))
	if err != nil {
		return false, fmt.Errorf("claim promo code: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("claim rows affected: %w", err)
	}
	if n == 0 {
		return false, nil
	}

	insert := `
		INSERT INTO promo_code_redemptions (id, promo_code, account_number, order_ref, used_at)
		VALUES ($1, $2, $3, $4, $5)
	`
	if _, err := tx.ExecContext(ctx, insert, red.ID, red.Code, red.AccountNumber, red.OrderRef, red.UsedAt); err != nil {
		return false, fmt.Errorf("insert redemption: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return false, fmt.Errorf("tx commit: %w", err)
	}
	committed = true
	return true, nil
}
