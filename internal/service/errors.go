package service

import "errors"

var (
	ErrMissingFields       = errors.New("missing required fields: promo_code, account_number, order_total")
	ErrMissingRedeemFields = errors.New("missing required fields: promo_code, account_number")
	ErrInvalidAccount      = errors.New("account_number must be an integer")
	ErrInvalidOrderTotal   = errors.New("order_total must be a positive amount")
	ErrRedemptionRejected  = errors.New("promo code cannot be redeemed")
	ErrRedemptionDisabled  = errors.New("redemption store not configured")
)

// IsInputError reports whether err stems from a malformed request.
func IsInputError(err error) bool {
	return errors.Is(err, ErrMissingFields) ||
		errors.Is(err, ErrMissingRedeemFields) ||
		errors.Is(err, ErrInvalidAccount) ||
		errors.Is(err, ErrInvalidOrderTotal)
}
