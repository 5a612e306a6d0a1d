package handlers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/Cheertaboi/promo-code-service/internal/limiter"
	"github.com/Cheertaboi/promo-code-service/internal/metrics"
	"github.com/Cheertaboi/promo-code-service/internal/models"
	"github.com/Cheertaboi/promo-code-service/internal/service"
)

// --- Request / Response DTOs ---

type ValidateRequestBody struct {
	PromoCode     string          `json:"promo_code"`
	AccountNumber AccountNumber   `json:"account_number"`
	OrderTotal    decimal.Decimal `json:"order_total"`
}

type ValidateResponse struct {
	Valid              bool       `json:"valid"`
	PromoCode          string     `json:"promo_code,omitempty"`
	DiscountPercentage *float64   `json:"discount_percentage,omitempty"`
	DiscountAmount     string     `json:"discount_amount,omitempty"`
	FinalTotal         string     `json:"final_total,omitempty"`
	HoursRemaining     *int64     `json:"hours_remaining,omitempty"`
	ExpiresAt          *time.Time `json:"expires_at,omitempty"`
	Message            string     `json:"message,omitempty"`
	Error              string     `json:"error,omitempty"`
	Details            string     `json:"details,omitempty"`
}

type RedeemRequestBody struct {
	PromoCode     string        `json:"promo_code"`
	AccountNumber AccountNumber `json:"account_number"`
	OrderRef      string        `json:"order_ref"`
}

type RedeemResponse struct {
	Redeemed     bool       `json:"redeemed"`
	PromoCode    string     `json:"promo_code,omitempty"`
	RedemptionID string     `json:"redemption_id,omitempty"`
	UsedAt       *time.Time `json:"used_at,omitempty"`
	Error        string     `json:"error,omitempty"`
	Details      string     `json:"details,omitempty"`
}

// --- Handler struct & constructor ---

type PromoService interface {
	Validate(ctx context.Context, req models.ValidationRequest) (models.ValidationResult, error)
	Redeem(ctx context.Context, req models.RedeemRequest) (models.Redemption, error)
}

type PromoHandler struct {
	service PromoService
	limiter limiter.Limiter
	log     *zerolog.Logger
}

func NewPromoHandler(svc PromoService, lim limiter.Limiter, logger *zerolog.Logger) *PromoHandler {
	if lim == nil {
		lim = limiter.Unlimited{}
	}
	l := logger.With().Str("component", "PromoHandler").Logger()
	return &PromoHandler{service: svc, limiter: lim, log: &l}
}

// --- Handlers ---

// ValidatePromoCode handles POST /promo-codes/validate
func (h *PromoHandler) ValidatePromoCode(w http.ResponseWriter, r *http.Request) {
	var req ValidateRequestBody
	if err := decodeBody(w, r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, ValidateResponse{Error: "Invalid request body"})
		return
	}

	ctx := r.Context()
	// Unparseable accounts are rejected by the service with a 400 and never
	// reach the limiter.
	if account, err := service.ParseAccountNumber(string(req.AccountNumber)); err == nil {
		ok, err := h.limiter.Allow(ctx, limiter.ValidateKey(account))
		if err != nil {
			h.log.Warn().Err(err).Msg("attempt limiter unavailable; allowing request")
		} else if !ok {
			metrics.IncLimited()
			writeJSON(w, http.StatusTooManyRequests, ValidateResponse{Error: "Too many promo code attempts, try again later"})
			return
		}
	}

	res, err := h.service.Validate(ctx, models.ValidationRequest{
		Code:          req.PromoCode,
		AccountNumber: string(req.AccountNumber),
		OrderTotal:    req.OrderTotal,
	})
	if err != nil {
		if service.IsInputError(err) {
			writeJSON(w, http.StatusBadRequest, ValidateResponse{Error: inputErrorText(err)})
			return
		}
		h.log.Error().Err(err).Msg("promo code validation failed")
		writeJSON(w, http.StatusInternalServerError, ValidateResponse{
			Error:   "Failed to validate promo code",
			Details: err.Error(),
		})
		return
	}

	writeJSON(w, http.StatusOK, toValidateResponse(res))
}

// inputErrorText is the 400 message shown to shoppers by the storefront.
func inputErrorText(err error) string {
	switch {
	case errors.Is(err, service.ErrMissingFields):
		return "Missing required fields: promo_code, account_number, order_total"
	case errors.Is(err, service.ErrMissingRedeemFields):
		return "Missing required fields: promo_code, account_number"
	}
	return err.Error()
}

func toValidateResponse(res models.ValidationResult) ValidateResponse {
	if !res.Valid {
		return ValidateResponse{Message: res.Message}
	}
	pct := res.DiscountPercentage.InexactFloat64()
	hours := res.HoursRemaining
	expires := res.ExpiresAt.UTC()
	return ValidateResponse{
		Valid:              true,
		PromoCode:          res.Code,
		DiscountPercentage: &pct,
		DiscountAmount:     res.DiscountAmount.StringFixed(2),
		FinalTotal:         res.FinalTotal.StringFixed(2),
		HoursRemaining:     &hours,
		ExpiresAt:          &expires,
		Message:            res.Message,
	}
}

// RedeemPromoCode handles POST /promo-codes/redeem, called once the order is placed.
func (h *PromoHandler) RedeemPromoCode(w http.ResponseWriter, r *http.Request) {
	var req RedeemRequestBody
	if err := decodeBody(w, r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, RedeemResponse{Error: "Invalid request body"})
		return
	}

	red, err := h.service.Redeem(r.Context(), models.RedeemRequest{
		Code:          req.PromoCode,
		AccountNumber: string(req.AccountNumber),
		OrderRef:      req.OrderRef,
	})
	switch {
	case err == nil:
		usedAt := red.UsedAt.UTC()
		writeJSON(w, http.StatusOK, RedeemResponse{
			Redeemed:     true,
			PromoCode:    red.Code,
			RedemptionID: red.ID,
			UsedAt:       &usedAt,
		})
	case service.IsInputError(err):
		writeJSON(w, http.StatusBadRequest, RedeemResponse{Error: inputErrorText(err)})
	case errors.Is(err, service.ErrRedemptionRejected):
		writeJSON(w, http.StatusConflict, RedeemResponse{
			Error: "Promo code cannot be redeemed: it is used, expired, unknown, or tied to another account",
		})
	default:
		h.log.Error().Err(err).Msg("promo code redemption failed")
		writeJSON(w, http.StatusInternalServerError, RedeemResponse{
			Error:   "Failed to redeem promo code",
			Details: err.Error(),
		})
	}
}
