package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/Cheertaboi/promo-code-service/internal/metrics"
	"github.com/Cheertaboi/promo-code-service/internal/models"
)

// Stores required by the service (interfaces so tests can use in-memory fakes).
type PromoStore interface {
	GetByCode(ctx context.Context, code string) (*models.PromoCode, error)
	ApplyStatus(ctx context.Context, u models.StatusUpdate) error
}

type SecurityLogSink interface {
	Record(ctx context.Context, ev models.SecurityEvent) error
}

type RedemptionStore interface {
	Commit(ctx context.Context, red models.Redemption) (bool, error)
}

// Config wires a PromoService. Store and SecurityLog are required.
type Config struct {
	Store       PromoStore
	SecurityLog SecurityLogSink
	Redemptions RedemptionStore
	Clock       func() time.Time
	Timeout     time.Duration
	Logger      *zerolog.Logger
}

type PromoService struct {
	store       PromoStore
	securityLog SecurityLogSink
	redemptions RedemptionStore
	now         func() time.Time
	timeout     time.Duration
	log         *zerolog.Logger
}

func NewPromoService(cfg Config) (*PromoService, error) {
	if cfg.Store == nil {
		return nil, errors.New("promo service: store is required")
	}
	if cfg.SecurityLog == nil {
		return nil, errors.New("promo service: security log sink is required")
	}
	if cfg.Clock == nil {
		cfg.Clock = time.Now
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 8 * time.Second
	}
	logger := zerolog.Nop()
	if cfg.Logger != nil {
		logger = cfg.Logger.With().Str("component", "PromoService").Logger()
	}
	return &PromoService{
		store:       cfg.Store,
		securityLog: cfg.SecurityLog,
		redemptions: cfg.Redemptions,
		now:         cfg.Clock,
		timeout:     cfg.Timeout,
		log:         &logger,
	}, nil
}

// Validate checks whether req's code may be applied to the order. Policy
// rejections come back as a result with Valid=false; a non-nil error means
// the request was malformed or the store failed. Validate never claims the code.
func (s *PromoService) Validate(ctx context.Context, req models.ValidationRequest) (models.ValidationResult, error) {
	code := NormalizeCode(req.Code)
	if code == "" || strings.TrimSpace(req.AccountNumber) == "" || req.OrderTotal.IsZero() {
		return models.ValidationResult{}, ErrMissingFields
	}
	account, err := ParseAccountNumber(req.AccountNumber)
	if err != nil {
		return models.ValidationResult{}, err
	}
	if !req.OrderTotal.IsPositive() {
		return models.ValidationResult{}, ErrInvalidOrderTotal
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	promo, err := s.store.GetByCode(ctx, code)
	if err != nil {
		return models.ValidationResult{}, fmt.Errorf("lookup promo code: %w", err)
	}

	res := s.evaluate(ctx, promo, code, account, req)
	metrics.IncValidation(string(res.Outcome))
	return res, nil
}

func (s *PromoService) evaluate(ctx context.Context, promo *models.PromoCode, code string, account int64, req models.ValidationRequest) models.ValidationResult {
	if promo == nil {
		s.log.Debug().Str("promo_code", code).Msg("unknown promo code")
		return reject(models.OutcomeNotFound, code,
			fmt.Sprintf("Invalid promo code %q. Please check the code and try again.", code))
	}

	if promo.AccountNumber != account {
		s.recordMismatch(ctx, code, account, promo.AccountNumber)
		return reject(models.OutcomeAccountMismatch, code,
			"This promo code is not valid for your account. Each code is tied to a specific account.")
	}

	if promo.Used {
		msg := "This promo code was already used"
		if promo.UsedAt != nil {
			msg += " on " + formatTimestamp(*promo.UsedAt)
		}
		return reject(models.OutcomeUsed, code, msg)
	}

	now := s.now()
	if promo.ExpiredAt(now) {
		if u := DecideExpiry(*promo, now); u != nil {
			s.applyExpiry(ctx, *u)
		}
		return reject(models.OutcomeExpired, code,
			"This promo code expired on "+formatTimestamp(promo.ExpiresAt))
	}

	if req.OrderTotal.GreaterThan(promo.MaxOrderAmount) {
		return reject(models.OutcomeOverLimit, code,
			fmt.Sprintf("Order total (%s) exceeds maximum of %s for this promo code",
				money(req.OrderTotal), money(promo.MaxOrderAmount)))
	}

	discount, final := CalculateDiscount(req.OrderTotal, promo.DiscountPercentage, promo.MaxDiscountAmount)
	hours := HoursRemaining(promo.ExpiresAt, now)

	return models.ValidationResult{
		Valid:              true,
		Outcome:            models.OutcomeValid,
		Code:               code,
		DiscountPercentage: promo.DiscountPercentage,
		DiscountAmount:     discount,
		FinalTotal:         final,
		HoursRemaining:     hours,
		ExpiresAt:          promo.ExpiresAt,
		Message: fmt.Sprintf("Valid! Code %q applied: %s off (%s%% discount, max %s). Expires in %d hours.",
			code, money(discount), promo.DiscountPercentage.String(), money(promo.MaxDiscountAmount), hours),
	}
}

func reject(outcome models.Outcome, code, msg string) models.ValidationResult {
	return models.ValidationResult{Outcome: outcome, Code: code, Message: msg}
}

// recordMismatch appends a security event. Failures are logged only.
func (s *PromoService) recordMismatch(ctx context.Context, code string, account, owner int64) {
	ev := models.SecurityEvent{
		ID:            uuid.NewString(),
		EventType:     models.EventPromoCodeMismatch,
		Details:       fmt.Sprintf("Account %d tried to use code %s belonging to account %d", account, code, owner),
		AccountNumber: account,
		Timestamp:     s.now().UTC(),
	}
	s.log.Warn().
		Str("event", ev.EventType).
		Str("promo_code", code).
		Int64("account_number", account).
		Int64("owner_account", owner).
		Msg("promo code presented by non-owning account")
	metrics.IncSecurityEvent()

	if err := ctx.Err(); err != nil {
		s.log.Error().Err(err).Str("promo_code", code).Msg("skipping security log write")
		metrics.IncBestEffortFailure("security_log")
		return
	}
	if err := s.securityLog.Record(ctx, ev); err != nil {
		s.log.Error().Err(err).Str("promo_code", code).Int64("account_number", account).Msg("security log write failed")
		metrics.IncBestEffortFailure("security_log")
	}
}

func (s *PromoService) applyExpiry(ctx context.Context, u models.StatusUpdate) {
	if err := ctx.Err(); err != nil {
		s.log.Error().Err(err).Str("promo_code", u.Code).Msg("skipping expiry write")
		metrics.IncBestEffortFailure("expiry")
		return
	}
	if err := s.store.ApplyStatus(ctx, u); err != nil {
		s.log.Error().Err(err).Str("promo_code", u.Code).Msg("expiry write failed")
		metrics.IncBestEffortFailure("expiry")
		return
	}
	metrics.AddCodesExpired("inline", 1)
}

// Redeem marks the code used for the order. Only one redemption of a code can
// ever succeed; every other attempt gets ErrRedemptionRejected.
func (s *PromoService) Redeem(ctx context.Context, req models.RedeemRequest) (models.Redemption, error) {
	if s.redemptions == nil {
		return models.Redemption{}, ErrRedemptionDisabled
	}
	code := NormalizeCode(req.Code)
	if code == "" || strings.TrimSpace(req.AccountNumber) == "" {
		return models.Redemption{}, ErrMissingRedeemFields
	}
	account, err := ParseAccountNumber(req.AccountNumber)
	if err != nil {
		return models.Redemption{}, err
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	red := models.Redemption{
		ID:            uuid.NewString(),
		Code:          code,
		AccountNumber: account,
		OrderRef:      req.OrderRef,
		UsedAt:        s.now().UTC(),
	}
	ok, err := s.redemptions.Commit(ctx, red)
	if err != nil {
		metrics.IncRedemption("error")
		return models.Redemption{}, fmt.Errorf("commit redemption: %w", err)
	}
	if !ok {
		metrics.IncRedemption("rejected")
		s.log.Info().Str("promo_code", code).Int64("account_number", account).Msg("redemption rejected")
		return models.Redemption{}, ErrRedemptionRejected
	}
	metrics.IncRedemption("committed")
	s.log.Info().Str("promo_code", code).Int64("account_number", account).Str("redemption_id", red.ID).Msg("promo code redeemed")
	return red, nil
}
