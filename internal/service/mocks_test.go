package service

import (
	"context"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/Cheertaboi/promo-code-service/internal/models"
)

// memPromoStore is an in-memory PromoStore + RedemptionStore used by unit tests.
type memPromoStore struct {
	mu        sync.Mutex
	codes     map[string]*models.PromoCode
	lookups   int
	getErr    error
	statusErr error
	commitErr error
}

func newMemPromoStore(codes ...models.PromoCode) *memPromoStore {
	m := &memPromoStore{codes: make(map[string]*models.PromoCode)}
	for _, c := range codes {
		cp := c
		m.codes[c.Code] = &cp
	}
	return m
}

func (m *memPromoStore) GetByCode(ctx context.Context, code string) (*models.PromoCode, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.lookups++
	if m.getErr != nil {
		return nil, m.getErr
	}
	p, ok := m.codes[code]
	if !ok {
		return nil, nil
	}
	cp := *p
	return &cp, nil
}

func (m *memPromoStore) ApplyStatus(ctx context.Context, u models.StatusUpdate) error {
	if m.statusErr != nil {
		return m.statusErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if p, ok := m.codes[u.Code]; ok && !p.Used {
		p.Status = u.Status
	}
	return nil
}

func (m *memPromoStore) Commit(ctx context.Context, red models.Redemption) (bool, error) {
	if m.commitErr != nil {
		return false, m.commitErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.codes[red.Code]
	if !ok || p.Used || p.AccountNumber != red.AccountNumber || !red.UsedAt.Before(p.ExpiresAt) {
		return false, nil
	}
	at := red.UsedAt
	p.Used = true
	p.UsedAt = &at
	p.Status = models.StatusUsed
	return true, nil
}

func (m *memPromoStore) get(code string) models.PromoCode {
	m.mu.Lock()
	defer m.mu.Unlock()
	return *m.codes[code]
}

type memSecurityLog struct {
	mu     sync.Mutex
	events []models.SecurityEvent
	err    error
}

func (m *memSecurityLog) Record(ctx context.Context, ev models.SecurityEvent) error {
	if m.err != nil {
		return m.err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, ev)
	return nil
}

func (m *memSecurityLog) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.events)
}

var testNow = time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)

func fixedClock() time.Time { return testNow }

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func activeCode(code string, account int64) models.PromoCode {
	return models.PromoCode{
		Code:               code,
		AccountNumber:      account,
		AccountName:        "Riverside Music",
		ExpiresAt:          testNow.Add(30 * time.Hour),
		DiscountPercentage: dec("15"),
		MaxDiscountAmount:  dec("50.00"),
		MaxOrderAmount:     dec("2000.00"),
		Status:             models.StatusActive,
	}
}
