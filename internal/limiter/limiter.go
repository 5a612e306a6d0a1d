package limiter

import (
	"context"
	"fmt"
)

// Limiter counts attempts per key inside a fixed window.
type Limiter interface {
	Allow(ctx context.Context, key string) (bool, error)
}

// Unlimited allows everything.
type Unlimited struct{}

func (Unlimited) Allow(context.Context, string) (bool, error) { return true, nil }

// ValidateKey keys validation attempts on the parsed account number, so every
// spelling of one account shares a window.
func ValidateKey(account int64) string {
	return fmt.Sprintf("promo_validate:%d", account)
}
