package metrics

import "github.com/prometheus/client_golang/prometheus"

func init() {
	register(validationsTotal, securityEventsTotal, codesExpiredTotal, redemptionsTotal, bestEffortFailures, limitedTotal)
}

var (
	validationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "promo_validations_total",
			Help: "Promo code validations by outcome.",
		},
		[]string{"outcome"},
	)

	securityEventsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "promo_security_events_total",
			Help: "Cross-account promo code attempts recorded.",
		},
	)

	codesExpiredTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "promo_codes_expired_total",
			Help: "Promo codes relabelled EXPIRED, by source (inline|sweep).",
		},
		[]string{"source"},
	)

	redemptionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "promo_redemptions_total",
			Help: "Redemption commits by result (committed|rejected|error).",
		},
		[]string{"result"},
	)

	bestEffortFailures = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "promo_best_effort_failures_total",
			Help: "Failed best-effort writes, by write (expiry|security_log).",
		},
		[]string{"write"},
	)

	limitedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "promo_attempts_limited_total",
			Help: "Validation requests rejected by the attempt limiter.",
		},
	)
)

func IncValidation(outcome string) {
	validationsTotal.WithLabelValues(norm(outcome)).Inc()
}

func IncSecurityEvent() { securityEventsTotal.Inc() }

func AddCodesExpired(source string, n int) {
	codesExpiredTotal.WithLabelValues(norm(source)).Add(float64(n))
}

func IncRedemption(result string) {
	redemptionsTotal.WithLabelValues(norm(result)).Inc()
}

func IncBestEffortFailure(write string) {
	bestEffortFailures.WithLabelValues(norm(write)).Inc()
}

func IncLimited() { limitedTotal.Inc() }
