package delegate

import (
	"time"

	"github.com/sony/gobreaker"

	"codeberg.org/snonux/lingohop/internal/logging"
)

// newBreaker returns the circuit breaker guarding calls to an LLM API. It
// opens after three consecutive failures and probes again after 30 seconds.
func newBreaker(name string, logger logging.Logger) *gobreaker.CircuitBreaker {
	return gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        name,
		MaxRequests: 1,
		Interval:    time.Minute,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 3
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("circuit breaker state changed", "breaker", name, "from", from.String(), "to", to.String())
		},
	})
}
