package config

import (
	"log"
	"time"

	"github.com/sony/gobreaker"

	"github.com/AchilleasB/creche-admin/console-service/internal/metrics"
)

// Circuit breaker names, one per external dependency.
const (
	BreakerRedis     = "Redis-Session"
	BreakerCMS       = "CMS-REST"
	BreakerRelayDB   = "Relay-PostgreSQL"
	BreakerPublisher = "RabbitMQ-Publisher"
)

// NewCircuitBreaker creates a circuit breaker with standard settings.
// The name parameter uniquely identifies the circuit breaker instance.
func NewCircuitBreaker(name string) *gobreaker.CircuitBreaker {
	var timeout time.Duration

	// The open-state timeout follows the health check budget of each dependency
	switch name {
	case BreakerRedis:
		timeout = time.Second * 5
	case BreakerRelayDB:
		timeout = time.Second * 10
	default:
		timeout = time.Second * 30
	}

	metrics.SetBreakerState(name, gobreaker.StateClosed)

	return gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        name,
		MaxRequests: 3,
		Interval:    time.Second * 10,
		Timeout:     timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			// Open circuit after 3 consecutive failures
			return counts.ConsecutiveFailures >= 3
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.Printf("[CRITICAL] Circuit Breaker %s: %s -> %s", name, from, to)
			metrics.SetBreakerState(name, to)
		},
	})
}
