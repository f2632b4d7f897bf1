package circuitbreaker

import (
	"time"

	"github.com/rs/zerolog/log"
	"github.com/sony/gobreaker"

	"github.com/crbuilding/server/internal/config"
)

// ServiceType identifies different external services for circuit breaker isolation.
type ServiceType string

const (
	ServiceGateway ServiceType = "razorpay_api"
	ServiceMail    ServiceType = "smtp"
)

// Manager manages circuit breakers for different external services.
// Each service has its own breaker so a failing SMTP relay cannot block
// payment gateway calls and vice versa.
type Manager struct {
	breakers map[ServiceType]*gobreaker.CircuitBreaker
	config   Config
}

// Config holds circuit breaker configuration for all services.
type Config struct {
	Enabled bool

	Gateway BreakerConfig
	Mail    BreakerConfig
}

// BreakerConfig configures a single circuit breaker.
type BreakerConfig struct {
	// MaxRequests is the maximum number of requests allowed to pass through
	// when the circuit breaker is half-open.
	MaxRequests uint32

	// Interval is the cyclic period in closed state to clear the internal counts.
	// If 0, never clears.
	Interval time.Duration

	// Timeout is the period of the open state after which the state becomes half-open.
	Timeout time.Duration

	// Trip thresholds: either N consecutive failures, or a failure ratio
	// over at least MinRequests observations.
	ConsecutiveFailures uint32
	FailureRatio        float64
	MinRequests         uint32
}

// NewManagerFromConfig creates a circuit breaker manager from application config.
func NewManagerFromConfig(cfg config.CircuitBreakerConfig) *Manager {
	return NewManager(Config{
		Enabled: cfg.Enabled,
		Gateway: BreakerConfig{
			MaxRequests:         cfg.Gateway.MaxRequests,
			Interval:            cfg.Gateway.Interval.Duration,
			Timeout:             cfg.Gateway.Timeout.Duration,
			ConsecutiveFailures: cfg.Gateway.ConsecutiveFailures,
			FailureRatio:        cfg.Gateway.FailureRatio,
			MinRequests:         cfg.Gateway.MinRequests,
		},
		Mail: BreakerConfig{
			MaxRequests:         cfg.Mail.MaxRequests,
			Interval:            cfg.Mail.Interval.Duration,
			Timeout:             cfg.Mail.Timeout.Duration,
			ConsecutiveFailures: cfg.Mail.ConsecutiveFailures,
			FailureRatio:        cfg.Mail.FailureRatio,
			MinRequests:         cfg.Mail.MinRequests,
		},
	})
}

// NewManager creates a circuit breaker manager with the given configuration.
func NewManager(cfg Config) *Manager {
	m := &Manager{
		breakers: make(map[ServiceType]*gobreaker.CircuitBreaker),
		config:   cfg,
	}

	if !cfg.Enabled {
		// No breakers registered, Execute passes through
		return m
	}

	m.breakers[ServiceGateway] = gobreaker.NewCircuitBreaker(toGobreakerSettings(string(ServiceGateway), cfg.Gateway))
	m.breakers[ServiceMail] = gobreaker.NewCircuitBreaker(toGobreakerSettings(string(ServiceMail), cfg.Mail))

	return m
}

// Execute wraps a function call with circuit breaker protection.
// A nil manager, a disabled manager, or an unknown service executes directly.
func (m *Manager) Execute(service ServiceType, fn func() (interface{}, error)) (interface{}, error) {
	if m == nil || !m.config.Enabled {
		return fn()
	}

	breaker, ok := m.breakers[service]
	if !ok {
		return fn()
	}

	return breaker.Execute(fn)
}

// State returns the current state of a circuit breaker.
// Returns "disabled" if circuit breakers are not enabled or service not found.
func (m *Manager) State(service ServiceType) string {
	if m == nil || !m.config.Enabled {
		return "disabled"
	}

	breaker, ok := m.breakers[service]
	if !ok {
		return "not_configured"
	}

	return breaker.State().String()
}

// toGobreakerSettings converts our config to gobreaker.Settings.
func toGobreakerSettings(name string, cfg BreakerConfig) gobreaker.Settings {
	return gobreaker.Settings{
		Name:        name,
		MaxRequests: cfg.MaxRequests,
		Interval:    cfg.Interval,
		Timeout:     cfg.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if cfg.ConsecutiveFailures > 0 && counts.ConsecutiveFailures >= cfg.ConsecutiveFailures {
				return true
			}

			if cfg.FailureRatio > 0 && cfg.MinRequests > 0 && counts.Requests >= cfg.MinRequests {
				failureRate := float64(counts.TotalFailures) / float64(counts.Requests)
				if failureRate >= cfg.FailureRatio {
					return true
				}
			}

			return false
		},
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			log.Warn().
				Str("breaker", name).
				Str("from", from.String()).
				Str("to", to.String()).
				Msg("circuitbreaker.state_change")
		},
	}
}
