package translate

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/sony/gobreaker"
)

const (
	DefaultBreakerFailures = 5
	DefaultBreakerTimeout  = 30 * time.Second
)

// Translator is the collaborator signature the breaker protects
type Translator interface {
	Translate(ctx context.Context, text, from, to string) (string, error)
}

// BreakerSettings configures a Breaker
type BreakerSettings struct {
	Name string
	// ConsecutiveFailures trips the breaker
	ConsecutiveFailures uint32
	// OpenTimeout is how long the breaker stays open before probing again
	OpenTimeout time.Duration
}

// Breaker fails translations fast while the wrapped translator keeps failing
type Breaker struct {
	next   Translator
	cb     *gobreaker.CircuitBreaker
	logger *slog.Logger
}

// NewBreaker wraps next in a circuit breaker. Zero settings use the defaults.
func NewBreaker(next Translator, settings BreakerSettings, logger *slog.Logger) *Breaker {
	if logger == nil {
		logger = slog.Default()
	}
	if settings.Name == "" {
		settings.Name = "translator"
	}
	if settings.ConsecutiveFailures == 0 {
		settings.ConsecutiveFailures = DefaultBreakerFailures
	}
	if settings.OpenTimeout <= 0 {
		settings.OpenTimeout = DefaultBreakerTimeout
	}

	failures := settings.ConsecutiveFailures
	cb := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        settings.Name,
		MaxRequests: 1,
		Timeout:     settings.OpenTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= failures
		},
		// cancelled calls do not count as failures
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, context.Canceled)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("translator circuit breaker state changed",
				"breaker", name,
				"from", from.String(),
				"to", to.String(),
			)
		},
	})

	return &Breaker{next: next, cb: cb, logger: logger}
}

// Translate calls the wrapped translator unless the breaker is open
func (b *Breaker) Translate(ctx context.Context, text, from, to string) (string, error) {
	out, err := b.cb.Execute(func() (interface{}, error) {
		return b.next.Translate(ctx, text, from, to)
	})
	if err != nil {
		return "", err
	}
	return out.(string), nil
}

// State returns the breaker state name
func (b *Breaker) State() string {
	return b.cb.State().String()
}

// IsOpen reports whether translations are currently failing fast
func (b *Breaker) IsOpen() bool {
	return b.cb.State() == gobreaker.StateOpen
}
