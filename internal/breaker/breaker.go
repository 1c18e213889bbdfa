// OpusCine - Movie Metadata Broker with Streaming Availability
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/opuscine

// Package breaker wraps sony/gobreaker with the logging and Prometheus
// instrumentation shared by every guarded dependency (cache backend,
// metadata provider, language model).
package breaker

import (
	"context"
	"errors"
	"fmt"
	"time"

	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/tomtom215/opuscine/internal/config"
	"github.com/tomtom215/opuscine/internal/logging"
	"github.com/tomtom215/opuscine/internal/metrics"
)

// Settings configures a Breaker.
type Settings struct {
	Name string

	// MaxRequests is the number of probes allowed while half-open.
	MaxRequests uint32

	// Interval resets the closed-state counts. Zero never resets.
	Interval time.Duration

	// Timeout is how long the breaker stays open before probing.
	Timeout time.Duration

	// FailureThreshold consecutive failures open the circuit.
	FailureThreshold uint32

	// IsExcluded errors count as neither success nor failure.
	IsExcluded func(err error) bool
}

// FromConfig builds Settings from the cache breaker configuration block.
func FromConfig(name string, cfg config.BreakerConfig) Settings {
	return Settings{
		Name:             name,
		MaxRequests:      cfg.MaxRequests,
		Interval:         cfg.Interval,
		Timeout:          cfg.Timeout,
		FailureThreshold: cfg.FailureThreshold,
	}
}

// Breaker guards calls to one dependency.
//
// The breaker uses real time (via sony/gobreaker) for its interval and
// timeout. Tests drive it with short timeouts rather than a fake clock.
type Breaker struct {
	cb   *gobreaker.CircuitBreaker[any]
	name string
}

// New creates a Breaker and initializes its metrics to the closed state.
func New(s Settings) *Breaker {
	threshold := s.FailureThreshold
	if threshold == 0 {
		threshold = 5
	}

	metrics.CircuitBreakerState.WithLabelValues(s.Name).Set(0)
	metrics.CircuitBreakerConsecutiveFailures.WithLabelValues(s.Name).Set(0)

	isExcluded := s.IsExcluded
	if isExcluded == nil {
		isExcluded = IsCallerCancellation
	}

	cb := gobreaker.NewCircuitBreaker[any](gobreaker.Settings{
		Name:        s.Name,
		MaxRequests: s.MaxRequests,
		Interval:    s.Interval,
		Timeout:     s.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			trip := counts.ConsecutiveFailures >= threshold
			if trip {
				logging.Warn().
					Str("breaker", s.Name).
					Uint32("consecutive_failures", counts.ConsecutiveFailures).
					Msg("[CIRCUIT BREAKER] Opening circuit")
			}
			return trip
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			fromStr := stateToString(from)
			toStr := stateToString(to)

			logging.Info().Str("breaker", name).Str("from", fromStr).Str("to", toStr).Msg("[CIRCUIT BREAKER] State transition")

			metrics.CircuitBreakerState.WithLabelValues(name).Set(stateToFloat(to))
			metrics.CircuitBreakerTransitions.WithLabelValues(name, fromStr, toStr).Inc()
			if to == gobreaker.StateClosed {
				metrics.CircuitBreakerConsecutiveFailures.WithLabelValues(name).Set(0)
			}
		},
		IsExcluded: isExcluded,
	})

	return &Breaker{cb: cb, name: s.Name}
}

// Name returns the breaker name used in logs and metrics.
func (b *Breaker) Name() string { return b.name }

// State returns "closed", "half-open" or "open".
func (b *Breaker) State() string { return stateToString(b.cb.State()) }

// Open reports whether calls are currently being rejected outright.
func (b *Breaker) Open() bool { return b.cb.State() == gobreaker.StateOpen }

// Execute runs fn under breaker protection.
func (b *Breaker) Execute(fn func() (any, error)) (any, error) {
	result, err := b.cb.Execute(fn)

	if err != nil {
		if IsRejected(err) {
			metrics.CircuitBreakerRequests.WithLabelValues(b.name, "rejected").Inc()
			logging.Debug().Str("breaker", b.name).Err(err).Msg("[CIRCUIT BREAKER] Request rejected")
		} else {
			metrics.CircuitBreakerRequests.WithLabelValues(b.name, "failure").Inc()
			counts := b.cb.Counts()
			metrics.CircuitBreakerConsecutiveFailures.WithLabelValues(b.name).Set(float64(counts.ConsecutiveFailures))
		}
		return nil, err
	}

	metrics.CircuitBreakerRequests.WithLabelValues(b.name, "success").Inc()
	metrics.CircuitBreakerConsecutiveFailures.WithLabelValues(b.name).Set(0)
	return result, nil
}

// Do runs fn under breaker protection when there is no result value.
func (b *Breaker) Do(fn func() error) error {
	_, err := b.Execute(func() (any, error) {
		return nil, fn()
	})
	return err
}

// Call runs fn under b and casts the result back to T.
func Call[T any](b *Breaker, fn func() (T, error)) (T, error) {
	var zero T
	result, err := b.Execute(func() (any, error) {
		return fn()
	})
	if err != nil {
		return zero, err
	}
	if result == nil {
		return zero, nil
	}
	typed, ok := result.(T)
	if !ok {
		return zero, fmt.Errorf("circuit breaker: unexpected result type %T", result)
	}
	return typed, nil
}

// IsRejected reports whether err came from the breaker itself rather than
// the guarded call.
func IsRejected(err error) bool {
	return errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests)
}

// IsCallerCancellation excludes a canceled caller context from the counts.
// Deadline expiry still counts as a failure.
func IsCallerCancellation(err error) bool {
	return errors.Is(err, context.Canceled)
}

func stateToFloat(state gobreaker.State) float64 {
	switch state {
	case gobreaker.StateClosed:
		return 0
	case gobreaker.StateHalfOpen:
		return 1
	case gobreaker.StateOpen:
		return 2
	default:
		return -1
	}
}

func stateToString(state gobreaker.State) string {
	switch state {
	case gobreaker.StateClosed:
		return "closed"
	case gobreaker.StateHalfOpen:
		return "half-open"
	case gobreaker.StateOpen:
		return "open"
	default:
		return "unknown"
	}
}
