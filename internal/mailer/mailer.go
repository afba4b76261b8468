// Package mailer simulates the welcome-email dependency. Each send is a
// detached task that reports its lifecycle over the broadcast channel:
// exactly one pending announcement followed by exactly one terminal phase.
// The task never raises back into the coordinator that started it.
package mailer

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"time"

	"userdir/internal/events"
	"userdir/internal/faultlog"
	"userdir/internal/platform/metrics"
	"userdir/pkg/email"
)

// defaultDelay models the latency of the downstream email provider.
const defaultDelay = 2500 * time.Millisecond

// defaultSuccessRate models an unreliable provider: roughly one in ten sends
// fails.
const defaultSuccessRate = 0.9

// Publisher is the slice of the broadcast channel the mailer needs.
type Publisher interface {
	Publish(evt events.Event)
}

// Mailer runs simulated welcome-email sends. The outcome source and delay are
// injectable so tests can force both branches deterministically.
type Mailer struct {
	publisher Publisher
	sink      faultlog.Sink
	logger    *slog.Logger
	metrics   *metrics.Metrics
	delay     time.Duration
	outcome   func() bool
	now       func() time.Time
}

type Option func(*Mailer)

// WithDelay overrides the simulated provider latency.
func WithDelay(d time.Duration) Option {
	return func(m *Mailer) { m.delay = d }
}

// WithOutcome replaces the probabilistic send outcome.
func WithOutcome(outcome func() bool) Option {
	return func(m *Mailer) { m.outcome = outcome }
}

// WithClock replaces the timestamp source for emitted events.
func WithClock(now func() time.Time) Option {
	return func(m *Mailer) { m.now = now }
}

// WithMetrics wires outcome counters; nil metrics are safe.
func WithMetrics(metrics *metrics.Metrics) Option {
	return func(m *Mailer) { m.metrics = metrics }
}

func New(publisher Publisher, sink faultlog.Sink, logger *slog.Logger, opts ...Option) *Mailer {
	m := &Mailer{
		publisher: publisher,
		sink:      sink,
		logger:    logger,
		delay:     defaultDelay,
		outcome:   func() bool { return rand.Float64() < defaultSuccessRate },
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Go starts a detached send. The caller never waits on it and never observes
// its failures.
func (m *Mailer) Go(userEmail, userName string) {
	go m.SendWelcome(userEmail, userName)
}

// SendWelcome runs one task to completion: pending, simulated send, then one
// terminal phase. Faults inside the task are recovered, mapped to the failed
// phase, and recorded to the diagnostic sink.
func (m *Mailer) SendWelcome(userEmail, userName string) {
	terminal := false
	defer func() {
		if r := recover(); r != nil {
			m.sink.Record(context.Background(), "mailer.send", fmt.Errorf("welcome email panic: %v", r))
			m.logger.Error("welcome email task panicked", "user_email", userEmail, "panic", r)
			if !terminal {
				m.publisher.Publish(events.NewEmailStatus(events.EmailFailed, userEmail, m.now()))
			}
		}
	}()

	if userName == "" {
		userName = email.DeriveDisplayName(userEmail)
	}

	m.publisher.Publish(events.NewEmailStatus(events.EmailPending, userEmail, m.now()))

	time.Sleep(m.delay)
	m.logger.Info("sending welcome email", "user_email", userEmail, "user_name", userName)

	sent := m.outcome()

	terminal = true
	if sent {
		m.publisher.Publish(events.NewEmailStatus(events.EmailSuccess, userEmail, m.now()))
		m.metrics.ObserveEmailOutcome(string(events.EmailSuccess))
		m.logger.Info("welcome email sent", "user_email", userEmail)
		return
	}

	m.publisher.Publish(events.NewEmailStatus(events.EmailFailed, userEmail, m.now()))
	m.metrics.ObserveEmailOutcome(string(events.EmailFailed))
	m.logger.Warn("welcome email failed", "user_email", userEmail)
}
