package ai

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/rs/zerolog"
)

var (
	aiAttempts = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "feedback",
		Subsystem: "ai",
		Name:      "generation_attempts_total",
		Help:      "Number of generation attempts by outcome",
	}, []string{"model", "outcome"})

	aiRetries = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "feedback",
		Subsystem: "ai",
		Name:      "generation_retries_total",
		Help:      "Number of generation retries after retryable failures",
	}, []string{"model"})
)

// RetryPolicy controls how many times a failed generation call is retried
// and how the pause between attempts grows.
type RetryPolicy struct {
	// MaxRetries is the number of additional attempts after the first.
	MaxRetries int
	// InitialDelay is the pause before the first retry.
	InitialDelay time.Duration
	// Factor multiplies the delay after each retry.
	Factor float64
}

// DefaultRetryPolicy returns the service defaults: three retries starting at
// one second and doubling each time.
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{MaxRetries: 3, InitialDelay: time.Second, Factor: 2}
}

// Invoker wraps a Generator with classification-aware retries. Retryable
// failures are re-attempted with exponential backoff; permanent failures and
// an exhausted budget surface the last classified error unchanged.
type Invoker struct {
	generator Generator
	policy    RetryPolicy
	logger    zerolog.Logger
	sleep     func(ctx context.Context, d time.Duration) error
}

// NewInvoker builds an invoker around the given generator and policy.
// Zero or negative policy fields fall back to the defaults.
func NewInvoker(generator Generator, policy RetryPolicy, logger zerolog.Logger) *Invoker {
	defaults := DefaultRetryPolicy()
	if policy.MaxRetries < 0 {
		policy.MaxRetries = defaults.MaxRetries
	}
	if policy.InitialDelay <= 0 {
		policy.InitialDelay = defaults.InitialDelay
	}
	if policy.Factor < 1 {
		policy.Factor = defaults.Factor
	}

	return &Invoker{
		generator: generator,
		policy:    policy,
		logger:    logger.With().Str("component", "ai_invoker").Logger(),
		sleep:     sleepContext,
	}
}

// Invoke runs the generation call under the retry policy. The outcome always
// carries either text or the last classified failure; cancellation during a
// backoff pause ends the invocation with a transient failure wrapping the
// context error.
func (inv *Invoker) Invoke(ctx context.Context, req GenerationRequest) GenerationOutcome {
	delay := inv.policy.InitialDelay
	var failure *ClassifiedError

	for attempt := 0; attempt <= inv.policy.MaxRetries; attempt++ {
		if attempt > 0 {
			inv.logger.Warn().
				Int("attempt", attempt+1).
				Dur("backoff", delay).
				Str("kind", string(failure.Kind)).
				Msg("retrying generation")
			aiRetries.WithLabelValues(req.Model).Inc()
			if err := inv.sleep(ctx, delay); err != nil {
				return GenerationOutcome{Failure: &ClassifiedError{
					Kind:    KindTransient,
					Message: "generation aborted: " + err.Error(),
					Cause:   err,
				}}
			}
			delay = time.Duration(float64(delay) * inv.policy.Factor)
		}

		text, err := inv.generator.Generate(ctx, req)
		if err == nil {
			aiAttempts.WithLabelValues(req.Model, "success").Inc()
			return GenerationOutcome{Success: true, Text: text}
		}

		failure = Classify(err)
		aiAttempts.WithLabelValues(req.Model, string(failure.Kind)).Inc()
		if !failure.Retryable {
			return GenerationOutcome{Failure: failure}
		}
	}

	inv.logger.Error().
		Int("attempts", inv.policy.MaxRetries+1).
		Str("kind", string(failure.Kind)).
		Msg("generation retry budget exhausted")
	return GenerationOutcome{Failure: failure}
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
