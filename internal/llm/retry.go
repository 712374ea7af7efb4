package llm

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/cenkalti/backoff/v4"
)

const (
	DefaultMaxRetries      = 2
	DefaultInitialInterval = time.Second
	DefaultMaxInterval     = 5 * time.Second
)

// RetryPolicy decides how a single provider is retried.
type RetryPolicy struct {
	MaxRetries      uint64
	InitialInterval time.Duration
	MaxInterval     time.Duration
	IsPermanent     func(error) bool

	// newTimer overrides the wait timer; tests use it to skip real sleeps.
	newTimer func() backoff.Timer
}

// DefaultRetryPolicy gives three attempts with 1s then 2s waits, capped at 5s.
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{
		MaxRetries:      DefaultMaxRetries,
		InitialInterval: DefaultInitialInterval,
		MaxInterval:     DefaultMaxInterval,
		IsPermanent:     IsPermanent,
	}
}

func (p RetryPolicy) backOff(ctx context.Context) backoff.BackOff {
	expo := backoff.NewExponentialBackOff()
	expo.InitialInterval = p.InitialInterval
	expo.MaxInterval = p.MaxInterval
	expo.Multiplier = 2
	expo.RandomizationFactor = 0
	expo.MaxElapsedTime = 0
	expo.Reset()
	return backoff.WithContext(backoff.WithMaxRetries(expo, p.MaxRetries), ctx)
}

func (p RetryPolicy) permanent(err error) bool {
	if p.IsPermanent == nil {
		return IsPermanent(err)
	}
	return p.IsPermanent(err)
}

// Result describes a successful Execute.
type Result struct {
	Text     string
	Attempts int
}

// Executor runs one provider call under a RetryPolicy.
type Executor struct {
	caller Caller
	policy RetryPolicy
	logger *slog.Logger
}

func NewExecutor(caller Caller, policy RetryPolicy, logger *slog.Logger) *Executor {
	return &Executor{caller: caller, policy: policy, logger: logger}
}

// Execute calls p until it succeeds, fails permanently, or the retry budget
// runs out. The returned error is always classifiable; attempts is set on
// both paths.
func (e *Executor) Execute(ctx context.Context, p Provider, req Request) (Result, error) {
	var (
		attempts int
		text     string
	)

	op := func() error {
		attempts++
		out, err := e.caller.Complete(ctx, p, req)
		if err != nil {
			if e.policy.permanent(err) {
				return backoff.Permanent(err)
			}
			return err
		}
		text = out
		return nil
	}

	notify := func(err error, wait time.Duration) {
		e.logger.Warn("provider attempt failed, backing off",
			slog.String("provider", p.Name),
			slog.Int("attempt", attempts),
			slog.String("class", string(Classify(err))),
			slog.Duration("wait", wait),
		)
	}

	var timer backoff.Timer
	if e.policy.newTimer != nil {
		timer = e.policy.newTimer()
	}

	err := backoff.RetryNotifyWithTimer(op, e.policy.backOff(ctx), notify, timer)
	if err != nil {
		var pe *ProviderError
		if !errors.As(err, &pe) {
			err = &ProviderError{Provider: p.Name, Class: Classify(err), Err: err}
		}
		return Result{Attempts: attempts}, err
	}
	return Result{Text: text, Attempts: attempts}, nil
}
