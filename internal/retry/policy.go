package retry

import (
	"context"
	"errors"
	"time"

	"go-expediente-dashboard/internal/model"
)

// Policy is an explicit retry policy: how many attempts, how long to wait
// between them, and which errors are worth retrying at all.
type Policy struct {
	MaxAttempts int
	Delay       time.Duration
	Retryable   func(error) bool
}

func Default() Policy {
	return Policy{
		MaxAttempts: 3,
		Delay:       time.Second,
		Retryable:   IsTransient,
	}
}

// IsTransient reports whether an error is a transport-level failure that a
// retry can plausibly fix. Credential, permission and endpoint errors are
// permanent and retried never.
func IsTransient(err error) bool {
	return errors.Is(err, model.ErrServiceUnavailable)
}

// Do runs op until it succeeds, exhausts MaxAttempts, hits a non-retryable
// error, or ctx is cancelled. The wait between attempts grows linearly:
// Delay, 2*Delay, ...
func (p Policy) Do(ctx context.Context, op func(ctx context.Context) error) error {
	attempts := p.MaxAttempts
	if attempts < 1 {
		attempts = 1
	}
	retryable := p.Retryable
	if retryable == nil {
		retryable = IsTransient
	}

	var err error
	for attempt := 1; attempt <= attempts; attempt++ {
		if err = op(ctx); err == nil {
			return nil
		}

		if !retryable(err) || attempt == attempts {
			return err
		}

		wait := p.Delay * time.Duration(attempt)
		if wait <= 0 {
			continue
		}

		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
	}

	return err
}
