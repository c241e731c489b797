package retry

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"go-expediente-dashboard/internal/model"
)

func TestPolicyDo(t *testing.T) {
	t.Parallel()

	transient := fmt.Errorf("fetch cases: %w", model.ErrServiceUnavailable)

	t.Run("retries transient errors until success", func(t *testing.T) {
		policy := Policy{MaxAttempts: 3, Delay: time.Millisecond}

		calls := 0
		err := policy.Do(context.Background(), func(context.Context) error {
			calls++
			if calls < 3 {
				return transient
			}
			return nil
		})

		require.NoError(t, err)
		require.Equal(t, 3, calls)
	})

	t.Run("surfaces the last error when attempts run out", func(t *testing.T) {
		policy := Policy{MaxAttempts: 3, Delay: time.Millisecond}

		calls := 0
		err := policy.Do(context.Background(), func(context.Context) error {
			calls++
			return transient
		})

		require.ErrorIs(t, err, model.ErrServiceUnavailable)
		require.Equal(t, 3, calls)
	})

	t.Run("does not retry permanent errors", func(t *testing.T) {
		policy := Policy{MaxAttempts: 3, Delay: time.Millisecond}

		calls := 0
		err := policy.Do(context.Background(), func(context.Context) error {
			calls++
			return fmt.Errorf("login: %w", model.ErrInvalidCredentials)
		})

		require.ErrorIs(t, err, model.ErrInvalidCredentials)
		require.Equal(t, 1, calls)
	})

	t.Run("stops waiting when the context is cancelled", func(t *testing.T) {
		policy := Policy{MaxAttempts: 5, Delay: time.Minute}

		ctx, cancel := context.WithCancel(context.Background())
		go func() {
			time.Sleep(10 * time.Millisecond)
			cancel()
		}()

		err := policy.Do(ctx, func(context.Context) error {
			return transient
		})

		require.ErrorIs(t, err, context.Canceled)
	})

	t.Run("zero-value policy still runs the operation once", func(t *testing.T) {
		var policy Policy

		calls := 0
		err := policy.Do(context.Background(), func(context.Context) error {
			calls++
			return transient
		})

		require.Error(t, err)
		require.Equal(t, 1, calls)
	})
}
