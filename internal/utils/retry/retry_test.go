package retry

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"golang.org/x/xerrors"
)

var errBoom = xerrors.New("boom")

func fastBackoff() Backoff {
	backoff := DefaultBackoffFactory()
	backoff.InitialInterval = time.Millisecond
	backoff.MaxInterval = time.Millisecond
	return backoff
}

func TestRetry_Retryable(t *testing.T) {
	require := require.New(t)

	attempts := 0
	r := New(WithBackoffFactory(fastBackoff))
	err := r.Retry(context.Background(), func(ctx context.Context) error {
		attempts += 1
		if attempts < 3 {
			return Retryable(xerrors.Errorf("attempt %v: %w", attempts, errBoom))
		}
		return nil
	})
	require.NoError(err)
	require.Equal(3, attempts)
}

func TestRetry_Permanent(t *testing.T) {
	require := require.New(t)

	attempts := 0
	r := New(WithBackoffFactory(fastBackoff))
	err := r.Retry(context.Background(), func(ctx context.Context) error {
		attempts += 1
		return errBoom
	})
	require.Error(err)
	require.True(xerrors.Is(err, errBoom))
	require.Equal(1, attempts)
}

func TestRetry_MaxAttempts(t *testing.T) {
	require := require.New(t)

	attempts := 0
	r := New(WithBackoffFactory(fastBackoff), WithMaxAttempts(2))
	err := r.Retry(context.Background(), func(ctx context.Context) error {
		attempts += 1
		return Retryable(errBoom)
	})
	require.Error(err)
	require.True(xerrors.Is(err, errBoom))
	require.Equal(2, attempts)
}

func TestRetry_Filter(t *testing.T) {
	require := require.New(t)

	attempts := 0
	r := New(WithBackoffFactory(fastBackoff), WithFilter(func(err error) bool {
		return xerrors.Is(err, errBoom)
	}))
	err := r.Retry(context.Background(), func(ctx context.Context) error {
		attempts += 1
		if attempts == 1 {
			return errBoom
		}
		return nil
	})
	require.NoError(err)
	require.Equal(2, attempts)
}
