package retrier

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errFail = errors.New("fail")

func fast(opts ...Option) *Retrier {
	return New(append([]Option{WithInitialInterval(time.Millisecond), WithMaxInterval(2 * time.Millisecond)}, opts...)...)
}

func TestRetrier_Do(t *testing.T) {
	t.Run("success on first attempt", func(t *testing.T) {
		attempts := 0
		err := fast().Do(context.Background(), func(ctx context.Context) error {
			attempts++
			return nil
		})
		assert.NoError(t, err)
		assert.Equal(t, 1, attempts)
	})

	t.Run("success after retries", func(t *testing.T) {
		attempts := 0
		err := fast(WithMaxRetries(3)).Do(context.Background(), func(ctx context.Context) error {
			attempts++
			if attempts < 3 {
				return errFail
			}
			return nil
		})
		assert.NoError(t, err)
		assert.Equal(t, 3, attempts)
	})

	t.Run("fail after max retries", func(t *testing.T) {
		attempts := 0
		err := fast(WithMaxRetries(2)).Do(context.Background(), func(ctx context.Context) error {
			attempts++
			return errFail
		})
		require.Error(t, err)
		assert.ErrorIs(t, err, errFail)
		assert.Equal(t, 3, attempts) // 1 initial + 2 retries
	})

	t.Run("permanent error stops immediately", func(t *testing.T) {
		attempts := 0
		err := fast(WithMaxRetries(5)).Do(context.Background(), func(ctx context.Context) error {
			attempts++
			return Permanent(errFail)
		})
		assert.Equal(t, errFail, err)
		assert.Equal(t, 1, attempts)
	})

	t.Run("retry predicate", func(t *testing.T) {
		attempts := 0
		err := fast(WithMaxRetries(5), WithRetryIf(func(err error) bool { return false })).Do(context.Background(), func(ctx context.Context) error {
			attempts++
			return errFail
		})
		assert.Equal(t, errFail, err)
		assert.Equal(t, 1, attempts)
	})

	t.Run("context cancellation", func(t *testing.T) {
		r := New(WithMaxRetries(5), WithInitialInterval(100*time.Millisecond))
		ctx, cancel := context.WithCancel(context.Background())

		attempts := 0
		err := r.Do(ctx, func(ctx context.Context) error {
			attempts++
			if attempts == 2 {
				cancel()
			}
			return errFail
		})
		assert.ErrorIs(t, err, errFail)
		assert.Equal(t, 2, attempts)
	})
}

func TestDoWithData(t *testing.T) {
	t.Run("success returns data", func(t *testing.T) {
		val, err := DoWithData(context.Background(), fast(), func(ctx context.Context) (string, error) {
			return "success", nil
		})
		assert.NoError(t, err)
		assert.Equal(t, "success", val)
	})

	t.Run("fail returns error", func(t *testing.T) {
		_, err := DoWithData(context.Background(), fast(WithMaxRetries(1)), func(ctx context.Context) (string, error) {
			return "", errFail
		})
		assert.Error(t, err)
	})
}
