package retry

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"oip/ordersync/pkg/errorutil"
)

func fastPolicy(attempts int) Policy {
	return Policy{
		MaxAttempts:     attempts,
		InitialInterval: time.Millisecond,
		MaxInterval:     2 * time.Millisecond,
	}
}

func TestRetriesTransientUntilSuccess(t *testing.T) {
	calls := 0
	notified := 0
	err := Do(context.Background(), fastPolicy(3), func(ctx context.Context) error {
		calls++
		if calls < 3 {
			return errorutil.Retriable(errorutil.KindAssemblyFailed, "dial", errors.New("refused"))
		}
		return nil
	}, func(error, time.Duration) { notified++ })

	assert.NoError(t, err)
	assert.Equal(t, 3, calls)
	assert.Equal(t, 2, notified)
}

func TestStopsAfterMaxAttempts(t *testing.T) {
	calls := 0
	err := Do(context.Background(), fastPolicy(2), func(ctx context.Context) error {
		calls++
		return errorutil.Retriable(errorutil.KindSubmissionFailed, "503", nil)
	}, nil)

	assert.Error(t, err)
	assert.True(t, errorutil.Is(err, errorutil.KindSubmissionFailed))
	assert.Equal(t, 2, calls)
}

func TestPermanentErrorIsNotRetried(t *testing.T) {
	calls := 0
	err := Do(context.Background(), fastPolicy(5), func(ctx context.Context) error {
		calls++
		return errorutil.New(errorutil.KindConfig, "empty url")
	}, nil)

	assert.Equal(t, 1, calls)
	assert.True(t, errorutil.Is(err, errorutil.KindConfig))
}

func TestPlainErrorIsNotRetried(t *testing.T) {
	calls := 0
	err := Do(context.Background(), fastPolicy(5), func(ctx context.Context) error {
		calls++
		return errors.New("no rows")
	}, nil)

	assert.EqualError(t, err, "no rows")
	assert.Equal(t, 1, calls)
}

func TestNoRetryCallsOnce(t *testing.T) {
	calls := 0
	_ = Do(context.Background(), NoRetry(), func(ctx context.Context) error {
		calls++
		return errorutil.Retriable(errorutil.KindAssemblyFailed, "dial", nil)
	}, nil)
	assert.Equal(t, 1, calls)
}

func TestAttemptTimeoutIsApplied(t *testing.T) {
	p := NoRetry()
	p.AttemptTimeout = 10 * time.Millisecond

	err := Do(context.Background(), p, func(ctx context.Context) error {
		_, ok := ctx.Deadline()
		assert.True(t, ok)
		<-ctx.Done()
		return ctx.Err()
	}, nil)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}
