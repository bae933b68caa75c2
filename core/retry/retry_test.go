package retry

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type timeoutErr struct{}

func (timeoutErr) Error() string   { return "i/o timeout" }
func (timeoutErr) Timeout() bool   { return true }
func (timeoutErr) Temporary() bool { return true }

func noSleep(recorded *[]time.Duration) func(context.Context, time.Duration) error {
	return func(ctx context.Context, d time.Duration) error {
		*recorded = append(*recorded, d)
		return nil
	}
}

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want Class
	}{
		{"Nil", nil, Permanent},
		{"Plain", errors.New("boom"), Permanent},
		{"MarkedTransient", MarkTransient(errors.New("429")), Transient},
		{"WrappedTransient", fmt.Errorf("insert: %w", MarkTransient(errors.New("503"))), Transient},
		{"MarkedPermanent", MarkPermanent(errors.New("403")), Permanent},
		{"Canceled", context.Canceled, Permanent},
		{"NetTimeout", timeoutErr{}, Transient},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.err))
		})
	}
}

func TestPolicy_Backoff(t *testing.T) {
	p := Policy{InitialBackoff: 100 * time.Millisecond, MaxBackoff: time.Second, Multiplier: 2}

	assert.Equal(t, time.Duration(0), p.Backoff(0))
	assert.Equal(t, 100*time.Millisecond, p.Backoff(1))
	assert.Equal(t, 200*time.Millisecond, p.Backoff(2))
	assert.Equal(t, 400*time.Millisecond, p.Backoff(3))
	assert.Equal(t, 800*time.Millisecond, p.Backoff(4))
	assert.Equal(t, time.Second, p.Backoff(5))
	assert.Equal(t, time.Second, p.Backoff(12))
}

func TestPolicy_Do(t *testing.T) {
	t.Run("SucceedsFirstTry", func(t *testing.T) {
		var waits []time.Duration
		p := Default()
		p.Sleep = noSleep(&waits)

		attempts, err := p.Do(context.Background(), func(ctx context.Context) error { return nil })
		require.NoError(t, err)
		assert.Equal(t, 1, attempts)
		assert.Empty(t, waits)
	})

	t.Run("RetriesTransientUntilSuccess", func(t *testing.T) {
		var waits []time.Duration
		p := Policy{MaxAttempts: 5, InitialBackoff: 10 * time.Millisecond, Multiplier: 2, Sleep: noSleep(&waits)}

		calls := 0
		attempts, err := p.Do(context.Background(), func(ctx context.Context) error {
			calls++
			if calls < 3 {
				return MarkTransient(errors.New("rate limited"))
			}
			return nil
		})
		require.NoError(t, err)
		assert.Equal(t, 3, attempts)
		assert.Equal(t, []time.Duration{10 * time.Millisecond, 20 * time.Millisecond}, waits)
	})

	t.Run("StopsAtCeiling", func(t *testing.T) {
		var waits []time.Duration
		p := Policy{MaxAttempts: 3, InitialBackoff: time.Millisecond, Multiplier: 2, Sleep: noSleep(&waits)}

		attempts, err := p.Do(context.Background(), func(ctx context.Context) error {
			return MarkTransient(errors.New("503"))
		})
		require.Error(t, err)
		assert.Equal(t, 3, attempts)
		assert.Len(t, waits, 2)
	})

	t.Run("PermanentIsNotRetried", func(t *testing.T) {
		var waits []time.Duration
		p := Policy{MaxAttempts: 5, Sleep: noSleep(&waits)}

		attempts, err := p.Do(context.Background(), func(ctx context.Context) error {
			return errors.New("forbidden")
		})
		require.EqualError(t, err, "forbidden")
		assert.Equal(t, 1, attempts)
		assert.Empty(t, waits)
	})

	t.Run("CanceledContext", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		attempts, err := Default().Do(ctx, func(ctx context.Context) error { return nil })
		assert.ErrorIs(t, err, context.Canceled)
		assert.Equal(t, 0, attempts)
	})
}

func TestConfig_Policy(t *testing.T) {
	p := Config{MaxAttempts: 2, InitialBackoffMs: 50, MaxBackoffMs: 400, Multiplier: 3}.Policy()
	assert.Equal(t, 2, p.MaxAttempts)
	assert.Equal(t, 50*time.Millisecond, p.InitialBackoff)
	assert.Equal(t, 400*time.Millisecond, p.MaxBackoff)
	assert.Equal(t, 3.0, p.Multiplier)

	d := Config{}.Policy()
	assert.Equal(t, Default().MaxAttempts, d.MaxAttempts)
}
