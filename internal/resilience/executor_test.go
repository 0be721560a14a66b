package resilience

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hrdesk/internal/config"
)

func fastConfig(breaker bool) Config {
	return Config{
		RetryMaxAttempts:        3,
		RetryInitialBackoff:     time.Millisecond,
		RetryMaxBackoff:         2 * time.Millisecond,
		RetryMultiplier:         2,
		BreakerEnabled:          breaker,
		BreakerMinRequests:      2,
		BreakerFailureRatio:     0.5,
		BreakerOpenTimeout:      time.Minute,
		BreakerHalfOpenMaxCalls: 1,
	}
}

func TestExecute_RetriesTransientFailure(t *testing.T) {
	exec := NewExecutor(fastConfig(false))

	var attempts []int
	err := exec.Execute(context.Background(), "storage.put", func(_ context.Context, attempt int) error {
		attempts = append(attempts, attempt)
		if attempt < 3 {
			return errors.New("connection reset")
		}
		return nil
	}, Transient)

	require.NoError(t, err)
	assert.Equal(t, []int{1, 2, 3}, attempts)
}

func TestExecute_DoesNotRetryPermanentFailure(t *testing.T) {
	exec := NewExecutor(fastConfig(false))
	errPermanent := errors.New("access denied")

	calls := 0
	err := exec.Execute(context.Background(), "op", func(context.Context, int) error {
		calls++
		return errPermanent
	}, nil)

	assert.ErrorIs(t, err, errPermanent)
	assert.Equal(t, 1, calls)
}

func TestExecute_StopsOnCanceledContext(t *testing.T) {
	exec := NewExecutor(fastConfig(false))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	calls := 0
	err := exec.Execute(ctx, "op", func(context.Context, int) error {
		calls++
		return nil
	}, Transient)

	assert.ErrorIs(t, err, context.Canceled)
	assert.Zero(t, calls)
}

func TestExecute_OpensCircuit(t *testing.T) {
	cfg := fastConfig(true)
	cfg.RetryMaxAttempts = 1
	exec := NewExecutor(cfg)
	boom := errors.New("boom")

	for i := 0; i < 2; i++ {
		err := exec.Execute(context.Background(), "nats.publish", func(context.Context, int) error { return boom }, nil)
		assert.ErrorIs(t, err, boom)
	}

	calls := 0
	err := exec.Execute(context.Background(), "nats.publish", func(context.Context, int) error {
		calls++
		return nil
	}, nil)
	assert.True(t, IsCircuitOpen(err))
	assert.Zero(t, calls)

	// Other operations have their own breaker.
	assert.NoError(t, exec.Execute(context.Background(), "storage.put", func(context.Context, int) error { return nil }, nil))
}

func TestExecute_NilCallback(t *testing.T) {
	assert.Error(t, NewExecutor(Config{}).Execute(context.Background(), "op", nil, nil))
}

func TestTransient(t *testing.T) {
	assert.Equal(t, ErrorClassification{}, Transient(context.Canceled))
	assert.Equal(t, ErrorClassification{Retryable: true, RecordFailure: true}, Transient(errors.New("x")))
}

func TestFromAppConfig(t *testing.T) {
	cfg := FromAppConfig(config.ResilienceConfig{
		MaxRetries:      2,
		InitialBackoff:  10 * time.Millisecond,
		MaxBackoff:      time.Second,
		FailureRatio:    0.6,
		MinRequests:     5,
		OpenTimeout:     30 * time.Second,
		HalfOpenMaxReqs: 1,
	})
	assert.Equal(t, 3, cfg.RetryMaxAttempts)
	assert.True(t, cfg.BreakerEnabled)
	assert.Equal(t, uint32(5), cfg.BreakerMinRequests)
}
