package infra

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errDown = errors.New("endpoint down")

func newTestCB() *CircuitBreaker {
	return NewCircuitBreaker(CircuitBreakerConfig{
		FailureThreshold: 3,
		SuccessThreshold: 2,
		OpenTimeout:      50 * time.Millisecond,
	})
}

func TestCircuitBreaker_TripsAfterThreshold(t *testing.T) {
	cb := newTestCB()

	for i := 0; i < 3; i++ {
		assert.Equal(t, CBClosed, cb.State())
		err := cb.Execute(func() error { return errDown })
		assert.ErrorIs(t, err, errDown)
	}

	assert.Equal(t, CBOpen, cb.State())
	err := cb.Execute(func() error { return nil })
	assert.ErrorIs(t, err, ErrCircuitOpen)
}

func TestCircuitBreaker_ClosedResetOnSuccess(t *testing.T) {
	cb := newTestCB()

	require.Error(t, cb.Execute(func() error { return errDown }))
	require.Error(t, cb.Execute(func() error { return errDown }))
	require.NoError(t, cb.Execute(func() error { return nil }))

	// counter reset — two more failures must not trip it
	require.Error(t, cb.Execute(func() error { return errDown }))
	require.Error(t, cb.Execute(func() error { return errDown }))
	assert.Equal(t, CBClosed, cb.State())
}

func TestCircuitBreaker_HalfOpenRecovery(t *testing.T) {
	cb := newTestCB()
	for i := 0; i < 3; i++ {
		_ = cb.Execute(func() error { return errDown })
	}
	require.Equal(t, CBOpen, cb.State())

	time.Sleep(60 * time.Millisecond)
	assert.Equal(t, CBHalfOpen, cb.State())

	// two successful probes close the circuit
	require.NoError(t, cb.Execute(func() error { return nil }))
	require.NoError(t, cb.Execute(func() error { return nil }))
	assert.Equal(t, CBClosed, cb.State())
}

func TestCircuitBreaker_HalfOpenProbeFailureReopens(t *testing.T) {
	cb := newTestCB()
	for i := 0; i < 3; i++ {
		_ = cb.Execute(func() error { return errDown })
	}
	time.Sleep(60 * time.Millisecond)
	require.Equal(t, CBHalfOpen, cb.State())

	require.Error(t, cb.Execute(func() error { return errDown }))
	assert.Equal(t, CBOpen, cb.State())
}
