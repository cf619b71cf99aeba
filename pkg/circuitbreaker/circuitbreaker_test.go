package circuitbreaker

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errBoom = errors.New("boom")

func fail() (interface{}, error)    { return nil, errBoom }
func succeed() (interface{}, error) { return "ok", nil }

func TestExecutePassesThroughWhileClosed(t *testing.T) {
	cb := New(3, 1, time.Minute)

	res, err := cb.Execute(succeed)
	require.NoError(t, err)
	assert.Equal(t, "ok", res)
	assert.Equal(t, Closed, cb.State())
}

func TestOpensAfterConsecutiveFailures(t *testing.T) {
	cb := New(2, 1, time.Minute)

	_, err := cb.Execute(fail)
	assert.ErrorIs(t, err, errBoom)
	assert.Equal(t, Closed, cb.State())

	_, err = cb.Execute(fail)
	assert.ErrorIs(t, err, errBoom)
	assert.Equal(t, Open, cb.State())

	_, err = cb.Execute(succeed)
	assert.ErrorIs(t, err, ErrCircuitOpen)
}

func TestSuccessResetsFailureCount(t *testing.T) {
	cb := New(2, 1, time.Minute)

	_, _ = cb.Execute(fail)
	_, _ = cb.Execute(succeed)
	_, _ = cb.Execute(fail)

	assert.Equal(t, Closed, cb.State())
}

func TestHalfOpenRecovery(t *testing.T) {
	cb := New(1, 2, 10*time.Millisecond)

	_, _ = cb.Execute(fail)
	require.Equal(t, Open, cb.State())

	time.Sleep(20 * time.Millisecond)

	// First probe after the timeout is admitted.
	_, err := cb.Execute(succeed)
	require.NoError(t, err)
	assert.Equal(t, HalfOpen, cb.State())

	_, err = cb.Execute(succeed)
	require.NoError(t, err)
	assert.Equal(t, Closed, cb.State())
}

func TestHalfOpenFailureReopens(t *testing.T) {
	cb := New(1, 2, 10*time.Millisecond)

	_, _ = cb.Execute(fail)
	time.Sleep(20 * time.Millisecond)

	_, err := cb.Execute(fail)
	assert.ErrorIs(t, err, errBoom)
	assert.Equal(t, Open, cb.State())
}

func TestStateString(t *testing.T) {
	assert.Equal(t, "Closed", Closed.String())
	assert.Equal(t, "Open", Open.String())
	assert.Equal(t, "Half-Open", HalfOpen.String())
}
