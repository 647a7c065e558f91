package explain

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestBreakerTripsAndRecovers(t *testing.T) {
	now := time.Date(2024, 4, 1, 12, 0, 0, 0, time.UTC)
	b := NewBreaker(BreakerConfig{FailureThreshold: 2, SuccessThreshold: 1, OpenTimeout: time.Minute})
	b.now = func() time.Time { return now }

	boom := errors.New("boom")
	fail := func() error { return boom }
	ok := func() error { return nil }

	assert.ErrorIs(t, b.Execute(fail), boom)
	assert.Equal(t, BreakerClosed, b.State())
	assert.ErrorIs(t, b.Execute(fail), boom)
	assert.Equal(t, BreakerOpen, b.State())

	called := false
	err := b.Execute(func() error { called = true; return nil })
	assert.ErrorIs(t, err, ErrCircuitOpen)
	assert.False(t, called)

	now = now.Add(time.Minute)
	assert.Equal(t, BreakerHalfOpen, b.State())
	assert.NoError(t, b.Execute(ok))
	assert.Equal(t, BreakerClosed, b.State())
}

func TestBreakerHalfOpenFailureReopens(t *testing.T) {
	now := time.Now()
	b := NewBreaker(BreakerConfig{FailureThreshold: 1, OpenTimeout: time.Second})
	b.now = func() time.Time { return now }

	_ = b.Execute(func() error { return errors.New("x") })
	now = now.Add(2 * time.Second)

	_ = b.Execute(func() error { return errors.New("y") })

	assert.Equal(t, BreakerOpen, b.State())
	assert.Equal(t, "open", b.State().String())
}

func TestBreakerSuccessResetsFailures(t *testing.T) {
	b := NewBreaker(BreakerConfig{FailureThreshold: 2})

	_ = b.Execute(func() error { return errors.New("x") })
	_ = b.Execute(func() error { return nil })
	_ = b.Execute(func() error { return errors.New("x") })

	assert.Equal(t, BreakerClosed, b.State())
}
