package scheduler

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunnerRunsImmediatelyAndOnInterval(t *testing.T) {
	var calls atomic.Int32
	r := NewRunner("count", 10*time.Millisecond, func(ctx context.Context) error {
		calls.Add(1)
		return nil
	}, nil)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- r.Run(ctx) }()

	require.Eventually(t, func() bool { return calls.Load() >= 3 }, time.Second, 5*time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("runner did not stop")
	}
}

func TestRunnerKeepsGoingAfterFailure(t *testing.T) {
	var calls atomic.Int32
	r := NewRunner("flaky", 5*time.Millisecond, func(ctx context.Context) error {
		calls.Add(1)
		return errors.New("boom")
	}, nil)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() { _ = r.Run(ctx) }()

	require.Eventually(t, func() bool { return calls.Load() >= 2 }, time.Second, 5*time.Millisecond)
}

func TestRunnerDisabledWithoutInterval(t *testing.T) {
	called := false
	r := NewRunner("off", 0, func(ctx context.Context) error {
		called = true
		return nil
	}, nil)

	assert.NoError(t, r.Run(context.Background()))
	assert.False(t, called)
}

func TestFixedClock(t *testing.T) {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	c := NewFixedClock(start)
	assert.Equal(t, start, c.Now())

	c.Advance(time.Hour)
	assert.Equal(t, start.Add(time.Hour), c.Now())

	c.Set(start)
	assert.Equal(t, start, c.Now())
}
