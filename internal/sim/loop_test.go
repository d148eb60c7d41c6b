package sim

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/udisondev/holdout/internal/spawn"
	"github.com/udisondev/holdout/internal/testutil"
)

func TestLoop_EndsWithRun(t *testing.T) {
	ctx := testutil.ContextWithTimeout(t, 5*time.Second)
	r := newRig(t, 100, spawn.DefaultConfig())
	s := New(Config{RunFor: 30 * time.Millisecond}, r.parts)

	err := NewLoop(s, time.Millisecond).Start(ctx)
	require.NoError(t, err)
	assert.Equal(t, OutcomeStopped, s.Result().Outcome)
	assert.Equal(t, uint64(30), s.Ticks())
}

func TestLoop_ContextCancel(t *testing.T) {
	ctx, cancel := testutil.ContextWithCancel(t)
	r := newRig(t, 100, spawn.DefaultConfig())
	s := New(Config{}, r.parts)
	loop := NewLoop(s, time.Millisecond)

	errCh := make(chan error, 1)
	go func() { errCh <- loop.Start(ctx) }()

	time.Sleep(20 * time.Millisecond)
	cancel()

	select {
	case err := <-errCh:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(2 * time.Second):
		t.Fatal("loop did not stop")
	}
	assert.True(t, s.Over())
	assert.Equal(t, OutcomeStopped, s.Result().Outcome)
}

func TestLoop_Stop(t *testing.T) {
	ctx := testutil.ContextWithTimeout(t, 5*time.Second)
	r := newRig(t, 100, spawn.DefaultConfig())
	s := New(Config{}, r.parts)
	loop := NewLoop(s, time.Millisecond)

	errCh := make(chan error, 1)
	go func() { errCh <- loop.Start(ctx) }()

	time.Sleep(10 * time.Millisecond)
	loop.Stop()
	loop.Stop()

	require.NoError(t, <-errCh)
	assert.True(t, s.Over())
}
