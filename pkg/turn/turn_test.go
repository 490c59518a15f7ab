package turn_test

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/delaneyj/hasher/pkg/turn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestManualEvery(t *testing.T) {
	m := turn.NewManual()

	var ticks []time.Duration
	cancel := m.Every(25*time.Millisecond, func() {
		ticks = append(ticks, m.Now())
	})
	assert.Equal(t, 1, m.Pending())

	m.Advance(10 * time.Millisecond)
	assert.Empty(t, ticks)

	m.Advance(90 * time.Millisecond)
	assert.Equal(t, []time.Duration{
		25 * time.Millisecond,
		50 * time.Millisecond,
		75 * time.Millisecond,
		100 * time.Millisecond,
	}, ticks)

	cancel()
	assert.Equal(t, 0, m.Pending())
	m.Advance(time.Second)
	assert.Len(t, ticks, 4)
}

func TestManualOrdering(t *testing.T) {
	m := turn.NewManual()

	var calls []string
	m.Every(20*time.Millisecond, func() { calls = append(calls, "slow") })
	m.Every(10*time.Millisecond, func() { calls = append(calls, "fast") })

	m.Advance(20 * time.Millisecond)
	assert.Equal(t, []string{"fast", "slow", "fast"}, calls)
}

func TestManualCancelFromCallback(t *testing.T) {
	m := turn.NewManual()

	count := 0
	var cancel func()
	cancel = m.Every(time.Millisecond, func() {
		count++
		if count == 3 {
			cancel()
		}
	})

	m.Advance(10 * time.Millisecond)
	assert.Equal(t, 3, count)
}

func TestLoopDo(t *testing.T) {
	l := turn.NewLoop()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	errs := make(chan error, 1)
	go func() { errs <- l.Run(ctx) }()

	ran := false
	require.NoError(t, l.Do(ctx, func() { ran = true }))
	assert.True(t, ran)

	require.NoError(t, l.Close())
	assert.NoError(t, <-errs)
	assert.False(t, l.Post(func() {}))
	assert.ErrorIs(t, l.Run(ctx), turn.ErrLoopClosed)
}

func TestLoopEvery(t *testing.T) {
	l := turn.NewLoop()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go l.Run(ctx)
	defer l.Close()

	var count atomic.Int32
	stop := l.Every(time.Millisecond, func() { count.Add(1) })

	assert.Eventually(t, func() bool { return count.Load() >= 3 }, time.Second, time.Millisecond)
	stop()
	stop()
}
