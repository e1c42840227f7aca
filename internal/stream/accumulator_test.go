package stream

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"claude-chat/backend/internal/model"
)

// fakeClock advances by step on every call.
func fakeClock(step time.Duration) func() time.Time {
	t := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	return func() time.Time {
		t = t.Add(step)
		return t
	}
}

func newTestAccumulator() *Accumulator {
	return newAccumulatorWithClock(model.Message{ID: "m1", Role: model.RoleAssistant}, fakeClock(10*time.Millisecond))
}

func TestAccumulator_HappyPath(t *testing.T) {
	acc := newTestAccumulator()

	msg := acc.Message()
	assert.True(t, msg.IsStreaming)
	assert.False(t, msg.IsComplete)
	assert.Equal(t, StatePending, acc.State())

	require.NoError(t, acc.Append("Hel"))
	assert.Equal(t, StateStreaming, acc.State())
	require.NoError(t, acc.Append("lo"))
	require.NoError(t, acc.Finish("end_turn", &model.Usage{InputTokens: 5, OutputTokens: 2}))

	msg = acc.Message()
	assert.Equal(t, "Hello", msg.Content)
	assert.False(t, msg.IsStreaming)
	assert.True(t, msg.IsComplete)
	assert.Equal(t, "end_turn", msg.StopReason)
	assert.Equal(t, StateComplete, acc.State())

	stats := acc.Stats()
	assert.Equal(t, 5, stats.InputTokens)
	assert.Equal(t, 2, stats.OutputTokens)
	assert.Equal(t, int64(10), stats.TimeToFirstTokenMs)
	assert.Equal(t, int64(20), stats.TotalDurationMs)
	assert.Empty(t, stats.Error)
}

func TestAccumulator_FinishWithoutDeltas(t *testing.T) {
	acc := newTestAccumulator()
	require.NoError(t, acc.Finish("max_tokens", nil))

	msg := acc.Message()
	assert.Empty(t, msg.Content)
	assert.True(t, msg.IsComplete)
	assert.Zero(t, acc.Stats().TimeToFirstTokenMs)
}

func TestAccumulator_CancelKeepsPartialContent(t *testing.T) {
	acc := newTestAccumulator()
	require.NoError(t, acc.Append("partial"))
	require.NoError(t, acc.Cancel())

	msg := acc.Message()
	assert.Equal(t, "partial", msg.Content)
	assert.True(t, msg.IsComplete)
	assert.False(t, msg.IsStreaming)
	assert.Equal(t, StopReasonCancelled, msg.StopReason)
	assert.Equal(t, StateCancelled, acc.State())
}

func TestAccumulator_Fail(t *testing.T) {
	acc := newTestAccumulator()
	require.NoError(t, acc.Append("so far"))
	require.NoError(t, acc.Fail("overloaded"))

	assert.Equal(t, StateFailed, acc.State())
	assert.Equal(t, "so far", acc.Message().Content)
	assert.Equal(t, "overloaded", acc.Stats().Error)
}

func TestAccumulator_TerminalIsOneShot(t *testing.T) {
	terminals := map[string]func(*Accumulator) error{
		"finish": func(a *Accumulator) error { return a.Finish("end_turn", nil) },
		"cancel": func(a *Accumulator) error { return a.Cancel() },
		"fail":   func(a *Accumulator) error { return a.Fail("x") },
	}

	for name, first := range terminals {
		t.Run(name, func(t *testing.T) {
			acc := newTestAccumulator()
			require.NoError(t, first(acc))
			state := acc.State()

			assert.ErrorIs(t, acc.Append("late"), ErrStreamClosed)
			for _, again := range terminals {
				assert.ErrorIs(t, again(acc), ErrStreamClosed)
			}
			assert.Equal(t, state, acc.State())
			assert.NotContains(t, acc.Message().Content, "late")
		})
	}
}

func TestAccumulator_ConcurrentAppendAndCancel(t *testing.T) {
	acc := NewAccumulator(model.Message{ID: "m1"})

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		for i := 0; i < 1000; i++ {
			if acc.Append("x") != nil {
				return
			}
		}
	}()
	go func() {
		defer wg.Done()
		_ = acc.Cancel()
	}()
	wg.Wait()

	assert.True(t, acc.State().Terminal())
	assert.True(t, acc.Message().IsComplete)
}

func TestState_String(t *testing.T) {
	assert.Equal(t, "pending", StatePending.String())
	assert.Equal(t, "streaming", StateStreaming.String())
	assert.Equal(t, "complete", StateComplete.String())
	assert.Equal(t, "cancelled", StateCancelled.String())
	assert.Equal(t, "failed", StateFailed.String())
	assert.Equal(t, "unknown", State(42).String())
}
