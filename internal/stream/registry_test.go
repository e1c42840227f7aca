package stream

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"claude-chat/backend/internal/model"
)

func TestRegistry_OneStreamPerConversation(t *testing.T) {
	r := NewRegistry()
	acc := NewAccumulator(model.Message{ID: "a"})

	h, ctx, err := r.Begin(context.Background(), "conv-1", acc)
	require.NoError(t, err)
	require.NotNil(t, ctx)
	assert.True(t, r.Active("conv-1"))

	_, _, err = r.Begin(context.Background(), "conv-1", NewAccumulator(model.Message{ID: "b"}))
	assert.ErrorIs(t, err, ErrAlreadyStreaming)

	_, _, err = r.Begin(context.Background(), "conv-2", NewAccumulator(model.Message{ID: "c"}))
	assert.NoError(t, err)
	assert.Equal(t, 2, r.Len())

	r.End(h)
	assert.False(t, r.Active("conv-1"))
	assert.Error(t, ctx.Err(), "End releases the generation context")

	_, _, err = r.Begin(context.Background(), "conv-1", NewAccumulator(model.Message{ID: "d"}))
	assert.NoError(t, err)
}

func TestRegistry_Cancel(t *testing.T) {
	r := NewRegistry()
	assert.False(t, r.Cancel("missing"))

	h, ctx, err := r.Begin(context.Background(), "conv-1", NewAccumulator(model.Message{ID: "a"}))
	require.NoError(t, err)

	assert.True(t, r.Cancel("conv-1"))
	<-ctx.Done()
	assert.ErrorIs(t, ctx.Err(), context.Canceled)

	// The slot stays claimed until the generation goroutine calls End.
	assert.True(t, r.Active("conv-1"))
	r.End(h)
	assert.False(t, r.Active("conv-1"))
}

func TestRegistry_StaleEndDoesNotReleaseNewStream(t *testing.T) {
	r := NewRegistry()
	old, _, err := r.Begin(context.Background(), "conv-1", NewAccumulator(model.Message{ID: "a"}))
	require.NoError(t, err)
	r.End(old)

	_, _, err = r.Begin(context.Background(), "conv-1", NewAccumulator(model.Message{ID: "b"}))
	require.NoError(t, err)

	r.End(old)
	assert.True(t, r.Active("conv-1"))
}

func TestRegistry_ParentCancellationPropagates(t *testing.T) {
	r := NewRegistry()
	parent, cancel := context.WithCancel(context.Background())

	_, ctx, err := r.Begin(parent, "conv-1", NewAccumulator(model.Message{ID: "a"}))
	require.NoError(t, err)

	cancel()
	<-ctx.Done()
	assert.ErrorIs(t, ctx.Err(), context.Canceled)
}
