package stream

import (
	"context"
	"errors"
	"sync"

	"claude-chat/backend/internal/model"
)

// ErrAlreadyStreaming is returned by Begin when the conversation has a message in flight.
var ErrAlreadyStreaming = errors.New("conversation already has a streaming message")

// Handle ties an accumulator to the cancel function of the generation feeding it.
type Handle struct {
	ConversationID string
	Acc            *Accumulator
	cancel         context.CancelFunc
}

// Registry enforces at most one streaming message per conversation.
type Registry struct {
	mu     sync.Mutex
	active map[string]*Handle
}

func NewRegistry() *Registry {
	return &Registry{active: make(map[string]*Handle)}
}

// Begin claims the conversation's streaming slot. The returned context is cancelled
// by Cancel or when parent is done; callers must call End when the stream is over.
func (r *Registry) Begin(parent context.Context, conversationID string, acc *Accumulator) (*Handle, context.Context, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, busy := r.active[conversationID]; busy {
		return nil, nil, ErrAlreadyStreaming
	}
	ctx, cancel := context.WithCancel(parent)
	h := &Handle{ConversationID: conversationID, Acc: acc, cancel: cancel}
	r.active[conversationID] = h
	return h, ctx, nil
}

// End releases the slot held by h. A stale handle never releases a newer stream.
func (r *Registry) End(h *Handle) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if cur, ok := r.active[h.ConversationID]; ok && cur == h {
		delete(r.active, h.ConversationID)
	}
	h.cancel()
}

// Cancel aborts the in-flight generation for a conversation. It reports false when
// nothing was streaming.
func (r *Registry) Cancel(conversationID string) bool {
	r.mu.Lock()
	h, ok := r.active[conversationID]
	r.mu.Unlock()
	if !ok {
		return false
	}
	h.cancel()
	return true
}

// Active reports whether the conversation has a message in flight.
func (r *Registry) Active(conversationID string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.active[conversationID]
	return ok
}

// Len returns the number of in-flight streams.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.active)
}

// Snapshot returns a copy of the message currently streaming in a conversation.
func (r *Registry) Snapshot(conversationID string) (model.Message, bool) {
	r.mu.Lock()
	h, ok := r.active[conversationID]
	r.mu.Unlock()
	if !ok {
		return model.Message{}, false
	}
	return h.Acc.Message(), true
}
