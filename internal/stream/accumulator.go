// Package stream folds incremental model output into a single assistant message and
// tracks which conversations currently have a message in flight.
package stream

import (
	"errors"
	"strings"
	"sync"
	"time"

	"claude-chat/backend/internal/model"
)

// ErrStreamClosed is returned for any event applied after a terminal transition.
var ErrStreamClosed = errors.New("stream already finished")

// StopReasonCancelled marks messages whose stream was cut short by the client.
const StopReasonCancelled = "cancelled"

// State is the lifecycle position of an accumulating message.
type State int

const (
	StatePending State = iota
	StateStreaming
	StateComplete
	StateCancelled
	StateFailed
)

func (s State) String() string {
	switch s {
	case StatePending:
		return "pending"
	case StateStreaming:
		return "streaming"
	case StateComplete:
		return "complete"
	case StateCancelled:
		return "cancelled"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Terminal reports whether no further events are accepted.
func (s State) Terminal() bool {
	return s >= StateComplete
}

// Accumulator owns one in-flight assistant message. It is safe for concurrent use:
// the generation goroutine appends while a cancel request may arrive from another.
type Accumulator struct {
	mu  sync.Mutex
	now func() time.Time

	msg     model.Message
	content strings.Builder
	state   State
	usage   model.Usage
	errMsg  string

	startedAt    time.Time
	firstTokenAt time.Time
	finishedAt   time.Time
}

// NewAccumulator starts tracking msg. The message is flagged as streaming immediately.
func NewAccumulator(msg model.Message) *Accumulator {
	return newAccumulatorWithClock(msg, time.Now)
}

func newAccumulatorWithClock(msg model.Message, now func() time.Time) *Accumulator {
	a := &Accumulator{now: now, msg: msg, startedAt: now()}
	a.content.WriteString(msg.Content)
	a.msg.IsStreaming = true
	a.msg.IsComplete = false
	return a
}

func (a *Accumulator) State() State {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.state
}

// Append adds a text delta to the message.
func (a *Accumulator) Append(delta string) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.state.Terminal() {
		return ErrStreamClosed
	}
	if a.state == StatePending {
		a.state = StateStreaming
		a.firstTokenAt = a.now()
	}
	a.content.WriteString(delta)
	return nil
}

// Finish completes the message normally.
func (a *Accumulator) Finish(stopReason string, usage *model.Usage) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.state.Terminal() {
		return ErrStreamClosed
	}
	if usage != nil {
		a.usage = *usage
	}
	a.msg.StopReason = stopReason
	a.closeLocked(StateComplete)
	return nil
}

// Cancel stops accumulation and keeps whatever content arrived so far. The message
// is still marked complete so that it can be persisted and shown as final.
func (a *Accumulator) Cancel() error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.state.Terminal() {
		return ErrStreamClosed
	}
	a.msg.StopReason = StopReasonCancelled
	a.closeLocked(StateCancelled)
	return nil
}

// Fail records a stream error. Partial content is kept.
func (a *Accumulator) Fail(reason string) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.state.Terminal() {
		return ErrStreamClosed
	}
	a.errMsg = reason
	a.msg.StopReason = "error"
	a.closeLocked(StateFailed)
	return nil
}

func (a *Accumulator) closeLocked(s State) {
	a.state = s
	a.finishedAt = a.now()
	a.msg.IsStreaming = false
	a.msg.IsComplete = true
}

// Message returns a snapshot of the message including all content received so far.
func (a *Accumulator) Message() model.Message {
	a.mu.Lock()
	defer a.mu.Unlock()
	m := a.msg
	m.Content = a.content.String()
	return m
}

// Stats reports usage and timings. Durations are zero until the relevant event happened.
func (a *Accumulator) Stats() model.GenerationStats {
	a.mu.Lock()
	defer a.mu.Unlock()
	stats := model.GenerationStats{Usage: a.usage, Error: a.errMsg}
	if !a.firstTokenAt.IsZero() {
		stats.TimeToFirstTokenMs = a.firstTokenAt.Sub(a.startedAt).Milliseconds()
	}
	if !a.finishedAt.IsZero() {
		stats.TotalDurationMs = a.finishedAt.Sub(a.startedAt).Milliseconds()
	}
	return stats
}
