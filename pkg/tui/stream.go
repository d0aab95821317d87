package tui

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/papercompute/loom/pkg/apperrors"
	"github.com/papercompute/loom/pkg/llm"
	"github.com/papercompute/loom/pkg/metrics"
	"github.com/papercompute/loom/pkg/provider"
)

// streamChunkMsg carries one incremental piece of assistant text.
type streamChunkMsg struct {
	streamID string
	content  string
}

// streamDoneMsg signals a stream finished normally.
type streamDoneMsg struct {
	streamID   string
	stopReason string
	usage      *llm.Usage
}

// streamErrMsg signals a stream terminated abnormally, either from the
// provider itself or from the watchdog timing it out.
type streamErrMsg struct {
	streamID string
	err      error
}

// startStream launches the provider's StreamCompletion call in a
// goroutine and returns a tea.Cmd that, each time it's re-armed, performs
// one blocking receive off the resulting channel - the pattern grounded
// on a chat-over-bubbletea reference implementation: a single goroutine
// owns the channel and closes it on exit, while the event loop only ever
// blocks inside a returned tea.Msg thunk.
func startStream(ctx context.Context, p provider.Provider, req llm.ChatRequest, streamID string) tea.Cmd {
	events := make(chan llm.StreamEvent)

	go func() {
		defer close(events)

		stream, err := p.StreamCompletion(ctx, req)
		if err != nil {
			select {
			case events <- llm.StreamEvent{Done: true, Err: err}:
			case <-ctx.Done():
			}
			return
		}

		for ev := range stream {
			select {
			case events <- ev:
			case <-ctx.Done():
				return
			}
			if ev.Done {
				return
			}
		}
	}()

	return waitForStreamEvent(events, streamID)
}

// waitForStreamEvent performs one blocking receive off events, re-arming
// itself via the returned message's handling in Update until the channel
// reports Done or closes.
func waitForStreamEvent(events chan llm.StreamEvent, streamID string) tea.Cmd {
	return func() tea.Msg {
		ev, ok := <-events
		if !ok {
			return streamDoneMsg{streamID: streamID}
		}
		if ev.Err != nil {
			return streamErrMsg{streamID: streamID, err: ev.Err}
		}
		if ev.Done {
			return streamDoneMsg{streamID: streamID, stopReason: ev.StopReason, usage: ev.Usage}
		}
		return chunkThenContinue(events, streamID, ev.Content)
	}
}

// chunkThenContinue is returned as a tea.Msg wrapping both the chunk and
// the continuation needed to keep draining the channel; the Update loop
// re-issues waitForStreamEvent itself whenever it sees a streamContinuation,
// so this indirection just keeps the channel reference alive alongside
// the message value.
type streamContinuation struct {
	chunk streamChunkMsg
	next  chan llm.StreamEvent
}

func chunkThenContinue(events chan llm.StreamEvent, streamID, content string) tea.Msg {
	return streamContinuation{chunk: streamChunkMsg{streamID: streamID, content: content}, next: events}
}

// streamIdleTimeoutCmd arms a watchdog that fires streamErrMsg with a
// StreamHealthError if no chunk for streamID arrives within timeout of
// when it's scheduled. The Update loop re-arms this after every chunk;
// a watchdog firing for another streamID, after the stream has finished,
// or less than timeout after the latest chunk is a no-op.
func streamIdleTimeoutCmd(streamID string, timeout time.Duration) tea.Cmd {
	if timeout <= 0 {
		return nil
	}
	return tea.Tick(timeout, func(time.Time) tea.Msg {
		return streamErrMsg{streamID: streamID, err: &apperrors.StreamHealthError{Kind: apperrors.StreamTimeout}}
	})
}

func recordProviderFailure(providerType provider.Type, err error) {
	kind := "unknown"
	if pe, ok := err.(*apperrors.ProviderError); ok {
		kind = string(pe.Kind)
	} else if _, ok := err.(*apperrors.StreamHealthError); ok {
		kind = "stream_health"
		metrics.StreamTimeoutsTotal.WithLabelValues(string(providerType)).Inc()
	}
	metrics.ProviderFailuresTotal.WithLabelValues(string(providerType), kind).Inc()
}
