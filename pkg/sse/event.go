// Package sse provides a minimal, purpose-built SSE (Server-Sent Events)
// reader used by pkg/provider to parse streaming chat responses from
// Hugging Face TGI's /generate_stream endpoint.
//
// This package intentionally does NOT provide SSE writer, server, or
// tee-to-a-second-writer capabilities — loom has no downstream HTTP
// client to forward raw stream bytes to, only the parsed events its own
// provider goroutines consume.
//
// See the SSE specification:
// https://html.spec.whatwg.org/multipage/server-sent-events.html
package sse

// Event represents a single parsed SSE event, delimited by a blank line
// in the upstream byte stream.
type Event struct {
	// Type is the SSE event type from the "event:" field.
	// An empty string means the default "message" type per the SSE spec.
	Type string

	// Data is the concatenated contents of all "data:" lines for this event,
	// joined with "\n" (per the SSE spec, multiple data fields are joined
	// with a single newline).
	Data string

	// ID is the last event ID from the "id:" field, if present.
	ID string
}
