package llm

// StreamEvent is a single item delivered on a provider's streaming channel.
// A finite, non-restartable sequence of these terminates either with Done
// set or with a non-nil Err.
type StreamEvent struct {
	// Content is the incremental text for this chunk, already extracted
	// from whatever wire shape the backend used (NDJSON, SSE, TGI tokens).
	Content string

	Done       bool
	StopReason string
	Usage      *Usage

	// Err is set when the stream terminated abnormally; Done is also true
	// in that case so consumers never have to check both.
	Err error
}
