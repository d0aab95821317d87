package llm

// ChatRequest is the provider-agnostic shape handed to every
// pkg/provider backend. Each backend translates it into its own wire
// format (Ollama's native JSON, the OpenAI-compatible body, or TGI's
// flattened prompt).
type ChatRequest struct {
	Model    string    `json:"model"`
	Messages []Message `json:"messages"`
	System   string    `json:"system,omitempty"`

	Temperature *float64 `json:"temperature,omitempty"`
	MaxTokens   *int     `json:"max_tokens,omitempty"`
	TopP        *float64 `json:"top_p,omitempty"`
	TopK        *int     `json:"top_k,omitempty"`
	Stop        []string `json:"stop,omitempty"`
	Seed        *int     `json:"seed,omitempty"`

	// Extra carries provider-specific fields that don't map to a common
	// parameter (e.g. Ollama's num_ctx, repeat_penalty).
	Extra map[string]any `json:"extra,omitempty"`
}
