// Package provider defines the uniform streaming chat interface over the
// locally-hosted LLM backends loom talks to (Ollama, vLLM, LM Studio, HF
// TGI), plus the auto-detector that picks one of them at startup.
package provider

import (
	"context"

	"github.com/papercompute/loom/pkg/llm"
)

// Type identifies which concrete backend a Provider talks to.
type Type string

const (
	TypeOllama          Type = "ollama"
	TypeVLLM            Type = "vllm"
	TypeLMStudio        Type = "lm_studio"
	TypeHFTGI           Type = "hf_tgi"
	TypeOpenAICompatible Type = "openai_compatible"
)

// Capabilities declares what a provider instance supports. The router and
// TUI consult this before relying on a feature.
type Capabilities struct {
	Streaming     bool
	Tools         bool
	Vision        bool
	Thinking      bool
	SystemPrompts bool
	JSONMode      bool
	Grammar       bool
	MaxBatchSize  int
	Extra         map[string]any
}

// ModelInfo describes one model as reported by ListModels. It is never
// persisted beyond the process.
type ModelInfo struct {
	Name          string
	Provider      Type
	Size          int64
	Quantization  string
	ContextLength int
	Parameters    string
	IsLoaded      bool
}

// Provider is the uniform interface every backend implements. Detect never
// returns an error - a connection failure simply yields false. ListModels
// returns an empty slice (never an error) when the provider is reachable
// but nothing is enumerable; callers must treat that as "no models", not
// "provider down". ChatCompletion and StreamCompletion fail with
// *apperrors.ProviderError, preserving the underlying cause.
type Provider interface {
	Type() Type
	BaseURL() string
	Capabilities() Capabilities

	Detect(ctx context.Context) bool
	ListModels(ctx context.Context) ([]ModelInfo, error)
	ChatCompletion(ctx context.Context, req llm.ChatRequest) (*llm.ChatResponse, error)

	// StreamCompletion returns a channel of StreamEvents. The channel is
	// closed after the final event (Done=true, possibly with Err set).
	// It is finite and not restartable: a new call must be made to retry.
	StreamCompletion(ctx context.Context, req llm.ChatRequest) (<-chan llm.StreamEvent, error)
}
