// Package ollama implements pkg/provider.Provider against a local Ollama
// server using the official client, github.com/ollama/ollama/api.
package ollama

import (
	"context"
	"net/http"
	"net/url"
	"time"

	ollamaapi "github.com/ollama/ollama/api"

	"github.com/papercompute/loom/pkg/apperrors"
	"github.com/papercompute/loom/pkg/llm"
	"github.com/papercompute/loom/pkg/provider"
)

type Ollama struct {
	baseURL string
	client  *ollamaapi.Client
	timeout time.Duration
}

// New builds an Ollama provider bound to baseURL (e.g. "http://127.0.0.1:11434").
func New(baseURL string, timeout time.Duration) provider.Provider {
	u, _ := url.Parse(baseURL)
	httpClient := &http.Client{Timeout: timeout}
	return &Ollama{
		baseURL: baseURL,
		client:  ollamaapi.NewClient(u, httpClient),
		timeout: timeout,
	}
}

func (o *Ollama) Type() provider.Type   { return provider.TypeOllama }
func (o *Ollama) BaseURL() string       { return o.baseURL }

func (o *Ollama) Capabilities() provider.Capabilities {
	return provider.Capabilities{
		Streaming:     true,
		Tools:         true,
		Vision:        true,
		SystemPrompts: true,
		JSONMode:      true,
	}
}

// Detect probes GET /api/tags. A connection failure yields false, never an
// error, per spec.
func (o *Ollama) Detect(ctx context.Context) bool {
	ctx, cancel := context.WithTimeout(ctx, o.timeout)
	defer cancel()

	resp, err := o.client.List(ctx)
	return err == nil && resp != nil
}

// ListModels returns an empty slice, never an error, when the provider is
// reachable but has no models enumerable.
func (o *Ollama) ListModels(ctx context.Context) ([]provider.ModelInfo, error) {
	resp, err := o.client.List(ctx)
	if err != nil || resp == nil {
		return nil, nil
	}

	models := make([]provider.ModelInfo, 0, len(resp.Models))
	for _, m := range resp.Models {
		models = append(models, provider.ModelInfo{
			Name:          m.Name,
			Provider:      provider.TypeOllama,
			Size:          m.Size,
			Quantization:  provider.ParseQuantization(m.Name + " " + m.Details.QuantizationLevel),
			Parameters:    m.Details.ParameterSize,
			ContextLength: 0,
			IsLoaded:      true,
		})
	}
	return models, nil
}

func (o *Ollama) ChatCompletion(ctx context.Context, req llm.ChatRequest) (*llm.ChatResponse, error) {
	stream := false
	var final *ollamaapi.ChatResponse

	chatReq := toOllamaRequest(req, &stream)
	err := o.client.Chat(ctx, chatReq, func(r ollamaapi.ChatResponse) error {
		final = &r
		return nil
	})
	if err != nil {
		return nil, classifyError(err)
	}
	if final == nil {
		return nil, apperrors.NewProviderError(apperrors.ProviderDecodeError, err)
	}

	return &llm.ChatResponse{
		Model:      final.Model,
		CreatedAt:  final.CreatedAt,
		Message:    llm.NewTextMessage(llm.Role(final.Message.Role), final.Message.Content),
		StopReason: doneReason(final),
		Usage:      usageFromMetrics(final),
	}, nil
}

func (o *Ollama) StreamCompletion(ctx context.Context, req llm.ChatRequest) (<-chan llm.StreamEvent, error) {
	stream := true
	chatReq := toOllamaRequest(req, &stream)

	events := make(chan llm.StreamEvent, 16)

	go func() {
		defer close(events)

		err := o.client.Chat(ctx, chatReq, func(r ollamaapi.ChatResponse) error {
			ev := llm.StreamEvent{
				Content: r.Message.Content,
				Done:    r.Done,
			}
			if r.Done {
				ev.StopReason = doneReason(&r)
				ev.Usage = usageFromMetrics(&r)
			}
			select {
			case events <- ev:
			case <-ctx.Done():
				return ctx.Err()
			}
			return nil
		})
		if err != nil {
			select {
			case events <- llm.StreamEvent{Done: true, Err: classifyError(err)}:
			case <-ctx.Done():
			}
		}
	}()

	return events, nil
}

func toOllamaRequest(req llm.ChatRequest, stream *bool) *ollamaapi.ChatRequest {
	messages := make([]ollamaapi.Message, 0, len(req.Messages)+1)
	if req.System != "" {
		messages = append(messages, ollamaapi.Message{Role: "system", Content: req.System})
	}
	for _, m := range req.Messages {
		images := make([]ollamaapi.ImageData, 0, len(m.Images()))
		for _, img := range m.Images() {
			images = append(images, ollamaapi.ImageData(img))
		}
		messages = append(messages, ollamaapi.Message{
			Role:    string(m.Role),
			Content: m.Text(),
			Images:  images,
		})
	}

	options := map[string]any{}
	if req.Temperature != nil {
		options["temperature"] = *req.Temperature
	}
	if req.TopP != nil {
		options["top_p"] = *req.TopP
	}
	if req.TopK != nil {
		options["top_k"] = *req.TopK
	}
	if req.Seed != nil {
		options["seed"] = *req.Seed
	}
	if req.MaxTokens != nil {
		options["num_predict"] = *req.MaxTokens
	}
	if len(req.Stop) > 0 {
		options["stop"] = req.Stop
	}
	for k, v := range req.Extra {
		options[k] = v
	}

	return &ollamaapi.ChatRequest{
		Model:    req.Model,
		Messages: messages,
		Stream:   stream,
		Options:  options,
	}
}

func doneReason(r *ollamaapi.ChatResponse) string {
	if r.Done {
		if r.DoneReason != "" {
			return r.DoneReason
		}
		return "stop"
	}
	return ""
}

func usageFromMetrics(r *ollamaapi.ChatResponse) *llm.Usage {
	if r.PromptEvalCount == 0 && r.EvalCount == 0 {
		return nil
	}
	return &llm.Usage{
		PromptTokens:     r.PromptEvalCount,
		CompletionTokens: r.EvalCount,
		TotalTokens:      r.PromptEvalCount + r.EvalCount,
		TotalDurationNs:  int64(r.TotalDuration),
		PromptDurationNs: int64(r.PromptEvalDuration),
	}
}

func classifyError(err error) error {
	return apperrors.NewProviderError(apperrors.ProviderUnreachable, err)
}
