// Package openaicompat implements pkg/provider.Provider for backends that
// speak the OpenAI chat-completions wire format: vLLM and LM Studio. Both
// are served by a single implementation parameterized by provider.Type,
// since the only difference between them is the detection signal.
package openaicompat

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"

	"github.com/papercompute/loom/pkg/apperrors"
	"github.com/papercompute/loom/pkg/llm"
	"github.com/papercompute/loom/pkg/provider"
)

type OpenAICompatible struct {
	variant provider.Type
	baseURL string
	client  openai.Client
	http    *http.Client
	timeout time.Duration
}

// NewVLLM builds a provider.Provider for a vLLM server's OpenAI-compatible
// endpoint.
func NewVLLM(baseURL string, timeout time.Duration) provider.Provider {
	return newCompat(provider.TypeVLLM, baseURL, timeout)
}

// NewLMStudio builds a provider.Provider for an LM Studio server's
// OpenAI-compatible endpoint.
func NewLMStudio(baseURL string, timeout time.Duration) provider.Provider {
	return newCompat(provider.TypeLMStudio, baseURL, timeout)
}

func newCompat(variant provider.Type, baseURL string, timeout time.Duration) provider.Provider {
	httpClient := &http.Client{Timeout: timeout}
	client := openai.NewClient(
		option.WithBaseURL(baseURL+"/v1"),
		option.WithAPIKey("local"), // local servers require a non-empty key
		option.WithHTTPClient(httpClient),
	)
	return &OpenAICompatible{
		variant: variant,
		baseURL: baseURL,
		client:  client,
		http:    httpClient,
		timeout: timeout,
	}
}

func (o *OpenAICompatible) Type() provider.Type { return o.variant }
func (o *OpenAICompatible) BaseURL() string     { return o.baseURL }

func (o *OpenAICompatible) Capabilities() provider.Capabilities {
	return provider.Capabilities{
		Streaming:     true,
		SystemPrompts: true,
		JSONMode:      true,
	}
}

// modelsPayload is the minimal shape of GET /v1/models we need for
// detection: vLLM reports a "data" array; LM Studio additionally reports
// an "object" field alongside it.
type modelsPayload struct {
	Object string           `json:"object"`
	Data   []json.RawMessage `json:"data"`
}

func (o *OpenAICompatible) Detect(ctx context.Context) bool {
	ctx, cancel := context.WithTimeout(ctx, o.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, o.baseURL+"/v1/models", nil)
	if err != nil {
		return false
	}
	resp, err := o.http.Do(req)
	if err != nil {
		return false
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return false
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return false
	}

	var payload modelsPayload
	if err := json.Unmarshal(body, &payload); err != nil {
		return false
	}
	if payload.Data == nil {
		return false
	}

	switch o.variant {
	case provider.TypeLMStudio:
		return payload.Object != ""
	default: // vLLM: data array is sufficient
		return true
	}
}

func (o *OpenAICompatible) ListModels(ctx context.Context) ([]provider.ModelInfo, error) {
	page, err := o.client.Models.List(ctx)
	if err != nil || page == nil {
		return nil, nil
	}

	models := make([]provider.ModelInfo, 0, len(page.Data))
	for _, m := range page.Data {
		models = append(models, provider.ModelInfo{
			Name:         m.ID,
			Provider:     o.variant,
			Quantization: provider.ParseQuantization(m.ID),
			IsLoaded:     true,
		})
	}
	return models, nil
}

func (o *OpenAICompatible) ChatCompletion(ctx context.Context, req llm.ChatRequest) (*llm.ChatResponse, error) {
	params := toOpenAIParams(req)
	resp, err := o.client.Chat.Completions.New(ctx, params)
	if err != nil {
		return nil, classifyError(err)
	}
	if len(resp.Choices) == 0 {
		return nil, apperrors.NewProviderError(apperrors.ProviderDecodeError, nil)
	}

	choice := resp.Choices[0]
	return &llm.ChatResponse{
		Model:      resp.Model,
		Message:    llm.NewTextMessage(llm.RoleAssistant, choice.Message.Content),
		StopReason: string(choice.FinishReason),
		Usage: &llm.Usage{
			PromptTokens:     int(resp.Usage.PromptTokens),
			CompletionTokens: int(resp.Usage.CompletionTokens),
			TotalTokens:      int(resp.Usage.TotalTokens),
		},
	}, nil
}

func (o *OpenAICompatible) StreamCompletion(ctx context.Context, req llm.ChatRequest) (<-chan llm.StreamEvent, error) {
	params := toOpenAIParams(req)
	stream := o.client.Chat.Completions.NewStreaming(ctx, params)

	events := make(chan llm.StreamEvent, 16)
	go func() {
		defer close(events)
		for stream.Next() {
			chunk := stream.Current()
			if len(chunk.Choices) == 0 {
				continue
			}
			delta := chunk.Choices[0].Delta
			ev := llm.StreamEvent{Content: delta.Content}
			if reason := chunk.Choices[0].FinishReason; reason != "" {
				ev.Done = true
				ev.StopReason = string(reason)
			}
			select {
			case events <- ev:
			case <-ctx.Done():
				return
			}
		}
		if err := stream.Err(); err != nil {
			select {
			case events <- llm.StreamEvent{Done: true, Err: classifyError(err)}:
			case <-ctx.Done():
			}
			return
		}
		select {
		case events <- llm.StreamEvent{Done: true}:
		case <-ctx.Done():
		}
	}()

	return events, nil
}

func toOpenAIParams(req llm.ChatRequest) openai.ChatCompletionNewParams {
	messages := make([]openai.ChatCompletionMessageParamUnion, 0, len(req.Messages)+1)
	if req.System != "" {
		messages = append(messages, openai.SystemMessage(req.System))
	}
	for _, m := range req.Messages {
		switch m.Role {
		case llm.RoleUser:
			messages = append(messages, openai.UserMessage(m.Text()))
		case llm.RoleAssistant:
			messages = append(messages, openai.AssistantMessage(m.Text()))
		case llm.RoleSystem:
			messages = append(messages, openai.SystemMessage(m.Text()))
		}
	}

	params := openai.ChatCompletionNewParams{
		Model:    req.Model,
		Messages: messages,
	}
	if req.Temperature != nil {
		params.Temperature = openai.Float(*req.Temperature)
	}
	if req.MaxTokens != nil {
		params.MaxTokens = openai.Int(int64(*req.MaxTokens))
	}
	if req.TopP != nil {
		params.TopP = openai.Float(*req.TopP)
	}
	if len(req.Stop) > 0 {
		params.Stop.OfStringArray = req.Stop
	}
	if req.Seed != nil {
		params.Seed = openai.Int(int64(*req.Seed))
	}

	return params
}

func classifyError(err error) error {
	return apperrors.NewProviderError(apperrors.ProviderUnreachable, err)
}
