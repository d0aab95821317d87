// Package hftgi implements pkg/provider.Provider against a local Hugging
// Face Text Generation Inference server. TGI has no native chat-message
// concept, so messages are flattened into a single prompt before being
// posted to /generate or /generate_stream.
package hftgi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/papercompute/loom/pkg/apperrors"
	"github.com/papercompute/loom/pkg/llm"
	"github.com/papercompute/loom/pkg/provider"
	"github.com/papercompute/loom/pkg/sse"
)

type HFTGI struct {
	baseURL string
	http    *http.Client
	timeout time.Duration
}

func New(baseURL string, timeout time.Duration) provider.Provider {
	return &HFTGI{
		baseURL: baseURL,
		http:    &http.Client{Timeout: timeout},
		timeout: timeout,
	}
}

func (h *HFTGI) Type() provider.Type { return provider.TypeHFTGI }
func (h *HFTGI) BaseURL() string     { return h.baseURL }

func (h *HFTGI) Capabilities() provider.Capabilities {
	return provider.Capabilities{Streaming: true, SystemPrompts: false}
}

type infoPayload struct {
	ModelID     string `json:"model_id"`
	ModelDType  string `json:"model_dtype"`
	MaxInputLen int    `json:"max_input_length"`
}

// Detect probes GET /info; TGI identifies itself by carrying model_id or
// model_dtype in the body, not by status code alone.
func (h *HFTGI) Detect(ctx context.Context) bool {
	ctx, cancel := context.WithTimeout(ctx, h.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, h.baseURL+"/info", nil)
	if err != nil {
		return false
	}
	resp, err := h.http.Do(req)
	if err != nil {
		return false
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return false
	}

	var payload infoPayload
	if err := json.NewDecoder(io.LimitReader(resp.Body, 1<<20)).Decode(&payload); err != nil {
		return false
	}
	return payload.ModelID != "" || payload.ModelDType != ""
}

// ListModels: TGI serves exactly one loaded model, described by /info.
func (h *HFTGI) ListModels(ctx context.Context) ([]provider.ModelInfo, error) {
	ctx, cancel := context.WithTimeout(ctx, h.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, h.baseURL+"/info", nil)
	if err != nil {
		return nil, nil
	}
	resp, err := h.http.Do(req)
	if err != nil {
		return nil, nil
	}
	defer resp.Body.Close()

	var payload infoPayload
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil || payload.ModelID == "" {
		return nil, nil
	}

	return []provider.ModelInfo{{
		Name:          payload.ModelID,
		Provider:      provider.TypeHFTGI,
		ContextLength: payload.MaxInputLen,
		IsLoaded:      true,
	}}, nil
}

// promptFromMessages concatenates messages into "System: / User: /
// Assistant:" segments with a trailing "Assistant:", per spec.
func promptFromMessages(req llm.ChatRequest) string {
	var b strings.Builder
	if req.System != "" {
		fmt.Fprintf(&b, "System: %s\n", req.System)
	}
	for _, m := range req.Messages {
		switch m.Role {
		case llm.RoleSystem:
			fmt.Fprintf(&b, "System: %s\n", m.Text())
		case llm.RoleUser:
			fmt.Fprintf(&b, "User: %s\n", m.Text())
		case llm.RoleAssistant:
			fmt.Fprintf(&b, "Assistant: %s\n", m.Text())
		}
	}
	b.WriteString("Assistant:")
	return b.String()
}

type generateRequest struct {
	Inputs     string             `json:"inputs"`
	Parameters generateParameters `json:"parameters,omitempty"`
}

type generateParameters struct {
	Temperature float64  `json:"temperature,omitempty"`
	MaxNewTok   int      `json:"max_new_tokens,omitempty"`
	TopP        float64  `json:"top_p,omitempty"`
	Stop        []string `json:"stop,omitempty"`
	Seed        int      `json:"seed,omitempty"`
}

func toParameters(req llm.ChatRequest) generateParameters {
	p := generateParameters{Stop: req.Stop}
	if req.Temperature != nil {
		p.Temperature = *req.Temperature
	}
	if req.MaxTokens != nil {
		p.MaxNewTok = *req.MaxTokens
	}
	if req.TopP != nil {
		p.TopP = *req.TopP
	}
	if req.Seed != nil {
		p.Seed = *req.Seed
	}
	return p
}

type generateResponse struct {
	GeneratedText string `json:"generated_text"`
}

func (h *HFTGI) ChatCompletion(ctx context.Context, req llm.ChatRequest) (*llm.ChatResponse, error) {
	body, _ := json.Marshal(generateRequest{Inputs: promptFromMessages(req), Parameters: toParameters(req)})

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, h.baseURL+"/generate", bytes.NewReader(body))
	if err != nil {
		return nil, apperrors.NewProviderError(apperrors.ProviderUnreachable, err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := h.http.Do(httpReq)
	if err != nil {
		return nil, apperrors.NewProviderError(apperrors.ProviderUnreachable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, apperrors.NewHTTPStatusError(resp.StatusCode, fmt.Errorf("tgi generate"))
	}

	var out generateResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, apperrors.NewProviderError(apperrors.ProviderDecodeError, err)
	}

	return &llm.ChatResponse{
		Model:      req.Model,
		Message:    llm.NewTextMessage(llm.RoleAssistant, out.GeneratedText),
		StopReason: "stop",
	}, nil
}

type streamChunk struct {
	Token struct {
		Text    string `json:"text"`
		Special bool   `json:"special"`
	} `json:"token"`
	GeneratedText *string `json:"generated_text"`
}

func (h *HFTGI) StreamCompletion(ctx context.Context, req llm.ChatRequest) (<-chan llm.StreamEvent, error) {
	body, _ := json.Marshal(generateRequest{Inputs: promptFromMessages(req), Parameters: toParameters(req)})

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, h.baseURL+"/generate_stream", bytes.NewReader(body))
	if err != nil {
		return nil, apperrors.NewProviderError(apperrors.ProviderUnreachable, err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "text/event-stream")

	resp, err := h.http.Do(httpReq)
	if err != nil {
		return nil, apperrors.NewProviderError(apperrors.ProviderUnreachable, err)
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, apperrors.NewHTTPStatusError(resp.StatusCode, fmt.Errorf("tgi generate_stream"))
	}

	events := make(chan llm.StreamEvent, 16)
	go func() {
		defer close(events)
		defer resp.Body.Close()

		reader := sse.NewReader(resp.Body)
		for {
			ev, err := reader.Next()
			if err != nil {
				select {
				case events <- llm.StreamEvent{Done: true, Err: apperrors.NewProviderError(apperrors.ProviderDecodeError, err)}:
				case <-ctx.Done():
				}
				return
			}
			if ev == nil {
				select {
				case events <- llm.StreamEvent{Done: true, StopReason: "stop"}:
				case <-ctx.Done():
				}
				return
			}

			var chunk streamChunk
			if err := json.Unmarshal([]byte(ev.Data), &chunk); err != nil {
				continue
			}
			if chunk.Token.Special {
				continue
			}

			out := llm.StreamEvent{Content: chunk.Token.Text}
			if chunk.GeneratedText != nil {
				out.Done = true
				out.StopReason = "stop"
			}
			select {
			case events <- out:
			case <-ctx.Done():
				return
			}
			if out.Done {
				return
			}
		}
	}()

	return events, nil
}
