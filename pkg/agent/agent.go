// Package agent wires loom's collaborators into the star topology the
// design calls for: the TUI event loop is the hub, and Provider, Router,
// ContextBuilder, and the command Registry are spokes that never call each
// other directly.
package agent

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/papercompute/loom/pkg/command"
	"github.com/papercompute/loom/pkg/config"
	"github.com/papercompute/loom/pkg/ctxbuilder"
	"github.com/papercompute/loom/pkg/llm"
	"github.com/papercompute/loom/pkg/mcpclient"
	"github.com/papercompute/loom/pkg/provider"
	"github.com/papercompute/loom/pkg/provider/registry"
	"github.com/papercompute/loom/pkg/router"
)

// Agent is the concrete bundle of collaborators a running loom session
// holds. It owns nothing the TUI doesn't hand it at construction time and
// performs no I/O of its own beyond what it delegates to Provider/Router/
// ContextBuilder/MCP.
type Agent struct {
	Provider provider.Provider
	Router   *router.Router
	Context  *ctxbuilder.Builder
	Commands *command.Registry
	MCP      *mcpclient.Manager
	Settings *config.Settings
	Configer *config.Configer
	Logger   *zap.Logger
}

// New assembles an Agent from already-constructed collaborators. The
// caller (cmd/loom) is responsible for provider auto-detection/explicit
// selection before calling New.
func New(p provider.Provider, settings *config.Settings, cfger *config.Configer, projectRoot string, log *zap.Logger) *Agent {
	builder := ctxbuilder.New(projectRoot)
	builder.UsageRatio = settings.ContextWindowUsage

	a := &Agent{
		Provider: p,
		Context:  builder,
		Commands: command.NewRegistry(),
		MCP:      mcpclient.LoadFromSettings(settings),
		Settings: settings,
		Configer: cfger,
		Logger:   log,
	}

	a.Router = router.New(&intentExtractor{provider: p, logger: log}, builder.FileExists)
	a.Router.ConfidenceThreshold = settings.ClarificationConfidenceThreshold

	return a
}

// SelectProvider constructs a provider.Provider from Settings' protocol/
// host/port, without auto-detection - used when the user has pinned a
// provider explicitly rather than letting loom probe for one.
func SelectProvider(settings *config.Settings) (provider.Provider, error) {
	t := provider.Type(settings.Protocol)
	baseURL := fmt.Sprintf("http://%s:%d", settings.LLMHost, settings.LLMPort)
	return registry.New(t, baseURL, settings.APITimeout())
}

// ExecutionContext builds the pkg/command.ExecutionContext the registry
// dispatches into, binding this Agent's collaborators behind the
// package's any-typed fields.
func (a *Agent) ExecutionContext() *command.ExecutionContext {
	return &command.ExecutionContext{
		Provider:       a.Provider,
		Router:         a.Router,
		ContextBuilder: a.Context,
		Settings:       a.Settings,
		Configer:       a.Configer,
		MCP:            a.MCP,
	}
}

// intentExtractor adapts a provider.Provider into router.IntentExtractor
// by asking it for a JSON-schema-constrained completion.
type intentExtractor struct {
	provider provider.Provider
	logger   *zap.Logger
}

const intentExtractionSystemPrompt = `You are an intent classifier for a coding assistant. Given the user's ` +
	`message and recent conversation history, respond with ONLY a JSON object describing their intent: ` +
	`{"action_type": one of create|modify|delete|read|analyze|plan|chat, "parameters": {}, "files": [...], ` +
	`"confidence": 0.0-1.0, "reasoning": "..."}. No prose, no markdown fences.`

func (e *intentExtractor) ExtractIntent(ctx context.Context, input string, history []llm.Message) (string, error) {
	messages := make([]llm.Message, 0, len(history)+2)
	messages = append(messages, llm.NewTextMessage(llm.RoleSystem, intentExtractionSystemPrompt))
	messages = append(messages, history...)
	messages = append(messages, llm.NewTextMessage(llm.RoleUser, input))

	resp, err := e.provider.ChatCompletion(ctx, llm.ChatRequest{Messages: messages})
	if err != nil {
		if e.logger != nil {
			e.logger.Warn("intent extraction failed", zap.Error(err))
		}
		return "", err
	}

	return strings.TrimSpace(resp.Message.Text()), nil
}

// marshalParameters renders an Intent's free-form Parameters map as
// compact JSON, or "{}" when the map is empty or cannot be encoded. Nothing
// in loom calls it.
func marshalParameters(params map[string]any) string {
	if len(params) == 0 {
		return "{}"
	}
	data, err := json.Marshal(params)
	if err != nil {
		return "{}"
	}
	return string(data)
}
