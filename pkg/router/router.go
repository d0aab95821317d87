package router

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/papercompute/loom/pkg/llm"
)

// IntentExtractor asks the active provider for a structured intent given
// the user's input and the router's trimmed history window; building the
// prompt from them is the extractor's job. It returns the raw text
// response; the router is responsible for schema validation and parsing.
type IntentExtractor interface {
	ExtractIntent(ctx context.Context, input string, history []llm.Message) (string, error)
}

// FileExistsFunc reports whether a path (as referenced by an extracted
// intent) resolves to a real file. Plugged in by the caller so the router
// does not need to know about the context builder's resolution rules.
type FileExistsFunc func(path string) bool

// Router classifies user turns into routes. It is not safe for concurrent
// use - it is only ever driven from the TUI's single event loop goroutine.
type Router struct {
	Extractor            IntentExtractor
	FileExists           FileExistsFunc
	ConfidenceThreshold  float64
	HistoryWindow        int

	pendingClarification *pendingClarification
}

type pendingClarification struct {
	candidates []Candidate
}

// New builds a Router with spec defaults (0.7 confidence threshold, a
// 10-message history window).
func New(extractor IntentExtractor, fileExists FileExistsFunc) *Router {
	return &Router{
		Extractor:           extractor,
		FileExists:          fileExists,
		ConfidenceThreshold: DefaultConfidenceThreshold,
		HistoryWindow:       DefaultHistoryWindow,
	}
}

// Route classifies a single user turn given the current mode and recent
// conversation history.
func (r *Router) Route(ctx context.Context, input string, mode Mode, history []llm.Message) (*Decision, error) {
	// 1. Slash detection - no LLM call.
	if name, rest, ok := DetectSlash(input); ok {
		r.pendingClarification = nil
		return &Decision{Type: RouteSlashCommand, CommandName: name, CommandArgs: rest}, nil
	}

	// Clarification acceptance takes priority over fresh routing when a
	// prior turn left one pending.
	if r.pendingClarification != nil {
		decision, handled := r.acceptClarification(input)
		if handled {
			return decision, nil
		}
	}

	// 2. Plain-chat fast path.
	if mode == ModeChat && !containsActionVerb(input) {
		r.pendingClarification = nil
		return &Decision{Type: RoutePassthroughChat}, nil
	}

	// 3. Intent extraction.
	window := historyWindow(history, r.HistoryWindow)
	raw, err := r.Extractor.ExtractIntent(ctx, input, window)
	if err != nil {
		r.pendingClarification = nil
		return &Decision{Type: RoutePassthroughChat}, nil
	}

	intent, err := parseIntent(raw)
	if err != nil {
		// Parse (or schema) failure: fall back to PASSTHROUGH_CHAT with a
		// logged warning left to the caller, since this package doesn't
		// own a logger.
		r.pendingClarification = nil
		return &Decision{Type: RoutePassthroughChat}, nil
	}

	// 4. Clarification gating.
	if decision := r.clarificationGate(*intent); decision != nil {
		return decision, nil
	}

	// 5. Natural language with the extracted intent.
	r.pendingClarification = nil
	return &Decision{Type: RouteNaturalLanguage, Intent: intent}, nil
}

func (r *Router) clarificationGate(intent Intent) *Decision {
	missing := r.missingFiles(intent.Files)

	if intent.Confidence >= r.ConfidenceThreshold && len(missing) == 0 {
		return nil
	}

	if len(missing) > 0 {
		r.pendingClarification = nil
		return &Decision{
			Type:                RouteClarification,
			ClarificationPrompt: missingFilesPrompt(missing),
		}
	}

	// Low confidence: offer the single extracted intent as the sole
	// candidate alongside a generic "chat instead" alternative, so the
	// user always has at least two options to pick from.
	candidates := []Candidate{
		{Intent: intent, Reasoning: intent.Reasoning},
		{Intent: Intent{ActionType: ActionChat, Confidence: 1, Reasoning: "treat this as a conversational question instead"}},
	}
	r.pendingClarification = &pendingClarification{candidates: candidates}

	return &Decision{
		Type:                 RouteClarification,
		ClarificationPrompt:  candidatesPrompt(candidates),
		Candidates:           candidates,
	}
}

func (r *Router) missingFiles(files []string) []string {
	if r.FileExists == nil {
		return nil
	}
	var missing []string
	for _, f := range files {
		if !r.FileExists(f) {
			missing = append(missing, f)
		}
	}
	return missing
}

// acceptClarification interprets input as the answer to a pending
// clarification: a 1-based numeric index selects a candidate, "cancel"
// aborts. Returns handled=false if input doesn't look like an answer, in
// which case the caller should route normally (the clarification lapses).
func (r *Router) acceptClarification(input string) (*Decision, bool) {
	trimmed := strings.TrimSpace(input)

	if strings.EqualFold(trimmed, "cancel") {
		r.pendingClarification = nil
		return &Decision{Type: RoutePassthroughChat}, true
	}

	idx, err := strconv.Atoi(trimmed)
	if err != nil {
		r.pendingClarification = nil
		return nil, false
	}

	candidates := r.pendingClarification.candidates
	r.pendingClarification = nil

	if idx < 1 || idx > len(candidates) {
		return &Decision{
			Type:                RouteClarification,
			ClarificationPrompt: fmt.Sprintf("please choose a number between 1 and %d, or \"cancel\"", len(candidates)),
		}, true
	}

	selected := candidates[idx-1].Intent
	selected.Confidence = max(selected.Confidence, DefaultConfidenceThreshold)

	return &Decision{Type: RouteNaturalLanguage, Intent: &selected}, true
}

func missingFilesPrompt(missing []string) string {
	var b strings.Builder
	b.WriteString("I couldn't find these files - did you mean something else?\n")
	for i, f := range missing {
		fmt.Fprintf(&b, "%d. %s\n", i+1, f)
	}
	return b.String()
}

func candidatesPrompt(candidates []Candidate) string {
	var b strings.Builder
	b.WriteString("I'm not confident what you want - pick one:\n")
	for i, c := range candidates {
		fmt.Fprintf(&b, "%d. %s (%s)\n", i+1, c.Intent.ActionType, c.Reasoning)
	}
	return b.String()
}
