// Package router implements the smart router: it classifies a user turn
// into one of four routes (slash command, passthrough chat, clarification,
// or natural-language-with-intent) and extracts structured intent when the
// fast paths don't apply.
package router

import (
	"regexp"
	"strings"

	"github.com/papercompute/loom/pkg/llm"
)

// RouteType enumerates the four possible classifications of a user turn.
type RouteType string

const (
	RouteSlashCommand    RouteType = "SLASH_COMMAND"
	RouteNaturalLanguage RouteType = "NATURAL_LANGUAGE"
	RouteClarification   RouteType = "CLARIFICATION"
	RoutePassthroughChat RouteType = "PASSTHROUGH_CHAT"
)

// Mode mirrors the TUI's ExecutionMode; the router only needs to know
// whether it is CHAT for the plain-chat fast path.
type Mode string

const (
	ModeChat      Mode = "CHAT"
	ModeArchitect Mode = "ARCHITECT"
	ModeExecute   Mode = "EXECUTE"
	ModeLLVL      Mode = "LLVL"
)

// Decision is the outcome of routing a single user turn. Every decision
// with Type == NATURAL_LANGUAGE has a non-nil Intent; every CLARIFICATION
// has a non-empty ClarificationPrompt.
type Decision struct {
	Type                 RouteType
	CommandName          string
	CommandArgs          string
	Intent               *Intent
	ClarificationPrompt  string
	Candidates           []Candidate
}

// Candidate is one of 2-4 ambiguous interpretations offered during
// clarification.
type Candidate struct {
	Intent    Intent
	Reasoning string
}

// Intent is a structured extraction of what the user wants.
type Intent struct {
	ActionType ActionType        `json:"action_type"`
	Parameters map[string]any    `json:"parameters"`
	Files      []string          `json:"files"`
	Confidence float64           `json:"confidence"`
	Reasoning  string            `json:"reasoning"`
}

// ActionType enumerates the kinds of action a natural-language request can
// request.
type ActionType string

const (
	ActionCreate  ActionType = "create"
	ActionModify  ActionType = "modify"
	ActionDelete  ActionType = "delete"
	ActionRead    ActionType = "read"
	ActionAnalyze ActionType = "analyze"
	ActionPlan    ActionType = "plan"
	ActionChat    ActionType = "chat"
)

// slashPattern matches "/<name> <rest>" where name starts with a letter and
// continues with letters, digits, underscore, or hyphen.
var slashPattern = regexp.MustCompile(`^/([A-Za-z][A-Za-z0-9_-]*)\s*(.*)$`)

// actionVerbs is the enumerated set of verbs that disqualify the plain-chat
// fast path in CHAT mode.
var actionVerbs = []string{
	"create", "delete", "modify", "update", "change", "fix",
	"add", "remove", "refactor", "write", "edit", "implement",
}

// DefaultHistoryWindow bounds how many prior messages feed into the
// intent-extraction prompt.
const DefaultHistoryWindow = 10

// DefaultConfidenceThreshold is the default clarification gate.
const DefaultConfidenceThreshold = 0.7

// DetectSlash reports whether input is a slash command and, if so, splits
// it into (name, rest).
func DetectSlash(input string) (name, rest string, ok bool) {
	trimmed := strings.TrimSpace(input)
	m := slashPattern.FindStringSubmatch(trimmed)
	if m == nil {
		return "", "", false
	}
	return m[1], m[2], true
}

// containsActionVerb reports whether input mentions any of the enumerated
// action verbs, as whole words, case-insensitively.
func containsActionVerb(input string) bool {
	lower := strings.ToLower(input)
	for _, verb := range actionVerbs {
		if wordBoundaryContains(lower, verb) {
			return true
		}
	}
	return false
}

func wordBoundaryContains(haystack, word string) bool {
	re := regexp.MustCompile(`\b` + regexp.QuoteMeta(word) + `\b`)
	return re.MatchString(haystack)
}

// historyWindow returns the last n messages of history, or all of them if
// there are fewer than n.
func historyWindow(history []llm.Message, n int) []llm.Message {
	if n <= 0 || len(history) <= n {
		return history
	}
	return history[len(history)-n:]
}
