package tui

import (
	"strings"
	"unicode"

	"github.com/google/uuid"
	"golang.org/x/text/unicode/norm"

	"github.com/papercompute/loom/pkg/apperrors"
	"github.com/papercompute/loom/pkg/llm"
)

// ExecutionMode is the TUI's top-level interaction mode, cycled with
// Shift+Tab or set explicitly with /mode.
type ExecutionMode string

const (
	ModeChat      ExecutionMode = "CHAT"
	ModeArchitect ExecutionMode = "ARCHITECT"
	ModeExecute   ExecutionMode = "EXECUTE"
	ModeLLVL      ExecutionMode = "LLVL"
)

// modeCycle is the fixed order Shift+Tab walks through.
var modeCycle = []ExecutionMode{ModeChat, ModeArchitect, ModeExecute, ModeLLVL}

func (m ExecutionMode) next() ExecutionMode {
	for i, mode := range modeCycle {
		if mode == m {
			return modeCycle[(i+1)%len(modeCycle)]
		}
	}
	return ModeChat
}

// parseMode maps a /mode argument to an ExecutionMode, case-insensitively.
func parseMode(s string) (ExecutionMode, bool) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case string(ModeChat):
		return ModeChat, true
	case string(ModeArchitect):
		return ModeArchitect, true
	case string(ModeExecute):
		return ModeExecute, true
	case string(ModeLLVL):
		return ModeLLVL, true
	default:
		return "", false
	}
}

// ChatMessage is one entry in the conversation buffer rendered in the
// viewport. System messages (validation failures, recovery notices,
// command output) never cross into the llm.Message history the
// router/provider see.
type ChatMessage struct {
	ID        string
	Role      llm.Role
	Text      string
	System    bool
	Streaming bool
}

// newMessage stamps a ChatMessage with a fresh id.
func newMessage(role llm.Role, text string) ChatMessage {
	return ChatMessage{ID: uuid.NewString(), Role: role, Text: text}
}

// toHistory converts the non-system turns of a conversation buffer into
// the llm.Message slice the router and provider expect.
func toHistory(messages []ChatMessage) []llm.Message {
	history := make([]llm.Message, 0, len(messages))
	for _, m := range messages {
		if m.System {
			continue
		}
		history = append(history, llm.NewTextMessage(m.Role, m.Text))
	}
	return history
}

// maxInputLength bounds a single submitted turn. Longer input is rejected
// outright rather than silently truncated, since truncation could change
// the user's intent.
const maxInputLength = 16000

// validateInput normalizes and checks a raw textarea submission per the
// input validation rules: Unicode NFC normalization, stripping control
// characters other than newline and tab, and a hard length cap. A failure
// never enters conversation history - the caller surfaces it as a system
// message instead.
func validateInput(raw string) (string, error) {
	normalized := norm.NFC.String(raw)

	var b strings.Builder
	b.Grow(len(normalized))
	for _, r := range normalized {
		if r == '\n' || r == '\t' {
			b.WriteRune(r)
			continue
		}
		if unicode.IsControl(r) {
			continue
		}
		b.WriteRune(r)
	}

	cleaned := strings.TrimSpace(b.String())
	if cleaned == "" {
		return "", apperrors.NewInputValidationError("empty input")
	}
	if len(cleaned) > maxInputLength {
		return "", apperrors.NewInputValidationError("input exceeds maximum length")
	}

	return cleaned, nil
}
