package tui

import (
	"fmt"
	"strings"

	"github.com/papercompute/loom/pkg/llm"
)

// archiveIfNeeded enforces the memory policy: archival only happens
// between turns, never mid-stream, and only once either threshold is
// exceeded. The oldest contiguous block is summarized into a single
// synthetic system message so the conversation buffer never grows
// unbounded across a long session.
func archiveIfNeeded(messages []ChatMessage, messageThreshold, charThreshold int) []ChatMessage {
	if messageThreshold <= 0 && charThreshold <= 0 {
		return messages
	}

	if len(messages) <= messageThreshold && totalChars(messages) <= charThreshold {
		return messages
	}

	// Keep the most recent half of the threshold verbatim; archive
	// everything older than that into one summary message.
	keep := messageThreshold / 2
	if keep <= 0 || keep >= len(messages) {
		keep = len(messages) / 2
	}
	if keep <= 0 {
		return messages
	}

	cut := len(messages) - keep
	archived := messages[:cut]
	remaining := messages[cut:]

	summary := summarizeArchived(archived)
	out := make([]ChatMessage, 0, len(remaining)+1)
	out = append(out, ChatMessage{
		ID:     "archive-" + archived[0].ID,
		Role:   llm.RoleSystem,
		Text:   summary,
		System: true,
	})
	out = append(out, remaining...)
	return out
}

func totalChars(messages []ChatMessage) int {
	total := 0
	for _, m := range messages {
		total += len(m.Text)
	}
	return total
}

func summarizeArchived(archived []ChatMessage) string {
	var b strings.Builder
	fmt.Fprintf(&b, "[%d earlier messages archived]\n", len(archived))
	for _, m := range archived {
		if m.System {
			continue
		}
		line := strings.TrimSpace(m.Text)
		if len(line) > 160 {
			line = line[:160] + "..."
		}
		fmt.Fprintf(&b, "%s: %s\n", m.Role, line)
	}
	return b.String()
}
