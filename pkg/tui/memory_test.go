package tui

import (
	"strings"
	"testing"

	"github.com/papercompute/loom/pkg/llm"
)

func buildMessages(n int) []ChatMessage {
	out := make([]ChatMessage, n)
	for i := range out {
		role := llm.RoleUser
		if i%2 == 1 {
			role = llm.RoleAssistant
		}
		out[i] = ChatMessage{ID: string(rune('a' + i%26)), Role: role, Text: "message body"}
	}
	return out
}

func TestArchiveIfNeededLeavesShortConversationsAlone(t *testing.T) {
	messages := buildMessages(4)
	got := archiveIfNeeded(messages, 60, 24000)
	if len(got) != 4 {
		t.Fatalf("expected no archival, got %d messages", len(got))
	}
}

func TestArchiveIfNeededCollapsesOldestBlock(t *testing.T) {
	messages := buildMessages(20)
	got := archiveIfNeeded(messages, 10, 24000)

	if !got[0].System {
		t.Fatalf("expected first message to be the archive summary, got %+v", got[0])
	}
	if !strings.Contains(got[0].Text, "archived") {
		t.Errorf("expected archive summary to mention archived count, got %q", got[0].Text)
	}
	if len(got) >= len(messages) {
		t.Errorf("expected archival to shrink the conversation, got %d messages from %d", len(got), len(messages))
	}
}

func TestArchiveIfNeededTriggersOnCharThreshold(t *testing.T) {
	messages := buildMessages(4)
	got := archiveIfNeeded(messages, 100, 10)

	if !got[0].System {
		t.Fatalf("expected char threshold to trigger archival, got %+v", got[0])
	}
}

func TestArchiveIfNeededNoThresholdsIsNoop(t *testing.T) {
	messages := buildMessages(100)
	got := archiveIfNeeded(messages, 0, 0)
	if len(got) != 100 {
		t.Errorf("expected archival disabled with zero thresholds, got %d messages", len(got))
	}
}
