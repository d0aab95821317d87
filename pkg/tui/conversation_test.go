package tui

import (
	"strings"
	"testing"

	"github.com/papercompute/loom/pkg/llm"
)

func TestValidateInputTrimsAndNormalizes(t *testing.T) {
	got, err := validateInput("  hello\tworld\n  ")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "hello\tworld" {
		t.Errorf("expected trimmed input, got %q", got)
	}
}

func TestValidateInputStripsControlCharacters(t *testing.T) {
	got, err := validateInput("hello\x00\x07world")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "helloworld" {
		t.Errorf("expected control characters stripped, got %q", got)
	}
}

func TestValidateInputRejectsEmpty(t *testing.T) {
	if _, err := validateInput("   \n\t  "); err == nil {
		t.Error("expected error for empty input")
	}
}

func TestValidateInputRejectsOverLength(t *testing.T) {
	if _, err := validateInput(strings.Repeat("a", maxInputLength+1)); err == nil {
		t.Error("expected error for over-length input")
	}
}

func TestParseModeCaseInsensitive(t *testing.T) {
	mode, ok := parseMode("architect")
	if !ok || mode != ModeArchitect {
		t.Errorf("expected ModeArchitect, got %v ok=%v", mode, ok)
	}

	if _, ok := parseMode("sleepwalk"); ok {
		t.Error("expected unknown mode to fail")
	}
}

func TestModeNextCycles(t *testing.T) {
	if ModeLLVL.next() != ModeChat {
		t.Error("expected mode cycle to wrap back to CHAT")
	}
	if ModeChat.next() != ModeArchitect {
		t.Error("expected CHAT to advance to ARCHITECT")
	}
}

func TestToHistoryExcludesSystemMessages(t *testing.T) {
	messages := []ChatMessage{
		{Role: llm.RoleUser, Text: "hi"},
		{Role: llm.RoleSystem, Text: "ignored", System: true},
		{Role: llm.RoleAssistant, Text: "hello"},
	}

	history := toHistory(messages)
	if len(history) != 2 {
		t.Fatalf("expected 2 history entries, got %d", len(history))
	}
	if history[1].Text() != "hello" {
		t.Errorf("expected second entry hello, got %q", history[1].Text())
	}
}
