package tui

import "github.com/atotto/clipboard"

// ClearConversation implements the builtin command package's
// conversationClearer interface.
func (m *Model) ClearConversation() {
	m.messages = nil
	m.plan = nil
	m.planAwaitingApproval = false
}

// SetTUIVisible implements the builtin command package's paneToggler
// interface.
func (m *Model) SetTUIVisible(v bool) {
	m.tuiVisible = v
}

// SetDebugPane implements the builtin command package's paneToggler
// interface.
func (m *Model) SetDebugPane(v bool) {
	m.debugPane = v
}

// LastAssistantText implements the builtin command package's
// clipboardWriter interface.
func (m *Model) LastAssistantText() string {
	for i := len(m.messages) - 1; i >= 0; i-- {
		if m.messages[i].Role == "assistant" && !m.messages[i].System {
			return m.messages[i].Text
		}
	}
	return ""
}

// CopyToClipboard implements the builtin command package's
// clipboardWriter interface.
func (m *Model) CopyToClipboard(text string) error {
	return clipboard.WriteAll(text)
}
