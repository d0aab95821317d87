package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"

	"github.com/papercompute/loom/pkg/apperrors"
	"github.com/papercompute/loom/pkg/ctxbuilder"
	"github.com/papercompute/loom/pkg/llm"
	"github.com/papercompute/loom/pkg/router"
)

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c", "ctrl+s":
		m.cancel()
		return m, tea.Quit

	case "shift+tab":
		m.mode = m.mode.next()
		if m.agent.Settings != nil {
			m.agent.Settings.UserPreferences.TUIMode = string(m.mode)
		}
		return m, nil

	case "esc":
		m.ta.Reset()
		return m, nil

	case "pgup":
		m.vp.ViewUp()
		m.scrolledUp = !m.vp.AtBottom()
		return m, nil

	case "pgdown":
		m.vp.ViewDown()
		m.scrolledUp = !m.vp.AtBottom()
		return m, nil

	case "enter":
		return m.submit()
	}

	var cmd tea.Cmd
	m.ta, cmd = m.ta.Update(msg)
	return m, cmd
}

// submit handles an Enter keypress: either a reply to a pending plan
// approval, or a fresh turn routed through the agent's Router.
func (m *Model) submit() (tea.Model, tea.Cmd) {
	raw := m.ta.Value()
	m.ta.Reset()

	cleaned, err := validateInput(raw)
	if err != nil {
		m.appendSystem(err.Error())
		return m, nil
	}

	if m.planAwaitingApproval {
		return m.handlePlanReply(cleaned)
	}

	m.messages = append(m.messages, ChatMessage{ID: uuid.NewString(), Role: llm.RoleUser, Text: cleaned})
	m.messages = m.archived()

	if m.agent.Router == nil {
		return m, m.beginStream(cleaned, m.mode)
	}

	decision, err := m.agent.Router.Route(m.ctx, cleaned, router.Mode(m.mode), toHistory(m.messages))
	if err != nil {
		m.err = err
		return m, nil
	}

	switch decision.Type {
	case router.RouteSlashCommand:
		return m, m.runCommand("/" + decision.CommandName + " " + decision.CommandArgs)
	case router.RouteClarification:
		m.appendSystem(decision.ClarificationPrompt)
		return m, nil
	default: // RoutePassthroughChat, RouteNaturalLanguage
		return m, m.beginStream(cleaned, m.mode)
	}
}

func (m *Model) archived() []ChatMessage {
	threshold, chars := 0, 0
	if m.agent.Settings != nil {
		threshold = m.agent.Settings.MemoryMessageThreshold
		chars = m.agent.Settings.MemoryCharThreshold
	}
	return archiveIfNeeded(m.messages, threshold, chars)
}

func (m *Model) handlePlanReply(input string) (tea.Model, tea.Cmd) {
	switch judgePlanReply(input) {
	case planApproved:
		m.planAwaitingApproval = false
		req := m.plan.originalRequest
		previous := m.mode
		m.mode = ModeExecute
		return m, m.beginStream(req, previous)
	case planShowFull:
		m.appendSystem(m.plan.render())
		return m, nil
	case planRejected:
		m.planAwaitingApproval = false
		m.plan = nil
		m.appendSystem("plan cancelled")
		return m, nil
	default:
		m.appendSystem(`reply "yes"/"approve", "no"/"cancel", or "show full"`)
		return m, nil
	}
}

func (m *Model) appendSystem(text string) {
	m.messages = append(m.messages, ChatMessage{ID: uuid.NewString(), System: true, Text: text})
	m.vp.SetContent(m.renderMessages())
	m.vp.GotoBottom()
}

// beginStream starts a new streamed turn against the active provider.
// revertMode is the mode to return to once an ARCHITECT-approved EXECUTE
// re-run finishes; it equals the current mode in the common case.
func (m *Model) beginStream(userText string, revertMode ExecutionMode) tea.Cmd {
	m.streaming = true
	m.streamID = uuid.NewString()
	m.streamBuf.Reset()
	m.streamRole = llm.RoleAssistant
	m.lastChunk = timeNow()
	m.preStreamed = m.mode == ModeArchitect
	m.pendingRevertMode = revertMode

	if !m.preStreamed {
		m.messages = append(m.messages, ChatMessage{ID: m.streamID, Role: llm.RoleAssistant, Text: "", Streaming: true})
	}

	req := m.buildChatRequest(userText)
	cmd := startStream(m.ctx, m.agent.Provider, req, m.streamID)
	return tea.Batch(cmd, streamIdleTimeoutCmd(m.streamID, m.streamIdleTimeout()), spinner.Tick)
}

func (m *Model) buildChatRequest(userText string) llm.ChatRequest {
	history := toHistory(m.messages)

	var contextWindow int
	if m.agent.Settings != nil {
		contextWindow = m.agent.Settings.ModelContextWindow
	}

	var system string
	if m.agent.Context != nil {
		results := m.agent.Context.Build(nil, userText, flattenText(history), contextWindow)
		system = renderContextFiles(results)
	}

	model := ""
	if m.agent.Settings != nil {
		model = m.agent.Settings.CurrentModel
	}

	return llm.ChatRequest{
		Model:    model,
		Messages: history,
		System:   system,
	}
}

// syncStreamingMessage copies the accumulated stream buffer into the
// in-flight assistant message. The viewport redraw itself is throttled
// by redrawLimiter so a fast-streaming provider doesn't force a
// re-render on every chunk; the message text is always kept current so
// the next admitted redraw (or finishStreaming) never shows stale
// content.
func (m *Model) syncStreamingMessage() {
	for i := range m.messages {
		if m.messages[i].ID == m.streamID {
			m.messages[i].Text = m.streamBuf.String()
			break
		}
	}
	if !m.redrawLimiter.Allow() {
		return
	}
	m.vp.SetContent(m.renderMessages())
	if !m.scrolledUp {
		m.vp.GotoBottom()
	}
}

func (m *Model) finishStreaming() {
	m.streaming = false

	if m.preStreamed {
		plan := extractPlan(m.streamBuf.String(), m.lastUserText())
		if m.mode == ModeExecute && m.pendingRevertMode == ModeArchitect {
			// This was the approved re-run: show the result like a normal
			// reply and revert back to ARCHITECT.
			m.messages = append(m.messages, ChatMessage{ID: uuid.NewString(), Role: llm.RoleAssistant, Text: m.streamBuf.String()})
			m.mode = ModeArchitect
		} else {
			m.plan = plan
			m.planAwaitingApproval = true
			m.messages = append(m.messages, ChatMessage{ID: uuid.NewString(), Role: llm.RoleAssistant, Text: "(plan ready for review below)"})
		}
	} else {
		for i := range m.messages {
			if m.messages[i].ID == m.streamID {
				m.messages[i].Text = m.streamBuf.String()
				m.messages[i].Streaming = false
				break
			}
		}
		if m.mode == ModeExecute && m.pendingRevertMode == ModeArchitect {
			// The approved re-run streams visibly; revert back to ARCHITECT.
			m.mode = ModeArchitect
		}
	}

	m.preStreamed = false
	m.vp.SetContent(m.renderMessages())
	if !m.scrolledUp {
		m.vp.GotoBottom()
	}
}

func (m *Model) lastUserText() string {
	for i := len(m.messages) - 1; i >= 0; i-- {
		if m.messages[i].Role == llm.RoleUser {
			return m.messages[i].Text
		}
	}
	return ""
}

// handleStreamError implements the stream-health recovery path: the
// partial content already buffered is finalized, a recovery message is
// appended, and the provider failure counters are incremented.
func (m *Model) handleStreamError(err error) {
	m.streaming = false
	m.preStreamed = false

	partial := m.streamBuf.String()
	for i := range m.messages {
		if m.messages[i].ID == m.streamID {
			m.messages[i].Text = partial
			m.messages[i].Streaming = false
			break
		}
	}

	recovery := "the response was interrupted"
	if _, ok := err.(*apperrors.StreamHealthError); ok {
		recovery = "the provider stopped responding and the turn timed out"
	} else if pe, ok := err.(*apperrors.ProviderError); ok {
		recovery = pe.RemediationHint()
	}

	if m.agent.Provider != nil {
		recordProviderFailure(m.agent.Provider.Type(), err)
	}

	m.appendSystem(recovery)
}

func (m *Model) runCommand(input string) tea.Cmd {
	reg := m.agent.Commands
	ec := m.agent.ExecutionContext()
	ec.TUI = m
	ctx := m.ctx

	return func() tea.Msg {
		return commandResultMsg{result: reg.Dispatch(ctx, input, ec)}
	}
}

func flattenText(history []llm.Message) string {
	var out strings.Builder
	for _, msg := range history {
		out.WriteString(msg.Text())
		out.WriteByte('\n')
	}
	return out.String()
}

func renderContextFiles(results []ctxbuilder.FileReadResult) string {
	if len(results) == 0 {
		return ""
	}
	var b strings.Builder
	b.WriteString("Relevant project files:\n\n")
	for _, r := range results {
		b.WriteString("### " + r.Path + "\n```\n" + r.Content + "\n```\n\n")
	}
	return b.String()
}
