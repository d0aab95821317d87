// Package tui implements loom's interactive terminal: a bubbletea program
// that streams assistant output into a scrollback viewport above a framed
// textarea, mediates between four execution modes, and hosts the slash
// command registry.
package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"
	"golang.org/x/time/rate"

	"github.com/papercompute/loom/pkg/agent"
	"github.com/papercompute/loom/pkg/apperrors"
	"github.com/papercompute/loom/pkg/cliui"
	"github.com/papercompute/loom/pkg/command"
	"github.com/papercompute/loom/pkg/llm"
)

// redrawInterval bounds how often a streaming chunk is allowed to trigger
// a viewport re-render; chunks arriving faster than this just accumulate
// in streamBuf until the limiter next admits a redraw.
const redrawInterval = 33 * time.Millisecond

const headerHeight = 1
const footerHeight = 1
const inputFrameHeight = 3

// Model is loom's top-level bubbletea model. It is the hub of the star
// topology: Update drives the agent's Router, Provider, ContextBuilder,
// and Commands; of these, only commands reach back into Model, and only
// through ExecutionContext.TUI. Model
// is always driven through a pointer so commands dispatched through the
// registry's ExecutionContext.TUI field mutate the same instance the
// event loop is running, not a disconnected copy.
type Model struct {
	agent *agent.Agent

	keys keyMap
	help help.Model
	ta   textarea.Model
	vp   viewport.Model
	spin spinner.Model

	width, height int

	mode              ExecutionMode
	pendingRevertMode ExecutionMode

	messages []ChatMessage

	streaming   bool
	streamID    string
	streamBuf   strings.Builder
	lastChunk   time.Time
	streamRole  llm.Role
	preStreamed bool // ARCHITECT collects silently; nothing renders until done

	plan                 *PendingPlan
	planAwaitingApproval bool

	redrawLimiter *rate.Limiter

	tuiVisible bool
	debugPane  bool
	scrolledUp bool

	statusMsg string
	err       error

	ctx    context.Context
	cancel context.CancelFunc
}

// New builds a Model ready to run against the given agent.
func New(ctx context.Context, a *agent.Agent) *Model {
	ta := textarea.New()
	ta.Placeholder = "ask loom anything..."
	ta.Focus()
	ta.ShowLineNumbers = false
	ta.SetHeight(1)

	vp := viewport.New(80, 20)

	spin := spinner.New()
	spin.Spinner = spinner.Dot

	runCtx, cancel := context.WithCancel(ctx)

	mode := ModeChat
	if a.Settings != nil {
		if parsed, ok := parseMode(a.Settings.UserPreferences.TUIMode); ok {
			mode = parsed
		}
	}

	return &Model{
		agent:         a,
		keys:          defaultKeyMap(),
		help:          help.New(),
		ta:            ta,
		vp:            vp,
		spin:          spin,
		mode:          mode,
		tuiVisible:    true,
		redrawLimiter: rate.NewLimiter(rate.Every(redrawInterval), 1),
		ctx:           runCtx,
		cancel:        cancel,
	}
}

// Run starts the bubbletea program in the alt screen, mirroring the
// teacher's RunDeckTUI entry point.
func Run(ctx context.Context, a *agent.Agent) error {
	m := New(ctx, a)
	defer m.cancel()

	program := tea.NewProgram(m,
		tea.WithContext(ctx),
		tea.WithAltScreen(),
	)
	_, err := program.Run()
	return err
}

func (m *Model) Init() tea.Cmd {
	return tea.Batch(textarea.Blink, spinner.Tick)
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ta.SetWidth(msg.Width - 4)
		m.vp.Width = msg.Width
		m.vp.Height = msg.Height - headerHeight - footerHeight - inputFrameHeight - 1
		m.vp.SetContent(m.renderMessages())
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case spinner.TickMsg:
		if m.streaming {
			var cmd tea.Cmd
			m.spin, cmd = m.spin.Update(msg)
			return m, cmd
		}
		return m, nil

	case streamContinuation:
		m.lastChunk = timeNow()
		m.streamBuf.WriteString(msg.chunk.content)
		if !m.preStreamed {
			m.syncStreamingMessage()
		}
		return m, tea.Batch(
			waitForStreamEvent(msg.next, msg.chunk.streamID),
			streamIdleTimeoutCmd(msg.chunk.streamID, m.streamIdleTimeout()),
		)

	case streamDoneMsg:
		if msg.streamID != m.streamID {
			return m, nil
		}
		m.finishStreaming()
		return m, nil

	case streamErrMsg:
		if msg.streamID != m.streamID || !m.streaming {
			return m, nil
		}
		if _, ok := msg.err.(*apperrors.StreamHealthError); ok && timeNow().Sub(m.lastChunk) < m.streamIdleTimeout() {
			return m, nil // a chunk arrived since this watchdog was armed
		}
		m.handleStreamError(msg.err)
		return m, nil

	case commandResultMsg:
		m.applyCommandResult(msg.result)
		return m, nil
	}

	var cmd tea.Cmd
	m.ta, cmd = m.ta.Update(msg)
	return m, cmd
}

func timeNow() time.Time { return time.Now() }

func (m *Model) streamIdleTimeout() time.Duration {
	if m.agent.Settings != nil {
		return m.agent.Settings.StreamIdleTimeout()
	}
	return 30 * time.Second
}

func (m *Model) View() string {
	if !m.tuiVisible {
		return ""
	}

	header := headerStyle.Width(m.width).Render(fmt.Sprintf("loom  [%s]  model: %s", modeLabel(m.mode), m.currentModel()))

	frameStyle := inputFrameStyle
	if !m.streaming {
		frameStyle = inputFrameActiveStyle
	}
	input := frameStyle.Width(m.width - 2).Render(m.ta.View())

	status := statusBarStyle.Width(m.width).Render(m.statusLine() + "  " + m.help.View(m.keys))

	sections := []string{header, m.vp.View()}
	if m.scrolledUp {
		sections = append(sections, scrollIndicatorStyle.Width(m.width).Render("[SCROLLED UP ↑]"))
	}
	sections = append(sections, input, status)

	return strings.Join(sections, "\n")
}

func (m *Model) currentModel() string {
	if m.agent.Settings == nil || m.agent.Settings.CurrentModel == "" {
		return "(none)"
	}
	return m.agent.Settings.CurrentModel
}

func (m *Model) statusLine() string {
	if m.streaming {
		return m.spin.View() + " streaming..."
	}
	if m.statusMsg != "" {
		return m.statusMsg
	}
	if m.err != nil {
		return errorMessageStyle.Render(m.err.Error())
	}
	return fmt.Sprintf("%d messages", len(m.messages))
}

func (m *Model) renderMessages() string {
	var b strings.Builder
	for _, msg := range m.messages {
		b.WriteString(renderMessage(msg))
		b.WriteString("\n\n")
	}
	if m.plan != nil && m.planAwaitingApproval {
		b.WriteString(planBoxStyle.Render(m.plan.render()))
		b.WriteString("\n\n")
	}
	return b.String()
}

func renderMessage(msg ChatMessage) string {
	prefix := userPrefixStyle.Render("you")
	text := msg.Text
	switch {
	case msg.System:
		return systemMessageStyle.Render(text)
	case msg.Role == llm.RoleAssistant:
		prefix = assistantPrefixStyle.Render("loom")
		if msg.Streaming {
			break // in-flight text is shown raw
		}
		if rendered, err := cliui.RenderMarkdown(text); err == nil {
			text = strings.TrimRight(rendered, "\n")
		}
	}
	return prefix + "\n" + text
}

// commandResultMsg carries a slash command's Result back into Update.
type commandResultMsg struct {
	result command.Result
}

func (m *Model) applyCommandResult(res command.Result) {
	if res.Message != "" {
		m.messages = append(m.messages, ChatMessage{ID: uuid.NewString(), System: true, Text: res.Message})
		m.vp.SetContent(m.renderMessages())
		m.vp.GotoBottom()
	}
	if res.ShouldExit {
		m.cancel()
	}
	// /mode writes the preference; pick it up as the live mode.
	if !m.streaming && m.agent.Settings != nil {
		if parsed, ok := parseMode(m.agent.Settings.UserPreferences.TUIMode); ok {
			m.mode = parsed
		}
	}
}
