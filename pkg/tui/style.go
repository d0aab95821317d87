package tui

import (
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

func init() {
	// Force TrueColor profile to fix lipgloss color detection issue.
	// See: https://github.com/charmbracelet/lipgloss/issues/439
	renderer := lipgloss.NewRenderer(os.Stdout, termenv.WithProfile(termenv.TrueColor))
	renderer.SetColorProfile(termenv.TrueColor)
	lipgloss.SetDefaultRenderer(renderer)
}

var (
	colorForeground = lipgloss.Color("#E6E4D9")
	colorMuted      = lipgloss.Color("#8A8775")
	colorAccent     = lipgloss.Color("#4EB1E9")
	colorGreen      = lipgloss.Color("#4DA667")
	colorYellow     = lipgloss.Color("#F2B84B")
	colorRed        = lipgloss.Color("#FF6B4A")
)

var (
	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorForeground).
			Background(lipgloss.Color("#2A2922")).
			Padding(0, 1)

	statusBarStyle = lipgloss.NewStyle().
			Foreground(colorMuted).
			Padding(0, 1)

	inputFrameStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorMuted).
			Padding(0, 1)

	inputFrameActiveStyle = inputFrameStyle.BorderForeground(colorAccent)

	userPrefixStyle = lipgloss.NewStyle().Bold(true).Foreground(colorAccent)

	assistantPrefixStyle = lipgloss.NewStyle().Bold(true).Foreground(colorGreen)

	systemMessageStyle = lipgloss.NewStyle().Foreground(colorMuted).Italic(true)

	errorMessageStyle = lipgloss.NewStyle().Foreground(colorRed)

	scrollIndicatorStyle = lipgloss.NewStyle().
				Foreground(colorYellow).
				Bold(true).
				Align(lipgloss.Center)

	planBoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorYellow).
			Padding(0, 1)
)

func modeLabel(m ExecutionMode) string {
	style := lipgloss.NewStyle().Bold(true)
	switch m {
	case ModeArchitect:
		return style.Foreground(colorYellow).Render("ARCHITECT")
	case ModeExecute:
		return style.Foreground(colorRed).Render("EXECUTE")
	case ModeLLVL:
		return style.Foreground(colorAccent).Render("LLVL")
	default:
		return style.Foreground(colorGreen).Render("CHAT")
	}
}
