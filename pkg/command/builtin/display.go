package builtin

import (
	"context"
	"fmt"

	"github.com/papercompute/loom/pkg/command"
	"github.com/papercompute/loom/pkg/config"
	"github.com/papercompute/loom/pkg/ctxbuilder"
)

// conversationClearer, paneToggler, and clipboardWriter are the thin
// collaborator interfaces the TUI implements. They are defined here
// rather than in pkg/tui so pkg/command/builtin never imports pkg/tui -
// the dependency points inward, from TUI to command, not the reverse.
type conversationClearer interface {
	ClearConversation()
}

type paneToggler interface {
	SetTUIVisible(bool)
	SetDebugPane(bool)
}

type clipboardWriter interface {
	CopyToClipboard(text string) error
	LastAssistantText() string
}

func registerDisplay(reg *command.Registry) {
	reg.Register(command.Command{
		Name:     "clear",
		Aliases:  []string{"reset"},
		Category: "display",
		Execute: func(ctx context.Context, args map[string]any, ec *command.ExecutionContext) command.Result {
			if c, ok := ec.TUI.(conversationClearer); ok {
				c.ClearConversation()
			}
			return command.Ok("conversation cleared")
		},
	})

	reg.Register(command.Command{
		Name:     "refresh",
		Category: "display",
		Execute: func(ctx context.Context, args map[string]any, ec *command.ExecutionContext) command.Result {
			if b, ok := ec.ContextBuilder.(*ctxbuilder.Builder); ok {
				b.InvalidateCache()
			}
			return command.Ok("file cache refreshed")
		},
	})

	reg.Register(command.Command{
		Name:     "tui",
		Category: "display",
		Arguments: []command.ArgumentDef{
			{Name: "state", Required: true, Type: command.ArgString, Choices: []string{"on", "off", "toggle"}},
		},
		Execute: func(ctx context.Context, args map[string]any, ec *command.ExecutionContext) command.Result {
			settings, ok := ec.Settings.(*config.Settings)
			if !ok {
				return command.Fail("settings unavailable")
			}
			state, _ := args["state"].(string)
			visible := resolveToggle(state, settings.UserPreferences.PersistentTUI)
			settings.UserPreferences.PersistentTUI = visible

			if t, ok := ec.TUI.(paneToggler); ok {
				t.SetTUIVisible(visible)
			}
			return command.Ok(fmt.Sprintf("tui %s", onOff(visible)))
		},
	})

	reg.Register(command.Command{
		Name:     "debug",
		Category: "display",
		Arguments: []command.ArgumentDef{
			{Name: "state", Required: true, Type: command.ArgString, Choices: []string{"on", "off", "toggle"}},
		},
		Execute: func(ctx context.Context, args map[string]any, ec *command.ExecutionContext) command.Result {
			settings, ok := ec.Settings.(*config.Settings)
			if !ok {
				return command.Fail("settings unavailable")
			}
			state, _ := args["state"].(string)
			enabled := resolveToggle(state, settings.UserPreferences.DebugPane)
			settings.UserPreferences.DebugPane = enabled

			if t, ok := ec.TUI.(paneToggler); ok {
				t.SetDebugPane(enabled)
			}
			return command.Ok(fmt.Sprintf("debug pane %s", onOff(enabled)))
		},
	})

	reg.Register(command.Command{
		Name:     "copy",
		Category: "display",
		Arguments: []command.ArgumentDef{
			{Name: "text", Type: command.ArgString},
			{Name: "file", Type: command.ArgString},
			{Name: "lines", Type: command.ArgString},
			{Name: "format", Type: command.ArgString, Default: "plain", Choices: []string{"plain", "markdown"}},
		},
		Execute: func(ctx context.Context, args map[string]any, ec *command.ExecutionContext) command.Result {
			cw, ok := ec.TUI.(clipboardWriter)
			if !ok {
				return command.Fail("copy is unavailable outside the TUI")
			}

			text, _ := args["text"].(string)
			if text == "" {
				text = cw.LastAssistantText()
			}
			if text == "" {
				return command.Fail("nothing to copy")
			}

			if err := cw.CopyToClipboard(text); err != nil {
				return command.Fail(err.Error())
			}
			return command.Ok("copied to clipboard")
		},
	})
}

func resolveToggle(state string, current bool) bool {
	switch state {
	case "on":
		return true
	case "off":
		return false
	default:
		return !current
	}
}

func onOff(v bool) string {
	if v {
		return "on"
	}
	return "off"
}
