package builtin

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/papercompute/loom/pkg/command"
	"github.com/papercompute/loom/pkg/config"
	"github.com/papercompute/loom/pkg/provider"
	"github.com/papercompute/loom/pkg/utils"
)

func registerInfo(reg *command.Registry) {
	reg.Register(command.Command{
		Name:     "help",
		Category: "info",
		Execute: func(ctx context.Context, args map[string]any, ec *command.ExecutionContext) command.Result {
			cmds := reg.Commands()
			sort.Slice(cmds, func(i, j int) bool { return cmds[i].Name < cmds[j].Name })

			var b strings.Builder
			b.WriteString("available commands:\n")
			for _, c := range cmds {
				fmt.Fprintf(&b, "  %s\n", command.Usage(c))
			}
			return command.Ok(b.String())
		},
	})

	reg.Register(command.Command{
		Name:     "exit",
		Aliases:  []string{"quit"},
		Category: "info",
		Execute: func(ctx context.Context, args map[string]any, ec *command.ExecutionContext) command.Result {
			return command.Result{Success: true, Message: "goodbye", ShouldExit: true}
		},
	})

	reg.Register(command.Command{
		Name:     "about",
		Category: "info",
		Execute: func(ctx context.Context, args map[string]any, ec *command.ExecutionContext) command.Result {
			return command.Ok(fmt.Sprintf("loom %s (%s), built %s", utils.Version, utils.Sha, utils.Buildtime))
		},
	})

	reg.Register(command.Command{
		Name:     "status",
		Category: "info",
		Execute: func(ctx context.Context, args map[string]any, ec *command.ExecutionContext) command.Result {
			settings, ok := ec.Settings.(*config.Settings)
			if !ok {
				return command.Fail("settings unavailable")
			}

			var b strings.Builder
			fmt.Fprintf(&b, "protocol:        %s\n", settings.Protocol)
			fmt.Fprintf(&b, "llm address:     %s:%d\n", settings.LLMHost, settings.LLMPort)
			fmt.Fprintf(&b, "current model:   %s\n", orNone(settings.CurrentModel))
			fmt.Fprintf(&b, "mode:            %s\n", orNone(settings.UserPreferences.TUIMode))
			fmt.Fprintf(&b, "streaming:       %t\n", settings.UserPreferences.Streaming)
			fmt.Fprintf(&b, "debug pane:      %t\n", settings.UserPreferences.DebugPane)
			fmt.Fprintf(&b, "smart routing:   %t\n", settings.EnableSmartRouting)
			fmt.Fprintf(&b, "proactive ctx:   %t\n", settings.EnableProactiveContext)

			if p, ok := ec.Provider.(provider.Provider); ok {
				reachable := p.Detect(ctx)
				fmt.Fprintf(&b, "provider:        %s at %s (reachable: %t)\n", p.Type(), p.BaseURL(), reachable)
			}

			return command.Ok(b.String())
		},
	})
}

func orNone(s string) string {
	if s == "" {
		return "(none)"
	}
	return s
}
