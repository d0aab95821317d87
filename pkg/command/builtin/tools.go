package builtin

import (
	"context"
	"fmt"

	"github.com/papercompute/loom/pkg/command"
)

// toolLister is implemented by pkg/tui's Model, which lists the tools of
// every connected MCP server. When ec.TUI does not implement it, /tools
// reports that no tools are registered rather than failing.
type toolLister interface {
	ListTools(category string, search string, detailed bool) []string
}

func registerTools(reg *command.Registry) {
	reg.Register(command.Command{
		Name:     "tools",
		Category: "tools",
		Arguments: []command.ArgumentDef{
			{Name: "category", Type: command.ArgString},
			{Name: "detailed", Type: command.ArgBool, Default: false},
			{Name: "search", Type: command.ArgString},
		},
		Execute: func(ctx context.Context, args map[string]any, ec *command.ExecutionContext) command.Result {
			category, _ := args["category"].(string)
			search, _ := args["search"].(string)
			detailed, _ := args["detailed"].(bool)

			lister, ok := ec.TUI.(toolLister)
			if !ok {
				return command.Ok("no plugin tools registered")
			}

			entries := lister.ListTools(category, search, detailed)
			if len(entries) == 0 {
				return command.Ok("no matching tools")
			}

			msg := ""
			for _, e := range entries {
				msg += fmt.Sprintf("  %s\n", e)
			}
			return command.Result{Success: true, Message: msg, Data: entries}
		},
	})
}
