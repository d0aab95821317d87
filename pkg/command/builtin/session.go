package builtin

import (
	"context"

	"github.com/papercompute/loom/pkg/command"
)

// registerSession wires a thin /session command. Conversation save/load
// wire format is an explicit non-goal (it belongs to an external
// collaborator), so every subcommand here only validates its arguments
// and reports that persistence is not implemented in core - the TUI is
// free to bind its own in-memory session list behind this command later
// without changing the registered surface.
func registerSession(reg *command.Registry) {
	reg.Register(command.Command{
		Name:     "session",
		Category: "session",
		Arguments: []command.ArgumentDef{
			{Name: "action", Required: true, Type: command.ArgString, Choices: []string{"save", "load", "list", "delete"}},
			{Name: "name", Type: command.ArgString},
		},
		Execute: func(ctx context.Context, args map[string]any, ec *command.ExecutionContext) command.Result {
			action, _ := args["action"].(string)

			switch action {
			case "list":
				return command.Ok("session persistence is not implemented by loom's core; no sessions to list")
			case "save", "load", "delete":
				name, _ := args["name"].(string)
				if name == "" {
					return command.Fail("usage: /session " + action + " name=<name>")
				}
				return command.Fail("session persistence is not implemented by loom's core")
			default:
				return command.Fail("unknown session action: " + action)
			}
		},
	})
}
