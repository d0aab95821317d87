package builtin

import (
	"context"
	"fmt"
	"strings"

	"github.com/papercompute/loom/pkg/command"
	"github.com/papercompute/loom/pkg/config"
	"github.com/papercompute/loom/pkg/mcpclient"
)

func registerMCP(reg *command.Registry) {
	reg.Register(command.Command{
		Name:     "mcp",
		Category: "mcp",
		Arguments: []command.ArgumentDef{
			{Name: "action", Required: true, Type: command.ArgString, Choices: []string{"list", "add", "remove", "connect", "status"}},
			{Name: "name", Type: command.ArgString},
			{Name: "url", Type: command.ArgString},
		},
		Execute: func(ctx context.Context, args map[string]any, ec *command.ExecutionContext) command.Result {
			mgr, ok := ec.MCP.(*mcpclient.Manager)
			if !ok {
				return command.Fail("mcp manager unavailable")
			}

			action, _ := args["action"].(string)
			name, _ := args["name"].(string)
			url, _ := args["url"].(string)

			result := dispatchMCP(ctx, mgr, action, name, url)

			if settings, ok := ec.Settings.(*config.Settings); ok {
				mgr.SyncToSettings(settings)
				if cfger, ok := ec.Configer.(*config.Configer); ok {
					_ = cfger.SaveConfig(settings)
				}
			}

			return result
		},
	})
}

func dispatchMCP(ctx context.Context, mgr *mcpclient.Manager, action, name, url string) command.Result {
	switch action {
	case "list":
		servers := mgr.List()
		if len(servers) == 0 {
			return command.Ok("no MCP servers configured")
		}
		var b strings.Builder
		for _, s := range servers {
			fmt.Fprintf(&b, "  %-20s %-10s %s\n", s.Name, s.Status, s.URL)
		}
		return command.Result{Success: true, Message: b.String(), Data: servers}

	case "add":
		if name == "" || url == "" {
			return command.Fail("usage: /mcp add name=<name> url=<url>")
		}
		mgr.Add(name, url)
		return command.Ok(fmt.Sprintf("added MCP server %q at %s", name, url))

	case "remove":
		if name == "" {
			return command.Fail("usage: /mcp remove name=<name>")
		}
		if err := mgr.Remove(name); err != nil {
			return command.Fail(err.Error())
		}
		return command.Ok(fmt.Sprintf("removed MCP server %q", name))

	case "connect":
		if name == "" {
			return command.Fail("usage: /mcp connect name=<name>")
		}
		if err := mgr.Connect(ctx, name); err != nil {
			return command.Fail(err.Error())
		}
		return command.Ok(fmt.Sprintf("connected to MCP server %q", name))

	case "status":
		if name == "" {
			return command.Fail("usage: /mcp status name=<name>")
		}
		info, err := mgr.Status(name)
		if err != nil {
			return command.Fail(err.Error())
		}
		msg := fmt.Sprintf("%s: %s (%s)", info.Name, info.Status, info.URL)
		if info.Error != "" {
			msg += fmt.Sprintf(" - %s", info.Error)
		}
		return command.Ok(msg)

	default:
		return command.Fail("unknown mcp action: " + action)
	}
}
