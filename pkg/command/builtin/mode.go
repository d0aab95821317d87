package builtin

import (
	"context"
	"fmt"
	"strings"

	"github.com/papercompute/loom/pkg/command"
	"github.com/papercompute/loom/pkg/config"
)

var modeChoices = []string{"chat", "architect", "execute", "llvl"}

func registerMode(reg *command.Registry) {
	reg.Register(command.Command{
		Name:     "mode",
		Category: "session",
		Arguments: []command.ArgumentDef{
			{Name: "mode", Type: command.ArgString, Choices: modeChoices},
		},
		Execute: func(ctx context.Context, args map[string]any, ec *command.ExecutionContext) command.Result {
			settings, ok := ec.Settings.(*config.Settings)
			if !ok {
				return command.Fail("settings unavailable")
			}

			mode, given := args["mode"].(string)
			if !given || mode == "" {
				return command.Ok(fmt.Sprintf(
					"current mode: %s\navailable modes: %s",
					settings.UserPreferences.TUIMode, strings.Join(modeChoices, ", "),
				))
			}

			settings.UserPreferences.TUIMode = mode
			return command.Ok(fmt.Sprintf("mode set to %s", mode))
		},
	})
}
