package builtin

import (
	"context"
	"fmt"
	"strings"

	"github.com/papercompute/loom/pkg/command"
	"github.com/papercompute/loom/pkg/config"
	"github.com/papercompute/loom/pkg/provider"
)

func registerModels(reg *command.Registry) {
	reg.Register(command.Command{
		Name:     "models",
		Category: "model",
		Execute: func(ctx context.Context, args map[string]any, ec *command.ExecutionContext) command.Result {
			p, ok := ec.Provider.(provider.Provider)
			if !ok {
				return command.Fail("provider unavailable")
			}

			models, err := p.ListModels(ctx)
			if err != nil {
				return command.Fail(err.Error())
			}
			if len(models) == 0 {
				return command.Ok("no models available")
			}

			var b strings.Builder
			for _, m := range models {
				loaded := ""
				if m.IsLoaded {
					loaded = " (loaded)"
				}
				fmt.Fprintf(&b, "  %s%s\n", m.Name, loaded)
			}
			return command.Result{Success: true, Message: b.String(), Data: models}
		},
	})

	reg.Register(command.Command{
		Name:     "model",
		Category: "model",
		Arguments: []command.ArgumentDef{
			{Name: "name", Required: true, Type: command.ArgString},
		},
		Execute: func(ctx context.Context, args map[string]any, ec *command.ExecutionContext) command.Result {
			settings, ok := ec.Settings.(*config.Settings)
			if !ok {
				return command.Fail("settings unavailable")
			}
			name, _ := args["name"].(string)
			settings.CurrentModel = name

			if cfger, ok := ec.Configer.(*config.Configer); ok {
				_ = cfger.SaveConfig(settings)
			}
			return command.Ok(fmt.Sprintf("current model set to %s", name))
		},
	})

	reg.Register(command.Command{
		Name:     "model-info",
		Category: "model",
		Arguments: []command.ArgumentDef{
			{Name: "name", Type: command.ArgString},
		},
		Execute: func(ctx context.Context, args map[string]any, ec *command.ExecutionContext) command.Result {
			p, ok := ec.Provider.(provider.Provider)
			if !ok {
				return command.Fail("provider unavailable")
			}
			settings, _ := ec.Settings.(*config.Settings)

			name, _ := args["name"].(string)
			if name == "" && settings != nil {
				name = settings.CurrentModel
			}
			if name == "" {
				return command.Fail("no model specified and no current model set")
			}

			models, err := p.ListModels(ctx)
			if err != nil {
				return command.Fail(err.Error())
			}
			for _, m := range models {
				if m.Name == name {
					return command.Ok(fmt.Sprintf(
						"name:       %s\nprovider:   %s\nsize:       %d bytes\nquant:      %s\ncontext:    %d\nparams:     %s\nloaded:     %t",
						m.Name, m.Provider, m.Size, m.Quantization, m.ContextLength, m.Parameters, m.IsLoaded,
					))
				}
			}
			return command.Fail(fmt.Sprintf("model %q not found", name))
		},
	})
}
