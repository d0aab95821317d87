package builtin

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/papercompute/loom/pkg/command"
	"github.com/papercompute/loom/pkg/config"
)

func registerConfig(reg *command.Registry) {
	reg.Register(command.Command{
		Name:     "config",
		Category: "config",
		Arguments: []command.ArgumentDef{
			{Name: "action", Required: true, Type: command.ArgString, Choices: []string{"get", "set", "show"}},
			{Name: "key", Type: command.ArgString},
			{Name: "value", Type: command.ArgString},
		},
		Execute: func(ctx context.Context, args map[string]any, ec *command.ExecutionContext) command.Result {
			cfger, ok := ec.Configer.(*config.Configer)
			if !ok {
				return command.Fail("configer unavailable")
			}

			action, _ := args["action"].(string)
			switch action {
			case "show":
				return configShow(cfger)
			case "get":
				key, _ := args["key"].(string)
				if key == "" {
					return command.Fail("usage: /config get key=<key>")
				}
				val, err := cfger.GetConfigValue(key)
				if err != nil {
					return command.Fail(err.Error())
				}
				return command.Ok(fmt.Sprintf("%s = %s", key, val))
			case "set":
				key, _ := args["key"].(string)
				value, _ := args["value"].(string)
				if key == "" || value == "" {
					return command.Fail("usage: /config set key=<key> value=<value>")
				}
				if err := cfger.SetConfigValue(key, value); err != nil {
					return command.Fail(err.Error())
				}
				return command.Ok(fmt.Sprintf("%s set to %s", key, value))
			default:
				return command.Fail("unknown config action: " + action)
			}
		},
	})

	reg.Register(command.Command{
		Name:     "setup",
		Category: "config",
		Arguments: []command.ArgumentDef{
			{Name: "preset", Type: command.ArgString, Choices: config.ValidPresetNames()},
		},
		Execute: func(ctx context.Context, args map[string]any, ec *command.ExecutionContext) command.Result {
			cfger, ok := ec.Configer.(*config.Configer)
			if !ok {
				return command.Fail("configer unavailable")
			}

			preset, hasPreset := args["preset"].(string)
			if !hasPreset || preset == "" {
				return command.Ok(fmt.Sprintf(
					"usage: /setup preset=<preset>\navailable presets: %s",
					strings.Join(config.ValidPresetNames(), ", "),
				))
			}

			cfg, err := config.PresetConfig(preset)
			if err != nil {
				return command.Fail(err.Error())
			}
			if err := cfger.SaveConfig(cfg); err != nil {
				return command.Fail(err.Error())
			}
			return command.Ok(fmt.Sprintf("configured for %s at %s:%d", cfg.Protocol, cfg.LLMHost, cfg.LLMPort))
		},
	})
}

func configShow(cfger *config.Configer) command.Result {
	keys := config.ValidConfigKeys()
	sort.Strings(keys)

	var b strings.Builder
	for _, k := range keys {
		v, err := cfger.GetConfigValue(k)
		if err != nil {
			continue
		}
		fmt.Fprintf(&b, "%-40s %s\n", k, v)
	}
	return command.Ok(b.String())
}
