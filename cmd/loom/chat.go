package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/papercompute/loom/pkg/agent"
	"github.com/papercompute/loom/pkg/command/builtin"
	"github.com/papercompute/loom/pkg/config"
	"github.com/papercompute/loom/pkg/logger"
	"github.com/papercompute/loom/pkg/provider"
	"github.com/papercompute/loom/pkg/provider/registry"
	"github.com/papercompute/loom/pkg/tui"
)

type chatCommander struct {
	settings *config.Settings
	cfger    *config.Configer
	debug    bool
	model    string
}

const chatLongDesc string = `Start an interactive chat session with a locally-hosted LLM.

loom connects to the server named by "protocol"/"llm_host"/"llm_port" in
~/.loom/config.toml (the default configuration names Ollama on
localhost:11434). Only when "protocol" is empty does it auto-detect a
running Ollama, vLLM, LM Studio, or Hugging Face TGI server on the usual
local ports.`

const chatShortDesc string = "Start the interactive TUI"

// NewChatCmd builds the chat subcommand. It is also invoked directly by
// the root command when loom is run with no subcommand.
func NewChatCmd() *cobra.Command {
	cmder := &chatCommander{}

	cmd := &cobra.Command{
		Use:   "chat",
		Short: chatShortDesc,
		Long:  chatLongDesc,
		PreRunE: func(cmd *cobra.Command, _ []string) error {
			configDir, _ := cmd.Flags().GetString("config-dir")
			cfger, err := config.NewConfiger(configDir)
			if err != nil {
				return fmt.Errorf("loading config: %w", err)
			}

			settings, err := cfger.LoadConfig()
			if err != nil {
				return fmt.Errorf("loading config: %w", err)
			}

			if cmd.Flags().Changed("model") {
				settings.CurrentModel = cmder.model
			}

			cmder.cfger = cfger
			cmder.settings = settings
			return nil
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			debug, err := cmd.Flags().GetBool("debug")
			if err != nil {
				return fmt.Errorf("could not get debug flag: %w", err)
			}
			cmder.debug = debug
			return cmder.run()
		},
	}

	cmd.Flags().StringVarP(&cmder.model, "model", "m", "", "Model name to use (overrides config)")

	return cmd
}

func (c *chatCommander) run() error {
	log := logger.NewLogger(c.debug)
	defer func() { _ = log.Sync() }()

	p, err := c.selectProvider(log)
	if err != nil {
		return fmt.Errorf("selecting provider: %w", err)
	}

	projectRoot, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("resolving project root: %w", err)
	}

	a := agent.New(p, c.settings, c.cfger, projectRoot, log)
	builtin.Register(a.Commands)

	return tui.Run(context.Background(), a)
}

// selectProvider pins to the configured protocol when one is set;
// otherwise it probes the usual local ports for any supported backend.
func (c *chatCommander) selectProvider(log *zap.Logger) (provider.Provider, error) {
	if c.settings.Protocol != "" {
		return agent.SelectProvider(c.settings)
	}

	detector := registry.NewDetector().WithTimeout(c.settings.APITimeout())
	p, found := detector.Detect(context.Background(), "")
	if !found {
		return nil, fmt.Errorf("no local LLM server detected; set protocol/llm_host/llm_port in config or start one")
	}

	log.Info("auto-detected local LLM server", zap.String("type", string(p.Type())))
	c.settings.Protocol = string(p.Type())
	return p, nil
}
