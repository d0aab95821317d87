package main

import (
	"github.com/spf13/cobra"
)

const loomLongDesc string = `Loom is an interactive terminal assistant that mediates between you and
a locally-hosted LLM server (Ollama, vLLM, LM Studio, or Hugging Face TGI).

Run it with:
  loom chat    Start the interactive TUI (default if no subcommand given)

Configuration lives in ~/.loom/config.toml and can also be read or
changed from inside the TUI with "/config get|set|show".`

const loomShortDesc string = "Loom - a terminal assistant for local LLMs"

// NewLoomCmd builds the root cobra command. It is a thin shell: almost
// everything it wires exists to get the TUI running with the right
// provider and settings, per the entry point's scope.
func NewLoomCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "loom",
		Short: loomShortDesc,
		Long:  loomLongDesc,
	}

	cmd.PersistentFlags().BoolP("debug", "d", false, "Enable debug logging")
	cmd.PersistentFlags().String("config-dir", "", "Override path to .loom/ config directory")

	chatCmd := NewChatCmd()
	cmd.AddCommand(chatCmd)
	cmd.Flags().AddFlagSet(chatCmd.Flags())

	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		if chatCmd.PreRunE != nil {
			if err := chatCmd.PreRunE(cmd, args); err != nil {
				return err
			}
		}
		return chatCmd.RunE(cmd, args)
	}

	return cmd
}
