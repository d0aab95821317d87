package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"

	"github.com/papercompute/loom/pkg/dotdir"
)

// InitViper creates and returns a configured *viper.Viper.
// It sets defaults from NewDefaultConfig(), reads the config.toml file
// (if found via dotdir resolution), and binds environment variables
// with the LOOM_ prefix.
//
// Config precedence (highest to lowest):
//  1. Environment variables (LOOM_LLM_HOST, LOOM_CURRENT_MODEL, etc.)
//  2. config.toml file values
//  3. Defaults from NewDefaultConfig()
//
// No CLI flags are bound to the returned viper instance.
func InitViper(configDir string) (*viper.Viper, error) {
	v := viper.New()

	setViperDefaults(v)

	v.SetConfigName("config")
	v.SetConfigType("toml")

	ddm := dotdir.NewManager()
	target, err := ddm.Target(configDir)
	if err != nil {
		return nil, fmt.Errorf("resolving config dir: %w", err)
	}

	if target != "" {
		v.AddConfigPath(target)
	}

	if err := v.ReadInConfig(); err != nil {
		if !errors.As(err, &viper.ConfigFileNotFoundError{}) {
			return nil, fmt.Errorf("reading config: %w", err)
		}
	}

	v.SetEnvPrefix("LOOM")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	return v, nil
}

// setViperDefaults registers defaults from NewDefaultConfig() into viper
// using dotted-key notation. This keeps defaults.go as the single source
// of truth.
func setViperDefaults(v *viper.Viper) {
	d := NewDefaultConfig()

	v.SetDefault("version", d.Version)
	v.SetDefault("protocol", d.Protocol)
	v.SetDefault("llm_host", d.LLMHost)
	v.SetDefault("llm_port", d.LLMPort)
	v.SetDefault("current_model", d.CurrentModel)

	v.SetDefault("api_timeout_seconds", d.APITimeoutSeconds)
	v.SetDefault("request_timeout_seconds", d.RequestTimeoutSeconds)

	v.SetDefault("user_preferences.tui_mode", d.UserPreferences.TUIMode)
	v.SetDefault("user_preferences.streaming", d.UserPreferences.Streaming)
	v.SetDefault("user_preferences.persistent_tui", d.UserPreferences.PersistentTUI)
	v.SetDefault("user_preferences.debug_pane", d.UserPreferences.DebugPane)

	v.SetDefault("enable_smart_routing", d.EnableSmartRouting)
	v.SetDefault("enable_proactive_context", d.EnableProactiveContext)

	v.SetDefault("model_context_window", d.ModelContextWindow)
	v.SetDefault("context_window_usage", d.ContextWindowUsage)

	v.SetDefault("clarification_confidence_threshold", d.ClarificationConfidenceThreshold)

	v.SetDefault("stream_idle_timeout_seconds", d.StreamIdleTimeoutSeconds)
	v.SetDefault("memory_message_threshold", d.MemoryMessageThreshold)
	v.SetDefault("memory_char_threshold", d.MemoryCharThreshold)
}
