package config

import "time"

// Settings is loom's persisted configuration, stored as config.toml in the
// .loom/ directory. The core mutates a loaded Settings only through
// Configer.SaveConfig; nothing downstream of startup writes config.toml
// directly.
type Settings struct {
	Version int `toml:"version" mapstructure:"version"`

	Protocol     string `toml:"protocol"       mapstructure:"protocol"`
	LLMHost      string `toml:"llm_host"       mapstructure:"llm_host"`
	LLMPort      int    `toml:"llm_port"       mapstructure:"llm_port"`
	CurrentModel string `toml:"current_model"  mapstructure:"current_model"`

	APITimeoutSeconds     int `toml:"api_timeout_seconds"     mapstructure:"api_timeout_seconds"`
	RequestTimeoutSeconds int `toml:"request_timeout_seconds" mapstructure:"request_timeout_seconds"`

	UserPreferences UserPreferences `toml:"user_preferences" mapstructure:"user_preferences"`

	EnableSmartRouting     bool `toml:"enable_smart_routing"     mapstructure:"enable_smart_routing"`
	EnableProactiveContext bool `toml:"enable_proactive_context" mapstructure:"enable_proactive_context"`

	ModelContextWindow int     `toml:"model_context_window" mapstructure:"model_context_window"`
	ContextWindowUsage float64 `toml:"context_window_usage" mapstructure:"context_window_usage"`

	ClarificationConfidenceThreshold float64 `toml:"clarification_confidence_threshold" mapstructure:"clarification_confidence_threshold"`

	StreamIdleTimeoutSeconds int `toml:"stream_idle_timeout_seconds" mapstructure:"stream_idle_timeout_seconds"`

	MemoryMessageThreshold int `toml:"memory_message_threshold" mapstructure:"memory_message_threshold"`
	MemoryCharThreshold    int `toml:"memory_char_threshold"    mapstructure:"memory_char_threshold"`

	MCPServers map[string]MCPServerSetting `toml:"mcp_servers" mapstructure:"mcp_servers"`
}

// StreamIdleTimeout returns StreamIdleTimeoutSeconds as a time.Duration.
func (s *Settings) StreamIdleTimeout() time.Duration {
	return time.Duration(s.StreamIdleTimeoutSeconds) * time.Second
}

// UserPreferences holds the display/interaction knobs a user can toggle
// at runtime through the command registry.
type UserPreferences struct {
	TUIMode       string `toml:"tui_mode"       mapstructure:"tui_mode"`
	Streaming     bool   `toml:"streaming"      mapstructure:"streaming"`
	PersistentTUI bool   `toml:"persistent_tui" mapstructure:"persistent_tui"`
	DebugPane     bool   `toml:"debug_pane"     mapstructure:"debug_pane"`
}

// MCPServerSetting is one entry in the MCP server table the /mcp command
// family manages.
type MCPServerSetting struct {
	URL    string `toml:"url"    mapstructure:"url"`
	Status string `toml:"status" mapstructure:"status"`
}

// APITimeout returns APITimeoutSeconds as a time.Duration.
func (s *Settings) APITimeout() time.Duration {
	return time.Duration(s.APITimeoutSeconds) * time.Second
}

// RequestTimeout returns RequestTimeoutSeconds as a time.Duration.
func (s *Settings) RequestTimeout() time.Duration {
	return time.Duration(s.RequestTimeoutSeconds) * time.Second
}

// validConfigKeys is the authoritative set of all supported config keys,
// in dotted notation matching the TOML section structure.
var validConfigKeys = map[string]bool{
	"protocol":                            true,
	"llm_host":                            true,
	"llm_port":                            true,
	"current_model":                       true,
	"api_timeout_seconds":                 true,
	"request_timeout_seconds":             true,
	"user_preferences.tui_mode":           true,
	"user_preferences.streaming":          true,
	"user_preferences.persistent_tui":     true,
	"user_preferences.debug_pane":         true,
	"enable_smart_routing":                true,
	"enable_proactive_context":            true,
	"model_context_window":                true,
	"context_window_usage":                true,
	"clarification_confidence_threshold":  true,
	"stream_idle_timeout_seconds":         true,
	"memory_message_threshold":            true,
	"memory_char_threshold":               true,
}
