package config

const (
	defaultProtocol     = "ollama"
	defaultLLMHost      = "localhost"
	defaultLLMPort      = 11434
	defaultCurrentModel = ""

	defaultAPITimeoutSeconds     = 60
	defaultRequestTimeoutSeconds = 120

	defaultTUIMode   = "chat"
	defaultStreaming = true

	defaultEnableSmartRouting     = true
	defaultEnableProactiveContext = true

	defaultModelContextWindow = 8192
	defaultContextWindowUsage = 0.7

	defaultClarificationConfidenceThreshold = 0.7

	defaultStreamIdleTimeoutSeconds = 30

	defaultMemoryMessageThreshold = 60
	defaultMemoryCharThreshold    = 24000
)

// NewDefaultConfig returns a Settings with sane defaults for all fields.
// This is the single source of truth for default values.
func NewDefaultConfig() *Settings {
	return &Settings{
		Version:      CurrentV,
		Protocol:     defaultProtocol,
		LLMHost:      defaultLLMHost,
		LLMPort:      defaultLLMPort,
		CurrentModel: defaultCurrentModel,

		APITimeoutSeconds:     defaultAPITimeoutSeconds,
		RequestTimeoutSeconds: defaultRequestTimeoutSeconds,

		UserPreferences: UserPreferences{
			TUIMode:   defaultTUIMode,
			Streaming: defaultStreaming,
		},

		EnableSmartRouting:     defaultEnableSmartRouting,
		EnableProactiveContext: defaultEnableProactiveContext,

		ModelContextWindow: defaultModelContextWindow,
		ContextWindowUsage: defaultContextWindowUsage,

		ClarificationConfidenceThreshold: defaultClarificationConfidenceThreshold,

		StreamIdleTimeoutSeconds: defaultStreamIdleTimeoutSeconds,

		MemoryMessageThreshold: defaultMemoryMessageThreshold,
		MemoryCharThreshold:    defaultMemoryCharThreshold,

		MCPServers: map[string]MCPServerSetting{},
	}
}
