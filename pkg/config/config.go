package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/spf13/viper"

	"github.com/papercompute/loom/pkg/dotdir"
)

const (
	configFile = "config.toml"

	// v0 is the alpha version of the config.
	v0 = 0

	// CurrentV is the currently supported version, points to v0.
	CurrentV = v0
)

type Configer struct {
	ddm        *dotdir.Manager
	targetPath string
}

func NewConfiger(override string) (*Configer, error) {
	cfger := &Configer{}

	cfger.ddm = dotdir.NewManager()
	target, err := cfger.ddm.Target(override)
	if err != nil {
		return nil, err
	}

	if target == "" {
		return cfger, nil
	}

	path := filepath.Join(target, configFile)
	_, err = os.Stat(path)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("reading config: %w", err)
	}

	cfger.targetPath = path

	return cfger, nil
}

// ValidConfigKeys returns all supported configuration key names, in a
// fixed (unsorted) order.
func ValidConfigKeys() []string {
	ordered := []string{
		"protocol",
		"llm_host",
		"llm_port",
		"current_model",
		"api_timeout_seconds",
		"request_timeout_seconds",
		"user_preferences.tui_mode",
		"user_preferences.streaming",
		"user_preferences.persistent_tui",
		"user_preferences.debug_pane",
		"enable_smart_routing",
		"enable_proactive_context",
		"model_context_window",
		"context_window_usage",
		"clarification_confidence_threshold",
		"stream_idle_timeout_seconds",
		"memory_message_threshold",
		"memory_char_threshold",
	}

	result := make([]string, 0, len(ordered))
	for _, k := range ordered {
		if validConfigKeys[k] {
			result = append(result, k)
		}
	}

	seen := make(map[string]bool, len(result))
	for _, k := range result {
		seen[k] = true
	}
	for k := range validConfigKeys {
		if !seen[k] {
			result = append(result, k)
		}
	}

	return result
}

// IsValidConfigKey returns true if the given key is a supported
// configuration key.
func IsValidConfigKey(key string) bool {
	return validConfigKeys[key]
}

func (c *Configer) GetTarget() string {
	return c.targetPath
}

// LoadConfig loads Settings from config.toml in the target .loom/
// directory. If the file does not exist, returns NewDefaultConfig() so
// callers always receive a fully-populated Settings with sane defaults.
func (c *Configer) LoadConfig() (*Settings, error) {
	if c.targetPath == "" {
		return NewDefaultConfig(), nil
	}

	data, err := os.ReadFile(c.targetPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return NewDefaultConfig(), nil
		}
		return nil, fmt.Errorf("reading config: %w", err)
	}

	cfg, err := ParseConfigTOML(data)
	if err != nil {
		return nil, err
	}

	v := viper.New()
	setViperDefaults(v)
	v.SetConfigType("toml")

	if err := v.ReadConfig(bytes.NewReader(data)); err != nil {
		return nil, fmt.Errorf("reading config into viper: %w", err)
	}

	merged := &Settings{}
	if err := v.Unmarshal(merged); err != nil {
		return nil, fmt.Errorf("unmarshalling config: %w", err)
	}
	merged.Version = cfg.Version
	if merged.MCPServers == nil {
		merged.MCPServers = map[string]MCPServerSetting{}
	}

	return merged, nil
}

// SaveConfig persists Settings to config.toml in the target .loom/
// directory.
func (c *Configer) SaveConfig(cfg *Settings) error {
	if cfg == nil {
		return errors.New("cannot save nil config")
	}

	if c.targetPath == "" {
		return errors.New("cannot save empty target path")
	}

	var buf bytes.Buffer
	encoder := toml.NewEncoder(&buf)
	if err := encoder.Encode(cfg); err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}

	if err := os.WriteFile(c.targetPath, buf.Bytes(), 0o600); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}

	return nil
}

// SetConfigValue loads the config, sets the given key to the given
// value, and saves it. Returns an error if the key is not a valid
// config key.
func (c *Configer) SetConfigValue(key string, value string) error {
	if !validConfigKeys[key] {
		return fmt.Errorf("unknown config key: %q", key)
	}

	cfg, err := c.LoadConfig()
	if err != nil {
		return err
	}

	v := viper.New()
	setViperDefaults(v)
	v.SetConfigType("toml")

	if c.targetPath != "" {
		data, err := os.ReadFile(c.targetPath)
		if err == nil {
			_ = v.ReadConfig(bytes.NewReader(data))
		}
	}

	v.Set(key, value)

	updated := &Settings{}
	if err := v.Unmarshal(updated); err != nil {
		return fmt.Errorf("invalid value for %s: %w", key, err)
	}
	updated.Version = cfg.Version
	if updated.MCPServers == nil {
		updated.MCPServers = map[string]MCPServerSetting{}
	}

	return c.SaveConfig(updated)
}

// GetConfigValue loads the config and returns the string representation
// of the given key. Returns an error if the key is not a valid config
// key.
func (c *Configer) GetConfigValue(key string) (string, error) {
	if !validConfigKeys[key] {
		return "", fmt.Errorf("unknown config key: %q", key)
	}

	v := viper.New()
	setViperDefaults(v)
	v.SetConfigType("toml")

	if c.targetPath != "" {
		data, err := os.ReadFile(c.targetPath)
		if err == nil {
			_ = v.ReadConfig(bytes.NewReader(data))
		}
	}

	return v.GetString(key), nil
}

// PresetConfig returns Settings preconfigured for the named provider
// preset. Supported presets: "ollama", "vllm", "lmstudio", "hftgi".
func PresetConfig(name string) (*Settings, error) {
	cfg := NewDefaultConfig()

	switch strings.ToLower(name) {
	case "ollama":
		cfg.Protocol = "ollama"
		cfg.LLMHost = "localhost"
		cfg.LLMPort = 11434
	case "vllm":
		cfg.Protocol = "vllm"
		cfg.LLMHost = "localhost"
		cfg.LLMPort = 8000
	case "lmstudio":
		cfg.Protocol = "lm_studio"
		cfg.LLMHost = "localhost"
		cfg.LLMPort = 1234
	case "hftgi":
		cfg.Protocol = "hf_tgi"
		cfg.LLMHost = "localhost"
		cfg.LLMPort = 8080
	default:
		return nil, fmt.Errorf("unknown preset: %q (available: %s)", name, strings.Join(ValidPresetNames(), ", "))
	}

	return cfg, nil
}

// ValidPresetNames returns the list of recognized preset names.
func ValidPresetNames() []string {
	return []string{"ollama", "vllm", "lmstudio", "hftgi"}
}

// ParseConfigTOML parses raw TOML bytes into Settings.
func ParseConfigTOML(data []byte) (*Settings, error) {
	cfg := &Settings{}
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config TOML: %w", err)
	}

	if cfg.Version != 0 && cfg.Version != CurrentV {
		return nil, fmt.Errorf("unsupported config version %d (expected %d)", cfg.Version, CurrentV)
	}

	return cfg, nil
}
