package config_test

import (
	"os"
	"path/filepath"
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/papercompute/loom/pkg/config"
)

func TestConfig(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Config Suite")
}

var _ = Describe("Configer config", func() {
	var tmpDir string

	BeforeEach(func() {
		var err error
		tmpDir, err = os.MkdirTemp("", "config-test-*")
		Expect(err).NotTo(HaveOccurred())
	})

	AfterEach(func() {
		os.RemoveAll(tmpDir)
	})

	Describe("LoadConfig", func() {
		It("returns default config when no config file exists", func() {
			c, err := config.NewConfiger(tmpDir)
			Expect(err).NotTo(HaveOccurred())

			cfg, err := c.LoadConfig()
			Expect(err).NotTo(HaveOccurred())
			Expect(cfg).NotTo(BeNil())

			defaults := config.NewDefaultConfig()
			Expect(cfg.Version).To(Equal(defaults.Version))
			Expect(cfg.Protocol).To(Equal(defaults.Protocol))
			Expect(cfg.LLMHost).To(Equal(defaults.LLMHost))
			Expect(cfg.LLMPort).To(Equal(defaults.LLMPort))
			Expect(cfg.ModelContextWindow).To(Equal(defaults.ModelContextWindow))
			Expect(cfg.ClarificationConfidenceThreshold).To(Equal(defaults.ClarificationConfidenceThreshold))
		})

		It("loads a valid config file", func() {
			data := `version = 0
protocol = "vllm"
llm_host = "192.168.1.10"
llm_port = 8000
`
			err := os.WriteFile(filepath.Join(tmpDir, "config.toml"), []byte(data), 0o600)
			Expect(err).NotTo(HaveOccurred())

			c, err := config.NewConfiger(tmpDir)
			Expect(err).NotTo(HaveOccurred())

			cfg, err := c.LoadConfig()
			Expect(err).NotTo(HaveOccurred())
			Expect(cfg.Version).To(Equal(0))
			Expect(cfg.Protocol).To(Equal("vllm"))
			Expect(cfg.LLMHost).To(Equal("192.168.1.10"))
			Expect(cfg.LLMPort).To(Equal(8000))
		})

		It("returns error for malformed TOML", func() {
			err := os.WriteFile(filepath.Join(tmpDir, "config.toml"), []byte("not valid toml [[["), 0o600)
			Expect(err).NotTo(HaveOccurred())

			c, err := config.NewConfiger(tmpDir)
			Expect(err).NotTo(HaveOccurred())

			cfg, err := c.LoadConfig()
			Expect(err).To(HaveOccurred())
			Expect(cfg).To(BeNil())
		})

		It("returns error for unsupported config version", func() {
			data := `version = 99
`
			err := os.WriteFile(filepath.Join(tmpDir, "config.toml"), []byte(data), 0o600)
			Expect(err).NotTo(HaveOccurred())

			c, err := config.NewConfiger(tmpDir)
			Expect(err).NotTo(HaveOccurred())

			cfg, err := c.LoadConfig()
			Expect(err).To(HaveOccurred())
			Expect(err.Error()).To(ContainSubstring("unsupported config version"))
			Expect(cfg).To(BeNil())
		})

		It("fills in defaults for unset fields in a partial config", func() {
			data := `version = 0
protocol = "lmstudio"
`
			err := os.WriteFile(filepath.Join(tmpDir, "config.toml"), []byte(data), 0o600)
			Expect(err).NotTo(HaveOccurred())

			c, err := config.NewConfiger(tmpDir)
			Expect(err).NotTo(HaveOccurred())

			cfg, err := c.LoadConfig()
			Expect(err).NotTo(HaveOccurred())

			defaults := config.NewDefaultConfig()
			Expect(cfg.Protocol).To(Equal("lmstudio"))
			Expect(cfg.LLMHost).To(Equal(defaults.LLMHost))
			Expect(cfg.ModelContextWindow).To(Equal(defaults.ModelContextWindow))
		})
	})

	Describe("SaveConfig", func() {
		It("persists config to disk", func() {
			cfg := config.NewDefaultConfig()
			cfg.Protocol = "vllm"
			cfg.CurrentModel = "Qwen2.5-14B"

			c, err := config.NewConfiger(tmpDir)
			Expect(err).NotTo(HaveOccurred())

			err = c.SaveConfig(cfg)
			Expect(err).NotTo(HaveOccurred())

			_, err = os.Stat(filepath.Join(tmpDir, "config.toml"))
			Expect(err).NotTo(HaveOccurred())

			loaded, err := c.LoadConfig()
			Expect(err).NotTo(HaveOccurred())
			Expect(loaded.Protocol).To(Equal("vllm"))
			Expect(loaded.CurrentModel).To(Equal("Qwen2.5-14B"))
		})

		It("returns error for nil config", func() {
			c, err := config.NewConfiger(tmpDir)
			Expect(err).NotTo(HaveOccurred())

			err = c.SaveConfig(nil)
			Expect(err).To(HaveOccurred())
		})

		It("round-trips MCP server table", func() {
			cfg := config.NewDefaultConfig()
			cfg.MCPServers["filesystem"] = config.MCPServerSetting{URL: "http://localhost:9000", Status: "connected"}

			c, err := config.NewConfiger(tmpDir)
			Expect(err).NotTo(HaveOccurred())

			Expect(c.SaveConfig(cfg)).To(Succeed())

			loaded, err := c.LoadConfig()
			Expect(err).NotTo(HaveOccurred())
			Expect(loaded.MCPServers["filesystem"].URL).To(Equal("http://localhost:9000"))
		})
	})

	Describe("SetConfigValue / GetConfigValue", func() {
		It("sets and reads back a string key", func() {
			c, err := config.NewConfiger(tmpDir)
			Expect(err).NotTo(HaveOccurred())

			Expect(c.SetConfigValue("current_model", "llama3.1:8b")).To(Succeed())

			cfg, err := c.LoadConfig()
			Expect(err).NotTo(HaveOccurred())
			Expect(cfg.CurrentModel).To(Equal("llama3.1:8b"))

			val, err := c.GetConfigValue("current_model")
			Expect(err).NotTo(HaveOccurred())
			Expect(val).To(Equal("llama3.1:8b"))
		})

		It("sets a float key", func() {
			c, err := config.NewConfiger(tmpDir)
			Expect(err).NotTo(HaveOccurred())

			Expect(c.SetConfigValue("clarification_confidence_threshold", "0.85")).To(Succeed())

			cfg, err := c.LoadConfig()
			Expect(err).NotTo(HaveOccurred())
			Expect(cfg.ClarificationConfidenceThreshold).To(Equal(0.85))
		})

		It("returns error for unknown key", func() {
			c, err := config.NewConfiger(tmpDir)
			Expect(err).NotTo(HaveOccurred())

			err = c.SetConfigValue("nonexistent_key", "value")
			Expect(err).To(HaveOccurred())
			Expect(err.Error()).To(ContainSubstring("unknown config key"))
		})

		It("preserves existing values when setting a new key", func() {
			c, err := config.NewConfiger(tmpDir)
			Expect(err).NotTo(HaveOccurred())

			Expect(c.SetConfigValue("protocol", "vllm")).To(Succeed())
			Expect(c.SetConfigValue("llm_port", "8000")).To(Succeed())

			cfg, err := c.LoadConfig()
			Expect(err).NotTo(HaveOccurred())
			Expect(cfg.Protocol).To(Equal("vllm"))
			Expect(cfg.LLMPort).To(Equal(8000))
		})
	})

	Describe("ValidConfigKeys / IsValidConfigKey", func() {
		It("returns all expected keys", func() {
			keys := config.ValidConfigKeys()
			Expect(keys).To(ContainElements(
				"protocol",
				"llm_host",
				"llm_port",
				"current_model",
				"enable_smart_routing",
				"enable_proactive_context",
				"model_context_window",
				"clarification_confidence_threshold",
			))
		})

		It("returns keys in stable order", func() {
			Expect(config.ValidConfigKeys()).To(Equal(config.ValidConfigKeys()))
		})

		It("rejects unknown keys", func() {
			Expect(config.IsValidConfigKey("nonexistent")).To(BeFalse())
			Expect(config.IsValidConfigKey("")).To(BeFalse())
		})
	})
})

var _ = Describe("PresetConfig", func() {
	It("returns the ollama preset with correct defaults", func() {
		cfg, err := config.PresetConfig("ollama")
		Expect(err).NotTo(HaveOccurred())
		Expect(cfg.Protocol).To(Equal("ollama"))
		Expect(cfg.LLMPort).To(Equal(11434))
	})

	It("returns the vllm preset", func() {
		cfg, err := config.PresetConfig("vllm")
		Expect(err).NotTo(HaveOccurred())
		Expect(cfg.Protocol).To(Equal("vllm"))
		Expect(cfg.LLMPort).To(Equal(8000))
	})

	It("is case-insensitive", func() {
		cfg, err := config.PresetConfig("OLLAMA")
		Expect(err).NotTo(HaveOccurred())
		Expect(cfg.Protocol).To(Equal("ollama"))
	})

	It("returns error for unknown preset", func() {
		cfg, err := config.PresetConfig("nonexistent")
		Expect(err).To(HaveOccurred())
		Expect(cfg).To(BeNil())
	})
})

var _ = Describe("ValidPresetNames", func() {
	It("returns the expected preset names", func() {
		Expect(config.ValidPresetNames()).To(ConsistOf("ollama", "vllm", "lmstudio", "hftgi"))
	})
})

var _ = Describe("ParseConfigTOML", func() {
	It("parses valid TOML into Settings", func() {
		data := []byte(`version = 0
protocol = "vllm"
llm_port = 8000
`)
		cfg, err := config.ParseConfigTOML(data)
		Expect(err).NotTo(HaveOccurred())
		Expect(cfg.Protocol).To(Equal("vllm"))
		Expect(cfg.LLMPort).To(Equal(8000))
	})

	It("returns error for invalid TOML", func() {
		cfg, err := config.ParseConfigTOML([]byte("not valid [[["))
		Expect(err).To(HaveOccurred())
		Expect(cfg).To(BeNil())
	})

	It("rejects unsupported config version", func() {
		data := []byte(`version = 2
`)
		cfg, err := config.ParseConfigTOML(data)
		Expect(err).To(HaveOccurred())
		Expect(err.Error()).To(ContainSubstring("unsupported config version"))
		Expect(cfg).To(BeNil())
	})
})

var _ = Describe("NewDefaultConfig", func() {
	It("returns fully-populated defaults", func() {
		cfg := config.NewDefaultConfig()
		Expect(cfg.Version).To(Equal(config.CurrentV))
		Expect(cfg.Protocol).To(Equal("ollama"))
		Expect(cfg.LLMHost).To(Equal("localhost"))
		Expect(cfg.LLMPort).To(Equal(11434))
		Expect(cfg.EnableSmartRouting).To(BeTrue())
		Expect(cfg.EnableProactiveContext).To(BeTrue())
		Expect(cfg.ContextWindowUsage).To(Equal(0.7))
	})
})

var _ = Describe("InitViper", func() {
	var tmpDir string

	BeforeEach(func() {
		var err error
		tmpDir, err = os.MkdirTemp("", "viper-test-*")
		Expect(err).NotTo(HaveOccurred())
	})

	AfterEach(func() {
		os.RemoveAll(tmpDir)
	})

	It("returns viper with defaults when no config file exists", func() {
		v, err := config.InitViper(tmpDir)
		Expect(err).NotTo(HaveOccurred())
		Expect(v).NotTo(BeNil())

		defaults := config.NewDefaultConfig()
		Expect(v.GetString("protocol")).To(Equal(defaults.Protocol))
		Expect(v.GetInt("llm_port")).To(Equal(defaults.LLMPort))
	})

	It("reads config file values over defaults", func() {
		data := `protocol = "vllm"
llm_port = 8000
`
		err := os.WriteFile(filepath.Join(tmpDir, "config.toml"), []byte(data), 0o600)
		Expect(err).NotTo(HaveOccurred())

		v, err := config.InitViper(tmpDir)
		Expect(err).NotTo(HaveOccurred())

		Expect(v.GetString("protocol")).To(Equal("vllm"))
		Expect(v.GetInt("llm_port")).To(Equal(8000))
	})

	It("respects environment variables with LOOM_ prefix", func() {
		os.Setenv("LOOM_PROTOCOL", "lmstudio")
		defer os.Unsetenv("LOOM_PROTOCOL")

		v, err := config.InitViper(tmpDir)
		Expect(err).NotTo(HaveOccurred())

		Expect(v.GetString("protocol")).To(Equal("lmstudio"))
	})

	It("env vars take precedence over config file values", func() {
		data := `protocol = "vllm"
`
		err := os.WriteFile(filepath.Join(tmpDir, "config.toml"), []byte(data), 0o600)
		Expect(err).NotTo(HaveOccurred())

		os.Setenv("LOOM_PROTOCOL", "hftgi")
		defer os.Unsetenv("LOOM_PROTOCOL")

		v, err := config.InitViper(tmpDir)
		Expect(err).NotTo(HaveOccurred())

		Expect(v.GetString("protocol")).To(Equal("hftgi"))
	})
})
