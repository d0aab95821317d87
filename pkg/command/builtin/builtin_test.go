package builtin_test

import (
	"context"
	"testing"

	"github.com/papercompute/loom/pkg/command"
	"github.com/papercompute/loom/pkg/command/builtin"
	"github.com/papercompute/loom/pkg/config"
	"github.com/papercompute/loom/pkg/mcpclient"
)

func newConfiger(t *testing.T) *config.Configer {
	t.Helper()
	dir := t.TempDir()
	cfger, err := config.NewConfiger(dir)
	if err != nil {
		t.Fatalf("NewConfiger: %v", err)
	}
	return cfger
}

func newRegistry() *command.Registry {
	reg := command.NewRegistry()
	builtin.Register(reg)
	return reg
}

func TestHelpListsRegisteredCommands(t *testing.T) {
	reg := newRegistry()
	ec := &command.ExecutionContext{}

	res := reg.Dispatch(context.Background(), "/help", ec)
	if !res.Success {
		t.Fatalf("expected success, got failure: %s", res.Message)
	}
	if !contains(res.Message, "/status") {
		t.Errorf("expected help output to mention /status, got: %s", res.Message)
	}
}

func TestExitSetsShouldExit(t *testing.T) {
	reg := newRegistry()
	res := reg.Dispatch(context.Background(), "/quit", &command.ExecutionContext{})
	if !res.ShouldExit {
		t.Error("expected /quit to set ShouldExit")
	}
}

func TestConfigSetAndGetRoundTrip(t *testing.T) {
	reg := newRegistry()
	cfger := newConfiger(t)
	ec := &command.ExecutionContext{Configer: cfger}

	res := reg.Dispatch(context.Background(), "/config set key=llm_host value=example.local", ec)
	if !res.Success {
		t.Fatalf("set failed: %s", res.Message)
	}

	res = reg.Dispatch(context.Background(), "/config get key=llm_host", ec)
	if !res.Success {
		t.Fatalf("get failed: %s", res.Message)
	}
	if !contains(res.Message, "example.local") {
		t.Errorf("expected get to reflect set value, got: %s", res.Message)
	}
}

func TestConfigSetUnknownKeyFails(t *testing.T) {
	reg := newRegistry()
	cfger := newConfiger(t)
	ec := &command.ExecutionContext{Configer: cfger}

	res := reg.Dispatch(context.Background(), "/config set key=not_a_real_key value=x", ec)
	if res.Success {
		t.Error("expected failure for unknown config key")
	}
}

func TestSetupAppliesPreset(t *testing.T) {
	reg := newRegistry()
	cfger := newConfiger(t)
	ec := &command.ExecutionContext{Configer: cfger}

	res := reg.Dispatch(context.Background(), "/setup preset=vllm", ec)
	if !res.Success {
		t.Fatalf("setup failed: %s", res.Message)
	}

	loaded, err := cfger.LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if loaded.Protocol != "vllm" || loaded.LLMPort != 8000 {
		t.Errorf("expected vllm preset applied, got %+v", loaded)
	}
}

func TestModeSetsPreferenceWithoutPersisting(t *testing.T) {
	reg := newRegistry()
	settings := config.NewDefaultConfig()
	ec := &command.ExecutionContext{Settings: settings}

	res := reg.Dispatch(context.Background(), "/mode mode=architect", ec)
	if !res.Success {
		t.Fatalf("mode failed: %s", res.Message)
	}
	if settings.UserPreferences.TUIMode != "architect" {
		t.Errorf("expected mode=architect, got %q", settings.UserPreferences.TUIMode)
	}
}

func TestModeRejectsUnknownChoice(t *testing.T) {
	reg := newRegistry()
	settings := config.NewDefaultConfig()
	ec := &command.ExecutionContext{Settings: settings}

	res := reg.Dispatch(context.Background(), "/mode mode=sleepwalk", ec)
	if res.Success {
		t.Error("expected failure for unknown mode")
	}
}

func TestMCPAddListAndRemove(t *testing.T) {
	reg := newRegistry()
	settings := config.NewDefaultConfig()
	cfger := newConfiger(t)
	ec := &command.ExecutionContext{
		MCP:      mcpclient.NewManager(),
		Settings: settings,
		Configer: cfger,
	}

	res := reg.Dispatch(context.Background(), "/mcp add name=filesystem url=http://localhost:9000", ec)
	if !res.Success {
		t.Fatalf("add failed: %s", res.Message)
	}
	if settings.MCPServers["filesystem"].URL != "http://localhost:9000" {
		t.Errorf("expected settings synced after add, got %+v", settings.MCPServers)
	}

	res = reg.Dispatch(context.Background(), "/mcp list", ec)
	if !res.Success || !contains(res.Message, "filesystem") {
		t.Errorf("expected list to include filesystem, got: %s", res.Message)
	}

	res = reg.Dispatch(context.Background(), "/mcp remove name=filesystem", ec)
	if !res.Success {
		t.Fatalf("remove failed: %s", res.Message)
	}
	if _, ok := settings.MCPServers["filesystem"]; ok {
		t.Error("expected filesystem removed from settings after sync")
	}
}

func TestDebugTogglesSettingAndPane(t *testing.T) {
	reg := newRegistry()
	settings := config.NewDefaultConfig()
	fakeTUI := &fakeTUI{}
	ec := &command.ExecutionContext{Settings: settings, TUI: fakeTUI}

	res := reg.Dispatch(context.Background(), "/debug on", ec)
	if !res.Success {
		t.Fatalf("debug on failed: %s", res.Message)
	}
	if !settings.UserPreferences.DebugPane || !fakeTUI.debugPane {
		t.Error("expected debug pane enabled on both settings and TUI")
	}

	reg.Dispatch(context.Background(), "/debug toggle", ec)
	if settings.UserPreferences.DebugPane || fakeTUI.debugPane {
		t.Error("expected toggle to flip debug pane off")
	}
}

func TestCopyUsesLastAssistantTextWhenNoTextGiven(t *testing.T) {
	reg := newRegistry()
	fakeTUI := &fakeTUI{lastAssistant: "hello from the assistant"}
	ec := &command.ExecutionContext{TUI: fakeTUI}

	res := reg.Dispatch(context.Background(), "/copy", ec)
	if !res.Success {
		t.Fatalf("copy failed: %s", res.Message)
	}
	if fakeTUI.copied != "hello from the assistant" {
		t.Errorf("expected last assistant text copied, got %q", fakeTUI.copied)
	}
}

func TestCopyWithoutTUIFails(t *testing.T) {
	reg := newRegistry()
	res := reg.Dispatch(context.Background(), "/copy", &command.ExecutionContext{})
	if res.Success {
		t.Error("expected copy to fail outside the TUI")
	}
}

func TestClearDelegatesToTUI(t *testing.T) {
	reg := newRegistry()
	fakeTUI := &fakeTUI{}
	ec := &command.ExecutionContext{TUI: fakeTUI}

	res := reg.Dispatch(context.Background(), "/clear", ec)
	if !res.Success || !fakeTUI.cleared {
		t.Errorf("expected clear to delegate to TUI, got success=%t cleared=%t", res.Success, fakeTUI.cleared)
	}
}

func TestSessionListReportsUnimplemented(t *testing.T) {
	reg := newRegistry()
	res := reg.Dispatch(context.Background(), "/session list", &command.ExecutionContext{})
	if !res.Success {
		t.Fatalf("expected /session list to succeed with an empty report, got: %s", res.Message)
	}
}

func TestSessionSaveWithoutNameFails(t *testing.T) {
	reg := newRegistry()
	res := reg.Dispatch(context.Background(), "/session save", &command.ExecutionContext{})
	if res.Success {
		t.Error("expected /session save without a name to fail")
	}
}

type fakeTUI struct {
	cleared       bool
	debugPane     bool
	tuiVisible    bool
	copied        string
	lastAssistant string
}

func (f *fakeTUI) ClearConversation()         { f.cleared = true }
func (f *fakeTUI) SetTUIVisible(v bool)       { f.tuiVisible = v }
func (f *fakeTUI) SetDebugPane(v bool)        { f.debugPane = v }
func (f *fakeTUI) LastAssistantText() string  { return f.lastAssistant }
func (f *fakeTUI) CopyToClipboard(s string) error {
	f.copied = s
	return nil
}

func contains(haystack, needle string) bool {
	return len(needle) == 0 || (len(haystack) >= len(needle) && indexOf(haystack, needle) >= 0)
}

func indexOf(haystack, needle string) int {
	for i := 0; i+len(needle) <= len(haystack); i++ {
		if haystack[i:i+len(needle)] == needle {
			return i
		}
	}
	return -1
}
