package command

import (
	"context"
	"strings"
	"testing"
)

func echoCmd() Command {
	return Command{
		Name:    "echo",
		Aliases: []string{"say"},
		Arguments: []ArgumentDef{
			{Name: "text", Required: true, Type: ArgString},
			{Name: "loud", Required: false, Type: ArgBool, Default: false},
		},
		Execute: func(_ context.Context, args map[string]any, _ *ExecutionContext) Result {
			return Ok(args["text"].(string))
		},
	}
}

func TestParseSplitsQuotedArguments(t *testing.T) {
	name, tokens, ok := Parse(`/model "llama 3" temperature=0.2`)
	if !ok {
		t.Fatal("expected ok")
	}
	if name != "model" {
		t.Fatalf("name = %q", name)
	}
	if len(tokens) != 2 || tokens[0] != "llama 3" || tokens[1] != "temperature=0.2" {
		t.Fatalf("tokens = %#v", tokens)
	}
}

func TestParseRejectsEscapeSequences(t *testing.T) {
	// A literal backslash must not be interpreted as an escape; it is
	// treated as a plain character instead of erroring.
	name, tokens, ok := Parse(`/copy C:\Users\me`)
	if !ok || name != "copy" {
		t.Fatalf("name=%q ok=%v", name, ok)
	}
	if len(tokens) != 1 || tokens[0] != `C:\Users\me` {
		t.Fatalf("tokens = %#v", tokens)
	}
}

func TestRegisterPanicsOnDuplicateName(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic on duplicate registration")
		}
	}()
	r := NewRegistry()
	r.Register(echoCmd())
	r.Register(echoCmd())
}

func TestDispatchUnknownCommandSuggestsSimilar(t *testing.T) {
	r := NewRegistry()
	r.Register(Command{Name: "help", Execute: func(context.Context, map[string]any, *ExecutionContext) Result { return Ok("") }})

	res := r.Dispatch(context.Background(), "/helo", nil)
	if res.Success {
		t.Fatal("expected failure for unknown command")
	}
	if !strings.Contains(res.Message, "did you mean: help") {
		t.Fatalf("expected a suggestion for help, got %q", res.Message)
	}
}

func TestDispatchMissingRequiredArgument(t *testing.T) {
	r := NewRegistry()
	r.Register(echoCmd())

	res := r.Dispatch(context.Background(), "/echo", nil)
	if res.Success {
		t.Fatal("expected failure for missing argument")
	}
}

func TestDispatchBindsAliasAndBoolFlag(t *testing.T) {
	r := NewRegistry()
	r.Register(echoCmd())

	res := r.Dispatch(context.Background(), `/say "hi there" loud`, nil)
	if !res.Success || res.Message != "hi there" {
		t.Fatalf("res = %#v", res)
	}
}

func TestSuggestCapsAtThreeAndThreshold(t *testing.T) {
	r := NewRegistry()
	for _, n := range []string{"status", "stats", "state", "setup", "zzz"} {
		n := n
		r.Register(Command{Name: n, Execute: func(context.Context, map[string]any, *ExecutionContext) Result { return Ok("") }})
	}

	suggestions := r.Suggest("statu")
	if len(suggestions) == 0 {
		t.Fatal("expected at least one suggestion")
	}
	if len(suggestions) > 3 {
		t.Fatalf("expected at most 3 suggestions, got %d", len(suggestions))
	}
	for _, s := range suggestions {
		if s == "zzz" {
			t.Fatal("zzz should not be similar enough to suggest")
		}
	}
}
