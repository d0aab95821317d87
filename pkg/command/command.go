// Package command implements the slash-command registry: structured
// dispatch with aliases, argument validation, and execution context.
package command

import "context"

// ArgType enumerates the supported argument value types.
type ArgType string

const (
	ArgString ArgType = "string"
	ArgInt    ArgType = "int"
	ArgFloat  ArgType = "float"
	ArgBool   ArgType = "bool"
)

// ArgumentDef declares one positional-or-named argument a command accepts.
type ArgumentDef struct {
	Name     string
	Required bool
	Type     ArgType
	Choices  []string
	Default  any
}

// Result is returned from every command invocation; errors from a
// command's Execute are converted into Result{Success: false} rather than
// propagated.
type Result struct {
	Success    bool
	Message    string
	Data       any
	ShouldExit bool
}

// Ok builds a successful Result with an optional message.
func Ok(message string) Result { return Result{Success: true, Message: message} }

// Fail builds a failed Result with a message, typically derived from an
// error.
func Fail(message string) Result { return Result{Success: false, Message: message} }

// ExecutionContext is the opaque bundle of collaborator references passed
// to every command's Execute. loom wires a concrete *agent.Agent into this
// via pkg/agent; pkg/command itself stays collaborator-agnostic so it has
// no import-cycle back to pkg/agent or pkg/tui.
type ExecutionContext struct {
	Provider       any // pkg/provider.Provider
	Router         any // *pkg/router.Router
	ContextBuilder any // *pkg/ctxbuilder.Builder
	TUI            any // the running TUI, for commands that need to mutate display state
	Settings       any // *pkg/config.Settings
	Configer       any // *pkg/config.Configer, for commands that persist Settings
	MCP            any // *pkg/mcpclient.Manager
}

// Command is one registered slash command.
type Command struct {
	Name      string
	Aliases   []string
	Category  string
	Arguments []ArgumentDef
	Execute   func(ctx context.Context, args map[string]any, ec *ExecutionContext) Result
}
