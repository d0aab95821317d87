// Package builtin registers loom's minimum command set into a
// command.Registry. Every Execute func type-asserts the collaborator it
// needs out of the ExecutionContext's any-typed fields, keeping
// pkg/command itself free of a dependency on pkg/agent, pkg/router,
// pkg/provider, pkg/config, or pkg/mcpclient.
package builtin

import (
	"github.com/papercompute/loom/pkg/command"
)

// Register wires the full minimum command set from spec.md §6 into reg.
// Call once, at startup, before the TUI's event loop begins dispatching.
func Register(reg *command.Registry) {
	registerInfo(reg)
	registerConfig(reg)
	registerModels(reg)
	registerMode(reg)
	registerSession(reg)
	registerMCP(reg)
	registerDisplay(reg)
	registerTools(reg)
}
