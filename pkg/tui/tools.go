package tui

import (
	"context"
	"fmt"
	"strings"
)

// ListTools implements the builtin command package's toolLister interface
// by aggregating tools across every connected MCP server. category is
// matched against the server name; search is matched against the tool
// name or description, both case-insensitively.
func (m *Model) ListTools(category, search string, detailed bool) []string {
	if m.agent == nil || m.agent.MCP == nil {
		return nil
	}

	var out []string
	for _, server := range m.agent.MCP.List() {
		if category != "" && !strings.EqualFold(server.Name, category) {
			continue
		}

		tools, err := m.agent.MCP.ListTools(context.Background(), server.Name)
		if err != nil {
			continue
		}

		for _, tool := range tools {
			if search != "" &&
				!strings.Contains(strings.ToLower(tool.Name), strings.ToLower(search)) &&
				!strings.Contains(strings.ToLower(tool.Description), strings.ToLower(search)) {
				continue
			}

			if detailed {
				out = append(out, fmt.Sprintf("%s/%s: %s", server.Name, tool.Name, tool.Description))
			} else {
				out = append(out, fmt.Sprintf("%s/%s", server.Name, tool.Name))
			}
		}
	}

	return out
}
