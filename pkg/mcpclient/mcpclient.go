// Package mcpclient wraps github.com/modelcontextprotocol/go-sdk's client
// side the way the teacher's api/mcp wraps its server side: a thin Manager
// around *mcp.Client/*mcp.ClientSession that owns lifecycle (connect,
// disconnect, status) for however many servers loom's /mcp command has
// registered.
package mcpclient

import (
	"context"
	"fmt"
	"sync"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/papercompute/loom/pkg/apperrors"
	"github.com/papercompute/loom/pkg/config"
	"github.com/papercompute/loom/pkg/utils"
)

// Status is the lifecycle state of one configured MCP server.
type Status string

const (
	StatusDisconnected Status = "disconnected"
	StatusConnected    Status = "connected"
	StatusError        Status = "error"
)

// ServerInfo is a read-only snapshot of one configured server, returned by
// List and used to render /mcp status.
type ServerInfo struct {
	Name   string
	URL    string
	Status Status
	Error  string
}

type connection struct {
	url     string
	status  Status
	lastErr error
	client  *mcp.Client
	session *mcp.ClientSession
}

// Manager owns every configured MCP server connection for the lifetime of
// the TUI process. It is driven only from the TUI's single goroutine, so
// its mutex exists for safety against background stream goroutines
// touching it concurrently, not for genuine multi-writer contention.
type Manager struct {
	mu    sync.Mutex
	conns map[string]*connection
}

// NewManager builds an empty Manager.
func NewManager() *Manager {
	return &Manager{conns: map[string]*connection{}}
}

// LoadFromSettings seeds a Manager's server table from persisted settings
// without connecting to any of them; /mcp connect establishes the session.
func LoadFromSettings(s *config.Settings) *Manager {
	m := NewManager()
	for name, entry := range s.MCPServers {
		m.conns[name] = &connection{url: entry.URL, status: StatusDisconnected}
	}
	return m
}

// SyncToSettings writes the Manager's current server table back into s,
// for the caller to persist via config.Configer.SaveConfig.
func (m *Manager) SyncToSettings(s *config.Settings) {
	m.mu.Lock()
	defer m.mu.Unlock()

	s.MCPServers = map[string]config.MCPServerSetting{}
	for name, c := range m.conns {
		s.MCPServers[name] = config.MCPServerSetting{URL: c.url, Status: string(c.status)}
	}
}

// Add registers a server by name and URL without connecting.
func (m *Manager) Add(name, url string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.conns[name] = &connection{url: url, status: StatusDisconnected}
}

// Remove disconnects (if connected) and forgets a server.
func (m *Manager) Remove(name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	c, ok := m.conns[name]
	if !ok {
		return fmt.Errorf("mcp server %q not configured", name)
	}
	if c.session != nil {
		_ = c.session.Close()
	}
	delete(m.conns, name)
	return nil
}

// Connect dials the named server and opens an MCP session over streamable
// HTTP.
func (m *Manager) Connect(ctx context.Context, name string) error {
	m.mu.Lock()
	c, ok := m.conns[name]
	m.mu.Unlock()
	if !ok {
		return fmt.Errorf("mcp server %q not configured", name)
	}

	client := mcp.NewClient(&mcp.Implementation{Name: "loom", Version: utils.Version}, nil)
	transport := &mcp.StreamableClientTransport{Endpoint: c.url}

	session, err := client.Connect(ctx, transport, nil)
	if err != nil {
		m.mu.Lock()
		c.status = StatusError
		c.lastErr = err
		m.mu.Unlock()
		return apperrors.NewProviderError(apperrors.ProviderUnreachable, err)
	}

	m.mu.Lock()
	c.client = client
	c.session = session
	c.status = StatusConnected
	c.lastErr = nil
	m.mu.Unlock()
	return nil
}

// Disconnect closes a server's session without forgetting its
// configuration.
func (m *Manager) Disconnect(name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	c, ok := m.conns[name]
	if !ok {
		return fmt.Errorf("mcp server %q not configured", name)
	}
	if c.session != nil {
		_ = c.session.Close()
		c.session = nil
	}
	c.status = StatusDisconnected
	return nil
}

// List returns every configured server's current status, sorted by name
// at the call site if the caller cares about order.
func (m *Manager) List() []ServerInfo {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]ServerInfo, 0, len(m.conns))
	for name, c := range m.conns {
		info := ServerInfo{Name: name, URL: c.url, Status: c.status}
		if c.lastErr != nil {
			info.Error = c.lastErr.Error()
		}
		out = append(out, info)
	}
	return out
}

// Status reports one server's current status.
func (m *Manager) Status(name string) (ServerInfo, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	c, ok := m.conns[name]
	if !ok {
		return ServerInfo{}, fmt.Errorf("mcp server %q not configured", name)
	}
	info := ServerInfo{Name: name, URL: c.url, Status: c.status}
	if c.lastErr != nil {
		info.Error = c.lastErr.Error()
	}
	return info, nil
}

// ListTools lists the tools the named server exposes. The server must
// already be connected.
func (m *Manager) ListTools(ctx context.Context, name string) ([]*mcp.Tool, error) {
	m.mu.Lock()
	c, ok := m.conns[name]
	m.mu.Unlock()
	if !ok {
		return nil, fmt.Errorf("mcp server %q not configured", name)
	}
	if c.session == nil {
		return nil, fmt.Errorf("mcp server %q is not connected", name)
	}

	res, err := c.session.ListTools(ctx, nil)
	if err != nil {
		return nil, apperrors.NewProviderError(apperrors.ProviderUnreachable, err)
	}
	return res.Tools, nil
}

// CallTool invokes a tool on the named server.
func (m *Manager) CallTool(ctx context.Context, name, toolName string, args map[string]any) (*mcp.CallToolResult, error) {
	m.mu.Lock()
	c, ok := m.conns[name]
	m.mu.Unlock()
	if !ok {
		return nil, fmt.Errorf("mcp server %q not configured", name)
	}
	if c.session == nil {
		return nil, fmt.Errorf("mcp server %q is not connected", name)
	}

	res, err := c.session.CallTool(ctx, &mcp.CallToolParams{Name: toolName, Arguments: args})
	if err != nil {
		return nil, apperrors.NewProviderError(apperrors.ProviderUnreachable, err)
	}
	return res, nil
}
