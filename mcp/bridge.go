package mcp

import (
	"context"
	"fmt"
	"sync"

	"github.com/mark3labs/mcp-go/client"
	"github.com/mark3labs/mcp-go/mcp"

	"github.com/agwire/agwire"
)

// Bridge executes frontend-owned tool calls against one MCP server.
//
// Bridge is safe for concurrent use. The tool list is cached locally and can
// be refreshed with [Bridge.Refresh] if the server's tools change.
type Bridge struct {
	client *client.Client
	mu     sync.RWMutex
	tools  map[string]Tool
}

// NewStdioBridge connects to an MCP server launched as a subprocess over
// stdio. The command is the server executable path; args are passed to it.
func NewStdioBridge(ctx context.Context, command string, env []string, args ...string) (*Bridge, error) {
	c, err := client.NewStdioMCPClient(command, env, args...)
	if err != nil {
		return nil, fmt.Errorf("create stdio mcp client: %w", err)
	}
	return newBridge(ctx, c)
}

// NewSSEBridge connects to an MCP server over SSE.
func NewSSEBridge(ctx context.Context, baseURL string) (*Bridge, error) {
	c, err := client.NewSSEMCPClient(baseURL)
	if err != nil {
		return nil, fmt.Errorf("create sse mcp client: %w", err)
	}
	return newBridge(ctx, c)
}

// NewBridgeFromClient wraps an existing MCP client. The bridge starts and
// initializes it and fetches the tool list.
func NewBridgeFromClient(ctx context.Context, c *client.Client) (*Bridge, error) {
	return newBridge(ctx, c)
}

func newBridge(ctx context.Context, c *client.Client) (*Bridge, error) {
	if err := c.Start(ctx); err != nil {
		return nil, fmt.Errorf("start mcp client: %w", err)
	}

	_, err := c.Initialize(ctx, mcp.InitializeRequest{
		Params: mcp.InitializeParams{
			ProtocolVersion: mcp.LATEST_PROTOCOL_VERSION,
			Capabilities:    mcp.ClientCapabilities{},
			ClientInfo: mcp.Implementation{
				Name:    "agwire",
				Version: "1.0.0",
			},
		},
	})
	if err != nil {
		c.Close()
		return nil, fmt.Errorf("initialize mcp session: %w", err)
	}

	b := &Bridge{
		client: c,
		tools:  make(map[string]Tool),
	}
	if err := b.Refresh(ctx); err != nil {
		c.Close()
		return nil, fmt.Errorf("list tools: %w", err)
	}
	return b, nil
}

// Close closes the connection to the MCP server.
func (b *Bridge) Close() error {
	return b.client.Close()
}

// Refresh re-fetches the server's tool list.
func (b *Bridge) Refresh(ctx context.Context) error {
	result, err := b.client.ListTools(ctx, mcp.ListToolsRequest{})
	if err != nil {
		return err
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	b.tools = make(map[string]Tool, len(result.Tools))
	for _, t := range result.Tools {
		b.tools[t.Name] = FromMCPTool(t)
	}
	return nil
}

// Tools returns the cached tool definitions.
func (b *Bridge) Tools() []Tool {
	b.mu.RLock()
	defer b.mu.RUnlock()
	tools := make([]Tool, 0, len(b.tools))
	for _, t := range b.tools {
		tools = append(tools, t)
	}
	return tools
}

// Has reports whether the server exposes a tool with the given name.
func (b *Bridge) Has(name string) bool {
	b.mu.RLock()
	defer b.mu.RUnlock()
	_, ok := b.tools[name]
	return ok
}

// Execute runs one accumulated tool call on the server. Transport failures
// come back as the error; tool-level failures come back as a result with
// Error set, so they can flow to the agent as a failed tool message.
func (b *Bridge) Execute(ctx context.Context, call agwire.ToolCall) (agwire.ToolResult, error) {
	if !b.Has(call.Name) {
		return agwire.ToolResult{
			ToolCallID: call.ID,
			Error:      fmt.Sprintf("unknown tool %q", call.Name),
		}, nil
	}

	result, err := b.client.CallTool(ctx, ToCallToolRequest(call))
	if err != nil {
		return agwire.ToolResult{}, fmt.Errorf("call tool %s: %w", call.Name, err)
	}
	return FromCallToolResult(call.ID, result), nil
}

// ExecuteCompleted runs every completed, result-less tool call in the list
// that this server exposes and returns the tool messages answering them.
// Calls for other servers' tools are skipped.
func (b *Bridge) ExecuteCompleted(ctx context.Context, calls []agwire.ToolCall) ([]agwire.Message, error) {
	var replies []agwire.Message
	for _, call := range calls {
		if call.Status != agwire.ToolCallCompleted || call.Result != "" || !b.Has(call.Name) {
			continue
		}
		result, err := b.Execute(ctx, call)
		if err != nil {
			return replies, err
		}
		replies = append(replies, result.ToolMessage())
	}
	return replies, nil
}
