// Package mcp bridges agent-announced tool calls to MCP servers.
//
// AG-UI producers can announce tool calls that the frontend owns: the agent
// streams TOOL_CALL_START/ARGS/END and waits for the client to execute the
// tool and report back. This package executes such calls against an MCP
// (Model Context Protocol) server and converts the results into tool
// messages ready to send back to the agent.
//
//	bridge, err := mcp.NewStdioBridge(ctx, "./tools-server", nil)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer bridge.Close()
//
//	result, err := bridge.Execute(ctx, toolCall)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	reply := result.ToolMessage()
package mcp

import (
	"encoding/json"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/agwire/agwire"
)

// Tool describes a tool exposed by an MCP server.
type Tool struct {
	Name        string
	Description string
	// InputSchema is the JSON Schema for the tool's arguments.
	InputSchema json.RawMessage
}

// FromMCPTool converts an MCP tool definition, preferring the raw schema
// when the server provides one.
func FromMCPTool(t mcp.Tool) Tool {
	var schema json.RawMessage
	if len(t.RawInputSchema) > 0 {
		schema = t.RawInputSchema
	} else if data, err := json.Marshal(t.InputSchema); err == nil {
		schema = data
	}
	return Tool{
		Name:        t.Name,
		Description: t.Description,
		InputSchema: schema,
	}
}

// ToCallToolRequest converts an accumulated tool call into an MCP call
// request. The accumulated argument string is parsed as JSON when possible
// and passed through verbatim otherwise.
func ToCallToolRequest(call agwire.ToolCall) mcp.CallToolRequest {
	var args any
	if call.Arguments != "" {
		if err := json.Unmarshal([]byte(call.Arguments), &args); err != nil {
			args = call.Arguments
		}
	}
	return mcp.CallToolRequest{
		Params: mcp.CallToolParams{
			Name:      call.Name,
			Arguments: args,
		},
	}
}

// FromCallToolResult converts an MCP call result into a tool result for the
// given call. Text content blocks are concatenated with newlines; structured
// content is appended as JSON. A server-reported error sets the result's
// Error field alongside the content.
func FromCallToolResult(toolCallID string, result *mcp.CallToolResult) agwire.ToolResult {
	if result == nil {
		return agwire.ToolResult{
			ToolCallID: toolCallID,
			Error:      "tool returned no result",
		}
	}

	var parts []string
	for _, c := range result.Content {
		switch content := c.(type) {
		case mcp.TextContent:
			parts = append(parts, content.Text)
		case *mcp.TextContent:
			parts = append(parts, content.Text)
		default:
			if data, err := json.Marshal(content); err == nil {
				parts = append(parts, string(data))
			}
		}
	}
	if result.StructuredContent != nil {
		if data, err := json.Marshal(result.StructuredContent); err == nil {
			parts = append(parts, string(data))
		}
	}

	out := agwire.ToolResult{
		ToolCallID: toolCallID,
		Content:    strings.Join(parts, "\n"),
	}
	if result.IsError {
		out.Error = out.Content
		if out.Error == "" {
			out.Error = "tool execution failed"
		}
	}
	return out
}
