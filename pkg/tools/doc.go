// Package tools provides tool registration and MCP (Model Context Protocol)
// integration.
//
// It is organized into sub-packages:
//   - [github.com/germanamz/ioskit/pkg/tools/toolbox] — Tool type and ToolBox registry for registering, listing, and calling tools
//   - [github.com/germanamz/ioskit/pkg/tools/mcpserver] — MCP server using the official MCP Go SDK for exposing tools over the MCP protocol
//
// The toolbox sub-package is the foundation layer; mcpserver is a thin wrapper
// around the official MCP Go SDK (github.com/modelcontextprotocol/go-sdk) that
// serves a ToolBox's tools to MCP clients over stdio.
package tools
