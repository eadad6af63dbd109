// Package mcp provides the Model Context Protocol interface for the
// 2019-Worms state inspector.
//
// The mcp package implements:
//   - MCP server for AI agent integration
//   - Tool definitions for snapshot loading and inspection
//   - A thin client proxying tool calls to the REST API
//   - Stdio transport via the mcp-go server package
//
// MCP Tools:
//
// The package exposes the following tools for AI agents:
//   - load_state: Load a snapshot by file path, round number, or latest
//   - game_state: Get the current snapshot with a map rendering
//   - state_summary: Players, terrain histogram, powerups, active worm
//   - active_worm: The worm selected to act in the current round
//   - describe_cell: Detailed information about one map cell
//   - render_map: ASCII rendering of the full map grid
//   - list_rounds: Round numbers present in the rounds directory
//   - state_format: Reference docs for the snapshot wire format
//
// Architecture:
//
// The Client does not hold game state of its own. Every tool call is
// translated into an HTTP request against the REST API, so the stdio MCP
// process and any WebSocket feed subscribers always observe the same
// loaded snapshot.
//
// Usage:
//
//	client := mcp.NewClient("http://localhost:8080")
//	server.ServeStdio(client.GetMCPServer())
//
// AI Integration:
//
// The MCP interface enables AI agents to:
//   - Step through a recorded match round by round
//   - Inspect terrain, worms, and powerups at any cell
//   - Summarize a position before deciding on a command
//   - Learn the snapshot wire format without reading raw JSON
package mcp
