// Package server implements the MCP (Model Context Protocol) server that
// exposes text extraction as tools.
//
// # Protocol
//
// The server communicates over stdio using JSON-RPC 2.0:
//   - Input: JSON-RPC requests on stdin (one per line)
//   - Output: JSON-RPC responses on stdout
//
// Supported MCP methods:
//   - initialize: Protocol handshake
//   - tools/list: Enumerate available tools
//   - tools/call: Execute a tool with arguments
//   - ping: Health check
//
// # Available Tools
//
//   - extract_text: Full pipeline on an image file, with optional translate or summarize
//   - detect_text_regions: Segmentation only; bounding boxes in reading order
//   - detect_language: ISO 639-1 code of a text
//   - transform_text: Translate or summarize text
//   - image_info: Dimensions, format and size of an image file
//
// # Error Handling
//
// Tool execution errors are returned as JSON-RPC error responses with:
//   - code: -32000 (tool execution failure) or standard JSON-RPC codes
//   - message: Human-readable error description
//   - data: The Go error string
//
// # Usage
//
//	srv := server.New(server.Deps{Extractor: ex, Pipeline: p, Logger: log})
//	if err := srv.Run(ctx); err != nil {
//	    log.Fatal().Err(err).Msg("Server error")
//	}
package server
