package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/ironsheep/imagetext/internal/detection"
	"github.com/ironsheep/imagetext/internal/imaging"
	"github.com/ironsheep/imagetext/internal/language"
	"github.com/ironsheep/imagetext/internal/service"
	"github.com/ironsheep/imagetext/internal/transform"
)

// errNotConfigured is returned by tools whose backend was not wired.
var errNotConfigured = errors.New("not configured")

// ToolCallParams represents the parameters for a tools/call MCP request.
type ToolCallParams struct {
	// Name is the tool to invoke (e.g., "extract_text", "image_info").
	Name string `json:"name"`

	// Arguments contains the tool-specific parameters as JSON.
	Arguments json.RawMessage `json:"arguments"`
}

// handleToolsCall processes a tools/call request and executes the specified tool.
//
// The response wraps the tool result in MCP's content format:
//
//	{
//	  "content": [{"type": "text", "text": "<JSON result>"}]
//	}
//
// Tool execution errors return a JSON-RPC error response with code -32000.
func (s *Server) handleToolsCall(ctx context.Context, req *MCPRequest) *MCPResponse {
	var params ToolCallParams
	if err := json.Unmarshal(req.Params, &params); err != nil {
		return s.errorResponse(req.ID, -32602, "Invalid params", err.Error())
	}

	result, err := s.executeTool(ctx, params.Name, params.Arguments)
	if err != nil {
		s.log.Warn().Err(err).Str("tool", params.Name).Msg("Tool execution failed")
		return s.errorResponse(req.ID, -32000, "Tool execution failed", err.Error())
	}

	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      req.ID,
		Result: map[string]interface{}{
			"content": []map[string]interface{}{
				{
					"type": "text",
					"text": mustMarshalJSON(result),
				},
			},
		},
	}
}

// executeTool dispatches tool execution to the appropriate handler function.
func (s *Server) executeTool(ctx context.Context, name string, args json.RawMessage) (interface{}, error) {
	switch name {
	case "extract_text":
		return s.handleExtractText(ctx, args)
	case "detect_text_regions":
		return s.handleDetectTextRegions(args)
	case "detect_language":
		return s.handleDetectLanguage(args)
	case "transform_text":
		return s.handleTransformText(ctx, args)
	case "image_info":
		return s.handleImageInfo(args)
	default:
		return nil, fmt.Errorf("unknown tool: %s", name)
	}
}

// errorResponse creates a JSON-RPC error response with the given details.
func (s *Server) errorResponse(id interface{}, code int, message, data string) *MCPResponse {
	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      id,
		Error: &MCPError{
			Code:    code,
			Message: message,
			Data:    data,
		},
	}
}

// mustMarshalJSON converts a value to pretty-printed JSON string.
// On marshal failure it returns an empty string.
func mustMarshalJSON(v interface{}) string {
	b, _ := json.MarshalIndent(v, "", "  ")
	return string(b)
}

// unmarshalArgs decodes tool arguments; absent arguments decode as zero values.
func unmarshalArgs(args json.RawMessage, v interface{}) error {
	if len(args) == 0 {
		return nil
	}
	if err := json.Unmarshal(args, v); err != nil {
		return fmt.Errorf("invalid arguments: %w", err)
	}
	return nil
}

// parseOperation maps the tool's operation arguments, rejecting unknown names.
func parseOperation(name, target string) (transform.Operation, error) {
	op, known, err := transform.ParseOperation(name, target)
	if err != nil {
		return op, err
	}
	if !known {
		return op, fmt.Errorf("unknown operation %q (want view, translate or summarize)", name)
	}
	return op, nil
}

// === Extraction ===

type extractTextArgs struct {
	Path           string `json:"path"`
	Operation      string `json:"operation"`
	TargetLanguage string `json:"target_language"`
}

type extractTextResult struct {
	ID               string   `json:"id"`
	Label            string   `json:"label"`
	Text             string   `json:"text"`
	DetectedLanguage string   `json:"detected_language"`
	Regions          int      `json:"regions"`
	Skipped          int      `json:"skipped"`
	Cached           bool     `json:"cached"`
	Warnings         []string `json:"warnings,omitempty"`
}

func (s *Server) handleExtractText(ctx context.Context, args json.RawMessage) (interface{}, error) {
	var a extractTextArgs
	if err := unmarshalArgs(args, &a); err != nil {
		return nil, err
	}
	if a.Path == "" {
		return nil, errors.New("path is required")
	}
	if s.deps.Extractor == nil {
		return nil, fmt.Errorf("extraction %w", errNotConfigured)
	}
	op, err := parseOperation(a.Operation, a.TargetLanguage)
	if err != nil {
		return nil, err
	}

	resp, err := s.deps.Extractor.Extract(ctx, service.Request{UserID: s.deps.UserID, ImagePath: a.Path, Operation: op})
	if err != nil {
		return nil, err
	}

	res := resp.Result
	out := extractTextResult{
		ID:               resp.Record.ID,
		Label:            res.Label,
		Text:             res.Text,
		DetectedLanguage: res.DetectedLanguage,
		Regions:          len(res.Regions),
		Skipped:          res.Skipped,
		Cached:           resp.Cached,
	}
	for _, w := range res.Warnings {
		out.Warnings = append(out.Warnings, fmt.Sprintf("%s: %s", w.Stage, w.Message))
	}
	return out, nil
}

// === Segmentation ===

type detectTextRegionsArgs struct {
	Path string `json:"path"`
}

type detectTextRegionsResult struct {
	Count   int                `json:"count"`
	Regions []detection.Region `json:"regions"`
}

func (s *Server) handleDetectTextRegions(args json.RawMessage) (interface{}, error) {
	var a detectTextRegionsArgs
	if err := unmarshalArgs(args, &a); err != nil {
		return nil, err
	}
	if a.Path == "" {
		return nil, errors.New("path is required")
	}
	if s.deps.Pipeline == nil {
		return nil, fmt.Errorf("segmentation %w", errNotConfigured)
	}

	f, err := os.Open(a.Path)
	if err != nil {
		return nil, &imaging.DecodeError{Source: a.Path, Err: err}
	}
	defer f.Close()

	regions, err := s.deps.Pipeline.DetectRegions(f)
	if err != nil {
		return nil, err
	}
	if regions == nil {
		regions = []detection.Region{}
	}
	return detectTextRegionsResult{Count: len(regions), Regions: regions}, nil
}

// === Text tools ===

type detectLanguageArgs struct {
	Text string `json:"text"`
}

type detectLanguageResult struct {
	Language string `json:"language"`
}

func (s *Server) handleDetectLanguage(args json.RawMessage) (interface{}, error) {
	var a detectLanguageArgs
	if err := unmarshalArgs(args, &a); err != nil {
		return nil, err
	}
	if s.deps.Identifier == nil {
		return detectLanguageResult{Language: language.Unknown}, nil
	}
	return detectLanguageResult{Language: s.deps.Identifier.DetectOrUnknown(a.Text)}, nil
}

type transformTextArgs struct {
	Text           string `json:"text"`
	Operation      string `json:"operation"`
	TargetLanguage string `json:"target_language"`
}

type transformTextResult struct {
	Label   string `json:"label"`
	Text    string `json:"text"`
	Warning string `json:"warning,omitempty"`
}

func (s *Server) handleTransformText(ctx context.Context, args json.RawMessage) (interface{}, error) {
	var a transformTextArgs
	if err := unmarshalArgs(args, &a); err != nil {
		return nil, err
	}
	if s.deps.Transformer == nil {
		return nil, fmt.Errorf("transformer %w", errNotConfigured)
	}
	op, err := parseOperation(a.Operation, a.TargetLanguage)
	if err != nil {
		return nil, err
	}

	out, err := s.deps.Transformer.Apply(ctx, a.Text, op)
	if err != nil {
		return nil, err
	}
	result := transformTextResult{Label: op.Label(), Text: out.Text}
	if out.Warning != nil {
		result.Warning = out.Warning.Error()
	}
	return result, nil
}

// === Image information ===

type imageInfoArgs struct {
	Path string `json:"path"`
}

func (s *Server) handleImageInfo(args json.RawMessage) (interface{}, error) {
	var a imageInfoArgs
	if err := unmarshalArgs(args, &a); err != nil {
		return nil, err
	}
	if a.Path == "" {
		return nil, errors.New("path is required")
	}
	return imaging.Inspect(a.Path)
}
