package server

// Tool represents an MCP tool definition
type Tool struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	InputSchema map[string]interface{} `json:"inputSchema"`
}

var operationProperty = map[string]interface{}{
	"type":        "string",
	"enum":        []string{"view", "translate", "summarize"},
	"description": "Post-processing applied to the text. Default view",
	"default":     "view",
}

var targetLanguageProperty = map[string]interface{}{
	"type":        "string",
	"description": "ISO 639-1 target language code; required when operation is translate",
}

var pathProperty = map[string]interface{}{
	"type":        "string",
	"description": "Absolute path to the image file",
}

// GetToolDefinitions returns all available tools
func GetToolDefinitions() []Tool {
	return []Tool{
		{
			Name:        "extract_text",
			Description: "Extract the text of an image. The image is binarized, text regions are segmented and recognized one by one, the language of the text is detected, and the text is optionally translated or summarized. The extraction is recorded in history.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path":            pathProperty,
					"operation":       operationProperty,
					"target_language": targetLanguageProperty,
				},
				"required": []string{"path"},
			},
		},
		{
			Name:        "detect_text_regions",
			Description: "Find the bounding boxes of text regions in an image without recognizing them. Boxes are returned in reading order.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty,
				},
				"required": []string{"path"},
			},
		},
		{
			Name:        "detect_language",
			Description: "Identify the language of a piece of text. Returns an ISO 639-1 code, or \"unknown\" when the text is too short or ambiguous.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"text": map[string]interface{}{
						"type":        "string",
						"description": "Text to identify",
					},
				},
				"required": []string{"text"},
			},
		},
		{
			Name:        "transform_text",
			Description: "Translate or summarize text that was already extracted.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"text": map[string]interface{}{
						"type":        "string",
						"description": "Text to transform",
					},
					"operation":       operationProperty,
					"target_language": targetLanguageProperty,
				},
				"required": []string{"text", "operation"},
			},
		},
		{
			Name:        "image_info",
			Description: "Get the dimensions, format and file size of an image, and whether its type is accepted for extraction.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty,
				},
				"required": []string{"path"},
			},
		},
	}
}

// handleToolsList returns the list of available tools
func (s *Server) handleToolsList(req *MCPRequest) *MCPResponse {
	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      req.ID,
		Result: map[string]interface{}{
			"tools": GetToolDefinitions(),
		},
	}
}
