package server

import (
	"testing"
)

func TestGetToolDefinitions(t *testing.T) {
	tools := GetToolDefinitions()

	expectedTools := []string{
		"extract_text",
		"detect_text_regions",
		"detect_language",
		"transform_text",
		"image_info",
	}

	toolMap := make(map[string]Tool)
	for _, tool := range tools {
		if _, dup := toolMap[tool.Name]; dup {
			t.Errorf("duplicate tool %s", tool.Name)
		}
		toolMap[tool.Name] = tool
	}

	for _, name := range expectedTools {
		if _, ok := toolMap[name]; !ok {
			t.Errorf("Expected tool %s not found", name)
		}
	}
	if len(tools) != len(expectedTools) {
		t.Errorf("got %d tools, want %d", len(tools), len(expectedTools))
	}
}

func TestToolDefinitions_Structure(t *testing.T) {
	for _, tool := range GetToolDefinitions() {
		t.Run(tool.Name, func(t *testing.T) {
			if tool.Description == "" {
				t.Error("Tool description is empty")
			}
			if tool.InputSchema["type"] != "object" {
				t.Errorf("InputSchema type: got %v, want 'object'", tool.InputSchema["type"])
			}

			props, ok := tool.InputSchema["properties"].(map[string]interface{})
			if !ok {
				t.Fatal("InputSchema properties missing")
			}

			required, ok := tool.InputSchema["required"].([]string)
			if !ok || len(required) == 0 {
				t.Fatal("InputSchema required missing")
			}
			for _, r := range required {
				if _, ok := props[r]; !ok {
					t.Errorf("required property %s not declared", r)
				}
			}
		})
	}
}

func TestToolDefinitions_OperationEnum(t *testing.T) {
	for _, tool := range GetToolDefinitions() {
		props := tool.InputSchema["properties"].(map[string]interface{})
		op, ok := props["operation"].(map[string]interface{})
		if !ok {
			continue
		}
		enum, ok := op["enum"].([]string)
		if !ok || len(enum) != 3 {
			t.Errorf("%s: operation enum: got %v", tool.Name, op["enum"])
		}
		if _, ok := props["target_language"]; !ok {
			t.Errorf("%s: operation without target_language", tool.Name)
		}
	}
}
