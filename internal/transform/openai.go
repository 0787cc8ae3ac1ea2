package transform

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/sashabaranov/go-openai"
)

// summarySeed pins sampling so identical input gives identical summaries.
const summarySeed = 42

// SummarizerConfig configures OpenAISummarizer.
type SummarizerConfig struct {
	APIKey    string
	BaseURL   string // empty uses the OpenAI default
	Model     string
	MaxTokens int
	MinTokens int
}

// OpenAISummarizer summarizes through an OpenAI-compatible chat completion API.
type OpenAISummarizer struct {
	client *openai.Client
	cfg    SummarizerConfig
}

// NewOpenAISummarizer creates the summarizer client. The client is reused for
// every call.
func NewOpenAISummarizer(cfg SummarizerConfig) (*OpenAISummarizer, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("summarizer API key is required")
	}
	if cfg.Model == "" {
		cfg.Model = openai.GPT4oMini
	}
	if cfg.MaxTokens <= 0 {
		cfg.MaxTokens = 130
	}

	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}

	return &OpenAISummarizer{
		client: openai.NewClientWithConfig(clientCfg),
		cfg:    cfg,
	}, nil
}

func (s *OpenAISummarizer) systemPrompt() string {
	return fmt.Sprintf("You summarize text extracted from images by OCR. "+
		"Write a faithful summary of between %d and %d tokens in the language of the input. "+
		"Ignore OCR noise. Reply with the summary only.", s.cfg.MinTokens, s.cfg.MaxTokens)
}

// Summarize implements Summarizer.
func (s *OpenAISummarizer) Summarize(ctx context.Context, text string) (string, error) {
	seed := summarySeed
	req := openai.ChatCompletionRequest{
		Model: s.cfg.Model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: s.systemPrompt()},
			{Role: openai.ChatMessageRoleUser, Content: text},
		},
		MaxTokens:   s.cfg.MaxTokens,
		Temperature: 0,
		Seed:        &seed,
	}

	resp, err := s.client.CreateChatCompletion(ctx, req)
	if err != nil {
		return "", fmt.Errorf("chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("chat completion returned no choices")
	}

	summary := strings.TrimSpace(resp.Choices[0].Message.Content)
	if summary == "" {
		return "", errors.New("chat completion returned an empty summary")
	}
	return summary, nil
}
