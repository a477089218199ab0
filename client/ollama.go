package client

import (
	"context"
	"errors"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/ollama"

	"github.com/kardolus/deskpilot/types"
)

const defaultOllamaURL = "http://localhost:11434"

type OllamaProvider struct {
	llm llms.Model
}

var _ Provider = (*OllamaProvider)(nil)

func newOllamaProvider(cfg types.Config) (*OllamaProvider, error) {
	url := cfg.URL
	if url == "" || url == "https://api.openai.com" {
		url = defaultOllamaURL
	}

	model, err := ollama.New(
		ollama.WithModel(cfg.Model),
		ollama.WithServerURL(url),
	)
	if err != nil {
		return nil, err
	}
	return &OllamaProvider{llm: model}, nil
}

func (p *OllamaProvider) Generate(ctx context.Context, messages []types.Message, cfg types.Config) (string, int, error) {
	content := make([]llms.MessageContent, 0, len(messages))
	for _, m := range messages {
		content = append(content, llms.TextParts(chatMessageType(m.Role), m.Content))
	}

	opts := []llms.CallOption{llms.WithTemperature(cfg.Temperature)}
	if cfg.MaxTokens > 0 {
		opts = append(opts, llms.WithMaxTokens(cfg.MaxTokens))
	}

	resp, err := p.llm.GenerateContent(ctx, content, opts...)
	if err != nil {
		return "", 0, err
	}
	if len(resp.Choices) == 0 {
		return "", 0, errors.New("no response choices")
	}
	return resp.Choices[0].Content, 0, nil
}

func chatMessageType(role string) llms.ChatMessageType {
	switch role {
	case types.SystemRole:
		return llms.ChatMessageTypeSystem
	case types.AssistantRole:
		return llms.ChatMessageTypeAI
	default:
		return llms.ChatMessageTypeHuman
	}
}
