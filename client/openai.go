package client

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/kardolus/deskpilot/http"
	"github.com/kardolus/deskpilot/internal/llmjson"
	"github.com/kardolus/deskpilot/types"
)

// OpenAIProvider speaks the chat completions wire format. Any compatible
// server (LM Studio, vLLM, llama.cpp) works by changing the URL.
type OpenAIProvider struct {
	caller http.Caller
}

var _ Provider = (*OpenAIProvider)(nil)

func NewOpenAIProvider(caller http.Caller) *OpenAIProvider {
	return &OpenAIProvider{caller: caller}
}

func (p *OpenAIProvider) Generate(ctx context.Context, messages []types.Message, cfg types.Config) (string, int, error) {
	req := types.CompletionsRequest{
		Messages:    messages,
		Model:       cfg.Model,
		MaxTokens:   cfg.MaxTokens,
		Temperature: cfg.Temperature,
		Stream:      false,
	}
	body, err := llmjson.Marshal(req)
	if err != nil {
		return "", 0, err
	}
	res, err := p.caller.Post(ctx, getEndpoint(cfg, cfg.CompletionsPath), body)
	if err != nil {
		return "", 0, err
	}
	defer res.Close()
	raw, err := io.ReadAll(res)
	if err != nil {
		return "", 0, err
	}
	var response types.CompletionsResponse
	if err := processResponse(raw, &response); err != nil {
		return "", 0, err
	}
	if len(response.Choices) == 0 {
		return "", response.Usage.TotalTokens, errors.New("no responses returned")
	}
	return response.Choices[0].Message.Content, response.Usage.TotalTokens, nil
}

func getEndpoint(cfg types.Config, path string) string {
	return cfg.URL + path
}

func processResponse(raw []byte, v interface{}) error {
	if len(raw) == 0 {
		return errors.New(ErrEmptyResponse)
	}

	if err := llmjson.Unmarshal(raw, v); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}

	return nil
}
