package client

import (
	"context"

	"google.golang.org/genai"

	"github.com/kardolus/deskpilot/types"
)

type GeminiProvider struct {
	client *genai.Client
}

var _ Provider = (*GeminiProvider)(nil)

func newGeminiProvider(ctx context.Context, cfg types.Config) (*GeminiProvider, error) {
	c, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, err
	}
	return &GeminiProvider{client: c}, nil
}

func (p *GeminiProvider) Generate(ctx context.Context, messages []types.Message, cfg types.Config) (string, int, error) {
	system, rest := splitSystem(messages)

	contents := make([]*genai.Content, 0, len(rest))
	for _, m := range rest {
		role := genai.Role(genai.RoleUser)
		if m.Role == types.AssistantRole {
			role = genai.RoleModel
		}
		contents = append(contents, genai.NewContentFromText(m.Content, role))
	}

	temperature := float32(cfg.Temperature)
	gc := &genai.GenerateContentConfig{
		Temperature: &temperature,
	}
	if cfg.MaxTokens > 0 {
		gc.MaxOutputTokens = int32(cfg.MaxTokens)
	}
	if system != "" {
		gc.SystemInstruction = genai.NewContentFromText(system, genai.RoleUser)
	}

	resp, err := p.client.Models.GenerateContent(ctx, cfg.Model, contents, gc)
	if err != nil {
		return "", 0, err
	}

	tokens := 0
	if resp.UsageMetadata != nil {
		tokens = int(resp.UsageMetadata.TotalTokenCount)
	}
	return resp.Text(), tokens, nil
}
