package client

import (
	"context"
	"errors"

	"github.com/kardolus/deskpilot/types"

	co "github.com/cohere-ai/cohere-go/v2"
	cohereclient "github.com/cohere-ai/cohere-go/v2/client"
)

type CohereProvider struct {
	client *cohereclient.Client
}

var _ Provider = (*CohereProvider)(nil)

func newCohereProvider(cfg types.Config) *CohereProvider {
	return &CohereProvider{
		client: cohereclient.NewClient(cohereclient.WithToken(cfg.APIKey)),
	}
}

func (p *CohereProvider) Generate(ctx context.Context, messages []types.Message, cfg types.Config) (string, int, error) {
	system, rest := splitSystem(messages)
	if len(rest) == 0 {
		return "", 0, errors.New("cohere: no user message")
	}

	req := &co.ChatRequest{
		Message:     rest[len(rest)-1].Content,
		ChatHistory: coHistory(rest[:len(rest)-1]),
	}
	if cfg.Model != "" {
		req.Model = &cfg.Model
	}
	if system != "" {
		req.Preamble = &system
	}

	res, err := p.client.Chat(ctx, req)
	if err != nil {
		return "", 0, err
	}
	return res.Text, billedTokens(res), nil
}

func billedTokens(res *co.NonStreamedChatResponse) int {
	if res.Meta == nil || res.Meta.BilledUnits == nil {
		return 0
	}
	total := 0.0
	if in := res.Meta.BilledUnits.InputTokens; in != nil {
		total += *in
	}
	if out := res.Meta.BilledUnits.OutputTokens; out != nil {
		total += *out
	}
	return int(total)
}

func coHistory(history []types.Message) []*co.ChatMessage {
	var chatHistory []*co.ChatMessage
	for _, msg := range history {
		switch msg.Role {
		case types.AssistantRole:
			chatHistory = append(chatHistory, &co.ChatMessage{
				Role:    co.ChatMessageRoleChatbot,
				Message: msg.Content,
			})
		case types.SystemRole:
			chatHistory = append(chatHistory, &co.ChatMessage{
				Role:    co.ChatMessageRoleSystem,
				Message: msg.Content,
			})
		default:
			chatHistory = append(chatHistory, &co.ChatMessage{
				Role:    co.ChatMessageRoleUser,
				Message: msg.Content,
			})
		}
	}
	return chatHistory
}
