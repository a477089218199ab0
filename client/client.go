package client

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/kardolus/deskpilot/http"
	"github.com/kardolus/deskpilot/types"
)

const (
	ProviderOpenAI = "openai"
	ProviderCohere = "cohere"
	ProviderGemini = "gemini"
	ProviderOllama = "ollama"

	ErrEmptyResponse = "empty response"
)

//go:generate mockgen -destination=providermocks_test.go -package=client_test github.com/kardolus/deskpilot/client Provider
type Provider interface {
	Generate(ctx context.Context, messages []types.Message, cfg types.Config) (string, int, error)
}

// Client is the reasoning service used by the planner, the summarizer and the
// procedure learner. Every call is bounded by a timeout and a request rate.
type Client struct {
	Config   types.Config
	provider Provider
	limiter  *rate.Limiter
	timeout  time.Duration
	log      *zap.SugaredLogger
}

type Option func(*Client)

func WithProvider(p Provider) Option {
	return func(c *Client) {
		if p != nil {
			c.provider = p
		}
	}
}

func WithLogger(l *zap.SugaredLogger) Option {
	return func(c *Client) {
		if l != nil {
			c.log = l
		}
	}
}

func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.timeout = d }
}

func New(cfg types.Config, callerFactory http.CallerFactory, opts ...Option) (*Client, error) {
	c := &Client{
		Config:  cfg,
		limiter: newLimiter(cfg.RequestsPerMinute),
		timeout: time.Duration(cfg.Agent.ReasoningTimeoutSeconds) * time.Second,
		log:     zap.NewNop().Sugar(),
	}
	for _, o := range opts {
		o(c)
	}

	if c.provider != nil {
		return c, nil
	}

	provider, err := newProvider(cfg, callerFactory)
	if err != nil {
		return nil, err
	}
	c.provider = provider
	return c, nil
}

func newProvider(cfg types.Config, callerFactory http.CallerFactory) (Provider, error) {
	name := strings.ToLower(strings.TrimSpace(cfg.Provider))

	if name != ProviderOllama && cfg.APIKey == "" {
		return nil, fmt.Errorf("missing api key for provider %q", name)
	}

	switch name {
	case ProviderOpenAI, "":
		return NewOpenAIProvider(callerFactory(cfg)), nil
	case ProviderCohere:
		return newCohereProvider(cfg), nil
	case ProviderGemini:
		return newGeminiProvider(context.Background(), cfg)
	case ProviderOllama:
		return newOllamaProvider(cfg)
	default:
		return nil, fmt.Errorf("unsupported provider: %v", cfg.Provider)
	}
}

func newLimiter(perMinute int) *rate.Limiter {
	if perMinute <= 0 {
		return rate.NewLimiter(rate.Inf, 1)
	}
	return rate.NewLimiter(rate.Every(time.Minute/time.Duration(perMinute)), 1)
}

// Chat sends the conversation to the configured provider and returns the
// reply text.
func (c *Client) Chat(ctx context.Context, messages []types.Message) (string, error) {
	if len(messages) == 0 {
		return "", errors.New("no messages to send")
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return "", err
	}

	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	start := time.Now()
	text, tokens, err := c.provider.Generate(ctx, messages, c.Config)
	if err != nil {
		c.log.Debugw("reasoning call failed", "provider", c.Config.Provider, "error", err)
		return "", err
	}

	text = strings.TrimSpace(text)
	c.log.Debugw("reasoning call",
		"provider", c.Config.Provider,
		"model", c.Config.Model,
		"tokens", tokens,
		"duration", time.Since(start),
		"chars", len(text),
	)

	if text == "" {
		return "", errors.New(ErrEmptyResponse)
	}
	return text, nil
}

// splitSystem separates system messages, which several providers take as a
// dedicated instruction, from the rest of the conversation.
func splitSystem(messages []types.Message) (string, []types.Message) {
	var (
		system []string
		rest   []types.Message
	)
	for _, m := range messages {
		if m.Role == types.SystemRole {
			system = append(system, m.Content)
			continue
		}
		rest = append(rest, m)
	}
	return strings.Join(system, "\n\n"), rest
}
