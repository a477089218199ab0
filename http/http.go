package http

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/kardolus/deskpilot/internal/llmjson"
	"github.com/kardolus/deskpilot/types"
)

const (
	contentType              = "application/json"
	errFailedToRead          = "failed to read response: %w"
	errFailedToCreateRequest = "failed to create request: %w"
	errFailedToMakeRequest   = "failed to make request: %w"
	errHTTP                  = "http status %d: %s"
	errHTTPStatus            = "http status: %d"
	headerContentType        = "Content-Type"
	headerUserAgent          = "User-Agent"
	maxErrorBody             = 64 * 1024
	maxGetBody               = 8 << 20
)

//go:generate mockgen -destination=../client/callermocks_test.go -package=client_test github.com/kardolus/deskpilot/http Caller
// Caller is shared by the model providers, the desktop bridge and web
// research. Only the provider callers are built with an API key.
type Caller interface {
	Post(ctx context.Context, url string, body []byte) (io.ReadCloser, error)
	Get(ctx context.Context, url string) ([]byte, error)
}

type RestCaller struct {
	client    *http.Client
	config    types.Config
	userAgent string
}

var _ Caller = &RestCaller{}

func New(cfg types.Config) *RestCaller {
	return &RestCaller{
		client: &http.Client{},
		config: cfg,
	}
}

type CallerFactory func(cfg types.Config) Caller

func RealCallerFactory(cfg types.Config) Caller {
	return New(cfg)
}

func (r *RestCaller) WithTimeout(d time.Duration) *RestCaller {
	r.client.Timeout = d
	return r
}

func (r *RestCaller) WithUserAgent(ua string) *RestCaller {
	r.userAgent = ua
	return r
}

// Get reads at most 8MB of the body; web pages beyond that are cut.
func (r *RestCaller) Get(ctx context.Context, url string) ([]byte, error) {
	reader, err := r.doRequest(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	defer reader.Close()
	result, err := io.ReadAll(io.LimitReader(reader, maxGetBody))
	if err != nil {
		return nil, fmt.Errorf(errFailedToRead, err)
	}
	return result, nil
}

func (r *RestCaller) Post(ctx context.Context, url string, body []byte) (io.ReadCloser, error) {
	return r.doRequest(ctx, http.MethodPost, url, body)
}

func (r *RestCaller) doRequest(ctx context.Context, method, url string, body []byte) (io.ReadCloser, error) {
	req, err := r.newRequest(ctx, method, url, body)
	if err != nil {
		return nil, fmt.Errorf(errFailedToCreateRequest, err)
	}

	response, err := r.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf(errFailedToMakeRequest, err)
	}

	if response.StatusCode < 200 || response.StatusCode >= 300 {
		defer response.Body.Close()

		errorResponse, err := io.ReadAll(io.LimitReader(response.Body, maxErrorBody))
		if err != nil {
			return nil, fmt.Errorf(errHTTPStatus, response.StatusCode)
		}

		var errorData types.ErrorResponse
		if err := llmjson.Unmarshal(errorResponse, &errorData); err != nil || errorData.Error.Message == "" {
			return nil, fmt.Errorf(errHTTPStatus, response.StatusCode)
		}

		return nil, fmt.Errorf(errHTTP, response.StatusCode, errorData.Error.Message)
	}
	return response.Body, nil
}

func (r *RestCaller) newRequest(ctx context.Context, method, url string, body []byte) (*http.Request, error) {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return nil, err
	}

	if r.config.APIKey != "" && r.config.AuthHeader != "" {
		req.Header.Set(r.config.AuthHeader, r.config.AuthTokenPrefix+r.config.APIKey)
	}
	if body != nil {
		req.Header.Set(headerContentType, contentType)
	}
	if r.userAgent != "" {
		req.Header.Set(headerUserAgent, r.userAgent)
	}

	return req, nil
}
