package explain

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/ksr-21/smartstock/internal/config"
)

// ErrDisabled is returned by the generator used when no endpoint is configured.
var ErrDisabled = errors.New("explanation service is not configured")

// Generator produces free text for a system instruction and user prompt.
type Generator interface {
	Generate(ctx context.Context, system, prompt string) (string, error)
}

// NewGenerator returns an OpenAIClient for cfg, or a disabled generator when
// cfg has no endpoint.
func NewGenerator(cfg config.ExplainConfig) Generator {
	if !cfg.Enabled() {
		return disabledGenerator{}
	}
	return NewOpenAIClient(cfg)
}

type disabledGenerator struct{}

func (disabledGenerator) Generate(context.Context, string, string) (string, error) {
	return "", ErrDisabled
}

// OpenAIClient calls an Azure-style chat-completions deployment. The endpoint
// may also point at a proxy exposing the same routes.
type OpenAIClient struct {
	endpoint   string
	apiKey     string
	apiVersion string
	deployment string
	httpClient *http.Client
}

func NewOpenAIClient(cfg config.ExplainConfig) *OpenAIClient {
	timeout := time.Duration(cfg.TimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	return &OpenAIClient{
		endpoint:   strings.TrimSuffix(cfg.Endpoint, "/"),
		apiKey:     cfg.APIKey,
		apiVersion: cfg.APIVersion,
		deployment: cfg.Deployment,
		httpClient: &http.Client{Timeout: timeout},
	}
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatCompletionRequest struct {
	Messages    []chatMessage `json:"messages"`
	MaxTokens   int           `json:"max_tokens,omitempty"`
	Temperature float32       `json:"temperature,omitempty"`
}

type chatCompletionResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

type errorResponse struct {
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// Generate sends one chat completion. An empty system instruction sends the
// prompt alone.
func (c *OpenAIClient) Generate(ctx context.Context, system, prompt string) (string, error) {
	messages := make([]chatMessage, 0, 2)
	if system != "" {
		messages = append(messages, chatMessage{Role: "system", Content: system})
	}
	messages = append(messages, chatMessage{Role: "user", Content: prompt})

	var resp chatCompletionResponse
	if err := c.doRequest(ctx, c.completionsURL(), chatCompletionRequest{
		Messages:    messages,
		MaxTokens:   400,
		Temperature: 0.7,
	}, &resp); err != nil {
		return "", fmt.Errorf("chat completion: %w", err)
	}

	if len(resp.Choices) == 0 {
		return "", nil
	}
	return resp.Choices[0].Message.Content, nil
}

func (c *OpenAIClient) completionsURL() string {
	return fmt.Sprintf("%s/openai/deployments/%s/chat/completions?api-version=%s",
		c.endpoint, c.deployment, c.apiVersion)
}

func (c *OpenAIClient) doRequest(ctx context.Context, url string, payload, out interface{}) error {
	if c.apiKey == "" {
		return errors.New("api key is not set")
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("api-key", c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		var apiErr errorResponse
		if err := json.Unmarshal(raw, &apiErr); err == nil && apiErr.Error.Message != "" {
			return fmt.Errorf("api error (status: %d): %s", resp.StatusCode, apiErr.Error.Message)
		}
		return fmt.Errorf("api error (status: %d): %s", resp.StatusCode, string(raw))
	}

	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
