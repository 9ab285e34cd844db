package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"
)

const anthropicVersion = "2023-06-01"

// HTTPOptions configures an HTTP gateway.
type HTTPOptions struct {
	Endpoint  string
	Model     string
	APIKeyEnv string
	MaxTokens int
	Timeout   time.Duration
	Client    *http.Client
	Logger    *slog.Logger
}

// HTTP calls an Anthropic Messages-compatible endpoint.
type HTTP struct {
	opts HTTPOptions
}

// NewHTTP creates an HTTP gateway.
func NewHTTP(opts HTTPOptions) *HTTP {
	if opts.Client == nil {
		opts.Client = http.DefaultClient
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.MaxTokens <= 0 {
		opts.MaxTokens = 1024
	}
	return &HTTP{opts: opts}
}

// Name returns the gateway identifier.
func (g *HTTP) Name() string { return "http" }

type messagesRequest struct {
	Model     string    `json:"model"`
	MaxTokens int       `json:"max_tokens"`
	Messages  []message `json:"messages"`
}

type message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type messagesResponse struct {
	Content []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
}

// Complete posts the rendered prompt and returns the concatenated text blocks.
func (g *HTTP) Complete(ctx context.Context, req Request) ([]byte, error) {
	key := os.Getenv(g.opts.APIKeyEnv)
	if key == "" {
		return nil, fmt.Errorf("%w: %s is not set", ErrUnavailable, g.opts.APIKeyEnv)
	}

	prompt, err := req.Prompt()
	if err != nil {
		return nil, err
	}
	body, err := json.Marshal(messagesRequest{
		Model:     g.opts.Model,
		MaxTokens: g.opts.MaxTokens,
		Messages:  []message{{Role: "user", Content: prompt}},
	})
	if err != nil {
		return nil, fmt.Errorf("encoding request: %w", err)
	}

	if g.opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.opts.Timeout)
		defer cancel()
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, g.opts.Endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("building request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("x-api-key", key)
	httpReq.Header.Set("anthropic-version", anthropicVersion)

	g.opts.Logger.Debug("calling model", "feature", req.Feature, "model", g.opts.Model)
	started := time.Now()

	resp, err := g.opts.Client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("%w: reading response: %v", ErrUnavailable, err)
	}
	if resp.StatusCode/100 != 2 {
		snippet := string(data)
		if len(snippet) > 200 {
			snippet = snippet[:200]
		}
		return nil, fmt.Errorf("%w: status %d: %s", ErrUnavailable, resp.StatusCode, snippet)
	}

	var parsed messagesResponse
	if err := json.Unmarshal(data, &parsed); err != nil {
		return nil, fmt.Errorf("%w: decoding response: %v", ErrUnavailable, err)
	}
	var text strings.Builder
	for _, block := range parsed.Content {
		if block.Type == "text" {
			text.WriteString(block.Text)
		}
	}

	g.opts.Logger.Debug("model replied", "feature", req.Feature, "duration", time.Since(started))
	return []byte(text.String()), nil
}
