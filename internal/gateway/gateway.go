// Package gateway sends report prompts to a language model and validates the
// structured replies.
package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/swamp-dev/eunoia/internal/config"
	"github.com/swamp-dev/eunoia/internal/container"
)

var (
	// ErrUnavailable is returned when the model cannot be reached or refuses the call.
	ErrUnavailable = errors.New("model unavailable")
	// ErrSchemaMismatch is returned when a reply does not fit the requested schema.
	ErrSchemaMismatch = errors.New("reply does not match schema")
)

// Gateway completes one prompt and returns the model's raw reply.
type Gateway interface {
	Name() string
	Complete(ctx context.Context, req Request) ([]byte, error)
}

// Request is a single structured completion.
type Request struct {
	// Feature names the report asking, e.g. "burnout".
	Feature string
	// Instructions is the feature-specific prompt text.
	Instructions string
	// Input is marshalled to JSON and appended after the instructions.
	Input  any
	Schema Schema
}

// Prompt renders the text sent to the model.
func (r Request) Prompt() (string, error) {
	data, err := json.MarshalIndent(r.Input, "", "  ")
	if err != nil {
		return "", fmt.Errorf("encoding %s input: %w", r.Feature, err)
	}

	var sb strings.Builder
	sb.WriteString(strings.TrimSpace(r.Instructions))
	sb.WriteString("\n\nData:\n```json\n")
	sb.Write(data)
	sb.WriteString("\n```\n\n")
	sb.WriteString("Respond with JSON only:\n")
	sb.WriteString(r.Schema.Skeleton())
	sb.WriteString("\n")
	return sb.String(), nil
}

// Decode runs req through gw, validates the reply against req.Schema and
// unmarshals it into T.
func Decode[T any](ctx context.Context, gw Gateway, req Request) (T, error) {
	var out T
	raw, err := gw.Complete(ctx, req)
	if err != nil {
		return out, err
	}

	obj := extractJSON(string(raw))
	if obj == "" {
		return out, fmt.Errorf("%w: no JSON object in reply", ErrSchemaMismatch)
	}
	if err := req.Schema.Validate([]byte(obj)); err != nil {
		return out, err
	}
	if err := json.Unmarshal([]byte(obj), &out); err != nil {
		return out, fmt.Errorf("%w: %v", ErrSchemaMismatch, err)
	}
	return out, nil
}

// extractJSON attempts to find a JSON object in the output.
func extractJSON(output string) string {
	// Find the first { and last }.
	start := strings.Index(output, "{")
	end := strings.LastIndex(output, "}")
	if start == -1 || end == -1 || end <= start {
		return ""
	}
	return output[start : end+1]
}

// New builds the gateway selected by cfg.Kind.
func New(cfg config.GatewayConfig, logger *slog.Logger) (Gateway, error) {
	if logger == nil {
		logger = slog.Default()
	}
	timeout, err := cfg.TimeoutDuration()
	if err != nil {
		return nil, fmt.Errorf("parsing gateway timeout: %w", err)
	}

	switch cfg.Kind {
	case "http":
		return NewHTTP(HTTPOptions{
			Endpoint:  cfg.Endpoint,
			Model:     cfg.Model,
			APIKeyEnv: cfg.APIKeyEnv,
			MaxTokens: cfg.MaxTokens,
			Timeout:   timeout,
			Logger:    logger,
		}), nil
	case "container":
		cm, err := container.NewManager()
		if err != nil {
			return nil, err
		}
		gw, err := NewContainer(cm, cfg, logger)
		if err != nil {
			return nil, err
		}
		return gw, nil
	case "stub":
		return NewStub(nil), nil
	default:
		return nil, fmt.Errorf("unknown gateway: %s", cfg.Kind)
	}
}
