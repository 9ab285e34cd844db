package gateway

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/swamp-dev/eunoia/internal/config"
	"github.com/swamp-dev/eunoia/internal/container"
)

// Runner runs a one-shot container. *container.Manager implements it.
type Runner interface {
	Run(ctx context.Context, cfg *container.RunConfig) (*container.Output, error)
}

// Container runs a model CLI image once per request and reads its stdout.
type Container struct {
	runner  Runner
	cfg     config.GatewayConfig
	timeout time.Duration
	logger  *slog.Logger
}

// NewContainer creates a container gateway. It fails when cfg.Timeout does
// not parse as a duration.
func NewContainer(runner Runner, cfg config.GatewayConfig, logger *slog.Logger) (*Container, error) {
	if logger == nil {
		logger = slog.Default()
	}
	timeout, err := cfg.TimeoutDuration()
	if err != nil {
		return nil, fmt.Errorf("parsing gateway timeout: %w", err)
	}
	return &Container{runner: runner, cfg: cfg, timeout: timeout, logger: logger}, nil
}

// Name returns the gateway identifier.
func (g *Container) Name() string { return "container" }

// Environment returns the variables passed to the model CLI.
func (g *Container) Environment() []string {
	env := []string{"HOME=/home/model", "USER=model"}
	if g.cfg.APIKeyEnv != "" {
		if key := os.Getenv(g.cfg.APIKeyEnv); key != "" {
			env = append(env, g.cfg.APIKeyEnv+"="+key)
		}
	}
	return env
}

// Complete renders the prompt, runs the CLI with it and returns stdout.
func (g *Container) Complete(ctx context.Context, req Request) ([]byte, error) {
	prompt, err := req.Prompt()
	if err != nil {
		return nil, err
	}

	name := fmt.Sprintf("eunoia-%s-%d", req.Feature, time.Now().UnixNano())
	rc, err := container.FromGateway(g.cfg, name, prompt, g.Environment())
	if err != nil {
		return nil, fmt.Errorf("configuring model container: %w", err)
	}

	if g.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.timeout)
		defer cancel()
	}

	g.logger.Info("running model container", "feature", req.Feature, "image", rc.Image)

	out, err := g.runner.Run(ctx, rc)
	if err != nil {
		if out != nil && out.Stderr != "" {
			g.logger.Debug("model container stderr", "feature", req.Feature, "stderr", out.Stderr)
		}
		return nil, fmt.Errorf("%w: running model container: %v", ErrUnavailable, err)
	}
	return []byte(out.Stdout), nil
}
