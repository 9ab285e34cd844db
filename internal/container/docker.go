// Package container runs one-shot model CLI containers for the completion gateway.
package container

import (
	"context"
	"fmt"
	"strings"

	"github.com/docker/docker/api/types/container"
	"github.com/docker/docker/api/types/network"
	"github.com/docker/docker/client"
	"github.com/docker/docker/pkg/stdcopy"

	"github.com/swamp-dev/eunoia/internal/config"
)

// Manager handles Docker container lifecycle.
type Manager struct {
	client *client.Client
}

// NewManager creates a new Docker container manager.
func NewManager() (*Manager, error) {
	cli, err := client.NewClientWithOpts(client.FromEnv, client.WithAPIVersionNegotiation())
	if err != nil {
		return nil, fmt.Errorf("creating docker client: %w", err)
	}

	return &Manager{client: cli}, nil
}

// Close releases the Docker client resources.
func (m *Manager) Close() error {
	return m.client.Close()
}

// RunConfig holds all settings for a one-shot container.
type RunConfig struct {
	Name    string
	Image   string
	Env     []string
	Cmd     []string
	Network string
	Memory  int64
	CPUs    float64
}

// Output is what a finished container wrote.
type Output struct {
	Stdout string
	Stderr string
}

// Create builds and starts a new container with the given configuration.
func (m *Manager) Create(ctx context.Context, cfg *RunConfig) (string, error) {
	containerCfg := &container.Config{
		Image: cfg.Image,
		Cmd:   cfg.Cmd,
		Env:   cfg.Env,
	}

	hostCfg := &container.HostConfig{
		Resources: container.Resources{
			Memory:   cfg.Memory,
			NanoCPUs: int64(cfg.CPUs * 1e9),
		},
	}

	switch cfg.Network {
	case "none":
		hostCfg.NetworkMode = "none"
	case "host":
		hostCfg.NetworkMode = "host"
	}

	resp, err := m.client.ContainerCreate(ctx, containerCfg, hostCfg, &network.NetworkingConfig{}, nil, cfg.Name)
	if err != nil {
		return "", fmt.Errorf("creating container: %w", err)
	}

	if err := m.client.ContainerStart(ctx, resp.ID, container.StartOptions{}); err != nil {
		_ = m.Remove(context.WithoutCancel(ctx), resp.ID)
		return "", fmt.Errorf("starting container: %w", err)
	}

	return resp.ID, nil
}

// Run creates a container, waits for it to exit, and returns its output.
// The container is always removed.
func (m *Manager) Run(ctx context.Context, cfg *RunConfig) (*Output, error) {
	containerID, err := m.Create(ctx, cfg)
	if err != nil {
		return nil, err
	}
	defer func() { _ = m.Remove(context.WithoutCancel(ctx), containerID) }()

	return m.Wait(ctx, containerID)
}

// Wait blocks until the container exits and returns its output.
func (m *Manager) Wait(ctx context.Context, containerID string) (*Output, error) {
	statusCh, errCh := m.client.ContainerWait(ctx, containerID, container.WaitConditionNotRunning)

	select {
	case err := <-errCh:
		if err != nil {
			return nil, fmt.Errorf("waiting for container: %w", err)
		}
	case status := <-statusCh:
		if status.StatusCode != 0 {
			out, _ := m.Logs(ctx, containerID)
			return out, fmt.Errorf("container exited with code %d", status.StatusCode)
		}
	}

	return m.Logs(ctx, containerID)
}

// Logs retrieves the container's stdout and stderr.
func (m *Manager) Logs(ctx context.Context, containerID string) (*Output, error) {
	rc, err := m.client.ContainerLogs(ctx, containerID, container.LogsOptions{
		ShowStdout: true,
		ShowStderr: true,
	})
	if err != nil {
		return nil, fmt.Errorf("getting container logs: %w", err)
	}
	defer rc.Close()

	var stdout, stderr strings.Builder
	if _, err := stdcopy.StdCopy(&stdout, &stderr, rc); err != nil {
		return nil, fmt.Errorf("reading container logs: %w", err)
	}

	return &Output{Stdout: stdout.String(), Stderr: stderr.String()}, nil
}

// Remove deletes a container.
func (m *Manager) Remove(ctx context.Context, containerID string) error {
	return m.client.ContainerRemove(ctx, containerID, container.RemoveOptions{Force: true})
}

// ParseMemory converts a memory string (e.g., "4g") to bytes.
func ParseMemory(mem string) (int64, error) {
	mem = strings.ToLower(strings.TrimSpace(mem))
	if mem == "" {
		return 0, nil
	}

	var multiplier int64 = 1
	if strings.HasSuffix(mem, "g") {
		multiplier = 1024 * 1024 * 1024
		mem = strings.TrimSuffix(mem, "g")
	} else if strings.HasSuffix(mem, "m") {
		multiplier = 1024 * 1024
		mem = strings.TrimSuffix(mem, "m")
	} else if strings.HasSuffix(mem, "k") {
		multiplier = 1024
		mem = strings.TrimSuffix(mem, "k")
	}

	var value int64
	if _, err := fmt.Sscanf(mem, "%d", &value); err != nil {
		return 0, fmt.Errorf("invalid memory value: %s", mem)
	}

	return value * multiplier, nil
}

// ParseCPUs converts a CPU string to a float.
func ParseCPUs(cpus string) (float64, error) {
	cpus = strings.TrimSpace(cpus)
	if cpus == "" {
		return 0, nil
	}

	var value float64
	if _, err := fmt.Sscanf(cpus, "%f", &value); err != nil {
		return 0, fmt.Errorf("invalid CPU value: %s", cpus)
	}

	return value, nil
}

// FromGateway converts the gateway config into a run config for one prompt.
// The prompt is appended as the last command argument.
func FromGateway(cfg config.GatewayConfig, name, prompt string, env []string) (*RunConfig, error) {
	memory, err := ParseMemory(cfg.Memory)
	if err != nil {
		return nil, err
	}

	cpus, err := ParseCPUs(cfg.CPUs)
	if err != nil {
		return nil, err
	}

	if cfg.Image == "" {
		return nil, fmt.Errorf("no model image configured")
	}
	if len(cfg.Command) == 0 {
		return nil, fmt.Errorf("no model command configured")
	}

	cmd := append(append([]string(nil), cfg.Command...), prompt)

	return &RunConfig{
		Name:    name,
		Image:   cfg.Image,
		Env:     env,
		Cmd:     cmd,
		Network: cfg.Network,
		Memory:  memory,
		CPUs:    cpus,
	}, nil
}
