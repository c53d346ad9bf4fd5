// engine.go defines the Engine, the entry point for all Docker and Docker
// Compose subprocess orchestration. An Engine is constructed once per CLI
// invocation with explicit configuration (project root, network name,
// docker binary) — there is no package-level mutable state.
package docker

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"os/exec"

	"github.com/charmbracelet/log"

	"github.com/toolkit-infra/codeagent/internal/model"
)

// Default resource names. They are defaults for EngineOptions, not
// constants the engine reads directly, so alternate deployments can rename
// everything without code changes.
const (
	// DefaultNetwork is the Docker network joining the sandbox containers.
	DefaultNetwork = "ai-dev-network"

	// DefaultNamePrefix prefixes every container and volume the sandbox
	// creates.
	DefaultNamePrefix = "ai-dev"

	// ProxyService is the Compose service name of the Docker socket proxy.
	ProxyService = "docker-proxy"

	// DefaultService is the Compose service for the main dev container.
	DefaultService = "dev"
)

// EngineOptions configures an Engine. Zero-value fields fall back to the
// defaults above.
type EngineOptions struct {
	// ProjectRoot is the directory containing the Compose files. Required.
	ProjectRoot string

	// DockerBin is the docker executable to invoke. Defaults to "docker"
	// (resolved via PATH at spawn time). Tests point this at stub scripts.
	DockerBin string

	// Network is the sandbox Docker network name.
	Network string

	// NamePrefix filters containers and volumes in listing operations.
	NamePrefix string

	// Logger receives warnings for resource-mutation failures and debug
	// output for assembled argument vectors. Defaults to a logger that
	// discards everything, keeping the engine silent unless asked.
	Logger *log.Logger
}

// Engine executes docker and docker compose as child processes and
// normalizes their outcomes. It is safe for sequential use within one CLI
// invocation; concurrent invocations of the CLI itself race on the shared
// Docker daemon resources and are intentionally not serialized here (the
// idempotent existence checks are the only guard).
type Engine struct {
	projectRoot string
	dockerBin   string
	network     string
	namePrefix  string
	log         *log.Logger
}

// NewEngine constructs an Engine, applying defaults for unset options.
func NewEngine(opts EngineOptions) *Engine {
	if opts.DockerBin == "" {
		opts.DockerBin = "docker"
	}
	if opts.Network == "" {
		opts.Network = DefaultNetwork
	}
	if opts.NamePrefix == "" {
		opts.NamePrefix = DefaultNamePrefix
	}
	if opts.Logger == nil {
		opts.Logger = log.New(io.Discard)
	}
	return &Engine{
		projectRoot: opts.ProjectRoot,
		dockerBin:   opts.DockerBin,
		network:     opts.Network,
		namePrefix:  opts.NamePrefix,
		log:         opts.Logger,
	}
}

// Network returns the configured sandbox network name.
func (e *Engine) Network() string {
	return e.network
}

// NamePrefix returns the configured container/volume name prefix.
func (e *Engine) NamePrefix() string {
	return e.namePrefix
}

// runCaptured executes the docker binary with the given arguments,
// capturing stdout and stderr. extraEnv entries (KEY=VALUE) are appended to
// the inherited process environment. The returned RunResult encodes every
// expected failure mode; err is non-nil only for unexpected spawn failures
// that the caller should treat as programming errors.
func (e *Engine) runCaptured(ctx context.Context, extraEnv []string, args ...string) (model.RunResult, error) {
	cmd := exec.CommandContext(ctx, e.dockerBin, args...)
	cmd.Dir = e.projectRoot
	cmd.Env = append(os.Environ(), extraEnv...)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	argv := append([]string{e.dockerBin}, args...)
	e.log.Debug("exec", "cmd", cmd.String())

	err := cmd.Run()
	return e.finish(ctx, argv, stdout.String(), stderr.String(), err)
}

// runInteractive executes the docker binary with the parent's standard
// streams attached. Output is not captured; the result carries only the
// exit code and the argument vector.
func (e *Engine) runInteractive(ctx context.Context, extraEnv []string, args ...string) (model.RunResult, error) {
	cmd := exec.CommandContext(ctx, e.dockerBin, args...)
	cmd.Dir = e.projectRoot
	cmd.Env = append(os.Environ(), extraEnv...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	argv := append([]string{e.dockerBin}, args...)
	e.log.Debug("exec", "cmd", cmd.String())

	err := cmd.Run()
	return e.finish(ctx, argv, "", "", err)
}

// finish normalizes a subprocess outcome into a RunResult.
//
// The mapping implements the error taxonomy of the orchestration layer:
//
//   - clean exit            → the child's exit code, passed through
//   - non-zero exit         → the child's exit code, passed through
//   - context deadline hit  → 124 (GNU timeout convention); the child was
//     killed, partial output is preserved
//   - docker binary missing → 127 with a synthesized stderr
//   - permission denied     → 126 with a synthesized stderr
//
// Any other spawn failure is returned as a Go error: it signals a
// programming or environment problem this layer does not own.
func (e *Engine) finish(ctx context.Context, argv []string, stdout, stderr string, err error) (model.RunResult, error) {
	result := model.RunResult{
		Stdout:  stdout,
		Stderr:  stderr,
		Command: argv,
	}

	// The deadline check comes first: a killed child reports
	// "signal: killed", which must not be mistaken for a docker failure.
	if ctx.Err() == context.DeadlineExceeded {
		result.ReturnCode = model.ExitRunTimeout
		if result.Stderr == "" {
			result.Stderr = "Timeout: container command exceeded the allowed duration"
		}
		return result, nil
	}

	if err == nil {
		result.ReturnCode = 0
		return result, nil
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		result.ReturnCode = exitErr.ExitCode()
		return result, nil
	}

	switch {
	case errors.Is(err, exec.ErrNotFound), errors.Is(err, os.ErrNotExist):
		result.ReturnCode = model.ExitRunNotFound
		result.Stderr = "Docker command not found: " + err.Error()
		return result, nil
	case errors.Is(err, os.ErrPermission):
		result.ReturnCode = model.ExitRunPermission
		result.Stderr = "Permission denied: " + err.Error()
		return result, nil
	}

	return result, err
}
