// orchestrator.go assembles and executes docker compose invocations for
// the sandbox container: one-shot runs (interactive shell or headless
// agent execution), image builds, and service up/down.
//
// Assembly is pure and in-process; the only side effect is the final child
// process spawn. Expected failures — a non-zero exit inside the container,
// a timeout, a missing or unusable docker binary — are all encoded in the
// returned RunResult, never raised as errors.
package docker

import (
	"context"
	"sort"
	"strconv"
	"time"

	"github.com/toolkit-infra/codeagent/internal/config"
	"github.com/toolkit-infra/codeagent/internal/model"
)

// WorkspaceDir is the fixed in-container path for the optional workspace
// bind mount. When a mount is requested, it also becomes the working
// directory of the container command.
const WorkspaceDir = "/home/dev/workspace"

// FirewallEnvVar toggles the container's outbound firewall. It is present
// on every run, mirroring ContainerOptions.Firewall.
const FirewallEnvVar = "ENABLE_FIREWALL"

// RunSpec describes one `docker compose run` invocation.
type RunSpec struct {
	// Command is the shell command executed inside the container via
	// `-c <command>`. Empty starts the service's default interactive
	// shell. The orchestrator treats the string as opaque.
	Command string

	// Interactive attaches the parent's terminal to the container.
	// When false, -T disables pseudo-TTY allocation and output is
	// captured instead of streamed.
	Interactive bool

	// Env holds additional container environment variables, passed as
	// -e KEY=VALUE pairs. The firewall toggle is always added; keys are
	// emitted in sorted order so argument vectors are stable for tests.
	Env map[string]string

	// Service is the Compose service to run. Empty means DefaultService.
	Service string

	// Profile optionally activates a Compose profile (e.g. "auth" for the
	// host-network OAuth mode).
	Profile string

	// Timeout bounds headless execution. Zero means unbounded. Ignored in
	// interactive mode, where the session ends when the user exits.
	Timeout time.Duration
}

// Run executes a sandbox container via docker compose run.
//
// The argument vector is assembled in a fixed order: compose files for the
// Docker access mode, optional profile, run --rm, TTY flag, environment
// pairs, workspace mount, shell config mounts, service name, and finally
// the command. Execution then depends on the mode: interactive
// runs inherit the terminal and block until the user exits; headless runs
// capture output and honor the timeout.
//
// The returned error is nil for every expected outcome, including
// in-container failures and spawn failures (see RunResult's reserved
// return codes). A non-nil error indicates an unexpected condition the
// caller should surface as a bug rather than a run outcome.
func (e *Engine) Run(ctx context.Context, cfg config.AppConfig, opts model.ContainerOptions, spec RunSpec) (model.RunResult, error) {
	service := spec.Service
	if service == "" {
		service = DefaultService
	}

	args := append([]string{"compose"}, e.ComposeFiles(opts.Mode)...)
	if spec.Profile != "" {
		args = append(args, "--profile", spec.Profile)
	}
	args = append(args, "run", "--rm")

	if !spec.Interactive {
		args = append(args, "-T")
	}

	envPairs := containerEnv(opts, spec.Env)
	for _, pair := range envPairs {
		args = append(args, "-e", pair)
	}

	if opts.MountPath != "" {
		args = append(args, "-v", opts.MountPath+":"+WorkspaceDir)
		args = append(args, "--workdir", WorkspaceDir)
	}

	if opts.ShellMounts {
		args = append(args, e.ShellMountArgs(cfg)...)
	}

	args = append(args, service)

	if spec.Command != "" {
		args = append(args, "-c", spec.Command)
	}

	// The container env pairs are also exported to the compose process
	// itself, alongside the config-derived substitution variables the
	// base Compose file interpolates (resource limits, timezone, the
	// projects directory).
	extraEnv := append(composeEnv(cfg), envPairs...)

	if spec.Interactive {
		return e.runInteractive(ctx, extraEnv, args...)
	}

	if spec.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, spec.Timeout)
		defer cancel()
	}

	return e.runCaptured(ctx, extraEnv, args...)
}

// Build builds the sandbox image via docker compose build.
func (e *Engine) Build(ctx context.Context, cfg config.AppConfig, noCache bool) (model.RunResult, error) {
	args := append([]string{"compose"}, e.ComposeFiles(model.DockerNone)...)
	args = append(args, "build")
	if noCache {
		args = append(args, "--no-cache")
	}
	return e.runCaptured(ctx, composeEnv(cfg), args...)
}

// Up starts Compose services detached. The mode selects the overlay files,
// so starting the docker-proxy service requires DockerProxied.
func (e *Engine) Up(ctx context.Context, cfg config.AppConfig, mode model.DockerMode, services ...string) (model.RunResult, error) {
	args := append([]string{"compose"}, e.ComposeFiles(mode)...)
	args = append(args, "up", "-d")
	args = append(args, services...)
	return e.runCaptured(ctx, composeEnv(cfg), args...)
}

// Down stops and removes the Compose services, optionally removing named
// volumes for a complete wipe.
func (e *Engine) Down(ctx context.Context, cfg config.AppConfig, mode model.DockerMode, removeVolumes bool) (model.RunResult, error) {
	args := append([]string{"compose"}, e.ComposeFiles(mode)...)
	args = append(args, "down")
	if removeVolumes {
		args = append(args, "-v")
	}
	return e.runCaptured(ctx, composeEnv(cfg), args...)
}

// containerEnv merges the always-present firewall toggle with the caller's
// environment into KEY=VALUE pairs. The firewall toggle comes first, then
// the caller's keys in sorted order — the order carries no meaning, but a
// deterministic vector keeps tests and verbose output stable.
func containerEnv(opts model.ContainerOptions, env map[string]string) []string {
	pairs := []string{FirewallEnvVar + "=" + strconv.FormatBool(opts.Firewall)}

	keys := make([]string, 0, len(env))
	for k := range env {
		if k == FirewallEnvVar {
			// The option wins over a caller-supplied duplicate.
			continue
		}
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		pairs = append(pairs, k+"="+env[k])
	}
	return pairs
}

// composeEnv produces the substitution variables the Compose files
// interpolate: timezone, the projects directory, and container resource
// limits from the application config.
func composeEnv(cfg config.AppConfig) []string {
	return []string{
		"TZ=" + cfg.Timezone,
		"CODE_DIR=" + cfg.CodeDir,
		"CPU_LIMIT=" + strconv.Itoa(cfg.Resources.CPULimit),
		"MEMORY_LIMIT=" + cfg.Resources.MemoryLimit,
		"CPU_RESERVATION=" + strconv.Itoa(cfg.Resources.CPUReservation),
		"MEMORY_RESERVATION=" + cfg.Resources.MemoryReservation,
	}
}
