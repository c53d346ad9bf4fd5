// setup.go holds the shared bootstrap sequence for commands that talk to
// Docker: resolve the project root, load the configuration, construct the
// orchestration engine, and verify the daemon is reachable.
package cli

import (
	"context"

	"github.com/toolkit-infra/codeagent/internal/config"
	"github.com/toolkit-infra/codeagent/internal/docker"
	"github.com/toolkit-infra/codeagent/internal/model"
	"github.com/toolkit-infra/codeagent/internal/paths"
)

// projectRoot locates the directory holding the Compose files.
func projectRoot() (string, error) {
	root, err := paths.FindProjectRoot()
	if err != nil {
		return "", model.WrapCLIError(model.ExitGeneralError, "cannot locate sandbox project root", err)
	}
	return root, nil
}

// commandSetup loads the configuration and builds an Engine rooted at the
// sandbox project directory. Every Docker-touching command starts here.
func commandSetup() (config.AppConfig, *docker.Engine, error) {
	root, err := projectRoot()
	if err != nil {
		return config.AppConfig{}, nil, err
	}

	cfg, err := config.Load()
	if err != nil {
		return config.AppConfig{}, nil, err
	}

	engine := docker.NewEngine(docker.EngineOptions{
		ProjectRoot: root,
		Logger:      newLogger(),
	})
	return cfg, engine, nil
}

// preflightDaemon verifies the Docker daemon is reachable before any
// compose invocation is attempted. A dead daemon fails here in seconds
// with a dedicated exit code, instead of surfacing as an opaque compose
// error minutes into a build.
func preflightDaemon(ctx context.Context) error {
	cli, err := docker.NewClient()
	if err != nil {
		return err // NewClient already returns CLIError with ExitDockerNotRunning
	}
	defer func() { _ = cli.Close() }()

	return cli.Ping(ctx)
}

// ensureNetworkOrFail wraps Engine.EnsureNetwork into the error model:
// an unusable network is fatal to every container-running command.
func ensureNetworkOrFail(ctx context.Context, engine *docker.Engine) error {
	if !engine.EnsureNetwork(ctx) {
		return model.NewCLIError(model.ExitNetworkFailed,
			"failed to create Docker network "+engine.Network())
	}
	return nil
}
