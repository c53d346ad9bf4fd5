// Package cli — auth.go implements the "codeagent auth" command.
//
// Agent CLIs authenticate through browser-based OAuth flows that need a
// localhost callback. The sandbox network isolates the container from the
// host's loopback interface, so auth runs under the dedicated "auth"
// Compose profile, which attaches the dev service to the host network for
// the duration of the login.
package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/toolkit-infra/codeagent/internal/config"
	"github.com/toolkit-infra/codeagent/internal/docker"
	"github.com/toolkit-infra/codeagent/internal/model"
)

// proxySettleDelay gives the docker-proxy service a moment to open its
// listening socket before the main container tries to reach it.
var proxySettleDelay = 2 * time.Second

// authFlags holds the flag values for the auth command.
type authFlags struct {
	dockerProxy bool // --docker: proxied Docker socket access during auth
}

// NewAuthCommand creates the "auth" cobra command.
func NewAuthCommand() *cobra.Command {
	flags := &authFlags{}

	cmd := &cobra.Command{
		Use:   "auth",
		Short: "Start a host-network shell for agent OAuth login",
		Long: `Start an interactive sandbox shell on the host network so agent CLIs
can complete browser-based OAuth logins (their callback servers bind to
localhost).

Credentials written during login land in the persistent credential
volumes and survive container restarts.

Examples:
  codeagent auth
  codeagent auth --docker`,

		Args: cobra.NoArgs,

		RunE: func(cmd *cobra.Command, args []string) error {
			return runAuth(cmd.Context(), flags)
		},
	}

	cmd.Flags().BoolVar(&flags.dockerProxy, "docker", false, "Enable Docker access via the filtering proxy")

	return cmd
}

// runAuth is the main logic function for the auth command.
func runAuth(ctx context.Context, flags *authFlags) error {
	mode, err := model.ParseDockerMode(flags.dockerProxy, false)
	if err != nil {
		return model.WrapCLIError(model.ExitGeneralError, "invalid flags", err)
	}

	cfg, engine, err := commandSetup()
	if err != nil {
		return err
	}
	if err := preflightDaemon(ctx); err != nil {
		return err
	}
	if err := ensureNetworkOrFail(ctx, engine); err != nil {
		return err
	}
	if err := startProxyIfNeeded(ctx, engine, cfg, mode); err != nil {
		return err
	}

	opts := model.ContainerOptions{
		Mode:        mode,
		ShellMounts: true,
	}

	statusLine(true, "starting auth shell on the host network")
	result, runErr := engine.Run(ctx, cfg, opts, docker.RunSpec{
		Interactive: true,
		Profile:     "auth",
	})

	if !engine.CleanupDockerProxy(context.WithoutCancel(ctx), mode) {
		statusLine(false, "docker-proxy teardown incomplete, see warnings above")
	}

	if runErr != nil {
		return model.WrapCLIError(model.ExitGeneralError, "failed to start auth shell", runErr)
	}
	if !result.Success() {
		return silentExit(result.ReturnCode)
	}
	return nil
}

// startProxyIfNeeded pre-starts the docker-proxy service for proxied mode.
// On the sandbox network compose starts the proxy as a dependency of the
// dev service, but the auth profile runs on the host network, where the
// proxy must be brought up as a separate service before the main run.
func startProxyIfNeeded(ctx context.Context, engine *docker.Engine, cfg config.AppConfig, mode model.DockerMode) error {
	if mode != model.DockerProxied {
		return nil
	}

	result, err := engine.Up(ctx, cfg, model.DockerProxied, docker.ProxyService)
	if err != nil {
		return model.WrapCLIError(model.ExitGeneralError, "failed to start docker-proxy", err)
	}
	if !result.Success() {
		return model.NewCLIError(model.ExitGeneralError,
			fmt.Sprintf("failed to start docker-proxy (exit code %d)", result.ReturnCode))
	}

	time.Sleep(proxySettleDelay)
	return nil
}
