// Package cli — start.go implements the "codeagent start" command.
//
// Start drops the user into an interactive shell inside the sandbox
// container. Orchestration steps:
//  1. Load configuration and locate the project root
//  2. Verify the Docker daemon is reachable (fast fail)
//  3. Ensure the sandbox network exists (fatal if it cannot be created)
//  4. Run the dev service interactively with the selected Docker access
//     mode, firewall setting, and workspace mount
//  5. Tear down the docker-proxy container on every exit path
package cli

import (
	"context"
	"os"

	"github.com/spf13/cobra"

	"github.com/toolkit-infra/codeagent/internal/docker"
	"github.com/toolkit-infra/codeagent/internal/model"
	"github.com/toolkit-infra/codeagent/internal/paths"
)

// startFlags holds the flag values for the start command.
type startFlags struct {
	dockerProxy  bool   // --docker: proxied Docker socket access
	dockerDirect bool   // --docker-direct: unmediated socket bind mount
	firewall     bool   // --firewall: restrict outbound network traffic
	here         bool   // --here: mount the current directory as the workspace
	mount        string // --mount: mount an explicit directory as the workspace
}

// NewStartCommand creates the "start" cobra command.
func NewStartCommand() *cobra.Command {
	flags := &startFlags{}

	cmd := &cobra.Command{
		Use:   "start",
		Short: "Start an interactive shell in the sandbox",
		Long: `Start an interactive shell inside the sandbox container.

Docker access is off by default. --docker routes it through a filtering
proxy container; --docker-direct bind-mounts the host socket unmediated.
The two flags are mutually exclusive.

Examples:
  codeagent start
  codeagent start --here --firewall
  codeagent start --docker --mount ~/projects/api`,

		Args: cobra.NoArgs,

		RunE: func(cmd *cobra.Command, args []string) error {
			return runStart(cmd.Context(), flags)
		},
	}

	cmd.Flags().BoolVar(&flags.dockerProxy, "docker", false, "Enable Docker access via the filtering proxy")
	cmd.Flags().BoolVar(&flags.dockerDirect, "docker-direct", false, "Enable direct Docker socket access (unrestricted)")
	cmd.Flags().BoolVar(&flags.firewall, "firewall", false, "Enable the outbound network firewall")
	cmd.Flags().BoolVar(&flags.here, "here", false, "Mount the current directory as the container workspace")
	cmd.Flags().StringVar(&flags.mount, "mount", "", "Mount the given directory as the container workspace")

	return cmd
}

// runStart is the main logic function for the start command.
func runStart(ctx context.Context, flags *startFlags) error {
	mode, err := model.ParseDockerMode(flags.dockerProxy, flags.dockerDirect)
	if err != nil {
		return model.WrapCLIError(model.ExitGeneralError, "invalid flags", err)
	}

	mountPath, err := resolveWorkspaceMount(flags.here, flags.mount)
	if err != nil {
		return err
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

	opts := model.ContainerOptions{
		Mode:        mode,
		Firewall:    flags.firewall,
		MountPath:   mountPath,
		ShellMounts: true,
	}

	statusLine(true, "starting sandbox shell (docker: %s, firewall: %v)", mode, flags.firewall)
	result, runErr := engine.Run(ctx, cfg, opts, docker.RunSpec{Interactive: true})

	// The proxy teardown must happen whether the shell exited cleanly or
	// not — an orphaned proxy keeps a channel to the host socket open.
	if !engine.CleanupDockerProxy(context.WithoutCancel(ctx), mode) {
		statusLine(false, "docker-proxy teardown incomplete, see warnings above")
	}

	if runErr != nil {
		return model.WrapCLIError(model.ExitGeneralError, "failed to start sandbox shell", runErr)
	}
	if !result.Success() {
		// Propagate the shell's own exit status without an error banner.
		return silentExit(result.ReturnCode)
	}
	return nil
}

// resolveWorkspaceMount turns the --here/--mount flag pair into a validated
// host directory path, or "" when no workspace mount was requested.
func resolveWorkspaceMount(here bool, mount string) (string, error) {
	if here && mount != "" {
		return "", model.NewCLIError(model.ExitGeneralError, "--here and --mount are mutually exclusive")
	}

	target := mount
	if here {
		cwd, err := os.Getwd()
		if err != nil {
			return "", model.WrapCLIError(model.ExitGeneralError, "cannot determine current directory", err)
		}
		target = cwd
	}
	if target == "" {
		return "", nil
	}

	resolved, err := paths.ResolveMountPath(target)
	if err != nil {
		return "", model.WrapCLIError(model.ExitGeneralError, "invalid workspace mount", err)
	}
	return resolved, nil
}
