// Package cli — run.go implements the "codeagent run" command.
//
// Run executes a coding agent headlessly inside the sandbox and relays its
// output. Orchestration steps:
//  1. Resolve the agent definition (built-in table plus agents.json)
//  2. Build the in-container command string for the selected mode
//  3. Ensure daemon and network, then compose run the dev service with
//     the prompt carried in the AGENT_PROMPT environment variable
//  4. Relay agent stdout to stdout, diagnostics to stderr
//  5. Tear down the docker-proxy and exit with the agent's own code
//
// The process exit code mirrors the container command: 0 on success, the
// agent's code on failure, 124 on timeout, 126/127 for an unusable docker
// binary.
package cli

import (
	"context"
	"fmt"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/toolkit-infra/codeagent/internal/agent"
	"github.com/toolkit-infra/codeagent/internal/config"
	"github.com/toolkit-infra/codeagent/internal/docker"
	"github.com/toolkit-infra/codeagent/internal/model"
	"github.com/toolkit-infra/codeagent/internal/paths"
)

// runFlags holds the flag values for the run command.
type runFlags struct {
	write        bool   // --write: allow the agent to modify files
	model        string // --model: override the agent's default model
	dockerProxy  bool   // --docker: proxied Docker socket access
	dockerDirect bool   // --docker-direct: unmediated socket bind mount
	firewall     bool   // --firewall: restrict outbound network traffic
	mount        string // --mount: workspace directory for the agent
	timeout      int    // --timeout: seconds before the run is killed
}

// NewRunCommand creates the "run" cobra command.
func NewRunCommand() *cobra.Command {
	flags := &runFlags{}

	cmd := &cobra.Command{
		Use:   "run <agent> <prompt>",
		Short: "Run a coding agent headlessly in the sandbox",
		Long: `Run a coding agent headlessly inside the sandbox container.

The agent runs in read-only (plan) mode unless --write is given. The
prompt travels to the container through the AGENT_PROMPT environment
variable, so no shell escaping of the prompt text is needed.

The process exit code is the agent's own exit code; 124 indicates the
--timeout was exceeded.

Examples:
  codeagent run claude "explain the build system"
  codeagent run claude --write --mount ~/projects/api "fix the failing test"
  codeagent run codex --json --timeout 600 "summarize recent changes"`,

		Args: cobra.ExactArgs(2),

		RunE: func(cmd *cobra.Command, args []string) error {
			return runRun(cmd.Context(), args[0], args[1], flags)
		},
	}

	cmd.Flags().BoolVar(&flags.write, "write", false, "Allow the agent to modify files")
	cmd.Flags().StringVar(&flags.model, "model", "", "Override the agent's default model")
	cmd.Flags().BoolVar(&flags.dockerProxy, "docker", false, "Enable Docker access via the filtering proxy")
	cmd.Flags().BoolVar(&flags.dockerDirect, "docker-direct", false, "Enable direct Docker socket access (unrestricted)")
	cmd.Flags().BoolVar(&flags.firewall, "firewall", false, "Enable the outbound network firewall")
	cmd.Flags().StringVar(&flags.mount, "mount", "", "Mount the given directory as the container workspace")
	cmd.Flags().IntVar(&flags.timeout, "timeout", 0, "Kill the run after this many seconds (0 = no limit)")

	return cmd
}

// runRun is the main logic function for the run command.
func runRun(ctx context.Context, agentName, prompt string, flags *runFlags) error {
	agents, err := config.LoadAgents()
	if err != nil {
		return err
	}
	agentCfg, ok := agents[agentName]
	if !ok {
		return model.NewCLIError(model.ExitUnknownAgent,
			fmt.Sprintf("unknown agent %q (available: %s)", agentName, strings.Join(agentNames(agents), ", ")))
	}

	mode, err := model.ParseDockerMode(flags.dockerProxy, flags.dockerDirect)
	if err != nil {
		return model.WrapCLIError(model.ExitGeneralError, "invalid flags", err)
	}

	mountPath, err := resolveRunMount(flags.mount)
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

	command := agent.BuildCommand(agentCfg, agent.BuildOptions{
		Write:      flags.write,
		JSONOutput: IsJSONOutput(),
		Model:      flags.model,
	})

	opts := agentRunOptions(mode, flags.firewall, mountPath)
	spec := docker.RunSpec{
		Command: command,
		Env:     map[string]string{"AGENT_PROMPT": prompt},
		Timeout: time.Duration(flags.timeout) * time.Second,
	}

	if !IsJSONOutput() {
		statusLine(true, "running %s (%s mode)", agentName, agentMode(flags.write))
	}
	result, runErr := engine.Run(ctx, cfg, opts, spec)

	if !engine.CleanupDockerProxy(context.WithoutCancel(ctx), mode) {
		statusLine(false, "docker-proxy teardown incomplete, see warnings above")
	}

	if runErr != nil {
		return model.WrapCLIError(model.ExitGeneralError, "failed to run agent", runErr)
	}

	// Agent output owns stdout; everything else goes to stderr.
	fmt.Print(result.Stdout)
	if result.Stderr != "" {
		fmt.Fprint(os.Stderr, result.Stderr)
		if !strings.HasSuffix(result.Stderr, "\n") {
			fmt.Fprintln(os.Stderr)
		}
	}

	if !result.Success() {
		if !IsJSONOutput() {
			statusLine(false, "%s exited with code %d", agentName, result.ReturnCode)
		}
		return silentExit(result.ReturnCode)
	}
	if !IsJSONOutput() {
		statusLine(true, "%s finished", agentName)
	}
	return nil
}

// resolveRunMount picks the agent's workspace directory: the --mount flag
// when given, the current directory otherwise. Agent runs always get a
// workspace — the prompt almost always refers to the code the user is
// standing in.
func resolveRunMount(mount string) (string, error) {
	target := mount
	if target == "" {
		cwd, err := os.Getwd()
		if err != nil {
			return "", model.WrapCLIError(model.ExitGeneralError, "cannot determine current directory", err)
		}
		target = cwd
	}

	resolved, err := paths.ResolveMountPath(target)
	if err != nil {
		return "", model.WrapCLIError(model.ExitGeneralError, "invalid workspace mount", err)
	}
	return resolved, nil
}

// agentRunOptions builds the container options for a headless agent run.
// Shell mounts ride along so the agent's shell environment matches the
// user's; the config-level skip_mounts gate still applies inside the
// mount resolver.
func agentRunOptions(mode model.DockerMode, firewall bool, mountPath string) model.ContainerOptions {
	return model.ContainerOptions{
		Mode:        mode,
		Firewall:    firewall,
		MountPath:   mountPath,
		ShellMounts: true,
	}
}

// agentMode names the permission mode for status output.
func agentMode(write bool) string {
	if write {
		return "write"
	}
	return "read-only"
}

// agentNames returns the sorted names of the agent table.
func agentNames(agents map[string]config.AgentConfig) []string {
	names := make([]string, 0, len(agents))
	for name := range agents {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
