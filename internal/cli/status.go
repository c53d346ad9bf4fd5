// Package cli — status.go implements the "codeagent status" command.
//
// Status reports the health of the sandbox environment: daemon
// reachability and version (via the SDK preflight client), sandbox
// network existence, running sandbox containers, and which persistent
// volumes exist.
package cli

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/toolkit-infra/codeagent/internal/config"
	"github.com/toolkit-infra/codeagent/internal/docker"
)

// NewStatusCommand creates the "status" cobra command.
func NewStatusCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show sandbox environment status",
		Long: `Show the status of the sandbox environment: Docker daemon
reachability, sandbox network, running containers, and persistent
volumes.

Examples:
  codeagent status
  codeagent status --json`,

		Args: cobra.NoArgs,

		RunE: func(cmd *cobra.Command, args []string) error {
			return runStatus(cmd.Context())
		},
	}

	return cmd
}

// statusReport is the JSON output structure for the status command.
type statusReport struct {
	DaemonReachable bool     `json:"daemonReachable"`
	DaemonVersion   string   `json:"daemonVersion,omitempty"`
	Network         string   `json:"network"`
	NetworkExists   bool     `json:"networkExists"`
	Containers      []string `json:"containers"`
	Volumes         []string `json:"volumes"`
}

// runStatus is the main logic function for the status command.
func runStatus(ctx context.Context) error {
	report := statusReport{
		Containers: []string{},
		Volumes:    []string{},
	}

	// Daemon preflight: reachability and version via the SDK client.
	if cli, err := docker.NewClient(); err == nil {
		if pingErr := cli.Ping(ctx); pingErr == nil {
			report.DaemonReachable = true
			if ver, verErr := cli.ServerVersion(ctx); verErr == nil {
				report.DaemonVersion = ver
			}
		}
		_ = cli.Close()
	}

	// The resource probes only make sense against a live daemon; the
	// engine only needs the project root, not the full configuration, so
	// status works even before config.yaml exists.
	if report.DaemonReachable {
		root, err := projectRoot()
		if err != nil {
			return err
		}
		engine := docker.NewEngine(docker.EngineOptions{
			ProjectRoot: root,
			Logger:      newLogger(),
		})

		report.Network = engine.Network()
		report.NetworkExists = engine.NetworkExists(ctx)
		report.Containers = engine.RunningContainers(ctx)
		report.Volumes = engine.ExistingVolumes(ctx, config.AllVolumes())
	}

	if IsJSONOutput() {
		data, _ := json.MarshalIndent(report, "", "  ")
		fmt.Println(string(data))
		return nil
	}

	printStatusText(report)
	return nil
}

// printStatusText renders the status report as human-readable text.
func printStatusText(r statusReport) {
	header("Sandbox status")

	if r.DaemonReachable {
		version := r.DaemonVersion
		if version == "" {
			version = "unknown version"
		}
		fmt.Printf("  %s Docker daemon reachable (%s)\n", okMark(), version)
	} else {
		fmt.Printf("  %s Docker daemon not reachable\n", failMark())
		return
	}

	if r.NetworkExists {
		fmt.Printf("  %s network %s exists\n", okMark(), r.Network)
	} else {
		fmt.Printf("  %s network %s missing (created on next start)\n", failMark(), r.Network)
	}

	if len(r.Containers) == 0 {
		fmt.Println("  no sandbox containers running")
	} else {
		fmt.Println("  running containers:")
		for _, name := range r.Containers {
			fmt.Printf("    %s\n", name)
		}
	}

	if len(r.Volumes) == 0 {
		fmt.Println("  no persistent volumes yet")
	} else {
		fmt.Printf("  persistent volumes: %d\n", len(r.Volumes))
		for _, name := range r.Volumes {
			fmt.Printf("    %s\n", name)
		}
	}
}
