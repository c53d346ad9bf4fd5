// Package cli — agents.go implements the "codeagent agents" command.
//
// Agents lists the available agent definitions: the built-in table plus
// any overrides from ~/.config/codeagent/agents.json.
package cli

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/toolkit-infra/codeagent/internal/config"
)

// NewAgentsCommand creates the "agents" cobra command.
func NewAgentsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "agents",
		Short: "List the available coding agents",
		Long: `List the coding agents codeagent can run, including any definitions
added or overridden via agents.json in the config directory.

Examples:
  codeagent agents
  codeagent agents --verbose
  codeagent agents --json`,

		Args: cobra.NoArgs,

		RunE: func(cmd *cobra.Command, args []string) error {
			return runAgents()
		},
	}

	return cmd
}

// runAgents is the main logic function for the agents command.
func runAgents() error {
	agents, err := config.LoadAgents()
	if err != nil {
		return err
	}

	if IsJSONOutput() {
		data, _ := json.MarshalIndent(agents, "", "  ")
		fmt.Println(string(data))
		return nil
	}

	header("Available agents")
	for _, name := range agentNames(agents) {
		a := agents[name]
		fmt.Printf("  %-10s %-10s %s\n", name, a.Binary, a.Description)
		if verbose {
			fmt.Printf("  %s\n", styleDim.Render(formatAgentDetail(a)))
		}
	}
	return nil
}

// formatAgentDetail renders an agent's flag sets on one line for verbose
// output. Empty flag sets are omitted.
func formatAgentDetail(a config.AgentConfig) string {
	var parts []string
	if len(a.HeadlessFlags) > 0 {
		parts = append(parts, "headless: "+strings.Join(a.HeadlessFlags, " "))
	}
	if len(a.ReadOnlyFlags) > 0 {
		parts = append(parts, "read-only: "+strings.Join(a.ReadOnlyFlags, " "))
	}
	if len(a.WriteFlags) > 0 {
		parts = append(parts, "write: "+strings.Join(a.WriteFlags, " "))
	}
	if len(a.JSONFlags) > 0 {
		parts = append(parts, "json: "+strings.Join(a.JSONFlags, " "))
	}
	if a.ModelFlag != "" {
		parts = append(parts, "model flag: "+a.ModelFlag)
	}
	return strings.Join(parts, " | ")
}
