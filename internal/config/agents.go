package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/tidwall/jsonc"

	"github.com/toolkit-infra/codeagent/internal/model"
)

// AgentConfig defines how to invoke one CLI coding agent inside the
// sandbox: the binary, the flag sets for its different modes, and the
// template that injects the prompt.
//
// The prompt template references $AGENT_PROMPT rather than embedding the
// prompt text, so the prompt travels through the environment and never
// needs shell escaping.
type AgentConfig struct {
	// Binary is the executable name inside the container (e.g. "claude").
	Binary string `json:"binary"`

	// Description is a human-readable summary shown by "codeagent agents".
	Description string `json:"description"`

	// HeadlessFlags enable non-interactive mode (e.g. ["-p"]).
	HeadlessFlags []string `json:"headless_flags"`

	// ReadOnlyFlags select plan/analysis mode (e.g. ["--permission-mode", "plan"]).
	ReadOnlyFlags []string `json:"read_only_flags"`

	// WriteFlags allow file modifications (e.g. ["--dangerously-skip-permissions"]).
	WriteFlags []string `json:"write_flags"`

	// JSONFlags request machine-readable output (e.g. ["--output-format", "json"]).
	JSONFlags []string `json:"json_flags"`

	// ModelFlag is the flag used to select a model ("--model" or "-m").
	ModelFlag string `json:"model_flag"`

	// PromptTemplate is appended last; it expands $AGENT_PROMPT in the
	// container shell.
	PromptTemplate string `json:"prompt_template"`
}

// DefaultAgents returns the built-in agent table. Users can override or
// extend it via agents.json in the config directory.
func DefaultAgents() map[string]AgentConfig {
	return map[string]AgentConfig{
		"claude": {
			Binary:         "claude",
			Description:    "Anthropic Claude Code CLI",
			HeadlessFlags:  []string{"-p"},
			ReadOnlyFlags:  []string{"--permission-mode", "plan"},
			WriteFlags:     []string{"--dangerously-skip-permissions"},
			JSONFlags:      []string{"--output-format", "json"},
			ModelFlag:      "--model",
			PromptTemplate: `"$AGENT_PROMPT"`,
		},
		"gemini": {
			Binary:         "gemini",
			Description:    "Google Gemini CLI",
			HeadlessFlags:  []string{"-p"},
			JSONFlags:      []string{"--output-format", "json"},
			ModelFlag:      "-m",
			PromptTemplate: `"$AGENT_PROMPT"`,
		},
		"codex": {
			Binary:         "codex",
			Description:    "OpenAI Codex CLI",
			HeadlessFlags:  []string{"exec"},
			WriteFlags:     []string{"--full-auto"},
			JSONFlags:      []string{"--json"},
			ModelFlag:      "--model",
			PromptTemplate: `"$AGENT_PROMPT"`,
		},
		"opencode": {
			Binary:         "opencode",
			Description:    "Anomaly OpenCode CLI",
			HeadlessFlags:  []string{"run"},
			ReadOnlyFlags:  []string{"--agent", "plan"},
			JSONFlags:      []string{"--format", "json"},
			ModelFlag:      "-m",
			PromptTemplate: `"$AGENT_PROMPT"`,
		},
	}
}

// LoadAgents returns the agent table: the built-in defaults overlaid with
// any entries from agents.json in the config directory. The file may
// contain // comments and trailing commas (JSONC); a missing file simply
// yields the defaults.
func LoadAgents() (map[string]AgentConfig, error) {
	dir, err := Dir()
	if err != nil {
		return nil, model.WrapCLIError(model.ExitConfigNotFound, "cannot locate config directory", err)
	}
	return LoadAgentsFile(filepath.Join(dir, AgentsFileName))
}

// LoadAgentsFile loads agent definitions from an explicit path, merging
// them over the defaults. Entries in the file replace same-named defaults
// wholesale rather than field-by-field, which keeps override semantics
// predictable.
func LoadAgentsFile(path string) (map[string]AgentConfig, error) {
	agents := DefaultAgents()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return agents, nil
		}
		return nil, model.WrapCLIError(model.ExitConfigNotFound,
			fmt.Sprintf("cannot read agents file %s", path), err)
	}

	// Strip JSONC comments before parsing, the same tolerance applied to
	// hand-edited JSON config elsewhere in the ecosystem.
	var overrides map[string]AgentConfig
	if err := json.Unmarshal(jsonc.ToJSON(data), &overrides); err != nil {
		return nil, model.WrapCLIError(model.ExitConfigNotFound,
			fmt.Sprintf("invalid agents file %s", path), err)
	}

	for name, cfg := range overrides {
		if cfg.Binary == "" {
			return nil, model.NewCLIError(model.ExitConfigNotFound,
				fmt.Sprintf("agents file %s: agent %q has no binary", path, name))
		}
		if cfg.ModelFlag == "" {
			cfg.ModelFlag = "--model"
		}
		if cfg.PromptTemplate == "" {
			cfg.PromptTemplate = `"$AGENT_PROMPT"`
		}
		agents[name] = cfg
	}

	return agents, nil
}
