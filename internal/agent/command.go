// Package agent builds the shell command string that runs a coding agent
// inside the sandbox container.
//
// The builder is a pure string function: it quotes the binary and flags,
// appends the prompt template, and returns a single string suitable for
// "zsh -c". The orchestration layer treats the result as opaque — it never
// re-parses or interprets it. The prompt itself is NOT embedded: the
// template references $AGENT_PROMPT, which the container shell expands from
// the environment, sidestepping prompt escaping entirely.
package agent

import (
	"strings"

	"github.com/toolkit-infra/codeagent/internal/config"
)

// BuildOptions selects the agent invocation mode.
type BuildOptions struct {
	// Write enables file modifications (write_flags instead of
	// read_only_flags).
	Write bool

	// JSONOutput requests machine-readable agent output (json_flags).
	JSONOutput bool

	// Model overrides the agent's default model; empty means no override.
	Model string
}

// BuildCommand assembles the in-container shell command for one headless
// agent execution. Flag order matters to some agent CLIs, so the order is
// fixed: binary, headless flags, model override, mode flags, JSON flags,
// prompt template.
func BuildCommand(cfg config.AgentConfig, opts BuildOptions) string {
	parts := []string{quote(cfg.Binary)}

	for _, f := range cfg.HeadlessFlags {
		parts = append(parts, quote(f))
	}

	if opts.Model != "" {
		parts = append(parts, quote(cfg.ModelFlag), quote(opts.Model))
	}

	if opts.Write {
		for _, f := range cfg.WriteFlags {
			parts = append(parts, quote(f))
		}
	} else {
		for _, f := range cfg.ReadOnlyFlags {
			parts = append(parts, quote(f))
		}
	}

	if opts.JSONOutput {
		for _, f := range cfg.JSONFlags {
			parts = append(parts, quote(f))
		}
	}

	// The template goes last, unquoted: it must keep its $AGENT_PROMPT
	// reference intact for shell expansion inside the container.
	parts = append(parts, cfg.PromptTemplate)

	return strings.Join(parts, " ")
}

// quote single-quotes a string for POSIX shells when it contains anything
// beyond safe word characters. Embedded single quotes use the standard
// '\'' splice.
func quote(s string) string {
	if s == "" {
		return "''"
	}
	if isSafeWord(s) {
		return s
	}
	return "'" + strings.ReplaceAll(s, "'", `'\''`) + "'"
}

// isSafeWord reports whether s needs no quoting: letters, digits, and the
// characters commonly found in flags and paths.
func isSafeWord(s string) bool {
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
		case r == '-' || r == '_' || r == '.' || r == '/' || r == '=' || r == ':' || r == ',' || r == '@' || r == '%' || r == '+':
		default:
			return false
		}
	}
	return true
}
