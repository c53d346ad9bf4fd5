package agent

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/toolkit-infra/codeagent/internal/config"
)

// testAgent returns a representative agent definition with every flag
// category populated.
func testAgent() config.AgentConfig {
	return config.AgentConfig{
		Binary:         "claude",
		HeadlessFlags:  []string{"-p"},
		ReadOnlyFlags:  []string{"--permission-mode", "plan"},
		WriteFlags:     []string{"--dangerously-skip-permissions"},
		JSONFlags:      []string{"--output-format", "json"},
		ModelFlag:      "--model",
		PromptTemplate: `"$AGENT_PROMPT"`,
	}
}

func TestBuildCommand_ReadOnlyDefault(t *testing.T) {
	cmd := BuildCommand(testAgent(), BuildOptions{})

	assert.Equal(t, `claude -p --permission-mode plan "$AGENT_PROMPT"`, cmd)
}

func TestBuildCommand_WriteMode(t *testing.T) {
	cmd := BuildCommand(testAgent(), BuildOptions{Write: true})

	assert.Contains(t, cmd, "--dangerously-skip-permissions")
	assert.NotContains(t, cmd, "--permission-mode")
}

func TestBuildCommand_ModelAndJSON(t *testing.T) {
	cmd := BuildCommand(testAgent(), BuildOptions{Model: "sonnet", JSONOutput: true})

	assert.Contains(t, cmd, "--model sonnet")
	assert.Contains(t, cmd, "--output-format json")
}

// TestBuildCommand_FlagOrder pins the assembly order: binary, headless,
// model, mode, json, prompt template. Some agent CLIs care about flag
// position, so the order is part of the contract.
func TestBuildCommand_FlagOrder(t *testing.T) {
	cmd := BuildCommand(testAgent(), BuildOptions{Write: true, JSONOutput: true, Model: "opus"})

	want := []string{"claude", "-p", "--model opus", "--dangerously-skip-permissions", "--output-format json", `"$AGENT_PROMPT"`}
	pos := -1
	for _, fragment := range want {
		idx := strings.Index(cmd, fragment)
		assert.Greater(t, idx, pos, "fragment %q out of order in %q", fragment, cmd)
		pos = idx
	}
}

// TestBuildCommand_PromptTemplateUnquoted verifies the template survives
// verbatim so $AGENT_PROMPT expands in the container shell rather than
// being quoted into a literal.
func TestBuildCommand_PromptTemplateUnquoted(t *testing.T) {
	cmd := BuildCommand(testAgent(), BuildOptions{})
	assert.True(t, strings.HasSuffix(cmd, `"$AGENT_PROMPT"`))
}

func TestQuote(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"claude", "claude"},
		{"--flag", "--flag"},
		{"", "''"},
		{"has space", "'has space'"},
		{"semi;colon", "'semi;colon'"},
		{"don't", `'don'\''t'`},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, quote(tt.in), "quote(%q)", tt.in)
	}
}
