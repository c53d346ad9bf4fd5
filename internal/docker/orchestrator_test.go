package docker

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/toolkit-infra/codeagent/internal/config"
	"github.com/toolkit-infra/codeagent/internal/model"
)

func testAppConfig() config.AppConfig {
	cfg := config.DefaultAppConfig()
	cfg.CodeDir = "/tmp/projects"
	cfg.Timezone = "UTC"
	cfg.Shell.SkipMounts = true
	return cfg
}

// envValues extracts the -e pair values from an argument vector, in order.
func envValues(argv []string) []string {
	var out []string
	for i, a := range argv {
		if a == "-e" && i+1 < len(argv) {
			out = append(out, argv[i+1])
		}
	}
	return out
}

func TestRunHeadlessCapturesOutput(t *testing.T) {
	e := newStubEngine(t, "echo hi")

	result, err := e.Run(context.Background(), testAppConfig(),
		model.ContainerOptions{Mode: model.DockerNone},
		RunSpec{Command: "echo hi"})

	require.NoError(t, err)
	assert.Equal(t, 0, result.ReturnCode)
	assert.True(t, result.Success())
	assert.Equal(t, "hi\n", result.Stdout)
	assert.Empty(t, result.Stderr)
}

func TestRunHeadlessArgumentVector(t *testing.T) {
	e := newStubEngine(t, "exit 0")

	result, err := e.Run(context.Background(), testAppConfig(),
		model.ContainerOptions{Mode: model.DockerNone},
		RunSpec{Command: "echo hi"})
	require.NoError(t, err)

	argv := result.Command
	require.GreaterOrEqual(t, len(argv), 12)

	// With no Docker access the compose-file segment is exactly the base
	// file pair, immediately followed by the run verb.
	assert.Equal(t, "compose", argv[1])
	assert.Equal(t, "-f", argv[2])
	assert.Equal(t, filepath.Join(e.projectRoot, ComposeFileBase), argv[3])
	assert.Equal(t, []string{"run", "--rm", "-T"}, argv[4:7])

	assert.Equal(t, []string{"ENABLE_FIREWALL=false"}, envValues(argv))

	// Service and command close the vector.
	assert.Equal(t, []string{"dev", "-c", "echo hi"}, argv[len(argv)-3:])
}

func TestRunProxiedModeAddsOverlay(t *testing.T) {
	e := newStubEngine(t, "exit 0")

	result, err := e.Run(context.Background(), testAppConfig(),
		model.ContainerOptions{Mode: model.DockerProxied},
		RunSpec{Command: "docker ps"})
	require.NoError(t, err)

	line := strings.Join(result.Command, " ")
	assert.Contains(t, line, ComposeFileBase)
	assert.Contains(t, line, ComposeFileProxy)
	assert.NotContains(t, line, ComposeFileDirect)
}

func TestRunEnvOrdering(t *testing.T) {
	e := newStubEngine(t, "exit 0")

	result, err := e.Run(context.Background(), testAppConfig(),
		model.ContainerOptions{Mode: model.DockerNone, Firewall: true},
		RunSpec{
			Command: "true",
			Env: map[string]string{
				"ZETA":            "1",
				"ALPHA":           "2",
				"ENABLE_FIREWALL": "false", // must lose to the option
			},
		})
	require.NoError(t, err)

	assert.Equal(t, []string{
		"ENABLE_FIREWALL=true",
		"ALPHA=2",
		"ZETA=1",
	}, envValues(result.Command))
}

func TestRunMountPath(t *testing.T) {
	e := newStubEngine(t, "exit 0")

	result, err := e.Run(context.Background(), testAppConfig(),
		model.ContainerOptions{Mode: model.DockerNone, MountPath: "/srv/work"},
		RunSpec{Command: "ls"})
	require.NoError(t, err)

	line := strings.Join(result.Command, " ")
	assert.Contains(t, line, "-v /srv/work:"+WorkspaceDir)
	assert.Contains(t, line, "--workdir "+WorkspaceDir)
}

func TestRunNoMountPath(t *testing.T) {
	e := newStubEngine(t, "exit 0")

	result, err := e.Run(context.Background(), testAppConfig(),
		model.ContainerOptions{Mode: model.DockerNone},
		RunSpec{Command: "ls"})
	require.NoError(t, err)

	assert.NotContains(t, result.Command, "--workdir")
}

func TestRunIncludesShellMounts(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	zshrc := filepath.Join(home, ".zshrc")
	require.NoError(t, os.WriteFile(zshrc, []byte("# rc\n"), 0o644))

	e := newStubEngine(t, "exit 0")
	cfg := testAppConfig()
	cfg.Shell.SkipMounts = false

	result, err := e.Run(context.Background(), cfg,
		model.ContainerOptions{Mode: model.DockerNone, ShellMounts: true},
		RunSpec{Command: "true"})
	require.NoError(t, err)

	line := strings.Join(result.Command, " ")
	assert.Contains(t, line, "-v "+zshrc+":/home/dev/.zshrc.local:ro")
}

func TestRunProfile(t *testing.T) {
	e := newStubEngine(t, "exit 0")

	result, err := e.Run(context.Background(), testAppConfig(),
		model.ContainerOptions{Mode: model.DockerNone},
		RunSpec{Profile: "auth", Service: "auth-helper"})
	require.NoError(t, err)

	argv := result.Command
	profileAt := indexOf(argv, "--profile")
	runAt := indexOf(argv, "run")
	require.GreaterOrEqual(t, profileAt, 0)
	assert.Equal(t, "auth", argv[profileAt+1])
	assert.Less(t, profileAt, runAt, "--profile must precede the run verb")
	assert.Contains(t, argv, "auth-helper")
}

func TestRunInteractiveOmitsTTYFlag(t *testing.T) {
	e := newStubEngine(t, "exit 0")

	result, err := e.Run(context.Background(), testAppConfig(),
		model.ContainerOptions{Mode: model.DockerNone},
		RunSpec{Interactive: true})
	require.NoError(t, err)

	assert.Equal(t, 0, result.ReturnCode)
	assert.NotContains(t, result.Command, "-T")
	// No command means no -c either: the service's default shell runs.
	assert.NotContains(t, result.Command, "-c")
}

func TestRunTimeout(t *testing.T) {
	// exec replaces the shell so the kill on deadline reaches the sleep.
	e := newStubEngine(t, "exec sleep 5")

	start := time.Now()
	result, err := e.Run(context.Background(), testAppConfig(),
		model.ContainerOptions{Mode: model.DockerNone},
		RunSpec{Command: "sleep", Timeout: 100 * time.Millisecond})

	require.NoError(t, err, "a timeout is an expected outcome, not an error")
	assert.Equal(t, 124, result.ReturnCode)
	assert.NotEmpty(t, result.Stderr)
	assert.Less(t, time.Since(start), 3*time.Second)
}

func TestRunTimeoutPreservesPartialOutput(t *testing.T) {
	e := newStubEngine(t, "echo partial\nexec sleep 5")

	result, err := e.Run(context.Background(), testAppConfig(),
		model.ContainerOptions{Mode: model.DockerNone},
		RunSpec{Command: "sleep", Timeout: 100 * time.Millisecond})

	require.NoError(t, err)
	assert.Equal(t, 124, result.ReturnCode)
	assert.Equal(t, "partial\n", result.Stdout)
}

func TestRunDockerBinaryMissing(t *testing.T) {
	e := NewEngine(EngineOptions{
		ProjectRoot: t.TempDir(),
		DockerBin:   filepath.Join(t.TempDir(), "no-such-docker"),
	})

	result, err := e.Run(context.Background(), testAppConfig(),
		model.ContainerOptions{Mode: model.DockerNone},
		RunSpec{Command: "true"})

	require.NoError(t, err)
	assert.Equal(t, 127, result.ReturnCode)
	assert.Contains(t, result.Stderr, "Docker command not found")
}

func TestRunDockerBinaryNotExecutable(t *testing.T) {
	bin := filepath.Join(t.TempDir(), "docker")
	require.NoError(t, os.WriteFile(bin, []byte("#!/bin/sh\nexit 0\n"), 0o644))

	e := NewEngine(EngineOptions{ProjectRoot: t.TempDir(), DockerBin: bin})

	result, err := e.Run(context.Background(), testAppConfig(),
		model.ContainerOptions{Mode: model.DockerNone},
		RunSpec{Command: "true"})

	require.NoError(t, err)
	assert.Equal(t, 126, result.ReturnCode)
	assert.Contains(t, result.Stderr, "Permission denied")
}

func TestRunPassesThroughExitCode(t *testing.T) {
	e := newStubEngine(t, "echo boom >&2\nexit 7")

	result, err := e.Run(context.Background(), testAppConfig(),
		model.ContainerOptions{Mode: model.DockerNone},
		RunSpec{Command: "false"})

	require.NoError(t, err)
	assert.Equal(t, 7, result.ReturnCode)
	assert.False(t, result.Success())
	assert.Equal(t, "boom\n", result.Stderr)
}

func TestRunExportsComposeSubstitutionEnv(t *testing.T) {
	// The stub sees the compose process environment, where the config
	// substitution variables must be present.
	e := newStubEngine(t, `printf '%s|%s|%s\n' "$TZ" "$CODE_DIR" "$MEMORY_LIMIT"`)

	result, err := e.Run(context.Background(), testAppConfig(),
		model.ContainerOptions{Mode: model.DockerNone},
		RunSpec{Command: "env"})
	require.NoError(t, err)

	assert.Equal(t, "UTC|/tmp/projects|12G\n", result.Stdout)
}

func TestBuild(t *testing.T) {
	e := newStubEngine(t, "exit 0")

	result, err := e.Build(context.Background(), testAppConfig(), true)
	require.NoError(t, err)

	line := strings.Join(result.Command, " ")
	assert.Contains(t, line, "compose")
	assert.Contains(t, line, "build --no-cache")
}

func TestBuildWithCache(t *testing.T) {
	e := newStubEngine(t, "exit 0")

	result, err := e.Build(context.Background(), testAppConfig(), false)
	require.NoError(t, err)

	assert.NotContains(t, result.Command, "--no-cache")
}

func TestUp(t *testing.T) {
	e := newStubEngine(t, "exit 0")

	result, err := e.Up(context.Background(), testAppConfig(), model.DockerProxied, ProxyService)
	require.NoError(t, err)

	line := strings.Join(result.Command, " ")
	assert.Contains(t, line, ComposeFileProxy)
	assert.Contains(t, line, "up -d "+ProxyService)
}

func TestDown(t *testing.T) {
	e := newStubEngine(t, "exit 0")

	result, err := e.Down(context.Background(), testAppConfig(), model.DockerNone, true)
	require.NoError(t, err)

	line := strings.Join(result.Command, " ")
	assert.Contains(t, line, "down -v")
}

func indexOf(s []string, want string) int {
	for i, v := range s {
		if v == want {
			return i
		}
	}
	return -1
}
