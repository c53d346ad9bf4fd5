package docker

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/toolkit-infra/codeagent/internal/config"
)

// fakeHome points HOME at a fresh directory and returns it, so the mount
// resolver probes a controlled filesystem.
func fakeHome(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	return home
}

func TestShellMountArgsEmptyWhenNothingExists(t *testing.T) {
	fakeHome(t)
	e := NewEngine(EngineOptions{ProjectRoot: t.TempDir()})

	assert.Empty(t, e.ShellMountArgs(config.AppConfig{}))
}

func TestShellMountArgsSkipMounts(t *testing.T) {
	home := fakeHome(t)
	require.NoError(t, os.WriteFile(filepath.Join(home, ".zshrc"), []byte("# rc\n"), 0o644))

	e := NewEngine(EngineOptions{ProjectRoot: t.TempDir()})
	cfg := config.AppConfig{Shell: config.ShellConfig{SkipMounts: true}}

	assert.Empty(t, e.ShellMountArgs(cfg))
}

func TestShellMountArgsZshrc(t *testing.T) {
	home := fakeHome(t)
	zshrc := filepath.Join(home, ".zshrc")
	require.NoError(t, os.WriteFile(zshrc, []byte("# rc\n"), 0o644))

	e := NewEngine(EngineOptions{ProjectRoot: t.TempDir()})

	args := e.ShellMountArgs(config.AppConfig{})
	assert.Equal(t, []string{"-v", zshrc + ":/home/dev/.zshrc.local:ro"}, args)
}

func TestShellMountArgsDefaultTheme(t *testing.T) {
	home := fakeHome(t)
	theme := filepath.Join(home, ".oh-my-zsh", "custom", "themes", ".zsh-theme-remote.omp.json")
	require.NoError(t, os.MkdirAll(filepath.Dir(theme), 0o755))
	require.NoError(t, os.WriteFile(theme, []byte("{}"), 0o644))

	e := NewEngine(EngineOptions{ProjectRoot: t.TempDir()})

	args := e.ShellMountArgs(config.AppConfig{})
	// The custom dir exists too (it holds the theme), so both mounts appear.
	assert.Contains(t, args, theme+":/home/dev/.zsh-theme.omp.json:ro")
	assert.Contains(t, args, filepath.Join(home, ".oh-my-zsh", "custom")+":/home/dev/.oh-my-zsh/custom:ro")
}

func TestShellMountArgsThemeOverride(t *testing.T) {
	fakeHome(t)
	theme := filepath.Join(t.TempDir(), "my-theme.omp.json")
	require.NoError(t, os.WriteFile(theme, []byte("{}"), 0o644))

	e := NewEngine(EngineOptions{ProjectRoot: t.TempDir()})
	cfg := config.AppConfig{Shell: config.ShellConfig{OMPThemePath: theme}}

	args := e.ShellMountArgs(cfg)
	assert.Equal(t, []string{"-v", theme + ":/home/dev/.zsh-theme.omp.json:ro"}, args)
}

func TestShellMountArgsSkipsDirectoryZshrc(t *testing.T) {
	home := fakeHome(t)
	// A directory named .zshrc must not be mounted as the rc file.
	require.NoError(t, os.Mkdir(filepath.Join(home, ".zshrc"), 0o755))

	e := NewEngine(EngineOptions{ProjectRoot: t.TempDir()})

	assert.Empty(t, e.ShellMountArgs(config.AppConfig{}))
}

func TestShellMountArgsAllThree(t *testing.T) {
	home := fakeHome(t)
	zshrc := filepath.Join(home, ".zshrc")
	require.NoError(t, os.WriteFile(zshrc, []byte("# rc\n"), 0o644))
	custom := filepath.Join(home, ".oh-my-zsh", "custom")
	theme := filepath.Join(custom, "themes", ".zsh-theme-remote.omp.json")
	require.NoError(t, os.MkdirAll(filepath.Dir(theme), 0o755))
	require.NoError(t, os.WriteFile(theme, []byte("{}"), 0o644))

	e := NewEngine(EngineOptions{ProjectRoot: t.TempDir()})

	args := e.ShellMountArgs(config.AppConfig{})
	assert.Equal(t, []string{
		"-v", zshrc + ":/home/dev/.zshrc.local:ro",
		"-v", theme + ":/home/dev/.zsh-theme.omp.json:ro",
		"-v", custom + ":/home/dev/.oh-my-zsh/custom:ro",
	}, args)
}
