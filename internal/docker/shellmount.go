// shellmount.go builds the read-only bind mounts that carry the host's
// shell configuration into the container, so the sandbox shell looks and
// behaves like the user's own.
package docker

import (
	"os"
	"path/filepath"

	"github.com/toolkit-infra/codeagent/internal/config"
)

// In-container destinations for the shell configuration mounts.
// The host zshrc is mounted as .zshrc.local so the container's own zshrc
// can source it after its base setup.
const (
	mountZshrcDest     = "/home/dev/.zshrc.local"
	mountOMPThemeDest  = "/home/dev/.zsh-theme.omp.json"
	mountOMZCustomDest = "/home/dev/.oh-my-zsh/custom"
)

// defaultOMPThemeRel is the default Oh My Posh theme location relative to
// the user's home directory, used when the config does not override it.
const defaultOMPThemeRel = ".oh-my-zsh/custom/themes/.zsh-theme-remote.omp.json"

// ShellMountArgs returns -v arguments mounting the host's shell
// configuration read-only into the container:
//
//	~/.zshrc                      → /home/dev/.zshrc.local:ro
//	<theme override or default>   → /home/dev/.zsh-theme.omp.json:ro
//	~/.oh-my-zsh/custom (dir)     → /home/dev/.oh-my-zsh/custom:ro
//
// Each mount is emitted only when the host path currently exists; missing
// paths are skipped silently. When cfg.Shell.SkipMounts is set the result
// is empty regardless of what exists. This function has no failure mode —
// it degrades to an empty mount set.
func (e *Engine) ShellMountArgs(cfg config.AppConfig) []string {
	if cfg.Shell.SkipMounts {
		return nil
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return nil
	}

	var args []string

	zshrc := filepath.Join(home, ".zshrc")
	if info, err := os.Stat(zshrc); err == nil && !info.IsDir() {
		args = append(args, "-v", zshrc+":"+mountZshrcDest+":ro")
	}

	theme := cfg.Shell.OMPThemePath
	if theme == "" {
		theme = filepath.Join(home, defaultOMPThemeRel)
	}
	if info, err := os.Stat(theme); err == nil && !info.IsDir() {
		args = append(args, "-v", theme+":"+mountOMPThemeDest+":ro")
	}

	omzCustom := filepath.Join(home, ".oh-my-zsh", "custom")
	if info, err := os.Stat(omzCustom); err == nil && info.IsDir() {
		args = append(args, "-v", omzCustom+":"+mountOMZCustomDest+":ro")
	}

	return args
}
