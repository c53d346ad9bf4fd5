// Package config loads and validates the codeagent configuration:
// the main config.yaml (projects directory, timezone, resource limits,
// shell mount preferences) and the optional agents.json definitions.
//
// Configuration lives in the XDG-style directory ~/.config/codeagent/.
// The orchestration layer consumes AppConfig read-only; nothing in this
// package talks to Docker.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/toolkit-infra/codeagent/internal/model"
)

// ConfigDirName is the directory under ~/.config holding all codeagent
// configuration files.
const ConfigDirName = "codeagent"

// ConfigFileName is the main configuration file inside the config dir.
const ConfigFileName = "config.yaml"

// AgentsFileName is the optional agent-definition override file.
const AgentsFileName = "agents.json"

// ResourceLimits defines CPU and memory limits and reservations applied to
// the sandbox container. Memory values use Docker's format ("12G", "4096M").
// The values are exported into the compose process environment, where the
// base Compose file picks them up via variable substitution.
type ResourceLimits struct {
	CPULimit          int    `yaml:"cpu_limit"`
	MemoryLimit       string `yaml:"memory_limit"`
	CPUReservation    int    `yaml:"cpu_reservation"`
	MemoryReservation string `yaml:"memory_reservation"`
}

// ShellConfig controls whether host shell configuration files are mounted
// into the container, and where the Oh My Posh theme lives.
type ShellConfig struct {
	// SkipMounts disables all host shell config mounts.
	SkipMounts bool `yaml:"skip_mounts"`

	// OMPThemePath overrides the default Oh My Posh theme location.
	// Tilde is expanded at load time. Empty means the default path.
	OMPThemePath string `yaml:"omp_theme_path"`
}

// AppConfig is the root configuration consumed by the orchestration layer.
type AppConfig struct {
	// CodeDir is the projects directory mounted as ~/projects in the
	// container. Required; must exist.
	CodeDir string `yaml:"code_dir"`

	// Timezone is exported as TZ into the container environment.
	Timezone string `yaml:"timezone"`

	// Resources holds container CPU/memory limits and reservations.
	Resources ResourceLimits `yaml:"resources"`

	// Shell holds shell mount preferences.
	Shell ShellConfig `yaml:"shell"`
}

// DefaultAppConfig returns the configuration defaults applied before the
// file is unmarshalled over them.
func DefaultAppConfig() AppConfig {
	return AppConfig{
		Timezone: "Europe/Berlin",
		Resources: ResourceLimits{
			CPULimit:          6,
			MemoryLimit:       "12G",
			CPUReservation:    2,
			MemoryReservation: "4G",
		},
	}
}

// Dir returns the configuration directory (~/.config/codeagent).
func Dir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("locating home directory: %w", err)
	}
	return filepath.Join(home, ".config", ConfigDirName), nil
}

// Load reads and validates config.yaml from the configuration directory.
// A missing file is an ExitConfigNotFound CLIError telling the user how to
// create one; an invalid file is the same exit code with the parse or
// validation failure attached.
func Load() (AppConfig, error) {
	dir, err := Dir()
	if err != nil {
		return AppConfig{}, model.WrapCLIError(model.ExitConfigNotFound, "cannot locate config directory", err)
	}
	return LoadFile(filepath.Join(dir, ConfigFileName))
}

// LoadFile reads and validates a configuration file at an explicit path.
// Split out from Load so tests can exercise parsing without touching the
// real home directory.
func LoadFile(path string) (AppConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return AppConfig{}, model.NewCLIError(model.ExitConfigNotFound,
				fmt.Sprintf("config file not found: %s (create it with a code_dir entry)", path))
		}
		return AppConfig{}, model.WrapCLIError(model.ExitConfigNotFound,
			fmt.Sprintf("cannot read config file %s", path), err)
	}

	cfg := DefaultAppConfig()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return AppConfig{}, model.WrapCLIError(model.ExitConfigNotFound,
			fmt.Sprintf("invalid config file %s", path), err)
	}

	if err := cfg.normalize(); err != nil {
		return AppConfig{}, model.WrapCLIError(model.ExitConfigNotFound,
			fmt.Sprintf("invalid config file %s", path), err)
	}

	return cfg, nil
}

// memoryFormat matches Docker memory strings: positive number + G/M/K
// suffix in either case.
var memoryFormat = regexp.MustCompile(`^[1-9]\d*[GMKgmk]$`)

// normalize expands paths, applies format normalization, and validates
// cross-field constraints.
func (c *AppConfig) normalize() error {
	if c.CodeDir == "" {
		return fmt.Errorf("code_dir is required")
	}

	codeDir, err := expandTilde(c.CodeDir)
	if err != nil {
		return err
	}
	info, err := os.Stat(codeDir)
	if err != nil {
		return fmt.Errorf("code_dir does not exist: %s", codeDir)
	}
	if !info.IsDir() {
		return fmt.Errorf("code_dir is not a directory: %s", codeDir)
	}
	c.CodeDir = codeDir

	if c.Shell.OMPThemePath != "" {
		theme, err := expandTilde(c.Shell.OMPThemePath)
		if err != nil {
			return err
		}
		// Existence is deliberately not checked here: the theme file may
		// not exist yet, and the mount resolver skips missing paths.
		c.Shell.OMPThemePath = theme
	}

	for _, mem := range []*string{&c.Resources.MemoryLimit, &c.Resources.MemoryReservation} {
		if !memoryFormat.MatchString(*mem) {
			return fmt.Errorf("invalid memory format %q: expected number + G/M/K suffix (e.g. 12G, 4096M)", *mem)
		}
		*mem = strings.ToUpper(*mem)
	}

	if c.Resources.CPULimit < 1 || c.Resources.CPULimit > 128 {
		return fmt.Errorf("cpu_limit %d out of range (1-128)", c.Resources.CPULimit)
	}
	if c.Resources.CPUReservation < 1 || c.Resources.CPUReservation > 128 {
		return fmt.Errorf("cpu_reservation %d out of range (1-128)", c.Resources.CPUReservation)
	}
	if c.Resources.CPUReservation > c.Resources.CPULimit {
		return fmt.Errorf("cpu_reservation (%d) cannot exceed cpu_limit (%d)",
			c.Resources.CPUReservation, c.Resources.CPULimit)
	}
	if memoryBytes(c.Resources.MemoryReservation) > memoryBytes(c.Resources.MemoryLimit) {
		return fmt.Errorf("memory_reservation (%s) cannot exceed memory_limit (%s)",
			c.Resources.MemoryReservation, c.Resources.MemoryLimit)
	}

	return nil
}

// memoryBytes converts a normalized memory string to bytes for comparison.
// The string is already validated against memoryFormat.
func memoryBytes(s string) int64 {
	units := map[byte]int64{'K': 1 << 10, 'M': 1 << 20, 'G': 1 << 30}
	var n int64
	for i := 0; i < len(s)-1; i++ {
		n = n*10 + int64(s[i]-'0')
	}
	return n * units[s[len(s)-1]]
}

func expandTilde(path string) (string, error) {
	if path == "~" || strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("expanding ~ in %q: %w", path, err)
		}
		return filepath.Join(home, strings.TrimPrefix(path, "~")), nil
	}
	return path, nil
}
