// Package paths resolves the filesystem locations the CLI depends on:
// the sandbox project root (where the Compose files live) and host
// directories offered for container mounts.
package paths

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// RootMarker is the file whose presence identifies the sandbox project
// root. Every compose invocation resolves its -f arguments relative to
// the directory containing this file.
const RootMarker = "docker-compose.yml"

// RootEnvVar overrides project root discovery when set. Useful for
// installations where the binary does not live inside the project tree.
const RootEnvVar = "CODEAGENT_ROOT"

// FindProjectRoot locates the sandbox project root directory.
//
// Resolution order:
//  1. $CODEAGENT_ROOT, if set — the directory must contain the marker.
//  2. Upward search from the executable's directory.
//  3. Upward search from the current working directory.
//
// The upward search walks parent directories until it finds one containing
// docker-compose.yml, the canonical marker for the project root.
func FindProjectRoot() (string, error) {
	if env := os.Getenv(RootEnvVar); env != "" {
		root, err := filepath.Abs(env)
		if err != nil {
			return "", fmt.Errorf("resolving %s: %w", RootEnvVar, err)
		}
		if !hasMarker(root) {
			return "", fmt.Errorf("%s=%s does not contain %s", RootEnvVar, root, RootMarker)
		}
		return root, nil
	}

	var starts []string
	if exe, err := os.Executable(); err == nil {
		// Resolve symlinks so an installed symlink (e.g. ~/bin/codeagent)
		// still leads back to the project checkout.
		if resolved, err := filepath.EvalSymlinks(exe); err == nil {
			exe = resolved
		}
		starts = append(starts, filepath.Dir(exe))
	}
	if cwd, err := os.Getwd(); err == nil {
		starts = append(starts, cwd)
	}

	for _, start := range starts {
		if root, ok := searchUp(start); ok {
			return root, nil
		}
	}

	return "", fmt.Errorf(
		"could not find project root: no %s in any parent of %s (set %s to override)",
		RootMarker, strings.Join(starts, " or "), RootEnvVar)
}

// searchUp walks from dir toward the filesystem root looking for the
// marker file. It returns the first directory that contains it.
func searchUp(dir string) (string, bool) {
	for {
		if hasMarker(dir) {
			return dir, true
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", false
		}
		dir = parent
	}
}

func hasMarker(dir string) bool {
	info, err := os.Stat(filepath.Join(dir, RootMarker))
	return err == nil && !info.IsDir()
}

// ResolveMountPath normalizes a user-supplied mount path for use as a
// container workspace bind mount. It expands a leading tilde, resolves
// relative paths against the current working directory, and verifies the
// result is an existing directory.
func ResolveMountPath(path string) (string, error) {
	if path == "~" || strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("expanding ~: %w", err)
		}
		path = filepath.Join(home, strings.TrimPrefix(path, "~"))
	}

	resolved, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("resolving mount path %q: %w", path, err)
	}

	info, err := os.Stat(resolved)
	if err != nil {
		if os.IsNotExist(err) {
			return "", fmt.Errorf("mount path does not exist: %s", resolved)
		}
		return "", fmt.Errorf("checking mount path %q: %w", resolved, err)
	}
	if !info.IsDir() {
		return "", fmt.Errorf("mount path is not a directory: %s", resolved)
	}

	return resolved, nil
}
