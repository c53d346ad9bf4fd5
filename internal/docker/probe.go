// probe.go implements existence and status queries against the Docker
// daemon. Probes wrap `docker <kind> inspect` and filtered listings,
// mapping exit codes to booleans. A missing resource is never an error —
// only `false` — which lets the lifecycle operations stay idempotent
// without parsing docker's error output.
package docker

import (
	"context"
	"strings"
)

// ResourceKind names the Docker object kinds the probe understands.
// The values double as the `docker <kind> inspect` subcommand.
type ResourceKind string

const (
	KindNetwork   ResourceKind = "network"
	KindVolume    ResourceKind = "volume"
	KindContainer ResourceKind = "container"
)

// ResourceExists reports whether a named Docker resource exists.
// It runs `docker <kind> inspect <name>` and maps exit code zero to true.
// Every mutating operation in this package probes first rather than
// relying on the underlying tool's own idempotence, which is inconsistent
// across Docker versions for network create.
func (e *Engine) ResourceExists(ctx context.Context, kind ResourceKind, name string) bool {
	result, err := e.runCaptured(ctx, nil, string(kind), "inspect", name)
	if err != nil {
		e.log.Warn("resource probe failed", "kind", kind, "name", name, "err", err)
		return false
	}
	return result.Success()
}

// NetworkExists reports whether the engine's sandbox network exists.
func (e *Engine) NetworkExists(ctx context.Context) bool {
	return e.ResourceExists(ctx, KindNetwork, e.network)
}

// VolumeExists reports whether a named volume exists.
func (e *Engine) VolumeExists(ctx context.Context, name string) bool {
	return e.ResourceExists(ctx, KindVolume, name)
}

// ContainerRunning reports whether a container with exactly the given name
// is currently running. The ^name$ anchor makes docker's substring filter
// exact, and the output is still matched line-by-line because the filter
// is a regex: "proxy" would otherwise match "proxy-2".
func (e *Engine) ContainerRunning(ctx context.Context, name string) bool {
	result, err := e.runCaptured(ctx, nil,
		"ps", "--format", "{{.Names}}", "--filter", "name=^"+name+"$")
	if err != nil || !result.Success() {
		return false
	}
	for _, line := range strings.Split(strings.TrimSpace(result.Stdout), "\n") {
		if line == name {
			return true
		}
	}
	return false
}

// RunningContainers lists running containers whose names match the
// engine's name prefix. Failures yield an empty list, not an error:
// listing is a best-effort status operation.
func (e *Engine) RunningContainers(ctx context.Context) []string {
	result, err := e.runCaptured(ctx, nil,
		"ps", "--format", "{{.Names}}", "--filter", "name="+e.namePrefix)
	if err != nil || !result.Success() {
		return nil
	}
	return splitLines(result.Stdout)
}

// ListVolumes lists volumes matching the engine's name prefix.
func (e *Engine) ListVolumes(ctx context.Context) []string {
	result, err := e.runCaptured(ctx, nil,
		"volume", "ls", "-q", "--filter", "name="+e.namePrefix)
	if err != nil || !result.Success() {
		return nil
	}
	return splitLines(result.Stdout)
}

// ExistingVolumes filters the given names down to those that exist on the
// Docker host. Used by the clean command to show only deletable volumes.
func (e *Engine) ExistingVolumes(ctx context.Context, names []string) []string {
	var out []string
	for _, name := range names {
		if e.VolumeExists(ctx, name) {
			out = append(out, name)
		}
	}
	return out
}

// splitLines splits subprocess output into non-empty trimmed lines.
func splitLines(s string) []string {
	var out []string
	for _, line := range strings.Split(strings.TrimSpace(s), "\n") {
		if line != "" {
			out = append(out, line)
		}
	}
	return out
}
