// resources.go implements create and delete operations for the named
// Docker resources the sandbox depends on: the shared network and the
// per-tool volumes.
//
// Failure policy: mutation failures are reported as booleans plus a logged
// warning carrying the captured stderr. Nothing here returns a Go error
// for an expected failure (volume in use, network already gone) — the
// caller decides whether a false is fatal to its command.
package docker

import (
	"context"
	"strings"
)

// EnsureNetwork makes sure the sandbox network exists. It returns true
// when the network is usable: either it already existed or it was created
// successfully. On a create failure it logs a warning with docker's stderr
// and returns false; callers must treat false as fatal, since every
// inter-container channel rides on this network.
//
// The probe-then-create sequence is not atomic. Two concurrent CLI
// invocations can race here; the loser's create fails against the daemon
// and is reported as a warning. This matches the shared-resource policy:
// no local serialization, the daemon's own atomicity is the backstop.
func (e *Engine) EnsureNetwork(ctx context.Context) bool {
	if e.NetworkExists(ctx) {
		return true
	}

	result, err := e.runCaptured(ctx, nil, "network", "create", e.network)
	if err != nil {
		e.log.Warn("network create failed", "network", e.network, "err", err)
		return false
	}
	if !result.Success() {
		e.log.Warn("network create failed",
			"network", e.network, "stderr", strings.TrimSpace(result.Stderr))
		return false
	}
	return true
}

// DeleteNetwork removes a named network. Returns true on success; a
// failure (network in use, already absent after the probe) is logged and
// reported as false, never raised.
func (e *Engine) DeleteNetwork(ctx context.Context, name string) bool {
	if !e.ResourceExists(ctx, KindNetwork, name) {
		return true
	}

	result, err := e.runCaptured(ctx, nil, "network", "rm", name)
	if err != nil {
		e.log.Warn("network delete failed", "network", name, "err", err)
		return false
	}
	if !result.Success() {
		e.log.Warn("network delete failed",
			"network", name, "stderr", strings.TrimSpace(result.Stderr))
		return false
	}
	return true
}

// DeleteVolume removes a named volume. Returns false when docker refuses
// (typically because a container still uses it), with the reason logged.
func (e *Engine) DeleteVolume(ctx context.Context, name string) bool {
	result, err := e.runCaptured(ctx, nil, "volume", "rm", name)
	if err != nil {
		e.log.Warn("volume delete failed", "volume", name, "err", err)
		return false
	}
	if !result.Success() {
		e.log.Warn("volume delete failed",
			"volume", name, "stderr", strings.TrimSpace(result.Stderr))
		return false
	}
	return true
}

// DeleteVolumes deletes each named volume independently and reports the
// per-volume outcome. One locked volume does not stop the others from
// being attempted — cleanup should be maximally effective even when some
// resources are held.
func (e *Engine) DeleteVolumes(ctx context.Context, names []string) map[string]bool {
	results := make(map[string]bool, len(names))
	for _, name := range names {
		results[name] = e.DeleteVolume(ctx, name)
	}
	return results
}
