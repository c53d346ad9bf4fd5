// proxy.go tears down the auxiliary docker-proxy container.
//
// The proxy is started implicitly by compose when the proxied overlay is
// active, and it outlives the main container unless explicitly stopped.
// An orphaned proxy is both a resource leak and a standing security
// exposure (it holds an open channel to the host Docker socket), so every
// CLI command that can start one calls CleanupDockerProxy on every exit
// path — the handlers defer it before running the main container.
package docker

import (
	"context"
	"strings"

	"github.com/toolkit-infra/codeagent/internal/model"
)

// CleanupDockerProxy stops and removes the docker-proxy service container.
//
// It is a no-op returning true unless the mode is DockerProxied (the
// direct mode starts no proxy, and no mode means no Docker access at all).
// Stop and remove are issued independently: a failed stop does not skip
// the remove, and each failure is logged as a warning rather than raised.
// The return value is the AND of both steps, for callers that want to
// report an incomplete teardown.
func (e *Engine) CleanupDockerProxy(ctx context.Context, mode model.DockerMode) bool {
	if mode != model.DockerProxied {
		return true
	}

	files := e.ComposeFiles(model.DockerProxied)
	ok := true

	stopArgs := append([]string{"compose"}, files...)
	stopArgs = append(stopArgs, "stop", ProxyService)
	if result, err := e.runCaptured(ctx, nil, stopArgs...); err != nil || !result.Success() {
		e.log.Warn("docker-proxy stop failed", "stderr", teardownDetail(result.Stderr, err))
		ok = false
	}

	rmArgs := append([]string{"compose"}, files...)
	rmArgs = append(rmArgs, "rm", "-f", ProxyService)
	if result, err := e.runCaptured(ctx, nil, rmArgs...); err != nil || !result.Success() {
		e.log.Warn("docker-proxy remove failed", "stderr", teardownDetail(result.Stderr, err))
		ok = false
	}

	return ok
}

// teardownDetail picks the most useful diagnostic from a failed teardown
// step: the captured stderr when there is one, the spawn error otherwise.
func teardownDetail(stderr string, err error) string {
	if s := strings.TrimSpace(stderr); s != "" {
		return s
	}
	if err != nil {
		return err.Error()
	}
	return "unknown failure"
}
