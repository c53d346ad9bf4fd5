// client.go holds the daemon preflight client. Before any compose
// invocation is worth attempting, the CLI verifies that a Docker daemon is
// actually reachable; the SDK client here exists for that check (and the
// status command's version report) only. Every lifecycle mutation in this
// package goes through subprocess argument vectors, never the API —
// docker and docker compose stay opaque external processes.
package docker

import (
	"context"
	"fmt"
	"net"
	"os"
	"runtime"
	"time"

	"github.com/docker/docker/client"

	"github.com/toolkit-infra/codeagent/internal/model"
)

// pingTimeout bounds the daemon reachability check. Five seconds covers
// slow Docker Desktop starts without making a dead daemon feel hung.
const pingTimeout = 5 * time.Second

// Client is a thin wrapper over the Docker SDK client used exclusively
// for daemon preflight: socket detection, ping, and version reporting.
type Client struct {
	inner *client.Client
}

// NewClient connects to the Docker daemon with automatic socket detection.
//
// Resolution order:
//  1. DOCKER_HOST, honored as-is when set.
//  2. Platform defaults: /var/run/docker.sock on Linux; that path plus
//     ~/.docker/run/docker.sock on macOS; the docker_engine named pipe
//     on Windows.
//
// A missing socket yields a CLIError with ExitDockerNotRunning so the CLI
// exits with the dedicated "daemon unreachable" code.
func NewClient() (*Client, error) {
	if host := os.Getenv("DOCKER_HOST"); host != "" {
		return newClientWithHost(host)
	}

	host, err := detectDockerHost()
	if err != nil {
		return nil, model.WrapCLIError(model.ExitDockerNotRunning, "Docker socket not found", err)
	}

	return newClientWithHost(host)
}

func newClientWithHost(host string) (*Client, error) {
	// API version negotiation keeps the client compatible with whatever
	// daemon version is installed.
	c, err := client.NewClientWithOpts(
		client.WithHost(host),
		client.WithAPIVersionNegotiation(),
	)
	if err != nil {
		return nil, model.WrapCLIError(model.ExitDockerNotRunning,
			fmt.Sprintf("failed to create Docker client for host %q", host), err)
	}

	return &Client{inner: c}, nil
}

// detectDockerHost probes the platform's known socket locations and
// returns the connection string for the first that exists. Existence is
// checked rather than connectivity — Ping handles the latter.
func detectDockerHost() (string, error) {
	switch runtime.GOOS {
	case "linux":
		return detectUnixSocket([]string{"/var/run/docker.sock"})

	case "darwin":
		// Newer Docker Desktop versions place the socket under the user's
		// home directory and only sometimes symlink /var/run/docker.sock.
		home, err := os.UserHomeDir()
		if err != nil {
			return detectUnixSocket([]string{"/var/run/docker.sock"})
		}
		return detectUnixSocket([]string{
			"/var/run/docker.sock",
			home + "/.docker/run/docker.sock",
		})

	case "windows":
		// Named pipes don't answer os.Stat; a short dial is the probe.
		pipePath := `//./pipe/docker_engine`
		conn, err := net.DialTimeout("pipe", pipePath, time.Second)
		if err == nil {
			conn.Close()
			return "npipe://" + pipePath, nil
		}
		return "", fmt.Errorf("Docker named pipe not found at %s: %w", pipePath, err)

	default:
		return "", fmt.Errorf("unsupported platform: %s", runtime.GOOS)
	}
}

func detectUnixSocket(paths []string) (string, error) {
	for _, path := range paths {
		if _, err := os.Stat(path); err == nil {
			return "unix://" + path, nil
		}
	}
	return "", fmt.Errorf("Docker socket not found at any of: %v — is Docker running?", paths)
}

// Ping verifies the daemon is reachable and responsive, bounded by
// pingTimeout so a paused Docker Desktop fails fast instead of hanging.
func (c *Client) Ping(ctx context.Context) error {
	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()

	if _, err := c.inner.Ping(pingCtx); err != nil {
		return model.WrapCLIError(model.ExitDockerNotRunning,
			"Docker daemon is not responding — is Docker running?", err)
	}
	return nil
}

// ServerVersion returns the daemon's version string for status output.
func (c *Client) ServerVersion(ctx context.Context) (string, error) {
	verCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()

	ver, err := c.inner.ServerVersion(verCtx)
	if err != nil {
		return "", model.WrapCLIError(model.ExitDockerNotRunning,
			"failed to query Docker daemon version", err)
	}
	return ver.Version, nil
}

// Close releases the SDK client's resources. Safe to call multiple times.
func (c *Client) Close() error {
	if c.inner != nil {
		return c.inner.Close()
	}
	return nil
}
