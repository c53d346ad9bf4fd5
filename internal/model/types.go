// Package model defines the domain types for the codeagent CLI.
//
// These are plain value types passed between the CLI command handlers and
// the container orchestration layer in internal/docker. None of them carry
// identity or mutable state: a ContainerOptions is built once per CLI
// invocation and consumed once, and a RunResult is returned by value and
// inspected by the caller.
package model

import (
	"fmt"
	"strings"
)

// DockerMode selects how (and whether) the sandbox container gets access
// to the host's Docker daemon. The three modes are mutually exclusive by
// construction: the CLI flag pair (--docker / --docker-direct) is validated
// and collapsed into this enum before any orchestration code runs, so the
// orchestration layer never has to defend against contradictory flags.
type DockerMode int

const (
	// DockerNone grants the container no Docker access at all.
	DockerNone DockerMode = iota

	// DockerProxied routes Docker access through the docker-proxy service,
	// which mediates the host socket and filters dangerous API calls.
	// This mode starts an auxiliary container that must be torn down after
	// the main container exits (see Engine.CleanupDockerProxy).
	DockerProxied

	// DockerDirect bind-mounts the host Docker socket into the container
	// with no mediation. Unrestricted and therefore opt-in via a separate,
	// deliberately longer flag.
	DockerDirect
)

// String returns the mode name used in status output and logs.
func (m DockerMode) String() string {
	switch m {
	case DockerProxied:
		return "proxied"
	case DockerDirect:
		return "direct"
	default:
		return "none"
	}
}

// ParseDockerMode collapses the CLI flag pair into a DockerMode.
// It returns an error when both flags are set; this is the single place
// where the mutual exclusivity is enforced.
func ParseDockerMode(proxied, direct bool) (DockerMode, error) {
	switch {
	case proxied && direct:
		return DockerNone, fmt.Errorf("--docker and --docker-direct are mutually exclusive")
	case proxied:
		return DockerProxied, nil
	case direct:
		return DockerDirect, nil
	default:
		return DockerNone, nil
	}
}

// ContainerOptions configures a single sandbox container invocation.
// It is constructed by a CLI command handler, handed to the orchestration
// layer, and discarded afterwards.
type ContainerOptions struct {
	// Mode selects Docker socket access (none, proxied, or direct).
	Mode DockerMode

	// Firewall restricts the container's outbound network traffic.
	// Its value is mirrored into the ENABLE_FIREWALL environment variable
	// on every run.
	Firewall bool

	// MountPath is an optional host directory to bind-mount as the
	// container workspace (~/workspace). Empty means no extra mount.
	MountPath string

	// ShellMounts controls whether the host's shell configuration
	// (zshrc, oh-my-zsh, oh-my-posh theme) is mounted read-only into
	// the container. Individual mounts are still skipped when the host
	// files do not exist.
	ShellMounts bool
}

// RunResult is the outcome of one child-process execution performed by the
// orchestration layer. A failed command inside the container is not an
// error from this layer's point of view — it is simply a non-zero
// ReturnCode. Only failures to spawn the orchestration process itself are
// special-cased, and those too are expressed as reserved return codes
// (see ExitRunTimeout and friends) rather than Go errors.
type RunResult struct {
	// ReturnCode is the child's exit code, or one of the reserved codes
	// 124/126/127 synthesized for timeout / permission denied / docker
	// binary missing.
	ReturnCode int

	// Stdout holds captured standard output. Empty in interactive mode,
	// where the child inherits the terminal.
	Stdout string

	// Stderr holds captured standard error, or a synthesized diagnostic
	// for spawn failures.
	Stderr string

	// Command is the argument vector that was (or would have been)
	// executed, including the docker binary itself. Recorded for verbose
	// output and tests.
	Command []string
}

// Success reports whether the execution exited cleanly.
func (r RunResult) Success() bool {
	return r.ReturnCode == 0
}

// CommandLine renders the recorded argument vector as a single string
// for log and verbose output.
func (r RunResult) CommandLine() string {
	return strings.Join(r.Command, " ")
}

// ExitCode defines the process exit codes the CLI can terminate with.
// Scripts and CI systems use these to distinguish failure classes.
type ExitCode int

const (
	// ExitSuccess indicates the command completed successfully.
	ExitSuccess ExitCode = 0

	// ExitGeneralError indicates an unspecified error occurred.
	ExitGeneralError ExitCode = 1

	// ExitConfigNotFound indicates the configuration file is missing
	// or invalid.
	ExitConfigNotFound ExitCode = 2

	// ExitDockerNotRunning indicates the Docker daemon is not accessible.
	ExitDockerNotRunning ExitCode = 3

	// ExitNetworkFailed indicates the sandbox network could not be created.
	// The network is required for all inter-container communication, so
	// this is fatal to any command that runs containers.
	ExitNetworkFailed ExitCode = 4

	// ExitUnknownAgent indicates the requested agent has no definition.
	ExitUnknownAgent ExitCode = 5
)

// Reserved return codes surfaced through RunResult rather than CLIError.
// They follow the shell convention (124 matches GNU timeout, 126/127 match
// POSIX command-not-executable / command-not-found) so callers can treat a
// RunResult uniformly with ordinary shell exit codes.
const (
	// ExitRunTimeout is synthesized when a headless run exceeds its
	// caller-supplied timeout and the child is killed.
	ExitRunTimeout = 124

	// ExitRunPermission is synthesized when spawning the docker process
	// fails with a permission error.
	ExitRunPermission = 126

	// ExitRunNotFound is synthesized when the docker binary cannot be
	// found at all.
	ExitRunNotFound = 127
)

// CLIError is an error carrying a process exit code. The CLI layer
// translates domain errors into OS exit codes through it; the orchestration
// layer never produces one for expected failure modes (those are encoded in
// RunResult and booleans instead).
type CLIError struct {
	// Code is the exit code to return to the OS.
	Code ExitCode

	// Message is the human-readable error description.
	Message string

	// Err is the underlying error, if any.
	Err error
}

// Error satisfies the error interface.
func (e *CLIError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap exposes the underlying error for errors.Is / errors.As.
func (e *CLIError) Unwrap() error {
	return e.Err
}

// NewCLIError creates a CLIError without an underlying cause.
func NewCLIError(code ExitCode, message string) *CLIError {
	return &CLIError{Code: code, Message: message}
}

// WrapCLIError creates a CLIError wrapping an underlying cause.
func WrapCLIError(code ExitCode, message string, err error) *CLIError {
	return &CLIError{Code: code, Message: message, Err: err}
}
