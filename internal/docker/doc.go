// Package docker is the container orchestration layer of the codeagent
// CLI. It turns an AppConfig plus per-invocation ContainerOptions into
// concrete docker and docker compose child-process invocations, and
// normalizes their outcomes into a stable result taxonomy.
//
// The package handles:
//   - Resource probes: existence checks for networks, volumes, and
//     containers via `docker <kind> inspect` and filtered listings
//   - Resource lifecycle: idempotent network creation, volume deletion
//     with continue-on-partial-failure semantics
//   - Compose file selection under the mutually-exclusive Docker access
//     modes (none / proxied / direct socket)
//   - Shell config bind-mount resolution against the host filesystem
//   - The orchestrator itself: compose run/build/up/down assembly,
//     bounded-time headless execution, and classification of spawn
//     failures into reserved return codes (124/126/127)
//   - Teardown of the auxiliary docker-proxy container
//
// Docker and docker compose are treated as opaque external processes,
// controlled only through argument vectors and exit codes. The single
// exception is the daemon preflight in client.go, which uses
// github.com/docker/docker/client to ping the daemon before any
// orchestration work starts.
//
// Expected failures never surface as Go errors from this package:
// resource absence and mutation failures are booleans, run outcomes
// (including timeouts and unspawnable processes) are RunResult values.
package docker
