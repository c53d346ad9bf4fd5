// compose.go selects which Compose files participate in an invocation.
//
// The sandbox topology is layered: a base file defines the dev container,
// network, and volumes, and one of two mutually-exclusive overlay files
// adds Docker socket access — either the mediated docker-proxy service or
// a direct socket bind mount. Overlay selection is the only place the
// security mode touches file choice; everything downstream just passes the
// returned -f arguments to docker compose verbatim.
package docker

import (
	"path/filepath"

	"github.com/toolkit-infra/codeagent/internal/model"
)

// Compose file names, resolved against the project root.
const (
	// ComposeFileBase defines the dev service, network, and volumes.
	ComposeFileBase = "docker-compose.yml"

	// ComposeFileProxy overlays the docker-proxy service and points the
	// dev container's DOCKER_HOST at it.
	ComposeFileProxy = "docker-compose.docker.yml"

	// ComposeFileDirect overlays a direct bind mount of the host Docker
	// socket into the dev container.
	ComposeFileDirect = "docker-compose.docker-direct.yml"
)

// ComposeFiles returns the ordered -f arguments for every docker compose
// invocation under the given mode. The base file always comes first;
// compose merges later files over earlier ones, so the overlay must
// follow it. All paths are absolute, which makes the invocation
// independent of the subprocess working directory.
func (e *Engine) ComposeFiles(mode model.DockerMode) []string {
	files := []string{"-f", filepath.Join(e.projectRoot, ComposeFileBase)}

	switch mode {
	case model.DockerProxied:
		files = append(files, "-f", filepath.Join(e.projectRoot, ComposeFileProxy))
	case model.DockerDirect:
		files = append(files, "-f", filepath.Join(e.projectRoot, ComposeFileDirect))
	}

	return files
}
