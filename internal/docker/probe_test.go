package docker

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResourceExists(t *testing.T) {
	calls := stubLog(t)
	e := newStubEngine(t, "exit 0")

	assert.True(t, e.ResourceExists(context.Background(), KindNetwork, "ai-dev-network"))

	lines := calls()
	require.Len(t, lines, 1)
	assert.Equal(t, "network inspect ai-dev-network", lines[0])
}

func TestResourceExistsAbsent(t *testing.T) {
	e := newStubEngine(t, "echo 'Error: No such volume' >&2; exit 1")

	assert.False(t, e.ResourceExists(context.Background(), KindVolume, "ai-dev-missing"))
}

func TestNetworkExistsUsesConfiguredName(t *testing.T) {
	calls := stubLog(t)
	e := NewEngine(EngineOptions{
		ProjectRoot: t.TempDir(),
		DockerBin:   writeStubDocker(t, "exit 0"),
		Network:     "custom-net",
	})

	assert.True(t, e.NetworkExists(context.Background()))

	lines := calls()
	require.Len(t, lines, 1)
	assert.Equal(t, "network inspect custom-net", lines[0])
}

func TestContainerRunningExactMatch(t *testing.T) {
	// The stub reports a container whose name merely contains the probe
	// target; the line-by-line match must reject it.
	e := newStubEngine(t, `echo "ai-dev-proxy-2"`)

	assert.False(t, e.ContainerRunning(context.Background(), "ai-dev-proxy"))
}

func TestContainerRunning(t *testing.T) {
	e := newStubEngine(t, "printf 'ai-dev-proxy-2\\nai-dev-proxy\\n'")

	assert.True(t, e.ContainerRunning(context.Background(), "ai-dev-proxy"))
}

func TestContainerRunningDockerFailure(t *testing.T) {
	e := newStubEngine(t, "exit 1")

	assert.False(t, e.ContainerRunning(context.Background(), "ai-dev-proxy"))
}

func TestRunningContainers(t *testing.T) {
	calls := stubLog(t)
	e := newStubEngine(t, "printf 'ai-dev-main\\nai-dev-proxy\\n'")

	names := e.RunningContainers(context.Background())
	assert.Equal(t, []string{"ai-dev-main", "ai-dev-proxy"}, names)

	lines := calls()
	require.Len(t, lines, 1)
	assert.Equal(t, "ps --format {{.Names}} --filter name=ai-dev", lines[0])
}

func TestRunningContainersEmpty(t *testing.T) {
	e := newStubEngine(t, "exit 0")

	assert.Empty(t, e.RunningContainers(context.Background()))
}

func TestListVolumes(t *testing.T) {
	calls := stubLog(t)
	e := newStubEngine(t, "printf 'ai-dev-claude-config\\nai-dev-uv-cache\\n'")

	names := e.ListVolumes(context.Background())
	assert.Equal(t, []string{"ai-dev-claude-config", "ai-dev-uv-cache"}, names)

	lines := calls()
	require.Len(t, lines, 1)
	assert.Equal(t, "volume ls -q --filter name=ai-dev", lines[0])
}

func TestExistingVolumes(t *testing.T) {
	// Only volume "a" exists; inspect for anything else fails.
	e := newStubEngine(t, `case "$3" in a) exit 0 ;; esac
exit 1`)

	got := e.ExistingVolumes(context.Background(), []string{"a", "b", "c"})
	assert.Equal(t, []string{"a"}, got)
}
