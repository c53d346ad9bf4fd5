package docker

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

// writeStubDocker writes an executable shell script standing in for the
// docker binary and returns its path. The script body runs under /bin/sh;
// it can consult "$@" to behave differently per subcommand.
//
// Every stub appends its argument line to the file named by $STUB_LOG
// (when set), so tests can assert on the exact sequence of invocations —
// the same observability the original layer's tests get from mocking the
// subprocess call.
func writeStubDocker(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "docker")
	script := "#!/bin/sh\n" +
		"if [ -n \"$STUB_LOG\" ]; then echo \"$@\" >> \"$STUB_LOG\"; fi\n" +
		body + "\n"
	require.NoError(t, os.WriteFile(path, []byte(script), 0o755))
	return path
}

// stubLog points $STUB_LOG at a fresh file and returns a function reading
// the logged invocation lines.
func stubLog(t *testing.T) func() []string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "calls.log")
	t.Setenv("STUB_LOG", path)
	return func() []string {
		data, err := os.ReadFile(path)
		if os.IsNotExist(err) {
			return nil
		}
		require.NoError(t, err)
		return strings.Split(strings.TrimSpace(string(data)), "\n")
	}
}

// newStubEngine builds an Engine wired to a stub docker script, with a
// temp dir as project root.
func newStubEngine(t *testing.T, stubBody string) *Engine {
	t.Helper()
	return NewEngine(EngineOptions{
		ProjectRoot: t.TempDir(),
		DockerBin:   writeStubDocker(t, stubBody),
	})
}
