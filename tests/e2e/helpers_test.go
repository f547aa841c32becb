package e2e_test

import (
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"syscall"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// testProject is an isolated working directory with a freshly built bacc
// binary.
type testProject struct {
	Dir        string
	BinaryPath string
	t          *testing.T
}

// newTestProject builds the bacc binary into a fresh temp directory and
// returns a testProject ready for use.
func newTestProject(t *testing.T) *testProject {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("E2E tests rely on POSIX signals and are not supported on Windows")
	}

	dir := t.TempDir()

	binary := filepath.Join(dir, "bacc")
	build := exec.Command("go", "build", "-o", binary, "./cmd/bacc")
	build.Dir = projectRoot()
	out, err := build.CombinedOutput()
	require.NoError(t, err, "building bacc: %s", string(out))

	return &testProject{Dir: dir, BinaryPath: binary, t: t}
}

// projectRoot returns the absolute path to the root of the repository,
// two directories up from this file.
func projectRoot() string {
	_, thisFile, _, _ := runtime.Caller(0)
	return filepath.Join(filepath.Dir(thisFile), "..", "..")
}

// writeConfig writes content to bacc.toml in tp.Dir.
func (tp *testProject) writeConfig(content string) {
	tp.t.Helper()
	err := os.WriteFile(filepath.Join(tp.Dir, "bacc.toml"), []byte(content), 0o644)
	require.NoError(tp.t, err)
}

// run creates an exec.Cmd for bacc in the project directory.
func (tp *testProject) run(args ...string) *exec.Cmd {
	cmd := exec.Command(tp.BinaryPath, args...)
	cmd.Dir = tp.Dir
	cmd.Env = append(os.Environ(),
		"NO_COLOR=1",
		"BACC_LOG_FORMAT=json",
	)
	return cmd
}

// runExpectSuccess runs bacc and asserts exit code 0. Returns combined
// stdout+stderr output.
func (tp *testProject) runExpectSuccess(args ...string) string {
	tp.t.Helper()
	out, err := tp.run(args...).CombinedOutput()
	require.NoError(tp.t, err, "bacc %v failed:\n%s", args, string(out))
	return string(out)
}

// runStdout runs bacc, asserts success and returns stdout only.
func (tp *testProject) runStdout(args ...string) string {
	tp.t.Helper()
	cmd := tp.run(args...)
	out, err := cmd.Output()
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		tp.t.Fatalf("bacc %v failed: %v\n%s", args, err, string(exitErr.Stderr))
	}
	require.NoError(tp.t, err)
	return string(out)
}

// runExpectFailure runs bacc and asserts a non-zero exit code. Returns
// combined output and the exit code.
func (tp *testProject) runExpectFailure(args ...string) (string, int) {
	tp.t.Helper()
	out, err := tp.run(args...).CombinedOutput()
	require.Error(tp.t, err, "bacc %v expected to fail but succeeded:\n%s", args, string(out))
	var exitErr *exec.ExitError
	require.True(tp.t, errors.As(err, &exitErr), "expected *exec.ExitError, got %T: %v", err, err)
	return string(out), exitErr.ExitCode()
}

// startServer runs `bacc serve` on a free loopback port and waits until it
// answers /health. The server is interrupted when the test ends.
func (tp *testProject) startServer() string {
	tp.t.Helper()

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(tp.t, err)
	addr := ln.Addr().String()
	require.NoError(tp.t, ln.Close())

	cmd := tp.run("serve", "--addr", addr)
	require.NoError(tp.t, cmd.Start())
	tp.t.Cleanup(func() {
		_ = cmd.Process.Signal(syscall.SIGINT)
		done := make(chan struct{})
		go func() {
			_ = cmd.Wait()
			close(done)
		}()
		select {
		case <-done:
		case <-time.After(5 * time.Second):
			_ = cmd.Process.Kill()
		}
	})

	base := "http://" + addr
	require.Eventually(tp.t, func() bool {
		resp, err := http.Get(base + "/health")
		if err != nil {
			return false
		}
		resp.Body.Close()
		return resp.StatusCode == http.StatusOK
	}, 10*time.Second, 50*time.Millisecond, "server on %s never became healthy", addr)

	return base
}

// serverConfig returns a bacc.toml pointing both endpoints at base.
func serverConfig(base string) string {
	return fmt.Sprintf(`[calculator]
endpoint = "%s/api/calculate-bacc"

[survey]
endpoint = "%s/api/survey-responses"
`, base, base)
}
