package interp

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"soilviz/internal/config"
	"soilviz/internal/domain"
)

func TestParseOutput_BoundsAndWarnings(t *testing.T) {
	out := "Boundary X range: 0 to 2\n" +
		"WARNING: Duplicate coordinates detected.\n" +
		"some unrelated log line\n" +
		"WARNING: All values for nitrogen are the same.\n" +
		"BOUNDS_JSON:[[1,2],[3,4]]\n"

	res := parseOutput(out)
	assert.Equal(t, domain.Bounds{{1, 2}, {3, 4}}, res.Bounds)
	assert.True(t, res.FromProcess)
	assert.Equal(t, []string{
		"Duplicate coordinates detected.",
		"All values for nitrogen are the same.",
	}, res.Warnings)
}

func TestParseOutput_PythonStyleSpacing(t *testing.T) {
	res := parseOutput("BOUNDS_JSON:[[12.9715, 77.5945], [13.0827, 80.2707]]\n")
	assert.True(t, res.FromProcess)
	assert.Equal(t, domain.Bounds{{12.9715, 77.5945}, {13.0827, 80.2707}}, res.Bounds)
}

func TestParseOutput_NoMarkerUsesDefault(t *testing.T) {
	res := parseOutput("just some logs\nnothing else\n")
	assert.Equal(t, domain.DefaultBounds, res.Bounds)
	assert.False(t, res.FromProcess)
	assert.Empty(t, res.Warnings)
}

func TestParseOutput_MalformedBoundsUsesDefault(t *testing.T) {
	res := parseOutput("BOUNDS_JSON:[[not,json]]\n")
	assert.Equal(t, domain.DefaultBounds, res.Bounds)
	assert.False(t, res.FromProcess)
}

func TestParseOutput_MarkerMustStartLine(t *testing.T) {
	res := parseOutput("note: WARNING: not a real warning\n")
	assert.Empty(t, res.Warnings)
}

// writeScript drops an executable shell script into dir and returns a runner
// config pointing at it.
func writeScript(t *testing.T, body string) *config.InterpConfig {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("shell scripts not runnable on windows")
	}
	path := filepath.Join(t.TempDir(), "fake-interpolate.sh")
	require.NoError(t, os.WriteFile(path, []byte("#!/bin/sh\n"+body), 0o755))
	return &config.InterpConfig{Command: path, Timeout: 5 * time.Second}
}

func TestRun_Success(t *testing.T) {
	cfg := writeScript(t,
		"echo 'WARNING: Duplicate coordinates detected.'\n"+
			"echo 'WARNING: Extreme values in potassium (check for outliers).'\n"+
			"echo 'BOUNDS_JSON:[[1,2],[3,4]]'\n")

	r := NewRunner(cfg)
	res, err := r.Run(context.Background(), "plot.geojson", "sample.csv", "out.svg")
	require.NoError(t, err)
	assert.Equal(t, domain.Bounds{{1, 2}, {3, 4}}, res.Bounds)
	assert.True(t, res.FromProcess)
	assert.Len(t, res.Warnings, 2)
}

func TestRun_PositionalArguments(t *testing.T) {
	cfg := writeScript(t, "echo \"WARNING: $1|$2|$3\"\n")

	r := NewRunner(cfg)
	res, err := r.Run(context.Background(), "boundary.geojson", "sample.csv", "overlay.svg")
	require.NoError(t, err)
	require.Len(t, res.Warnings, 1)
	assert.Equal(t, "boundary.geojson|sample.csv|overlay.svg", res.Warnings[0])
}

func TestRun_FailureSurfacesStderr(t *testing.T) {
	cfg := writeScript(t, "echo 'ERROR: CSV file is empty.' >&2\nexit 1\n")

	r := NewRunner(cfg)
	_, err := r.Run(context.Background(), "b", "s", "o")
	require.ErrorIs(t, err, domain.ErrInterpolation)
	assert.Contains(t, err.Error(), "ERROR: CSV file is empty.")
}

func TestRun_LaunchFailure(t *testing.T) {
	cfg := &config.InterpConfig{Command: "/nonexistent/binary", Timeout: time.Second}

	r := NewRunner(cfg)
	_, err := r.Run(context.Background(), "b", "s", "o")
	assert.ErrorIs(t, err, domain.ErrInterpolation)
}

func TestRun_Timeout(t *testing.T) {
	cfg := writeScript(t, "sleep 5\n")
	cfg.Timeout = 100 * time.Millisecond

	r := NewRunner(cfg)
	_, err := r.Run(context.Background(), "b", "s", "o")
	assert.ErrorIs(t, err, domain.ErrInterpolationTimeout)
}

func TestRun_TimeoutKillsForkedHelpers(t *testing.T) {
	// The script forks a helper that would touch a file half a second in;
	// the deadline must take the whole process group down before it does.
	cfg := writeScript(t, "( sleep 0.5; : > \"$3.helper\" ) &\nsleep 5\n")
	cfg.Timeout = 100 * time.Millisecond

	out := filepath.Join(t.TempDir(), "overlay.svg")
	r := NewRunner(cfg)
	_, err := r.Run(context.Background(), "b", "s", out)
	require.ErrorIs(t, err, domain.ErrInterpolationTimeout)

	time.Sleep(700 * time.Millisecond)
	_, statErr := os.Stat(out + ".helper")
	assert.True(t, os.IsNotExist(statErr))
}
