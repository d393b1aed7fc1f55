package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"LSLViewPoint/pkg/config"
)

func run(t *testing.T, ctx context.Context, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(ctx)
	return out.String(), err
}

func driverFile(t *testing.T, dir string) string {
	t.Helper()
	dll := filepath.Join(dir, config.ExpectedDriverName)
	require.NoError(t, os.WriteFile(dll, []byte("MZ"), 0o644))
	return dll
}

func TestConfigSetShow(t *testing.T) {
	dir := t.TempDir()
	dll := driverFile(t, dir)
	cfgPath := filepath.Join(dir, "lsl.yaml")

	out, err := run(t, context.Background(), "config", "set", dll, "220", "-c", cfgPath)
	require.NoError(t, err)
	assert.Contains(t, out, cfgPath)

	out, err = run(t, context.Background(), "config", "show", "-c", cfgPath)
	require.NoError(t, err)
	assert.Contains(t, out, "driver_path:   "+dll)
	assert.Contains(t, out, "sampling_rate: 220")
}

func TestConfigSetRejects(t *testing.T) {
	dir := t.TempDir()
	dll := driverFile(t, dir)
	cfgPath := filepath.Join(dir, "lsl.yaml")

	_, err := run(t, context.Background(), "config", "set", dll, "fast", "-c", cfgPath)
	assert.ErrorIs(t, err, config.ErrInvalidRate)

	_, err = run(t, context.Background(), "config", "set", filepath.Join(dir, "nope.dll"), "60", "-c", cfgPath)
	assert.ErrorIs(t, err, config.ErrInvalidDriverPath)

	_, err = run(t, context.Background(), "config", "set", dll, "-c", cfgPath)
	assert.Error(t, err)

	_, err = os.Stat(cfgPath)
	assert.True(t, os.IsNotExist(err))
}

func TestConfigFromEnv(t *testing.T) {
	dir := t.TempDir()
	dll := driverFile(t, dir)
	t.Setenv(config.EnvPath, filepath.Join(dir, "env.yaml"))

	_, err := run(t, context.Background(), "config", "set", dll, "60")
	require.NoError(t, err)
	assert.FileExists(t, filepath.Join(dir, "env.yaml"))
}

func TestInfo(t *testing.T) {
	dir := t.TempDir()
	out, err := run(t, context.Background(), "info", "-c", filepath.Join(dir, "missing.yaml"))
	require.NoError(t, err)
	assert.Contains(t, out, "Platform:")
	assert.Contains(t, out, "channels:    39")
	assert.Contains(t, out, "error:")

	dll := driverFile(t, dir)
	cfgPath := filepath.Join(dir, "lsl.yaml")
	_, err = run(t, context.Background(), "config", "set", dll, "500", "-c", cfgPath)
	require.NoError(t, err)
	out, err = run(t, context.Background(), "info", "-c", cfgPath)
	require.NoError(t, err)
	assert.Contains(t, out, "sampling:    500 Hz")
}

func TestStreamWithoutConfig(t *testing.T) {
	_, err := run(t, context.Background(), "--dry-run", "--simulate", "-c", filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorIs(t, err, config.ErrMissingConfig)
}

func TestStreamSimulatedDryRun(t *testing.T) {
	dir := t.TempDir()
	dll := driverFile(t, dir)
	cfgPath := filepath.Join(dir, "lsl.yaml")
	_, err := run(t, context.Background(), "config", "set", dll, "100", "-c", cfgPath)
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
	defer cancel()
	_, err = run(t, ctx, "--simulate", "--dry-run", "--status-interval", "50ms", "-c", cfgPath)
	assert.NoError(t, err)
}

func TestStreamRejectsArgs(t *testing.T) {
	_, err := run(t, context.Background(), "extra")
	assert.Error(t, err)
}

func TestStreamStopOnEnter(t *testing.T) {
	dir := t.TempDir()
	dll := driverFile(t, dir)
	cfgPath := filepath.Join(dir, "lsl.yaml")
	_, err := run(t, context.Background(), "config", "set", dll, "100", "-c", cfgPath)
	require.NoError(t, err)

	cmd := newRootCmd()
	cmd.SetIn(strings.NewReader("\n"))
	cmd.SetArgs([]string{"--simulate", "--dry-run", "--stop-on-enter", "-c", cfgPath})

	done := make(chan error, 1)
	go func() { done <- cmd.Execute() }()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("streaming did not stop on Enter")
	}
}
