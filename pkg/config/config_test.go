package config

import (
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fakeDriver(t *testing.T, name string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(p, []byte("MZ"), 0o600))
	return p
}

func TestSetThenLoad(t *testing.T) {
	dll := fakeDriver(t, ExpectedDriverName)
	s := NewStore(filepath.Join(t.TempDir(), "config.yml"), nil)

	for _, rate := range []float64{60, 101, 220.5, 1000} {
		require.NoError(t, s.Set(dll, rate))
		c, err := s.Load()
		require.NoError(t, err)
		assert.Equal(t, dll, c.DriverPath)
		assert.Equal(t, rate, c.SamplingRate)
	}
}

func TestSetMakesPathAbsolute(t *testing.T) {
	dir := t.TempDir()
	dll := fakeDriver(t, "fake.dll")
	wd, err := os.Getwd()
	require.NoError(t, err)
	rel, err := filepath.Rel(wd, dll)
	require.NoError(t, err)

	s := NewStore(filepath.Join(dir, "config.yml"), nil)
	require.NoError(t, s.Set(rel, 60))
	c, err := s.Load()
	require.NoError(t, err)
	assert.Equal(t, dll, c.DriverPath)
}

func TestSetInvalidKeepsPrevious(t *testing.T) {
	dll := fakeDriver(t, ExpectedDriverName)
	s := NewStore(filepath.Join(t.TempDir(), "config.yml"), nil)
	require.NoError(t, s.Set(dll, 60))

	err := s.Set(filepath.Join(t.TempDir(), "missing.dll"), 120)
	assert.True(t, errors.Is(err, ErrInvalidDriverPath), "got %v", err)

	err = s.Set(t.TempDir(), 120)
	assert.True(t, errors.Is(err, ErrInvalidDriverPath), "got %v", err)

	for _, rate := range []float64{0, -60, math.NaN(), math.Inf(1)} {
		err = s.Set(dll, rate)
		assert.True(t, errors.Is(err, ErrInvalidRate), "rate %v: got %v", rate, err)
	}

	c, err := s.Load()
	require.NoError(t, err)
	assert.Equal(t, Config{DriverPath: dll, SamplingRate: 60}, c)
}

func TestLoadMissing(t *testing.T) {
	s := NewStore(filepath.Join(t.TempDir(), "config.yml"), nil)
	_, err := s.Load()
	assert.True(t, errors.Is(err, ErrMissingConfig), "got %v", err)
}

func TestLoadMalformed(t *testing.T) {
	for name, content := range map[string]string{
		"garbage":      "this is not: [valid",
		"empty":        "",
		"missing rate": "driver_path: /opt/VPX_InterApp_64.dll\n",
		"missing path": "sampling_rate: 60\n",
		"bad rate":     "driver_path: /opt/VPX_InterApp_64.dll\nsampling_rate: sixty\n",
		"zero rate":    "driver_path: /opt/VPX_InterApp_64.dll\nsampling_rate: 0\n",
	} {
		t.Run(name, func(t *testing.T) {
			p := filepath.Join(t.TempDir(), "config.yml")
			require.NoError(t, os.WriteFile(p, []byte(content), 0o600))
			_, err := NewStore(p, nil).Load()
			assert.True(t, errors.Is(err, ErrMissingConfig), "got %v", err)
		})
	}
}

func TestLoadHandWritten(t *testing.T) {
	p := filepath.Join(t.TempDir(), "config.yml")
	require.NoError(t, os.WriteFile(p, []byte("driver_path: /home/lab/VPX_InterApp_64.dll\nsampling_rate: 60\n"), 0o600))
	c, err := NewStore(p, nil).Load()
	require.NoError(t, err)
	assert.Equal(t, "/home/lab/VPX_InterApp_64.dll", c.DriverPath)
	assert.Equal(t, 60.0, c.SamplingRate)
}

func TestDefaultPath(t *testing.T) {
	t.Setenv(EnvPath, "/tmp/custom.yml")
	p, err := DefaultPath()
	require.NoError(t, err)
	assert.Equal(t, "/tmp/custom.yml", p)

	t.Setenv(EnvPath, "")
	p, err = DefaultPath()
	require.NoError(t, err)
	assert.Equal(t, defaultFileName, filepath.Base(p))
}
