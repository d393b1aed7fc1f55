package config

import (
	"math"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

// ExpectedDriverName is the file name of the x64 ViewPoint interop library.
const ExpectedDriverName = "VPX_InterApp_64.dll"

// EnvPath overrides the default location of the configuration file.
const EnvPath = "LSL_VIEWPOINT_CONFIG"

const defaultFileName = ".lsl-viewpoint"

var (
	ErrMissingConfig     = errors.New("config: missing configuration, run `lsl-viewpoint config set <driver-path> <sampling-rate>`")
	ErrInvalidDriverPath = errors.New("config: driver path does not reference an existing file")
	ErrInvalidRate       = errors.New("config: sampling rate must be a positive number")
)

type Config struct {
	DriverPath   string  `yaml:"driver_path"`
	SamplingRate float64 `yaml:"sampling_rate"`
}

func (c Config) validate() error {
	if c.DriverPath == "" {
		return ErrInvalidDriverPath
	}
	return validateRate(c.SamplingRate)
}

func validateRate(rate float64) error {
	if !(rate > 0) || math.IsInf(rate, 0) {
		return errors.Wrapf(ErrInvalidRate, "got %v", rate)
	}
	return nil
}

// DefaultPath returns the per-user configuration file, honoring LSL_VIEWPOINT_CONFIG.
func DefaultPath() (string, error) {
	if p := os.Getenv(EnvPath); p != "" {
		return p, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", errors.Wrap(err, "config: resolving home directory failed")
	}
	return filepath.Join(home, defaultFileName), nil
}

// Store persists the configuration in a single YAML file.
type Store struct {
	path   string
	logger *zap.Logger
}

func NewStore(path string, logger *zap.Logger) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Store{path: path, logger: logger}
}

func (s *Store) Path() string { return s.path }

// Set validates both values and overwrites the stored configuration.
// Nothing is written when validation fails.
func (s *Store) Set(driverPath string, rate float64) error {
	if driverPath == "" {
		return ErrInvalidDriverPath
	}
	abs, err := filepath.Abs(driverPath)
	if err != nil {
		return errors.Wrapf(ErrInvalidDriverPath, "%s: %v", driverPath, err)
	}
	fi, err := os.Stat(abs)
	if err != nil {
		return errors.Wrapf(ErrInvalidDriverPath, "%s: %v", abs, err)
	}
	if !fi.Mode().IsRegular() {
		return errors.Wrapf(ErrInvalidDriverPath, "%s is not a regular file", abs)
	}
	if err := validateRate(rate); err != nil {
		return err
	}
	if filepath.Base(abs) != ExpectedDriverName {
		s.logger.Warn("unexpected_driver_name",
			zap.String("name", filepath.Base(abs)),
			zap.String("expected", ExpectedDriverName),
		)
	}

	data, err := yaml.Marshal(Config{DriverPath: abs, SamplingRate: rate})
	if err != nil {
		return errors.Wrap(err, "config: marshaling failed")
	}
	if err := writeAtomic(s.path, data); err != nil {
		return err
	}
	s.logger.Info("config_written",
		zap.String("path", s.path),
		zap.String("driver_path", abs),
		zap.Float64("sampling_rate", rate),
	)
	return nil
}

// Load reads the stored configuration. Absent, unreadable or malformed files
// all fail with ErrMissingConfig.
func (s *Store) Load() (Config, error) {
	var c Config
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return c, errors.Wrapf(ErrMissingConfig, "%s does not exist", s.path)
		}
		return c, errors.Wrapf(ErrMissingConfig, "reading %s: %v", s.path, err)
	}
	if err := yaml.Unmarshal(data, &c); err != nil {
		s.logger.Warn("config_malformed", zap.String("path", s.path), zap.Error(err))
		return Config{}, errors.Wrapf(ErrMissingConfig, "%s is not correctly formatted", s.path)
	}
	if err := c.validate(); err != nil {
		s.logger.Warn("config_malformed", zap.String("path", s.path), zap.Error(err))
		return Config{}, errors.Wrapf(ErrMissingConfig, "%s: %v", s.path, err)
	}
	return c, nil
}

func writeAtomic(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return errors.Wrap(err, "config: creating directory failed")
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return errors.Wrap(err, "config: writing temporary file failed")
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return errors.Wrap(err, "config: replacing config file failed")
	}
	return nil
}
