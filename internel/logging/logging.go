package logging

import (
	"os"
	"strings"

	"github.com/pkg/errors"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const (
	EnvLevel = "LSL_VIEWPOINT_LOG_LEVEL" // debug, info, warn or error
	EnvSink  = "LSL_VIEWPOINT_LOG_SINK"  // e.g. "file:/path/to/log", stderr otherwise
)

// New builds the console logger of the command line. verbose forces the debug level.
func New(verbose bool) (*zap.Logger, error) {
	level := zapcore.InfoLevel
	if lvl := strings.TrimSpace(os.Getenv(EnvLevel)); lvl != "" {
		if err := level.UnmarshalText([]byte(strings.ToLower(lvl))); err != nil {
			return nil, errors.Wrapf(err, "logging: %s", EnvLevel)
		}
	}
	if verbose {
		level = zapcore.DebugLevel
	}

	out := "stderr"
	if sink := os.Getenv(EnvSink); strings.HasPrefix(sink, "file:") {
		out = strings.TrimPrefix(sink, "file:")
	}

	enc := zap.NewDevelopmentEncoderConfig()
	enc.EncodeLevel = zapcore.CapitalLevelEncoder
	enc.EncodeTime = zapcore.ISO8601TimeEncoder

	cfg := zap.Config{
		Level:             zap.NewAtomicLevelAt(level),
		Encoding:          "console",
		EncoderConfig:     enc,
		OutputPaths:       []string{out},
		ErrorOutputPaths:  []string{"stderr"},
		DisableStacktrace: !verbose,
	}
	logger, err := cfg.Build()
	if err != nil {
		return nil, errors.Wrap(err, "logging: building the logger failed")
	}
	return logger, nil
}
