// Package logging builds the zap logger shared by the CLI and the engine.
package logging

import (
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/limit-lab/limit-up/internal/messages"
)

// Options selects the level and destination of the logger.
type Options struct {
	// Level is one of debug, info, warn, error. Empty means info.
	Level string
	// File receives JSON log lines. Without a file only Verbose enables output, on stderr,
	// so nothing is drawn over an interactive UI by default.
	File string
	// Verbose forces debug level and stderr output.
	Verbose bool
}

// New builds a logger from opts. The returned logger is a no-op when neither File nor
// Verbose is set.
func New(opts Options) (*zap.Logger, error) {
	if opts.File == "" && !opts.Verbose {
		return zap.NewNop(), nil
	}

	config := zap.NewProductionConfig()
	level, err := zapcore.ParseLevel(levelOrDefault(opts.Level))
	if err != nil {
		return nil, fmt.Errorf(messages.LogLevelInvalidFmt, opts.Level, err)
	}
	if opts.Verbose {
		level = zapcore.DebugLevel
	}
	config.Level = zap.NewAtomicLevelAt(level)
	config.OutputPaths = nil
	config.ErrorOutputPaths = []string{"stderr"}
	if opts.File != "" {
		if err := os.MkdirAll(filepath.Dir(opts.File), 0o755); err != nil {
			return nil, fmt.Errorf(messages.LogOpenFmt, opts.File, err)
		}
		config.OutputPaths = append(config.OutputPaths, opts.File)
	}
	if opts.Verbose {
		config.OutputPaths = append(config.OutputPaths, "stderr")
	}

	logger, err := config.Build()
	if err != nil {
		return nil, fmt.Errorf(messages.LogInitFmt, err)
	}
	return logger, nil
}

func levelOrDefault(level string) string {
	if level == "" {
		return "info"
	}
	return level
}
