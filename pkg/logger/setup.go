package logger

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// SetupLogger initializes the default logger and returns it together with a
// closer for the underlying file, if any. An empty logFile writes to stderr
// unless discard is set, in which case records are dropped.
func SetupLogger(logLevel string, logJSON, logSource bool, logFile string, discard bool) (Logger, io.Closer, error) {
	var (
		output io.Writer = os.Stderr
		closer io.Closer = io.NopCloser(nil)
	)
	switch {
	case logFile != "":
		if err := os.MkdirAll(filepath.Dir(logFile), 0o755); err != nil {
			return nil, nil, fmt.Errorf("failed to create log directory: %w", err)
		}
		f, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to open log file: %w", err)
		}
		output = f
		closer = f
	case discard:
		output = io.Discard
	}
	cfg := &Config{
		Level:      ParseLevel(logLevel),
		Output:     output,
		JSON:       logJSON,
		AddSource:  logSource,
		TimeFormat: "15:04:05",
	}
	Init(cfg)
	return GetDefault(), closer, nil
}
