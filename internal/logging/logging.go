package logging

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"

	"taximport/internal/config"
)

// Setup points the standard logger at the run log file, creating the log
// directory if needed. With verbose set, log lines are teed to stderr as
// well. Returns a close func for the file handle.
func Setup(cfg *config.LogConfig, verbose bool) (func(), error) {
	if err := os.MkdirAll(cfg.Dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating log directory %s: %w", cfg.Dir, err)
	}

	path := filepath.Join(cfg.Dir, cfg.File)
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("opening log file %s: %w", path, err)
	}

	var out io.Writer = f
	if verbose {
		out = io.MultiWriter(os.Stderr, f)
	}
	log.SetOutput(out)
	log.SetFlags(log.LstdFlags)

	return func() { _ = f.Close() }, nil
}
