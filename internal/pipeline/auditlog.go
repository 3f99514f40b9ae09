package pipeline

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
)

// RunLog is the per-run audit trail: a plain-text log in the input folder
// capturing every stage's decisions and failures, so a reviewer can see
// exactly why any document is missing or placed where it is.
type RunLog struct {
	Logger *slog.Logger
	Path   string
	file   *os.File
}

// NewRunLog opens the audit log for a run, teeing records to stdout.
func NewRunLog(dir, runID string) (*RunLog, error) {
	path := filepath.Join(dir, fmt.Sprintf("tlfpack_%s.log", runID))
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open run log: %w", err)
	}
	handler := slog.NewTextHandler(io.MultiWriter(os.Stdout, f), &slog.HandlerOptions{
		Level: slog.LevelInfo,
	})
	logger := slog.New(handler).With("run_id", runID)
	return &RunLog{Logger: logger, Path: path, file: f}, nil
}

func (l *RunLog) Close() error {
	if l.file == nil {
		return nil
	}
	return l.file.Close()
}
