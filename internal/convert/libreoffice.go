package convert

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"time"

	"github.com/avast/retry-go/v4"
)

// LibreOffice converts documents with a headless soffice process.
type LibreOffice struct {
	// Path to the soffice binary. Defaults to "soffice" on PATH.
	Path string
	// Attempts per document; soffice occasionally fails to grab its
	// profile lock when a previous instance is still exiting.
	Attempts uint
	// Timeout per attempt.
	Timeout time.Duration
}

func (l *LibreOffice) Name() string { return "LIBREOFFICE" }

func (l *LibreOffice) Convert(ctx context.Context, src, outDir string) (string, error) {
	bin := l.Path
	if bin == "" {
		bin = "soffice"
	}
	attempts := l.Attempts
	if attempts == 0 {
		attempts = 3
	}
	timeout := l.Timeout
	if timeout == 0 {
		timeout = 2 * time.Minute
	}

	out := pdfSibling(src, outDir)

	err := retry.Do(
		func() error {
			attemptCtx, cancel := context.WithTimeout(ctx, timeout)
			defer cancel()

			cmd := exec.CommandContext(attemptCtx, bin,
				"--headless",
				"--convert-to", "pdf",
				"--outdir", outDir,
				src,
			)
			output, err := cmd.CombinedOutput()
			if err != nil {
				return fmt.Errorf("soffice failed: %w (output: %s)", err, string(output))
			}
			if _, err := os.Stat(out); err != nil {
				return fmt.Errorf("soffice did not produce %s", out)
			}
			return nil
		},
		retry.Context(ctx),
		retry.Attempts(attempts),
		retry.Delay(1*time.Second),
		retry.LastErrorOnly(true),
	)
	if err != nil {
		return "", err
	}
	return out, nil
}
