package convert

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"time"
)

// Word converts documents through Word automation, invoked as an external
// command (e.g. an OfficeToPDF-style wrapper). The command receives the
// source and target paths; "{input}" and "{output}" placeholders in the
// configured argument list are substituted, otherwise both paths are
// appended.
type Word struct {
	// Command is the automation command and its leading arguments.
	Command []string
	Timeout time.Duration
}

func (w *Word) Name() string { return "WORD" }

func (w *Word) Convert(ctx context.Context, src, outDir string) (string, error) {
	if len(w.Command) == 0 {
		return "", fmt.Errorf("word converter not configured")
	}
	timeout := w.Timeout
	if timeout == 0 {
		timeout = 2 * time.Minute
	}

	out := pdfSibling(src, outDir)
	args := make([]string, 0, len(w.Command)+1)
	substituted := false
	for _, a := range w.Command[1:] {
		if strings.Contains(a, "{input}") || strings.Contains(a, "{output}") {
			substituted = true
			a = strings.ReplaceAll(a, "{input}", src)
			a = strings.ReplaceAll(a, "{output}", out)
		}
		args = append(args, a)
	}
	if !substituted {
		args = append(args, src, out)
	}

	cmdCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	cmd := exec.CommandContext(cmdCtx, w.Command[0], args...)
	output, err := cmd.CombinedOutput()
	if err != nil {
		return "", fmt.Errorf("word automation failed: %w (output: %s)", err, string(output))
	}
	if _, err := os.Stat(out); err != nil {
		return "", fmt.Errorf("word automation did not produce %s", out)
	}
	return out, nil
}
