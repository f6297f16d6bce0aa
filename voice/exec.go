package voice

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"strings"
)

// runFunc runs an external program and returns its combined output.
// Engines keep one so tests can replace the real process.
type runFunc func(ctx context.Context, env []string, name string, args ...string) ([]byte, error)

func runCommand(ctx context.Context, env []string, name string, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Env = append(os.Environ(), env...)

	out, err := cmd.CombinedOutput()
	if err != nil {
		return out, fmt.Errorf("%s failed; %w: %s", name, err, lastLine(out))
	}
	return out, nil
}

// last non empty output line, usually the python exception message
func lastLine(out []byte) string {
	lines := bytes.Split(bytes.TrimSpace(out), []byte("\n"))
	for i := len(lines) - 1; i >= 0; i-- {
		if line := strings.TrimSpace(string(lines[i])); line != "" {
			return line
		}
	}
	return ""
}
