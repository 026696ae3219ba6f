package integration

import (
	"bytes"
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
)

// writeAnswers creates prog.py holding script and an answers directory with files.
func writeAnswers(t *testing.T, script string, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "prog.py"), []byte(script), 0755); err != nil {
		t.Fatalf("failed to write program: %v", err)
	}
	answers := filepath.Join(dir, "answers")
	if err := os.Mkdir(answers, 0755); err != nil {
		t.Fatalf("failed to create answers dir: %v", err)
	}
	for name, content := range files {
		if err := os.WriteFile(filepath.Join(answers, name), []byte(content), 0644); err != nil {
			t.Fatalf("failed to write %s: %v", name, err)
		}
	}
	return dir
}

// runCmd runs the command and returns its stdout, stderr and exit code.
func runCmd(t *testing.T, command string, args ...string) (string, string, int) {
	t.Helper()
	cmd := exec.Command(command, args...)
	cmd.Env = os.Environ()

	var outBuf, errBuf bytes.Buffer
	cmd.Stdout = &outBuf
	cmd.Stderr = &errBuf

	err := cmd.Run()
	var exitErr *exec.ExitError
	if err != nil && !errors.As(err, &exitErr) {
		t.Fatalf("failed to run %s: %v", command, err)
	}
	return outBuf.String(), errBuf.String(), cmd.ProcessState.ExitCode()
}

func runCmdOrFail(t *testing.T, command string, args ...string) string {
	t.Helper()
	stdout, stderr, code := runCmd(t, command, args...)
	if code != 0 {
		t.Fatalf("Command `%s %s` failed.\nExit code: %d\nOutput:\n%s", command, strings.Join(args, " "), code, stdout+stderr)
	}
	return stdout
}

