// Package runner runs the program under test against a fixture and
// classifies what it produced.
package runner

import (
	"bytes"
	"context"
	stderrors "errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/shlex"
	"go.uber.org/zap"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"

	"tester/internal/compare"
	"tester/internal/config"
	"tester/internal/errors"
	"tester/internal/fixture"
)

// waitDelay bounds how long Wait keeps reading the output pipes after the
// child has exited or been killed, in case a grandchild still holds them.
const waitDelay = 2 * time.Second

// execCommand is a variable to allow mocking of exec.CommandContext in tests
var execCommand = exec.CommandContext

// Executor runs one program, one fixture at a time.
type Executor struct {
	argv     []string
	timeout  time.Duration
	encoding encoding.Encoding
	log      *zap.Logger
}

// New builds an Executor for cfg.Program. The program path is made absolute
// so it is never looked up in PATH.
func New(cfg *config.Config, log *zap.Logger) (*Executor, error) {
	if log == nil {
		log = zap.NewNop()
	}

	program, err := filepath.Abs(cfg.Program)
	if err != nil {
		return nil, fmt.Errorf("resolve program path: %w", err)
	}

	argv, err := buildCommand(cfg.Interpreter, program)
	if err != nil {
		return nil, err
	}

	enc, err := streamEncoding(cfg.Encoding)
	if err != nil {
		return nil, err
	}

	return &Executor{
		argv:     argv,
		timeout:  cfg.Timeout,
		encoding: enc,
		log:      log,
	}, nil
}

// Command returns the argument vector used to start the program.
func (e *Executor) Command() []string {
	return append([]string(nil), e.argv...)
}

// Run starts the program once, writes the fixture input to its stdin, waits
// for it to exit and compares its stdout with the expected output.
//
// Errors are returned for conditions that prevent a result: a fixture file
// that can no longer be read, a program that cannot be started, or ctx being
// cancelled. Without a timeout Run waits as long as the program runs.
func (e *Executor) Run(ctx context.Context, f fixture.Fixture) (Result, error) {
	input, err := os.ReadFile(f.InputPath)
	if err != nil {
		return nil, errors.E("readInput", errors.FixtureFileVanished, f.InputPath, err)
	}

	runCtx := ctx
	if e.timeout > 0 {
		var cancel context.CancelFunc
		runCtx, cancel = context.WithTimeout(ctx, e.timeout)
		defer cancel()
	}

	var stdout, stderr bytes.Buffer
	cmd := execCommand(runCtx, e.argv[0], e.argv[1:]...)
	cmd.Stdin = bytes.NewReader(input)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	cmd.WaitDelay = waitDelay

	log := e.log.With(zap.String("fixture", f.Name))
	start := time.Now()
	if err := cmd.Start(); err != nil {
		return nil, errors.E("spawn", errors.SubprocessSpawnFailure, e.argv[0], err)
	}
	log.Debug("program started", zap.Int("pid", cmd.Process.Pid), zap.Int("input_bytes", len(input)))

	waitErr := cmd.Wait()
	exitCode := cmd.ProcessState.ExitCode()
	log.Debug("program exited",
		zap.Int("exit_code", exitCode),
		zap.Duration("elapsed", time.Since(start)),
		zap.Int("stdout_bytes", stdout.Len()),
		zap.Int("stderr_bytes", stderr.Len()),
	)

	if ctx.Err() != nil {
		return nil, ctx.Err()
	}
	if timedOut(runCtx, cmd.ProcessState) {
		return Failure{
			ErrorText: fmt.Sprintf("time limit of %s exceeded", e.timeout),
			ExitCode:  exitCode,
			TimedOut:  true,
		}, nil
	}

	var exitErr *exec.ExitError
	if waitErr != nil && !stderrors.As(waitErr, &exitErr) && !stderrors.Is(waitErr, exec.ErrWaitDelay) {
		return nil, errors.E("wait", errors.SubprocessRuntimeError, e.argv[0], waitErr)
	}

	if stderr.Len() > 0 {
		return Failure{ErrorText: e.decode(stderr.Bytes()), ExitCode: exitCode}, nil
	}

	produced := compare.SplitLines(e.decode(stdout.Bytes()))

	want, err := os.ReadFile(f.OutputPath)
	if err != nil {
		return nil, errors.E("readOutput", errors.FixtureFileVanished, f.OutputPath, err)
	}
	expected := compare.SplitLines(string(want))

	return Success{
		Outcome:  compare.Lines(produced, expected),
		ExitCode: exitCode,
	}, nil
}

// timedOut reports whether the time limit ended the program: the deadline
// passed and the process was killed rather than exiting on its own.
func timedOut(runCtx context.Context, state *os.ProcessState) bool {
	return runCtx.Err() != nil && state != nil && !state.Exited()
}

func (e *Executor) decode(b []byte) string {
	out, err := e.encoding.NewDecoder().Bytes(b)
	if err != nil {
		// Neither supported decoder rejects input; keep the raw bytes anyway.
		return string(b)
	}
	return string(out)
}

func buildCommand(interpreter, program string) ([]string, error) {
	if strings.TrimSpace(interpreter) == "" {
		return []string{program}, nil
	}
	fields, err := shlex.Split(interpreter)
	if err != nil {
		return nil, fmt.Errorf("parse interpreter %q: %w", interpreter, err)
	}
	if len(fields) == 0 {
		return []string{program}, nil
	}
	return append(fields, program), nil
}

func streamEncoding(name string) (encoding.Encoding, error) {
	switch strings.ToLower(name) {
	case "", config.EncodingLatin1, "iso-8859-1":
		return charmap.ISO8859_1, nil
	case config.EncodingUTF8, "utf8":
		return unicode.UTF8, nil
	default:
		return nil, fmt.Errorf("unsupported encoding %q", name)
	}
}
