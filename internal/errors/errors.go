package errors

import (
	stderrors "errors"
	"fmt"
)

// Kind classifies a failure so the top-level handler can decide whether the
// run stops or moves on to the next fixture.
type Kind int

const (
	Other Kind = iota
	// PathNotFound: the program or the answers directory is missing at startup.
	PathNotFound
	// FixturePairIncomplete: an input file has no output companion, or the reverse.
	FixturePairIncomplete
	// SubprocessSpawnFailure: the target program could not be started.
	SubprocessSpawnFailure
	// SubprocessRuntimeError: the target program wrote to its error stream.
	SubprocessRuntimeError
	// FixtureFileVanished: a discovered fixture file could not be read at run time.
	FixtureFileVanished
)

var kindNames = map[Kind]string{
	Other:                  "other",
	PathNotFound:           "path not found",
	FixturePairIncomplete:  "fixture pair incomplete",
	SubprocessSpawnFailure: "subprocess spawn failure",
	SubprocessRuntimeError: "subprocess runtime error",
	FixtureFileVanished:    "fixture file vanished",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// Fatal reports whether an error of this kind aborts the whole run.
func (k Kind) Fatal() bool {
	return k == PathNotFound || k == Other
}

// Error is a failure tagged with the operation and kind that produced it.
type Error struct {
	Op   string
	Kind Kind
	Path string
	Err  error
}

func (e *Error) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("operation %q failed on %s: %v", e.Op, e.Path, e.Err)
	}
	return fmt.Sprintf("operation %q failed: %v", e.Op, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// E wraps err in an *Error.
func E(op string, kind Kind, path string, err error) error {
	return &Error{Op: op, Kind: kind, Path: path, Err: err}
}

// KindOf returns the kind of the outermost *Error in err's chain, or Other.
func KindOf(err error) Kind {
	var e *Error
	if stderrors.As(err, &e) {
		return e.Kind
	}
	return Other
}

// PathOf returns the path recorded on the outermost *Error in err's chain.
func PathOf(err error) string {
	var e *Error
	if stderrors.As(err, &e) {
		return e.Path
	}
	return ""
}

// Cause returns the error wrapped by the outermost *Error in err's chain,
// or err itself when there is none.
func Cause(err error) error {
	var e *Error
	if stderrors.As(err, &e) && e.Err != nil {
		return e.Err
	}
	return err
}
