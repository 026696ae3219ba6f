package runner

import "tester/internal/compare"

// Result is the outcome of running the program against one fixture. It is
// either a Success or a Failure.
type Result interface {
	isResult()
}

// Success means the program ran without writing to its error stream. The
// embedded outcome says whether its output matched.
type Success struct {
	compare.Outcome
	// ExitCode is informational; a non-zero status alone is not a failure.
	ExitCode int
}

// Failure means the program wrote to its error stream or was killed after
// the time limit. No comparison was made.
type Failure struct {
	ErrorText string
	ExitCode  int
	TimedOut  bool
}

func (Success) isResult() {}
func (Failure) isResult() {}
