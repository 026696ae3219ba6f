package report

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/briandowns/spinner"
	"golang.org/x/term"
)

// Progress shows a spinner while a fixture runs. It does nothing unless it
// writes to a terminal, so piped output stays clean.
type Progress struct {
	s *spinner.Spinner
}

// isTerminal is a variable to allow mocking in tests
var isTerminal = func(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

// NewProgress returns a Progress that draws on w when w is a terminal.
func NewProgress(w io.Writer) *Progress {
	f, ok := w.(*os.File)
	if !ok || !isTerminal(f) {
		return &Progress{}
	}
	return &Progress{s: spinner.New(spinner.CharSets[9], 100*time.Millisecond, spinner.WithWriter(f))}
}

// Start shows the spinner for the named fixture.
func (p *Progress) Start(name string) {
	if p.s == nil {
		return
	}
	p.s.Suffix = fmt.Sprintf(" Running test %s...", name)
	p.s.Start()
}

// Stop clears the spinner line. Call it before printing anything else.
func (p *Progress) Stop() {
	if p.s == nil {
		return
	}
	p.s.Stop()
}
