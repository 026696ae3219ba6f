// Package report prints fixture results for a person reading a terminal.
package report

import (
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"

	"tester/internal/errors"
	"tester/internal/fixture"
	"tester/internal/runner"
)

var (
	passColor    = color.New(color.FgGreen)
	failColor    = color.New(color.FgRed, color.Bold)
	errorBanner  = color.New(color.BgRed, color.FgWhite)
	errorColor   = color.New(color.FgRed)
	warnColor    = color.New(color.FgYellow)
	headingColor = color.New(color.Bold)
)

// Summary counts what happened during a run.
type Summary struct {
	Passed  int
	Failed  int
	Errored int
	Skipped int
}

// Total is the number of fixtures that produced any outcome.
func (s Summary) Total() int {
	return s.Passed + s.Failed + s.Errored + s.Skipped
}

// Renderer writes results to out as they arrive.
type Renderer struct {
	out     io.Writer
	summary Summary
}

// New returns a Renderer that writes to out.
func New(out io.Writer) *Renderer {
	return &Renderer{out: out}
}

// Summary returns the counts so far.
func (r *Renderer) Summary() Summary {
	return r.summary
}

// Result prints the outcome of one fixture.
func (r *Renderer) Result(f fixture.Fixture, res runner.Result) {
	switch res := res.(type) {
	case runner.Success:
		r.success(f, res)
	case runner.Failure:
		r.failure(f, res)
	default:
		panic(fmt.Sprintf("report: unknown result type %T", res))
	}
}

func (r *Renderer) success(f fixture.Fixture, s runner.Success) {
	if s.Pass() {
		r.summary.Passed++
		passColor.Fprintf(r.out, "✔ Test %s is correct\n", f.Name)
		r.exitCode(s.ExitCode)
		return
	}

	r.summary.Failed++
	failColor.Fprintf(r.out, "✖ Test %s is incorrect\n", f.Name)
	r.exitCode(s.ExitCode)
	fmt.Fprintln(r.out)

	if err := r.table(s); err != nil {
		errorColor.Fprintf(r.out, "Could not print the comparison for test %s: %v\n", f.Name, err)
	}
	fmt.Fprintln(r.out)
}

// table prints expected and obtained lines side by side. Cells are printed
// exactly as read, surrounding spaces included.
func (r *Renderer) table(s runner.Success) error {
	table := tablewriter.NewTable(r.out, tablewriter.WithTrimSpace(tw.Off))
	table.Header([]string{"Expected", "Obtained"})
	rows := max(len(s.Expected), len(s.Produced))
	for i := 0; i < rows; i++ {
		row := []string{"", ""}
		if i < len(s.Expected) {
			line := s.Expected[i]
			row[0] = line
			if s.Missing(line) {
				row[0] = color.GreenString("%s", line)
			}
		}
		if i < len(s.Produced) {
			line := s.Produced[i]
			if s.Correct(line) {
				row[1] = color.GreenString("%s", line)
			} else {
				row[1] = color.RedString("%s", line)
			}
		}
		if err := table.Append(row); err != nil {
			return fmt.Errorf("add row %d: %w", i+1, err)
		}
	}
	return table.Render()
}

func (r *Renderer) failure(f fixture.Fixture, fl runner.Failure) {
	r.summary.Errored++
	if fl.TimedOut {
		errorBanner.Fprintf(r.out, "Test %s was stopped:", f.Name)
	} else {
		errorBanner.Fprintf(r.out, "An error occurred while running test %s:", f.Name)
	}
	fmt.Fprintln(r.out)
	errorColor.Fprintln(r.out, fl.ErrorText)
	r.exitCode(fl.ExitCode)
}

func (r *Renderer) exitCode(code int) {
	if code != 0 {
		warnColor.Fprintf(r.out, "  program exited with status %d\n", code)
	}
}

// Error prints an error that kept a fixture from producing a result.
func (r *Renderer) Error(err error) {
	path := errors.PathOf(err)
	switch errors.KindOf(err) {
	case errors.FixturePairIncomplete:
		r.summary.Skipped++
		errorColor.Fprintf(r.out, "Could not find test %s: %v\n", path, errors.Cause(err))
	case errors.FixtureFileVanished:
		r.summary.Skipped++
		errorColor.Fprintf(r.out, "Test file %s could not be read, skipping: %v\n", path, errors.Cause(err))
	case errors.SubprocessSpawnFailure:
		r.summary.Errored++
		errorBanner.Fprintf(r.out, "Could not start %s:", path)
		fmt.Fprintln(r.out)
		errorColor.Fprintln(r.out, errors.Cause(err))
	case errors.SubprocessRuntimeError:
		r.summary.Errored++
		errorColor.Fprintf(r.out, "Error while running %s: %v\n", path, errors.Cause(err))
	case errors.PathNotFound:
		errorColor.Fprintf(r.out, "Could not find %s\n", color.CyanString("%s", path))
	default:
		errorColor.Fprintf(r.out, "Error: %v\n", err)
	}
}

// Finish prints the run summary.
func (r *Renderer) Finish() {
	s := r.summary
	if s.Total() == 0 {
		warnColor.Fprintln(r.out, "No tests were found.")
		return
	}

	fmt.Fprintln(r.out)
	headingColor.Fprint(r.out, "Summary: ")
	passColor.Fprintf(r.out, "%d passed", s.Passed)
	fmt.Fprint(r.out, ", ")
	if s.Failed > 0 {
		errorColor.Fprintf(r.out, "%d failed", s.Failed)
	} else {
		fmt.Fprintf(r.out, "%d failed", s.Failed)
	}
	fmt.Fprint(r.out, ", ")
	if s.Errored+s.Skipped > 0 {
		warnColor.Fprintf(r.out, "%d errors", s.Errored+s.Skipped)
	} else {
		fmt.Fprintf(r.out, "%d errors", s.Errored+s.Skipped)
	}
	fmt.Fprintln(r.out)
}
