package report

import (
	"bytes"
	stderrors "errors"
	"os"
	"strings"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"

	"tester/internal/compare"
	"tester/internal/errors"
	"tester/internal/fixture"
	"tester/internal/runner"
)

func TestMain(m *testing.M) {
	color.NoColor = true
	os.Exit(m.Run())
}

func render(fn func(r *Renderer)) (string, Summary) {
	var buf bytes.Buffer
	r := New(&buf)
	fn(r)
	return buf.String(), r.Summary()
}

func TestResultPass(t *testing.T) {
	out, sum := render(func(r *Renderer) {
		r.Result(fixture.Fixture{Name: "1"}, runner.Success{Outcome: compare.Text("3\n", "3\n")})
	})

	assert.Contains(t, out, "Test 1 is correct")
	assert.NotContains(t, out, "EXPECTED")
	assert.Equal(t, Summary{Passed: 1}, sum)
}

func TestResultFail(t *testing.T) {
	out, sum := render(func(r *Renderer) {
		r.Result(fixture.Fixture{Name: "2"}, runner.Success{Outcome: compare.Text("wrong\n", "right\n")})
	})

	assert.Contains(t, out, "Test 2 is incorrect")
	assert.Contains(t, strings.ToUpper(out), "EXPECTED")
	assert.Contains(t, strings.ToUpper(out), "OBTAINED")
	assert.Contains(t, out, "right")
	assert.Contains(t, out, "wrong")
	assert.Equal(t, Summary{Failed: 1}, sum)
}

func TestResultFailColors(t *testing.T) {
	color.NoColor = false
	t.Cleanup(func() { color.NoColor = true })

	out, _ := render(func(r *Renderer) {
		r.Result(fixture.Fixture{Name: "3"}, runner.Success{Outcome: compare.Lines(
			[]string{"good", "bad"},
			[]string{"good", "unseen"},
		)})
	})

	assert.Contains(t, out, color.RedString("%s", "bad"), "mismatched lines are red")
	assert.Contains(t, out, color.GreenString("%s", "good"), "correct lines are green")
	assert.Contains(t, out, color.GreenString("%s", "unseen"), "expected lines never produced are highlighted")
}

func TestResultFailKeepsSurroundingSpaces(t *testing.T) {
	out, _ := render(func(r *Renderer) {
		r.Result(fixture.Fixture{Name: "4"}, runner.Success{Outcome: compare.Lines(
			[]string{"abcdefgh", "ijklmnop"},
			[]string{"abcdefgh   ", "   ijklmnop"},
		)})
	})

	cells := func(t *testing.T, marker string) []string {
		t.Helper()
		for _, line := range strings.Split(out, "\n") {
			if strings.Contains(line, marker) {
				return strings.FieldsFunc(line, func(r rune) bool { return r == '│' || r == '|' })
			}
		}
		t.Fatalf("no table row contains %q:\n%s", marker, out)
		return nil
	}

	tests := []struct {
		marker       string
		wantExpected string
		wantObtained string
	}{
		{marker: "abcdefgh", wantExpected: " abcdefgh    ", wantObtained: " abcdefgh "},
		{marker: "ijklmnop", wantExpected: "    ijklmnop ", wantObtained: " ijklmnop "},
	}
	for _, tt := range tests {
		t.Run(tt.marker, func(t *testing.T) {
			row := cells(t, tt.marker)
			if assert.Len(t, row, 2) {
				assert.Equal(t, tt.wantExpected, row[0])
				assert.Equal(t, tt.wantObtained, row[1])
			}
		})
	}
}

func TestResultFailure(t *testing.T) {
	out, sum := render(func(r *Renderer) {
		r.Result(fixture.Fixture{Name: "4"}, runner.Failure{ErrorText: "div by zero", ExitCode: 1})
	})

	assert.Contains(t, out, "An error occurred while running test 4")
	assert.Contains(t, out, "div by zero")
	assert.Contains(t, out, "exited with status 1")
	assert.Equal(t, Summary{Errored: 1}, sum)
}

func TestResultTimeout(t *testing.T) {
	out, _ := render(func(r *Renderer) {
		r.Result(fixture.Fixture{Name: "5"}, runner.Failure{ErrorText: "time limit of 1s exceeded", TimedOut: true, ExitCode: -1})
	})

	assert.Contains(t, out, "Test 5 was stopped")
	assert.Contains(t, out, "time limit of 1s exceeded")
}

func TestError(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		want    string
		summary Summary
	}{
		{
			name:    "incomplete pair",
			err:     errors.E("discover", errors.FixturePairIncomplete, "answers/7", stderrors.New("no .out file for 7.in")),
			want:    "Could not find test answers/7: no .out file for 7.in",
			summary: Summary{Skipped: 1},
		},
		{
			name:    "vanished",
			err:     errors.E("readInput", errors.FixtureFileVanished, "answers/8.in", os.ErrNotExist),
			want:    "Test file answers/8.in could not be read",
			summary: Summary{Skipped: 1},
		},
		{
			name:    "spawn",
			err:     errors.E("spawn", errors.SubprocessSpawnFailure, "python3", stderrors.New("executable file not found")),
			want:    "Could not start python3",
			summary: Summary{Errored: 1},
		},
		{
			name: "path",
			err:  errors.E("verifyPaths", errors.PathNotFound, "prog.py", os.ErrNotExist),
			want: "Could not find prog.py",
		},
		{
			name: "other",
			err:  stderrors.New("boom"),
			want: "Error: boom",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, sum := render(func(r *Renderer) { r.Error(tt.err) })
			assert.Contains(t, out, tt.want)
			assert.Equal(t, tt.summary, sum)
		})
	}
}

func TestFinish(t *testing.T) {
	out, _ := render(func(r *Renderer) { r.Finish() })
	assert.Contains(t, out, "No tests were found.")

	out, sum := render(func(r *Renderer) {
		r.Result(fixture.Fixture{Name: "a"}, runner.Success{Outcome: compare.Text("1\n", "1\n")})
		r.Result(fixture.Fixture{Name: "b"}, runner.Success{Outcome: compare.Text("2\n", "1\n")})
		r.Result(fixture.Fixture{Name: "c"}, runner.Failure{ErrorText: "boom"})
		r.Finish()
	})
	assert.Contains(t, out, "Summary: 1 passed, 1 failed, 1 errors")
	assert.Equal(t, 3, sum.Total())
}

func TestProgressDisabledOffTerminal(t *testing.T) {
	var buf bytes.Buffer
	p := NewProgress(&buf)
	p.Start("1")
	p.Stop()

	assert.Nil(t, p.s)
	assert.Empty(t, buf.String())
}

func TestProgressOnTerminal(t *testing.T) {
	original := isTerminal
	t.Cleanup(func() { isTerminal = original })
	isTerminal = func(*os.File) bool { return true }

	f, err := os.CreateTemp(t.TempDir(), "tty")
	if err != nil {
		t.Fatalf("failed to create file: %v", err)
	}
	defer f.Close()

	p := NewProgress(f)
	assert.NotNil(t, p.s)
	p.Start("7")
	assert.Contains(t, p.s.Suffix, "Running test 7")
	p.Stop()
}
