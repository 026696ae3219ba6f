// Package compare checks a program's output lines against the expected ones.
//
// A produced line counts as correct when it appears anywhere among the
// expected lines. Order and repetition are ignored in both directions: a
// correct line printed twice is still correct, and an expected line that is
// never printed only shows up as missing in the report. This is a known
// looseness and is kept as is.
package compare

import "strings"

// SplitLines splits text on '\n', keeping every fragment including the empty
// one that follows a final newline.
func SplitLines(text string) []string {
	return strings.Split(text, "\n")
}

// LineSet is a set of lines that remembers insertion order.
type LineSet struct {
	order []string
	index map[string]struct{}
}

// NewLineSet builds a set from lines, dropping repeats.
func NewLineSet(lines ...string) LineSet {
	s := LineSet{index: make(map[string]struct{}, len(lines))}
	for _, line := range lines {
		s.Add(line)
	}
	return s
}

// Add inserts line unless it is already a member.
func (s *LineSet) Add(line string) {
	if s.index == nil {
		s.index = make(map[string]struct{})
	}
	if _, ok := s.index[line]; ok {
		return
	}
	s.index[line] = struct{}{}
	s.order = append(s.order, line)
}

// Contains reports whether line is a member.
func (s LineSet) Contains(line string) bool {
	_, ok := s.index[line]
	return ok
}

// Len returns the number of distinct lines.
func (s LineSet) Len() int { return len(s.order) }

// Lines returns the members in the order they were first added.
func (s LineSet) Lines() []string {
	return append([]string(nil), s.order...)
}

// Outcome is the comparison of one run. It passes when no produced line is
// mismatched.
type Outcome struct {
	Produced   []string
	Expected   []string
	Mismatched LineSet

	expected LineSet
	produced LineSet
}

// Lines compares produced against expected.
func Lines(produced, expected []string) Outcome {
	want := NewLineSet(expected...)
	got := NewLineSet(produced...)

	var mismatched LineSet
	for _, line := range produced {
		if !want.Contains(line) {
			mismatched.Add(line)
		}
	}

	return Outcome{
		Produced:   produced,
		Expected:   expected,
		Mismatched: mismatched,
		expected:   want,
		produced:   got,
	}
}

// Text splits both texts into lines and compares them.
func Text(produced, expected string) Outcome {
	return Lines(SplitLines(produced), SplitLines(expected))
}

// Pass reports whether every produced line was expected.
func (o Outcome) Pass() bool {
	return o.Mismatched.Len() == 0
}

// Correct reports whether a produced line occurs among the expected lines.
func (o Outcome) Correct(line string) bool {
	return o.expected.Contains(line)
}

// Missing reports whether an expected line was never produced.
func (o Outcome) Missing(line string) bool {
	return !o.produced.Contains(line)
}
