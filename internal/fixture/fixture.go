// Package fixture discovers input/expected-output pairs in an answers directory.
package fixture

import (
	"fmt"
	"iter"
	"os"
	"path/filepath"
	"strings"

	"tester/internal/errors"
	"tester/internal/util"
)

// Fixture is one test case: an input file and the expected output for it.
// Name is the file name both share once the suffixes are removed.
type Fixture struct {
	Name       string
	InputPath  string
	OutputPath string
}

// Discover lists dir once, in lexical order, and yields a fixture for every file ending in
// inSuffix whose companion with outSuffix exists. A candidate without its
// companion, and an output file without an input, yields a
// FixturePairIncomplete error instead; iteration carries on after it.
//
// The directory is listed when Discover is called, so the returned sequence
// reflects that moment and can be ranged over only once.
func Discover(dir, inSuffix, outSuffix string) iter.Seq2[Fixture, error] {
	inputs, outputs, listErr := listFiles(dir, inSuffix, outSuffix)
	used := false

	return func(yield func(Fixture, error) bool) {
		if used {
			return
		}
		used = true

		if listErr != nil {
			yield(Fixture{}, listErr)
			return
		}

		available := make(map[string]bool, len(outputs))
		for _, output := range outputs {
			available[output] = true
		}

		paired := make(map[string]bool, len(inputs))
		for _, input := range inputs {
			base := strings.TrimSuffix(input, inSuffix)
			output := base + outSuffix
			if !available[output] {
				err := errors.E("discover", errors.FixturePairIncomplete, base,
					fmt.Errorf("no %s file for %s", outSuffix, filepath.Base(input)))
				if !yield(Fixture{}, err) {
					return
				}
				continue
			}
			paired[output] = true
			f := Fixture{Name: filepath.Base(base), InputPath: input, OutputPath: output}
			if !yield(f, nil) {
				return
			}
		}

		for _, output := range outputs {
			if paired[output] {
				continue
			}
			base := strings.TrimSuffix(output, outSuffix)
			err := errors.E("discover", errors.FixturePairIncomplete, base,
				fmt.Errorf("no %s file for %s", inSuffix, filepath.Base(output)))
			if !yield(Fixture{}, err) {
				return
			}
		}
	}
}

// listFiles reads dir and returns the regular files ending in each suffix.
func listFiles(dir, inSuffix, outSuffix string) (inputs, outputs []string, err error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, nil, errors.E("discover", errors.Other, dir, err)
	}
	for _, entry := range entries {
		name := entry.Name()
		path := filepath.Join(dir, name)
		isIn := hasSuffix(name, inSuffix)
		isOut := hasSuffix(name, outSuffix)
		if !isIn && !isOut || !util.FileExists(path) {
			continue
		}
		if isIn {
			inputs = append(inputs, path)
		}
		if isOut {
			outputs = append(outputs, path)
		}
	}
	return inputs, outputs, nil
}

func hasSuffix(name, suffix string) bool {
	return len(name) > len(suffix) && strings.HasSuffix(name, suffix)
}
