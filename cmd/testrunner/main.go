// Command testrunner builds and runs every end-to-end test program.
// A test is a tests/<name>.l source with a sibling tests/<name>.exit
// file holding the expected process exit status.
package main

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"

	goflags "github.com/jessevdk/go-flags"
)

var options struct {
	TestsDir string `short:"t" long:"tests" default:"tests" description:"directory containing .l test programs"`
	Keep     bool   `short:"k" long:"keep" description:"keep compiled binaries"`
	Filter   string `short:"f" long:"filter" description:"run only tests whose name contains this substring"`
}

// TestCase represents a single test case.
type TestCase struct {
	Name         string
	SourceFile   string
	ExpectedCode int
}

func main() {
	if _, err := goflags.Parse(&options); err != nil {
		os.Exit(1)
	}

	tests, err := discoverTests(options.TestsDir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error discovering tests: %v\n", err)
		os.Exit(1)
	}
	if len(tests) == 0 {
		fmt.Fprintf(os.Stderr, "no tests found in %s\n", options.TestsDir)
		os.Exit(1)
	}

	passed, failed := 0, 0
	for _, tc := range tests {
		if options.Filter != "" && !strings.Contains(tc.Name, options.Filter) {
			continue
		}
		if err := runTest(tc); err != nil {
			fmt.Printf("FAIL %s: %v\n", tc.Name, err)
			failed++
		} else {
			fmt.Printf("PASS %s\n", tc.Name)
			passed++
		}
	}

	fmt.Printf("\n%d passed, %d failed\n", passed, failed)
	if failed > 0 {
		os.Exit(1)
	}
}

// discoverTests finds every .l file with a matching .exit file.
func discoverTests(testsDir string) ([]TestCase, error) {
	sources, err := filepath.Glob(filepath.Join(testsDir, "*.l"))
	if err != nil {
		return nil, err
	}

	var tests []TestCase
	for _, src := range sources {
		name := strings.TrimSuffix(filepath.Base(src), ".l")
		expectedFile := filepath.Join(testsDir, name+".exit")
		data, err := os.ReadFile(expectedFile)
		if err != nil {
			continue
		}
		code, err := strconv.Atoi(strings.TrimSpace(string(data)))
		if err != nil {
			return nil, fmt.Errorf("%s: %w", expectedFile, err)
		}
		tests = append(tests, TestCase{Name: name, SourceFile: src, ExpectedCode: code})
	}
	return tests, nil
}

func runTest(tc TestCase) error {
	binFile, err := filepath.Abs(filepath.Join(options.TestsDir, tc.Name))
	if err != nil {
		return err
	}
	if !options.Keep {
		defer os.Remove(binFile)
	}

	// Build the test program with the compiler from this tree.
	buildCmd := exec.Command("go", "run",
		"github.com/edy131109/LithiumCompiler/cmd/lith", "-o", binFile, tc.SourceFile)
	if output, err := buildCmd.CombinedOutput(); err != nil {
		return fmt.Errorf("compilation failed: %w\nOutput: %s", err, output)
	}

	gotCode := 0
	if err := exec.Command(binFile).Run(); err != nil {
		exitErr, ok := err.(*exec.ExitError)
		if !ok {
			return fmt.Errorf("running %s: %w", binFile, err)
		}
		gotCode = exitErr.ExitCode()
	}

	if gotCode != tc.ExpectedCode {
		return fmt.Errorf("exit status %d, want %d", gotCode, tc.ExpectedCode)
	}
	return nil
}
