package main

import (
	"bytes"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"

	"github.com/davecgh/go-spew/spew"

	"github.com/edy131109/LithiumCompiler/internal/codegen"
	"github.com/edy131109/LithiumCompiler/internal/lexer"
	"github.com/edy131109/LithiumCompiler/internal/parser"
)

// buildProgram compiles inputFile, assembles it with nasm and links it
// with ld. Intermediate files are removed unless --debug is set.
func buildProgram(inputFile string) error {
	platform, err := codegen.PlatformFromName(platformName)
	if err != nil {
		return err
	}

	input, err := os.Open(inputFile)
	if err != nil {
		return fmt.Errorf("error opening input file: %w", err)
	}
	defer input.Close()

	srcName := filepath.Base(inputFile)

	tokens, err := lexer.New(input, srcName).Tokenize()
	if err != nil {
		return err
	}

	p := parser.New(tokens, srcName)
	prog, err := p.ParseProgram()
	if err != nil {
		return err
	}

	if debug {
		astFile := outputFile + ".ast"
		f, err := os.Create(astFile)
		if err != nil {
			return fmt.Errorf("error creating %s: %w", astFile, err)
		}
		spew.Fdump(f, prog)
		if err := f.Close(); err != nil {
			return fmt.Errorf("error writing %s: %w", astFile, err)
		}
		logStep("wrote %s", astFile)
	}

	// Generate into memory first so a rejected platform leaves no
	// partial files behind.
	var listing bytes.Buffer
	if err := codegen.Generate(&listing, platform, prog, verbose); err != nil {
		return err
	}
	p.Arena().Reset()

	asmFile := outputFile + ".asm"
	objFile := outputFile + ".o"

	if err := os.WriteFile(asmFile, listing.Bytes(), 0o644); err != nil {
		return fmt.Errorf("error writing %s: %w", asmFile, err)
	}
	logStep("wrote %s", asmFile)

	if err := run("nasm", "-felf64", asmFile, "-o", objFile); err != nil {
		return err
	}
	logStep("assembled %s", objFile)

	if err := run("ld", "-o", outputFile, objFile); err != nil {
		return err
	}
	logStep("linked %s", outputFile)

	if !debug {
		os.Remove(asmFile)
		os.Remove(objFile)
	}
	return nil
}

func run(name string, args ...string) error {
	cmd := exec.Command(name, args...)
	if output, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("%s failed: %w\n%s", name, err, output)
	}
	return nil
}

func logStep(format string, args ...any) {
	if verbose {
		fmt.Fprintf(os.Stderr, format+"\n", args...)
	}
}
