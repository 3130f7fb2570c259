package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/edy131109/LithiumCompiler/internal/codegen"
	"github.com/edy131109/LithiumCompiler/internal/lexer"
	"github.com/edy131109/LithiumCompiler/internal/parser"
)

func main() {
	outputString := flag.String("o", "", "output file name")
	platformString := flag.String("p", "linux", "target platform (linux, win, lith), or \"ast\" to dump the parsed tree")
	verbose := flag.Bool("v", false, "annotate the listing with statement comments")
	flag.Parse()

	if len(flag.Args()) != 1 {
		fmt.Fprintln(os.Stderr, "Usage: lithc [options] <input file>")
		flag.PrintDefaults()
		os.Exit(1)
	}
	inputFileName := flag.Args()[0]

	inputFile, err := os.Open(inputFileName)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error opening input file: %v\n", err)
		os.Exit(1)
	}
	defer inputFile.Close()

	// Diagnostics cite the base name, not the full path.
	srcName := filepath.Base(inputFileName)

	tokens, err := lexer.New(inputFile, srcName).Tokenize()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	p := parser.New(tokens, srcName)
	prog, err := p.ParseProgram()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	// If we only need to output the AST, stop immediately after parsing.
	if *platformString == "ast" {
		fmt.Printf("%s\n", prog.String())
		return
	}

	platform, err := codegen.PlatformFromName(*platformString)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	var output io.Writer
	if *outputString == "-" {
		output = os.Stdout
	} else {
		if *outputString == "" {
			*outputString = strings.TrimSuffix(inputFileName, filepath.Ext(inputFileName)) + ".asm"
		}
		outputFile, err := os.Create(*outputString)
		if err != nil {
			fmt.Fprintf(os.Stderr, "error creating output file: %v\n", err)
			os.Exit(1)
		}
		defer func() {
			if err := outputFile.Close(); err != nil {
				fmt.Fprintf(os.Stderr, "warning: failed to close output file: %v\n", err)
			}
		}()
		output = outputFile
	}

	if err := codegen.Generate(output, platform, prog, *verbose); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	p.Arena().Reset()
}
