package x86_64_linux

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/edy131109/LithiumCompiler/internal/asm"
)

// Format renders the listing as NASM 64-bit assembly text.
func Format(out io.Writer, p asm.Program) error {
	w := bufio.NewWriter(out)
	for _, line := range p.Lines {
		formatLine(w, line)
	}
	return w.Flush()
}

func formatLine(w *bufio.Writer, line asm.Line) {
	switch {
	case line.Directive != "":
		fmt.Fprintf(w, "%s\n", line.Directive)
	case line.Label != "":
		fmt.Fprintf(w, "%s:\n", line.Label)
	case line.Op != "":
		fmt.Fprintf(w, "    %s", line.Op)
		if len(line.Args) > 0 {
			fmt.Fprintf(w, " %s", strings.Join(line.Args, ", "))
		}
		if line.Comment != "" {
			fmt.Fprintf(w, " ; %s", line.Comment)
		}
		fmt.Fprintf(w, "\n")
	case line.Comment != "":
		fmt.Fprintf(w, "    ; %s\n", line.Comment)
	}
}
