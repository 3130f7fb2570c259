// Package asm holds the target-neutral assembly listing model. Code
// generators append Lines; a platform formatter renders them as text.
package asm

type Program struct {
	Lines []Line
}

// Line is one line of the listing: an assembler directive, a label
// definition, an instruction with operands, or a bare comment. The
// Directive, Label and Op fields are mutually exclusive.
type Line struct {
	Directive string
	Label     string
	Op        string
	Args      []string
	Comment   string
}

func (p *Program) Directive(text string) {
	p.Lines = append(p.Lines, Line{Directive: text})
}

func (p *Program) Label(name string) {
	p.Lines = append(p.Lines, Line{Label: name})
}

func (p *Program) Ins(op string, args ...string) {
	p.Lines = append(p.Lines, Line{Op: op, Args: args})
}

func (p *Program) Comment(text string) {
	p.Lines = append(p.Lines, Line{Comment: text})
}
