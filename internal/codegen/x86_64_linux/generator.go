// Package x86_64_linux lowers the program tree to NASM-syntax x86-64
// assembly for Linux. The process stack is the sole value store: every
// expression leaves exactly one 8-byte value on top of the stack, and
// every scope leaves the stack as it found it.
package x86_64_linux

import (
	"fmt"

	"github.com/edy131109/LithiumCompiler/internal/asm"
	"github.com/edy131109/LithiumCompiler/internal/ast"
	"github.com/edy131109/LithiumCompiler/internal/lexer"
)

type variable struct {
	name string
	// stackLoc is the stack depth, in 8-byte words, at the moment the
	// variable's value was pushed.
	stackLoc int
}

type Generator struct {
	prog    *ast.Program
	verbose bool

	out        asm.Program
	stackSize  int
	vars       []variable
	scopes     []int
	labelCount int
}

func New(prog *ast.Program, verbose bool) *Generator {
	return &Generator{prog: prog, verbose: verbose}
}

// Generate emits the whole listing. Programs that never reach an exit
// statement fall through to an implicit exit(0).
func (g *Generator) Generate() (asm.Program, error) {
	g.out.Directive("bits 64")
	g.out.Directive("global _start")
	g.out.Directive("section .text")
	g.out.Label("_start")

	for _, stmt := range g.prog.Stmts {
		if err := g.genStmt(stmt); err != nil {
			return asm.Program{}, err
		}
	}

	g.out.Ins("mov", "rax", "60")
	g.out.Ins("mov", "rdi", "0")
	g.out.Ins("syscall")
	return g.out, nil
}

func (g *Generator) genStmt(stmt *ast.Stmt) error {
	switch {
	case stmt.Exit != nil:
		g.comment("exit")
		if err := g.genExpr(stmt.Exit.Expr); err != nil {
			return err
		}
		g.out.Ins("mov", "rax", "60")
		g.pop("rdi")
		g.out.Ins("syscall")
		return nil

	case stmt.Let != nil:
		let := stmt.Let
		g.comment("let " + let.Ident.Value)
		if g.lookup(let.Ident.Value) != nil {
			return g.errAt(let.Ident.Loc, fmt.Sprintf("Identifier already used: %s", let.Ident.Value))
		}
		g.vars = append(g.vars, variable{name: let.Ident.Value, stackLoc: g.stackSize})
		return g.genExpr(let.Expr)

	case stmt.Set != nil:
		return g.genStmtSet(stmt.Set)

	case stmt.Scope != nil:
		g.comment("scope")
		return g.genScope(stmt.Scope)

	case stmt.If != nil:
		g.comment("if")
		return g.genIf(stmt.If)
	}
	panic(fmt.Sprintf("unsupported statement type: %v", *stmt))
}

func (g *Generator) genStmtSet(set *ast.SetStmt) error {
	g.comment(set.Ident.Value + " " + set.Op.String())
	v := g.lookup(set.Ident.Value)
	if v == nil {
		return g.errAt(set.Ident.Loc, fmt.Sprintf("Undeclared identifier used '%s'", set.Ident.Value))
	}
	if err := g.genExpr(set.Expr); err != nil {
		return err
	}

	if set.Op == ast.SetAssign {
		g.pop("rax")
		g.out.Ins("mov", g.slot(v), "rax")
		return nil
	}

	// Compound assignment: the target's current value is the left
	// operand, the freshly computed value the right one.
	g.pop("rbx")
	g.out.Ins("mov", "rax", g.slot(v))
	switch set.Op {
	case ast.SetAdd:
		g.out.Ins("add", "rax", "rbx")
	case ast.SetSub:
		g.out.Ins("sub", "rax", "rbx")
	case ast.SetMul:
		g.out.Ins("mul", "rbx")
	case ast.SetDiv:
		g.out.Ins("xor", "rdx", "rdx")
		g.out.Ins("div", "rbx")
	}
	g.out.Ins("mov", g.slot(v), "rax")
	return nil
}

func (g *Generator) genScope(scope *ast.Scope) error {
	g.beginScope()
	for _, stmt := range scope.Stmts {
		if err := g.genStmt(stmt); err != nil {
			return err
		}
	}
	g.endScope()
	return nil
}

func (g *Generator) genIf(stmtIf *ast.IfStmt) error {
	if err := g.genExpr(stmtIf.Cond); err != nil {
		return err
	}
	g.pop("rax")
	g.out.Ins("test", "rax", "rax")

	if stmtIf.Pred == nil {
		end := g.createLabel()
		g.out.Ins("jz", end)
		if err := g.genScope(stmtIf.Then); err != nil {
			return err
		}
		g.out.Label(end)
		return nil
	}

	next := g.createLabel()
	end := g.createLabel()
	g.out.Ins("jz", next)
	if err := g.genScope(stmtIf.Then); err != nil {
		return err
	}
	g.out.Ins("jmp", end)
	g.out.Label(next)
	if err := g.genIfPred(stmtIf.Pred, end); err != nil {
		return err
	}
	g.out.Label(end)
	return nil
}

// genIfPred lowers an else-if/else chain. end is the label following
// the whole if statement.
func (g *Generator) genIfPred(pred *ast.IfPred, end string) error {
	switch {
	case pred.ElseIf != nil:
		elseIf := pred.ElseIf
		if err := g.genExpr(elseIf.Cond); err != nil {
			return err
		}
		g.pop("rax")
		g.out.Ins("test", "rax", "rax")
		if elseIf.Pred == nil {
			g.out.Ins("jz", end)
			return g.genScope(elseIf.Scope)
		}
		next := g.createLabel()
		g.out.Ins("jz", next)
		if err := g.genScope(elseIf.Scope); err != nil {
			return err
		}
		g.out.Ins("jmp", end)
		g.out.Label(next)
		return g.genIfPred(elseIf.Pred, end)

	case pred.Else != nil:
		return g.genScope(pred.Else.Scope)
	}
	panic(fmt.Sprintf("unsupported if predicate type: %v", *pred))
}

func (g *Generator) genExpr(expr *ast.Expr) error {
	switch {
	case expr.Term != nil:
		return g.genTerm(expr.Term)
	case expr.BinExpr != nil:
		return g.genBinExpr(expr.BinExpr)
	}
	panic(fmt.Sprintf("unsupported expression type: %v", *expr))
}

// genBinExpr lowers the right operand first so that the left one ends
// up in rax at the operator, orienting sub and div as lhs OP rhs.
func (g *Generator) genBinExpr(bin *ast.BinExpr) error {
	if err := g.genExpr(bin.Rhs); err != nil {
		return err
	}
	if err := g.genExpr(bin.Lhs); err != nil {
		return err
	}
	g.pop("rax")
	g.pop("rbx")
	switch bin.Op {
	case ast.BinAdd:
		g.out.Ins("add", "rax", "rbx")
	case ast.BinSub:
		g.out.Ins("sub", "rax", "rbx")
	case ast.BinMul:
		g.out.Ins("mul", "rbx")
	case ast.BinDiv:
		g.out.Ins("xor", "rdx", "rdx")
		g.out.Ins("div", "rbx")
	}
	g.push("rax")
	return nil
}

func (g *Generator) genTerm(term *ast.Term) error {
	switch {
	case term.IntLit != nil:
		g.out.Ins("mov", "rax", term.IntLit.Value)
		g.push("rax")
		return nil
	case term.Ident != nil:
		v := g.lookup(term.Ident.Value)
		if v == nil {
			return g.errAt(term.Ident.Loc, fmt.Sprintf("Undeclared identifier used '%s'", term.Ident.Value))
		}
		g.push(g.slot(v))
		return nil
	case term.Paren != nil:
		return g.genExpr(term.Paren)
	}
	panic(fmt.Sprintf("unsupported term type: %v", *term))
}

// slot names the target's stack slot relative to the current stack
// pointer. Valid only until the next push or pop.
func (g *Generator) slot(v *variable) string {
	return fmt.Sprintf("QWORD [rsp + %d]", (g.stackSize-v.stackLoc-1)*8)
}

func (g *Generator) lookup(name string) *variable {
	for i := range g.vars {
		if g.vars[i].name == name {
			return &g.vars[i]
		}
	}
	return nil
}

func (g *Generator) push(arg string) {
	g.out.Ins("push", arg)
	g.stackSize++
}

func (g *Generator) pop(reg string) {
	g.out.Ins("pop", reg)
	g.stackSize--
}

func (g *Generator) beginScope() {
	g.scopes = append(g.scopes, len(g.vars))
}

func (g *Generator) endScope() {
	popCount := len(g.vars) - g.scopes[len(g.scopes)-1]
	if popCount > 0 {
		g.out.Ins("add", "rsp", fmt.Sprintf("%d", popCount*8))
	}
	g.stackSize -= popCount
	g.vars = g.vars[:len(g.vars)-popCount]
	g.scopes = g.scopes[:len(g.scopes)-1]
}

func (g *Generator) createLabel() string {
	label := fmt.Sprintf("label%d", g.labelCount)
	g.labelCount++
	return label
}

func (g *Generator) comment(text string) {
	if g.verbose {
		g.out.Comment(text)
	}
}

// Generation errors carry the parse_error kind: by lowering time the
// source is gone, and the offending token's position is all we have.
func (g *Generator) errAt(loc lexer.Location, msg string) error {
	return fmt.Errorf("%s: parse_error: %s", loc, msg)
}
