// Package ast defines the syntax tree produced by the parser.
//
// Variant types follow the one-non-nil-pointer encoding: exactly one
// field of Expr, Term, Stmt and IfPred is set. All nodes live in an
// Arena and reference each other with non-owning pointers.
package ast

import (
	"fmt"
	"strings"

	"github.com/edy131109/LithiumCompiler/internal/lexer"
)

type BinOp int

const (
	BinAdd BinOp = iota
	BinSub
	BinMul
	BinDiv
)

func (op BinOp) String() string {
	switch op {
	case BinAdd:
		return "+"
	case BinSub:
		return "-"
	case BinMul:
		return "*"
	case BinDiv:
		return "/"
	}
	panic(fmt.Sprintf("unknown binary operator: %d", int(op)))
}

type SetOp int

const (
	SetAssign SetOp = iota
	SetAdd
	SetSub
	SetMul
	SetDiv
)

func (op SetOp) String() string {
	switch op {
	case SetAssign:
		return "="
	case SetAdd:
		return "+="
	case SetSub:
		return "-="
	case SetMul:
		return "*="
	case SetDiv:
		return "/="
	}
	panic(fmt.Sprintf("unknown set operator: %d", int(op)))
}

type Expr struct {
	Term    *Term
	BinExpr *BinExpr
}

func (e *Expr) String() string {
	if e.Term != nil {
		return e.Term.String()
	} else if e.BinExpr != nil {
		return e.BinExpr.String()
	}
	panic(fmt.Sprintf("unsupported expression type: %v", *e))
}

// Term is a leaf expression: an integer literal, a variable reference,
// or a parenthesised sub-expression. Literal and reference terms keep
// their token so later stages can report source positions.
type Term struct {
	IntLit *lexer.Token
	Ident  *lexer.Token
	Paren  *Expr
}

func (t *Term) String() string {
	if t.IntLit != nil {
		return t.IntLit.Value
	} else if t.Ident != nil {
		return t.Ident.Value
	} else if t.Paren != nil {
		return fmt.Sprintf("(paren %s)", t.Paren.String())
	}
	panic(fmt.Sprintf("unsupported term type: %v", *t))
}

type BinExpr struct {
	Op  BinOp
	Lhs *Expr
	Rhs *Expr
}

func (b *BinExpr) String() string {
	return fmt.Sprintf("(%s %s %s)", b.Op, b.Lhs.String(), b.Rhs.String())
}

type Stmt struct {
	Exit  *ExitStmt
	Let   *LetStmt
	Set   *SetStmt
	Scope *Scope
	If    *IfStmt
}

func (s *Stmt) String() string {
	if s.Exit != nil {
		return s.Exit.String()
	} else if s.Let != nil {
		return s.Let.String()
	} else if s.Set != nil {
		return s.Set.String()
	} else if s.Scope != nil {
		return s.Scope.String()
	} else if s.If != nil {
		return s.If.String()
	}
	panic(fmt.Sprintf("unsupported statement type: %v", *s))
}

type ExitStmt struct {
	Expr *Expr
}

func (e *ExitStmt) String() string {
	return fmt.Sprintf("(exit %s)", e.Expr.String())
}

type LetStmt struct {
	Ident lexer.Token
	Expr  *Expr
}

func (l *LetStmt) String() string {
	return fmt.Sprintf("(let %s %s)", l.Ident.Value, l.Expr.String())
}

type SetStmt struct {
	Ident lexer.Token
	Op    SetOp
	Expr  *Expr
}

func (s *SetStmt) String() string {
	return fmt.Sprintf("(%s %s %s)", s.Op, s.Ident.Value, s.Expr.String())
}

type Scope struct {
	Stmts []*Stmt
}

func (s *Scope) String() string {
	var sb strings.Builder
	sb.WriteString("(scope")
	for _, stmt := range s.Stmts {
		sb.WriteString(" ")
		sb.WriteString(stmt.String())
	}
	sb.WriteString(")")
	return sb.String()
}

type IfStmt struct {
	Cond *Expr
	Then *Scope
	Pred *IfPred // optional
}

func (i *IfStmt) String() string {
	if i.Pred == nil {
		return fmt.Sprintf("(if %s %s)", i.Cond.String(), i.Then.String())
	}
	return fmt.Sprintf("(if %s %s %s)", i.Cond.String(), i.Then.String(), i.Pred.String())
}

// IfPred is the optional trailing clause of an if statement: either an
// "else if" carrying its own predicate chain, or a final "else".
type IfPred struct {
	ElseIf *ElseIf
	Else   *Else
}

func (p *IfPred) String() string {
	if p.ElseIf != nil {
		return p.ElseIf.String()
	} else if p.Else != nil {
		return p.Else.String()
	}
	panic(fmt.Sprintf("unsupported if predicate type: %v", *p))
}

type ElseIf struct {
	Cond  *Expr
	Scope *Scope
	Pred  *IfPred // optional
}

func (e *ElseIf) String() string {
	if e.Pred == nil {
		return fmt.Sprintf("(elseif %s %s)", e.Cond.String(), e.Scope.String())
	}
	return fmt.Sprintf("(elseif %s %s %s)", e.Cond.String(), e.Scope.String(), e.Pred.String())
}

type Else struct {
	Scope *Scope
}

func (e *Else) String() string {
	return fmt.Sprintf("(else %s)", e.Scope.String())
}

type Program struct {
	Stmts []*Stmt
}

func (p *Program) String() string {
	var sb strings.Builder
	sb.WriteString("(program")
	for _, stmt := range p.Stmts {
		sb.WriteString(" ")
		sb.WriteString(stmt.String())
	}
	sb.WriteString(")")
	return sb.String()
}
