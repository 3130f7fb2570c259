package ast

import (
	"testing"

	"github.com/edy131109/LithiumCompiler/internal/lexer"
)

func intLit(value string) *Term {
	return &Term{IntLit: &lexer.Token{Type: lexer.TOKEN_INT_LIT, Value: value}}
}

func identTerm(name string) *Term {
	return &Term{Ident: &lexer.Token{Type: lexer.TOKEN_IDENT, Value: name}}
}

func TestOperatorStrings(t *testing.T) {
	binOps := map[BinOp]string{BinAdd: "+", BinSub: "-", BinMul: "*", BinDiv: "/"}
	for op, want := range binOps {
		if got := op.String(); got != want {
			t.Errorf("BinOp %d: got %q, want %q", int(op), got, want)
		}
	}
	setOps := map[SetOp]string{SetAssign: "=", SetAdd: "+=", SetSub: "-=", SetMul: "*=", SetDiv: "/="}
	for op, want := range setOps {
		if got := op.String(); got != want {
			t.Errorf("SetOp %d: got %q, want %q", int(op), got, want)
		}
	}
}

func TestNodeStrings(t *testing.T) {
	// exit((1 + x) * 2)
	sum := &Expr{BinExpr: &BinExpr{
		Op:  BinAdd,
		Lhs: &Expr{Term: intLit("1")},
		Rhs: &Expr{Term: identTerm("x")},
	}}
	product := &Expr{BinExpr: &BinExpr{
		Op:  BinMul,
		Lhs: &Expr{Term: &Term{Paren: sum}},
		Rhs: &Expr{Term: intLit("2")},
	}}
	prog := &Program{Stmts: []*Stmt{
		{Exit: &ExitStmt{Expr: product}},
	}}

	want := "(program (exit (* (paren (+ 1 x)) 2)))"
	if got := prog.String(); got != want {
		t.Errorf("got %s, want %s", got, want)
	}
}

func TestIfPredStrings(t *testing.T) {
	cond := func(name string) *Expr { return &Expr{Term: identTerm(name)} }
	scope := func(code string) *Scope {
		return &Scope{Stmts: []*Stmt{{Exit: &ExitStmt{Expr: &Expr{Term: intLit(code)}}}}}
	}

	stmt := &Stmt{If: &IfStmt{
		Cond: cond("a"),
		Then: scope("1"),
		Pred: &IfPred{ElseIf: &ElseIf{
			Cond:  cond("b"),
			Scope: scope("2"),
			Pred:  &IfPred{Else: &Else{Scope: scope("3")}},
		}},
	}}

	want := "(if a (scope (exit 1)) (elseif b (scope (exit 2)) (else (scope (exit 3)))))"
	if got := stmt.String(); got != want {
		t.Errorf("got %s, want %s", got, want)
	}
}

func TestArena(t *testing.T) {
	a := NewArena(8)
	if a.NumNodes() != 0 {
		t.Errorf("fresh arena holds %d nodes", a.NumNodes())
	}

	expr := a.NewExpr(Expr{Term: a.NewTerm(Term{IntLit: &lexer.Token{Type: lexer.TOKEN_INT_LIT, Value: "7"}})})
	stmt := a.NewStmt(Stmt{Exit: a.NewExitStmt(ExitStmt{Expr: expr})})
	if a.NumNodes() != 4 {
		t.Errorf("expected 4 nodes, got %d", a.NumNodes())
	}
	if got := stmt.String(); got != "(exit 7)" {
		t.Errorf("got %s, want (exit 7)", got)
	}

	a.Reset()
	if a.NumNodes() != 0 {
		t.Errorf("arena holds %d nodes after reset", a.NumNodes())
	}
}
