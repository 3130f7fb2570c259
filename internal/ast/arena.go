package ast

import "github.com/edy131109/LithiumCompiler/internal/arena"

// Arena owns the storage for every node of one program's tree. Nodes
// reference each other by pointer; the pointers stay valid until Reset.
type Arena struct {
	exprs    *arena.Slab[Expr]
	terms    *arena.Slab[Term]
	binExprs *arena.Slab[BinExpr]
	stmts    *arena.Slab[Stmt]
	exits    *arena.Slab[ExitStmt]
	lets     *arena.Slab[LetStmt]
	sets     *arena.Slab[SetStmt]
	scopes   *arena.Slab[Scope]
	ifs      *arena.Slab[IfStmt]
	ifPreds  *arena.Slab[IfPred]
	elseIfs  *arena.Slab[ElseIf]
	elses    *arena.Slab[Else]
}

func NewArena(blockLen int) *Arena {
	return &Arena{
		exprs:    arena.NewSlab[Expr](blockLen),
		terms:    arena.NewSlab[Term](blockLen),
		binExprs: arena.NewSlab[BinExpr](blockLen),
		stmts:    arena.NewSlab[Stmt](blockLen),
		exits:    arena.NewSlab[ExitStmt](blockLen),
		lets:     arena.NewSlab[LetStmt](blockLen),
		sets:     arena.NewSlab[SetStmt](blockLen),
		scopes:   arena.NewSlab[Scope](blockLen),
		ifs:      arena.NewSlab[IfStmt](blockLen),
		ifPreds:  arena.NewSlab[IfPred](blockLen),
		elseIfs:  arena.NewSlab[ElseIf](blockLen),
		elses:    arena.NewSlab[Else](blockLen),
	}
}

func (a *Arena) NewExpr(v Expr) *Expr             { return a.exprs.New(v) }
func (a *Arena) NewTerm(v Term) *Term             { return a.terms.New(v) }
func (a *Arena) NewBinExpr(v BinExpr) *BinExpr    { return a.binExprs.New(v) }
func (a *Arena) NewStmt(v Stmt) *Stmt             { return a.stmts.New(v) }
func (a *Arena) NewExitStmt(v ExitStmt) *ExitStmt { return a.exits.New(v) }
func (a *Arena) NewLetStmt(v LetStmt) *LetStmt    { return a.lets.New(v) }
func (a *Arena) NewSetStmt(v SetStmt) *SetStmt    { return a.sets.New(v) }
func (a *Arena) NewScope(v Scope) *Scope          { return a.scopes.New(v) }
func (a *Arena) NewIfStmt(v IfStmt) *IfStmt       { return a.ifs.New(v) }
func (a *Arena) NewIfPred(v IfPred) *IfPred       { return a.ifPreds.New(v) }
func (a *Arena) NewElseIf(v ElseIf) *ElseIf       { return a.elseIfs.New(v) }
func (a *Arena) NewElse(v Else) *Else             { return a.elses.New(v) }

// NumNodes returns the total number of nodes allocated so far.
func (a *Arena) NumNodes() int {
	return a.exprs.Len() + a.terms.Len() + a.binExprs.Len() +
		a.stmts.Len() + a.exits.Len() + a.lets.Len() + a.sets.Len() +
		a.scopes.Len() + a.ifs.Len() + a.ifPreds.Len() +
		a.elseIfs.Len() + a.elses.Len()
}

// Reset drops every node at once. The tree handed out by the parser
// must not be used afterwards.
func (a *Arena) Reset() {
	a.exprs.Reset()
	a.terms.Reset()
	a.binExprs.Reset()
	a.stmts.Reset()
	a.exits.Reset()
	a.lets.Reset()
	a.sets.Reset()
	a.scopes.Reset()
	a.ifs.Reset()
	a.ifPreds.Reset()
	a.elseIfs.Reset()
	a.elses.Reset()
}
