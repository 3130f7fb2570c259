package parser

import (
	"fmt"

	"github.com/edy131109/LithiumCompiler/internal/arena"
	"github.com/edy131109/LithiumCompiler/internal/ast"
	"github.com/edy131109/LithiumCompiler/internal/lexer"
)

// Parser consumes a token sequence and produces the program tree.
// Every node is allocated into the parser's arena; the tree stays
// valid until the arena is reset.
type Parser struct {
	tokens   []lexer.Token
	filename string
	pos      int
	arena    *ast.Arena
}

func New(tokens []lexer.Token, filename string) *Parser {
	return &Parser{
		tokens:   tokens,
		filename: filename,
		arena:    ast.NewArena(arena.DefaultBlockLen),
	}
}

// Arena returns the arena owning the parsed tree.
func (p *Parser) Arena() *ast.Arena {
	return p.arena
}

// ParseProgram consumes tokens until exhaustion. Any token sequence
// that does not form a statement is a fatal error.
func (p *Parser) ParseProgram() (*ast.Program, error) {
	prog := &ast.Program{}
	for p.pos < len(p.tokens) {
		stmt, err := p.parseStmt()
		if err != nil {
			return nil, err
		}
		if stmt == nil {
			return nil, p.errPrev("Invalid statement")
		}
		prog.Stmts = append(prog.Stmts, stmt)
	}
	return prog, nil
}

// parseStmt returns (nil, nil) when the next tokens do not start a
// statement; the caller decides whether that is fatal.
func (p *Parser) parseStmt() (*ast.Stmt, error) {
	tok, ok := p.peek(0)
	if !ok {
		return nil, nil
	}

	switch {
	case tok.Type == lexer.TOKEN_EXIT && p.peekType(1) == lexer.TOKEN_OPEN_PAREN:
		p.consume()
		p.consume()
		expr, err := p.parseExpr(0)
		if err != nil {
			return nil, err
		}
		if expr == nil {
			return nil, p.errPrev("Invalid expression")
		}
		if _, err := p.expect(lexer.TOKEN_CLOSE_PAREN, "Expected ')'", 0); err != nil {
			return nil, err
		}
		if _, err := p.expect(lexer.TOKEN_SEMI, "Expected ';'", 0); err != nil {
			return nil, err
		}
		exit := p.arena.NewExitStmt(ast.ExitStmt{Expr: expr})
		return p.arena.NewStmt(ast.Stmt{Exit: exit}), nil

	case tok.Type == lexer.TOKEN_LET &&
		p.peekType(1) == lexer.TOKEN_IDENT &&
		p.peekType(2) == lexer.TOKEN_EQ:
		p.consume()
		ident := p.consume()
		p.consume()
		expr, err := p.parseExpr(0)
		if err != nil {
			return nil, err
		}
		if expr == nil {
			return nil, p.errLine(ident.Loc.Line, "Invalid expression")
		}
		if _, err := p.expect(lexer.TOKEN_SEMI, "Expected ';'", ident.Loc.Line); err != nil {
			return nil, err
		}
		let := p.arena.NewLetStmt(ast.LetStmt{Ident: ident, Expr: expr})
		return p.arena.NewStmt(ast.Stmt{Let: let}), nil

	case tok.Type == lexer.TOKEN_IDENT:
		set, err := p.parseStmtSet()
		if err != nil {
			return nil, err
		}
		if set == nil {
			return nil, p.errPrev("Invalid set statement")
		}
		if _, err := p.expect(lexer.TOKEN_SEMI, "Expected ';'", 0); err != nil {
			return nil, err
		}
		return p.arena.NewStmt(ast.Stmt{Set: set}), nil

	case tok.Type == lexer.TOKEN_OPEN_CURLY:
		scope, err := p.parseScope()
		if err != nil {
			return nil, err
		}
		if scope == nil {
			return nil, p.errPrev("Invalid scope")
		}
		return p.arena.NewStmt(ast.Stmt{Scope: scope}), nil

	case tok.Type == lexer.TOKEN_IF:
		ifTok := p.consume()
		if _, err := p.expect(lexer.TOKEN_OPEN_PAREN, "Expected '('", ifTok.Loc.Line); err != nil {
			return nil, err
		}
		cond, err := p.parseExpr(0)
		if err != nil {
			return nil, err
		}
		if cond == nil {
			return nil, p.errLine(ifTok.Loc.Line, "Invalid expression")
		}
		if _, err := p.expect(lexer.TOKEN_CLOSE_PAREN, "Expected ')'", ifTok.Loc.Line); err != nil {
			return nil, err
		}
		scope, err := p.parseScope()
		if err != nil {
			return nil, err
		}
		if scope == nil {
			return nil, p.errPrev("Invalid scope")
		}
		pred, err := p.parseIfPred()
		if err != nil {
			return nil, err
		}
		stmtIf := p.arena.NewIfStmt(ast.IfStmt{Cond: cond, Then: scope, Pred: pred})
		return p.arena.NewStmt(ast.Stmt{If: stmtIf}), nil
	}

	return nil, nil
}

// parseStmtSet parses `ident OP expr` where OP is one of the five
// assignment operators. The identifier is consumed even on a no-match;
// the caller treats a no-match as fatal.
func (p *Parser) parseStmtSet() (*ast.SetStmt, error) {
	ident := p.consume()

	var op ast.SetOp
	switch p.peekType(0) {
	case lexer.TOKEN_EQ:
		op = ast.SetAssign
	case lexer.TOKEN_PLUSEQ:
		op = ast.SetAdd
	case lexer.TOKEN_MINUSEQ:
		op = ast.SetSub
	case lexer.TOKEN_STAREQ:
		op = ast.SetMul
	case lexer.TOKEN_FSLASHEQ:
		op = ast.SetDiv
	default:
		return nil, nil
	}
	p.consume()

	expr, err := p.parseExpr(0)
	if err != nil {
		return nil, err
	}
	if expr == nil {
		return nil, p.errLine(ident.Loc.Line, "Invalid expression")
	}
	return p.arena.NewSetStmt(ast.SetStmt{Ident: ident, Op: op, Expr: expr}), nil
}

func (p *Parser) parseScope() (*ast.Scope, error) {
	if _, ok := p.tryConsume(lexer.TOKEN_OPEN_CURLY); !ok {
		return nil, nil
	}
	var stmts []*ast.Stmt
	for {
		stmt, err := p.parseStmt()
		if err != nil {
			return nil, err
		}
		if stmt == nil {
			break
		}
		stmts = append(stmts, stmt)
	}
	if _, err := p.expect(lexer.TOKEN_CLOSE_CURLY, "Expected '}'", 0); err != nil {
		return nil, err
	}
	return p.arena.NewScope(ast.Scope{Stmts: stmts}), nil
}

func (p *Parser) parseIfPred() (*ast.IfPred, error) {
	if _, ok := p.tryConsume(lexer.TOKEN_ELSE); !ok {
		return nil, nil
	}

	if _, ok := p.tryConsume(lexer.TOKEN_IF); ok {
		// else if
		if _, err := p.expect(lexer.TOKEN_OPEN_PAREN, "Expected '('", 0); err != nil {
			return nil, err
		}
		cond, err := p.parseExpr(0)
		if err != nil {
			return nil, err
		}
		if cond == nil {
			return nil, p.errPrev("Expected expression")
		}
		if _, err := p.expect(lexer.TOKEN_CLOSE_PAREN, "Expected ')'", 0); err != nil {
			return nil, err
		}
		scope, err := p.parseScope()
		if err != nil {
			return nil, err
		}
		if scope == nil {
			return nil, p.errPrev("Invalid scope")
		}
		pred, err := p.parseIfPred()
		if err != nil {
			return nil, err
		}
		elseIf := p.arena.NewElseIf(ast.ElseIf{Cond: cond, Scope: scope, Pred: pred})
		return p.arena.NewIfPred(ast.IfPred{ElseIf: elseIf}), nil
	}

	// else
	scope, err := p.parseScope()
	if err != nil {
		return nil, err
	}
	if scope == nil {
		return nil, p.errPrev("Invalid scope")
	}
	els := p.arena.NewElse(ast.Else{Scope: scope})
	return p.arena.NewIfPred(ast.IfPred{Else: els}), nil
}

// parseExpr implements precedence climbing: operators below minPrec
// end the loop, and the recursive call uses prec+1 so that equal
// precedence associates to the left.
func (p *Parser) parseExpr(minPrec int) (*ast.Expr, error) {
	term, err := p.parseTerm()
	if err != nil {
		return nil, err
	}
	if term == nil {
		return nil, nil
	}
	lhs := p.arena.NewExpr(ast.Expr{Term: term})

	for {
		tok, ok := p.peek(0)
		if !ok {
			break
		}
		prec, isOp := lexer.BinPrec(tok.Type)
		if !isOp || prec < minPrec {
			break
		}
		op := p.consume()
		rhs, err := p.parseExpr(prec + 1)
		if err != nil {
			return nil, err
		}
		if rhs == nil {
			return nil, p.errLine(op.Loc.Line, "Unable to parse expression")
		}
		bin := p.arena.NewBinExpr(ast.BinExpr{Op: binOpFor(op.Type), Lhs: lhs, Rhs: rhs})
		lhs = p.arena.NewExpr(ast.Expr{BinExpr: bin})
	}
	return lhs, nil
}

func (p *Parser) parseTerm() (*ast.Term, error) {
	if tok, ok := p.tryConsume(lexer.TOKEN_INT_LIT); ok {
		return p.arena.NewTerm(ast.Term{IntLit: &tok}), nil
	}
	if tok, ok := p.tryConsume(lexer.TOKEN_IDENT); ok {
		return p.arena.NewTerm(ast.Term{Ident: &tok}), nil
	}
	if openParen, ok := p.tryConsume(lexer.TOKEN_OPEN_PAREN); ok {
		expr, err := p.parseExpr(0)
		if err != nil {
			return nil, err
		}
		if expr == nil {
			return nil, p.errLine(openParen.Loc.Line, "Expected expr")
		}
		if _, err := p.expect(lexer.TOKEN_CLOSE_PAREN, "Expected ')'", openParen.Loc.Line); err != nil {
			return nil, err
		}
		return p.arena.NewTerm(ast.Term{Paren: expr}), nil
	}
	return nil, nil
}

func binOpFor(t lexer.TokenType) ast.BinOp {
	switch t {
	case lexer.TOKEN_PLUS:
		return ast.BinAdd
	case lexer.TOKEN_MINUS:
		return ast.BinSub
	case lexer.TOKEN_STAR:
		return ast.BinMul
	case lexer.TOKEN_FSLASH:
		return ast.BinDiv
	}
	panic(fmt.Sprintf("token %s is not a binary operator", t))
}

func (p *Parser) peek(offset int) (lexer.Token, bool) {
	if p.pos+offset >= len(p.tokens) {
		return lexer.Token{}, false
	}
	return p.tokens[p.pos+offset], true
}

// peekType returns the type of the token at offset, or -1 past the end.
func (p *Parser) peekType(offset int) lexer.TokenType {
	tok, ok := p.peek(offset)
	if !ok {
		return -1
	}
	return tok.Type
}

func (p *Parser) consume() lexer.Token {
	tok := p.tokens[p.pos]
	p.pos++
	return tok
}

func (p *Parser) tryConsume(t lexer.TokenType) (lexer.Token, bool) {
	if tok, ok := p.peek(0); ok && tok.Type == t {
		p.pos++
		return tok, true
	}
	return lexer.Token{}, false
}

// expect consumes a token of the given type or fails with a
// parse_error. A positive line overrides the reported line number.
func (p *Parser) expect(t lexer.TokenType, msg string, line int) (lexer.Token, error) {
	if tok, ok := p.peek(0); ok && tok.Type == t {
		p.pos++
		return tok, nil
	}
	if line > 0 {
		return lexer.Token{}, p.errLine(line, msg)
	}
	return lexer.Token{}, p.errPrev(msg)
}

// errPrev reports at the previously consumed token, with the column
// biased one past its first character.
func (p *Parser) errPrev(msg string) error {
	line, col := p.prevPos()
	return p.errAt(line, col, msg)
}

// errLine reports at an explicit line, keeping the biased column of
// the previously consumed token.
func (p *Parser) errLine(line int, msg string) error {
	_, col := p.prevPos()
	return p.errAt(line, col, msg)
}

func (p *Parser) errAt(line, col int, msg string) error {
	return fmt.Errorf("%s:%d:%d: parse_error: %s", p.filename, line, col, msg)
}

func (p *Parser) prevPos() (line, col int) {
	if p.pos == 0 || len(p.tokens) == 0 {
		return 1, 1
	}
	idx := p.pos - 1
	if idx >= len(p.tokens) {
		idx = len(p.tokens) - 1
	}
	loc := p.tokens[idx].Loc
	return loc.Line, loc.Col + 1
}
