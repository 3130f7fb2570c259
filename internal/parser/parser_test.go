package parser

import (
	"reflect"
	"strings"
	"testing"

	"github.com/edy131109/LithiumCompiler/internal/ast"
	"github.com/edy131109/LithiumCompiler/internal/lexer"
)

func tokenize(t *testing.T, src string) []lexer.Token {
	t.Helper()
	tokens, err := lexer.New(strings.NewReader(src), "test.l").Tokenize()
	if err != nil {
		t.Fatalf("Tokenize failed: %v", err)
	}
	return tokens
}

func parse(t *testing.T, src string) *ast.Program {
	t.Helper()
	prog, err := New(tokenize(t, src), "test.l").ParseProgram()
	if err != nil {
		t.Fatalf("ParseProgram failed: %v", err)
	}
	return prog
}

func TestParseProgram(t *testing.T) {
	testCases := []struct {
		name     string
		src      string
		expected string
	}{
		{
			name:     "empty program",
			src:      "",
			expected: "(program)",
		},
		{
			name:     "exit statement",
			src:      "exit(0);",
			expected: "(program (exit 0))",
		},
		{
			name:     "let statement",
			src:      "let x = 5;",
			expected: "(program (let x 5))",
		},
		{
			name:     "multiplication binds tighter than addition",
			src:      "exit(2 + 3 * 4);",
			expected: "(program (exit (+ 2 (* 3 4))))",
		},
		{
			name:     "multiplication on the left",
			src:      "exit(2 * 3 + 4);",
			expected: "(program (exit (+ (* 2 3) 4)))",
		},
		{
			name:     "addition is left-associative",
			src:      "exit(1 + 2 + 3);",
			expected: "(program (exit (+ (+ 1 2) 3)))",
		},
		{
			name:     "subtraction is left-associative",
			src:      "exit(8 - 2 - 1);",
			expected: "(program (exit (- (- 8 2) 1)))",
		},
		{
			name:     "division is left-associative",
			src:      "exit(100 / 5 / 2);",
			expected: "(program (exit (/ (/ 100 5) 2)))",
		},
		{
			name:     "parentheses override precedence",
			src:      "exit((2 + 3) * 4);",
			expected: "(program (exit (* (paren (+ 2 3)) 4)))",
		},
		{
			name:     "mixed additive and multiplicative chain",
			src:      "exit(1 + 2 * 3 - 4 / 2);",
			expected: "(program (exit (- (+ 1 (* 2 3)) (/ 4 2))))",
		},
		{
			name:     "all set operators",
			src:      "let x = 1; x = 2; x += 3; x -= 4; x *= 5; x /= 6;",
			expected: "(program (let x 1) (= x 2) (+= x 3) (-= x 4) (*= x 5) (/= x 6))",
		},
		{
			name:     "bare scope",
			src:      "{ let y = 1; exit(y); }",
			expected: "(program (scope (let y 1) (exit y)))",
		},
		{
			name:     "nested scopes",
			src:      "{ { exit(1); } }",
			expected: "(program (scope (scope (exit 1))))",
		},
		{
			name:     "if without else",
			src:      "if (x) { exit(1); }",
			expected: "(program (if x (scope (exit 1))))",
		},
		{
			name:     "if with else",
			src:      "if (x) { exit(1); } else { exit(2); }",
			expected: "(program (if x (scope (exit 1)) (else (scope (exit 2)))))",
		},
		{
			name:     "else-if chain",
			src:      "if (a) { exit(1); } else if (b) { exit(2); } else { exit(3); }",
			expected: "(program (if a (scope (exit 1)) (elseif b (scope (exit 2)) (else (scope (exit 3))))))",
		},
		{
			name:     "else-if without final else",
			src:      "if (a) { exit(1); } else if (b) { exit(2); }",
			expected: "(program (if a (scope (exit 1)) (elseif b (scope (exit 2)))))",
		},
		{
			name:     "statements after an if",
			src:      "let x = 1; if (x) { x += 1; } exit(x);",
			expected: "(program (let x 1) (if x (scope (+= x 1))) (exit x))",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			prog := parse(t, tc.src)
			if got := prog.String(); got != tc.expected {
				t.Errorf("Expected %s, got %s", tc.expected, got)
			}
		})
	}
}

func TestParseProgramTree(t *testing.T) {
	// One structural check with full token payloads; the remaining
	// cases compare the printed form.
	prog := parse(t, "let x = 5;")

	expected := &ast.Program{
		Stmts: []*ast.Stmt{
			{
				Let: &ast.LetStmt{
					Ident: lexer.Token{
						Type:  lexer.TOKEN_IDENT,
						Value: "x",
						Loc:   lexer.Location{Filename: "test.l", Line: 1, Col: 5},
					},
					Expr: &ast.Expr{
						Term: &ast.Term{
							IntLit: &lexer.Token{
								Type:  lexer.TOKEN_INT_LIT,
								Value: "5",
								Loc:   lexer.Location{Filename: "test.l", Line: 1, Col: 9},
							},
						},
					},
				},
			},
		},
	}
	if !reflect.DeepEqual(prog, expected) {
		t.Errorf("Expected %+v, got %+v", expected, prog)
	}
}

func TestStatementCount(t *testing.T) {
	src := `
let a = 1;
let b = 2;
{ a += b; }
if (a) { exit(a); }
exit(0);
`
	prog := parse(t, src)
	if len(prog.Stmts) != 5 {
		t.Errorf("Expected 5 top-level statements, got %d", len(prog.Stmts))
	}
}

func TestParseErrors(t *testing.T) {
	testCases := []struct {
		name     string
		src      string
		expected string
	}{
		{
			name:     "missing semicolon after exit",
			src:      "exit(0)",
			expected: "test.l:1:8: parse_error: Expected ';'",
		},
		{
			name:     "missing close paren in exit",
			src:      "exit(0;",
			expected: "test.l:1:7: parse_error: Expected ')'",
		},
		{
			name:     "missing expression in exit",
			src:      "exit();",
			expected: "test.l:1:6: parse_error: Invalid expression",
		},
		{
			name:     "unbalanced extra open paren",
			src:      "exit((1);",
			expected: "test.l:1:9: parse_error: Expected ')'",
		},
		{
			name:     "if without parens",
			src:      "if x { exit(1); }",
			expected: "test.l:1:2: parse_error: Expected '('",
		},
		{
			name:     "unclosed scope",
			src:      "{ let x = 1;",
			expected: "test.l:1:13: parse_error: Expected '}'",
		},
		{
			name:     "bare expression is not a statement",
			src:      "x + 1;",
			expected: "test.l:1:2: parse_error: Invalid set statement",
		},
		{
			name:     "stray else",
			src:      "else { exit(1); }",
			expected: "test.l:1:1: parse_error: Invalid statement",
		},
		{
			name:     "let without initializer",
			src:      "let x;",
			expected: "test.l:1:1: parse_error: Invalid statement",
		},
		{
			name:     "missing rhs after operator",
			src:      "exit(1 + );",
			expected: "test.l:1:9: parse_error: Unable to parse expression",
		},
		{
			name:     "else without scope",
			src:      "if (x) { } else exit(1);",
			expected: "test.l:1:13: parse_error: Invalid scope",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := New(tokenize(t, tc.src), "test.l").ParseProgram()
			if err == nil {
				t.Fatal("Expected error but got none")
			}
			if err.Error() != tc.expected {
				t.Errorf("Expected error %q, got %q", tc.expected, err.Error())
			}
		})
	}
}

func TestArenaOwnership(t *testing.T) {
	p := New(tokenize(t, "let x = 1 + 2; exit(x);"), "test.l")
	prog, err := p.ParseProgram()
	if err != nil {
		t.Fatalf("ParseProgram failed: %v", err)
	}

	if p.Arena().NumNodes() == 0 {
		t.Error("expected nodes to be allocated in the arena")
	}
	// The printed form exercises every node pointer in the tree.
	want := "(program (let x (+ 1 2)) (exit x))"
	if got := prog.String(); got != want {
		t.Errorf("Expected %s, got %s", want, got)
	}

	p.Arena().Reset()
	if p.Arena().NumNodes() != 0 {
		t.Error("expected arena to be empty after reset")
	}
}
