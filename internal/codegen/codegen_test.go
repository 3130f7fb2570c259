package codegen

import (
	"strings"
	"testing"

	"github.com/edy131109/LithiumCompiler/internal/lexer"
	"github.com/edy131109/LithiumCompiler/internal/parser"
)

func TestPlatformFromName(t *testing.T) {
	testCases := []struct {
		name     string
		expected Platform
		ok       bool
	}{
		{"linux", PlatformLinux, true},
		{"win", PlatformWin, true},
		{"lith", PlatformLith, true},
		{"darwin", 0, false},
		{"", 0, false},
	}

	for _, tc := range testCases {
		platform, err := PlatformFromName(tc.name)
		if tc.ok && err != nil {
			t.Errorf("PlatformFromName(%q) failed: %v", tc.name, err)
		}
		if !tc.ok && err == nil {
			t.Errorf("PlatformFromName(%q) accepted an unknown platform", tc.name)
		}
		if tc.ok && platform != tc.expected {
			t.Errorf("PlatformFromName(%q) = %v, want %v", tc.name, platform, tc.expected)
		}
	}
}

func testProgram(t *testing.T, src string) *parser.Parser {
	t.Helper()
	tokens, err := lexer.New(strings.NewReader(src), "test.l").Tokenize()
	if err != nil {
		t.Fatalf("Tokenize failed: %v", err)
	}
	return parser.New(tokens, "test.l")
}

func TestGenerateLinux(t *testing.T) {
	prog, err := testProgram(t, "exit(0);").ParseProgram()
	if err != nil {
		t.Fatalf("ParseProgram failed: %v", err)
	}
	var sb strings.Builder
	if err := Generate(&sb, PlatformLinux, prog, false); err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	for _, want := range []string{"bits 64\n", "global _start\n", "_start:\n", "    syscall\n"} {
		if !strings.Contains(sb.String(), want) {
			t.Errorf("expected %q in listing:\n%s", want, sb.String())
		}
	}
}

func TestStubbedPlatformsAreRejected(t *testing.T) {
	prog, err := testProgram(t, "exit(0);").ParseProgram()
	if err != nil {
		t.Fatalf("ParseProgram failed: %v", err)
	}

	var sb strings.Builder
	err = Generate(&sb, PlatformWin, prog, false)
	if err == nil || !strings.Contains(err.Error(), "no longer supported") {
		t.Errorf("win platform: got %v, want a rejection", err)
	}
	if sb.Len() != 0 {
		t.Error("win platform wrote output despite rejection")
	}

	err = Generate(&sb, PlatformLith, prog, false)
	if err == nil || !strings.Contains(err.Error(), "not yet supported") {
		t.Errorf("lith platform: got %v, want a rejection", err)
	}
}
