package codegen

import (
	"fmt"
	"io"

	"github.com/edy131109/LithiumCompiler/internal/ast"
	"github.com/edy131109/LithiumCompiler/internal/codegen/x86_64_linux"
)

type Platform int

const (
	PlatformLinux Platform = iota
	PlatformWin
	PlatformLith
)

func PlatformFromName(name string) (Platform, error) {
	switch name {
	case "linux":
		return PlatformLinux, nil
	case "win":
		return PlatformWin, nil
	case "lith":
		return PlatformLith, nil
	}
	return 0, fmt.Errorf("unknown platform: %s", name)
}

// Generate lowers the program to textual assembly for the platform and
// writes it to out.
func Generate(out io.Writer, platform Platform, prog *ast.Program, verbose bool) error {
	switch platform {
	case PlatformLinux:
		gen := x86_64_linux.New(prog, verbose)
		asmProgram, err := gen.Generate()
		if err != nil {
			return err
		}
		return x86_64_linux.Format(out, asmProgram)
	case PlatformWin:
		return fmt.Errorf("platform win: broken by updates and currently no longer supported")
	case PlatformLith:
		return fmt.Errorf("platform lith: not yet supported")
	default:
		return fmt.Errorf("unknown platform: %v", platform)
	}
}
