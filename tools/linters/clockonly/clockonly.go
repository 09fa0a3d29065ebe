// Package clockonly provides a linter that reports direct wall clock reads.
//
// Board and timer code takes the current time from a domain.Clock so tests
// can drive it. Calls to time.Now, time.Since and time.Until are reported
// everywhere except inside a method named Now, which is where a Clock
// implementation reads the real clock.
//
// Run it over the module with:
//
//	go run ./tools/linters/clockonly/cmd/clockonly ./...
//
// A //nolint or //nolint:clockonly comment on the same line or the line
// above suppresses the report.
package clockonly

import (
	"go/ast"
	"go/types"
	"slices"
	"strings"

	"golang.org/x/tools/go/analysis"
)

// Analyzer reports time.Now, time.Since and time.Until calls outside Clock implementations.
var Analyzer = &analysis.Analyzer{
	Name: "clockonly",
	Doc:  "reports wall clock reads that bypass the injected Clock",
	Run:  run,
}

func run(pass *analysis.Pass) (any, error) {
	for _, file := range pass.Files {
		suppressed := nolintLines(pass, file)

		ast.Inspect(file, func(n ast.Node) bool {
			if fd, ok := n.(*ast.FuncDecl); ok && isClockMethod(fd) {
				return false
			}

			call, ok := n.(*ast.CallExpr)
			if !ok {
				return true
			}
			name, ok := wallClockCall(pass, call)
			if !ok {
				return true
			}

			line := pass.Fset.Position(call.Pos()).Line
			if suppressed[line] || suppressed[line-1] {
				return true
			}
			pass.Reportf(call.Pos(), "time.%s() reads the wall clock, take the time from a Clock", name)
			return true
		})
	}
	return nil, nil
}

// isClockMethod matches `func (x T) Now() time.Time`.
func isClockMethod(fd *ast.FuncDecl) bool {
	return fd.Recv != nil && fd.Name.Name == "Now"
}

// wallClockCall reports whether call is time.Now, time.Since or time.Until
// from the standard time package, whatever name it was imported under.
func wallClockCall(pass *analysis.Pass, call *ast.CallExpr) (string, bool) {
	sel, ok := call.Fun.(*ast.SelectorExpr)
	if !ok {
		return "", false
	}
	ident, ok := sel.X.(*ast.Ident)
	if !ok {
		return "", false
	}
	pkg, ok := pass.TypesInfo.Uses[ident].(*types.PkgName)
	if !ok || pkg.Imported().Path() != "time" {
		return "", false
	}

	switch sel.Sel.Name {
	case "Now", "Since", "Until":
		return sel.Sel.Name, true
	default:
		return "", false
	}
}

// nolintLines returns the lines carrying a nolint comment that applies to this linter.
func nolintLines(pass *analysis.Pass, file *ast.File) map[int]bool {
	lines := make(map[int]bool)
	for _, cg := range file.Comments {
		for _, c := range cg.List {
			text := strings.TrimSpace(strings.TrimPrefix(c.Text, "//"))
			if !strings.HasPrefix(text, "nolint") {
				continue
			}
			if linters, scoped := strings.CutPrefix(text, "nolint:"); scoped {
				names := strings.Fields(linters)
				if len(names) == 0 || !slices.Contains(strings.Split(names[0], ","), Analyzer.Name) {
					continue
				}
			}
			lines[pass.Fset.Position(c.Pos()).Line] = true
		}
	}
	return lines
}
