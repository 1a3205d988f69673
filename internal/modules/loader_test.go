package modules

import (
	"fmt"
	"path/filepath"
	"testing"

	"github.com/shedskin-go/funxyc/internal/ast"
)

// fakeSource builds a tiny in-memory graph of modules keyed by path,
// each importing whatever ModulePaths are listed for it.
type fakeSource map[string][]string

func (fs fakeSource) parse(path string) (*ast.Program, error) {
	rel := path[:len(path)-len(filepath.Ext(path))]
	imports, ok := fs[filepath.Base(rel)]
	if !ok {
		return nil, fmt.Errorf("no such module %s", path)
	}
	prog := &ast.Program{File: path}
	for _, imp := range imports {
		prog.Imports = append(prog.Imports, &ast.ImportStatement{ModulePath: imp})
	}
	return prog, nil
}

func TestLoad_DependencyFirstOrder(t *testing.T) {
	src := fakeSource{
		"main": {"a", "b"},
		"a":    {"b"},
		"b":    nil,
	}
	l := NewLoader(src.parse)
	entry, order, err := l.Load("/proj/main.py")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if entry.Path != "/proj/main.py" {
		t.Errorf("entry path = %s, want /proj/main.py", entry.Path)
	}
	if len(order) != 3 {
		t.Fatalf("expected 3 modules in dependency order, got %d", len(order))
	}
	pos := make(map[string]int, len(order))
	for i, m := range order {
		pos[filepath.Base(m.Path)] = i
	}
	if pos["b.py"] >= pos["a.py"] {
		t.Error("expected b (a's dependency) to appear before a")
	}
	if pos["a.py"] >= pos["main.py"] {
		t.Error("expected a to appear before main")
	}
}

// An import cycle (main -> a -> main) must not loop forever: the
// closing reference resolves back to the very same *Module the outer
// load is already building, rather than reparsing it or leaving a
// dangling duplicate.
func TestLoad_ImportCycleResolvesToSameModule(t *testing.T) {
	parseCount := 0
	src := fakeSource{
		"main": {"a"},
		"a":    {"main"},
	}
	counting := func(path string) (*ast.Program, error) {
		parseCount++
		return src.parse(path)
	}
	l := NewLoader(counting)
	entry, order, err := l.Load("/proj/main.py")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(order) != 2 {
		t.Fatalf("expected 2 modules, got %d", len(order))
	}
	if parseCount != 2 {
		t.Fatalf("expected each module to be parsed exactly once, got %d parses", parseCount)
	}

	if len(entry.Imports) != 1 || filepath.Base(entry.Imports[0].Path) != "a.py" {
		t.Fatal("expected main to import a")
	}
	a := entry.Imports[0]
	if len(a.Imports) != 1 {
		t.Fatal("expected a to import main back")
	}
	if a.Imports[0] != entry {
		t.Error("expected the cycle to close back onto the same *Module as the entry, not a separate placeholder")
	}
}

func TestLoad_SameModuleNotReparsed(t *testing.T) {
	calls := 0
	src := fakeSource{"main": {"shared"}, "shared": nil}
	counting := func(path string) (*ast.Program, error) {
		calls++
		return src.parse(path)
	}
	l := NewLoader(counting)
	// Import "shared" twice from the entry to exercise the byPath cache.
	prog, err := l.load("/proj/shared.py", new([]*Module))
	if err != nil {
		t.Fatal(err)
	}
	again, err := l.load("/proj/shared.py", new([]*Module))
	if err != nil {
		t.Fatal(err)
	}
	if prog != again {
		t.Error("expected the loader to return the cached module on a repeat path")
	}
	if calls != 1 {
		t.Errorf("expected exactly 1 parse call, got %d", calls)
	}
}
