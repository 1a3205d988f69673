package modules

import (
	"fmt"
	"path/filepath"

	"github.com/shedskin-go/funxyc/internal/ast"
)

// ParseFunc turns a module path into its parsed form. Lexing and
// parsing are external collaborators (spec.md §1 "a syntax tree is
// assumed available") — the loader only needs a way to ask for one
// given a path resolved from an ImportStatement.
type ParseFunc func(path string) (*ast.Program, error)

// Loader resolves an entry module's transitive import graph into a
// dependency-first module list, the same depth-first cache-and-cycle-
// guard shape the teacher's loader uses for its virtual-package/
// re-export system, retargeted at straight-line imports with no
// package groups.
type Loader struct {
	Parse ParseFunc

	byPath     map[string]*Module
	loading    map[string]bool
	entryDir   string
}

func NewLoader(parse ParseFunc) *Loader {
	return &Loader{
		Parse:   parse,
		byPath:  make(map[string]*Module),
		loading: make(map[string]bool),
	}
}

// Load resolves entryPath and every module it transitively imports,
// and returns the full set in dependency order (every module's
// imports appear before it, except across an import cycle, where
// order falls back to discovery order for the cycle's members).
func (l *Loader) Load(entryPath string) (*Module, []*Module, error) {
	l.entryDir = filepath.Dir(entryPath)
	var order []*Module
	entry, err := l.load(entryPath, &order)
	if err != nil {
		return nil, nil, err
	}
	return entry, order, nil
}

func (l *Loader) load(path string, order *[]*Module) (*Module, error) {
	if m, ok := l.byPath[path]; ok {
		return m, nil
	}
	if l.loading[path] {
		// Import cycle guard. A module is cached in byPath before its
		// imports are loaded, so a cycle's closing import returns the
		// cached module above and does not reach this branch; the
		// placeholder returned here has no Program and no Imports.
		m := &Module{Path: path}
		l.byPath[path] = m
		return m, nil
	}
	l.loading[path] = true
	defer delete(l.loading, path)

	prog, err := l.Parse(path)
	if err != nil {
		return nil, fmt.Errorf("modules: loading %s: %w", path, err)
	}

	m := &Module{Path: path, Program: prog}
	l.byPath[path] = m

	for _, imp := range prog.Imports {
		resolved := l.resolveImportPath(imp.ModulePath)
		dep, err := l.load(resolved, order)
		if err != nil {
			return nil, err
		}
		m.Imports = append(m.Imports, dep)
	}

	*order = append(*order, m)
	return m, nil
}

// resolveImportPath maps a source-level import string to a file path,
// relative to the entry module's directory (no search path, no
// virtual packages — spec.md's module model is a flat import list).
func (l *Loader) resolveImportPath(modulePath string) string {
	if filepath.IsAbs(modulePath) {
		return modulePath
	}
	return filepath.Join(l.entryDir, modulePath+".py")
}
