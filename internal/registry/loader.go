// Package registry builds the built-in class table (spec.md §6 "A
// built-in class registry") by reading internal/registry/stubs with
// golang.org/x/tools/go/packages — the same technique
// internal/ext/inspector.go used in the teacher to type-check bound Go
// packages for FFI codegen, retargeted here to read our own annotated
// stub source instead of a third-party library.
//
// The stub package is never executed. Its declarations exist purely to
// be parsed and type-checked; a class's arity comes from the Go type
// parameter count on its declaration, and a method's formal signature
// comes from the Go function signature, so the lattice structure can
// never drift out of sync with what the stub file actually declares.
package registry

import (
	"fmt"
	"go/ast"
	"go/types"
	"sort"
	"strings"

	"golang.org/x/tools/go/packages"

	"github.com/shedskin-go/funxyc/internal/lattice"
)

const stubsPkgPath = "github.com/shedskin-go/funxyc/internal/registry/stubs"

// classDirective is the parsed form of a "funxyc:class bases=..." doc
// comment.
type classDirective struct {
	bases []string
}

// methodDirective is the parsed form of a trailing "funxyc:method <op>"
// comment on a method declaration.
type methodDirective struct {
	op string
}

// Load type-checks internal/registry/stubs and returns a populated
// class table.
func Load() (*lattice.ClassTable, error) {
	cfg := &packages.Config{
		Mode: packages.NeedName | packages.NeedTypes | packages.NeedTypesInfo |
			packages.NeedSyntax | packages.NeedImports,
	}
	pkgs, err := packages.Load(cfg, stubsPkgPath)
	if err != nil {
		return nil, fmt.Errorf("registry: loading stub package: %w", err)
	}
	if len(pkgs) != 1 {
		return nil, fmt.Errorf("registry: expected exactly one package, got %d", len(pkgs))
	}
	pkg := pkgs[0]
	for _, e := range pkg.Errors {
		return nil, fmt.Errorf("registry: stub package error: %s", e.Msg)
	}

	classDirectives := make(map[string]classDirective)
	methodDirectives := make(map[string]map[string]methodDirective) // type name -> method name -> directive
	typeArity := make(map[string]int)

	for _, file := range pkg.Syntax {
		cmap := ast.NewCommentMap(pkg.Fset, file, file.Comments)
		for _, decl := range file.Decls {
			switch d := decl.(type) {
			case *ast.GenDecl:
				if d.Tok.String() != "type" {
					continue
				}
				for _, spec := range d.Specs {
					ts, ok := spec.(*ast.TypeSpec)
					if !ok {
						continue
					}
					doc := d.Doc
					if ts.Doc != nil {
						doc = ts.Doc
					}
					if doc == nil {
						continue
					}
					if dir, ok := parseClassDirective(doc.Text()); ok {
						classDirectives[ts.Name.Name] = dir
					}
					if ts.TypeParams != nil {
						typeArity[ts.Name.Name] = len(ts.TypeParams.List)
					}
				}
			case *ast.FuncDecl:
				if d.Recv == nil || len(d.Recv.List) != 1 {
					continue
				}
				recvName := receiverTypeName(d.Recv.List[0].Type)
				if recvName == "" {
					continue
				}
				comments := cmap[decl]
				var trailing string
				for _, cg := range comments {
					trailing += cg.Text()
				}
				if trailing == "" && d.Doc != nil {
					trailing = d.Doc.Text()
				}
				dir, ok := parseMethodDirective(trailing)
				if !ok {
					continue
				}
				if methodDirectives[recvName] == nil {
					methodDirectives[recvName] = make(map[string]methodDirective)
				}
				methodDirectives[recvName][d.Name.Name] = dir
			}
		}
	}

	table := lattice.NewClassTable()

	// Register classes in two passes: first the bare descriptors (so
	// base-class lookups always succeed regardless of declaration
	// order in the stub files), then methods (which may reference
	// sibling classes as parameter/return types).
	names := make([]string, 0, len(classDirectives))
	for name := range classDirectives {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		table.Define(&lattice.Class{
			Name:    name,
			Arity:   typeArity[name],
			Methods: make(map[string]*lattice.MethodSig),
		})
	}

	for _, name := range names {
		dir := classDirectives[name]
		c, _ := table.Lookup(name)
		for _, baseName := range dir.bases {
			base, ok := table.Lookup(baseName)
			if !ok {
				return nil, fmt.Errorf("registry: class %q declares unknown base %q", name, baseName)
			}
			c.Bases = append(c.Bases, base)
		}
	}

	registerVariadicTuple(table)

	scope := pkg.Types.Scope()
	for _, name := range names {
		c, _ := table.Lookup(name)
		obj := scope.Lookup(name)
		if obj == nil {
			continue
		}
		typeName, ok := obj.(*types.TypeName)
		if !ok {
			continue
		}
		named, ok := typeName.Type().(*types.Named)
		if !ok {
			continue
		}
		for methodName, dir := range methodDirectives[name] {
			sig := resolveMethodSig(named, methodName, dir, table)
			if sig != nil {
				c.Methods[dir.op] = sig
			}
		}
	}

	return table, nil
}

// registerVariadicTuple defines the tuple class's nominal descriptor,
// with Arity -1 as a sentinel. Per-literal instances with their own arity are
// not separate classes: the builder gives every tuple allocation site
// a Class whose Arity equals the literal's element count, cloned from
// this descriptor's Name and Bases (see internal/graphbuild).
func registerVariadicTuple(table *lattice.ClassTable) {
	object, _ := table.Lookup("Object")
	table.Define(&lattice.Class{
		Name:    "Tuple",
		Bases:   []*lattice.Class{object},
		Arity:   -1, // sentinel: real arity is per allocation site
		Methods: make(map[string]*lattice.MethodSig),
	})
}

func receiverTypeName(expr ast.Expr) string {
	switch t := expr.(type) {
	case *ast.Ident:
		return t.Name
	case *ast.StarExpr:
		return receiverTypeName(t.X)
	case *ast.IndexExpr:
		return receiverTypeName(t.X)
	case *ast.IndexListExpr:
		return receiverTypeName(t.X)
	default:
		return ""
	}
}

func parseClassDirective(doc string) (classDirective, bool) {
	for _, line := range strings.Split(doc, "\n") {
		line = strings.TrimSpace(line)
		rest, ok := strings.CutPrefix(line, "funxyc:class ")
		if !ok {
			continue
		}
		var dir classDirective
		for _, field := range strings.Fields(rest) {
			k, v, ok := strings.Cut(field, "=")
			if !ok || k != "bases" {
				continue
			}
			if v != "" {
				dir.bases = strings.Split(v, ",")
			}
		}
		return dir, true
	}
	return classDirective{}, false
}

func parseMethodDirective(comment string) (methodDirective, bool) {
	for _, line := range strings.Split(comment, "\n") {
		line = strings.TrimSpace(line)
		rest, ok := strings.CutPrefix(line, "funxyc:method ")
		if !ok {
			continue
		}
		return methodDirective{op: strings.TrimSpace(rest)}, true
	}
	return methodDirective{}, false
}

// resolveMethodSig builds a lattice.MethodSig by mapping each Go
// parameter/return type to the lattice class of the same name (see
// goTypeToLatticeType). A type-parameter type such as T has no such
// class and maps to lattice.Bottom.
func resolveMethodSig(named *types.Named, methodName string, dir methodDirective, table *lattice.ClassTable) *lattice.MethodSig {
	mset := types.NewMethodSet(named)
	sel := mset.Lookup(nil, methodName)
	if sel == nil {
		return nil
	}
	fn, ok := sel.Obj().(*types.Func)
	if !ok {
		return nil
	}
	sig, ok := fn.Type().(*types.Signature)
	if !ok {
		return nil
	}

	params := sig.Params()
	kinds := make([]lattice.Type, 0, params.Len())
	for i := 0; i < params.Len(); i++ {
		kinds = append(kinds, goTypeToLatticeType(params.At(i).Type(), table))
	}

	var ret lattice.Type
	if results := sig.Results(); results.Len() > 0 {
		ret = goTypeToLatticeType(results.At(0).Type(), table)
	}

	return &lattice.MethodSig{
		Name:       dir.op,
		ParamKinds: kinds,
		ReturnKind: ret,
		InPlace:    strings.HasSuffix(dir.op, "="),
	}
}

// goTypeToLatticeType maps a stub method's Go parameter/return type
// to the lattice class of the same name (scalar and container stubs
// alike are named identically to their lattice class), leaving the
// element slots empty — they are bound per call site by the
// specializer (spec.md §4.4), not by the registry.
func goTypeToLatticeType(t types.Type, table *lattice.ClassTable) lattice.Type {
	name := baseTypeName(t)
	c, ok := table.Lookup(name)
	if !ok {
		return lattice.Bottom
	}
	return lattice.Type{Class: c}
}

func baseTypeName(t types.Type) string {
	switch tt := t.(type) {
	case *types.Named:
		return tt.Obj().Name()
	case *types.Basic:
		return tt.Name()
	default:
		return ""
	}
}
