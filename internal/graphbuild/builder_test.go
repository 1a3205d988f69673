package graphbuild

import (
	"testing"

	"github.com/shedskin-go/funxyc/internal/ast"
	"github.com/shedskin-go/funxyc/internal/diagnostics"
	"github.com/shedskin-go/funxyc/internal/graph"
	"github.com/shedskin-go/funxyc/internal/propagate"
	"github.com/shedskin-go/funxyc/internal/registry"
	"github.com/shedskin-go/funxyc/internal/span"
)

func newBuilder(t *testing.T) *Builder {
	t.Helper()
	classes, err := registry.Load()
	if err != nil {
		t.Fatalf("loading registry: %v", err)
	}
	g := graph.New(classes)
	return New(g, classes, diagnostics.NewBag())
}

// def f(x): return x
// y = f(1)
func TestBuildModule_RegistersFunctionTemplateAndCallSite(t *testing.T) {
	b := newBuilder(t)
	prog := &ast.Program{
		File: "m.py",
		Statements: []ast.Statement{
			&ast.FunctionDef{
				Name:   "f",
				Params: []ast.Param{{Name: "x"}},
				Body:   []ast.Statement{&ast.Return{Value: &ast.Name{Value: "x"}}},
			},
			&ast.Assign{
				Target: &ast.Name{Value: "y"},
				Value:  &ast.Call{Func: &ast.Name{Value: "f"}, Args: []ast.Expression{&ast.IntLiteral{Value: 1}}},
			},
		},
	}

	b.BuildModule(prog)

	if _, ok := b.Functions["f"]; !ok {
		t.Fatal("expected f to be registered as a function template")
	}
	if len(b.CallSites) != 1 {
		t.Fatalf("expected 1 call site, got %d", len(b.CallSites))
	}
	cs := b.CallSites[0]
	if cs.Kind != PlainCall {
		t.Errorf("call kind = %v, want PlainCall", cs.Kind)
	}
	if cs.Callee != "f" {
		t.Errorf("callee = %q, want f", cs.Callee)
	}
	if len(cs.Args) != 1 {
		t.Fatalf("expected 1 argument, got %d", len(cs.Args))
	}

	yNode, ok := b.Global.Lookup("y")
	if !ok {
		t.Fatal("expected y to be bound in the global scope")
	}
	foundEdgeToY := false
	for _, e := range b.G.Node(cs.ResultNode).Out {
		if e.Kind == graph.NodeEdge && e.Transform == graph.TransformIdentity && e.Dst == yNode {
			foundEdgeToY = true
		}
	}
	if !foundEdgeToY {
		t.Error("expected an identity edge from the call's result node to y")
	}
}

// [1, 2] builds one List allocation site with both elements wired in.
func TestBuildContainerLiteral_WiresElementsIntoOneSite(t *testing.T) {
	b := newBuilder(t)
	listExpr := &ast.ListExpr{
		Pos: span.None,
		Elements: []ast.Expression{
			&ast.IntLiteral{Value: 1},
			&ast.IntLiteral{Value: 2},
		},
	}
	id := b.buildExpr(listExpr, b.Global)

	node := b.G.Node(id)
	if node.Types.Len() != 1 {
		t.Fatalf("expected exactly one List type on the literal node, got %s", node.Types.String())
	}
	typ := node.Types.Slice()[0]
	if typ.Class.Name != "List" {
		t.Fatalf("expected List, got %s", typ.Class.Name)
	}
	if typ.Site == nil {
		t.Fatal("expected the List type to carry an allocation site")
	}

	// propagate both element literals into the site's single slot
	// before checking its contents.
	propagate.Run(b.G)
	site := typ.Site
	if site.Elements[0].Len() != 1 {
		t.Fatalf("expected the site's element slot to hold one class (Int), got %s", site.Elements[0].String())
	}
	if site.Elements[0].Slice()[0].Class.Name != "Int" {
		t.Errorf("expected element class Int, got %s", site.Elements[0].Slice()[0].Class.Name)
	}
}

func TestBuildModule_UndefinedNameIsNonFatalDiagnostic(t *testing.T) {
	b := newBuilder(t)
	prog := &ast.Program{
		Statements: []ast.Statement{
			&ast.ExprStmt{Expr: &ast.Name{Value: "undefined_thing"}},
		},
	}
	b.BuildModule(prog)
	if b.Diags.IsFatal() {
		t.Error("an undefined name should be a recoverable InferenceFailure, not fatal")
	}
}
