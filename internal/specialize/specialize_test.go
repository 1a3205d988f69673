package specialize

import (
	"testing"

	"github.com/shedskin-go/funxyc/internal/ast"
	"github.com/shedskin-go/funxyc/internal/diagnostics"
	"github.com/shedskin-go/funxyc/internal/graph"
	"github.com/shedskin-go/funxyc/internal/graphbuild"
	"github.com/shedskin-go/funxyc/internal/lattice"
	"github.com/shedskin-go/funxyc/internal/propagate"
	"github.com/shedskin-go/funxyc/internal/span"
)

func newFixture(t *testing.T) (*graph.Graph, *lattice.ClassTable, *graphbuild.Builder, *lattice.Class) {
	t.Helper()
	classes := lattice.NewClassTable()
	object := &lattice.Class{Name: "Object", Methods: map[string]*lattice.MethodSig{}}
	intClass := &lattice.Class{Name: "Int", Bases: []*lattice.Class{object}, Methods: map[string]*lattice.MethodSig{}}
	classes.Define(object)
	classes.Define(intClass)

	g := graph.New(classes)
	builder := graphbuild.New(g, classes, diagnostics.NewBag())
	return g, classes, builder, intClass
}

// identity(x) is a plain function template `return x`; a single call
// site passing an Int argument should produce one instantiation whose
// return node ends up carrying Int after propagation.
func TestSpecializePlainCall_WiresReturnValue(t *testing.T) {
	g, _, builder, intClass := newFixture(t)

	arg := g.NewNode(graph.KindExpr, span.None)
	g.Node(arg).Seed(lattice.Type{Class: intClass})

	result := g.NewNode(graph.KindExpr, span.None)
	cs := &graphbuild.CallSite{
		Kind:       graphbuild.PlainCall,
		Callee:     "identity",
		ResultNode: result,
		Args:       []graph.NodeID{arg},
		Seen:       make(map[string]bool),
	}
	builder.CallSites = append(builder.CallSites, cs)

	retTarget := &ast.Name{Value: "x"}
	builder.Functions["identity"] = &graphbuild.FunctionTemplate{
		Name:   "identity",
		Params: []string{"x"},
		Body:   []ast.Statement{&ast.Return{Value: retTarget}},
	}

	s := New(g, builder.Classes, builder, diagnostics.NewBag())
	if !s.Run() {
		t.Fatal("expected Run to report a change on first specialization")
	}
	if s.Run() {
		t.Error("expected a second Run to be a no-op once the signature is already wired")
	}

	propagate.Run(g)

	got := g.Node(result)
	if !got.Types.Contains(lattice.Type{Class: intClass}) {
		t.Errorf("expected result node to carry Int, got %s", got.Types.String())
	}
}

func TestSpecializeMethodCall_DispatchesPerClass(t *testing.T) {
	g, _, builder, intClass := newFixture(t)

	plusSig := &lattice.MethodSig{Name: "+", ReturnKind: lattice.Type{Class: intClass}}
	intClass.Methods["+"] = plusSig

	recv := g.NewNode(graph.KindExpr, span.None)
	g.Node(recv).Seed(lattice.Type{Class: intClass})
	arg := g.NewNode(graph.KindExpr, span.None)
	g.Node(arg).Seed(lattice.Type{Class: intClass})
	result := g.NewNode(graph.KindExpr, span.None)

	cs := &graphbuild.CallSite{
		Kind:        graphbuild.MethodCall,
		Callee:      "+",
		Receiver:    recv,
		HasReceiver: true,
		ResultNode:  result,
		Args:        []graph.NodeID{arg},
		Seen:        make(map[string]bool),
	}
	builder.CallSites = append(builder.CallSites, cs)

	s := New(g, builder.Classes, builder, diagnostics.NewBag())
	if !s.Run() {
		t.Fatal("expected dispatch to a built-in signature to count as a change")
	}
	if !g.Node(result).Types.Contains(lattice.Type{Class: intClass}) {
		t.Errorf("expected result to be seeded with Int from the method signature, got %s", g.Node(result).Types.String())
	}
}

// Two unrelated classes on the same receiver each define "area" with
// an incompatible built-in return class (Int vs. a Str-returning
// override); dispatching "area" across both should raise a
// DispatchAmbiguity rather than silently picking one.
func TestSpecializeMethodCall_ConflictingReturnClassesRaiseDispatchAmbiguity(t *testing.T) {
	g, classes, builder, intClass := newFixture(t)
	strClass := &lattice.Class{Name: "Str", Methods: map[string]*lattice.MethodSig{}}
	classes.Define(strClass)

	square := &lattice.Class{Name: "Square", Methods: map[string]*lattice.MethodSig{
		"area": {Name: "area", ReturnKind: lattice.Type{Class: intClass}},
	}}
	label := &lattice.Class{Name: "Label", Methods: map[string]*lattice.MethodSig{
		"area": {Name: "area", ReturnKind: lattice.Type{Class: strClass}},
	}}
	classes.Define(square)
	classes.Define(label)

	recv := g.NewNode(graph.KindExpr, span.None)
	g.Node(recv).Seed(lattice.Type{Class: square})
	g.Node(recv).Seed(lattice.Type{Class: label})
	result := g.NewNode(graph.KindExpr, span.None)

	cs := &graphbuild.CallSite{
		Kind:        graphbuild.MethodCall,
		Callee:      "area",
		Receiver:    recv,
		HasReceiver: true,
		ResultNode:  result,
		Seen:        make(map[string]bool),
	}
	builder.CallSites = append(builder.CallSites, cs)

	diags := diagnostics.NewBag()
	s := New(g, builder.Classes, builder, diags)
	s.Run()

	found := false
	for _, d := range diags.All() {
		if d.Kind == diagnostics.DispatchAmbiguity {
			found = true
		}
	}
	if !found {
		t.Errorf("expected a DispatchAmbiguity diagnostic, got %v", diags.All())
	}
}
