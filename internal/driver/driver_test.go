package driver

import (
	"testing"

	"github.com/shedskin-go/funxyc/internal/ast"
	"github.com/shedskin-go/funxyc/internal/config"
	"github.com/shedskin-go/funxyc/internal/diagnostics"
	"github.com/shedskin-go/funxyc/internal/span"
)

// x = 1
// y = x
// A minimal module: one literal assignment and one alias assignment.
// Driving it to a fixed point should leave both names carrying Int and
// report no diagnostics.
func TestRun_SimpleAssignmentReachesFixedPoint(t *testing.T) {
	prog := &ast.Program{
		File: "main.py",
		Statements: []ast.Statement{
			&ast.Assign{
				Pos:    span.Span{File: "main.py", Line: 1},
				Target: &ast.Name{Value: "x"},
				Value:  &ast.IntLiteral{Value: 1},
			},
			&ast.Assign{
				Pos:    span.Span{File: "main.py", Line: 2},
				Target: &ast.Name{Value: "y"},
				Value:  &ast.Name{Value: "x"},
			},
		},
	}

	res, err := Run(prog, config.Defaults())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Diags.IsFatal() {
		t.Fatal("expected no fatal diagnostics")
	}

	xNode, ok := res.Builder.Global.Lookup("x")
	if !ok {
		t.Fatal("expected x to be bound in the global scope")
	}
	yNode, ok := res.Builder.Global.Lookup("y")
	if !ok {
		t.Fatal("expected y to be bound in the global scope")
	}

	intClass, ok := res.Classes.Lookup("Int")
	if !ok {
		t.Fatal("expected Int to be a registered class")
	}
	xTypes := res.Graph.Node(xNode).Types
	yTypes := res.Graph.Node(yNode).Types
	if xTypes.Classes()[0] != intClass {
		t.Errorf("x class = %v, want Int", xTypes.Classes())
	}
	if len(yTypes.Classes()) == 0 || yTypes.Classes()[0] != intClass {
		t.Errorf("y class = %v, want Int (propagated from x)", yTypes.Classes())
	}
}

// d = {}
// d[1] = "x"
// d["y"] = 2
// spec.md §8 boundary scenario #5: the dict's key slot sees both Int
// and Str, and its value slot sees both Str and Int — both conflict.
func TestRun_DictKeyValueConflictReportsTypeConflict(t *testing.T) {
	prog := &ast.Program{
		File: "main.py",
		Statements: []ast.Statement{
			&ast.Assign{
				Target: &ast.Name{Value: "d"},
				Value:  &ast.DictExpr{},
			},
			&ast.Assign{
				Target: &ast.Subscript{Value: &ast.Name{Value: "d"}, Index: &ast.IntLiteral{Value: 1}},
				Value:  &ast.StringLiteral{Value: "x"},
			},
			&ast.Assign{
				Target: &ast.Subscript{Value: &ast.Name{Value: "d"}, Index: &ast.StringLiteral{Value: "y"}},
				Value:  &ast.IntLiteral{Value: 2},
			},
		},
	}

	res, err := Run(prog, config.Defaults())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	conflicts := 0
	for _, d := range res.Diags.All() {
		if d.Kind == diagnostics.TypeConflict {
			conflicts++
		}
	}
	if conflicts < 2 {
		t.Errorf("expected a TypeConflict for both the key slot and the value slot, got %d TypeConflict diagnostics (all: %v)", conflicts, res.Diags.All())
	}
}

// d = {"k": 1}
// v = d["k"]
// Dict subscripts must project the value slot, not the key slot, on
// read (internal/graphbuild/exprs.go buildSubscript).
func TestRun_DictSubscriptReadProjectsValueSlot(t *testing.T) {
	prog := &ast.Program{
		File: "main.py",
		Statements: []ast.Statement{
			&ast.Assign{
				Target: &ast.Name{Value: "d"},
				Value: &ast.DictExpr{Entries: []ast.DictEntry{
					{Key: &ast.StringLiteral{Value: "k"}, Value: &ast.IntLiteral{Value: 1}},
				}},
			},
			&ast.Assign{
				Target: &ast.Name{Value: "v"},
				Value:  &ast.Subscript{Value: &ast.Name{Value: "d"}, Index: &ast.StringLiteral{Value: "k"}},
			},
		},
	}

	res, err := Run(prog, config.Defaults())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	vNode, ok := res.Builder.Global.Lookup("v")
	if !ok {
		t.Fatal("expected v to be bound in the global scope")
	}
	intClass, _ := res.Classes.Lookup("Int")
	vTypes := res.Graph.Node(vNode).Types
	if len(vTypes.Classes()) != 1 || vTypes.Classes()[0] != intClass {
		t.Errorf(`d["k"] types = %v, want exactly Int (the dict's value type, not its key type Str)`, vTypes.Classes())
	}
}

// def f():
//     try:
//         raise ValueError()
//     except ValueError as e:
//         return e
// The handler binding e, typed ValueError, should reach f()'s return
// and so r. The check does not tell the handler's registry-class seed
// apart from a type wired in from the raise site.
func TestRun_RaiseInsideTryWiresHandlerBinding(t *testing.T) {
	prog := &ast.Program{
		File: "main.py",
		Statements: []ast.Statement{
			&ast.FunctionDef{
				Name: "f",
				Body: []ast.Statement{
					&ast.Try{
						Body: []ast.Statement{
							&ast.Raise{Exc: &ast.Call{Func: &ast.Name{Value: "ValueError"}}},
						},
						Handlers: []ast.ExceptHandler{
							{
								ExcClass: "ValueError",
								Name:     "e",
								Body:     []ast.Statement{&ast.Return{Value: &ast.Name{Value: "e"}}},
							},
						},
					},
				},
			},
			&ast.Assign{
				Target: &ast.Name{Value: "r"},
				Value:  &ast.Call{Func: &ast.Name{Value: "f"}},
			},
		},
	}

	res, err := Run(prog, config.Defaults())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	rNode, ok := res.Builder.Global.Lookup("r")
	if !ok {
		t.Fatal("expected r to be bound in the global scope")
	}
	valueErr, ok := res.Classes.Lookup("ValueError")
	if !ok {
		t.Fatal("expected ValueError to be a registered class")
	}
	rTypes := res.Graph.Node(rNode).Types
	found := false
	for _, c := range rTypes.Classes() {
		if c == valueErr {
			found = true
		}
	}
	if !found {
		t.Errorf("f()'s return (the handler binding, through e) = %v, want ValueError among them", rTypes.Classes())
	}
}

func TestRun_IterationCapExceededIsFatal(t *testing.T) {
	prog := &ast.Program{File: "main.py"}
	cfg := config.Defaults()
	cfg.MaxIterations = 0

	res, err := Run(prog, cfg)
	if err == nil {
		t.Fatal("expected an error when the iteration cap is exhausted immediately")
	}
	if !res.Diags.IsFatal() {
		t.Error("expected a fatal diagnostic for the exceeded iteration cap")
	}
}
