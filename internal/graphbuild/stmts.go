package graphbuild

import (
	"github.com/shedskin-go/funxyc/internal/ast"
	"github.com/shedskin-go/funxyc/internal/diagnostics"
	"github.com/shedskin-go/funxyc/internal/graph"
	"github.com/shedskin-go/funxyc/internal/lattice"
)

// Frame threads the active scope, the enclosing function
// instantiation's return node, its implicit exception-out node, and
// the stack of currently-enclosing try handlers through statement
// lowering. Frame has no notion of "the current loop" because
// spec.md's node set carries no labeled break/continue target beyond
// the innermost loop, which the builder treats as a no-op control edge
// (the lattice is flow insensitive; loop exits add nothing propagation
// doesn't already see through the loop body's own edges).
type Frame struct {
	Scope      *Scope
	ReturnNode graph.NodeID
	HasReturn  bool

	// ExceptionOut is this instantiation's implicit exception-out node
	// (spec.md §9 "unhandled exceptions propagate to the function's
	// implicit exception-out node"); one is allocated per
	// BuildModule/BuildInstantiation call.
	ExceptionOut    graph.NodeID
	HasExceptionOut bool

	// Handlers is every try block lexically enclosing the statement
	// currently being built, innermost last. A raise wires to all of
	// them at once (spec.md §9 "adds an edge from the exception
	// expression to the except E binding nodes in every enclosing
	// try"), since the lattice has no flow-sensitive notion of which
	// handler would actually catch a given runtime exception.
	Handlers []handlerFrame
}

// handlerFrame is one try statement's set of named except-clause
// binding nodes. A bare `except:` clause contributes no node (nothing
// needs a type) but its presence still counts as "this try has a
// handler" for deciding whether a raise escapes to ExceptionOut.
type handlerFrame struct {
	nodes []graph.NodeID
}

func (b *Builder) buildBlock(stmts []ast.Statement, f *Frame) {
	for _, s := range stmts {
		b.buildStmt(s, f)
	}
}

func (b *Builder) buildStmt(s ast.Statement, f *Frame) {
	switch n := s.(type) {
	case *ast.ExprStmt:
		b.buildExpr(n.Expr, f.Scope)

	case *ast.Assign:
		b.buildAssign(n, f)

	case *ast.AugAssign:
		b.buildAugAssign(n, f)

	case *ast.FunctionDef:
		b.registerFunction(n, nil)

	case *ast.ClassDef:
		b.registerClass(n)

	case *ast.If:
		b.buildExpr(n.Test, f.Scope)
		b.buildBlock(n.Body, f)
		b.buildBlock(n.Orelse, f)

	case *ast.While:
		b.buildExpr(n.Test, f.Scope)
		b.buildBlock(n.Body, f)

	case *ast.For:
		iterNode := b.buildExpr(n.Iter, f.Scope)
		targetNode := f.Scope.TargetNode(b.G, targetName(n.Target), graph.KindLocal, n.Target.Span())
		b.G.AddEdge(iterNode, targetNode, graph.TransformElementAt, 0)
		b.buildBlock(n.Body, f)

	case *ast.Return:
		if !f.HasReturn {
			b.Diags.Fatal(n.Pos, diagnostics.UnsupportedConstruct, "return outside a function")
			return
		}
		if n.Value != nil {
			valNode := b.buildExpr(n.Value, f.Scope)
			b.G.AddEdge(valNode, f.ReturnNode, graph.TransformIdentity, 0)
		}

	case *ast.Assert:
		// Traversed unconditionally here; whether assertions execute
		// at run time is the emitted program's concern, gated by the
		// assertions_enabled config knob (spec.md §6) which this
		// package does not consult — it only needs Test's type to be
		// inferred so the emitter can type-check the emitted check.
		b.buildExpr(n.Test, f.Scope)
		if n.Msg != nil {
			b.buildExpr(n.Msg, f.Scope)
		}

	case *ast.Raise:
		if n.Exc != nil {
			excNode := b.buildExpr(n.Exc, f.Scope)
			if len(f.Handlers) > 0 {
				for _, hf := range f.Handlers {
					for _, hn := range hf.nodes {
						b.G.AddEdge(excNode, hn, graph.TransformIdentity, 0)
					}
				}
			} else if f.HasExceptionOut {
				b.G.AddEdge(excNode, f.ExceptionOut, graph.TransformIdentity, 0)
			}
		}

	case *ast.Try:
		var hf handlerFrame
		for _, h := range n.Handlers {
			c := b.classOf(h.ExcClass)
			if c == nil {
				c = b.classOf("Exception")
			}
			if h.Name != "" {
				node := f.Scope.TargetNode(b.G, h.Name, graph.KindLocal, n.Pos)
				// Registry-class seed is the floor: it keeps the
				// binding typed even when nothing in this function
				// body raises into it directly (an exception raised
				// deeper in a callee, or by a built-in operation this
				// analysis doesn't model). A matching raise site below
				// widens it with the real inferred type on top.
				if c != nil {
					b.G.Node(node).Seed(lattice.Type{Class: c})
				}
				hf.nodes = append(hf.nodes, node)
			}
		}
		bodyFrame := *f
		bodyFrame.Handlers = append(append([]handlerFrame{}, f.Handlers...), hf)
		b.buildBlock(n.Body, &bodyFrame)
		for _, h := range n.Handlers {
			b.buildBlock(h.Body, f)
		}
		b.buildBlock(n.Orelse, f)
		b.buildBlock(n.Finally, f)

	case *ast.ImportStatement:
		// The builder skips ImportStatement. internal/modules resolves
		// import paths into Module values, but neither it nor the
		// builder binds an imported module's top-level names into this
		// scope.

	default:
		b.Diags.Fatal(s.Span(), diagnostics.UnsupportedConstruct, "unsupported statement %T", s)
	}
}

func (b *Builder) buildAssign(n *ast.Assign, f *Frame) {
	valNode := b.buildExpr(n.Value, f.Scope)
	switch target := n.Target.(type) {
	case *ast.Name:
		targetNode := f.Scope.TargetNode(b.G, target.Value, graph.KindLocal, target.Pos)
		b.G.AddEdge(valNode, targetNode, graph.TransformIdentity, 0)
	case *ast.Attribute:
		// Attribute assignment writes into the receiver class's
		// attribute slot for every class currently seen on the
		// receiver; approximated as a method-call-shaped dispatch to
		// "__setattr__:<attr>" so the specializer's existing
		// class-directed dispatch handles fan-out uniformly.
		recv := b.buildExpr(target.Value, f.Scope)
		cs := b.newCallSite(valNode)
		cs.Kind = MethodCall
		cs.Callee = "__setattr__:" + target.Attr
		cs.Receiver = recv
		cs.HasReceiver = true
		cs.Args = []graph.NodeID{valNode}
	case *ast.Subscript:
		recv := b.buildExpr(target.Value, f.Scope)
		keyNode := b.buildExpr(target.Index, f.Scope)
		cs := b.newCallSite(valNode)
		cs.Kind = MethodCall
		cs.Callee = "__setitem__"
		cs.Receiver = recv
		cs.HasReceiver = true
		// Key first, value last: Dict's wireBuiltinElementOp writes
		// Args[0] into the key slot and Args[len-1] into the value slot,
		// so `d[k] = v` contributes to both (spec.md §8 boundary
		// scenario #5). List/Set's plain-element __setitem__ only ever
		// reads the last arg, so the leading index node is harmless
		// there.
		cs.Args = []graph.NodeID{keyNode, valNode}
	default:
		b.Diags.Fatal(n.Pos, diagnostics.UnsupportedConstruct, "unsupported assignment target %T", n.Target)
	}
}

// buildAugAssign lowers `x OP= e` as an in-place method call with
// fallback to the regular binary operator (spec.md §4.2; §9 shedskin
// `__iand__` falling back to `__and__`).
func (b *Builder) buildAugAssign(n *ast.AugAssign, f *Frame) {
	name, ok := n.Target.(*ast.Name)
	if !ok {
		b.Diags.Fatal(n.Pos, diagnostics.UnsupportedConstruct, "augmented assignment target must be a name")
		return
	}
	targetNode := f.Scope.TargetNode(b.G, name.Value, graph.KindLocal, name.Pos)
	valNode := b.buildExpr(n.Value, f.Scope)

	cs := b.newCallSite(targetNode)
	cs.Kind = InPlaceCall
	cs.Callee = inPlaceMethodName(n.Op)
	cs.Fallback = n.Op
	cs.Receiver = targetNode
	cs.HasReceiver = true
	cs.Args = []graph.NodeID{valNode}
}

func inPlaceMethodName(op string) string { return op + "=" }

// registerFunction records a FunctionTemplate without walking its body
// (the specializer walks it lazily, once per argument signature).
func (b *Builder) registerFunction(n *ast.FunctionDef, class *lattice.Class) *FunctionTemplate {
	params := make([]string, len(n.Params))
	for i, p := range n.Params {
		params[i] = p.Name
	}
	tmpl := &FunctionTemplate{Name: n.Name, Params: params, Body: n.Body, Class: class}
	key := n.Name
	if class != nil {
		key = class.Name + "." + n.Name
	}
	b.Functions[key] = tmpl
	return tmpl
}

// registerClass defines a user class in the class table (bases must
// already be registered — built-ins or an earlier ClassDef in this
// module) and registers each method body as a FunctionTemplate keyed
// by "ClassName.method" for the specializer's MRO-based dispatch
// (spec.md §4.4).
func (b *Builder) registerClass(n *ast.ClassDef) {
	if _, exists := b.Classes.Lookup(n.Name); exists {
		b.Diags.Fatal(n.Pos, diagnostics.UnsupportedConstruct, "class %q is already defined", n.Name)
		return
	}
	bases := make([]*lattice.Class, 0, len(n.Bases))
	for _, baseName := range n.Bases {
		base := b.classOf(baseName)
		if base == nil {
			b.Diags.Add(n.Pos, diagnostics.InferenceFailure, "unknown base class %q for %q", baseName, n.Name)
			continue
		}
		bases = append(bases, base)
	}
	if len(bases) == 0 {
		if object := b.classOf("Object"); object != nil {
			bases = append(bases, object)
		}
	}
	c := &lattice.Class{Name: n.Name, Bases: bases, Methods: make(map[string]*lattice.MethodSig)}
	b.Classes.Define(c)

	for _, stmt := range n.Body {
		if fn, ok := stmt.(*ast.FunctionDef); ok {
			b.registerFunction(fn, c)
		}
	}
}
