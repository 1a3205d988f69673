package graphbuild

import (
	"github.com/shedskin-go/funxyc/internal/ast"
	"github.com/shedskin-go/funxyc/internal/diagnostics"
	"github.com/shedskin-go/funxyc/internal/graph"
	"github.com/shedskin-go/funxyc/internal/lattice"
	"github.com/shedskin-go/funxyc/internal/span"
)

// buildExpr lowers one expression into a constraint node and returns
// it (spec.md §4.2 rules, representative set below).
func (b *Builder) buildExpr(e ast.Expression, scope *Scope) graph.NodeID {
	switch n := e.(type) {
	case *ast.IntLiteral:
		return b.seedScalar(graph.KindExpr, n.Pos, "Int")
	case *ast.FloatLiteral:
		return b.seedScalar(graph.KindExpr, n.Pos, "Float")
	case *ast.BoolLiteral:
		return b.seedScalar(graph.KindExpr, n.Pos, "Bool")
	case *ast.StringLiteral:
		return b.seedScalar(graph.KindExpr, n.Pos, "Str")
	case *ast.BytesLiteral:
		return b.seedScalar(graph.KindExpr, n.Pos, "Bytes")
	case *ast.NoneLiteral:
		return b.seedScalar(graph.KindExpr, n.Pos, "NoneType")

	case *ast.Name:
		if id, ok := scope.Lookup(n.Value); ok {
			return id
		}
		b.Diags.Add(n.Pos, diagnostics.InferenceFailure, "undefined name %q", n.Value)
		return b.G.NewNode(graph.KindExpr, n.Pos)

	case *ast.ListExpr:
		return b.buildContainerLiteral(n.Pos, "List", n.Elements, scope)
	case *ast.SetExpr:
		return b.buildContainerLiteral(n.Pos, "Set", n.Elements, scope)
	case *ast.TupleExpr:
		return b.buildTupleLiteral(n.Pos, n.Elements, scope)
	case *ast.DictExpr:
		return b.buildDictLiteral(n, scope)

	case *ast.Attribute:
		return b.buildAttribute(n, scope)

	case *ast.Subscript:
		return b.buildSubscript(n, scope)

	case *ast.Call:
		return b.buildCall(n, scope)

	case *ast.BinaryOp:
		return b.buildBinaryOp(n, scope)

	case *ast.UnaryOp:
		operand := b.buildExpr(n.Operand, scope)
		result := b.G.NewNode(graph.KindExpr, n.Pos)
		cs := b.newCallSite(result)
		cs.Kind = MethodCall
		cs.Callee = unaryMethodName(n.Op)
		cs.Receiver = operand
		cs.HasReceiver = true
		return result

	case *ast.BoolOp:
		// Short-circuiting boolean connective: no operator dispatch,
		// just a union of both operands' type sets (spec.md §4.2 notes
		// "and"/"or" are not dunder-dispatched like arithmetic ops).
		left := b.buildExpr(n.Left, scope)
		right := b.buildExpr(n.Right, scope)
		result := b.G.NewNode(graph.KindExpr, n.Pos)
		b.G.AddEdge(left, result, graph.TransformIdentity, 0)
		b.G.AddEdge(right, result, graph.TransformIdentity, 0)
		return result

	case *ast.IsInstance:
		// No flow refinement (DESIGN.md Open Question decision): it
		// type-checks as an ordinary Bool-returning predicate call.
		b.buildExpr(n.Value, scope)
		return b.seedScalar(graph.KindExpr, n.Pos, "Bool")

	case *ast.YieldExpr:
		if n.Value != nil {
			b.buildExpr(n.Value, scope)
		}
		return b.seedScalar(graph.KindExpr, n.Pos, "NoneType")

	case *ast.Comprehension:
		return b.buildComprehension(n, scope)

	default:
		b.Diags.Fatal(e.Span(), diagnostics.UnsupportedConstruct, "unsupported expression %T", e)
		return b.G.NewNode(graph.KindExpr, e.Span())
	}
}

// seedScalar creates a node and seeds it with the single named
// built-in class (arity-0: no allocation site).
func (b *Builder) seedScalar(kind graph.NodeKind, sp span.Span, className string) graph.NodeID {
	id := b.G.NewNode(kind, sp)
	c := b.classOf(className)
	if c == nil {
		b.Diags.Fatal(sp, diagnostics.UnsupportedConstruct, "built-in class %q not found in registry", className)
		return id
	}
	b.G.Node(id).Seed(lattice.Type{Class: c})
	return id
}

// buildContainerLiteral handles List/Set literals: a fresh allocation
// site of arity 1, every element edged into its single slot (spec.md
// §4.2 "Literal L ... for container literals, also a fresh allocation
// site, with element nodes edged into the site's element slot").
func (b *Builder) buildContainerLiteral(sp span.Span, className string, elements []ast.Expression, scope *Scope) graph.NodeID {
	c := b.classOf(className)
	if c == nil {
		b.Diags.Fatal(sp, diagnostics.UnsupportedConstruct, "built-in class %q not found in registry", className)
		return b.G.NewNode(graph.KindExpr, sp)
	}
	site := b.G.NewAllocSite(c)
	id := b.G.NewNode(graph.KindExpr, sp)
	b.G.RegisterSiteOwner(site.ID, id)
	b.G.Node(id).Seed(lattice.Type{Class: c, Site: site})
	for _, elem := range elements {
		elemNode := b.buildExpr(elem, scope)
		b.G.AddSiteWriteEdge(elemNode, site.ID, 0)
	}
	return id
}

// buildDictLiteral is buildContainerLiteral with two slots: 0 for
// keys, 1 for values.
func (b *Builder) buildDictLiteral(n *ast.DictExpr, scope *Scope) graph.NodeID {
	c := b.classOf("Dict")
	if c == nil {
		b.Diags.Fatal(n.Pos, diagnostics.UnsupportedConstruct, "built-in class \"Dict\" not found in registry")
		return b.G.NewNode(graph.KindExpr, n.Pos)
	}
	site := b.G.NewAllocSite(c)
	id := b.G.NewNode(graph.KindExpr, n.Pos)
	b.G.RegisterSiteOwner(site.ID, id)
	b.G.Node(id).Seed(lattice.Type{Class: c, Site: site})
	for _, entry := range n.Entries {
		keyNode := b.buildExpr(entry.Key, scope)
		valNode := b.buildExpr(entry.Value, scope)
		b.G.AddSiteWriteEdge(keyNode, site.ID, 0)
		b.G.AddSiteWriteEdge(valNode, site.ID, 1)
	}
	return id
}

// buildTupleLiteral gives the literal its own per-arity Tuple class
// (see internal/registry's registerVariadicTuple): tuple arity is a
// property of the allocation site, not of a single shared "Tuple"
// class descriptor.
func (b *Builder) buildTupleLiteral(sp span.Span, elements []ast.Expression, scope *Scope) graph.NodeID {
	c := b.tupleClass(len(elements))
	site := b.G.NewAllocSite(c)
	id := b.G.NewNode(graph.KindExpr, sp)
	b.G.RegisterSiteOwner(site.ID, id)
	b.G.Node(id).Seed(lattice.Type{Class: c, Site: site})
	for i, elem := range elements {
		elemNode := b.buildExpr(elem, scope)
		b.G.AddSiteWriteEdge(elemNode, site.ID, i)
	}
	return id
}

func (b *Builder) tupleClass(arity int) *lattice.Class {
	if c, ok := b.tupleClasses[arity]; ok {
		return c
	}
	if b.tupleClasses == nil {
		b.tupleClasses = make(map[int]*lattice.Class)
	}
	base, _ := b.Classes.Lookup("Tuple")
	c := &lattice.Class{Name: "Tuple", Arity: arity, Methods: make(map[string]*lattice.MethodSig)}
	if base != nil {
		c.Bases = base.Bases
		for k, v := range base.Methods {
			c.Methods[k] = v
		}
	}
	b.tupleClasses[arity] = c
	return c
}

// buildAttribute lowers `value.attr`: a node edged from the attribute
// slot of every class currently in value's type set (spec.md §4.2
// "when node(e) gains a new class, a new edge is added from that
// class's a node" — approximated here as a call-site-shaped
// dispatch resolved once per distinct receiver class by the
// specializer, mirroring method-call dispatch).
func (b *Builder) buildAttribute(n *ast.Attribute, scope *Scope) graph.NodeID {
	recv := b.buildExpr(n.Value, scope)
	result := b.G.NewNode(graph.KindAttribute, n.Pos)
	cs := b.newCallSite(result)
	cs.Kind = MethodCall
	cs.Callee = n.Attr
	cs.Receiver = recv
	cs.HasReceiver = true
	return result
}

// buildSubscript lowers `value[index]` as a `__getitem__` dispatch
// (spec.md §4.2 "Subscript e[i]: edge with element-projection
// transform from node(e) to node(call)"), routed through the same
// method-call-shaped call site as any other dunder so
// internal/specialize's builtinElementOps table picks the slot that
// matches the receiver's class (slot 1 for Dict's value, slot 0 for
// List/Set's element) instead of one fixed slot for every receiver;
// a receiver class with no element slots (Str, Range) gets its
// registry method's declared return class instead.
func (b *Builder) buildSubscript(n *ast.Subscript, scope *Scope) graph.NodeID {
	recv := b.buildExpr(n.Value, scope)
	idx := b.buildExpr(n.Index, scope)
	result := b.G.NewNode(graph.KindExpr, n.Pos)
	cs := b.newCallSite(result)
	cs.Kind = MethodCall
	cs.Callee = "__getitem__"
	cs.Receiver = recv
	cs.HasReceiver = true
	cs.Args = []graph.NodeID{idx}
	return result
}

// buildCall lowers a plain function call `f(a1, ..., an)`. A call
// through an Attribute (`recv.method(args)`) is recognized here rather
// than double-building the Attribute node, since the method name must
// drive dispatch directly off the receiver rather than through an
// intermediate attribute-read node.
func (b *Builder) buildCall(n *ast.Call, scope *Scope) graph.NodeID {
	result := b.G.NewNode(graph.KindExpr, n.Pos)

	if attr, ok := n.Func.(*ast.Attribute); ok {
		recv := b.buildExpr(attr.Value, scope)
		cs := b.newCallSite(result)
		cs.Kind = MethodCall
		cs.Callee = attr.Attr
		cs.Receiver = recv
		cs.HasReceiver = true
		for _, a := range n.Args {
			cs.Args = append(cs.Args, b.buildExpr(a, scope))
		}
		return result
	}

	name, ok := n.Func.(*ast.Name)
	if !ok {
		b.Diags.Fatal(n.Pos, diagnostics.UnsupportedConstruct, "call target must be a name or attribute")
		return result
	}
	cs := b.newCallSite(result)
	cs.Kind = PlainCall
	cs.Callee = name.Value
	for _, a := range n.Args {
		cs.Args = append(cs.Args, b.buildExpr(a, scope))
	}
	return result
}

// buildBinaryOp lowers `e1 OP e2` as a method call on e1 (spec.md
// §4.2 "Binary op ... modeled as a method call ... dunder-style
// operator methods").
func (b *Builder) buildBinaryOp(n *ast.BinaryOp, scope *Scope) graph.NodeID {
	left := b.buildExpr(n.Left, scope)
	right := b.buildExpr(n.Right, scope)
	result := b.G.NewNode(graph.KindExpr, n.Pos)
	cs := b.newCallSite(result)
	cs.Kind = MethodCall
	cs.Callee = n.Op
	cs.Receiver = left
	cs.HasReceiver = true
	cs.Args = []graph.NodeID{right}
	return result
}

// buildComprehension lowers list/set/dict/generator comprehensions as
// a fresh container literal whose element slot(s) are written from
// inside the comprehension's own child scope (the loop targets are
// local to the comprehension).
func (b *Builder) buildComprehension(n *ast.Comprehension, scope *Scope) graph.NodeID {
	inner := NewScope(scope)
	for _, clause := range n.Clauses {
		iterNode := b.buildExpr(clause.Iter, inner)
		targetNode := inner.TargetNode(b.G, targetName(clause.Target), graph.KindLocal, clause.Target.Span())
		b.G.AddEdge(iterNode, targetNode, graph.TransformElementAt, 0)
		for _, ifExpr := range clause.Ifs {
			b.buildExpr(ifExpr, inner)
		}
	}

	switch n.Kind {
	case ast.CompDict:
		c := b.classOf("Dict")
		site := b.G.NewAllocSite(c)
		id := b.G.NewNode(graph.KindExpr, n.Pos)
		b.G.RegisterSiteOwner(site.ID, id)
		b.G.Node(id).Seed(lattice.Type{Class: c, Site: site})
		keyNode := b.buildExpr(n.Key, inner)
		valNode := b.buildExpr(n.Element, inner)
		b.G.AddSiteWriteEdge(keyNode, site.ID, 0)
		b.G.AddSiteWriteEdge(valNode, site.ID, 1)
		return id
	case ast.CompSet:
		return b.buildContainerLiteral(n.Pos, "Set", []ast.Expression{n.Element}, inner)
	default: // CompList, CompGenerator
		return b.buildContainerLiteral(n.Pos, "List", []ast.Expression{n.Element}, inner)
	}
}

func targetName(e ast.Expression) string {
	if n, ok := e.(*ast.Name); ok {
		return n.Value
	}
	return "<pattern>"
}

func unaryMethodName(op string) string {
	switch op {
	case "-":
		return "__neg__"
	case "not":
		return "not"
	default:
		return op
	}
}
