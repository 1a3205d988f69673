// Package graphbuild walks a parsed syntax tree and lowers it into the
// constraint graph (spec.md §4.2). It never runs the propagator itself
// — that is internal/propagate's job — it only produces nodes, edges,
// allocation sites, and call-site records for the driver's outer loop
// to iterate on.
package graphbuild

import (
	"github.com/shedskin-go/funxyc/internal/ast"
	"github.com/shedskin-go/funxyc/internal/diagnostics"
	"github.com/shedskin-go/funxyc/internal/graph"
	"github.com/shedskin-go/funxyc/internal/lattice"
	"github.com/shedskin-go/funxyc/internal/span"
)

// FunctionTemplate is a not-yet-specialized function or method body:
// the AST plus the information the specializer needs to clone a fresh
// instantiation per call-site signature (spec.md §4.4). Builder never
// walks a FunctionTemplate's Body on its own — BuildInstantiation does,
// once per distinct argument signature.
type FunctionTemplate struct {
	Name   string
	Params []string
	Body   []ast.Statement
	Class  *lattice.Class // non-nil for a method; Params[0] is implicitly "self"
}

// CallKind distinguishes the three call-shaped constructs spec.md §4.2
// lowers the same way: plain calls, method/operator calls (dunder
// dispatch), and in-place operator calls with a fallback.
type CallKind int

const (
	PlainCall CallKind = iota
	MethodCall
	InPlaceCall
)

// CallSite is a static call expression's record (spec.md §3 "Call-site
// record"). One CallSite exists per textual call per function
// instantiation it appears in — a call inside a function specialized
// for three distinct argument signatures gets three CallSite values,
// one built per instantiation.
type CallSite struct {
	Kind CallKind

	// ResultNode is the node propagation reads as this call
	// expression's value.
	ResultNode graph.NodeID

	// Callee names the function (PlainCall) or the dunder-style method
	// (MethodCall/InPlaceCall) being invoked.
	Callee string

	// Fallback is the regular binary-operator method to dispatch to
	// when InPlaceCall's Callee has no override on the receiver's
	// class (spec.md §4.2 augmented assignment; §9 shedskin
	// `__iand__`-falls-back-to-`__and__` semantics).
	Fallback string

	// Receiver is the method/operator call's left-hand node; zero
	// value for PlainCall (never a receiver in a built graph, since
	// node 0 is BuildModule's exception-out node). HasReceiver tells
	// the two apart.
	Receiver graph.NodeID
	HasReceiver bool

	Args []graph.NodeID

	// Specializer-owned bookkeeping: which (signature -> instantiation)
	// pairs have already been wired for this call site, keyed by the
	// specializer's own signature encoding. graphbuild never reads
	// this field.
	Seen map[string]bool
}

// Builder accumulates the constraint graph for a single compilation.
type Builder struct {
	G       *graph.Graph
	Classes *lattice.ClassTable
	Diags   *diagnostics.Bag

	Functions map[string]*FunctionTemplate
	CallSites []*CallSite

	Global       *Scope
	tupleClasses map[int]*lattice.Class
}

func New(g *graph.Graph, classes *lattice.ClassTable, diags *diagnostics.Bag) *Builder {
	return &Builder{
		G:         g,
		Classes:   classes,
		Diags:     diags,
		Functions: make(map[string]*FunctionTemplate),
		Global:    NewScope(nil),
	}
}

// BuildModule walks a module's top-level statements, registering every
// FunctionDef/ClassDef as a template (not yet specialized) and
// lowering every other statement directly into the global scope — the
// module body is treated as the zero-argument entry instantiation
// (spec.md §4.6 "build_graph(entry_module)").
func (b *Builder) BuildModule(prog *ast.Program) []*CallSite {
	frame := &Frame{Scope: b.Global}
	frame.ExceptionOut = b.G.NewNode(graph.KindExceptionOut, prog.Span())
	frame.HasExceptionOut = true
	before := len(b.CallSites)
	b.buildBlock(prog.Statements, frame)
	return b.CallSites[before:]
}

// BuildInstantiation builds one fresh copy of a function template's
// body for a specific call-site signature (spec.md §4.4 "clones the
// function body's constraint subgraph (fresh nodes, edges rewired),
// seeds formals with the argument types"). formals must already be
// seeded by the caller; returnNode receives every Return statement's
// value via an identity edge. It returns the call sites newly
// discovered inside this instantiation so the driver can specialize
// them in turn.
func (b *Builder) BuildInstantiation(tmpl *FunctionTemplate, formals []graph.NodeID, returnNode graph.NodeID) []*CallSite {
	scope := NewScope(nil)
	for i, p := range tmpl.Params {
		if i < len(formals) {
			scope.Bind(p, formals[i])
		}
	}
	frame := &Frame{Scope: scope, ReturnNode: returnNode, HasReturn: true}
	frame.ExceptionOut = b.G.NewNode(graph.KindExceptionOut, span.None)
	frame.HasExceptionOut = true
	before := len(b.CallSites)
	b.buildBlock(tmpl.Body, frame)
	return b.CallSites[before:]
}

// newCallSite allocates a CallSite, registers it on the builder, and
// returns it so the caller can fill in Kind/Callee/Args.
func (b *Builder) newCallSite(resultNode graph.NodeID) *CallSite {
	cs := &CallSite{ResultNode: resultNode, Seen: make(map[string]bool)}
	b.CallSites = append(b.CallSites, cs)
	return cs
}

// classOf resolves a class name already known to the registry or to a
// user ClassDef processed earlier in this build pass.
func (b *Builder) classOf(name string) *lattice.Class {
	c, ok := b.Classes.Lookup(name)
	if !ok {
		return nil
	}
	return c
}
