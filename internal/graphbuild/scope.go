package graphbuild

import (
	"github.com/shedskin-go/funxyc/internal/graph"
	"github.com/shedskin-go/funxyc/internal/span"
)

// Scope is a lexical binding environment: one constraint node per
// name, shared by every read and write of that name within the scope
// it was first bound in (spec.md §4.2 invariant: "every expression in
// every reachable scope has exactly one constraint node per function
// instantiation"). Binding is flow-insensitive: an if/else that both
// assign to x target the same node, so x's type set is simply the
// union of every branch's contribution once propagation runs.
type Scope struct {
	vars   map[string]graph.NodeID
	parent *Scope
}

func NewScope(parent *Scope) *Scope {
	return &Scope{vars: make(map[string]graph.NodeID), parent: parent}
}

// Lookup walks the scope chain and returns the node bound to name.
func (s *Scope) Lookup(name string) (graph.NodeID, bool) {
	for cur := s; cur != nil; cur = cur.parent {
		if id, ok := cur.vars[name]; ok {
			return id, true
		}
	}
	return 0, false
}

// Bind records that name maps to id in this scope specifically
// (params and first assignment targets).
func (s *Scope) Bind(name string, id graph.NodeID) {
	s.vars[name] = id
}

// TargetNode returns the node an assignment to name should write into:
// the existing binding anywhere up the chain, or a fresh node bound in
// this scope if name has never been assigned before.
func (s *Scope) TargetNode(g *graph.Graph, name string, kind graph.NodeKind, sp span.Span) graph.NodeID {
	if id, ok := s.Lookup(name); ok {
		return id
	}
	id := g.NewNode(kind, sp)
	s.Bind(name, id)
	return id
}
