package specialize

import (
	"fmt"

	"github.com/shedskin-go/funxyc/internal/graph"
	"github.com/shedskin-go/funxyc/internal/graphbuild"
)

// elementOp wires a container built-in method that reads or writes an
// allocation site's element slot directly, rather than contributing a
// fixed return class (spec.md §4.2 "for container literals, also a
// fresh allocation site, with element nodes edged into the site's
// element slot"; the same site needs updating again whenever append,
// __setitem__, and friends run). slot selects which of the site's
// type-parameter positions the method reads/writes (0 for List/Set, 0
// or 1 for Dict's key/value).
type elementOp struct {
	slot  int
	reads bool // true: project the slot into the result; false: write the last arg into the slot
}

// builtinElementOps lists the registry's container methods whose
// semantics cannot be expressed as a fixed MethodSig.ReturnKind
// because they read or grow an allocation site's own element types
// (spec.md §3 registry arity-derived containers: List, Set, Dict,
// FrozenSet). specializeMethodCall consults this table only for a
// receiver class with at least one element slot.
var builtinElementOps = map[string]elementOp{
	"__getitem__": {slot: 0, reads: true},
	"__setitem__": {slot: 0, reads: false},
	"append":      {slot: 0, reads: false},
	"add":         {slot: 0, reads: false},
	"get":         {slot: 0, reads: true},
}

// wireBuiltinElementOp wires one call site's receiver/result/args
// against the concrete allocation site(s) presently in the receiver's
// type set. A receiver node may carry several distinct sites of the
// same class at once (two branches each constructing their own List),
// so every site is wired independently, gated on a per-site key.
// specializeMethodCall calls this once per receiver class and argument
// signature, so a site that reaches the receiver after that call, under
// the same class and signature, is not wired for this call site.
func (s *Specializer) wireBuiltinElementOp(cs *graphbuild.CallSite, recvNode graph.NodeID, name string) {
	op := builtinElementOps[name]
	recv := s.g.Node(recvNode)
	for _, t := range recv.Types.Slice() {
		if t.Site == nil {
			continue
		}
		key := fmt.Sprintf("site:%s:%d", name, t.Site.ID)
		if cs.Seen[key] {
			continue
		}
		cs.Seen[key] = true

		valueSlot := op.slot
		if t.Class != nil && t.Class.Name == "Dict" {
			valueSlot = 1 // Dict's element slots are [key, value]; reads/writes target value
		}

		switch {
		case op.reads:
			s.g.AddEdge(recvNode, cs.ResultNode, graph.TransformElementAt, valueSlot)
		case t.Class != nil && t.Class.Name == "Dict" && name == "__setitem__" && len(cs.Args) >= 1:
			// buildAssign on a Subscript target passes [key, value] for
			// Dict's __setitem__: the key lands in slot 0 and the value
			// in slot 1, so `d[k] = v` can conflict against both a
			// dict's prior keys and its prior values.
			if len(cs.Args) >= 2 {
				s.g.AddSiteWriteEdge(cs.Args[0], t.Site.ID, 0)
			}
			s.g.AddSiteWriteEdge(cs.Args[len(cs.Args)-1], t.Site.ID, 1)
			s.g.RegisterSiteOwner(t.Site.ID, recvNode)
		case len(cs.Args) > 0:
			s.g.AddSiteWriteEdge(cs.Args[len(cs.Args)-1], t.Site.ID, op.slot)
			s.g.RegisterSiteOwner(t.Site.ID, recvNode)
		}
	}
}
