// Package specialize implements call-site monomorphization and
// MRO-based dynamic dispatch (spec.md §4.4). It turns the raw
// call-site records internal/graphbuild produces into concrete
// function/method instantiations, cloning a fresh constraint subgraph
// per distinct argument signature and re-wiring the call site's edges
// to it.
package specialize

import (
	"sort"
	"strings"

	"github.com/shedskin-go/funxyc/internal/diagnostics"
	"github.com/shedskin-go/funxyc/internal/graph"
	"github.com/shedskin-go/funxyc/internal/graphbuild"
	"github.com/shedskin-go/funxyc/internal/lattice"
	"github.com/shedskin-go/funxyc/internal/span"
)

// instKey identifies one function/method instantiation by its
// resolved owner (the function's name for a plain function) and its
// argument signature (spec.md §4.4 "the tuple of argument type sets
// restricted to ... class identity of each argument").
type instKey struct {
	owner     string // function name for a plain function, else "Class.method"
	signature string
}

type instantiation struct {
	formals []graph.NodeID
	ret     graph.NodeID
}

// Specializer owns the instantiation cache for one compilation. It is
// re-run every driver iteration; already-wired (call site, signature)
// pairs are skipped via CallSite.Seen, so a Run call's cost is
// proportional to what is new since the last propagate pass.
type Specializer struct {
	g       *graph.Graph
	classes *lattice.ClassTable
	builder *graphbuild.Builder
	diags   *diagnostics.Bag

	funcs map[instKey]*instantiation
}

func New(g *graph.Graph, classes *lattice.ClassTable, builder *graphbuild.Builder, diags *diagnostics.Bag) *Specializer {
	return &Specializer{
		g:       g,
		classes: classes,
		builder: builder,
		diags:   diags,
		funcs:   make(map[instKey]*instantiation),
	}
}

// Run walks every call site currently known to the builder (including
// ones discovered by instantiations built during this very call,
// picked up via builder.CallSites growing as BuildInstantiation runs)
// and wires any signature not yet seen. It returns whether anything
// changed, the driver's "changed = specialize_new_call_signatures()"
// signal (spec.md §4.6).
func (s *Specializer) Run() bool {
	changed := false
	for i := 0; i < len(s.builder.CallSites); i++ {
		cs := s.builder.CallSites[i]
		if s.specializeCallSite(cs) {
			changed = true
		}
	}
	return changed
}

func (s *Specializer) specializeCallSite(cs *graphbuild.CallSite) bool {
	switch cs.Kind {
	case graphbuild.PlainCall:
		return s.specializePlainCall(cs)
	case graphbuild.MethodCall:
		return s.specializeMethodCall(cs, cs.Callee, false)
	case graphbuild.InPlaceCall:
		changed := s.specializeMethodCall(cs, cs.Callee, true)
		return changed
	default:
		return false
	}
}

func (s *Specializer) specializePlainCall(cs *graphbuild.CallSite) bool {
	tmpl, ok := s.builder.Functions[cs.Callee]
	if !ok {
		return false // unresolved global (host builtin, or a diagnostics-reported undefined name)
	}
	key := instKey{owner: cs.Callee, signature: argSignature(s.g, cs.Args)}
	if cs.Seen[key.signature] {
		return false
	}
	cs.Seen[key.signature] = true

	inst, isNew := s.getOrCreate(key, tmpl)
	wireArgs(s.g, cs.Args, inst.formals)
	s.g.AddEdge(inst.ret, cs.ResultNode, graph.TransformIdentity, 0)
	return isNew
}

// specializeMethodCall implements dynamic dispatch (spec.md §4.4
// "Method calls follow the same protocol after class-directed
// dispatch: for each class in the receiver's type set, the
// corresponding method is resolved (MRO ...) and a call edge is
// added"). For an in-place call, a class lacking the in-place
// override falls back to the plain operator of the same name with the
// "=" suffix stripped (spec.md §4.2, §9 shedskin `__iand__`/`__and__`).
func (s *Specializer) specializeMethodCall(cs *graphbuild.CallSite, methodName string, inPlace bool) bool {
	if !cs.HasReceiver {
		return false
	}
	recv := s.g.Node(cs.Receiver)
	changed := false
	var sigs []*lattice.MethodSig
	for _, c := range recv.Types.Classes() {
		resolvedName, owner, body, sig := s.resolve(c, methodName)
		if owner == nil && inPlace {
			resolvedName, owner, body, sig = s.resolve(c, cs.Fallback)
		}
		if owner == nil {
			continue
		}
		if sig != nil {
			sigs = append(sigs, sig)
		}

		sigKey := c.Name + "|" + argSignature(s.g, cs.Args)
		if cs.Seen[sigKey] {
			continue
		}
		cs.Seen[sigKey] = true
		changed = true

		if _, ok := builtinElementOps[resolvedName]; ok && c.Arity > 0 {
			s.wireBuiltinElementOp(cs, cs.Receiver, resolvedName)
			continue
		}
		if body != nil {
			s.wireMethodBody(cs, c, body)
			continue
		}
		if sig != nil {
			s.wireBuiltinSig(cs, sig)
		}
	}
	s.checkDispatchAmbiguity(cs, methodName, sigs)
	return changed
}

// checkDispatchAmbiguity reports a DispatchAmbiguity when a receiver's
// distinct classes resolve the same dunder name to built-in signatures
// whose return classes are mutually unrelated (spec.md §7 kind 4:
// "method resolution could not settle on one definition"). User-method
// bodies are exempt: their return type comes from whatever their own
// Return statements infer, which propagation unifies normally rather
// than needing one declared return class up front. Recomputed on every
// Run (not gated on "new signature this pass") because the ambiguity
// only becomes visible once the receiver's type set has grown to
// include both classes — it can't be judged off a single class alone.
func (s *Specializer) checkDispatchAmbiguity(cs *graphbuild.CallSite, methodName string, sigs []*lattice.MethodSig) {
	if len(sigs) < 2 || s.diags == nil {
		return
	}
	key := "ambiguity:" + methodName
	if cs.Seen[key] {
		return
	}
	first := sigs[0].ReturnKind.Class
	for _, sig := range sigs[1:] {
		c := sig.ReturnKind.Class
		if c == nil || first == nil || c == first {
			continue
		}
		if s.classes.IsSubclass(c, first) || s.classes.IsSubclass(first, c) {
			continue
		}
		cs.Seen[key] = true
		s.diags.Add(s.g.Node(cs.ResultNode).Span, diagnostics.DispatchAmbiguity,
			"%q dispatches to incompatible return types across the receiver's class set", methodName)
		return
	}
}

// resolve walks c's MRO looking for a user-defined method template
// first (it may override a built-in of the same name), then a
// built-in signature from the registry (spec.md §4.4 MRO dispatch).
func (s *Specializer) resolve(c *lattice.Class, name string) (resolvedName string, owner *lattice.Class, body *graphbuild.FunctionTemplate, sig *lattice.MethodSig) {
	for _, cls := range s.classes.MRO(c) {
		if tmpl, ok := s.builder.Functions[cls.Name+"."+name]; ok {
			return name, cls, tmpl, nil
		}
	}
	if m, owner, ok := s.classes.ResolveMethod(c, name); ok {
		return name, owner, nil, m
	}
	return "", nil, nil, nil
}

func (s *Specializer) wireMethodBody(cs *graphbuild.CallSite, recvClass *lattice.Class, tmpl *graphbuild.FunctionTemplate) {
	key := instKey{owner: recvClass.Name + "." + tmpl.Name, signature: argSignature(s.g, cs.Args)}
	inst, _ := s.getOrCreate(key, tmpl)
	if len(inst.formals) > 0 {
		s.g.AddEdge(cs.Receiver, inst.formals[0], graph.TransformIdentity, 0)
	}
	wireArgs(s.g, cs.Args, inst.formals[minInt(1, len(inst.formals)):])
	s.g.AddEdge(inst.ret, cs.ResultNode, graph.TransformIdentity, 0)
}

// wireBuiltinSig seeds the call's result with a built-in method's
// fixed return class (scalar dunder operators: Int.Add -> Int, and so
// on — no allocation site involved, so there is nothing to wire
// through the propagator beyond a direct seed).
func (s *Specializer) wireBuiltinSig(cs *graphbuild.CallSite, sig *lattice.MethodSig) {
	if sig.ReturnKind.Class == nil {
		return
	}
	s.g.Node(cs.ResultNode).Seed(sig.ReturnKind)
}

func (s *Specializer) getOrCreate(key instKey, tmpl *graphbuild.FunctionTemplate) (*instantiation, bool) {
	if inst, ok := s.funcs[key]; ok {
		return inst, false
	}
	formals := make([]graph.NodeID, len(tmpl.Params))
	for i := range formals {
		formals[i] = s.g.NewNode(graph.KindParam, span.None)
	}
	ret := s.g.NewNode(graph.KindReturn, span.None)
	inst := &instantiation{formals: formals, ret: ret}
	s.funcs[key] = inst

	// spec.md §4.4 step 2: clone the body now that formals exist.
	s.builder.BuildInstantiation(tmpl, formals, ret)
	return inst, true
}

// Signatures returns every instantiation's key, formatted as
// "<owner>#<argument-signature>", for the graph inspector's
// instantiations table (SPEC_FULL.md §4.12). internal/inspector takes
// this rather than reaching into the Specializer's private cache.
func (s *Specializer) Signatures() map[string]string {
	out := make(map[string]string, len(s.funcs))
	for k := range s.funcs {
		id := k.owner + "#" + k.signature
		out[id] = k.signature
	}
	return out
}

func wireArgs(g *graph.Graph, args, formals []graph.NodeID) {
	n := len(args)
	if len(formals) < n {
		n = len(formals)
	}
	for i := 0; i < n; i++ {
		g.AddEdge(args[i], formals[i], graph.TransformIdentity, 0)
	}
}

func argSignature(g *graph.Graph, args []graph.NodeID) string {
	parts := make([]string, len(args))
	for i, id := range args {
		classes := g.Node(id).Types.Classes()
		names := make([]string, len(classes))
		for j, c := range classes {
			names[j] = c.Name
		}
		sort.Strings(names)
		parts[i] = strings.Join(names, ",")
	}
	return strings.Join(parts, ";")
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
