// Package driver implements the outer fixed-point loop (spec.md §4.6,
// §5): build the constraint graph, then alternate propagation,
// call-site specialization, and iterative flow analysis until none of
// the three makes further progress, then validate that every node
// ended up typed. The chain-of-stages shape is kept from the
// teacher's pipeline.Processor idiom, rewired to this fixed loop
// instead of a linear one-pass pipeline.
package driver

import (
	"fmt"

	"github.com/shedskin-go/funxyc/internal/ast"
	"github.com/shedskin-go/funxyc/internal/config"
	"github.com/shedskin-go/funxyc/internal/diagnostics"
	"github.com/shedskin-go/funxyc/internal/graph"
	"github.com/shedskin-go/funxyc/internal/graphbuild"
	"github.com/shedskin-go/funxyc/internal/ifa"
	"github.com/shedskin-go/funxyc/internal/lattice"
	"github.com/shedskin-go/funxyc/internal/propagate"
	"github.com/shedskin-go/funxyc/internal/registry"
	"github.com/shedskin-go/funxyc/internal/span"
	"github.com/shedskin-go/funxyc/internal/specialize"
)

// Result is the finished typed graph handed to an emitter (in-process
// or over the gRPC transport in internal/emitrpc).
type Result struct {
	Graph       *graph.Graph
	Classes     *lattice.ClassTable
	Builder     *graphbuild.Builder
	Specializer *specialize.Specializer
	Diags       *diagnostics.Bag
	Iterations  int
	PropVisits  int
}

// Run builds the constraint graph for prog and drives it to a fixed
// point (spec.md §4.6 "build_graph(entry_module); repeat propagate(),
// specialize_new_call_signatures(), run_ifa() until no change;
// validate_all_nodes_typed()"). cfg.MaxIterations bounds the loop —
// exceeding it is diagnostics.IterationCapExceeded, a fatal kind.
func Run(prog *ast.Program, cfg config.Config) (*Result, error) {
	classes, err := registry.Load()
	if err != nil {
		return nil, fmt.Errorf("driver: loading built-in registry: %w", err)
	}

	g := graph.New(classes)
	diags := diagnostics.NewBag()
	builder := graphbuild.New(g, classes, diags)
	spec := specialize.New(g, classes, builder, diags)

	builder.BuildModule(prog)

	res := &Result{Graph: g, Classes: classes, Builder: builder, Specializer: spec, Diags: diags}

	for iter := 0; ; iter++ {
		if iter >= cfg.MaxIterations {
			diags.Fatal(prog.Span(), diagnostics.IterationCapExceeded,
				"fixed point not reached after %d iterations", cfg.MaxIterations)
			break
		}
		res.Iterations = iter + 1

		res.PropVisits += propagate.Run(g)
		specChanged := spec.Run()
		ifaChanged := ifa.Run(g)

		if !specChanged && !ifaChanged {
			// One more propagate pass picks up whatever specialize/ifa
			// wired on this iteration's last round before declaring the
			// fixed point reached.
			res.PropVisits += propagate.Run(g)
			break
		}
	}

	validateAllNodesTyped(g, diags)
	validateNoTypeConflicts(g, diags)

	if diags.IsFatal() {
		return res, fmt.Errorf("driver: compilation failed with fatal diagnostics")
	}
	return res, nil
}

// validateAllNodesTyped reports an InferenceFailure diagnostic for any
// node whose type set is still empty once the fixed point is reached
// (spec.md §4.6's terminal check; an empty set is the lattice's top
// element, meaning "never reached" rather than "reached but unknown").
func validateAllNodesTyped(g *graph.Graph, diags *diagnostics.Bag) {
	for _, id := range g.AllNodeIDs() {
		n := g.Node(id)
		if n.Kind == graph.KindExceptionOut {
			continue // exception-out nodes are legitimately empty on the no-exception path
		}
		if n.Types.Len() == 0 {
			diags.Add(n.Span, diagnostics.InferenceFailure, "node %d never received a type", n.ID)
		}
	}
}

// validateNoTypeConflicts reports a TypeConflict for any live
// allocation site whose element slot holds multiple classes that
// widening can't collapse into one (spec.md §7 kind 3 "a node holds
// types that cannot be unified into a single target-language type at
// an emission point, e.g., container with incompatible element
// classes"; spec.md §8 boundary scenario #5, `d = {}; d[1] = "x";
// d["y"] = 2`, is exactly this shape once
// internal/graphbuild/stmts.go's buildAssign and
// internal/specialize/builtins.go's Dict `__setitem__` case thread both
// key and value into the dict's two element slots). A site IFA has already split is
// skipped: its retired Elements are a stale pre-split snapshot, and the
// partitions that replaced it are checked in their own right.
func validateNoTypeConflicts(g *graph.Graph, diags *diagnostics.Bag) {
	for _, site := range g.AllAllocSites() {
		if site.Retired {
			continue
		}
		for slot, ts := range site.Elements {
			widened := lattice.Widen(ts)
			if len(widened.Classes()) <= 1 {
				continue
			}
			sp := span.None
			if owners := g.SiteOwners(site.ID); len(owners) > 0 {
				sp = g.Node(owners[0]).Span
			}
			diags.Add(sp, diagnostics.TypeConflict,
				"%s's element slot %d holds incompatible types %s", site.Class.Name, slot, widened.String())
		}
	}
}
