// Package propagate implements the fixed-point solver (spec.md §4.3):
// a work-list that propagates type sets along constraint-graph edges
// until no node's type set grows further.
package propagate

import (
	"github.com/shedskin-go/funxyc/internal/graph"
	"github.com/shedskin-go/funxyc/internal/lattice"
)

// Run drains the work list of dirty nodes, applying every outbound
// edge's transform and unioning the result into the destination, until
// the queue is empty. It returns the number of node visits performed,
// purely for driver-level diagnostics/progress reporting.
//
// Propagation is order-independent by construction (spec.md §4.3 "Tie-
// breaks: propagation is order-independent by construction") because
// set union is commutative and associative — the FIFO order below only
// affects how many times a given node is revisited before the queue
// empties, never the final fixed point.
func Run(g *graph.Graph) int {
	queue := make([]graph.NodeID, 0, g.NumNodes())
	queued := make(map[graph.NodeID]bool)

	enqueue := func(id graph.NodeID) {
		if !queued[id] {
			queued[id] = true
			queue = append(queue, id)
		}
	}

	for _, id := range g.AllNodeIDs() {
		if g.Node(id).IsDirty() {
			enqueue(id)
		}
	}

	visits := 0
	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]
		delete(queued, id)

		n := g.Node(id)
		if !n.IsDirty() {
			continue
		}
		n.ClearDirty()
		visits++

		for _, e := range n.Out {
			if e.Kind == graph.SiteWriteEdge {
				site := g.AllocSite(e.Site)
				grew := false
				for _, t := range n.Types {
					if site.AddElement(e.Slot, t, lattice.WriteSiteID(id)) {
						grew = true
					}
				}
				if grew {
					for _, ownerID := range g.SiteOwners(e.Site) {
						g.Node(ownerID).MarkDirty()
						enqueue(ownerID)
					}
				}
				continue
			}

			var contribution lattice.TypeSet
			switch e.Transform {
			case graph.TransformIdentity:
				contribution = n.Types
			case graph.TransformElementAt:
				contribution = lattice.ElementType(n.Types, e.Index)
			}
			if len(contribution) == 0 {
				continue
			}
			dst := g.Node(e.Dst)
			if dst.Types.Union(contribution) {
				dst.MarkDirty()
				enqueue(e.Dst)
			}
		}
	}
	return visits
}
