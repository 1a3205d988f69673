// Package ifa implements iterative flow analysis (spec.md §4.5):
// after propagation reaches a fixed point, look for allocation sites
// whose element slots have absorbed contributions from independent
// upstream writers, and split such a site into several, so that the
// lattice does not conflate logically unrelated data just because it
// happened to land in the same container.
//
// Open Question decision (DESIGN.md): two writers are independent iff
// they never both contributed the same concrete element type to the
// slot. Writers that ever agree on a type are merged into one group —
// a conservative rule that never splits genuine confluence (the same
// loop or recursive call appending the same type repeatedly) but does
// split two distinct call sites that happen to share a site via
// aliasing and have never actually produced overlapping data.
package ifa

import (
	"sort"

	"github.com/shedskin-go/funxyc/internal/graph"
	"github.com/shedskin-go/funxyc/internal/lattice"
)

// Run performs one IFA pass over g and reports whether any site was
// split. The driver re-runs propagate/specialize after a split: the
// new sites' elements need to flow through the graph again, and any
// newly-divergent call-site signature needs re-specializing.
func Run(g *graph.Graph) bool {
	changed := false
	for _, site := range g.AllAllocSites() {
		if site.Retired || site.Class.Arity != 1 {
			// Splitting is only implemented for single-type-parameter
			// containers (List/Set/FrozenSet): a Dict's two correlated
			// slots (key, value) would need partitions computed jointly
			// across both slots, which this pass does not attempt.
			continue
		}
		if splitSite(g, site) {
			changed = true
		}
	}
	return changed
}

func splitSite(g *graph.Graph, site *lattice.AllocSite) bool {
	groups := partitionOrigins(site.Origins[0])
	if len(groups) < 2 {
		return false
	}

	newSites := make([]*lattice.AllocSite, len(groups))
	for i, group := range groups {
		ns := g.NewAllocSite(site.Class)
		ns.SplitFrom = site.ID
		for key, t := range site.Elements[0] {
			origins := site.Origins[0][key]
			if !originsIntersect(origins, group) {
				continue
			}
			for origin := range origins {
				if group[origin] {
					ns.AddElement(0, t, origin)
				}
			}
		}
		newSites[i] = ns
	}

	redirectWriters(g, site.ID, groups, newSites)
	redirectOwners(g, site, newSites)
	g.RetireAllocSite(site)
	return true
}

// partitionOrigins groups write-site ids into disjoint sets using the
// union-find-by-shared-type-key rule described in the package doc.
func partitionOrigins(origins map[string]map[lattice.WriteSiteID]bool) []map[lattice.WriteSiteID]bool {
	parent := make(map[lattice.WriteSiteID]lattice.WriteSiteID)
	var find func(x lattice.WriteSiteID) lattice.WriteSiteID
	find = func(x lattice.WriteSiteID) lattice.WriteSiteID {
		if p, ok := parent[x]; ok && p != x {
			parent[x] = find(p)
			return parent[x]
		}
		parent[x] = x
		return x
	}
	union := func(a, b lattice.WriteSiteID) {
		ra, rb := find(a), find(b)
		if ra != rb {
			parent[ra] = rb
		}
	}

	for _, ws := range origins {
		var first lattice.WriteSiteID
		have := false
		for w := range ws {
			if !have {
				first = w
				have = true
				find(w)
				continue
			}
			union(first, w)
		}
	}

	groups := make(map[lattice.WriteSiteID]map[lattice.WriteSiteID]bool)
	for w := range parent {
		root := find(w)
		if groups[root] == nil {
			groups[root] = make(map[lattice.WriteSiteID]bool)
		}
		groups[root][w] = true
	}

	roots := make([]lattice.WriteSiteID, 0, len(groups))
	for r := range groups {
		roots = append(roots, r)
	}
	sort.Slice(roots, func(i, j int) bool { return roots[i] < roots[j] })

	out := make([]map[lattice.WriteSiteID]bool, len(roots))
	for i, r := range roots {
		out[i] = groups[r]
	}
	return out
}

func originsIntersect(origins map[lattice.WriteSiteID]bool, group map[lattice.WriteSiteID]bool) bool {
	for w := range origins {
		if group[w] {
			return true
		}
	}
	return false
}

// redirectWriters repoints every still-live SiteWriteEdge targeting
// the retired site at whichever split clone its own source node's
// write group was assigned to, so future propagation keeps writing
// into the correctly-partitioned site.
func redirectWriters(g *graph.Graph, oldID lattice.AllocSiteID, groups []map[lattice.WriteSiteID]bool, newSites []*lattice.AllocSite) {
	groupOf := func(w lattice.WriteSiteID) int {
		for i, group := range groups {
			if group[w] {
				return i
			}
		}
		return -1
	}

	for _, id := range g.AllNodeIDs() {
		n := g.Node(id)
		for i := range n.Out {
			e := &n.Out[i]
			if e.Kind != graph.SiteWriteEdge || e.Site != oldID {
				continue
			}
			if gi := groupOf(lattice.WriteSiteID(id)); gi >= 0 {
				e.Site = newSites[gi].ID
			}
		}
	}
}

// redirectOwners gives every node that referenced the retired site the
// full set of split clones in place of the old one. This stays sound
// (no type information is lost — every partition that existed in the
// merged site is still reachable from every former owner) even though
// it does not retroactively attribute a specific owner to a specific
// partition, which would need per-owner write provenance this pass
// does not track.
func redirectOwners(g *graph.Graph, oldSite *lattice.AllocSite, newSites []*lattice.AllocSite) {
	oldType := lattice.Type{Class: oldSite.Class, Site: oldSite}
	oldKey := oldType.Key()
	for _, ownerID := range g.SiteOwners(oldSite.ID) {
		owner := g.Node(ownerID)
		if _, ok := owner.Types[oldKey]; !ok {
			continue
		}
		delete(owner.Types, oldKey)
		for _, ns := range newSites {
			owner.Seed(lattice.Type{Class: ns.Class, Site: ns})
			g.RegisterSiteOwner(ns.ID, ownerID)
		}
		owner.MarkDirty()
	}
}
