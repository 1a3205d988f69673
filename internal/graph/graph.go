// Package graph is the constraint graph arena (spec.md §3 "Constraint
// node", "Edge"; §9 "use an arena of nodes addressed by stable integer
// indices; edges are (index, index, transform-tag) triples").
package graph

import (
	"github.com/google/uuid"
	"github.com/shedskin-go/funxyc/internal/lattice"
	"github.com/shedskin-go/funxyc/internal/span"
)

// NodeID addresses a Node within a single Graph's arena.
type NodeID uint32

// NodeKind classifies what a node is attached to (spec.md §3
// "Constraint node ... attached to an expression, a local variable,
// a formal parameter, a return value, or an attribute").
type NodeKind int

const (
	KindExpr NodeKind = iota
	KindLocal
	KindParam
	KindReturn
	KindAttribute
	KindExceptionOut
)

func (k NodeKind) String() string {
	switch k {
	case KindExpr:
		return "expr"
	case KindLocal:
		return "local"
	case KindParam:
		return "param"
	case KindReturn:
		return "return"
	case KindAttribute:
		return "attribute"
	case KindExceptionOut:
		return "exception-out"
	default:
		return "unknown"
	}
}

// TransformKind tags what an edge does to the type set flowing along it
// (spec.md §3 "Edges may carry a transformation").
type TransformKind int

const (
	// TransformIdentity copies the source type set into the destination
	// unchanged (assignment, name read, call argument/return, dynamic
	// dispatch fan-out).
	TransformIdentity TransformKind = iota
	// TransformElementAt projects the Index-th type parameter (subscript
	// expressions; spec.md §4.2 "Subscript e[i]").
	TransformElementAt
)

// EdgeKind distinguishes an ordinary node-to-node edge from one that
// writes into an allocation site's element slot (container literal and
// append-style mutation, spec.md §4.2 "for container literals, also a
// fresh allocation site, with element nodes edged into the site's
// element slot").
type EdgeKind int

const (
	NodeEdge EdgeKind = iota
	SiteWriteEdge
)

// Edge is a directed data-flow relation (spec.md §3 "Edge"). For a
// NodeEdge it runs src -> Dst through Transform; for a SiteWriteEdge it
// runs src -> the Slot-th element type set of allocation site Site,
// tagged with src as the contributing write site for IFA (spec.md
// §4.5).
type Edge struct {
	Kind      EdgeKind
	Dst       NodeID              // meaningful only for NodeEdge
	Transform TransformKind       // meaningful only for NodeEdge
	Index     int                 // meaningful only for NodeEdge + TransformElementAt
	Site      lattice.AllocSiteID // meaningful only for SiteWriteEdge
	Slot      int                 // meaningful only for SiteWriteEdge
}

// Node is one constraint node (spec.md §3 "Constraint node").
type Node struct {
	ID    NodeID
	Kind  NodeKind
	Span  span.Span
	Types lattice.TypeSet
	Out   []Edge
	dirty bool
}

// Graph owns the arena of nodes and the allocation-site table for a
// single compilation (spec.md §5 "the constraint graph, allocation-site
// table, and class registry are owned exclusively by the driver").
type Graph struct {
	RunID uuid.UUID // SPEC_FULL.md §3: opaque per-run identity, never used for addressing

	Classes *lattice.ClassTable

	nodes  []*Node
	sites  map[lattice.AllocSiteID]*lattice.AllocSite
	owners map[lattice.AllocSiteID][]NodeID
	nextSite lattice.AllocSiteID
}

// New creates an empty graph bound to the given class table and stamps
// a fresh compile-run identity.
func New(classes *lattice.ClassTable) *Graph {
	return &Graph{
		RunID:   uuid.New(),
		Classes: classes,
		sites:   make(map[lattice.AllocSiteID]*lattice.AllocSite),
		owners:  make(map[lattice.AllocSiteID][]NodeID),
	}
}

// NewNode allocates a fresh node and returns its stable index.
func (g *Graph) NewNode(kind NodeKind, sp span.Span) NodeID {
	id := NodeID(len(g.nodes))
	g.nodes = append(g.nodes, &Node{
		ID:    id,
		Kind:  kind,
		Span:  sp,
		Types: make(lattice.TypeSet),
	})
	return id
}

func (g *Graph) Node(id NodeID) *Node { return g.nodes[id] }

func (g *Graph) NumNodes() int { return len(g.nodes) }

func (g *Graph) AllNodeIDs() []NodeID {
	ids := make([]NodeID, len(g.nodes))
	for i := range g.nodes {
		ids[i] = NodeID(i)
	}
	return ids
}

// AddEdge records src -> dst with the given transform and marks src
// dirty, so the next propagate pass carries src's current types along
// the new edge even if src has already settled.
func (g *Graph) AddEdge(src, dst NodeID, transform TransformKind, index int) {
	n := g.nodes[src]
	n.Out = append(n.Out, Edge{Kind: NodeEdge, Dst: dst, Transform: transform, Index: index})
	n.dirty = true
}

// AddSiteWriteEdge records that src's type set is written into the
// slot-th element slot of site whenever src grows (container literal
// elements, append-style calls; spec.md §4.2). Like AddEdge it marks
// src dirty so its existing types are written on the next pass.
func (g *Graph) AddSiteWriteEdge(src NodeID, site lattice.AllocSiteID, slot int) {
	n := g.nodes[src]
	n.Out = append(n.Out, Edge{Kind: SiteWriteEdge, Site: site, Slot: slot})
	n.dirty = true
}

// RegisterSiteOwner records that node seeded a Type referencing site,
// so propagate can re-mark it dirty whenever the site's elements grow
// (its TransformElementAt readers must re-project a freshly grown
// slot).
func (g *Graph) RegisterSiteOwner(site lattice.AllocSiteID, node NodeID) {
	g.owners[site] = append(g.owners[site], node)
}

func (g *Graph) SiteOwners(site lattice.AllocSiteID) []NodeID { return g.owners[site] }

// NewAllocSite allocates a fresh allocation site of the given class
// (spec.md §3 "Allocation site").
func (g *Graph) NewAllocSite(class *lattice.Class) *lattice.AllocSite {
	g.nextSite++
	s := lattice.NewAllocSite(g.nextSite, class)
	g.sites[s.ID] = s
	return s
}

func (g *Graph) AllocSite(id lattice.AllocSiteID) *lattice.AllocSite { return g.sites[id] }

func (g *Graph) AllAllocSites() []*lattice.AllocSite {
	out := make([]*lattice.AllocSite, 0, len(g.sites))
	for _, s := range g.sites {
		out = append(out, s)
	}
	return out
}

// RetireAllocSite marks s as superseded by one or more split clones
// (spec.md §3 "Allocation-site splits replace one site with N sites;
// the old site is retired").
func (g *Graph) RetireAllocSite(s *lattice.AllocSite) { s.Retired = true }

// Seed grows dst's type set with t and marks it dirty if it grew,
// returning whether it grew (used by graphbuild to seed literals and
// by propagate as the base case of the worklist loop).
func (n *Node) Seed(t lattice.Type) bool {
	grew := n.Types.Add(t)
	if grew {
		n.dirty = true
	}
	return grew
}

func (n *Node) MarkDirty()    { n.dirty = true }
func (n *Node) ClearDirty()   { n.dirty = false }
func (n *Node) IsDirty() bool { return n.dirty }
