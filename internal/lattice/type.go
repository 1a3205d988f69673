package lattice

import (
	"fmt"
	"sort"
	"strings"
)

// AllocSiteID identifies an allocation site (spec.md §3 "Allocation
// site ... Each site has a stable identity"). The zero value is not a
// valid site.
type AllocSiteID uint32

// WriteSiteID identifies the graph node that performed a write into an
// allocation site's element slot — the argument of a mutating method
// call, or the value of a subscript assignment. It shares its
// underlying representation with graph.NodeID (a plain uint32) so the
// graph package can tag provenance without lattice importing graph.
type WriteSiteID uint32

// AllocSite is the live, mutable state behind one allocation-site
// identity: its element-type sets, growing monotonically during
// propagation, plus per-entry provenance used by IFA (spec.md §4.5) to
// decide whether the site has absorbed independent contributions that
// should be split apart.
type AllocSite struct {
	ID        AllocSiteID
	Class     *Class
	Elements  []TypeSet                      // one TypeSet per type parameter, len == Class.Arity
	Origins   []map[string]map[WriteSiteID]bool // per slot: type key -> contributing write sites
	Retired   bool                            // true once IFA has split this site
	SplitFrom AllocSiteID                     // 0 for an original (non-split) site
}

// NewAllocSite creates a site with empty element slots for a class of
// the given arity.
func NewAllocSite(id AllocSiteID, class *Class) *AllocSite {
	s := &AllocSite{
		ID:       id,
		Class:    class,
		Elements: make([]TypeSet, class.Arity),
		Origins:  make([]map[string]map[WriteSiteID]bool, class.Arity),
	}
	for i := range s.Elements {
		s.Elements[i] = make(TypeSet)
		s.Origins[i] = make(map[string]map[WriteSiteID]bool)
	}
	return s
}

// AddElement unions t into slot, tagging it with the write site that
// produced it, and reports whether the slot's type set grew.
func (s *AllocSite) AddElement(slot int, t Type, origin WriteSiteID) bool {
	grew := s.Elements[slot].Add(t)
	key := t.Key()
	origins, ok := s.Origins[slot][key]
	if !ok {
		origins = make(map[WriteSiteID]bool)
		s.Origins[slot][key] = origins
	}
	if !origins[origin] {
		origins[origin] = true
	}
	return grew
}

// Type is a concrete type: a (class, element-types) pair (spec.md §3
// "Concrete type"). For an arity-0 class (scalars, user classes with
// no generic container) Site is nil and equality is purely structural
// on Class. For a container/allocation-site class, Site's identity
// *is* the type's identity — two allocation sites of the same class
// with different (possibly still-growing) element-type sets are
// different concrete types simply because they are different sites
// (spec.md §3), which also keeps Key() stable across propagation even
// as Site.Elements keeps growing.
type Type struct {
	Class *Class
	Site  *AllocSite
}

func (t Type) Key() string {
	if t.Class == nil {
		return "<bottom>"
	}
	if t.Site != nil {
		return fmt.Sprintf("%s#%d", t.Class.Name, t.Site.ID)
	}
	return t.Class.Name
}

func (t Type) String() string {
	if t.Class == nil {
		return "<bottom>"
	}
	if t.Site == nil {
		return t.Class.Name
	}
	parts := make([]string, len(t.Site.Elements))
	for i, e := range t.Site.Elements {
		parts[i] = e.String()
	}
	return t.Class.Name + "<" + strings.Join(parts, ", ") + ">"
}

func (t Type) Equal(o Type) bool { return t.Key() == o.Key() }

// Bottom is the designated "cannot-infer" marker (spec.md §3), used
// only for error reporting — it is never a member of a well-formed
// type set during normal propagation.
var Bottom = Type{Class: nil}

func (t Type) IsBottom() bool { return t.Class == nil }

// IsNumeric reports whether t's class participates in numeric
// widening (spec.md §4.1 "widen").
func (t Type) IsNumeric() bool {
	if t.Class == nil {
		return false
	}
	switch t.Class.Name {
	case "Bool", "Int", "Float":
		return true
	}
	return false
}

// TypeSet is a finite set of concrete types (spec.md §3 "A type set is
// a set of concrete types"). The zero value is the empty set, which is
// the lattice's top element (spec.md §3 "The top element is the empty
// set (unreached)").
type TypeSet map[string]Type

func NewTypeSet(types ...Type) TypeSet {
	ts := make(TypeSet, len(types))
	for _, t := range types {
		ts[t.Key()] = t
	}
	return ts
}

func (ts TypeSet) Contains(t Type) bool {
	_, ok := ts[t.Key()]
	return ok
}

// Add inserts t and reports whether the set grew (used by the
// propagator to decide whether to re-enqueue a node).
func (ts TypeSet) Add(t Type) bool {
	k := t.Key()
	if _, ok := ts[k]; ok {
		return false
	}
	ts[k] = t
	return true
}

// Union adds every member of other into ts and reports whether ts grew.
func (ts TypeSet) Union(other TypeSet) bool {
	grew := false
	for _, t := range other {
		if ts.Add(t) {
			grew = true
		}
	}
	return grew
}

func (ts TypeSet) Slice() []Type {
	out := make([]Type, 0, len(ts))
	for _, t := range ts {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key() < out[j].Key() })
	return out
}

func (ts TypeSet) Len() int { return len(ts) }

func (ts TypeSet) Clone() TypeSet {
	out := make(TypeSet, len(ts))
	for k, v := range ts {
		out[k] = v
	}
	return out
}

// Classes returns the distinct classes appearing in ts, used by the
// specializer to build a call-site signature (spec.md §4.4) and by
// emission-point single-class checks (spec.md §4.5 "Type conflict").
func (ts TypeSet) Classes() []*Class {
	seen := make(map[*Class]bool)
	var out []*Class
	for _, t := range ts {
		if t.Class != nil && !seen[t.Class] {
			seen[t.Class] = true
			out = append(out, t.Class)
		}
	}
	return out
}

func (ts TypeSet) String() string {
	parts := make([]string, 0, len(ts))
	for _, t := range ts.Slice() {
		parts = append(parts, t.String())
	}
	return "{" + strings.Join(parts, " | ") + "}"
}
