package lattice

// Unify returns the set union of a and b (spec.md §4.1 "unify(t1, t2)
// -> type set: set union"). It never mutates its arguments.
func Unify(a, b TypeSet) TypeSet {
	out := a.Clone()
	out.Union(b)
	return out
}

// numericRank orders the numeric classes by width for Widen; higher
// ranks subsume lower ones (spec.md §4.1 "integer ⊂ floating").
var numericRank = map[string]int{
	"Bool":  0,
	"Int":   1,
	"Float": 2,
}

// Widen promotes a type set containing multiple numeric classes to
// just the widest numeric class present, leaving non-numeric members
// untouched (spec.md §4.1 "widen(t) -> t': for numerics, promote to
// the widest numeric appearing").
func Widen(ts TypeSet) TypeSet {
	out := make(TypeSet, ts.Len())
	var widestNumeric *Class
	widestRank := -1
	for _, t := range ts {
		if t.IsNumeric() {
			if r, ok := numericRank[t.Class.Name]; ok && r > widestRank {
				widestRank = r
				widestNumeric = t.Class
			}
			continue
		}
		out.Add(t)
	}
	if widestNumeric != nil {
		out.Add(Type{Class: widestNumeric})
	}
	return out
}

// IsSubtype reports whether a is a subtype of b: a.Class is a subclass
// of b.Class and, for container types, each element-slot type set is
// itself pointwise subtype-compatible (spec.md §4.1 "is_subtype").
func IsSubtype(a, b Type, table *ClassTable) bool {
	if a.Class == nil || b.Class == nil {
		return false
	}
	if !table.IsSubclass(a.Class, b.Class) {
		return false
	}
	if a.Site == nil || b.Site == nil {
		return a.Site == b.Site
	}
	if len(a.Site.Elements) != len(b.Site.Elements) {
		return false
	}
	for i := range a.Site.Elements {
		if !typeSetIsSubtype(a.Site.Elements[i], b.Site.Elements[i], table) {
			return false
		}
	}
	return true
}

// typeSetIsSubtype reports whether every member of a has a compatible
// member in b.
func typeSetIsSubtype(a, b TypeSet, table *ClassTable) bool {
	for _, ta := range a {
		ok := false
		for _, tb := range b {
			if ta.Equal(tb) || IsSubtype(ta, tb, table) {
				ok = true
				break
			}
		}
		if !ok {
			return false
		}
	}
	return true
}

// ElementType projects the index-th type parameter of every concrete
// type in a container type set (spec.md §4.1 "element_type(container_
// type, index) -> type set"). Scalar members (no Site, or Site with
// fewer than index+1 slots) contribute nothing to the projection.
func ElementType(ts TypeSet, index int) TypeSet {
	out := make(TypeSet)
	for _, t := range ts {
		if t.Site != nil && index < len(t.Site.Elements) {
			out.Union(t.Site.Elements[index])
		}
	}
	return out
}
