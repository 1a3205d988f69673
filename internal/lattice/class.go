// Package lattice implements the type lattice (spec.md §4.1): concrete
// types as (class, element-types) pairs, type sets, and the lattice
// operations (unify, widen, is_subtype, element_type) that the
// propagator and specializer build on.
package lattice

import "fmt"

// Class is a class descriptor (spec.md §3 "Class descriptor"). Its
// identity is the pointer value; two Class values with the same Name
// are only equal if they are the same *Class, which ClassTable
// guarantees by never registering a name twice.
type Class struct {
	Name    string
	Bases   []*Class
	Arity   int // number of type parameters; 0 for scalars
	Methods map[string]*MethodSig
}

// MethodSig is a built-in or user-defined method's formal signature in
// terms of the lattice, resolved against the receiver's own
// (possibly still-unbound) element types where relevant.
type MethodSig struct {
	Name       string
	ParamKinds []Type // formal parameter types, may reference the receiver's element vars
	ReturnKind Type
	InPlace    bool // true for __iadd__-style augmented-assignment variants
}

// ClassTable owns every Class descriptor for the duration of a single
// compilation (spec.md §3 invariant: "class identity is stable for the
// life of a compilation").
type ClassTable struct {
	classes map[string]*Class
}

func NewClassTable() *ClassTable {
	return &ClassTable{classes: make(map[string]*Class)}
}

// Define registers a new class. It panics on a duplicate name — the
// registry loader and the builder's class-def handling are both
// responsible for checking first via Lookup.
func (t *ClassTable) Define(c *Class) {
	if _, exists := t.classes[c.Name]; exists {
		panic(fmt.Sprintf("lattice: class %q already defined", c.Name))
	}
	t.classes[c.Name] = c
}

func (t *ClassTable) Lookup(name string) (*Class, bool) {
	c, ok := t.classes[name]
	return c, ok
}

func (t *ClassTable) All() []*Class {
	out := make([]*Class, 0, len(t.classes))
	for _, c := range t.classes {
		out = append(out, c)
	}
	return out
}

// MRO computes the method resolution order for c: depth-first,
// left-to-right, deduplicated (spec.md §4.4).
func (t *ClassTable) MRO(c *Class) []*Class {
	var order []*Class
	seen := make(map[*Class]bool)
	var walk func(cls *Class)
	walk = func(cls *Class) {
		if cls == nil || seen[cls] {
			return
		}
		seen[cls] = true
		order = append(order, cls)
		for _, base := range cls.Bases {
			walk(base)
		}
	}
	walk(c)
	return order
}

// IsSubclass reports whether a is c or transitively derives from c.
func (t *ClassTable) IsSubclass(a, c *Class) bool {
	for _, cls := range t.MRO(a) {
		if cls == c {
			return true
		}
	}
	return false
}

// ResolveMethod returns the first method named name found while
// walking a's MRO, and the class that defines it.
func (t *ClassTable) ResolveMethod(a *Class, name string) (*MethodSig, *Class, bool) {
	for _, cls := range t.MRO(a) {
		if m, ok := cls.Methods[name]; ok {
			return m, cls, true
		}
	}
	return nil, nil, false
}
