// Package stubs is never imported or executed; it is read by
// internal/registry with golang.org/x/tools/go/packages to derive the
// built-in class registry (spec.md §6 "A built-in class registry").
// Writing a new built-in means adding a type and its methods here in
// ordinary Go, not hand-editing a registry literal.
//
// funxyc:class directives are read from each declaration's doc comment:
//
//	funxyc:class bases=<Base1,Base2,...>
//
// A class's arity is not stated in the directive: it is the number of
// Go type parameters on the declaration itself (0 for the scalars
// below, 1 for List/Set/FrozenSet, 2 for Dict). Tuple is special-cased
// by the loader because its arity varies per allocation site rather
// than per class (see containers.go).
//
// A method's formal parameter and return types are resolved by name
// against the classes declared in this package; a type with no class
// of the same name (a type parameter, a plain Go builtin type) resolves
// to the lattice's bottom marker.
package stubs

// funxyc:class bases=Object
type Bool bool

func (Bool) And(other Bool) Bool { return false } // funxyc:method and
func (Bool) Or(other Bool) Bool  { return false }  // funxyc:method or
func (Bool) Not() Bool           { return false }  // funxyc:method not

// funxyc:class bases=Object
type Int int64

func (Int) Add(other Int) Int      { return 0 } // funxyc:method +
func (Int) Sub(other Int) Int      { return 0 } // funxyc:method -
func (Int) Mul(other Int) Int      { return 0 } // funxyc:method *
func (Int) FloorDiv(other Int) Int { return 0 } // funxyc:method //
func (Int) Mod(other Int) Int      { return 0 } // funxyc:method %
func (Int) IAdd(other Int) Int     { return 0 } // funxyc:method +=
func (Int) Lt(other Int) Bool      { return false } // funxyc:method <
func (Int) Eq(other Int) Bool      { return false } // funxyc:method ==

// funxyc:class bases=Object
type Float float64

func (Float) Add(other Float) Float { return 0 } // funxyc:method +
func (Float) Sub(other Float) Float { return 0 } // funxyc:method -
func (Float) Mul(other Float) Float { return 0 } // funxyc:method *
func (Float) Div(other Float) Float { return 0 } // funxyc:method /
func (Float) Lt(other Float) Bool   { return false } // funxyc:method <

// funxyc:class bases=
type Object struct{}

// funxyc:class bases=Object
type NoneType struct{}
