package stubs

// funxyc:class bases=Object
type BaseException struct{}

func (BaseException) Args() Tuple { return Tuple{} } // funxyc:method args

// funxyc:class bases=BaseException
type Exception struct{}

// funxyc:class bases=Exception
type ValueError struct{}

// funxyc:class bases=Exception
type TypeError struct{}

// funxyc:class bases=Exception
type KeyError struct{}

// funxyc:class bases=Exception
type IndexError struct{}

// funxyc:class bases=Exception
type AttributeError struct{}

// funxyc:class bases=Exception
type StopIteration struct{}

// funxyc:class bases=Exception
type ZeroDivisionError struct{}

// Tuple is referenced above only as the nominal return class of
// BaseException.Args; its real arity is determined per literal, not
// by this declaration (see containers.go).
type Tuple struct{}
