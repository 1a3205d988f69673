package ast

import "github.com/shedskin-go/funxyc/internal/span"

// ExprStmt is an expression evaluated for effect.
type ExprStmt struct {
	Pos  span.Span
	Expr Expression
}

func (s *ExprStmt) Span() span.Span { return s.Pos }
func (s *ExprStmt) Accept(v Visitor) { v.VisitExprStmt(s) }
func (s *ExprStmt) stmtNode()        {}

// Assign is `Target = Value` (spec.md §4.2 "edge node(e) -> node(x)").
type Assign struct {
	Pos    span.Span
	Target Expression
	Value  Expression
}

func (s *Assign) Span() span.Span { return s.Pos }
func (s *Assign) Accept(v Visitor) { v.VisitAssign(s) }
func (s *Assign) stmtNode()        {}

// AugAssign is `Target Op= Value` (spec.md §4.2: in-place method call
// with fallback to the regular binary operation).
type AugAssign struct {
	Pos    span.Span
	Target Expression
	Op     string
	Value  Expression
}

func (s *AugAssign) Span() span.Span { return s.Pos }
func (s *AugAssign) Accept(v Visitor) { v.VisitAugAssign(s) }
func (s *AugAssign) stmtNode()        {}

// Param is one formal parameter, with an optional default expression.
type Param struct {
	Name    string
	Default Expression // nil if required
}

// FunctionDef declares a function or method.
type FunctionDef struct {
	Pos    span.Span
	Name   string
	Params []Param
	Body   []Statement
}

func (f *FunctionDef) Span() span.Span { return f.Pos }
func (f *FunctionDef) Accept(v Visitor) { v.VisitFunctionDef(f) }
func (f *FunctionDef) stmtNode()        {}

// ClassDef declares a class, with zero or more base classes (spec.md
// §3 "Class descriptor ... an ordered list of base classes").
type ClassDef struct {
	Pos   span.Span
	Name  string
	Bases []string
	Body  []Statement
}

func (c *ClassDef) Span() span.Span { return c.Pos }
func (c *ClassDef) Accept(v Visitor) { v.VisitClassDef(c) }
func (c *ClassDef) stmtNode()        {}

// If is `if Test: Body else: Orelse`. Orelse may itself hold a single
// nested If statement to represent elif chains.
type If struct {
	Pos    span.Span
	Test   Expression
	Body   []Statement
	Orelse []Statement
}

func (s *If) Span() span.Span { return s.Pos }
func (s *If) Accept(v Visitor) { v.VisitIf(s) }
func (s *If) stmtNode()        {}

// While is `while Test: Body`.
type While struct {
	Pos  span.Span
	Test Expression
	Body []Statement
}

func (s *While) Span() span.Span { return s.Pos }
func (s *While) Accept(v Visitor) { v.VisitWhile(s) }
func (s *While) stmtNode()        {}

// For is `for Target in Iter: Body`.
type For struct {
	Pos    span.Span
	Target Expression
	Iter   Expression
	Body   []Statement
}

func (s *For) Span() span.Span { return s.Pos }
func (s *For) Accept(v Visitor) { v.VisitFor(s) }
func (s *For) stmtNode()        {}

// Return is `return Value`; Value is nil for a bare `return`.
type Return struct {
	Pos   span.Span
	Value Expression
}

func (s *Return) Span() span.Span { return s.Pos }
func (s *Return) Accept(v Visitor) { v.VisitReturn(s) }
func (s *Return) stmtNode()        {}

// Assert is `assert Test`. The constraint graph builder traverses Test
// and Msg whatever the assertions_enabled setting; that knob does not
// reach the builder.
type Assert struct {
	Pos  span.Span
	Test Expression
	Msg  Expression // optional
}

func (s *Assert) Span() span.Span { return s.Pos }
func (s *Assert) Accept(v Visitor) { v.VisitAssert(s) }
func (s *Assert) stmtNode()        {}

// Raise is `raise Exc` (spec.md §9 "Exceptions in the source").
type Raise struct {
	Pos  span.Span
	Exc  Expression // nil for a bare re-raise
}

func (s *Raise) Span() span.Span { return s.Pos }
func (s *Raise) Accept(v Visitor) { v.VisitRaise(s) }
func (s *Raise) stmtNode()        {}

// ExceptHandler binds an exception of class ExcClass (empty = catch
// all) to Name within Body.
type ExceptHandler struct {
	ExcClass string
	Name     string
	Body     []Statement
}

// Try is `try: Body except ...: ... else: Orelse finally: Finally`.
type Try struct {
	Pos      span.Span
	Body     []Statement
	Handlers []ExceptHandler
	Orelse   []Statement
	Finally  []Statement
}

func (s *Try) Span() span.Span { return s.Pos }
func (s *Try) Accept(v Visitor) { v.VisitTry(s) }
func (s *Try) stmtNode()        {}

// ImportStatement names another module for internal/modules to load.
// The graph builder skips it; the imported module's exports are not
// bound into the importing scope.
type ImportStatement struct {
	Pos        span.Span
	ModulePath string
	Alias      string // "" if not aliased
}

func (s *ImportStatement) Span() span.Span { return s.Pos }
func (s *ImportStatement) Accept(v Visitor) { v.VisitImportStatement(s) }
func (s *ImportStatement) stmtNode()        {}
