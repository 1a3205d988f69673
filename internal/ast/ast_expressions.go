package ast

import "github.com/shedskin-go/funxyc/internal/span"

// Attribute reads `value.attr`.
type Attribute struct {
	Pos   span.Span
	Value Expression
	Attr  string
}

func (a *Attribute) Span() span.Span { return a.Pos }
func (a *Attribute) Accept(v Visitor) { v.VisitAttribute(a) }
func (a *Attribute) exprNode()        {}

// Subscript reads `value[index]`.
type Subscript struct {
	Pos   span.Span
	Value Expression
	Index Expression
}

func (s *Subscript) Span() span.Span { return s.Pos }
func (s *Subscript) Accept(v Visitor) { v.VisitSubscript(s) }
func (s *Subscript) exprNode()        {}

// Call applies Func to Args; Func may itself be an Attribute (method call).
type Call struct {
	Pos  span.Span
	Func Expression
	Args []Expression
}

func (c *Call) Span() span.Span { return c.Pos }
func (c *Call) Accept(v Visitor) { v.VisitCall(c) }
func (c *Call) exprNode()        {}

// BinaryOp is `Left Op Right`, modeled as a method call on Left
// (spec.md §4.2 "binary op ... dunder-style operator methods").
type BinaryOp struct {
	Pos   span.Span
	Op    string
	Left  Expression
	Right Expression
}

func (b *BinaryOp) Span() span.Span { return b.Pos }
func (b *BinaryOp) Accept(v Visitor) { v.VisitBinaryOp(b) }
func (b *BinaryOp) exprNode()        {}

// UnaryOp is `Op Operand`.
type UnaryOp struct {
	Pos     span.Span
	Op      string
	Operand Expression
}

func (u *UnaryOp) Span() span.Span { return u.Pos }
func (u *UnaryOp) Accept(v Visitor) { v.VisitUnaryOp(u) }
func (u *UnaryOp) exprNode()        {}

// BoolOp is `Left (and|or) Right`; short-circuiting, no operator dispatch.
type BoolOp struct {
	Pos   span.Span
	Op    string // "and" or "or"
	Left  Expression
	Right Expression
}

func (b *BoolOp) Span() span.Span { return b.Pos }
func (b *BoolOp) Accept(v Visitor) { v.VisitBoolOp(b) }
func (b *BoolOp) exprNode()        {}

// --- Container constructors ---

type TupleExpr struct {
	Pos      span.Span
	Elements []Expression
}

func (t *TupleExpr) Span() span.Span { return t.Pos }
func (t *TupleExpr) Accept(v Visitor) { v.VisitTupleExpr(t) }
func (t *TupleExpr) exprNode()        {}

type ListExpr struct {
	Pos      span.Span
	Elements []Expression
}

func (l *ListExpr) Span() span.Span { return l.Pos }
func (l *ListExpr) Accept(v Visitor) { v.VisitListExpr(l) }
func (l *ListExpr) exprNode()        {}

type SetExpr struct {
	Pos      span.Span
	Elements []Expression
}

func (s *SetExpr) Span() span.Span { return s.Pos }
func (s *SetExpr) Accept(v Visitor) { v.VisitSetExpr(s) }
func (s *SetExpr) exprNode()        {}

type DictEntry struct {
	Key   Expression
	Value Expression
}

type DictExpr struct {
	Pos     span.Span
	Entries []DictEntry
}

func (d *DictExpr) Span() span.Span { return d.Pos }
func (d *DictExpr) Accept(v Visitor) { v.VisitDictExpr(d) }
func (d *DictExpr) exprNode()        {}

// CompKind distinguishes the four comprehension shapes; all share the
// same generator-clause grammar.
type CompKind int

const (
	CompList CompKind = iota
	CompSet
	CompDict
	CompGenerator
)

// CompClause is one `for Target in Iter [if Cond]...` clause.
type CompClause struct {
	Target Expression
	Iter   Expression
	Ifs    []Expression
}

// Comprehension covers list/set/dict/generator comprehensions. Element
// is used for list/set/generator; Key+Element for dict.
type Comprehension struct {
	Pos     span.Span
	Kind    CompKind
	Key     Expression // non-nil only when Kind == CompDict
	Element Expression
	Clauses []CompClause
}

func (c *Comprehension) Span() span.Span { return c.Pos }
func (c *Comprehension) Accept(v Visitor) { v.VisitComprehension(c) }
func (c *Comprehension) exprNode()        {}

// YieldExpr yields a value from a generator function (spec.md §9
// "Generators / coroutines ... modeled as a synthesized class").
type YieldExpr struct {
	Pos   span.Span
	Value Expression // nil for bare `yield`
}

func (y *YieldExpr) Span() span.Span { return y.Pos }
func (y *YieldExpr) Accept(v Visitor) { v.VisitYieldExpr(y) }
func (y *YieldExpr) exprNode()        {}

// IsInstance is a call-shaped guard recognized specially only for the
// Open-Question decision recorded in DESIGN.md (no flow refinement is
// performed; it type-checks like any other builtin predicate).
type IsInstance struct {
	Pos     span.Span
	Value   Expression
	ClassOf string
}

func (i *IsInstance) Span() span.Span { return i.Pos }
func (i *IsInstance) Accept(v Visitor) { v.VisitIsInstance(i) }
func (i *IsInstance) exprNode()        {}
