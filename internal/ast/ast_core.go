// Package ast defines the subset of syntax-tree node types the
// constraint graph builder consumes. Lexing and parsing are external
// collaborators (spec.md §1) — this package only describes the shape
// of the tree an external parser is assumed to hand us.
package ast

import "github.com/shedskin-go/funxyc/internal/span"

// Node is the base interface for every syntax-tree node.
type Node interface {
	Span() span.Span
	Accept(v Visitor)
}

// Statement is a Node appearing in a statement list.
type Statement interface {
	Node
	stmtNode()
}

// Expression is a Node that produces a value.
type Expression interface {
	Node
	exprNode()
}

// Program is the parsed form of a single source file.
type Program struct {
	File       string
	Imports    []*ImportStatement
	Statements []Statement
}

func (p *Program) Span() span.Span { return span.Span{File: p.File} }
func (p *Program) Accept(v Visitor) { v.VisitProgram(p) }

// Name reads a previously bound local variable, parameter, or global.
type Name struct {
	Pos   span.Span
	Value string
}

func (n *Name) Span() span.Span { return n.Pos }
func (n *Name) Accept(v Visitor) { v.VisitName(n) }
func (n *Name) exprNode()        {}

// --- Literals ---

type IntLiteral struct {
	Pos   span.Span
	Value int64
}

func (l *IntLiteral) Span() span.Span { return l.Pos }
func (l *IntLiteral) Accept(v Visitor) { v.VisitIntLiteral(l) }
func (l *IntLiteral) exprNode()        {}

type FloatLiteral struct {
	Pos   span.Span
	Value float64
}

func (l *FloatLiteral) Span() span.Span { return l.Pos }
func (l *FloatLiteral) Accept(v Visitor) { v.VisitFloatLiteral(l) }
func (l *FloatLiteral) exprNode()        {}

type BoolLiteral struct {
	Pos   span.Span
	Value bool
}

func (l *BoolLiteral) Span() span.Span { return l.Pos }
func (l *BoolLiteral) Accept(v Visitor) { v.VisitBoolLiteral(l) }
func (l *BoolLiteral) exprNode()        {}

type StringLiteral struct {
	Pos   span.Span
	Value string
}

func (l *StringLiteral) Span() span.Span { return l.Pos }
func (l *StringLiteral) Accept(v Visitor) { v.VisitStringLiteral(l) }
func (l *StringLiteral) exprNode()        {}

type BytesLiteral struct {
	Pos   span.Span
	Value []byte
}

func (l *BytesLiteral) Span() span.Span { return l.Pos }
func (l *BytesLiteral) Accept(v Visitor) { v.VisitBytesLiteral(l) }
func (l *BytesLiteral) exprNode()        {}

// NoneLiteral is the literal written `None`.
type NoneLiteral struct {
	Pos span.Span
}

func (l *NoneLiteral) Span() span.Span { return l.Pos }
func (l *NoneLiteral) Accept(v Visitor) { v.VisitNoneLiteral(l) }
func (l *NoneLiteral) exprNode()        {}
