package ast

// Visitor dispatches over every concrete node type. The constraint
// graph builder (internal/graphbuild) is the primary implementer.
type Visitor interface {
	VisitProgram(*Program)

	VisitName(*Name)
	VisitIntLiteral(*IntLiteral)
	VisitFloatLiteral(*FloatLiteral)
	VisitBoolLiteral(*BoolLiteral)
	VisitStringLiteral(*StringLiteral)
	VisitBytesLiteral(*BytesLiteral)
	VisitNoneLiteral(*NoneLiteral)

	VisitAttribute(*Attribute)
	VisitSubscript(*Subscript)
	VisitCall(*Call)
	VisitBinaryOp(*BinaryOp)
	VisitUnaryOp(*UnaryOp)
	VisitBoolOp(*BoolOp)

	VisitTupleExpr(*TupleExpr)
	VisitListExpr(*ListExpr)
	VisitSetExpr(*SetExpr)
	VisitDictExpr(*DictExpr)
	VisitComprehension(*Comprehension)
	VisitYieldExpr(*YieldExpr)
	VisitIsInstance(*IsInstance)

	VisitExprStmt(*ExprStmt)
	VisitAssign(*Assign)
	VisitAugAssign(*AugAssign)
	VisitFunctionDef(*FunctionDef)
	VisitClassDef(*ClassDef)
	VisitIf(*If)
	VisitWhile(*While)
	VisitFor(*For)
	VisitReturn(*Return)
	VisitAssert(*Assert)
	VisitRaise(*Raise)
	VisitTry(*Try)
	VisitImportStatement(*ImportStatement)
}

// BaseVisitor provides no-op implementations of every Visitor method
// so callers that only care about a handful of node kinds can embed it
// and override selectively.
type BaseVisitor struct{}

func (BaseVisitor) VisitProgram(*Program)                 {}
func (BaseVisitor) VisitName(*Name)                       {}
func (BaseVisitor) VisitIntLiteral(*IntLiteral)           {}
func (BaseVisitor) VisitFloatLiteral(*FloatLiteral)       {}
func (BaseVisitor) VisitBoolLiteral(*BoolLiteral)         {}
func (BaseVisitor) VisitStringLiteral(*StringLiteral)     {}
func (BaseVisitor) VisitBytesLiteral(*BytesLiteral)       {}
func (BaseVisitor) VisitNoneLiteral(*NoneLiteral)         {}
func (BaseVisitor) VisitAttribute(*Attribute)             {}
func (BaseVisitor) VisitSubscript(*Subscript)             {}
func (BaseVisitor) VisitCall(*Call)                       {}
func (BaseVisitor) VisitBinaryOp(*BinaryOp)                {}
func (BaseVisitor) VisitUnaryOp(*UnaryOp)                 {}
func (BaseVisitor) VisitBoolOp(*BoolOp)                   {}
func (BaseVisitor) VisitTupleExpr(*TupleExpr)             {}
func (BaseVisitor) VisitListExpr(*ListExpr)               {}
func (BaseVisitor) VisitSetExpr(*SetExpr)                 {}
func (BaseVisitor) VisitDictExpr(*DictExpr)               {}
func (BaseVisitor) VisitComprehension(*Comprehension)     {}
func (BaseVisitor) VisitYieldExpr(*YieldExpr)             {}
func (BaseVisitor) VisitIsInstance(*IsInstance)           {}
func (BaseVisitor) VisitExprStmt(*ExprStmt)               {}
func (BaseVisitor) VisitAssign(*Assign)                   {}
func (BaseVisitor) VisitAugAssign(*AugAssign)             {}
func (BaseVisitor) VisitFunctionDef(*FunctionDef)         {}
func (BaseVisitor) VisitClassDef(*ClassDef)               {}
func (BaseVisitor) VisitIf(*If)                           {}
func (BaseVisitor) VisitWhile(*While)                     {}
func (BaseVisitor) VisitFor(*For)                         {}
func (BaseVisitor) VisitReturn(*Return)                   {}
func (BaseVisitor) VisitAssert(*Assert)                   {}
func (BaseVisitor) VisitRaise(*Raise)                     {}
func (BaseVisitor) VisitTry(*Try)                         {}
func (BaseVisitor) VisitImportStatement(*ImportStatement) {}
