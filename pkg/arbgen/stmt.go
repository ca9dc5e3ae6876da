// Statement translation for ARB code generation.
// The target has no branches, so if/else is flattened: every write runs
// unconditionally and selects between the old and the new value with CMP
// on the condition of the enclosing if statements.

package arbgen

import (
	"fmt"

	"github.com/raymyers/ralph-fp/pkg/arb"
	"github.com/raymyers/ralph-fp/pkg/ast"
)

// Comments marking the control-flow instructions
const (
	commentCondition  = "Evaluate if statement condition"
	commentOuterIf    = "Set the condition for outer-most if statement"
	commentNestedIf   = "Combine the condition with the enclosing if statement"
	commentOuterElse  = "Negate the condition for outer-most else statement"
	commentNestedElse = "Negate the condition for nested else statement"
)

// condContext is the predication state of the statement being lowered.
// It is passed by value, so leaving an if statement restores the state of
// the enclosing one.
type condContext struct {
	cond  arb.Operand // combined condition of all enclosing if statements
	depth int         // number of enclosing if statements
}

func (ctx condContext) predicated() bool {
	return ctx.depth > 0
}

// beginStatement separates statements in the output and starts a new
// temporary register session.
func (g *Generator) beginStatement() {
	g.prog.Blank()
	g.regs.ResetSession()
}

func (g *Generator) lowerScope(s *ast.Scope, ctx condContext) error {
	for _, d := range s.Decls {
		g.lowerDeclaration(d, ctx)
	}
	for _, st := range s.Stmts {
		if err := g.lowerStmt(st, ctx); err != nil {
			return err
		}
	}
	return nil
}

// lowerDeclaration initializes a variable. Const declarations need no code:
// their value is part of their PARAM declaration.
func (g *Generator) lowerDeclaration(d *ast.Declaration, ctx condContext) {
	if d.IsConst() {
		return
	}
	g.beginStatement()

	value := arb.R(arb.ZeroReg)
	if d.Init != nil {
		value = g.lowerExpr(d.Init)
	}
	g.write(arb.R(g.syms.Register(d)), value, ctx)
}

func (g *Generator) lowerStmt(s ast.Stmt, ctx condContext) error {
	switch st := s.(type) {
	case *ast.Assign:
		g.beginStatement()
		value := g.lowerExpr(st.Value)
		g.write(g.lowerTarget(st.Target), value, ctx)
		return nil
	case *ast.If:
		return g.lowerIf(st, ctx)
	case *ast.While:
		return fmt.Errorf("line %d, col %d: %w", st.Pos.Line, st.Pos.Column, ErrLoopUnsupported)
	case *ast.Scope:
		return g.lowerScope(st, ctx)
	default:
		internalErrorf("cannot lower statement %T", s)
		return nil
	}
}

// lowerTarget returns the destination operand of an assignment; an indexed
// target writes a single component.
func (g *Generator) lowerTarget(e ast.Expr) arb.Operand {
	switch t := e.(type) {
	case *ast.Ident:
		return arb.R(g.syms.Register(t.Decl))
	case *ast.Index:
		return arb.R(g.syms.Register(t.Var.Decl)).Comp(component(t.Index))
	default:
		internalErrorf("cannot assign to %T", e)
		return arb.Operand{}
	}
}

// write stores value into dst, keeping the old value of dst wherever the
// condition of the enclosing if statements is false.
func (g *Generator) write(dst, value arb.Operand, ctx condContext) {
	if !ctx.predicated() {
		g.prog.Emit(arb.MOV, dst, value)
		return
	}
	g.prog.Emit(arb.CMP, dst, ctx.cond, dst, value)
}

func (g *Generator) lowerIf(s *ast.If, ctx condContext) error {
	g.prog.Blank()
	g.prog.Comment(commentCondition)
	g.regs.ResetSession()

	cond := g.lowerExpr(s.Cond)
	owned := g.broadcast(cond)

	inner := condContext{
		cond:  arb.R(g.regs.LongLived()),
		depth: ctx.depth + 1,
	}
	if !ctx.predicated() {
		g.prog.Comment(commentOuterIf)
		g.prog.Emit(arb.MOV, inner.cond, owned)
	} else {
		g.prog.Comment(commentNestedIf)
		g.prog.Emit(arb.CMP, inner.cond, ctx.cond, falseOp, owned)
	}

	if err := g.lowerStmt(s.Then, inner); err != nil {
		return err
	}
	if s.Else == nil {
		return nil
	}

	// The owned condition may be clobbered by the then branch; only the
	// long-lived register is still valid here.
	g.prog.Blank()
	if !ctx.predicated() {
		g.prog.Comment(commentOuterElse)
		g.prog.Emit(arb.MOV, inner.cond, inner.cond.Neg())
	} else {
		g.prog.Comment(commentNestedElse)
		g.prog.Emit(arb.CMP, inner.cond, ctx.cond, falseOp, inner.cond.Neg())
	}
	return g.lowerStmt(s.Else, inner)
}

// broadcast copies one component of a scalar condition into all four
// components of a fresh temporary.
func (g *Generator) broadcast(cond arb.Operand) arb.Operand {
	src := scalar(cond)
	owned := arb.R(g.regs.Temp())
	for _, c := range arb.Components {
		g.prog.Emit(arb.MOV, owned.Comp(c), src)
	}
	return owned
}
