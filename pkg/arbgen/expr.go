// Expression translation for ARB code generation.
// Every expression is evaluated into a register; operands are lowered
// left to right before the result register is requested.

package arbgen

import (
	"github.com/raymyers/ralph-fp/pkg/arb"
	"github.com/raymyers/ralph-fp/pkg/ast"
)

var (
	trueOp  = arb.R(arb.TrueReg)
	falseOp = arb.R(arb.FalseReg)
)

// builtinArity lists the functions with a single-instruction lowering
var builtinArity = map[string]int{"rsq": 1, "dp3": 2, "lit": 1}

// scalar reads a single component of o, the first one unless o already
// selects a component. Required by the scalar opcodes RCP, RSQ and POW.
func scalar(o arb.Operand) arb.Operand {
	if o.Swizzle != "" {
		return o
	}
	return o.Comp("x")
}

// component returns the swizzle selecting component i
func component(i int) string {
	if i < 0 || i >= len(arb.Components) {
		internalErrorf("component index %d out of range", i)
	}
	return arb.Components[i]
}

// lowerExpr emits the instructions evaluating e and returns the operand
// holding its value. Variables and literals emit nothing.
func (g *Generator) lowerExpr(e ast.Expr) arb.Operand {
	switch ex := e.(type) {
	case *ast.IntLit, *ast.FloatLit, *ast.BoolLit:
		c, _ := g.reducer.Reduce(ex)
		return arb.R(g.regs.Immediate(c.String()))
	case *ast.Constructor:
		return g.lowerConstructor(ex)
	case *ast.Ident:
		return arb.R(g.syms.Register(ex.Decl))
	case *ast.Index:
		return arb.R(g.syms.Register(ex.Var.Decl)).Comp(component(ex.Index))
	case *ast.Unary:
		x := g.lowerExpr(ex.X)
		res := arb.R(g.regs.Temp())
		g.prog.Emit(arb.MOV, res, x.Neg())
		return res
	case *ast.Binary:
		return g.lowerBinary(ex)
	case *ast.Call:
		return g.lowerCall(ex)
	default:
		internalErrorf("cannot lower expression %T", e)
		return arb.Operand{}
	}
}

// lowerConstructor materializes a constant constructor as an immediate and
// assembles any other one component by component.
func (g *Generator) lowerConstructor(c *ast.Constructor) arb.Operand {
	if k, ok := g.reducer.Reduce(c); ok && k.IsLiteral() {
		return arb.R(g.regs.Immediate(k.String()))
	}

	if len(c.Args) > len(arb.Components) {
		internalErrorf("constructor %s with %d arguments", c.Type, len(c.Args))
	}
	args := make([]arb.Operand, len(c.Args))
	for i, a := range c.Args {
		args[i] = g.lowerExpr(a)
	}
	res := arb.R(g.regs.Temp())
	for i, a := range args {
		g.prog.Emit(arb.MOV, res.Comp(arb.Components[i]), scalar(a))
	}
	return res
}

func (g *Generator) lowerBinary(b *ast.Binary) arb.Operand {
	l := g.lowerExpr(b.Left)
	r := g.lowerExpr(b.Right)

	switch b.Op {
	case ast.OpAdd:
		return g.emitBinary(arb.ADD, l, r)
	case ast.OpSub:
		return g.emitBinary(arb.SUB, l, r)
	case ast.OpMul:
		return g.emitBinary(arb.MUL, l, r)
	case ast.OpAnd:
		return g.emitBinary(arb.MIN, l, r)
	case ast.OpOr:
		return g.emitBinary(arb.MAX, l, r)
	case ast.OpDiv:
		return g.lowerDiv(l, r, b.Right.ExprType())
	case ast.OpPow:
		return g.lowerPow(l, r, b.Type)
	case ast.OpLt:
		return g.lowerCompare(l, r, trueOp, falseOp)
	case ast.OpGt:
		return g.lowerCompare(r, l, trueOp, falseOp)
	case ast.OpLe:
		return g.lowerCompare(r, l, falseOp, trueOp)
	case ast.OpGe:
		return g.lowerCompare(l, r, falseOp, trueOp)
	case ast.OpEq:
		return g.lowerEqual(l, r, b.Left.ExprType())
	case ast.OpNe:
		res := g.lowerEqual(l, r, b.Left.ExprType())
		g.prog.Emit(arb.MOV, res, res.Neg())
		return res
	default:
		internalErrorf("cannot lower operator %s", b.Op)
		return arb.Operand{}
	}
}

func (g *Generator) emitBinary(op arb.Opcode, l, r arb.Operand) arb.Operand {
	res := arb.R(g.regs.Temp())
	g.prog.Emit(op, res, l, r)
	return res
}

// lowerDiv multiplies by the reciprocal; there is no divide instruction
func (g *Generator) lowerDiv(l, r arb.Operand, divisor ast.Type) arb.Operand {
	res := arb.R(g.regs.Temp())
	rcp := arb.R(g.regs.Temp())
	if divisor.IsScalar() {
		g.prog.Emit(arb.RCP, rcp, scalar(r))
	} else {
		for _, c := range arb.Components[:divisor.Order] {
			g.prog.Emit(arb.RCP, rcp.Comp(c), r.Comp(c))
		}
	}
	g.prog.Emit(arb.MUL, res, l, rcp)
	return res
}

func (g *Generator) lowerPow(l, r arb.Operand, t ast.Type) arb.Operand {
	res := arb.R(g.regs.Temp())
	if t.IsScalar() {
		g.prog.Emit(arb.POW, res, scalar(l), scalar(r))
		return res
	}
	for _, c := range arb.Components[:t.Order] {
		g.prog.Emit(arb.POW, res.Comp(c), l.Comp(c), r.Comp(c))
	}
	return res
}

// lowerCompare selects ifNeg where a-b is negative and ifNonNeg elsewhere.
// All four relational operators reduce to this by ordering the operands
// and the sentinels.
func (g *Generator) lowerCompare(a, b, ifNeg, ifNonNeg arb.Operand) arb.Operand {
	res := arb.R(g.regs.Temp())
	diff := arb.R(g.regs.Temp())
	g.prog.Emit(arb.SUB, diff, a, b)
	g.prog.Emit(arb.CMP, res, diff, ifNeg, ifNonNeg)
	return res
}

// lowerEqual computes l>=r and r>=l per component, combines them with
// MIN, then folds the components of a vector into one with a chain of MIN.
func (g *Generator) lowerEqual(l, r arb.Operand, t ast.Type) arb.Operand {
	res := arb.R(g.regs.Temp())
	tmp := arb.R(g.regs.Temp())

	g.prog.Emit(arb.SUB, tmp, l, r)
	g.prog.Emit(arb.CMP, res, tmp, falseOp, trueOp)
	g.prog.Emit(arb.SUB, tmp, r, l)
	g.prog.Emit(arb.CMP, tmp, tmp, falseOp, trueOp)
	g.prog.Emit(arb.MIN, res, res, tmp)

	if t.Order <= 1 {
		return res
	}
	g.prog.Emit(arb.MIN, tmp, res.Comp("x"), res.Comp("y"))
	for _, c := range arb.Components[2:t.Order] {
		g.prog.Emit(arb.MIN, tmp, tmp.Comp("x"), res.Comp(c))
	}
	return tmp
}

func (g *Generator) lowerCall(c *ast.Call) arb.Operand {
	args := make([]arb.Operand, len(c.Args))
	for i, a := range c.Args {
		args[i] = g.lowerExpr(a)
	}

	n, ok := builtinArity[c.Func]
	if !ok {
		internalErrorf("unknown function '%s'", c.Func)
	}
	if len(args) != n {
		internalErrorf("function '%s' called with %d arguments", c.Func, len(args))
	}

	res := arb.R(g.regs.Temp())
	switch c.Func {
	case "rsq":
		g.prog.Emit(arb.RSQ, res, scalar(args[0]))
	case "dp3":
		g.prog.Emit(arb.DP3, res, args[0], args[1])
	case "lit":
		g.prog.Emit(arb.LIT, res, args[0])
	}
	return res
}
