package arbgen

import (
	"math"
	"strconv"
	"strings"

	"github.com/raymyers/ralph-fp/pkg/ast"
)

// Boolean values as seen by the hardware
const (
	trueValue  float32 = 1.0
	falseValue float32 = -1.0
)

// Constant is a value known at compile time: either literal components or
// a hardware register (possibly swizzled) bound at load time.
type Constant struct {
	Values []float32
	Reg    string
}

// IsLiteral reports whether c holds literal components
func (c Constant) IsLiteral() bool {
	return c.Reg == ""
}

// String formats c as a PARAM value: "3.000000", "{1.000000,2.000000}",
// or a register such as "state.light[0].half.w".
func (c Constant) String() string {
	if !c.IsLiteral() {
		return c.Reg
	}
	if len(c.Values) == 1 {
		return formatFloat(c.Values[0])
	}
	parts := make([]string, len(c.Values))
	for i, v := range c.Values {
		parts[i] = formatFloat(v)
	}
	return "{" + strings.Join(parts, ",") + "}"
}

func formatFloat(v float32) string {
	return strconv.FormatFloat(float64(v), 'f', 6, 32)
}

// zeroValue is the fallback for an expression that cannot be reduced:
// one 0.0 per component of t.
func zeroValue(t ast.Type) string {
	n := t.Order
	if n < 1 {
		n = 1
	}
	return "{" + strings.TrimSuffix(strings.Repeat("0.0,", n), ",") + "}"
}

// Reducer evaluates expressions at compile time
type Reducer struct {
	syms *SymbolTable
}

// NewReducer creates a reducer resolving identifiers through syms
func NewReducer(syms *SymbolTable) *Reducer {
	return &Reducer{syms: syms}
}

// Reduce evaluates e. It fails on anything that depends on a mutable
// variable or a function call, and on arithmetic involving hardware
// registers.
func (r *Reducer) Reduce(e ast.Expr) (Constant, bool) {
	switch ex := e.(type) {
	case *ast.IntLit:
		return literal(float32(ex.Value)), true
	case *ast.FloatLit:
		return literal(float32(ex.Value)), true
	case *ast.BoolLit:
		return literal(boolValue(ex.Value)), true
	case *ast.Ident:
		return r.reduceIdent(ex)
	case *ast.Index:
		c, ok := r.reduceIdent(ex.Var)
		if !ok {
			return Constant{}, false
		}
		if !c.IsLiteral() {
			return Constant{Reg: c.Reg + "." + component(ex.Index)}, true
		}
		if ex.Index < 0 || ex.Index >= len(c.Values) {
			return Constant{}, false
		}
		return literal(c.Values[ex.Index]), true
	case *ast.Constructor:
		vals := make([]float32, 0, len(ex.Args))
		for _, a := range ex.Args {
			c, ok := r.Reduce(a)
			if !ok || !c.IsLiteral() || len(c.Values) != 1 {
				return Constant{}, false
			}
			vals = append(vals, c.Values[0])
		}
		return Constant{Values: vals}, true
	case *ast.Unary:
		c, ok := r.Reduce(ex.X)
		if !ok || !c.IsLiteral() {
			return Constant{}, false
		}
		// Negation and logical not coincide: true and false are 1 and -1
		vals := make([]float32, len(c.Values))
		for i, v := range c.Values {
			vals[i] = -v
		}
		return Constant{Values: vals}, true
	case *ast.Binary:
		return r.reduceBinary(ex)
	case *ast.Call:
		return Constant{}, false
	default:
		internalErrorf("cannot reduce expression %T", e)
		return Constant{}, false
	}
}

// ReduceOrZero formats the reduction of e, or the zero fallback of e's
// type when e cannot be reduced.
func (r *Reducer) ReduceOrZero(e ast.Expr) (string, bool) {
	if c, ok := r.Reduce(e); ok {
		return c.String(), true
	}
	return zeroValue(e.ExprType()), false
}

func (r *Reducer) reduceIdent(id *ast.Ident) (Constant, bool) {
	d := id.Decl
	if d == nil {
		internalErrorf("unresolved identifier '%s'", id.Name)
	}
	if !d.IsOrdinary() {
		return Constant{Reg: r.syms.Register(d)}, true
	}
	if !d.IsConst() || d.Init == nil {
		return Constant{}, false
	}
	return r.Reduce(d.Init)
}

func (r *Reducer) reduceBinary(b *ast.Binary) (Constant, bool) {
	l, ok := r.Reduce(b.Left)
	if !ok || !l.IsLiteral() {
		return Constant{}, false
	}
	rc, ok := r.Reduce(b.Right)
	if !ok || !rc.IsLiteral() {
		return Constant{}, false
	}
	lv, rv := l.Values, rc.Values

	switch b.Op {
	case ast.OpLt, ast.OpLe, ast.OpGt, ast.OpGe:
		if len(lv) != 1 || len(rv) != 1 {
			return Constant{}, false
		}
		return literal(boolValue(compare(b.Op, lv[0], rv[0]))), true
	case ast.OpEq, ast.OpNe:
		if len(lv) != len(rv) {
			return Constant{}, false
		}
		eq := true
		for i := range lv {
			eq = eq && lv[i] == rv[i]
		}
		return literal(boolValue(eq == (b.Op == ast.OpEq))), true
	}

	lv, rv, ok = broadcast(lv, rv)
	if !ok {
		return Constant{}, false
	}
	vals := make([]float32, len(lv))
	for i := range lv {
		x, y := lv[i], rv[i]
		switch b.Op {
		case ast.OpAdd:
			vals[i] = x + y
		case ast.OpSub:
			vals[i] = x - y
		case ast.OpMul:
			vals[i] = x * y
		case ast.OpDiv:
			if y == 0 {
				return Constant{}, false
			}
			vals[i] = x / y
		case ast.OpPow:
			p := math.Pow(float64(x), float64(y))
			if math.IsNaN(p) || math.IsInf(p, 0) {
				return Constant{}, false
			}
			vals[i] = float32(p)
		case ast.OpAnd:
			vals[i] = min(x, y)
		case ast.OpOr:
			vals[i] = max(x, y)
		default:
			internalErrorf("cannot reduce operator %s", b.Op)
		}
	}
	return Constant{Values: vals}, true
}

func compare(op ast.BinaryOp, x, y float32) bool {
	switch op {
	case ast.OpLt:
		return x < y
	case ast.OpLe:
		return x <= y
	case ast.OpGt:
		return x > y
	}
	return x >= y
}

// broadcast widens a scalar operand to the length of a vector operand
func broadcast(l, r []float32) ([]float32, []float32, bool) {
	switch {
	case len(l) == len(r):
		return l, r, true
	case len(l) == 1:
		return repeat(l[0], len(r)), r, true
	case len(r) == 1:
		return l, repeat(r[0], len(l)), true
	}
	return nil, nil, false
}

func repeat(v float32, n int) []float32 {
	out := make([]float32, n)
	for i := range out {
		out[i] = v
	}
	return out
}

func literal(v float32) Constant {
	return Constant{Values: []float32{v}}
}

func boolValue(b bool) float32 {
	if b {
		return trueValue
	}
	return falseValue
}
