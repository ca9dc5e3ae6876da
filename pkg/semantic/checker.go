// Package semantic resolves identifiers to their declarations and annotates
// every expression with its type. Programs it accepts are valid input for
// the code generator.
package semantic

import (
	"fmt"

	"github.com/raymyers/ralph-fp/pkg/ast"
)

// Error is a positioned semantic diagnostic
type Error struct {
	Pos ast.Pos
	Msg string
}

func (e Error) Error() string {
	return fmt.Sprintf("line %d, col %d: %s", e.Pos.Line, e.Pos.Column, e.Msg)
}

// Checker walks a parsed program with a stack of lexical scopes
type Checker struct {
	scopes []map[string]*ast.Declaration
	errors []Error
}

// NewChecker creates a checker with no open scopes
func NewChecker() *Checker {
	return &Checker{}
}

// Errors returns the diagnostics collected so far
func (c *Checker) Errors() []Error {
	return c.errors
}

// Check installs the predefined variables into prog, resolves and types
// the whole tree, and returns all diagnostics in source order.
func Check(prog *ast.Program) []Error {
	c := NewChecker()
	c.CheckProgram(prog)
	return c.Errors()
}

// CheckProgram checks prog. The predefined variables share the outermost
// scope with the program's own top-level declarations.
func (c *Checker) CheckProgram(prog *ast.Program) {
	if prog.Predefined == nil {
		prog.Predefined = ast.Predefined()
	}
	if prog.Body == nil {
		prog.Body = &ast.Scope{}
	}

	c.push()
	for _, d := range prog.Predefined {
		c.declare(d)
	}
	c.checkScopeContents(prog.Body)
	c.pop()
}

func (c *Checker) errorf(pos ast.Pos, format string, args ...any) {
	c.errors = append(c.errors, Error{Pos: pos, Msg: fmt.Sprintf(format, args...)})
}

func (c *Checker) push() {
	c.scopes = append(c.scopes, map[string]*ast.Declaration{})
}

func (c *Checker) pop() {
	c.scopes = c.scopes[:len(c.scopes)-1]
}

func (c *Checker) declare(d *ast.Declaration) {
	top := c.scopes[len(c.scopes)-1]
	if prev, ok := top[d.Name]; ok {
		if ast.IsPredefinedName(prev.Name) && !prev.IsOrdinary() {
			c.errorf(d.Pos, "duplicate declaration of '%s %s', predefined variable", d.Type, d.Name)
		} else {
			c.errorf(d.Pos, "duplicate declaration of '%s %s', previously declared at line %d, col %d",
				d.Type, d.Name, prev.Pos.Line, prev.Pos.Column)
		}
		return
	}
	top[d.Name] = d
}

func (c *Checker) lookup(name string) *ast.Declaration {
	for i := len(c.scopes) - 1; i >= 0; i-- {
		if d, ok := c.scopes[i][name]; ok {
			return d
		}
	}
	return nil
}

func (c *Checker) checkScope(s *ast.Scope) {
	c.push()
	c.checkScopeContents(s)
	c.pop()
}

func (c *Checker) checkScopeContents(s *ast.Scope) {
	for _, d := range s.Decls {
		c.checkDeclaration(d)
	}
	for _, st := range s.Stmts {
		c.checkStmt(st)
	}
}

func (c *Checker) checkDeclaration(d *ast.Declaration) {
	if d.IsConst() && d.Init == nil {
		c.errorf(d.Pos, "const variable '%s' must be initialized", d.Name)
	}
	if d.Init != nil {
		t := c.checkExpr(d.Init)
		if t.IsValid() && t != d.Type {
			c.errorf(d.Pos, "variable declaration of '%s %s' is initialized to a noncompatible type '%s'",
				d.Type, d.Name, t)
		}
	}
	c.declare(d)
}

func (c *Checker) checkStmt(s ast.Stmt) {
	switch st := s.(type) {
	case *ast.Assign:
		c.checkAssign(st)
	case *ast.If:
		c.checkCondition("if", st.Cond)
		c.checkStmt(st.Then)
		if st.Else != nil {
			c.checkStmt(st.Else)
		}
	case *ast.While:
		c.checkCondition("while", st.Cond)
		c.checkStmt(st.Body)
	case *ast.Scope:
		c.checkScope(st)
	default:
		panic(fmt.Sprintf("semantic: unexpected statement %T", s))
	}
}

func (c *Checker) checkCondition(kind string, cond ast.Expr) {
	t := c.checkExpr(cond)
	if t.IsValid() && t != ast.Bool {
		c.errorf(exprPos(cond), "%s-statement condition expression has type '%s', expecting type 'bool'", kind, t)
	}
}

func (c *Checker) checkAssign(a *ast.Assign) {
	valueType := c.checkExpr(a.Value)

	var ident *ast.Ident
	var targetType ast.Type
	switch t := a.Target.(type) {
	case *ast.Ident:
		ident = t
		targetType = c.resolve(t)
	case *ast.Index:
		ident = t.Var
		c.resolve(t.Var)
		targetType = c.checkIndex(t)
	default:
		c.errorf(a.Pos, "invalid assignment target")
		return
	}

	if d := ident.Decl; d != nil {
		switch d.Qualifier {
		case ast.Const:
			c.errorf(a.Pos, "cannot assign to const variable '%s'", d.Name)
			return
		case ast.Attribute, ast.Uniform:
			c.errorf(a.Pos, "cannot assign to read-only %s variable '%s'", d.Qualifier, d.Name)
			return
		}
	}

	if targetType.IsValid() && valueType.IsValid() && targetType != valueType {
		c.errorf(a.Pos, "invalid variable assignment for '%s' of type '%s', has expression of non-compatible type '%s'",
			ident.Name, targetType, valueType)
	}
}

// resolve binds an identifier to its declaration and returns its type
func (c *Checker) resolve(id *ast.Ident) ast.Type {
	d := c.lookup(id.Name)
	if d == nil {
		c.errorf(id.Pos, "missing declaration for symbol '%s'", id.Name)
		return ast.Invalid
	}
	id.Decl = d
	return d.Type
}

func (c *Checker) checkIndex(ix *ast.Index) ast.Type {
	t := ix.Var.ExprType()
	if !t.IsValid() {
		return ast.Invalid
	}
	if !t.IsVector() {
		c.errorf(ix.Pos, "invalid indexing of non-vector variable '%s' of type '%s'", ix.Var.Name, t)
		return ast.Invalid
	}
	if ix.Index < 0 || ix.Index >= t.Order {
		c.errorf(ix.Pos, "invalid indexing of vector variable '%s' of type '%s'", ix.Var.Name, t)
		return ast.Invalid
	}
	ix.Type = t.Scalar()
	return ix.Type
}

// checkRead rejects reads of write-only result variables
func (c *Checker) checkRead(id *ast.Ident) bool {
	if id.Decl != nil && id.Decl.Qualifier == ast.Result {
		c.errorf(id.Pos, "read of write-only result variable '%s'", id.Name)
		return false
	}
	return true
}

func (c *Checker) checkExpr(e ast.Expr) ast.Type {
	switch ex := e.(type) {
	case *ast.IntLit, *ast.FloatLit, *ast.BoolLit:
		return ex.ExprType()
	case *ast.Ident:
		t := c.resolve(ex)
		if t.IsValid() && !c.checkRead(ex) {
			return ast.Invalid
		}
		return t
	case *ast.Index:
		if !c.resolve(ex.Var).IsValid() || !c.checkRead(ex.Var) {
			return ast.Invalid
		}
		return c.checkIndex(ex)
	case *ast.Unary:
		ex.Type = c.checkUnary(ex)
		return ex.Type
	case *ast.Binary:
		ex.Type = c.checkBinary(ex)
		return ex.Type
	case *ast.Call:
		ex.Type = c.checkCall(ex)
		return ex.Type
	case *ast.Constructor:
		c.checkConstructor(ex)
		return ex.Type
	default:
		panic(fmt.Sprintf("semantic: unexpected expression %T", e))
	}
}

func isArithmetic(t ast.Type) bool {
	return t.Base == ast.BaseInt || t.Base == ast.BaseFloat
}

func (c *Checker) checkUnary(u *ast.Unary) ast.Type {
	t := c.checkExpr(u.X)
	if !t.IsValid() {
		return ast.Invalid
	}
	switch u.Op {
	case ast.OpNeg:
		if isArithmetic(t) {
			return t
		}
	case ast.OpNot:
		if t.Base == ast.BaseBool {
			return t
		}
	}
	c.errorf(u.Pos, "operand of unary '%s' has non-compatible type '%s'", u.Op, t)
	return ast.Invalid
}

func (c *Checker) checkBinary(b *ast.Binary) ast.Type {
	l := c.checkExpr(b.Left)
	r := c.checkExpr(b.Right)
	if !l.IsValid() || !r.IsValid() {
		return ast.Invalid
	}
	if t, ok := binaryResult(b.Op, l, r); ok {
		return t
	}
	c.errorf(b.Pos, "operands of binary '%s' have non-compatible types '%s' and '%s'", b.Op, l, r)
	return ast.Invalid
}

// binaryResult gives the type of l op r, if the operands are compatible
func binaryResult(op ast.BinaryOp, l, r ast.Type) (ast.Type, bool) {
	switch op {
	case ast.OpAdd, ast.OpSub:
		return l, isArithmetic(l) && l == r
	case ast.OpMul:
		if !isArithmetic(l) || l.Base != r.Base {
			return ast.Invalid, false
		}
		switch {
		case l == r:
			return l, true
		case l.IsScalar():
			return r, true
		case r.IsScalar():
			return l, true
		}
		return ast.Invalid, false
	case ast.OpDiv, ast.OpPow:
		return l, isArithmetic(l) && l.IsScalar() && l == r
	case ast.OpAnd, ast.OpOr:
		return l, l.Base == ast.BaseBool && l == r
	case ast.OpLt, ast.OpLe, ast.OpGt, ast.OpGe:
		return ast.Bool, isArithmetic(l) && l.IsScalar() && l == r
	case ast.OpEq, ast.OpNe:
		return ast.Bool, isArithmetic(l) && l == r
	}
	return ast.Invalid, false
}

type signature struct {
	params []ast.Type
	result ast.Type
}

var builtins = map[string][]signature{
	"rsq": {
		{[]ast.Type{ast.Float}, ast.Float},
		{[]ast.Type{ast.Int}, ast.Float},
	},
	"dp3": {
		{[]ast.Type{ast.Vec4, ast.Vec4}, ast.Float},
		{[]ast.Type{ast.Vec3, ast.Vec3}, ast.Float},
		{[]ast.Type{ast.Ivec4, ast.Ivec4}, ast.Float},
		{[]ast.Type{ast.Ivec3, ast.Ivec3}, ast.Float},
	},
	"lit": {
		{[]ast.Type{ast.Vec4}, ast.Vec4},
	},
}

func (c *Checker) checkCall(call *ast.Call) ast.Type {
	args := make([]ast.Type, len(call.Args))
	valid := true
	for i, a := range call.Args {
		args[i] = c.checkExpr(a)
		valid = valid && args[i].IsValid()
	}

	sigs, ok := builtins[call.Func]
	if !ok {
		c.errorf(call.Pos, "unknown function '%s'", call.Func)
		return ast.Invalid
	}
	if !valid {
		return ast.Invalid
	}
	for _, sig := range sigs {
		if matches(sig.params, args) {
			return sig.result
		}
	}
	c.errorf(call.Pos, "unmatched function parameters when calling function '%s'", call.Func)
	return ast.Invalid
}

func matches(params, args []ast.Type) bool {
	if len(params) != len(args) {
		return false
	}
	for i := range params {
		if params[i] != args[i] {
			return false
		}
	}
	return true
}

func (c *Checker) checkConstructor(ctor *ast.Constructor) {
	want := ctor.Type.Scalar()
	valid := true
	for _, a := range ctor.Args {
		t := c.checkExpr(a)
		if !t.IsValid() {
			valid = false
			continue
		}
		if t != want {
			c.errorf(exprPos(a), "constructor '%s' argument has type '%s', expecting '%s'", ctor.Type, t, want)
			valid = false
		}
	}
	if valid && len(ctor.Args) != ctor.Type.Order {
		c.errorf(ctor.Pos, "constructor '%s' expects %d arguments, got %d", ctor.Type, ctor.Type.Order, len(ctor.Args))
	}
}

func exprPos(e ast.Expr) ast.Pos {
	switch ex := e.(type) {
	case *ast.IntLit:
		return ex.Pos
	case *ast.FloatLit:
		return ex.Pos
	case *ast.BoolLit:
		return ex.Pos
	case *ast.Ident:
		return ex.Pos
	case *ast.Index:
		return ex.Pos
	case *ast.Unary:
		return ex.Pos
	case *ast.Binary:
		return ex.Pos
	case *ast.Call:
		return ex.Pos
	case *ast.Constructor:
		return ex.Pos
	}
	return ast.Pos{}
}
