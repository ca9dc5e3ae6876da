// Package ast defines the abstract syntax tree of the fragment shader language.
//
// Node kinds form closed sets: Expr and Stmt are sealed by unexported marker
// methods, and consumers dispatch on them with type switches.
package ast

// Node is the base interface for all AST nodes
type Node interface {
	implNode()
}

// Expr is the interface for all expression nodes
type Expr interface {
	Node
	// ExprType returns the type resolved by semantic analysis
	ExprType() Type
	implExpr()
}

// Stmt is the interface for all statement nodes
type Stmt interface {
	Node
	implStmt()
}

// Pos is a source position (1-based)
type Pos struct {
	Line   int
	Column int
}

// BinaryOp represents binary operators
type BinaryOp int

const (
	OpAdd BinaryOp = iota
	OpSub
	OpMul
	OpDiv
	OpPow // ^
	OpAnd // &&
	OpOr  // ||
	OpEq
	OpNe
	OpLt
	OpLe
	OpGt
	OpGe
)

func (op BinaryOp) String() string {
	names := []string{"+", "-", "*", "/", "^", "&&", "||", "==", "!=", "<", "<=", ">", ">="}
	if int(op) < len(names) {
		return names[op]
	}
	return "?"
}

// IsComparison reports whether op is a relational or equality operator
func (op BinaryOp) IsComparison() bool {
	return op >= OpEq && op <= OpGe
}

// IsLogical reports whether op is && or ||
func (op BinaryOp) IsLogical() bool {
	return op == OpAnd || op == OpOr
}

// UnaryOp represents unary operators
type UnaryOp int

const (
	OpNeg UnaryOp = iota // -
	OpNot                // !
)

func (op UnaryOp) String() string {
	names := []string{"-", "!"}
	if int(op) < len(names) {
		return names[op]
	}
	return "?"
}

// Declaration binds a name to a typed variable.
// Init is nil when the declaration has no initializer.
type Declaration struct {
	Name      string
	Type      Type
	Qualifier Qualifier
	Init      Expr
	Pos       Pos
}

// IsOrdinary reports whether the declaration is user-declared
// (mutable or const) rather than a predefined hardware variable.
func (d *Declaration) IsOrdinary() bool {
	return d.Qualifier == Ordinary || d.Qualifier == Const
}

// IsConst reports whether the declaration is const-qualified
func (d *Declaration) IsConst() bool {
	return d.Qualifier == Const
}

// IntLit is an integer literal
type IntLit struct {
	Value int
	Pos   Pos
}

// FloatLit is a floating-point literal
type FloatLit struct {
	Value float64
	Pos   Pos
}

// BoolLit is true or false
type BoolLit struct {
	Value bool
	Pos   Pos
}

// Ident is a reference to a declared variable.
// Decl is filled in by semantic analysis.
type Ident struct {
	Name string
	Decl *Declaration
	Pos  Pos
}

// Index selects one component of a vector variable: v[2]
type Index struct {
	Var   *Ident
	Index int
	Type  Type
	Pos   Pos
}

// Unary represents a unary expression
type Unary struct {
	Op   UnaryOp
	X    Expr
	Type Type
	Pos  Pos
}

// Binary represents a binary expression
type Binary struct {
	Op    BinaryOp
	Left  Expr
	Right Expr
	Type  Type
	Pos   Pos
}

// Call is a call to a built-in function: rsq, dp3, lit
type Call struct {
	Func string
	Args []Expr
	Type Type
	Pos  Pos
}

// Constructor builds a value of Type from its components: vec3(1.0, x, 2.0)
type Constructor struct {
	Type Type
	Args []Expr
	Pos  Pos
}

// Assign stores Value into Target, which is an *Ident or an *Index
type Assign struct {
	Target Expr
	Value  Expr
	Pos    Pos
}

// If is a conditional statement; Else is nil when absent
type If struct {
	Cond Expr
	Then Stmt
	Else Stmt
	Pos  Pos
}

// While is a loop statement
type While struct {
	Cond Expr
	Body Stmt
	Pos  Pos
}

// Scope is a braced block: declarations followed by statements
type Scope struct {
	Decls []*Declaration
	Stmts []Stmt
	Pos   Pos
}

// Program is a complete translation unit. Predefined holds the built-in
// variable declarations that enclose Body.
type Program struct {
	Predefined []*Declaration
	Body       *Scope
}

func (i *IntLit) ExprType() Type      { return Int }
func (f *FloatLit) ExprType() Type    { return Float }
func (b *BoolLit) ExprType() Type     { return Bool }
func (c *Constructor) ExprType() Type { return c.Type }
func (i *Index) ExprType() Type       { return i.Type }
func (u *Unary) ExprType() Type       { return u.Type }
func (b *Binary) ExprType() Type      { return b.Type }
func (c *Call) ExprType() Type        { return c.Type }

func (i *Ident) ExprType() Type {
	if i.Decl == nil {
		return Invalid
	}
	return i.Decl.Type
}

// Marker methods for interface implementation
func (*Declaration) implNode() {}

func (*IntLit) implNode() {}
func (*IntLit) implExpr() {}

func (*FloatLit) implNode() {}
func (*FloatLit) implExpr() {}

func (*BoolLit) implNode() {}
func (*BoolLit) implExpr() {}

func (*Ident) implNode() {}
func (*Ident) implExpr() {}

func (*Index) implNode() {}
func (*Index) implExpr() {}

func (*Unary) implNode() {}
func (*Unary) implExpr() {}

func (*Binary) implNode() {}
func (*Binary) implExpr() {}

func (*Call) implNode() {}
func (*Call) implExpr() {}

func (*Constructor) implNode() {}
func (*Constructor) implExpr() {}

func (*Assign) implNode() {}
func (*Assign) implStmt() {}

func (*If) implNode() {}
func (*If) implStmt() {}

func (*While) implNode() {}
func (*While) implStmt() {}

func (*Scope) implNode() {}
func (*Scope) implStmt() {}
