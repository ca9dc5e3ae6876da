package ast

import (
	"fmt"
	"io"
	"strings"
)

// Printer dumps the AST as S-expressions:
//
//	(SCOPE (DECLARATIONS ...) (STATEMENTS ...))
type Printer struct {
	w      io.Writer
	indent int
}

// NewPrinter creates a new AST printer
func NewPrinter(w io.Writer) *Printer {
	return &Printer{w: w, indent: 0}
}

// PrintProgram prints a complete program. The predefined declarations are
// listed first in the outermost DECLARATIONS block.
func (p *Printer) PrintProgram(prog *Program) {
	body := prog.Body
	if body == nil {
		body = &Scope{}
	}
	top := &Scope{
		Decls: append(append([]*Declaration{}, prog.Predefined...), body.Decls...),
		Stmts: body.Stmts,
	}
	fmt.Fprint(p.w, "(SCOPE\n")
	p.indent++
	p.printDeclarations(top.Decls)
	p.printStatements(top.Stmts)
	p.indent--
	fmt.Fprint(p.w, ")\n")
}

func (p *Printer) writeIndent() {
	fmt.Fprint(p.w, strings.Repeat("    ", p.indent))
}

func (p *Printer) printDeclarations(decls []*Declaration) {
	p.writeIndent()
	fmt.Fprint(p.w, "(DECLARATIONS\n")
	p.indent++
	for _, d := range decls {
		p.writeIndent()
		p.PrintDeclaration(d)
		fmt.Fprintln(p.w)
	}
	p.indent--
	p.writeIndent()
	fmt.Fprint(p.w, ")\n")
}

func (p *Printer) printStatements(stmts []Stmt) {
	p.writeIndent()
	fmt.Fprint(p.w, "(STATEMENTS\n")
	p.indent++
	for _, s := range stmts {
		p.writeIndent()
		p.printStmt(s)
		fmt.Fprintln(p.w)
	}
	p.indent--
	p.writeIndent()
	fmt.Fprint(p.w, ")\n")
}

// PrintDeclaration prints a single declaration without a trailing newline
func (p *Printer) PrintDeclaration(d *Declaration) {
	fmt.Fprintf(p.w, "(DECLARATION %s ", d.Name)
	if q := d.Qualifier.String(); q != "" {
		fmt.Fprintf(p.w, "%s ", q)
	}
	fmt.Fprint(p.w, d.Type)
	if d.Init != nil {
		fmt.Fprint(p.w, " ")
		p.PrintExpr(d.Init)
	}
	fmt.Fprint(p.w, ")")
}

func (p *Printer) printStmt(s Stmt) {
	switch st := s.(type) {
	case *Assign:
		fmt.Fprintf(p.w, "(ASSIGN %s ", st.Target.ExprType())
		p.PrintExpr(st.Target)
		fmt.Fprint(p.w, " ")
		p.PrintExpr(st.Value)
		fmt.Fprint(p.w, ")")
	case *If:
		fmt.Fprint(p.w, "(IF ")
		p.PrintExpr(st.Cond)
		fmt.Fprint(p.w, " ")
		p.printStmt(st.Then)
		if st.Else != nil {
			fmt.Fprint(p.w, " ")
			p.printStmt(st.Else)
		}
		fmt.Fprint(p.w, ")")
	case *While:
		fmt.Fprint(p.w, "(WHILE ")
		p.PrintExpr(st.Cond)
		fmt.Fprint(p.w, " ")
		p.printStmt(st.Body)
		fmt.Fprint(p.w, ")")
	case *Scope:
		fmt.Fprint(p.w, "(SCOPE\n")
		p.indent++
		p.printDeclarations(st.Decls)
		p.printStatements(st.Stmts)
		p.indent--
		p.writeIndent()
		fmt.Fprint(p.w, ")")
	default:
		fmt.Fprintf(p.w, "(UNKNOWN %T)", s)
	}
}

// PrintExpr prints an expression without a trailing newline
func (p *Printer) PrintExpr(e Expr) {
	switch ex := e.(type) {
	case *IntLit:
		fmt.Fprintf(p.w, "%d", ex.Value)
	case *FloatLit:
		fmt.Fprintf(p.w, "%f", ex.Value)
	case *BoolLit:
		fmt.Fprint(p.w, ex.Value)
	case *Ident:
		fmt.Fprint(p.w, ex.Name)
	case *Index:
		fmt.Fprintf(p.w, "(INDEX %s %s %d)", ex.Type, ex.Var.Name, ex.Index)
	case *Unary:
		fmt.Fprintf(p.w, "(UNARY %s %s ", ex.Type, ex.Op)
		p.PrintExpr(ex.X)
		fmt.Fprint(p.w, ")")
	case *Binary:
		fmt.Fprintf(p.w, "(BINARY %s %s ", ex.Type, ex.Op)
		p.PrintExpr(ex.Left)
		fmt.Fprint(p.w, " ")
		p.PrintExpr(ex.Right)
		fmt.Fprint(p.w, ")")
	case *Call:
		fmt.Fprintf(p.w, "(CALL %s", ex.Func)
		p.printArgs(ex.Args)
		fmt.Fprint(p.w, ")")
	case *Constructor:
		fmt.Fprintf(p.w, "(CALL %s", ex.Type)
		p.printArgs(ex.Args)
		fmt.Fprint(p.w, ")")
	default:
		fmt.Fprintf(p.w, "(UNKNOWN %T)", e)
	}
}

func (p *Printer) printArgs(args []Expr) {
	for _, a := range args {
		fmt.Fprint(p.w, " ")
		p.PrintExpr(a)
	}
}
