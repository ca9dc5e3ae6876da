package arbgen

import (
	"fmt"
	"io"

	"github.com/raymyers/ralph-fp/pkg/ast"
)

// userPrefix starts every register bound to a user declaration
const userPrefix = "$"

// predefinedRegisters binds the built-in variables to hardware registers
var predefinedRegisters = map[string]string{
	"gl_FragColor":          "result.color",
	"gl_FragDepth":          "result.depth",
	"gl_FragCoord":          "fragment.position",
	"gl_TexCoord":           "fragment.texcoord",
	"gl_Color":              "fragment.color",
	"gl_Secondary":          "fragment.color.secondary",
	"gl_FogFragCoord":       "fragment.fogcoord",
	"gl_Light_Half":         "state.light[0].half",
	"gl_Light_Ambient":      "state.lightmodel.ambient",
	"gl_Material_Shininess": "state.material.shininess",
	"env1":                  "program.env[1]",
	"env2":                  "program.env[2]",
	"env3":                  "program.env[3]",
}

// HardwareRegister returns the register a built-in variable is bound to
func HardwareRegister(name string) (string, bool) {
	r, ok := predefinedRegisters[name]
	return r, ok
}

// SymbolTable maps every declaration of a program to its register name,
// and back. Register names are unique across the whole program.
type SymbolTable struct {
	byDecl map[*ast.Declaration]string
	byName map[string]*ast.Declaration
	order  []*ast.Declaration
}

// BuildSymbolTable names every declaration of prog, in declaration order:
// the predefined variables first, then the body in pre-order.
// Shadowing declarations receive increasing suffixes: $a_0, $a_1, ...
func BuildSymbolTable(prog *ast.Program) *SymbolTable {
	st := &SymbolTable{
		byDecl: make(map[*ast.Declaration]string),
		byName: make(map[string]*ast.Declaration),
	}
	for _, d := range prog.Predefined {
		st.add(d)
	}
	if prog.Body != nil {
		st.addScope(prog.Body)
	}
	return st
}

func (st *SymbolTable) addScope(s *ast.Scope) {
	for _, d := range s.Decls {
		st.add(d)
	}
	for _, stmt := range s.Stmts {
		st.addStmt(stmt)
	}
}

func (st *SymbolTable) addStmt(s ast.Stmt) {
	switch stmt := s.(type) {
	case *ast.Scope:
		st.addScope(stmt)
	case *ast.If:
		st.addStmt(stmt.Then)
		if stmt.Else != nil {
			st.addStmt(stmt.Else)
		}
	case *ast.While:
		st.addStmt(stmt.Body)
	case *ast.Assign:
	default:
		internalErrorf("unexpected statement %T", s)
	}
}

func (st *SymbolTable) add(d *ast.Declaration) {
	if _, ok := st.byDecl[d]; ok {
		internalErrorf("declaration '%s' visited twice", d.Name)
	}

	var name string
	if d.IsOrdinary() {
		for n := 0; ; n++ {
			name = fmt.Sprintf("%s%s_%d", userPrefix, d.Name, n)
			if _, taken := st.byName[name]; !taken {
				break
			}
		}
	} else {
		r, ok := HardwareRegister(d.Name)
		if !ok {
			internalErrorf("no hardware register for predefined variable '%s'", d.Name)
		}
		if _, taken := st.byName[r]; taken {
			internalErrorf("predefined variable '%s' declared twice", d.Name)
		}
		name = r
	}

	st.byDecl[d] = name
	st.byName[name] = d
	st.order = append(st.order, d)
}

// Register returns the register bound to d. An unbound declaration is an
// internal error.
func (st *SymbolTable) Register(d *ast.Declaration) string {
	if d == nil {
		internalErrorf("unresolved identifier")
	}
	r, ok := st.byDecl[d]
	if !ok {
		internalErrorf("no register bound to declaration '%s'", d.Name)
	}
	return r
}

// Declaration returns the declaration bound to a register name
func (st *SymbolTable) Declaration(reg string) (*ast.Declaration, bool) {
	d, ok := st.byName[reg]
	return d, ok
}

// Declarations returns all declarations in the order they were named
func (st *SymbolTable) Declarations() []*ast.Declaration {
	return st.order
}

// Len returns the number of named declarations
func (st *SymbolTable) Len() int {
	return len(st.order)
}

// Dump writes the table, one "register : declaration" line per entry
func (st *SymbolTable) Dump(w io.Writer) {
	fmt.Fprintln(w, "Declared Symbol Register Table")
	p := ast.NewPrinter(w)
	for _, d := range st.order {
		fmt.Fprintf(w, "%s : ", st.byDecl[d])
		p.PrintDeclaration(d)
		fmt.Fprintln(w)
	}
}
