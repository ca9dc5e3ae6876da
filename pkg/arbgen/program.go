// Package arbgen translates a checked shader AST into an ARB fragment
// program.
//
// Translation runs in two passes. The first names every declaration
// (SymbolTable) and declares the user registers, folding const initializers
// into PARAM values. The second walks the statements, lowering expressions
// into temporaries and flattening if/else into predicated writes.
package arbgen

import (
	"errors"
	"fmt"
	"io"

	"github.com/raymyers/ralph-fp/pkg/arb"
	"github.com/raymyers/ralph-fp/pkg/ast"
)

// ErrLoopUnsupported is returned for programs containing while loops,
// which have no lowering without a branch instruction.
var ErrLoopUnsupported = errors.New("while loops are not supported by the ARB fragment program target")

// InternalError reports a malformed input tree: something semantic
// analysis should have rejected. It is raised with panic and recovered by
// TranslateProgram.
type InternalError struct {
	Msg string
}

func (e *InternalError) Error() string {
	return "internal compiler error: " + e.Msg
}

func internalErrorf(format string, args ...any) {
	panic(&InternalError{Msg: fmt.Sprintf(format, args...)})
}

// Options configures a translation
type Options struct {
	// Log receives notes about const folding; nil disables them
	Log io.Writer
	// Symbols receives the symbol register table before any code is
	// emitted; nil disables the dump
	Symbols io.Writer
}

// Generator holds the state of one translation
type Generator struct {
	prog    *arb.Program
	syms    *SymbolTable
	regs    *RegAllocator
	reducer *Reducer
	log     io.Writer
	dump    io.Writer
}

// NewGenerator names the declarations of prog and prepares an empty
// output program.
func NewGenerator(prog *ast.Program, opts Options) *Generator {
	out := arb.NewProgram()
	syms := BuildSymbolTable(prog)
	return &Generator{
		prog:    out,
		syms:    syms,
		regs:    NewRegAllocator(out),
		reducer: NewReducer(syms),
		log:     opts.Log,
		dump:    opts.Symbols,
	}
}

// TranslateProgram translates a checked program. Internal errors are
// returned as *InternalError; any other panic propagates.
func TranslateProgram(prog *ast.Program, opts Options) (out *arb.Program, err error) {
	defer func() {
		if r := recover(); r != nil {
			ie, ok := r.(*InternalError)
			if !ok {
				panic(r)
			}
			out, err = nil, ie
		}
	}()

	g := NewGenerator(prog, opts)
	return g.Translate(prog)
}

// Translate emits the whole program. It panics with *InternalError on a
// malformed tree.
func (g *Generator) Translate(prog *ast.Program) (*arb.Program, error) {
	if g.dump != nil {
		g.syms.Dump(g.dump)
		fmt.Fprintln(g.dump)
	}
	g.declareUserRegisters()
	if prog.Body == nil {
		return g.prog, nil
	}
	if err := g.lowerScope(prog.Body, condContext{}); err != nil {
		return nil, err
	}
	return g.prog, nil
}

// declareUserRegisters declares a TEMP for every mutable variable and a
// PARAM for every const one, in symbol table order.
func (g *Generator) declareUserRegisters() {
	for _, d := range g.syms.Declarations() {
		if !d.IsOrdinary() {
			continue
		}
		reg := g.syms.Register(d)
		if !d.IsConst() {
			g.prog.DeclareUserTemp(reg)
			continue
		}
		if d.Init == nil {
			internalErrorf("const '%s' has no initializer", d.Name)
		}
		value, ok := g.reducer.ReduceOrZero(d.Init)
		g.prog.DeclareUserParam(reg, value)
		g.noteConst(d, value, ok)
	}
}

func (g *Generator) noteConst(d *ast.Declaration, value string, folded bool) {
	if g.log == nil {
		return
	}
	if folded {
		fmt.Fprintf(g.log, "line %d, col %d: const %s '%s' folded to %s\n",
			d.Pos.Line, d.Pos.Column, d.Type, d.Name, value)
		return
	}
	fmt.Fprintf(g.log, "line %d, col %d: const %s '%s' is not a compile-time constant, initialized to %s\n",
		d.Pos.Line, d.Pos.Column, d.Type, d.Name, value)
}
