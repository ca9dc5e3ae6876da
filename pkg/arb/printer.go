package arb

import (
	"fmt"
	"io"
)

// Header is the first line of every ARB fragment program
const Header = "!!ARBfp1.0"

// Section banners, in output order
const (
	SectionUserTemps  = "User Declared Non-Constant Variables"
	SectionUserParams = "User Declared Constant Variables"
	SectionTemps      = "Auto-Generated Re-usable Intermediate Value Registers"
	SectionLongLived  = "Auto-Generated Non-reusable Intermediate Value Registers"
	SectionImmediates = "Auto-Generated Immediate Value Registers"
	SectionCode       = "Instructions"
)

// Printer outputs a program as ARBfp1.0 assembly text. Fields are
// left-justified in fixed widths so the output is stable and diffable.
type Printer struct {
	w io.Writer
}

// NewPrinter creates a new assembly printer
func NewPrinter(w io.Writer) *Printer {
	return &Printer{w: w}
}

// PrintProgram outputs an entire program
func (p *Printer) PrintProgram(prog *Program) {
	fmt.Fprintf(p.w, "%s\n\n", Header)

	p.printTemps(SectionUserTemps, prog.UserTemps)
	p.printParams(SectionUserParams, prog.UserParams)
	p.printTemps(SectionTemps, prog.Temps)
	p.printTemps(SectionLongLived, prog.LongLived)
	p.printParams(SectionImmediates, prog.Immediates)

	fmt.Fprintf(p.w, "# %s\n", SectionCode)
	for _, l := range prog.Lines {
		p.PrintLine(l)
	}
	fmt.Fprint(p.w, "\n\nEND\n")
}

func (p *Printer) printTemps(title string, names []string) {
	fmt.Fprintf(p.w, "# %s\n", title)
	for _, n := range names {
		fmt.Fprintf(p.w, "%-7s%-24s;\n", "TEMP", n)
	}
	fmt.Fprint(p.w, "\n\n")
}

func (p *Printer) printParams(title string, params []Param) {
	fmt.Fprintf(p.w, "# %s\n", title)
	for _, prm := range params {
		fmt.Fprintf(p.w, "%-7s%-24s=  %-36s;\n", "PARAM", prm.Name, prm.Value)
	}
	fmt.Fprint(p.w, "\n\n")
}

// PrintLine outputs one line of the instruction stream
func (p *Printer) PrintLine(l Line) {
	switch i := l.(type) {
	case Instruction:
		fmt.Fprintf(p.w, "%-7s%-24s", i.Op, i.Dst)
		for _, s := range i.Src {
			fmt.Fprintf(p.w, ",  %-24s", s)
		}
		fmt.Fprint(p.w, ";\n")
	case Comment:
		fmt.Fprintf(p.w, "# %s\n", i.Text)
	case Blank:
		fmt.Fprint(p.w, "\n")
	default:
		fmt.Fprintf(p.w, "# unknown line %T\n", l)
	}
}
