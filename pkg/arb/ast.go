// Package arb defines the ARB fragment program (ARBfp1.0) representation.
// This is the final output of the compiler: straight-line assembly for a
// fragment processor with no branch instructions.
package arb

// Opcode is an ARBfp1.0 instruction mnemonic
type Opcode int

const (
	CMP Opcode = iota // dst = src0 < 0 ? src1 : src2, per component
	MOV
	ADD
	SUB
	MUL
	RCP // scalar
	POW // scalar
	DP3
	LIT
	RSQ // scalar
	MAX
	MIN
	ABS
)

var opcodeNames = [...]string{
	CMP: "CMP",
	MOV: "MOV",
	ADD: "ADD",
	SUB: "SUB",
	MUL: "MUL",
	RCP: "RCP",
	POW: "POW",
	DP3: "DP3",
	LIT: "LIT",
	RSQ: "RSQ",
	MAX: "MAX",
	MIN: "MIN",
	ABS: "ABS",
}

func (o Opcode) String() string {
	if int(o) < len(opcodeNames) {
		return opcodeNames[o]
	}
	return "???"
}

// Components are the swizzle selectors, in component order
var Components = [4]string{"x", "y", "z", "w"}

// Operand is a register reference, optionally negated or restricted to a
// single component. As a destination, the component acts as a write mask.
type Operand struct {
	Reg     string
	Swizzle string // "", "x", "y", "z" or "w"
	Negate  bool
}

// R returns a plain register operand
func R(reg string) Operand {
	return Operand{Reg: reg}
}

// Comp returns o restricted to component c
func (o Operand) Comp(c string) Operand {
	o.Swizzle = c
	return o
}

// Neg returns the arithmetic negation of o
func (o Operand) Neg() Operand {
	o.Negate = !o.Negate
	return o
}

func (o Operand) String() string {
	s := o.Reg
	if o.Swizzle != "" {
		s += "." + o.Swizzle
	}
	if o.Negate {
		s = "-" + s
	}
	return s
}

// --- Instruction stream ---

// Line is one entry of the instruction stream
type Line interface {
	implLine()
}

// Instruction is an opcode with a destination and up to three sources
type Instruction struct {
	Op  Opcode
	Dst Operand
	Src []Operand
}

// Comment is a "# ..." line between instructions
type Comment struct {
	Text string
}

// Blank is an empty line separating statements
type Blank struct{}

func (Instruction) implLine() {}
func (Comment) implLine()     {}
func (Blank) implLine()       {}
