package arb

// Sentinel immediates, declared once at the start of every program
const (
	TrueReg  = "__$param_true"
	FalseReg = "__$param_false"
	ZeroReg  = "__$param_zero"

	TrueValue  = "{1.0,1.0,1.0,1.0}"
	FalseValue = "{-1.0,-1.0,-1.0,-1.0}"
	ZeroValue  = "{0.0,0.0,0.0,0.0}"
)

// Param is a PARAM declaration: a register bound to a constant value,
// either a literal ("{1.0,2.0}", "3.000000") or a hardware register.
type Param struct {
	Name  string
	Value string
}

// Program is a complete fragment program. Declarations and lines are only
// ever appended.
type Program struct {
	UserTemps  []string // TEMP for non-const declarations
	UserParams []Param  // PARAM for const declarations
	Temps      []string // reusable intermediate registers
	LongLived  []string // non-reusable intermediate registers
	Immediates []Param  // literal registers, sentinels first
	Lines      []Line
}

// NewProgram creates an empty program holding only the sentinel immediates
func NewProgram() *Program {
	return &Program{
		Immediates: []Param{
			{Name: TrueReg, Value: TrueValue},
			{Name: FalseReg, Value: FalseValue},
			{Name: ZeroReg, Value: ZeroValue},
		},
	}
}

// DeclareUserTemp adds a TEMP for a non-const user variable
func (p *Program) DeclareUserTemp(name string) {
	p.UserTemps = append(p.UserTemps, name)
}

// DeclareUserParam adds a PARAM for a const user variable
func (p *Program) DeclareUserParam(name, value string) {
	p.UserParams = append(p.UserParams, Param{Name: name, Value: value})
}

// DeclareTemp adds a reusable intermediate TEMP
func (p *Program) DeclareTemp(name string) {
	p.Temps = append(p.Temps, name)
}

// DeclareLongLived adds a non-reusable intermediate TEMP
func (p *Program) DeclareLongLived(name string) {
	p.LongLived = append(p.LongLived, name)
}

// DeclareImmediate adds a literal PARAM
func (p *Program) DeclareImmediate(name, value string) {
	p.Immediates = append(p.Immediates, Param{Name: name, Value: value})
}

// Emit appends an instruction
func (p *Program) Emit(op Opcode, dst Operand, src ...Operand) {
	p.Lines = append(p.Lines, Instruction{Op: op, Dst: dst, Src: src})
}

// Comment appends a comment line
func (p *Program) Comment(text string) {
	p.Lines = append(p.Lines, Comment{Text: text})
}

// Blank appends an empty line
func (p *Program) Blank() {
	p.Lines = append(p.Lines, Blank{})
}

// Instructions returns the instructions of the stream, without comments
// and blank lines
func (p *Program) Instructions() []Instruction {
	var out []Instruction
	for _, l := range p.Lines {
		if inst, ok := l.(Instruction); ok {
			out = append(out, inst)
		}
	}
	return out
}
