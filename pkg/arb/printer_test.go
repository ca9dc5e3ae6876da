package arb

import (
	"bytes"
	"testing"
)

func TestOperandString(t *testing.T) {
	tests := []struct {
		name string
		op   Operand
		want string
	}{
		{"plain", R("$inta_0"), "$inta_0"},
		{"swizzle", R("__$temp_0").Comp("x"), "__$temp_0.x"},
		{"negate", R("__$templl_0").Neg(), "-__$templl_0"},
		{"negate swizzle", R("v").Comp("w").Neg(), "-v.w"},
		{"double negate", R("v").Neg().Neg(), "v"},
		{"hardware", R("state.light[0].half").Comp("w"), "state.light[0].half.w"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.op.String(); got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestOpcodeString(t *testing.T) {
	ops := []Opcode{CMP, MOV, ADD, SUB, MUL, RCP, POW, DP3, LIT, RSQ, MAX, MIN, ABS}
	want := []string{"CMP", "MOV", "ADD", "SUB", "MUL", "RCP", "POW", "DP3", "LIT", "RSQ", "MAX", "MIN", "ABS"}
	for i, op := range ops {
		if got := op.String(); got != want[i] {
			t.Errorf("opcode %d: got %q, want %q", i, got, want[i])
		}
	}
	if got := Opcode(99).String(); got != "???" {
		t.Errorf("unknown opcode: got %q", got)
	}
}

func TestPrintLine(t *testing.T) {
	tests := []struct {
		name string
		line Line
		want string
	}{
		{
			"MOV",
			Instruction{Op: MOV, Dst: R("$inta_0"), Src: []Operand{R("__$param_0")}},
			"MOV    $inta_0                 ,  __$param_0              ;\n",
		},
		{
			"CMP",
			Instruction{Op: CMP, Dst: R("__$temp_0"), Src: []Operand{R("__$temp_1"), R(TrueReg), R(FalseReg)}},
			"CMP    __$temp_0               ,  __$temp_1               ,  __$param_true           ,  __$param_false          ;\n",
		},
		{
			"write mask",
			Instruction{Op: MOV, Dst: R("__$temp_2").Comp("x"), Src: []Operand{R("__$temp_0").Comp("x")}},
			"MOV    __$temp_2.x             ,  __$temp_0.x             ;\n",
		},
		{
			"negated source",
			Instruction{Op: MOV, Dst: R("__$templl_0"), Src: []Operand{R("__$templl_0").Neg()}},
			"MOV    __$templl_0             ,  -__$templl_0            ;\n",
		},
		{"comment", Comment{Text: "Evaluate if statement condition"}, "# Evaluate if statement condition\n"},
		{"blank", Blank{}, "\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			NewPrinter(&buf).PrintLine(tt.line)
			if got := buf.String(); got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestPrintEmptyProgram(t *testing.T) {
	var buf bytes.Buffer
	NewPrinter(&buf).PrintProgram(NewProgram())

	want := `!!ARBfp1.0

# User Declared Non-Constant Variables


# User Declared Constant Variables


# Auto-Generated Re-usable Intermediate Value Registers


# Auto-Generated Non-reusable Intermediate Value Registers


# Auto-Generated Immediate Value Registers
PARAM  __$param_true           =  {1.0,1.0,1.0,1.0}                   ;
PARAM  __$param_false          =  {-1.0,-1.0,-1.0,-1.0}               ;
PARAM  __$param_zero           =  {0.0,0.0,0.0,0.0}                   ;


# Instructions


END
`
	if got := buf.String(); got != want {
		t.Errorf("got:\n%s\nwant:\n%s", got, want)
	}
}

func TestPrintProgramSections(t *testing.T) {
	prog := NewProgram()
	prog.DeclareUserTemp("$inta_0")
	prog.DeclareUserParam("$vec4a_0", "{1.000000,2.000000,3.000000,4.000000}")
	prog.DeclareTemp("__$temp_0")
	prog.DeclareLongLived("__$templl_0")
	prog.DeclareImmediate("__$param_0", "3.000000")
	prog.Blank()
	prog.Emit(MOV, R("$inta_0"), R("__$param_0"))

	var buf bytes.Buffer
	NewPrinter(&buf).PrintProgram(prog)

	want := `!!ARBfp1.0

# User Declared Non-Constant Variables
TEMP   $inta_0                 ;


# User Declared Constant Variables
PARAM  $vec4a_0                =  {1.000000,2.000000,3.000000,4.000000};


# Auto-Generated Re-usable Intermediate Value Registers
TEMP   __$temp_0               ;


# Auto-Generated Non-reusable Intermediate Value Registers
TEMP   __$templl_0             ;


# Auto-Generated Immediate Value Registers
PARAM  __$param_true           =  {1.0,1.0,1.0,1.0}                   ;
PARAM  __$param_false          =  {-1.0,-1.0,-1.0,-1.0}               ;
PARAM  __$param_zero           =  {0.0,0.0,0.0,0.0}                   ;
PARAM  __$param_0              =  3.000000                            ;


# Instructions

MOV    $inta_0                 ,  __$param_0              ;


END
`
	if got := buf.String(); got != want {
		t.Errorf("got:\n%s\nwant:\n%s", got, want)
	}
}

func TestInstructionsSkipsCommentsAndBlanks(t *testing.T) {
	prog := NewProgram()
	prog.Blank()
	prog.Comment("Evaluate if statement condition")
	prog.Emit(SUB, R("a"), R("b"), R("c"))
	prog.Blank()
	prog.Emit(MOV, R("a"), R("a").Neg())

	insts := prog.Instructions()
	if len(insts) != 2 {
		t.Fatalf("got %d instructions, want 2", len(insts))
	}
	if insts[0].Op != SUB || insts[1].Op != MOV {
		t.Errorf("got %s, %s; want SUB, MOV", insts[0].Op, insts[1].Op)
	}
	if len(prog.Lines) != 5 {
		t.Errorf("got %d lines, want 5", len(prog.Lines))
	}
}
