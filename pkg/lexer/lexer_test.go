package lexer

import "testing"

type tokenCase struct {
	expectedType    TokenType
	expectedLiteral string
}

func checkTokens(t *testing.T, input string, tests []tokenCase) {
	t.Helper()
	l := New(input)

	for i, tt := range tests {
		tok := l.NextToken()

		if tok.Type != tt.expectedType {
			t.Fatalf("tests[%d] - tokentype wrong. expected=%q, got=%q",
				i, tt.expectedType, tok.Type)
		}

		if tok.Literal != tt.expectedLiteral {
			t.Fatalf("tests[%d] - literal wrong. expected=%q, got=%q",
				i, tt.expectedLiteral, tok.Literal)
		}
	}
}

func TestNextToken(t *testing.T) {
	input := `{ const vec4 v = vec4(1.0, 2, 3.5, 4.0); }`

	checkTokens(t, input, []tokenCase{
		{TokenLBrace, "{"},
		{TokenConst, "const"},
		{TokenVec4, "vec4"},
		{TokenIdent, "v"},
		{TokenAssign, "="},
		{TokenVec4, "vec4"},
		{TokenLParen, "("},
		{TokenFloat, "1.0"},
		{TokenComma, ","},
		{TokenInt, "2"},
		{TokenComma, ","},
		{TokenFloat, "3.5"},
		{TokenComma, ","},
		{TokenFloat, "4.0"},
		{TokenRParen, ")"},
		{TokenSemicolon, ";"},
		{TokenRBrace, "}"},
		{TokenEOF, ""},
	})
}

func TestOperators(t *testing.T) {
	input := `+ - * / ^ = == != < <= > >= && || !`

	checkTokens(t, input, []tokenCase{
		{TokenPlus, "+"},
		{TokenMinus, "-"},
		{TokenStar, "*"},
		{TokenSlash, "/"},
		{TokenCaret, "^"},
		{TokenAssign, "="},
		{TokenEq, "=="},
		{TokenNe, "!="},
		{TokenLt, "<"},
		{TokenLe, "<="},
		{TokenGt, ">"},
		{TokenGe, ">="},
		{TokenAnd, "&&"},
		{TokenOr, "||"},
		{TokenNot, "!"},
		{TokenEOF, ""},
	})
}

func TestKeywords(t *testing.T) {
	input := `bool int float bvec2 ivec3 vec4 if else while true false gl_FragColor`

	checkTokens(t, input, []tokenCase{
		{TokenBool_, "bool"},
		{TokenInt_, "int"},
		{TokenFloat_, "float"},
		{TokenBvec2, "bvec2"},
		{TokenIvec3, "ivec3"},
		{TokenVec4, "vec4"},
		{TokenIf, "if"},
		{TokenElse, "else"},
		{TokenWhile, "while"},
		{TokenTrue, "true"},
		{TokenFalse, "false"},
		{TokenIdent, "gl_FragColor"},
		{TokenEOF, ""},
	})
}

func TestNumbers(t *testing.T) {
	input := `0 42 .5 1.25 2.0e3 7.5E-1`

	checkTokens(t, input, []tokenCase{
		{TokenInt, "0"},
		{TokenInt, "42"},
		{TokenFloat, ".5"},
		{TokenFloat, "1.25"},
		{TokenFloat, "2.0e3"},
		{TokenFloat, "7.5E-1"},
		{TokenEOF, ""},
	})
}

func TestComments(t *testing.T) {
	input := `int // comment
inta /* block
comment */ ;`

	checkTokens(t, input, []tokenCase{
		{TokenInt_, "int"},
		{TokenIdent, "inta"},
		{TokenSemicolon, ";"},
		{TokenEOF, ""},
	})
}

func TestIllegal(t *testing.T) {
	checkTokens(t, `& | @`, []tokenCase{
		{TokenIllegal, "&"},
		{TokenIllegal, "|"},
		{TokenIllegal, "@"},
		{TokenEOF, ""},
	})
}

func TestPositions(t *testing.T) {
	l := New("{\n  int x;\n}")

	tok := l.NextToken()
	if tok.Line != 1 || tok.Column != 1 {
		t.Errorf("'{' at %d:%d, want 1:1", tok.Line, tok.Column)
	}
	tok = l.NextToken()
	if tok.Line != 2 || tok.Column != 3 {
		t.Errorf("'int' at %d:%d, want 2:3", tok.Line, tok.Column)
	}
}

func TestIsType(t *testing.T) {
	if !TokenVec3.IsType() || !TokenBool_.IsType() || !TokenBvec4.IsType() {
		t.Error("type keywords should report IsType")
	}
	if TokenConst.IsType() || TokenIdent.IsType() {
		t.Error("non-type tokens should not report IsType")
	}
}
