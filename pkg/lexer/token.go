package lexer

// TokenType represents the type of a token
type TokenType int

const (
	// Special tokens
	TokenEOF TokenType = iota
	TokenIllegal

	// Literals
	TokenIdent // gl_FragColor, x
	TokenInt   // 42
	TokenFloat // 4.2

	// Keywords
	TokenBool_  // bool
	TokenInt_   // int
	TokenFloat_ // float
	TokenVec2   // vec2
	TokenVec3   // vec3
	TokenVec4   // vec4
	TokenIvec2  // ivec2
	TokenIvec3  // ivec3
	TokenIvec4  // ivec4
	TokenBvec2  // bvec2
	TokenBvec3  // bvec3
	TokenBvec4  // bvec4
	TokenConst  // const
	TokenIf     // if
	TokenElse   // else
	TokenWhile  // while
	TokenTrue   // true
	TokenFalse  // false

	// Operators
	TokenPlus   // +
	TokenMinus  // -
	TokenStar   // *
	TokenSlash  // /
	TokenCaret  // ^
	TokenAssign // =
	TokenEq     // ==
	TokenNe     // !=
	TokenLt     // <
	TokenLe     // <=
	TokenGt     // >
	TokenGe     // >=
	TokenAnd    // &&
	TokenOr     // ||
	TokenNot    // !

	// Delimiters
	TokenLParen    // (
	TokenRParen    // )
	TokenLBrace    // {
	TokenRBrace    // }
	TokenLBracket  // [
	TokenRBracket  // ]
	TokenSemicolon // ;
	TokenComma     // ,
)

var tokenNames = map[TokenType]string{
	TokenEOF:       "EOF",
	TokenIllegal:   "ILLEGAL",
	TokenIdent:     "IDENT",
	TokenInt:       "INT",
	TokenFloat:     "FLOAT",
	TokenBool_:     "bool",
	TokenInt_:      "int",
	TokenFloat_:    "float",
	TokenVec2:      "vec2",
	TokenVec3:      "vec3",
	TokenVec4:      "vec4",
	TokenIvec2:     "ivec2",
	TokenIvec3:     "ivec3",
	TokenIvec4:     "ivec4",
	TokenBvec2:     "bvec2",
	TokenBvec3:     "bvec3",
	TokenBvec4:     "bvec4",
	TokenConst:     "const",
	TokenIf:        "if",
	TokenElse:      "else",
	TokenWhile:     "while",
	TokenTrue:      "true",
	TokenFalse:     "false",
	TokenPlus:      "+",
	TokenMinus:     "-",
	TokenStar:      "*",
	TokenSlash:     "/",
	TokenCaret:     "^",
	TokenAssign:    "=",
	TokenEq:        "==",
	TokenNe:        "!=",
	TokenLt:        "<",
	TokenLe:        "<=",
	TokenGt:        ">",
	TokenGe:        ">=",
	TokenAnd:       "&&",
	TokenOr:        "||",
	TokenNot:       "!",
	TokenLParen:    "(",
	TokenRParen:    ")",
	TokenLBrace:    "{",
	TokenRBrace:    "}",
	TokenLBracket:  "[",
	TokenRBracket:  "]",
	TokenSemicolon: ";",
	TokenComma:     ",",
}

func (t TokenType) String() string {
	if name, ok := tokenNames[t]; ok {
		return name
	}
	return "UNKNOWN"
}

// IsType reports whether the token names a data type
func (t TokenType) IsType() bool {
	return t >= TokenBool_ && t <= TokenBvec4
}

// Token represents a lexical token
type Token struct {
	Type    TokenType
	Literal string
	Line    int
	Column  int
}

// keywords maps keyword strings to token types
var keywords = map[string]TokenType{
	"bool":  TokenBool_,
	"int":   TokenInt_,
	"float": TokenFloat_,
	"vec2":  TokenVec2,
	"vec3":  TokenVec3,
	"vec4":  TokenVec4,
	"ivec2": TokenIvec2,
	"ivec3": TokenIvec3,
	"ivec4": TokenIvec4,
	"bvec2": TokenBvec2,
	"bvec3": TokenBvec3,
	"bvec4": TokenBvec4,
	"const": TokenConst,
	"if":    TokenIf,
	"else":  TokenElse,
	"while": TokenWhile,
	"true":  TokenTrue,
	"false": TokenFalse,
}

// LookupIdent returns the token type for an identifier (keyword or IDENT)
func LookupIdent(ident string) TokenType {
	if tok, ok := keywords[ident]; ok {
		return tok
	}
	return TokenIdent
}
