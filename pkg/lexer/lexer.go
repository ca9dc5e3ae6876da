// Package lexer tokenizes fragment shader source.
package lexer

import (
	"unicode"
)

// Lexer tokenizes shader source code
type Lexer struct {
	input   string
	pos     int  // current position in input
	readPos int  // next reading position
	ch      byte // current character
	line    int
	column  int
}

// New creates a new Lexer for the given input
func New(input string) *Lexer {
	l := &Lexer{input: input, line: 1, column: 0}
	l.readChar()
	return l
}

func (l *Lexer) readChar() {
	if l.readPos >= len(l.input) {
		l.ch = 0 // EOF
	} else {
		l.ch = l.input[l.readPos]
	}
	l.pos = l.readPos
	l.readPos++
	l.column++

	if l.ch == '\n' {
		l.line++
		l.column = 0
	}
}

func (l *Lexer) peekChar() byte {
	if l.readPos >= len(l.input) {
		return 0
	}
	return l.input[l.readPos]
}

// singleCharTokens maps the characters that always form a token on their own
var singleCharTokens = map[byte]TokenType{
	'+': TokenPlus,
	'-': TokenMinus,
	'*': TokenStar,
	'/': TokenSlash,
	'^': TokenCaret,
	'(': TokenLParen,
	')': TokenRParen,
	'{': TokenLBrace,
	'}': TokenRBrace,
	'[': TokenLBracket,
	']': TokenRBracket,
	';': TokenSemicolon,
	',': TokenComma,
}

type pair struct {
	second byte
	long   TokenType
	short  TokenType
}

// pairTokens maps the first character of two-character operators.
// A lone '&' or '|' is illegal.
var pairTokens = map[byte]pair{
	'=': {'=', TokenEq, TokenAssign},
	'!': {'=', TokenNe, TokenNot},
	'<': {'=', TokenLe, TokenLt},
	'>': {'=', TokenGe, TokenGt},
	'&': {'&', TokenAnd, TokenIllegal},
	'|': {'|', TokenOr, TokenIllegal},
}

// NextToken returns the next token from the input
func (l *Lexer) NextToken() Token {
	l.skipWhitespace()
	l.skipComments()
	l.skipWhitespace()

	tok := Token{Line: l.line, Column: l.column}

	if l.ch == 0 {
		tok.Type = TokenEOF
		return tok
	}
	if t, ok := singleCharTokens[l.ch]; ok {
		tok = l.newToken(t, l.ch)
	} else if p, ok := pairTokens[l.ch]; ok {
		tok = l.pairToken(p)
	} else if isLetter(l.ch) {
		tok.Literal = l.readIdentifier()
		tok.Type = LookupIdent(tok.Literal)
		return tok
	} else if isDigit(l.ch) || (l.ch == '.' && isDigit(l.peekChar())) {
		tok.Literal, tok.Type = l.readNumber()
		return tok
	} else {
		tok = l.newToken(TokenIllegal, l.ch)
	}

	l.readChar()
	return tok
}

func (l *Lexer) newToken(tokenType TokenType, ch byte) Token {
	return Token{Type: tokenType, Literal: string(ch), Line: l.line, Column: l.column}
}

// pairToken lexes an operator that may be followed by a second character:
// '<' or "<=", '&' or "&&".
func (l *Lexer) pairToken(p pair) Token {
	if l.peekChar() == p.second {
		tok := Token{Type: p.long, Literal: string([]byte{l.ch, p.second}), Line: l.line, Column: l.column}
		l.readChar()
		return tok
	}
	return l.newToken(p.short, l.ch)
}

func (l *Lexer) skipWhitespace() {
	for l.ch == ' ' || l.ch == '\t' || l.ch == '\n' || l.ch == '\r' {
		l.readChar()
	}
}

func (l *Lexer) skipComments() {
	for l.ch == '/' {
		if l.peekChar() == '/' {
			// Single-line comment
			for l.ch != '\n' && l.ch != 0 {
				l.readChar()
			}
			l.skipWhitespace()
		} else if l.peekChar() == '*' {
			// Multi-line comment
			l.readChar() // consume /
			l.readChar() // consume *
			for {
				if l.ch == 0 {
					break
				}
				if l.ch == '*' && l.peekChar() == '/' {
					l.readChar() // consume *
					l.readChar() // consume /
					break
				}
				l.readChar()
			}
			l.skipWhitespace()
		} else {
			break
		}
	}
}

func (l *Lexer) readIdentifier() string {
	pos := l.pos
	for isLetter(l.ch) || isDigit(l.ch) {
		l.readChar()
	}
	return l.input[pos:l.pos]
}

// readNumber reads an integer or a float literal. Floats have a fractional
// part and an optional exponent: 1.5, .5, 2.0e3.
func (l *Lexer) readNumber() (string, TokenType) {
	pos := l.pos
	typ := TokenInt
	for isDigit(l.ch) {
		l.readChar()
	}
	if l.ch == '.' {
		typ = TokenFloat
		l.readChar()
		for isDigit(l.ch) {
			l.readChar()
		}
	}
	if (l.ch == 'e' || l.ch == 'E') && typ == TokenFloat {
		next := l.peekChar()
		if isDigit(next) || next == '+' || next == '-' {
			l.readChar()
			if l.ch == '+' || l.ch == '-' {
				l.readChar()
			}
			for isDigit(l.ch) {
				l.readChar()
			}
		}
	}
	return l.input[pos:l.pos], typ
}

func isLetter(ch byte) bool {
	return unicode.IsLetter(rune(ch)) || ch == '_'
}

func isDigit(ch byte) bool {
	return '0' <= ch && ch <= '9'
}
