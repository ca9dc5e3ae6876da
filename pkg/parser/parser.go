// Package parser implements a recursive descent parser for fragment shaders
package parser

import (
	"fmt"
	"strconv"

	"github.com/raymyers/ralph-fp/pkg/ast"
	"github.com/raymyers/ralph-fp/pkg/lexer"
)

// Operator precedences, lowest first
const (
	precLowest = iota
	precOr
	precAnd
	precCompare
	precSum
	precProduct
)

var binaryOps = map[lexer.TokenType]struct {
	op   ast.BinaryOp
	prec int
}{
	lexer.TokenOr:    {ast.OpOr, precOr},
	lexer.TokenAnd:   {ast.OpAnd, precAnd},
	lexer.TokenEq:    {ast.OpEq, precCompare},
	lexer.TokenNe:    {ast.OpNe, precCompare},
	lexer.TokenLt:    {ast.OpLt, precCompare},
	lexer.TokenLe:    {ast.OpLe, precCompare},
	lexer.TokenGt:    {ast.OpGt, precCompare},
	lexer.TokenGe:    {ast.OpGe, precCompare},
	lexer.TokenPlus:  {ast.OpAdd, precSum},
	lexer.TokenMinus: {ast.OpSub, precSum},
	lexer.TokenStar:  {ast.OpMul, precProduct},
	lexer.TokenSlash: {ast.OpDiv, precProduct},
}

var typeTokens = map[lexer.TokenType]ast.Type{
	lexer.TokenBool_:  ast.Bool,
	lexer.TokenInt_:   ast.Int,
	lexer.TokenFloat_: ast.Float,
	lexer.TokenBvec2:  ast.Bvec2,
	lexer.TokenBvec3:  ast.Bvec3,
	lexer.TokenBvec4:  ast.Bvec4,
	lexer.TokenIvec2:  ast.Ivec2,
	lexer.TokenIvec3:  ast.Ivec3,
	lexer.TokenIvec4:  ast.Ivec4,
	lexer.TokenVec2:   ast.Vec2,
	lexer.TokenVec3:   ast.Vec3,
	lexer.TokenVec4:   ast.Vec4,
}

// Parser parses shader source code into an AST
type Parser struct {
	l         *lexer.Lexer
	curToken  lexer.Token
	peekToken lexer.Token
	errors    []string
}

// New creates a new Parser for the given lexer
func New(l *lexer.Lexer) *Parser {
	p := &Parser{l: l}
	// Read two tokens to initialize curToken and peekToken
	p.nextToken()
	p.nextToken()
	return p
}

func (p *Parser) nextToken() {
	p.curToken = p.peekToken
	p.peekToken = p.l.NextToken()
}

// Errors returns the list of parsing errors
func (p *Parser) Errors() []string {
	return p.errors
}

func (p *Parser) addError(msg string) {
	p.errors = append(p.errors, fmt.Sprintf("line %d, col %d: %s",
		p.curToken.Line, p.curToken.Column, msg))
}

func (p *Parser) curTokenIs(t lexer.TokenType) bool {
	return p.curToken.Type == t
}

func (p *Parser) peekTokenIs(t lexer.TokenType) bool {
	return p.peekToken.Type == t
}

func (p *Parser) expect(t lexer.TokenType) bool {
	if p.curTokenIs(t) {
		p.nextToken()
		return true
	}
	p.addError(fmt.Sprintf("expected %s, got %s", t, p.curToken.Type))
	return false
}

func (p *Parser) pos() ast.Pos {
	return ast.Pos{Line: p.curToken.Line, Column: p.curToken.Column}
}

// ParseProgram parses a whole shader: a single braced scope.
// The returned program has no predefined declarations; semantic analysis
// adds them.
func (p *Parser) ParseProgram() *ast.Program {
	if !p.curTokenIs(lexer.TokenLBrace) {
		p.addError(fmt.Sprintf("expected '{', got %s", p.curToken.Type))
		return &ast.Program{Body: &ast.Scope{}}
	}
	body := p.parseScope()
	if !p.curTokenIs(lexer.TokenEOF) {
		p.addError(fmt.Sprintf("unexpected %s after end of program", p.curToken.Type))
	}
	return &ast.Program{Body: body}
}

func (p *Parser) parseScope() *ast.Scope {
	scope := &ast.Scope{Pos: p.pos()}

	p.nextToken() // consume '{'

	for p.curTokenIs(lexer.TokenConst) || p.curToken.Type.IsType() {
		decl := p.parseDeclaration()
		if decl == nil {
			p.skipPast(lexer.TokenSemicolon)
			continue
		}
		scope.Decls = append(scope.Decls, decl)
	}

	for !p.curTokenIs(lexer.TokenRBrace) && !p.curTokenIs(lexer.TokenEOF) {
		if p.curTokenIs(lexer.TokenConst) || p.curToken.Type.IsType() {
			p.addError("declarations must precede statements")
			p.skipPast(lexer.TokenSemicolon)
			continue
		}
		stmt := p.parseStatement()
		if stmt != nil {
			scope.Stmts = append(scope.Stmts, stmt)
		}
	}

	p.expect(lexer.TokenRBrace)

	return scope
}

// skipPast discards tokens up to and including t, for error recovery
func (p *Parser) skipPast(t lexer.TokenType) {
	for !p.curTokenIs(t) && !p.curTokenIs(lexer.TokenEOF) && !p.curTokenIs(lexer.TokenRBrace) {
		p.nextToken()
	}
	if p.curTokenIs(t) {
		p.nextToken()
	}
}

func (p *Parser) parseDeclaration() *ast.Declaration {
	decl := &ast.Declaration{Pos: p.pos(), Qualifier: ast.Ordinary}

	if p.curTokenIs(lexer.TokenConst) {
		decl.Qualifier = ast.Const
		p.nextToken()
	}

	typ, ok := typeTokens[p.curToken.Type]
	if !ok {
		p.addError(fmt.Sprintf("expected type, got %s", p.curToken.Type))
		return nil
	}
	decl.Type = typ
	p.nextToken()

	if !p.curTokenIs(lexer.TokenIdent) {
		p.addError(fmt.Sprintf("expected variable name, got %s", p.curToken.Type))
		return nil
	}
	decl.Name = p.curToken.Literal
	p.nextToken()

	if p.curTokenIs(lexer.TokenAssign) {
		p.nextToken()
		decl.Init = p.parseExpression(precLowest)
		if decl.Init == nil {
			return nil
		}
	}

	if !p.expect(lexer.TokenSemicolon) {
		return nil
	}
	return decl
}

func (p *Parser) parseStatement() ast.Stmt {
	switch p.curToken.Type {
	case lexer.TokenIdent:
		return p.parseAssignment()
	case lexer.TokenIf:
		return p.parseIfStatement()
	case lexer.TokenWhile:
		return p.parseWhileStatement()
	case lexer.TokenLBrace:
		return p.parseScope()
	case lexer.TokenSemicolon:
		p.nextToken()
		return nil
	default:
		p.addError(fmt.Sprintf("unexpected token in statement: %s", p.curToken.Type))
		p.nextToken()
		return nil
	}
}

func (p *Parser) parseAssignment() ast.Stmt {
	pos := p.pos()
	target := p.parseVariable()
	if target == nil {
		p.skipPast(lexer.TokenSemicolon)
		return nil
	}
	if !p.expect(lexer.TokenAssign) {
		p.skipPast(lexer.TokenSemicolon)
		return nil
	}
	value := p.parseExpression(precLowest)
	if value == nil {
		p.skipPast(lexer.TokenSemicolon)
		return nil
	}
	if !p.expect(lexer.TokenSemicolon) {
		return nil
	}
	return &ast.Assign{Target: target, Value: value, Pos: pos}
}

// parseVariable parses an identifier, optionally indexed by an integer literal
func (p *Parser) parseVariable() ast.Expr {
	ident := &ast.Ident{Name: p.curToken.Literal, Pos: p.pos()}
	p.nextToken()

	if !p.curTokenIs(lexer.TokenLBracket) {
		return ident
	}
	p.nextToken() // consume '['

	if !p.curTokenIs(lexer.TokenInt) {
		p.addError(fmt.Sprintf("expected integer index, got %s", p.curToken.Type))
		return nil
	}
	index, err := strconv.Atoi(p.curToken.Literal)
	if err != nil {
		p.addError(fmt.Sprintf("invalid index %q", p.curToken.Literal))
		return nil
	}
	p.nextToken()

	if !p.expect(lexer.TokenRBracket) {
		return nil
	}
	return &ast.Index{Var: ident, Index: index, Pos: ident.Pos}
}

func (p *Parser) parseIfStatement() ast.Stmt {
	stmt := &ast.If{Pos: p.pos()}
	p.nextToken() // consume 'if'

	stmt.Cond = p.parseCondition()
	if stmt.Cond == nil {
		return nil
	}

	stmt.Then = p.parseStatement()
	if stmt.Then == nil {
		stmt.Then = &ast.Scope{Pos: stmt.Pos}
	}

	if p.curTokenIs(lexer.TokenElse) {
		p.nextToken()
		stmt.Else = p.parseStatement()
	}
	return stmt
}

func (p *Parser) parseWhileStatement() ast.Stmt {
	stmt := &ast.While{Pos: p.pos()}
	p.nextToken() // consume 'while'

	stmt.Cond = p.parseCondition()
	if stmt.Cond == nil {
		return nil
	}

	stmt.Body = p.parseStatement()
	if stmt.Body == nil {
		stmt.Body = &ast.Scope{Pos: stmt.Pos}
	}
	return stmt
}

// parseCondition parses a parenthesized condition: ( expr )
func (p *Parser) parseCondition() ast.Expr {
	if !p.expect(lexer.TokenLParen) {
		return nil
	}
	cond := p.parseExpression(precLowest)
	if cond == nil {
		return nil
	}
	if !p.expect(lexer.TokenRParen) {
		return nil
	}
	return cond
}

// parseExpression parses binary operators with precedence above minPrec.
// All binary operators are left-associative except '^'.
func (p *Parser) parseExpression(minPrec int) ast.Expr {
	left := p.parseUnary()
	if left == nil {
		return nil
	}

	for {
		info, ok := binaryOps[p.curToken.Type]
		if !ok || info.prec <= minPrec {
			return left
		}
		pos := p.pos()
		p.nextToken()

		right := p.parseExpression(info.prec)
		if right == nil {
			return nil
		}
		left = &ast.Binary{Op: info.op, Left: left, Right: right, Pos: pos}
	}
}

// parseUnary parses prefix '!' and '-'. They bind looser than '^',
// so -a^b is -(a^b).
func (p *Parser) parseUnary() ast.Expr {
	var op ast.UnaryOp
	switch p.curToken.Type {
	case lexer.TokenMinus:
		op = ast.OpNeg
	case lexer.TokenNot:
		op = ast.OpNot
	default:
		return p.parsePower()
	}
	pos := p.pos()
	p.nextToken()

	x := p.parseUnary()
	if x == nil {
		return nil
	}
	return &ast.Unary{Op: op, X: x, Pos: pos}
}

func (p *Parser) parsePower() ast.Expr {
	base := p.parsePrimary()
	if base == nil || !p.curTokenIs(lexer.TokenCaret) {
		return base
	}
	pos := p.pos()
	p.nextToken()

	exp := p.parseUnary()
	if exp == nil {
		return nil
	}
	return &ast.Binary{Op: ast.OpPow, Left: base, Right: exp, Pos: pos}
}

func (p *Parser) parsePrimary() ast.Expr {
	pos := p.pos()

	switch p.curToken.Type {
	case lexer.TokenInt:
		value, err := strconv.Atoi(p.curToken.Literal)
		if err != nil {
			p.addError(fmt.Sprintf("invalid integer literal %q", p.curToken.Literal))
			return nil
		}
		p.nextToken()
		return &ast.IntLit{Value: value, Pos: pos}

	case lexer.TokenFloat:
		value, err := strconv.ParseFloat(p.curToken.Literal, 64)
		if err != nil {
			p.addError(fmt.Sprintf("invalid float literal %q", p.curToken.Literal))
			return nil
		}
		p.nextToken()
		return &ast.FloatLit{Value: value, Pos: pos}

	case lexer.TokenTrue, lexer.TokenFalse:
		value := p.curTokenIs(lexer.TokenTrue)
		p.nextToken()
		return &ast.BoolLit{Value: value, Pos: pos}

	case lexer.TokenIdent:
		if p.peekTokenIs(lexer.TokenLParen) {
			name := p.curToken.Literal
			p.nextToken()
			args, ok := p.parseArguments()
			if !ok {
				return nil
			}
			return &ast.Call{Func: name, Args: args, Pos: pos}
		}
		return p.parseVariable()

	case lexer.TokenLParen:
		p.nextToken()
		expr := p.parseExpression(precLowest)
		if expr == nil {
			return nil
		}
		if !p.expect(lexer.TokenRParen) {
			return nil
		}
		return expr
	}

	if typ, ok := typeTokens[p.curToken.Type]; ok {
		p.nextToken()
		args, ok := p.parseArguments()
		if !ok {
			return nil
		}
		return &ast.Constructor{Type: typ, Args: args, Pos: pos}
	}

	p.addError(fmt.Sprintf("expected expression, got %s", p.curToken.Type))
	return nil
}

// parseArguments parses a parenthesized, comma-separated argument list
func (p *Parser) parseArguments() ([]ast.Expr, bool) {
	if !p.expect(lexer.TokenLParen) {
		return nil, false
	}
	var args []ast.Expr
	if p.curTokenIs(lexer.TokenRParen) {
		p.nextToken()
		return args, true
	}
	for {
		arg := p.parseExpression(precLowest)
		if arg == nil {
			return nil, false
		}
		args = append(args, arg)
		if !p.curTokenIs(lexer.TokenComma) {
			break
		}
		p.nextToken()
	}
	if !p.expect(lexer.TokenRParen) {
		return nil, false
	}
	return args, true
}
