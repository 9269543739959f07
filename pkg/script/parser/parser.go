// Package parser builds a syntax tree from a token sequence.
//
// The grammar is parsed by recursive descent with one function per
// precedence tier, loosest first:
//
//	assignment     target = value            (right associative)
//	object/if      { name: v, ... }  |  if cond { ... } else ...
//	equality       == !=
//	additive       + -
//	multiplicative * / %
//	unary          ! -
//	call/member    f(args)  obj.name  obj[expr]
//	primary        number, identifier, string, ( expr )
//
// The first error aborts the parse; no partial tree is returned.
package parser

import (
	"github.com/swipelab/rune/pkg/script/ast"
	perrors "github.com/swipelab/rune/pkg/script/errors"
	"github.com/swipelab/rune/pkg/script/lexer"
)

// Parser represents the parser
type Parser struct {
	tokens []lexer.Token
	pos    int // index of the token after peekToken

	curToken  lexer.Token
	peekToken lexer.Token

	err *perrors.ScriptError
}

// New creates a parser over tokens. A missing trailing EOF is implied.
func New(tokens []lexer.Token) *Parser {
	p := &Parser{tokens: tokens}

	// Read two tokens, so curToken and peekToken are both set
	p.nextToken()
	p.nextToken()

	return p
}

// Parse parses tokens into a Program, or returns the first parse error
// as a *errors.ScriptError.
func Parse(tokens []lexer.Token) (*ast.Program, error) {
	p := New(tokens)
	program := p.ParseProgram()
	if p.err != nil {
		return nil, p.err
	}
	return program, nil
}

// Err returns the parse error, if any.
func (p *Parser) Err() *perrors.ScriptError {
	return p.err
}

// Errors returns the parse error as strings.
func (p *Parser) Errors() []string {
	if p.err == nil {
		return nil
	}
	return []string{p.err.Error()}
}

func (p *Parser) nextToken() {
	p.curToken = p.peekToken
	p.peekToken = p.tokenAt(p.pos)
	p.pos++
}

// tokenAt returns tokens[i], or an EOF positioned after the last token.
func (p *Parser) tokenAt(i int) lexer.Token {
	if i < len(p.tokens) {
		return p.tokens[i]
	}
	eof := lexer.Token{Type: lexer.EOF}
	if n := len(p.tokens); n > 0 {
		eof.Line = p.tokens[n-1].Line
		eof.Column = p.tokens[n-1].Column
	}
	return eof
}

// ParseProgram parses the whole token sequence. It returns nil when a
// parse error was recorded.
func (p *Parser) ParseProgram() *ast.Program {
	program := &ast.Program{Statements: []ast.Expression{}}

	for !p.curTokenIs(lexer.EOF) {
		if p.curTokenIs(lexer.SEMICOLON) {
			p.nextToken()
			continue
		}
		stmt := p.parseStatement()
		if stmt == nil {
			return nil
		}
		program.Statements = append(program.Statements, stmt)
		p.nextToken()
	}

	return program
}

// parseStatement dispatches on the leading token. Every parse function
// leaves curToken on the last token of its construct.
func (p *Parser) parseStatement() ast.Expression {
	switch p.curToken.Type {
	case lexer.LET, lexer.CONST:
		return p.parseVarDecl()
	case lexer.FUNCTION:
		return p.parseFnDecl()
	case lexer.LOOP:
		return p.parseLoop()
	case lexer.BREAK:
		return &ast.Break{Token: p.curToken}
	case lexer.RETURN:
		return p.parseReturn()
	case lexer.LBRACE:
		// `{ name: ...` can only be an object literal
		if p.peekTokenIs(lexer.IDENT) && p.tokenAt(p.pos).Type == lexer.COLON {
			return p.parseExpression()
		}
		if body := p.parseBody(); body != nil {
			return body
		}
		return nil
	default:
		return p.parseExpression()
	}
}

// parseVarDecl parses `let name = value;` and `const name = value;`
func (p *Parser) parseVarDecl() ast.Expression {
	decl := &ast.VarDecl{Token: p.curToken, Constant: p.curTokenIs(lexer.CONST)}

	if !p.expectPeek(lexer.IDENT) {
		return nil
	}
	decl.Name = &ast.Identifier{Token: p.curToken, Value: p.curToken.Literal}

	if !p.expectPeek(lexer.ASSIGN) {
		return nil
	}
	p.nextToken()

	decl.Value = p.parseExpression()
	if decl.Value == nil {
		return nil
	}

	if !p.expectPeek(lexer.SEMICOLON) {
		return nil
	}
	return decl
}

// parseFnDecl parses `fn name(a, b) { ... }`
func (p *Parser) parseFnDecl() ast.Expression {
	decl := &ast.FnDecl{Token: p.curToken}

	if !p.expectPeek(lexer.IDENT) {
		return nil
	}
	decl.Name = &ast.Identifier{Token: p.curToken, Value: p.curToken.Literal}

	if !p.expectPeek(lexer.LPAREN) {
		return nil
	}
	args, ok := p.parseExpressionList(lexer.RPAREN)
	if !ok {
		return nil
	}

	// Parameters share the argument grammar and are narrowed here.
	for _, arg := range args {
		ident, isIdent := arg.(*ast.Identifier)
		if !isIdent {
			tok := ast.Start(arg)
			p.addStructuredError("PARSE-0003", tok.Line, tok.Column, map[string]any{
				"Got":      "'" + arg.String() + "'",
				"Function": decl.Name.Value,
			})
			return nil
		}
		decl.Params = append(decl.Params, ident)
	}

	if !p.expectPeek(lexer.LBRACE) {
		return nil
	}
	decl.Body = p.parseBody()
	if decl.Body == nil {
		return nil
	}
	return decl
}

// parseLoop parses `loop { ... }`
func (p *Parser) parseLoop() ast.Expression {
	loop := &ast.Loop{Token: p.curToken}
	if !p.expectPeek(lexer.LBRACE) {
		return nil
	}
	loop.Body = p.parseBody()
	if loop.Body == nil {
		return nil
	}
	return loop
}

// parseReturn parses `return value`. A bare return yields the never marker.
func (p *Parser) parseReturn() ast.Expression {
	ret := &ast.Return{Token: p.curToken}

	if p.peekTokenIs(lexer.SEMICOLON) || p.peekTokenIs(lexer.RBRACE) || p.peekTokenIs(lexer.EOF) {
		ret.Value = &ast.Never{Token: p.curToken}
		return ret
	}

	p.nextToken()
	ret.Value = p.parseExpression()
	if ret.Value == nil {
		return nil
	}
	return ret
}

// parseBody parses `{ stmt; stmt }` with curToken on the opening brace.
func (p *Parser) parseBody() *ast.Body {
	body := &ast.Body{Token: p.curToken, Statements: []ast.Expression{}}
	p.nextToken()

	for !p.curTokenIs(lexer.RBRACE) {
		if p.curTokenIs(lexer.EOF) {
			p.curError("'}'")
			return nil
		}
		if p.curTokenIs(lexer.SEMICOLON) {
			p.nextToken()
			continue
		}
		stmt := p.parseStatement()
		if stmt == nil {
			return nil
		}
		body.Statements = append(body.Statements, stmt)
		p.nextToken()
	}

	return body
}

func (p *Parser) parseExpression() ast.Expression {
	return p.parseAssignment()
}

func (p *Parser) parseAssignment() ast.Expression {
	left := p.parseObjectOrConditional()
	if left == nil {
		return nil
	}

	if !p.peekTokenIs(lexer.ASSIGN) {
		return left
	}
	p.nextToken()
	expr := &ast.AssignExpr{Token: p.curToken, Target: left}
	p.nextToken()

	expr.Value = p.parseAssignment()
	if expr.Value == nil {
		return nil
	}
	return expr
}

func (p *Parser) parseObjectOrConditional() ast.Expression {
	switch p.curToken.Type {
	case lexer.LBRACE:
		return p.parseObjectLiteral()
	case lexer.IF:
		if expr := p.parseIfExpr(); expr != nil {
			return expr
		}
		return nil
	default:
		return p.parseEquality()
	}
}

// parseObjectLiteral parses `{ a: 1, b }`; a trailing comma is allowed.
func (p *Parser) parseObjectLiteral() ast.Expression {
	obj := &ast.ObjectLiteral{Token: p.curToken, Properties: []*ast.Property{}}
	p.nextToken()

	for !p.curTokenIs(lexer.RBRACE) {
		if !p.curTokenIs(lexer.IDENT) {
			p.addStructuredError("PARSE-0004", p.curToken.Line, p.curToken.Column,
				map[string]any{"Got": describe(p.curToken)})
			return nil
		}
		prop := &ast.Property{Token: p.curToken, Name: p.curToken.Literal}

		if p.peekTokenIs(lexer.COLON) {
			p.nextToken()
			p.nextToken()
			prop.Value = p.parseExpression()
			if prop.Value == nil {
				return nil
			}
		}
		obj.Properties = append(obj.Properties, prop)

		switch {
		case p.peekTokenIs(lexer.COMMA):
			p.nextToken()
			p.nextToken()
		case p.peekTokenIs(lexer.RBRACE):
			p.nextToken()
		default:
			p.peekError("',' or '}'")
			return nil
		}
	}

	return obj
}

// parseIfExpr parses `if cond { ... }` with an optional else arm that is
// another if, a body, or a single statement.
func (p *Parser) parseIfExpr() *ast.IfExpr {
	expr := &ast.IfExpr{Token: p.curToken}
	p.nextToken()

	expr.Condition = p.parseExpression()
	if expr.Condition == nil {
		return nil
	}

	if !p.expectPeek(lexer.LBRACE) {
		return nil
	}
	expr.Then = p.parseBody()
	if expr.Then == nil {
		return nil
	}

	if !p.peekTokenIs(lexer.ELSE) {
		return expr
	}
	p.nextToken()
	p.nextToken()

	switch p.curToken.Type {
	case lexer.IF:
		if alt := p.parseIfExpr(); alt != nil {
			expr.Else = alt
		}
	case lexer.LBRACE:
		if alt := p.parseBody(); alt != nil {
			expr.Else = alt
		}
	default:
		expr.Else = p.parseStatement()
	}
	if expr.Else == nil {
		return nil
	}
	return expr
}

func (p *Parser) parseEquality() ast.Expression {
	left := p.parseAdditive()
	if left == nil {
		return nil
	}

	for p.peekTokenIs(lexer.EQ) || p.peekTokenIs(lexer.NOT_EQ) {
		p.nextToken()
		tok := p.curToken
		p.nextToken()

		right := p.parseAdditive()
		if right == nil {
			return nil
		}
		if tok.Type == lexer.EQ {
			left = &ast.EqExpr{Token: tok, Left: left, Right: right}
		} else {
			left = &ast.NotEqExpr{Token: tok, Left: left, Right: right}
		}
	}

	return left
}

func (p *Parser) parseAdditive() ast.Expression {
	return p.parseBinary(p.parseMultiplicative, lexer.PLUS, lexer.MINUS)
}

func (p *Parser) parseMultiplicative() ast.Expression {
	return p.parseBinary(p.parseUnary, lexer.ASTERISK, lexer.SLASH, lexer.PERCENT)
}

// parseBinary left-folds operand (op operand)* for the given operators.
func (p *Parser) parseBinary(operand func() ast.Expression, ops ...lexer.TokenType) ast.Expression {
	left := operand()
	if left == nil {
		return nil
	}

	for p.peekTokenIn(ops...) {
		p.nextToken()
		expr := &ast.BinaryExpr{Token: p.curToken, Left: left, Operator: p.curToken.Literal}
		p.nextToken()

		expr.Right = operand()
		if expr.Right == nil {
			return nil
		}
		left = expr
	}

	return left
}

func (p *Parser) parseUnary() ast.Expression {
	if !p.curTokenIs(lexer.BANG) && !p.curTokenIs(lexer.MINUS) {
		return p.parseCallMember()
	}

	expr := &ast.UnaryExpr{Token: p.curToken, Operator: p.curToken.Literal}
	p.nextToken()

	expr.Right = p.parseUnary()
	if expr.Right == nil {
		return nil
	}
	return expr
}

// parseCallMember applies any chain of .name, [expr] and (args) suffixes.
func (p *Parser) parseCallMember() ast.Expression {
	expr := p.parsePrimary()
	if expr == nil {
		return nil
	}

	for {
		switch p.peekToken.Type {
		case lexer.DOT:
			p.nextToken()
			member := &ast.MemberExpr{Token: p.curToken, Object: expr}
			if !p.expectPeek(lexer.IDENT) {
				return nil
			}
			member.Property = &ast.Identifier{Token: p.curToken, Value: p.curToken.Literal}
			expr = member

		case lexer.LBRACKET:
			p.nextToken()
			member := &ast.MemberExpr{Token: p.curToken, Object: expr, Computed: true}
			p.nextToken()
			member.Property = p.parseExpression()
			if member.Property == nil {
				return nil
			}
			if !p.expectPeek(lexer.RBRACKET) {
				return nil
			}
			expr = member

		case lexer.LPAREN:
			p.nextToken()
			call := &ast.CallExpr{Token: p.curToken, Callee: expr}
			args, ok := p.parseExpressionList(lexer.RPAREN)
			if !ok {
				return nil
			}
			call.Arguments = args
			expr = call

		default:
			return expr
		}
	}
}

func (p *Parser) parsePrimary() ast.Expression {
	switch p.curToken.Type {
	case lexer.NUMBER:
		return &ast.NumberLiteral{Token: p.curToken, Value: p.curToken.Literal}
	case lexer.IDENT:
		return &ast.Identifier{Token: p.curToken, Value: p.curToken.Literal}
	case lexer.STRING:
		return &ast.StringLiteral{Token: p.curToken, Value: p.curToken.Literal}
	case lexer.LPAREN:
		p.nextToken()
		expr := p.parseExpression()
		if expr == nil {
			return nil
		}
		if !p.expectPeek(lexer.RPAREN) {
			return nil
		}
		return expr
	default:
		p.addStructuredError("PARSE-0002", p.curToken.Line, p.curToken.Column,
			map[string]any{"Got": describe(p.curToken)})
		return nil
	}
}

// parseExpressionList parses `a, b, c` up to end, with curToken on the
// opening delimiter. It leaves curToken on end.
func (p *Parser) parseExpressionList(end lexer.TokenType) ([]ast.Expression, bool) {
	list := []ast.Expression{}

	if p.peekTokenIs(end) {
		p.nextToken()
		return list, true
	}

	p.nextToken()
	expr := p.parseExpression()
	if expr == nil {
		return nil, false
	}
	list = append(list, expr)

	for p.peekTokenIs(lexer.COMMA) {
		p.nextToken()
		p.nextToken()
		expr := p.parseExpression()
		if expr == nil {
			return nil, false
		}
		list = append(list, expr)
	}

	if !p.expectPeek(end) {
		return nil, false
	}
	return list, true
}
