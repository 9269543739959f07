package parser

import (
	perrors "github.com/swipelab/rune/pkg/script/errors"
	"github.com/swipelab/rune/pkg/script/lexer"
)

func (p *Parser) curTokenIs(t lexer.TokenType) bool {
	return p.curToken.Type == t
}

func (p *Parser) peekTokenIs(t lexer.TokenType) bool {
	return p.peekToken.Type == t
}

func (p *Parser) peekTokenIn(ts ...lexer.TokenType) bool {
	for _, t := range ts {
		if p.peekToken.Type == t {
			return true
		}
	}
	return false
}

func (p *Parser) expectPeek(t lexer.TokenType) bool {
	if p.peekTokenIs(t) {
		p.nextToken()
		return true
	}
	p.peekError(tokenTypeToReadableName(t))
	return false
}

// addStructuredError records an error from the catalog.
// Only the first error is kept; later ones are cascading noise.
func (p *Parser) addStructuredError(code string, line, column int, data map[string]any) {
	if p.err != nil {
		return
	}
	p.err = perrors.NewWithPosition(code, line, column, data)
}

// peekError reports that peekToken is not what was expected.
func (p *Parser) peekError(expected string) {
	p.addStructuredError("PARSE-0001", p.peekToken.Line, p.peekToken.Column, map[string]any{
		"Expected": expected,
		"Got":      describe(p.peekToken),
	})
}

// curError reports that curToken is not what was expected.
func (p *Parser) curError(expected string) {
	p.addStructuredError("PARSE-0001", p.curToken.Line, p.curToken.Column, map[string]any{
		"Expected": expected,
		"Got":      describe(p.curToken),
	})
}

// describe renders a found token for error messages.
func describe(tok lexer.Token) string {
	switch tok.Type {
	case lexer.EOF:
		return "end of input"
	case lexer.STRING:
		return "string \"" + tok.Literal + "\""
	case lexer.NUMBER:
		return "number " + tok.Literal
	case lexer.IDENT:
		return "identifier '" + tok.Literal + "'"
	default:
		return "'" + tok.Literal + "'"
	}
}

func tokenTypeToReadableName(t lexer.TokenType) string {
	switch t {
	case lexer.IDENT:
		return "identifier"
	case lexer.NUMBER:
		return "number"
	case lexer.STRING:
		return "string"
	case lexer.EOF:
		return "end of input"
	case lexer.LET:
		return "'let'"
	case lexer.CONST:
		return "'const'"
	case lexer.FUNCTION:
		return "'fn'"
	case lexer.IF:
		return "'if'"
	case lexer.ELSE:
		return "'else'"
	case lexer.LOOP:
		return "'loop'"
	case lexer.BREAK:
		return "'break'"
	case lexer.RETURN:
		return "'return'"
	default:
		return "'" + t.String() + "'"
	}
}
