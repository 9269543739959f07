package lexer

import (
	"fmt"
	"unicode"
	"unicode/utf8"

	perrors "github.com/swipelab/rune/pkg/script/errors"
)

// TokenType represents different types of tokens
type TokenType int

const (
	// Special tokens
	ILLEGAL TokenType = iota
	EOF

	// Identifiers and literals
	IDENT  // add, foo_bar, x
	NUMBER // 1343456, 3.14
	STRING // "foobar"

	// Operators
	ASSIGN   // =
	PLUS     // +
	MINUS    // -
	ASTERISK // *
	SLASH    // /
	PERCENT  // %
	BANG     // !
	EQ       // ==
	NOT_EQ   // !=

	// Delimiters
	COMMA     // ,
	COLON     // :
	SEMICOLON // ;
	DOT       // .
	LPAREN    // (
	RPAREN    // )
	LBRACE    // {
	RBRACE    // }
	LBRACKET  // [
	RBRACKET  // ]

	// Keywords
	LET
	CONST
	FUNCTION
	IF
	ELSE
	LOOP
	BREAK
	RETURN
)

// Token represents a single token
type Token struct {
	Type    TokenType
	Literal string
	Line    int
	Column  int
}

// String returns a string representation of the token
func (t Token) String() string {
	return fmt.Sprintf("{Type: %s, Literal: %s, Line: %d, Column: %d}",
		t.Type.String(), t.Literal, t.Line, t.Column)
}

var tokenNames = map[TokenType]string{
	ILLEGAL:   "ILLEGAL",
	EOF:       "EOF",
	IDENT:     "IDENT",
	NUMBER:    "NUMBER",
	STRING:    "STRING",
	ASSIGN:    "=",
	PLUS:      "+",
	MINUS:     "-",
	ASTERISK:  "*",
	SLASH:     "/",
	PERCENT:   "%",
	BANG:      "!",
	EQ:        "==",
	NOT_EQ:    "!=",
	COMMA:     ",",
	COLON:     ":",
	SEMICOLON: ";",
	DOT:       ".",
	LPAREN:    "(",
	RPAREN:    ")",
	LBRACE:    "{",
	RBRACE:    "}",
	LBRACKET:  "[",
	RBRACKET:  "]",
	LET:       "LET",
	CONST:     "CONST",
	FUNCTION:  "FUNCTION",
	IF:        "IF",
	ELSE:      "ELSE",
	LOOP:      "LOOP",
	BREAK:     "BREAK",
	RETURN:    "RETURN",
}

// String returns a string representation of the token type
func (tt TokenType) String() string {
	if name, ok := tokenNames[tt]; ok {
		return name
	}
	return fmt.Sprintf("TokenType(%d)", int(tt))
}

var keywords = map[string]TokenType{
	"let":    LET,
	"const":  CONST,
	"fn":     FUNCTION,
	"if":     IF,
	"else":   ELSE,
	"loop":   LOOP,
	"break":  BREAK,
	"return": RETURN,
}

// LookupIdent checks if an identifier is a keyword
func LookupIdent(ident string) TokenType {
	if tok, ok := keywords[ident]; ok {
		return tok
	}
	return IDENT
}

// Lexer turns source text into tokens with a single forward cursor.
type Lexer struct {
	input        string
	position     int  // current position in input (points to current char)
	readPosition int  // current reading position in input (after current char)
	ch           rune // current char under examination, 0 at end of input
	line         int
	column       int

	err *perrors.ScriptError
}

// New creates a new lexer instance
func New(input string) *Lexer {
	l := &Lexer{
		input: input,
		line:  1,
	}
	l.readChar()
	return l
}

// Tokenize converts input into a token sequence that always ends in EOF.
// Unrecognised input stops the scan; see Lexer.Err.
func Tokenize(input string) []Token {
	return New(input).Tokenize()
}

// Tokenize drains the lexer. Scanning stops at the first unrecognised
// character; the tokens read so far are kept and EOF is appended.
func (l *Lexer) Tokenize() []Token {
	var tokens []Token
	for {
		tok := l.NextToken()
		if tok.Type == ILLEGAL {
			tokens = append(tokens, Token{Type: EOF, Line: tok.Line, Column: tok.Column})
			return tokens
		}
		tokens = append(tokens, tok)
		if tok.Type == EOF {
			return tokens
		}
	}
}

// Err returns the reason the scan stopped early, or nil when the whole
// input was consumed.
func (l *Lexer) Err() *perrors.ScriptError {
	return l.err
}

// readChar reads the next character and advances position.
func (l *Lexer) readChar() {
	if l.readPosition >= len(l.input) {
		l.ch = 0
		l.position = l.readPosition
		return
	}

	r, size := utf8.DecodeRuneInString(l.input[l.readPosition:])
	l.ch = r
	l.position = l.readPosition
	l.readPosition += size

	if l.ch == '\n' {
		l.line++
		l.column = 0
	} else {
		l.column++
	}
}

// peekChar returns the next character without advancing position
func (l *Lexer) peekChar() rune {
	if l.readPosition >= len(l.input) {
		return 0
	}
	r, _ := utf8.DecodeRuneInString(l.input[l.readPosition:])
	return r
}

// NextToken scans the input and returns the next token
func (l *Lexer) NextToken() Token {
	var tok Token

	l.skipWhitespace()
	for l.ch == '/' && l.peekChar() == '/' {
		l.skipComment()
		l.skipWhitespace()
	}

	line, col := l.line, l.column

	switch l.ch {
	case 0:
		if l.position < len(l.input) {
			return l.illegal(line, col)
		}
		return Token{Type: EOF, Line: line, Column: col}
	case '=':
		if l.peekChar() == '=' {
			l.readChar()
			tok = Token{Type: EQ, Literal: "==", Line: line, Column: col}
		} else {
			tok = newToken(ASSIGN, l.ch, line, col)
		}
	case '!':
		if l.peekChar() == '=' {
			l.readChar()
			tok = Token{Type: NOT_EQ, Literal: "!=", Line: line, Column: col}
		} else {
			tok = newToken(BANG, l.ch, line, col)
		}
	case '+':
		tok = newToken(PLUS, l.ch, line, col)
	case '-':
		tok = newToken(MINUS, l.ch, line, col)
	case '*':
		tok = newToken(ASTERISK, l.ch, line, col)
	case '/':
		tok = newToken(SLASH, l.ch, line, col)
	case '%':
		tok = newToken(PERCENT, l.ch, line, col)
	case ',':
		tok = newToken(COMMA, l.ch, line, col)
	case ':':
		tok = newToken(COLON, l.ch, line, col)
	case ';':
		tok = newToken(SEMICOLON, l.ch, line, col)
	case '.':
		tok = newToken(DOT, l.ch, line, col)
	case '(':
		tok = newToken(LPAREN, l.ch, line, col)
	case ')':
		tok = newToken(RPAREN, l.ch, line, col)
	case '{':
		tok = newToken(LBRACE, l.ch, line, col)
	case '}':
		tok = newToken(RBRACE, l.ch, line, col)
	case '[':
		tok = newToken(LBRACKET, l.ch, line, col)
	case ']':
		tok = newToken(RBRACKET, l.ch, line, col)
	case '"':
		str, ok := l.readString()
		if !ok {
			l.err = perrors.NewWithPosition("LEX-0002", line, col, nil)
			return Token{Type: ILLEGAL, Literal: `"` + str, Line: line, Column: col}
		}
		tok = Token{Type: STRING, Literal: str, Line: line, Column: col}
	default:
		if isLetter(l.ch) {
			ident := l.readIdentifier()
			return Token{Type: LookupIdent(ident), Literal: ident, Line: line, Column: col}
		}
		if isDigit(l.ch) {
			return Token{Type: NUMBER, Literal: l.readNumber(), Line: line, Column: col}
		}
		return l.illegal(line, col)
	}

	l.readChar()
	return tok
}

// illegal records the stop reason for the current character.
func (l *Lexer) illegal(line, col int) Token {
	ch := string(l.ch)
	if l.ch == utf8.RuneError || l.ch == 0 {
		ch = fmt.Sprintf("\\x%02x", l.input[l.position])
	}
	l.err = perrors.NewWithPosition("LEX-0001", line, col, map[string]any{"Char": ch})
	return Token{Type: ILLEGAL, Literal: ch, Line: line, Column: col}
}

// newToken creates a new token with the given parameters
func newToken(tokenType TokenType, ch rune, line, column int) Token {
	return Token{Type: tokenType, Literal: string(ch), Line: line, Column: column}
}

// readIdentifier reads a word of letters and underscores.
func (l *Lexer) readIdentifier() string {
	position := l.position
	for isLetter(l.ch) || l.ch == '_' {
		l.readChar()
	}
	return l.input[position:l.position]
}

// readNumber reads digits with at most one decimal point. Whether the
// literal is an integer or a float is decided at evaluation.
func (l *Lexer) readNumber() string {
	position := l.position
	for isDigit(l.ch) {
		l.readChar()
	}

	if l.ch == '.' {
		l.readChar()
		for isDigit(l.ch) {
			l.readChar()
		}
	}

	return l.input[position:l.position]
}

// readString reads a double-quoted string, leaving the cursor on the
// closing quote. Returns false when the input ends first.
func (l *Lexer) readString() (string, bool) {
	var result []rune
	l.readChar() // skip opening quote

	for l.ch != '"' && l.ch != 0 {
		if l.ch == '\\' {
			l.readChar()
			switch l.ch {
			case 'n':
				result = append(result, '\n')
			case 't':
				result = append(result, '\t')
			case 'r':
				result = append(result, '\r')
			case '\\':
				result = append(result, '\\')
			case '"':
				result = append(result, '"')
			case 0:
				return string(result), false
			default:
				result = append(result, '\\', l.ch)
			}
		} else {
			result = append(result, l.ch)
		}
		l.readChar()
	}

	return string(result), l.ch == '"'
}

func (l *Lexer) skipWhitespace() {
	for l.ch == ' ' || l.ch == '\t' || l.ch == '\n' || l.ch == '\r' {
		l.readChar()
	}
}

// skipComment skips a // comment up to the end of the line.
func (l *Lexer) skipComment() {
	for l.ch != '\n' && l.ch != 0 {
		l.readChar()
	}
}

func isLetter(ch rune) bool {
	return unicode.IsLetter(ch)
}

func isDigit(ch rune) bool {
	return '0' <= ch && ch <= '9'
}
