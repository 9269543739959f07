package lexer

import (
	"testing"
)

func TestNextToken(t *testing.T) {
	input := `let five = 5;
const ratio = 2.5;

fn add(x, y) {
  x + y;
}

let result = add(five, ratio);
!-/*%5;
point.x[key](1);
{ a: 1, b };

if five == 5 {
	return true;
} else {
	loop { break; }
}

10 != 9;
"foo bar"
`

	tests := []struct {
		expectedType    TokenType
		expectedLiteral string
	}{
		{LET, "let"},
		{IDENT, "five"},
		{ASSIGN, "="},
		{NUMBER, "5"},
		{SEMICOLON, ";"},
		{CONST, "const"},
		{IDENT, "ratio"},
		{ASSIGN, "="},
		{NUMBER, "2.5"},
		{SEMICOLON, ";"},
		{FUNCTION, "fn"},
		{IDENT, "add"},
		{LPAREN, "("},
		{IDENT, "x"},
		{COMMA, ","},
		{IDENT, "y"},
		{RPAREN, ")"},
		{LBRACE, "{"},
		{IDENT, "x"},
		{PLUS, "+"},
		{IDENT, "y"},
		{SEMICOLON, ";"},
		{RBRACE, "}"},
		{LET, "let"},
		{IDENT, "result"},
		{ASSIGN, "="},
		{IDENT, "add"},
		{LPAREN, "("},
		{IDENT, "five"},
		{COMMA, ","},
		{IDENT, "ratio"},
		{RPAREN, ")"},
		{SEMICOLON, ";"},
		{BANG, "!"},
		{MINUS, "-"},
		{SLASH, "/"},
		{ASTERISK, "*"},
		{PERCENT, "%"},
		{NUMBER, "5"},
		{SEMICOLON, ";"},
		{IDENT, "point"},
		{DOT, "."},
		{IDENT, "x"},
		{LBRACKET, "["},
		{IDENT, "key"},
		{RBRACKET, "]"},
		{LPAREN, "("},
		{NUMBER, "1"},
		{RPAREN, ")"},
		{SEMICOLON, ";"},
		{LBRACE, "{"},
		{IDENT, "a"},
		{COLON, ":"},
		{NUMBER, "1"},
		{COMMA, ","},
		{IDENT, "b"},
		{RBRACE, "}"},
		{SEMICOLON, ";"},
		{IF, "if"},
		{IDENT, "five"},
		{EQ, "=="},
		{NUMBER, "5"},
		{LBRACE, "{"},
		{RETURN, "return"},
		{IDENT, "true"},
		{SEMICOLON, ";"},
		{RBRACE, "}"},
		{ELSE, "else"},
		{LBRACE, "{"},
		{LOOP, "loop"},
		{LBRACE, "{"},
		{BREAK, "break"},
		{SEMICOLON, ";"},
		{RBRACE, "}"},
		{RBRACE, "}"},
		{NUMBER, "10"},
		{NOT_EQ, "!="},
		{NUMBER, "9"},
		{SEMICOLON, ";"},
		{STRING, "foo bar"},
		{EOF, ""},
	}

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

	if l.Err() != nil {
		t.Errorf("unexpected lexer error: %v", l.Err())
	}
}

func TestTokenizeEndsWithEOF(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []TokenType
	}{
		{"empty", "", []TokenType{EOF}},
		{"whitespace only", " \t\r\n ", []TokenType{EOF}},
		{"comment only", "// nothing here", []TokenType{EOF}},
		{"trailing comment", "x = 1; // set x\ny", []TokenType{IDENT, ASSIGN, NUMBER, SEMICOLON, IDENT, EOF}},
		{"stops at unknown char", "let a = 1 # 2;", []TokenType{LET, IDENT, ASSIGN, NUMBER, EOF}},
		{"unterminated string", `x "abc`, []TokenType{IDENT, EOF}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tokens := Tokenize(tt.input)
			if len(tokens) != len(tt.want) {
				t.Fatalf("got %d tokens %v, want %d", len(tokens), tokens, len(tt.want))
			}
			for i, tok := range tokens {
				if tok.Type != tt.want[i] {
					t.Errorf("tokens[%d] = %s, want %s", i, tok.Type, tt.want[i])
				}
			}
		})
	}
}

func TestLexerErr(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		wantCode string
		wantMsg  string
		wantLine int
		wantCol  int
	}{
		{"clean input", "let x = 1;", "", "", 0, 0},
		{"unknown char", "let x = 1;\nx @ 2", "LEX-0001", "unexpected character '@'", 2, 3},
		{"unterminated string", `"abc`, "LEX-0002", "unterminated string", 1, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := New(tt.input)
			l.Tokenize()
			err := l.Err()
			if tt.wantCode == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if err == nil {
				t.Fatal("expected an error")
			}
			if err.Code != tt.wantCode {
				t.Errorf("Code = %q, want %q", err.Code, tt.wantCode)
			}
			if err.Message != tt.wantMsg {
				t.Errorf("Message = %q, want %q", err.Message, tt.wantMsg)
			}
			if err.Line != tt.wantLine || err.Column != tt.wantCol {
				t.Errorf("position = %d:%d, want %d:%d", err.Line, err.Column, tt.wantLine, tt.wantCol)
			}
		})
	}
}

func TestNumbers(t *testing.T) {
	tests := []struct {
		input string
		want  []string
	}{
		{"42", []string{"42"}},
		{"3.14", []string{"3.14"}},
		{"1.2.3", []string{"1.2", ".", "3"}},
		{"7.", []string{"7."}},
		{"1.", []string{"1."}},
		{"1.;", []string{"1.", ";"}},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			tokens := Tokenize(tt.input)
			tokens = tokens[:len(tokens)-1] // drop EOF
			if len(tokens) != len(tt.want) {
				t.Fatalf("got %v, want %v", tokens, tt.want)
			}
			for i, tok := range tokens {
				if tok.Literal != tt.want[i] {
					t.Errorf("tokens[%d] = %q, want %q", i, tok.Literal, tt.want[i])
				}
			}
		})
	}
}

func TestIdentifiers(t *testing.T) {
	tests := []struct {
		input    string
		wantType TokenType
		wantLit  string
	}{
		{"snake_case", IDENT, "snake_case"},
		{"π", IDENT, "π"},
		{"letter", IDENT, "letter"},
		{"loop", LOOP, "loop"},
		{"const", CONST, "const"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			tok := New(tt.input).NextToken()
			if tok.Type != tt.wantType || tok.Literal != tt.wantLit {
				t.Errorf("got %s %q, want %s %q", tok.Type, tok.Literal, tt.wantType, tt.wantLit)
			}
		})
	}
}

func TestStringEscapes(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{`"plain"`, "plain"},
		{`"a\nb"`, "a\nb"},
		{`"tab\there"`, "tab\there"},
		{`"say \"hi\""`, `say "hi"`},
		{`"back\\slash"`, `back\slash`},
		{`"keep \q"`, `keep \q`},
		{`"multi
line"`, "multi\nline"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			tok := New(tt.input).NextToken()
			if tok.Type != STRING {
				t.Fatalf("type = %s, want STRING", tok.Type)
			}
			if tok.Literal != tt.want {
				t.Errorf("literal = %q, want %q", tok.Literal, tt.want)
			}
		})
	}
}

func TestPositions(t *testing.T) {
	tokens := Tokenize("let a = 1;\n  a")
	want := []struct{ line, col int }{
		{1, 1}, {1, 5}, {1, 7}, {1, 9}, {1, 10}, {2, 3},
	}
	for i, w := range want {
		if tokens[i].Line != w.line || tokens[i].Column != w.col {
			t.Errorf("tokens[%d] %q at %d:%d, want %d:%d",
				i, tokens[i].Literal, tokens[i].Line, tokens[i].Column, w.line, w.col)
		}
	}
}
