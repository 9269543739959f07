// Package ast defines the syntax tree produced by the parser.
//
// Every construct in the language is an expression: declarations, loops and
// control transfers all evaluate to a value. The node set is closed; only
// types in this package implement Expression.
package ast

import (
	"bytes"
	"strings"

	"github.com/swipelab/rune/pkg/script/lexer"
)

// Node represents any node in the AST
type Node interface {
	TokenLiteral() string
	String() string
}

// Expression represents expression nodes
type Expression interface {
	Node
	expressionNode()
}

// Program represents the root node of every AST
type Program struct {
	Statements []Expression
}

func (p *Program) TokenLiteral() string {
	if len(p.Statements) > 0 {
		return p.Statements[0].TokenLiteral()
	}
	return ""
}

func (p *Program) String() string {
	parts := make([]string, 0, len(p.Statements))
	for _, s := range p.Statements {
		parts = append(parts, s.String())
	}
	return strings.Join(parts, "\n")
}

// VarDecl represents `let x = v;` and `const x = v;`
type VarDecl struct {
	Token    lexer.Token // the LET or CONST token
	Constant bool
	Name     *Identifier
	Value    Expression
}

func (vd *VarDecl) expressionNode()      {}
func (vd *VarDecl) TokenLiteral() string { return vd.Token.Literal }
func (vd *VarDecl) String() string {
	var out bytes.Buffer

	if vd.Constant {
		out.WriteString("const ")
	} else {
		out.WriteString("let ")
	}
	out.WriteString(vd.Name.String())
	out.WriteString(" = ")
	if vd.Value != nil {
		out.WriteString(vd.Value.String())
	}
	out.WriteString(";")

	return out.String()
}

// FnDecl represents a named function declaration `fn name(a, b) { ... }`
type FnDecl struct {
	Token  lexer.Token // the 'fn' token
	Name   *Identifier
	Params []*Identifier
	Body   *Body
}

func (fd *FnDecl) expressionNode()      {}
func (fd *FnDecl) TokenLiteral() string { return fd.Token.Literal }
func (fd *FnDecl) String() string {
	params := make([]string, 0, len(fd.Params))
	for _, p := range fd.Params {
		params = append(params, p.String())
	}
	return "fn " + fd.Name.String() + "(" + strings.Join(params, ", ") + ") " + fd.Body.String()
}

// BinaryExpr represents an arithmetic operation `l op r` for + - * / %
type BinaryExpr struct {
	Token    lexer.Token // the operator token
	Left     Expression
	Operator string
	Right    Expression
}

func (be *BinaryExpr) expressionNode()      {}
func (be *BinaryExpr) TokenLiteral() string { return be.Token.Literal }
func (be *BinaryExpr) String() string {
	return "(" + be.Left.String() + " " + be.Operator + " " + be.Right.String() + ")"
}

// UnaryExpr represents a prefix operation `!x` or `-x`
type UnaryExpr struct {
	Token    lexer.Token // the prefix token
	Operator string
	Right    Expression
}

func (ue *UnaryExpr) expressionNode()      {}
func (ue *UnaryExpr) TokenLiteral() string { return ue.Token.Literal }
func (ue *UnaryExpr) String() string {
	return "(" + ue.Operator + ue.Right.String() + ")"
}

// AssignExpr represents `target = value`
type AssignExpr struct {
	Token  lexer.Token // the '=' token
	Target Expression
	Value  Expression
}

func (ae *AssignExpr) expressionNode()      {}
func (ae *AssignExpr) TokenLiteral() string { return ae.Token.Literal }
func (ae *AssignExpr) String() string {
	return "(" + ae.Target.String() + " = " + ae.Value.String() + ")"
}

// EqExpr represents `l == r`
type EqExpr struct {
	Token lexer.Token
	Left  Expression
	Right Expression
}

func (ee *EqExpr) expressionNode()      {}
func (ee *EqExpr) TokenLiteral() string { return ee.Token.Literal }
func (ee *EqExpr) String() string {
	return "(" + ee.Left.String() + " == " + ee.Right.String() + ")"
}

// NotEqExpr represents `l != r`
type NotEqExpr struct {
	Token lexer.Token
	Left  Expression
	Right Expression
}

func (ne *NotEqExpr) expressionNode()      {}
func (ne *NotEqExpr) TokenLiteral() string { return ne.Token.Literal }
func (ne *NotEqExpr) String() string {
	return "(" + ne.Left.String() + " != " + ne.Right.String() + ")"
}

// MemberExpr represents `obj.name` (Computed false) and `obj[expr]`
// (Computed true).
type MemberExpr struct {
	Token    lexer.Token // the '.' or '[' token
	Object   Expression
	Property Expression
	Computed bool
}

func (me *MemberExpr) expressionNode()      {}
func (me *MemberExpr) TokenLiteral() string { return me.Token.Literal }
func (me *MemberExpr) String() string {
	if me.Computed {
		return me.Object.String() + "[" + me.Property.String() + "]"
	}
	return me.Object.String() + "." + me.Property.String()
}

// CallExpr represents `callee(args...)`
type CallExpr struct {
	Token     lexer.Token // the '(' token
	Callee    Expression
	Arguments []Expression
}

func (ce *CallExpr) expressionNode()      {}
func (ce *CallExpr) TokenLiteral() string { return ce.Token.Literal }
func (ce *CallExpr) String() string {
	args := make([]string, 0, len(ce.Arguments))
	for _, a := range ce.Arguments {
		args = append(args, a.String())
	}
	return ce.Callee.String() + "(" + strings.Join(args, ", ") + ")"
}

// IfExpr represents `if cond { ... } else ...`. Else is nil, another
// *IfExpr, a *Body, or a single statement.
type IfExpr struct {
	Token     lexer.Token // the 'if' token
	Condition Expression
	Then      *Body
	Else      Expression
}

func (ie *IfExpr) expressionNode()      {}
func (ie *IfExpr) TokenLiteral() string { return ie.Token.Literal }
func (ie *IfExpr) String() string {
	var out bytes.Buffer

	out.WriteString("if ")
	out.WriteString(ie.Condition.String())
	out.WriteString(" ")
	out.WriteString(ie.Then.String())
	if ie.Else != nil {
		out.WriteString(" else ")
		out.WriteString(ie.Else.String())
	}

	return out.String()
}

// Body represents a brace-delimited statement sequence. It does not open a
// new scope.
type Body struct {
	Token      lexer.Token // the '{' token
	Statements []Expression
}

func (b *Body) expressionNode()      {}
func (b *Body) TokenLiteral() string { return b.Token.Literal }
func (b *Body) String() string {
	if len(b.Statements) == 0 {
		return "{}"
	}
	parts := make([]string, 0, len(b.Statements))
	for _, s := range b.Statements {
		parts = append(parts, s.String())
	}
	return "{ " + strings.Join(parts, " ") + " }"
}

// Loop represents `loop { ... }`
type Loop struct {
	Token lexer.Token // the 'loop' token
	Body  *Body
}

func (l *Loop) expressionNode()      {}
func (l *Loop) TokenLiteral() string { return l.Token.Literal }
func (l *Loop) String() string       { return "loop " + l.Body.String() }

// Break represents `break`
type Break struct {
	Token lexer.Token
}

func (b *Break) expressionNode()      {}
func (b *Break) TokenLiteral() string { return b.Token.Literal }
func (b *Break) String() string       { return "break" }

// Return represents `return value`. A bare `return` carries a *Never.
type Return struct {
	Token lexer.Token
	Value Expression
}

func (r *Return) expressionNode()      {}
func (r *Return) TokenLiteral() string { return r.Token.Literal }
func (r *Return) String() string       { return "return " + r.Value.String() }

// Never is the terminal marker node; it evaluates to the never value.
type Never struct {
	Token lexer.Token
}

func (n *Never) expressionNode()      {}
func (n *Never) TokenLiteral() string { return n.Token.Literal }
func (n *Never) String() string       { return "never" }

// Identifier represents a name reference
type Identifier struct {
	Token lexer.Token // the IDENT token
	Value string
}

func (i *Identifier) expressionNode()      {}
func (i *Identifier) TokenLiteral() string { return i.Token.Literal }
func (i *Identifier) String() string       { return i.Value }

// NumberLiteral keeps the raw numeric text; integer or float is decided at
// evaluation.
type NumberLiteral struct {
	Token lexer.Token
	Value string
}

func (nl *NumberLiteral) expressionNode()      {}
func (nl *NumberLiteral) TokenLiteral() string { return nl.Token.Literal }
func (nl *NumberLiteral) String() string       { return nl.Value }

// StringLiteral represents "text"
type StringLiteral struct {
	Token lexer.Token
	Value string
}

func (sl *StringLiteral) expressionNode()      {}
func (sl *StringLiteral) TokenLiteral() string { return sl.Token.Literal }
func (sl *StringLiteral) String() string       { return quote(sl.Value) }

// Property is one entry of an object literal. A nil Value is the shorthand
// form `{ name }`, which reads the variable of the same name.
type Property struct {
	Token lexer.Token // the name token
	Name  string
	Value Expression
}

func (p *Property) String() string {
	if p.Value == nil {
		return p.Name
	}
	return p.Name + ": " + p.Value.String()
}

// ObjectLiteral represents `{ a: 1, b }`
type ObjectLiteral struct {
	Token      lexer.Token // the '{' token
	Properties []*Property
}

func (ol *ObjectLiteral) expressionNode()      {}
func (ol *ObjectLiteral) TokenLiteral() string { return ol.Token.Literal }
func (ol *ObjectLiteral) String() string {
	parts := make([]string, 0, len(ol.Properties))
	for _, p := range ol.Properties {
		parts = append(parts, p.String())
	}
	return "{" + strings.Join(parts, ", ") + "}"
}

func quote(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `"`, `\"`, "\n", `\n`, "\t", `\t`, "\r", `\r`)
	return `"` + r.Replace(s) + `"`
}
