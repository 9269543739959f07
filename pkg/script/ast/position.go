package ast

import "github.com/swipelab/rune/pkg/script/lexer"

// Start returns the leftmost token of e, used to position diagnostics.
func Start(e Expression) lexer.Token {
	switch n := e.(type) {
	case *BinaryExpr:
		return Start(n.Left)
	case *AssignExpr:
		return Start(n.Target)
	case *EqExpr:
		return Start(n.Left)
	case *NotEqExpr:
		return Start(n.Left)
	case *MemberExpr:
		return Start(n.Object)
	case *CallExpr:
		return Start(n.Callee)
	case *VarDecl:
		return n.Token
	case *FnDecl:
		return n.Token
	case *UnaryExpr:
		return n.Token
	case *IfExpr:
		return n.Token
	case *Body:
		return n.Token
	case *Loop:
		return n.Token
	case *Break:
		return n.Token
	case *Return:
		return n.Token
	case *Never:
		return n.Token
	case *Identifier:
		return n.Token
	case *NumberLiteral:
		return n.Token
	case *StringLiteral:
		return n.Token
	case *ObjectLiteral:
		return n.Token
	default:
		return lexer.Token{}
	}
}
