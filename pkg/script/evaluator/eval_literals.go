package evaluator

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/swipelab/rune/pkg/script/ast"
)

// evalNumberLiteral reads a float when the text has a decimal point, an
// integer otherwise. Out-of-range literals are errors; text the tokenizer
// could not have produced is a fatal inconsistency.
func evalNumberLiteral(nl *ast.NumberLiteral, env *Environment) Object {
	if strings.Contains(nl.Value, ".") {
		f, err := strconv.ParseFloat(nl.Value, 64)
		if err != nil {
			return numberError(nl, err, env)
		}
		return &Float{Value: f}
	}

	i, err := strconv.ParseInt(nl.Value, 10, 64)
	if err != nil {
		return numberError(nl, err, env)
	}
	return &Integer{Value: i}
}

func numberError(nl *ast.NumberLiteral, err error, env *Environment) Object {
	if errors.Is(err, strconv.ErrRange) {
		return newStructuredError("OP-0003", nl.Token, env, map[string]any{"Literal": nl.Value})
	}
	panic(fmt.Sprintf("malformed number literal %q", nl.Value))
}

// evalObjectLiteral builds a fresh object, resolving shorthand properties
// by looking up the variable of the same name.
func evalObjectLiteral(ol *ast.ObjectLiteral, env *Environment) Object {
	pairs := make(map[string]Object, len(ol.Properties))

	for _, prop := range ol.Properties {
		var val Object
		if prop.Value == nil {
			v, ok := env.Get(prop.Name)
			if !ok {
				return undefinedError(&ast.Identifier{Token: prop.Token, Value: prop.Name}, env)
			}
			val = v
		} else {
			val = Eval(prop.Value, env)
			if halts(val) {
				return val
			}
		}
		pairs[prop.Name] = val
	}

	return &Dictionary{Pairs: pairs}
}

// evalMemberExpr reads obj.name or obj["name"] from an object.
func evalMemberExpr(me *ast.MemberExpr, env *Environment) Object {
	obj := Eval(me.Object, env)
	if halts(obj) {
		return obj
	}

	dict, ok := obj.(*Dictionary)
	if !ok {
		return newStructuredError("TYPE-0005", me.Token, env, map[string]any{"Got": typeName(obj)})
	}

	var key string
	if me.Computed {
		k := Eval(me.Property, env)
		if halts(k) {
			return k
		}
		s, ok := k.(*String)
		if !ok {
			return newStructuredError("TYPE-0006", ast.Start(me.Property), env,
				map[string]any{"Got": typeName(k)})
		}
		key = s.Value
	} else {
		key = me.Property.String()
	}

	val, ok := dict.Pairs[key]
	if !ok {
		return newStructuredError("UNDEF-0002", ast.Start(me.Property), env, map[string]any{"Name": key})
	}
	return val
}
