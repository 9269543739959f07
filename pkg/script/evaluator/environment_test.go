package evaluator

import (
	"fmt"
	"sync"
	"testing"

	"github.com/swipelab/rune/pkg/script/lexer"
	"github.com/swipelab/rune/pkg/script/parser"
)

func TestEnvironmentLookupWalksOutward(t *testing.T) {
	root := NewEnvironment()
	root.Declare("x", &Integer{Value: 1})
	root.Declare("y", &Integer{Value: 10})

	child := NewEnclosedEnvironment(root)
	child.Declare("x", &Integer{Value: 2})

	if v, _ := child.Get("x"); v.Inspect() != "2" {
		t.Errorf("child x = %s, want 2", v.Inspect())
	}
	if v, _ := child.Get("y"); v.Inspect() != "10" {
		t.Errorf("child y = %s, want 10", v.Inspect())
	}
	if v, _ := root.Get("x"); v.Inspect() != "1" {
		t.Errorf("root x = %s, want 1", v.Inspect())
	}
	if _, ok := child.Get("z"); ok {
		t.Error("z should be undefined")
	}
	if child.Outer() != root || root.Outer() != nil {
		t.Error("Outer() links are wrong")
	}
}

func TestEnvironmentDeclareOverwrites(t *testing.T) {
	env := NewEnvironment()
	env.Declare("a", &Integer{Value: 1})
	env.Declare("a", &String{Value: "two"})

	v, ok := env.Get("a")
	if !ok || v.Inspect() != "two" {
		t.Errorf("a = %v, want two", v)
	}
}

func TestEnvironmentAssign(t *testing.T) {
	root := NewEnvironment()
	root.Declare("n", &Integer{Value: 0})
	child := NewEnclosedEnvironment(root)

	child.Assign("n", &Integer{Value: 5})
	if v, _ := root.Get("n"); v.Inspect() != "5" {
		t.Errorf("root n = %s, want 5", v.Inspect())
	}
	if len(child.Names()) != 0 {
		t.Errorf("child should bind nothing, has %v", child.Names())
	}

	child.Assign("fresh", TRUE)
	if _, ok := root.Get("fresh"); ok {
		t.Error("an unbound name must be declared in the assigning environment")
	}
	if _, ok := child.Get("fresh"); !ok {
		t.Error("fresh should be bound in the child")
	}
}

func TestEnvironmentInheritsHostSettings(t *testing.T) {
	root := NewEnvironment()
	root.Filename = "x.rune"
	root.Logger = nil

	child := NewEnclosedEnvironment(root)
	if child.Filename != "x.rune" {
		t.Errorf("Filename = %q", child.Filename)
	}
	if child.Logger != nil {
		t.Error("Logger should be inherited")
	}
}

func TestAllIdentifiers(t *testing.T) {
	root := NewEnvironment()
	root.Declare("b", NEVER)
	root.Declare("a", NEVER)
	child := NewEnclosedEnvironment(root)
	child.Declare("c", NEVER)
	child.Declare("a", NEVER)

	got := child.AllIdentifiers()
	want := []string{"a", "b", "c"}
	if fmt.Sprint(got) != fmt.Sprint(want) {
		t.Errorf("AllIdentifiers() = %v, want %v", got, want)
	}
	if fmt.Sprint(child.Names()) != "[a c]" {
		t.Errorf("Names() = %v", child.Names())
	}
}

func TestEnvironmentConcurrentAccess(t *testing.T) {
	root := NewEnvironment()
	root.Declare("shared", &Integer{Value: 0})

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			child := NewEnclosedEnvironment(root)
			for j := 0; j < 100; j++ {
				name := fmt.Sprintf("v%d", i)
				child.Declare(name, &Integer{Value: int64(j)})
				child.Get(name)
				child.Get("shared")
				child.Assign("shared", &Integer{Value: int64(j)})
				root.AllIdentifiers()
			}
		}(i)
	}
	wg.Wait()

	if _, ok := root.Get("shared"); !ok {
		t.Error("shared binding lost")
	}
	if len(root.Names()) != 1 {
		t.Errorf("root gained bindings: %v", root.Names())
	}
}

func TestEvalFromConcurrentCallers(t *testing.T) {
	env := newTestEnv()
	testEvalIn(t, "fn fact(n){ if n == 0 { return 1; }; return n * fact(n - 1); }", env)

	program, err := parser.Parse(lexer.Tokenize("fact(10)"))
	if err != nil {
		t.Fatal(err)
	}

	var wg sync.WaitGroup
	results := make([]Object, 8)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i] = Eval(program, env)
		}(i)
	}
	wg.Wait()

	for i, r := range results {
		if !testIntegerObject(t, r, 3628800) {
			t.Errorf("caller %d", i)
		}
	}
}
