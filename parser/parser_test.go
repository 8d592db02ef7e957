package parser

import (
	"testing"

	"github.com/somlang/som/ast"
)

func mustParse(t *testing.T, src string) *ast.Program {
	t.Helper()
	p := New(src)
	prog, err := p.Parse()
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}
	return prog
}

func TestParseEmptyClass(t *testing.T) {
	prog := mustParse(t, `Foo = Object ( )`)
	if len(prog.Classes) != 1 {
		t.Fatalf("expected 1 class, got %d", len(prog.Classes))
	}
	cd := prog.Classes[0]
	if cd.Name != "Foo" || cd.Super != "Object" {
		t.Fatalf("got name=%q super=%q", cd.Name, cd.Super)
	}
}

func TestParseInstanceVarsAndMethod(t *testing.T) {
	src := `Counter = Object (
		| count |
		increment = ( count := count + 1. ^count )
	)`
	prog := mustParse(t, src)
	cd := prog.Classes[0]
	if len(cd.InstanceVarNames) != 1 || cd.InstanceVarNames[0] != "count" {
		t.Fatalf("bad instance vars: %v", cd.InstanceVarNames)
	}
	if len(cd.InstanceMethods) != 1 {
		t.Fatalf("expected 1 method, got %d", len(cd.InstanceMethods))
	}
	m := cd.InstanceMethods[0]
	if m.Selector != "increment" {
		t.Fatalf("got selector %q", m.Selector)
	}
	if len(m.Body.Statements) != 2 {
		t.Fatalf("expected 2 statements, got %d", len(m.Body.Statements))
	}
	if _, ok := m.Body.Statements[1].(*ast.Return); !ok {
		t.Fatalf("expected second statement to be a Return, got %T", m.Body.Statements[1])
	}
}

func TestParseClassSideMethods(t *testing.T) {
	src := `Point = Object (
		----
		| instances |
		new = ( ^super new )
	)`
	prog := mustParse(t, src)
	cd := prog.Classes[0]
	if len(cd.ClassVarNames) != 1 || cd.ClassVarNames[0] != "instances" {
		t.Fatalf("bad class vars: %v", cd.ClassVarNames)
	}
	if len(cd.ClassMethods) != 1 || cd.ClassMethods[0].Selector != "new" {
		t.Fatalf("bad class methods: %+v", cd.ClassMethods)
	}
	ret, ok := cd.ClassMethods[0].Body.Statements[0].(*ast.Return)
	if !ok {
		t.Fatalf("expected Return, got %T", cd.ClassMethods[0].Body.Statements[0])
	}
	send, ok := ret.Value.(*ast.Send)
	if !ok || !send.IsSuper || send.Selector != "new" {
		t.Fatalf("expected super new send, got %+v", ret.Value)
	}
}

func TestParseBinaryAndKeywordPrecedence(t *testing.T) {
	src := `Foo = Object (
		run = ( ^1 + 2 factorial max: 3 + 4 )
	)`
	prog := mustParse(t, src)
	m := prog.Classes[0].InstanceMethods[0]
	ret := m.Body.Statements[0].(*ast.Return)
	send := ret.Value.(*ast.Send)
	if send.Kind != ast.SendKeyword || send.Selector != "max:" {
		t.Fatalf("expected outer keyword send max:, got %+v", send)
	}
	lhs := send.Receiver.(*ast.Send)
	if lhs.Kind != ast.SendBinary || lhs.Selector != "+" {
		t.Fatalf("expected binary + receiver, got %+v", lhs)
	}
	rhsArg := lhs.Args[0].(*ast.Send)
	if rhsArg.Kind != ast.SendUnary || rhsArg.Selector != "factorial" {
		t.Fatalf("expected unary factorial on rhs of +, got %+v", rhsArg)
	}
}

func TestParseBlockLiteral(t *testing.T) {
	src := `Foo = Object (
		run = ( ^[ :x :y | x + y ] value: 1 value: 2 )
	)`
	prog := mustParse(t, src)
	m := prog.Classes[0].InstanceMethods[0]
	ret := m.Body.Statements[0].(*ast.Return)
	send := ret.Value.(*ast.Send)
	blk := send.Receiver.(*ast.Block)
	if len(blk.Params) != 2 || blk.Params[0] != "x" || blk.Params[1] != "y" {
		t.Fatalf("bad block params: %v", blk.Params)
	}
}

func TestParseArrayLiteral(t *testing.T) {
	src := `Foo = Object (
		run = ( ^#(1 2 3 'four' #five) )
	)`
	prog := mustParse(t, src)
	m := prog.Classes[0].InstanceMethods[0]
	ret := m.Body.Statements[0].(*ast.Return)
	lit := ret.Value.(*ast.Literal)
	if lit.Kind != ast.ArrayLiteral || len(lit.Elems) != 5 {
		t.Fatalf("bad array literal: %+v", lit)
	}
}

func TestParseMalformedMethodPatternErrors(t *testing.T) {
	p := New(`Foo = Object ( --- )`)
	_, err := p.Parse()
	if err == nil {
		t.Fatalf("expected a parse error for a malformed method pattern")
	}
}
