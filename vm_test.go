package som

import "testing"

func newTestVM(t *testing.T) *VM {
	t.Helper()
	return NewVM(0, nil)
}

func mustEval(t *testing.T, vm *VM, expr string) Address {
	t.Helper()
	addr, err := vm.EvalExpression(expr)
	if err != nil {
		t.Fatalf("EvalExpression(%q): %v", expr, err)
	}
	return addr
}

func TestEveryLiveObjectClassIsTagClass(t *testing.T) {
	vm := newTestVM(t)
	for _, class := range []Address{
		vm.ObjectClass, vm.IntegerClass, vm.FloatClass, vm.StringClass,
		vm.SymbolClass, vm.ArrayClass, vm.BlockClass, vm.BooleanClass,
		vm.TrueClass, vm.FalseClass, vm.NilClass, vm.SystemClass,
	} {
		addr := vm.classOf(class)
		if vm.Heap.Get(addr).Tag != TagClass {
			t.Errorf("classOf(%d) = %d, tag %v, want TagClass", class, addr, vm.Heap.Get(addr).Tag)
		}
	}
}

func TestSymbolInterningIdentity(t *testing.T) {
	vm := newTestVM(t)
	a := vm.Symbols.Intern("foo")
	b := vm.Symbols.Intern("foo")
	c := vm.Symbols.Intern("bar")
	if a != b {
		t.Errorf("Intern(foo) twice gave different addresses: %d, %d", a, b)
	}
	if a == c {
		t.Errorf("Intern(foo) and Intern(bar) gave the same address")
	}
}

func TestIntegerAddition(t *testing.T) {
	vm := newTestVM(t)
	addr := mustEval(t, vm, "3 + 4")
	v, ok := vm.intValue(addr)
	if !ok || v != 7 {
		t.Errorf("3 + 4 = %v (ok=%v), want 7", v, ok)
	}
}

func TestStringConcatenation(t *testing.T) {
	vm := newTestVM(t)
	addr := mustEval(t, vm, "'Hello, ' + 'World!'")
	s, ok := vm.stringValue(addr)
	if !ok || s != "Hello, World!" {
		t.Fatalf("got %q (ok=%v)", s, ok)
	}
	lenAddr, err := vm.Send(addr, "length", nil)
	if err != nil {
		t.Fatal(err)
	}
	n, _ := vm.intValue(lenAddr)
	if n != 13 {
		t.Errorf("length = %d, want 13", n)
	}
}

func TestCounterInstanceVariables(t *testing.T) {
	vm := newTestVM(t)
	src := `Counter = Object (
	| value |
	initialize = ( value := 0 )
	increment = ( value := value + 1. ^value )
)`
	class, err := vm.DoString(src)
	if err != nil {
		t.Fatal(err)
	}
	recv, err := vm.NewInstance(class)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := vm.Send(recv, "initialize", nil); err != nil {
		t.Fatal(err)
	}
	var last Address
	for i := 0; i < 3; i++ {
		last, err = vm.Send(recv, "increment", nil)
		if err != nil {
			t.Fatal(err)
		}
	}
	n, _ := vm.intValue(last)
	if n != 3 {
		t.Errorf("increment x3 = %d, want 3", n)
	}
}

func TestBlockValueValue(t *testing.T) {
	vm := newTestVM(t)
	addr := mustEval(t, vm, "[:x :y | x + y] value: 10 value: 32")
	n, ok := vm.intValue(addr)
	if !ok || n != 42 {
		t.Errorf("block value:value: = %v (ok=%v), want 42", n, ok)
	}
}

func TestNonLocalReturnFromBlock(t *testing.T) {
	vm := newTestVM(t)
	src := `Foo = Object (
	find = ( #(1 2 3 4) do: [:e | e = 3 ifTrue: [^e]]. ^0 )
)`
	class, err := vm.DoString(src)
	if err != nil {
		t.Fatal(err)
	}
	recv, err := vm.NewInstance(class)
	if err != nil {
		t.Fatal(err)
	}
	result, err := vm.Send(recv, "find", nil)
	if err != nil {
		t.Fatal(err)
	}
	n, ok := vm.intValue(result)
	if !ok || n != 3 {
		t.Errorf("find = %v (ok=%v), want 3 (non-local return should skip the fallthrough ^0)", n, ok)
	}
}

func TestPointSettersAndGetters(t *testing.T) {
	vm := newTestVM(t)
	src := `Point = Object (
	| x y |
	setX:a y:b = ( x := a. y := b. ^self )
	x = ( ^x )
)`
	class, err := vm.DoString(src)
	if err != nil {
		t.Fatal(err)
	}
	recv, err := vm.NewInstance(class)
	if err != nil {
		t.Fatal(err)
	}
	seven, _ := vm.newInt(7)
	nine, _ := vm.newInt(9)
	self, err := vm.Send(recv, "setX:y:", []Address{seven, nine})
	if err != nil {
		t.Fatal(err)
	}
	xAddr, err := vm.Send(self, "x", nil)
	if err != nil {
		t.Fatal(err)
	}
	n, _ := vm.intValue(xAddr)
	if n != 7 {
		t.Errorf("x = %d, want 7", n)
	}
}

func TestIntegerDivisionWidening(t *testing.T) {
	vm := newTestVM(t)

	inexact := mustEval(t, vm, "10 / 3")
	if vm.Heap.Get(inexact).Tag != TagFloat {
		t.Errorf("10 / 3 tag = %v, want TagFloat", vm.Heap.Get(inexact).Tag)
	}
	f, _ := vm.floatValue(inexact)
	if f < 3.333 || f > 3.334 {
		t.Errorf("10 / 3 = %v, want ~3.3333", f)
	}

	exact := mustEval(t, vm, "10 / 2")
	if vm.Heap.Get(exact).Tag != TagInteger {
		t.Errorf("10 / 2 tag = %v, want TagInteger", vm.Heap.Get(exact).Tag)
	}
	n, _ := vm.intValue(exact)
	if n != 5 {
		t.Errorf("10 / 2 = %d, want 5", n)
	}
}

func TestIntegerAsStringRoundTrip(t *testing.T) {
	vm := newTestVM(t)
	for _, n := range []int64{0, 1, -1, 42, 1 << 40} {
		addr, _ := vm.newInt(n)
		strAddr, err := vm.Send(addr, "asString", nil)
		if err != nil {
			t.Fatal(err)
		}
		backAddr, err := vm.Send(strAddr, "asInteger", nil)
		if err != nil {
			t.Fatal(err)
		}
		got, _ := vm.intValue(backAddr)
		if got != n {
			t.Errorf("%d asString asInteger = %d", n, got)
		}
	}
}

func TestArrayAtPutRoundTrip(t *testing.T) {
	vm := newTestVM(t)
	arr, err := vm.Heap.Allocate(TagArray, vm.ArrayClass, &ArrayData{Elems: []Address{vm.Nil, vm.Nil, vm.Nil}})
	if err != nil {
		t.Fatal(err)
	}
	v, _ := vm.newInt(99)
	idx, _ := vm.newInt(2)
	if _, err := vm.Send(arr, "at:put:", []Address{idx, v}); err != nil {
		t.Fatal(err)
	}
	got, err := vm.Send(arr, "at:", []Address{idx})
	if err != nil {
		t.Fatal(err)
	}
	if got != v {
		t.Errorf("at:put: then at: returned a different address")
	}
}

func TestBooleanIfTrueIfFalse(t *testing.T) {
	vm := newTestVM(t)
	tv := mustEval(t, vm, "true ifTrue: ['a'] ifFalse: ['b']")
	s, _ := vm.stringValue(tv)
	if s != "a" {
		t.Errorf("true ifTrue:ifFalse: = %q, want a", s)
	}
	fv := mustEval(t, vm, "false ifTrue: ['a'] ifFalse: ['b']")
	s, _ = vm.stringValue(fv)
	if s != "b" {
		t.Errorf("false ifTrue:ifFalse: = %q, want b", s)
	}
}

func TestBooleanNotNotIdentity(t *testing.T) {
	vm := newTestVM(t)
	for _, start := range []Address{vm.True, vm.False} {
		once, err := vm.Send(start, "not", nil)
		if err != nil {
			t.Fatal(err)
		}
		twice, err := vm.Send(once, "not", nil)
		if err != nil {
			t.Fatal(err)
		}
		if twice != start {
			t.Errorf("not not did not return the original boolean")
		}
	}
}

func TestIdentityEqualityImpliesEqualHash(t *testing.T) {
	vm := newTestVM(t)
	for _, addr := range []Address{vm.True, vm.False, vm.Nil, vm.IntegerClass} {
		eq, err := vm.Send(addr, "=", []Address{addr})
		if err != nil {
			t.Fatal(err)
		}
		if eq != vm.True {
			t.Errorf("x = x was not true for %d", addr)
		}
		h1, err := vm.Send(addr, "hash", nil)
		if err != nil {
			t.Fatal(err)
		}
		h2, err := vm.Send(addr, "hash", nil)
		if err != nil {
			t.Fatal(err)
		}
		v1, _ := vm.intValue(h1)
		v2, _ := vm.intValue(h2)
		if v1 != v2 {
			t.Errorf("hash was not stable across sends for %d", addr)
		}
	}
}

func TestSendArgumentCountMismatch(t *testing.T) {
	vm := newTestVM(t)
	one, _ := vm.newInt(1)
	_, err := vm.Send(one, "+", nil)
	if err == nil {
		t.Fatal("expected ArgumentCountMismatch, got nil")
	}
	var somErr *Error
	if !isSomError(err, &somErr) || somErr.Kind != ArgumentCountMismatch {
		t.Errorf("got %v, want ArgumentCountMismatch", err)
	}
}

func TestDoesNotUnderstand(t *testing.T) {
	vm := newTestVM(t)
	one, _ := vm.newInt(1)
	_, err := vm.Send(one, "frobnicate", nil)
	var somErr *Error
	if !isSomError(err, &somErr) || somErr.Kind != DoesNotUnderstand {
		t.Errorf("got %v, want DoesNotUnderstand", err)
	}
}

func isSomError(err error, target **Error) bool {
	e, ok := err.(*Error)
	if ok {
		*target = e
	}
	return ok
}

func TestGCCollectPreservesLiveValues(t *testing.T) {
	vm := newTestVM(t)
	class, err := vm.DoString(`Holder = Object ( | v | set: x = ( v := x. ^self ) get = ( ^v ) )`)
	if err != nil {
		t.Fatal(err)
	}
	recv, err := vm.NewInstance(class)
	if err != nil {
		t.Fatal(err)
	}
	payload, _ := vm.newInt(12345)
	if _, err := vm.Send(recv, "set:", []Address{payload}); err != nil {
		t.Fatal(err)
	}
	// Only Globals, interned symbols, and the live context chain are GC
	// roots; a plain Go-level reference to recv would not survive a
	// compaction, so it's parked in Globals for the duration of the test.
	vm.Globals["holder"] = recv
	vm.Collect()
	recv = vm.Globals["holder"]
	got, err := vm.Send(recv, "get", nil)
	if err != nil {
		t.Fatal(err)
	}
	n, ok := vm.intValue(got)
	if !ok || n != 12345 {
		t.Errorf("after Collect, get = %v (ok=%v), want 12345", n, ok)
	}
}
