package som

import (
	"strconv"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// installStringPrimitives installs String's core operations plus the
// domain-stack supplements; asUppercase/asLowercase go through
// golang.org/x/text/cases rather than a hand-rolled ASCII loop.
func (vm *VM) installStringPrimitives() {
	vm.installPrimitive(vm.StringClass, "length", primStringLength)
	vm.installPrimitive(vm.StringClass, "+", primStringConcat)
	vm.installPrimitive(vm.StringClass, "=", primStringEquals)
	vm.installPrimitive(vm.StringClass, "printString", primStringPrintString)
	vm.installPrimitive(vm.StringClass, "asSymbol", primStringAsSymbol)
	vm.installPrimitive(vm.StringClass, "at:", primStringAt)
	vm.installPrimitive(vm.StringClass, "asUppercase", primStringAsUppercase)
	vm.installPrimitive(vm.StringClass, "asLowercase", primStringAsLowercase)
	vm.installPrimitive(vm.StringClass, "asInteger", primStringAsInteger)
	vm.installPrimitive(vm.StringClass, "reversed", primStringReversed)
	vm.installPrimitive(vm.StringClass, "indexOf:", primStringIndexOf)
	vm.installPrimitive(vm.StringClass, "hash", primStringHash)
}

func (vm *VM) strArg(args []Address, i int, selector string) (string, error) {
	v, ok := vm.stringValue(args[i])
	if !ok {
		return "", typeMismatch("String", selector, "String")
	}
	return v, nil
}

func primStringLength(vm *VM, receiver Address, args []Address) (Address, error) {
	s, _ := vm.stringValue(receiver)
	return vm.newInt(int64(len(s)))
}

func primStringConcat(vm *VM, receiver Address, args []Address) (Address, error) {
	s, _ := vm.stringValue(receiver)
	other, err := vm.strArg(args, 0, "+")
	if err != nil {
		return invalidAddr, err
	}
	return vm.newString(s + other)
}

func primStringEquals(vm *VM, receiver Address, args []Address) (Address, error) {
	s, _ := vm.stringValue(receiver)
	other, ok := vm.stringValue(args[0])
	return vm.newBool(ok && s == other), nil
}

func primStringPrintString(vm *VM, receiver Address, args []Address) (Address, error) {
	s, _ := vm.stringValue(receiver)
	return vm.newString(s)
}

func primStringAsSymbol(vm *VM, receiver Address, args []Address) (Address, error) {
	s, _ := vm.stringValue(receiver)
	return vm.Symbols.Intern(s), nil
}

// primStringAt implements 1-based character access, consistent with Array's
// 1-based indexing.
func primStringAt(vm *VM, receiver Address, args []Address) (Address, error) {
	s, _ := vm.stringValue(receiver)
	idx, err := vm.intArg(args, 0, "at:")
	if err != nil {
		return invalidAddr, err
	}
	if idx < 1 || int(idx) > len(s) {
		return invalidAddr, indexOutOfBounds("String", "at:", int(idx), len(s))
	}
	return vm.newString(string(s[idx-1]))
}

func primStringAsUppercase(vm *VM, receiver Address, args []Address) (Address, error) {
	s, _ := vm.stringValue(receiver)
	return vm.newString(cases.Upper(language.Und).String(s))
}

func primStringAsLowercase(vm *VM, receiver Address, args []Address) (Address, error) {
	s, _ := vm.stringValue(receiver)
	return vm.newString(cases.Lower(language.Und).String(s))
}

func primStringAsInteger(vm *VM, receiver Address, args []Address) (Address, error) {
	s, _ := vm.stringValue(receiver)
	n, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil {
		return vm.newInt(0)
	}
	return vm.newInt(n)
}

func primStringReversed(vm *VM, receiver Address, args []Address) (Address, error) {
	s, _ := vm.stringValue(receiver)
	b := []byte(s)
	for i, j := 0, len(b)-1; i < j; i, j = i+1, j-1 {
		b[i], b[j] = b[j], b[i]
	}
	return vm.newString(string(b))
}

// primStringIndexOf returns the 1-based index of the first occurrence of
// args[0] in receiver, or 0 if it doesn't occur.
func primStringIndexOf(vm *VM, receiver Address, args []Address) (Address, error) {
	s, _ := vm.stringValue(receiver)
	needle, err := vm.strArg(args, 0, "indexOf:")
	if err != nil {
		return invalidAddr, err
	}
	i := strings.Index(s, needle)
	if i < 0 {
		return vm.newInt(0)
	}
	return vm.newInt(int64(i + 1))
}

func primStringHash(vm *VM, receiver Address, args []Address) (Address, error) {
	s, _ := vm.stringValue(receiver)
	var h uint32
	for i := 0; i < len(s); i++ {
		h = h*31 + uint32(s[i])
	}
	return vm.newInt(int64(h))
}
