package som

// installSymbolPrimitives installs the one operation Symbol adds on top of
// the read-only String operations it inherits (length, +, at:, asUppercase,
// ...): converting back to a plain, non-interned String. printString is
// also overridden, since a symbol prints as #name rather than bare text.
func (vm *VM) installSymbolPrimitives() {
	vm.installPrimitive(vm.SymbolClass, "asString", primSymbolAsString)
	vm.installPrimitive(vm.SymbolClass, "printString", primSymbolPrintString)
}

func primSymbolAsString(vm *VM, receiver Address, args []Address) (Address, error) {
	s, _ := vm.stringValue(receiver)
	return vm.newString(s)
}

func primSymbolPrintString(vm *VM, receiver Address, args []Address) (Address, error) {
	s, _ := vm.stringValue(receiver)
	return vm.newString("#" + s)
}
