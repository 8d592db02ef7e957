package som

import "fmt"

// installObjectPrimitives installs the methods every object inherits unless
// its own class overrides them: identity, default printing, reflection.
func (vm *VM) installObjectPrimitives() {
	vm.installPrimitive(vm.ObjectClass, "class", primObjectClass)
	vm.installPrimitive(vm.ObjectClass, "==", primObjectIdentityEquals)
	vm.installPrimitive(vm.ObjectClass, "=", primObjectIdentityEquals)
	vm.installPrimitive(vm.ObjectClass, "hash", primObjectHash)
	vm.installPrimitive(vm.ObjectClass, "printString", primObjectPrintString)
	vm.installPrimitive(vm.ObjectClass, "println", primObjectPrintln)
	vm.installPrimitive(vm.ObjectClass, "perform:", primObjectPerform)
	vm.installPrimitive(vm.ObjectClass, "perform:with:", primObjectPerformWith)
	vm.installPrimitive(vm.ObjectClass, "isKindOf:", primObjectIsKindOf)
	vm.installPrimitive(vm.ObjectClass, "respondsTo:", primObjectRespondsTo)
}

func primObjectClass(vm *VM, receiver Address, args []Address) (Address, error) {
	return vm.classOf(receiver), nil
}

func primObjectIdentityEquals(vm *VM, receiver Address, args []Address) (Address, error) {
	return vm.newBool(receiver == args[0]), nil
}

func primObjectHash(vm *VM, receiver Address, args []Address) (Address, error) {
	return vm.newInt(int64(vm.Heap.Get(receiver).Hash))
}

// printStringOf renders addr the way Object>>printString does by default:
// "a ClassName" (or "an ClassName" before a vowel). Classes with a more
// specific rendering (Integer, String, ...) install their own printString
// primitive, which shadows this one in their own method dictionary.
func (vm *VM) printStringOf(addr Address) string {
	name := vm.className(addr)
	article := "a"
	if len(name) > 0 {
		switch name[0] {
		case 'A', 'E', 'I', 'O', 'U':
			article = "an"
		}
	}
	return fmt.Sprintf("%s %s", article, name)
}

func primObjectPrintString(vm *VM, receiver Address, args []Address) (Address, error) {
	return vm.newString(vm.printStringOf(receiver))
}

func primObjectPrintln(vm *VM, receiver Address, args []Address) (Address, error) {
	s, err := vm.sendFrom(receiver, vm.classOf(receiver), "printString", nil, invalidAddr)
	if err != nil {
		return invalidAddr, err
	}
	text, ok := vm.stringValue(s)
	if !ok {
		text = vm.printStringOf(receiver)
	}
	fmt.Println(text)
	return receiver, nil
}

func primObjectPerform(vm *VM, receiver Address, args []Address) (Address, error) {
	selector, ok := vm.stringValue(args[0])
	if !ok {
		return invalidAddr, typeMismatch(vm.className(receiver), "perform:", "Symbol")
	}
	return vm.Send(receiver, selector, nil)
}

func primObjectPerformWith(vm *VM, receiver Address, args []Address) (Address, error) {
	selector, ok := vm.stringValue(args[0])
	if !ok {
		return invalidAddr, typeMismatch(vm.className(receiver), "perform:with:", "Symbol")
	}
	return vm.Send(receiver, selector, args[1:2])
}

func primObjectIsKindOf(vm *VM, receiver Address, args []Address) (Address, error) {
	return vm.newBool(vm.isKindOf(vm.classOf(receiver), args[0])), nil
}

func primObjectRespondsTo(vm *VM, receiver Address, args []Address) (Address, error) {
	selector, ok := vm.stringValue(args[0])
	if !ok {
		return invalidAddr, typeMismatch(vm.className(receiver), "respondsTo:", "Symbol")
	}
	sym := vm.Symbols.Intern(selector)
	_, _, found := vm.lookupMethod(vm.classOf(receiver), sym)
	return vm.newBool(found), nil
}
