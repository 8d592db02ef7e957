package som

// installBooleanPrimitives installs the conditional and logical operators
// on Boolean itself; True and False both inherit them through the normal
// superclass dispatch walk, so there's no need to install separate copies
// on either subclass. Conditionals aren't evaluator built-ins: each one
// just activates the matching block argument.
func (vm *VM) installBooleanPrimitives() {
	vm.installPrimitive(vm.BooleanClass, "not", primBooleanNot)
	vm.installPrimitive(vm.BooleanClass, "ifTrue:", primBooleanIfTrue)
	vm.installPrimitive(vm.BooleanClass, "ifFalse:", primBooleanIfFalse)
	vm.installPrimitive(vm.BooleanClass, "ifTrue:ifFalse:", primBooleanIfTrueIfFalse)
	vm.installPrimitive(vm.BooleanClass, "and:", primBooleanAnd)
	vm.installPrimitive(vm.BooleanClass, "or:", primBooleanOr)
	vm.installPrimitive(vm.BooleanClass, "=", primBooleanEquals)
}

func primBooleanNot(vm *VM, receiver Address, args []Address) (Address, error) {
	return vm.newBool(receiver != vm.True), nil
}

func primBooleanIfTrue(vm *VM, receiver Address, args []Address) (Address, error) {
	if receiver == vm.True {
		return vm.evalBlockValue(args[0], nil, invalidAddr)
	}
	return vm.Nil, nil
}

func primBooleanIfFalse(vm *VM, receiver Address, args []Address) (Address, error) {
	if receiver == vm.False {
		return vm.evalBlockValue(args[0], nil, invalidAddr)
	}
	return vm.Nil, nil
}

func primBooleanIfTrueIfFalse(vm *VM, receiver Address, args []Address) (Address, error) {
	if receiver == vm.True {
		return vm.evalBlockValue(args[0], nil, invalidAddr)
	}
	return vm.evalBlockValue(args[1], nil, invalidAddr)
}

// primBooleanAnd short-circuits: args[0] is a block that is activated only
// when receiver is true; any other receiver answers false without running it.
func primBooleanAnd(vm *VM, receiver Address, args []Address) (Address, error) {
	if receiver != vm.True {
		return vm.False, nil
	}
	return vm.evalBlockValue(args[0], nil, invalidAddr)
}

func primBooleanOr(vm *VM, receiver Address, args []Address) (Address, error) {
	if receiver == vm.True {
		return vm.True, nil
	}
	return vm.evalBlockValue(args[0], nil, invalidAddr)
}

func primBooleanEquals(vm *VM, receiver Address, args []Address) (Address, error) {
	return vm.newBool(receiver == args[0]), nil
}
