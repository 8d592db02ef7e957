package som

// installBlockPrimitives installs Block's activation selectors. value,
// value:, and value:value: differ only in arity; whileTrue: is Block's
// half of the iteration pair with Boolean (the evaluator has no built-in
// loop construct, so looping is ordinary message sends).
func (vm *VM) installBlockPrimitives() {
	vm.installPrimitive(vm.BlockClass, "value", primBlockValue0)
	vm.installPrimitive(vm.BlockClass, "value:", primBlockValue1)
	vm.installPrimitive(vm.BlockClass, "value:value:", primBlockValue2)
	vm.installPrimitive(vm.BlockClass, "whileTrue:", primBlockWhileTrue)
}

func primBlockValue0(vm *VM, receiver Address, args []Address) (Address, error) {
	return vm.evalBlockValue(receiver, nil, invalidAddr)
}

func primBlockValue1(vm *VM, receiver Address, args []Address) (Address, error) {
	return vm.evalBlockValue(receiver, args, invalidAddr)
}

func primBlockValue2(vm *VM, receiver Address, args []Address) (Address, error) {
	return vm.evalBlockValue(receiver, args, invalidAddr)
}

// primBlockWhileTrue repeatedly activates receiver; as long as it answers
// true, it activates the body block in args[0]. Answering anything but
// true or false is a type mismatch.
func primBlockWhileTrue(vm *VM, receiver Address, args []Address) (Address, error) {
	for {
		cond, err := vm.evalBlockValue(receiver, nil, invalidAddr)
		if err != nil {
			return invalidAddr, err
		}
		switch cond {
		case vm.True:
		case vm.False:
			return vm.Nil, nil
		default:
			return invalidAddr, typeMismatch("Block", "whileTrue:", "Boolean")
		}
		if _, err := vm.evalBlockValue(args[0], nil, invalidAddr); err != nil {
			return invalidAddr, err
		}
	}
}
