package som

// installClassPrimitives installs the methods every class object responds
// to (sent to the class itself, not its instances): these live on
// vm.ClassClass, which every metaclass's superclass chain passes through.
func (vm *VM) installClassPrimitives() {
	vm.installPrimitive(vm.ClassClass, "new", primClassNew)
	vm.installPrimitive(vm.ClassClass, "name", primClassName)
	vm.installPrimitive(vm.ClassClass, "superclass", primClassSuperclass)
	vm.installPrimitive(vm.ClassClass, "instanceCount", primClassInstanceCount)
	vm.installPrimitive(vm.ClassClass, "comment:", primClassComment)
}

func primClassNew(vm *VM, receiver Address, args []Address) (Address, error) {
	return vm.NewInstance(receiver)
}

func primClassName(vm *VM, receiver Address, args []Address) (Address, error) {
	return vm.newString(vm.classData(receiver).Name)
}

func primClassSuperclass(vm *VM, receiver Address, args []Address) (Address, error) {
	super := vm.classData(receiver).Super
	if super == invalidAddr {
		return vm.Nil, nil
	}
	return super, nil
}

func primClassInstanceCount(vm *VM, receiver Address, args []Address) (Address, error) {
	return vm.newInt(int64(vm.classData(receiver).InstanceCount))
}

func primClassComment(vm *VM, receiver Address, args []Address) (Address, error) {
	text, ok := vm.stringValue(args[0])
	if !ok {
		return invalidAddr, typeMismatch("Class", "comment:", "String")
	}
	vm.classData(receiver).Comment = text
	return receiver, nil
}
