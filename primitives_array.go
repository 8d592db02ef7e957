package som

// installArrayPrimitives installs Array's core element access plus the
// domain-stack iteration supplements (do:, collect:, copyFrom:to:). new: is
// a class-side primitive, sent to the Array class itself rather than to an
// array instance, so it's installed on Array's metaclass.
func (vm *VM) installArrayPrimitives() {
	vm.installClassSidePrimitive(vm.ArrayClass, "new:", primArrayNewSize)
	vm.installPrimitive(vm.ArrayClass, "at:", primArrayAt)
	vm.installPrimitive(vm.ArrayClass, "at:put:", primArrayAtPut)
	vm.installPrimitive(vm.ArrayClass, "length", primArrayLength)
	vm.installPrimitive(vm.ArrayClass, "do:", primArrayDo)
	vm.installPrimitive(vm.ArrayClass, "collect:", primArrayCollect)
	vm.installPrimitive(vm.ArrayClass, "copyFrom:to:", primArrayCopyFromTo)
}

func primArrayNewSize(vm *VM, receiver Address, args []Address) (Address, error) {
	n, err := vm.intArg(args, 0, "new:")
	if err != nil {
		return invalidAddr, err
	}
	elems := make([]Address, n)
	for i := range elems {
		elems[i] = vm.Nil
	}
	return vm.Heap.Allocate(TagArray, vm.ArrayClass, &ArrayData{Elems: elems})
}

func (vm *VM) arrayData(addr Address) (*ArrayData, bool) {
	d, ok := vm.Heap.Get(addr).Value.(*ArrayData)
	return d, ok
}

func primArrayAt(vm *VM, receiver Address, args []Address) (Address, error) {
	d, ok := vm.arrayData(receiver)
	if !ok {
		return invalidAddr, typeMismatch("Array", "at:", "Array")
	}
	idx, err := vm.intArg(args, 0, "at:")
	if err != nil {
		return invalidAddr, err
	}
	if idx < 1 || int(idx) > len(d.Elems) {
		return invalidAddr, indexOutOfBounds("Array", "at:", int(idx), len(d.Elems))
	}
	return d.Elems[idx-1], nil
}

func primArrayAtPut(vm *VM, receiver Address, args []Address) (Address, error) {
	d, ok := vm.arrayData(receiver)
	if !ok {
		return invalidAddr, typeMismatch("Array", "at:put:", "Array")
	}
	idx, err := vm.intArg(args, 0, "at:put:")
	if err != nil {
		return invalidAddr, err
	}
	if idx < 1 || int(idx) > len(d.Elems) {
		return invalidAddr, indexOutOfBounds("Array", "at:put:", int(idx), len(d.Elems))
	}
	d.Elems[idx-1] = args[1]
	return args[1], nil
}

func primArrayLength(vm *VM, receiver Address, args []Address) (Address, error) {
	d, ok := vm.arrayData(receiver)
	if !ok {
		return invalidAddr, typeMismatch("Array", "length", "Array")
	}
	return vm.newInt(int64(len(d.Elems)))
}

func primArrayDo(vm *VM, receiver Address, args []Address) (Address, error) {
	d, ok := vm.arrayData(receiver)
	if !ok {
		return invalidAddr, typeMismatch("Array", "do:", "Array")
	}
	for _, e := range d.Elems {
		if _, err := vm.evalBlockValue(args[0], []Address{e}, invalidAddr); err != nil {
			return invalidAddr, err
		}
	}
	return receiver, nil
}

func primArrayCollect(vm *VM, receiver Address, args []Address) (Address, error) {
	d, ok := vm.arrayData(receiver)
	if !ok {
		return invalidAddr, typeMismatch("Array", "collect:", "Array")
	}
	out := make([]Address, len(d.Elems))
	for i, e := range d.Elems {
		v, err := vm.evalBlockValue(args[0], []Address{e}, invalidAddr)
		if err != nil {
			return invalidAddr, err
		}
		out[i] = v
	}
	return vm.Heap.Allocate(TagArray, vm.ArrayClass, &ArrayData{Elems: out})
}

func primArrayCopyFromTo(vm *VM, receiver Address, args []Address) (Address, error) {
	d, ok := vm.arrayData(receiver)
	if !ok {
		return invalidAddr, typeMismatch("Array", "copyFrom:to:", "Array")
	}
	from, err := vm.intArg(args, 0, "copyFrom:to:")
	if err != nil {
		return invalidAddr, err
	}
	to, err := vm.intArg(args, 1, "copyFrom:to:")
	if err != nil {
		return invalidAddr, err
	}
	if from < 1 || to > int64(len(d.Elems)) || from > to+1 {
		return invalidAddr, indexOutOfBounds("Array", "copyFrom:to:", int(from), len(d.Elems))
	}
	out := make([]Address, to-from+1)
	copy(out, d.Elems[from-1:to])
	return vm.Heap.Allocate(TagArray, vm.ArrayClass, &ArrayData{Elems: out})
}
