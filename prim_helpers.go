package som

// Shared helpers used across the primitive_*.go files: extracting a native
// Go value from a heap object of an expected tag, and wrapping one back up.
// Centralizing these keeps every individual primitive body down to its
// actual arithmetic or string logic.

func (vm *VM) intValue(addr Address) (int64, bool) {
	v, ok := vm.Heap.Get(addr).Value.(int64)
	return v, ok
}

func (vm *VM) floatValue(addr Address) (float64, bool) {
	v, ok := vm.Heap.Get(addr).Value.(float64)
	return v, ok
}

func (vm *VM) stringValue(addr Address) (string, bool) {
	v, ok := vm.Heap.Get(addr).Value.(string)
	return v, ok
}

func (vm *VM) boolValue(addr Address) bool {
	return addr == vm.True
}

func (vm *VM) newInt(v int64) (Address, error) {
	return vm.Heap.Allocate(TagInteger, vm.IntegerClass, v)
}

func (vm *VM) newFloat(v float64) (Address, error) {
	return vm.Heap.Allocate(TagFloat, vm.FloatClass, v)
}

func (vm *VM) newString(v string) (Address, error) {
	return vm.Heap.Allocate(TagString, vm.StringClass, v)
}

func (vm *VM) newBool(v bool) Address {
	if v {
		return vm.True
	}
	return vm.False
}

// className returns the receiver's class's name, for error messages.
func (vm *VM) className(addr Address) string {
	return vm.classData(vm.classOf(addr)).Name
}
