package som

import (
	"math"
	"strconv"
)

// installFloatPrimitives installs Float's arithmetic and the conversions
// listed in the domain stack (sqrt, floor, ceiling, asInteger, printString),
// plus comparison and hash so Float participates in the same equality/hash
// invariant as every other value type.
func (vm *VM) installFloatPrimitives() {
	vm.installPrimitive(vm.FloatClass, "+", primFloatAdd)
	vm.installPrimitive(vm.FloatClass, "-", primFloatSub)
	vm.installPrimitive(vm.FloatClass, "*", primFloatMul)
	vm.installPrimitive(vm.FloatClass, "/", primFloatDiv)
	vm.installPrimitive(vm.FloatClass, "<", primFloatLess)
	vm.installPrimitive(vm.FloatClass, ">", primFloatGreater)
	vm.installPrimitive(vm.FloatClass, "=", primFloatEquals)
	vm.installPrimitive(vm.FloatClass, "sqrt", primFloatSqrt)
	vm.installPrimitive(vm.FloatClass, "floor", primFloatFloor)
	vm.installPrimitive(vm.FloatClass, "ceiling", primFloatCeiling)
	vm.installPrimitive(vm.FloatClass, "asInteger", primFloatAsInteger)
	vm.installPrimitive(vm.FloatClass, "printString", primFloatPrintString)
	vm.installPrimitive(vm.FloatClass, "hash", primFloatHash)
}

func (vm *VM) floatArg(args []Address, i int, selector string) (float64, error) {
	if v, ok := vm.floatValue(args[i]); ok {
		return v, nil
	}
	if v, ok := vm.intValue(args[i]); ok {
		return float64(v), nil
	}
	return 0, typeMismatch("Float", selector, "Float")
}

func primFloatAdd(vm *VM, receiver Address, args []Address) (Address, error) {
	a, _ := vm.floatValue(receiver)
	b, err := vm.floatArg(args, 0, "+")
	if err != nil {
		return invalidAddr, err
	}
	return vm.newFloat(a + b)
}

func primFloatSub(vm *VM, receiver Address, args []Address) (Address, error) {
	a, _ := vm.floatValue(receiver)
	b, err := vm.floatArg(args, 0, "-")
	if err != nil {
		return invalidAddr, err
	}
	return vm.newFloat(a - b)
}

func primFloatMul(vm *VM, receiver Address, args []Address) (Address, error) {
	a, _ := vm.floatValue(receiver)
	b, err := vm.floatArg(args, 0, "*")
	if err != nil {
		return invalidAddr, err
	}
	return vm.newFloat(a * b)
}

func primFloatDiv(vm *VM, receiver Address, args []Address) (Address, error) {
	a, _ := vm.floatValue(receiver)
	b, err := vm.floatArg(args, 0, "/")
	if err != nil {
		return invalidAddr, err
	}
	if b == 0 {
		return invalidAddr, divisionByZero("Float", "/")
	}
	return vm.newFloat(a / b)
}

func primFloatLess(vm *VM, receiver Address, args []Address) (Address, error) {
	a, _ := vm.floatValue(receiver)
	b, err := vm.floatArg(args, 0, "<")
	if err != nil {
		return invalidAddr, err
	}
	return vm.newBool(a < b), nil
}

func primFloatGreater(vm *VM, receiver Address, args []Address) (Address, error) {
	a, _ := vm.floatValue(receiver)
	b, err := vm.floatArg(args, 0, ">")
	if err != nil {
		return invalidAddr, err
	}
	return vm.newBool(a > b), nil
}

func primFloatEquals(vm *VM, receiver Address, args []Address) (Address, error) {
	a, _ := vm.floatValue(receiver)
	b, err := vm.floatArg(args, 0, "=")
	if err != nil {
		return vm.newBool(false), nil
	}
	return vm.newBool(a == b), nil
}

func primFloatSqrt(vm *VM, receiver Address, args []Address) (Address, error) {
	a, _ := vm.floatValue(receiver)
	return vm.newFloat(math.Sqrt(a))
}

func primFloatFloor(vm *VM, receiver Address, args []Address) (Address, error) {
	a, _ := vm.floatValue(receiver)
	return vm.newFloat(math.Floor(a))
}

func primFloatCeiling(vm *VM, receiver Address, args []Address) (Address, error) {
	a, _ := vm.floatValue(receiver)
	return vm.newFloat(math.Ceil(a))
}

func primFloatAsInteger(vm *VM, receiver Address, args []Address) (Address, error) {
	a, _ := vm.floatValue(receiver)
	return vm.newInt(int64(a))
}

func primFloatPrintString(vm *VM, receiver Address, args []Address) (Address, error) {
	a, _ := vm.floatValue(receiver)
	return vm.newString(strconv.FormatFloat(a, 'g', -1, 64))
}

func primFloatHash(vm *VM, receiver Address, args []Address) (Address, error) {
	a, _ := vm.floatValue(receiver)
	// An integral Float compares equal to the Integer of the same value, so
	// it hashes the way Integer>>hash does.
	if math.Trunc(a) == a && math.Abs(a) < 1<<63 {
		return vm.newInt(int64(a))
	}
	return vm.newInt(int64(math.Float64bits(a)))
}
