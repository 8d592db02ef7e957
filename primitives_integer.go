package som

import (
	"math"
	"strconv"
)

// installIntegerPrimitives installs Integer's arithmetic, comparison, and
// the supplemented primitives from the domain stack (%, min:, max:, to:do:,
// asFloat, sqrt, timesRepeat:). Division by a divisor that doesn't evenly
// divide the receiver promotes the result to Float rather than truncating,
// per the Float variant's widening note.
func (vm *VM) installIntegerPrimitives() {
	vm.installPrimitive(vm.IntegerClass, "+", primIntegerAdd)
	vm.installPrimitive(vm.IntegerClass, "-", primIntegerSub)
	vm.installPrimitive(vm.IntegerClass, "*", primIntegerMul)
	vm.installPrimitive(vm.IntegerClass, "/", primIntegerDiv)
	vm.installPrimitive(vm.IntegerClass, "%", primIntegerMod)
	vm.installPrimitive(vm.IntegerClass, "<", primIntegerLess)
	vm.installPrimitive(vm.IntegerClass, ">", primIntegerGreater)
	vm.installPrimitive(vm.IntegerClass, "=", primIntegerEquals)
	vm.installPrimitive(vm.IntegerClass, "min:", primIntegerMin)
	vm.installPrimitive(vm.IntegerClass, "max:", primIntegerMax)
	vm.installPrimitive(vm.IntegerClass, "to:do:", primIntegerToDo)
	vm.installPrimitive(vm.IntegerClass, "timesRepeat:", primIntegerTimesRepeat)
	vm.installPrimitive(vm.IntegerClass, "asFloat", primIntegerAsFloat)
	vm.installPrimitive(vm.IntegerClass, "asString", primIntegerAsString)
	vm.installPrimitive(vm.IntegerClass, "printString", primIntegerAsString)
	vm.installPrimitive(vm.IntegerClass, "sqrt", primIntegerSqrt)
	vm.installPrimitive(vm.IntegerClass, "hash", primIntegerHash)
}

func (vm *VM) intArg(args []Address, i int, selector string) (int64, error) {
	v, ok := vm.intValue(args[i])
	if !ok {
		return 0, typeMismatch("Integer", selector, "Integer")
	}
	return v, nil
}

func primIntegerAdd(vm *VM, receiver Address, args []Address) (Address, error) {
	a, _ := vm.intValue(receiver)
	b, err := vm.intArg(args, 0, "+")
	if err != nil {
		return invalidAddr, err
	}
	return vm.newInt(a + b)
}

func primIntegerSub(vm *VM, receiver Address, args []Address) (Address, error) {
	a, _ := vm.intValue(receiver)
	b, err := vm.intArg(args, 0, "-")
	if err != nil {
		return invalidAddr, err
	}
	return vm.newInt(a - b)
}

func primIntegerMul(vm *VM, receiver Address, args []Address) (Address, error) {
	a, _ := vm.intValue(receiver)
	b, err := vm.intArg(args, 0, "*")
	if err != nil {
		return invalidAddr, err
	}
	return vm.newInt(a * b)
}

// primIntegerDiv implements exact-division-stays-Integer: the quotient is
// an Integer when b evenly divides a, and a Float otherwise.
func primIntegerDiv(vm *VM, receiver Address, args []Address) (Address, error) {
	a, _ := vm.intValue(receiver)
	b, err := vm.intArg(args, 0, "/")
	if err != nil {
		return invalidAddr, err
	}
	if b == 0 {
		return invalidAddr, divisionByZero("Integer", "/")
	}
	if a%b == 0 {
		return vm.newInt(a / b)
	}
	return vm.newFloat(float64(a) / float64(b))
}

func primIntegerMod(vm *VM, receiver Address, args []Address) (Address, error) {
	a, _ := vm.intValue(receiver)
	b, err := vm.intArg(args, 0, "%")
	if err != nil {
		return invalidAddr, err
	}
	if b == 0 {
		return invalidAddr, divisionByZero("Integer", "%")
	}
	return vm.newInt(a % b)
}

func primIntegerLess(vm *VM, receiver Address, args []Address) (Address, error) {
	a, _ := vm.intValue(receiver)
	b, err := vm.intArg(args, 0, "<")
	if err != nil {
		return invalidAddr, err
	}
	return vm.newBool(a < b), nil
}

func primIntegerGreater(vm *VM, receiver Address, args []Address) (Address, error) {
	a, _ := vm.intValue(receiver)
	b, err := vm.intArg(args, 0, ">")
	if err != nil {
		return invalidAddr, err
	}
	return vm.newBool(a > b), nil
}

func primIntegerEquals(vm *VM, receiver Address, args []Address) (Address, error) {
	a, _ := vm.intValue(receiver)
	b, ok := vm.intValue(args[0])
	return vm.newBool(ok && a == b), nil
}

func primIntegerMin(vm *VM, receiver Address, args []Address) (Address, error) {
	a, _ := vm.intValue(receiver)
	b, err := vm.intArg(args, 0, "min:")
	if err != nil {
		return invalidAddr, err
	}
	if a < b {
		return vm.newInt(a)
	}
	return vm.newInt(b)
}

func primIntegerMax(vm *VM, receiver Address, args []Address) (Address, error) {
	a, _ := vm.intValue(receiver)
	b, err := vm.intArg(args, 0, "max:")
	if err != nil {
		return invalidAddr, err
	}
	if a > b {
		return vm.newInt(a)
	}
	return vm.newInt(b)
}

// primIntegerToDo activates block once per integer from receiver through
// the stop argument inclusive, passing the counter as its sole parameter.
func primIntegerToDo(vm *VM, receiver Address, args []Address) (Address, error) {
	start, _ := vm.intValue(receiver)
	stop, err := vm.intArg(args, 0, "to:do:")
	if err != nil {
		return invalidAddr, err
	}
	for i := start; i <= stop; i++ {
		n, err := vm.newInt(i)
		if err != nil {
			return invalidAddr, err
		}
		if _, err := vm.evalBlockValue(args[1], []Address{n}, invalidAddr); err != nil {
			return invalidAddr, err
		}
	}
	return receiver, nil
}

func primIntegerTimesRepeat(vm *VM, receiver Address, args []Address) (Address, error) {
	n, _ := vm.intValue(receiver)
	for i := int64(0); i < n; i++ {
		if _, err := vm.evalBlockValue(args[0], nil, invalidAddr); err != nil {
			return invalidAddr, err
		}
	}
	return receiver, nil
}

func primIntegerAsFloat(vm *VM, receiver Address, args []Address) (Address, error) {
	v, _ := vm.intValue(receiver)
	return vm.newFloat(float64(v))
}

func primIntegerAsString(vm *VM, receiver Address, args []Address) (Address, error) {
	v, _ := vm.intValue(receiver)
	return vm.newString(strconv.FormatInt(v, 10))
}

func primIntegerSqrt(vm *VM, receiver Address, args []Address) (Address, error) {
	v, _ := vm.intValue(receiver)
	return vm.newFloat(math.Sqrt(float64(v)))
}

func primIntegerHash(vm *VM, receiver Address, args []Address) (Address, error) {
	v, _ := vm.intValue(receiver)
	return vm.newInt(v)
}
