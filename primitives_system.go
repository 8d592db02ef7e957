package som

import (
	"fmt"
	"os"
	"time"

	"github.com/somlang/som/internal/sysinfo"
)

// installSystemPrimitives installs the operations of the singleton System
// instance: stdout output, process exit, wall-clock time, host platform and
// recursion-budget probes, and a hook into the heap's mark-compact pass.
func (vm *VM) installSystemPrimitives() {
	vm.installPrimitive(vm.SystemClass, "printString:", primSystemPrintString)
	vm.installPrimitive(vm.SystemClass, "exit:", primSystemExit)
	vm.installPrimitive(vm.SystemClass, "time", primSystemTime)
	vm.installPrimitive(vm.SystemClass, "platform", primSystemPlatform)
	vm.installPrimitive(vm.SystemClass, "stackLimit", primSystemStackLimit)
	vm.installPrimitive(vm.SystemClass, "gcCollect", primSystemGCCollect)
}

func primSystemPrintString(vm *VM, receiver Address, args []Address) (Address, error) {
	s, ok := vm.stringValue(args[0])
	if !ok {
		return invalidAddr, typeMismatch("System", "printString:", "String")
	}
	fmt.Print(s)
	return receiver, nil
}

func primSystemExit(vm *VM, receiver Address, args []Address) (Address, error) {
	code, err := vm.intArg(args, 0, "exit:")
	if err != nil {
		return invalidAddr, err
	}
	os.Exit(int(code))
	return vm.Nil, nil
}

func primSystemTime(vm *VM, receiver Address, args []Address) (Address, error) {
	return vm.newInt(time.Now().UnixNano() / int64(time.Millisecond))
}

func primSystemPlatform(vm *VM, receiver Address, args []Address) (Address, error) {
	return vm.newString(sysinfo.Platform())
}

func primSystemStackLimit(vm *VM, receiver Address, args []Address) (Address, error) {
	bytes, _ := sysinfo.StackLimit()
	return vm.newInt(bytes)
}

func primSystemGCCollect(vm *VM, receiver Address, args []Address) (Address, error) {
	vm.Collect()
	return receiver, nil
}
