package som

import "errors"

// Send resolves receiver's class and dispatches selector to it, exactly as
// a normal (non-super) message send from outside the evaluator would: the
// CLI launcher and RunMain both go through here.
func (vm *VM) Send(receiver Address, selector string, args []Address) (Address, error) {
	return vm.sendFrom(receiver, vm.classOf(receiver), selector, args, invalidAddr)
}

// classOf returns an object's class.
func (vm *VM) classOf(addr Address) Address {
	return vm.Heap.Get(addr).Class
}

// sendFrom performs the lookup-then-invoke sequence of the dispatch
// component, starting the superclass walk at startClass rather than always
// at the receiver's dynamic class — this is what makes super-sends work:
// the evaluator passes the defining class's superclass as startClass, while
// every other call site passes the receiver's own class.
func (vm *VM) sendFrom(receiver, startClass Address, selector string, args []Address, sender Address) (Address, error) {
	sym := vm.Symbols.Intern(selector)
	owner, entry, ok := vm.lookupMethod(startClass, sym)
	if !ok {
		return invalidAddr, doesNotUnderstand(vm.classData(vm.classOf(receiver)).Name, selector)
	}
	if entry.ArgCount != len(args) {
		return invalidAddr, argumentCountMismatch(vm.classData(owner).Name, selector, entry.ArgCount, len(args))
	}
	md := vm.Heap.Get(entry.Method).Value.(*MethodData)
	if entry.IsPrimitive {
		return md.Primitive(vm, receiver, args)
	}
	return vm.invokeSourceMethod(receiver, md, args, sender)
}

// invokeSourceMethod allocates a Context for md, pushes it onto the
// evaluator's activation stack, evaluates its body, and pops the context
// whether or not evaluation succeeded.
//
// A method with no explicit ^ returns self, matching the wider SOM family:
// only an explicit return (or a non-local return unwinding from a block
// this method spawned) produces anything else.
func (vm *VM) invokeSourceMethod(receiver Address, md *MethodData, args []Address, sender Address) (Address, error) {
	if len(vm.contexts) >= vm.maxStackDepth() {
		return invalidAddr, stackOverflow()
	}
	ctx, err := vm.newMethodContext(receiver, invalidAddr, md, args, sender)
	if err != nil {
		return invalidAddr, err
	}
	vm.pushContext(ctx)
	defer vm.popContext()

	_, err = vm.evalSequence(ctx, md.Body)
	vm.Heap.Get(ctx).Value.(*ContextData).Terminated = true

	var nlr *nonLocalReturn
	if errors.As(err, &nlr) {
		if nlr.home == ctx {
			return nlr.value, nil
		}
		return invalidAddr, err
	}
	if err != nil {
		vm.attachTrace(err)
		return invalidAddr, err
	}
	return receiver, nil
}

// nonLocalReturn is an internal control-flow signal, not a user-visible
// Error: evaluating `^ expr` inside a block body produces one of these
// instead of a plain value, and it propagates as a Go error up through
// every intervening evalSequence/evalBlockValue call until it reaches the
// method activation named by home — exactly the unwind-until-home-context
// mechanism the design notes describe. Only invokeSourceMethod for the
// matching home ever converts it back into an ordinary value.
type nonLocalReturn struct {
	home  Address
	value Address
}

func (e *nonLocalReturn) Error() string {
	return "non-local return in flight"
}
