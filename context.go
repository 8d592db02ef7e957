package som

import "github.com/somlang/som/ast"

// newMethodContext allocates a Context for a source-method activation:
// self bound, parameter slots filled from args, local slots initialized to
// Nil. Its Home is itself (method contexts are their own home, per the
// non-local-return design note), and it has no lexical outer.
func (vm *VM) newMethodContext(self, methodAddr Address, md *MethodData, args []Address, sender Address) (Address, error) {
	slots := make([]Address, len(md.Params)+len(md.Locals))
	copy(slots, args)
	for i := len(md.Params); i < len(slots); i++ {
		slots[i] = vm.Nil
	}
	vm.nextActivationID++
	data := &ContextData{
		Self:          self,
		DefiningClass: md.DefiningClass,
		Slots:         slots,
		Sender:        sender,
		ActivationID:  vm.nextActivationID,
		Selector:      md.Selector,
	}
	addr, err := vm.Heap.Allocate(TagContext, vm.ObjectClass, data)
	if err != nil {
		return invalidAddr, err
	}
	vm.Heap.Get(addr).Value.(*ContextData).Home = addr
	return addr, nil
}

// newBlockContext allocates a Context for one activation of a block: it
// shares self and DefiningClass with outerCtx (so super-sends and self
// inside the block resolve exactly as they would in the enclosing method),
// points Outer at outerCtx for lexical variable capture, and inherits Home
// from the block's captured home context so a non-local return inside it
// still targets the right method activation.
func (vm *VM) newBlockContext(block *BlockData, args []Address, sender Address) (Address, error) {
	outer := vm.Heap.Get(block.Outer).Value.(*ContextData)
	slots := make([]Address, len(block.Node.Params)+len(block.Node.Body.Locals))
	copy(slots, args)
	for i := len(block.Node.Params); i < len(slots); i++ {
		slots[i] = vm.Nil
	}
	vm.nextActivationID++
	data := &ContextData{
		Self:          outer.Self,
		DefiningClass: outer.DefiningClass,
		Slots:         slots,
		Outer:         block.Outer,
		Sender:        sender,
		Home:          block.Home,
		ActivationID:  vm.nextActivationID,
		Selector:      outer.Selector,
	}
	return vm.Heap.Allocate(TagContext, vm.ObjectClass, data)
}

// resolveHome returns the context a block literal captures as its Home: the
// nearest enclosing method context. A method context is its own home; a
// block context forwards to the home it was given at its own creation.
func (vm *VM) resolveHome(ctx Address) Address {
	c := vm.Heap.Get(ctx).Value.(*ContextData)
	if c.Home != invalidAddr {
		return c.Home
	}
	return ctx
}

// readVar reads the value a resolved *ast.Variable refers to, given the
// currently executing context.
func (vm *VM) readVar(ctx Address, v *ast.Variable) (Address, error) {
	switch v.Kind {
	case ast.Parameter, ast.Local:
		c := vm.walkOuter(ctx, v.Depth)
		return vm.Heap.Get(c).Value.(*ContextData).Slots[v.Index], nil
	case ast.InstanceVar:
		c := vm.Heap.Get(ctx).Value.(*ContextData)
		return vm.slotAt(c.Self, v.Index), nil
	case ast.SelfVar:
		return vm.Heap.Get(ctx).Value.(*ContextData).Self, nil
	case ast.Global:
		if a, ok := vm.Globals[v.Name]; ok {
			return a, nil
		}
		return invalidAddr, undefinedGlobal(v.Name)
	default:
		return invalidAddr, undefinedGlobal(v.Name)
	}
}

// writeVar writes value into the slot a resolved *ast.Variable refers to.
func (vm *VM) writeVar(ctx Address, v *ast.Variable, value Address) error {
	switch v.Kind {
	case ast.Parameter, ast.Local:
		c := vm.walkOuter(ctx, v.Depth)
		vm.Heap.Get(c).Value.(*ContextData).Slots[v.Index] = value
		return nil
	case ast.InstanceVar:
		c := vm.Heap.Get(ctx).Value.(*ContextData)
		vm.setSlotAt(c.Self, v.Index, value)
		return nil
	case ast.Global:
		vm.Globals[v.Name] = value
		return nil
	default:
		return undefinedGlobal(v.Name)
	}
}

// superStartClass returns the class a super-send from within ctx should
// begin its method lookup at: the superclass of the class the currently
// executing method was installed on, not the receiver's dynamic class.
func (vm *VM) superStartClass(ctx Address) Address {
	c := vm.Heap.Get(ctx).Value.(*ContextData)
	return vm.classData(c.DefiningClass).Super
}

// walkOuter follows a context's Outer chain depth times, to reach the
// binding a captured block variable refers to.
func (vm *VM) walkOuter(ctx Address, depth int) Address {
	for i := 0; i < depth; i++ {
		ctx = vm.Heap.Get(ctx).Value.(*ContextData).Outer
	}
	return ctx
}
