package som

// classData is a small helper for the common case of fetching a class
// object's payload; it panics on a non-class address, which only ever
// indicates an internal bug (a corrupt Address reaching here is always a
// defect in the caller, not reportable user error).
func (vm *VM) classData(addr Address) *ClassData {
	return vm.Heap.Get(addr).Value.(*ClassData)
}

// newEmptyMethodDict allocates an empty method dictionary object.
func (vm *VM) newEmptyMethodDict() Address {
	addr, err := vm.Heap.Allocate(TagMethodDict, vm.ObjectClass, &MethodDictData{})
	if err != nil {
		panic(err)
	}
	return addr
}

// newClassShell allocates a bare Class object with an empty method
// dictionary but no superclass and no class pointer yet. Its callers
// (bootstrap and defineClass) set both once the surrounding graph exists.
func (vm *VM) newClassShell(name string, isMetaclass bool) Address {
	addr, err := vm.Heap.Allocate(TagClass, invalidAddr, &ClassData{Name: name, IsMetaclass: isMetaclass})
	if err != nil {
		panic(err)
	}
	vm.classData(addr).MethodDict = vm.newEmptyMethodDict()
	return addr
}

// defineClass allocates a fresh class/metaclass pair whose superclass is
// super (an already-installed class) and registers the class under name in
// the globals table. classVarNames become instance variables of the new
// metaclass, i.e. class-side instance variables ("class variables") of the
// new class itself; pass nil for a class with none. Used by both bootstrap
// (for the core data classes, always with no class variables) and the
// loader (for source-defined classes).
func (vm *VM) defineClass(name string, super Address, ivarNames, classVarNames []string) Address {
	superData := vm.classData(super)
	superMetaAddr := vm.classOf(super)
	superMeta := vm.classData(superMetaAddr)

	meta := vm.newClassShell(name+" class", true)
	md := vm.classData(meta)
	md.Super = superMetaAddr
	vm.Heap.Get(meta).Class = vm.MetaclassClass
	md.IVarNames = classVarNames
	md.IVarCount = superMeta.IVarCount + len(classVarNames)

	class := vm.newClassShell(name, false)
	cd := vm.classData(class)
	cd.Super = super
	vm.Heap.Get(class).Class = meta
	cd.IVarNames = ivarNames
	cd.IVarCount = superData.IVarCount + len(ivarNames)
	cd.ClassVars = make([]Address, md.IVarCount)
	for i := range cd.ClassVars {
		cd.ClassVars[i] = vm.Nil
	}

	vm.Globals[name] = class
	return class
}

// slotAt reads instance-variable slot index from self, whatever kind of
// object self is: a plain instance keeps its slots in an *ArrayData, while a
// Class object (self inside a class-side method) keeps its class-variable
// slots on its own ClassData.
func (vm *VM) slotAt(self Address, index int) Address {
	switch p := vm.Heap.Get(self).Value.(type) {
	case *ArrayData:
		return p.Elems[index]
	case *ClassData:
		return p.ClassVars[index]
	default:
		panic("som: instance variable access on an object with no slots")
	}
}

// setSlotAt writes instance-variable slot index on self. See slotAt.
func (vm *VM) setSlotAt(self Address, index int, value Address) {
	switch p := vm.Heap.Get(self).Value.(type) {
	case *ArrayData:
		p.Elems[index] = value
	case *ClassData:
		p.ClassVars[index] = value
	default:
		panic("som: instance variable access on an object with no slots")
	}
}

// lookupMethod walks startClass's superclass chain looking for selector
// (already interned). It returns the owning class, the method dictionary
// entry, and whether it was found — a miss is reported by the caller as
// DoesNotUnderstand, since only the caller knows the receiver's own class
// name for the error message.
func (vm *VM) lookupMethod(startClass Address, selector Address) (owner Address, entry MethodEntry, ok bool) {
	for c := startClass; c != invalidAddr; {
		dict := vm.Heap.Get(vm.classData(c).MethodDict).Value.(*MethodDictData)
		for _, e := range dict.Entries {
			if e.Selector == selector {
				return c, e, true
			}
		}
		c = vm.classData(c).Super
	}
	return invalidAddr, MethodEntry{}, false
}

// isKindOf reports whether class or one of its ancestors is target. It uses
// a plain loop rather than a cycle-safe set, matching the rest of the
// method-dictionary walk: the superclass chain is acyclic by construction.
// A metaclass chain ends at "Object class", whose Super is Class, whose
// chain ends at Object, whose Super is the invalid address. The cycles in
// the class graph run through header Class pointers, which this walk never
// follows.
func (vm *VM) isKindOf(class, target Address) bool {
	for c := class; c != invalidAddr; c = vm.classData(c).Super {
		if c == target {
			return true
		}
	}
	return false
}
