package som

// bootstrap constructs the initial class graph in the order the component
// design's class-graph section requires, without ever sending a message —
// there is no dispatch yet, so every step here is a direct field write.
//
// Step 1 of that order ("a reserved, non-zero sentinel for nil") is free in
// this implementation: Address's Go zero value already is the sentinel
// (invalidAddr), and every instance slot starts out holding it before
// NewInstance and the class installer ever run. There is nothing to patch
// later beyond pointing vm.Nil at the real Nil singleton once it exists,
// which step 4 below does.
func (vm *VM) bootstrap() {
	vm.bootstrapClassLoop()
	vm.bootstrapSingletons()
	vm.bootstrapCoreClasses()
}

// bootstrapClassLoop allocates Object, Class, and Metaclass together with
// their paired metaclasses, and wires the class/metaclass cycle: instance-of
// X is "X class"; "X class" is an instance of Metaclass; Metaclass's class
// is "Metaclass class", whose own class is Metaclass, closing the loop.
func (vm *VM) bootstrapClassLoop() {
	objectClass := vm.newClassShell("Object", false)
	objectMeta := vm.newClassShell("Object class", true)
	classClass := vm.newClassShell("Class", false)
	classMeta := vm.newClassShell("Class class", true)
	metaclassClass := vm.newClassShell("Metaclass", false)
	metaclassMeta := vm.newClassShell("Metaclass class", true)

	vm.classData(objectClass).Super = invalidAddr
	vm.classData(objectMeta).Super = classClass
	vm.classData(classClass).Super = objectClass
	vm.classData(classMeta).Super = objectMeta
	vm.classData(metaclassClass).Super = classClass
	vm.classData(metaclassMeta).Super = classMeta

	vm.Heap.Get(objectClass).Class = objectMeta
	vm.Heap.Get(classClass).Class = classMeta
	vm.Heap.Get(metaclassClass).Class = metaclassMeta
	vm.Heap.Get(objectMeta).Class = metaclassClass
	vm.Heap.Get(classMeta).Class = metaclassClass
	vm.Heap.Get(metaclassMeta).Class = metaclassClass

	// Patch every method dictionary's header Class field, which
	// newEmptyMethodDict left at the invalid sentinel because Object didn't
	// exist yet when the six shells above were allocated.
	for _, c := range []Address{objectClass, objectMeta, classClass, classMeta, metaclassClass, metaclassMeta} {
		vm.Heap.Get(vm.classData(c).MethodDict).Class = objectClass
	}

	vm.ObjectClass = objectClass
	vm.ClassClass = classClass
	vm.MetaclassClass = metaclassClass

	vm.Globals["Object"] = objectClass
	vm.Globals["Class"] = classClass
	vm.Globals["Metaclass"] = metaclassClass
}

// bootstrapSingletons creates nil, true, and false. They must exist before
// any instance slot can be meaningfully read as "the real nil" rather than
// the zero-value sentinel, and before any core-class primitive that might
// return one of them runs.
func (vm *VM) bootstrapSingletons() {
	vm.NilClass = vm.defineClass("Nil", vm.ObjectClass, nil, nil)
	vm.BooleanClass = vm.defineClass("Boolean", vm.ObjectClass, nil, nil)
	vm.TrueClass = vm.defineClass("True", vm.BooleanClass, nil, nil)
	vm.FalseClass = vm.defineClass("False", vm.BooleanClass, nil, nil)

	var err error
	vm.Nil, err = vm.Heap.Allocate(TagNil, vm.NilClass, nil)
	if err != nil {
		panic(err)
	}
	vm.True, err = vm.Heap.Allocate(TagBoolean, vm.TrueClass, true)
	if err != nil {
		panic(err)
	}
	vm.False, err = vm.Heap.Allocate(TagBoolean, vm.FalseClass, false)
	if err != nil {
		panic(err)
	}
	vm.Globals["nil"] = vm.Nil
	vm.Globals["true"] = vm.True
	vm.Globals["false"] = vm.False
}

// bootstrapCoreClasses creates the remaining data classes and populates
// every core method dictionary from the primitive registry.
func (vm *VM) bootstrapCoreClasses() {
	vm.IntegerClass = vm.defineClass("Integer", vm.ObjectClass, nil, nil)
	vm.FloatClass = vm.defineClass("Float", vm.ObjectClass, nil, nil)
	vm.StringClass = vm.defineClass("String", vm.ObjectClass, nil, nil)
	vm.SymbolClass = vm.defineClass("Symbol", vm.StringClass, nil, nil)
	vm.Symbols.class = vm.SymbolClass
	vm.ArrayClass = vm.defineClass("Array", vm.ObjectClass, nil, nil)
	vm.BlockClass = vm.defineClass("Block", vm.ObjectClass, nil, nil)
	vm.SystemClass = vm.defineClass("System", vm.ObjectClass, nil, nil)

	vm.installObjectPrimitives()
	vm.installClassPrimitives()
	vm.installIntegerPrimitives()
	vm.installFloatPrimitives()
	vm.installStringPrimitives()
	vm.installSymbolPrimitives()
	vm.installArrayPrimitives()
	vm.installBlockPrimitives()
	vm.installBooleanPrimitives()
	vm.installSystemPrimitives()

	sysInstance, err := vm.Heap.Allocate(TagObject, vm.SystemClass, &ArrayData{})
	if err != nil {
		panic(err)
	}
	vm.Globals["system"] = sysInstance
}
