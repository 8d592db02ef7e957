package som

// PrimitiveFunc is a built-in method body. It receives the receiver and
// argument addresses raw, exactly as the dispatch contract in the component
// design describes, and returns a result address or an error.
type PrimitiveFunc func(vm *VM, receiver Address, args []Address) (Address, error)

// installPrimitive interns selector, allocates a Method object wrapping fn,
// and adds it to class's method dictionary, growing the dictionary's
// backing array if it's full and overwriting any prior entry for the same
// selector (last definition wins, per the method dictionary contract).
func (vm *VM) installPrimitive(class Address, selector string, fn PrimitiveFunc) {
	classData := vm.Heap.Get(class).Value.(*ClassData)
	methodAddr, err := vm.Heap.Allocate(TagObject, vm.ObjectClass, &MethodData{
		Selector:      selector,
		DefiningClass: class,
		Primitive:     fn,
	})
	if err != nil {
		panic(err)
	}
	vm.installMethodEntry(classData.MethodDict, selector, methodAddr, selectorArgCount(selector), true)
}

// installClassSidePrimitive installs fn as a class-side method of class:
// one sent to the class object itself (e.g. Array new:), rather than to its
// instances. Class-side methods live on the class's metaclass.
func (vm *VM) installClassSidePrimitive(class Address, selector string, fn PrimitiveFunc) {
	vm.installPrimitive(vm.classOf(class), selector, fn)
}

// installMethodEntry appends or overwrites selector's entry in the method
// dictionary at dictAddr.
func (vm *VM) installMethodEntry(dictAddr Address, selector string, method Address, argCount int, isPrimitive bool) {
	sym := vm.Symbols.Intern(selector)
	dict := vm.Heap.Get(dictAddr).Value.(*MethodDictData)
	for i, e := range dict.Entries {
		if e.Selector == sym {
			dict.Entries[i] = MethodEntry{Selector: sym, Method: method, ArgCount: argCount, IsPrimitive: isPrimitive}
			return
		}
	}
	dict.Entries = append(dict.Entries, MethodEntry{Selector: sym, Method: method, ArgCount: argCount, IsPrimitive: isPrimitive})
}

// selectorArgCount returns how many arguments a keyword selector's pattern
// implies (the number of colons), or 1 for a binary selector, or 0 for a
// unary one. Used when installing primitives so the dictionary's recorded
// ArgCount always matches the selector's shape.
func selectorArgCount(selector string) int {
	n := 0
	for _, r := range selector {
		if r == ':' {
			n++
		}
	}
	if n > 0 {
		return n
	}
	for _, r := range selector {
		if !isIdentByte(r) {
			return 1
		}
	}
	return 0
}

func isIdentByte(r rune) bool {
	return r == '_' || (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9')
}
