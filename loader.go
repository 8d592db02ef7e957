package som

import (
	"github.com/somlang/som/ast"
	"github.com/somlang/som/parser"
)

// parseProgram is a thin wrapper around the parser package, kept here so the
// rest of the core never imports parser directly.
func parseProgram(src string) (*ast.Program, error) {
	return parser.New(src).Parse()
}

// installClass implements the class installation sequence: resolve the
// superclass, compute the full (inherited-prefix) instance variable layout,
// allocate the class/metaclass pair, compile and resolve every method, and
// register the class under its name in Globals. Re-defining a name replaces
// whatever it was previously bound to; existing instances of the old class
// keep working against the old ClassData, since nothing but Globals pointed
// at it.
func (vm *VM) installClass(cd *ast.ClassDef) (Address, error) {
	super := vm.ObjectClass
	if cd.Super != "" {
		s, ok := vm.Globals[cd.Super]
		if !ok {
			return invalidAddr, undefinedGlobal(cd.Super)
		}
		super = s
	}

	class := vm.defineClass(cd.Name, super, cd.InstanceVarNames, cd.ClassVarNames)
	meta := vm.classOf(class)

	ivarLayout := vm.instanceVarLayout(class)
	for _, md := range cd.InstanceMethods {
		method, err := vm.compileMethod(class, md, ivarLayout)
		if err != nil {
			return invalidAddr, err
		}
		vm.installMethodEntry(vm.classData(class).MethodDict, md.Selector, method, len(md.Params), false)
	}

	classVarLayout := vm.instanceVarLayout(meta)
	for _, md := range cd.ClassMethods {
		method, err := vm.compileMethod(meta, md, classVarLayout)
		if err != nil {
			return invalidAddr, err
		}
		vm.installMethodEntry(vm.classData(meta).MethodDict, md.Selector, method, len(md.Params), false)
	}

	return class, nil
}

// instanceVarLayout returns the full, inherited-prefix-first list of
// instance variable names a class's instances lay out their slots in:
// every ancestor's own ivars, in superclass-to-subclass order, followed by
// class's own. Index i in this slice is exactly ArrayData.Elems[i] for a
// plain instance of class.
func (vm *VM) instanceVarLayout(class Address) []string {
	var chain []Address
	for c := class; c != invalidAddr; c = vm.classData(c).Super {
		chain = append(chain, c)
	}
	var names []string
	for i := len(chain) - 1; i >= 0; i-- {
		names = append(names, vm.classData(chain[i]).IVarNames...)
	}
	return names
}

// compileMethod builds a MethodData for md on class, running the variable
// resolver over its body so the evaluator never has to look up a parameter,
// local, or instance variable by name at run time. ivarOrClassVarNames is the instance-variable layout
// for an instance-side method, or the class-variable list for a class-side
// one: the resolver doesn't care which, only that it's the set of names
// that resolve to InstanceVar on self.
func (vm *VM) compileMethod(class Address, md *ast.MethodDef, ivarOrClassVarNames []string) (Address, error) {
	r := &resolver{ivars: ivarOrClassVarNames}
	r.pushScope(md.Params, md.Body.Locals)
	resolveSequence(r, md.Body)

	data := &MethodData{
		Selector:      md.Selector,
		DefiningClass: class,
		Params:        md.Params,
		Locals:        md.Body.Locals,
		Body:          md.Body,
	}
	return vm.Heap.Allocate(TagObject, vm.ObjectClass, data)
}
