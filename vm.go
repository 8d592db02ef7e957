package som

import (
	"errors"
	"fmt"
	"log"

	"github.com/somlang/som/internal/sysinfo"
)

// VM ties together the heap, symbol table, and globals table, and is the
// entry point for running programs. Build one with NewVM, then use DoString
// or RunMain to evaluate source text.
type VM struct {
	Heap    *Heap
	Symbols *SymbolTable
	Globals map[string]Address

	ObjectClass    Address
	ClassClass     Address
	MetaclassClass Address
	IntegerClass   Address
	FloatClass     Address
	StringClass    Address
	SymbolClass    Address
	ArrayClass     Address
	BlockClass     Address
	BooleanClass   Address
	TrueClass      Address
	FalseClass     Address
	NilClass       Address
	SystemClass    Address

	Nil   Address
	True  Address
	False Address

	// contexts is the explicit stack of in-flight activations. The
	// evaluator pushes on method/block entry and pops on exit; it doubles
	// as the GC root set for "the currently executing context chain" and
	// as the source of an activation-stack trace in -debug mode.
	contexts []Address

	nextActivationID uint64

	// stackDepthLimit bounds len(contexts); invokeSourceMethod and
	// evalBlockValue both refuse to push another activation past it rather
	// than let a runaway recursive program overflow the Go goroutine stack.
	stackDepthLimit int

	Logger *log.Logger
	Debug  bool
}

// bytesPerActivation estimates the Go call-stack cost of one SOM method or
// block activation: eval, evalSend, sendFrom, and invokeSourceMethod/
// evalBlockValue all nest per activation, plus their locals. Used to turn
// the host's stack size limit into an activation-count ceiling.
const bytesPerActivation = 16 << 10

// minStackDepth is the floor maxStackDepth will return even when the host
// stack limit probe fails or reports something implausibly small.
const minStackDepth = 256

// maxStackDepth returns how many nested method/block activations the
// evaluator allows before reporting StackOverflow.
func (vm *VM) maxStackDepth() int {
	return vm.stackDepthLimit
}

// Config holds the settings the CLI launcher's -config file can override.
// See cmd/som for how it's loaded.
type Config struct {
	HeapLimit int    `yaml:"heapLimit"`
	Encoding  string `yaml:"encoding"`
	Debug     bool   `yaml:"debug"`
	LogLevel  string `yaml:"logLevel"`
}

// NewVM builds a VM with a fresh heap of the given object-count limit (0 for
// unbounded) and runs the bootstrap sequence described in the component
// design's class-graph section. Panics if bootstrap itself fails, since a
// broken bootstrap means the interpreter cannot run any program at all.
func NewVM(heapLimit int, logger *log.Logger) *VM {
	if logger == nil {
		logger = log.Default()
	}
	vm := &VM{
		Heap:    NewHeap(heapLimit),
		Globals: make(map[string]Address, 64),
		Logger:  logger,
	}
	vm.Symbols = newSymbolTable(vm.Heap)
	vm.stackDepthLimit = minStackDepth
	if bytes, ok := sysinfo.StackLimit(); ok {
		if n := int(bytes / bytesPerActivation); n > minStackDepth {
			vm.stackDepthLimit = n
		}
	}
	vm.bootstrap()
	return vm
}

// pushContext records ctx as the currently executing activation.
func (vm *VM) pushContext(ctx Address) {
	vm.contexts = append(vm.contexts, ctx)
}

// popContext pops the most recent activation. Callers pop exactly the
// context they pushed, even when returning via an error, so the stack
// stays balanced across non-local returns and propagated failures.
func (vm *VM) popContext() {
	vm.contexts = vm.contexts[:len(vm.contexts)-1]
}

// ActivationTrace returns one line per currently active method or block
// activation, most recent first, formatted as "ClassName>>selector" (a
// block activation reuses its enclosing method's selector, suffixed with
// "[block]"). This is the -debug activation stack the CLI launcher prints
// alongside an error.
func (vm *VM) ActivationTrace() []string {
	out := make([]string, len(vm.contexts))
	for i, addr := range vm.contexts {
		cd := vm.Heap.Get(addr).Value.(*ContextData)
		class := vm.classData(cd.DefiningClass).Name
		frame := fmt.Sprintf("%s>>%s", class, cd.Selector)
		if cd.Home != addr {
			frame += " [block]"
		}
		out[len(vm.contexts)-1-i] = frame
	}
	return out
}

// attachTrace records the current activation trace on err the first time it
// escapes an activation. Every invokeSourceMethod and evalBlockValue call
// checks its own error against this, so the trace reflects the full call
// chain at the point of failure rather than whatever is left after popContext
// has already unwound the frames above it.
func (vm *VM) attachTrace(err error) {
	var somErr *Error
	if errors.As(err, &somErr) && somErr.Trace == nil {
		somErr.Trace = vm.ActivationTrace()
	}
}

// roots returns every heap address the VM holds outside the heap itself:
// globals, interned symbols, and the live context stack. Collect's caller
// passes these in and then applies the returned remap to all three.
func (vm *VM) roots() []Address {
	out := make([]Address, 0, len(vm.Globals)+len(vm.Symbols.byTxt)+len(vm.contexts))
	for _, a := range vm.Globals {
		out = append(out, a)
	}
	out = append(out, vm.Symbols.addresses()...)
	out = append(out, vm.contexts...)
	return out
}

// Collect runs the heap's mark-and-compact pass and fixes up every address
// the VM holds outside the heap. Exposed as System>>gcCollect and the CLI's
// -gc flag.
func (vm *VM) Collect() {
	remap := vm.Heap.Collect(vm.roots())
	for name, a := range vm.Globals {
		vm.Globals[name] = remap[a]
	}
	vm.Symbols.applyRemap(remap)
	for i, a := range vm.contexts {
		vm.contexts[i] = remap[a]
	}
	vm.ObjectClass = remap[vm.ObjectClass]
	vm.ClassClass = remap[vm.ClassClass]
	vm.MetaclassClass = remap[vm.MetaclassClass]
	vm.IntegerClass = remap[vm.IntegerClass]
	vm.FloatClass = remap[vm.FloatClass]
	vm.StringClass = remap[vm.StringClass]
	vm.SymbolClass = remap[vm.SymbolClass]
	vm.Symbols.class = vm.SymbolClass
	vm.ArrayClass = remap[vm.ArrayClass]
	vm.BlockClass = remap[vm.BlockClass]
	vm.BooleanClass = remap[vm.BooleanClass]
	vm.TrueClass = remap[vm.TrueClass]
	vm.FalseClass = remap[vm.FalseClass]
	vm.NilClass = remap[vm.NilClass]
	vm.SystemClass = remap[vm.SystemClass]
	vm.Nil = remap[vm.Nil]
	vm.True = remap[vm.True]
	vm.False = remap[vm.False]
}

// DoString parses src as a sequence of class definitions, installs each one,
// and returns the address of the last one installed. An empty src installs
// nothing and returns the invalid address.
func (vm *VM) DoString(src string) (Address, error) {
	prog, err := parseProgram(src)
	if err != nil {
		return invalidAddr, err
	}
	var last Address
	for _, cd := range prog.Classes {
		last, err = vm.installClass(cd)
		if err != nil {
			return invalidAddr, err
		}
	}
	return last, nil
}

// RunMain installs src's classes, then sends selector (with no arguments)
// to a new instance of the last class defined, returning the evaluator's
// result. This is the shape the CLI launcher and scenario tests use to run
// a "run"-style entry point.
func (vm *VM) RunMain(src, selector string) (Address, error) {
	class, err := vm.DoString(src)
	if err != nil {
		return invalidAddr, err
	}
	if class == invalidAddr {
		return invalidAddr, fmt.Errorf("no class defined in source")
	}
	recv, err := vm.NewInstance(class)
	if err != nil {
		return invalidAddr, err
	}
	return vm.Send(recv, selector, nil)
}

// EvalExpression evaluates a single top-level expression by wrapping it in
// a synthetic class's run method, installing it, and sending run to a new
// instance. This is the mechanism behind the CLI's -e flag: the grammar has
// no bare top-level expression form, only class definitions.
func (vm *VM) EvalExpression(expr string) (Address, error) {
	src := fmt.Sprintf("SomDoIt = Object (\nrun = ( ^ %s )\n)\n", expr)
	return vm.RunMain(src, "run")
}

// NewInstance allocates a plain instance of class with every slot
// initialized to Nil. This is the primitive behind Class>>new for
// non-builtin classes.
func (vm *VM) NewInstance(class Address) (Address, error) {
	cd := vm.classData(class)
	slots := make([]Address, cd.IVarCount)
	for i := range slots {
		slots[i] = vm.Nil
	}
	addr, err := vm.Heap.Allocate(TagObject, class, &ArrayData{Elems: slots})
	if err != nil {
		return invalidAddr, err
	}
	cd.InstanceCount++
	return addr, nil
}
