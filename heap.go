package som

import (
	"github.com/zephyrtronium/contains"

	"github.com/somlang/som/ast"
)

// Address is an opaque handle to a heap object: an index into a Heap's
// object table, never a Go pointer. The zero value is reserved as the
// "uninitialized" sentinel described in the data model — it never denotes a
// live object after bootstrap completes.
type Address uint32

// invalidAddr is the reserved sentinel. The first class shells and their
// method dictionaries hold it as their class pointer until
// bootstrapClassLoop patches them; instance and class-variable slots are
// filled with the real nil singleton when they are created.
const invalidAddr Address = 0

// Tag is the advisory type tag carried in every object's header. The true
// type of an object is its class pointer; Tag only lets hot paths (small
// integer arithmetic, block activation) skip the class lookup.
type Tag uint8

const (
	TagObject Tag = iota
	TagInteger
	TagFloat
	TagString
	TagSymbol
	TagArray
	TagClass
	TagMethodDict
	TagBlock
	TagContext
	TagBoolean
	TagNil
)

func (t Tag) String() string {
	switch t {
	case TagObject:
		return "Object"
	case TagInteger:
		return "Integer"
	case TagFloat:
		return "Float"
	case TagString:
		return "String"
	case TagSymbol:
		return "Symbol"
	case TagArray:
		return "Array"
	case TagClass:
		return "Class"
	case TagMethodDict:
		return "MethodDict"
	case TagBlock:
		return "Block"
	case TagContext:
		return "Context"
	case TagBoolean:
		return "Boolean"
	case TagNil:
		return "Nil"
	default:
		return "Unknown"
	}
}

// Header is the fixed, common prefix of every heap object.
type Header struct {
	Class Address
	Hash  uint32
	Tag   Tag
}

// Object is the heap's single representation for every tag. Value holds the
// tag-specific payload — a Go-native type for the scalar variants (Integer,
// Float, string-like values), or one of the *Data structs below for the
// structured ones. This mirrors the reference interpreter's own
// Tag-plus-Value split rather than one sprawling struct with a field per
// variant.
type Object struct {
	Header
	Value any
}

// ArrayData is the payload of a TagArray object: a fixed-length, mutable
// sequence of element addresses.
type ArrayData struct {
	Elems []Address
}

// ClassData is the payload of a TagClass object.
//
// ClassVars holds this class's own class-variable slots (declared on its
// metaclass's IVarNames, one slot per entry in the metaclass's full
// inherited-prefix layout). A class object is an instance of its metaclass
// in the same sense that an ordinary object is an instance of its class, so
// class variables live here rather than on a separate storage object.
type ClassData struct {
	Name          string
	Super         Address
	MethodDict    Address
	IVarNames     []string // own instance variables only, not the inherited prefix
	IVarCount     int      // inherited + own
	ClassVars     []Address
	IsMetaclass   bool
	InstanceCount int
	Comment       string
}

// MethodDictData is the payload of a TagMethodDict object.
type MethodDictData struct {
	Entries []MethodEntry
}

// MethodEntry is one selector's binding in a method dictionary.
type MethodEntry struct {
	Selector    Address // interned Symbol address
	Method      Address // address of the TagObject Method object
	ArgCount    int
	IsPrimitive bool
}

// MethodData is the payload of a Method object. Method objects carry
// Tag == TagObject: the closed tag set in the data model has no dedicated
// METHOD tag, consistent with "the tag is advisory — true type is the class
// pointer" (a method's true type is always Method, addressed through its
// owning MethodEntry rather than through general dispatch).
type MethodData struct {
	Selector      string
	DefiningClass Address // class the method was installed on; super-sends start above it
	Params        []string
	Locals        []string
	Body          *ast.Sequence
	Primitive     PrimitiveFunc // nil for source methods
}

// BlockData is the payload of a TagBlock object.
type BlockData struct {
	Node  *ast.Block
	Outer Address // lexical outer context
	Home  Address // nearest enclosing method context, target of non-local return
}

// ContextData is the payload of a TagContext object: a single in-flight
// method or block activation.
type ContextData struct {
	Self          Address
	DefiningClass Address // class the executing method was installed on; super-sends start above it
	Slots         []Address
	Outer         Address // lexical enclosing context, for blocks
	Sender        Address // dynamic caller, used for stack traces
	Home          Address // for a method context, the context itself (it is its own home)
	ActivationID  uint64
	Terminated    bool
	Selector      string // selector of the enclosing method, for -debug activation traces
}

// Heap is the object memory: a single growable table of objects addressed
// by index. Slot 0 is never allocated into, so its zero Address doubles as
// the invalid-address sentinel.
type Heap struct {
	objects  []Object
	limit    int // 0 means unbounded
	nextHash uint32
}

// NewHeap creates a Heap. limit, if positive, bounds the number of live
// objects the heap will hold before Allocate starts failing; 0 means
// unbounded (bounded only by host memory).
func NewHeap(limit int) *Heap {
	h := &Heap{objects: make([]Object, 1, 256), limit: limit}
	return h
}

// Allocate reserves a new object with the given tag, class, and payload,
// returning its address.
func (h *Heap) Allocate(tag Tag, class Address, value any) (Address, error) {
	if h.limit > 0 && len(h.objects)-1 >= h.limit {
		return invalidAddr, &Error{Kind: AllocationFailed, Msg: "heap exhausted"}
	}
	h.nextHash++
	addr := Address(len(h.objects))
	h.objects = append(h.objects, Object{Header: Header{Class: class, Hash: h.nextHash, Tag: tag}, Value: value})
	return addr, nil
}

// Get returns a pointer to the object at addr, so callers can read or
// mutate its header and payload in place (e.g. Array at:put:, Context slot
// assignment). addr must be a live address; Get does not bounds-check
// against the invalid sentinel, so callers that can receive attacker-
// controlled indices (Array primitives) validate before calling Get.
func (h *Heap) Get(addr Address) *Object {
	return &h.objects[addr]
}

// Len reports the number of allocated objects, including the reserved slot
// 0. Used by System>>instanceCount-style diagnostics.
func (h *Heap) Len() int {
	return len(h.objects)
}

// refs returns the addresses directly reachable from v's payload, used by
// the mark phase of Collect. It is the one place in the system that needs
// to know every variant's address-valued fields.
func refs(v *Object) []Address {
	switch p := v.Value.(type) {
	case *ArrayData:
		return p.Elems
	case *ClassData:
		return append([]Address{p.Super, p.MethodDict}, p.ClassVars...)
	case *MethodDictData:
		out := make([]Address, 0, len(p.Entries)*2)
		for _, e := range p.Entries {
			out = append(out, e.Selector, e.Method)
		}
		return out
	case *BlockData:
		return []Address{p.Outer, p.Home}
	case *ContextData:
		out := append([]Address{p.Self, p.DefiningClass, p.Outer, p.Sender, p.Home}, p.Slots...)
		return out
	case *MethodData:
		return []Address{p.DefiningClass}
	default:
		return nil
	}
}

// rewrite applies remap to every address-valued field reachable from v's
// payload, in place. It must stay in lockstep with refs above.
func rewrite(v *Object, remap map[Address]Address) {
	v.Class = remap[v.Class]
	switch p := v.Value.(type) {
	case *ArrayData:
		for i, a := range p.Elems {
			p.Elems[i] = remap[a]
		}
	case *ClassData:
		p.Super = remap[p.Super]
		p.MethodDict = remap[p.MethodDict]
		for i, a := range p.ClassVars {
			p.ClassVars[i] = remap[a]
		}
	case *MethodDictData:
		for i := range p.Entries {
			p.Entries[i].Selector = remap[p.Entries[i].Selector]
			p.Entries[i].Method = remap[p.Entries[i].Method]
		}
	case *BlockData:
		p.Outer = remap[p.Outer]
		p.Home = remap[p.Home]
	case *ContextData:
		p.Self = remap[p.Self]
		p.DefiningClass = remap[p.DefiningClass]
		p.Outer = remap[p.Outer]
		p.Sender = remap[p.Sender]
		p.Home = remap[p.Home]
		for i, a := range p.Slots {
			p.Slots[i] = remap[a]
		}
	case *MethodData:
		p.DefiningClass = remap[p.DefiningClass]
	}
}

// Collect runs a stop-the-world mark-and-compact pass rooted at roots (the
// symbol table, the globals table, and the VM's live context stack — see
// VM.Collect). It returns the address remap the caller must apply to any
// address it holds outside the heap itself (globals, interned symbols, the
// context stack).
//
// The visited set uses contains.Set, the reference corpus's cycle-safe
// traversal set, for the same reason it's used there: the class/metaclass
// graph and general object graphs are cyclic by construction, and a plain
// map alone doesn't protect a naive recursive walk from infinite recursion
// without the same bookkeeping this set already does.
func (h *Heap) Collect(roots []Address) map[Address]Address {
	visited := contains.Set{}
	var order []Address
	var walk func(Address)
	walk = func(a Address) {
		if a == invalidAddr || a >= Address(len(h.objects)) {
			return
		}
		if !visited.Add(uintptr(a)) {
			return
		}
		order = append(order, a)
		walk(h.objects[a].Class)
		for _, r := range refs(&h.objects[a]) {
			walk(r)
		}
	}
	for _, r := range roots {
		walk(r)
	}

	remap := make(map[Address]Address, len(order)+1)
	remap[invalidAddr] = invalidAddr
	newObjects := make([]Object, 1, len(order)+1) // slot 0 stays reserved
	for _, old := range order {
		remap[old] = Address(len(newObjects))
		newObjects = append(newObjects, h.objects[old])
	}
	for i := 1; i < len(newObjects); i++ {
		rewrite(&newObjects[i], remap)
	}
	h.objects = newObjects
	return remap
}
