package som

import (
	"fmt"

	"github.com/somlang/som/ast"
)

// eval evaluates one AST node in the activation ctx, returning the address of
// its result. A non-nil error is either an ordinary failure (*Error) or a
// *nonLocalReturn in flight; callers that don't specifically handle the
// latter (invokeSourceMethod, evalBlockValue) just propagate it unchanged.
func (vm *VM) eval(ctx Address, node ast.Node) (Address, error) {
	switch n := node.(type) {
	case *ast.Literal:
		return vm.evalLiteral(n)
	case *ast.Variable:
		return vm.readVar(ctx, n)
	case *ast.Assignment:
		v, err := vm.eval(ctx, n.Value)
		if err != nil {
			return invalidAddr, err
		}
		if err := vm.writeVar(ctx, n.Target, v); err != nil {
			return invalidAddr, err
		}
		return v, nil
	case *ast.Send:
		return vm.evalSend(ctx, n)
	case *ast.Return:
		return vm.evalReturn(ctx, n)
	case *ast.Sequence:
		return vm.evalSequence(ctx, n)
	case *ast.Block:
		return vm.evalBlockLiteral(ctx, n)
	default:
		return invalidAddr, fmt.Errorf("som: unhandled AST node %T", node)
	}
}

// evalSequence evaluates each statement in order and returns the last one's
// value, or Nil for an empty sequence. Local-slot storage for seq.Locals is
// already reserved in ctx's Slots by whichever of newMethodContext or
// newBlockContext created it — this is purely a fold over the statements.
func (vm *VM) evalSequence(ctx Address, seq *ast.Sequence) (Address, error) {
	result := vm.Nil
	for _, stmt := range seq.Statements {
		v, err := vm.eval(ctx, stmt)
		if err != nil {
			return invalidAddr, err
		}
		result = v
	}
	return result, nil
}

// evalLiteral allocates a fresh heap object for an integer, float, string,
// or array constant every time it is evaluated, interns a symbol, and
// answers the singleton for nil, true, and false (see ast.Literal's doc
// comment on why nothing here is memoized).
func (vm *VM) evalLiteral(lit *ast.Literal) (Address, error) {
	switch lit.Kind {
	case ast.IntLiteral:
		return vm.Heap.Allocate(TagInteger, vm.IntegerClass, lit.Int)
	case ast.FloatLiteral:
		return vm.Heap.Allocate(TagFloat, vm.FloatClass, lit.Float)
	case ast.StringLiteral:
		return vm.Heap.Allocate(TagString, vm.StringClass, lit.Str)
	case ast.SymbolLiteral:
		return vm.Symbols.Intern(lit.Str), nil
	case ast.ArrayLiteral:
		elems := make([]Address, len(lit.Elems))
		for i, e := range lit.Elems {
			v, err := vm.evalLiteral(e)
			if err != nil {
				return invalidAddr, err
			}
			elems[i] = v
		}
		return vm.Heap.Allocate(TagArray, vm.ArrayClass, &ArrayData{Elems: elems})
	case ast.NilLiteral:
		return vm.Nil, nil
	case ast.TrueLiteral:
		return vm.True, nil
	case ast.FalseLiteral:
		return vm.False, nil
	default:
		return invalidAddr, fmt.Errorf("som: unhandled literal kind %v", lit.Kind)
	}
}

// evalSend evaluates the receiver (unless this is a super-send, which always
// sends to self) and every argument left to right, then dispatches.
func (vm *VM) evalSend(ctx Address, send *ast.Send) (Address, error) {
	var receiver Address
	var startClass Address
	if send.IsSuper {
		receiver = vm.Heap.Get(ctx).Value.(*ContextData).Self
		startClass = vm.superStartClass(ctx)
	} else {
		v, err := vm.eval(ctx, send.Receiver)
		if err != nil {
			return invalidAddr, err
		}
		receiver = v
		startClass = vm.classOf(receiver)
	}

	args := make([]Address, len(send.Args))
	for i, a := range send.Args {
		v, err := vm.eval(ctx, a)
		if err != nil {
			return invalidAddr, err
		}
		args[i] = v
	}

	return vm.sendFrom(receiver, startClass, send.Selector, args, ctx)
}

// evalReturn evaluates a `^ expr` and turns it into a non-local-return
// control-flow error targeting the enclosing method activation. If that
// activation has already run to completion (Terminated), the block outlived
// its home and the return has escaped: reported as an ordinary *Error rather
// than propagated further, since there is no longer anything for it to unwind
// to.
func (vm *VM) evalReturn(ctx Address, ret *ast.Return) (Address, error) {
	v, err := vm.eval(ctx, ret.Value)
	if err != nil {
		return invalidAddr, err
	}
	home := vm.resolveHome(ctx)
	if vm.Heap.Get(home).Value.(*ContextData).Terminated {
		return invalidAddr, escapedNonLocalReturn()
	}
	return invalidAddr, &nonLocalReturn{home: home, value: v}
}

// evalBlockLiteral allocates a Block object capturing ctx as its lexical
// outer context and the nearest enclosing method activation as its home.
func (vm *VM) evalBlockLiteral(ctx Address, b *ast.Block) (Address, error) {
	data := &BlockData{
		Node:  b,
		Outer: ctx,
		Home:  vm.resolveHome(ctx),
	}
	return vm.Heap.Allocate(TagBlock, vm.BlockClass, data)
}

// evalBlockValue activates block with args bound to its parameters, runs its
// body, and returns the body's last-statement value. Unlike
// invokeSourceMethod, a block never absorbs a non-local return even when its
// own home happens to match: a block is never its own home (newBlockContext
// never sets Home to the context it just created), so a *nonLocalReturn
// coming out of evalSequence here always propagates unchanged.
func (vm *VM) evalBlockValue(blockAddr Address, args []Address, sender Address) (Address, error) {
	obj := vm.Heap.Get(blockAddr)
	block, ok := obj.Value.(*BlockData)
	if !ok {
		return invalidAddr, typeMismatch(vm.classData(vm.classOf(blockAddr)).Name, "value", "Block")
	}
	if len(args) != len(block.Node.Params) {
		return invalidAddr, argumentCountMismatch("Block", "value", len(block.Node.Params), len(args))
	}
	if len(vm.contexts) >= vm.maxStackDepth() {
		return invalidAddr, stackOverflow()
	}

	ctx, err := vm.newBlockContext(block, args, sender)
	if err != nil {
		return invalidAddr, err
	}
	vm.pushContext(ctx)
	defer vm.popContext()

	result, err := vm.evalSequence(ctx, block.Node.Body)
	if err != nil {
		vm.attachTrace(err)
	}
	return result, err
}
