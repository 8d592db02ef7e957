package som

import "github.com/somlang/som/ast"

// resolver assigns Kind, Index, and Depth to every ast.Variable reference in
// a method or block body during class installation, so the evaluator never
// looks up a parameter, local, or instance variable by name at run time
// (see context.go's readVar/writeVar, which index into a slice once Kind and
// Index are known; only globals are looked up by name).
//
// Scopes nest one per block literal, innermost last. A name is looked up
// from the innermost scope outward; the first match fixes Depth (how many
// Outer hops the evaluator must take) and Index (the slot within that
// scope). A name found in none of them falls back to the instance-variable
// list, and failing that, Global — a reference to an as-yet-undefined
// global resolves at read time, not at install time, since forward
// references to classes defined later in the same file are routine.
type resolver struct {
	ivars  []string
	scopes []resolverScope
}

type resolverScope struct {
	paramCount int
	names      []string // params, then locals, in slot order
}

func (r *resolver) pushScope(params, locals []string) {
	names := make([]string, 0, len(params)+len(locals))
	names = append(names, params...)
	names = append(names, locals...)
	r.scopes = append(r.scopes, resolverScope{paramCount: len(params), names: names})
}

func (r *resolver) popScope() {
	r.scopes = r.scopes[:len(r.scopes)-1]
}

// resolve fills in v's Kind, Index, and Depth.
func (r *resolver) resolve(v *ast.Variable) {
	switch v.Name {
	case "self":
		v.Kind = ast.SelfVar
		return
	case "super":
		v.Kind = ast.SuperVar
		return
	}
	for depth := 0; depth < len(r.scopes); depth++ {
		s := r.scopes[len(r.scopes)-1-depth]
		for i, n := range s.names {
			if n != v.Name {
				continue
			}
			v.Depth = depth
			v.Index = i
			if i < s.paramCount {
				v.Kind = ast.Parameter
			} else {
				v.Kind = ast.Local
			}
			return
		}
	}
	for i, n := range r.ivars {
		if n == v.Name {
			v.Kind = ast.InstanceVar
			v.Index = i
			return
		}
	}
	v.Kind = ast.Global
}

// resolveSequence resolves every statement in seq, assuming the scope for
// seq's own locals has already been pushed by the caller.
func resolveSequence(r *resolver, seq *ast.Sequence) {
	for _, stmt := range seq.Statements {
		resolveNode(r, stmt)
	}
}

// resolveNode walks one AST node, resolving every ast.Variable it contains
// and descending into nested blocks with their own pushed scope.
func resolveNode(r *resolver, node ast.Node) {
	switch n := node.(type) {
	case *ast.Variable:
		r.resolve(n)
	case *ast.Assignment:
		r.resolve(n.Target)
		resolveNode(r, n.Value)
	case *ast.Send:
		if !n.IsSuper {
			resolveNode(r, n.Receiver)
		}
		for _, a := range n.Args {
			resolveNode(r, a)
		}
	case *ast.Return:
		resolveNode(r, n.Value)
	case *ast.Sequence:
		resolveSequence(r, n)
	case *ast.Block:
		r.pushScope(n.Params, n.Body.Locals)
		resolveSequence(r, n.Body)
		r.popScope()
	case *ast.Literal:
		// Literals carry no variable references, even for ArrayLiteral:
		// the grammar only allows nested constants there.
	}
}
