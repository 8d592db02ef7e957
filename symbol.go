package som

// SymbolTable interns selector and identifier text into Symbol objects.
// Two symbols are equal iff their addresses are equal — the table is the
// one place that ever compares symbol text byte-for-byte; dispatch and
// everything downstream of it compares addresses only.
type SymbolTable struct {
	heap *Heap
	byTxt map[string]Address
	class Address // Symbol class, set once bootstrap creates it
}

func newSymbolTable(heap *Heap) *SymbolTable {
	return &SymbolTable{heap: heap, byTxt: make(map[string]Address, 256)}
}

// Intern returns the address of the Symbol object for text, allocating one
// on first use.
func (t *SymbolTable) Intern(text string) Address {
	if a, ok := t.byTxt[text]; ok {
		return a
	}
	a, err := t.heap.Allocate(TagSymbol, t.class, text)
	if err != nil {
		// Symbols are allocated during bootstrap, during class
		// installation, and at run time for any selector or symbol text
		// not seen before (sends, perform:, asSymbol, symbol literals).
		// Intern has no error result, so reaching the heap limit here
		// panics.
		panic(err)
	}
	t.byTxt[text] = a
	return a
}

// addresses returns every interned symbol's address, for use as a GC root
// set and as input to Heap.Collect's remap step.
func (t *SymbolTable) addresses() []Address {
	out := make([]Address, 0, len(t.byTxt))
	for _, a := range t.byTxt {
		out = append(out, a)
	}
	return out
}

// applyRemap rewrites every interned address after a compacting collection.
func (t *SymbolTable) applyRemap(remap map[Address]Address) {
	for txt, a := range t.byTxt {
		t.byTxt[txt] = remap[a]
	}
}
