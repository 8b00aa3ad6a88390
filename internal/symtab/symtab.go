// Package symtab implements the name <-> term-index bindings of
// spec.md §4.1's symbol table: set_name/find/remove over a chained hash
// table, plus a per-base counter for generated names (FreshName).
// Grounded on the teacher's chained-scope SymbolTable
// (internal/semantic/symbols.go), generalized from AST scopes to a flat
// name <-> index binding with a per-name stack of bindings, since
// spec.md's symbol table has no lexical nesting.
package symtab

import (
	"strings"

	"github.com/iancoleman/strcase"

	"qfbv/internal/term"
)

type binding struct {
	index term.Index
	refs  uint32
}

// Table is the chained-hash symbol table. Each name keeps a stack of
// bindings, so the same name can be bound again under nested push/pop
// frames and popped back to an earlier binding (or to unbound) without
// losing track of shadowed bindings.
type Table struct {
	byName  map[string][]binding // stack of bindings per name, most recent last
	byIndex map[term.Index]string
	bases   map[string]uint32 // base-name registry for collision-free generated names
}

// New returns an empty symbol table.
func New() *Table {
	return &Table{
		byName:  make(map[string][]binding),
		byIndex: make(map[term.Index]string),
		bases:   make(map[string]uint32),
	}
}

// SetName binds name to idx, shadowing any existing binding for name.
// Returns false if idx already has a different name bound (spec.md
// §4.1: a term index has at most one name at a time).
func (t *Table) SetName(name string, idx term.Index) bool {
	if existing, ok := t.byIndex[idx]; ok && existing != name {
		return false
	}
	stack := t.byName[name]
	stack = append(stack, binding{index: idx, refs: 1})
	t.byName[name] = stack
	t.byIndex[idx] = name
	return true
}

// Find returns the term index currently bound to name.
func (t *Table) Find(name string) (term.Index, bool) {
	stack := t.byName[name]
	if len(stack) == 0 {
		return 0, false
	}
	top := stack[len(stack)-1]
	return top.index, true
}

// NameOf returns the name currently bound to idx, if any.
func (t *Table) NameOf(idx term.Index) (string, bool) {
	name, ok := t.byIndex[idx]
	return name, ok
}

// Remove pops the most recent binding for name (used when a push/pop
// frame that introduced it is popped). It is a no-op if name is unbound.
func (t *Table) Remove(name string) {
	stack := t.byName[name]
	if len(stack) == 0 {
		return
	}
	top := stack[len(stack)-1]
	stack = stack[:len(stack)-1]
	if len(stack) == 0 {
		delete(t.byName, name)
	} else {
		t.byName[name] = stack
	}
	if t.byIndex[top.index] == name {
		delete(t.byIndex, top.index)
		if len(stack) > 0 {
			t.byIndex[stack[len(stack)-1].index] = name
		}
	}
}

// Indices returns every term index currently bound to a name, so a
// caller running a term.Table GC pass can mark them reachable first
// (spec.md §4.1: "sweeps unmarked terms ... and optionally purges
// stale symbol-table entries" -- this implementation always keeps
// named entries alive rather than wiring the original's separate
// keep_named toggle).
func (t *Table) Indices() []term.Index {
	out := make([]term.Index, 0, len(t.byIndex))
	for idx := range t.byIndex {
		out = append(out, idx)
	}
	return out
}

// Remap rewrites every bound index through remap after a term.Table
// sweep (Context.GC).
func (t *Table) Remap(remap term.IndexRemap) {
	newByIndex := make(map[term.Index]string, len(t.byIndex))
	for idx, name := range t.byIndex {
		if newIdx, ok := remap[idx]; ok {
			newByIndex[newIdx] = name
		}
	}
	t.byIndex = newByIndex

	for name, stack := range t.byName {
		for i := range stack {
			if newIdx, ok := remap[stack[i].index]; ok {
				stack[i].index = newIdx
			}
		}
		t.byName[name] = stack
	}
}

// FreshName generates a name derived from base, normalizing base to
// snake_case: the first call for a base returns the normalized base
// itself, later calls return base_1, base_2, ... from one counter per
// normalized base. It does not check the result against names already
// bound with SetName.
func (t *Table) FreshName(base string) string {
	norm := strcase.ToSnake(base)
	if norm == "" {
		norm = "t"
	}
	n := t.bases[norm]
	t.bases[norm] = n + 1
	if n == 0 {
		return norm
	}
	return strings.Join([]string{norm, itoa(n)}, "_")
}

func itoa(n uint32) string {
	if n == 0 {
		return "0"
	}
	var buf [10]byte
	i := len(buf)
	for n > 0 {
		i--
		buf[i] = byte('0' + n%10)
		n /= 10
	}
	return string(buf[i:])
}
