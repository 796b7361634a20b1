package jailparam

import (
	"errors"
	"fmt"
	"strings"
)

// Errors reported by table mutation.
var (
	ErrDuplicate = errors.New("duplicate parameter name")
	ErrName      = errors.New("invalid parameter name")
)

// Entry is a named parameter inside a Table
type Entry struct {
	Name  string
	Value Value
}

// Table is an ordered collection of named parameter values. Entries keep
// their insertion order when encoded, which matters to the kernel for
// related parameters such as an address list following its family selector.
// Names are unique; Table is not safe for concurrent mutation. The zero
// Table is ready to use.
type Table struct {
	index   map[string]int
	entries []Entry
}

// NewTable creates an empty parameter table
func NewTable() *Table {
	return &Table{index: make(map[string]int)}
}

// Insert appends a named value to the table. The name must be non empty and
// free of NUL bytes or Insert fails with ErrName. Inserting a name that is
// already present fails with ErrDuplicate and leaves the table unchanged.
func (t *Table) Insert(name string, v Value) error {
	if name == "" {
		return fmt.Errorf("jailparam: empty name: %w", ErrName)
	}
	if strings.IndexByte(name, 0) >= 0 {
		return fmt.Errorf("jailparam: name %q contains NUL byte: %w", name, ErrName)
	}
	if _, ok := t.index[name]; ok {
		return fmt.Errorf("jailparam: %s: %w", name, ErrDuplicate)
	}
	if t.index == nil {
		t.index = make(map[string]int)
	}
	t.index[name] = len(t.entries)
	t.entries = append(t.entries, Entry{Name: name, Value: v})
	return nil
}

// Set inserts a named value, replacing any existing entry in place so the
// original position is kept.
func (t *Table) Set(name string, v Value) error {
	if i, ok := t.index[name]; ok {
		t.entries[i].Value = v
		return nil
	}
	return t.Insert(name, v)
}

// Get returns the value stored under name
func (t *Table) Get(name string) (Value, bool) {
	i, ok := t.index[name]
	if !ok {
		return Value{}, false
	}
	return t.entries[i].Value, true
}

// Has reports whether name is present in the table
func (t *Table) Has(name string) bool {
	_, ok := t.index[name]
	return ok
}

// Remove deletes the entry stored under name and reports whether it was
// present. Remaining entries keep their relative order.
func (t *Table) Remove(name string) bool {
	i, ok := t.index[name]
	if !ok {
		return false
	}
	t.entries = append(t.entries[:i], t.entries[i+1:]...)
	delete(t.index, name)
	for j := i; j < len(t.entries); j++ {
		t.index[t.entries[j].Name] = j
	}
	return true
}

// Len returns the number of entries in the table
func (t *Table) Len() int {
	return len(t.entries)
}

// Entries returns the entries in insertion order. The returned slice is a
// copy; the values it holds are shared.
func (t *Table) Entries() []Entry {
	out := make([]Entry, len(t.entries))
	copy(out, t.entries)
	return out
}

// Names returns the parameter names in insertion order
func (t *Table) Names() []string {
	out := make([]string, len(t.entries))
	for i, e := range t.entries {
		out[i] = e.Name
	}
	return out
}

// Clone returns a table with the same entries in the same order
func (t *Table) Clone() *Table {
	n := NewTable()
	n.entries = make([]Entry, len(t.entries))
	copy(n.entries, t.entries)
	for name, i := range t.index {
		n.index[name] = i
	}
	return n
}

func (t *Table) String() string {
	var sb strings.Builder
	sb.WriteString("Table[")
	for i, e := range t.entries {
		if i > 0 {
			sb.WriteByte(' ')
		}
		sb.WriteString(e.Name)
		sb.WriteByte('=')
		sb.WriteString(e.Value.String())
	}
	sb.WriteString("]")
	return sb.String()
}
