package jailparam

import (
	"errors"
	"testing"
)

func TestTable_InsertDuplicate(t *testing.T) {
	tbl := NewTable()
	if err := tbl.Insert("name", Text("web")); err != nil {
		t.Fatalf("Insert error: %v", err)
	}
	if err := tbl.Insert("name", Text("db")); !errors.Is(err, ErrDuplicate) {
		t.Fatalf("duplicate Insert error = %v, want ErrDuplicate", err)
	}
	if tbl.Len() != 1 {
		t.Errorf("Len = %d, want 1", tbl.Len())
	}
	v, ok := tbl.Get("name")
	if !ok {
		t.Fatal("Get(name) not found")
	}
	if s, _ := v.Text(); s != "web" {
		t.Errorf("value after rejected insert = %q, want %q", s, "web")
	}
}

func TestTable_Order(t *testing.T) {
	tbl := NewTable()
	names := []string{"name", "path", "host.hostname", "persist"}
	for _, n := range names {
		if err := tbl.Insert(n, Text("x")); err != nil {
			t.Fatalf("Insert %s error: %v", n, err)
		}
	}
	for i, e := range tbl.Entries() {
		if e.Name != names[i] {
			t.Errorf("entry %d = %s, want %s", i, e.Name, names[i])
		}
	}

	if !tbl.Remove("path") {
		t.Fatal("Remove(path) = false, want true")
	}
	want := []string{"name", "host.hostname", "persist"}
	got := tbl.Names()
	if len(got) != len(want) {
		t.Fatalf("Names = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Names[%d] = %s, want %s", i, got[i], want[i])
		}
	}

	// A removed name inserts again at the tail.
	if err := tbl.Insert("path", Text("/opt")); err != nil {
		t.Fatalf("Insert error: %v", err)
	}
	if names := tbl.Names(); names[len(names)-1] != "path" {
		t.Errorf("reinserted name at %v, want tail", names)
	}
}

func TestTable_ZeroValue(t *testing.T) {
	var tbl Table
	if err := tbl.Insert("name", Text("x")); err != nil {
		t.Fatalf("Insert error: %v", err)
	}
	if !tbl.Has("name") || tbl.Len() != 1 {
		t.Errorf("table = %v, want one entry", &tbl)
	}
	if err := tbl.Insert("name", Text("y")); !errors.Is(err, ErrDuplicate) {
		t.Errorf("duplicate Insert error = %v, want ErrDuplicate", err)
	}
}

func TestTable_InvalidName(t *testing.T) {
	tbl := NewTable()
	if err := tbl.Insert("", Text("x")); !errors.Is(err, ErrName) {
		t.Errorf("empty name error = %v, want ErrName", err)
	}
	if err := tbl.Insert("bad\x00name", Text("x")); !errors.Is(err, ErrName) {
		t.Errorf("NUL name error = %v, want ErrName", err)
	}
	if tbl.Len() != 0 {
		t.Errorf("Len = %d, want 0", tbl.Len())
	}
}

func TestTable_SetKeepsPosition(t *testing.T) {
	tbl := NewTable()
	for _, n := range []string{"a", "b", "c"} {
		if err := tbl.Insert(n, Int32(1)); err != nil {
			t.Fatalf("Insert error: %v", err)
		}
	}
	if err := tbl.Set("b", Int32(9)); err != nil {
		t.Fatalf("Set error: %v", err)
	}
	if got := tbl.Names(); got[1] != "b" {
		t.Errorf("Names = %v, want b second", got)
	}
	v, _ := tbl.Get("b")
	if n, _ := v.Int32(); n != 9 {
		t.Errorf("b = %d, want 9", n)
	}
}

func TestTable_Clone(t *testing.T) {
	tbl := NewTable()
	if err := tbl.Insert("jid", Int32(5)); err != nil {
		t.Fatalf("Insert error: %v", err)
	}
	cp := tbl.Clone()
	if err := cp.Insert("name", Text("web")); err != nil {
		t.Fatalf("Insert error: %v", err)
	}
	if tbl.Has("name") {
		t.Error("clone mutation leaked into original")
	}
	if cp.Len() != 2 || tbl.Len() != 1 {
		t.Errorf("Len = %d/%d, want 2/1", cp.Len(), tbl.Len())
	}
}

func TestTable_String(t *testing.T) {
	tbl := NewTable()
	_ = tbl.Insert("jid", Int32(3))
	_ = tbl.Insert("persist", Bool(true))
	want := "Table[jid=3 persist=true]"
	if tbl.String() != want {
		t.Errorf("String() = %q, want %q", tbl.String(), want)
	}
}
