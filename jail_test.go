package gojail

import (
	"errors"
	"net/netip"
	"syscall"
	"testing"

	"github.com/criyle/go-jail/pkg/jailparam"
)

func TestDriver_CreateHandle(t *testing.T) {
	var gotFlags int32
	var removed int32
	sys := &fakeSys{
		set: func(pairs []jailparam.Pair, flags int32) (int32, syscall.Errno) {
			gotFlags = flags
			return 21, 0
		},
		remove: func(jid int32) syscall.Errno {
			removed = jid
			return 0
		},
	}
	d := &Driver{Sys: sys}

	j, err := d.Create(Config{Name: "web", Path: "/jails/web", Persist: true})
	if err != nil {
		t.Fatalf("Create error: %v", err)
	}
	if j.JID != 21 || j.Name != "web" {
		t.Errorf("jail = %v, want jail 21 (web)", j)
	}
	if gotFlags != JAIL_CREATE {
		t.Errorf("flags = %#x, want %#x", gotFlags, JAIL_CREATE)
	}

	if err := j.Remove(); err != nil {
		t.Fatalf("Remove error: %v", err)
	}
	if removed != 21 {
		t.Errorf("removed jid = %d, want 21", removed)
	}
}

func TestDriver_UpdateByJID(t *testing.T) {
	var gotFlags int32
	var firstName string
	sys := &fakeSys{
		set: func(pairs []jailparam.Pair, flags int32) (int32, syscall.Errno) {
			gotFlags = flags
			firstName = pairs[0].ParamName()
			return 4, 0
		},
	}
	d := &Driver{Sys: sys}

	j, err := d.Update(Config{JID: 4, Hostname: "web.example.org"})
	if err != nil {
		t.Fatalf("Update error: %v", err)
	}
	if j.JID != 4 {
		t.Errorf("jid = %d, want 4", j.JID)
	}
	if gotFlags != JAIL_UPDATE {
		t.Errorf("flags = %#x, want %#x", gotFlags, JAIL_UPDATE)
	}
	if firstName != ParamJID {
		t.Errorf("first pair = %s, want jid", firstName)
	}
}

func TestDriver_Lookup(t *testing.T) {
	sys := &fakeSys{
		get: func(pairs []jailparam.Pair, flags int32) (int32, syscall.Errno) {
			if findPair(pairs, ParamName) == nil {
				return -1, syscall.EINVAL
			}
			return 9, 0
		},
	}
	d := &Driver{Sys: sys}

	j, err := d.Lookup("web")
	if err != nil {
		t.Fatalf("Lookup error: %v", err)
	}
	if j.JID != 9 || j.Name != "web" {
		t.Errorf("jail = %v, want jail 9 (web)", j)
	}

	if _, err := d.Lookup(""); KindOf(err) != MissingIdentifier {
		t.Errorf("empty name kind = %v, want %v", KindOf(err), MissingIdentifier)
	}
	if sys.getCalls != 1 {
		t.Errorf("get calls = %d, want 1", sys.getCalls)
	}
}

func TestDriver_LookupNotFound(t *testing.T) {
	sys := &fakeSys{
		get: func(pairs []jailparam.Pair, flags int32) (int32, syscall.Errno) {
			return -1, syscall.ENOENT
		},
	}
	d := &Driver{Sys: sys}

	if _, err := d.Lookup("ghost"); KindOf(err) != NotFound {
		t.Errorf("error kind = %v, want %v", KindOf(err), NotFound)
	}
}

func TestJail_Params(t *testing.T) {
	sys := &fakeSys{
		get: func(pairs []jailparam.Pair, flags int32) (int32, syscall.Errno) {
			if p := findPair(pairs, ParamJID); p != nil {
				writeInt32(p, 14)
			}
			if p := findPair(pairs, "path"); p != nil && !writeText(p, "/jails/db") {
				return -1, syscall.EINVAL
			}
			return 14, 0
		},
	}
	j := &Jail{JID: 14, Name: "db", drv: &Driver{Sys: sys}}

	tbl, err := j.Params("path")
	if err != nil {
		t.Fatalf("Params error: %v", err)
	}
	v, ok := tbl.Get("path")
	if !ok {
		t.Fatal("path missing from result")
	}
	if s, _ := v.Text(); s != "/jails/db" {
		t.Errorf("path = %q, want /jails/db", s)
	}
}

func TestJail_String(t *testing.T) {
	j := &Jail{JID: 3, Name: "web"}
	if got := j.String(); got != "jail 3 (web)" {
		t.Errorf("String() = %q, want %q", got, "jail 3 (web)")
	}
	j = &Jail{JID: 7}
	if got := j.String(); got != "jail 7" {
		t.Errorf("String() = %q, want %q", got, "jail 7")
	}
}

func TestConfig_Table(t *testing.T) {
	extra := jailparam.NewTable()
	if err := extra.Insert("allow.raw_sockets", jailparam.Bool(true)); err != nil {
		t.Fatalf("Insert error: %v", err)
	}
	c := Config{
		JID:         2,
		Name:        "web",
		Path:        "/jails/web",
		Hostname:    "web.example.org",
		DomainName:  "example.org",
		IP4:         netip.MustParseAddr("192.0.2.10"),
		IP6:         netip.MustParseAddr("2001:db8::10"),
		Persist:     true,
		Securelevel: 2,
		Extra:       extra,
	}
	tbl, err := c.Table()
	if err != nil {
		t.Fatalf("Table error: %v", err)
	}
	want := []string{
		ParamJID, ParamName, "path", "host.hostname", "host.domainname",
		"ip4.addr", "ip6.addr", "persist", "securelevel", "allow.raw_sockets",
	}
	got := tbl.Names()
	if len(got) != len(want) {
		t.Fatalf("Names = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Names[%d] = %s, want %s", i, got[i], want[i])
		}
	}
}

func TestConfig_TableZeroFieldsSkipped(t *testing.T) {
	tbl, err := Config{Name: "tiny"}.Table()
	if err != nil {
		t.Fatalf("Table error: %v", err)
	}
	if tbl.Len() != 1 || !tbl.Has(ParamName) {
		t.Errorf("table = %v, want just name", tbl)
	}
}

func TestConfig_TableAddrFamily(t *testing.T) {
	if _, err := (Config{IP4: netip.MustParseAddr("2001:db8::1")}).Table(); !errors.Is(err, jailparam.ErrMalformed) {
		t.Errorf("v6 address in IP4 error = %v, want ErrMalformed", err)
	}
	if _, err := (Config{IP6: netip.MustParseAddr("10.0.0.1")}).Table(); !errors.Is(err, jailparam.ErrMalformed) {
		t.Errorf("v4 address in IP6 error = %v, want ErrMalformed", err)
	}
	// Mapped v4 counts as v4 either way.
	if _, err := (Config{IP4: netip.MustParseAddr("::ffff:10.0.0.1")}).Table(); err != nil {
		t.Errorf("mapped v4 in IP4 error: %v", err)
	}
}

func TestConfig_TableExtraCollision(t *testing.T) {
	extra := jailparam.NewTable()
	if err := extra.Insert(ParamName, jailparam.Text("other")); err != nil {
		t.Fatalf("Insert error: %v", err)
	}
	_, err := Config{Name: "web", Extra: extra}.Table()
	if !errors.Is(err, jailparam.ErrDuplicate) {
		t.Fatalf("colliding extra error = %v, want ErrDuplicate", err)
	}
}
