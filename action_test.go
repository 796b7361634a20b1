package gojail

import "testing"

func TestAction_SetFlags(t *testing.T) {
	for _, tc := range []struct {
		action Action
		want   int32
	}{
		{ActionCreate, JAIL_CREATE},
		{ActionCreate.FailIfExists(), JAIL_CREATE},
		{ActionUpdate, JAIL_UPDATE},
		{ActionCreateOrUpdate, JAIL_CREATE | JAIL_UPDATE},
		{ActionCreate.Force(), JAIL_CREATE | JAIL_DYING},
		{ActionUpdate.AttachCaller(), JAIL_UPDATE | JAIL_ATTACH},
		{ActionCreateOrUpdate.Force().AttachCaller(), JAIL_CREATE | JAIL_UPDATE | JAIL_DYING | JAIL_ATTACH},
	} {
		got, e := tc.action.setFlags()
		if e != nil {
			t.Fatalf("setFlags(%v) error: %v", tc.action, e)
		}
		if got != tc.want {
			t.Errorf("setFlags(%v) = %#x, want %#x", tc.action, got, tc.want)
		}
	}
}

func TestAction_SetFlagsConflict(t *testing.T) {
	for _, a := range []Action{
		ActionCreateOrUpdate.FailIfExists(),
		ActionAttach,
		ActionRemove,
		Action(0),
	} {
		_, e := a.setFlags()
		if e == nil {
			t.Fatalf("setFlags(%v) error = nil, want conflict", a)
		}
		if e.Kind != ConflictingAction {
			t.Errorf("setFlags(%v) kind = %v, want %v", a, e.Kind, ConflictingAction)
		}
	}
}

func TestAction_Base(t *testing.T) {
	a := ActionCreate.Force().FailIfExists().AttachCaller()
	if a.Base() != ActionCreate {
		t.Errorf("Base = %v, want %v", a.Base(), ActionCreate)
	}
}

func TestAction_String(t *testing.T) {
	for _, tc := range []struct {
		action Action
		want   string
	}{
		{ActionCreate, "create"},
		{ActionUpdate, "update"},
		{ActionCreateOrUpdate, "create-or-update"},
		{ActionAttach, "attach"},
		{ActionRemove, "remove"},
		{ActionCreate.FailIfExists(), "create+fail-if-exists"},
		{ActionUpdate.Force().AttachCaller(), "update+force+attach"},
		{Action(0), "invalid"},
	} {
		if got := tc.action.String(); got != tc.want {
			t.Errorf("String() = %q, want %q", got, tc.want)
		}
	}
}
