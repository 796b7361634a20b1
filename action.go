package gojail

import "strings"

// Action selects the jail_set operation and its modifiers
type Action uint32

// Action defines what jail_set does with the parameter set
// default value 0 is invalid
const (
	// ActionCreate creates a new jail and fails if it already exists
	ActionCreate Action = iota + 1
	// ActionUpdate modifies an existing jail and fails if it does not exist
	ActionUpdate
	// ActionCreateOrUpdate creates the jail or updates it when it exists
	ActionCreateOrUpdate
	// ActionAttach moves the calling process into the jail
	ActionAttach
	// ActionRemove kills the jail and every process inside it
	ActionRemove
)

// Modifiers packed into the high bits above the base action
const (
	modFailIfExists Action = 1 << (16 + iota)
	modForce
	modAttach

	baseMask Action = 0xffff
)

// Base strips the modifiers and returns the plain action
func (a Action) Base() Action {
	return a & baseMask
}

// FailIfExists marks a create that must not fall back to update. It only
// strengthens ActionCreate, which already refuses existing jails, and
// conflicts with ActionCreateOrUpdate.
func (a Action) FailIfExists() Action {
	return a | modFailIfExists
}

// Force lets the action reach jails that are dying
func (a Action) Force() Action {
	return a | modForce
}

// AttachCaller additionally moves the calling process into the jail once
// the create or update succeeds
func (a Action) AttachCaller() Action {
	return a | modAttach
}

// setFlags converts the action into the jail_set flag word. Base actions
// that never reach jail_set and contradictory modifier combinations fail
// before any system call is made.
func (a Action) setFlags() (int32, *Error) {
	var flags int32
	switch a.Base() {
	case ActionCreate:
		flags = JAIL_CREATE
	case ActionUpdate:
		flags = JAIL_UPDATE
	case ActionCreateOrUpdate:
		if a&modFailIfExists != 0 {
			return 0, &Error{
				Kind: ConflictingAction,
				Msg:  "create-or-update cannot fail when the jail exists",
			}
		}
		flags = JAIL_CREATE | JAIL_UPDATE
	default:
		return 0, &Error{
			Kind: ConflictingAction,
			Msg:  a.String() + " is not a jail_set action",
		}
	}
	if a&modForce != 0 {
		flags |= JAIL_DYING
	}
	if a&modAttach != 0 {
		flags |= JAIL_ATTACH
	}
	return flags, nil
}

func (a Action) String() string {
	var sb strings.Builder
	switch a.Base() {
	case ActionCreate:
		sb.WriteString("create")
	case ActionUpdate:
		sb.WriteString("update")
	case ActionCreateOrUpdate:
		sb.WriteString("create-or-update")
	case ActionAttach:
		sb.WriteString("attach")
	case ActionRemove:
		sb.WriteString("remove")
	default:
		sb.WriteString("invalid")
	}
	if a&modFailIfExists != 0 {
		sb.WriteString("+fail-if-exists")
	}
	if a&modForce != 0 {
		sb.WriteString("+force")
	}
	if a&modAttach != 0 {
		sb.WriteString("+attach")
	}
	return sb.String()
}
