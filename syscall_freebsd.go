package gojail

import (
	"syscall"
	"unsafe"

	"golang.org/x/sys/unix"

	"github.com/criyle/go-jail/pkg/jailparam"
)

// sysJail issues the real jail system calls
type sysJail struct{}

func (sysJail) JailSet(pairs []jailparam.Pair, flags int32) (int32, syscall.Errno) {
	return jailIovCall(unix.SYS_JAIL_SET, pairs, flags)
}

func (sysJail) JailGet(pairs []jailparam.Pair, flags int32) (int32, syscall.Errno) {
	return jailIovCall(unix.SYS_JAIL_GET, pairs, flags)
}

func (sysJail) JailAttach(jid int32) syscall.Errno {
	_, _, errno := unix.Syscall(unix.SYS_JAIL_ATTACH, uintptr(jid), 0, 0)
	return errno
}

func (sysJail) JailRemove(jid int32) syscall.Errno {
	_, _, errno := unix.Syscall(unix.SYS_JAIL_REMOVE, uintptr(jid), 0, 0)
	return errno
}

// jailIovCall lays the pairs out as iovecs, two per pair, issues the call
// and copies the kernel written lengths back into the pairs. A nil value
// buffer submits a nil iovec base so the kernel reports the needed size.
func jailIovCall(trap uintptr, pairs []jailparam.Pair, flags int32) (int32, syscall.Errno) {
	iovs := make([]unix.Iovec, 0, 2*len(pairs))
	for i := range pairs {
		p := &pairs[i]
		name := unix.Iovec{Base: &p.Name[0]}
		name.SetLen(len(p.Name))
		var value unix.Iovec
		if len(p.Value) > 0 {
			value.Base = &p.Value[0]
			value.SetLen(len(p.Value))
		}
		iovs = append(iovs, name, value)
	}
	var iovBase unsafe.Pointer
	if len(iovs) > 0 {
		iovBase = unsafe.Pointer(&iovs[0])
	}
	r1, _, errno := unix.Syscall(trap, uintptr(iovBase), uintptr(len(iovs)), uintptr(flags))
	for i := range pairs {
		pairs[i].Size = int(iovs[2*i+1].Len)
	}
	return int32(r1), errno
}
