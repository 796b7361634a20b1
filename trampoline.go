package gojail

import (
	"syscall"

	"github.com/criyle/go-jail/pkg/jailparam"
)

// Syscaller is the raw system call boundary under the Driver. It exists so
// the full call path, including buffer size negotiation, can run against a
// simulated kernel in tests and on systems without jails.
type Syscaller interface {
	// JailSet issues jail_set(2) with the pairs laid out as iovecs and
	// returns the jail id. Kernel written pair sizes are copied back.
	JailSet(pairs []jailparam.Pair, flags int32) (int32, syscall.Errno)
	// JailGet issues jail_get(2); the kernel fills the value buffers and
	// overwrites each pair's size with the byte count written or wanted.
	JailGet(pairs []jailparam.Pair, flags int32) (int32, syscall.Errno)
	// JailAttach imprisons the calling process in the jail
	JailAttach(jid int32) syscall.Errno
	// JailRemove kills the jail and every process inside it
	JailRemove(jid int32) syscall.Errno
}

// DefaultSyscaller returns the Syscaller backed by the real system calls.
// On systems without jails every call fails with ENOSYS.
func DefaultSyscaller() Syscaller {
	return sysJail{}
}
