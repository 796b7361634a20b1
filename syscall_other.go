//go:build !freebsd

package gojail

import (
	"syscall"

	"github.com/criyle/go-jail/pkg/jailparam"
)

// sysJail reports ENOSYS everywhere jails do not exist
type sysJail struct{}

func (sysJail) JailSet(pairs []jailparam.Pair, flags int32) (int32, syscall.Errno) {
	return -1, syscall.ENOSYS
}

func (sysJail) JailGet(pairs []jailparam.Pair, flags int32) (int32, syscall.Errno) {
	return -1, syscall.ENOSYS
}

func (sysJail) JailAttach(jid int32) syscall.Errno {
	return syscall.ENOSYS
}

func (sysJail) JailRemove(jid int32) syscall.Errno {
	return syscall.ENOSYS
}
