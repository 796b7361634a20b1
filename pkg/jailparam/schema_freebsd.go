package jailparam

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
	"unsafe"

	"golang.org/x/sys/unix"
)

// sysctlPrefix is the node FreeBSD publishes one child under per jail
// parameter. The child's payload shape identifies the parameter's kind.
const sysctlPrefix = "security.jail.param"

// ProbeKind asks the live kernel for the wire kind of a jail parameter by
// reading its security.jail.param node. Parameters the static vocabulary
// misses, such as ones registered by kernel modules, can be discovered this
// way and added to a schema with Define.
func ProbeKind(name string) (Kind, error) {
	// Address lists carry struct payloads the node does not describe.
	switch name {
	case "ip4.addr":
		return KindIPv4, nil
	case "ip6.addr":
		return KindIPv6, nil
	}
	raw, err := unix.SysctlRaw(sysctlPrefix + "." + name)
	if err != nil {
		return 0, fmt.Errorf("jailparam: probe %s: %w", name, err)
	}
	return classifyNode(raw), nil
}

// ProbeNames lists every jail parameter the running kernel registers,
// including ones added by kernel modules, by walking the
// security.jail.param sysctl tree in oid order the way sysctl(8) does.
func ProbeNames() ([]string, error) {
	oid, err := name2oid(sysctlPrefix)
	if err != nil {
		return nil, fmt.Errorf("jailparam: resolve %s: %w", sysctlPrefix, err)
	}
	prefix := sysctlPrefix + "."
	var names []string
	for {
		next, err := oidNext(oid)
		if err != nil {
			if errors.Is(err, unix.ENOENT) {
				break
			}
			return nil, fmt.Errorf("jailparam: walk %s: %w", sysctlPrefix, err)
		}
		name, err := oidName(next)
		if err != nil {
			return nil, fmt.Errorf("jailparam: walk %s: %w", sysctlPrefix, err)
		}
		if !strings.HasPrefix(name, prefix) {
			break
		}
		names = append(names, strings.TrimPrefix(name, prefix))
		oid = next
	}
	return names, nil
}

// ProbeSchema classifies the kernel's whole parameter vocabulary in one
// sweep over the sysctl tree. Parameters whose node the process cannot
// read are left out.
func ProbeSchema() (*Schema, error) {
	names, err := ProbeNames()
	if err != nil {
		return nil, err
	}
	s := NewSchema(nil)
	for _, name := range names {
		kind, err := ProbeKind(name)
		if err != nil {
			continue
		}
		s.Define(name, kind)
	}
	return s, nil
}

// ctlMaxName is CTL_MAXNAME from sys/sysctl.h, the deepest oid the kernel
// accepts.
const ctlMaxName = 24

// sysctlOid issues __sysctl with a raw integer mib; the meta nodes used to
// walk the tree have no names for the Sysctl* helpers to reach.
func sysctlOid(mib []int32, old, newv []byte) (int, error) {
	oldlen := uintptr(len(old))
	var oldp, newp unsafe.Pointer
	if len(old) > 0 {
		oldp = unsafe.Pointer(&old[0])
	}
	if len(newv) > 0 {
		newp = unsafe.Pointer(&newv[0])
	}
	_, _, errno := unix.Syscall6(unix.SYS___SYSCTL,
		uintptr(unsafe.Pointer(&mib[0])), uintptr(len(mib)),
		uintptr(oldp), uintptr(unsafe.Pointer(&oldlen)),
		uintptr(newp), uintptr(len(newv)))
	if errno != 0 {
		return 0, errno
	}
	return int(oldlen), nil
}

// name2oid resolves a sysctl name to its integer oid through the {0,3}
// meta node.
func name2oid(name string) ([]int32, error) {
	buf := make([]int32, ctlMaxName)
	raw := unsafe.Slice((*byte)(unsafe.Pointer(&buf[0])), len(buf)*4)
	n, err := sysctlOid([]int32{0, 3}, raw, []byte(name))
	if err != nil {
		return nil, err
	}
	return buf[:n/4], nil
}

// oidNext returns the oid following the given one in tree order through
// the {0,2} meta node; ENOENT means the tree is exhausted.
func oidNext(oid []int32) ([]int32, error) {
	buf := make([]int32, ctlMaxName)
	raw := unsafe.Slice((*byte)(unsafe.Pointer(&buf[0])), len(buf)*4)
	n, err := sysctlOid(append([]int32{0, 2}, oid...), raw, nil)
	if err != nil {
		return nil, err
	}
	return buf[:n/4], nil
}

// oidName returns the dotted name of an oid through the {0,1} meta node.
func oidName(oid []int32) (string, error) {
	buf := make([]byte, 256)
	n, err := sysctlOid(append([]int32{0, 1}, oid...), buf, nil)
	if err != nil {
		return "", err
	}
	b := buf[:n]
	if i := bytes.IndexByte(b, 0); i >= 0 {
		b = b[:i]
	}
	return string(b), nil
}
