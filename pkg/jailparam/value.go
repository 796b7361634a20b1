// Package jailparam provides typed values, ordered parameter tables and the
// name / value buffer codec for the FreeBSD jail parameter ABI used by
// jail_set(2) and jail_get(2).
package jailparam

import (
	"encoding/binary"
	"errors"
	"fmt"
	"net/netip"
	"strconv"
)

// Kind is the wire type of a jail parameter value
// default value 0 is invalid
type Kind uint8

// Kinds understood by the codec. The kernel carries no type information on
// the wire; a Schema maps parameter names to kinds on decode.
const (
	KindText Kind = iota + 1
	KindBool
	KindInt32
	KindInt64
	KindIPv4
	KindIPv6
	KindBlob
	KindCount
)

var kindNames = map[Kind]string{
	KindText:  "text",
	KindBool:  "bool",
	KindInt32: "int32",
	KindInt64: "int64",
	KindIPv4:  "ipv4",
	KindIPv6:  "ipv6",
	KindBlob:  "blob",
	KindCount: "count",
}

func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return "invalid"
}

// FixedSize returns the exact buffer width for fixed width kinds. Text and
// blob values have no fixed width and return false.
func (k Kind) FixedSize() (int, bool) {
	switch k {
	case KindBool, KindInt32, KindCount:
		return 4, true
	case KindInt64:
		return 8, true
	case KindIPv4:
		return 4, true
	case KindIPv6:
		return 16, true
	}
	return 0, false
}

// Errors reported by value encode / decode.
var (
	ErrMalformed = errors.New("malformed value buffer")
	ErrBadBool   = errors.New("invalid boolean encoding")
)

// Value is a typed jail parameter value. The zero Value is invalid and fails
// to encode. Values are immutable once constructed.
type Value struct {
	kind Kind
	num  uint64
	str  string
	addr netip.Addr
	raw  []byte
}

// Text creates a NUL terminated string value
func Text(s string) Value {
	return Value{kind: KindText, str: s}
}

// Bool creates a boolean value, encoded as a 4 byte native endian integer
// holding 0 or 1 as the kernel expects for jail boolean parameters
func Bool(b bool) Value {
	var n uint64
	if b {
		n = 1
	}
	return Value{kind: KindBool, num: n}
}

// Int32 creates a 32 bit signed integer value
func Int32(n int32) Value {
	return Value{kind: KindInt32, num: uint64(uint32(n))}
}

// Int64 creates a 64 bit signed integer value
func Int64(n int64) Value {
	return Value{kind: KindInt64, num: uint64(n)}
}

// Count creates an element count value used by count header framing
func Count(n uint32) Value {
	return Value{kind: KindCount, num: uint64(n)}
}

// Addr creates an address value. The kind is KindIPv4 for IPv4 addresses and
// KindIPv6 otherwise; 4-in-6 mapped addresses are unmapped first. An invalid
// netip.Addr yields an invalid Value.
func Addr(a netip.Addr) Value {
	if !a.IsValid() {
		return Value{}
	}
	a = a.Unmap()
	if a.Is4() {
		return Value{kind: KindIPv4, addr: a}
	}
	return Value{kind: KindIPv6, addr: a}
}

// Blob creates an opaque byte value passed through without interpretation.
// The bytes are copied.
func Blob(b []byte) Value {
	raw := make([]byte, len(b))
	copy(raw, b)
	return Value{kind: KindBlob, raw: raw}
}

// Kind returns the kind of the value
func (v Value) Kind() Kind {
	return v.kind
}

// Text returns the string payload when the value is a text value
func (v Value) Text() (string, bool) {
	if v.kind != KindText {
		return "", false
	}
	return v.str, true
}

// Bool returns the boolean payload when the value is a boolean value
func (v Value) Bool() (bool, bool) {
	if v.kind != KindBool {
		return false, false
	}
	return v.num != 0, true
}

// Int32 returns the integer payload when the value is a 32 bit integer
func (v Value) Int32() (int32, bool) {
	if v.kind != KindInt32 {
		return 0, false
	}
	return int32(uint32(v.num)), true
}

// Int64 returns the integer payload when the value is a 64 bit integer
func (v Value) Int64() (int64, bool) {
	if v.kind != KindInt64 {
		return 0, false
	}
	return int64(v.num), true
}

// Count returns the count payload when the value is a count value
func (v Value) Count() (uint32, bool) {
	if v.kind != KindCount {
		return 0, false
	}
	return uint32(v.num), true
}

// Addr returns the address payload when the value is an IPv4 or IPv6 address
func (v Value) Addr() (netip.Addr, bool) {
	if v.kind != KindIPv4 && v.kind != KindIPv6 {
		return netip.Addr{}, false
	}
	return v.addr, true
}

// Blob returns a copy of the payload when the value is an opaque byte value
func (v Value) Blob() ([]byte, bool) {
	if v.kind != KindBlob {
		return nil, false
	}
	raw := make([]byte, len(v.raw))
	copy(raw, v.raw)
	return raw, true
}

// Equal reports whether two values have the same kind and payload
func (v Value) Equal(o Value) bool {
	if v.kind != o.kind {
		return false
	}
	switch v.kind {
	case KindText:
		return v.str == o.str
	case KindIPv4, KindIPv6:
		return v.addr == o.addr
	case KindBlob:
		return string(v.raw) == string(o.raw)
	default:
		return v.num == o.num
	}
}

func (v Value) String() string {
	switch v.kind {
	case KindText:
		return v.str
	case KindBool:
		if v.num != 0 {
			return "true"
		}
		return "false"
	case KindInt32:
		return strconv.FormatInt(int64(int32(uint32(v.num))), 10)
	case KindInt64:
		return strconv.FormatInt(int64(v.num), 10)
	case KindCount:
		return strconv.FormatUint(v.num, 10)
	case KindIPv4, KindIPv6:
		return v.addr.String()
	case KindBlob:
		return fmt.Sprintf("%d bytes", len(v.raw))
	}
	return "<invalid>"
}

// Encode renders the value into a freshly allocated wire buffer. Integers
// and booleans use native byte order, addresses network byte order, text is
// NUL terminated. Text containing an interior NUL fails with ErrMalformed.
func (v Value) Encode() ([]byte, error) {
	switch v.kind {
	case KindText:
		for i := 0; i < len(v.str); i++ {
			if v.str[i] == 0 {
				return nil, fmt.Errorf("jailparam: text contains NUL byte: %w", ErrMalformed)
			}
		}
		buf := make([]byte, len(v.str)+1)
		copy(buf, v.str)
		return buf, nil
	case KindBool, KindInt32, KindCount:
		buf := make([]byte, 4)
		binary.NativeEndian.PutUint32(buf, uint32(v.num))
		return buf, nil
	case KindInt64:
		buf := make([]byte, 8)
		binary.NativeEndian.PutUint64(buf, v.num)
		return buf, nil
	case KindIPv4:
		a := v.addr.As4()
		return a[:], nil
	case KindIPv6:
		a := v.addr.As16()
		return a[:], nil
	case KindBlob:
		buf := make([]byte, len(v.raw))
		copy(buf, v.raw)
		return buf, nil
	}
	return nil, fmt.Errorf("jailparam: cannot encode %v value: %w", v.kind, ErrMalformed)
}

// DecodeValue interprets a kernel written buffer as the given kind. Fixed
// width kinds require the exact width; booleans additionally require the
// integer to hold 0 or 1 and fail with ErrBadBool otherwise. Text requires
// a trailing NUL. Padding bytes are never assumed or stripped.
func DecodeValue(raw []byte, kind Kind) (Value, error) {
	switch kind {
	case KindText:
		if len(raw) == 0 || raw[len(raw)-1] != 0 {
			return Value{}, fmt.Errorf("jailparam: text buffer missing NUL terminator: %w", ErrMalformed)
		}
		s := raw[:len(raw)-1]
		for i := 0; i < len(s); i++ {
			if s[i] == 0 {
				return Value{}, fmt.Errorf("jailparam: text buffer contains interior NUL: %w", ErrMalformed)
			}
		}
		return Text(string(s)), nil
	case KindBool:
		if len(raw) != 4 {
			return Value{}, fmt.Errorf("jailparam: boolean buffer is %d bytes, want 4: %w", len(raw), ErrBadBool)
		}
		switch binary.NativeEndian.Uint32(raw) {
		case 0:
			return Bool(false), nil
		case 1:
			return Bool(true), nil
		}
		return Value{}, fmt.Errorf("jailparam: boolean buffer holds %d, want 0 or 1: %w", binary.NativeEndian.Uint32(raw), ErrBadBool)
	case KindInt32:
		if len(raw) != 4 {
			return Value{}, fmt.Errorf("jailparam: int32 buffer is %d bytes, want 4: %w", len(raw), ErrMalformed)
		}
		return Int32(int32(binary.NativeEndian.Uint32(raw))), nil
	case KindInt64:
		if len(raw) != 8 {
			return Value{}, fmt.Errorf("jailparam: int64 buffer is %d bytes, want 8: %w", len(raw), ErrMalformed)
		}
		return Int64(int64(binary.NativeEndian.Uint64(raw))), nil
	case KindCount:
		if len(raw) != 4 {
			return Value{}, fmt.Errorf("jailparam: count buffer is %d bytes, want 4: %w", len(raw), ErrMalformed)
		}
		return Count(binary.NativeEndian.Uint32(raw)), nil
	case KindIPv4:
		if len(raw) != 4 {
			return Value{}, fmt.Errorf("jailparam: ipv4 buffer is %d bytes, want 4: %w", len(raw), ErrMalformed)
		}
		return Value{kind: KindIPv4, addr: netip.AddrFrom4([4]byte(raw))}, nil
	case KindIPv6:
		if len(raw) != 16 {
			return Value{}, fmt.Errorf("jailparam: ipv6 buffer is %d bytes, want 16: %w", len(raw), ErrMalformed)
		}
		return Value{kind: KindIPv6, addr: netip.AddrFrom16([16]byte(raw))}, nil
	case KindBlob:
		return Blob(raw), nil
	}
	return Value{}, fmt.Errorf("jailparam: cannot decode %v value: %w", kind, ErrMalformed)
}
