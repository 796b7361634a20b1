package gojail

import (
	"errors"
	"strings"
	"syscall"

	"github.com/criyle/go-jail/pkg/jailparam"
)

// ErrorKind classifies jail call failures
// default value 0 means unclassified
type ErrorKind uint8

// Structural kinds are raised before any system call; the rest map kernel
// errnos.
const (
	DuplicateParameter ErrorKind = iota + 1
	MalformedValue
	InvalidBooleanEncoding
	MissingIdentifier
	ConflictingAction
	BufferNegotiationFailed
	UnknownParameter
	PermissionDenied
	NotFound
	AlreadyExists
	InvalidArgument
	Unavailable
)

var kindNames = map[ErrorKind]string{
	DuplicateParameter:      "duplicate parameter",
	MalformedValue:          "malformed value",
	InvalidBooleanEncoding:  "invalid boolean encoding",
	MissingIdentifier:       "missing identifier",
	ConflictingAction:       "conflicting action",
	BufferNegotiationFailed: "buffer negotiation failed",
	UnknownParameter:        "unknown parameter",
	PermissionDenied:        "permission denied",
	NotFound:                "not found",
	AlreadyExists:           "already exists",
	InvalidArgument:         "invalid argument",
	Unavailable:             "unavailable",
}

func (k ErrorKind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return "unclassified"
}

// Error is the error returned by jail calls. Errno holds the raw kernel
// errno when a system call failed, Msg the kernel's errmsg text when one
// was captured, Param the offending parameter name when known.
type Error struct {
	Kind  ErrorKind
	Op    string
	Param string
	Errno syscall.Errno
	Msg   string
	Err   error
}

func (e *Error) Error() string {
	var sb strings.Builder
	sb.WriteString("gojail")
	if e.Op != "" {
		sb.WriteString(": ")
		sb.WriteString(e.Op)
	}
	sb.WriteString(": ")
	sb.WriteString(e.Kind.String())
	if e.Param != "" {
		sb.WriteString(": ")
		sb.WriteString(e.Param)
	}
	if e.Msg != "" {
		sb.WriteString(": ")
		sb.WriteString(e.Msg)
	}
	if e.Errno != 0 {
		sb.WriteString(" (")
		sb.WriteString(e.Errno.Error())
		sb.WriteString(")")
	} else if e.Err != nil {
		sb.WriteString(": ")
		sb.WriteString(e.Err.Error())
	}
	return sb.String()
}

func (e *Error) Unwrap() error {
	return e.Err
}

// KindOf extracts the ErrorKind from an error returned by this package.
// Errors from elsewhere report 0.
func KindOf(err error) ErrorKind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return 0
}

// errnoKind buckets kernel errnos into portable kinds
func errnoKind(errno syscall.Errno) ErrorKind {
	switch errno {
	case syscall.EPERM, syscall.EACCES:
		return PermissionDenied
	case syscall.ENOENT, syscall.ESRCH:
		return NotFound
	case syscall.EEXIST:
		return AlreadyExists
	case syscall.EINVAL, syscall.ENAMETOOLONG, syscall.E2BIG, syscall.EFAULT:
		return InvalidArgument
	default:
		return Unavailable
	}
}

// structuralKind classifies encode and decode failures from the parameter
// layer
func structuralKind(err error) ErrorKind {
	switch {
	case errors.Is(err, jailparam.ErrDuplicate):
		return DuplicateParameter
	case errors.Is(err, jailparam.ErrBadBool):
		return InvalidBooleanEncoding
	default:
		return MalformedValue
	}
}

// unknownParamPrefix starts the errmsg the kernel writes when a submitted
// name does not exist, as in "unknown parameter: vendor.widget".
const unknownParamPrefix = "unknown parameter: "

// errmsgKind refines an errno classification using the kernel's errmsg
// text, extracting the offending name when the message carries one.
func errmsgKind(errno syscall.Errno, msg string) (ErrorKind, string) {
	if strings.HasPrefix(msg, unknownParamPrefix) {
		return UnknownParameter, strings.TrimPrefix(msg, unknownParamPrefix)
	}
	return errnoKind(errno), ""
}
