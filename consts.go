package gojail

// defines missing consts from sys/jail.h not exposed by x/sys/unix
const (
	JAIL_CREATE = 0x01
	JAIL_UPDATE = 0x02
	JAIL_ATTACH = 0x04
	JAIL_DYING  = 0x08

	JAIL_SET_MASK = 0x0f
	JAIL_GET_MASK = 0x08

	// errmsg buffer size matching the kernel's JAIL_ERRMSGLEN
	JAIL_ERRMSGLEN = 1024
)

// Reserved parameter names with kernel assigned meaning
const (
	ParamJID     = "jid"
	ParamName    = "name"
	ParamLastJID = "lastjid"
	ParamErrMsg  = "errmsg"
)
