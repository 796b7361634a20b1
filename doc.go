// Package gojail creates, inspects and controls FreeBSD jails through the
// jail_set(2), jail_get(2), jail_attach(2) and jail_remove(2) system calls.
//
// # Overview
//
// Jail parameters travel to the kernel as a flat vector of name / value
// buffer pairs. This package pairs a typed parameter table (see
// pkg/jailparam) with a Driver that encodes tables, issues the system
// calls, negotiates output buffer sizes, and turns kernel errors into
// typed errors carrying the kernel's own error message.
//
// # Wire protocol
//
// ## jail_set (create / update a jail)
//
// - submit: name / value pairs for every parameter plus an errmsg pair
// - flags: JAIL_CREATE, JAIL_UPDATE or both, optionally JAIL_ATTACH, JAIL_DYING
// - return: the jail id, or -1 with errno and the errmsg buffer filled
//
// ## jail_get (read parameters back)
//
// - submit: a jid, name or lastjid pair selecting the jail, plus one pair
//   per requested parameter; variable width parameters submit a nil buffer
//   first so the kernel reports the needed size
// - the kernel overwrites each pair's length with the byte count it wrote
//   or wants; EINVAL together with a grown length means the buffer was too
//   small and the call is retried with larger buffers a bounded number of
//   times
// - return: the jail id with all buffers filled
//
// ## jail_attach / jail_remove
//
// - submit: the jail id; tables are accepted and resolved to a jid first,
//   issuing a jail_get when only a name is present
//
// Enumeration chains jail_get calls through the lastjid parameter until the
// kernel answers ENOENT.
package gojail
