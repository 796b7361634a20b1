package gojail

import (
	"bytes"
	"fmt"
	"syscall"

	"github.com/criyle/go-jail/pkg/jailparam"
)

// defaultMaxRetries bounds the buffer growth negotiation per call
const defaultMaxRetries = 3

// Driver turns parameter tables into jail system calls. The zero Driver is
// ready to use: real system calls, the stock schema, no count framing and
// the default retry bound. A Driver holds no per call state and is safe
// for concurrent use.
type Driver struct {
	// Sys issues the raw system calls; nil means the live kernel
	Sys Syscaller
	// Schema types kernel returned buffers on decode; nil means the stock
	// jail(8) vocabulary
	Schema *jailparam.Schema
	// Vocabulary discovers the kernel's full parameter vocabulary for
	// GetAll; nil means probing the security.jail.param sysctl tree
	Vocabulary func() (*jailparam.Schema, error)
	// SetFraming and GetFraming configure the count header pair per call
	// direction; the zero value sends none, matching the stock ABI
	SetFraming jailparam.Framing
	GetFraming jailparam.Framing
	// MaxRetries bounds how many times a get regrows undersized buffers
	// before giving up; 0 means 3
	MaxRetries int
	// NoErrMsg stops the driver from adding an errmsg pair, losing the
	// kernel's error text on failures
	NoErrMsg bool
	// Dying includes jails that are being torn down in get and list
	Dying bool
}

var stockSchema = jailparam.DefaultSchema()

func (d *Driver) sys() Syscaller {
	if d.Sys != nil {
		return d.Sys
	}
	return DefaultSyscaller()
}

func (d *Driver) schema() *jailparam.Schema {
	if d.Schema != nil {
		return d.Schema
	}
	return stockSchema
}

func (d *Driver) maxRetries() int {
	if d.MaxRetries > 0 {
		return d.MaxRetries
	}
	return defaultMaxRetries
}

func (d *Driver) getFlags() int32 {
	if d.Dying {
		return JAIL_DYING
	}
	return 0
}

// Do dispatches the action to the matching call: create and update shapes
// go through Set, attach and remove resolve the table to a jid first. The
// returned jid is the target jail for every action.
func (d *Driver) Do(t *jailparam.Table, a Action) (JID, error) {
	switch a.Base() {
	case ActionAttach:
		return d.attach(t)
	case ActionRemove:
		return d.remove(t)
	default:
		return d.Set(t, a)
	}
}

// Set submits the table to jail_set with the action's flag word. On
// success the kernel returns the new or updated jail's id; parameter
// buffers are not echoed back, so kernel assigned values are read with Get
// afterwards. Structural failures are reported before any system call.
func (d *Driver) Set(t *jailparam.Table, a Action) (JID, error) {
	const op = "set"
	flags, e := a.setFlags()
	if e != nil {
		e.Op = op
		return 0, e
	}
	if t == nil {
		t = jailparam.NewTable()
	}
	pairs, err := jailparam.Encode(t, jailparam.Framing{})
	if err != nil {
		return 0, &Error{Kind: structuralKind(err), Op: op, Err: err}
	}
	if !d.NoErrMsg && !t.Has(ParamErrMsg) {
		pairs = append(pairs, errmsgPair())
	}
	pairs = jailparam.Frame(pairs, d.SetFraming)

	jid, errno := d.sys().JailSet(pairs, flags)
	if errno != 0 {
		return 0, d.kernelError(op, errno, pairs)
	}
	return JID(jid), nil
}

// Get reads parameters back from the kernel. The filter table selects the
// jail by jid, name or lastjid and is submitted as is; names lists further
// parameters to fetch. Fixed width results get exactly sized buffers up
// front, variable width results start as nil buffers and are grown to the
// kernel reported size, retrying the call a bounded number of times.
func (d *Driver) Get(filter *jailparam.Table, names ...string) (*jailparam.Table, JID, error) {
	return d.get(d.schema(), filter, names)
}

// GetAll reads every parameter the kernel registers for the jail selected
// by the filter, so parameters added by kernel modules are reachable
// without naming them. The fetch list comes from the security.jail.param
// sysctl tree unless Vocabulary overrides it; names the configured schema
// also knows keep the configured kinds on decode.
func (d *Driver) GetAll(filter *jailparam.Table) (*jailparam.Table, JID, error) {
	const op = "get"
	vocab, err := d.vocabulary()
	if err != nil {
		return nil, 0, &Error{Kind: Unavailable, Op: op, Err: err}
	}
	names := vocab.Names()
	merged := vocab.Clone()
	static := d.schema()
	for _, name := range static.Names() {
		if k, ok := static.Kind(name); ok {
			merged.Define(name, k)
		}
	}
	return d.get(merged, filter, names)
}

func (d *Driver) vocabulary() (*jailparam.Schema, error) {
	if d.Vocabulary != nil {
		return d.Vocabulary()
	}
	return jailparam.ProbeSchema()
}

func (d *Driver) get(schema *jailparam.Schema, filter *jailparam.Table, names []string) (*jailparam.Table, JID, error) {
	const op = "get"
	var pairs []jailparam.Pair
	seen := make(map[string]bool, len(names))
	if filter != nil {
		var err error
		pairs, err = jailparam.Encode(filter, jailparam.Framing{})
		if err != nil {
			return nil, 0, &Error{Kind: structuralKind(err), Op: op, Err: err}
		}
		for _, n := range filter.Names() {
			seen[n] = true
		}
	}
	for _, name := range names {
		if seen[name] {
			continue
		}
		seen[name] = true
		kind, ok := schema.Kind(name)
		if !ok {
			kind = jailparam.KindBlob
		}
		pairs = append(pairs, jailparam.QueryPair(name, kind))
	}
	wantMsg := !d.NoErrMsg && !seen[ParamErrMsg]
	if wantMsg {
		pairs = append(pairs, errmsgPair())
	}

	all := jailparam.Frame(pairs, d.GetFraming)
	dataStart, dataEnd := 0, len(all)
	switch d.GetFraming.Header {
	case jailparam.CountLeading:
		dataStart = 1
	case jailparam.CountTrailing:
		dataEnd--
	}
	data := all[dataStart:dataEnd]

	flags := d.getFlags()
	for attempt := 0; ; attempt++ {
		jid, errno := d.sys().JailGet(all, flags)
		// EINVAL and ENOMEM may mean undersized buffers; anything else is
		// final. Whether they did is decided by the reported sizes below.
		if errno != 0 && errno != syscall.EINVAL && errno != syscall.ENOMEM {
			return nil, 0, d.kernelError(op, errno, data)
		}
		var grow []int
		for i := range data {
			if data[i].Size > len(data[i].Value) {
				grow = append(grow, i)
			}
		}
		if len(grow) == 0 {
			if errno != 0 {
				return nil, 0, d.kernelError(op, errno, data)
			}
			// Unframe rather than slicing the header off, so a count the
			// kernel rewrote to disagree with the pairs is caught.
			resp, err := jailparam.Unframe(all, d.GetFraming)
			if err != nil {
				return nil, 0, &Error{Kind: structuralKind(err), Op: op, Err: err}
			}
			tbl, err := d.decodeGet(schema, resp, wantMsg)
			if err != nil {
				return nil, 0, &Error{Kind: structuralKind(err), Op: op, Err: err}
			}
			return tbl, JID(jid), nil
		}
		if attempt == d.maxRetries() {
			return nil, 0, &Error{
				Kind:  BufferNegotiationFailed,
				Op:    op,
				Errno: errno,
				Msg:   fmt.Sprintf("buffers still undersized after %d retries", attempt),
			}
		}
		for _, i := range grow {
			data[i].Grow()
		}
	}
}

// decodeGet strips the injected errmsg pair and decodes the rest. Pairs the
// kernel answered with zero bytes are parameters the jail does not carry,
// such as an empty address list, and are left out of the result.
func (d *Driver) decodeGet(schema *jailparam.Schema, data []jailparam.Pair, dropMsg bool) (*jailparam.Table, error) {
	out := make([]jailparam.Pair, 0, len(data))
	for _, p := range data {
		if p.Size == 0 {
			continue
		}
		if dropMsg && p.ParamName() == ParamErrMsg {
			continue
		}
		out = append(out, p)
	}
	return jailparam.Decode(out, schema, jailparam.Framing{})
}

// Remove kills the jail identified by the table's jid or name along with
// every process inside it. Parameters other than the identifier are
// ignored; a name is resolved to a jid with one extra get call.
func (d *Driver) Remove(t *jailparam.Table) error {
	_, err := d.remove(t)
	return err
}

func (d *Driver) remove(t *jailparam.Table) (JID, error) {
	const op = "remove"
	jid, err := d.resolveJID(op, t)
	if err != nil {
		return 0, err
	}
	return jid, d.RemoveJID(jid)
}

// RemoveJID kills the jail with the given id
func (d *Driver) RemoveJID(jid JID) error {
	const op = "remove"
	if jid <= 0 {
		return &Error{Kind: MissingIdentifier, Op: op, Msg: fmt.Sprintf("%d is not a live jail id", jid)}
	}
	if errno := d.sys().JailRemove(int32(jid)); errno != 0 {
		return &Error{Kind: errnoKind(errno), Op: op, Errno: errno}
	}
	return nil
}

// Attach moves the calling process into the jail identified by the table's
// jid or name. The containment change is process global and irreversible
// within the calling process.
func (d *Driver) Attach(t *jailparam.Table) error {
	_, err := d.attach(t)
	return err
}

func (d *Driver) attach(t *jailparam.Table) (JID, error) {
	const op = "attach"
	jid, err := d.resolveJID(op, t)
	if err != nil {
		return 0, err
	}
	return jid, d.AttachJID(jid)
}

// AttachJID moves the calling process into the jail with the given id
func (d *Driver) AttachJID(jid JID) error {
	const op = "attach"
	if jid <= 0 {
		return &Error{Kind: MissingIdentifier, Op: op, Msg: fmt.Sprintf("%d is not a live jail id", jid)}
	}
	if errno := d.sys().JailAttach(int32(jid)); errno != 0 {
		return &Error{Kind: errnoKind(errno), Op: op, Errno: errno}
	}
	return nil
}

// List enumerates jails by chaining get calls through the lastjid
// parameter until the kernel reports no more. names selects the parameters
// fetched per jail; the jid parameter is always included.
func (d *Driver) List(names ...string) ([]*jailparam.Table, error) {
	const op = "list"
	out := []*jailparam.Table{}
	withJID := append([]string{ParamJID}, names...)
	last := JID(0)
	for {
		filter := jailparam.NewTable()
		if err := filter.Insert(ParamLastJID, jailparam.Int32(int32(last))); err != nil {
			return nil, &Error{Kind: structuralKind(err), Op: op, Err: err}
		}
		tbl, jid, err := d.Get(filter, withJID...)
		if err != nil {
			if KindOf(err) == NotFound {
				return out, nil
			}
			if e, ok := err.(*Error); ok {
				e.Op = op
			}
			return nil, err
		}
		if jid <= last {
			return nil, &Error{Kind: Unavailable, Op: op, Msg: "kernel returned a non-increasing jail id"}
		}
		last = jid
		out = append(out, tbl)
	}
}

// resolveJID extracts the target jail from the table, issuing one get call
// when only a name is present. Tables carrying neither a positive jid nor
// a non empty name fail with MissingIdentifier before any system call.
func (d *Driver) resolveJID(op string, t *jailparam.Table) (JID, error) {
	if t != nil {
		if v, ok := t.Get(ParamJID); ok {
			if n, ok := v.Int32(); ok && n > 0 {
				return JID(n), nil
			}
		}
		if v, ok := t.Get(ParamName); ok {
			if s, ok := v.Text(); ok && s != "" {
				filter := jailparam.NewTable()
				if err := filter.Insert(ParamName, jailparam.Text(s)); err != nil {
					return 0, &Error{Kind: structuralKind(err), Op: op, Err: err}
				}
				_, jid, err := d.Get(filter)
				if err != nil {
					if e, ok := err.(*Error); ok {
						e.Op = op
					}
					return 0, err
				}
				return jid, nil
			}
		}
	}
	return 0, &Error{Kind: MissingIdentifier, Op: op, Msg: "table carries neither jid nor name"}
}

// kernelError builds the typed error for a failed call, folding in the
// kernel's errmsg text when a pair captured one
func (d *Driver) kernelError(op string, errno syscall.Errno, pairs []jailparam.Pair) error {
	msg := errmsgText(pairs)
	kind, param := errmsgKind(errno, msg)
	return &Error{Kind: kind, Op: op, Param: param, Errno: errno, Msg: msg}
}

// errmsgPair builds the pair the kernel fills with human readable error
// text when a call fails
func errmsgPair() jailparam.Pair {
	return jailparam.Pair{
		Name:  append([]byte(ParamErrMsg), 0),
		Value: make([]byte, JAIL_ERRMSGLEN),
		Size:  JAIL_ERRMSGLEN,
	}
}

// errmsgText pulls the NUL terminated error text out of the errmsg pair
func errmsgText(pairs []jailparam.Pair) string {
	for i := range pairs {
		p := &pairs[i]
		if p.ParamName() != ParamErrMsg || len(p.Value) == 0 {
			continue
		}
		b := p.Value
		if p.Size > 0 && p.Size <= len(b) {
			b = b[:p.Size]
		}
		if j := bytes.IndexByte(b, 0); j >= 0 {
			b = b[:j]
		}
		return string(b)
	}
	return ""
}
