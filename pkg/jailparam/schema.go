package jailparam

import "sort"

// Schema maps parameter names to their wire kinds for decoding. The kernel
// sends untyped buffers; decode needs a schema to interpret them. A Schema
// is safe for concurrent reads once built.
type Schema struct {
	kinds map[string]Kind
}

// NewSchema creates a schema from a name to kind map. The map is copied.
func NewSchema(kinds map[string]Kind) *Schema {
	s := &Schema{kinds: make(map[string]Kind, len(kinds))}
	for name, k := range kinds {
		s.kinds[name] = k
	}
	return s
}

// Kind returns the wire kind registered for name. A nil schema knows no
// names.
func (s *Schema) Kind(name string) (Kind, bool) {
	if s == nil {
		return 0, false
	}
	k, ok := s.kinds[name]
	return k, ok
}

// Clone returns a schema with the same definitions. A nil schema clones to
// an empty one.
func (s *Schema) Clone() *Schema {
	if s == nil {
		return NewSchema(nil)
	}
	return NewSchema(s.kinds)
}

// Define registers or overrides the kind for a name
func (s *Schema) Define(name string, k Kind) {
	if s.kinds == nil {
		s.kinds = make(map[string]Kind)
	}
	s.kinds[name] = k
}

// Names returns all registered parameter names in sorted order
func (s *Schema) Names() []string {
	if s == nil {
		return nil
	}
	names := make([]string, 0, len(s.kinds))
	for name := range s.kinds {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Len returns the number of registered names
func (s *Schema) Len() int {
	if s == nil {
		return 0
	}
	return len(s.kinds)
}

// classifyNode infers a parameter's wire kind from the raw value of its
// security.jail.param sysctl node. Integer parameters publish their width,
// string parameters publish their maximum length in decimal.
func classifyNode(raw []byte) Kind {
	switch {
	case len(raw) == 4:
		return KindInt32
	case len(raw) == 8:
		return KindInt64
	case isSizeDigits(raw):
		return KindText
	}
	return KindBlob
}

func isSizeDigits(raw []byte) bool {
	for len(raw) > 0 && raw[len(raw)-1] == 0 {
		raw = raw[:len(raw)-1]
	}
	if len(raw) == 0 {
		return false
	}
	for _, c := range raw {
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}

// defaultKinds is the stock jail parameter vocabulary from jail(8). It is a
// static snapshot; ProbeKind discovers parameters this table misses on a
// live kernel.
var defaultKinds = map[string]Kind{
	"jid":     KindInt32,
	"parent":  KindInt32,
	"lastjid": KindInt32,
	"name":    KindText,
	"path":    KindText,
	"errmsg":  KindText,

	"host.hostname":   KindText,
	"host.domainname": KindText,
	"host.hostuuid":   KindText,
	"host.hostid":     KindInt64,

	"ip4":          KindInt32,
	"ip4.addr":     KindIPv4,
	"ip4.saddrsel": KindBool,
	"ip6":          KindInt32,
	"ip6.addr":     KindIPv6,
	"ip6.saddrsel": KindBool,

	"persist": KindBool,
	"dying":   KindBool,
	"vnet":    KindInt32,

	"securelevel":    KindInt32,
	"devfs_ruleset":  KindInt32,
	"enforce_statfs": KindInt32,
	"children.cur":   KindInt32,
	"children.max":   KindInt32,
	"cpuset.id":      KindInt32,
	"osreldate":      KindInt32,
	"osrelease":      KindText,

	"allow.set_hostname":   KindBool,
	"allow.sysvipc":        KindBool,
	"allow.raw_sockets":    KindBool,
	"allow.chflags":        KindBool,
	"allow.mount":          KindBool,
	"allow.mount.devfs":    KindBool,
	"allow.mount.nullfs":   KindBool,
	"allow.mount.procfs":   KindBool,
	"allow.mount.tmpfs":    KindBool,
	"allow.mount.zfs":      KindBool,
	"allow.quotas":         KindBool,
	"allow.socket_af":      KindBool,
	"allow.mlock":          KindBool,
	"allow.reserved_ports": KindBool,
}

// DefaultSchema returns a fresh schema holding the stock jail parameter
// vocabulary. Callers may extend the returned schema freely.
func DefaultSchema() *Schema {
	return NewSchema(defaultKinds)
}
