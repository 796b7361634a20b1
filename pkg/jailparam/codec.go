package jailparam

import "fmt"

// CountHeader selects where the codec places the synthetic element count
// pair, for call sites whose kernel interface expects one.
type CountHeader uint8

// Count header placements. The default CountNone matches the stock jail(2)
// interface, which carries no count on the wire.
const (
	CountNone CountHeader = iota
	CountLeading
	CountTrailing
)

// Framing configures the count header for one codec call. The zero Framing
// emits no header. Name overrides the parameter name used for the count
// pair; empty means "count".
type Framing struct {
	Header CountHeader
	Name   string
}

func (f Framing) countName() string {
	if f.Name == "" {
		return "count"
	}
	return f.Name
}

// Encode renders the table into wire pairs in insertion order and applies
// the framing. All buffers are freshly allocated; the table is not retained
// or modified.
func Encode(t *Table, f Framing) ([]Pair, error) {
	pairs := make([]Pair, 0, t.Len()+1)
	for _, e := range t.entries {
		buf, err := e.Value.Encode()
		if err != nil {
			return nil, fmt.Errorf("jailparam: encode %s: %w", e.Name, err)
		}
		pairs = append(pairs, Pair{Name: nameBytes(e.Name), Value: buf, Size: len(buf)})
	}
	return Frame(pairs, f), nil
}

// Frame injects the count header pair around the data pairs. The count
// covers data pairs only. With CountNone the input slice is returned
// unchanged.
func Frame(pairs []Pair, f Framing) []Pair {
	if f.Header == CountNone {
		return pairs
	}
	buf, _ := Count(uint32(len(pairs))).Encode()
	count := Pair{Name: nameBytes(f.countName()), Value: buf, Size: len(buf)}
	switch f.Header {
	case CountLeading:
		return append([]Pair{count}, pairs...)
	default:
		return append(pairs, count)
	}
}

// Unframe strips and verifies the count header pair, returning the data
// pairs. A missing header, a wrong header name or a count that disagrees
// with the number of data pairs fails with ErrMalformed.
func Unframe(pairs []Pair, f Framing) ([]Pair, error) {
	if f.Header == CountNone {
		return pairs, nil
	}
	if len(pairs) == 0 {
		return nil, fmt.Errorf("jailparam: missing %s header pair: %w", f.countName(), ErrMalformed)
	}
	var count Pair
	var data []Pair
	switch f.Header {
	case CountLeading:
		count, data = pairs[0], pairs[1:]
	default:
		count, data = pairs[len(pairs)-1], pairs[:len(pairs)-1]
	}
	if name := count.ParamName(); name != f.countName() {
		return nil, fmt.Errorf("jailparam: count header named %q, want %q: %w", name, f.countName(), ErrMalformed)
	}
	v, err := DecodeValue(count.Data(), KindCount)
	if err != nil {
		return nil, err
	}
	if n, _ := v.Count(); int(n) != len(data) {
		return nil, fmt.Errorf("jailparam: count header says %d pairs, have %d: %w", n, len(data), ErrMalformed)
	}
	return data, nil
}

// Decode interprets kernel written pairs as a parameter table. The framing
// is verified and stripped first. Each pair's kind comes from the schema;
// names the schema does not know decode as opaque blobs. A nil schema
// decodes everything as blobs.
func Decode(pairs []Pair, s *Schema, f Framing) (*Table, error) {
	data, err := Unframe(pairs, f)
	if err != nil {
		return nil, err
	}
	t := NewTable()
	for _, p := range data {
		name, err := decodeName(p.Name)
		if err != nil {
			return nil, err
		}
		if p.Size > len(p.Value) {
			return nil, fmt.Errorf("jailparam: %s: reported size %d exceeds %d byte buffer: %w",
				name, p.Size, len(p.Value), ErrMalformed)
		}
		kind, ok := s.Kind(name)
		if !ok {
			kind = KindBlob
		}
		v, err := DecodeValue(p.Data(), kind)
		if err != nil {
			return nil, fmt.Errorf("jailparam: decode %s: %w", name, err)
		}
		if err := t.Insert(name, v); err != nil {
			return nil, err
		}
	}
	return t, nil
}

func decodeName(raw []byte) (string, error) {
	if len(raw) == 0 || raw[len(raw)-1] != 0 {
		return "", fmt.Errorf("jailparam: name buffer missing NUL terminator: %w", ErrName)
	}
	name := string(raw[:len(raw)-1])
	if name == "" {
		return "", fmt.Errorf("jailparam: empty name buffer: %w", ErrName)
	}
	return name, nil
}
