package jailparam

// Pair is one name / value buffer pair as submitted to jail_set(2) or
// jail_get(2). Name holds the NUL terminated parameter name. Value is the
// value buffer; a nil Value asks the kernel to report the needed size
// without copying data. Size starts as the submitted buffer length and is
// overwritten by the kernel with the byte count it wrote or wants.
type Pair struct {
	Name  []byte
	Value []byte
	Size  int
}

// ParamName returns the parameter name without its NUL terminator
func (p Pair) ParamName() string {
	n := p.Name
	if len(n) > 0 && n[len(n)-1] == 0 {
		n = n[:len(n)-1]
	}
	return string(n)
}

// Data returns the kernel written portion of the value buffer. It must only
// be called once Size fits the buffer.
func (p Pair) Data() []byte {
	return p.Value[:p.Size]
}

// Grow reallocates the value buffer to the kernel reported size
func (p *Pair) Grow() {
	p.Value = make([]byte, p.Size)
}

// QueryPair builds a pair requesting a parameter from the kernel. Fixed
// width kinds get an exactly sized buffer; variable width kinds submit a nil
// buffer so the kernel reports the needed size first.
func QueryPair(name string, kind Kind) Pair {
	p := Pair{Name: nameBytes(name)}
	if w, ok := kind.FixedSize(); ok {
		p.Value = make([]byte, w)
		p.Size = w
	}
	return p
}

func nameBytes(name string) []byte {
	buf := make([]byte, len(name)+1)
	copy(buf, name)
	return buf
}
