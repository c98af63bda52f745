package pipe

import "fmt"

// Serializer reshapes a stream of elements of one width into a stream of
// elements of another width, preserving byte content exactly. It supports
// both widening (packing several narrow elements into one wide element)
// and narrowing (unpacking one wide element into several narrow ones).
//
// The copy is a reinterpretation of the same bytes at a different element
// granularity, not a numeric conversion, so both element types must be
// pointer-free.
type Serializer[Tin, Tout any] struct {
	name string
	in   *Buffer[Tin]
	out  *Buffer[Tout]
	nin  int // input elements per group
	nout int // output elements per group
}

// NewSerializer creates a serializer block. The two element sizes must
// have an exact integer ratio; incompatible widths are rejected here, not
// per activation.
func NewSerializer[Tin, Tout any](sch *Scheduler, name string, in *Buffer[Tin], out *Buffer[Tout]) (*Serializer[Tin, Tout], error) {
	a, b := sizeOf[Tin](), sizeOf[Tout]()
	nin := max(1, b/a)
	nout := max(1, a/b)
	if nin*a != nout*b {
		return nil, fmt.Errorf("pipe: serializer %s: incompatible element sizes %d and %d", name, a, b)
	}
	s := &Serializer[Tin, Tout]{
		name: name,
		in:   in,
		out:  out,
		nin:  nin,
		nout: nout,
	}
	sch.addBlock(s)
	return s, nil
}

// Name implements Block.
func (s *Serializer[Tin, Tout]) Name() string { return s.name }

// Step implements Block.
func (s *Serializer[Tin, Tout]) Step() error {
	for s.in.Readable() >= s.nin && s.out.Writable() >= s.nout {
		src := asBytes(s.in.ReadSlice()[:s.nin])
		dst := asBytes(s.out.WriteSlice()[:s.nout])
		copy(dst, src)
		s.in.CommitRead(s.nin)
		s.out.CommitWrite(s.nout)
	}
	return nil
}
