package pipe

import "fmt"

// Decimator forwards the first element of every group of factor input
// elements and discards the rest.
type Decimator[T any] struct {
	name   string
	factor int
	in     *Buffer[T]
	out    *Buffer[T]
}

// NewDecimator creates a decimator block. The factor must be at least 1.
func NewDecimator[T any](sch *Scheduler, name string, factor int, in, out *Buffer[T]) (*Decimator[T], error) {
	if factor < 1 {
		return nil, fmt.Errorf("pipe: decimator %s: factor %d", name, factor)
	}
	d := &Decimator[T]{name: name, factor: factor, in: in, out: out}
	sch.addBlock(d)
	return d, nil
}

// Name implements Block.
func (d *Decimator[T]) Name() string { return d.name }

// Factor returns the decimation factor.
func (d *Decimator[T]) Factor() int { return d.factor }

// Step implements Block.
func (d *Decimator[T]) Step() error {
	groups := min(d.in.Readable()/d.factor, d.out.Writable())
	if groups == 0 {
		return nil
	}
	rs := d.in.ReadSlice()
	ws := d.out.WriteSlice()
	for i := 0; i < groups; i++ {
		ws[i] = rs[i*d.factor]
	}
	d.in.CommitRead(groups * d.factor)
	d.out.CommitWrite(groups)
	return nil
}
