package pipe

// Counter emits the number of input elements consumed per activation into
// a numeric output buffer. Input elements are consumed without inspection.
type Counter[Tin any, Tout Number] struct {
	name string
	in   *Buffer[Tin]
	out  *Buffer[Tout]
}

// NewCounter creates a counter block.
func NewCounter[Tin any, Tout Number](sch *Scheduler, name string, in *Buffer[Tin], out *Buffer[Tout]) *Counter[Tin, Tout] {
	c := &Counter[Tin, Tout]{name: name, in: in, out: out}
	sch.addBlock(c)
	return c
}

// Name implements Block.
func (c *Counter[Tin, Tout]) Name() string { return c.name }

// Step implements Block.
func (c *Counter[Tin, Tout]) Step() error {
	if c.out.Writable() < 1 {
		return nil
	}
	n := c.in.Readable()
	if n == 0 {
		return nil
	}
	c.out.WriteSlice()[0] = Tout(n)
	c.out.CommitWrite(1)
	c.in.CommitRead(n)
	return nil
}
