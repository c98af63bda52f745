package pipe

// MemorySource copies elements from a caller-owned slice into a buffer,
// bridging the pipeline to memory the caller already holds. It advances an
// internal cursor and becomes permanently idle once the slice is
// exhausted.
type MemorySource[T any] struct {
	name string
	data []T
	pos  int
	out  *Buffer[T]
}

// NewMemorySource creates a source block producing the elements of data.
// The slice is borrowed, not copied; the caller must not mutate it while
// the pipeline runs.
func NewMemorySource[T any](sch *Scheduler, name string, data []T, out *Buffer[T]) *MemorySource[T] {
	m := &MemorySource[T]{name: name, data: data, out: out}
	sch.addBlock(m)
	return m
}

// Name implements Block.
func (m *MemorySource[T]) Name() string { return m.name }

// Done reports whether every element has been produced.
func (m *MemorySource[T]) Done() bool { return m.pos == len(m.data) }

// Step implements Block.
func (m *MemorySource[T]) Step() error {
	n := min(m.out.Writable(), len(m.data)-m.pos)
	if n == 0 {
		return nil
	}
	copy(m.out.WriteSlice()[:n], m.data[m.pos:])
	m.pos += n
	m.out.CommitWrite(n)
	return nil
}

// MemorySink copies elements from a buffer into a caller-owned slice,
// advancing an internal cursor and stopping once the slice is full.
type MemorySink[T any] struct {
	name string
	in   *Buffer[T]
	data []T
	pos  int
}

// NewMemorySink creates a sink block filling data from in.
func NewMemorySink[T any](sch *Scheduler, name string, in *Buffer[T], data []T) *MemorySink[T] {
	m := &MemorySink[T]{name: name, in: in, data: data}
	sch.addBlock(m)
	return m
}

// Name implements Block.
func (m *MemorySink[T]) Name() string { return m.name }

// Filled returns the number of elements copied so far.
func (m *MemorySink[T]) Filled() int { return m.pos }

// Step implements Block.
func (m *MemorySink[T]) Step() error {
	n := min(m.in.Readable(), len(m.data)-m.pos)
	if n == 0 {
		return nil
	}
	copy(m.data[m.pos:], m.in.ReadSlice()[:n])
	m.in.CommitRead(n)
	m.pos += n
	return nil
}
