package pipe

import "fmt"

// Buffer is a bounded queue of fixed-width elements shared by exactly one
// producing block and one consuming block. The readable region and the free
// region always add up to the full capacity, and elements are delivered
// strictly in the order they were committed.
//
// Storage is linear: the readable region is compacted to the front of the
// backing slice on demand, so ReadSlice and WriteSlice always return
// contiguous memory. Compaction is cheap in practice because most blocks
// drain everything readable each activation, which resets the region to the
// front for free.
//
// A Buffer performs no locking. It is safe exactly because the scheduler
// runs all blocks on a single goroutine; see the package documentation.
type Buffer[T any] struct {
	name   string
	buf    []T
	rd, wr int

	// Lifetime element counters, used by the scheduler for progress
	// detection and stats.
	in, out uint64
}

// NewBuffer creates a buffer of the given capacity and registers it with
// the scheduler. The name is diagnostic only.
func NewBuffer[T any](sch *Scheduler, name string, size int) *Buffer[T] {
	if size < 1 {
		panic(fmt.Sprintf("pipe: buffer %s: capacity %d", name, size))
	}
	b := &Buffer[T]{name: name, buf: make([]T, size)}
	sch.addBuffer(b)
	return b
}

// Name returns the diagnostic name of the buffer.
func (b *Buffer[T]) Name() string { return b.name }

// Cap returns the total capacity in elements.
func (b *Buffer[T]) Cap() int { return len(b.buf) }

// Readable returns the number of elements committed by the producer and
// not yet consumed.
func (b *Buffer[T]) Readable() int { return b.wr - b.rd }

// Writable returns the number of elements the producer may still commit.
func (b *Buffer[T]) Writable() int { return len(b.buf) - (b.wr - b.rd) }

// ReadSlice returns the readable region. Its length equals Readable().
// The slice is valid until the next commit on this buffer.
func (b *Buffer[T]) ReadSlice() []T { return b.buf[b.rd:b.wr] }

// WriteSlice returns the free region the producer may fill before calling
// CommitWrite. Its length equals Writable(). The slice is valid until the
// next commit on this buffer.
func (b *Buffer[T]) WriteSlice() []T {
	b.compact()
	return b.buf[b.wr:]
}

// CommitWrite publishes n elements previously stored via WriteSlice.
// Committing more than Writable() is a bug in the calling block and panics.
func (b *Buffer[T]) CommitWrite(n int) {
	if n < 0 || n > b.Writable() {
		panic(fmt.Sprintf("pipe: buffer %s: commit %d of %d writable", b.name, n, b.Writable()))
	}
	b.compact()
	b.wr += n
	b.in += uint64(n)
}

// CommitRead consumes n elements from the front of the readable region.
// Consuming more than Readable() is a bug in the calling block and panics.
func (b *Buffer[T]) CommitRead(n int) {
	if n < 0 || n > b.Readable() {
		panic(fmt.Sprintf("pipe: buffer %s: consume %d of %d readable", b.name, n, b.Readable()))
	}
	b.rd += n
	b.out += uint64(n)
	if b.rd == b.wr {
		b.rd, b.wr = 0, 0
	}
}

// compact moves the readable region to the front of the backing slice so
// the free region is contiguous.
func (b *Buffer[T]) compact() {
	if b.rd == 0 {
		return
	}
	copy(b.buf, b.buf[b.rd:b.wr])
	b.wr -= b.rd
	b.rd = 0
}

// stats implements bufferState.
func (b *Buffer[T]) stats() BufferStats {
	return BufferStats{
		Name:     b.name,
		Cap:      len(b.buf),
		Readable: b.Readable(),
		In:       b.in,
		Out:      b.out,
	}
}

// totalIn implements bufferState.
func (b *Buffer[T]) totalIn() uint64 { return b.in }
