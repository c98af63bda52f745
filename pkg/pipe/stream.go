package pipe

import (
	"errors"
	"fmt"
	"io"
)

// StreamSource reads raw elements from a byte stream into a buffer.
//
// Each activation issues one read for as many bytes as the output buffer
// can hold. If the read stops inside an element, additional blocking reads
// are issued for exactly the remaining bytes, so the buffer never holds a
// partial element. With Loop set and a seekable reader, end of stream
// rewinds to the start instead of going idle.
//
// The reader is borrowed from the caller and never closed.
type StreamSource[T any] struct {
	// Loop rewinds the stream to its origin on end of stream. The reader
	// must implement io.Seeker.
	Loop bool

	name string
	sch  *Scheduler
	r    io.Reader
	out  *Buffer[T]
	elem int
}

// NewStreamSource creates a source block reading from r into out.
func NewStreamSource[T any](sch *Scheduler, name string, r io.Reader, out *Buffer[T]) *StreamSource[T] {
	s := &StreamSource[T]{
		name: name,
		sch:  sch,
		r:    r,
		out:  out,
		elem: sizeOf[T](),
	}
	sch.addBlock(s)
	return s
}

// Name implements Block.
func (s *StreamSource[T]) Name() string { return s.name }

// Step implements Block.
func (s *StreamSource[T]) Step() error {
	ws := s.out.WriteSlice()
	if len(ws) == 0 {
		return nil
	}
	dst := asBytes(ws)

	n, err := s.r.Read(dst)
	if n == 0 {
		if err != nil && !errors.Is(err, io.EOF) {
			return fmt.Errorf("read: %w", err)
		}
		if !s.Loop {
			return nil // end of stream, stay idle
		}
		sk, ok := s.r.(io.Seeker)
		if !ok {
			return fmt.Errorf("loop: %T is not seekable", s.r)
		}
		s.sch.trace("source looping", "block", s.name)
		if _, serr := sk.Seek(0, io.SeekStart); serr != nil {
			return fmt.Errorf("loop seek: %w", serr)
		}
		n, err = s.r.Read(dst)
		if n == 0 {
			if err != nil && !errors.Is(err, io.EOF) {
				return fmt.Errorf("read: %w", err)
			}
			return errors.New("loop over empty stream")
		}
	}

	// Always stop at an element boundary, blocking for the tail of a
	// partially transferred element if necessary. A stream that ends
	// mid-element is broken.
	if rem := n % s.elem; rem != 0 {
		need := s.elem - rem
		s.sch.trace("completing partial element", "block", s.name, "bytes", need)
		if _, ferr := io.ReadFull(s.r, dst[n:n+need]); ferr != nil {
			return fmt.Errorf("stream ended inside an element: %w", ferr)
		}
		n += need
		err = nil
	}
	s.out.CommitWrite(n / s.elem)

	if err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("read: %w", err)
	}
	return nil
}

// StreamSink writes raw elements from a buffer to a byte stream.
//
// Each activation issues one write of all readable bytes and consumes the
// elements actually written. A write that stops inside an element means
// downstream can never be realigned, so it is an error rather than
// buffered for continuation.
//
// The writer is borrowed from the caller and never closed.
type StreamSink[T any] struct {
	name string
	sch  *Scheduler
	w    io.Writer
	in   *Buffer[T]
	elem int
}

// NewStreamSink creates a sink block writing in to w.
func NewStreamSink[T any](sch *Scheduler, name string, w io.Writer, in *Buffer[T]) *StreamSink[T] {
	k := &StreamSink[T]{
		name: name,
		sch:  sch,
		w:    w,
		in:   in,
		elem: sizeOf[T](),
	}
	sch.addBlock(k)
	return k
}

// Name implements Block.
func (k *StreamSink[T]) Name() string { return k.name }

// Step implements Block.
func (k *StreamSink[T]) Step() error {
	rs := k.in.ReadSlice()
	if len(rs) == 0 {
		return nil
	}
	src := asBytes(rs)

	n, err := k.w.Write(src)
	if err != nil {
		return fmt.Errorf("write: %w", err)
	}
	if n == 0 {
		return errors.New("write made no progress")
	}
	if n%k.elem != 0 {
		return fmt.Errorf("write split an element: %d bytes of %d-byte elements", n, k.elem)
	}
	k.in.CommitRead(n / k.elem)
	return nil
}
