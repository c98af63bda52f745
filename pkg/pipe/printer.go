package pipe

import (
	"bufio"
	"fmt"
	"io"
)

// TextFormatter renders buffer contents as formatted text, one line per
// emitted value, optionally decimated and scaled.
//
// Each activation consumes every readable element. A phase counter
// advances per element and wraps at Decimation; only the wrapping element
// is formatted (after multiplying by Scale) and written. Skipped elements
// are consumed all the same.
type TextFormatter[T Number] struct {
	// Scale multiplies every emitted value. Defaults to 1.
	Scale T

	// Decimation emits one line per this many elements. Defaults to 1.
	Decimation int

	name   string
	in     *Buffer[T]
	w      io.Writer
	format string
	phase  int
}

// NewTextFormatter creates a formatter block rendering in to w with the
// given fmt template, which must have a single numeric verb.
func NewTextFormatter[T Number](sch *Scheduler, name, format string, in *Buffer[T], w io.Writer) *TextFormatter[T] {
	f := &TextFormatter[T]{
		Scale:      1,
		Decimation: 1,
		name:       name,
		in:         in,
		w:          w,
		format:     format,
	}
	sch.addBlock(f)
	return f
}

// Name implements Block.
func (f *TextFormatter[T]) Name() string { return f.name }

// Step implements Block.
func (f *TextFormatter[T]) Step() error {
	d := f.Decimation
	if d < 1 {
		d = 1
	}
	rs := f.in.ReadSlice()
	for _, v := range rs {
		f.phase++
		if f.phase >= d {
			f.phase -= d
			if _, err := fmt.Fprintf(f.w, f.format, v*f.Scale); err != nil {
				return fmt.Errorf("format: %w", err)
			}
		}
	}
	f.in.CommitRead(len(rs))
	return nil
}

// ArrayFormatter renders all readable complex elements as one formatted
// array per activation: a head template parameterized by the element
// count, one formatted re/im pair per element (scaled), then a tail
// string, flushed at the end.
//
// A nil writer still drains the input, so an upstream producer is never
// stalled by a disabled output.
type ArrayFormatter[T Number] struct {
	// Scale multiplies both parts of every emitted pair. Defaults to 1.
	Scale T

	name   string
	in     *Buffer[Complex[T]]
	bw     *bufio.Writer // nil when output is disabled
	head   string        // fmt template with one %d for the count
	format string        // fmt template with two numeric verbs
	tail   string
}

// NewArrayFormatter creates an array formatter block rendering in to w.
// w may be nil to discard input without formatting.
func NewArrayFormatter[T Number](sch *Scheduler, name, head, format, tail string, in *Buffer[Complex[T]], w io.Writer) *ArrayFormatter[T] {
	f := &ArrayFormatter[T]{
		Scale:  1,
		name:   name,
		in:     in,
		head:   head,
		format: format,
		tail:   tail,
	}
	if w != nil {
		f.bw = bufio.NewWriter(w)
	}
	sch.addBlock(f)
	return f
}

// Name implements Block.
func (f *ArrayFormatter[T]) Name() string { return f.name }

// Step implements Block.
func (f *ArrayFormatter[T]) Step() error {
	rs := f.in.ReadSlice()
	if len(rs) == 0 {
		return nil
	}
	if f.bw != nil {
		if f.head != "" {
			if _, err := fmt.Fprintf(f.bw, f.head, len(rs)); err != nil {
				return fmt.Errorf("format head: %w", err)
			}
		}
		for _, c := range rs {
			if _, err := fmt.Fprintf(f.bw, f.format, c.Re*f.Scale, c.Im*f.Scale); err != nil {
				return fmt.Errorf("format element: %w", err)
			}
		}
		if _, err := f.bw.WriteString(f.tail); err != nil {
			return fmt.Errorf("format tail: %w", err)
		}
		if err := f.bw.Flush(); err != nil {
			return fmt.Errorf("flush: %w", err)
		}
	}
	f.in.CommitRead(len(rs))
	return nil
}
